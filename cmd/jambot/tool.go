package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var toolCmd = &cobra.Command{
	Use:   "tool",
	Short: "Inspect the tool catalog",
}

var toolListTag string

var toolListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered tools",
	RunE:  runToolList,
}

var toolShowCmd = &cobra.Command{
	Use:   "show TOOL_ID",
	Short: "Show a tool's declared inputs and outputs",
	Args:  cobra.ExactArgs(1),
	RunE:  runToolShow,
}

func init() {
	toolListCmd.Flags().StringVar(&toolListTag, "tag", "", "Only list tools carrying this tag")
	toolCmd.AddCommand(toolListCmd)
	toolCmd.AddCommand(toolShowCmd)
}

func runToolList(cmd *cobra.Command, args []string) error {
	specs := registry.List()
	if toolListTag != "" {
		specs = registry.ListByTag(toolListTag)
	}
	if len(specs) == 0 {
		fmt.Println("No tools registered")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tVERSION\tTAGS")
	for _, spec := range specs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", spec.ID, spec.Name, spec.Version, spec.Tags)
	}
	return w.Flush()
}

func runToolShow(cmd *cobra.Command, args []string) error {
	spec, err := registry.Get(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", spec.Name, spec.ID)
	if spec.Description != "" {
		fmt.Printf("  %s\n", spec.Description)
	}
	fmt.Println("Inputs:")
	for _, p := range spec.Inputs {
		required := ""
		if p.Required {
			required = " (required)"
		}
		fmt.Printf("  %s: %s%s\n", p.Name, schemaLabel(p.Schema.Type.String(), p.Schema.IsArray), required)
	}
	fmt.Println("Outputs:")
	for _, o := range spec.Outputs {
		fmt.Printf("  %s: %s\n", o.Name, schemaLabel(o.Schema.Type.String(), o.Schema.IsArray))
	}
	return nil
}

func schemaLabel(typ string, isArray bool) string {
	if isArray {
		return typ + "[]"
	}
	return typ
}
