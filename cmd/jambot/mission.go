package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cliff-rosen/jam-bot-sub001/internal/mission"
	"github.com/cliff-rosen/jam-bot-sub001/internal/plan"
	"github.com/cliff-rosen/jam-bot-sub001/internal/types"
)

var missionCmd = &cobra.Command{
	Use:   "mission",
	Short: "Inspect and validate mission definitions",
}

var (
	missionFile   string
	missionOutput string
	inputsNode    string
)

var missionValidateCmd = &cobra.Command{
	Use:   "validate -f MISSION_FILE",
	Short: "Validate a mission definition",
	Long: `Validate a mission definition: the workflow tree must index cleanly,
composite steps must decompose into at least two substeps, atomic steps
must name registered tools, and every bound input must draw from a
variable visible at its scope with a schema the parameter accepts.

Exit code is non-zero when findings exist and strict mode is on.`,
	RunE: runMissionValidate,
}

var missionStatusCmd = &cobra.Command{
	Use:   "status -f MISSION_FILE",
	Short: "Show derived step statuses for a mission",
	RunE:  runMissionStatus,
}

var missionInputsCmd = &cobra.Command{
	Use:   "inputs -f MISSION_FILE --node NAME",
	Short: "Show the variables visible as inputs to a node",
	RunE:  runMissionInputs,
}

func init() {
	for _, cmd := range []*cobra.Command{missionValidateCmd, missionStatusCmd, missionInputsCmd} {
		cmd.Flags().StringVarP(&missionFile, "file", "f", "", "Path to mission YAML file (required)")
		_ = cmd.MarkFlagRequired("file")
	}
	missionValidateCmd.Flags().StringVar(&missionOutput, "output", "text", "Output format: text, json")
	missionInputsCmd.Flags().StringVar(&inputsNode, "node", "", "Step or stage name to inspect (required)")
	_ = missionInputsCmd.MarkFlagRequired("node")

	missionCmd.AddCommand(missionValidateCmd)
	missionCmd.AddCommand(missionStatusCmd)
	missionCmd.AddCommand(missionInputsCmd)
}

func runMissionValidate(cmd *cobra.Command, args []string) error {
	m, err := mission.LoadMission(missionFile, registry)
	if err != nil {
		return err
	}

	issues := mission.ValidateMission(m, registry)

	if missionOutput == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(issues); err != nil {
			return err
		}
	} else {
		if len(issues) == 0 {
			color.Green("Mission %q is valid", m.Goal)
		} else {
			color.Red("Mission %q has %d finding(s):", m.Goal, len(issues))
			for _, issue := range issues {
				fmt.Printf("  - %s\n", issue.String())
			}
		}
	}

	if len(issues) > 0 && cfg.Strict {
		return mission.Validate(m, registry)
	}
	return nil
}

func runMissionStatus(cmd *cobra.Command, args []string) error {
	m, err := mission.LoadMission(missionFile, registry)
	if err != nil {
		return err
	}

	idx, err := plan.BuildIndex(m.Workflow)
	if err != nil {
		return err
	}

	fmt.Printf("Mission: %s\n", m.Goal)
	for _, stage := range m.Workflow.Stages {
		fmt.Printf("  Stage: %s\n", stage.Name)
		for _, step := range stage.Steps {
			printStepStatus(idx, step, "    ")
		}
	}
	return nil
}

func printStepStatus(idx *plan.Index, step *plan.Step, indent string) {
	status := plan.DeriveStatus(idx, step)
	fmt.Printf("%s%s  %s\n", indent, statusColor(status).Sprintf("[%s]", status), step.Name)
	for _, sub := range step.Substeps {
		printStepStatus(idx, sub, indent+"  ")
	}
}

func statusColor(s plan.StepStatus) *color.Color {
	switch s {
	case plan.StepStatusReady, plan.StepStatusCompleted:
		return color.New(color.FgGreen)
	case plan.StepStatusInProgress:
		return color.New(color.FgCyan)
	case plan.StepStatusFailed:
		return color.New(color.FgRed)
	case plan.StepStatusPendingInputsReady:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgWhite)
	}
}

func runMissionInputs(cmd *cobra.Command, args []string) error {
	m, err := mission.LoadMission(missionFile, registry)
	if err != nil {
		return err
	}

	idx, err := plan.BuildIndex(m.Workflow)
	if err != nil {
		return err
	}

	nodeID, ok := findNodeByName(m.Workflow, inputsNode)
	if !ok {
		return fmt.Errorf("no stage or step named %q in the mission", inputsNode)
	}

	inputs, err := plan.AvailableInputs(idx, nodeID)
	if err != nil {
		return err
	}

	if len(inputs) == 0 {
		fmt.Printf("No inputs are visible to %q\n", inputsNode)
		return nil
	}
	fmt.Printf("Inputs visible to %q:\n", inputsNode)
	for _, v := range inputs {
		line := fmt.Sprintf("  %s (%s", v.Name, v.Schema.Type)
		if v.Schema.IsArray {
			line += "[]"
		}
		line += fmt.Sprintf(", %s)", v.Status)
		fmt.Println(line)
	}
	return nil
}

// findNodeByName resolves a stage or step name to its scope ID, first match
// in tree order.
func findNodeByName(w *plan.Workflow, name string) (types.ID, bool) {
	for _, stage := range w.Stages {
		if stage.Name == name {
			return stage.ID, true
		}
		for _, step := range stage.Steps {
			if id, ok := findStepByName(step, name); ok {
				return id, true
			}
		}
	}
	return "", false
}

func findStepByName(step *plan.Step, name string) (types.ID, bool) {
	if step.Name == name {
		return step.ID, true
	}
	for _, sub := range step.Substeps {
		if id, ok := findStepByName(sub, name); ok {
			return id, true
		}
	}
	return "", false
}
