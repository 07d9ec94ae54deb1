package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cliff-rosen/jam-bot-sub001/internal/config"
	"github.com/cliff-rosen/jam-bot-sub001/internal/tool"
)

var (
	configFile string
	verbose    bool

	cfg      *config.Config
	registry tool.Registry
)

var rootCmd = &cobra.Command{
	Use:   "jambot",
	Short: "JamBot - mission planning and variable-flow engine",
	Long: `JamBot decomposes a mission into workflows, stages, and steps, wires
values between scopes through typed mappings, and derives each step's
readiness from the variables visible at its scope.

The CLI loads mission definitions and tool catalogs from YAML and reports
validation findings, derived statuses, and the inputs available to any
node in the tree.`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command with signal handling.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

// setup loads configuration and the tool catalog before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}

	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}
	cfg = loaded

	reg, err := tool.NewBuiltinRegistry()
	if err != nil {
		return err
	}
	if cfg.CatalogPath != "" {
		if err := tool.LoadCatalog(cfg.CatalogPath, reg); err != nil {
			return err
		}
	}
	registry = reg
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(missionCmd)
	rootCmd.AddCommand(toolCmd)
	rootCmd.AddCommand(versionCmd)
}
