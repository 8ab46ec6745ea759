// Package cli implements the datastd command line: merging, inspecting,
// and validating serialized shot containers.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool

	// Logger is built in PersistentPreRunE and available to every
	// subcommand's RunE.
	Logger *zap.Logger
}

// NewRootCommand creates the root command for the datastd CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "datastd",
		Short: "Standardized accelerator shot data tooling",
		Long: `datastd works with standardized accelerator shot records: single-file
containers holding the inputs, lattice, observables, and summary of one
machine shot or simulation run.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if opts.Verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			opts.Logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.Logger != nil {
				_ = opts.Logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewMergeCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}
