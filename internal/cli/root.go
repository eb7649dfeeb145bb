// Package cli implements the cbsplan command line.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds the global flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
	Output     string // "text" | "json"
}

// ValidOutputs lists the accepted --output values.
var ValidOutputs = []string{"text", "json"}

// NewRootCommand builds the cbsplan command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cbsplan",
		Short: "Conflict-based multi-agent trajectory planner",
		Long: `cbsplan plans collision-free trajectories for several agents sharing a
grid over time, using Conflict-Based Search.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidOutputs, opts.Output) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid output %q: must be one of %v", opts.Output, ValidOutputs))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "planner configuration file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error); overrides the config")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log encoding (console|json); overrides the config")
	cmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", "text", "output format (text|json)")

	cmd.AddCommand(NewSolveCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}
