package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/cbsplan/scenario"
)

// ValidationResult is the JSON payload of a successful validate.
type ValidationResult struct {
	Valid        bool   `json:"valid"`
	Scenario     string `json:"scenario"`
	Agents       int    `json:"agents"`
	Environments int    `json:"environments"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario.yaml>",
		Short: "Check a scenario without planning",
		Long: `Parse a scenario and check its grid, environments, ladders and waypoints
without running the planner.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &Formatter{Format: root.Output, Writer: cmd.OutOrStdout()}
			f, err := scenario.Load(args[0])
			if err != nil {
				return fail(out, WrapExitError(ExitCommandError, "invalid scenario", err))
			}
			res := ValidationResult{
				Valid:        true,
				Scenario:     f.Name,
				Agents:       len(f.Agents),
				Environments: len(f.Environments),
				Width:        len(f.Grid[0]),
				Height:       len(f.Grid),
			}
			return out.Message(fmt.Sprintf("scenario %s: %d agents, %dx%d grid, %d environments: ok",
				res.Scenario, res.Agents, res.Width, res.Height, res.Environments), res)
		},
	}
}
