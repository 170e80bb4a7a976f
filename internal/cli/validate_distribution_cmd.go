package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cyclecoach/engine/internal/distribution"
	"github.com/cyclecoach/engine/internal/methodology"
)

// newValidateDistributionCmd builds "cyclecoach validate-distribution",
// a standalone re-run of the pipeline's mandatory packaging gate against
// an already-rendered workouts directory — useful after hand-editing a
// workout or re-running just this check without regenerating a package.
func newValidateDistributionCmd(app *App) *cobra.Command {
	var methodologyID string

	cmd := &cobra.Command{
		Use:   "validate-distribution <athlete-id>",
		Short: "Re-check a rendered package's zone distribution against its methodology",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			athleteID := args[0]
			if methodologyID == "" {
				return fmt.Errorf("--methodology is required")
			}
			def, found := methodology.Lookup(methodologyID)
			if !found {
				return fmt.Errorf("unknown methodology id %q", methodologyID)
			}

			report, err := distribution.ValidateDir(app.Store.WorkoutsDir(athleteID), def)
			if err != nil {
				return err
			}

			printDistributionReport(cmd, report)
			if !report.Passed {
				return failCheck(fmt.Errorf("distribution out of tolerance for %s", athleteID))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&methodologyID, "methodology", "", "methodology id the package was rendered against")
	return cmd
}

func printDistributionReport(cmd *cobra.Command, report *distribution.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s total workouts: %d\n", checkMark(report.Passed), report.TotalWorkouts)
	for _, b := range report.Buckets {
		style := styleGreen
		switch b.Severity {
		case distribution.SeverityWarning:
			style = styleYellow
		case distribution.SeverityError:
			style = styleRed
		}
		fmt.Fprintf(out, "  %s %-8s target=%.2f actual=%.2f count=%d\n",
			render(style, string(b.Severity)), b.Bucket, b.Target, b.Actual, b.Count)
	}
}
