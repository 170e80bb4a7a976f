package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cyclecoach/engine/internal/logger"
	"github.com/cyclecoach/engine/internal/pipeline"
	"github.com/cyclecoach/engine/internal/pricing"
	"github.com/cyclecoach/engine/internal/profile"
)

// newGeneratePackageCmd builds "cyclecoach generate-package", the
// operator-driven equivalent of the webhook order flow: it reads a
// normalized profile document straight off disk instead of resolving it
// through an IntakeSource, then runs the same ten-stage pipeline.
func newGeneratePackageCmd(app *App) *cobra.Command {
	var profilePath string

	cmd := &cobra.Command{
		Use:   "generate-package <athlete-id>",
		Short: "Run the full pipeline for one athlete from a profile document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			athleteID := args[0]
			if profilePath == "" {
				return fmt.Errorf("--profile is required")
			}

			raw, err := os.ReadFile(profilePath)
			if err != nil {
				return fmt.Errorf("reading profile: %w", err)
			}
			var p profile.Profile
			if err := json.Unmarshal(raw, &p); err != nil {
				return fmt.Errorf("parsing profile: %w", err)
			}
			if p.AthleteID == "" {
				p.AthleteID = athleteID
			}

			orch := pipeline.New(app.Store, app.Archetypes, nil, nil, nil, logger.New(logger.LevelInfo))
			result, err := orch.RunForAthlete(cmd.Context(), athleteID, &p)
			if err != nil {
				return err
			}

			priceCents := pricing.PriceForWeeks(result.PlanWeeks)
			fmt.Fprintf(cmd.OutOrStdout(), "Package price for %s (%d weeks): $%.2f\n",
				athleteID, result.PlanWeeks, float64(priceCents)/100)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVar(&profilePath, "profile", "", "path to a JSON profile document")
	return cmd
}
