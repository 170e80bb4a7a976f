package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cyclecoach/engine/internal/distribution"
	"github.com/cyclecoach/engine/internal/docstore"
	"github.com/cyclecoach/engine/internal/methodology"
	"github.com/cyclecoach/engine/internal/profile"
)

// requiredDocs are the per-athlete documents a complete run produces,
// paired with the human-facing description shown in the checklist.
var requiredDocs = []struct {
	kind docstore.Kind
	desc string
}{
	{docstore.KindProfile, "Athlete profile"},
	{docstore.KindDerived, "Derived classification"},
	{docstore.KindMethodology, "Methodology selection"},
	{docstore.KindFueling, "Fueling plan"},
	{docstore.KindPlanDates, "Plan dates"},
	{docstore.KindWeeklyStructure, "Weekly structure"},
	{docstore.KindPlanSummary, "Plan summary"},
}

// newPreDeliveryChecklistCmd builds "cyclecoach pre-delivery-checklist",
// a human-readable go/no-deliver report: automated validation results
// first, then a manual checklist nothing here can verify. It never
// blocks delivery itself — it only tells the operator whether the
// automated half is clean.
func newPreDeliveryChecklistCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pre-delivery-checklist <athlete-id>",
		Short: "Print a go/no-deliver checklist for a generated package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			athleteID := args[0]
			out := cmd.OutOrStdout()

			var p profile.Profile
			haveProfile := app.Store.Get(athleteID, docstore.KindProfile, &p) == nil

			var sel methodology.Selection
			haveMethodology := app.Store.Get(athleteID, docstore.KindMethodology, &sel) == nil

			fmt.Fprintln(out, strings.Repeat("=", 70))
			fmt.Fprintf(out, "PRE-DELIVERY CHECKLIST: %s\n", athleteID)
			fmt.Fprintf(out, "Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
			fmt.Fprintln(out, strings.Repeat("=", 70))
			fmt.Fprintln(out)
			name, race, raceDate, methodName := athleteID, "Unknown", "Unknown", "Unknown"
			if haveProfile {
				name = p.DisplayName
				race = p.TargetRace.Name
				raceDate = p.TargetRace.Date
			}
			if haveMethodology {
				methodName = sel.Name
			}
			fmt.Fprintf(out, "Athlete: %s\n", name)
			fmt.Fprintf(out, "Race: %s (%s)\n", race, raceDate)
			fmt.Fprintf(out, "Methodology: %s\n", methodName)
			fmt.Fprintln(out)
			fmt.Fprintln(out, strings.Repeat("-", 70))
			fmt.Fprintln(out)

			fmt.Fprintln(out, "1. AUTOMATED VALIDATION")
			distPassed := false
			if haveMethodology {
				if def, found := methodology.Lookup(sel.MethodologyID); found {
					report, err := distribution.ValidateDir(app.Store.WorkoutsDir(athleteID), def)
					if err == nil {
						distPassed = report.Passed
						printDistributionReport(cmd, report)
					} else {
						fmt.Fprintf(out, "  %s distribution check errored: %v\n", checkMark(false), err)
					}
				}
			} else {
				fmt.Fprintf(out, "  %s no methodology selection on file\n", checkMark(false))
			}
			fmt.Fprintln(out)

			fmt.Fprintln(out, "2. FILE VERIFICATION")
			allFilesPresent := true
			for _, rd := range requiredDocs {
				present := app.Store.Exists(athleteID, rd.kind)
				allFilesPresent = allFilesPresent && present
				fmt.Fprintf(out, "  %s %s\n", checkMark(present), rd.desc)
			}
			workoutCount, strengthCount := countWorkouts(app.Store.WorkoutsDir(athleteID))
			fmt.Fprintf(out, "  %s workouts: %d total (%d strength)\n", checkMark(workoutCount > 0), workoutCount, strengthCount)
			fmt.Fprintln(out)

			fmt.Fprintln(out, "3. MANUAL VERIFICATION (check each item by hand)")
			for _, item := range manualChecklistItems {
				fmt.Fprintf(out, "  [ ] %s\n", item)
			}
			fmt.Fprintln(out)

			automatedPassed := distPassed && allFilesPresent
			fmt.Fprintln(out, strings.Repeat("-", 70))
			if automatedPassed {
				fmt.Fprintln(out, render(styleGreen, "AUTOMATED CHECKS PASSED")+" — complete the manual items above before delivering.")
			} else {
				fmt.Fprintln(out, render(styleRed, "AUTOMATED CHECKS FAILED — DO NOT DELIVER"))
			}
			fmt.Fprintln(out, strings.Repeat("=", 70))

			if !automatedPassed {
				return failCheck(fmt.Errorf("pre-delivery checklist failed for %s", athleteID))
			}
			return nil
		},
	}
	return cmd
}

var manualChecklistItems = []string{
	"Plan summary reviewed — decisions make sense for this athlete",
	"Spot-checked three random workouts — content looks correct",
	"Athlete name appears correctly in the guide, if rendered",
	"Race name and date match the athlete's target event",
	"Strength workouts carry the expected weekly cadence",
}

func countWorkouts(dir string) (total int, strength int) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		total++
		if strings.Contains(e.Name(), "Strength") {
			strength++
		}
	}
	return total, strength
}
