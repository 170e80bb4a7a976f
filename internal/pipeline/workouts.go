package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/cyclecoach/engine/internal/archetype"
	"github.com/cyclecoach/engine/internal/atomicfile"
	"github.com/cyclecoach/engine/internal/planner/plandate"
	"github.com/cyclecoach/engine/internal/renderer"
	"github.com/cyclecoach/engine/internal/scaler"
	"github.com/cyclecoach/engine/internal/weekly"
)

// weekdayKeys indexes plandate.Week.Days (Monday-first) against
// weekly.Structure.Days, which is keyed by the same lowercase weekday
// names in the same order.
var weekdayKeys = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func (o *Orchestrator) stageRenderWorkouts(athleteID string, pd *plandate.PlanDates, ws *weekly.Structure, methodologyID string, r *Result) (int, error) {
	tracker := renderer.NewHardEasyTracker()
	workoutsDir := o.Store.WorkoutsDir(athleteID)
	count := 0

	for weekIdx, week := range pd.Weeks {
		ftpTestNeeded := renderer.NeedsFTPTest(pd, weekIdx)
		ftpTestPlaced := false
		strengthSessionIndex := 0

		for i, dayKey := range weekdayKeys {
			day := week.Days[i]

			if day.IsRaceDay {
				if err := o.writeRaceDay(workoutsDir, day); err != nil {
					return count, fail(StageRenderWorkouts, err)
				}
				count++
				continue
			}

			slots := ws.Days[dayKey]
			for _, slotRole := range []*weekly.Role{slots.AM, slots.PM} {
				if slotRole == nil {
					continue
				}
				role := *slotRole

				if role == weekly.RoleStrength {
					sw := renderer.SelectStrengthWorkout(week.Number, strengthSessionIndex)
					strengthSessionIndex++
					if err := o.writeStrengthDay(workoutsDir, day, sw); err != nil {
						return count, fail(StageRenderWorkouts, err)
					}
					count++
					continue
				}
				if role == weekly.RoleRest {
					continue
				}

				variationIndex := week.Number*7 + i
				rendered, err := renderer.SelectDay(day, week.Number, role, slots.MaxDuration, week.Phase, tracker, o.Archetypes, methodologyID, variationIndex)
				if err != nil {
					return count, fail(StageRenderWorkouts, err)
				}
				if rendered == nil {
					continue
				}

				if ftpTestNeeded && !ftpTestPlaced && role == weekly.RoleKeyCardio {
					rendered = ftpTestWorkout(day, week.Number)
					ftpTestPlaced = true
				}

				if err := o.writeWorkout(workoutsDir, rendered); err != nil {
					return count, fail(StageRenderWorkouts, err)
				}
				count++
			}
		}
	}

	r.CompletedStages = append(r.CompletedStages, StageRenderWorkouts)
	return count, nil
}

func (o *Orchestrator) writeWorkout(dir string, w *renderer.RenderedWorkout) error {
	return atomicfile.Write(filepath.Join(dir, w.FileName), renderer.WriteXML(w.Doc), 0o644)
}

// ftpTestWorkout builds the fixed 60-minute FTP assessment: a 25-minute
// warmup, 20 minutes at threshold and a 15-minute cooldown, none of which
// the renderer scales.
func ftpTestWorkout(day plandate.Day, week int) *renderer.RenderedWorkout {
	doc := renderer.WorkoutDoc{
		Author: "cyclecoach", Name: string(scaler.TypeFTPTest),
		Description: fmt.Sprintf("FTP test - week %d", week),
		WarmupSec:   25 * 60, WarmupLow: 0.45, WarmupHigh: 0.85,
		Body:         []archetype.Block{{Kind: archetype.BlockSteady, DurationSec: 20 * 60, Power: 1.05}},
		CooldownSec:  15 * 60, CooldownLow: 0.60, CooldownHigh: 0.40,
	}
	return &renderer.RenderedWorkout{
		FileName: renderer.FileNameForDay(day.WorkoutPrefix, string(scaler.TypeFTPTest)),
		Doc:      doc, Type: scaler.TypeFTPTest, Week: week, DayAbbr: day.Abbrev,
	}
}

func (o *Orchestrator) writeRaceDay(dir string, day plandate.Day) error {
	doc := renderer.WorkoutDoc{
		Author: "cyclecoach", Name: string(scaler.TypeRaceDay), Description: "race day",
		WarmupSec: 10 * 60, WarmupLow: 0.45, WarmupHigh: 0.75,
		Body: []archetype.Block{{
			Kind: archetype.BlockFreeRide, DurationSec: 4 * 3600,
			TextEvents: []archetype.TextEvent{{TimeOffsetSec: 0, Message: "Race day. Trust your training."}},
		}},
		CooldownSec: 10 * 60, CooldownLow: 0.55, CooldownHigh: 0.35,
	}
	w := &renderer.RenderedWorkout{
		FileName: renderer.FileNameForDay(day.WorkoutPrefix, string(scaler.TypeRaceDay)),
		Doc:      doc, Type: scaler.TypeRaceDay, DayAbbr: day.Abbrev,
	}
	return o.writeWorkout(dir, w)
}

func (o *Orchestrator) writeStrengthDay(dir string, day plandate.Day, sw renderer.StrengthWorkout) error {
	workoutType := "Strength_" + string(sw)
	doc := renderer.WorkoutDoc{
		Author: "cyclecoach", Name: workoutType, Description: string(sw) + " strength session",
		WarmupSec: 5 * 60, WarmupLow: 0.40, WarmupHigh: 0.55,
		Body:        []archetype.Block{{Kind: archetype.BlockSteady, DurationSec: 35 * 60, Power: 0.55}},
		CooldownSec: 5 * 60, CooldownLow: 0.50, CooldownHigh: 0.35,
	}
	w := &renderer.RenderedWorkout{
		FileName: renderer.FileNameForDay(day.WorkoutPrefix, workoutType),
		Doc:      doc, Type: scaler.TypeStrength, DayAbbr: day.Abbrev,
	}
	return o.writeWorkout(dir, w)
}
