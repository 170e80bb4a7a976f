package renderer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyclecoach/engine/internal/archetype"
	"github.com/cyclecoach/engine/internal/planner/plandate"
	"github.com/cyclecoach/engine/internal/weekly"
)

func testDay(week int) plandate.Day {
	return plandate.Day{Abbrev: "Tue", WorkoutPrefix: "W01_Tue_Jun10"}
}

func TestSelectDayKeyCardioBuildPhaseIsThreshold(t *testing.T) {
	reg, err := archetype.BuildRegistry(archetype.BaseCategories(), archetype.ImportedCategories(), archetype.AdvancedCategories())
	require.NoError(t, err)

	tracker := &hardEasyTracker{}
	wk, err := SelectDay(testDay(1), 1, weekly.RoleKeyCardio, 90, plandate.PhaseBuild, tracker, reg, "polarized_80_20", 0)
	require.NoError(t, err)
	require.NotNil(t, wk)
	require.NotEmpty(t, wk.FileName)
}

func TestHardEasyTrackerForcesEasyAfterHardDay(t *testing.T) {
	tracker := &hardEasyTracker{}
	forced1 := tracker.next(true)
	forced2 := tracker.next(true)
	require.False(t, forced1)
	require.True(t, forced2)
}

func TestNeedsFTPTestFirstWeek(t *testing.T) {
	require.True(t, NeedsFTPTest(&plandate.PlanDates{}, 0))
}

func TestSelectStrengthWorkoutRotatesAcrossLibrary(t *testing.T) {
	seen := map[StrengthWorkout]bool{}
	for w := 0; w < 5; w++ {
		seen[SelectStrengthWorkout(w, 0)] = true
	}
	require.Len(t, seen, 5)
}
