package methodology

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyclecoach/engine/internal/profile"
)

func TestRegistryHasThirteenEntries(t *testing.T) {
	require.Len(t, Registry, 13)
	seen := map[string]bool{}
	for _, d := range Registry {
		require.False(t, seen[d.ID], "duplicate methodology id %s", d.ID)
		seen[d.ID] = true
		sum := d.ZoneTargets.Z1Z2 + d.ZoneTargets.Z3 + d.ZoneTargets.Z4Z5
		require.InDelta(t, 1.0, sum, 0.001, "zone targets for %s must sum to 1", d.ID)
	}
}

func TestSelectPicksPolarizedForHighToleranceAthlete(t *testing.T) {
	p := &profile.Profile{
		WeeklyAvailability: profile.WeeklyAvailability{CyclingHoursTarget: 12},
		TrainingHistory:    profile.TrainingHistory{YearsStructured: 4},
		HealthFactors:      profile.HealthFactors{StressLevel: "high", SleepHoursAvg: 7.5},
		TargetRace:         profile.TargetRace{GoalType: "compete"},
	}

	sel := Select(p, RaceDemands{DistanceMiles: 200, DurationHours: 12})
	require.NotEmpty(t, sel.MethodologyID)
	require.GreaterOrEqual(t, sel.Score, 0.0)
	require.LessOrEqual(t, sel.Score, 100.0)
	require.LessOrEqual(t, len(sel.Alternatives), 3)
}

func TestScoreClampsToValidRange(t *testing.T) {
	def, ok := Lookup("hiit_focused")
	require.True(t, ok)

	p := &profile.Profile{
		WeeklyAvailability: profile.WeeklyAvailability{CyclingHoursTarget: 25},
		TrainingHistory:    profile.TrainingHistory{YearsStructured: 0},
	}
	c := Score(def, p, RaceDemands{DistanceMiles: 200, DurationHours: 14})
	require.GreaterOrEqual(t, c.Score, 0.0)
	require.LessOrEqual(t, c.Score, 100.0)
}
