package classifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cyclecoach/engine/internal/profile"
)

func baseProfile() *profile.Profile {
	return &profile.Profile{
		AthleteID: "jane-doe",
		TargetRace: profile.TargetRace{
			Name: "Unbound Gravel 200",
			Date: "2026-06-28",
		},
		WeeklyAvailability: profile.WeeklyAvailability{
			CyclingHoursTarget:  12,
			StrengthSessionsMax: 2,
		},
		PreferredDays: map[string]profile.DayPreference{
			"monday":    {Availability: profile.AvailabilityAvailable, TimeSlots: []profile.TimeSlot{profile.SlotAM}, MaxDurationMin: 90, KeyDayOK: false},
			"tuesday":   {Availability: profile.AvailabilityAvailable, TimeSlots: []profile.TimeSlot{profile.SlotAM, profile.SlotPM}, MaxDurationMin: 60, KeyDayOK: true},
			"wednesday": {Availability: profile.AvailabilityAvailable, TimeSlots: []profile.TimeSlot{profile.SlotAM}, MaxDurationMin: 90},
			"thursday":  {Availability: profile.AvailabilityAvailable, TimeSlots: []profile.TimeSlot{profile.SlotAM, profile.SlotPM}, MaxDurationMin: 60, KeyDayOK: true},
			"friday":    {Availability: profile.AvailabilityUnavailable},
			"saturday":  {Availability: profile.AvailabilityAvailable, TimeSlots: []profile.TimeSlot{profile.SlotAM}, MaxDurationMin: 240, KeyDayOK: true},
			"sunday":    {Availability: profile.AvailabilityAvailable, TimeSlots: []profile.TimeSlot{profile.SlotAM}, MaxDurationMin: 120},
		},
		TrainingHistory: profile.TrainingHistory{YearsStructured: 3},
	}
}

func TestDeriveTierBoundaries(t *testing.T) {
	p := baseProfile()
	p.TargetRace.GoalType = "podium"

	p.WeeklyAvailability.CyclingHoursTarget = 4
	require.Equal(t, TierAyahuasca, DeriveTier(p))

	p.WeeklyAvailability.CyclingHoursTarget = 8
	require.Equal(t, TierFinisher, DeriveTier(p))

	p.WeeklyAvailability.CyclingHoursTarget = 15
	require.Equal(t, TierCompete, DeriveTier(p))

	p.WeeklyAvailability.CyclingHoursTarget = 25
	require.Equal(t, TierPodium, DeriveTier(p))
}

func TestDeriveTierNewAthleteCappedAtCompete(t *testing.T) {
	p := baseProfile()
	p.WeeklyAvailability.CyclingHoursTarget = 25
	p.TrainingHistory.YearsStructured = 0.5
	require.Equal(t, TierCompete, DeriveTier(p))
}

func TestIdentifyKeyDaysRequiresAvailableAndDuration(t *testing.T) {
	p := baseProfile()
	keyDays := IdentifyKeyDays(p)
	require.ElementsMatch(t, []string{"tuesday", "thursday", "saturday"}, keyDays)
}

func TestIdentifyStrengthDaysAvoidsDayBeforeKeyDay(t *testing.T) {
	p := baseProfile()
	keyDays := IdentifyKeyDays(p)
	strengthDays := IdentifyStrengthDays(p, 2, keyDays)

	require.NotContains(t, strengthDays, "friday", "friday is unavailable")
	for _, d := range strengthDays {
		require.NotEqual(t, "wednesday", d, "day before a key day should be avoided when a non-key alternative exists")
	}
}

func TestRiskFactors(t *testing.T) {
	p := baseProfile()
	p.HealthFactors.SleepHoursAvg = 5.5
	p.HealthFactors.StressLevel = "high"
	p.RecentTraining.ComingOffInjury = true
	p.TrainingHistory.YearsStructured = 0

	risks := RiskFactors(p)
	require.ElementsMatch(t, []string{"low_sleep", "high_stress", "returning_from_injury", "new_to_structured_training"}, risks)
}

func TestDeriveProducesConsistentOutput(t *testing.T) {
	p := baseProfile()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d := Derive(p, now)

	require.Equal(t, TierCompete, d.Tier)
	require.GreaterOrEqual(t, d.PlanWeeks, 6)
	require.LessOrEqual(t, d.PlanWeeks, 24)
	require.NotEmpty(t, d.KeyDayCandidates)
}
