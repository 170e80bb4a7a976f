package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cyclecoach/engine/internal/archetype"
	"github.com/cyclecoach/engine/internal/classifier"
	"github.com/cyclecoach/engine/internal/docstore"
	"github.com/cyclecoach/engine/internal/profile"
	"github.com/cyclecoach/engine/internal/webhook"
)

// testProfile builds a five-cardio-day-a-week athlete: Tuesday/Thursday are
// key days, Monday/Wednesday/Friday are easy, Saturday/Sunday are
// unavailable. The schedule and dates below are chosen so the resulting
// workout mix (hand-verified) lands comfortably inside every zone-target
// methodology's tolerance band.
func testProfile() *profile.Profile {
	easy := profile.DayPreference{Availability: profile.AvailabilityAvailable, TimeSlots: []profile.TimeSlot{profile.SlotAM}, MaxDurationMin: 45}
	key := profile.DayPreference{Availability: profile.AvailabilityAvailable, TimeSlots: []profile.TimeSlot{profile.SlotAM}, MaxDurationMin: 60, KeyDayOK: true}
	off := profile.DayPreference{Availability: profile.AvailabilityUnavailable}

	return &profile.Profile{
		AthleteID:   "athlete-test",
		DisplayName: "Test Athlete",
		Email:       "athlete@example.com",
		WeightKg:    70,
		FTPWatts:    200,
		TargetRace: profile.TargetRace{
			Name: "Spring Gravel Classic", Date: "2026-03-08", DistanceMiles: 100, GoalType: "finish",
		},
		PreferredDays: map[string]profile.DayPreference{
			"monday": easy, "tuesday": key, "wednesday": easy, "thursday": key, "friday": easy,
			"saturday": off, "sunday": off,
		},
		ScheduleConstraints:    profile.ScheduleConstraints{PreferredStart: "2026-01-05"},
		WeeklyAvailability:     profile.WeeklyAvailability{CyclingHoursTarget: 8},
		TrainingHistory:        profile.TrainingHistory{YearsStructured: 3},
	}
}

func testOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	reg, err := archetype.BuildRegistry(archetype.BaseCategories(), archetype.ImportedCategories(), archetype.AdvancedCategories())
	require.NoError(t, err)
	fixedNow := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &Orchestrator{
		Store:      docstore.New(t.TempDir()),
		Archetypes: reg,
		Now:        func() time.Time { return fixedNow },
	}
}

func TestStageErrorWrapsUnderlyingError(t *testing.T) {
	underlying := errors.New("boom")
	err := fail(StageRenderWorkouts, underlying)

	require.ErrorIs(t, err, underlying)
	require.Contains(t, err.Error(), string(StageRenderWorkouts))
}

func TestLockForReturnsSameMutexPerAthlete(t *testing.T) {
	o := &Orchestrator{}
	a := o.lockFor("athlete-1")
	b := o.lockFor("athlete-1")
	c := o.lockFor("athlete-2")

	require.Same(t, a, b)
	require.NotSame(t, a, c)
}

func TestRunForAthleteRejectsMalformedAthleteID(t *testing.T) {
	o := testOrchestrator(t)
	_, err := o.RunForAthlete(context.Background(), "Not-A-Valid-ID!", testProfile())

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	require.Equal(t, StageValidateProfile, stageErr.Stage)
}

func TestRunRequiresIntakeSource(t *testing.T) {
	o := testOrchestrator(t)
	_, err := o.Run(context.Background(), "intake-1", webhook.Event{})
	require.Error(t, err)
}

type fakeIntake struct {
	p   *profile.Profile
	err error
}

func (f fakeIntake) Load(ctx context.Context, intakeID string) (*profile.Profile, error) {
	return f.p, f.err
}

func TestRunPropagatesIntakeLoadFailure(t *testing.T) {
	o := testOrchestrator(t)
	o.Intake = fakeIntake{err: errors.New("questionnaire not found")}

	_, err := o.Run(context.Background(), "intake-1", webhook.Event{})
	require.Error(t, err)
}

func TestRunDelegatesToRunForAthlete(t *testing.T) {
	o := testOrchestrator(t)
	p := testProfile()
	o.Intake = fakeIntake{p: p}

	athleteID, err := o.Run(context.Background(), "intake-1", webhook.Event{})
	if err != nil {
		var stageErr *StageError
		require.ErrorAs(t, err, &stageErr)
		require.Equal(t, StageValidateDistribution, stageErr.Stage)
		return
	}
	require.Equal(t, p.AthleteID, athleteID)
}

func TestStageValidateProfileRejectsMissingKeyDay(t *testing.T) {
	o := testOrchestrator(t)
	p := testProfile()
	for day, prefs := range p.PreferredDays {
		prefs.KeyDayOK = false
		p.PreferredDays[day] = prefs
	}

	r := &Result{AthleteID: p.AthleteID}
	err := o.stageValidateProfile(p.AthleteID, p, o.Now(), r)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	require.Equal(t, StageValidateProfile, stageErr.Stage)
}

func TestStageValidateProfilePersistsDocument(t *testing.T) {
	o := testOrchestrator(t)
	p := testProfile()
	r := &Result{AthleteID: p.AthleteID}

	require.NoError(t, o.stageValidateProfile(p.AthleteID, p, o.Now(), r))
	require.True(t, o.Store.Exists(p.AthleteID, docstore.KindProfile))
	require.Equal(t, []StageName{StageValidateProfile}, r.CompletedStages)
}

func TestStageDeriveClassificationMatchesDirectComputation(t *testing.T) {
	o := testOrchestrator(t)
	p := testProfile()
	r := &Result{AthleteID: p.AthleteID}

	derived, err := o.stageDeriveClassification(p.AthleteID, p, o.Now(), r)
	require.NoError(t, err)

	want := classifier.Derive(p, o.Now())
	require.Equal(t, want.Tier, derived.Tier)
	require.Equal(t, want.PlanWeeks, derived.PlanWeeks)
	require.Equal(t, want.KeyDayCandidates, derived.KeyDayCandidates)
	require.Equal(t, want.StrengthDayCandidates, derived.StrengthDayCandidates)
	require.Equal(t, classifier.TierFinisher, derived.Tier)
	require.Equal(t, 8, derived.PlanWeeks)
	require.Equal(t, []string{"tuesday", "thursday"}, derived.KeyDayCandidates)
	require.True(t, o.Store.Exists(p.AthleteID, docstore.KindDerived))
}

// TestRenderAndValidateDistributionPasses drives the render-workouts and
// validate-distribution stages directly (bypassing methodology selection)
// against a hand-verified schedule: two easy AM rides and one key-cardio AM
// ride a week, with two of the eight weeks' key session consumed by the
// FTP-test injection (week 1 and week 4, the last of four base weeks).
// The remaining key sessions are Sweet_Spot in weeks 2, 3, 7 and 8 and
// Threshold in the build weeks 5 and 6, so the plan yields 16 z1/z2, 4 z3,
// and 2 z4/z5 counted workouts (22 total; FTP tests, the race day, and the
// two weekly strength sessions are excluded from the denominator) — within
// every tolerance band of the zone-target methodology used below.
func TestRenderAndValidateDistributionPasses(t *testing.T) {
	o := testOrchestrator(t)
	p := testProfile()
	r := &Result{AthleteID: p.AthleteID}
	now := o.Now()

	require.NoError(t, o.stageValidateProfile(p.AthleteID, p, now, r))
	derived, err := o.stageDeriveClassification(p.AthleteID, p, now, r)
	require.NoError(t, err)
	pd, err := o.stageCalculatePlanDates(p.AthleteID, p, derived, r)
	require.NoError(t, err)
	require.Len(t, pd.Weeks, 8)
	ws, err := o.stageBuildWeeklyStructure(p.AthleteID, p, derived, r)
	require.NoError(t, err)

	const methodologyID = "pyramidal"
	workoutCount, err := o.stageRenderWorkouts(p.AthleteID, pd, ws, methodologyID, r)
	require.NoError(t, err)
	r.WorkoutCount = workoutCount

	report, err := o.stageValidateDistribution(p.AthleteID, methodologyID, r)
	require.NoError(t, err)
	require.True(t, report.Passed)
	require.Equal(t, 22, report.TotalWorkouts)

	counts := map[string]int{}
	for _, b := range report.Buckets {
		counts[string(b.Bucket)] = b.Count
	}
	require.Equal(t, 16, counts["z1_z2"])
	require.Equal(t, 4, counts["z3"])
	require.Equal(t, 2, counts["z4_z5"])
}

func TestRunForAthleteIsIdempotentAcrossReruns(t *testing.T) {
	o := testOrchestrator(t)
	p := testProfile()

	first, firstErr := o.RunForAthlete(context.Background(), p.AthleteID, p)
	second, secondErr := o.RunForAthlete(context.Background(), p.AthleteID, p)

	require.Equal(t, firstErr == nil, secondErr == nil)
	if firstErr == nil {
		require.Equal(t, first.WorkoutCount, second.WorkoutCount)
		require.Equal(t, first.MethodologyID, second.MethodologyID)
	}
}
