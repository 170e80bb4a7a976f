// Package pipeline implements the ten-stage orchestrator that turns a
// normalized athlete Profile into a complete training package: derived
// classification, methodology selection, fueling plan, plan dates,
// weekly structure, rendered workout files, a distribution validation
// gate, an (optional) rendered guide, and a final plan summary.
//
// Stages run strictly in sequence and each persists its output document
// atomically before the next begins, so a failed run never leaves a
// package half-written and a re-run is always safe.
package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/cyclecoach/engine/internal/archetype"
	"github.com/cyclecoach/engine/internal/classifier"
	"github.com/cyclecoach/engine/internal/distribution"
	"github.com/cyclecoach/engine/internal/docstore"
	"github.com/cyclecoach/engine/internal/fueling"
	"github.com/cyclecoach/engine/internal/logger"
	"github.com/cyclecoach/engine/internal/methodology"
	"github.com/cyclecoach/engine/internal/planner/plandate"
	"github.com/cyclecoach/engine/internal/profile"
	"github.com/cyclecoach/engine/internal/render"
	"github.com/cyclecoach/engine/internal/weekly"
	"github.com/cyclecoach/engine/internal/webhook"
)

// StageName identifies one of the ten ordered pipeline stages.
type StageName string

const (
	StageValidateProfile      StageName = "validate-profile"
	StageDeriveClassification StageName = "derive-classification"
	StageSelectMethodology    StageName = "select-methodology"
	StageCalculateFueling     StageName = "calculate-fueling"
	StageCalculatePlanDates   StageName = "calculate-plan-dates"
	StageBuildWeeklyStructure StageName = "build-weekly-structure"
	StageRenderWorkouts       StageName = "render-workouts"
	StageValidateDistribution StageName = "validate-distribution"
	StageRenderGuide          StageName = "render-guide"
	StagePackage              StageName = "package"
)

// StageError reports which stage failed and why. The orchestrator never
// retries a StageError internally — retries, if any, are the caller's
// responsibility.
type StageError struct {
	Stage StageName
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline: stage %q failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func fail(stage StageName, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

// Result is what a completed (or rejected) run reports back to the
// caller. Warnings accumulate across stages and never halt the run;
// only a non-nil Err does.
type Result struct {
	AthleteID         string
	CompletedStages   []StageName
	Warnings          []string
	MethodologyID     string
	PlanWeeks         int
	WorkoutCount      int
	DistributionReport *distribution.Report
	GuideRendered     bool
}

var athleteIDPattern = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// Orchestrator wires the document store and the optional external
// collaborators (intake source, race-metadata lookup, guide renderer)
// into the ten-stage sequence.
type Orchestrator struct {
	Store        *docstore.Store
	Archetypes   *archetype.Registry
	Intake       IntakeSource
	RaceMeta     RaceMetadataSource
	GuideRenderer render.GuideRenderer
	Log          *logger.Logger
	Now          func() time.Time

	locks sync.Map // athleteID -> *sync.Mutex
}

// New builds an Orchestrator. GuideRenderer and RaceMeta may be nil —
// both are optional external collaborators with no concrete
// implementation shipped here.
func New(store *docstore.Store, archetypes *archetype.Registry, intake IntakeSource, raceMeta RaceMetadataSource, guideRenderer render.GuideRenderer, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		Store: store, Archetypes: archetypes, Intake: intake, RaceMeta: raceMeta,
		GuideRenderer: guideRenderer, Log: log, Now: time.Now,
	}
}

func (o *Orchestrator) lockFor(athleteID string) *sync.Mutex {
	v, _ := o.locks.LoadOrStore(athleteID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Run satisfies dispatch.PipelineRunner: it resolves the intake
// questionnaire into a Profile and runs the full pipeline for the
// athlete it describes. The webhook event itself carries no athlete
// data beyond the intake-id — everything else comes from the intake
// source.
func (o *Orchestrator) Run(ctx context.Context, intakeID string, event webhook.Event) (athleteID string, err error) {
	if o.Intake == nil {
		return "", fmt.Errorf("pipeline: no intake source configured")
	}
	p, err := o.Intake.Load(ctx, intakeID)
	if err != nil {
		return "", fmt.Errorf("pipeline: load intake %s: %w", intakeID, err)
	}

	result, err := o.RunForAthlete(ctx, p.AthleteID, p)
	if err != nil {
		return "", err
	}
	return result.AthleteID, nil
}

// RunForAthlete executes all ten stages for an already-resolved Profile.
// Runs for the same athlete-id never overlap: a second concurrent call
// blocks on the first's mutex rather than interleaving writes.
func (o *Orchestrator) RunForAthlete(ctx context.Context, athleteID string, p *profile.Profile) (*Result, error) {
	if !athleteIDPattern.MatchString(athleteID) {
		return nil, fail(StageValidateProfile, fmt.Errorf("athlete id %q is not a lowercase slug of hyphens/underscores", athleteID))
	}

	mu := o.lockFor(athleteID)
	mu.Lock()
	defer mu.Unlock()

	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	r := &Result{AthleteID: athleteID}

	if err := o.stageValidateProfile(athleteID, p, now(), r); err != nil {
		return r, err
	}
	derived, err := o.stageDeriveClassification(athleteID, p, now(), r)
	if err != nil {
		return r, err
	}
	demands := o.raceDemands(p)
	sel, err := o.stageSelectMethodology(athleteID, p, demands, r)
	if err != nil {
		return r, err
	}
	if err := o.stageCalculateFueling(athleteID, p, derived, demands, r); err != nil {
		return r, err
	}
	pd, err := o.stageCalculatePlanDates(athleteID, p, derived, r)
	if err != nil {
		return r, err
	}
	ws, err := o.stageBuildWeeklyStructure(athleteID, p, derived, r)
	if err != nil {
		return r, err
	}
	workoutCount, err := o.stageRenderWorkouts(athleteID, pd, ws, sel.MethodologyID, r)
	if err != nil {
		return r, err
	}
	r.WorkoutCount = workoutCount
	report, err := o.stageValidateDistribution(athleteID, sel.MethodologyID, r)
	if err != nil {
		return r, err
	}
	r.DistributionReport = report
	o.stageRenderGuide(ctx, athleteID, sel, r)
	if err := o.stagePackage(athleteID, sel, derived, r); err != nil {
		return r, err
	}

	if o.Log != nil {
		o.Log.Info("pipeline run complete", map[string]interface{}{
			"athlete_id": athleteID, "methodology_id": sel.MethodologyID, "workout_count": workoutCount,
		})
	}
	return r, nil
}

func (o *Orchestrator) raceDemands(p *profile.Profile) methodology.RaceDemands {
	demands := methodology.RaceDemands{DistanceMiles: p.TargetRace.DistanceMiles}
	if o.RaceMeta == nil {
		return demands
	}
	meta, found := o.RaceMeta.Lookup(p.TargetRace.RaceID)
	if !found {
		return demands
	}
	demands.DistanceMiles = meta.DistanceMiles
	demands.TechnicalDifficulty = meta.TechnicalDifficulty
	demands.RepeatedSurges = meta.RepeatedSurges
	demands.DurationHours = fueling.EstimateDurationHours(float64(meta.DistanceMiles), meta.ElevationFt)
	return demands
}

func (o *Orchestrator) stageValidateProfile(athleteID string, p *profile.Profile, now time.Time, r *Result) error {
	result := profile.Validate(p, now)
	if !result.Valid {
		return fail(StageValidateProfile, result.Error())
	}
	if result.HasWarnings() {
		r.Warnings = append(r.Warnings, result.Warnings...)
	}
	if err := o.Store.Put(athleteID, docstore.KindProfile, p); err != nil {
		return fail(StageValidateProfile, err)
	}
	r.CompletedStages = append(r.CompletedStages, StageValidateProfile)
	return nil
}

func (o *Orchestrator) stageDeriveClassification(athleteID string, p *profile.Profile, now time.Time, r *Result) (*classifier.Derived, error) {
	derived := classifier.Derive(p, now)
	if err := o.Store.Put(athleteID, docstore.KindDerived, derived); err != nil {
		return nil, fail(StageDeriveClassification, err)
	}
	r.CompletedStages = append(r.CompletedStages, StageDeriveClassification)
	r.PlanWeeks = derived.PlanWeeks
	return derived, nil
}

func (o *Orchestrator) stageSelectMethodology(athleteID string, p *profile.Profile, demands methodology.RaceDemands, r *Result) (*methodology.Selection, error) {
	sel := methodology.Select(p, demands)
	if err := o.Store.Put(athleteID, docstore.KindMethodology, sel); err != nil {
		return nil, fail(StageSelectMethodology, err)
	}
	r.CompletedStages = append(r.CompletedStages, StageSelectMethodology)
	r.MethodologyID = sel.MethodologyID
	return sel, nil
}

func (o *Orchestrator) stageCalculateFueling(athleteID string, p *profile.Profile, derived *classifier.Derived, demands methodology.RaceDemands, r *Result) error {
	distanceMiles := float64(p.TargetRace.DistanceMiles)
	elevationFt := 0.0
	if o.RaceMeta != nil {
		if meta, found := o.RaceMeta.Lookup(p.TargetRace.RaceID); found {
			distanceMiles = float64(meta.DistanceMiles)
			elevationFt = meta.ElevationFt
		}
	}
	plan := fueling.Calculate(p.WeightKg, distanceMiles, elevationFt, derived.PlanWeeks)
	if err := o.Store.Put(athleteID, docstore.KindFueling, plan); err != nil {
		return fail(StageCalculateFueling, err)
	}
	r.CompletedStages = append(r.CompletedStages, StageCalculateFueling)
	return nil
}

func (o *Orchestrator) stageCalculatePlanDates(athleteID string, p *profile.Profile, derived *classifier.Derived, r *Result) (*plandate.PlanDates, error) {
	raceDate, err := time.Parse("2006-01-02", p.TargetRace.Date)
	if err != nil {
		return nil, fail(StageCalculatePlanDates, fmt.Errorf("invalid race date %q: %w", p.TargetRace.Date, err))
	}

	input := plandate.Input{RaceDate: raceDate, PlanWeeks: derived.PlanWeeks, Now: time.Now()}
	if o.Now != nil {
		input.Now = o.Now()
	}
	if v := p.ScheduleConstraints.HeavyTrainingEnd; v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			input.HeavyTrainingEnd = &t
		}
	}
	if v := p.ScheduleConstraints.PreferredStart; v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			input.PreferredStart = &t
		}
	}
	for _, be := range p.BEvents {
		if t, err := time.Parse("2006-01-02", be.Date); err == nil {
			input.BEvents = append(input.BEvents, plandate.BEvent{Name: be.Name, Date: t})
		}
	}

	pd, warnings, err := plandate.Calculate(input)
	if err != nil {
		return nil, fail(StageCalculatePlanDates, err)
	}
	if warnings != nil && warnings.HasWarnings() {
		r.Warnings = append(r.Warnings, warnings.Warnings...)
	}
	if err := o.Store.Put(athleteID, docstore.KindPlanDates, pd); err != nil {
		return nil, fail(StageCalculatePlanDates, err)
	}
	r.CompletedStages = append(r.CompletedStages, StageCalculatePlanDates)
	return pd, nil
}

func (o *Orchestrator) stageBuildWeeklyStructure(athleteID string, p *profile.Profile, derived *classifier.Derived, r *Result) (*weekly.Structure, error) {
	ws := weekly.Build(p.PreferredDays, derived.KeyDayCandidates, derived.StrengthDayCandidates, derived.Tier)
	if err := o.Store.Put(athleteID, docstore.KindWeeklyStructure, ws); err != nil {
		return nil, fail(StageBuildWeeklyStructure, err)
	}
	r.CompletedStages = append(r.CompletedStages, StageBuildWeeklyStructure)
	return ws, nil
}

func (o *Orchestrator) stageValidateDistribution(athleteID, methodologyID string, r *Result) (*distribution.Report, error) {
	def, found := methodology.Lookup(methodologyID)
	if !found {
		return nil, fail(StageValidateDistribution, fmt.Errorf("unknown methodology %q", methodologyID))
	}
	report, err := distribution.ValidateDir(o.Store.WorkoutsDir(athleteID), def)
	if err != nil {
		return nil, fail(StageValidateDistribution, err)
	}
	if err := o.Store.Put(athleteID, docstore.KindDistributionRpt, report); err != nil {
		return nil, fail(StageValidateDistribution, err)
	}
	if !report.Passed {
		return report, fail(StageValidateDistribution, fmt.Errorf("distribution out of tolerance for %s: %+v", methodologyID, report.Buckets))
	}
	r.CompletedStages = append(r.CompletedStages, StageValidateDistribution)
	return report, nil
}

// stageRenderGuide renders the HTML guide when a renderer is wired in.
// Guide rendering is an explicit external collaborator; its absence
// never fails the run, it simply leaves the guide undelivered.
func (o *Orchestrator) stageRenderGuide(ctx context.Context, athleteID string, sel *methodology.Selection, r *Result) {
	if o.GuideRenderer == nil {
		return
	}
	doc := render.GuideDocument{
		AthleteID: athleteID, MethodologyID: sel.MethodologyID,
		PlanSummaryRef: string(docstore.KindPlanSummary), WorkoutsDirRef: o.Store.WorkoutsDir(athleteID),
	}
	if err := o.GuideRenderer.RenderGuide(ctx, doc, o.Store.GuidePath(athleteID)); err != nil {
		if o.Log != nil {
			o.Log.Warn("pipeline: guide render failed", map[string]interface{}{"athlete_id": athleteID, "error": err})
		}
		return
	}
	r.GuideRendered = true
	r.CompletedStages = append(r.CompletedStages, StageRenderGuide)
}

func (o *Orchestrator) stagePackage(athleteID string, sel *methodology.Selection, derived *classifier.Derived, r *Result) error {
	summary := PlanSummary{
		AthleteID: athleteID, MethodologyID: sel.MethodologyID, MethodologyName: sel.Name,
		Tier: string(derived.Tier), PlanWeeks: derived.PlanWeeks, WorkoutCount: r.WorkoutCount,
		GuideRendered: r.GuideRendered, Warnings: r.Warnings,
	}
	if err := o.Store.Put(athleteID, docstore.KindPlanSummary, summary); err != nil {
		return fail(StagePackage, err)
	}
	r.CompletedStages = append(r.CompletedStages, StagePackage)
	return nil
}
