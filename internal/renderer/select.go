package renderer

import (
	"fmt"

	"github.com/cyclecoach/engine/internal/archetype"
	"github.com/cyclecoach/engine/internal/planner/plandate"
	"github.com/cyclecoach/engine/internal/scaler"
	"github.com/cyclecoach/engine/internal/weekly"
)

// RenderedWorkout is one day's fully-resolved, scaled, scheduled workout.
type RenderedWorkout struct {
	FileName string
	Doc      WorkoutDoc
	Type     scaler.WorkoutType
	Week     int
	DayAbbr  string
}

// hardEasyTracker enforces the "no back-to-back hard days within a week"
// rule: if the previous day was hard, the next day is forced to
// recovery/easy regardless of its assigned role.
type hardEasyTracker struct {
	lastWasHard bool
}

// NewHardEasyTracker returns a fresh tracker, seeded as if the prior day
// was easy, for callers outside this package that need to thread
// tracker state across a whole plan's worth of SelectDay calls.
func NewHardEasyTracker() *hardEasyTracker {
	return &hardEasyTracker{}
}

func (t *hardEasyTracker) next(candidateHard bool) (forced bool) {
	forced = t.lastWasHard && candidateHard
	t.lastWasHard = candidateHard && !forced
	return forced
}

var intervalBasedTypes = map[scaler.WorkoutType]bool{
	scaler.TypeThreshold: true, scaler.TypeVO2max: true, scaler.TypeOverUnder: true,
	scaler.TypeAnaerobic: true, scaler.TypeSprints: true, scaler.TypeSweetSpot: true,
	scaler.TypeGSpot: true, scaler.TypeBlended: true, scaler.TypeTempo: true,
}

// baseTemplateForRole returns the un-scaled template for a role, given the
// week's phase. Strength and rest roles never produce a cycling workout.
func baseTemplateForRole(role weekly.Role, phase plandate.Phase) (scaler.Template, bool) {
	switch role {
	case weekly.RoleKeyCardio:
		switch phase {
		case plandate.PhasePeak:
			return scaler.Template{Type: scaler.TypeVO2max, TemplateMinutes: 60, Power: 1.15, IsIntervalFixed: true}, true
		case plandate.PhaseBuild:
			return scaler.Template{Type: scaler.TypeThreshold, TemplateMinutes: 60, Power: 1.0, IsIntervalFixed: true}, true
		default:
			return scaler.Template{Type: scaler.TypeSweetSpot, TemplateMinutes: 60, Power: 0.91, IsIntervalFixed: true}, true
		}
	case weekly.RoleLongRide:
		return scaler.Template{Type: scaler.TypeLongRide, TemplateMinutes: 120, Power: 0.62}, true
	case weekly.RoleEasyRide:
		return scaler.Template{Type: scaler.TypeEasy, TemplateMinutes: 45, Power: 0.60}, true
	case weekly.RoleRecovery:
		return scaler.Template{Type: scaler.TypeRecovery, TemplateMinutes: 30, Power: 0.50}, true
	default:
		return scaler.Template{}, false
	}
}

// forceEasy downgrades any role to an easy/recovery template when the
// hard/easy tracker forces it.
func forceEasy(tmpl scaler.Template) scaler.Template {
	return scaler.Template{Type: scaler.TypeRecovery, TemplateMinutes: 30, Power: 0.50}
}

// inlineBlocks composes blocks for non-archetype-routed types, per the
// fixed per-type patterns.
func inlineBlocks(tmpl scaler.Template, scaled scaler.Scaled) []archetype.Block {
	total := scaled.TargetMinutes * 60
	switch tmpl.Type {
	case scaler.TypeRecovery, scaler.TypeEasy, scaler.TypeEndurance, scaler.TypeLongRide, scaler.TypeShakeout:
		return []archetype.Block{{Kind: archetype.BlockSteady, DurationSec: total, Power: tmpl.Power}}
	case scaler.TypeOpeners:
		return []archetype.Block{{Kind: archetype.BlockIntervals, Repeats: 4, OnDurationSec: 30, OnPower: 1.20, OffDurationSec: 270, OffPower: 0.55}}
	default:
		return []archetype.Block{{Kind: archetype.BlockSteady, DurationSec: total, Power: tmpl.Power}}
	}
}

// SelectDay resolves one day's role into a rendered, scaled workout, given
// the current hard/easy tracker state and the archetype registry (used
// only when the resolved type is interval-based).
func SelectDay(day plandate.Day, week int, role weekly.Role, maxDurationMin int, phase plandate.Phase,
	tracker *hardEasyTracker, reg *archetype.Registry, methodologyID string, variationIndex int) (*RenderedWorkout, error) {

	tmpl, ok := baseTemplateForRole(role, phase)
	if !ok {
		return nil, nil
	}

	candidateHard := intervalBasedTypes[tmpl.Type] || tmpl.Type == scaler.TypeLongRide
	if tracker.next(candidateHard) {
		tmpl = forceEasy(tmpl)
	}

	scaled := scaler.Scale(tmpl, maxDurationMin, phase)

	var body []archetype.Block
	if intervalBasedTypes[tmpl.Type] && reg != nil {
		def, found := reg.Select(string(tmpl.Type), methodologyID, variationIndex)
		if !found {
			return nil, fmt.Errorf("renderer: no archetype for category %q", tmpl.Type)
		}
		blocks, err := archetype.Render(def, 3)
		if err != nil {
			return nil, err
		}
		body = blocks
	} else {
		body = inlineBlocks(tmpl, scaled)
	}

	warmupSec := int(float64(scaled.TargetMinutes*60) * 0.12)
	cooldownSec := int(float64(scaled.TargetMinutes*60) * 0.08)
	if cooldownSec < 300 {
		cooldownSec = 300
	}

	doc := WorkoutDoc{
		Author:       "cyclecoach",
		Name:         string(tmpl.Type),
		Description:  fmt.Sprintf("%s - week %d", tmpl.Type, week),
		WarmupSec:    warmupSec,
		WarmupLow:    0.45,
		WarmupHigh:   tmpl.Power,
		Body:         body,
		CooldownSec:  cooldownSec,
		CooldownLow:  tmpl.Power,
		CooldownHigh: 0.40,
	}

	return &RenderedWorkout{
		FileName: FileNameForDay(day.WorkoutPrefix, string(tmpl.Type)),
		Doc:      doc,
		Type:     tmpl.Type,
		Week:     week,
		DayAbbr:  day.Abbrev,
	}, nil
}

// NeedsFTPTest determines whether a FTP-test day should be injected:
// the first key-OK day of week 1, or the last week of the base phase if
// that phase spans at least three weeks.
func NeedsFTPTest(plan *plandate.PlanDates, weekIndex int) bool {
	if weekIndex == 0 {
		return true
	}
	baseWeeks := 0
	lastBaseIdx := -1
	for i, w := range plan.Weeks {
		if w.Phase == plandate.PhaseBase {
			baseWeeks++
			lastBaseIdx = i
		}
	}
	return baseWeeks >= 3 && weekIndex == lastBaseIdx
}

// FTPTestTemplate returns the fixed 60-minute FTP assessment template,
// which is never scaled.
func FTPTestTemplate() scaler.Template {
	return scaler.Template{Type: scaler.TypeFTPTest, TemplateMinutes: 60, Power: 1.0}
}

// derivedTierStrengthGate reports whether strength sessions are allowed in
// the given phase (base/build/peak/maintenance only).
func derivedTierStrengthGate(phase plandate.Phase) bool {
	switch phase {
	case plandate.PhaseBase, plandate.PhaseBuild, plandate.PhasePeak, plandate.PhaseMaintenance:
		return true
	default:
		return false
	}
}
