// Package scaler adapts a workout template's prescribed duration to the
// athlete's actual available time slot for that day, without distorting
// the prescription it carries.
package scaler

import (
	"strings"

	"github.com/cyclecoach/engine/internal/planner/plandate"
)

// WorkoutType is the canonical workout-type label used across the
// renderer, scaler, and distribution validator.
type WorkoutType string

const (
	TypeRecovery   WorkoutType = "Recovery"
	TypeEasy       WorkoutType = "Easy"
	TypeEndurance  WorkoutType = "Endurance"
	TypeTempo      WorkoutType = "Tempo"
	TypeSweetSpot  WorkoutType = "Sweet_Spot"
	TypeThreshold  WorkoutType = "Threshold"
	TypeVO2max     WorkoutType = "VO2max"
	TypeOverUnder  WorkoutType = "Over_Under"
	TypeAnaerobic  WorkoutType = "Anaerobic"
	TypeSprints    WorkoutType = "Sprints"
	TypeOpeners    WorkoutType = "Openers"
	TypeFTPTest    WorkoutType = "FTP_Test"
	TypeRest       WorkoutType = "Rest"
	TypeRaceSim    WorkoutType = "Race_Sim"
	TypeLongRide   WorkoutType = "Long_Ride"
	TypeGSpot      WorkoutType = "G_Spot"
	TypeShakeout   WorkoutType = "Shakeout"
	TypeBlended    WorkoutType = "Blended"
	TypeSFR        WorkoutType = "SFR"
	TypeClimbing   WorkoutType = "Mixed_Climbing"
	TypeCadence    WorkoutType = "Cadence_Work"
	TypeRaceDay    WorkoutType = "RACE_DAY"
	TypeStrength   WorkoutType = "Strength"
)

var intervalTypes = map[WorkoutType]bool{
	TypeVO2max:    true,
	TypeThreshold: true,
	TypeAnaerobic: true,
	TypeSprints:   true,
	TypeSFR:       true,
	TypeClimbing:  true,
	TypeCadence:   true,
}

var neverScaled = map[WorkoutType]bool{
	TypeFTPTest: true,
	TypeOpeners: true,
	TypeRest:    true,
	TypeRaceSim: true,
}

// utilizationRatio returns the endurance/tempo-style utilization ratio
// for the given plan phase.
func utilizationRatio(phase plandate.Phase) float64 {
	switch phase {
	case plandate.PhaseBase:
		return 0.70
	case plandate.PhaseBuild:
		return 0.75
	case plandate.PhasePeak:
		return 0.80
	case plandate.PhaseTaper:
		return 0.50
	case plandate.PhaseRace:
		return 0.40
	default:
		return 0.70
	}
}

// Template is the scaler's input: a named workout type with its
// documented duration and power.
type Template struct {
	Type             WorkoutType
	Description      string
	TemplateMinutes  int
	Power            float64
	IsIntervalFixed  bool // the interval set must stay verbatim; extra time goes to warmup/cooldown
}

// Scaled is the scaler's output.
type Scaled struct {
	Template
	TargetMinutes     int
	WarmupExtraMin    int
	CooldownExtraMin  int
}

const intervalWorkoutCapMinutes = 120

// Scale adapts tmpl to the given slot-minutes and plan phase. FTP_Test,
// Openers, Rest, and Race_Sim pass through unscaled.
func Scale(tmpl Template, slotMinutes int, phase plandate.Phase) Scaled {
	if neverScaled[tmpl.Type] {
		return Scaled{Template: tmpl, TargetMinutes: tmpl.TemplateMinutes}
	}

	var target int
	if intervalTypes[tmpl.Type] {
		target = int(float64(slotMinutes) * 0.90)
		if target > intervalWorkoutCapMinutes {
			target = intervalWorkoutCapMinutes
		}
	} else {
		ratio := utilizationRatio(phase)
		target = int(float64(slotMinutes) * ratio)
	}

	if target < tmpl.TemplateMinutes {
		target = tmpl.TemplateMinutes
	}
	if target > slotMinutes {
		target = slotMinutes
	}

	if tmpl.Type != TypeSprints {
		target = roundToTen(target)
	}
	if target <= 0 {
		target = 0
	} else if target < 10 {
		target = 10
	}

	result := Scaled{Template: tmpl, TargetMinutes: target}

	if tmpl.IsIntervalFixed && target > tmpl.TemplateMinutes {
		extra := target - tmpl.TemplateMinutes
		result.WarmupExtraMin = int(float64(extra) * 0.55)
		result.CooldownExtraMin = extra - result.WarmupExtraMin
	}

	return result
}

func roundToTen(minutes int) int {
	rem := minutes % 10
	if rem < 5 {
		return minutes - rem
	}
	return minutes + (10 - rem)
}

// NormalizeType coerces a loosely-cased/hyphenated type label (as might
// come from a methodology config or archetype category name) to the
// canonical WorkoutType.
func NormalizeType(s string) WorkoutType {
	s = strings.ReplaceAll(strings.TrimSpace(s), "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return WorkoutType(s)
}
