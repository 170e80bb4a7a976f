// Package fueling computes race-day carbohydrate targets and a
// phase-by-phase gut-training progression from the target race's distance
// and elevation.
//
// Carb-rate bounds (60-90 g/hr for trained athletes in events over 2.5
// hours) and the gravel energy-expenditure rate (0.42-0.60 kcal/kg/km) are
// the sports-nutrition constants this module's source documented; gut
// training must ramp up to the target rate across the plan rather than
// starting there.
package fueling

import "math"

const (
	minCarbRateGPerHr = 60.0
	maxCarbRateGPerHr = 90.0
	kcalPerKgPerKmLow  = 0.42
	kcalPerKgPerKmHigh = 0.60
	kcalPerGramCarb    = 4.0
)

// Plan is the fueling planner's output document.
type Plan struct {
	TargetCarbRateGPerHr   float64 `json:"target_carb_rate_g_per_hr"`
	TotalCarbGramsForRace  float64 `json:"total_carb_grams_for_race"`
	EstimatedDurationHours float64 `json:"estimated_duration_hours"`
	GutTrainingProgression []GutTrainingStep `json:"gut_training_progression"`
}

// GutTrainingStep is one phase's target intake rate while the athlete
// builds carbohydrate-absorption tolerance.
type GutTrainingStep struct {
	Phase        string  `json:"phase"`
	TargetGPerHr float64 `json:"target_g_per_hr"`
}

// EstimateDurationHours estimates race duration from distance and
// elevation alone. A simple, documented
// estimate: 14 mph flat-equivalent pace adjusted by elevation, floored at
// a sane minimum.
func EstimateDurationHours(distanceMiles, elevationFt float64) float64 {
	if distanceMiles <= 0 {
		return 0
	}
	baseSpeedMph := 14.0
	climbingPenaltyHours := elevationFt / 100000.0 * distanceMiles
	hours := distanceMiles/baseSpeedMph + climbingPenaltyHours
	if hours < 1 {
		hours = 1
	}
	return hours
}

// Calculate produces a fueling plan for a course of the given
// distance/elevation. weightKg and planWeeks are accepted but do not
// affect the result.
func Calculate(weightKg, distanceMiles, elevationFt float64, planWeeks int) Plan {
	durationHours := EstimateDurationHours(distanceMiles, elevationFt)

	targetRate := minCarbRateGPerHr
	if durationHours >= 2.5 {
		targetRate = maxCarbRateGPerHr
	} else if durationHours >= 1.0 {
		// Linear interpolation between the low and high bound across the
		// 1-2.5 hour range, since shorter events need less gut-training
		// runway to hit the top rate.
		frac := (durationHours - 1.0) / 1.5
		targetRate = minCarbRateGPerHr + frac*(maxCarbRateGPerHr-minCarbRateGPerHr)
	}

	totalGrams := targetRate * durationHours

	progression := buildGutTrainingProgression(targetRate)

	return Plan{
		TargetCarbRateGPerHr:   round1(targetRate),
		TotalCarbGramsForRace:  round1(totalGrams),
		EstimatedDurationHours: round1(durationHours),
		GutTrainingProgression: progression,
	}
}

// buildGutTrainingProgression ramps from 50% of the race target in base
// phase through 75% in build and 90% in peak, reaching 100% in taper and
// holding it for the race.
func buildGutTrainingProgression(targetRate float64) []GutTrainingStep {
	return []GutTrainingStep{
		{Phase: "base", TargetGPerHr: round1(targetRate * 0.50)},
		{Phase: "build", TargetGPerHr: round1(targetRate * 0.75)},
		{Phase: "peak", TargetGPerHr: round1(targetRate * 0.90)},
		{Phase: "taper", TargetGPerHr: round1(targetRate)},
		{Phase: "race", TargetGPerHr: round1(targetRate)},
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
