// Package methodology scores the fixed registry of thirteen training
// systems against an athlete profile and selects the best fit.
package methodology

import (
	"sort"
	"strings"

	"github.com/cyclecoach/engine/internal/profile"
)

// ZoneTargets is a methodology's target zone-intensity distribution,
// fractions summing to 1.
type ZoneTargets struct {
	Z1Z2 float64
	Z3   float64
	Z4Z5 float64
}

// Definition is one registry entry.
type Definition struct {
	ID                 string
	Name               string
	MinHours           float64
	MaxHours           float64
	IdealHoursLow      float64
	IdealHoursHigh     float64
	BestFor            []string
	NotFor             []string
	ExperienceRequired string // beginner | intermediate | advanced
	StressTolerance    string // low | moderate | high | very_high | variable
	ScheduleFlexibility string // low | moderate | high | very_high
	ZoneTargets        ZoneTargets
	StrengthApproach   string
	KeyWorkouts        []string
	ProgressionStyle   string
	TestingFrequency   string
}

// Registry is the process-wide, read-only set of thirteen methodologies.
var Registry = []Definition{
	{
		ID: "traditional_pyramidal", Name: "Traditional (Pyramidal)",
		MinHours: 10, MaxHours: 30, IdealHoursLow: 12, IdealHoursHigh: 20,
		BestFor: []string{"long_events", "durability", "predictable_performance"},
		NotFor:  []string{"time_crunched", "short_events", "low_volume"},
		ExperienceRequired: "intermediate", StressTolerance: "moderate", ScheduleFlexibility: "moderate",
		ZoneTargets: ZoneTargets{0.75, 0.15, 0.10},
		StrengthApproach: "heavy_base_maintenance_build", KeyWorkouts: []string{"long_z2", "tempo_progression", "threshold_intervals"},
		ProgressionStyle: "volume_then_intensity", TestingFrequency: "phase_end",
	},
	{
		ID: "polarized_80_20", Name: "Polarized (80/20)",
		MinHours: 8, MaxHours: 20, IdealHoursLow: 10, IdealHoursHigh: 15,
		BestFor: []string{"tolerance_building", "recovery_friendly", "structured_athletes"},
		NotFor:  []string{"very_low_volume", "sprint_specialists"},
		ExperienceRequired: "intermediate", StressTolerance: "high", ScheduleFlexibility: "moderate",
		ZoneTargets: ZoneTargets{0.80, 0.00, 0.20},
		StrengthApproach: "year_round_heavy_explosive", KeyWorkouts: []string{"long_z2", "vo2max_intervals", "threshold_repeats"},
		ProgressionStyle: "increase_hard_work_maintain_ratio", TestingFrequency: "4_6_weeks",
	},
	{
		ID: "sweet_spot_threshold", Name: "Sweet Spot / Threshold",
		MinHours: 6, MaxHours: 12, IdealHoursLow: 7, IdealHoursHigh: 10,
		BestFor: []string{"ftp_gains", "time_efficient", "indoor_training"},
		NotFor:  []string{"ultra_endurance", "durability_focus"},
		ExperienceRequired: "beginner", StressTolerance: "moderate", ScheduleFlexibility: "high",
		ZoneTargets: ZoneTargets{0.50, 0.35, 0.15},
		StrengthApproach: "optional_short_efficient", KeyWorkouts: []string{"sweet_spot_intervals", "over_unders", "tempo_blocks"},
		ProgressionStyle: "increase_density", TestingFrequency: "4_6_weeks",
	},
	{
		ID: "hiit_focused", Name: "HIIT-Focused",
		MinHours: 3, MaxHours: 6, IdealHoursLow: 4, IdealHoursHigh: 6,
		BestFor: []string{"time_crunched", "short_events", "existing_fitness"},
		NotFor:  []string{"beginners", "ultra_endurance", "durability_building"},
		ExperienceRequired: "intermediate", StressTolerance: "low", ScheduleFlexibility: "high",
		ZoneTargets: ZoneTargets{0.30, 0.20, 0.50},
		StrengthApproach: "crucial_max_power", KeyWorkouts: []string{"vo2max_intervals", "tabata", "sprint_repeats"},
		ProgressionStyle: "increase_intensity_not_volume", TestingFrequency: "block_end",
	},
	{
		ID: "block_periodization", Name: "Block Periodization",
		MinHours: 10, MaxHours: 25, IdealHoursLow: 12, IdealHoursHigh: 18,
		BestFor: []string{"limiter_fixing", "advanced_athletes", "specific_goals"},
		NotFor:  []string{"beginners", "many_races", "inconsistent_schedule"},
		ExperienceRequired: "advanced", StressTolerance: "high", ScheduleFlexibility: "low",
		ZoneTargets: ZoneTargets{0.65, 0.20, 0.15},
		StrengthApproach: "separate_block", KeyWorkouts: []string{"block_specific"},
		ProgressionStyle: "overload_consolidation_staircase", TestingFrequency: "block_end",
	},
	{
		ID: "reverse_periodization", Name: "Reverse Periodization",
		MinHours: 6, MaxHours: 15, IdealHoursLow: 8, IdealHoursHigh: 12,
		BestFor: []string{"winter_constrained", "short_leadup", "indoor_start"},
		NotFor:  []string{"ultra_events", "big_base_needed"},
		ExperienceRequired: "intermediate", StressTolerance: "moderate", ScheduleFlexibility: "moderate",
		ZoneTargets: ZoneTargets{0.55, 0.20, 0.25},
		StrengthApproach: "early_max_then_maintenance", KeyWorkouts: []string{"early_vo2max", "late_long_rides"},
		ProgressionStyle: "intensity_then_volume", TestingFrequency: "transition_points",
	},
	{
		ID: "autoregulated_hrv", Name: "Autoregulated (HRV-Based)",
		MinHours: 6, MaxHours: 20, IdealHoursLow: 8, IdealHoursHigh: 15,
		BestFor: []string{"variable_stress", "masters", "recovery_sensitive"},
		NotFor:  []string{"rigid_schedule", "beginners_needing_structure"},
		ExperienceRequired: "intermediate", StressTolerance: "variable", ScheduleFlexibility: "very_high",
		ZoneTargets: ZoneTargets{0.70, 0.15, 0.15},
		StrengthApproach: "autoregulated_heavy_when_ready", KeyWorkouts: []string{"readiness_driven"},
		ProgressionStyle: "guided_by_readiness", TestingFrequency: "green_days",
	},
	{
		ID: "maf_low_hr", Name: "MAF / Low-HR (LT1)",
		MinHours: 8, MaxHours: 20, IdealHoursLow: 10, IdealHoursHigh: 15,
		BestFor: []string{"base_rebuild", "injury_return", "fat_adaptation"},
		NotFor:  []string{"need_quick_gains", "time_crunched"},
		ExperienceRequired: "beginner", StressTolerance: "very_high", ScheduleFlexibility: "high",
		ZoneTargets: ZoneTargets{0.95, 0.05, 0.00},
		StrengthApproach: "foundational_mobility_durability", KeyWorkouts: []string{"long_z2_hr_capped", "aerobic_strides"},
		ProgressionStyle: "duration_at_hr_cap", TestingFrequency: "3_4_weeks",
	},
	{
		ID: "goat_composite", Name: "GOAT (Gravel Optimized Adaptive Training)",
		MinHours: 8, MaxHours: 25, IdealHoursLow: 10, IdealHoursHigh: 18,
		BestFor: []string{"most_athletes", "flexible_adaptive", "gravel_specific"},
		NotFor:  []string{"pure_intuitive", "refuse_monitoring"},
		ExperienceRequired: "intermediate", StressTolerance: "moderate", ScheduleFlexibility: "high",
		ZoneTargets: ZoneTargets{0.70, 0.15, 0.15},
		StrengthApproach: "integrated_year_round", KeyWorkouts: []string{"phase_specific_rotating"},
		ProgressionStyle: "block_polarized_volume_modulation", TestingFrequency: "signal_triggered",
	},
	// Four additional variants used as validator targets: the first three
	// share the threshold-family ratios (0.45/0.30/0.25), and pyramidal
	// carries its own (0.75/0.15/0.10).
	{
		ID: "g_spot_threshold", Name: "G-Spot Threshold",
		MinHours: 6, MaxHours: 14, IdealHoursLow: 8, IdealHoursHigh: 12,
		BestFor: []string{"ftp_gains", "time_efficient"}, NotFor: []string{"ultra_endurance"},
		ExperienceRequired: "intermediate", StressTolerance: "moderate", ScheduleFlexibility: "high",
		ZoneTargets: ZoneTargets{0.45, 0.30, 0.25},
		StrengthApproach: "optional_short_efficient", KeyWorkouts: []string{"g_spot_intervals"},
		ProgressionStyle: "increase_density", TestingFrequency: "4_6_weeks",
	},
	{
		ID: "sweet_spot", Name: "Sweet Spot",
		MinHours: 6, MaxHours: 12, IdealHoursLow: 7, IdealHoursHigh: 10,
		BestFor: []string{"ftp_gains", "time_efficient"}, NotFor: []string{"ultra_endurance"},
		ExperienceRequired: "beginner", StressTolerance: "moderate", ScheduleFlexibility: "high",
		ZoneTargets: ZoneTargets{0.45, 0.30, 0.25},
		StrengthApproach: "optional_short_efficient", KeyWorkouts: []string{"sweet_spot_intervals"},
		ProgressionStyle: "increase_density", TestingFrequency: "4_6_weeks",
	},
	{
		ID: "threshold_focused", Name: "Threshold-Focused",
		MinHours: 6, MaxHours: 14, IdealHoursLow: 8, IdealHoursHigh: 12,
		BestFor: []string{"ftp_gains"}, NotFor: []string{"ultra_endurance"},
		ExperienceRequired: "intermediate", StressTolerance: "moderate", ScheduleFlexibility: "moderate",
		ZoneTargets: ZoneTargets{0.45, 0.30, 0.25},
		StrengthApproach: "optional_short_efficient", KeyWorkouts: []string{"threshold_intervals"},
		ProgressionStyle: "increase_density", TestingFrequency: "4_6_weeks",
	},
	{
		ID: "pyramidal", Name: "Pyramidal",
		MinHours: 8, MaxHours: 20, IdealHoursLow: 10, IdealHoursHigh: 16,
		BestFor: []string{"long_events", "durability"}, NotFor: []string{"time_crunched"},
		ExperienceRequired: "intermediate", StressTolerance: "moderate", ScheduleFlexibility: "moderate",
		ZoneTargets: ZoneTargets{0.75, 0.15, 0.10},
		StrengthApproach: "heavy_base_maintenance_build", KeyWorkouts: []string{"tempo_progression"},
		ProgressionStyle: "volume_then_intensity", TestingFrequency: "phase_end",
	},
}

// Candidate is one scored methodology.
type Candidate struct {
	ID            string
	Name          string
	Score         float64
	Reasons       []string
	Warnings      []string
	ZoneTargets   ZoneTargets
}

// RaceDemands summarizes the target event's physical demands, used by the
// race-demand-fit scoring dimension.
type RaceDemands struct {
	DistanceMiles      int
	DurationHours      float64
	TechnicalDifficulty string
	RepeatedSurges     bool
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func contains(list []string, v string) bool {
	for _, e := range list {
		if e == v {
			return true
		}
	}
	return false
}

// Score scores a single methodology definition against a profile, deriving
// tier, and race demands. Starts at 50 and applies documented bounded
// adjustments across eight dimensions.
func Score(def Definition, p *profile.Profile, demands RaceDemands) Candidate {
	score := 50.0
	var reasons, warnings []string

	// Hours match (+/-30)
	hours := p.WeeklyAvailability.CyclingHoursTarget
	if hours == 0 {
		hours = 10
	}
	switch {
	case hours < def.MinHours:
		deficit := def.MinHours - hours
		penalty := deficit * 5
		if penalty > 30 {
			penalty = 30
		}
		score -= penalty
		warnings = append(warnings, "below minimum hours for this methodology")
	case hours > def.MaxHours:
		excess := hours - def.MaxHours
		penalty := excess * 3
		if penalty > 20 {
			penalty = 20
		}
		score -= penalty
		warnings = append(warnings, "above typical maximum hours for this methodology")
	case hours >= def.IdealHoursLow && hours <= def.IdealHoursHigh:
		score += 20
		reasons = append(reasons, "ideal hours match")
	default:
		score += 10
		reasons = append(reasons, "acceptable hours within range")
	}

	// Experience match (+/-15)
	years := p.TrainingHistory.YearsStructured
	switch {
	case def.ExperienceRequired == "advanced" && years < 3:
		score -= 15
		warnings = append(warnings, "requires advanced experience")
	case def.ExperienceRequired == "intermediate" && years < 1:
		score -= 10
		warnings = append(warnings, "requires intermediate experience")
	case def.ExperienceRequired == "beginner":
		score += 5
		reasons = append(reasons, "beginner-friendly methodology")
	case years >= 3 && def.ExperienceRequired != "advanced":
		score += 5
		reasons = append(reasons, "experience exceeds requirements")
	}

	// Stress/lifestyle match (+/-15)
	stress := p.HealthFactors.StressLevel
	sleep := p.HealthFactors.SleepHoursAvg
	if sleep == 0 {
		sleep = 7
	}
	tolerant := def.StressTolerance == "very_high" || def.StressTolerance == "high" || def.StressTolerance == "variable"
	if stress == "high" || stress == "very_high" {
		if tolerant {
			score += 10
			reasons = append(reasons, "handles high life stress well")
		} else if def.StressTolerance == "low" {
			score -= 15
			warnings = append(warnings, "high training stress may conflict with high life stress")
		}
	}
	if sleep < 6.5 {
		if def.StressTolerance == "very_high" || def.StressTolerance == "high" {
			score += 5
			reasons = append(reasons, "recovery-friendly for low sleep")
		} else {
			score -= 5
			warnings = append(warnings, "low sleep may limit recovery from training stress")
		}
	}

	// Schedule flexibility fit (+/-10)
	needsFlexibility := p.ScheduleFactors.TravelFrequency == "frequent" || p.ScheduleFactors.TravelFrequency == "multi" ||
		p.ScheduleFactors.WorkSchedule == "variable" || p.ScheduleFactors.FamilyCommitments != ""
	if needsFlexibility {
		if def.ScheduleFlexibility == "very_high" || def.ScheduleFlexibility == "high" {
			score += 10
			reasons = append(reasons, "flexible enough for variable schedule")
		} else if def.ScheduleFlexibility == "low" {
			score -= 10
			warnings = append(warnings, "requires consistent schedule execution")
		}
	}

	// Race demand fit (+/-15)
	if demands.DistanceMiles >= 150 || demands.DurationHours >= 10 {
		if contains(def.BestFor, "long_events") || contains(def.BestFor, "durability") {
			score += 15
			reasons = append(reasons, "excellent for ultra-distance events")
		} else if contains(def.NotFor, "ultra_endurance") || contains(def.BestFor, "short_events") {
			score -= 15
			warnings = append(warnings, "not designed for ultra-distance events")
		}
	}
	if hours <= 6 && contains(def.BestFor, "time_crunched") {
		score += 10
		reasons = append(reasons, "designed for time-crunched athletes")
	}
	if demands.RepeatedSurges || demands.TechnicalDifficulty == "high" || demands.TechnicalDifficulty == "very_high" {
		if def.ID == "hiit_focused" {
			score += 10
			reasons = append(reasons, "good for repeated surge demands")
		}
	}

	// Goal-type fit (+/-10)
	goal := p.TargetRace.GoalType
	switch goal {
	case "podium":
		if def.ExperienceRequired == "advanced" {
			score += 5
			reasons = append(reasons, "advanced methodology for podium goals")
		} else if contains(def.BestFor, "time_crunched") {
			score -= 10
			warnings = append(warnings, "time-crunched approach may limit podium potential")
		}
	case "finish", "":
		if contains(def.BestFor, "recovery_friendly") || def.ExperienceRequired == "beginner" {
			score += 5
			reasons = append(reasons, "appropriate for finish-focused goal")
		}
	}

	// Past success/failure keywords (+/-10)
	prefs := p.MethodologyPreferences
	nameLower := strings.ToLower(def.Name)
	if prefs.PastSuccessWith != "" && keywordMatch(nameLower, prefs.PastSuccessWith) {
		score += 10
		reasons = append(reasons, "past success with this approach")
	}
	if prefs.PastFailureWith != "" && keywordMatch(nameLower, prefs.PastFailureWith) {
		score -= 10
		warnings = append(warnings, "past failure with this approach")
	}

	// Special conditions (+/-15)
	if p.TrainingEnvironment.IndoorRidingTolerance == "love_it" || p.TrainingEnvironment.IndoorRidingTolerance == "tolerate_it" {
		if def.ID == "reverse_periodization" {
			score += 5
			reasons = append(reasons, "good for indoor-heavy early training")
		}
	}
	if p.HealthFactors.Age >= 50 {
		if tolerant {
			score += 10
			reasons = append(reasons, "recovery-friendly for masters athletes")
		}
	}
	if p.RecentTraining.ComingOffInjury {
		if contains(def.BestFor, "injury_return") || contains(def.BestFor, "base_rebuild") {
			score += 15
			reasons = append(reasons, "appropriate for return from injury")
		} else if def.StressTolerance == "low" {
			score -= 10
			warnings = append(warnings, "high-stress approach may not suit injury return")
		}
	}

	return Candidate{
		ID: def.ID, Name: def.Name, Score: clamp(score),
		Reasons: reasons, Warnings: warnings, ZoneTargets: def.ZoneTargets,
	}
}

func keywordMatch(haystack, keywords string) bool {
	for _, kw := range strings.Fields(strings.ToLower(keywords)) {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

// Selection is the methodology-selector's output document.
type Selection struct {
	MethodologyID   string
	Name            string
	Score           float64
	Confidence      string
	ConfidenceNote  string
	Reasons         []string
	Warnings        []string
	ZoneTargets     ZoneTargets
	Alternatives    []Candidate
}

// Select scores every registry entry and returns the winner plus the top
// three alternatives.
func Select(p *profile.Profile, demands RaceDemands) *Selection {
	candidates := make([]Candidate, 0, len(Registry))
	for _, def := range Registry {
		candidates = append(candidates, Score(def, p, demands))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	winner := candidates[0]
	alternatives := candidates[1:]
	if len(alternatives) > 3 {
		alternatives = alternatives[:3]
	}

	var confidence, note string
	switch {
	case winner.Score >= 75:
		confidence, note = "high", "strong match for athlete profile"
	case winner.Score >= 60:
		confidence, note = "moderate", "good match with some considerations"
	default:
		confidence, note = "low", "review warnings and consider alternatives"
	}

	return &Selection{
		MethodologyID:  winner.ID,
		Name:           winner.Name,
		Score:          winner.Score,
		Confidence:     confidence,
		ConfidenceNote: note,
		Reasons:        winner.Reasons,
		Warnings:       winner.Warnings,
		ZoneTargets:    winner.ZoneTargets,
		Alternatives:   alternatives,
	}
}

// Lookup returns the definition for id.
func Lookup(id string) (Definition, bool) {
	for _, d := range Registry {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}
