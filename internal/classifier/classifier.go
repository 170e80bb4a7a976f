// Package classifier derives tier, plan length, starting phase, and other
// structural classifications from a normalized athlete profile.
package classifier

import (
	"time"

	"github.com/cyclecoach/engine/internal/profile"
)

// Tier-boundary weekly-hour thresholds (inclusive upper bounds).
const (
	TierHoursAyahuascaMax = 5.0
	TierHoursFinisherMax  = 10.0
	TierHoursCompeteMax   = 18.0
)

// Tier is an athlete-capability classification.
type Tier string

const (
	TierAyahuasca Tier = "ayahuasca"
	TierFinisher  Tier = "finisher"
	TierCompete   Tier = "compete"
	TierPodium    Tier = "podium"
)

// dayOrder is the canonical Monday-first week used for key/strength-day
// scheduling arithmetic.
var dayOrder = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Derived holds every classification computed from a Profile.
type Derived struct {
	Tier                   Tier     `json:"tier"`
	PlanWeeks              int      `json:"plan_weeks"`
	StartingPhase          string   `json:"starting_phase"`
	StrengthFrequency      int      `json:"strength_frequency"`
	EquipmentTier          string   `json:"equipment_tier"`
	RiskFactors            []string `json:"risk_factors"`
	ExerciseExclusions     []string `json:"exercise_exclusions"`
	KeyDayCandidates       []string `json:"key_day_candidates"`
	StrengthDayCandidates  []string `json:"strength_day_candidates"`
}

// DeriveTier classifies the athlete by weekly hours with goal-type and
// history modifiers.
func DeriveTier(p *profile.Profile) Tier {
	hours := p.WeeklyAvailability.CyclingHoursTarget
	goal := p.TargetRace.GoalType
	if goal == "" {
		goal = "finish"
	}
	history := p.TrainingHistory.YearsStructured

	var tier Tier
	switch {
	case hours <= TierHoursAyahuascaMax:
		tier = TierAyahuasca
	case hours <= TierHoursFinisherMax:
		tier = TierFinisher
	case hours <= TierHoursCompeteMax:
		tier = TierCompete
	default:
		tier = TierPodium
	}

	if goal == "finish" && tier == TierPodium {
		tier = TierCompete
	}
	if history < 2 && (tier == TierCompete || tier == TierPodium) {
		tier = TierCompete
	}
	return tier
}

// CalculatePlanWeeks computes plan duration from the race date, clamped to
// [6, 24] (the classifier's own recommendation band, distinct from
// plandate's broader [4, 52] legality bound).
func CalculatePlanWeeks(p *profile.Profile, now time.Time) int {
	raceDate, err := time.Parse("2006-01-02", p.TargetRace.Date)
	if err != nil {
		return 12
	}

	start := now
	if preferred := p.ScheduleConstraints.PreferredStart; preferred != "" {
		if t, err := time.Parse("2006-01-02", preferred); err == nil {
			start = t
		}
	} else {
		daysUntilMonday := (7 - int(now.Weekday()) + 1) % 7
		if daysUntilMonday == 0 {
			daysUntilMonday = 7
		}
		start = now.AddDate(0, 0, daysUntilMonday)
	}

	days := int(raceDate.Sub(start).Hours() / 24)
	weeks := days / 7
	if weeks < 6 {
		weeks = 6
	}
	if weeks > 24 {
		weeks = 24
	}
	return weeks
}

// DetermineStartingPhase picks where in the training progression to begin.
func DetermineStartingPhase(p *profile.Profile) string {
	currentPhase := p.RecentTraining.CurrentPhase
	background := p.TrainingHistory.StrengthBackground

	switch currentPhase {
	case "off-season", "recovery", "":
		return "base_1"
	case "base":
		if background == "intermediate" || background == "advanced" {
			return "base_2"
		}
		return "base_1"
	case "build":
		return "build_1"
	default:
		return "base_1"
	}
}

// DetermineStrengthFrequency picks weekly strength-session count.
func DetermineStrengthFrequency(p *profile.Profile, tier Tier) int {
	maxSessions := p.WeeklyAvailability.StrengthSessionsMax
	if maxSessions == 0 {
		maxSessions = 2
	}
	background := p.TrainingHistory.StrengthBackground

	tierFrequency := map[Tier]int{
		TierAyahuasca: 3,
		TierFinisher:  2,
		TierCompete:   2,
		TierPodium:    2,
	}
	freq := tierFrequency[tier]
	if freq == 0 {
		freq = 2
	}
	if freq > maxSessions {
		freq = maxSessions
	}
	if background == "none" && freq > 2 {
		freq = 2
	}
	return freq
}

// ClassifyEquipment buckets the athlete's strength equipment inventory.
func ClassifyEquipment(p *profile.Profile) string {
	has := func(item string) bool {
		for _, e := range p.StrengthEquipment {
			if e == item {
				return true
			}
		}
		return false
	}

	if has("gym_membership") || (has("barbell") && has("squat_rack")) {
		return "full"
	}
	if has("dumbbells") || has("kettlebells") || has("resistance_bands") {
		return "moderate"
	}
	return "minimal"
}

// ExerciseExclusions builds the set of strength exercises to avoid based
// on injuries and movement limitations.
func ExerciseExclusions(p *profile.Profile) []string {
	seen := map[string]bool{}
	add := func(names ...string) {
		for _, n := range names {
			seen[n] = true
		}
	}

	for _, injury := range p.Injuries {
		add(injury.ExercisesToAvoid...)
		area := injury.Area
		severe := injury.Severity != "minor" && injury.Severity != ""

		switch area {
		case "knee":
			if severe {
				add("Jump Squat", "Box Jump", "Split Squat Jump", "Pistol Squat", "Bulgarian Split Squat")
			}
		case "shoulder":
			add("Overhead Press", "Pike Push-Up", "Pull-Up", "Turkish Get-Up")
		case "back":
			if severe {
				add("Deadlift", "Good Morning", "Barbell Row", "Heavy Back Squat")
			}
		case "hip":
			add("Hip Thrust", "Single-Leg Glute Bridge")
		}
	}

	lim := p.MovementLimitations
	limited := func(v string) bool { return v == "significantly_limited" || v == "painful" }
	if limited(lim.DeepSquat) {
		add("Pistol Squat", "Deep Goblet Squat", "Ass-to-Grass Squat")
	}
	if limited(lim.OverheadReach) {
		add("Overhead Press", "Turkish Get-Up", "Overhead Carry")
	}
	if limited(lim.SingleLegBalance) {
		add("Single-Leg RDL", "Bulgarian Split Squat", "Pistol Squat")
	}

	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	return out
}

// IdentifyKeyDays finds days eligible for high-priority key sessions.
func IdentifyKeyDays(p *profile.Profile) []string {
	var keyDays []string
	for _, day := range dayOrder {
		prefs, ok := p.PreferredDays[day]
		if !ok {
			continue
		}
		if prefs.Availability == profile.AvailabilityAvailable && prefs.KeyDayOK && prefs.MaxDurationMin >= 60 {
			keyDays = append(keyDays, day)
		}
	}
	return keyDays
}

type strengthCandidate struct {
	day         string
	priority    int
	hasAM       bool
	maxDuration int
}

// IdentifyStrengthDays picks the best days for strength sessions, avoiding
// the 48-hour window before a key day and preferring non-key days with an
// AM slot.
func IdentifyStrengthDays(p *profile.Profile, frequency int, keyDays []string) []string {
	keySet := map[string]bool{}
	for _, d := range keyDays {
		keySet[d] = true
	}

	avoid := map[string]bool{}
	for _, keyDay := range keyDays {
		idx := indexOf(dayOrder, keyDay)
		if idx > 0 {
			avoid[dayOrder[idx-1]] = true
		}
	}

	var candidates []strengthCandidate
	for _, day := range dayOrder {
		prefs, ok := p.PreferredDays[day]
		if !ok || prefs.Availability == profile.AvailabilityUnavailable {
			continue
		}
		if prefs.MaxDurationMin < 30 {
			continue
		}
		if len(prefs.TimeSlots) == 0 {
			continue
		}

		hasAM := hasSlot(prefs.TimeSlots, profile.SlotAM)
		isKey := keySet[day]

		var priority int
		if isKey {
			if !hasAM {
				continue
			}
			priority = 1
		} else {
			if avoid[day] {
				continue
			}
			priority = 0
		}

		candidates = append(candidates, strengthCandidate{day: day, priority: priority, hasAM: hasAM, maxDuration: prefs.MaxDurationMin})
	}

	sortCandidates(candidates)

	n := frequency
	if n > len(candidates) {
		n = len(candidates)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, candidates[i].day)
	}
	return out
}

func sortCandidates(c []strengthCandidate) {
	// Stable insertion sort: priority asc, then AM-first, then duration desc.
	for i := 1; i < len(c); i++ {
		j := i
		for j > 0 && less(c[j], c[j-1]) {
			c[j], c[j-1] = c[j-1], c[j]
			j--
		}
	}
}

func less(a, b strengthCandidate) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	if a.hasAM != b.hasAM {
		return a.hasAM
	}
	return a.maxDuration > b.maxDuration
}

func hasSlot(slots []profile.TimeSlot, target profile.TimeSlot) bool {
	for _, s := range slots {
		if s == target {
			return true
		}
	}
	return false
}

func indexOf(s []string, v string) int {
	for i, e := range s {
		if e == v {
			return i
		}
	}
	return -1
}

// RiskFactors flags elevated-risk conditions used by downstream stages to
// moderate load.
func RiskFactors(p *profile.Profile) []string {
	var risks []string
	if p.HealthFactors.SleepHoursAvg > 0 && p.HealthFactors.SleepHoursAvg < 7 {
		risks = append(risks, "low_sleep")
	}
	if p.HealthFactors.StressLevel == "high" || p.HealthFactors.StressLevel == "very_high" {
		risks = append(risks, "high_stress")
	}
	if p.RecentTraining.ComingOffInjury {
		risks = append(risks, "returning_from_injury")
	}
	if p.TrainingHistory.YearsStructured < 1 {
		risks = append(risks, "new_to_structured_training")
	}
	return risks
}

// Derive computes the full Derived classification set from a profile.
func Derive(p *profile.Profile, now time.Time) *Derived {
	tier := DeriveTier(p)
	keyDays := IdentifyKeyDays(p)
	strengthFrequency := DetermineStrengthFrequency(p, tier)

	return &Derived{
		Tier:                  tier,
		PlanWeeks:             CalculatePlanWeeks(p, now),
		StartingPhase:         DetermineStartingPhase(p),
		StrengthFrequency:     strengthFrequency,
		EquipmentTier:         ClassifyEquipment(p),
		RiskFactors:           RiskFactors(p),
		ExerciseExclusions:    ExerciseExclusions(p),
		KeyDayCandidates:      keyDays,
		StrengthDayCandidates: IdentifyStrengthDays(p, strengthFrequency, keyDays),
	}
}
