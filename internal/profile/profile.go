// Package profile defines the normalized athlete intake document and its
// invariants. A Profile is the pipeline's sole input document; every later
// stage derives from it.
package profile

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	cerrors "github.com/cyclecoach/engine/internal/errors"
	cvalidation "github.com/cyclecoach/engine/internal/validation"
)

// Availability is a day's general openness to training.
type Availability string

const (
	AvailabilityAvailable   Availability = "available"
	AvailabilityLimited     Availability = "limited"
	AvailabilityUnavailable Availability = "unavailable"
	AvailabilityRest        Availability = "rest"
)

// TimeSlot is a time-of-day window a day offers for training.
type TimeSlot string

const (
	SlotAM TimeSlot = "am"
	SlotPM TimeSlot = "pm"
)

// DayPreference is one weekday's availability pattern.
type DayPreference struct {
	Availability  Availability `json:"availability" validate:"required,oneof=available limited unavailable rest"`
	TimeSlots     []TimeSlot   `json:"time_slots"`
	MaxDurationMin int         `json:"max_duration_min" validate:"gte=0,lte=600"`
	KeyDayOK      bool         `json:"is_key_day_ok"`
	LongDayOK     bool         `json:"is_long_day_ok"`
}

// TargetRace is the athlete's primary goal event.
type TargetRace struct {
	Name          string `json:"name" validate:"required"`
	RaceID        string `json:"race_id"`
	Date          string `json:"date" validate:"required"`
	DistanceMiles int    `json:"distance_miles"`
	GoalType      string `json:"goal_type" validate:"omitempty,oneof=finish compete podium"`
}

// BEventInput is a secondary race the athlete wants respected by the plan.
type BEventInput struct {
	Name string `json:"name" validate:"required"`
	Date string `json:"date" validate:"required"`
}

// ScheduleConstraints captures fixed scheduling rules outside day-by-day
// preferences.
type ScheduleConstraints struct {
	PreferredLongDay  string `json:"preferred_long_day"`
	StrengthOnlyDays  []string `json:"strength_only_days"`
	HeavyTrainingEnd  string `json:"heavy_training_end"`
	PreferredStart    string `json:"preferred_start"`
}

// TrainingHistory captures the athlete's structured-training background.
type TrainingHistory struct {
	YearsStructured      float64 `json:"years_structured"`
	HighestEverWeeklyHrs float64 `json:"highest_ever_weekly_hours"`
	CurrentWeeklyHrs     float64 `json:"current_weekly_hours"`
	StrengthBackground   string  `json:"strength_background" validate:"omitempty,oneof=none beginner intermediate advanced"`
}

// RecentTraining captures where the athlete is right now.
type RecentTraining struct {
	CurrentPhase      string `json:"current_phase"`
	DaysSinceLastRide int    `json:"days_since_last_ride"`
	ComingOffInjury   bool   `json:"coming_off_injury"`
}

// HealthFactors captures lifestyle inputs used by classification and
// methodology scoring.
type HealthFactors struct {
	Age            int     `json:"age"`
	SleepHoursAvg  float64 `json:"sleep_hours_avg"`
	StressLevel    string  `json:"stress_level" validate:"omitempty,oneof=low moderate high very_high"`
	RecoveryCapacity string `json:"recovery_capacity"`
}

// Injury describes one current or historical injury.
type Injury struct {
	Area             string   `json:"area"`
	Severity         string   `json:"severity" validate:"omitempty,oneof=minor moderate severe"`
	ExercisesToAvoid []string `json:"exercises_to_avoid"`
	AffectsCycling   bool     `json:"affects_cycling"`
	AffectsStrength  bool     `json:"affects_strength"`
}

// MovementLimitations captures mobility constraints affecting strength
// exercise selection.
type MovementLimitations struct {
	DeepSquat        string `json:"deep_squat"`
	OverheadReach     string `json:"overhead_reach"`
	SingleLegBalance  string `json:"single_leg_balance"`
}

// WeeklyAvailability summarizes the hours and session caps the athlete can
// commit to.
type WeeklyAvailability struct {
	CyclingHoursTarget  float64 `json:"cycling_hours_target" validate:"gte=0,lte=40"`
	StrengthSessionsMax int     `json:"strength_sessions_max" validate:"gte=0,lte=7"`
}

// ScheduleFactors captures volatility in the athlete's week-to-week
// schedule, used by the methodology selector's flexibility scoring.
type ScheduleFactors struct {
	TravelFrequency     string `json:"travel_frequency" validate:"omitempty,oneof=none occasional frequent multi"`
	WorkSchedule        string `json:"work_schedule"`
	FamilyCommitments   string `json:"family_commitments"`
}

// MethodologyPreferences captures self-reported history with training
// approaches.
type MethodologyPreferences struct {
	PastSuccessWith string `json:"past_success_with"`
	PastFailureWith string `json:"past_failure_with"`
}

// Work captures employment-driven time constraints.
type Work struct {
	HoursPerWeek int `json:"hours_per_week"`
}

// TrainingEnvironment captures indoor/outdoor preferences.
type TrainingEnvironment struct {
	IndoorRidingTolerance string `json:"indoor_riding_tolerance"`
}

// Profile is the normalized athlete intake document.
type Profile struct {
	AthleteID   string `json:"athlete_id" validate:"required,max=64"`
	DisplayName string `json:"display_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	WeightKg    float64 `json:"weight_kg" validate:"gt=0,lte=250"`
	FTPWatts    int     `json:"ftp_watts" validate:"gte=50,lte=500"`

	TargetRace TargetRace    `json:"target_race" validate:"required"`
	BEvents    []BEventInput `json:"b_events"`

	PreferredDays map[string]DayPreference `json:"preferred_days" validate:"required"`

	ScheduleConstraints    ScheduleConstraints     `json:"schedule_constraints"`
	TrainingHistory        TrainingHistory         `json:"training_history"`
	RecentTraining         RecentTraining          `json:"recent_training"`
	HealthFactors          HealthFactors           `json:"health_factors"`
	Injuries               []Injury                `json:"injury_history"`
	MovementLimitations    MovementLimitations     `json:"movement_limitations"`
	StrengthEquipment      []string                `json:"strength_equipment"`
	WeeklyAvailability     WeeklyAvailability      `json:"weekly_availability"`
	ScheduleFactors        ScheduleFactors         `json:"schedule_factors"`
	MethodologyPreferences MethodologyPreferences  `json:"methodology_preferences"`
	Work                   Work                    `json:"work"`
	TrainingEnvironment    TrainingEnvironment     `json:"training_environment"`
}

var structValidator = validator.New()

// Validate enforces the Profile invariants beyond struct tags: race date
// not more than 7 days in the past, and at least one day flagged key-OK.
// It returns an accumulating Result rather than short-circuiting on the
// first problem.
func Validate(p *Profile, now time.Time) *cvalidation.Result {
	result := cvalidation.NewResult()

	if err := structValidator.Struct(p); err != nil {
		result.AddError(cerrors.NewValidation("profile", err.Error()))
	}

	raceDate, err := time.Parse("2006-01-02", p.TargetRace.Date)
	if err != nil {
		result.AddError(cerrors.NewValidation("target_race.date", fmt.Sprintf("invalid date %q", p.TargetRace.Date)))
	} else if raceDate.Before(now.AddDate(0, 0, -7)) {
		result.AddError(cerrors.NewValidation("target_race.date", "race date is more than 7 days in the past"))
	}

	hasKeyDay := false
	for _, d := range p.PreferredDays {
		if d.KeyDayOK {
			hasKeyDay = true
			break
		}
	}
	if !hasKeyDay {
		result.AddError(cerrors.NewValidation("preferred_days", "at least one day must be flagged key-session eligible"))
	}

	return result
}
