// Package plandate computes a deterministic backwards-from-race-date week
// and phase structure for a training plan: given a race date, a target
// plan length, and optional heavy-training-end / B-event constraints, it
// produces a contiguous sequence of weeks each carrying a phase and seven
// day-entries.
//
// The calculation is a pure function of its inputs plus "now" (passed
// explicitly so callers can test deterministically) — no I/O, mirroring
// the phase/schedule calculators this package is modeled on.
package plandate

import (
	"fmt"
	"time"

	"github.com/cyclecoach/engine/internal/validation"
)

// Phase is a week's training-emphasis label.
type Phase string

const (
	PhaseBase        Phase = "base"
	PhaseBuild       Phase = "build"
	PhasePeak        Phase = "peak"
	PhaseMaintenance Phase = "maintenance"
	PhaseTaper       Phase = "taper"
	PhaseRace        Phase = "race"
)

// MinPlanWeeks and MaxPlanWeeks bound a legal plan length.
const (
	MinPlanWeeks = 4
	MaxPlanWeeks = 52
	// SoftMinPlanWeeks is the floor shrinking never goes below, and the
	// threshold below which a plan is legal but triggers a warning.
	SoftMinPlanWeeks = 6
)

var dayAbbrevs = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
var monthAbbrevs = [13]string{"", "Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// BEvent is a secondary-priority race that may fall inside the plan.
type BEvent struct {
	Name string
	Date time.Time
}

// BRaceOverlay records that a week contains a B-event, without altering
// the week's assigned phase.
type BRaceOverlay struct {
	Name  string
	Date  time.Time
	Phase Phase
}

// Day is one day-entry within a week.
type Day struct {
	Abbrev        string
	Date          time.Time
	DateShort     string // e.g. "Jun28"
	WorkoutPrefix string // e.g. "W12_Sun_Jun28"
	IsRaceDay     bool
	IsBRaceDay    bool
	IsBRaceOpener bool
	IsBRaceEasy   bool
}

// Week is one Monday-Sunday training week.
type Week struct {
	Number     int
	Phase      Phase
	Monday     time.Time
	Sunday     time.Time
	IsRaceWeek bool
	BRace      *BRaceOverlay
	Days       [7]Day
}

// PlanDates is the full computed plan-date structure.
type PlanDates struct {
	Weeks                   []Week
	PlanStartShort          string
	WorkoutNamingConvention string
	WorkoutExample          string
}

// Input bundles the plan-date calculator's parameters.
type Input struct {
	RaceDate        time.Time
	PlanWeeks       int
	HeavyTrainingEnd *time.Time
	PreferredStart   *time.Time
	BEvents          []BEvent
	Now              time.Time
}

// isoWeekdayOffset returns days since the most recent Monday (0 for
// Monday .. 6 for Sunday), unlike time.Weekday which is Sunday-indexed.
func isoWeekdayOffset(t time.Time) int {
	wd := int(t.Weekday())
	// time.Sunday == 0; convert to Monday == 0 .. Sunday == 6.
	return (wd + 6) % 7
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Calculate computes the plan-date structure for in. It returns the
// structure, an accumulating validation result (warnings only — callers
// treat them as advisory), and an error only when plan-weeks is out of
// bounds or inputs are otherwise unusable.
func Calculate(in Input) (*PlanDates, *validation.Result, error) {
	result := validation.NewResult()

	if in.PlanWeeks < MinPlanWeeks || in.PlanWeeks > MaxPlanWeeks {
		return nil, nil, fmt.Errorf("plandate: plan-weeks %d out of bounds [%d, %d]", in.PlanWeeks, MinPlanWeeks, MaxPlanWeeks)
	}

	race := dateOnly(in.RaceDate)
	now := dateOnly(in.Now)
	planWeeks := in.PlanWeeks

	raceWeekMonday := race.AddDate(0, 0, -isoWeekdayOffset(race))
	week1Monday := raceWeekMonday.AddDate(0, 0, -7*(planWeeks-1))

	if in.PreferredStart != nil {
		preferred := dateOnly(*in.PreferredStart)
		if preferred.After(week1Monday) {
			daysAvailable := int(raceWeekMonday.Sub(preferred).Hours() / 24)
			availableWeeks := daysAvailable/7 + 1
			planWeeks = availableWeeks
			if planWeeks < SoftMinPlanWeeks {
				planWeeks = SoftMinPlanWeeks
			}
			week1Monday = raceWeekMonday.AddDate(0, 0, -7*(planWeeks-1))
		}
	}

	if week1Monday.Before(now) {
		daysUntilMonday := (7 - isoWeekdayOffset(now)) % 7
		if daysUntilMonday == 0 {
			daysUntilMonday = 7
		}
		rolled := now.AddDate(0, 0, daysUntilMonday)
		weeksRemaining := int(raceWeekMonday.Sub(rolled).Hours()/24)/7 + 1
		if weeksRemaining < MinPlanWeeks {
			weeksRemaining = MinPlanWeeks
		}
		planWeeks = weeksRemaining
		week1Monday = rolled
		result.AddWarning("plan start date fell in the past; rolled forward to the next Monday and recomputed plan length")
	}

	if planWeeks < SoftMinPlanWeeks {
		result.AddWarning(fmt.Sprintf("plan length %d weeks is below the recommended minimum of %d", planWeeks, SoftMinPlanWeeks))
	}

	weeks := make([]Week, planWeeks)
	for w := 1; w <= planWeeks; w++ {
		monday := week1Monday.AddDate(0, 0, 7*(w-1))
		sunday := monday.AddDate(0, 0, 6)
		progress := float64(w-1) / float64(planWeeks)

		var phase Phase
		switch {
		case w == planWeeks:
			phase = PhaseRace
		case w >= planWeeks-1:
			phase = PhaseTaper
		case in.HeavyTrainingEnd != nil && !monday.Before(dateOnly(*in.HeavyTrainingEnd)):
			phase = PhaseMaintenance
		case progress >= 0.75:
			phase = PhasePeak
		case progress >= 0.5:
			phase = PhaseBuild
		default:
			phase = PhaseBase
		}

		week := Week{
			Number:     w,
			Phase:      phase,
			Monday:     monday,
			Sunday:     sunday,
			IsRaceWeek: w == planWeeks,
		}

		for i := 0; i < 7; i++ {
			date := monday.AddDate(0, 0, i)
			week.Days[i] = Day{
				Abbrev:        dayAbbrevs[i],
				Date:          date,
				DateShort:     dateShort(date),
				WorkoutPrefix: fmt.Sprintf("W%02d_%s_%s", w, dayAbbrevs[i], dateShort(date)),
				IsRaceDay:     date.Equal(race),
			}
		}

		weeks[w-1] = week
	}

	for _, b := range in.BEvents {
		bDate := dateOnly(b.Date)
		for i := range weeks {
			wk := &weeks[i]
			if bDate.Before(wk.Monday) || bDate.After(wk.Sunday) {
				continue
			}
			wk.BRace = &BRaceOverlay{Name: b.Name, Date: bDate, Phase: wk.Phase}
			for d := 0; d < 7; d++ {
				if !wk.Days[d].Date.Equal(bDate) {
					continue
				}
				wk.Days[d].IsBRaceDay = true
				if d > 0 {
					wk.Days[d-1].IsBRaceOpener = true
				}
				if wk.Phase == PhaseBuild || wk.Phase == PhasePeak {
					if d-2 >= 0 {
						wk.Days[d-2].IsBRaceEasy = true
					}
				}
				break
			}
			break
		}
	}

	plan := &PlanDates{
		Weeks:                   weeks,
		PlanStartShort:          dateShort(week1Monday),
		WorkoutNamingConvention: "W{week:02d}_{DayAbbr}_{MonDD}_{Type}.xml",
		WorkoutExample:          weeks[0].Days[0].WorkoutPrefix + "_Endurance.xml",
	}

	if err := Validate(plan, race); err != nil {
		return plan, result, err
	}

	return plan, result, nil
}

func dateShort(t time.Time) string {
	return fmt.Sprintf("%s%d", monthAbbrevs[int(t.Month())], t.Day())
}

// Validate enforces the post-computation invariants: weeks are strictly
// consecutive, week numbers are sequential, the final week contains the
// race date, and exactly one day in that week is the race day.
func Validate(plan *PlanDates, race time.Time) error {
	if len(plan.Weeks) == 0 {
		return fmt.Errorf("plandate: no weeks computed")
	}
	for i, w := range plan.Weeks {
		if w.Number != i+1 {
			return fmt.Errorf("plandate: week numbers not sequential at index %d (got %d)", i, w.Number)
		}
		if i > 0 {
			prev := plan.Weeks[i-1]
			gap := int(w.Monday.Sub(prev.Sunday).Hours() / 24)
			if gap != 1 {
				return fmt.Errorf("plandate: week %d is not contiguous with week %d (gap %d days)", w.Number, prev.Number, gap)
			}
		}
	}
	last := plan.Weeks[len(plan.Weeks)-1]
	raceDate := dateOnly(race)
	if raceDate.Before(last.Monday) || raceDate.After(last.Sunday) {
		return fmt.Errorf("plandate: race date %s not within final week", raceDate.Format("2006-01-02"))
	}
	raceDayCount := 0
	for _, d := range last.Days {
		if d.IsRaceDay {
			raceDayCount++
		}
	}
	if raceDayCount != 1 {
		return fmt.Errorf("plandate: expected exactly one race day in final week, got %d", raceDayCount)
	}
	return nil
}
