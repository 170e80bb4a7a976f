// Package weekly assigns a semantic role to each day's morning and evening
// slot, combining the athlete's day-by-day availability with the
// classifier's key-day and strength-day candidate sets.
package weekly

import (
	"github.com/cyclecoach/engine/internal/classifier"
	"github.com/cyclecoach/engine/internal/profile"
)

// Role is a slot's semantic training purpose.
type Role string

const (
	RoleKeyCardio Role = "key_cardio"
	RoleLongRide  Role = "long_ride"
	RoleEasyRide  Role = "easy_ride"
	RoleStrength  Role = "strength"
	RoleRecovery  Role = "recovery"
	RoleRest      Role = "rest"
)

// DaySlots is one day's morning/evening role assignment.
type DaySlots struct {
	AM          *Role  `json:"am,omitempty"`
	PM          *Role  `json:"pm,omitempty"`
	IsKeyDay    bool   `json:"is_key_day"`
	Notes       string `json:"notes"`
	MaxDuration int    `json:"max_duration_min"`
}

// Structure is the full week's slot plan.
type Structure struct {
	Days map[string]DaySlots `json:"days"`
}

var dayOrder = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func role(r Role) *Role { return &r }

func hasSlot(slots []profile.TimeSlot, target profile.TimeSlot) bool {
	for _, s := range slots {
		if s == target {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, e := range list {
		if e == v {
			return true
		}
	}
	return false
}

// Build constructs the weekly structure from preferred-days availability,
// the classifier's key/strength-day candidates, and athlete tier (which
// determines whether compete/podium athletes get an easy spin after a key
// AM session).
func Build(preferredDays map[string]profile.DayPreference, keyDays, strengthDays []string, tier classifier.Tier) *Structure {
	structure := &Structure{Days: map[string]DaySlots{}}

	for _, day := range dayOrder {
		prefs := preferredDays[day]
		slots := DaySlots{MaxDuration: prefs.MaxDurationMin}

		if prefs.Availability == profile.AvailabilityUnavailable {
			structure.Days[day] = slots
			continue
		}

		isKey := contains(keyDays, day) && prefs.KeyDayOK
		isStrength := contains(strengthDays, day)

		if hasSlot(prefs.TimeSlots, profile.SlotAM) {
			switch {
			case day == "saturday" && prefs.MaxDurationMin >= 180 && isKey:
				slots.AM = role(RoleLongRide)
				slots.IsKeyDay = true
				slots.Notes = "key session - long ride"
			case isKey && !isStrength:
				slots.AM = role(RoleKeyCardio)
				slots.IsKeyDay = true
				slots.Notes = "key session - intervals or threshold"
			case isStrength && !isKey:
				slots.AM = role(RoleStrength)
				slots.Notes = "strength session"
			case isStrength && isKey:
				slots.AM = role(RoleStrength)
				slots.Notes = "strength AM"
			default:
				slots.AM = role(RoleEasyRide)
				slots.Notes = "easy ride or recovery"
			}
		}

		if hasSlot(prefs.TimeSlots, profile.SlotPM) {
			switch {
			case slots.AM != nil && (*slots.AM == RoleKeyCardio || *slots.AM == RoleLongRide):
				if (tier == classifier.TierCompete || tier == classifier.TierPodium) && *slots.AM == RoleKeyCardio {
					slots.PM = role(RoleEasyRide)
					slots.Notes += " + easy spin PM"
				}
			case slots.AM != nil && *slots.AM == RoleStrength:
				switch {
				case isKey && day == "saturday" && prefs.MaxDurationMin >= 180:
					slots.PM = role(RoleLongRide)
					slots.IsKeyDay = true
					slots.Notes = "strength AM + long ride PM"
				case isKey:
					slots.PM = role(RoleKeyCardio)
					slots.IsKeyDay = true
					slots.Notes = "strength AM + intervals PM"
				case prefs.MaxDurationMin >= 60:
					slots.PM = role(RoleEasyRide)
					slots.Notes += " + easy spin PM"
				}
			case isKey && !slots.IsKeyDay:
				slots.PM = role(RoleKeyCardio)
				slots.IsKeyDay = true
				slots.Notes = "key session - intervals PM"
			default:
				slots.PM = role(RoleEasyRide)
			}
		}

		if day == "sunday" && !isKey {
			if isStrength {
				slots.AM = role(RoleStrength)
				slots.Notes = "strength session"
			} else {
				slots.AM = role(RoleRecovery)
				slots.PM = nil
				slots.Notes = "recovery day"
			}
		}

		structure.Days[day] = slots
	}

	return structure
}
