package weekly

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyclecoach/engine/internal/classifier"
	"github.com/cyclecoach/engine/internal/profile"
)

func TestBuildAssignsSaturdayLongRideOnKeyDay(t *testing.T) {
	preferred := map[string]profile.DayPreference{
		"saturday": {Availability: profile.AvailabilityAvailable, TimeSlots: []profile.TimeSlot{profile.SlotAM}, MaxDurationMin: 240, KeyDayOK: true},
	}
	structure := Build(preferred, []string{"saturday"}, nil, classifier.TierCompete)

	sat := structure.Days["saturday"]
	require.NotNil(t, sat.AM)
	require.Equal(t, RoleLongRide, *sat.AM)
	require.True(t, sat.IsKeyDay)
}

func TestBuildUnavailableDayStaysEmpty(t *testing.T) {
	preferred := map[string]profile.DayPreference{
		"friday": {Availability: profile.AvailabilityUnavailable},
	}
	structure := Build(preferred, nil, nil, classifier.TierFinisher)

	fri := structure.Days["friday"]
	require.Nil(t, fri.AM)
	require.Nil(t, fri.PM)
}

func TestBuildSundayDefaultsToRecoveryWhenNotKeyOrStrength(t *testing.T) {
	preferred := map[string]profile.DayPreference{
		"sunday": {Availability: profile.AvailabilityAvailable, TimeSlots: []profile.TimeSlot{profile.SlotAM, profile.SlotPM}, MaxDurationMin: 90},
	}
	structure := Build(preferred, nil, nil, classifier.TierFinisher)

	sun := structure.Days["sunday"]
	require.NotNil(t, sun.AM)
	require.Equal(t, RoleRecovery, *sun.AM)
	require.Nil(t, sun.PM)
}
