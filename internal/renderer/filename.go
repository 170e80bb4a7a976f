package renderer

import (
	"fmt"
	"strconv"
	"strings"
)

// FileName builds the bit-exact workout filename: W{ww}_{DayAbbr}_{MonDD}_{Type}.xml
func FileName(week int, dayAbbr, monthAbbr string, dayOfMonth int, workoutType string) string {
	typ := strings.ReplaceAll(workoutType, " ", "_")
	return fmt.Sprintf("W%s_%s_%s%d_%s.xml", pad2(week), dayAbbr, monthAbbr, dayOfMonth, typ)
}

func pad2(n int) string {
	s := strconv.Itoa(n)
	if len(s) >= 2 {
		return s
	}
	return "0" + s
}

// FileNameForDay builds the filename from a plan day's precomputed
// WorkoutPrefix (e.g. "W12_Sun_Jun28") plus a workout type.
func FileNameForDay(workoutPrefix, workoutType string) string {
	typ := strings.ReplaceAll(workoutType, " ", "_")
	return fmt.Sprintf("%s_%s.xml", workoutPrefix, typ)
}

// ParseFileName is the inverse of FileName, extracting week, day-abbr, and
// type for the file-name round-trip invariant.
func ParseFileName(name string) (week int, dayAbbr string, workoutType string, ok bool) {
	name = strings.TrimSuffix(name, ".xml")
	parts := strings.SplitN(name, "_", 4)
	if len(parts) != 4 || !strings.HasPrefix(parts[0], "W") {
		return 0, "", "", false
	}
	w, err := strconv.Atoi(parts[0][1:])
	if err != nil {
		return 0, "", "", false
	}
	return w, parts[1], parts[3], true
}
