package distribution

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyclecoach/engine/internal/methodology"
)

func writeWorkout(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("<workout_file></workout_file>"), 0o644))
}

func TestValidateDirClassifiesAndExcludes(t *testing.T) {
	dir := t.TempDir()
	writeWorkout(t, dir, "W01_Mon_Jun1_Endurance.xml")
	writeWorkout(t, dir, "W01_Tue_Jun2_Threshold.xml")
	writeWorkout(t, dir, "W01_Wed_Jun3_FTP_Test.xml")
	writeWorkout(t, dir, "W01_Thu_Jun4_Strength.xml")

	def := methodology.Definition{ID: "polarized_80_20", ZoneTargets: methodology.ZoneTargets{Z1Z2: 0.80, Z3: 0.0, Z4Z5: 0.20}}
	report, err := ValidateDir(dir, def)
	require.NoError(t, err)
	require.Equal(t, 2, report.TotalWorkouts)
	require.Equal(t, 2, report.ExcludedWorkouts)
}

func TestValidateDirFlagsLargeDeviationAsError(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 10; i++ {
		writeWorkout(t, dir, enduranceFileName(i))
	}
	def := methodology.Definition{ID: "polarized_80_20", ZoneTargets: methodology.ZoneTargets{Z1Z2: 0.10, Z3: 0.0, Z4Z5: 0.90}}
	report, err := ValidateDir(dir, def)
	require.NoError(t, err)
	require.False(t, report.Passed)
}

func enduranceFileName(i int) string {
	return "W01_Mon_Jun" + string(rune('1'+i)) + "_Endurance.xml"
}
