// Package distribution validates that a generated set of workout files
// matches its selected methodology's intensity-distribution targets.
package distribution

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cyclecoach/engine/internal/methodology"
	"github.com/cyclecoach/engine/internal/renderer"
)

// Bucket is one of the three training-zone buckets.
type Bucket string

const (
	BucketZ1Z2 Bucket = "z1_z2"
	BucketZ3   Bucket = "z3"
	BucketZ4Z5 Bucket = "z4_z5"
)

var zoneTable = map[string]Bucket{
	"Recovery": BucketZ1Z2, "Easy": BucketZ1Z2, "Endurance": BucketZ1Z2,
	"Long_Ride": BucketZ1Z2, "Shakeout": BucketZ1Z2, "Rest": BucketZ1Z2,
	"Tempo": BucketZ3, "Sweet_Spot": BucketZ3, "G_Spot": BucketZ3,
	"Threshold": BucketZ4Z5, "VO2max": BucketZ4Z5, "Over_Under": BucketZ4Z5,
	"Anaerobic": BucketZ4Z5, "Sprints": BucketZ4Z5, "Openers": BucketZ4Z5,
	"Race_Sim": BucketZ4Z5, "Blended": BucketZ4Z5,
}

// excludedPrefixes are workout-type prefixes excluded from the
// denominator entirely: FTP tests, race day, and any strength session.
var excludedPrefixes = []string{"FTP_Test", "RACE_DAY", "Strength"}

func isExcluded(workoutType string) bool {
	for _, p := range excludedPrefixes {
		if strings.HasPrefix(workoutType, p) {
			return true
		}
	}
	return false
}

const (
	warnThreshold = 0.02
	errThreshold  = 0.05
)

// Severity is a bucket's validation outcome.
type Severity string

const (
	SeverityOK      Severity = "ok"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// BucketResult is one bucket's computed deviation.
type BucketResult struct {
	Bucket    Bucket   `json:"bucket"`
	Count     int      `json:"count"`
	Actual    float64  `json:"actual_ratio"`
	Target    float64  `json:"target_ratio"`
	Deviation float64  `json:"deviation"`
	Severity  Severity `json:"severity"`
}

// Report is the distribution validator's output document.
type Report struct {
	MethodologyID     string         `json:"methodology_id"`
	TotalWorkouts      int            `json:"total_workouts"`
	ExcludedWorkouts   int            `json:"excluded_workouts"`
	Buckets            []BucketResult `json:"buckets"`
	UnknownTypes       []string       `json:"unknown_types"`
	Passed             bool           `json:"passed"`
}

func severityFor(deviation float64) Severity {
	abs := deviation
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs > errThreshold:
		return SeverityError
	case abs > warnThreshold:
		return SeverityWarning
	default:
		return SeverityOK
	}
}

// ValidateDir reads all workout filenames in workoutsDir, classifies
// them, and compares the resulting ratios against def's zone targets.
func ValidateDir(workoutsDir string, def methodology.Definition) (*Report, error) {
	entries, err := os.ReadDir(workoutsDir)
	if err != nil {
		return nil, fmt.Errorf("distribution: reading workouts dir: %w", err)
	}

	counts := map[Bucket]int{}
	unknown := map[string]bool{}
	total := 0
	excluded := 0

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".xml" {
			continue
		}
		_, _, workoutType, ok := renderer.ParseFileName(e.Name())
		if !ok {
			continue
		}
		if isExcluded(workoutType) {
			excluded++
			continue
		}
		bucket, known := zoneTable[workoutType]
		if !known {
			unknown[workoutType] = true
			continue
		}
		counts[bucket]++
		total++
	}

	unknownList := make([]string, 0, len(unknown))
	for t := range unknown {
		unknownList = append(unknownList, t)
	}

	report := &Report{MethodologyID: def.ID, TotalWorkouts: total, ExcludedWorkouts: excluded, UnknownTypes: unknownList}
	passed := true

	targets := map[Bucket]float64{BucketZ1Z2: def.ZoneTargets.Z1Z2, BucketZ3: def.ZoneTargets.Z3, BucketZ4Z5: def.ZoneTargets.Z4Z5}
	for _, bucket := range []Bucket{BucketZ1Z2, BucketZ3, BucketZ4Z5} {
		actual := 0.0
		if total > 0 {
			actual = float64(counts[bucket]) / float64(total)
		}
		target := targets[bucket]
		deviation := actual - target
		sev := severityFor(deviation)
		if sev == SeverityError {
			passed = false
		}
		report.Buckets = append(report.Buckets, BucketResult{
			Bucket: bucket, Count: counts[bucket], Actual: round4(actual), Target: target,
			Deviation: round4(deviation), Severity: sev,
		})
	}

	report.Passed = passed
	return report, nil
}

func round4(v float64) float64 {
	const scale = 10000.0
	if v < 0 {
		return -round4(-v)
	}
	return float64(int(v*scale+0.5)) / scale
}
