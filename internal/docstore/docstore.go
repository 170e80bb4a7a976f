// Package docstore persists per-athlete pipeline documents as individually
// addressable, self-describing JSON files under the athlete's directory.
// Each document type (profile, derived classification, methodology
// selection, and so on) is a named file; stages read their inputs and
// write their outputs through this store rather than touching the
// filesystem directly.
package docstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cyclecoach/engine/internal/atomicfile"
)

// Kind names one of the documents a pipeline run produces.
type Kind string

const (
	KindProfile          Kind = "profile"
	KindDerived          Kind = "derived"
	KindMethodology      Kind = "methodology"
	KindFueling          Kind = "fueling"
	KindPlanDates        Kind = "plan_dates"
	KindWeeklyStructure  Kind = "weekly_structure"
	KindPlanSummary      Kind = "plan_summary"
	KindDistributionRpt  Kind = "distribution_report"
)

func (k Kind) filename() string {
	return string(k) + ".json"
}

// Store roots all document I/O under a single directory containing one
// subdirectory per athlete.
type Store struct {
	root string
}

// New creates a Store rooted at root (e.g. "athletes").
func New(root string) *Store {
	return &Store{root: root}
}

// AthleteDir returns the directory holding athleteID's documents.
func (s *Store) AthleteDir(athleteID string) string {
	return filepath.Join(s.root, athleteID)
}

// WorkoutsDir returns the directory holding athleteID's rendered workout
// files.
func (s *Store) WorkoutsDir(athleteID string) string {
	return filepath.Join(s.AthleteDir(athleteID), "workouts")
}

// GuidePath returns the path of the athlete's rendered HTML guide.
func (s *Store) GuidePath(athleteID string) string {
	return filepath.Join(s.AthleteDir(athleteID), "guide.html")
}

// Put serializes v as JSON and writes it atomically to athleteID's kind
// document.
func (s *Store) Put(athleteID string, kind Kind, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("docstore: marshal %s for %s: %w", kind, athleteID, err)
	}
	target := filepath.Join(s.AthleteDir(athleteID), kind.filename())
	if err := atomicfile.Write(target, data, 0o644); err != nil {
		return fmt.Errorf("docstore: write %s for %s: %w", kind, athleteID, err)
	}
	return nil
}

// Get reads athleteID's kind document into v.
func (s *Store) Get(athleteID string, kind Kind, v interface{}) error {
	path := filepath.Join(s.AthleteDir(athleteID), kind.filename())
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("docstore: read %s for %s: %w", kind, athleteID, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("docstore: parse %s for %s: %w", kind, athleteID, err)
	}
	return nil
}

// Exists reports whether athleteID's kind document has been written.
func (s *Store) Exists(athleteID string, kind Kind) bool {
	path := filepath.Join(s.AthleteDir(athleteID), kind.filename())
	_, err := os.Stat(path)
	return err == nil
}
