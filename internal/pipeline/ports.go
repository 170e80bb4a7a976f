package pipeline

import (
	"context"

	"github.com/cyclecoach/engine/internal/profile"
)

// IntakeSource resolves a submitted questionnaire into a normalized
// Profile. The intake questionnaire itself is an external collaborator
// (a web form, a conversational agent, a spreadsheet import) — the
// pipeline only needs the narrow contract below, never the collaborator
// itself.
type IntakeSource interface {
	Load(ctx context.Context, intakeID string) (*profile.Profile, error)
}

// RaceMetadataSource looks up known-race physical demands (distance,
// elevation, technicality) from a race identifier. Backed by a static
// lookup table maintained outside this module; absent here entirely
// when a race-id has no catalog entry, in which case callers fall back
// to the athlete-reported target-race fields.
type RaceMetadataSource interface {
	Lookup(raceID string) (RaceMetadata, bool)
}

// RaceMetadata is what the methodology selector and fueling calculator
// need about the target event beyond what the athlete self-reports.
type RaceMetadata struct {
	DistanceMiles       int
	ElevationFt         float64
	TechnicalDifficulty string
	RepeatedSurges      bool
}
