package archetype

import "fmt"

// FormatKind discriminates the four source formats an archetype's level
// specification can be authored in. Each carries enough information to
// render itself into a concrete Block sequence for a requested level.
// Block durations come from the definition itself; rendering takes no
// target duration and does not fit the blocks to one.
type FormatKind string

const (
	FormatIntervals    FormatKind = "intervals"
	FormatSegments     FormatKind = "segments"
	FormatSingleEffort FormatKind = "single_effort"
	FormatTiredVO2     FormatKind = "tired_vo2"
)

// LevelScale returns the power and repeat multipliers for difficulty
// levels 1-6. Level 1 is the easiest variant of an archetype, level 6 the
// hardest; both multipliers are applied before clamping into the legal
// power range.
func LevelScale(level int) (powerMult, repeatMult float64) {
	switch {
	case level <= 1:
		return 0.90, 0.70
	case level == 2:
		return 0.95, 0.85
	case level == 3:
		return 1.00, 1.00
	case level == 4:
		return 1.05, 1.15
	case level == 5:
		return 1.10, 1.30
	default:
		return 1.15, 1.45
	}
}

// BlockSource renders a format definition into the blocks a given
// difficulty level produces.
type BlockSource interface {
	Kind() FormatKind
	Render(level int) ([]Block, error)
}

// IntervalsSource is Format A: a repeated on/off interval set scaled by
// level across both power and repeat count.
type IntervalsSource struct {
	BaseRepeats    int
	OnDurationSec  int
	OnPowerFrac    float64
	OffDurationSec int
	OffPowerFrac   float64
}

func (s IntervalsSource) Kind() FormatKind { return FormatIntervals }

func (s IntervalsSource) Render(level int) ([]Block, error) {
	if level < 1 || level > 6 {
		return nil, fmt.Errorf("archetype: level %d out of range 1-6", level)
	}
	powerMult, repeatMult := LevelScale(level)
	repeats := int(float64(s.BaseRepeats) * repeatMult)
	if repeats < 1 {
		repeats = 1
	}
	return []Block{{
		Kind: BlockIntervals, Repeats: repeats,
		OnDurationSec: s.OnDurationSec, OnPower: clampPower(s.OnPowerFrac * powerMult),
		OffDurationSec: s.OffDurationSec, OffPower: clampPower(s.OffPowerFrac),
	}}, nil
}

// SegmentsSource is Format B: a fixed ordered block sequence, already
// composed by one of the block helper functions, whose power is scaled
// uniformly by level.
type SegmentsSource struct {
	Segments []Block
}

func (s SegmentsSource) Kind() FormatKind { return FormatSegments }

func (s SegmentsSource) Render(level int) ([]Block, error) {
	if level < 1 || level > 6 {
		return nil, fmt.Errorf("archetype: level %d out of range 1-6", level)
	}
	powerMult, _ := LevelScale(level)
	out := make([]Block, len(s.Segments))
	for i, b := range s.Segments {
		scaled := b
		scaled.Power = clampPower(b.Power * powerMult)
		scaled.OnPower = clampPower(b.OnPower * powerMult)
		out[i] = scaled
	}
	return out, nil
}

// SingleEffortSource is Format C: one long steady-state effort, used by
// the catalog's steady categories (Recovery, Easy, Endurance, Long_Ride,
// Shakeout).
type SingleEffortSource struct {
	DurationSec int
	PowerFrac   float64
}

func (s SingleEffortSource) Kind() FormatKind { return FormatSingleEffort }

func (s SingleEffortSource) Render(level int) ([]Block, error) {
	if level < 1 || level > 6 {
		return nil, fmt.Errorf("archetype: level %d out of range 1-6", level)
	}
	powerMult, _ := LevelScale(level)
	return []Block{{Kind: BlockSteady, DurationSec: s.DurationSec, Power: clampPower(s.PowerFrac * powerMult)}}, nil
}

// TiredVO2Source is Format D: a long steady base ride that bleeds into a
// VO2max interval set, simulating race-day fatigue before the hard work.
type TiredVO2Source struct {
	BaseDurationSec int
	BasePowerFrac   float64
	Intervals       IntervalsSource
}

func (s TiredVO2Source) Kind() FormatKind { return FormatTiredVO2 }

func (s TiredVO2Source) Render(level int) ([]Block, error) {
	if level < 1 || level > 6 {
		return nil, fmt.Errorf("archetype: level %d out of range 1-6", level)
	}
	powerMult, _ := LevelScale(level)
	base := Block{Kind: BlockSteady, DurationSec: s.BaseDurationSec, Power: clampPower(s.BasePowerFrac * powerMult)}
	rest, err := s.Intervals.Render(level)
	if err != nil {
		return nil, err
	}
	return append([]Block{base}, rest...), nil
}
