package archetype

import (
	"fmt"
	"math/rand"
)

// ChaosSource is a stochastic archetype: its block shape is not fixed but
// drawn from a seeded random source, so two renders of the same archetype
// at the same level are identical (no hidden randomness) while renders at
// different levels diverge. Nothing athlete-specific enters the seed.
//
// The seed is derived from SeedKey (the catalog uses "<category>|<number>",
// e.g. "Chaos|1") combined with the requested level, via FNV-32a — never
// from time or an unseeded global source.
type ChaosSource struct {
	SeedKey       string
	Reps          int
	OnDurationSec int
	BasePower     float64
}

func (s ChaosSource) Kind() FormatKind { return FormatIntervals }

func (s ChaosSource) Render(level int) ([]Block, error) {
	if level < 1 || level > 6 {
		return nil, errLevelRange(level)
	}
	powerMult, repeatMult := LevelScale(level)
	seed := fnv32a(fmt32(s.SeedKey, level))
	rng := rand.New(rand.NewSource(int64(seed)))

	reps := int(float64(s.Reps) * repeatMult)
	if reps < 1 {
		reps = 1
	}
	jitter := 0.85 + rng.Float64()*0.30 // deterministic jitter in [0.85, 1.15)
	onPower := clampPower(s.BasePower * powerMult * jitter)
	onDuration := int(float64(s.OnDurationSec) * (0.85 + rng.Float64()*0.30))

	return []Block{{
		Kind: BlockIntervals, Repeats: reps,
		OnDurationSec: onDuration, OnPower: onPower,
		OffDurationSec: onDuration, OffPower: clampPower(0.5),
	}}, nil
}

func fmt32(key string, level int) string {
	return key + "#" + string(rune('0'+level))
}

func errLevelRange(level int) error {
	return fmt.Errorf("archetype: level %d out of range 1-6", level)
}
