package archetype

import "fmt"

// catalogSpec describes one category's archetype population: count
// archetypes of a given generated shape. Archetype bodies are generated
// programmatically (never enumerated by hand) so the catalog's exact
// counts stay verifiable against the registry's self-test.
type catalogSpec struct {
	category string
	count    int
	build    func(index int) ArchetypeDef
}

func namedIntervals(category string, index int, reps, onSec, offSec int, onPower, offPower float64) ArchetypeDef {
	return ArchetypeDef{
		Name: fmt.Sprintf("%s %d", category, index+1),
		Source: IntervalsSource{
			BaseRepeats: reps, OnDurationSec: onSec, OnPowerFrac: onPower + float64(index)*0.01,
			OffDurationSec: offSec, OffPowerFrac: offPower,
		},
	}
}

func namedSingleEffort(category string, index int, durationSec int, power float64) ArchetypeDef {
	return ArchetypeDef{
		Name:   fmt.Sprintf("%s %d", category, index+1),
		Source: SingleEffortSource{DurationSec: durationSec, PowerFrac: power + float64(index)*0.01},
	}
}

func namedSegments(category string, index int, segs []Block) ArchetypeDef {
	return ArchetypeDef{Name: fmt.Sprintf("%s %d", category, index+1), Source: SegmentsSource{Segments: segs}}
}

func namedTiredVO2(category string, index int) ArchetypeDef {
	return ArchetypeDef{
		Name: fmt.Sprintf("%s %d", category, index+1),
		Source: TiredVO2Source{
			BaseDurationSec: 3600 + index*300, BasePowerFrac: 0.65,
			Intervals: IntervalsSource{BaseRepeats: 5, OnDurationSec: 180, OnPowerFrac: 1.10, OffDurationSec: 180, OffPowerFrac: 0.55},
		},
	}
}

func buildFromSpecs(specs []catalogSpec) []Category {
	cats := make([]Category, 0, len(specs))
	for _, s := range specs {
		archetypes := make([]ArchetypeDef, s.count)
		for i := 0; i < s.count; i++ {
			archetypes[i] = s.build(i)
		}
		cats = append(cats, Category{Name: s.category, Archetypes: archetypes})
	}
	return cats
}

// BaseCategories returns the 16 foundational categories (45 archetypes)
// covering the core training-zone workout types.
func BaseCategories() []Category {
	return buildFromSpecs([]catalogSpec{
		{"Recovery", 2, func(i int) ArchetypeDef { return namedSingleEffort("Recovery", i, 1800, 0.50) }},
		{"Easy", 3, func(i int) ArchetypeDef { return namedSingleEffort("Easy", i, 2700, 0.60) }},
		{"Endurance", 4, func(i int) ArchetypeDef { return namedSingleEffort("Endurance", i, 5400, 0.68) }},
		{"Tempo", 3, func(i int) ArchetypeDef { return namedIntervals("Tempo", i, 3, 900, 300, 0.80, 0.55) }},
		{"Sweet_Spot", 3, func(i int) ArchetypeDef { return namedIntervals("Sweet_Spot", i, 3, 720, 300, 0.90, 0.55) }},
		{"Threshold", 4, func(i int) ArchetypeDef { return namedIntervals("Threshold", i, 4, 480, 240, 1.00, 0.55) }},
		{"VO2max", 4, func(i int) ArchetypeDef { return namedIntervals("VO2max", i, 5, 180, 180, 1.15, 0.50) }},
		{"Anaerobic", 3, func(i int) ArchetypeDef { return namedIntervals("Anaerobic", i, 6, 60, 240, 1.40, 0.50) }},
		{"Sprints", 3, func(i int) ArchetypeDef { return namedIntervals("Sprints", i, 8, 20, 220, 1.75, 0.45) }},
		{"Openers", 2, func(i int) ArchetypeDef { return namedSegments("Openers", i, baseWithEfforts(900, 0.60, 3, 30, 1.20)) }},
		{"Over_Under", 3, func(i int) ArchetypeDef { return namedIntervals("Over_Under", i, 3, 600, 180, 1.05, 0.90) }},
		{"Long_Ride", 3, func(i int) ArchetypeDef { return namedSingleEffort("Long_Ride", i, 12600, 0.62) }},
		{"Race_Sim", 2, func(i int) ArchetypeDef {
			return namedSegments("Race_Sim", i, baseWithEfforts(3600, 0.68, 5, 60, 1.30))
		}},
		{"G_Spot", 3, func(i int) ArchetypeDef { return namedIntervals("G_Spot", i, 3, 900, 240, 0.95, 0.55) }},
		{"Shakeout", 2, func(i int) ArchetypeDef { return namedSingleEffort("Shakeout", i, 1200, 0.55) }},
		{"Blended", 1, func(i int) ArchetypeDef {
			return namedSegments("Blended", i, append(baseWithEfforts(1800, 0.65, 2, 180, 1.05),
				Block{Kind: BlockIntervals, Repeats: 3, OnDurationSec: 300, OnPower: 0.92, OffDurationSec: 180, OffPower: 0.55}))
		}},
	})
}

// ImportedCategories returns the 12 categories (34 archetypes) layered in
// from the specialty-workout import set: 4 brand-new categories plus
// deeper benches for 8 of the base categories.
func ImportedCategories() []Category {
	return buildFromSpecs([]catalogSpec{
		{"Criss_Cross", 6, func(i int) ArchetypeDef {
			return ArchetypeDef{Name: fmt.Sprintf("Criss_Cross %d", i+1), Source: SegmentsSource{Segments: []Block{crissCross(6, 60, 60, 0.85, 1.15)}}}
		}},
		{"Attack_Reps", 4, func(i int) ArchetypeDef {
			return ArchetypeDef{Name: fmt.Sprintf("Attack_Reps %d", i+1), Source: SegmentsSource{Segments: []Block{attackReps(5, 15, 1.80, 280)}}}
		}},
		{"Hard_Start", 4, func(i int) ArchetypeDef {
			return ArchetypeDef{Name: fmt.Sprintf("Hard_Start %d", i+1), Source: SegmentsSource{Segments: []Block{hardStartReps(4, 45, 1.35, 255, 0.55)}}}
		}},
		{"Gravel_Sim", 4, func(i int) ArchetypeDef {
			return namedSegments("Gravel_Sim", i, gravelSimEfforts(4, 300, 180, 0.95))
		}},
		{"Tempo", 2, func(i int) ArchetypeDef { return namedIntervals("Tempo Extended", i, 4, 900, 240, 0.82, 0.55) }},
		{"Threshold", 2, func(i int) ArchetypeDef { return namedIntervals("Threshold Extended", i, 5, 480, 240, 0.98, 0.55) }},
		{"VO2max", 2, func(i int) ArchetypeDef { return namedIntervals("VO2max Extended", i, 6, 150, 150, 1.18, 0.50) }},
		{"Sweet_Spot", 2, func(i int) ArchetypeDef { return namedIntervals("Sweet_Spot Extended", i, 4, 600, 240, 0.91, 0.55) }},
		{"Sprints", 2, func(i int) ArchetypeDef { return namedIntervals("Sprints Extended", i, 10, 15, 225, 1.80, 0.45) }},
		{"Long_Ride", 2, func(i int) ArchetypeDef { return namedSingleEffort("Long_Ride Extended", i, 14400, 0.64) }},
		{"G_Spot", 2, func(i int) ArchetypeDef { return namedIntervals("G_Spot Extended", i, 4, 720, 240, 0.97, 0.55) }},
		{"Over_Under", 2, func(i int) ArchetypeDef { return namedIntervals("Over_Under Extended", i, 4, 480, 180, 1.08, 0.92) }},
	})
}

// AdvancedCategories returns the 8 categories (16 archetypes) introduced
// last: the chaos and tired-VO2 specialty templates, plus two-archetype
// top-ups for six existing categories (four from the imported set, plus
// the base-set Blended and Recovery categories).
func AdvancedCategories() []Category {
	return buildFromSpecs([]catalogSpec{
		{"Chaos", 1, func(i int) ArchetypeDef {
			return ArchetypeDef{Name: "Chaos 1", Source: ChaosSource{SeedKey: "Chaos|1", Reps: 6, OnDurationSec: 90, BasePower: 1.05}}
		}},
		{"Tired_VO2", 3, func(i int) ArchetypeDef { return namedTiredVO2("Tired_VO2", i) }},
		{"Criss_Cross", 2, func(i int) ArchetypeDef {
			return ArchetypeDef{Name: fmt.Sprintf("Criss_Cross Adv %d", i+1), Source: SegmentsSource{Segments: []Block{crissCross(8, 45, 45, 0.90, 1.25)}}}
		}},
		{"Attack_Reps", 2, func(i int) ArchetypeDef {
			return ArchetypeDef{Name: fmt.Sprintf("Attack_Reps Adv %d", i+1), Source: SegmentsSource{Segments: []Block{attackReps(6, 12, 1.90, 270)}}}
		}},
		{"Hard_Start", 2, func(i int) ArchetypeDef {
			return ArchetypeDef{Name: fmt.Sprintf("Hard_Start Adv %d", i+1), Source: SegmentsSource{Segments: []Block{hardStartReps(5, 40, 1.40, 260, 0.55)}}}
		}},
		{"Gravel_Sim", 2, func(i int) ArchetypeDef {
			return namedSegments("Gravel_Sim Adv", i, gravelSimEfforts(5, 270, 200, 1.00))
		}},
		{"Blended", 2, func(i int) ArchetypeDef {
			return namedSegments("Blended Adv", i, append(baseWithEfforts(2400, 0.66, 3, 150, 1.10),
				Block{Kind: BlockIntervals, Repeats: 4, OnDurationSec: 240, OnPower: 0.95, OffDurationSec: 180, OffPower: 0.55}))
		}},
		{"Recovery", 2, func(i int) ArchetypeDef { return namedSingleEffort("Recovery Adv", i, 1500, 0.48) }},
	})
}
