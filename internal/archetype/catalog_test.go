package archetype

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryHasExactCounts(t *testing.T) {
	reg, err := BuildRegistry(BaseCategories(), ImportedCategories(), AdvancedCategories())
	require.NoError(t, err)
	require.Equal(t, 22, reg.CountCategories())
	require.Equal(t, 95, reg.CountArchetypes())
	require.Equal(t, 570, reg.CountVariations())
}

func TestSelectIsDeterministic(t *testing.T) {
	reg, err := BuildRegistry(BaseCategories(), ImportedCategories(), AdvancedCategories())
	require.NoError(t, err)

	a1, ok := reg.Select("VO2max", "polarized_80_20", 3)
	require.True(t, ok)
	a2, ok := reg.Select("VO2max", "polarized_80_20", 3)
	require.True(t, ok)
	require.Equal(t, a1.Name, a2.Name)
}

func TestEveryArchetypeRendersAllSixLevels(t *testing.T) {
	reg, err := BuildRegistry(BaseCategories(), ImportedCategories(), AdvancedCategories())
	require.NoError(t, err)

	for _, catName := range reg.Categories() {
		for _, def := range reg.CategoryArchetypes(catName) {
			for level := 1; level <= 6; level++ {
				blocks, err := Render(&def, level)
				require.NoError(t, err, "category=%s archetype=%s level=%d", catName, def.Name, level)
				require.NotEmpty(t, blocks)
			}
		}
	}
}

func TestChaosArchetypeDeterministicPerLevel(t *testing.T) {
	src := ChaosSource{SeedKey: "Chaos|1", Reps: 6, OnDurationSec: 90, BasePower: 1.05}
	a, err := src.Render(4)
	require.NoError(t, err)
	b, err := src.Render(4)
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := src.Render(5)
	require.NoError(t, err)
	require.NotEqual(t, a[0].OnDurationSec, c[0].OnDurationSec)
}
