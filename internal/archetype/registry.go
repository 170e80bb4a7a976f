// Package archetype holds the catalog of parameterized workout templates
// ("archetypes") that the renderer selects from and expands into concrete
// blocks. Archetypes are organized into categories; each archetype is
// defined once per one of four source formats and rendered at six
// difficulty levels.
package archetype

import (
	"fmt"
	"hash/fnv"
)

// ArchetypeDef is one named template within a category.
type ArchetypeDef struct {
	Name   string
	Source BlockSource
}

// Category groups related archetypes (e.g. all VO2max templates).
type Category struct {
	Name       string
	Archetypes []ArchetypeDef
}

// Registry is the merged, queryable archetype catalog.
type Registry struct {
	order      []string
	categories map[string]*Category
}

// BuildRegistry merges base, imported, and advanced category sets in that
// precedence order. Categories are unioned by name; within a category,
// archetypes are unioned by name with first-definition-wins, so a later
// set cannot silently shadow an earlier archetype under the same name.
func BuildRegistry(base, imported, advanced []Category) (*Registry, error) {
	reg := &Registry{categories: map[string]*Category{}}
	for _, set := range [][]Category{base, imported, advanced} {
		for _, cat := range set {
			if err := reg.merge(cat); err != nil {
				return nil, err
			}
		}
	}
	if len(reg.order) == 0 {
		return nil, fmt.Errorf("archetype: empty registry")
	}
	return reg, nil
}

func (r *Registry) merge(cat Category) error {
	existing, ok := r.categories[cat.Name]
	if !ok {
		copied := cat
		copied.Archetypes = append([]ArchetypeDef{}, cat.Archetypes...)
		r.categories[cat.Name] = &copied
		r.order = append(r.order, cat.Name)
		return seenNames(copied.Archetypes)
	}
	seen := map[string]bool{}
	for _, a := range existing.Archetypes {
		seen[a.Name] = true
	}
	for _, a := range cat.Archetypes {
		if seen[a.Name] {
			continue
		}
		existing.Archetypes = append(existing.Archetypes, a)
		seen[a.Name] = true
	}
	return nil
}

func seenNames(defs []ArchetypeDef) error {
	seen := map[string]bool{}
	for _, d := range defs {
		if seen[d.Name] {
			return fmt.Errorf("archetype: duplicate archetype name %q within category", d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}

// Categories returns category names in merge order.
func (r *Registry) Categories() []string {
	return append([]string{}, r.order...)
}

// CategoryArchetypes returns the archetypes in a named category.
func (r *Registry) CategoryArchetypes(name string) []ArchetypeDef {
	cat, ok := r.categories[name]
	if !ok {
		return nil
	}
	return cat.Archetypes
}

// CountCategories returns the number of distinct categories in the registry.
func (r *Registry) CountCategories() int { return len(r.order) }

// CountArchetypes returns the total archetype count across all categories.
func (r *Registry) CountArchetypes() int {
	n := 0
	for _, name := range r.order {
		n += len(r.categories[name].Archetypes)
	}
	return n
}

// CountVariations returns the total rendered-variation count: six levels
// per archetype.
func (r *Registry) CountVariations() int { return r.CountArchetypes() * 6 }

// Select deterministically picks an archetype from a category for a given
// methodology ID and variation index. The methodology ID perturbs the
// starting offset so two methodologies pulling from the same category on
// the same day don't always land on the same archetype.
func (r *Registry) Select(category, methodologyID string, variationIndex int) (*ArchetypeDef, bool) {
	cat, ok := r.categories[category]
	if !ok || len(cat.Archetypes) == 0 {
		return nil, false
	}
	offset := int(fnv32a(category+"|"+methodologyID)) % len(cat.Archetypes)
	idx := (variationIndex + offset) % len(cat.Archetypes)
	if idx < 0 {
		idx += len(cat.Archetypes)
	}
	a := cat.Archetypes[idx]
	return &a, true
}

// Render expands the named archetype's definition at the given difficulty
// level into concrete blocks.
func Render(def *ArchetypeDef, level int) ([]Block, error) {
	return def.Source.Render(level)
}

func fnv32a(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}
