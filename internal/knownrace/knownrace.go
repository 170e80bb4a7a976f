// Package knownrace is the static table of well-known gravel and endurance
// races used to fill in profile defaults when an athlete types a
// recognizable race name instead of a raw date.
package knownrace

import "strings"

// Race is one entry in the known-race table.
type Race struct {
	ID            string
	Name          string
	Date          string // ISO yyyy-mm-dd
	DistanceMiles int
	ElevationFt   int
}

// table is process-wide read-only after init; no mutation follows package
// initialization.
var table = map[string]Race{
	"unbound_gravel_200": {ID: "unbound_gravel_200", Name: "Unbound Gravel 200", Date: "2026-05-30", DistanceMiles: 200, ElevationFt: 11000},
	"unbound_gravel_100": {ID: "unbound_gravel_100", Name: "Unbound Gravel 100", Date: "2026-05-30", DistanceMiles: 100, ElevationFt: 5500},
	"unbound_gravel_50":  {ID: "unbound_gravel_50", Name: "Unbound Gravel 50", Date: "2026-05-30", DistanceMiles: 50, ElevationFt: 2800},
	"unbound_xl":         {ID: "unbound_xl", Name: "Unbound XL", Date: "2026-05-29", DistanceMiles: 350, ElevationFt: 19000},
	"sbt_grvl":           {ID: "sbt_grvl", Name: "SBT GRVL", Date: "2026-06-28", DistanceMiles: 141, ElevationFt: 9000},
	"sbt_grvl_75":        {ID: "sbt_grvl_75", Name: "SBT GRVL 75", Date: "2026-06-28", DistanceMiles: 75, ElevationFt: 6732},
	"sbt_grvl_37":        {ID: "sbt_grvl_37", Name: "SBT GRVL 37", Date: "2026-06-28", DistanceMiles: 37, ElevationFt: 3200},
	"leadville_100":      {ID: "leadville_100", Name: "Leadville Trail 100 MTB", Date: "2026-08-15", DistanceMiles: 100, ElevationFt: 12500},
	"belgian_waffle_ride": {ID: "belgian_waffle_ride", Name: "Belgian Waffle Ride", Date: "2026-05-17", DistanceMiles: 133, ElevationFt: 11000},
	"dirty_kanza_200":    {ID: "dirty_kanza_200", Name: "Unbound Gravel 200", Date: "2026-05-30", DistanceMiles: 200, ElevationFt: 11000},
	"gravel_worlds":      {ID: "gravel_worlds", Name: "Gravel Worlds", Date: "2026-08-22", DistanceMiles: 150, ElevationFt: 7500},
	"mid_south":          {ID: "mid_south", Name: "Mid South", Date: "2026-03-14", DistanceMiles: 100, ElevationFt: 3000},
	"big_sugar":          {ID: "big_sugar", Name: "Big Sugar Gravel", Date: "2026-10-17", DistanceMiles: 104, ElevationFt: 6000},
	"boulder_roubaix":    {ID: "boulder_roubaix", Name: "Boulder Roubaix", Date: "2026-04-11", DistanceMiles: 60, ElevationFt: 2500},
}

// aliases maps fuzzy user-typed names to canonical race IDs.
var aliases = map[string]string{
	"unbound 200":        "unbound_gravel_200",
	"unbound gravel 200": "unbound_gravel_200",
	"unbound200":         "unbound_gravel_200",
	"dk200":              "unbound_gravel_200",
	"dirty kanza":        "unbound_gravel_200",
	"dirty kanza 200":    "unbound_gravel_200",
	"unbound 100":        "unbound_gravel_100",
	"unbound gravel 100": "unbound_gravel_100",
	"unbound 50":         "unbound_gravel_50",
	"unbound gravel 50":  "unbound_gravel_50",
	"unbound xl":         "unbound_xl",
	"unbound 350":        "unbound_xl",
	"sbt grvl":           "sbt_grvl",
	"sbt gravel":         "sbt_grvl",
	"steamboat":          "sbt_grvl",
	"sbt grvl 75":        "sbt_grvl_75",
	"sbt 75":             "sbt_grvl_75",
	"sbt grvl 37":        "sbt_grvl_37",
	"sbt 37":             "sbt_grvl_37",
	"leadville":          "leadville_100",
	"leadville 100":      "leadville_100",
	"belgian waffle ride": "belgian_waffle_ride",
	"bwr":                "belgian_waffle_ride",
	"gravel worlds":      "gravel_worlds",
	"mid south":          "mid_south",
	"mid-south":          "mid_south",
	"big sugar":          "big_sugar",
	"big sugar gravel":   "big_sugar",
	"boulder roubaix":    "boulder_roubaix",
	"boulder roub":       "boulder_roubaix",
}

// Lookup returns the race registered under id, if any.
func Lookup(id string) (Race, bool) {
	r, ok := table[id]
	return r, ok
}

// Match fuzzy-matches a user-typed race name against the known-race table:
// exact alias match first, then substring containment, then best-overlap
// word-token match. Returns false when no candidate shares any token.
func Match(name string) (Race, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return Race{}, false
	}

	if id, ok := aliases[normalized]; ok {
		return table[id], true
	}

	for _, r := range table {
		lowerName := strings.ToLower(r.Name)
		if strings.Contains(normalized, lowerName) || strings.Contains(lowerName, normalized) {
			return r, true
		}
	}

	nameTokens := tokenSet(normalized)
	var best Race
	bestScore := 0
	found := false
	for _, r := range table {
		raceTokens := tokenSet(strings.ToLower(r.Name))
		overlap := 0
		for t := range nameTokens {
			if raceTokens[t] {
				overlap++
			}
		}
		if overlap > bestScore && overlap >= 1 {
			bestScore = overlap
			best = r
			found = true
		}
	}
	return best, found
}

func tokenSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}
