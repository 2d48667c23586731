package gen

import (
	"strconv"

	"github.com/cory-johannsen/artificer/internal/weighted"
)

// FrequencyForChallenge maps a challenge rating to the rarity table's weight
// column. Rating 0 (or unset) selects the default column; higher brackets
// skew rarity sampling toward more powerful items.
func FrequencyForChallenge(challenge int) string {
	switch {
	case challenge <= 0:
		return weighted.DefaultFrequency
	case challenge <= 4:
		return "1-4"
	case challenge <= 10:
		return "5-10"
	case challenge <= 16:
		return "11-16"
	default:
		return "17+"
	}
}

// countWeight is one outcome of a tier's property-count distribution.
type countWeight struct {
	count  int
	weight float64
}

// propertyCounts holds the per-tier property-count distributions. Common
// items usually have no property at all; legendary items always carry two
// or three.
var propertyCounts = map[string][]countWeight{
	"common":    {{0, 0.9}, {1, 0.1}},
	"uncommon":  {{1, 0.9}, {2, 0.1}},
	"rare":      {{1, 0.6}, {2, 0.4}},
	"very rare": {{1, 0.3}, {2, 0.7}},
	"legendary": {{2, 0.6}, {3, 0.4}},
}

// rollPropertyCount draws a property count for the tier. Unknown tiers draw
// zero properties.
func rollPropertyCount(src weighted.Source, tier string) int {
	dist, ok := propertyCounts[tier]
	if !ok {
		return 0
	}
	opts := make([]weighted.Option, len(dist))
	for i, cw := range dist {
		opts[i] = weighted.Option{Value: strconv.Itoa(cw.count), Weight: cw.weight}
	}
	n, err := strconv.Atoi(weighted.PickOption(src, opts))
	if err != nil {
		panic("gen: rollPropertyCount picked a non-numeric count")
	}
	return n
}
