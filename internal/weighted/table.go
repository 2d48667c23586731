package weighted

import (
	"fmt"
	"sort"
)

// DefaultFrequency is the weight column used when a caller has no
// difficulty-specific bracket, and the fallback column consulted when an
// entry does not define the requested one.
const DefaultFrequency = "default"

// Entry is one candidate row in a Table. Attrs holds the raw attribute
// mapping the generation pipeline feeds into attribute resolution; Weights
// holds one selection weight per frequency key.
type Entry struct {
	Name    string
	Weights map[string]float64
	Attrs   map[string]any
}

// Weight returns the entry's selection weight under the given frequency.
// Lookup order: the requested frequency, then DefaultFrequency, then 1.0
// when the entry defines no weights at all. An entry that defines weights
// but covers neither column weighs 0 and is never selected.
func (e Entry) Weight(frequency string) float64 {
	if len(e.Weights) == 0 {
		return 1.0
	}
	if w, ok := e.Weights[frequency]; ok {
		return w
	}
	if w, ok := e.Weights[DefaultFrequency]; ok {
		return w
	}
	return 0
}

// AttrMap returns a deep copy of the entry's raw attributes with the entry
// name filled in under "name" when the attributes do not already carry one.
// Each generated item must own a fresh mapping, never a shared one.
//
// Postcondition: mutating the returned map never affects the Entry.
func (e Entry) AttrMap() map[string]any {
	attrs, _ := deepCopyValue(e.Attrs).(map[string]any)
	if attrs == nil {
		attrs = make(map[string]any)
	}
	if _, ok := attrs["name"]; !ok {
		attrs["name"] = e.Name
	}
	return attrs
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopyValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopyValue(val)
		}
		return out
	default:
		return v
	}
}

// Table is a named, immutable collection of weighted entries. The active
// frequency is a per-call parameter to Pick, never shared state, so a single
// Table may serve interleaved generation runs with different difficulty
// brackets.
type Table struct {
	name    string
	entries []Entry
	byName  map[string]int
}

// NewTable builds a Table from the given entries.
//
// Precondition: name must be non-empty; entry names must be non-empty and unique.
// Postcondition: Returns a non-nil Table or a descriptive error.
func NewTable(name string, entries []Entry) (*Table, error) {
	if name == "" {
		return nil, fmt.Errorf("weighted: table name must not be empty")
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("weighted: table %q must have at least one entry", name)
	}
	byName := make(map[string]int, len(entries))
	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("weighted: table %q entry[%d] must have a non-empty name", name, i)
		}
		if _, dup := byName[e.Name]; dup {
			return nil, fmt.Errorf("weighted: table %q has duplicate entry name %q", name, e.Name)
		}
		byName[e.Name] = i
	}
	return &Table{name: name, entries: entries, byName: byName}, nil
}

// Name returns the table's name.
func (t *Table) Name() string { return t.name }

// Len returns the number of distinct entries.
func (t *Table) Len() int { return len(t.entries) }

// CountPositive returns the number of entries selectable under the given
// frequency: those whose Weight(frequency) > 0. Samplers clamp draw counts to
// this bound rather than Len, since zero-weight entries can never be picked.
func (t *Table) CountPositive(frequency string) int {
	n := 0
	for _, e := range t.entries {
		if e.Weight(frequency) > 0 {
			n++
		}
	}
	return n
}

// Names returns all entry names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the entry with the given name without randomness. Used to
// re-attach a base item's intrinsic, non-random properties.
func (t *Table) Lookup(name string) (Entry, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Pick selects one entry at random under the given frequency's weight column.
//
// Precondition: src must be non-nil.
// Postcondition: Returns an entry whose Weight(frequency) > 0, or an error
// when no entry carries positive weight under that frequency.
func (t *Table) Pick(src Source, frequency string) (Entry, error) {
	total := 0.0
	for _, e := range t.entries {
		if w := e.Weight(frequency); w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return Entry{}, fmt.Errorf("weighted: table %q has no positive weights under frequency %q", t.name, frequency)
	}

	target := src.Float64() * total
	for _, e := range t.entries {
		w := e.Weight(frequency)
		if w <= 0 {
			continue
		}
		if target < w {
			return e, nil
		}
		target -= w
	}
	// Floating point accumulation can leave target a hair past the final
	// entry; return the last positively-weighted one.
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].Weight(frequency) > 0 {
			return t.entries[i], nil
		}
	}
	return Entry{}, fmt.Errorf("weighted: table %q selection failed under frequency %q", t.name, frequency)
}
