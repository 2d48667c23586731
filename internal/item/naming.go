package item

import (
	"sort"
	"strings"

	"github.com/cory-johannsen/artificer/internal/weighted"
)

// descriptorPools collects each property's comma-separated "nouns" and
// "adjectives" fields as uniformly-weighted word pools, keyed by property
// name.
func (w *Weapon) descriptorPools() (nouns, adjectives map[string][]string) {
	nouns = make(map[string][]string)
	adjectives = make(map[string][]string)
	for _, name := range w.PropertyNames() {
		prop := w.property(name)
		if prop == nil {
			continue
		}
		if v, ok := prop.Get("nouns"); ok && v.String() != "" {
			if words := weighted.SplitCSV(v.String()); len(words) > 0 {
				nouns[name] = words
			}
		}
		if v, ok := prop.Get("adjectives"); ok && v.String() != "" {
			if words := weighted.SplitCSV(v.String()); len(words) > 0 {
				adjectives[name] = words
			}
		}
	}
	return nouns, adjectives
}

// randomDescriptors selects the nouns and adjectives that will describe this
// weapon. Each noun-only property contributes exactly one noun, never twice;
// each adjective-only property one adjective. A property offering both rolls
// once: at most 0.4 noun only, at most 0.8 adjective only, otherwise both,
// keeping doubly-descriptive names ("Thundering Dagger of Thunder") rare
// rather than absent or constant. Multiple nouns join with "and", adjectives
// with a space.
func (w *Weapon) randomDescriptors() (nounPhrase, adjPhrase string, contributors int) {
	nouns, adjectives := w.descriptorPools()
	if len(nouns) == 0 && len(adjectives) == 0 {
		return "", "", 0
	}

	names := make(map[string]bool, len(nouns)+len(adjectives))
	for name := range nouns {
		names[name] = true
	}
	for name := range adjectives {
		names[name] = true
	}
	ordered := make([]string, 0, len(names))
	for name := range names {
		ordered = append(ordered, name)
	}
	sort.Strings(ordered)
	contributors = len(ordered)

	pickFrom := func(words []string) string {
		return words[w.src.Intn(len(words))]
	}

	var selectedNouns, selectedAdjectives []string
	seenNouns := make(map[string]bool)

	for _, name := range ordered {
		_, hasNouns := nouns[name]
		_, hasAdjectives := adjectives[name]

		switch {
		case hasNouns && !hasAdjectives:
			if !seenNouns[name] {
				selectedNouns = append(selectedNouns, pickFrom(nouns[name]))
				seenNouns[name] = true
			}
		case hasAdjectives && !hasNouns:
			selectedAdjectives = append(selectedAdjectives, pickFrom(adjectives[name]))
		default:
			val := w.src.Float64()
			if val <= 0.4 && !seenNouns[name] {
				selectedNouns = append(selectedNouns, pickFrom(nouns[name]))
				seenNouns[name] = true
			} else if val <= 0.8 {
				selectedAdjectives = append(selectedAdjectives, pickFrom(adjectives[name]))
			} else {
				selectedNouns = append(selectedNouns, pickFrom(nouns[name]))
				selectedAdjectives = append(selectedAdjectives, pickFrom(adjectives[name]))
			}
		}
	}

	return strings.Join(selectedNouns, " and "), strings.Join(selectedAdjectives, " "), contributors
}

// nameTemplate picks a name template compatible with the selected
// descriptors. The weights are tuned so most names take the typical forms
// ("Venomous Shortsword", "Dagger of Shocks"); a single contributing
// property favors the combined form outright, while several contributing
// properties let an order-swapped alternative compete.
func (w *Weapon) nameTemplate(withNouns, withAdjectives bool, contributors int) string {
	var options []weighted.Option
	if withNouns && !withAdjectives {
		options = append(options, weighted.Option{Value: "{name} of {nouns}", Weight: 0.5})
	}
	if withAdjectives && !withNouns {
		options = append(options, weighted.Option{Value: "{adjectives} {name}", Weight: 0.5})
	}
	if withNouns && withAdjectives {
		options = append(options, weighted.Option{Value: "{adjectives} {name} of {nouns}", Weight: 1.0})
		if contributors > 1 {
			options = append(options, weighted.Option{Value: "{name} of {adjectives} {nouns}", Weight: 0.5})
		}
	}
	return weighted.PickOption(w.src, options)
}

// buildName assembles the display name once. Without descriptors the base
// name is used verbatim; otherwise a template is filled in and title-cased.
func (w *Weapon) buildName() string {
	nounPhrase, adjPhrase, contributors := w.randomDescriptors()
	if nounPhrase == "" && adjPhrase == "" {
		return w.BaseName()
	}

	template := w.nameTemplate(nounPhrase != "", adjPhrase != "", contributors)
	name := strings.NewReplacer(
		"{name}", w.BaseName(),
		"{nouns}", nounPhrase,
		"{adjectives}", adjPhrase,
	).Replace(template)
	return title(name)
}
