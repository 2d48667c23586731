package item

import (
	"fmt"

	"github.com/cory-johannsen/artificer/internal/attr"
	"github.com/cory-johannsen/artificer/internal/gen"
	"github.com/cory-johannsen/artificer/internal/weighted"
)

// spellFrequencies maps a rarity tier to the spell table's weight column: the
// maximum spell level appropriate to a scroll of that tier.
var spellFrequencies = map[string]string{
	"common":    "first",
	"uncommon":  "third",
	"rare":      "fifth",
	"very rare": "seventh",
	"legendary": "ninth",
}

// Scroll is an Item subtype carrying a single spell.
type Scroll struct {
	*Item
}

// NewScroll wraps a resolved node in a Scroll.
func NewScroll(node *attr.Node) *Scroll {
	return &Scroll{Item: New(node)}
}

// Spell returns the named spell attribute as text, or "".
func (s *Scroll) spellAttr(key string) string {
	v, ok := s.Node().Lookup("spell." + key)
	if !ok {
		return ""
	}
	return v.String()
}

// Name returns the scroll's display name, derived from its spell.
func (s *Scroll) Name() string {
	return title("Scroll of " + s.spellAttr("name"))
}

// Summary returns a one-line synopsis of the scroll's spell.
func (s *Scroll) Summary() string {
	if s.spellAttr("level") == "cantrip" {
		return fmt.Sprintf("%s (%s %s)", s.Name(), s.spellAttr("school"), s.spellAttr("level"))
	}
	return fmt.Sprintf("%s (%s level %s)", s.Name(), s.spellAttr("level"), s.spellAttr("school"))
}

// Details of a scroll are its summary.
func (s *Scroll) Details() string { return s.Summary() }

// ScrollGenerator generates Scroll instances: the generic pipeline plus a
// "spell" provider drawing from a leveled spell table under the frequency
// matching the sampled rarity.
type ScrollGenerator struct {
	gen *gen.Generator
}

// NewScrollGenerator builds a scroll generator.
//
// Precondition: spells must be non-nil; every scroll requires a spell.
func NewScrollGenerator(cfg gen.Config, spells *weighted.Table, opts ...gen.Option) (*ScrollGenerator, error) {
	if spells == nil {
		return nil, fmt.Errorf("item: scroll generator requires a spells table")
	}
	g, err := gen.New("scrolls", cfg, opts...)
	if err != nil {
		return nil, err
	}
	g.RegisterProvider("spell", spellProvider(spells, g.Source()))
	return &ScrollGenerator{gen: g}, nil
}

// Generator exposes the underlying pipeline.
func (sg *ScrollGenerator) Generator() *gen.Generator { return sg.gen }

// Random generates count scrolls, with challenge skewing rarity selection.
func (sg *ScrollGenerator) Random(count, challenge int) ([]*Scroll, error) {
	nodes, err := sg.gen.Random(count, challenge)
	if err != nil {
		return nil, err
	}
	scrolls := make([]*Scroll, len(nodes))
	for i, node := range nodes {
		scrolls[i] = NewScroll(node)
	}
	return scrolls, nil
}

// spellProvider satisfies the "spell" requirement by drawing one spell at a
// level bracket matching the mapping's sampled rarity.
func spellProvider(spells *weighted.Table, src weighted.Source) gen.ProviderFunc {
	return func(attrs map[string]any) (any, error) {
		frequency := weighted.DefaultFrequency
		if rarity, ok := attrs["rarity"].(map[string]any); ok {
			if tier, ok := rarity["rarity"].(string); ok {
				if f, mapped := spellFrequencies[tier]; mapped {
					frequency = f
				}
			}
		}
		entry, err := spells.Pick(src, frequency)
		if err != nil {
			return nil, err
		}
		return entry.AttrMap(), nil
	}
}
