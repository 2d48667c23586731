package item

import (
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/cory-johannsen/artificer/internal/attr"
	"github.com/cory-johannsen/artificer/internal/gen"
	"github.com/cory-johannsen/artificer/internal/weighted"
)

// idLength is the truncated length of the identity token. Ten characters is
// far more than needed to distinguish every weapon this package can generate,
// and short enough for user-facing uses such as stub URLs.
const idLength = 10

// Weapon is an Item subtype with combat stats derived from its properties
// and a randomly assembled descriptive display name.
//
// Invariant: Name() is computed at most once per instance; repeated reads
// return the identical string even though regenerating from scratch would
// likely name the same property set differently.
type Weapon struct {
	*Item
	src weighted.Source

	nameOnce sync.Once
	name     string

	idOnce sync.Once
	id     string
}

// NewWeapon wraps a resolved node in a Weapon. src drives naming randomness;
// nil selects crypto/rand.
func NewWeapon(node *attr.Node, src weighted.Source) *Weapon {
	if src == nil {
		src = weighted.NewCryptoSource()
	}
	return &Weapon{Item: New(node), src: src}
}

// BaseName returns the resolved base item name, before descriptive naming.
func (w *Weapon) BaseName() string { return w.Item.Name() }

// Name returns the weapon's descriptive display name, assembled once from
// randomly selected property descriptors and cached.
func (w *Weapon) Name() string {
	w.nameOnce.Do(func() {
		w.name = w.buildName()
	})
	return w.name
}

// ToHit summarizes the total bonus to hit contributed by the weapon's
// properties: a flat bonus ("+2"), bonus dice ("+0+1d4"), or both. Returns ""
// when the weapon has no properties mapping at all.
func (w *Weapon) ToHit() string {
	if w.Node().Properties() == nil {
		return ""
	}
	bonus := 0
	dice := ""
	for _, name := range w.PropertyNames() {
		prop := w.property(name)
		if prop == nil {
			continue
		}
		mod, ok := prop.Get("to_hit")
		if !ok || !mod.Truthy() {
			continue
		}
		if n, isInt := mod.Int(); isInt {
			bonus += n
			continue
		}
		if mod.Kind() == attr.KindText {
			dice += "+" + mod.Text()
		}
	}
	return fmt.Sprintf("+%d%s", bonus, dice)
}

// DamageDice summarizes the weapon's damage by combining the base damage
// with every property's damage contribution, grouped by damage type:
//
//	1d6+1 Slashing + 1d4 Thunder + 3 Poison
func (w *Weapon) DamageDice() string {
	if w.Node().Properties() == nil {
		return ""
	}
	baseType := w.attrString("damage_type")
	types := []string{baseType}
	byType := map[string]string{baseType: w.attrString("damage")}

	for _, name := range w.PropertyNames() {
		prop := w.property(name)
		if prop == nil {
			continue
		}
		mod, ok := prop.Get("damage")
		if !ok || !mod.Truthy() {
			continue
		}
		key := ""
		if dt, ok := prop.Get("damage_type"); ok {
			key = dt.String()
		}
		if existing, seen := byType[key]; seen {
			if existing != "" {
				byType[key] = existing + "+" + mod.String()
			} else {
				byType[key] = mod.String()
			}
			continue
		}
		types = append(types, key)
		byType[key] = mod.String()
	}

	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, strings.TrimSpace(fmt.Sprintf("%s %s", byType[t], t)))
	}
	return strings.Join(parts, " + ")
}

// Range returns the weapon's range attribute as text.
func (w *Weapon) Range() string { return w.attrString("range") }

// Targets returns the weapon's target count as text.
func (w *Weapon) Targets() string { return w.attrString("targets") }

// Summary returns a one-line attack synopsis, for example:
//
//	+2 to hit, 5 ft., 1 tgts. 1d6+2 Piercing + 1d6 Fire
func (w *Weapon) Summary() string {
	return fmt.Sprintf("%s to hit, %s ft., %s tgts. %s",
		w.ToHit(), w.Range(), w.Targets(), w.DamageDice())
}

// Details returns the weapon as a multi-line text block.
func (w *Weapon) Details() string {
	props := strings.Join(w.PropertyNames(), ", ")
	return strings.Join([]string{
		w.Name(),
		fmt.Sprintf(" * %s %s weapon (%s)", w.Rarity(), w.attrString("category"), props),
		fmt.Sprintf(" * %s", w.Summary()),
		"",
		w.Description(),
		"",
	}, "\n")
}

// ID returns the weapon's stable identity token: a URL-safe base64 encoding
// of the SHA-1 digest over (base name, to-hit summary, damage summary),
// truncated to ten characters. Identity tracks mechanical content; two
// weapons with the same base and combat summaries share an ID even when
// their randomly-chosen display names differ.
func (w *Weapon) ID() string {
	w.idOnce.Do(func() {
		sum := sha1.Sum([]byte(w.BaseName() + w.ToHit() + w.DamageDice()))
		w.id = base64.URLEncoding.EncodeToString(sum[:])[:idLength]
	})
	return w.id
}

func (w *Weapon) attrString(key string) string {
	v, ok := w.Node().Get(key)
	if !ok {
		return ""
	}
	return v.String()
}

// WeaponGenerator generates Weapon instances: the generic pipeline plus
// weapon base defaults and the enchantment requirement provider.
type WeaponGenerator struct {
	gen *gen.Generator
}

// NewWeaponGenerator builds a weapon generator from the given tables. The
// enchantments table backs the "enchantment" requirement referenced by
// property templates; it may be nil when no property needs one.
func NewWeaponGenerator(cfg gen.Config, enchantments *weighted.Table, opts ...gen.Option) (*WeaponGenerator, error) {
	opts = append(opts, gen.WithPostSample(weaponDefaults))
	g, err := gen.New("weapons", cfg, opts...)
	if err != nil {
		return nil, err
	}
	if enchantments != nil {
		g.RegisterProvider("enchantment", enchantmentProvider(enchantments, g.Source()))
	}
	return &WeaponGenerator{gen: g}, nil
}

// Generator exposes the underlying pipeline, mainly so callers can register
// additional providers.
func (wg *WeaponGenerator) Generator() *gen.Generator { return wg.gen }

// Random generates count weapons, with challenge skewing rarity selection.
func (wg *WeaponGenerator) Random(count, challenge int) ([]*Weapon, error) {
	nodes, err := wg.gen.Random(count, challenge)
	if err != nil {
		return nil, err
	}
	weapons := make([]*Weapon, len(nodes))
	for i, node := range nodes {
		weapons[i] = NewWeapon(node, wg.gen.Source())
	}
	return weapons, nil
}

// weaponDefaults fills base-table gaps in a sampled mapping.
func weaponDefaults(attrs map[string]any) {
	if _, ok := attrs["targets"]; !ok {
		attrs["targets"] = 1
	}
	if _, ok := attrs["range"]; !ok {
		attrs["range"] = "5"
	}
}

// enchantmentProvider satisfies the "enchantment" requirement: one random
// enchantment with a single noun and adjective pre-picked from its
// comma-separated descriptor lists.
func enchantmentProvider(table *weighted.Table, src weighted.Source) gen.ProviderFunc {
	return func(map[string]any) (any, error) {
		entry, err := table.Pick(src, weighted.DefaultFrequency)
		if err != nil {
			return nil, err
		}
		prop := entry.AttrMap()
		if adjectives, ok := prop["adjectives"].(string); ok {
			prop["adjectives"] = weighted.PickCSV(src, adjectives)
		}
		if nouns, ok := prop["nouns"].(string); ok {
			prop["nouns"] = weighted.PickCSV(src, nouns)
		}
		return prop, nil
	}
}
