// Package convert turns 5e.tools data files into the YAML tables consumed by
// the generation pipeline.
package convert

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// weaponTypes maps 5e.tools type codes to display categories.
var weaponTypes = map[string]string{
	"M": "martial",
	"R": "ranged",
}

// damageTypes maps 5e.tools damage codes to damage type names.
var damageTypes = map[string]string{
	"S": "Slashing",
	"P": "Piercing",
	"B": "Bludgeoning",
}

// propertyCodes maps 5e.tools property codes to intrinsic property names.
var propertyCodes = map[string]string{
	"F":   "finesse",
	"AF":  "firearm",
	"A":   "ammunition",
	"T":   "thrown",
	"L":   "light",
	"2H":  "two-handed",
	"V":   "versatile",
	"RLD": "reload",
	"LD":  "loading",
	"S":   "special",
	"H":   "heavy",
	"R":   "reach",
}

// baseItem is the subset of a 5e.tools items-base.json entry the converter
// reads.
type baseItem struct {
	Name           string          `json:"name"`
	Weapon         bool            `json:"weapon"`
	Age            string          `json:"age"`
	Type           string          `json:"type"`
	WeaponCategory string          `json:"weaponCategory"`
	Weight         float64         `json:"weight"`
	DmgType        string          `json:"dmgType"`
	Dmg1           string          `json:"dmg1"`
	Range          string          `json:"range"`
	Reload         int             `json:"reload"`
	Value          json.RawMessage `json:"value"`
	Property       []string        `json:"property"`
}

// fiveEFile is the top-level shape of items-base.json.
type fiveEFile struct {
	BaseItems []baseItem `json:"baseitem"`
}

// tableDoc matches the datasource table schema.
type tableDoc struct {
	Name    string     `yaml:"name"`
	Entries []tableRow `yaml:"entries"`
}

type tableRow struct {
	Name  string         `yaml:"name"`
	Attrs map[string]any `yaml:"attrs"`
}

// Weapons converts a 5e.tools items-base.json document into the weapons base
// table, one entry per mundane weapon. Firearms and other age-gated items are
// skipped, as are non-weapons.
//
// Postcondition: entries are sorted by name and carry the attributes the
// weapon pipeline reads (category, type, damage, damage_type, range,
// properties).
func Weapons(r io.Reader) (string, error) {
	var file fiveEFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return "", fmt.Errorf("convert: cannot parse 5e.tools data: %w", err)
	}
	if len(file.BaseItems) == 0 {
		return "", fmt.Errorf("convert: 5e.tools data has no baseitem list")
	}

	doc := tableDoc{Name: "weapons"}
	for _, item := range file.BaseItems {
		if !item.Weapon || item.Age != "" {
			continue
		}
		row, err := convertWeapon(item)
		if err != nil {
			return "", err
		}
		doc.Entries = append(doc.Entries, row)
	}
	if len(doc.Entries) == 0 {
		return "", fmt.Errorf("convert: 5e.tools data has no mundane weapons")
	}
	sort.Slice(doc.Entries, func(i, j int) bool { return doc.Entries[i].Name < doc.Entries[j].Name })

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("convert: cannot marshal weapons table: %w", err)
	}
	return string(out), nil
}

func convertWeapon(item baseItem) (tableRow, error) {
	properties := make([]string, 0, len(item.Property))
	for _, code := range item.Property {
		name, ok := propertyCodes[code]
		if !ok {
			return tableRow{}, fmt.Errorf("convert: weapon %q has unknown property code %q", item.Name, code)
		}
		properties = append(properties, name)
	}

	attrs := map[string]any{
		"category":    item.WeaponCategory,
		"type":        weaponTypes[item.Type],
		"weight":      item.Weight,
		"damage_type": damageTypes[item.DmgType],
		"damage":      item.Dmg1,
	}
	if item.Range != "" {
		attrs["range"] = item.Range
	}
	if len(properties) > 0 {
		attrs["properties"] = strings.Join(properties, ",")
	}
	return tableRow{Name: title(item.Name), Attrs: attrs}, nil
}

// title uppercases the first rune, matching the display casing of the
// hand-written tables.
func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
