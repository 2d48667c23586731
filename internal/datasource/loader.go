// Package datasource loads the YAML reference tables consumed by the
// generation pipeline: the rarity table, base item tables, per-tier property
// tables, enchantments, and spells.
package datasource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/artificer/internal/weighted"
)

// tableFile is the on-disk schema of one weighted table.
type tableFile struct {
	Name    string     `yaml:"name"`
	Entries []entryDef `yaml:"entries"`
}

// entryDef is one candidate row: a unique name, optional per-frequency
// weights, and free-form attributes.
type entryDef struct {
	Name    string             `yaml:"name"`
	Weights map[string]float64 `yaml:"weights"`
	Attrs   map[string]any     `yaml:"attrs"`
}

// Validate checks that the table file satisfies its invariants.
//
// Postcondition: returns nil iff the table name is set, every entry has a
// name, and no weight is negative. Uniqueness is enforced by the weighted
// table constructor.
func (f *tableFile) Validate() error {
	var errs []error
	if f.Name == "" {
		errs = append(errs, errors.New("table name must not be empty"))
	}
	if len(f.Entries) == 0 {
		errs = append(errs, errors.New("table must have at least one entry"))
	}
	for i, e := range f.Entries {
		if e.Name == "" {
			errs = append(errs, fmt.Errorf("entry[%d] must have a non-empty name", i))
		}
		for key, w := range e.Weights {
			if w < 0 {
				errs = append(errs, fmt.Errorf("entry[%d] weight %q must be >= 0, got %f", i, key, w))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("table validation failed: %v", errs)
	}
	return nil
}

// LoadTable reads one YAML table file.
//
// Precondition: path must be a readable YAML file in the tableFile schema.
// Postcondition: returns a valid weighted table or the first encountered error.
func LoadTable(path string) (*weighted.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("datasource: cannot read file %q: %w", path, err)
	}
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("datasource: cannot parse file %q: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("datasource: invalid table in %q: %w", path, err)
	}

	entries := make([]weighted.Entry, 0, len(f.Entries))
	for _, e := range f.Entries {
		entries = append(entries, weighted.Entry{
			Name:    e.Name,
			Weights: e.Weights,
			Attrs:   e.Attrs,
		})
	}
	table, err := weighted.NewTable(f.Name, entries)
	if err != nil {
		return nil, fmt.Errorf("datasource: invalid table in %q: %w", path, err)
	}
	return table, nil
}

// LoadTierTables reads all *.yaml and *.yml files from dir, one table per
// tier, keyed by each table's declared name ("common", "very rare", "base").
//
// Precondition: dir must be a readable directory.
// Postcondition: returns one table per file or the first encountered error.
func LoadTierTables(dir string) (map[string]*weighted.Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("datasource: cannot read directory %q: %w", dir, err)
	}

	tables := make(map[string]*weighted.Table)
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		table, err := LoadTable(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if _, dup := tables[table.Name()]; dup {
			return nil, fmt.Errorf("datasource: duplicate tier table %q in %q", table.Name(), dir)
		}
		tables[table.Name()] = table
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("datasource: no tier tables found in %q", dir)
	}
	return tables, nil
}
