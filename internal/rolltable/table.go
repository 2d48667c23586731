// Package rolltable maps generated items onto the faces of a die so a batch
// of items can be used as a game-table handout: roll the die, read the row.
package rolltable

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Item is anything that can occupy a row of a roll table.
type Item interface {
	Name() string
	Summary() string
}

// identified is satisfied by items carrying a stable mechanics id.
type identified interface {
	ID() string
}

// instanced is satisfied by items carrying a per-generation instance id.
type instanced interface {
	InstanceID() string
}

// Table distributes items across the faces of a single die. Faces are
// assigned evenly in item order; when the die size is not a multiple of the
// item count, earlier items receive the extra faces.
type Table struct {
	die       int
	items     []Item
	hideRolls bool
}

// Option configures a Table.
type Option func(*Table)

// HideRolls omits the Roll column from all outputs.
func HideRolls() Option {
	return func(t *Table) { t.hideRolls = true }
}

// New builds a roll table for the given die size.
//
// Precondition: die >= 1, 1 <= len(items) <= die.
func New(die int, items []Item, opts ...Option) (*Table, error) {
	if die < 1 {
		return nil, fmt.Errorf("rolltable: die size must be >= 1, got %d", die)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("rolltable: must have at least one item")
	}
	if len(items) > die {
		return nil, fmt.Errorf("rolltable: d%d cannot cover %d items", die, len(items))
	}
	t := &Table{die: die, items: items}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Die returns the die size the table was built for.
func (t *Table) Die() int { return t.die }

// Header returns the column headings, matching Rows and ExpandedRows.
func (t *Table) Header() []string {
	header := []string{"Roll", "Name", "Summary", "ID"}
	if t.hideRolls {
		return header[1:]
	}
	return header
}

// faces returns how many die faces each item covers.
//
// Postcondition: the counts sum to the die size and differ by at most one.
func (t *Table) faces() []int {
	counts := make([]int, len(t.items))
	base := t.die / len(t.items)
	extra := t.die % len(t.items)
	for i := range counts {
		counts[i] = base
		if i < extra {
			counts[i]++
		}
	}
	return counts
}

func itemID(it Item) string {
	if id, ok := it.(identified); ok {
		return id.ID()
	}
	if inst, ok := it.(instanced); ok {
		return inst.InstanceID()
	}
	return ""
}

func (t *Table) row(roll string, it Item) []string {
	row := []string{roll, it.Name(), it.Summary(), itemID(it)}
	if t.hideRolls {
		return row[1:]
	}
	return row
}

// Rows returns one row per item, with contiguous die faces collapsed into
// ranges ("1-3", "4").
func (t *Table) Rows() [][]string {
	rows := make([][]string, 0, len(t.items))
	next := 1
	for i, count := range t.faces() {
		first, last := next, next+count-1
		next = last + 1
		roll := fmt.Sprintf("%d", first)
		if last > first {
			roll = fmt.Sprintf("%d-%d", first, last)
		}
		rows = append(rows, t.row(roll, t.items[i]))
	}
	return rows
}

// ExpandedRows returns one row per die face.
func (t *Table) ExpandedRows() [][]string {
	rows := make([][]string, 0, t.die)
	face := 1
	for i, count := range t.faces() {
		for j := 0; j < count; j++ {
			rows = append(rows, t.row(fmt.Sprintf("%d", face), t.items[i]))
			face++
		}
	}
	return rows
}

// Markdown renders the collapsed table as a GitHub-style pipe table.
func (t *Table) Markdown() string {
	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("| ")
		b.WriteString(strings.Join(cells, " | "))
		b.WriteString(" |\n")
	}
	header := t.Header()
	writeRow(header)
	separators := make([]string, len(header))
	for i := range separators {
		separators[i] = "---"
	}
	writeRow(separators)
	for _, row := range t.Rows() {
		writeRow(row)
	}
	return b.String()
}

// yamlRow is the serialized form of one collapsed row.
type yamlRow struct {
	Roll    string `yaml:"roll,omitempty"`
	Name    string `yaml:"name"`
	Summary string `yaml:"summary"`
	ID      string `yaml:"id,omitempty"`
}

// YAML renders the collapsed table as a YAML document.
func (t *Table) YAML() (string, error) {
	rows := make([]yamlRow, 0, len(t.items))
	next := 1
	for i, count := range t.faces() {
		first, last := next, next+count-1
		next = last + 1
		roll := fmt.Sprintf("%d", first)
		if last > first {
			roll = fmt.Sprintf("%d-%d", first, last)
		}
		if t.hideRolls {
			roll = ""
		}
		it := t.items[i]
		rows = append(rows, yamlRow{
			Roll:    roll,
			Name:    it.Name(),
			Summary: it.Summary(),
			ID:      itemID(it),
		})
	}
	out, err := yaml.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("rolltable: cannot marshal table: %w", err)
	}
	return string(out), nil
}
