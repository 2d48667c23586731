// Package render draws roll tables as bordered console tables.
package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cory-johannsen/artificer/internal/rolltable"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Options controls console rendering.
type Options struct {
	// Width caps the rendered table width; 0 leaves it unconstrained.
	Width int
	// Expanded renders one row per die face instead of collapsed ranges.
	Expanded bool
}

// Console renders the roll table as a bordered terminal table.
func Console(rt *rolltable.Table, opts Options) string {
	rows := rt.Rows()
	if opts.Expanded {
		rows = rt.ExpandedRows()
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(rt.Header()...).
		Rows(rows...)
	if opts.Width > 0 {
		t = t.Width(opts.Width)
	}
	return t.String()
}
