package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// Column defines a table column.
type Column struct {
	Title string
	Width int
}

// Row is a slice of cell values.
type Row []string

// Table renders a fixed-width lipgloss table.
type Table struct {
	Columns []Column
	Rows    []Row
	// Marked is the index of the row drawn highlighted, -1 for none.
	Marked int
}

// NewTable creates a new table.
func NewTable(cols ...Column) *Table {
	return &Table{Columns: cols, Marked: -1}
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, Row(cells))
}

// Render returns the full table as a string. Cells longer than their column
// are cut with "…".
func (t *Table) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(ColorValue)

	line := func(cells []string, style func(int) lipgloss.Style) string {
		parts := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			val := ""
			if j < len(cells) {
				val = cells[j]
			}
			parts[j] = style(j).Render(fit(val, col.Width))
		}
		return strings.Join(parts, " ") + "\n"
	}

	var sb strings.Builder
	titles := make([]string, len(t.Columns))
	rules := make([]string, len(t.Columns))
	for j, col := range t.Columns {
		titles[j] = col.Title
		rules[j] = strings.Repeat("-", col.Width)
	}
	sb.WriteString(line(titles, func(int) lipgloss.Style { return headerStyle }))
	sb.WriteString(line(rules, func(int) lipgloss.Style { return StyleMeta }))

	for i, row := range t.Rows {
		style := cellStyle
		if i == t.Marked {
			style = StyleSelected
		}
		sb.WriteString(line(row, func(int) lipgloss.Style { return style }))
	}
	return sb.String()
}

// fit left-aligns s within exactly width runes.
func fit(s string, width int) string {
	s = Truncate(s, width)
	if n := utf8.RuneCountInString(s); n < width {
		s += strings.Repeat(" ", width-n)
	}
	return s
}

// KeyValueBlock renders key-value pairs in a bordered box, in the given order.
func KeyValueBlock(title string, pairs [][2]string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(StyleTitle.Render(title))
		sb.WriteString("\n")
	}
	for _, p := range pairs {
		key := StyleMeta.Render(fmt.Sprintf("%-20s", p[0]+":"))
		sb.WriteString("  " + key + " " + StyleValue.Render(p[1]) + "\n")
	}
	return StyleBorder.Render(sb.String())
}
