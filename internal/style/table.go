package style

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column defines a table column by header name and fixed width.
type Column struct {
	Name  string
	Width int
	Style lipgloss.Style
}

// Table renders fixed-width columnar output for status listings.
type Table struct {
	columns []Column
	rows    [][]string
	indent  string
}

// NewTable creates a table with the given columns.
func NewTable(columns ...Column) *Table {
	return &Table{columns: columns, indent: "  "}
}

// AddRow appends a row; missing cells render empty.
func (t *Table) AddRow(values ...string) *Table {
	t.rows = append(t.rows, values)
	return t
}

// Render returns the formatted table, header first, separator, then rows.
func (t *Table) Render() string {
	if len(t.columns) == 0 {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(t.indent)
	for i, col := range t.columns {
		name := truncate(col.Name, col.Width)
		sb.WriteString(pad(Bold.Render(name), len([]rune(name)), col.Width))
		if i < len(t.columns)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("\n")

	total := 0
	for i, col := range t.columns {
		total += col.Width
		if i < len(t.columns)-1 {
			total++
		}
	}
	sb.WriteString(t.indent)
	sb.WriteString(Dim.Render(strings.Repeat("─", total)))
	sb.WriteString("\n")

	for _, row := range t.rows {
		sb.WriteString(t.indent)
		for i, col := range t.columns {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			val = truncate(val, col.Width)
			sb.WriteString(pad(col.Style.Render(val), len([]rune(val)), col.Width))
			if i < len(t.columns)-1 {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// pad right-pads styled text to width using the plain-text length, since
// ANSI escapes make len(styled) useless for alignment.
func pad(styled string, plainLen, width int) string {
	if plainLen >= width {
		return styled
	}
	return styled + strings.Repeat(" ", width-plainLen)
}

// truncate cuts s to at most width runes, with a "..." suffix when there is
// room for one. Cutting on runes keeps multi-byte text intact.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
