package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// MaxColumnWidth caps a grid column so one long value can't push the rest off screen.
const MaxColumnWidth = 32

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// TableStyles returns the bubbles table styles used across dbdash.
func TableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.
		Foreground(ColorPrimary)
	s.Selected = s.Selected.
		Foreground(ColorPrimary).
		Background(ColorMuted).
		Bold(false)
	return s
}

// NewTable creates a new Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row, height int) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{Title: c.Title, Width: c.Width}
	}

	if height <= 0 {
		height = len(rows) + 1
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(height),
	)
	t.SetStyles(TableStyles())
	return t
}

// FitColumns sizes each column to its widest cell, capped at MaxColumnWidth.
func FitColumns(headers []string, rows [][]string) []TableColumn {
	cols := make([]TableColumn, len(headers))
	for i, h := range headers {
		w := lipgloss.Width(h)
		for _, r := range rows {
			if i < len(r) {
				w = max(w, lipgloss.Width(r[i]))
			}
		}
		cols[i] = TableColumn{Title: h, Width: min(w, MaxColumnWidth)}
	}
	return cols
}

// RenderSimpleTable renders a non-interactive table string for CLI output.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	t := NewTable(columns, tableRows, 0)
	return t.View()
}

// RenderGrid renders a table page. When empty is set, rows holds one message
// that is drawn centered across the full table width instead of as a row.
func RenderGrid(headers []string, rows [][]string, empty bool) string {
	if !empty {
		return RenderSimpleTable(FitColumns(headers, rows), rows)
	}

	cols := FitColumns(headers, nil)
	header := NewTable(cols, nil, 1).View()

	msg := ""
	if len(rows) > 0 && len(rows[0]) > 0 {
		msg = rows[0][0]
	}
	width := max(lipgloss.Width(firstLine(header)), lipgloss.Width(msg))
	body := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(ColorMuted).
		Render(msg)
	return header + "\n" + body
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// padRight pads a string to the specified visible width.
func padRight(s string, width int) string {
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visibleLen)
}

// KeyValue renders aligned "key  value" lines, e.g. for summaries.
func KeyValue(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p[0]))
	}
	label := lipgloss.NewStyle().Foreground(ColorMuted)
	var b strings.Builder
	for _, p := range pairs {
		b.WriteString(label.Render(padRight(p[0], width)))
		b.WriteString("  ")
		b.WriteString(p[1])
		b.WriteByte('\n')
	}
	return b.String()
}
