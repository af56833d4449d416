// Package view turns API payloads into render-ready view models. Everything
// here is pure and safe to call from any goroutine.
package view

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/rileyhilliard/dbdash/internal/api"
)

// Empty-state messages.
const (
	NoDataMessage   = "No data found"
	NoTablesMessage = "No tables found"
	NullText        = "NULL"
)

// Grid is a rendered table page.
type Grid struct {
	Headers []string
	Rows    [][]string
	// Empty is set when Rows holds the single "No data found" row, whose one
	// cell spans every column.
	Empty bool
}

// Span returns how many columns the empty-state cell covers.
func (g Grid) Span() int {
	if n := len(g.Headers); n > 0 {
		return n
	}
	return 1
}

// BuildGrid renders rows in column order. Missing and null values become NULL.
func BuildGrid(columns []string, rows []api.Row) Grid {
	g := Grid{Headers: append([]string(nil), columns...)}
	if len(rows) == 0 {
		g.Rows = [][]string{{NoDataMessage}}
		g.Empty = true
		return g
	}
	g.Rows = make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = FormatCell(row[col])
		}
		g.Rows = append(g.Rows, cells)
	}
	return g
}

// FormatCell renders a single JSON value.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return NullText
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

// Pagination is the pager under the grid.
type Pagination struct {
	Text         string
	Page         int
	Pages        int
	PrevDisabled bool
	NextDisabled bool
}

// BuildPagination renders "Page X of Y" and the boundary flags.
func BuildPagination(page, pages int) Pagination {
	return Pagination{
		Text:         fmt.Sprintf("Page %d of %d", page, pages),
		Page:         page,
		Pages:        pages,
		PrevDisabled: page <= 1,
		NextDisabled: page >= pages,
	}
}

// RowCount formats a row total with thousands separators, e.g. "1,234 rows".
func RowCount(total int64) string {
	return humanize.Comma(total) + " rows"
}

// DatabaseOption is one entry of the database picker.
type DatabaseOption struct {
	Name     string
	Label    string
	Disabled bool
}

// DatabaseOptions marks databases whose file is missing as disabled.
func DatabaseOptions(dbs []api.Database) []DatabaseOption {
	out := make([]DatabaseOption, 0, len(dbs))
	for _, db := range dbs {
		mark := "✓"
		if !db.Exists {
			mark = "✗"
		}
		out = append(out, DatabaseOption{
			Name:     db.Name,
			Label:    db.Name + " " + mark,
			Disabled: !db.Exists,
		})
	}
	return out
}

// FilterTables keeps the names containing term, case-insensitively.
func FilterTables(names []string, term string) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return append([]string(nil), names...)
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), term) {
			out = append(out, n)
		}
	}
	return out
}
