package view

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/dbdash/internal/api"
)

func TestBuildGrid(t *testing.T) {
	cols := []string{"id", "name", "note"}
	rows := []api.Row{
		{"id": json.Number("1"), "name": "alpha", "note": nil},
		{"id": json.Number("2"), "name": "beta"},
	}

	g := BuildGrid(cols, rows)

	assert.Equal(t, cols, g.Headers)
	assert.False(t, g.Empty)
	require.Len(t, g.Rows, 2)
	assert.Equal(t, []string{"1", "alpha", "NULL"}, g.Rows[0])
	assert.Equal(t, []string{"2", "beta", "NULL"}, g.Rows[1], "absent keys render as NULL")
}

func TestBuildGrid_Empty(t *testing.T) {
	g := BuildGrid([]string{"id", "name", "note"}, nil)

	assert.True(t, g.Empty)
	require.Len(t, g.Rows, 1)
	assert.Equal(t, []string{NoDataMessage}, g.Rows[0])
	assert.Equal(t, 3, g.Span())

	assert.Equal(t, 1, BuildGrid(nil, nil).Span())
}

func TestBuildGrid_ColumnOrder(t *testing.T) {
	g := BuildGrid([]string{"b", "a"}, []api.Row{{"a": "A", "b": "B"}})
	assert.Equal(t, []string{"B", "A"}, g.Rows[0])
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "NULL"},
		{"string", "hello", "hello"},
		{"empty string", "", ""},
		{"json number", json.Number("12345678901"), "12345678901"},
		{"float", 3.5, "3.5"},
		{"whole float", float64(40), "40"},
		{"bool", true, "true"},
		{"nested", map[string]any{"k": "v"}, `{"k":"v"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCell(tt.in))
		})
	}
}

func TestBuildPagination(t *testing.T) {
	tests := []struct {
		page, pages int
		text        string
		prevOff     bool
		nextOff     bool
	}{
		{1, 1, "Page 1 of 1", true, true},
		{1, 3, "Page 1 of 3", true, false},
		{2, 3, "Page 2 of 3", false, false},
		{3, 3, "Page 3 of 3", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			p := BuildPagination(tt.page, tt.pages)
			assert.Equal(t, tt.text, p.Text)
			assert.Equal(t, tt.prevOff, p.PrevDisabled)
			assert.Equal(t, tt.nextOff, p.NextDisabled)
		})
	}
}

func TestRowCount(t *testing.T) {
	assert.Equal(t, "0 rows", RowCount(0))
	assert.Equal(t, "40 rows", RowCount(40))
	assert.Equal(t, "1,234,567 rows", RowCount(1234567))
}

func TestDatabaseOptions(t *testing.T) {
	opts := DatabaseOptions([]api.Database{
		{Name: "monitor", Exists: true},
		{Name: "archive", Exists: false},
	})

	require.Len(t, opts, 2)
	assert.Equal(t, DatabaseOption{Name: "monitor", Label: "monitor ✓"}, opts[0])
	assert.Equal(t, DatabaseOption{Name: "archive", Label: "archive ✗", Disabled: true}, opts[1])
}

func TestFilterTables(t *testing.T) {
	names := []string{"sistema_info", "Sistema_Info_Media", "eventos"}

	tests := []struct {
		term string
		want []string
	}{
		{"", names},
		{"  ", names},
		{"info", []string{"sistema_info", "Sistema_Info_Media"}},
		{"MEDIA", []string{"Sistema_Info_Media"}},
		{"zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterTables(names, tt.term))
		})
	}
}
