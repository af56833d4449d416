package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Bar block characters.
const (
	BarFilled = '█'
	BarEmpty  = '░'
)

// ClampRatio clamps value/limit into [0, 1]. A non-positive limit yields 0.
func ClampRatio(value, limit float64) float64 {
	if limit <= 0 || value <= 0 {
		return 0
	}
	if value >= limit {
		return 1
	}
	return value / limit
}

// CalculateBarCounts returns the filled and empty cell counts for ratio.
func CalculateBarCounts(ratio float64, width int) (filled, empty int) {
	filled = int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	empty = width - filled
	return
}

// BuildBarString builds the raw bar string (without styling).
func BuildBarString(filledCount, emptyCount int) string {
	var sb strings.Builder
	sb.Grow((filledCount + emptyCount) * 3)
	for i := 0; i < filledCount; i++ {
		sb.WriteRune(BarFilled)
	}
	for i := 0; i < emptyCount; i++ {
		sb.WriteRune(BarEmpty)
	}
	return sb.String()
}

// RenderBar renders value on a 0..limit scale as a width-cell bar. The filled
// part takes color; the rest is muted.
func RenderBar(value, limit float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	filled, empty := CalculateBarCounts(ClampRatio(value, limit), width)
	fill := lipgloss.NewStyle().Foreground(color).Render(BuildBarString(filled, 0))
	rest := lipgloss.NewStyle().Foreground(ColorMuted).Render(BuildBarString(0, empty))
	return fill + rest
}
