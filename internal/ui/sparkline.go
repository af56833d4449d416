package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline block characters representing 8 vertical levels (lowest to highest).
const sparklineBlocks = "▁▂▃▄▅▆▇█"

// sparklineBlockRunes provides indexed access to block characters.
var sparklineBlockRunes = []rune(sparklineBlocks)

// RenderSparkline draws the most recent width values on a zero-based axis.
// A positive limit fixes the top of the axis; otherwise the largest value does.
func RenderSparkline(data []float64, width int, limit float64, color lipgloss.Color) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	if len(data) > width {
		data = data[len(data)-width:]
	}

	top := limit
	if top <= 0 {
		for _, v := range data {
			if v > top {
				top = v
			}
		}
	}

	var sb strings.Builder
	sb.Grow(len(data) * 3)

	levels := len(sparklineBlockRunes)
	for _, v := range data {
		level := int(ClampRatio(v, top) * float64(levels-1))
		sb.WriteRune(sparklineBlockRunes[level])
	}

	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}
