package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/dbdash/internal/chart"
	"github.com/rileyhilliard/dbdash/internal/ui"
	"github.com/rileyhilliard/dbdash/internal/view"
)

// Braille character rendering for terminal charts.
//
// Braille patterns use a 2x4 dot matrix per character:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// Unicode braille starts at U+2800 (empty) and each dot is one bit.

const brailleBase = '⠀'

// pointMarker replaces the braille cell holding a data point.
const pointMarker = '●'

// brailleDots maps [row][col] inside a cell to the dot's bit offset.
var brailleDots = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

// dotGrid is a braille canvas addressed in dots, origin top-left.
type dotGrid struct {
	cols, rows int
	cells      [][]rune
}

func newDotGrid(cols, rows int) *dotGrid {
	g := &dotGrid{cols: cols, rows: rows, cells: make([][]rune, rows)}
	for i := range g.cells {
		g.cells[i] = make([]rune, cols)
		for j := range g.cells[i] {
			g.cells[i][j] = brailleBase
		}
	}
	return g
}

// set lights the dot at (x, y). Out of range dots are ignored.
func (g *dotGrid) set(x, y int) {
	if x < 0 || y < 0 || x >= g.cols*2 || y >= g.rows*4 {
		return
	}
	g.cells[y/4][x/2] |= rune(1) << brailleDots[y%4][x%2]
}

// lit reports whether any dot in cell (col, row) is set.
func (g *dotGrid) lit(col, row int) bool {
	return g.cells[row][col] != brailleBase
}

// line draws a straight segment between two dots (Bresenham).
func (g *dotGrid) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		g.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// axisLabel formats an axis tick without trailing zeros.
func axisLabel(v float64) string {
	return strconv.FormatFloat(view.Round2(v), 'f', -1, 64)
}

// lineTop picks the top of a zero-based axis: the fixed max when set,
// otherwise the largest value (1 for an all-zero series).
func lineTop(values []float64, fixed float64) float64 {
	if fixed > 0 {
		return fixed
	}
	top := 0.0
	for _, v := range values {
		top = math.Max(top, v)
	}
	if top == 0 {
		return 1
	}
	return top
}

// RenderLineChart draws spec as a braille line on a zero-based axis, with a
// y-axis gutter on the left and the first and last labels underneath. Points
// are marked with ● when spec.Points is set.
func RenderLineChart(spec chart.LineSpec, width, height int) string {
	if height < 2 {
		height = 2
	}
	top := lineTop(spec.Values, spec.Max)
	topLabel := axisLabel(top) + spec.Unit
	gutter := max(lipgloss.Width(topLabel), 2) + 1
	plotW := width - gutter - 1
	if plotW < 2 {
		plotW = 2
	}

	g := newDotGrid(plotW, height)
	dotsW, dotsH := plotW*2, height*4
	n := len(spec.Values)
	xs := make([]int, n)
	ys := make([]int, n)
	for i, v := range spec.Values {
		if n == 1 {
			xs[i] = dotsW / 2
		} else {
			xs[i] = int(math.Round(float64(i) * float64(dotsW-1) / float64(n-1)))
		}
		ratio := ui.ClampRatio(v, top)
		ys[i] = dotsH - 1 - int(math.Round(ratio*float64(dotsH-1)))
	}
	for i := range xs {
		if i == 0 {
			g.set(xs[0], ys[0])
			continue
		}
		g.line(xs[i-1], ys[i-1], xs[i], ys[i])
	}
	if spec.Points {
		for i := range xs {
			g.cells[ys[i]/4][min(xs[i]/2, plotW-1)] = pointMarker
		}
	}

	lineStyle := lipgloss.NewStyle().Foreground(ui.Hex(spec.Color))
	axis := MutedStyle
	var b strings.Builder
	for row := 0; row < height; row++ {
		label := ""
		switch row {
		case 0:
			label = topLabel
		case height - 1:
			label = "0"
		}
		b.WriteString(axis.Render(fmt.Sprintf("%*s┤", gutter-1, label)))
		b.WriteString(lineStyle.Render(string(g.cells[row])))
		b.WriteByte('\n')
	}
	b.WriteString(axis.Render(strings.Repeat(" ", gutter-1) + "└" + strings.Repeat("─", plotW)))
	if len(spec.Labels) > 0 {
		b.WriteByte('\n')
		b.WriteString(axis.Render(strings.Repeat(" ", gutter) + spreadLabels(spec.Labels[0], spec.Labels[len(spec.Labels)-1], plotW)))
	}
	return b.String()
}

// spreadLabels puts first at the left edge and last at the right edge.
func spreadLabels(first, last string, width int) string {
	if first == last {
		return truncate(first, width)
	}
	gap := width - lipgloss.Width(first) - lipgloss.Width(last)
	if gap < 1 {
		return truncate(first, width)
	}
	return first + strings.Repeat(" ", gap) + last
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// RenderBarChart draws spec as horizontal bars on a zero-based axis, one row
// per label, scaled to the largest value.
func RenderBarChart(spec chart.BarSpec, width int) string {
	if len(spec.Labels) == 0 {
		return MutedStyle.Render(view.NoDataMessage)
	}
	top := lineTop(spec.Values, 0)
	labelW := 0
	valueW := 0
	values := make([]string, len(spec.Values))
	for i, v := range spec.Values {
		values[i] = axisLabel(v)
		valueW = max(valueW, len(values[i]))
		labelW = max(labelW, lipgloss.Width(spec.Labels[i]))
	}
	labelW = min(labelW, max(width/3, 4))
	barW := max(width-labelW-valueW-2, 1)

	color := ui.Hex(spec.Color)
	var rows []string
	if spec.Label != "" {
		rows = append(rows, LabelStyle.Render(spec.Label))
	}
	for i, label := range spec.Labels {
		name := fmt.Sprintf("%-*s", labelW, truncate(label, labelW))
		rows = append(rows, name+" "+ui.RenderBar(spec.Values[i], top, barW, color)+" "+ValueStyle.Render(fmt.Sprintf("%*s", valueW, values[i])))
	}
	return strings.Join(rows, "\n")
}

// largeFont is the overlay size from which the gauge uses spaced numerals.
const largeFont = 24

// RenderGauge draws spec as a 180° half-donut: the value segment sweeps from
// the left in the threshold colour and the rest of the track stays muted. The
// overlay text sits under the arc in the metric's colour, sized by FontSize,
// and never runs wider than the gauge.
func RenderGauge(spec chart.GaugeSpec, width, height int) string {
	width = max(width, 6)
	arcRows := max(height-3, 2)

	filled, _ := spec.Segments()
	fraction := 0.0
	if spec.Max > 0 {
		fraction = filled / spec.Max
	}

	fill := newDotGrid(width, arcRows)
	track := newDotGrid(width, arcRows)
	dotsW, dotsH := width*2, arcRows*4
	cx := float64(dotsW-1) / 2
	cy := float64(dotsH - 1)
	outer := math.Min(cx, cy)
	inner := outer * 0.6
	for y := 0; y < dotsH; y++ {
		for x := 0; x < dotsW; x++ {
			dx, dy := float64(x)-cx, cy-float64(y)
			d := math.Hypot(dx, dy)
			if d < inner || d > outer {
				continue
			}
			// 0 at the left end of the arc, 1 at the right end.
			pos := 1 - math.Atan2(dy, dx)/math.Pi
			if fraction > 0 && pos <= fraction {
				fill.set(x, y)
			} else {
				track.set(x, y)
			}
		}
	}

	fillStyle := lipgloss.NewStyle().Foreground(ui.Hex(spec.Color))
	trackStyle := lipgloss.NewStyle().Foreground(ColorTrack)
	var lines []string
	lines = append(lines, centered(LabelStyle.Render(truncate(spec.Label, width)), width))
	for row := 0; row < arcRows; row++ {
		var b strings.Builder
		for col := 0; col < width; col++ {
			switch {
			case fill.lit(col, row):
				b.WriteString(fillStyle.Render(string(fill.cells[row][col] | track.cells[row][col])))
			case track.lit(col, row):
				b.WriteString(trackStyle.Render(string(track.cells[row][col])))
			default:
				b.WriteByte(' ')
			}
		}
		lines = append(lines, b.String())
	}

	text := overlayText(spec.Text, spec.FontSize, width)
	textStyle := lipgloss.NewStyle().Foreground(ui.Hex(spec.TextColor)).Bold(true)
	lines = append(lines, centered(textStyle.Render(text), width))
	lines = append(lines, centered(MutedStyle.Render(truncate(spec.UnitText, width)), width))
	return strings.Join(lines, "\n")
}

// overlayText spaces the digits out for large fonts and falls back to the
// compact form when the spaced one would not fit.
func overlayText(text string, font, width int) string {
	if font >= largeFont {
		spaced := strings.Join(strings.Split(text, ""), " ")
		if lipgloss.Width(spaced) <= width {
			return spaced
		}
	}
	return truncate(text, width)
}

func centered(s string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

// renderChart dispatches on the spec kind.
func renderChart(spec chart.Spec, width, height int) string {
	switch s := spec.(type) {
	case chart.BarSpec:
		return RenderBarChart(s, width)
	case chart.LineSpec:
		return RenderLineChart(s, width, height)
	case chart.GaugeSpec:
		return RenderGauge(s, width, height)
	}
	return ""
}
