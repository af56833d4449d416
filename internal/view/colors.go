package view

// Chart palette as hex, consumed by lipgloss in the tui.
const (
	ColorBlue    = "#3b82f6"
	ColorBar     = "#2563eb"
	ColorGreen   = "#10b981"
	ColorAmber   = "#f59e0b"
	ColorRed     = "#ef4444"
	ColorTrack   = "#e2e8f0"
	ColorMutedFG = "#64748b"
)

// GaugeColor picks the fill colour for value. Both boundaries are inclusive.
func GaugeColor(value, warning, danger float64) string {
	switch {
	case value >= danger:
		return ColorRed
	case value >= warning:
		return ColorAmber
	default:
		return ColorGreen
	}
}
