// Package ui provides the shared terminal building blocks for dbdash's CLI
// output and its dashboard.
//
// # Components Overview
//
//	Spinner          - Animated status line for CLI fetches
//	SpinnerComponent - Bubble Tea loading indicator for the dashboard
//	RenderBar        - Horizontal gauge bar with a threshold colour
//	RenderSparkline  - Zero-based mini line graph for metric series
//	RenderGrid       - Table page rendering, including the empty state
//	PickDatabase     - Interactive database selection using Huh forms
//
// # Color Scheme
//
// Status colours are ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Existing databases, healthy values
//	ColorError     (red)    - Missing databases, failures
//	ColorWarning   (yellow) - Values past the warning threshold
//	ColorInfo      (cyan)   - Informational messages
//	ColorMuted     (gray)   - Secondary text, timing info
//	ColorSecondary (blue)   - In-progress indicators
//
// Chart colours are hex values shared with the view package. Use
// DisableColors() to switch to monochrome output (for --no-color).
package ui
