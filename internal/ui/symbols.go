package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Database exists / operation succeeded
	SymbolFail     = "✗" // Database missing / operation failed
	SymbolPending  = "○" // Not loaded yet
	SymbolProgress = "◐" // Loading
	SymbolComplete = "●" // Loaded
	SymbolSelected = "▸" // Cursor / active item
)
