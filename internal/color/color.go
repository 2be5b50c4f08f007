// Package color provides small helpers for coloring terminal output using
// ANSI escape sequences. Color functions return the input text wrapped in
// escape codes; Palette gives callers a set that collapses to plain
// pass-through when color output is disabled.
//
//nolint:revive // package name conflicts with standard library
package color

// ANSI color codes
const (
	resetCode  = "\033[0m"
	grayCode   = "\033[90m" // Bright black/gray
	greenCode  = "\033[32m"
	yellowCode = "\033[33m"
	redCode    = "\033[31m"
	cyanCode   = "\033[36m"
)

// Color represents a color function that wraps text with ANSI escape
// sequences.
type Color func(text string) string

// NewColor creates a color function with the specified ANSI code.
func NewColor(ansiCode string) Color {
	return func(text string) string {
		return ansiCode + text + resetCode
	}
}

// None returns text unchanged. It stands in for every color when coloring
// is disabled.
func None(text string) string {
	return text
}

// Predefined color functions
var (
	// Gray colors text in gray (bright black)
	Gray = NewColor(grayCode)

	// Green colors text in green
	Green = NewColor(greenCode)

	// Yellow colors text in yellow
	Yellow = NewColor(yellowCode)

	// Red colors text in red
	Red = NewColor(redCode)

	// Cyan colors text in cyan
	Cyan = NewColor(cyanCode)
)

// Palette bundles the colors used for diagnostics, selected once based on
// whether the output destination supports color.
type Palette struct {
	Error   Color
	Warning Color
	Success Color
	Detail  Color
	Accent  Color
}

// NewPalette returns a colored palette when enabled is true and a
// pass-through palette otherwise.
func NewPalette(enabled bool) Palette {
	if !enabled {
		return Palette{Error: None, Warning: None, Success: None, Detail: None, Accent: None}
	}
	return Palette{Error: Red, Warning: Yellow, Success: Green, Detail: Gray, Accent: Cyan}
}
