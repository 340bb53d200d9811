package core

// Color represents a foreground color for a screen cell.
// The platform layer maps each value to an ANSI color.
type Color uint8

// Colors used by the archery viewer.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorCyan
	ColorGray
	ColorBrightGreen
	ColorBrightRed
)

// Cell is a single character on the screen with its color.
type Cell struct {
	Rune  rune
	Color Color
}
