package core

// Color represents a foreground color for a screen cell.
// The first block uses ANSI codes; the palette block maps to the
// bubble colors and is rendered with true-color hex values.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightWhite
	ColorGray

	// Bubble palette
	ColorPink
	ColorTeal
	ColorSky
	ColorOrange
	ColorMint
	ColorGold
	ColorSoftGreen
	ColorPurple
)
