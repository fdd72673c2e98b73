package engine

// Color is one of the fixed palette colors a cell or projectile can carry.
type Color uint8

const (
	ColorPink Color = iota
	ColorTeal
	ColorSky
	ColorOrange
	ColorMint
	ColorGold
	ColorGreen
	ColorPurple
	ColorCount // Sentinel value for iteration
)

var colorNames = [ColorCount]string{
	"pink", "teal", "sky", "orange", "mint", "gold", "green", "purple",
}

var colorHex = [ColorCount]string{
	"#FF6B9D", "#4ECDC4", "#45B7D1", "#FFA07A", "#98D8C8", "#FFD93D", "#A8E6CF", "#C77DFF",
}

// String returns the lowercase name of the color.
func (c Color) String() string {
	if c >= ColorCount {
		return "unknown"
	}
	return colorNames[c]
}

// Hex returns the color as a #RRGGBB string.
func (c Color) Hex() string {
	if c >= ColorCount {
		return "#FFFFFF"
	}
	return colorHex[c]
}

// Valid reports whether c belongs to the palette.
func (c Color) Valid() bool {
	return c < ColorCount
}

// MarshalText encodes the color by name.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ParseColor returns the palette color with the given name.
func ParseColor(name string) (Color, bool) {
	for i, n := range colorNames {
		if n == name {
			return Color(i), true
		}
	}
	return 0, false
}
