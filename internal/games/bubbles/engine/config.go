package engine

import "math"

// Config holds the board geometry and physics constants of one game.
// Distances are in playfield units; angles are in radians.
type Config struct {
	Cols    int     // Columns across the board
	MaxRow  int     // Deepest row a cell may snap to
	LossRow int     // Any settled cell at or below this row ends the game
	Radius  float64 // Cell and projectile radius
	Height  float64 // Playfield height

	ProjectileSpeed float64 // Units per tick
	ShooterOffset   float64 // Distance of the shooter above the bottom edge

	InitialRows int     // Rows populated on reset
	FillChance  float64 // Probability each initial candidate cell is present

	AimMin float64 // Leftmost aim angle
	AimMax float64 // Rightmost aim angle
}

// DefaultConfig returns the standard 8-column board.
func DefaultConfig() Config {
	return Config{
		Cols:            8,
		MaxRow:          9,
		LossRow:         9,
		Radius:          20,
		Height:          500,
		ProjectileSpeed: 8,
		ShooterOffset:   50,
		InitialRows:     5,
		FillChance:      0.8,
		AimMin:          -0.95 * math.Pi,
		AimMax:          -0.05 * math.Pi,
	}
}

// withDefaults replaces unset fields with their default values.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Cols <= 0 {
		c.Cols = d.Cols
	}
	if c.MaxRow <= 0 {
		c.MaxRow = d.MaxRow
	}
	if c.LossRow <= 0 {
		c.LossRow = d.LossRow
	}
	if c.Radius <= 0 {
		c.Radius = d.Radius
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.ProjectileSpeed <= 0 {
		c.ProjectileSpeed = d.ProjectileSpeed
	}
	if c.ShooterOffset <= 0 {
		c.ShooterOffset = d.ShooterOffset
	}
	if c.InitialRows < 0 {
		c.InitialRows = 0
	}
	if c.FillChance < 0 || c.FillChance > 1 {
		c.FillChance = d.FillChance
	}
	if c.AimMin == 0 && c.AimMax == 0 || c.AimMin > c.AimMax {
		c.AimMin, c.AimMax = d.AimMin, d.AimMax
	}
	return c
}

// Width returns the playfield width, which is exactly Cols cells across.
func (c Config) Width() float64 {
	return float64(c.Cols) * 2 * c.Radius
}

// Shooter returns the launch point of every projectile.
func (c Config) Shooter() (x, y float64) {
	return c.Width() / 2, c.Height - c.ShooterOffset
}

// CellCenter returns the continuous position of the cell at (row, col).
func (c Config) CellCenter(row, col int) (x, y float64) {
	d := 2 * c.Radius
	return float64(col)*d + c.Radius, float64(row)*d + c.Radius
}

// Snap converts a continuous point into the nearest grid position,
// clamped into the board. Halves round up.
func (c Config) Snap(x, y float64) (row, col int) {
	d := 2 * c.Radius
	col = int(math.Floor(x/d + 0.5))
	row = int(math.Floor(y/d + 0.5))
	return clampInt(row, 0, c.MaxRow), clampInt(col, 0, c.Cols-1)
}

// ClampAim restricts an angle to the forward-facing arc.
func (c Config) ClampAim(theta float64) float64 {
	if theta < c.AimMin {
		return c.AimMin
	}
	if theta > c.AimMax {
		return c.AimMax
	}
	return theta
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
