package engine

import "math"

// Projectile is the single bubble in flight.
type Projectile struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
	Color Color   `json:"color"`
}

// ContactKind says what a projectile ran into on a tick.
type ContactKind int

const (
	ContactNone ContactKind = iota
	ContactCeiling
	ContactCell
)

// Contact describes where a projectile should settle.
type Contact struct {
	Kind    ContactKind
	X, Y    float64 // Point handed to the snap resolver
	Hit     Cell    // Cell touched, for ContactCell
	Bounced bool    // A side wall was hit this tick
}

// NewProjectile launches a bubble of the given color from the shooter along theta.
func NewProjectile(cfg Config, theta float64, color Color) *Projectile {
	x, y := cfg.Shooter()
	return &Projectile{
		X:     x,
		Y:     y,
		VX:    math.Cos(theta) * cfg.ProjectileSpeed,
		VY:    math.Sin(theta) * cfg.ProjectileSpeed,
		Color: color,
	}
}

// Advance moves the projectile one tick and reports any contact.
// Order: integrate, reflect off side walls, then test the ceiling and
// finally the settled cells.
func (p *Projectile) Advance(cfg Config, g *Grid) Contact {
	p.X += p.VX
	p.Y += p.VY

	var contact Contact
	r := cfg.Radius
	switch {
	case p.X < r:
		p.X = r
		p.VX = math.Abs(p.VX)
		contact.Bounced = true
	case p.X > cfg.Width()-r:
		p.X = cfg.Width() - r
		p.VX = -math.Abs(p.VX)
		contact.Bounced = true
	}

	if p.Y <= r {
		contact.Kind = ContactCeiling
		contact.X, contact.Y = p.X, 0
		return contact
	}

	if hit, ok := p.nearestTouching(cfg, g); ok {
		contact.Kind = ContactCell
		contact.X, contact.Y = p.X, p.Y
		contact.Hit = hit
	}
	return contact
}

// nearestTouching returns the closest settled cell overlapping the projectile.
// Equal distances keep the earlier-inserted cell.
func (p *Projectile) nearestTouching(cfg Config, g *Grid) (Cell, bool) {
	limit := 2 * cfg.Radius
	best := math.Inf(1)
	var hit Cell
	found := false
	for _, c := range g.Cells() {
		d := math.Hypot(p.X-c.X, p.Y-c.Y)
		if d < limit && d < best {
			best = d
			hit = c
			found = true
		}
	}
	return hit, found
}
