package engine

import (
	"math/rand"

	"github.com/google/uuid"
)

// Factory produces colors, cell ids and new cells from a single seeded source,
// so a game replays exactly for a given seed.
type Factory struct {
	cfg Config
	rng *rand.Rand
}

// NewFactory creates a factory seeded with seed.
func NewFactory(cfg Config, seed int64) *Factory {
	return &Factory{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec // game randomness, not security
	}
}

// Reseed restarts the random sequence.
func (f *Factory) Reseed(seed int64) {
	f.rng.Seed(seed)
}

// RandomColor picks a palette color uniformly.
func (f *Factory) RandomColor() Color {
	return Color(f.rng.Intn(int(ColorCount)))
}

// NewID returns a fresh cell id drawn from the seeded source.
func (f *Factory) NewID() string {
	return uuid.Must(uuid.NewRandomFromReader(f.rng)).String()
}

// CreateCell builds a detached cell at (row, col) with the given color.
func (f *Factory) CreateCell(row, col int, color Color) Cell {
	x, y := f.cfg.CellCenter(row, col)
	return Cell{ID: f.NewID(), Row: row, Col: col, X: x, Y: y, Color: color}
}

// CreateRandomCell builds a detached cell with a random color.
func (f *Factory) CreateRandomCell(row, col int) Cell {
	return f.CreateCell(row, col, f.RandomColor())
}

// InitializeGrid returns the starting cells: each position of the first
// InitialRows rows is included independently with probability FillChance.
func (f *Factory) InitializeGrid() []Cell {
	cells := make([]Cell, 0, f.cfg.InitialRows*f.cfg.Cols)
	for row := 0; row < f.cfg.InitialRows; row++ {
		for col := 0; col < f.cfg.Cols; col++ {
			if f.rng.Float64() >= f.cfg.FillChance {
				continue
			}
			cells = append(cells, f.CreateRandomCell(row, col))
		}
	}
	return cells
}

// Queue holds the loaded and on-deck projectile colors.
type Queue struct {
	Current Color
	Next    Color
}

// NewQueue fills both slots.
func (f *Factory) NewQueue() Queue {
	return Queue{Current: f.RandomColor(), Next: f.RandomColor()}
}

// Advance promotes Next to Current and draws a new Next.
func (q *Queue) Advance(f *Factory) {
	q.Current = q.Next
	q.Next = f.RandomColor()
}
