package engine

import (
	"errors"
	"math/rand"
	"testing"
)

func newTestGrid() (*Grid, *Factory) {
	cfg := DefaultConfig()
	f := NewFactory(cfg, 1)
	return NewGrid(cfg, f.NewID), f
}

func TestGridPlaceDerivesPosition(t *testing.T) {
	g, _ := newTestGrid()

	c, err := g.Place(2, 3, ColorTeal)
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if c.X != 140 || c.Y != 100 {
		t.Errorf("expected center (140, 100), got (%v, %v)", c.X, c.Y)
	}
	if c.ID == "" {
		t.Error("placed cell should have an id")
	}
}

func TestGridPlaceOccupied(t *testing.T) {
	g, _ := newTestGrid()

	if _, err := g.Place(0, 0, ColorPink); err != nil {
		t.Fatalf("first Place failed: %v", err)
	}
	_, err := g.Place(0, 0, ColorGold)
	if !errors.Is(err, ErrCellOccupied) {
		t.Errorf("expected ErrCellOccupied, got %v", err)
	}
	if g.Len() != 1 {
		t.Errorf("failed place must not change the grid, len = %d", g.Len())
	}
	if c, _ := g.At(0, 0); c.Color != ColorPink {
		t.Errorf("original cell replaced, color = %v", c.Color)
	}
}

func TestGridPlaceOutOfBounds(t *testing.T) {
	g, _ := newTestGrid()

	tests := []struct {
		name     string
		row, col int
	}{
		{"negative row", -1, 0},
		{"negative col", 0, -1},
		{"past max row", 10, 0},
		{"past last col", 0, 8},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := g.Place(tc.row, tc.col, ColorSky); !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("expected ErrOutOfBounds, got %v", err)
			}
		})
	}
}

func TestGridInsertOverridesPosition(t *testing.T) {
	g, _ := newTestGrid()

	c, err := g.Insert(Cell{ID: "a", Row: 1, Col: 1, X: 999, Y: -5, Color: ColorMint})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if c.X != 60 || c.Y != 60 {
		t.Errorf("Insert must derive position, got (%v, %v)", c.X, c.Y)
	}
}

func TestGridRemove(t *testing.T) {
	g, _ := newTestGrid()
	a, _ := g.Place(0, 0, ColorPink)
	b, _ := g.Place(0, 1, ColorPink)
	c, _ := g.Place(0, 2, ColorPink)

	if n := g.Remove(a.ID, "missing", c.ID); n != 2 {
		t.Errorf("Remove returned %d, expected 2", n)
	}
	cells := g.Cells()
	if len(cells) != 1 || cells[0].ID != b.ID {
		t.Errorf("expected only %s left, got %+v", b.ID, cells)
	}
	if _, ok := g.At(0, 0); ok {
		t.Error("position (0,0) should be free after removal")
	}
	if _, err := g.Place(0, 0, ColorGold); err != nil {
		t.Errorf("freed position should accept a new cell: %v", err)
	}
}

func TestGridNeighborsOffsets(t *testing.T) {
	g, _ := newTestGrid()
	center, _ := g.Place(4, 4, ColorPink)

	// Only the six fixed offsets count; (5,3) and (5,5) are not neighbors.
	want := map[pos]bool{
		{3, 4}: true, {5, 4}: true, {4, 3}: true, {4, 5}: true, {3, 3}: true, {3, 5}: true,
	}
	for row := 3; row <= 5; row++ {
		for col := 3; col <= 5; col++ {
			if row == 4 && col == 4 {
				continue
			}
			if _, err := g.Place(row, col, ColorGold); err != nil {
				t.Fatalf("Place(%d,%d): %v", row, col, err)
			}
		}
	}

	got := g.Neighbors(center)
	if len(got) != len(want) {
		t.Fatalf("expected %d neighbors, got %d", len(want), len(got))
	}
	for _, n := range got {
		if !want[pos{n.Row, n.Col}] {
			t.Errorf("unexpected neighbor at (%d,%d)", n.Row, n.Col)
		}
	}
}

func TestGridNeighborsNeverSelfOrDuplicate(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		cfg := DefaultConfig()
		cfg.InitialRows = cfg.MaxRow + 1
		f := NewFactory(cfg, seed)
		g := NewGrid(cfg, f.NewID)
		for _, c := range f.InitializeGrid() {
			if _, err := g.Insert(c); err != nil {
				t.Fatalf("seed %d: Insert: %v", seed, err)
			}
		}

		for _, c := range g.Cells() {
			seen := make(map[pos]bool)
			for _, n := range g.Neighbors(c) {
				if n.ID == c.ID {
					t.Fatalf("seed %d: cell %s is its own neighbor", seed, c.ID)
				}
				p := pos{n.Row, n.Col}
				if seen[p] {
					t.Fatalf("seed %d: duplicate neighbor at %v", seed, p)
				}
				seen[p] = true
			}
		}
	}
}

func TestGridPositionsStayDerived(t *testing.T) {
	g, f := newTestGrid()
	rng := rand.New(rand.NewSource(42))
	cfg := DefaultConfig()

	for i := 0; i < 500; i++ {
		if rng.Intn(3) > 0 {
			_, _ = g.Place(rng.Intn(cfg.MaxRow+1), rng.Intn(cfg.Cols), f.RandomColor())
			continue
		}
		cells := g.Cells()
		if len(cells) > 0 {
			g.Remove(cells[rng.Intn(len(cells))].ID)
		}
	}

	for _, c := range g.Cells() {
		x, y := cfg.CellCenter(c.Row, c.Col)
		if c.X != x || c.Y != y {
			t.Errorf("cell (%d,%d) at (%v,%v), expected (%v,%v)", c.Row, c.Col, c.X, c.Y, x, y)
		}
		if at, ok := g.At(c.Row, c.Col); !ok || at.ID != c.ID {
			t.Errorf("position index out of sync for (%d,%d)", c.Row, c.Col)
		}
	}
}

func TestGridDeepestRow(t *testing.T) {
	g, _ := newTestGrid()
	if g.DeepestRow() != -1 {
		t.Errorf("empty grid DeepestRow = %d, expected -1", g.DeepestRow())
	}
	_, _ = g.Place(3, 0, ColorPink)
	_, _ = g.Place(7, 5, ColorPink)
	if g.DeepestRow() != 7 {
		t.Errorf("DeepestRow = %d, expected 7", g.DeepestRow())
	}
}
