package engine

import (
	"math"
	"testing"
)

func TestInitializeGridShape(t *testing.T) {
	cfg := DefaultConfig()
	f := NewFactory(cfg, 7)
	cells := f.InitializeGrid()

	if len(cells) == 0 || len(cells) > cfg.InitialRows*cfg.Cols {
		t.Fatalf("unexpected cell count %d", len(cells))
	}
	ids := make(map[string]bool)
	for _, c := range cells {
		if c.Row < 0 || c.Row >= cfg.InitialRows || c.Col < 0 || c.Col >= cfg.Cols {
			t.Errorf("cell outside initial rows: (%d,%d)", c.Row, c.Col)
		}
		if !c.Color.Valid() {
			t.Errorf("invalid color %d", c.Color)
		}
		if ids[c.ID] {
			t.Errorf("duplicate id %s", c.ID)
		}
		ids[c.ID] = true
	}
}

func TestInitializeGridReproducible(t *testing.T) {
	cfg := DefaultConfig()
	a := NewFactory(cfg, 99).InitializeGrid()
	b := NewFactory(cfg, 99).InitializeGrid()

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("cell %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestInitializeGridFillChance(t *testing.T) {
	tests := []struct {
		name   string
		chance float64
		want   int
	}{
		{"never", 0, 0},
		{"always", 1, 40},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.FillChance = tc.chance
			if got := len(NewFactory(cfg, 1).InitializeGrid()); got != tc.want {
				t.Errorf("got %d cells, expected %d", got, tc.want)
			}
		})
	}
}

func TestFactoryColorsCoverPalette(t *testing.T) {
	f := NewFactory(DefaultConfig(), 3)
	seen := make(map[Color]bool)
	for i := 0; i < 1000; i++ {
		c := f.RandomColor()
		if !c.Valid() {
			t.Fatalf("invalid color %d", c)
		}
		seen[c] = true
	}
	if len(seen) != int(ColorCount) {
		t.Errorf("expected all %d colors, saw %d", ColorCount, len(seen))
	}
}

func TestQueueAdvance(t *testing.T) {
	f := NewFactory(DefaultConfig(), 5)
	q := f.NewQueue()
	next := q.Next

	q.Advance(f)
	if q.Current != next {
		t.Errorf("Current = %v, expected promoted %v", q.Current, next)
	}
	if !q.Next.Valid() {
		t.Errorf("Next not refilled: %v", q.Next)
	}
}

func TestColorNames(t *testing.T) {
	for c := Color(0); c < ColorCount; c++ {
		got, ok := ParseColor(c.String())
		if !ok || got != c {
			t.Errorf("ParseColor(%q) = %v, %v", c.String(), got, ok)
		}
		if len(c.Hex()) != 7 {
			t.Errorf("Hex() = %q", c.Hex())
		}
	}
	if ColorPurple.Hex() != "#C77DFF" {
		t.Errorf("purple hex = %s", ColorPurple.Hex())
	}
}

func TestConfigSnap(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name             string
		x, y             float64
		wantRow, wantCol int
	}{
		{"origin", 0, 0, 0, 0},
		{"half rounds up", 20, 20, 1, 1},
		{"just below half", 19.9, 19.9, 0, 0},
		{"ceiling contact", 40, 0, 0, 1},
		{"clamped left", -50, 100, 3, 0},
		{"clamped right", 1000, 100, 3, 7},
		{"clamped deep", 100, 1000, 9, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			row, col := cfg.Snap(tc.x, tc.y)
			if row != tc.wantRow || col != tc.wantCol {
				t.Errorf("Snap(%v, %v) = (%d, %d), expected (%d, %d)", tc.x, tc.y, row, col, tc.wantRow, tc.wantCol)
			}
		})
	}
}

func TestConfigClampAim(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		in, want float64
	}{
		{-math.Pi / 2, -math.Pi / 2},
		{0, cfg.AimMax},
		{math.Pi / 2, cfg.AimMax},
		{-math.Pi, cfg.AimMin},
	}
	for _, tc := range tests {
		if got := cfg.ClampAim(tc.in); got != tc.want {
			t.Errorf("ClampAim(%v) = %v, expected %v", tc.in, got, tc.want)
		}
	}
}

func TestConfigGeometry(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Width() != 320 {
		t.Errorf("Width() = %v, expected 320", cfg.Width())
	}
	x, y := cfg.Shooter()
	if x != 160 || y != 450 {
		t.Errorf("Shooter() = (%v, %v), expected (160, 450)", x, y)
	}
}
