package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrCellOccupied is returned when placing into a position that already holds a cell.
	ErrCellOccupied = errors.New("cell occupied")
	// ErrOutOfBounds is returned when placing outside the board.
	ErrOutOfBounds = errors.New("position out of bounds")
)

// Cell is a settled bubble. X and Y always equal the center derived from Row and Col.
type Cell struct {
	ID    string  `json:"id"`
	Row   int     `json:"row"`
	Col   int     `json:"col"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color Color   `json:"color"`
}

type pos struct {
	row, col int
}

// neighborOffsets is the six-way adjacency used for matching.
// No row-parity correction is applied.
var neighborOffsets = [6]pos{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1}, {-1, -1}, {-1, 1},
}

// Grid is the set of settled cells, keyed by id, with at most one cell per position.
type Grid struct {
	cfg   Config
	newID func() string

	byID  map[string]Cell
	byPos map[pos]string
	order []string // insertion order, for deterministic iteration
}

// NewGrid creates an empty grid. newID supplies ids for placed cells.
func NewGrid(cfg Config, newID func() string) *Grid {
	return &Grid{
		cfg:   cfg,
		newID: newID,
		byID:  make(map[string]Cell),
		byPos: make(map[pos]string),
	}
}

// Place inserts a new cell of the given color at (row, col).
func (g *Grid) Place(row, col int, color Color) (Cell, error) {
	return g.Insert(Cell{ID: g.newID(), Row: row, Col: col, Color: color})
}

// Insert adds an existing cell to the grid. Its position is re-derived from
// Row and Col, so callers cannot desynchronize the two.
func (g *Grid) Insert(c Cell) (Cell, error) {
	if !g.InBounds(c.Row, c.Col) {
		return Cell{}, fmt.Errorf("place (%d,%d): %w", c.Row, c.Col, ErrOutOfBounds)
	}
	p := pos{c.Row, c.Col}
	if _, taken := g.byPos[p]; taken {
		return Cell{}, fmt.Errorf("place (%d,%d): %w", c.Row, c.Col, ErrCellOccupied)
	}
	if _, dup := g.byID[c.ID]; dup {
		return Cell{}, fmt.Errorf("place (%d,%d): duplicate id %s", c.Row, c.Col, c.ID)
	}

	c.X, c.Y = g.cfg.CellCenter(c.Row, c.Col)
	g.byID[c.ID] = c
	g.byPos[p] = c.ID
	g.order = append(g.order, c.ID)
	return c, nil
}

// Remove deletes every cell whose id is given. Unknown ids are ignored.
// Returns the number of cells removed.
func (g *Grid) Remove(ids ...string) int {
	removed := 0
	for _, id := range ids {
		c, ok := g.byID[id]
		if !ok {
			continue
		}
		delete(g.byID, id)
		delete(g.byPos, pos{c.Row, c.Col})
		removed++
	}
	if removed == 0 {
		return 0
	}

	kept := g.order[:0]
	for _, id := range g.order {
		if _, ok := g.byID[id]; ok {
			kept = append(kept, id)
		}
	}
	g.order = kept
	return removed
}

// Neighbors returns the settled cells adjacent to c.
func (g *Grid) Neighbors(c Cell) []Cell {
	out := make([]Cell, 0, len(neighborOffsets))
	for _, off := range neighborOffsets {
		if n, ok := g.At(c.Row+off.row, c.Col+off.col); ok {
			out = append(out, n)
		}
	}
	return out
}

// At returns the cell at (row, col), if any.
func (g *Grid) At(row, col int) (Cell, bool) {
	id, ok := g.byPos[pos{row, col}]
	if !ok {
		return Cell{}, false
	}
	return g.byID[id], true
}

// Get returns the cell with the given id, if present.
func (g *Grid) Get(id string) (Cell, bool) {
	c, ok := g.byID[id]
	return c, ok
}

// InBounds reports whether (row, col) lies on the board.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row <= g.cfg.MaxRow && col >= 0 && col < g.cfg.Cols
}

// Cells returns all settled cells in insertion order.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, len(g.order))
	for i, id := range g.order {
		out[i] = g.byID[id]
	}
	return out
}

// Len returns the number of settled cells.
func (g *Grid) Len() int {
	return len(g.order)
}

// Clear removes every cell.
func (g *Grid) Clear() {
	g.byID = make(map[string]Cell)
	g.byPos = make(map[pos]string)
	g.order = nil
}

// DeepestRow returns the largest row index holding a cell, or -1 when empty.
func (g *Grid) DeepestRow() int {
	deepest := -1
	for _, c := range g.byID {
		if c.Row > deepest {
			deepest = c.Row
		}
	}
	return deepest
}
