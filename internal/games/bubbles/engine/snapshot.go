package engine

import (
	"fmt"
	"hash/fnv"
	"math"
)

// Snapshot is a read-only copy of everything a renderer needs.
type Snapshot struct {
	Tick       uint64      `json:"tick"`
	Phase      Phase       `json:"phase"`
	Cells      []Cell      `json:"cells"`
	Projectile *Projectile `json:"projectile,omitempty"`
	Current    Color       `json:"current"`
	Next       Color       `json:"next"`
	Aim        float64     `json:"aim"`
	Score      int         `json:"score"`
	GameOver   bool        `json:"game_over"`
	Paused     bool        `json:"paused"`
}

// Snapshot copies the current state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Tick:     e.tick,
		Phase:    e.Phase(),
		Cells:    e.grid.Cells(),
		Current:  e.queue.Current,
		Next:     e.queue.Next,
		Aim:      e.aim,
		Score:    e.score,
		GameOver: e.gameOver,
		Paused:   e.paused,
	}
	if e.projectile != nil {
		p := *e.projectile
		s.Projectile = &p
	}
	return s
}

// Hash returns an FNV-1a digest of the snapshot for determinism checks.
func (s Snapshot) Hash() uint64 {
	h := fnv.New64a()

	fmt.Fprintf(h, "T:%d;P:%d;", s.Tick, s.Phase)
	fmt.Fprintf(h, "C:")
	for _, c := range s.Cells {
		fmt.Fprintf(h, "%s:%d:%d:%d,", c.ID, c.Row, c.Col, c.Color)
	}
	if p := s.Projectile; p != nil {
		fmt.Fprintf(h, ";B:%x:%x:%x:%x:%d", math.Float64bits(p.X), math.Float64bits(p.Y),
			math.Float64bits(p.VX), math.Float64bits(p.VY), p.Color)
	}
	fmt.Fprintf(h, ";Q:%d:%d;A:%x;S:%d;O:%v;Z:%v",
		s.Current, s.Next, math.Float64bits(s.Aim), s.Score, s.GameOver, s.Paused)

	return h.Sum64()
}
