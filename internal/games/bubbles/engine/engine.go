// Package engine implements the bubble shooter simulation: the settled grid,
// projectile physics, snapping, matching, scoring and the turn state machine.
// This package is UI-agnostic and deterministic for a given seed.
package engine

import (
	"io"
	"math"

	"github.com/charmbracelet/log"
)

// Phase is the turn state of the game loop. Resolution of a contact happens
// inside the tick that detects it, so it never shows up as a phase.
type Phase int

const (
	PhaseIdle     Phase = iota // Waiting for aim and fire
	PhaseInFlight              // A projectile is moving
	PhaseGameOver              // Loss boundary reached; only Reset leaves it
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInFlight:
		return "in_flight"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// TickResult reports what happened during one Tick.
type TickResult struct {
	Tick         uint64
	Bounced      bool   // Projectile reflected off a side wall
	Placed       bool   // A new cell settled
	Cell         Cell   // The settled cell, when Placed
	MatchSize    int    // Size of the same-colored region around Cell
	Matched      []Cell // Cells cleared from the board
	Points       int    // Score gained this tick
	GameOverEdge bool   // True only on the tick the game is lost
}

// Engine owns one play session.
type Engine struct {
	cfg    Config
	logger *log.Logger
	seed   int64

	factory    *Factory
	grid       *Grid
	queue      Queue
	projectile *Projectile

	aim        float64
	score      int
	gameOver   bool
	paused     bool
	tick       uint64
	violations int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for diagnostics. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSeed sets the seed for the initial board and color sequence.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// New creates an engine and deals the first board.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg.withDefaults(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.factory = NewFactory(e.cfg, e.seed)
	e.grid = NewGrid(e.cfg, e.factory.NewID)
	e.Reset(e.seed)
	return e
}

// Reset discards the current session and deals a new board from seed.
// It may be called in any state and cancels any projectile in flight.
func (e *Engine) Reset(seed int64) {
	e.seed = seed
	e.factory.Reseed(seed)
	e.grid.Clear()
	for _, c := range e.factory.InitializeGrid() {
		if _, err := e.grid.Insert(c); err != nil {
			e.violation("init", c.Row, c.Col, err)
		}
	}
	e.queue = e.factory.NewQueue()
	e.projectile = nil
	e.aim = -math.Pi / 2
	e.score = 0
	e.gameOver = false
	e.paused = false
	e.tick = 0

	e.logger.Debug("reset", "seed", seed, "cells", e.grid.Len())
}

// SetAim points the shooter. Aim is only taken while idle and unpaused.
// Angles outside the allowed arc are clamped and non-finite values are ignored.
func (e *Engine) SetAim(theta float64) {
	if e.Phase() != PhaseIdle || e.paused {
		return
	}
	if math.IsNaN(theta) || math.IsInf(theta, 0) {
		return
	}
	e.aim = e.cfg.ClampAim(theta)
}

// Aim returns the current aim angle.
func (e *Engine) Aim() float64 {
	return e.aim
}

// Fire launches the current color along the aim. It is rejected while a
// projectile is in flight, while paused and after game over.
func (e *Engine) Fire() bool {
	if e.gameOver || e.paused || e.projectile != nil {
		return false
	}
	e.projectile = NewProjectile(e.cfg, e.aim, e.queue.Current)
	e.logger.Debug("fire", "aim", e.aim, "color", e.queue.Current)
	return true
}

// TogglePause flips the pause overlay and returns the new value.
// It has no effect once the game is over.
func (e *Engine) TogglePause() bool {
	if e.gameOver {
		return e.paused
	}
	e.paused = !e.paused
	return e.paused
}

// Tick advances the simulation by one frame. It does nothing while paused,
// after game over, or when no projectile is in flight.
func (e *Engine) Tick() TickResult {
	if e.paused || e.gameOver {
		return TickResult{Tick: e.tick}
	}
	e.tick++
	result := TickResult{Tick: e.tick}
	if e.projectile == nil {
		return result
	}

	contact := e.projectile.Advance(e.cfg, e.grid)
	result.Bounced = contact.Bounced
	if contact.Kind == ContactNone {
		return result
	}

	color := e.projectile.Color
	e.projectile = nil
	e.resolve(contact.X, contact.Y, color, &result)
	return result
}

// Phase returns the current turn state.
func (e *Engine) Phase() Phase {
	switch {
	case e.gameOver:
		return PhaseGameOver
	case e.projectile != nil:
		return PhaseInFlight
	default:
		return PhaseIdle
	}
}

// Score returns the running score.
func (e *Engine) Score() int { return e.score }

// GameOver reports whether the loss boundary has been reached.
func (e *Engine) GameOver() bool { return e.gameOver }

// Paused reports whether the pause overlay is set.
func (e *Engine) Paused() bool { return e.paused }

// Queue returns the loaded and on-deck colors.
func (e *Engine) Queue() Queue { return e.queue }

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Seed returns the seed of the current session.
func (e *Engine) Seed() int64 { return e.seed }

// Violations returns how many internal invariant violations were absorbed.
func (e *Engine) Violations() int { return e.violations }

func (e *Engine) violation(op string, row, col int, err error) {
	e.violations++
	e.logger.Warn("invariant violation", "op", op, "row", row, "col", col, "err", err)
}
