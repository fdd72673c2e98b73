// Package bubbles adapts the bubble shooter engine to the arcade platform:
// actions become aim, fire and pause commands, each Step drives one engine
// tick, and Render draws the board into a core.Screen.
package bubbles

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bubble-arcade/internal/config"
	"github.com/vovakirdan/bubble-arcade/internal/core"
	"github.com/vovakirdan/bubble-arcade/internal/games/bubbles/engine"
	"github.com/vovakirdan/bubble-arcade/internal/registry"
)

// GameID is the registry and score ledger id.
const GameID = "bubbles"

var (
	// configPath stores the custom config path set via CLI
	configPath string

	// defaults applied to games created through the registry
	defaultLogger = log.New(io.Discard)
	defaultPrefs  = Preferences{ShowGuide: true}
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetLogger sets the logger for games created after the call.
func SetLogger(l *log.Logger) {
	if l != nil {
		defaultLogger = l
	}
}

// SetPreferences sets the preferences for games created after the call.
func SetPreferences(p Preferences) {
	defaultPrefs = p
}

// Preferences are the per-player options the adapter honors.
type Preferences struct {
	ShowGuide bool
	AimStep   float64 // Radians per key press; 0 keeps the config value
}

// Game implements registry.Game for the bubble shooter.
type Game struct {
	eng     *engine.Engine
	cfg     config.BubblesConfig
	runtime core.RuntimeConfig
	logger  *log.Logger
	prefs   Preferences
	fx      *effects
	last    engine.TickResult

	// Size of the last rendered screen, for mapping pointer positions.
	viewW, viewH int
}

// Option configures a Game.
type Option func(*Game)

// WithLogger routes engine diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithPreferences applies player preferences.
func WithPreferences(p Preferences) Option {
	return func(g *Game) {
		g.prefs = p
	}
}

// New creates a new Bubble Shooter game instance.
func New(opts ...Option) *Game {
	g := &Game{
		logger: defaultLogger,
		prefs:  defaultPrefs,
		fx:     newEffects(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string { return GameID }

// Title returns the display name for this game.
func (g *Game) Title() string { return "Bubble Shooter" }

// Description returns a one-line summary for menus.
func (g *Game) Description() string {
	return "Aim, bank off the walls and pop clusters of three or more"
}

// Reset loads the configuration and deals a fresh board from runtime.Seed.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	if g.viewW == 0 {
		g.viewW, g.viewH = runtime.ScreenW, runtime.ScreenH
	}

	cfg, err := config.LoadBubbles(configPath)
	if err != nil {
		g.logger.Warn("using default config", "err", err)
	}
	g.cfg = cfg

	g.eng = engine.New(EngineConfig(cfg), engine.WithSeed(runtime.Seed), engine.WithLogger(g.logger))
	g.fx.reset()
	g.last = engine.TickResult{}
}

// EngineConfig converts the YAML configuration into engine parameters.
func EngineConfig(c config.BubblesConfig) engine.Config {
	return engine.Config{
		Cols:            c.Board.Cols,
		MaxRow:          c.Board.MaxRow,
		LossRow:         c.Board.LossRow,
		Radius:          c.Board.Radius,
		Height:          c.Board.Height,
		ProjectileSpeed: c.Physics.ProjectileSpeed,
		ShooterOffset:   c.Physics.ShooterOffset,
		InitialRows:     c.Spawn.InitialRows,
		FillChance:      c.Spawn.FillChance,
		AimMin:          c.Aim.Min * math.Pi,
		AimMax:          c.Aim.Max * math.Pi,
	}
}

// Step applies this frame's input and advances the engine by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.eng == nil {
		g.Reset(g.runtime)
	}

	if in.Has(core.ActionPause) {
		g.eng.TogglePause()
	}

	step := g.aimStep()
	if in.Has(core.ActionLeft) {
		g.eng.SetAim(g.eng.Aim() - step)
	}
	if in.Has(core.ActionRight) {
		g.eng.SetAim(g.eng.Aim() + step)
	}
	if in.Pointer != nil {
		g.aimAt(in.Pointer.X, in.Pointer.Y)
	}
	if in.Has(core.ActionFire) {
		g.eng.Fire()
	}

	res := g.eng.Tick()
	g.last = res
	if !g.eng.Paused() {
		g.fx.update(g.frameSeconds())
	}
	if len(res.Matched) > 0 {
		g.fx.popCells(res.Matched)
	}
	if res.Points > 0 {
		g.fx.rollScore(g.eng.Score())
	}

	return core.StepResult{
		State: g.State(),
		Ended: res.GameOverEdge,
	}
}

func (g *Game) aimStep() float64 {
	if g.prefs.AimStep > 0 {
		return g.prefs.AimStep
	}
	return g.cfg.Aim.Step
}

func (g *Game) frameSeconds() float32 {
	if g.runtime.TickRate <= 0 {
		return 1.0 / 60
	}
	return 1 / float32(g.runtime.TickRate)
}

// aimAt points the shooter at a screen cell. Positions below the shooter
// pin the aim to the nearer end of the arc.
func (g *Game) aimAt(px, py int) {
	l := computeLayout(g.eng.Config(), g.viewW, g.viewH)
	if l.tooSmall {
		return
	}
	ec := g.eng.Config()
	x, y := l.toField(px, py)
	sx, sy := ec.Shooter()

	theta := math.Atan2(y-sy, x-sx)
	if theta > 0 {
		if theta > math.Pi/2 {
			theta = ec.AimMin
		} else {
			theta = ec.AimMax
		}
	}
	g.eng.SetAim(theta)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.eng == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.eng.Score(),
		GameOver: g.eng.GameOver(),
		Paused:   g.eng.Paused(),
	}
}

// Observe returns the engine snapshot for spectators.
func (g *Game) Observe() any {
	if g.eng == nil {
		return nil
	}
	return g.eng.Snapshot()
}

// Engine exposes the underlying simulation.
func (g *Game) Engine() *engine.Engine {
	return g.eng
}

func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
}
