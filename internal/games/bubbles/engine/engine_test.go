package engine

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

// newEmptyEngine returns an engine with a cleared board.
func newEmptyEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e := New(DefaultConfig(), append([]Option{WithSeed(1)}, opts...)...)
	e.grid.Clear()
	return e
}

func mustPlace(t *testing.T, e *Engine, row, col int, color Color) Cell {
	t.Helper()
	c, err := e.grid.Place(row, col, color)
	if err != nil {
		t.Fatalf("Place(%d,%d): %v", row, col, err)
	}
	return c
}

// tickUntilSettled runs ticks until the projectile resolves.
func tickUntilSettled(t *testing.T, e *Engine) TickResult {
	t.Helper()
	for i := 0; i < 1000; i++ {
		r := e.Tick()
		if e.projectile == nil {
			return r
		}
	}
	t.Fatal("projectile never settled")
	return TickResult{}
}

func TestNewEngineInitialState(t *testing.T) {
	e := New(DefaultConfig(), WithSeed(11))

	if e.Phase() != PhaseIdle {
		t.Errorf("Phase() = %v, expected idle", e.Phase())
	}
	if e.Score() != 0 || e.GameOver() || e.Paused() {
		t.Error("new engine should start with zero score, not over, not paused")
	}
	if e.Aim() != -math.Pi/2 {
		t.Errorf("initial aim = %v, expected straight up", e.Aim())
	}
	snap := e.Snapshot()
	if len(snap.Cells) == 0 {
		t.Error("initial board should have cells")
	}
	for _, c := range snap.Cells {
		if c.Row >= 5 {
			t.Errorf("initial cell below row 4: %d", c.Row)
		}
	}
	if snap.Projectile != nil {
		t.Error("no projectile expected before firing")
	}
}

func TestSizeTwoMatchStays(t *testing.T) {
	e := newEmptyEngine(t)
	mustPlace(t, e, 0, 0, ColorPink)
	e.projectile = &Projectile{X: 40, Y: 25, VY: -8, Color: ColorPink}

	r := e.Tick()
	if !r.Placed {
		t.Fatal("expected a placement")
	}
	if r.Cell.Row != 0 || r.Cell.Col != 1 {
		t.Errorf("placed at (%d,%d), expected (0,1)", r.Cell.Row, r.Cell.Col)
	}
	if r.MatchSize != 2 {
		t.Errorf("MatchSize = %d, expected 2", r.MatchSize)
	}
	if len(r.Matched) != 0 || r.Points != 0 || e.Score() != 0 {
		t.Error("a pair must not be cleared or scored")
	}
	if _, ok := e.grid.At(0, 1); !ok {
		t.Error("cell (0,1) should remain on the grid")
	}
	if e.grid.Len() != 2 {
		t.Errorf("grid len = %d, expected 2", e.grid.Len())
	}
}

func TestFourMatchClears(t *testing.T) {
	e := newEmptyEngine(t)
	mustPlace(t, e, 0, 0, ColorGold)
	mustPlace(t, e, 0, 1, ColorGold)
	mustPlace(t, e, 1, 1, ColorGold)
	e.projectile = &Projectile{X: 80, Y: 25, VY: -8, Color: ColorGold}

	r := e.Tick()
	if r.Cell.Row != 0 || r.Cell.Col != 2 {
		t.Fatalf("placed at (%d,%d), expected (0,2)", r.Cell.Row, r.Cell.Col)
	}
	if len(r.Matched) != 4 {
		t.Errorf("expected 4 cells cleared, got %d", len(r.Matched))
	}
	if r.Points != 45 || e.Score() != 45 {
		t.Errorf("points = %d, score = %d, expected 45", r.Points, e.Score())
	}
	if e.grid.Len() != 0 {
		t.Errorf("grid should be empty, len = %d", e.grid.Len())
	}
}

func TestLossRowEndsGame(t *testing.T) {
	e := newEmptyEngine(t)
	mustPlace(t, e, 9, 0, ColorTeal)

	if !e.Fire() {
		t.Fatal("Fire rejected on an idle board")
	}
	r := tickUntilSettled(t, e)
	if !e.GameOver() || !r.GameOverEdge {
		t.Fatal("game should be over after the next placement")
	}
	if e.Phase() != PhaseGameOver {
		t.Errorf("Phase() = %v, expected game_over", e.Phase())
	}

	before := e.Snapshot().Hash()
	if e.Fire() {
		t.Error("Fire must be rejected after game over")
	}
	if r := e.Tick(); r.GameOverEdge || r.Placed {
		t.Error("ticks after game over must do nothing")
	}
	if e.Snapshot().Hash() != before {
		t.Error("state changed after game over")
	}
}

func TestGameOverEdgeFiresOnce(t *testing.T) {
	e := newEmptyEngine(t)
	mustPlace(t, e, 9, 7, ColorTeal)
	e.Fire()
	edges := 0
	for i := 0; i < 200; i++ {
		if e.Tick().GameOverEdge {
			edges++
		}
		e.Fire()
	}
	if edges != 1 {
		t.Errorf("GameOverEdge seen %d times, expected 1", edges)
	}
}

func TestWallReflection(t *testing.T) {
	e := newEmptyEngine(t)
	r := e.cfg.Radius
	e.projectile = &Projectile{X: r - 1, Y: 300, VX: -2, VY: -1, Color: ColorSky}

	res := e.Tick()
	if !res.Bounced {
		t.Error("expected a bounce")
	}
	if e.projectile.VX != 2 {
		t.Errorf("VX = %v, expected 2", e.projectile.VX)
	}
	if e.projectile.X != r {
		t.Errorf("X = %v, expected clamped to %v", e.projectile.X, r)
	}

	// Right wall mirrors the left one.
	w := e.cfg.Width()
	e.projectile = &Projectile{X: w - r + 1, Y: 300, VX: 2, VY: -1, Color: ColorSky}
	e.Tick()
	if e.projectile.VX != -2 || e.projectile.X != w-r {
		t.Errorf("right wall: X = %v, VX = %v", e.projectile.X, e.projectile.VX)
	}
}

func TestProjectileNeverLeavesField(t *testing.T) {
	e := newEmptyEngine(t)
	e.SetAim(e.cfg.AimMin)
	e.Fire()
	r := e.cfg.Radius
	for e.projectile != nil {
		p := *e.projectile
		if p.X < r || p.X > e.cfg.Width()-r {
			t.Fatalf("projectile escaped at x = %v", p.X)
		}
		e.Tick()
	}
}

func TestCeilingPlacement(t *testing.T) {
	e := newEmptyEngine(t)
	e.Fire()
	r := tickUntilSettled(t, e)

	if !r.Placed || r.Cell.Row != 0 {
		t.Fatalf("expected placement on row 0, got %+v", r.Cell)
	}
	if r.Cell.Col != 4 {
		t.Errorf("straight shot from x=160 should snap to col 4, got %d", r.Cell.Col)
	}
}

func TestCellCollisionPicksNearest(t *testing.T) {
	e := newEmptyEngine(t)
	far := mustPlace(t, e, 2, 1, ColorPink)
	near := mustPlace(t, e, 3, 2, ColorTeal)
	// After one tick the projectile sits at (85, 120): 32 units from the
	// (2,1) center and 25 from the (3,2) center. Both overlap.
	e.projectile = &Projectile{X: 85, Y: 128, VY: -8, Color: ColorGold}

	contact := e.projectile.Advance(e.cfg, e.grid)
	if contact.Kind != ContactCell {
		t.Fatalf("expected cell contact, got %v", contact.Kind)
	}
	if contact.Hit.ID != near.ID {
		t.Errorf("hit %s, expected nearest %s (not %s)", contact.Hit.ID, near.ID, far.ID)
	}
	if contact.X != 85 || contact.Y != 120 {
		t.Errorf("contact at (%v,%v), expected projectile position", contact.X, contact.Y)
	}
}

func TestOccupiedPlacementIsViolation(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	e := newEmptyEngine(t, WithLogger(logger))
	mustPlace(t, e, 0, 1, ColorPink)
	next := e.queue.Next
	e.projectile = &Projectile{X: 40, Y: 25, VY: -8, Color: ColorGold}

	r := e.Tick()
	if r.Placed {
		t.Error("placement into an occupied cell must be a no-op")
	}
	if e.Violations() != 1 {
		t.Errorf("Violations() = %d, expected 1", e.Violations())
	}
	if !strings.Contains(buf.String(), "invariant violation") {
		t.Errorf("expected a warning in the log, got %q", buf.String())
	}
	if e.projectile != nil {
		t.Error("projectile should be consumed")
	}
	if e.queue.Current != next {
		t.Error("queue should still advance")
	}
	if c, _ := e.grid.At(0, 1); c.Color != ColorPink {
		t.Error("existing cell must be untouched")
	}
}

func TestFireAdmission(t *testing.T) {
	e := newEmptyEngine(t)
	current := e.queue.Current

	if !e.Fire() {
		t.Fatal("first Fire should succeed")
	}
	if e.projectile.Color != current {
		t.Errorf("projectile color %v, expected current %v", e.projectile.Color, current)
	}
	if e.Phase() != PhaseInFlight {
		t.Errorf("Phase() = %v, expected in_flight", e.Phase())
	}
	p := *e.projectile
	if e.Fire() {
		t.Error("second Fire while in flight must be rejected")
	}
	if *e.projectile != p {
		t.Error("rejected Fire must not touch the projectile")
	}
}

func TestFireRejectedWhilePaused(t *testing.T) {
	e := newEmptyEngine(t)
	e.TogglePause()
	if e.Fire() {
		t.Error("Fire must be rejected while paused")
	}
	if e.projectile != nil {
		t.Error("no projectile expected")
	}
}

func TestQueueAdvancesAfterShot(t *testing.T) {
	e := newEmptyEngine(t)
	q := e.queue
	e.Fire()
	if e.queue != q {
		t.Error("queue must not change until the shot resolves")
	}
	tickUntilSettled(t, e)
	if e.queue.Current != q.Next {
		t.Errorf("Current = %v, expected promoted %v", e.queue.Current, q.Next)
	}
}

func TestPausePreservesState(t *testing.T) {
	paused := newEmptyEngine(t)
	straight := newEmptyEngine(t)
	for _, e := range []*Engine{paused, straight} {
		e.SetAim(-0.3 * math.Pi)
		e.Fire()
		for i := 0; i < 5; i++ {
			e.Tick()
		}
	}

	paused.TogglePause()
	before := paused.Snapshot()
	for i := 0; i < 50; i++ {
		paused.Tick()
	}
	after := paused.Snapshot()
	if *after.Projectile != *before.Projectile || after.Tick != before.Tick {
		t.Fatal("paused ticks must not move the projectile")
	}
	paused.TogglePause()

	for i := 0; i < 20; i++ {
		paused.Tick()
		straight.Tick()
	}
	if paused.Snapshot().Hash() != straight.Snapshot().Hash() {
		t.Error("pause must resume exactly where it stopped")
	}
}

func TestTogglePauseAfterGameOver(t *testing.T) {
	e := newEmptyEngine(t)
	e.gameOver = true
	if e.TogglePause() {
		t.Error("pause cannot be set after game over")
	}
}

func TestSetAim(t *testing.T) {
	e := newEmptyEngine(t)
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"in arc", -0.7, -0.7},
		{"too far right", 0.5, e.cfg.AimMax},
		{"too far left", -3.1, e.cfg.AimMin},
		{"NaN ignored", math.NaN(), e.cfg.AimMin},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e.SetAim(tc.in)
			if e.Aim() != tc.want {
				t.Errorf("Aim() = %v, expected %v", e.Aim(), tc.want)
			}
		})
	}
}

func TestSetAimOnlyWhenIdle(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, e *Engine)
	}{
		{"in flight", func(t *testing.T, e *Engine) {
			e.Fire()
			e.Tick()
		}},
		{"paused", func(t *testing.T, e *Engine) {
			e.TogglePause()
		}},
		{"paused in flight", func(t *testing.T, e *Engine) {
			e.Fire()
			e.Tick()
			e.TogglePause()
		}},
		{"game over", func(t *testing.T, e *Engine) {
			mustPlace(t, e, 9, 0, ColorTeal)
			e.Fire()
			tickUntilSettled(t, e)
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newEmptyEngine(t)
			tc.setup(t, e)
			aim := e.Aim()
			before := e.Snapshot().Hash()

			e.SetAim(-0.3)
			e.SetAim(-2.5)

			if e.Aim() != aim {
				t.Errorf("Aim() = %v, expected %v", e.Aim(), aim)
			}
			if e.Snapshot().Hash() != before {
				t.Error("aim input outside idle must not change state")
			}
		})
	}

	e := newEmptyEngine(t)
	e.TogglePause()
	e.TogglePause()
	e.SetAim(-0.7)
	if e.Aim() != -0.7 {
		t.Errorf("aim after resume = %v, expected -0.7", e.Aim())
	}
}

func TestMatchOnLossRowKeepsPlaying(t *testing.T) {
	e := newEmptyEngine(t)
	mustPlace(t, e, 9, 0, ColorGold)
	mustPlace(t, e, 9, 1, ColorGold)

	x, y := e.cfg.CellCenter(9, 2)
	var r TickResult
	e.resolve(x, y, ColorGold, &r)

	if !r.Placed || r.Cell.Row != 9 || r.Cell.Col != 2 {
		t.Fatalf("placed = %v at (%d,%d), expected (9,2)", r.Placed, r.Cell.Row, r.Cell.Col)
	}
	if len(r.Matched) != 3 || e.Score() != 30 {
		t.Errorf("matched = %d, score = %d, expected 3 and 30", len(r.Matched), e.Score())
	}
	if e.GameOver() || r.GameOverEdge {
		t.Error("clearing the loss row must not end the game")
	}
	if e.Phase() != PhaseIdle {
		t.Errorf("Phase() = %v, expected idle", e.Phase())
	}
}

func TestResetIdempotent(t *testing.T) {
	e := New(DefaultConfig(), WithSeed(5))
	fresh := e.Snapshot().Hash()

	e.Fire()
	for i := 0; i < 30; i++ {
		e.Tick()
	}
	e.TogglePause()

	e.Reset(5)
	once := e.Snapshot().Hash()
	e.Reset(5)
	twice := e.Snapshot().Hash()

	if once != twice || once != fresh {
		t.Errorf("reset hashes differ: fresh=%x once=%x twice=%x", fresh, once, twice)
	}
	if e.Phase() != PhaseIdle || e.Paused() || e.Score() != 0 {
		t.Error("reset should return to an idle, unpaused, zero-score game")
	}
}

func TestResetClearsGameOver(t *testing.T) {
	e := newEmptyEngine(t)
	mustPlace(t, e, 9, 3, ColorMint)
	e.Fire()
	tickUntilSettled(t, e)
	if !e.GameOver() {
		t.Fatal("setup: expected game over")
	}

	e.Reset(2)
	if e.GameOver() || !e.Fire() {
		t.Error("reset should make the game playable again")
	}
}

func TestDeterminism(t *testing.T) {
	play := func(seed int64) uint64 {
		e := New(DefaultConfig(), WithSeed(seed))
		aims := []float64{-0.5, -1.2, -2.0, -2.8, -0.3, -1.6}
		for _, a := range aims {
			e.SetAim(a)
			e.Fire()
			for i := 0; i < 200 && e.Phase() == PhaseInFlight; i++ {
				e.Tick()
			}
		}
		return e.Snapshot().Hash()
	}

	if play(1234) != play(1234) {
		t.Error("same seed and inputs must produce the same state")
	}
	if play(1234) == play(4321) {
		t.Error("different seeds should produce different states")
	}
}

func TestIdleTickIsNoop(t *testing.T) {
	e := New(DefaultConfig(), WithSeed(8))
	cells := e.Snapshot().Cells
	r := e.Tick()
	if r.Placed || r.Bounced || r.GameOverEdge {
		t.Error("idle tick should report nothing")
	}
	if len(e.Snapshot().Cells) != len(cells) {
		t.Error("idle tick should not change the board")
	}
	if e.Violations() != 0 {
		t.Error("idle tick is not a violation")
	}
}
