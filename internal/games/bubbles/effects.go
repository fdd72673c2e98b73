package bubbles

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/vovakirdan/bubble-arcade/internal/games/bubbles/engine"
)

// Animation timings in seconds.
const (
	popDuration   = 0.3
	scoreDuration = 0.6
)

// pop is a cleared cell shrinking away where it used to sit.
type pop struct {
	cell  engine.Cell
	tween *gween.Tween
	size  float32 // 1 when the pop starts, 0 when it is gone
	done  bool
}

// effects holds purely visual animations. They never feed back into the engine.
type effects struct {
	pops []*pop

	score      *gween.Tween
	shownScore float32
	target     int
}

func newEffects() *effects {
	return &effects{}
}

func (f *effects) reset() {
	f.pops = nil
	f.score = nil
	f.shownScore = 0
	f.target = 0
}

// popCells starts a shrink animation for each cleared cell.
func (f *effects) popCells(cells []engine.Cell) {
	for _, c := range cells {
		f.pops = append(f.pops, &pop{
			cell:  c,
			tween: gween.New(1, 0, popDuration, ease.InBack),
			size:  1,
		})
	}
}

// rollScore animates the displayed score toward target.
func (f *effects) rollScore(target int) {
	f.target = target
	f.score = gween.New(f.shownScore, float32(target), scoreDuration, ease.OutQuad)
}

// update advances every animation by dt seconds and drops finished pops.
func (f *effects) update(dt float32) {
	live := f.pops[:0]
	for _, p := range f.pops {
		p.size, p.done = p.tween.Update(dt)
		if !p.done {
			live = append(live, p)
		}
	}
	f.pops = live

	if f.score != nil {
		var finished bool
		f.shownScore, finished = f.score.Update(dt)
		if finished {
			f.shownScore = float32(f.target)
			f.score = nil
		}
	}
}

// displayedScore is the score as currently shown on the HUD.
func (f *effects) displayedScore() int {
	if f.score == nil {
		return f.target
	}
	return int(f.shownScore + 0.5)
}

// active reports whether any animation is still running.
func (f *effects) active() bool {
	return len(f.pops) > 0 || f.score != nil
}
