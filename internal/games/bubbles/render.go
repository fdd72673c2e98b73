package bubbles

import (
	"fmt"
	"math"

	"github.com/vovakirdan/bubble-arcade/internal/core"
	"github.com/vovakirdan/bubble-arcade/internal/games/bubbles/engine"
)

// Visual characters for rendering
const (
	ShooterChar  = '▲'
	GuideChar    = '·'
	LossLineChar = '╌'
)

// One bubble is cellW characters wide and one or two rows tall.
const cellW = 4

var (
	bubbleTall    = [2]string{"▗██▖", "▝██▘"}
	bubbleCompact = [1]string{"▐██▌"}
	popFrames     = []string{" ▓▓ ", " ░░ ", "  · "}
)

const helpLine = "←/→ aim  space fire  p pause  r new  q quit"

// layout maps playfield units onto screen cells.
type layout struct {
	cellH    int
	originX  int // Screen column of playfield x = 0
	originY  int // Screen row of playfield y = 0
	fieldW   int
	fieldH   int
	scaleX   float64 // Columns per playfield unit
	scaleY   float64 // Rows per playfield unit
	minW     int
	minH     int
	tooSmall bool
}

// computeLayout picks the tallest bubble size that fits and centers the
// bordered playfield below a one-line HUD.
func computeLayout(cfg engine.Config, w, h int) layout {
	d := 2 * cfg.Radius
	fieldW := cfg.Cols * cellW
	fieldHFor := func(cellH int) int {
		return int(math.Ceil(cfg.Height / d * float64(cellH)))
	}

	l := layout{cellH: 2, fieldW: fieldW}
	l.fieldH = fieldHFor(2)
	// HUD row, two border rows and the help row.
	if h < l.fieldH+4 {
		l.cellH = 1
		l.fieldH = fieldHFor(1)
	}
	l.minW = fieldW + 2
	l.minH = fieldHFor(1) + 4
	l.tooSmall = w < l.minW || h < l.fieldH+4

	l.scaleX = float64(cellW) / d
	l.scaleY = float64(l.cellH) / d
	l.originX = (w-l.minW)/2 + 1
	l.originY = 2
	return l
}

// toScreen converts a playfield point to the screen cell containing it.
func (l layout) toScreen(x, y float64) (int, int) {
	return l.originX + int(math.Floor(x*l.scaleX)), l.originY + int(math.Floor(y*l.scaleY))
}

// toField converts a screen cell to the playfield point at its center.
func (l layout) toField(px, py int) (float64, float64) {
	return (float64(px-l.originX) + 0.5) / l.scaleX, (float64(py-l.originY) + 0.5) / l.scaleY
}

// bubbleOrigin returns the top-left screen cell of a bubble centered at (x, y).
func (l layout) bubbleOrigin(cfg engine.Config, x, y float64) (int, int) {
	left := int(math.Floor((x-cfg.Radius)*l.scaleX + 0.5))
	top := int(math.Floor((y-cfg.Radius)*l.scaleY + 0.5))
	return l.originX + left, l.originY + top
}

// paletteColor maps an engine color onto the screen palette.
func paletteColor(c engine.Color) core.Color {
	if !c.Valid() {
		return core.ColorWhite
	}
	return core.ColorPink + core.Color(c)
}

// Render draws the current game state into dst.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	g.viewW, g.viewH = dst.Width(), dst.Height()
	if g.eng == nil {
		return
	}

	cfg := g.eng.Config()
	l := computeLayout(cfg, dst.Width(), dst.Height())
	if l.tooSmall {
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small")
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", l.minW, l.minH))
		return
	}

	snap := g.eng.Snapshot()

	g.renderFrame(dst, l)
	g.renderLossLine(dst, l, cfg)
	if g.prefs.ShowGuide && snap.Phase == engine.PhaseIdle && !snap.Paused {
		g.renderGuide(dst, l, cfg, snap)
	}
	for _, c := range snap.Cells {
		drawBubble(dst, l, cfg, c.X, c.Y, paletteColor(c.Color))
	}
	g.renderPops(dst, l, cfg)
	if p := snap.Projectile; p != nil {
		drawBubble(dst, l, cfg, p.X, p.Y, paletteColor(p.Color))
	}
	g.renderShooter(dst, l, cfg, snap)
	g.renderHUD(dst, l, snap)
	g.renderOverlay(dst, snap)
}

func (g *Game) renderFrame(dst *core.Screen, l layout) {
	dst.DrawBox(core.NewRect(l.originX-1, l.originY-1, l.fieldW+2, l.fieldH+2))
	dst.DrawTextCentered(l.originY+l.fieldH+1, helpLine)
}

func (g *Game) renderLossLine(dst *core.Screen, l layout, cfg engine.Config) {
	y := l.originY + cfg.LossRow*l.cellH
	for x := l.originX; x < l.originX+l.fieldW; x++ {
		dst.SetColored(x, y, LossLineChar, core.ColorGray)
	}
}

// renderGuide draws the predicted path, reflecting off the side walls,
// up to the ceiling or the first settled cell.
func (g *Game) renderGuide(dst *core.Screen, l layout, cfg engine.Config, snap engine.Snapshot) {
	const stepLen = 6.0
	const maxSteps = 120

	x, y := cfg.Shooter()
	vx, vy := math.Cos(snap.Aim)*stepLen, math.Sin(snap.Aim)*stepLen
	for i := 1; i <= maxSteps; i++ {
		x += vx
		y += vy
		if x < cfg.Radius {
			x, vx = cfg.Radius, -vx
		} else if x > cfg.Width()-cfg.Radius {
			x, vx = cfg.Width()-cfg.Radius, -vx
		}
		if y <= cfg.Radius || touchesCell(snap.Cells, x, y, 2*cfg.Radius) {
			return
		}
		if i%4 == 0 {
			sx, sy := l.toScreen(x, y)
			dst.SetColored(sx, sy, GuideChar, core.ColorGray)
		}
	}
}

func touchesCell(cells []engine.Cell, x, y, limit float64) bool {
	for _, c := range cells {
		if math.Hypot(x-c.X, y-c.Y) < limit {
			return true
		}
	}
	return false
}

func (g *Game) renderPops(dst *core.Screen, l layout, cfg engine.Config) {
	for _, p := range g.fx.pops {
		frame := popFrames[len(popFrames)-1]
		switch {
		case p.size > 0.66:
			frame = popFrames[0]
		case p.size > 0.33:
			frame = popFrames[1]
		}
		left, top := l.bubbleOrigin(cfg, p.cell.X, p.cell.Y)
		for row := 0; row < l.cellH; row++ {
			drawSparse(dst, left, top+row, frame, paletteColor(p.cell.Color))
		}
	}
}

func (g *Game) renderShooter(dst *core.Screen, l layout, cfg engine.Config, snap engine.Snapshot) {
	x, y := cfg.Shooter()
	sx, sy := l.toScreen(x, y)
	dst.SetColored(sx, sy, ShooterChar, paletteColor(snap.Current))
}

func (g *Game) renderHUD(dst *core.Screen, l layout, snap engine.Snapshot) {
	score := fmt.Sprintf("SCORE %6d", g.fx.displayedScore())
	dst.DrawText(l.originX-1, 0, score)

	// Next bubble preview, right-aligned over the frame.
	label := "NEXT "
	right := l.originX + l.fieldW + 1
	x := right - len(label) - cellW
	dst.DrawText(x, 0, label)
	drawSparse(dst, x+len(label), 0, bubbleCompact[0], paletteColor(snap.Next))
}

func (g *Game) renderOverlay(dst *core.Screen, snap engine.Snapshot) {
	switch {
	case snap.GameOver:
		drawCenteredBox(dst, "GAME OVER", fmt.Sprintf("Score: %d  |  R: new game", snap.Score))
	case snap.Paused:
		drawCenteredBox(dst, "PAUSED", "Press P to resume")
	}
}

// drawBubble draws a bubble centered at playfield point (x, y).
func drawBubble(dst *core.Screen, l layout, cfg engine.Config, x, y float64, c core.Color) {
	left, top := l.bubbleOrigin(cfg, x, y)
	if l.cellH == 2 {
		for row, line := range bubbleTall {
			drawSparse(dst, left, top+row, line, c)
		}
		return
	}
	drawSparse(dst, left, top, bubbleCompact[0], c)
}

// drawSparse writes the non-space runes of text, leaving the rest untouched.
func drawSparse(dst *core.Screen, x, y int, text string, c core.Color) {
	i := 0
	for _, r := range text {
		if r != ' ' {
			dst.SetColored(x+i, y, r, c)
		}
		i++
	}
}

// drawCenteredBox draws a centered message box.
func drawCenteredBox(dst *core.Screen, title, subtitle string) {
	titleW := len([]rune(title))
	subW := len([]rune(subtitle))
	boxW := core.Max(titleW, subW) + 4
	boxH := 5
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.FillRect(box, ' ')
	dst.DrawBox(box)
	dst.DrawText(box.X+(boxW-titleW)/2, box.Y+1, title)
	dst.DrawText(box.X+(boxW-subW)/2, box.Y+3, subtitle)
}
