package engine

// resolve settles a projectile of the given color at the contact point,
// clears any match, advances the queue and runs the loss check.
func (e *Engine) resolve(x, y float64, color Color, result *TickResult) {
	row, col := e.cfg.Snap(x, y)
	cell, err := e.grid.Place(row, col, color)
	if err != nil {
		e.violation("place", row, col, err)
	} else {
		result.Placed = true
		result.Cell = cell

		matches := FindMatches(e.grid, cell)
		result.MatchSize = len(matches)
		if len(matches) >= MinMatch {
			ids := make([]string, len(matches))
			for i, m := range matches {
				ids[i] = m.ID
			}
			e.grid.Remove(ids...)
			result.Matched = matches
			result.Points = Score(len(matches))
			e.score += result.Points
		}
		e.logger.Debug("placed", "row", row, "col", col, "color", color, "match", len(matches), "points", result.Points)
	}

	e.queue.Advance(e.factory)

	if e.checkLoss() {
		e.gameOver = true
		result.GameOverEdge = true
		e.logger.Info("game over", "score", e.score, "seed", e.seed)
	}
}

// checkLoss reports whether any settled cell sits at or beyond the loss row.
func (e *Engine) checkLoss() bool {
	return e.grid.DeepestRow() >= e.cfg.LossRow
}
