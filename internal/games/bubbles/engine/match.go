package engine

// FindMatches returns the connected region of cells sharing origin's color,
// origin first, in breadth-first order. The grid is not modified.
func FindMatches(g *Grid, origin Cell) []Cell {
	visited := map[string]bool{origin.ID: true}
	queue := []Cell{origin}
	matches := make([]Cell, 0, 8)

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		matches = append(matches, c)

		for _, n := range g.Neighbors(c) {
			if visited[n.ID] || n.Color != origin.Color {
				continue
			}
			visited[n.ID] = true
			queue = append(queue, n)
		}
	}
	return matches
}
