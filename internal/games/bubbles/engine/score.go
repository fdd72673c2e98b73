package engine

// MinMatch is the smallest region that is cleared from the board.
const MinMatch = 3

// Score returns the points awarded for clearing a region of n cells.
func Score(n int) int {
	if n < MinMatch {
		return 0
	}
	return n*10 + (n-MinMatch)*5
}
