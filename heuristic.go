package astar

// Heuristic returns the estimated cost from one position to another.
// Replacements must stay admissible and consistent or paths stop being optimal.
type Heuristic func(from Position, to Position) int

// Manhattan is the 4-connected grid distance |Δrow| + |Δcol|.
func Manhattan(from Position, to Position) int {
	return abs(from.Row-to.Row) + abs(from.Col-to.Col)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
