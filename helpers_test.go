package astar

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func pos(row, col int) Position { return Position{Row: row, Col: col} }

// newTestGrid builds a size×size grid with the given barriers and a frozen
// neighbor snapshot.
func newTestGrid(t *testing.T, size int, barriers ...Position) *Grid {
	t.Helper()
	grid, err := NewGrid(size, size*10)
	require.NoError(t, err)
	for _, b := range barriers {
		require.NoError(t, grid.SetRole(b, Barrier))
	}
	grid.ComputeAllNeighbors()
	return grid
}

// randomGrid scatters barriers with the given density, keeping start and
// goal free.
func randomGrid(t *testing.T, rng *rand.Rand, size int, density float64, start, goal Position) *Grid {
	t.Helper()
	grid, err := NewGrid(size, size*10)
	require.NoError(t, err)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			p := pos(row, col)
			if p == start || p == goal {
				continue
			}
			if rng.Float64() < density {
				require.NoError(t, grid.SetRole(p, Barrier))
			}
		}
	}
	grid.ComputeAllNeighbors()
	return grid
}

// bfsDistances returns exact shortest distances from src over the frozen
// topology. Unreachable cells are absent.
func bfsDistances(grid *Grid, src Position) map[Position]int {
	dist := map[Position]int{src: 0}
	queue := []Position{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range grid.Neighbors(cur) {
			if _, ok := dist[nb]; ok {
				continue
			}
			dist[nb] = dist[cur] + 1
			queue = append(queue, nb)
		}
	}
	return dist
}

// requireValidPath checks that path is a connected walk from start to goal
// over passable cells with no repeated cell.
func requireValidPath(t *testing.T, grid *Grid, path []Position, start, goal Position) {
	t.Helper()
	require.NotEmpty(t, path)
	require.Equal(t, start, path[0])
	require.Equal(t, goal, path[len(path)-1])
	seen := make(map[Position]bool, len(path))
	for i, p := range path {
		require.False(t, seen[p], "cell %v visited twice", p)
		seen[p] = true
		cell, ok := grid.Cell(p)
		require.True(t, ok)
		require.NotEqual(t, Barrier, cell.Role, "path crosses barrier at %v", p)
		if i > 0 {
			require.Equal(t, 1, Manhattan(path[i-1], p), "non-adjacent step %v -> %v", path[i-1], p)
		}
	}
}
