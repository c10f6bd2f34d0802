package astar

import (
	"context"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRun_OpenGrid(t *testing.T) {
	grid := newTestGrid(t, 3)
	steps := 0

	result, err := Run(context.Background(), grid, pos(0, 0), pos(2, 2), func() { steps++ })
	require.NoError(t, err)

	require.Equal(t, Found, result.Outcome)
	assert.Equal(t, 4, result.TotalCost)
	want := []Position{pos(0, 0), pos(1, 0), pos(2, 0), pos(2, 1), pos(2, 2)}
	if diff := cmp.Diff(want, result.Path); diff != "" {
		t.Fatalf("path mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 9, result.ExpandedNodes)
	// 8 non-goal expansions plus one per predecessor on the path.
	assert.Equal(t, 8+4, steps)
}

func TestRun_RoutesAroundWall(t *testing.T) {
	grid := newTestGrid(t, 3, pos(0, 1), pos(1, 1))

	result, err := Run(context.Background(), grid, pos(0, 0), pos(2, 2), nil)
	require.NoError(t, err)

	require.Equal(t, Found, result.Outcome)
	assert.Equal(t, 4, result.TotalCost)
	assert.Equal(t, []Position{pos(0, 0), pos(1, 0), pos(2, 0), pos(2, 1), pos(2, 2)}, result.Path)
	assert.Equal(t, 5, result.ExpandedNodes)
}

func TestRun_SeparatedByBarrierRow(t *testing.T) {
	grid := newTestGrid(t, 3, pos(1, 0), pos(1, 1), pos(1, 2))

	result, err := Run(context.Background(), grid, pos(0, 0), pos(2, 2), nil)
	require.NoError(t, err)

	assert.Equal(t, Exhausted, result.Outcome)
	assert.Nil(t, result.Path)
	assert.Equal(t, 3, result.ExpandedNodes)
}

func TestRun_EnclosedStart(t *testing.T) {
	grid := newTestGrid(t, 5, pos(1, 2), pos(3, 2), pos(2, 1), pos(2, 3))

	result, err := Run(context.Background(), grid, pos(2, 2), pos(0, 0), nil)
	require.NoError(t, err)
	assert.Equal(t, Exhausted, result.Outcome)
	assert.Equal(t, 1, result.ExpandedNodes)
}

func TestRun_StartIsGoal(t *testing.T) {
	grid := newTestGrid(t, 3)
	steps := 0

	result, err := Run(context.Background(), grid, pos(1, 1), pos(1, 1), func() { steps++ })
	require.NoError(t, err)

	require.Equal(t, Found, result.Outcome)
	assert.Equal(t, []Position{pos(1, 1)}, result.Path)
	assert.Equal(t, 0, result.TotalCost)
	assert.Equal(t, 0, steps)
}

func TestRun_CancelledBeforeFirstIteration(t *testing.T) {
	grid := newTestGrid(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	steps := 0

	result, err := Run(ctx, grid, pos(0, 0), pos(2, 2), func() { steps++ })
	require.NoError(t, err)

	assert.Equal(t, Cancelled, result.Outcome)
	assert.Equal(t, 0, result.ExpandedNodes)
	assert.Nil(t, result.Path)
	assert.Equal(t, 0, steps)
	grid.Cells(func(c Cell) {
		assert.Equal(t, Unvisited, c.Tag, "cell %v was touched", c.Position)
	})
}

func TestRun_CancelledFromCallback(t *testing.T) {
	grid := newTestGrid(t, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	steps := 0

	result, err := Run(ctx, grid, pos(0, 0), pos(9, 9), func() {
		steps++
		if steps == 2 {
			cancel()
		}
	})
	require.NoError(t, err)

	assert.Equal(t, Cancelled, result.Outcome)
	assert.Equal(t, 2, result.ExpandedNodes)
}

func TestRun_ConfigurationErrors(t *testing.T) {
	grid := newTestGrid(t, 3, pos(1, 1))

	_, err := Run(context.Background(), grid, pos(1, 1), pos(2, 2), nil)
	assert.ErrorIs(t, err, ErrEndpointOnBarrier)

	_, err = Run(context.Background(), grid, pos(0, 0), pos(3, 3), nil)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = Run(context.Background(), nil, pos(0, 0), pos(1, 1), nil)
	assert.ErrorIs(t, err, ErrInvalidDimension)

	require.NoError(t, grid.SetRole(pos(0, 1), Barrier))
	_, err = Run(context.Background(), grid, pos(0, 0), pos(2, 2), nil)
	assert.ErrorIs(t, err, ErrTopologyStale)
}

func TestRunGrid_UsesRoles(t *testing.T) {
	grid := newTestGrid(t, 4)
	_, err := RunGrid(context.Background(), grid, nil)
	require.ErrorIs(t, err, ErrMissingStart)

	require.NoError(t, grid.SetRole(pos(0, 3), Start))
	require.NoError(t, grid.SetRole(pos(3, 0), End))
	grid.ComputeAllNeighbors()

	result, err := RunGrid(context.Background(), grid, nil)
	require.NoError(t, err)
	require.Equal(t, Found, result.Outcome)
	assert.Equal(t, 6, result.TotalCost)
}

func TestRun_MarksTags(t *testing.T) {
	grid := newTestGrid(t, 3)
	_, err := Run(context.Background(), grid, pos(0, 0), pos(2, 2), nil)
	require.NoError(t, err)

	tagAt := func(p Position) Tag {
		c, ok := grid.Cell(p)
		require.True(t, ok)
		return c.Tag
	}
	for _, p := range []Position{pos(1, 0), pos(2, 0), pos(2, 1)} {
		assert.Equal(t, Path, tagAt(p), "cell %v", p)
	}
	for _, p := range []Position{pos(0, 1), pos(0, 2), pos(1, 1), pos(1, 2)} {
		assert.Equal(t, Closed, tagAt(p), "cell %v", p)
	}
	assert.Equal(t, Unvisited, tagAt(pos(0, 0)))
	assert.Equal(t, Open, tagAt(pos(2, 2)))
}

func TestRun_MatchesBreadthFirstDistance(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const size = 14
	for trial := 0; trial < 60; trial++ {
		start := pos(rng.Intn(size), rng.Intn(size))
		goal := pos(rng.Intn(size), rng.Intn(size))
		grid := randomGrid(t, rng, size, 0.3, start, goal)

		result, err := Run(context.Background(), grid, start, goal, nil)
		require.NoError(t, err)

		dist, reachable := bfsDistances(grid, start)[goal]
		if !reachable {
			assert.Equal(t, Exhausted, result.Outcome, "trial %d", trial)
			continue
		}
		require.Equal(t, Found, result.Outcome, "trial %d", trial)
		assert.Equal(t, dist, result.TotalCost, "trial %d", trial)
		assert.Len(t, result.Path, dist+1, "trial %d", trial)
		requireValidPath(t, grid, result.Path, start, goal)
	}
}

func TestRun_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	start, goal := pos(0, 0), pos(19, 19)
	grid := randomGrid(t, rng, 20, 0.2, start, goal)

	first, err := Run(context.Background(), grid, start, goal, nil)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Run(context.Background(), grid, start, goal, nil)
		require.NoError(t, err)
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func TestRun_CustomHeuristic(t *testing.T) {
	grid := newTestGrid(t, 6, pos(2, 0), pos(2, 1), pos(2, 2), pos(2, 3))
	zero := func(Position, Position) int { return 0 }

	withManhattan, err := Run(context.Background(), grid, pos(0, 0), pos(5, 0), nil)
	require.NoError(t, err)
	withZero, err := Run(context.Background(), grid, pos(0, 0), pos(5, 0), nil, WithHeuristic(zero))
	require.NoError(t, err)

	assert.Equal(t, withManhattan.TotalCost, withZero.TotalCost)
	assert.Greater(t, withZero.ExpandedNodes, withManhattan.ExpandedNodes)
}

func TestRun_LogsOutcome(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	grid := newTestGrid(t, 3)

	_, err := Run(context.Background(), grid, pos(0, 0), pos(2, 2), nil, WithLogger(zap.New(core)))
	require.NoError(t, err)

	var messages []string
	for _, entry := range logs.All() {
		messages = append(messages, entry.Message)
	}
	assert.Equal(t, []string{"search initialized", "search finished"}, messages)
	assert.Equal(t, "found", logs.All()[1].ContextMap()["outcome"])
}
