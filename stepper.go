package astar

import (
	"context"
	"fmt"

	mapset "github.com/deckarep/golang-set"
	"go.uber.org/zap"

	"github.com/pdrpinto/gridastar/internal/pathutil"
)

// StepSnapshot exposes the per-iteration state of the search
type StepSnapshot struct {
	Current   Position
	Open      map[Position]bool
	Closed    map[Position]bool
	CameFrom  map[Position]Position
	Outcome   Outcome
	Path      []Position
	StepIndex int
}

// Done reports whether the search reached a terminal outcome.
func (s StepSnapshot) Done() bool { return s.Outcome != Searching }

// Stepper runs one A* search an expansion at a time. It owns the search
// tables for a single run and mutates only the visualization tags of the grid.
type Stepper struct {
	grid      *Grid
	start     Position
	goal      Position
	heuristic Heuristic
	logger    *zap.Logger
	onStep    StepFunc

	frontier *Frontier
	openSet  mapset.Set
	closed   map[Position]bool
	cameFrom map[Position]Position
	gScore   map[Position]int

	current   Position
	stepCount int
	outcome   Outcome
	path      []Position
}

// NewStepper validates the endpoints against grid and seeds the frontier with
// start. The grid's neighbor sets must be computed beforehand.
func NewStepper(
	grid *Grid,
	startNode Position,
	goalNode Position,
	options ...Option,
) (*Stepper, error) {
	opts := newOptions(options)
	if err := validateEndpoints(grid, startNode, goalNode); err != nil {
		return nil, err
	}

	grid.ClearTags()
	s := &Stepper{
		grid:      grid,
		start:     startNode,
		goal:      goalNode,
		heuristic: opts.Heuristic,
		logger:    opts.Logger,
		frontier:  NewFrontier(),
		openSet:   mapset.NewThreadUnsafeSet(),
		closed:    make(map[Position]bool),
		cameFrom:  make(map[Position]Position),
		gScore:    map[Position]int{startNode: 0},
		current:   startNode,
	}
	s.frontier.Push(s.heuristic(startNode, goalNode), startNode)
	s.openSet.Add(startNode)

	s.logger.Debug("search initialized",
		zap.Stringer("start", startNode),
		zap.Stringer("goal", goalNode),
		zap.Int("size", grid.Size()))
	return s, nil
}

func validateEndpoints(grid *Grid, start, goal Position) error {
	if grid == nil {
		return fmt.Errorf("%w: nil grid", ErrInvalidDimension)
	}
	for _, pos := range []Position{start, goal} {
		cell, ok := grid.Cell(pos)
		if !ok {
			return fmt.Errorf("%w: %v", ErrOutOfBounds, pos)
		}
		if cell.Role == Barrier {
			return fmt.Errorf("%w: %v", ErrEndpointOnBarrier, pos)
		}
	}
	if !grid.Frozen() {
		return ErrTopologyStale
	}
	return nil
}

// Outcome returns the current state of the search.
func (s *Stepper) Outcome() Outcome { return s.outcome }

// Step advances the search by one node expansion and returns a snapshot
func (s *Stepper) Step(ctx context.Context) (StepSnapshot, error) {
	if err := s.advance(ctx); err != nil {
		return StepSnapshot{}, err
	}
	return s.snapshot(), nil
}

// advance runs one iteration of the expansion loop. Once a terminal outcome
// is reached it is a no-op.
func (s *Stepper) advance(ctx context.Context) error {
	if s.outcome != Searching {
		return nil
	}
	if ctx.Err() != nil {
		s.finish(Cancelled)
		return nil
	}
	if s.frontier.IsEmpty() {
		s.finish(Exhausted)
		return nil
	}

	s.stepCount++
	entry := s.frontier.PopMin()
	current := entry.Position
	s.current = current
	s.openSet.Remove(current)
	s.closed[current] = true

	if current == s.goal {
		path, err := pathutil.Reconstruct(s.cameFrom, s.start, s.goal, func(p Position) {
			if p != s.start {
				s.grid.setTag(p, Path)
			}
			s.notify()
		})
		if err != nil {
			return fmt.Errorf("reconstruct path to %v: %w", s.goal, err)
		}
		s.path = path
		s.finish(Found)
		return nil
	}

	// Unit edge cost: every move changes g by exactly one.
	tentativeG := s.gScore[current] + 1
	for _, neighbor := range s.grid.Neighbors(current) {
		if known, ok := s.gScore[neighbor]; ok && tentativeG >= known {
			continue
		}
		s.cameFrom[neighbor] = current
		s.gScore[neighbor] = tentativeG
		if !s.openSet.Contains(neighbor) {
			s.frontier.Push(tentativeG+s.heuristic(neighbor, s.goal), neighbor)
			s.openSet.Add(neighbor)
		}
		s.grid.setTag(neighbor, Open)
	}

	s.notify()

	if current != s.start {
		s.grid.setTag(current, Closed)
	}
	return nil
}

func (s *Stepper) notify() {
	if s.onStep != nil {
		s.onStep()
	}
}

func (s *Stepper) finish(outcome Outcome) {
	s.outcome = outcome
	s.logger.Debug("search finished",
		zap.Stringer("outcome", outcome),
		zap.Int("expanded", s.stepCount),
		zap.Int("path_len", len(s.path)))
}

// result packages the terminal state for Run.
func (s *Stepper) result() Result {
	res := Result{
		Outcome:       s.outcome,
		ExpandedNodes: s.stepCount,
	}
	if s.outcome == Found {
		res.Path = s.path
		res.TotalCost = s.gScore[s.goal]
	}
	return res
}

func (s *Stepper) snapshot() StepSnapshot {
	snap := StepSnapshot{
		Current:   s.current,
		Open:      s.openSetToBoolMap(),
		Closed:    copyMap(s.closed),
		CameFrom:  copyMap(s.cameFrom),
		Outcome:   s.outcome,
		StepIndex: s.stepCount,
	}
	if s.outcome == Found {
		snap.Path = append([]Position(nil), s.path...)
	}
	return snap
}

func (s *Stepper) openSetToBoolMap() map[Position]bool {
	m := make(map[Position]bool, s.openSet.Cardinality())
	for _, item := range s.openSet.ToSlice() {
		m[item.(Position)] = true
	}
	return m
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	c := make(map[K]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
