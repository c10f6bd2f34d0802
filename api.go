package astar

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

// StepFunc is notified after every expansion and once per reconstructed path
// cell. It may be nil.
type StepFunc func()

// Outcome is the state of a search.
type Outcome uint8

const (
	// Searching means the frontier still has work.
	Searching Outcome = iota
	// Found means the goal was reached and a path reconstructed.
	Found
	// Exhausted means the frontier emptied without reaching the goal.
	Exhausted
	// Cancelled means the context was done before the search finished.
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Searching:
		return "searching"
	case Found:
		return "found"
	case Exhausted:
		return "exhausted"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("outcome(%d)", uint8(o))
}

// Result contains the outcome of a search. Path runs from start to goal
// inclusive and is only set when Outcome is Found.
type Result struct {
	Outcome       Outcome
	Path          []Position
	TotalCost     int
	ExpandedNodes int
}

// Options defines parameters for the search.
type Options struct {
	NumberOfWorkers int
	Heuristic       Heuristic
	Logger          *zap.Logger
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithWorkers specifies how many batch jobs may run at once.
func WithWorkers(numberOfWorkers int) Option {
	return func(options *Options) { options.NumberOfWorkers = numberOfWorkers }
}

// WithHeuristic replaces the Manhattan estimate.
func WithHeuristic(heuristic Heuristic) Option {
	return func(options *Options) { options.Heuristic = heuristic }
}

// WithLogger sets the logger used for debug tracing. Defaults to a no-op.
func WithLogger(logger *zap.Logger) Option {
	return func(options *Options) { options.Logger = logger }
}

func newOptions(options []Option) Options {
	searchOptions := Options{
		NumberOfWorkers: runtime.NumCPU(),
		Heuristic:       Manhattan,
		Logger:          zap.NewNop(),
	}
	for _, option := range options {
		option(&searchOptions)
	}
	if searchOptions.Heuristic == nil {
		searchOptions.Heuristic = Manhattan
	}
	if searchOptions.Logger == nil {
		searchOptions.Logger = zap.NewNop()
	}
	if searchOptions.NumberOfWorkers < 1 {
		searchOptions.NumberOfWorkers = 1
	}
	return searchOptions
}

// Run searches grid for a shortest path from startNode to goalNode.
//
// The grid's neighbor sets must have been computed with ComputeAllNeighbors
// after the last role change. onStep is invoked after every expansion and
// once per predecessor followed during reconstruction. Cancelling ctx ends
// the search with a Cancelled outcome; configuration problems are returned
// as errors before the search starts.
func Run(
	contextObject context.Context,
	grid *Grid,
	startNode Position,
	goalNode Position,
	onStep StepFunc,
	options ...Option,
) (Result, error) {
	stepper, err := NewStepper(grid, startNode, goalNode, options...)
	if err != nil {
		return Result{}, err
	}
	stepper.onStep = onStep

	for stepper.Outcome() == Searching {
		if err := stepper.advance(contextObject); err != nil {
			return Result{}, err
		}
	}
	return stepper.result(), nil
}

// RunGrid is Run with the endpoints taken from the grid's Start and End cells.
func RunGrid(contextObject context.Context, grid *Grid, onStep StepFunc, options ...Option) (Result, error) {
	start, end, err := grid.Endpoints()
	if err != nil {
		return Result{}, err
	}
	return Run(contextObject, grid, start, end, onStep, options...)
}
