// Package astar finds shortest paths on square grids with A*.
//
// It exposes three entry points:
//
//   - Run: search to completion and get a Result, with a callback after every step.
//   - Stepper: iterate the search one expansion at a time to drive UIs or debugging tools.
//   - RunBatch: run independent searches on separate grids over a bounded worker pool.
//
// Movement is 4-connected with unit cost and the default heuristic is the
// Manhattan distance. The frontier breaks priority ties by insertion order,
// so a fixed grid always yields the same path.
package astar
