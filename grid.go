package astar

import (
	"errors"
	"fmt"
)

// Configuration errors. They are reported before any search state is built.
var (
	ErrInvalidDimension  = errors.New("grid dimension must be positive")
	ErrOutOfBounds       = errors.New("position outside grid")
	ErrDuplicateStart    = errors.New("grid already has a start cell")
	ErrDuplicateEnd      = errors.New("grid already has an end cell")
	ErrMissingStart      = errors.New("grid has no start cell")
	ErrMissingEnd        = errors.New("grid has no end cell")
	ErrEndpointOnBarrier = errors.New("start or end placed on a barrier")
	ErrTopologyStale     = errors.New("neighbors not computed since last grid mutation")
)

// Position identifies a cell by row and column.
type Position struct {
	Row int
	Col int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Role is what a cell means to the search.
type Role uint8

const (
	Free Role = iota
	Barrier
	Start
	End
)

func (r Role) String() string {
	switch r {
	case Free:
		return "free"
	case Barrier:
		return "barrier"
	case Start:
		return "start"
	case End:
		return "end"
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// Tag records what the engine last did to a cell. It exists for renderers
// only; the search never reads it.
type Tag uint8

const (
	Unvisited Tag = iota
	Open
	Closed
	Path
)

func (t Tag) String() string {
	switch t {
	case Unvisited:
		return "unvisited"
	case Open:
		return "open"
	case Closed:
		return "closed"
	case Path:
		return "path"
	}
	return fmt.Sprintf("tag(%d)", uint8(t))
}

// Cell is a single grid square. X, Y and Width are pixel metrics kept for
// renderers.
type Cell struct {
	Position
	Role  Role
	Tag   Tag
	X     int
	Y     int
	Width int
}

// Grid is a fixed-size square of cells. It is not safe for concurrent use.
type Grid struct {
	size      int
	width     int
	cellWidth int
	cells     []Cell
	neighbors [][]Position
	frozen    bool
}

// NewGrid builds a rows×rows grid of free cells laid out over width pixels.
func NewGrid(rows, width int) (*Grid, error) {
	if rows <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: rows=%d width=%d", ErrInvalidDimension, rows, width)
	}
	gap := width / rows
	grid := &Grid{
		size:      rows,
		width:     width,
		cellWidth: gap,
		cells:     make([]Cell, rows*rows),
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < rows; col++ {
			grid.cells[row*rows+col] = Cell{
				Position: Position{Row: row, Col: col},
				X:        row * gap,
				Y:        col * gap,
				Width:    gap,
			}
		}
	}
	return grid, nil
}

// Reset returns a fresh grid with the same dimensions and every cell free.
func (g *Grid) Reset() *Grid {
	fresh, _ := NewGrid(g.size, g.width)
	return fresh
}

func (g *Grid) Size() int      { return g.size }
func (g *Grid) Width() int     { return g.width }
func (g *Grid) CellWidth() int { return g.cellWidth }

// Contains reports whether pos lies inside the grid.
func (g *Grid) Contains(pos Position) bool {
	return pos.Row >= 0 && pos.Row < g.size && pos.Col >= 0 && pos.Col < g.size
}

func (g *Grid) index(pos Position) int { return pos.Row*g.size + pos.Col }

// Cell returns a copy of the cell at pos.
func (g *Grid) Cell(pos Position) (Cell, bool) {
	if !g.Contains(pos) {
		return Cell{}, false
	}
	return g.cells[g.index(pos)], true
}

// Cells calls fn for every cell in row-major order.
func (g *Grid) Cells(fn func(Cell)) {
	for _, cell := range g.cells {
		fn(cell)
	}
}

// SetRole assigns role to the cell at pos. A grid holds at most one Start and
// one End; placing a second one fails. Any role change marks the neighbor
// sets stale.
func (g *Grid) SetRole(pos Position, role Role) error {
	if !g.Contains(pos) {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, pos)
	}
	switch role {
	case Start:
		if other, ok := g.find(Start); ok && other != pos {
			return fmt.Errorf("%w: %v", ErrDuplicateStart, other)
		}
	case End:
		if other, ok := g.find(End); ok && other != pos {
			return fmt.Errorf("%w: %v", ErrDuplicateEnd, other)
		}
	}
	g.cells[g.index(pos)].Role = role
	g.frozen = false
	return nil
}

// ResetCell makes the cell at pos free and unvisited.
func (g *Grid) ResetCell(pos Position) error {
	if !g.Contains(pos) {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, pos)
	}
	cell := &g.cells[g.index(pos)]
	cell.Role = Free
	cell.Tag = Unvisited
	g.frozen = false
	return nil
}

// ClearTags returns every cell to Unvisited without touching roles.
func (g *Grid) ClearTags() {
	for i := range g.cells {
		g.cells[i].Tag = Unvisited
	}
}

func (g *Grid) setTag(pos Position, tag Tag) {
	g.cells[g.index(pos)].Tag = tag
}

func (g *Grid) find(role Role) (Position, bool) {
	for _, cell := range g.cells {
		if cell.Role == role {
			return cell.Position, true
		}
	}
	return Position{}, false
}

// Endpoints returns the positions of the Start and End cells.
func (g *Grid) Endpoints() (Position, Position, error) {
	start, ok := g.find(Start)
	if !ok {
		return Position{}, Position{}, ErrMissingStart
	}
	end, ok := g.find(End)
	if !ok {
		return Position{}, Position{}, ErrMissingEnd
	}
	return start, end, nil
}

// Barriers lists barrier positions in row-major order.
func (g *Grid) Barriers() []Position {
	var out []Position
	for _, cell := range g.cells {
		if cell.Role == Barrier {
			out = append(out, cell.Position)
		}
	}
	return out
}

// ComputeNeighbors derives the passable neighbors of pos from the current
// roles, in the order down, up, right, left.
func (g *Grid) ComputeNeighbors(pos Position) []Position {
	candidates := [4]Position{
		{Row: pos.Row + 1, Col: pos.Col},
		{Row: pos.Row - 1, Col: pos.Col},
		{Row: pos.Row, Col: pos.Col + 1},
		{Row: pos.Row, Col: pos.Col - 1},
	}
	out := make([]Position, 0, len(candidates))
	for _, candidate := range candidates {
		if g.Contains(candidate) && g.cells[g.index(candidate)].Role != Barrier {
			out = append(out, candidate)
		}
	}
	return out
}

// ComputeAllNeighbors snapshots the neighbor set of every cell. The snapshot
// is what searches use until the next role mutation.
func (g *Grid) ComputeAllNeighbors() {
	g.neighbors = make([][]Position, len(g.cells))
	for i, cell := range g.cells {
		g.neighbors[i] = g.ComputeNeighbors(cell.Position)
	}
	g.frozen = true
}

// Frozen reports whether the neighbor snapshot reflects the current roles.
func (g *Grid) Frozen() bool { return g.frozen }

// Neighbors returns the snapshotted neighbors of pos, or nil when the
// snapshot is missing or pos is outside the grid.
func (g *Grid) Neighbors(pos Position) []Position {
	if g.neighbors == nil || !g.Contains(pos) {
		return nil
	}
	return g.neighbors[g.index(pos)]
}
