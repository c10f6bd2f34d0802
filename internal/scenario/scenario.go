// Package scenario loads grid set-ups from HCL files and turns them into
// ready-to-search grids.
//
// A scenario file looks like:
//
//	size  = 20
//	width = 800
//	start = [0, 0]
//	end   = [size - 1, size - 1]
//	barriers = [[1, 1], [1, 2]]
//
//	wall {
//	  from = [5, 0]
//	  to   = [5, 10]
//	}
//
//	random {
//	  density = 0.3
//	  seed    = 42
//	}
//
// Every expression except size may refer to size.
package scenario

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"go.uber.org/zap"

	astar "github.com/pdrpinto/gridastar"
)

const (
	// DefaultWidth is the pixel width used when a file does not set one.
	DefaultWidth = 800
	// DefaultDensity is the barrier probability of an empty random block.
	DefaultDensity = 0.3
	// MaxSize is the largest accepted grid side.
	MaxSize = 512
)

// ErrInvalidScenario marks semantic problems in an otherwise parseable file.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is a decoded, validated grid set-up.
type Scenario struct {
	Size     int
	Width    int
	Start    astar.Position
	End      astar.Position
	Barriers []astar.Position
	Walls    []Wall
	Random   *Random
}

// Wall is a straight run of barriers between two cells, inclusive.
type Wall struct {
	From astar.Position
	To   astar.Position
}

// Random scatters barriers over free cells.
type Random struct {
	Density float64
	Seed    int64
}

type sizeRoot struct {
	Size   int      `hcl:"size"`
	Remain hcl.Body `hcl:",remain"`
}

type fileRoot struct {
	Width    *int         `hcl:"width,optional"`
	Start    []int        `hcl:"start"`
	End      []int        `hcl:"end"`
	Barriers [][]int      `hcl:"barriers,optional"`
	Walls    []*wallBlock `hcl:"wall,block"`
	Random   *randomBlock `hcl:"random,block"`
}

type wallBlock struct {
	From []int `hcl:"from"`
	To   []int `hcl:"to"`
}

type randomBlock struct {
	Density *float64 `hcl:"density,optional"`
	Seed    *int64   `hcl:"seed,optional"`
}

// Loader reads scenario files.
type Loader struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewLoader creates a loader. A nil logger disables logging.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger, now: time.Now}
}

// LoadFile parses the scenario at path.
func (l *Loader) LoadFile(path string) (*Scenario, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	return l.Parse(src, path)
}

// Parse decodes HCL source. filename is used only in diagnostics.
func (l *Loader) Parse(src []byte, filename string) (*Scenario, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", filename, diags)
	}

	// size is decoded first so the rest of the file can use it.
	var sizePart sizeRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &sizePart); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode scenario %s: %w", filename, diags)
	}
	if err := checkSize(sizePart.Size); err != nil {
		return nil, err
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"size": cty.NumberIntVal(int64(sizePart.Size)),
		},
	}
	var root fileRoot
	if diags := gohcl.DecodeBody(sizePart.Remain, evalCtx, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode scenario %s: %w", filename, diags)
	}

	sc, err := l.translate(sizePart.Size, &root)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	l.logger.Debug("scenario loaded",
		zap.String("file", filename),
		zap.Int("size", sc.Size),
		zap.Int("barriers", len(sc.Barriers)),
		zap.Int("walls", len(sc.Walls)),
		zap.Bool("random", sc.Random != nil))
	return sc, nil
}

func (l *Loader) translate(size int, root *fileRoot) (*Scenario, error) {
	sc := &Scenario{Size: size, Width: DefaultWidth}
	if root.Width != nil {
		if *root.Width <= 0 {
			return nil, fmt.Errorf("%w: width must be positive, got %d", ErrInvalidScenario, *root.Width)
		}
		sc.Width = *root.Width
	}

	var err error
	if sc.Start, err = toPosition("start", root.Start); err != nil {
		return nil, err
	}
	if sc.End, err = toPosition("end", root.End); err != nil {
		return nil, err
	}
	if sc.Start == sc.End {
		return nil, fmt.Errorf("%w: start and end are both %v", ErrInvalidScenario, sc.Start)
	}
	for i, raw := range root.Barriers {
		p, err := toPosition(fmt.Sprintf("barriers[%d]", i), raw)
		if err != nil {
			return nil, err
		}
		sc.Barriers = append(sc.Barriers, p)
	}
	for i, block := range root.Walls {
		from, err := toPosition(fmt.Sprintf("wall[%d].from", i), block.From)
		if err != nil {
			return nil, err
		}
		to, err := toPosition(fmt.Sprintf("wall[%d].to", i), block.To)
		if err != nil {
			return nil, err
		}
		if from.Row != to.Row && from.Col != to.Col {
			return nil, fmt.Errorf("%w: wall[%d] from %v to %v is not straight", ErrInvalidScenario, i, from, to)
		}
		sc.Walls = append(sc.Walls, Wall{From: from, To: to})
	}
	if root.Random != nil {
		random := &Random{Density: DefaultDensity, Seed: l.now().UnixNano()}
		if root.Random.Density != nil {
			random.Density = *root.Random.Density
		}
		if random.Density < 0 || random.Density > 1 {
			return nil, fmt.Errorf("%w: random density %v outside [0,1]", ErrInvalidScenario, random.Density)
		}
		if root.Random.Seed != nil {
			random.Seed = *root.Random.Seed
		}
		sc.Random = random
	}
	return sc, nil
}

func checkSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidScenario, size)
	}
	if size > MaxSize {
		return fmt.Errorf("%w: size %d exceeds the maximum of %d", ErrInvalidScenario, size, MaxSize)
	}
	return nil
}

func toPosition(name string, raw []int) (astar.Position, error) {
	if len(raw) != 2 {
		return astar.Position{}, fmt.Errorf("%w: %s must be [row, col], got %d values", ErrInvalidScenario, name, len(raw))
	}
	return astar.Position{Row: raw[0], Col: raw[1]}, nil
}

// Cells expands the wall into the positions it covers.
func (w Wall) Cells() []astar.Position {
	stepRow, stepCol := sign(w.To.Row-w.From.Row), sign(w.To.Col-w.From.Col)
	cells := []astar.Position{w.From}
	for cur := w.From; cur != w.To; {
		cur = astar.Position{Row: cur.Row + stepRow, Col: cur.Col + stepCol}
		cells = append(cells, cur)
	}
	return cells
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Build creates the grid, places barriers, start and end, and freezes the
// neighbor sets. Explicit barriers or walls on an endpoint are rejected;
// random barriers avoid the endpoints.
func (sc *Scenario) Build() (*astar.Grid, error) {
	if err := checkSize(sc.Size); err != nil {
		return nil, err
	}
	grid, err := astar.NewGrid(sc.Size, sc.Width)
	if err != nil {
		return nil, err
	}
	if err := grid.SetRole(sc.Start, astar.Start); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	if err := grid.SetRole(sc.End, astar.End); err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}

	for i, p := range sc.Barriers {
		if err := sc.placeBarrier(grid, p); err != nil {
			return nil, fmt.Errorf("barriers[%d]: %w", i, err)
		}
	}
	for i, wall := range sc.Walls {
		for _, p := range wall.Cells() {
			if err := sc.placeBarrier(grid, p); err != nil {
				return nil, fmt.Errorf("wall[%d]: %w", i, err)
			}
		}
	}
	if sc.Random != nil {
		rng := rand.New(rand.NewSource(sc.Random.Seed))
		RandomBarriers(grid, rng, sc.Random.Density)
	}

	grid.ComputeAllNeighbors()
	return grid, nil
}

func (sc *Scenario) placeBarrier(grid *astar.Grid, p astar.Position) error {
	if p == sc.Start || p == sc.End {
		return fmt.Errorf("%w: %v", astar.ErrEndpointOnBarrier, p)
	}
	return grid.SetRole(p, astar.Barrier)
}

// RandomBarriers turns each free cell into a barrier with probability
// density. Start and End cells are never touched. It returns the number of
// barriers placed; the caller must recompute neighbors afterwards.
func RandomBarriers(grid *astar.Grid, rng *rand.Rand, density float64) int {
	var picked []astar.Position
	grid.Cells(func(c astar.Cell) {
		if rng.Float64() < density && c.Role == astar.Free {
			picked = append(picked, c.Position)
		}
	})
	for _, p := range picked {
		// Positions come from the grid itself, so SetRole cannot fail.
		_ = grid.SetRole(p, astar.Barrier)
	}
	return len(picked)
}
