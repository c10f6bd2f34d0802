// Package render draws grids to a terminal. A Renderer's Step method is a
// ready-made step callback for astar.Run.
package render

import (
	"bufio"
	"io"
	"time"

	"github.com/logrusorgru/aurora"

	astar "github.com/pdrpinto/gridastar"
)

const clearScreen = "\x1b[H\x1b[2J"

// Glyphs used for each cell state.
const (
	GlyphFree    = "."
	GlyphBarrier = "#"
	GlyphStart   = "S"
	GlyphEnd     = "E"
	GlyphOpen    = "o"
	GlyphClosed  = "x"
	GlyphPath    = "*"
)

// Renderer writes frames of a grid to out.
type Renderer struct {
	out    io.Writer
	grid   *astar.Grid
	au     aurora.Aurora
	delay  time.Duration
	clear  bool
	frames int
	err    error
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithColor toggles ANSI colors.
func WithColor(enabled bool) Option {
	return func(r *Renderer) { r.au = aurora.NewAurora(enabled) }
}

// WithDelay sleeps after every frame so a human can follow the search.
func WithDelay(delay time.Duration) Option {
	return func(r *Renderer) { r.delay = delay }
}

// WithClear moves the cursor home and clears the screen before each frame.
func WithClear(enabled bool) Option {
	return func(r *Renderer) { r.clear = enabled }
}

// New returns a renderer for grid. Colors are on by default.
func New(out io.Writer, grid *astar.Grid, opts ...Option) *Renderer {
	r := &Renderer{out: out, grid: grid, au: aurora.NewAurora(true)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Draw writes one frame. Rows are printed top to bottom, one glyph per cell.
func (r *Renderer) Draw() error {
	w := bufio.NewWriter(r.out)
	if r.clear {
		w.WriteString(clearScreen)
	}
	size := r.grid.Size()
	col := 0
	r.grid.Cells(func(c astar.Cell) {
		w.WriteString(r.glyph(c))
		col++
		if col == size {
			w.WriteByte('\n')
			col = 0
		}
	})
	if err := w.Flush(); err != nil {
		return err
	}
	r.frames++
	return nil
}

func (r *Renderer) glyph(c astar.Cell) string {
	switch c.Role {
	case astar.Barrier:
		return r.au.Blue(GlyphBarrier).String()
	case astar.Start:
		return r.au.Cyan(GlyphStart).String()
	case astar.End:
		return r.au.Cyan(GlyphEnd).String()
	}
	switch c.Tag {
	case astar.Open:
		return r.au.Green(GlyphOpen).String()
	case astar.Closed:
		return r.au.Red(GlyphClosed).String()
	case astar.Path:
		return r.au.Magenta(GlyphPath).String()
	}
	return GlyphFree
}

// Step draws a frame and waits for the configured delay. The first write
// error is kept and later frames are skipped.
func (r *Renderer) Step() {
	if r.err != nil {
		return
	}
	if err := r.Draw(); err != nil {
		r.err = err
		return
	}
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
}

// Frames is the number of frames drawn so far.
func (r *Renderer) Frames() int { return r.frames }

// Err returns the first error Step hit.
func (r *Renderer) Err() error { return r.err }
