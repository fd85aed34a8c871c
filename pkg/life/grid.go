// Package life implements Conway's Game of Life on a toroidal grid.
//
// A Grid owns two cell stores of the same size. Tick reads the current store,
// writes the next generation into the other one and then swaps them, so every
// cell of a generation is computed from the same snapshot. Coordinates wrap on
// both axes: the last column neighbors the first and the last row neighbors
// the first.
//
// A Grid is not safe for concurrent use. Drivers that tick and read from
// several goroutines must serialize access themselves.
package life

import (
	"slices"
	"strings"
)

// Grid is a double-buffered toroidal board.
type Grid struct {
	w, h    int
	backend Backend
	cur     Storage
	nxt     Storage
}

// New returns a w*h grid with every cell dead.
func New(w, h int, opts ...Option) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, &DimensionError{Width: w, Height: h, Reason: "width and height must be positive"}
	}
	o := buildOptions(opts)
	return newGrid(w, h, o.backend), nil
}

func newGrid(w, h int, backend Backend) *Grid {
	f := backends[backend]
	return &Grid{w: w, h: h, backend: backend, cur: f(w, h), nxt: f(w, h)}
}

// FromRows builds a grid from rows of cells, top row first. The width is the
// longest row and shorter rows are padded with dead cells.
func FromRows(rows [][]bool, opts ...Option) (*Grid, error) {
	derivedW := 0
	for _, row := range rows {
		derivedW = max(derivedW, len(row))
	}
	o := buildOptions(opts)
	w, h, err := o.resolve(derivedW, len(rows))
	if err != nil {
		return nil, err
	}
	g := newGrid(w, h, o.backend)
	for y, row := range rows {
		for x, alive := range row {
			if alive {
				g.cur.Set(Point{X: x, Y: y}, true)
			}
		}
	}
	return g, nil
}

// FromInts is FromRows for rows of integers, where any non-zero value is alive.
func FromInts(rows [][]int, opts ...Option) (*Grid, error) {
	cells := make([][]bool, len(rows))
	for y, row := range rows {
		cells[y] = make([]bool, len(row))
		for x, v := range row {
			cells[y][x] = v != 0
		}
	}
	return FromRows(cells, opts...)
}

// FromLiveSet builds a grid whose live cells are exactly the given points.
// Missing dimensions are one more than the largest coordinate on that axis.
func FromLiveSet(cells []Point, opts ...Option) (*Grid, error) {
	derivedW, derivedH := 0, 0
	for _, p := range cells {
		if p.X < 0 || p.Y < 0 {
			return nil, &DimensionError{Width: p.X, Height: p.Y, Reason: "live cell " + p.String() + " has a negative coordinate"}
		}
		derivedW = max(derivedW, p.X+1)
		derivedH = max(derivedH, p.Y+1)
	}
	o := buildOptions(opts)
	w, h, err := o.resolve(derivedW, derivedH)
	if err != nil {
		return nil, err
	}
	g := newGrid(w, h, o.backend)
	for _, p := range cells {
		g.cur.Set(p, true)
	}
	return g, nil
}

// FromPattern parses text where each line is a row and every rune equal to
// alive marks a live cell. Surrounding whitespace is trimmed from the text and
// from each line; any other rune is a dead cell.
func FromPattern(text string, alive rune, opts ...Option) (*Grid, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	rows := make([][]bool, len(lines))
	for y, line := range lines {
		line = strings.TrimSpace(line)
		row := make([]bool, 0, len(line))
		for _, r := range line {
			row = append(row, r == alive)
		}
		rows[y] = row
	}
	return FromRows(rows, opts...)
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.w }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.h }

// Backend reports the storage implementation in use.
func (g *Grid) Backend() Backend { return g.backend }

// Get reports whether the wrapped cell is alive.
func (g *Grid) Get(p Point) bool { return g.cur.Get(p) }

// Set writes the wrapped cell.
func (g *Grid) Set(p Point, alive bool) { g.cur.Set(p, alive) }

// CountLiveNeighbors counts live cells among the eight surrounding p. Cells on
// an edge count neighbors from the opposite edge.
func (g *Grid) CountLiveNeighbors(p Point) int {
	n := 0
	for _, d := range Directions {
		if g.cur.Get(p.Add(d)) {
			n++
		}
	}
	return n
}

// Next returns the state in the following generation of a cell that is
// currently alive or dead and has n live neighbors.
func Next(alive bool, n int) bool {
	switch {
	case alive && (n < 2 || n > 3):
		return false
	case n == 3:
		return true
	default:
		return alive
	}
}

// Tick advances the grid by one generation and returns it.
func (g *Grid) Tick() *Grid {
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			p := Point{X: x, Y: y}
			g.nxt.Set(p, Next(g.cur.Get(p), g.CountLiveNeighbors(p)))
		}
	}
	g.cur, g.nxt = g.nxt, g.cur
	return g
}

// LiveCount returns the number of live cells.
func (g *Grid) LiveCount() int { return g.cur.Len() }

// Cells returns the live cells in row-major order.
func (g *Grid) Cells() []Point {
	cells := make([]Point, 0, g.cur.Len())
	g.cur.Each(func(p Point) { cells = append(cells, p) })
	slices.SortFunc(cells, func(a, b Point) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})
	return cells
}

// Clear kills every cell.
func (g *Grid) Clear() { g.cur.Clear() }

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	c := newGrid(g.w, g.h, g.backend)
	g.cur.Each(func(p Point) { c.cur.Set(p, true) })
	return c
}

// Equal reports whether both grids have the same size and live cells. The
// storage backend is not compared.
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.w != other.w || g.h != other.h || g.cur.Len() != other.cur.Len() {
		return false
	}
	equal := true
	g.cur.Each(func(p Point) {
		if equal && !other.cur.Get(p) {
			equal = false
		}
	})
	return equal
}
