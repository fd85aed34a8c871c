package life

import (
	"fmt"
	"sort"
)

// Wrap maps any index onto [0, n) by modular wrapping. n must be positive.
func Wrap(i, n int) int {
	return (i%n + n) % n
}

// Storage is a fixed-size toroidal cell store. Every access wraps, so any
// integer coordinate is valid.
type Storage interface {
	Size() (w, h int)
	Get(p Point) bool
	Set(p Point, alive bool)
	// Len reports the number of live cells.
	Len() int
	// Each calls fn for every live cell, in no particular order.
	Each(fn func(p Point))
	Clear()
}

// Backend names a Storage implementation.
type Backend string

const (
	// BackendDense stores every cell in a flat row-major slice.
	BackendDense Backend = "dense"
	// BackendSparse stores only the coordinates of live cells.
	BackendSparse Backend = "sparse"
)

// StorageFactory allocates an empty store for a w*h board.
type StorageFactory func(w, h int) Storage

var backends = map[Backend]StorageFactory{}

func init() {
	RegisterBackend(BackendDense, func(w, h int) Storage { return NewDense(w, h) })
	RegisterBackend(BackendSparse, func(w, h int) Storage { return NewSparse(w, h) })
}

// RegisterBackend adds a storage implementation under the provided name.
func RegisterBackend(name Backend, f StorageFactory) {
	if name == "" || f == nil {
		return
	}
	backends[name] = f
}

// Backends lists the registered backend names in sorted order.
func Backends() []Backend {
	names := make([]Backend, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// ParseBackend resolves a backend name. The empty string selects the dense backend.
func ParseBackend(s string) (Backend, error) {
	if s == "" {
		return BackendDense, nil
	}
	b := Backend(s)
	if _, ok := backends[b]; !ok {
		return "", fmt.Errorf("life: unknown backend %q", s)
	}
	return b, nil
}

// Dense stores cells in row-major order.
type Dense struct {
	w, h  int
	cells []bool
}

// NewDense allocates a dense store with all cells dead.
func NewDense(w, h int) *Dense {
	return &Dense{w: w, h: h, cells: make([]bool, w*h)}
}

func (d *Dense) index(p Point) int {
	return Wrap(p.Y, d.h)*d.w + Wrap(p.X, d.w)
}

// Size returns the store dimensions.
func (d *Dense) Size() (int, int) { return d.w, d.h }

// Get reports whether the wrapped cell is alive.
func (d *Dense) Get(p Point) bool { return d.cells[d.index(p)] }

// Set writes the wrapped cell.
func (d *Dense) Set(p Point, alive bool) { d.cells[d.index(p)] = alive }

// Len counts live cells.
func (d *Dense) Len() int {
	n := 0
	for _, c := range d.cells {
		if c {
			n++
		}
	}
	return n
}

// Each visits live cells in row-major order.
func (d *Dense) Each(fn func(p Point)) {
	for i, c := range d.cells {
		if c {
			fn(Point{X: i % d.w, Y: i / d.w})
		}
	}
}

// Clear kills every cell.
func (d *Dense) Clear() {
	for i := range d.cells {
		d.cells[i] = false
	}
}

// Sparse stores the wrapped coordinates of live cells. Absence means dead.
type Sparse struct {
	w, h int
	live map[Point]struct{}
}

// NewSparse allocates an empty sparse store.
func NewSparse(w, h int) *Sparse {
	return &Sparse{w: w, h: h, live: make(map[Point]struct{})}
}

func (s *Sparse) wrap(p Point) Point {
	return Point{X: Wrap(p.X, s.w), Y: Wrap(p.Y, s.h)}
}

// Size returns the store dimensions.
func (s *Sparse) Size() (int, int) { return s.w, s.h }

// Get reports whether the wrapped cell is alive.
func (s *Sparse) Get(p Point) bool {
	_, ok := s.live[s.wrap(p)]
	return ok
}

// Set inserts or removes the wrapped cell.
func (s *Sparse) Set(p Point, alive bool) {
	if alive {
		s.live[s.wrap(p)] = struct{}{}
		return
	}
	delete(s.live, s.wrap(p))
}

// Len returns the number of live cells.
func (s *Sparse) Len() int { return len(s.live) }

// Each visits live cells in map order.
func (s *Sparse) Each(fn func(p Point)) {
	for p := range s.live {
		fn(p)
	}
}

// Clear kills every cell.
func (s *Sparse) Clear() { clear(s.live) }
