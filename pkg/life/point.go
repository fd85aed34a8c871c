package life

import "fmt"

// Point addresses a cell. X grows to the right and Y grows downward. Points are
// never out of range: the grid wraps them onto the torus on every access.
type Point struct {
	X int
	Y int
}

// P is a convenience constructor for Point.
func P(x, y int) Point { return Point{X: x, Y: y} }

// Add returns the componentwise sum of two points.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// String returns the point as "(x,y)".
func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Directions lists the offsets of the eight cells surrounding a cell.
var Directions = [8]Point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}
