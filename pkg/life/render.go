package life

import "strings"

const (
	// AliveGlyph marks a live cell in rendered output.
	AliveGlyph = '*'
	// DeadGlyph marks a dead cell in rendered output.
	DeadGlyph = '.'
)

// Render draws the grid with AliveGlyph and DeadGlyph, one line per row.
func (g *Grid) Render() string { return g.RenderWith(AliveGlyph, DeadGlyph) }

// String implements fmt.Stringer.
func (g *Grid) String() string { return g.Render() }

// RenderWith draws the grid using custom glyphs. The output has exactly Height
// lines of Width runes with no trailing newline.
func (g *Grid) RenderWith(alive, dead rune) string {
	var b strings.Builder
	b.Grow((g.w + 1) * g.h)
	for y := 0; y < g.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < g.w; x++ {
			if g.cur.Get(Point{X: x, Y: y}) {
				b.WriteRune(alive)
			} else {
				b.WriteRune(dead)
			}
		}
	}
	return b.String()
}
