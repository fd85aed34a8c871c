// Package render paints grids onto a terminal screen.
package render

import (
	"github.com/gdamore/tcell/v2"

	"conway/pkg/life"
)

// GridPainter draws a grid onto a tcell screen, one glyph per cell.
type GridPainter struct {
	AliveRune  rune
	DeadRune   rune
	AliveStyle tcell.Style
	DeadStyle  tcell.Style
	TextStyle  tcell.Style
	// CellWidth repeats each glyph horizontally so cells look square.
	CellWidth int
}

// NewGridPainter returns a painter using the grid's text glyphs.
func NewGridPainter() *GridPainter {
	return &GridPainter{
		AliveRune:  life.AliveGlyph,
		DeadRune:   life.DeadGlyph,
		AliveStyle: tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true),
		DeadStyle:  tcell.StyleDefault.Foreground(tcell.ColorGray),
		TextStyle:  tcell.StyleDefault,
		CellWidth:  1,
	}
}

// Blit draws g at the top left of screen, clipped to the screen size. It
// returns the number of rows drawn.
func (p *GridPainter) Blit(screen tcell.Screen, g *life.Grid) int {
	cw := max(p.CellWidth, 1)
	sw, sh := screen.Size()
	rows := min(g.Height(), sh)
	for y := 0; y < rows; y++ {
		for x := 0; x < g.Width(); x++ {
			r, style := p.DeadRune, p.DeadStyle
			if g.Get(life.P(x, y)) {
				r, style = p.AliveRune, p.AliveStyle
			}
			for i := 0; i < cw; i++ {
				col := x*cw + i
				if col >= sw {
					break
				}
				screen.SetContent(col, y, r, nil, style)
			}
		}
	}
	return rows
}

// Text writes s on row y starting at column 0 and clears the rest of the row.
func (p *GridPainter) Text(screen tcell.Screen, y int, s string) {
	sw, _ := screen.Size()
	x := 0
	for _, r := range s {
		if x >= sw {
			return
		}
		screen.SetContent(x, y, r, nil, p.TextStyle)
		x++
	}
	for ; x < sw; x++ {
		screen.SetContent(x, y, ' ', nil, p.TextStyle)
	}
}
