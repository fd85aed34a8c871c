package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"conway/internal/core"
	"conway/internal/game"
	"conway/internal/render"
)

// WatchOptions configures the terminal viewer.
type WatchOptions struct {
	// Step is the time between generations while running.
	Step time.Duration
	// TPS is how often the viewer polls its timer and redraws.
	TPS     int
	Paused  bool
	Painter *render.GridPainter
}

const watchKeys = "[space] pause  [n] step  [+/-] speed  [r] reset  [q] quit"

// Watch shows s full-screen until q, Esc or Ctrl-C is pressed or ctx is
// done. The caller owns screen and must have initialized it.
func Watch(ctx context.Context, screen tcell.Screen, s *game.Session, opts WatchOptions) error {
	painter := opts.Painter
	if painter == nil {
		painter = render.NewGridPainter()
	}
	tps := max(opts.TPS, 1)
	step := core.NewFixedStep(opts.Step)
	paused := opts.Paused
	initial, _ := s.Snapshot()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()

	draw := func() {
		g, gen := s.Snapshot()
		screen.Clear()
		rows := painter.Blit(screen, g)
		state := "running"
		if paused {
			state = "paused"
		}
		painter.Text(screen, rows, fmt.Sprintf("gen %d  live %d  %s  every %s  %s", gen, g.LiveCount(), state, step.Step(), watchKeys))
		screen.Show()
	}
	draw()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
					return nil
				case ev.Rune() == ' ':
					paused = !paused
					step.Reset()
				case ev.Rune() == 'n':
					if _, err := s.Tick(1); err != nil {
						return err
					}
				case ev.Rune() == '+':
					step.SetStep(step.Step() / 2)
				case ev.Rune() == '-':
					step.SetStep(max(step.Step()*2, time.Millisecond))
				case ev.Rune() == 'r':
					if err := s.Replace(initial.Clone()); err != nil {
						return err
					}
				}
			}
			draw()
		case now := <-ticker.C:
			if paused || !step.ShouldStep(now) {
				continue
			}
			if _, err := s.Tick(1); err != nil {
				return err
			}
			draw()
		}
	}
}
