package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"conway/internal/app"
	"conway/internal/command"
	"conway/internal/game"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid flags: %v", err)
	}
	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *app.Config) error {
	builder, err := cfg.Builder()
	if err != nil {
		return err
	}
	grid, err := builder.FromSpec(cfg.Spec())
	if err != nil {
		return fmt.Errorf("initial board: %w", err)
	}

	d := command.NewDispatcher(builder)
	var rl *readline.Instance
	if cfg.REPL {
		if rl, err = app.NewLineReader(d); err != nil {
			return err
		}
		defer rl.Close()
	}

	var out io.Writer = os.Stdout
	if rl != nil {
		out = rl.Stdout()
	}
	if cfg.Out != "" {
		f, err := os.Create(cfg.Out)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	w := app.NewLockedWriter(out)

	opts := game.Options{Delay: cfg.Delay}
	if cfg.REPL {
		opts.OnFrame = func(frame string) { app.WriteFrame(w, cfg.Sep, frame) }
	}
	s, err := game.NewSession(grid, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	switch {
	case cfg.REPL:
		g.Go(func() error {
			fmt.Fprintln(w, s.Render())
			return app.RunREPL(ctx, rl, w, d, s)
		})
	case cfg.Watch:
		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		if err := screen.Init(); err != nil {
			return err
		}
		defer screen.Fini()
		g.Go(func() error {
			return app.Watch(ctx, screen, s, app.WatchOptions{Step: cfg.Delay, TPS: cfg.TPS})
		})
	default:
		g.Go(func() error {
			return app.Play(ctx, w, s, cfg.Turns, cfg.Sep)
		})
	}
	return g.Wait()
}
