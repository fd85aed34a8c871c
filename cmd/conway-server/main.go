package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"conway/internal/command"
	"conway/internal/core"
	"conway/internal/game"
	"conway/internal/server"
	"conway/pkg/life"
)

func main() {
	addr := flag.String("addr", server.Addr("localhost:8765"), "listen address (PORT overrides the default)")
	delay := flag.Duration("delay", game.DefaultDelay, "initial playback delay per session")
	alive := flag.String("alive", string(life.AliveGlyph), "character marking live cells in new-grid patterns")
	backend := flag.String("backend", string(life.BackendDense), "cell storage backend")
	writeTimeout := flag.Duration("write-timeout", 10*time.Second, "per-write deadline for client connections")
	size := core.Size{W: 20, H: 20}
	flag.Var(&size, "size", "board size for new-grid --random without -w/-h")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	b, err := life.ParseBackend(*backend)
	if err != nil {
		logger.Fatalf("invalid flags: %v", err)
	}
	a := []rune(*alive)
	if len(a) != 1 {
		logger.Fatalf("invalid flags: alive %q: expected a single character", *alive)
	}

	d := command.NewDispatcher(&command.Builder{Alive: a[0], Backend: b, Size: size})
	srv := server.New(d, server.Options{Delay: *delay, WriteTimeout: *writeTimeout, Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.ListenAndServe(ctx, *addr); err != nil {
		logger.Fatalf("[Server] %v", err)
	}
	logger.Printf("[Server] shut down")
}
