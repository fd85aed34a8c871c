// Package app runs a session from the command line: timed playback to a
// writer, an interactive prompt, and a full-screen terminal viewer.
package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"conway/internal/game"
)

// LockedWriter serializes writes from the prompt and the playback goroutine.
type LockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLockedWriter wraps w.
func NewLockedWriter(w io.Writer) *LockedWriter { return &LockedWriter{w: w} }

func (l *LockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// WriteFrame writes sep on its own line followed by frame.
func WriteFrame(w io.Writer, sep, frame string) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n", sep, frame)
	return err
}

// Play writes the current board, then advances one generation per session
// delay and writes each result. turns < 0 plays until ctx is done. Play
// returns nil when ctx ends playback early.
func Play(ctx context.Context, w io.Writer, s *game.Session, turns int, sep string) error {
	if err := WriteFrame(w, sep, s.Render()); err != nil {
		return err
	}
	for i := 0; turns < 0 || i < turns; i++ {
		timer := time.NewTimer(s.Delay())
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
		frame, err := s.Tick(1)
		if err != nil {
			return err
		}
		if err := WriteFrame(w, sep, frame); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
	}
	return nil
}
