// Package game drives a single board: manual ticks, timed playback and status
// reporting. A Session is the only owner of its grid, so a playback goroutine
// and commands arriving from a client never touch the grid at the same time.
package game

import (
	"context"
	"errors"
	"io"
	"log"
	"strconv"
	"sync"
	"time"

	"conway/internal/core"
	"conway/pkg/life"
)

// DefaultDelay is the pause between generations during playback.
const DefaultDelay = 350 * time.Millisecond

var (
	// ErrInvalidTurns is returned for a non-positive tick count.
	ErrInvalidTurns = errors.New("game: turns must be positive")
	// ErrInvalidDelay is returned for a negative playback delay.
	ErrInvalidDelay = errors.New("game: delay must not be negative")
	// ErrNoGrid is returned when a session is given a nil grid.
	ErrNoGrid = errors.New("game: nil grid")
)

// Options configures a Session.
type Options struct {
	// Delay between generations during playback. Zero plays without pausing,
	// as SetDelay(0) does.
	Delay time.Duration
	// OnFrame, if set, receives the rendered board after each playback tick.
	// It runs on the playback goroutine, outside the session lock.
	OnFrame func(frame string)
	Logger  *log.Logger
}

// Session owns one grid and serializes every access to it.
type Session struct {
	mu         sync.Mutex
	grid       *life.Grid
	generation int
	delay      time.Duration
	onFrame    func(string)
	logger     *log.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewSession wraps g. The session takes ownership: callers must not use g
// directly afterwards.
func NewSession(g *life.Grid, opts Options) (*Session, error) {
	if g == nil {
		return nil, ErrNoGrid
	}
	if opts.Delay < 0 {
		return nil, ErrInvalidDelay
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	return &Session{grid: g, delay: opts.Delay, onFrame: opts.OnFrame, logger: opts.Logger}, nil
}

// Replace swaps in a new grid and resets the generation counter. Playback, if
// running, continues on the new grid.
func (s *Session) Replace(g *life.Grid) error {
	if g == nil {
		return ErrNoGrid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid = g
	s.generation = 0
	return nil
}

// Tick advances n generations and returns the rendered result.
func (s *Session) Tick(n int) (string, error) {
	if n < 1 {
		return "", ErrInvalidTurns
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		s.grid.Tick()
	}
	s.generation += n
	return s.grid.Render(), nil
}

// Render draws the current grid.
func (s *Session) Render() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Render()
}

// Snapshot returns a copy of the current grid and its generation.
func (s *Session) Snapshot() (*life.Grid, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Clone(), s.generation
}

// Generation returns the number of generations since the grid was set.
func (s *Session) Generation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// SetDelay changes the playback interval. It takes effect from the next tick.
func (s *Session) SetDelay(d time.Duration) error {
	if d < 0 {
		return ErrInvalidDelay
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
	return nil
}

// Delay returns the playback interval.
func (s *Session) Delay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delay
}

// Playing reports whether playback is running.
func (s *Session) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Play starts playback. It reports false if playback was already running.
// Playback stops when ctx is done, on Pause, or on Close.
func (s *Session) Play(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return false
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel, s.done = cancel, done
	go s.run(ctx, done)
	s.logger.Printf("[Session] playback started (delay %s)", s.delay)
	return true
}

// Pause stops playback and waits for the playback goroutine to exit, so no
// tick happens after Pause returns. It reports false if nothing was running.
func (s *Session) Pause() bool {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return false
	}
	cancel()
	<-done
	s.logger.Printf("[Session] playback paused")
	return true
}

// TogglePlayback pauses a running session or starts a paused one. It returns
// the new playing state.
func (s *Session) TogglePlayback(ctx context.Context) bool {
	if s.Pause() {
		return false
	}
	return s.Play(ctx)
}

// Close stops playback. The session stays usable for manual ticks.
func (s *Session) Close() { s.Pause() }

func (s *Session) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		s.mu.Lock()
		delay := s.delay
		s.mu.Unlock()

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		s.mu.Lock()
		if ctx.Err() != nil {
			s.mu.Unlock()
			return
		}
		s.grid.Tick()
		s.generation++
		frame := s.grid.Render()
		s.mu.Unlock()

		if s.onFrame != nil {
			s.onFrame(frame)
		}
	}
}

// Status reports the board and playback state.
func (s *Session) Status() core.ParameterSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.ParameterSnapshot{Params: []core.Parameter{
		{Key: "width", Value: strconv.Itoa(s.grid.Width())},
		{Key: "height", Value: strconv.Itoa(s.grid.Height())},
		{Key: "backend", Value: string(s.grid.Backend())},
		{Key: "generation", Value: strconv.Itoa(s.generation)},
		{Key: "live", Value: strconv.Itoa(s.grid.LiveCount())},
		{Key: "playing", Value: strconv.FormatBool(s.cancel != nil)},
		{Key: "delay", Value: s.delay.String()},
	}}
}
