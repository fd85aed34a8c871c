package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"conway/internal/game"
)

// Command names understood by the default dispatcher.
const (
	NewGrid        = "new-grid"
	SetGrid        = "set-grid"
	TogglePlayback = "toggle-playback"
	Play           = "play"
	Pause          = "pause"
	SetDelay       = "set-delay"
	Tick           = "tick"
	Show           = "show"
	Status         = "status"
	Help           = "help"
	Quit           = "quit"
	Exit           = "exit"
)

// Handler runs one command against a session and returns the reply text.
type Handler func(ctx context.Context, d *Dispatcher, s *game.Session, name, body string) (string, error)

type entry struct {
	handler Handler
	usage   string
}

// Dispatcher maps command names to handlers.
type Dispatcher struct {
	builder  *Builder
	handlers map[string]entry
}

// NewDispatcher returns a dispatcher with the standard command set.
func NewDispatcher(b *Builder) *Dispatcher {
	if b == nil {
		b = &Builder{}
	}
	d := &Dispatcher{builder: b, handlers: map[string]entry{}}
	d.Register(NewGrid, "new-grid PATTERN|OPTIONS  replace the grid (rows separated by `/`, or --random [K] -w W -h H, --sample NAME, --file PATH)", setGrid)
	d.Register(SetGrid, "set-grid PATTERN|OPTIONS  alias of new-grid", setGrid)
	d.Register(TogglePlayback, "toggle-playback  start or pause automatic playback", togglePlayback)
	d.Register(Play, "play  start automatic playback", play)
	d.Register(Pause, "pause  stop automatic playback", pause)
	d.Register(SetDelay, "set-delay SECONDS  set the delay between generations", setDelay)
	d.Register(Tick, "tick [TURNS]  advance one or more generations", tick)
	d.Register(Show, "show  print the grid", show)
	d.Register(Status, "status  print grid and playback state", status)
	d.Register(Help, "help  list commands", help)
	d.Register(Quit, "quit  end the session", quit)
	d.Register(Exit, "exit  end the session", quit)
	return d
}

// Register adds or replaces a command handler.
func (d *Dispatcher) Register(name, usage string, h Handler) {
	if name == "" || h == nil {
		return
	}
	d.handlers[name] = entry{handler: h, usage: usage}
}

// Builder returns the grid builder used by new-grid and set-grid.
func (d *Dispatcher) Builder() *Builder { return d.builder }

// Names lists the registered commands in sorted order.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Usage returns one usage line per command.
func (d *Dispatcher) Usage() string {
	lines := make([]string, 0, len(d.handlers))
	for _, name := range d.Names() {
		lines = append(lines, d.handlers[name].usage)
	}
	return strings.Join(lines, "\n")
}

// Dispatch runs a parsed message. Client errors are *Error values; the quit
// command returns ErrQuit.
func (d *Dispatcher) Dispatch(ctx context.Context, s *game.Session, msg Message) (string, error) {
	e, ok := d.handlers[msg.Name]
	if !ok {
		return "", invalidCommand(msg.Name)
	}
	return e.handler(ctx, d, s, msg.Name, msg.Body)
}

// Execute parses and runs a single line.
func (d *Dispatcher) Execute(ctx context.Context, s *game.Session, line string) (string, error) {
	msg, err := Parse(line)
	if err != nil {
		return "", err
	}
	return d.Dispatch(ctx, s, msg)
}

func setGrid(_ context.Context, d *Dispatcher, s *game.Session, name, body string) (string, error) {
	if body == "" {
		return "", missingValue(name)
	}
	g, err := d.builder.Build(body)
	if err != nil {
		return "", invalidValueErr(name, err)
	}
	if err := s.Replace(g); err != nil {
		return "", err
	}
	return s.Render(), nil
}

func togglePlayback(ctx context.Context, _ *Dispatcher, s *game.Session, _, _ string) (string, error) {
	s.TogglePlayback(ctx)
	return s.Render(), nil
}

func play(ctx context.Context, _ *Dispatcher, s *game.Session, _, _ string) (string, error) {
	s.Play(ctx)
	return s.Render(), nil
}

func pause(_ context.Context, _ *Dispatcher, s *game.Session, _, _ string) (string, error) {
	s.Pause()
	return s.Render(), nil
}

func setDelay(_ context.Context, _ *Dispatcher, s *game.Session, name, body string) (string, error) {
	if body == "" {
		return "", missingValue(name)
	}
	delay, err := ParseDelay(body)
	if err != nil {
		return "", invalidValue(name, "a non-negative number of seconds")
	}
	if err := s.SetDelay(delay); err != nil {
		return "", invalidValue(name, "a non-negative number of seconds")
	}
	return s.Render(), nil
}

// ParseDelay accepts a number of seconds ("0.35") or a Go duration ("350ms").
func ParseDelay(v string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		if secs < 0 {
			return 0, game.ErrInvalidDelay
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("delay %q: %w", v, err)
	}
	if d < 0 {
		return 0, game.ErrInvalidDelay
	}
	return d, nil
}

func tick(_ context.Context, _ *Dispatcher, s *game.Session, name, body string) (string, error) {
	n := 1
	if body != "" {
		parsed, err := strconv.Atoi(body)
		if err != nil || parsed < 1 {
			return "", invalidValue(name, "a positive integer")
		}
		n = parsed
	}
	frame, err := s.Tick(n)
	if errors.Is(err, game.ErrInvalidTurns) {
		return "", invalidValue(name, "a positive integer")
	}
	return frame, err
}

func show(_ context.Context, _ *Dispatcher, s *game.Session, _, _ string) (string, error) {
	return s.Render(), nil
}

func status(_ context.Context, _ *Dispatcher, s *game.Session, _, _ string) (string, error) {
	return s.Status().String(), nil
}

func help(_ context.Context, d *Dispatcher, _ *game.Session, _, _ string) (string, error) {
	return d.Usage(), nil
}

func quit(context.Context, *Dispatcher, *game.Session, string, string) (string, error) {
	return "", ErrQuit
}
