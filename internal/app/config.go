package app

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"conway/internal/command"
	"conway/internal/core"
	pkgcore "conway/pkg/core"
	"conway/pkg/life"
)

// DefaultSize is used for random and empty boards when no size is given.
var DefaultSize = core.Size{W: 20, H: 20}

// Config represents the command-line parameters for the application.
type Config struct {
	Size      core.Size
	Random    float64
	HasRandom bool
	Sample    string
	File      string
	Alive     string
	Turns     int
	Delay     time.Duration
	Sep       string
	Out       string
	Seed      int64
	Backend   string
	REPL      bool
	Watch     bool
	TPS       int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Alive:   string(life.AliveGlyph),
		Turns:   -1,
		Delay:   100 * time.Millisecond,
		Sep:     "%",
		Backend: string(life.BackendDense),
		TPS:     30,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Size.W, "width", c.Size.W, "board width (default: derived from the pattern, or 20)")
	fs.IntVar(&c.Size.H, "height", c.Size.H, "board height (default: derived from the pattern, or 20)")
	fs.Var(&c.Size, "size", "board size as WIDTHxHEIGHT")
	fs.Func("random", "fill the board at random with density K in [0,1)", func(v string) error {
		k, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		c.Random, c.HasRandom = k, true
		return nil
	})
	fs.StringVar(&c.Sample, "sample", c.Sample, "start from a built-in sample pattern")
	fs.StringVar(&c.File, "file", c.File, "start from a pattern file")
	fs.StringVar(&c.Alive, "alive", c.Alive, "character marking live cells in pattern files")
	fs.IntVar(&c.Turns, "turns", c.Turns, "number of generations to play (-1 plays forever)")
	fs.DurationVar(&c.Delay, "delay", c.Delay, "delay between generations")
	fs.StringVar(&c.Sep, "sep", c.Sep, "separator line printed before each frame")
	fs.StringVar(&c.Out, "out", c.Out, "write frames to this file instead of stdout")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for random boards (0 picks one from the clock)")
	fs.StringVar(&c.Backend, "backend", c.Backend, fmt.Sprintf("cell storage backend %v", life.Backends()))
	fs.BoolVar(&c.REPL, "repl", c.REPL, "start an interactive command prompt")
	fs.BoolVar(&c.Watch, "watch", c.Watch, "show the board in a full-screen terminal viewer")
	fs.IntVar(&c.TPS, "tps", c.TPS, "viewer redraws per second")
}

// Validate checks the values that flag parsing cannot.
func (c *Config) Validate() error {
	if c.Size.W < 0 || c.Size.H < 0 {
		return fmt.Errorf("size %s: dimensions must not be negative", c.Size)
	}
	if c.Turns < -1 {
		return fmt.Errorf("turns %d: expected -1 or a non-negative count", c.Turns)
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay %s: must not be negative", c.Delay)
	}
	if utf8.RuneCountInString(c.Alive) != 1 {
		return fmt.Errorf("alive %q: expected a single character", c.Alive)
	}
	if c.TPS <= 0 {
		return fmt.Errorf("tps %d: must be positive", c.TPS)
	}
	sources := 0
	for _, set := range []bool{c.HasRandom, c.Sample != "", c.File != ""} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return command.ErrConflictingSources
	}
	if c.REPL && c.Watch {
		return errors.New("-repl and -watch are mutually exclusive")
	}
	if _, err := life.ParseBackend(c.Backend); err != nil {
		return err
	}
	return nil
}

// Builder returns a grid builder configured from c. Files are allowed.
func (c *Config) Builder() (*command.Builder, error) {
	backend, err := life.ParseBackend(c.Backend)
	if err != nil {
		return nil, err
	}
	alive, _ := utf8.DecodeRuneInString(c.Alive)
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	size := DefaultSize
	if c.Size.W > 0 {
		size.W = c.Size.W
	}
	if c.Size.H > 0 {
		size.H = c.Size.H
	}
	return &command.Builder{
		Alive:      alive,
		Backend:    backend,
		Size:       size,
		AllowFiles: true,
		RNG:        pkgcore.NewRNG(seed),
	}, nil
}

// Spec describes the initial board. Without a sample or file the board is
// random, at command.DefaultRandom unless -random is given.
func (c *Config) Spec() command.GridSpec {
	spec := command.GridSpec{
		Width:  c.Size.W,
		Height: c.Size.H,
		Sample: c.Sample,
		File:   c.File,
	}
	switch {
	case c.HasRandom:
		spec.Random, spec.HasRandom = c.Random, true
	case c.Sample == "" && c.File == "":
		spec.Random, spec.HasRandom = command.DefaultRandom, true
	}
	return spec
}

// Grid builds the initial board.
func (c *Config) Grid() (*life.Grid, error) {
	b, err := c.Builder()
	if err != nil {
		return nil, err
	}
	return b.FromSpec(c.Spec())
}
