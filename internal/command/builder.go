package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"conway/internal/core"
	"conway/internal/patterns"
	pkgcore "conway/pkg/core"
	"conway/pkg/life"
)

// LineSep separates rows of a pattern sent on a single line.
const LineSep = "/"

// DefaultRandom is the live probability used by a bare --random.
const DefaultRandom = 0.5

var (
	// ErrFilesDisabled is returned for --file when file loading is not allowed.
	ErrFilesDisabled = errors.New("loading pattern files is disabled")
	// ErrConflictingSources is returned when more than one grid source is given.
	ErrConflictingSources = errors.New("choose only one of --random, --sample and --file")
)

// GridSpec describes how to build a grid from options.
type GridSpec struct {
	Width  int
	Height int

	Random    float64
	HasRandom bool
	Sample    string
	File      string
}

// ParseOptions turns flag-style tokens into a key/value map. Both
// "--random 0.3" and "--random=0.3" are accepted; a flag without a value maps
// to the empty string.
func ParseOptions(body string) (map[string]string, error) {
	tokens := strings.Fields(body)
	cfg := make(map[string]string, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if !isFlag(tok) {
			return nil, fmt.Errorf("unexpected argument %q", tok)
		}
		key := strings.TrimLeft(tok, "-")
		if k, v, ok := strings.Cut(key, "="); ok {
			cfg[k] = v
			continue
		}
		if i+1 < len(tokens) && !isFlag(tokens[i+1]) {
			cfg[key] = tokens[i+1]
			i++
			continue
		}
		cfg[key] = ""
	}
	return cfg, nil
}

func isFlag(tok string) bool {
	if !strings.HasPrefix(tok, "-") || len(strings.TrimLeft(tok, "-")) == 0 {
		return false
	}
	_, err := strconv.ParseFloat(tok, 64)
	return err != nil
}

// optionNames are the keys SpecFromMap understands.
var optionNames = map[string]bool{
	"w": true, "width": true,
	"h": true, "height": true,
	"random": true, "sample": true, "file": true,
}

// isOption reports whether tok names a known grid option, so a pattern row
// that merely starts with '-' is not taken for one.
func isOption(tok string) bool {
	if !isFlag(tok) {
		return false
	}
	key, _, _ := strings.Cut(strings.TrimLeft(tok, "-"), "=")
	return optionNames[key]
}

// SpecFromMap populates a GridSpec from a flag-style map.
func SpecFromMap(cfg map[string]string) (GridSpec, error) {
	var spec GridSpec
	for key, v := range cfg {
		switch key {
		case "w", "width":
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed <= 0 {
				return spec, fmt.Errorf("width %q: expected a positive integer", v)
			}
			spec.Width = parsed
		case "h", "height":
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed <= 0 {
				return spec, fmt.Errorf("height %q: expected a positive integer", v)
			}
			spec.Height = parsed
		case "random":
			spec.HasRandom = true
			spec.Random = DefaultRandom
			if v == "" {
				continue
			}
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil || parsed < 0 || parsed >= 1 {
				return spec, fmt.Errorf("random %q: expected a number in the range [0, 1)", v)
			}
			spec.Random = parsed
		case "sample":
			if v == "" {
				return spec, fmt.Errorf("sample: expected one of %v", patterns.Names())
			}
			spec.Sample = v
		case "file":
			if v == "" {
				return spec, errors.New("file: expected a path")
			}
			spec.File = v
		default:
			return spec, fmt.Errorf("unknown option %q", key)
		}
	}
	sources := 0
	for _, set := range []bool{spec.HasRandom, spec.Sample != "", spec.File != ""} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return spec, ErrConflictingSources
	}
	return spec, nil
}

// Builder constructs grids from command bodies and option specs.
type Builder struct {
	// Alive marks live cells in pattern text and files.
	Alive   rune
	Backend life.Backend
	// Size is used for random and empty grids without explicit dimensions.
	Size       core.Size
	AllowFiles bool
	// RNG seeds random grids. Nil draws a time-based seed per grid.
	RNG life.Float64Source
}

// Build creates a grid from a command body: either flag-style options or a
// pattern whose rows are separated by LineSep.
func (b *Builder) Build(body string) (*life.Grid, error) {
	body = strings.TrimSpace(body)
	if fields := strings.Fields(body); len(fields) > 0 && isOption(fields[0]) {
		cfg, err := ParseOptions(body)
		if err != nil {
			return nil, err
		}
		spec, err := SpecFromMap(cfg)
		if err != nil {
			return nil, err
		}
		return b.FromSpec(spec)
	}
	return life.FromPattern(strings.ReplaceAll(body, LineSep, "\n"), b.alive(), life.WithBackend(b.Backend))
}

// FromSpec creates a grid from a GridSpec.
func (b *Builder) FromSpec(spec GridSpec) (*life.Grid, error) {
	opts := []life.Option{life.WithBackend(b.Backend)}
	if spec.Width > 0 {
		opts = append(opts, life.WithWidth(spec.Width))
	}
	if spec.Height > 0 {
		opts = append(opts, life.WithHeight(spec.Height))
	}

	switch {
	case spec.Sample != "":
		text, err := patterns.Sample(spec.Sample)
		if err != nil {
			return nil, err
		}
		return life.FromPattern(text, patterns.Alive, opts...)
	case spec.File != "":
		if !b.AllowFiles {
			return nil, ErrFilesDisabled
		}
		text, err := patterns.Load(spec.File)
		if err != nil {
			return nil, err
		}
		return life.FromPattern(text, b.alive(), opts...)
	}

	w, h := spec.Width, spec.Height
	if w == 0 {
		w = b.Size.W
	}
	if h == 0 {
		h = b.Size.H
	}
	g, err := life.New(w, h, life.WithBackend(b.Backend))
	if err != nil {
		return nil, err
	}
	if spec.HasRandom {
		if err := g.Randomize(spec.Random, b.rng()); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (b *Builder) alive() rune {
	if b.Alive == 0 {
		return life.AliveGlyph
	}
	return b.Alive
}

func (b *Builder) rng() life.Float64Source {
	if b.RNG != nil {
		return b.RNG
	}
	return pkgcore.NewRNG(time.Now().UnixNano())
}
