package command

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"conway/internal/core"
	"conway/internal/game"
	pkgcore "conway/pkg/core"
	"conway/pkg/life"
)

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		line string
		want Message
	}{
		{"tick", Message{Name: "tick"}},
		{"  tick   3  ", Message{Name: "tick", Body: "3"}},
		{"new-grid .*./.*.", Message{Name: "new-grid", Body: ".*./.*."}},
		{"set_delay\t0.5", Message{Name: "set_delay", Body: "0.5"}},
	} {
		got, err := Parse(tc.line)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.line, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q)=%+v, expected %+v", tc.line, got, tc.want)
		}
	}

	for _, bad := range []string{"", "   ", "3tick", "-w 3", "!"} {
		if _, err := Parse(bad); !errors.Is(err, ErrSyntax) {
			t.Fatalf("Parse(%q) err=%v, expected ErrSyntax", bad, err)
		}
	}
}

func TestErrorText(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want string
	}{
		{ErrSyntax, "error: invalid syntax: could not parse message"},
		{invalidCommand("fly"), "error: invalid command `fly`"},
		{missingValue("set-delay"), "error: missing value for `set-delay`"},
		{invalidValue("tick", "a positive integer"), "error: invalid value for `tick`: expected a positive integer"},
		{SetupIncomplete(), "error: setup incomplete: client must send `new-grid` to initialize the game grid"},
	} {
		if got := Reply(tc.err); got != tc.want {
			t.Fatalf("Reply=%q, expected %q", got, tc.want)
		}
	}
}

func TestParseOptions(t *testing.T) {
	cfg, err := ParseOptions("--random -w 4 --height=3")
	if err != nil {
		t.Fatal(err)
	}
	if cfg["random"] != "" || cfg["w"] != "4" || cfg["height"] != "3" {
		t.Fatalf("unexpected options %v", cfg)
	}
	if _, ok := cfg["random"]; !ok {
		t.Fatal("bare --random should be recorded")
	}

	if _, err := ParseOptions("-w 4 stray"); err == nil {
		t.Fatal("expected an error for a positional argument")
	}
}

func TestSpecFromMap(t *testing.T) {
	spec, err := SpecFromMap(map[string]string{"random": "", "w": "8", "h": "6"})
	if err != nil {
		t.Fatal(err)
	}
	if !spec.HasRandom || spec.Random != DefaultRandom || spec.Width != 8 || spec.Height != 6 {
		t.Fatalf("unexpected spec %+v", spec)
	}

	for _, bad := range []map[string]string{
		{"random": "1"},
		{"random": "-0.5"},
		{"w": "0"},
		{"h": "tall"},
		{"sample": ""},
		{"speed": "3"},
		{"random": "0.2", "sample": "glider"},
	} {
		if _, err := SpecFromMap(bad); err == nil {
			t.Fatalf("expected %v to be rejected", bad)
		}
	}
}

func newSession(t *testing.T, pattern string) *game.Session {
	t.Helper()
	g, err := life.FromPattern(pattern, '*')
	if err != nil {
		t.Fatal(err)
	}
	s, err := game.NewSession(g, game.Options{Delay: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	return s
}

func newDispatcher() *Dispatcher {
	return NewDispatcher(&Builder{
		Alive:   '*',
		Backend: life.BackendSparse,
		Size:    core.Size{W: 6, H: 4},
		RNG:     pkgcore.NewRNG(1),
	})
}

func TestDispatchTick(t *testing.T) {
	d := newDispatcher()
	s := newSession(t, ".....\n..*..\n..*..\n..*..\n.....")
	ctx := context.Background()

	got, err := d.Execute(ctx, s, "tick")
	if err != nil {
		t.Fatal(err)
	}
	if want := ".....\n.....\n.***.\n.....\n....."; got != want {
		t.Fatalf("tick reply=%q, expected %q", got, want)
	}
	if _, err := d.Execute(ctx, s, "tick 3"); err != nil {
		t.Fatal(err)
	}
	if s.Generation() != 4 {
		t.Fatalf("generation=%d, expected 4", s.Generation())
	}

	for _, bad := range []string{"tick 0", "tick -2", "tick many"} {
		_, err := d.Execute(ctx, s, bad)
		var cmdErr *Error
		if !errors.As(err, &cmdErr) || cmdErr.Kind != KindInvalidValue {
			t.Fatalf("%q err=%v, expected an invalid value error", bad, err)
		}
	}
}

func TestDispatchSetGrid(t *testing.T) {
	d := newDispatcher()
	s := newSession(t, "*")
	ctx := context.Background()

	got, err := d.Execute(ctx, s, "new-grid .*./..*/***")
	if err != nil {
		t.Fatal(err)
	}
	if want := ".*.\n..*\n***"; got != want {
		t.Fatalf("reply=%q, expected %q", got, want)
	}

	if _, err := d.Execute(ctx, s, "set-grid --random 0.4 -w 5 -h 3"); err != nil {
		t.Fatal(err)
	}
	g, _ := s.Snapshot()
	if g.Width() != 5 || g.Height() != 3 || g.Backend() != life.BackendSparse {
		t.Fatalf("random grid is %dx%d (%s), expected 5x3 sparse", g.Width(), g.Height(), g.Backend())
	}

	if _, err := d.Execute(ctx, s, "set-grid --random"); err != nil {
		t.Fatal(err)
	}
	g, _ = s.Snapshot()
	if g.Width() != 6 || g.Height() != 4 {
		t.Fatalf("default size is %dx%d, expected 6x4", g.Width(), g.Height())
	}

	if _, err := d.Execute(ctx, s, "set-grid --sample glider -w 12"); err != nil {
		t.Fatal(err)
	}
	g, _ = s.Snapshot()
	if g.Width() != 12 || g.LiveCount() != 5 {
		t.Fatalf("glider sample is %dx%d with %d live cells", g.Width(), g.Height(), g.LiveCount())
	}

	for _, tc := range []struct {
		line string
		kind ErrorKind
	}{
		{"set-grid", KindMissingValue},
		{"set-grid --sample nope", KindInvalidValue},
		{"set-grid --file pattern.txt", KindInvalidValue},
		{"set-grid -w 3 -h 0", KindInvalidValue},
		{"new-grid /", KindInvalidValue},
	} {
		_, err := d.Execute(ctx, s, tc.line)
		var cmdErr *Error
		if !errors.As(err, &cmdErr) || cmdErr.Kind != tc.kind {
			t.Fatalf("%q err=%v, expected kind %d", tc.line, err, tc.kind)
		}
	}

	_, err = d.Execute(ctx, s, "set-grid --file pattern.txt")
	if !errors.Is(err, ErrFilesDisabled) {
		t.Fatalf("err=%v, expected ErrFilesDisabled", err)
	}
	_, err = d.Execute(ctx, s, "new-grid /")
	if !errors.Is(err, life.ErrDimension) {
		t.Fatalf("err=%v, expected ErrDimension", err)
	}
}

func TestBuildPatternStartingWithDash(t *testing.T) {
	b := &Builder{Alive: '*'}
	for body, want := range map[string]string{
		"-*-/-*-/-*-": ".*.\n.*.\n.*.",
		"-.-/.*./...": "...\n.*.\n...",
		"..*/-*-":     "..*\n.*.",
		"-1-/*--":     "...\n*..",
	} {
		g, err := b.Build(body)
		if err != nil {
			t.Fatalf("Build(%q) err=%v", body, err)
		}
		if got := g.Render(); got != want {
			t.Fatalf("Build(%q)=%q, expected %q", body, got, want)
		}
	}

	g, err := b.Build("--width=4 -h 2")
	if err != nil {
		t.Fatal(err)
	}
	if g.Width() != 4 || g.Height() != 2 {
		t.Fatalf("options body built %dx%d, expected 4x2", g.Width(), g.Height())
	}
}

func TestDispatchSetGridFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "block.txt")
	if err := os.WriteFile(path, []byte("##\n##"), 0o644); err != nil {
		t.Fatal(err)
	}
	d := NewDispatcher(&Builder{Alive: '#', AllowFiles: true})
	s := newSession(t, "*")

	got, err := d.Execute(context.Background(), s, "set-grid --file "+path+" -w 4 -h 4")
	if err != nil {
		t.Fatal(err)
	}
	if want := "**..\n**..\n....\n...."; got != want {
		t.Fatalf("reply=%q, expected %q", got, want)
	}
}

func TestDispatchSetDelay(t *testing.T) {
	d := newDispatcher()
	s := newSession(t, "*")
	ctx := context.Background()

	if _, err := d.Execute(ctx, s, "set-delay 0.25"); err != nil {
		t.Fatal(err)
	}
	if s.Delay() != 250*time.Millisecond {
		t.Fatalf("delay=%s, expected 250ms", s.Delay())
	}
	if _, err := d.Execute(ctx, s, "set-delay 40ms"); err != nil {
		t.Fatal(err)
	}
	if s.Delay() != 40*time.Millisecond {
		t.Fatalf("delay=%s, expected 40ms", s.Delay())
	}

	_, err := d.Execute(ctx, s, "set-delay")
	if got := Reply(err); got != "error: missing value for `set-delay`" {
		t.Fatalf("reply=%q", got)
	}
	for _, bad := range []string{"set-delay soon", "set-delay -1"} {
		_, err := d.Execute(ctx, s, bad)
		if got := Reply(err); got != "error: invalid value for `set-delay`: expected a non-negative number of seconds" {
			t.Fatalf("%q reply=%q", bad, got)
		}
	}
}

func TestDispatchPlayback(t *testing.T) {
	d := newDispatcher()
	s := newSession(t, "*")
	ctx := context.Background()

	if _, err := d.Execute(ctx, s, "toggle-playback"); err != nil {
		t.Fatal(err)
	}
	if !s.Playing() {
		t.Fatal("toggle-playback should start playback")
	}
	if _, err := d.Execute(ctx, s, "toggle-playback"); err != nil {
		t.Fatal(err)
	}
	if s.Playing() {
		t.Fatal("second toggle-playback should pause")
	}
	d.Execute(ctx, s, "play")
	if !s.Playing() {
		t.Fatal("play should start playback")
	}
	d.Execute(ctx, s, "pause")
	if s.Playing() {
		t.Fatal("pause should stop playback")
	}
}

func TestDispatchMisc(t *testing.T) {
	d := newDispatcher()
	s := newSession(t, "**")
	ctx := context.Background()

	got, err := d.Execute(ctx, s, "status")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "width=2") || !strings.Contains(got, "playing=false") {
		t.Fatalf("unexpected status %q", got)
	}

	got, err = d.Execute(ctx, s, "help")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{NewGrid, TogglePlayback, SetDelay, Tick} {
		if !strings.Contains(got, name) {
			t.Fatalf("help is missing %q", name)
		}
	}

	if got, _ := d.Execute(ctx, s, "show"); got != "**" {
		t.Fatalf("show=%q", got)
	}
	if _, err := d.Execute(ctx, s, "quit"); !errors.Is(err, ErrQuit) {
		t.Fatalf("err=%v, expected ErrQuit", err)
	}
	_, err = d.Execute(ctx, s, "launch")
	if got := Reply(err); got != "error: invalid command `launch`" {
		t.Fatalf("reply=%q", got)
	}
}

func TestRegisterCustomCommand(t *testing.T) {
	d := newDispatcher()
	d.Register("clear", "clear  kill every cell", func(_ context.Context, _ *Dispatcher, s *game.Session, _, _ string) (string, error) {
		g, _ := s.Snapshot()
		g.Clear()
		if err := s.Replace(g); err != nil {
			return "", err
		}
		return s.Render(), nil
	})
	s := newSession(t, "*.*")
	got, err := d.Execute(context.Background(), s, "clear")
	if err != nil {
		t.Fatal(err)
	}
	if got != "..." {
		t.Fatalf("reply=%q, expected %q", got, "...")
	}
}
