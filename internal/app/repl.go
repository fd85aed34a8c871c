package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"conway/internal/command"
	"conway/internal/game"
	"conway/internal/patterns"
)

// Prompt is shown before each line read by the interactive prompt.
const Prompt = "> "

// LineReader supplies edited input lines. *readline.Instance satisfies it.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// Completer offers command names and, for the grid commands, their options
// and the built-in sample names.
func Completer(d *command.Dispatcher) *readline.PrefixCompleter {
	samples := make([]readline.PrefixCompleterInterface, 0, len(patterns.Names()))
	for _, name := range patterns.Names() {
		samples = append(samples, readline.PcItem(name))
	}
	items := make([]readline.PrefixCompleterInterface, 0, len(d.Names()))
	for _, name := range d.Names() {
		switch name {
		case command.NewGrid, command.SetGrid:
			items = append(items, readline.PcItem(name,
				readline.PcItem("--random"),
				readline.PcItem("--sample", samples...),
				readline.PcItem("--file"),
				readline.PcItem("-w"),
				readline.PcItem("-h"),
			))
		default:
			items = append(items, readline.PcItem(name))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

// NewLineReader opens a line editor on the terminal with command completion.
func NewLineReader(d *command.Dispatcher) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          Prompt,
		AutoComplete:    Completer(d),
		InterruptPrompt: "^C",
		EOFPrompt:       command.Quit,
	})
}

// RunREPL reads commands from r and writes replies to out until quit, end of
// input, an interrupt on an empty line, or ctx is done. out should be shared
// with the session's frame callback through a LockedWriter.
func RunREPL(ctx context.Context, r LineReader, out io.Writer, d *command.Dispatcher, s *game.Session) error {
	stop := context.AfterFunc(ctx, func() { r.Close() })
	defer stop()

	for {
		line, err := r.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if strings.TrimSpace(line) == "" {
				return nil
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		reply, err := d.Execute(ctx, s, line)
		switch {
		case errors.Is(err, command.ErrQuit):
			return nil
		case err != nil:
			_, err = fmt.Fprintln(out, command.Reply(err))
		default:
			_, err = fmt.Fprintln(out, reply)
		}
		if err != nil {
			return err
		}
	}
}
