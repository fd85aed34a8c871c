// Package patterns holds the built-in sample boards and loads pattern files.
package patterns

import (
	"errors"
	"fmt"
	"os"
	"sort"
)

// Alive is the glyph marking live cells in the built-in samples.
const Alive = '*'

// ErrUnknownSample is returned for a sample name that is not built in.
var ErrUnknownSample = errors.New("patterns: unknown sample")

var samples = map[string]string{
	"blinker": `
.....
..*..
..*..
..*..
.....`,
	"toad": `
......
......
..***.
.***..
......
......`,
	"beacon": `
......
.**...
.**...
...**.
...**.
......`,
	"glider": `
.*........
..*.......
***.......
..........
..........
..........
..........
..........
..........
..........`,
}

// Names lists the built-in samples in sorted order.
func Names() []string {
	names := make([]string, 0, len(samples))
	for name := range samples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sample returns the pattern text of a built-in sample.
func Sample(name string) (string, error) {
	text, ok := samples[name]
	if !ok {
		return "", fmt.Errorf("%w %q (choose from %v)", ErrUnknownSample, name, Names())
	}
	return text, nil
}

// Load reads a pattern file.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load pattern: %w", err)
	}
	return string(data), nil
}
