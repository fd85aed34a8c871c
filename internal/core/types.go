package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Size describes the dimensions of a board.
type Size struct {
	W int
	H int
}

// String formats the size as "WxH".
func (s Size) String() string { return fmt.Sprintf("%dx%d", s.W, s.H) }

// Set parses "WxH" so a Size can be bound as a flag.Value.
func (s *Size) Set(v string) error {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(v)), "x")
	if !ok {
		return fmt.Errorf("size %q: expected WIDTHxHEIGHT", v)
	}
	w, err := strconv.Atoi(ws)
	if err != nil || w <= 0 {
		return fmt.Errorf("size %q: width must be a positive integer", v)
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h <= 0 {
		return fmt.Errorf("size %q: height must be a positive integer", v)
	}
	s.W, s.H = w, h
	return nil
}
