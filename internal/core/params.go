package core

import "strings"

// Parameter describes a single reported value of a running session.
type Parameter struct {
	Key   string
	Value string
}

// ParameterSnapshot captures the reported state of a session in display order.
type ParameterSnapshot struct {
	Params []Parameter
}

// Lookup returns the value stored under key.
func (s ParameterSnapshot) Lookup(key string) (string, bool) {
	for _, p := range s.Params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Lines renders the snapshot as key=value lines.
func (s ParameterSnapshot) Lines() []string {
	lines := make([]string, 0, len(s.Params))
	for _, p := range s.Params {
		lines = append(lines, p.Key+"="+p.Value)
	}
	return lines
}

// String joins Lines with newlines.
func (s ParameterSnapshot) String() string { return strings.Join(s.Lines(), "\n") }
