// Package command parses and executes the line-oriented control language
// shared by the REPL and the network server.
//
// A message is a command name optionally followed by whitespace and a body:
//
//	message ::= command [ SP body ]
//
// where command is an identifier of letters, digits, underscores and hyphens
// starting with a letter, and body is the rest of the line.
package command

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var reMessage = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_-]*)(?:\s+(.*))?$`)

// Message is one parsed command line.
type Message struct {
	Name string
	Body string
}

// Parse splits a line into its command name and body.
func Parse(line string) (Message, error) {
	m := reMessage.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Message{}, ErrSyntax
	}
	return Message{Name: m[1], Body: strings.TrimSpace(m[2])}, nil
}

var (
	// ErrSyntax is returned for a line that is not a valid message.
	ErrSyntax = errors.New("invalid syntax: could not parse message")
	// ErrQuit is returned by the quit command to end the conversation.
	ErrQuit = errors.New("quit")
)

// ErrorKind classifies client errors.
type ErrorKind int

const (
	KindInvalidCommand ErrorKind = iota
	KindMissingValue
	KindInvalidValue
	KindSetupIncomplete
)

// Error is a client error about a specific command.
type Error struct {
	Kind     ErrorKind
	Command  string
	Expected string
	Err      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidCommand:
		return fmt.Sprintf("invalid command `%s`", e.Command)
	case KindMissingValue:
		return fmt.Sprintf("missing value for `%s`", e.Command)
	case KindSetupIncomplete:
		return fmt.Sprintf("setup incomplete: client must send `%s` to initialize the game grid", e.Command)
	default:
		if e.Err != nil {
			return fmt.Sprintf("invalid value for `%s`: %v", e.Command, e.Err)
		}
		return fmt.Sprintf("invalid value for `%s`: expected %s", e.Command, e.Expected)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func invalidCommand(name string) error { return &Error{Kind: KindInvalidCommand, Command: name} }

func missingValue(name string) error { return &Error{Kind: KindMissingValue, Command: name} }

func invalidValue(name, expected string) error {
	return &Error{Kind: KindInvalidValue, Command: name, Expected: expected}
}

func invalidValueErr(name string, err error) error {
	return &Error{Kind: KindInvalidValue, Command: name, Err: err}
}

// SetupIncomplete is the error a server sends until a grid has been created.
func SetupIncomplete() error { return &Error{Kind: KindSetupIncomplete, Command: NewGrid} }

// Reply formats err as the single "error: ..." line sent back to a client.
func Reply(err error) string {
	return "error: " + err.Error()
}
