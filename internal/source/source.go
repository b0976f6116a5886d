// Package source loads the text shown inside a pane. A pane's source is a
// "kind:argument" string: file:PATH, cmd:COMMAND, diff:OLD,NEW or text:LITERAL.
package source

import (
	"errors"
	"fmt"
	"strings"
)

// Kind selects how a Source is loaded.
type Kind string

const (
	File    Kind = "file"
	Command Kind = "cmd"
	Diff    Kind = "diff"
	Text    Kind = "text"
)

// Source is a parsed pane source.
type Source struct {
	Kind Kind
	Arg  string
}

// Parse splits raw into its kind and argument.
func Parse(raw string) (Source, error) {
	kind, arg, ok := strings.Cut(raw, ":")
	if !ok {
		return Source{}, fmt.Errorf("source %q: missing kind prefix", raw)
	}
	src := Source{Kind: Kind(kind), Arg: arg}
	switch src.Kind {
	case Text:
	case File, Command:
		if strings.TrimSpace(arg) == "" {
			return Source{}, fmt.Errorf("source %q: empty %s argument", raw, kind)
		}
	case Diff:
		a, b, ok := strings.Cut(arg, ",")
		if !ok || a == "" || b == "" {
			return Source{}, fmt.Errorf("source %q: diff needs OLD,NEW", raw)
		}
	default:
		return Source{}, fmt.Errorf("source %q: unknown kind %q", raw, kind)
	}
	return src, nil
}

// MustParse is Parse for sources known to be valid, such as those already
// checked by config validation.
func MustParse(raw string) Source {
	src, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return src
}

// Paths returns the files the source reads, for watching.
func (s Source) Paths() []string {
	switch s.Kind {
	case File:
		return []string{s.Arg}
	case Diff:
		a, b, _ := strings.Cut(s.Arg, ",")
		return []string{a, b}
	}
	return nil
}

func (s Source) String() string { return string(s.Kind) + ":" + s.Arg }

// ErrTimeout is returned when a cmd: source outlives its deadline.
var ErrTimeout = errors.New("command timed out")
