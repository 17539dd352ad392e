// Package prompt provides operator confirmation. Prompts are injected as a
// capability so pipelines can run under test with scripted answers and
// under automation with assumed defaults.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Confirmer answers yes/no questions. def is the answer for empty input.
type Confirmer interface {
	Confirm(question string, def bool) bool
}

// Terminal prompts on stdout and reads one line from stdin. When stdin is
// not a terminal the default answer is used without blocking. The reader
// is held for the lifetime of the Terminal so input buffered ahead of one
// answer is still available to the next.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
	tty bool
}

// NewTerminal creates a Confirmer bound to the process stdin/stdout.
func NewTerminal() *Terminal {
	return &Terminal{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
		tty: term.IsTerminal(int(os.Stdin.Fd())),
	}
}

// Confirm asks the question with a [Y/n] or [y/N] suffix matching the
// default. Empty input or a non-interactive stdin yields the default.
func (t *Terminal) Confirm(question string, def bool) bool {
	suffix := "[y/N]"
	if def {
		suffix = "[Y/n]"
	}
	fmt.Fprintf(t.out, "%s %s ", question, suffix)

	if !t.tty {
		fmt.Fprintln(t.out, "(non-interactive, assuming default)")
		return def
	}

	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return def
	}
}

// Assume answers every question with its default. Used for --yes runs.
type Assume struct{}

func (Assume) Confirm(question string, def bool) bool {
	fmt.Printf("%s -> %s\n", question, answer(def))
	return def
}

// Scripted replays a fixed sequence of answers and records the questions
// asked. Intended for tests; falls back to the default when the script is
// exhausted.
type Scripted struct {
	Answers []bool
	Asked   []string
	next    int
}

func (s *Scripted) Confirm(question string, def bool) bool {
	s.Asked = append(s.Asked, question)
	if s.next >= len(s.Answers) {
		return def
	}
	a := s.Answers[s.next]
	s.next++
	return a
}

func answer(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
