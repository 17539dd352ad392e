package prompt

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func terminalWith(input string, tty bool) (*Terminal, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &Terminal{in: bufio.NewReader(strings.NewReader(input)), out: out, tty: tty}, out
}

func TestTerminalAnswers(t *testing.T) {
	cases := []struct {
		input string
		def   bool
		want  bool
	}{
		{"y\n", false, true},
		{"yes\n", false, true},
		{"n\n", true, false},
		{"no\n", true, false},
		{"\n", true, true},
		{"\n", false, false},
		{"maybe\n", false, false},
	}
	for _, c := range cases {
		term, _ := terminalWith(c.input, true)
		if got := term.Confirm("proceed?", c.def); got != c.want {
			t.Errorf("input %q def %v = %v, want %v", c.input, c.def, got, c.want)
		}
	}
}

func TestTerminalConsecutiveConfirms(t *testing.T) {
	// Both answers arrive on stdin before the first prompt is answered;
	// neither line may be lost between calls.
	term, _ := terminalWith("n\ny\n", true)

	if term.Confirm("first?", true) {
		t.Error("first answer should be no")
	}
	if !term.Confirm("second?", false) {
		t.Error("second answer should be yes")
	}
}

func TestTerminalNonInteractiveUsesDefault(t *testing.T) {
	// Input says no, but a non-tty stdin must not be read.
	term, out := terminalWith("n\n", false)
	if !term.Confirm("proceed?", true) {
		t.Error("non-interactive should return the default")
	}
	if !strings.Contains(out.String(), "[Y/n]") {
		t.Errorf("prompt suffix missing: %q", out.String())
	}
}

func TestScriptedRecordsAndFallsBack(t *testing.T) {
	s := &Scripted{Answers: []bool{true}}

	if !s.Confirm("first?", false) {
		t.Error("scripted answer not used")
	}
	if s.Confirm("second?", false) {
		t.Error("exhausted script should fall back to default")
	}
	if len(s.Asked) != 2 || s.Asked[0] != "first?" {
		t.Errorf("asked = %v", s.Asked)
	}
}
