// SPDX-License-Identifier: MPL-2.0

package prompt

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/pzmm/pzmm/internal/testutil"
)

func newPrompter(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return New(strings.NewReader(input), &out), &out
}

func TestLine(t *testing.T) {
	t.Parallel()

	p, out := newPrompter("  MyMod  \nlast")

	got, err := p.Line("Mod name: ")
	if err != nil || got != "MyMod" {
		t.Fatalf("Line() = %q, %v", got, err)
	}
	if out.String() != "Mod name: " {
		t.Errorf("prompt output = %q", out.String())
	}

	// a final line without newline is still an answer
	got, err = p.Line("")
	if err != nil || got != "last" {
		t.Fatalf("Line() = %q, %v", got, err)
	}

	if _, err := p.Line(""); !errors.Is(err, io.EOF) {
		t.Errorf("Line() at end of input error = %v, want io.EOF", err)
	}
}

func TestLine_Interrupted(t *testing.T) {
	t.Parallel()

	in := testutil.NewStepReader("first\n", "second\n")
	interrupts := make(chan os.Signal)
	p := New(in, io.Discard)
	p.SetInterrupts(interrupts)

	go func() {
		<-in.Blocked()
		interrupts <- os.Interrupt
		in.Release()
	}()

	if got, err := p.Line("> "); err != nil || got != "first" {
		t.Fatalf("Line() = %q, %v, want first", got, err)
	}
	if _, err := p.Line("Mod name: "); !errors.Is(err, ErrInterrupted) {
		t.Fatalf("Line() error = %v, want ErrInterrupted", err)
	}
	// the line that was pending is delivered to the next prompt
	if got, err := p.Line("> "); err != nil || got != "second" {
		t.Fatalf("Line() after interrupt = %q, %v, want second", got, err)
	}
	for range 2 {
		if _, err := p.Line(""); !errors.Is(err, io.EOF) {
			t.Errorf("Line() at end of input error = %v, want io.EOF", err)
		}
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	p, _ := newPrompter("\n0.5\n")

	if got, _ := p.Default("Volume: ", "1.0"); got != "1.0" {
		t.Errorf("blank answer = %q, want default", got)
	}
	if got, _ := p.Default("Volume: ", "1.0"); got != "0.5" {
		t.Errorf("answer = %q, want 0.5", got)
	}
}

func TestInt_RepromptsUntilNumber(t *testing.T) {
	t.Parallel()

	p, out := newPrompter("two\n-1\n2\n")

	got, err := p.Int("Count: ")
	if err != nil || got != 2 {
		t.Fatalf("Int() = %d, %v", got, err)
	}
	if n := strings.Count(out.String(), "Please enter a valid number."); n != 2 {
		t.Errorf("expected 2 re-prompts, got %d in %q", n, out.String())
	}
}

func TestInt_EOF(t *testing.T) {
	t.Parallel()

	p, _ := newPrompter("abc\n")
	if _, err := p.Int("Count: "); !errors.Is(err, io.EOF) {
		t.Errorf("Int() error = %v, want io.EOF", err)
	}
}

func TestIntDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    int
		message bool
	}{
		{input: "5\n", want: 5},
		{input: "\n", want: 100, message: true},
		{input: "soon\n", want: 100, message: true},
		{input: "0\n", want: 0},
	}

	for _, tt := range tests {
		p, out := newPrompter(tt.input)
		got, err := p.IntDefault("Minutes: ", 100)
		if err != nil {
			t.Fatalf("IntDefault(%q) error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("IntDefault(%q) = %d, want %d", tt.input, got, tt.want)
		}
		if has := strings.Contains(out.String(), "Using default value of 100."); has != tt.message {
			t.Errorf("IntDefault(%q) default message shown = %v", tt.input, has)
		}
	}
}

func TestConfirm(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]bool{
		"y\n":    true,
		"YES\n":  true,
		"n\n":    false,
		"\n":     false,
		"sure\n": false,
	} {
		p, _ := newPrompter(input)
		got, err := p.Confirm("Flush registry?")
		if err != nil {
			t.Fatalf("Confirm(%q) error: %v", input, err)
		}
		if got != want {
			t.Errorf("Confirm(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNumbered(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	Numbered(&out, "Supported Recipe Types", []string{"Standard", "Medical"})

	want := "\nSupported Recipe Types:\n1. Standard\n2. Medical\n"
	if out.String() != want {
		t.Errorf("Numbered() = %q, want %q", out.String(), want)
	}
}

func TestIsTerminal_NotATerminal(t *testing.T) {
	t.Parallel()

	if IsTerminal(nil) {
		t.Error("IsTerminal(nil) should be false")
	}

	f, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTerminal(f) {
		t.Error("a regular file is not a terminal")
	}
}
