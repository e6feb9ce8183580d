// SPDX-License-Identifier: MPL-2.0

package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrInterrupted is returned by Line when an interrupt arrives before the
// answer. The line that was being waited for is delivered to the next call.
var ErrInterrupted = errors.New("prompt interrupted")

type (
	// Prompter asks questions on out and reads answers line by line from in.
	Prompter struct {
		in         *bufio.Reader
		out        io.Writer
		interrupts <-chan os.Signal

		// lines is fed by the background reader once reads are interruptible.
		lines chan lineResult
		// last holds the terminal read error after the reader has stopped.
		last error
	}

	lineResult struct {
		text string
		err  error
	}
)

// New creates a prompter. The reader is buffered once, so the same Prompter
// must be used for every read from in.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// SetInterrupts makes Line return ErrInterrupted when a value arrives on ch.
// A nil ch makes Line wait for the answer again.
func (p *Prompter) SetInterrupts(ch <-chan os.Signal) { p.interrupts = ch }

// Line prints label and returns the next line with surrounding whitespace
// removed. io.EOF is returned only when the input ends before any character
// of the line was read.
func (p *Prompter) Line(label string) (string, error) {
	if label != "" {
		fmt.Fprint(p.out, label)
	}
	if p.interrupts == nil && p.lines == nil {
		return p.readLine()
	}
	if p.last != nil {
		return "", p.last
	}
	if p.lines == nil {
		p.lines = make(chan lineResult)
		go p.readAhead()
	}

	select {
	case r := <-p.lines:
		if r.err != nil {
			p.last = r.err
		}
		return r.text, r.err
	case <-p.interrupts:
		return "", ErrInterrupted
	}
}

// readAhead feeds lines until the input fails. It is the only reader of in
// once started.
func (p *Prompter) readAhead() {
	for {
		text, err := p.readLine()
		p.lines <- lineResult{text: text, err: err}
		if err != nil {
			return
		}
	}
}

func (p *Prompter) readLine() (string, error) {
	s, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && s != "" {
			return strings.TrimSpace(s), nil
		}
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// Default is Line with def returned for a blank answer.
func (p *Prompter) Default(label, def string) (string, error) {
	s, err := p.Line(label)
	if err != nil || s != "" {
		return s, err
	}
	return def, nil
}

// Int asks until the answer is a whole number.
func (p *Prompter) Int(label string) (int, error) {
	for {
		s, err := p.Line(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(s)
		if err == nil && n >= 0 {
			return n, nil
		}
		fmt.Fprintln(p.out, "Please enter a valid number.")
	}
}

// IntDefault returns def when the answer is blank or not a whole number.
func (p *Prompter) IntDefault(label string, def int) (int, error) {
	s, err := p.Line(label)
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(s)
	if convErr != nil || n < 0 {
		fmt.Fprintf(p.out, "Using default value of %d.\n", def)
		return def, nil
	}
	return n, nil
}

// Confirm asks a yes/no question. Only "y" and "yes" count as yes.
func (p *Prompter) Confirm(label string) (bool, error) {
	s, err := p.Line(label + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(s) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Numbered prints a title followed by a 1-based numbered list.
func Numbered(w io.Writer, title string, items []string) {
	fmt.Fprintf(w, "\n%s:\n", title)
	for i, item := range items {
		fmt.Fprintf(w, "%d. %s\n", i+1, item)
	}
}
