// SPDX-License-Identifier: MPL-2.0

package testutil

import "io"

// StepReader returns one chunk per Read. Every Read after the first announces
// itself on Blocked and waits for Release, so a test can act while a reader is
// known to be waiting for input.
type StepReader struct {
	chunks  []string
	next    int
	blocked chan struct{}
	release chan struct{}
}

// NewStepReader creates a StepReader over chunks. Each chunk must fit in a
// single Read buffer.
func NewStepReader(chunks ...string) *StepReader {
	return &StepReader{
		chunks:  chunks,
		blocked: make(chan struct{}),
		release: make(chan struct{}),
	}
}

// Read implements io.Reader.
func (r *StepReader) Read(p []byte) (int, error) {
	if r.next >= len(r.chunks) {
		return 0, io.EOF
	}
	if r.next > 0 {
		r.blocked <- struct{}{}
		<-r.release
	}
	n := copy(p, r.chunks[r.next])
	r.next++
	return n, nil
}

// Blocked receives once for every Read that waits for Release.
func (r *StepReader) Blocked() <-chan struct{} { return r.blocked }

// Release lets the waiting Read return its chunk.
func (r *StepReader) Release() { r.release <- struct{}{} }
