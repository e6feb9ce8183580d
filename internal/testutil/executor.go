// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/pzmm/pzmm/internal/runtime"
)

// RecordingExecutor implements runtime.Executor by recording each invocation
// and returning a preconfigured result. Scripts are never started.
type RecordingExecutor struct {
	mu    sync.Mutex
	calls []runtime.Invocation

	// Result is returned for every call unless OnExecute is set.
	Result runtime.Result
	// Err is returned alongside Result.
	Err error
	// OnExecute, when set, computes the outcome of each call.
	OnExecute func(inv runtime.Invocation) (runtime.Result, error)
}

// NewRecordingExecutor returns an executor whose scripts all succeed.
func NewRecordingExecutor() *RecordingExecutor {
	return &RecordingExecutor{}
}

// NewFailingExecutor returns an executor whose scripts exit with code.
func NewFailingExecutor(code int) *RecordingExecutor {
	return &RecordingExecutor{Result: runtime.Result{ExitCode: runtime.ExitCode(code)}}
}

// Name returns the executor identifier.
func (e *RecordingExecutor) Name() string { return "recording" }

// Execute records inv.
func (e *RecordingExecutor) Execute(_ context.Context, inv runtime.Invocation) (runtime.Result, error) {
	e.mu.Lock()
	inv.Args = slices.Clone(inv.Args)
	e.calls = append(e.calls, inv)
	onExecute := e.OnExecute
	e.mu.Unlock()

	if onExecute != nil {
		return onExecute(inv)
	}
	return e.Result, e.Err
}

// Calls returns a copy of the recorded invocations.
func (e *RecordingExecutor) Calls() []runtime.Invocation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.calls)
}

// CallCount returns the number of recorded invocations.
func (e *RecordingExecutor) CallCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

// LastCall returns the most recent invocation and whether one exists.
func (e *RecordingExecutor) LastCall() (runtime.Invocation, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.calls) == 0 {
		return runtime.Invocation{}, false
	}
	return e.calls[len(e.calls)-1], true
}
