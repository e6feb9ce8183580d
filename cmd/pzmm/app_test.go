// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/pzmm/pzmm/internal/config"
	"github.com/pzmm/pzmm/internal/issue"
	"github.com/pzmm/pzmm/internal/manager"
	"github.com/pzmm/pzmm/internal/platform"
	"github.com/pzmm/pzmm/internal/runtime"
	"github.com/pzmm/pzmm/internal/testutil"
)

const (
	testBaseDir  = "/opt/pzmm"
	testModsDir  = "/tmp/mods"
	testRegistry = "/opt/pzmm/core/modmanager_registry.json"
	testLog      = "/opt/pzmm/log/modmanager.log"
)

type (
	stubProvider struct {
		cfg *config.Config
		err error
	}

	testApp struct {
		*App
		fs     afero.Fs
		exec   *testutil.RecordingExecutor
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	}
)

func (p stubProvider) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if p.err != nil {
		return nil, p.err
	}
	cfg := *p.cfg
	return &cfg, nil
}

func (p stubProvider) Path(config.LoadOptions) (string, error) { return "", nil }

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.BaseDir = testBaseDir
	cfg.UI.RichPrompts = false
	return cfg
}

// newTestApp builds an App over an in-memory filesystem holding every Unix
// script, with a recording executor and input as stdin.
func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()

	fs := afero.NewMemMapFs()
	for _, rel := range platform.DefaultScripts()[platform.KindUnix] {
		testutil.MustWriteFile(t, fs, filepath.Join(testBaseDir, rel), "#!/bin/bash\n")
	}
	testutil.MustMkdirAll(t, fs, testModsDir)

	return newTestAppWith(t, fs, stubProvider{cfg: testConfig()}, "linux", input)
}

func newTestAppWith(t *testing.T, fs afero.Fs, provider config.Provider, goos, input string) *testApp {
	t.Helper()

	ta := &testApp{
		fs:     fs,
		exec:   testutil.NewRecordingExecutor(),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	// Interrupts never fires, which keeps shell tests off process signals.
	app, err := NewApp(Dependencies{
		Config:     provider,
		Fs:         fs,
		Executor:   ta.exec,
		GOOS:       goos,
		Stdin:      strings.NewReader(input),
		Stdout:     ta.stdout,
		Stderr:     ta.stderr,
		Terminal:   func() bool { return false },
		Interrupts: make(chan os.Signal),
	})
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	ta.App = app
	return ta
}

// registerMod creates the mod folder and writes a registry holding it.
func (ta *testApp) registerMod(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(testModsDir, name)
	testutil.MustMkdirAll(t, ta.fs, path)
	testutil.MustWriteFile(t, ta.fs, testRegistry, fmt.Sprintf("{%q: {\"mod_path\": %q}}", name, path))
	return path
}

func (ta *testApp) scriptCalls(op platform.Operation) []runtime.Invocation {
	want := filepath.Join(testBaseDir, platform.DefaultScripts()[platform.KindUnix][op])
	var calls []runtime.Invocation
	for _, c := range ta.exec.Calls() {
		if c.Script == want {
			calls = append(calls, c)
		}
	}
	return calls
}

func TestOpenUnsupportedPlatform(t *testing.T) {
	t.Parallel()

	ta := newTestAppWith(t, afero.NewMemMapFs(), stubProvider{cfg: testConfig()}, "plan9", "")
	_, err := ta.open(context.Background())

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("open() error = %v, want *ExitError", err)
	}
	if exitErr.Code != 1 {
		t.Errorf("ExitError.Code = %d, want 1", exitErr.Code)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.IssueID != issue.HostNotSupportedId {
		t.Errorf("open() error = %v, want HostNotSupportedId", err)
	}
	if !errors.Is(err, platform.ErrUnsupportedPlatform) {
		t.Errorf("errors.Is(err, ErrUnsupportedPlatform) = false")
	}
}

func TestOpenConfigErrorUsesDefaults(t *testing.T) {
	t.Parallel()

	ta := newTestAppWith(t, afero.NewMemMapFs(), stubProvider{err: errors.New("broken config")}, "linux", "")
	sess, err := ta.open(context.Background())
	if err != nil {
		t.Fatalf("open() error: %v", err)
	}
	defer sess.Close()

	if !strings.Contains(ta.stderr.String(), "Warning: broken config") {
		t.Errorf("stderr = %q, want config warning", ta.stderr.String())
	}
	if sess.cfg.BaseDir != "" || sess.cfg.Executor != config.ExecutorNative {
		t.Errorf("session config = %+v, want defaults", sess.cfg)
	}
}

func TestOpenConfigErrorAfterCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ta := newTestAppWith(t, afero.NewMemMapFs(), stubProvider{err: context.Canceled}, "linux", "")
	if _, err := ta.open(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("open() error = %v, want context.Canceled", err)
	}
}

func TestOpenWritesLog(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, "")
	cfg := testConfig()
	cfg.LogLevel = config.LogLevelDebug
	ta.Config = stubProvider{cfg: cfg}

	sess, err := ta.open(context.Background())
	if err != nil {
		t.Fatalf("open() error: %v", err)
	}
	if sess.kind != platform.KindUnix {
		t.Errorf("session kind = %q, want %q", sess.kind, platform.KindUnix)
	}
	if err := sess.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	logged := testutil.MustReadFile(t, ta.fs, testLog)
	if !strings.Contains(logged, "Session started") {
		t.Errorf("log = %q, want session start entry", logged)
	}
}

func TestOpenVerboseFromConfig(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, "")
	cfg := testConfig()
	cfg.UI.Verbose = true
	cfg.UI.ColorScheme = config.ColorSchemeLight
	ta.Config = stubProvider{cfg: cfg}

	sess, err := ta.open(context.Background())
	if err != nil {
		t.Fatalf("open() error: %v", err)
	}
	defer sess.Close()

	if !ta.verbose {
		t.Error("verbose = false, want true from config")
	}
	if got := ta.glamourStyle(); got != "light" {
		t.Errorf("glamourStyle() = %q, want light", got)
	}
}

func TestGlamourStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme   config.ColorScheme
		terminal bool
		want     string
	}{
		{config.ColorSchemeDark, false, "dark"},
		{config.ColorSchemeLight, true, "light"},
		{config.ColorSchemeAuto, true, "dark"},
		{config.ColorSchemeAuto, false, "notty"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%v", tt.scheme, tt.terminal), func(t *testing.T) {
			t.Parallel()
			app := &App{colorScheme: tt.scheme, terminal: func() bool { return tt.terminal }}
			if got := app.glamourStyle(); got != tt.want {
				t.Errorf("glamourStyle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShellPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		kind     platform.Kind
		executor string
		shell    string
		want     string
	}{
		{"unix native", platform.KindUnix, runtime.NameNative, "zsh", "zsh"},
		{"unix native default shell", platform.KindUnix, runtime.NameNative, "", runtime.DefaultShell},
		{"unix virtual", platform.KindUnix, runtime.NameVirtual, "bash", ""},
		{"windows native", platform.KindWindows, runtime.NameNative, "bash", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := shellPrefix(tt.kind, tt.executor, tt.shell); got != tt.want {
				t.Errorf("shellPrefix() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelectExecutorFallsBackToVirtual(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	app, err := NewApp(Dependencies{
		Fs:       afero.NewMemMapFs(),
		Stdout:   &bytes.Buffer{},
		Stderr:   &stderr,
		Terminal: func() bool { return false },
	})
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	app.verbose = true
	cfg := testConfig()
	cfg.Shell = "pzmm-no-such-shell"

	logger, closer := app.openLog(cfg)
	defer closer.Close()

	exec, prefix := app.selectExecutor(cfg, platform.KindUnix, logger)
	virtual, ok := exec.(*runtime.VirtualExecutor)
	if !ok {
		t.Fatalf("executor = %q, want %q", exec.Name(), runtime.NameVirtual)
	}
	if !virtual.BuiltinUtils() {
		t.Error("fallback interpreter should carry the built-in utilities")
	}
	if prefix != "" {
		t.Errorf("prefix = %q, want empty for the virtual executor", prefix)
	}

	out := stderr.String()
	for _, want := range []string{
		"Warning: failed to find shell: pzmm-no-such-shell: not found on PATH",
		"Scripts run in the embedded interpreter instead",
		"Shell not found!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stderr missing %q:\n%s", want, out)
		}
	}
}

func TestPrintError(t *testing.T) {
	t.Parallel()

	exists := issue.NewErrorContext().
		WithOperation("register mod").
		WithResource("MyMod").
		WithIssue(issue.ModAlreadyRegisteredId).
		Wrap(manager.ErrModExists).
		BuildError()

	tests := []struct {
		name  string
		err   error
		label string
	}{
		{"duplicate is a warning", exists, "Warning: "},
		{"plain error", errors.New("boom"), "Error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			app := &App{terminal: func() bool { return false }}
			app.printError(&buf, tt.err)
			if !strings.HasPrefix(buf.String(), tt.label) {
				t.Errorf("printError() = %q, want prefix %q", buf.String(), tt.label)
			}
		})
	}
}

func TestPrintErrorVerboseAddsGuidance(t *testing.T) {
	t.Parallel()

	err := issue.NewErrorContext().
		WithOperation("install mod").
		WithResource("Nope").
		WithIssue(issue.ModNotRegisteredId).
		Wrap(manager.ErrModNotFound).
		BuildError()

	var buf bytes.Buffer
	app := &App{verbose: true, colorScheme: config.ColorSchemeAuto, terminal: func() bool { return false }}
	app.printError(&buf, err)

	out := buf.String()
	if !strings.Contains(out, "Error chain:") {
		t.Errorf("printError() = %q, want error chain", out)
	}
	if len(strings.Split(out, "\n")) < 5 {
		t.Errorf("printError() = %q, want rendered issue guidance", out)
	}
}
