// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	goruntime "runtime"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/pzmm/pzmm/internal/config"
	"github.com/pzmm/pzmm/internal/coreutils"
	"github.com/pzmm/pzmm/internal/issue"
	"github.com/pzmm/pzmm/internal/manager"
	"github.com/pzmm/pzmm/internal/platform"
	"github.com/pzmm/pzmm/internal/prompt"
	"github.com/pzmm/pzmm/internal/registry"
	"github.com/pzmm/pzmm/internal/runtime"
)

// logTimeFormat prefixes every log line.
const logTimeFormat = "2006-01-02 15:04:05"

var errShellMissing = errors.New("not found on PATH")

type (
	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Fs     afero.Fs
		// Executor replaces the executor selected by configuration.
		Executor runtime.Executor
		// GOOS replaces host detection.
		GOOS   string
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
		// Terminal reports whether stdin is a terminal.
		Terminal func() bool
		// Interrupts replaces os.Interrupt delivery to the shell.
		Interrupts <-chan os.Signal
	}

	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer: every command handler receives an App and opens a
	// session through it.
	App struct {
		Config   config.Provider
		fs       afero.Fs
		executor runtime.Executor
		goos     string
		stdin    io.Reader
		stdout   io.Writer
		stderr   io.Writer
		terminal func() bool

		interrupts <-chan os.Signal

		// persistent flags
		configFile string
		verbose    bool

		colorScheme config.ColorScheme
		richPrompts bool
		lines       *prompt.Prompter
	}

	// session holds the services of one command invocation.
	session struct {
		cfg     *config.Config
		kind    platform.Kind
		logger  *log.Logger
		mgr     *manager.Manager
		logFile io.Closer
	}

	nopCloser struct{}
)

func (nopCloser) Close() error { return nil }

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Config == nil {
		deps.Config = config.NewProviderWithFs(deps.Fs)
	}
	if deps.GOOS == "" {
		deps.GOOS = goruntime.GOOS
	}
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Terminal == nil {
		deps.Terminal = func() bool { return prompt.IsTerminal(os.Stdin) }
	}

	return &App{
		Config:      deps.Config,
		fs:          deps.Fs,
		executor:    deps.Executor,
		goos:        deps.GOOS,
		stdin:       deps.Stdin,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
		terminal:    deps.Terminal,
		interrupts:  deps.Interrupts,
		colorScheme: config.ColorSchemeAuto,
	}, nil
}

// prompter returns the line prompter over stdin. It is created once because
// it buffers what it reads.
func (a *App) prompter() *prompt.Prompter {
	if a.lines == nil {
		a.lines = prompt.New(a.stdin, a.stdout)
	}
	return a.lines
}

// open loads configuration, detects the platform and builds the manager.
// An unsupported platform is fatal; a broken config file falls back to the
// defaults with a warning.
func (a *App) open(ctx context.Context) (*session, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.configFile})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		a.warn(formatErrorForDisplay(err, a.verbose))
		cfg = config.DefaultConfig()
	}
	if !a.verbose {
		a.verbose = cfg.UI.Verbose
	}
	a.colorScheme = cfg.UI.ColorScheme
	a.richPrompts = cfg.UI.RichPrompts

	kind, err := platform.Detect(a.goos)
	if err != nil {
		return nil, &ExitError{Code: 1, Err: issue.NewErrorContext().
			WithOperation("detect platform").
			WithResource(a.goos).
			WithSuggestion("pzmm runs on Windows and Unix-like systems").
			WithIssue(issue.HostNotSupportedId).
			Wrap(err).
			BuildError()}
	}

	logger, logFile := a.openLog(cfg)
	exec, shell := a.selectExecutor(cfg, kind, logger)

	table := platform.DefaultScripts().
		WithOverrides(platform.KindWindows, operationMap(cfg.Scripts.Windows)).
		WithOverrides(platform.KindUnix, operationMap(cfg.Scripts.Unix))

	mgr, err := manager.New(manager.Options{
		Fs:       a.fs,
		Store:    registry.NewStore(a.fs, cfg.RegistryPath(), logger),
		Scripts:  platform.NewResolver(a.fs, kind, cfg.BaseDir, table),
		Executor: exec,
		Logger:   logger,
		Shell:    shell,
	})
	if err != nil {
		_ = logFile.Close()
		return nil, err
	}

	logger.Debug("Session started", "platform", kind, "executor", exec.Name(), "registry", cfg.RegistryPath())
	if v, ok := exec.(*runtime.VirtualExecutor); ok {
		logger.Debug("Embedded interpreter", "builtin_utils", v.BuiltinUtils())
	}
	return &session{cfg: cfg, kind: kind, logger: logger, mgr: mgr, logFile: logFile}, nil
}

// Close releases the log file.
func (s *session) Close() error {
	return s.logFile.Close()
}

// openLog opens the append-only log file. When the file cannot be opened the
// logger discards everything and a warning is printed.
func (a *App) openLog(cfg *config.Config) (*log.Logger, io.Closer) {
	level, err := log.ParseLevel(string(cfg.LogLevel))
	if err != nil {
		level = log.InfoLevel
	}

	var (
		w      io.Writer = io.Discard
		closer io.Closer = nopCloser{}
	)
	path := cfg.LogPath()
	f, err := a.openAppend(path)
	if err != nil {
		a.warn(fmt.Sprintf("cannot open log file %s: %v", path, err))
	} else {
		w, closer = f, f
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
		Formatter:       log.TextFormatter,
	}), closer
}

func (a *App) openAppend(path string) (afero.File, error) {
	if err := a.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return a.fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

// selectExecutor builds the configured executor and returns it with the shell
// prefix used when logging command lines. The native executor falls back to
// the embedded interpreter when the configured shell is missing, and the
// virtual executor falls back to native on Windows.
func (a *App) selectExecutor(cfg *config.Config, kind platform.Kind, logger *log.Logger) (runtime.Executor, string) {
	if a.executor != nil {
		return a.executor, shellPrefix(kind, a.executor.Name(), cfg.Shell)
	}

	streams := runtime.IO{Stdin: a.stdin, Stdout: a.stdout, Stderr: a.stderr}
	exec, err := runtime.New(runtime.Options{
		Name:         string(cfg.Executor),
		Kind:         kind,
		Shell:        cfg.Shell,
		Fs:           a.fs,
		Streams:      streams,
		BuiltinUtils: cfg.BuiltinUtils,
	})
	if err != nil {
		logger.Warn("Executor unavailable, using native", "executor", cfg.Executor, "err", err)
		a.warn(fmt.Sprintf("%s executor unavailable: %v; using native", cfg.Executor, err))
		exec = runtime.NewNativeExecutor(kind, cfg.Shell, streams)
	}

	if native, ok := exec.(*runtime.NativeExecutor); ok && !native.Available() {
		logger.Warn("Shell not found, using the embedded interpreter", "shell", cfg.Shell)
		a.warnErr(issue.NewErrorContext().
			WithOperation("find shell").
			WithResource(cfg.Shell).
			WithSuggestion("Scripts run in the embedded interpreter instead").
			WithIssue(issue.ShellNotFoundId).
			Wrap(errShellMissing).
			BuildError())
		var opts []runtime.VirtualOption
		if cfg.BuiltinUtils {
			opts = append(opts, runtime.WithBuiltinUtils(coreutils.Default()))
		}
		exec = runtime.NewVirtualExecutor(a.fs, streams, opts...)
	}

	return exec, shellPrefix(kind, exec.Name(), cfg.Shell)
}

func shellPrefix(kind platform.Kind, executor, shell string) string {
	if kind == platform.KindUnix && executor == runtime.NameNative {
		if shell == "" {
			return runtime.DefaultShell
		}
		return shell
	}
	return ""
}

func operationMap(m map[string]string) map[platform.Operation]string {
	ops := make(map[platform.Operation]string, len(m))
	for k, v := range m {
		ops[platform.Operation(k)] = v
	}
	return ops
}

// glamourStyle returns the glamour style path for the configured color scheme.
func (a *App) glamourStyle() string {
	switch a.colorScheme {
	case config.ColorSchemeDark, config.ColorSchemeLight:
		return string(a.colorScheme)
	default:
		if a.terminal() {
			return "dark"
		}
		return "notty"
	}
}

// rich reports whether huh forms may be shown.
func (a *App) rich() bool {
	return a.richPrompts && a.terminal()
}

func (a *App) warn(msg string) {
	fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+msg)
}

// printError writes err for the user. Duplicate registrations are warnings,
// everything else is an error. Verbose mode appends the issue guidance.
func (a *App) printError(w io.Writer, err error) {
	label := ErrorStyle.Render("Error: ")
	if errors.Is(err, manager.ErrModExists) {
		label = WarningStyle.Render("Warning: ")
	}
	fmt.Fprintln(w, label+formatErrorForDisplay(err, a.verbose))
	a.printGuidance(w, err)
}

// warnErr is warn for a structured error, with guidance in verbose mode.
func (a *App) warnErr(err error) {
	a.warn(formatErrorForDisplay(err, a.verbose))
	a.printGuidance(a.stderr, err)
}

func (a *App) printGuidance(w io.Writer, err error) {
	if !a.verbose {
		return
	}
	if iss := issue.GuidanceFor(err); iss != nil {
		if rendered, rerr := iss.Render(a.glamourStyle()); rerr == nil {
			fmt.Fprint(w, rendered)
		}
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
