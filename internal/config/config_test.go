// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spf13/afero"

	"github.com/pzmm/pzmm/internal/issue"
)

const testConfigDir = "/home/user/.config/pzmm"

func loadFromString(t *testing.T, content string) (*Config, error) {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, filepath.Join(testConfigDir, "config.cue"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return NewProviderWithFs(fs).Load(context.Background(), LoadOptions{ConfigDirPath: testConfigDir})
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Executor != ExecutorNative {
		t.Errorf("expected default executor to be native, got %s", cfg.Executor)
	}
	if cfg.Shell != "bash" {
		t.Errorf("expected default shell to be bash, got %s", cfg.Shell)
	}
	if cfg.RegistryFile != filepath.Join("core", "modmanager_registry.json") {
		t.Errorf("unexpected default registry file %q", cfg.RegistryFile)
	}
	if cfg.LogFile != filepath.Join("log", "modmanager.log") {
		t.Errorf("unexpected default log file %q", cfg.LogFile)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("expected default color scheme to be auto, got %s", cfg.UI.ColorScheme)
	}
	if cfg.UI.Verbose {
		t.Error("expected default verbose to be false")
	}
	if !cfg.UI.RichPrompts {
		t.Error("expected rich prompts to be enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Parallel()

	p := NewProviderWithFs(afero.NewMemMapFs())
	cfg, err := p.Load(context.Background(), LoadOptions{ConfigDirPath: testConfigDir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	path, err := p.Path(LoadOptions{ConfigDirPath: testConfigDir})
	if err != nil || path != "" {
		t.Errorf("Path() = %q, %v; want empty", path, err)
	}
}

func TestLoad_MergesFileOverDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := loadFromString(t, `
base_dir: "/opt/pzmm"
executor: "virtual"
log_level: "debug"
scripts: unix: create_item: "tools/item.sh"
ui: verbose: true
`)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.BaseDir != "/opt/pzmm" {
		t.Errorf("BaseDir = %q", cfg.BaseDir)
	}
	if cfg.Executor != ExecutorVirtual {
		t.Errorf("Executor = %q, want virtual", cfg.Executor)
	}
	if cfg.LogLevel != LogLevelDebug {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if got := cfg.Scripts.Unix["create_item"]; got != "tools/item.sh" {
		t.Errorf("Scripts.Unix[create_item] = %q", got)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose should be true")
	}
	// untouched keys keep their defaults
	if cfg.Shell != "bash" || !cfg.BuiltinUtils || cfg.UI.ColorScheme != ColorSchemeAuto || !cfg.UI.RichPrompts {
		t.Errorf("defaults lost after merge: %+v", cfg)
	}
	if cfg.RegistryPath() != filepath.Join("/opt/pzmm", "core", "modmanager_registry.json") {
		t.Errorf("RegistryPath() = %q", cfg.RegistryPath())
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{name: "bad executor", content: `executor: "docker"`, wantMsg: "executor"},
		{name: "bad log level", content: `log_level: "loud"`, wantMsg: "log_level"},
		{name: "wrong type", content: `ui: verbose: "yes"`, wantMsg: "verbose"},
		{name: "unknown field", content: `colour: "red"`, wantMsg: "colour"},
		{name: "unknown script", content: `scripts: unix: compile_map: "x.sh"`, wantMsg: "compile_map"},
		{name: "empty registry", content: `registry_file: ""`, wantMsg: "registry_file"},
		{name: "syntax error", content: `executor: "native`, wantMsg: "config.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := loadFromString(t, tt.content)
			if err == nil {
				t.Fatal("Load() should fail")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("error should be *issue.ActionableError, got %T", err)
			}
			if ae.IssueID != issue.ConfigLoadFailedId {
				t.Errorf("IssueID = %v, want ConfigLoadFailedId", ae.IssueID)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	t.Parallel()

	p := NewProviderWithFs(afero.NewMemMapFs())
	_, err := p.Load(context.Background(), LoadOptions{ConfigFilePath: "/nope/config.cue"})
	if err == nil {
		t.Fatal("Load() with a missing explicit file should fail")
	}
	if !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_ExplicitFileWinsOverConfigDir(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, filepath.Join(testConfigDir, "config.cue"), []byte(`shell: "zsh"`), 0o644)
	_ = afero.WriteFile(fs, "/etc/pzmm.cue", []byte(`shell: "dash"`), 0o644)

	p := NewProviderWithFs(fs)
	opts := LoadOptions{ConfigFilePath: "/etc/pzmm.cue", ConfigDirPath: testConfigDir}
	cfg, err := p.Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Shell != "dash" {
		t.Errorf("Shell = %q, want dash", cfg.Shell)
	}
	if path, _ := p.Path(opts); path != "/etc/pzmm.cue" {
		t.Errorf("Path() = %q", path)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProviderWithFs(afero.NewMemMapFs()).Load(ctx, LoadOptions{ConfigDirPath: testConfigDir})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PZMM_EXECUTOR", "virtual")
	t.Setenv("PZMM_UI_VERBOSE", "true")
	t.Setenv("PZMM_BASE_DIR", "/srv/pzmm")

	cfg, err := NewProviderWithFs(afero.NewMemMapFs()).Load(context.Background(), LoadOptions{ConfigDirPath: testConfigDir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Executor != ExecutorVirtual {
		t.Errorf("Executor = %q, want virtual", cfg.Executor)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose should be true from env")
	}
	if cfg.BaseDir != "/srv/pzmm" {
		t.Errorf("BaseDir = %q", cfg.BaseDir)
	}
}

func TestLoad_InvalidEnvironmentOverride(t *testing.T) {
	t.Setenv("PZMM_LOG_LEVEL", "loud")

	_, err := NewProviderWithFs(afero.NewMemMapFs()).Load(context.Background(), LoadOptions{ConfigDirPath: testConfigDir})
	if !errors.Is(err, ErrInvalidLogLevel) {
		t.Fatalf("Load() error = %v, want ErrInvalidLogLevel", err)
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error should also wrap ErrInvalidConfig")
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	want := DefaultConfig()
	want.BaseDir = "/opt/pzmm"
	want.Executor = ExecutorVirtual
	want.BuiltinUtils = false
	want.Scripts.Windows = map[string]string{"create_item": `C:\tools\item.bat`}
	want.Scripts.Unix = map[string]string{"create_sound": "", "create_item": "tools/item.sh"}
	want.UI.ColorScheme = ColorSchemeLight

	cfg, err := loadFromString(t, GenerateCUE(want))
	if err != nil {
		t.Fatalf("generated CUE does not load: %v\n%s", err, GenerateCUE(want))
	}
	if diff := cmp.Diff(want, cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	path, created, err := CreateDefaultConfig(fs, testConfigDir)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error: %v", err)
	}
	if !created || path != filepath.Join(testConfigDir, "config.cue") {
		t.Errorf("CreateDefaultConfig() = %q, %v", path, created)
	}

	_ = afero.WriteFile(fs, path, []byte(`shell: "zsh"`), 0o644)
	_, created, err = CreateDefaultConfig(fs, testConfigDir)
	if err != nil || created {
		t.Errorf("second call should leave the file alone, created=%v err=%v", created, err)
	}
	data, _ := afero.ReadFile(fs, path)
	if string(data) != `shell: "zsh"` {
		t.Errorf("existing config overwritten: %q", data)
	}
}

func TestConfigDir_Override(t *testing.T) {
	SetConfigDirOverride("/tmp/pzmm-test-config")
	t.Cleanup(Reset)

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if dir != "/tmp/pzmm-test-config" {
		t.Errorf("ConfigDir() = %q", dir)
	}
}

func TestConfig_Resolve(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if got := cfg.Resolve("core/logo.txt"); got != "core/logo.txt" {
		t.Errorf("Resolve() without base dir = %q", got)
	}

	cfg.BaseDir = "/opt/pzmm"
	if got := cfg.LogPath(); got != filepath.Join("/opt/pzmm", "log", "modmanager.log") {
		t.Errorf("LogPath() = %q", got)
	}
	if got := cfg.Resolve("/abs/logo.txt"); got != "/abs/logo.txt" {
		t.Errorf("Resolve() of absolute path = %q", got)
	}
}
