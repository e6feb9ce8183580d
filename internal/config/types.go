// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// ExecutorNative runs scripts as child processes.
	ExecutorNative ExecutorName = "native"
	// ExecutorVirtual runs scripts in the embedded mvdan/sh interpreter.
	ExecutorVirtual ExecutorName = "virtual"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidExecutor is returned when an ExecutorName value is not recognized.
	ErrInvalidExecutor = errors.New("invalid executor")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ExecutorName selects the script executor.
	ExecutorName string

	// InvalidExecutorError is returned when an ExecutorName value is not recognized.
	// It wraps ErrInvalidExecutor for errors.Is() compatibility.
	InvalidExecutorError struct {
		Value ExecutorName
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// LogLevel is the minimum severity written to the log file.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It collects field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// BaseDir is the directory relative paths are resolved against.
		// Empty means the current working directory.
		BaseDir string `json:"base_dir" mapstructure:"base_dir"`
		// RegistryFile is the mod registry JSON file.
		RegistryFile string `json:"registry_file" mapstructure:"registry_file"`
		// LogFile receives the application log.
		LogFile string `json:"log_file" mapstructure:"log_file"`
		// LogoFile is printed when the shell starts.
		LogoFile string `json:"logo_file" mapstructure:"logo_file"`
		// Executor selects how scripts run ("native" or "virtual").
		Executor ExecutorName `json:"executor" mapstructure:"executor"`
		// Shell interprets Unix scripts for the native executor.
		Shell string `json:"shell" mapstructure:"shell"`
		// BuiltinUtils serves mkdir, cp and similar utilities from the virtual
		// executor instead of host binaries.
		BuiltinUtils bool `json:"builtin_utils" mapstructure:"builtin_utils"`
		// LogLevel is the minimum severity written to the log file.
		LogLevel LogLevel `json:"log_level" mapstructure:"log_level"`
		// Scripts overrides entries of the built-in script table.
		Scripts ScriptsConfig `json:"scripts" mapstructure:"scripts"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// ScriptsConfig holds per-platform script path overrides keyed by operation.
	ScriptsConfig struct {
		Windows map[string]string `json:"windows" mapstructure:"windows"`
		Unix    map[string]string `json:"unix" mapstructure:"unix"`
	}

	// UIConfig contains UI-related settings.
	UIConfig struct {
		// ColorScheme sets the color scheme ("auto", "dark", "light")
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose error output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// RichPrompts enables huh forms in flag mode when stdin is a terminal
		RichPrompts bool `json:"rich_prompts" mapstructure:"rich_prompts"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseDir:      "",
		RegistryFile: filepath.Join("core", "modmanager_registry.json"),
		LogFile:      filepath.Join("log", "modmanager.log"),
		LogoFile:     filepath.Join("core", "logo.txt"),
		Executor:     ExecutorNative,
		Shell:        "bash",
		BuiltinUtils: true,
		LogLevel:     LogLevelInfo,
		Scripts: ScriptsConfig{
			Windows: map[string]string{},
			Unix:    map[string]string{},
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
			RichPrompts: true,
		},
	}
}

// Resolve returns path unchanged when absolute, otherwise joined to BaseDir.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.BaseDir == "" {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}

// RegistryPath returns the resolved registry file path.
func (c *Config) RegistryPath() string { return c.Resolve(c.RegistryFile) }

// LogPath returns the resolved log file path.
func (c *Config) LogPath() string { return c.Resolve(c.LogFile) }

// LogoPath returns the resolved logo file path.
func (c *Config) LogoPath() string { return c.Resolve(c.LogoFile) }

// Validate returns nil if the Config has valid fields,
// or an error collecting all field-level validation errors.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Executor.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.LogLevel.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.RegistryFile) == "" {
		errs = append(errs, errors.New("registry_file must not be empty"))
	}
	if strings.TrimSpace(c.LogFile) == "" {
		errs = append(errs, errors.New("log_file must not be empty"))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Validate returns nil for a recognized executor name.
func (e ExecutorName) Validate() error {
	switch e {
	case ExecutorNative, ExecutorVirtual:
		return nil
	default:
		return &InvalidExecutorError{Value: e}
	}
}

// String returns the string representation of the ExecutorName.
func (e ExecutorName) String() string { return string(e) }

// Validate returns nil for a recognized color scheme.
func (cs ColorScheme) Validate() error {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: cs}
	}
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// Validate returns nil for a recognized log level.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// Error implements the error interface.
func (e *InvalidExecutorError) Error() string {
	return fmt.Sprintf("invalid executor %q (valid: native, virtual)", e.Value)
}

// Unwrap returns ErrInvalidExecutor so callers can use errors.Is for programmatic detection.
func (e *InvalidExecutorError) Unwrap() error { return ErrInvalidExecutor }

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme so callers can use errors.Is for programmatic detection.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel so callers can use errors.Is for programmatic detection.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns the sentinel and the field errors so errors.Is reaches both.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
