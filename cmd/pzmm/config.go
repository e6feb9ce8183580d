// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pzmm/pzmm/internal/config"
	"github.com/pzmm/pzmm/internal/coreutils"
	"github.com/pzmm/pzmm/internal/issue"
)

func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pzmm configuration",
		Long: `Manage pzmm configuration.

Configuration is read from ./config.cue or from:
  - Linux: ~/.config/pzmm/config.cue
  - macOS: ~/Library/Application Support/pzmm/config.cue
  - Windows: %APPDATA%\pzmm\config.cue`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return initConfig(app)
		},
	})

	return cfgCmd
}

func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	return a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.configFile})
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		if rendered, rerr := issue.Get(issue.ConfigLoadFailedId).Render(app.glamourStyle()); rerr == nil {
			fmt.Fprint(app.stderr, rendered)
		}
		return err
	}

	w := app.stdout
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	value := func(key string, v any) {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render(key), valueStyle.Render(fmt.Sprint(v)))
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	path, err := app.Config.Path(config.LoadOptions{ConfigFilePath: app.configFile})
	if err != nil || path == "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	}
	fmt.Fprintln(w)

	value("base_dir", displayDir(cfg.BaseDir))
	value("registry_file", cfg.RegistryPath())
	value("log_file", cfg.LogPath())
	value("logo_file", cfg.LogoPath())
	value("executor", cfg.Executor)
	value("shell", cfg.Shell)
	value("builtin_utils", cfg.BuiltinUtils)
	if cfg.BuiltinUtils {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("("+strings.Join(coreutils.Default().Names(), ", ")+")"))
	}
	value("log_level", cfg.LogLevel)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("scripts"))
	if len(cfg.Scripts.Windows) == 0 && len(cfg.Scripts.Unix) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(built-in table)"))
	} else {
		writeOverrides(w, "windows", cfg.Scripts.Windows)
		writeOverrides(w, "unix", cfg.Scripts.Unix)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprint(cfg.UI.Verbose)))
	fmt.Fprintf(w, "  rich_prompts: %s\n", valueStyle.Render(fmt.Sprint(cfg.UI.RichPrompts)))
	return nil
}

func displayDir(dir string) string {
	if dir == "" {
		return "(working directory)"
	}
	return dir
}

func writeOverrides(w io.Writer, platform string, table map[string]string) {
	for _, op := range slices.Sorted(maps.Keys(table)) {
		fmt.Fprintf(w, "  %s.%s: %s\n", platform, op, SuccessStyle.Render(fmt.Sprintf("%q", table[op])))
	}
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)

	path, err := app.Config.Path(config.LoadOptions{ConfigFilePath: app.configFile})
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Fprintln(app.stdout, "Config file: (none, using defaults)")
		return nil
	}
	fmt.Fprintf(app.stdout, "Config file: %s\n", path)
	return nil
}

func initConfig(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	path, wrote, err := config.CreateDefaultConfig(app.fs, cfgDir)
	if err != nil {
		return issue.WrapWithContext(err, "create configuration", cfgDir)
	}
	if !wrote {
		fmt.Fprintf(app.stdout, "Configuration already exists at %s\n", path)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}
