// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the pzmm command tree around app. Without a
// subcommand it starts the interactive shell.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pzmm",
		Short: "Create and manage Project Zomboid mods",
		Long: TitleStyle.Render("pzmm") + SubtitleStyle.Render(" - "+productName) + `

pzmm keeps a registry of your mods and runs the bundled scripts that create
mod folders, items, recipes, models and sounds.

Run without arguments to start the interactive shell, or use the
subcommands below from scripts.

` + SubtitleStyle.Render("Examples:") + `
  pzmm                                       Start the interactive shell
  pzmm create --name MyMod --path ./mods     Create and register a mod
  pzmm list -o json                          List registered mods as JSON
  pzmm config show                           Show current configuration`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd.Context(), app)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.configFile, "config", "", "config file (default is $HOME/.config/pzmm/config.cue)")

	rootCmd.AddCommand(
		newShellCommand(app),
		newCreateCommand(app),
		newRegisterCommand(app),
		newInstallCommand(app),
		newDeleteCommand(app),
		newListCommand(app),
		newValidateCommand(app),
		newFlushCommand(app),
		newItemCommand(app),
		newRecipeCommand(app),
		newModelCommand(app),
		newSoundCommand(app),
		newConfigCommand(app),
	)
	rootCmd.AddCommand(newCatalogCommands(app)...)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// handleError prints command errors. An ExitError without a cause has
// already been reported.
func (a *App) handleError(w io.Writer, _ fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	a.printError(w, err)
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithErrorHandler(app.handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}
