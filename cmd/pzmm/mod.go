// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pzmm/pzmm/internal/catalog"
	"github.com/pzmm/pzmm/internal/issue"
	"github.com/pzmm/pzmm/internal/prompt"
)

// withSession opens a session for one subcommand and closes it afterwards.
func (a *App) withSession(cmd *cobra.Command, fn func(ctx context.Context, x *actions) error) error {
	sess, err := a.open(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()
	return fn(cmd.Context(), a.actions(sess))
}

func newCreateCommand(app *App) *cobra.Command {
	var (
		name  string
		path  string
		types []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new mod",
		Long: `Create a new mod folder with the create_mod script and register it.

Mod types add their standard folders to the new mod. Without --type and on a
terminal, pzmm offers the list of mod types to choose from.`,
		Example: `  pzmm create --name MyMod --path ./mods
  pzmm create --name MyMod --path ./mods --type Lua --type Items`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			picked, err := parseModTypes(types)
			if err != nil {
				return err
			}
			return app.withSession(cmd, func(ctx context.Context, x *actions) error {
				return x.create(ctx, name, path, app.flagModTypes(picked))
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "mod name")
	cmd.Flags().StringVar(&path, "path", "", "directory the mod folder is created in")
	cmd.Flags().StringArrayVar(&types, "type", nil, "mod type to scaffold (repeatable, see 'pzmm modtypes')")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

func parseModTypes(values []string) ([]catalog.ModType, error) {
	types := make([]catalog.ModType, 0, len(values))
	for _, v := range values {
		t, err := catalog.ParseModType(v)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("create mod").
				WithResource(v).
				WithSuggestion("Run 'pzmm modtypes' to see the available mod types").
				Wrap(err).
				BuildError()
		}
		types = append(types, t)
	}
	return types, nil
}

// flagModTypes returns the types given on the command line, or asks with a
// multi-select form when none were given and rich prompts are possible.
func (a *App) flagModTypes(picked []catalog.ModType) modTypePicker {
	return func() ([]catalog.ModType, error) {
		if len(picked) > 0 || !a.rich() {
			return picked, nil
		}
		chosen, err := prompt.NewRich(false).MultiSelect("Mod types to add", stringsOf(catalog.ModTypes()))
		if err != nil {
			return nil, err
		}
		types := make([]catalog.ModType, len(chosen))
		for i, c := range chosen {
			types[i] = catalog.ModType(c)
		}
		return types, nil
	}
}

func newRegisterCommand(app *App) *cobra.Command {
	var name, path string

	cmd := &cobra.Command{
		Use:     "register",
		Short:   "Register an existing mod folder",
		Example: `  pzmm register --name MyMod --path ~/Zomboid/mods/MyMod`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.withSession(cmd, func(_ context.Context, x *actions) error {
				return x.register(name, path)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "mod name")
	cmd.Flags().StringVar(&path, "path", "", "existing mod folder")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

func newInstallCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "install <mod>",
		Short: "Install a registered mod",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withSession(cmd, func(ctx context.Context, x *actions) error {
				return x.install(ctx, args[0])
			})
		},
	}
}

func newDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <mod>",
		Aliases: []string{"remove"},
		Short:   "Remove a mod from the registry",
		Long:    "Remove a mod from the registry. The mod folder itself is left alone.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withSession(cmd, func(_ context.Context, x *actions) error {
				return x.remove(args[0])
			})
		},
	}
}

func newListCommand(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered mods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}
			return app.withSession(cmd, func(_ context.Context, x *actions) error {
				return x.list(format)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", string(outputTable), "output format (table, json, toml)")
	return cmd
}

func newFlushCommand(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "flush",
		Short: "Clear the registry",
		Long: `Clear the registry. Every registered mod is forgotten; mod folders are
left alone. Asks for confirmation unless --yes is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.withSession(cmd, func(_ context.Context, x *actions) error {
				if !yes {
					ok, err := app.confirm("This removes every registered mod. Continue?")
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(app.stdout, "Flush cancelled.")
						return nil
					}
				}
				return x.flush()
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// confirm asks with a huh form on a terminal and on stdin otherwise. An
// empty stdin counts as no.
func (a *App) confirm(question string) (bool, error) {
	if a.rich() {
		return prompt.NewRich(false).Confirm(question)
	}
	ok, err := a.prompter().Confirm(question)
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(a.stdout)
		return false, nil
	}
	return ok, err
}

func newValidateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Find registered mods whose folders are missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.withSession(cmd, func(_ context.Context, x *actions) error {
				x.validate()
				return nil
			})
		},
	}
}

// newCatalogCommands returns itemtypes, recipetypes and modtypes. They only
// print static tables and need no session.
func newCatalogCommands(app *App) []*cobra.Command {
	listing := func(use, short string, show func(x *actions)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				show(&actions{app: app, out: app.stdout})
				return nil
			},
		}
	}

	return []*cobra.Command{
		listing("itemtypes", "Show supported item types", (*actions).itemTypes),
		listing("recipetypes", "Show supported recipe types", (*actions).recipeTypes),
		listing("modtypes", "Show mod types and their folders", (*actions).modTypes),
	}
}
