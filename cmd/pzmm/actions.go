// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pzmm/pzmm/internal/catalog"
	"github.com/pzmm/pzmm/internal/manager"
	"github.com/pzmm/pzmm/internal/prompt"
)

// actions run manager operations and report their outcome on out. The shell
// and the subcommands share them so both surfaces print the same messages.
type actions struct {
	app  *App
	sess *session
	out  io.Writer
}

func (a *App) actions(sess *session) *actions {
	return &actions{app: a, sess: sess, out: a.stdout}
}

func (x *actions) success(format string, args ...any) {
	fmt.Fprintln(x.out, SuccessStyle.Render(fmt.Sprintf(format, args...)))
}

func (x *actions) warning(format string, args ...any) {
	fmt.Fprintln(x.out, WarningStyle.Render("Warning: ")+fmt.Sprintf(format, args...))
}

// modTypePicker asks which mod types to scaffold after a mod was created.
type modTypePicker func() ([]catalog.ModType, error)

func (x *actions) create(ctx context.Context, name, basePath string, pick modTypePicker) error {
	if err := x.sess.mgr.Create(ctx, name, basePath); err != nil {
		return err
	}

	types, err := pick()
	if err != nil {
		return err
	}
	if len(types) > 0 {
		if err := x.sess.mgr.Scaffold(ctx, name, basePath, types); err != nil {
			return err
		}
		x.success("Successfully created mod structure for: %s", name)
	}
	x.success("Successfully registered mod: %s", name)
	return nil
}

func (x *actions) register(name, path string) error {
	if err := x.sess.mgr.Register(name, path); err != nil {
		return err
	}
	x.success("Successfully registered mod: %s", name)
	return nil
}

func (x *actions) install(ctx context.Context, name string) error {
	if err := x.sess.mgr.Install(ctx, name); err != nil {
		return err
	}
	x.success("Successfully installed mod: %s", name)
	return nil
}

func (x *actions) item(ctx context.Context, mod string, itemType catalog.ItemType, name string) error {
	if err := x.sess.mgr.CreateItem(ctx, mod, itemType, name); err != nil {
		return err
	}
	x.success("Successfully created %s item: %s", itemType, name)
	return nil
}

func (x *actions) recipe(ctx context.Context, req manager.RecipeRequest) error {
	res, err := x.sess.mgr.CreateRecipe(ctx, req)
	if out := strings.TrimRight(res.Stdout, "\n"); out != "" {
		fmt.Fprintln(x.out, VerboseStyle.Render(out))
	}
	if stderr := strings.TrimRight(res.Stderr, "\n"); stderr != "" {
		fmt.Fprintln(x.out, WarningStyle.Render("Error output: ")+stderr)
	}
	if err != nil {
		return err
	}

	if res.FileFound {
		x.success("Successfully created recipe: %s", req.Name)
		fmt.Fprintf(x.out, "Recipe file location: %s\n", CmdStyle.Render(res.ExpectedFile))
	} else {
		x.warning("Recipe created but file not found at expected location: %s", res.ExpectedFile)
	}
	return nil
}

func (x *actions) model(ctx context.Context, mod, name string) error {
	if err := x.sess.mgr.CreateModel(ctx, mod, name); err != nil {
		return err
	}
	x.success("Successfully created model: %s", name)
	return nil
}

func (x *actions) sound(ctx context.Context, mod, soundType, name string, extra []manager.NamedArg) error {
	if err := x.sess.mgr.CreateSound(ctx, mod, soundType, name, extra); err != nil {
		return err
	}
	x.success("Successfully created or updated sound: %s", name)
	return nil
}

func (x *actions) remove(name string) error {
	if err := x.sess.mgr.Delete(name); err != nil {
		return err
	}
	x.success("Removed mod: %s", name)
	return nil
}

func (x *actions) flush() error {
	if err := x.sess.mgr.Flush(); err != nil {
		return err
	}
	x.success("Flushed registry.")
	return nil
}

func (x *actions) validate() {
	invalid := x.sess.mgr.ValidatePaths()
	if len(invalid) == 0 {
		x.success("All mod paths are valid.")
		return
	}
	x.warning("The following mods have invalid paths:")
	for _, name := range invalid {
		fmt.Fprintf(x.out, "- %s\n", name)
	}
	fmt.Fprintln(x.out, "Check mod manager registry file for invalid entry.")
}

func (x *actions) list(format outputFormat) error {
	return renderMods(x.out, x.sess.mgr.List(), format)
}

func (x *actions) itemTypes() {
	prompt.Numbered(x.out, "Supported Item Types", stringsOf(catalog.ItemTypes()))
}

func (x *actions) recipeTypes() {
	prompt.Numbered(x.out, "Supported Recipe Types", stringsOf(catalog.RecipeTypes()))
}

func (x *actions) modTypes() {
	types := catalog.ModTypes()
	lines := make([]string, len(types))
	for i, t := range types {
		lines[i] = fmt.Sprintf("%s %s", t, SubtitleStyle.Render("("+strings.Join(t.Folders(), ", ")+")"))
	}
	prompt.Numbered(x.out, "Available mod types", lines)
}

// help runs the help script and falls back to the built-in help when the
// script is missing or fails.
func (x *actions) help(ctx context.Context) {
	err := x.sess.mgr.Help(ctx)
	if err == nil {
		return
	}
	x.sess.logger.Warn("Help script unavailable, showing built-in help", "err", err)
	fmt.Fprint(x.out, renderHelp(x.app.glamourStyle()))
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
