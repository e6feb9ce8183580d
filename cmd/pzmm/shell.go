// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pzmm/pzmm/internal/catalog"
	"github.com/pzmm/pzmm/internal/issue"
	"github.com/pzmm/pzmm/internal/manager"
	"github.com/pzmm/pzmm/internal/prompt"
)

const (
	shellPrompt    = "\n> "
	interruptHint  = "Use 'exit' to quit the program."
	unknownCommand = "Unknown command. Type 'help' for available commands."
)

type (
	// shell is the interactive read-prompt-dispatch loop.
	shell struct {
		app  *App
		sess *session
		act  *actions
		in   *prompt.Prompter
		out  io.Writer
	}

	shellHandler func(ctx context.Context) error
)

func newShellCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell",
		Long: `Start the interactive shell.

The shell reads one command per line and prompts for the values each command
needs. Type 'help' for the list of commands and 'exit' to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd.Context(), app)
		},
	}
}

func runShell(ctx context.Context, app *App) error {
	sess, err := app.open(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	sh := &shell{
		app:  app,
		sess: sess,
		act:  app.actions(sess),
		in:   app.prompter(),
		out:  app.stdout,
	}

	interrupts, stop := app.interruptSource()
	defer stop()
	sh.in.SetInterrupts(interrupts)
	defer sh.in.SetInterrupts(nil)

	sh.start(ctx)
	return sh.loop(ctx)
}

// start prints the banner, the logo and the help.
func (sh *shell) start(ctx context.Context) {
	fmt.Fprintln(sh.out, TitleStyle.Render(fmt.Sprintf("%s (Running on %s)", productName, sh.sess.kind)))
	fmt.Fprintln(sh.out, readLogo(sh.app.fs, sh.sess.cfg.LogoPath()))
	sh.act.help(ctx)
}

// loop dispatches commands until exit, quit or the end of input.
func (sh *shell) loop(ctx context.Context) error {
	handlers := sh.handlers()
	for {
		line, err := sh.in.Line(shellPrompt)
		if err != nil {
			if errors.Is(err, prompt.ErrInterrupted) {
				sh.interrupted()
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(sh.out)
				fmt.Fprintln(sh.out, "Goodbye!")
				return nil
			}
			return err
		}

		command := strings.ToLower(line)
		switch command {
		case "":
			continue
		case "exit", "quit":
			fmt.Fprintln(sh.out, "Goodbye!")
			return nil
		}

		handler, ok := handlers[command]
		if !ok {
			fmt.Fprintln(sh.out, unknownCommand)
			continue
		}
		sh.dispatch(ctx, command, handler)
	}
}

// dispatch runs one command. Panics and unclassified errors are logged and
// reported without ending the loop.
func (sh *shell) dispatch(ctx context.Context, command string, handler shellHandler) {
	defer func() {
		if r := recover(); r != nil {
			sh.sess.logger.Error("Unexpected error", "command", command, "panic", r, "stack", string(debug.Stack()))
			sh.unexpected()
		}
	}()

	if err := handler(ctx); err != nil {
		sh.report(command, err)
	}
}

func (sh *shell) report(command string, err error) {
	switch {
	case errors.Is(err, io.EOF):
		return
	case errors.Is(err, prompt.ErrInterrupted):
		sh.interrupted()
		return
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		sh.app.printError(sh.out, err)
		return
	}
	sh.sess.logger.Error("Unexpected error", "command", command, "err", err)
	sh.unexpected()
}

func (sh *shell) unexpected() {
	fmt.Fprintln(sh.out, ErrorStyle.Render(fmt.Sprintf("An error occurred. See %s for details.", sh.sess.cfg.LogPath())))
}

// interruptSource returns the channel that abandons a pending prompt. Without
// an injected channel it subscribes to os.Interrupt until stop is called.
func (a *App) interruptSource() (ch <-chan os.Signal, stop func()) {
	if a.interrupts != nil {
		return a.interrupts, func() {}
	}
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	return sigs, func() { signal.Stop(sigs) }
}

func (sh *shell) interrupted() {
	fmt.Fprintln(sh.out, "\n"+interruptHint)
}

func (sh *shell) handlers() map[string]shellHandler {
	return map[string]shellHandler{
		"help": func(ctx context.Context) error {
			sh.act.help(ctx)
			return nil
		},
		"create":   sh.create,
		"register": sh.register,
		"recipe":   sh.recipe,
		"item":     sh.item,
		"itemtypes": func(context.Context) error {
			sh.act.itemTypes()
			return nil
		},
		"recipetypes": func(context.Context) error {
			sh.act.recipeTypes()
			return nil
		},
		"modtypes": func(context.Context) error {
			sh.act.modTypes()
			return nil
		},
		"model":   sh.model,
		"sound":   sh.sound,
		"install": sh.install,
		"delete":  sh.remove,
		"flush":   sh.flush,
		"list": func(context.Context) error {
			return sh.act.list(outputTable)
		},
		"validate": func(context.Context) error {
			sh.act.validate()
			return nil
		},
	}
}

// ask reads answers for labels in order and stops at the first error.
func (sh *shell) ask(labels ...string) ([]string, error) {
	answers := make([]string, len(labels))
	for i, label := range labels {
		s, err := sh.in.Line(label)
		if err != nil {
			return nil, err
		}
		answers[i] = s
	}
	return answers, nil
}

func (sh *shell) create(ctx context.Context) error {
	a, err := sh.ask("Mod name: ", "Mod directory path: ")
	if err != nil {
		return err
	}
	return sh.act.create(ctx, a[0], a[1], sh.pickModTypes)
}

// pickModTypes reads mod types one per line until quit or done.
func (sh *shell) pickModTypes() ([]catalog.ModType, error) {
	sh.act.modTypes()

	var selected []catalog.ModType
	for {
		s, err := sh.in.Line("Enter a mod type to add (or type 'quit' to finish): ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return selected, nil
			}
			return nil, err
		}
		switch strings.ToLower(s) {
		case "quit", "done":
			return selected, nil
		case "":
			continue
		}

		t, err := catalog.ParseModType(s)
		if err != nil {
			fmt.Fprintf(sh.out, "Invalid mod type '%s'. Try again.\n", s)
			continue
		}
		selected = append(selected, t)
	}
}

func (sh *shell) register(_ context.Context) error {
	a, err := sh.ask("Mod name: ", "Existing mod directory path: ")
	if err != nil {
		return err
	}
	return sh.act.register(a[0], a[1])
}

func (sh *shell) recipe(ctx context.Context) error {
	mod, err := sh.in.Line("Mod name to add recipe to: ")
	if err != nil {
		return err
	}
	if err := sh.sess.mgr.Require("create recipe", mod); err != nil {
		return err
	}

	sh.act.recipeTypes()
	a, err := sh.ask("Recipe type: ", "Recipe name: ", "Result item: ")
	if err != nil {
		return err
	}
	req := manager.RecipeRequest{
		Mod:        mod,
		Type:       catalog.RecipeType(a[0]),
		Name:       a[1],
		ResultItem: a[2],
	}

	if req.Ingredients, err = sh.ingredients(); err != nil {
		return err
	}
	if req.ResultCount, err = sh.in.IntDefault(
		fmt.Sprintf("How many '%s' does this recipe produce? ", req.ResultItem), catalog.DefaultResultCount); err != nil {
		return err
	}
	if req.Minutes, err = sh.in.IntDefault(
		"How much time does this recipe take (in minutes)? ", catalog.DefaultCraftMinutes); err != nil {
		return err
	}

	skill, err := sh.in.Line("Required skill (leave blank for none): ")
	if err != nil {
		return err
	}
	if skill != "" {
		level, err := sh.in.IntDefault(fmt.Sprintf("Required level for %s: ", skill), catalog.DefaultSkillLevel)
		if err != nil {
			return err
		}
		req.Skill = &manager.Skill{Name: skill, Level: level}
	}

	return sh.act.recipe(ctx, req)
}

// ingredients reads ingredient names and counts until done.
func (sh *shell) ingredients() ([]manager.Ingredient, error) {
	fmt.Fprintln(sh.out, "\nAdd ingredients for the recipe (type 'done' when finished):")

	var list []manager.Ingredient
	for {
		name, err := sh.in.Line("Ingredient name (or 'done' to finish): ")
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(name, "done") {
			return list, nil
		}
		if name == "" {
			continue
		}
		count, err := sh.in.Int(fmt.Sprintf("How many '%s' are needed? ", name))
		if err != nil {
			return nil, err
		}
		list = append(list, manager.Ingredient{Name: name, Count: count})
	}
}

func (sh *shell) item(ctx context.Context) error {
	mod, err := sh.in.Line("Mod name to add item to: ")
	if err != nil {
		return err
	}
	sh.act.itemTypes()
	a, err := sh.ask("Item type: ", "Item name: ")
	if err != nil {
		return err
	}
	return sh.act.item(ctx, mod, catalog.ItemType(a[0]), a[1])
}

func (sh *shell) model(ctx context.Context) error {
	a, err := sh.ask("Mod name: ", "Model name: ")
	if err != nil {
		return err
	}
	return sh.act.model(ctx, a[0], a[1])
}

func (sh *shell) sound(ctx context.Context) error {
	a, err := sh.ask(
		"Mod name: ",
		"Sound type (e.g., SFX, Music, etc.): ",
		"Sound name: ",
		`Sound file path (e.g., C:\Sounds\ZombieGrowl.wav): `,
	)
	if err != nil {
		return err
	}
	volume, err := sh.in.Default("Volume (default is 1.0): ", defaultVolume)
	if err != nil {
		return err
	}
	looping, err := sh.in.Default("Looping (true/false, default is false): ", defaultLooping)
	if err != nil {
		return err
	}
	return sh.act.sound(ctx, a[0], a[1], a[2], soundArgs(a[3], volume, strings.ToLower(looping), nil))
}

func (sh *shell) install(ctx context.Context) error {
	name, err := sh.in.Line("Mod name to install: ")
	if err != nil {
		return err
	}
	return sh.act.install(ctx, name)
}

func (sh *shell) remove(_ context.Context) error {
	name, err := sh.in.Line("Mod name to remove: ")
	if err != nil {
		return err
	}
	return sh.act.remove(name)
}

func (sh *shell) flush(_ context.Context) error {
	ok, err := sh.in.Confirm("This removes every registered mod. Continue?")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(sh.out, "Flush cancelled.")
		return nil
	}
	return sh.act.flush()
}
