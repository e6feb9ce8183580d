// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pzmm/pzmm/internal/catalog"
	"github.com/pzmm/pzmm/internal/issue"
	"github.com/pzmm/pzmm/internal/manager"
)

const (
	defaultVolume  = "1.0"
	defaultLooping = "false"
)

func newItemCommand(app *App) *cobra.Command {
	var mod, itemType, name string

	cmd := &cobra.Command{
		Use:     "item",
		Short:   "Add an item to a mod",
		Example: `  pzmm item --mod MyMod --type "Alarm Clock" --name "Old Clock"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.withSession(cmd, func(ctx context.Context, x *actions) error {
				return x.item(ctx, mod, catalog.ItemType(itemType), name)
			})
		},
	}

	cmd.Flags().StringVar(&mod, "mod", "", "registered mod name")
	cmd.Flags().StringVar(&itemType, "type", "", "item type (see 'pzmm itemtypes')")
	cmd.Flags().StringVar(&name, "name", "", "item name")
	for _, f := range []string{"mod", "type", "name"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newRecipeCommand(app *App) *cobra.Command {
	var (
		req         manager.RecipeRequest
		recipeType  string
		ingredients []string
		skill       string
		skillLevel  int
	)

	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Add a crafting recipe to a mod",
		Example: `  pzmm recipe --mod MyMod --name "Make Barricade" --type Carpentry --result Barricade \
    --ingredient Plank:2 --ingredient Nails:4 --time 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.Type = catalog.RecipeType(recipeType)
			for _, s := range ingredients {
				ing, err := manager.ParseIngredient(s)
				if err != nil {
					return issue.NewErrorContext().
						WithOperation("create recipe").
						WithResource(req.Name).
						WithSuggestion("Write ingredients as name:count, for example Plank:2").
						Wrap(err).
						BuildError()
				}
				req.Ingredients = append(req.Ingredients, ing)
			}
			if skill != "" {
				req.Skill = &manager.Skill{Name: skill, Level: skillLevel}
			}
			return app.withSession(cmd, func(ctx context.Context, x *actions) error {
				return x.recipe(ctx, req)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Mod, "mod", "", "registered mod name")
	f.StringVar(&req.Name, "name", "", "recipe name")
	f.StringVar(&recipeType, "type", "", "recipe type (see 'pzmm recipetypes')")
	f.StringVar(&req.ResultItem, "result", "", "item the recipe produces")
	f.StringArrayVar(&ingredients, "ingredient", nil, "ingredient as name:count (repeatable)")
	f.IntVar(&req.ResultCount, "count", catalog.DefaultResultCount, "number of result items")
	f.IntVar(&req.Minutes, "time", catalog.DefaultCraftMinutes, "crafting time in minutes")
	f.StringVar(&skill, "skill", "", "required skill")
	f.IntVar(&skillLevel, "skill-level", catalog.DefaultSkillLevel, "required skill level")
	for _, name := range []string{"mod", "name", "type", "result"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newModelCommand(app *App) *cobra.Command {
	var mod, name string

	cmd := &cobra.Command{
		Use:   "model",
		Short: "Add a model to a mod",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.withSession(cmd, func(ctx context.Context, x *actions) error {
				return x.model(ctx, mod, name)
			})
		},
	}

	cmd.Flags().StringVar(&mod, "mod", "", "registered mod name")
	cmd.Flags().StringVar(&name, "name", "", "model name")
	_ = cmd.MarkFlagRequired("mod")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newSoundCommand(app *App) *cobra.Command {
	var (
		mod, soundType, name  string
		file, volume, looping string
		extra                 []string
	)

	cmd := &cobra.Command{
		Use:   "sound",
		Short: "Add or update a sound in a mod",
		Long: `Add or update a sound in a mod.

The sound file, volume and looping settings are passed to the create_sound
script as key=value arguments, followed by any --arg values.`,
		Example: `  pzmm sound --mod MyMod --type SFX --name Growl --file ./growl.wav --arg category=Zombie`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			named := make([]manager.NamedArg, 0, len(extra))
			for _, s := range extra {
				a, err := manager.ParseNamedArg(s)
				if err != nil {
					return issue.WrapWithOperation(err, "create sound")
				}
				named = append(named, a)
			}
			return app.withSession(cmd, func(ctx context.Context, x *actions) error {
				return x.sound(ctx, mod, soundType, name, soundArgs(file, volume, looping, named))
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&mod, "mod", "", "registered mod name")
	f.StringVar(&soundType, "type", "", "sound type, for example SFX or Music")
	f.StringVar(&name, "name", "", "sound name")
	f.StringVar(&file, "file", "", "sound file path")
	f.StringVar(&volume, "volume", defaultVolume, "playback volume")
	f.StringVar(&looping, "looping", defaultLooping, "whether the sound loops (true/false)")
	f.StringArrayVar(&extra, "arg", nil, "extra key=value argument for the script (repeatable)")
	for _, n := range []string{"mod", "type", "name"} {
		_ = cmd.MarkFlagRequired(n)
	}
	return cmd
}

// soundArgs builds the key=value arguments of create_sound: the file path,
// volume and looping settings first, then extra.
func soundArgs(file, volume, looping string, extra []manager.NamedArg) []manager.NamedArg {
	args := []manager.NamedArg{
		{Key: "sound_path", Value: file},
		{Key: "volume", Value: volume},
		{Key: "looping", Value: looping},
	}
	return append(args, extra...)
}
