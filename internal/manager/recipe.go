// SPDX-License-Identifier: MPL-2.0

package manager

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pzmm/pzmm/internal/catalog"
	"github.com/pzmm/pzmm/internal/issue"
	"github.com/pzmm/pzmm/internal/platform"
)

type (
	// Ingredient is one recipe input.
	Ingredient struct {
		Name  string
		Count int
	}

	// Skill is an optional skill requirement for a recipe.
	Skill struct {
		Name  string
		Level int
	}

	// RecipeRequest holds everything the create_recipe script needs.
	RecipeRequest struct {
		Mod         string
		Name        string
		Type        catalog.RecipeType
		ResultItem  string
		Ingredients []Ingredient
		// ResultCount defaults to catalog.DefaultResultCount when not positive.
		ResultCount int
		// Minutes defaults to catalog.DefaultCraftMinutes when not positive.
		Minutes int
		// Skill is nil when the recipe needs no skill.
		Skill *Skill
	}

	// RecipeResult reports the script output and whether the recipe file
	// appeared where the script conventionally writes it. FileFound is
	// advisory: scripts are free to write elsewhere.
	RecipeResult struct {
		Stdout       string
		Stderr       string
		ExpectedFile string
		FileFound    bool
	}
)

// String renders the ingredient as name:count.
func (i Ingredient) String() string {
	return i.Name + ":" + strconv.Itoa(i.Count)
}

// ParseIngredient parses "name:count". The count is split at the last colon.
func ParseIngredient(s string) (Ingredient, error) {
	idx := strings.LastIndex(s, ":")
	if idx <= 0 {
		return Ingredient{}, fmt.Errorf("%w: %q is not name:count", ErrInvalidIngredient, s)
	}
	name := strings.TrimSpace(s[:idx])
	count, err := strconv.Atoi(strings.TrimSpace(s[idx+1:]))
	if name == "" || err != nil || count < 0 {
		return Ingredient{}, fmt.Errorf("%w: %q is not name:count", ErrInvalidIngredient, s)
	}
	return Ingredient{Name: name, Count: count}, nil
}

// JoinIngredients renders ingredients as a comma-joined name:count list.
func JoinIngredients(ingredients []Ingredient) string {
	parts := make([]string, len(ingredients))
	for i, ing := range ingredients {
		parts[i] = ing.String()
	}
	return strings.Join(parts, ",")
}

// withDefaults replaces counts that are not positive and negative skill
// levels with their defaults, and normalizes an unnamed skill to none. The
// shell prompts apply the same rule to typed answers.
func (r RecipeRequest) withDefaults() RecipeRequest {
	if r.ResultCount <= 0 {
		r.ResultCount = catalog.DefaultResultCount
	}
	if r.Minutes <= 0 {
		r.Minutes = catalog.DefaultCraftMinutes
	}
	if r.Skill != nil && strings.TrimSpace(r.Skill.Name) == "" {
		r.Skill = nil
	}
	if r.Skill != nil && r.Skill.Level < 0 {
		skill := *r.Skill
		skill.Level = catalog.DefaultSkillLevel
		r.Skill = &skill
	}
	return r
}

// args builds the create_recipe argument vector:
// mod, name, type, result item, ingredients, result count, minutes, skill,
// skill level, mod path. An absent skill contributes two empty strings.
func (r RecipeRequest) args(modPath string) []string {
	skill, level := "", ""
	if r.Skill != nil {
		skill = r.Skill.Name
		level = strconv.Itoa(r.Skill.Level)
	}
	return []string{
		r.Mod,
		r.Name,
		string(r.Type),
		r.ResultItem,
		JoinIngredients(r.Ingredients),
		strconv.Itoa(r.ResultCount),
		strconv.Itoa(r.Minutes),
		skill,
		level,
		modPath,
	}
}

// ExpectedRecipeFile returns where the create_recipe script conventionally
// writes recipes for mod.
func ExpectedRecipeFile(modPath, mod string) string {
	return filepath.Join(modPath, "media", "scripts", mod+"_Recipes.txt")
}

// CreateRecipe validates req, runs the create_recipe script with captured
// output and checks for the conventional recipe file afterwards. The result
// carries the script output even when the script fails.
func (m *Manager) CreateRecipe(ctx context.Context, req RecipeRequest) (RecipeResult, error) {
	const op = "create recipe"

	rec, err := m.lookup(op, req.Mod)
	if err != nil {
		return RecipeResult{}, err
	}
	script, err := m.script(op, platform.OpCreateRecipe)
	if err != nil {
		return RecipeResult{}, err
	}
	if !m.pathExists(rec.ModPath) {
		m.logger.Error("Mod path does not exist", "mod", req.Mod, "path", rec.ModPath)
		return RecipeResult{}, pathError(op, rec.ModPath, ErrInvalidModPath, issue.InvalidModPathId)
	}
	if err := req.Type.Validate(); err != nil {
		return RecipeResult{}, issue.NewErrorContext().
			WithOperation(op).
			WithResource(req.Name).
			WithSuggestion("Run 'recipetypes' to see the supported recipe types").
			WithIssue(issue.InvalidRecipeTypeId).
			Wrap(err).
			BuildError()
	}
	if len(req.Ingredients) == 0 {
		return RecipeResult{}, issue.NewErrorContext().
			WithOperation(op).
			WithResource(req.Name).
			WithSuggestion("Add ingredients as name:count, for example Plank:2").
			Wrap(ErrNoIngredients).
			BuildError()
	}
	for _, ing := range req.Ingredients {
		if strings.TrimSpace(ing.Name) == "" || ing.Count < 0 {
			return RecipeResult{}, issue.NewErrorContext().
				WithOperation(op).
				WithResource(req.Name).
				WithSuggestion("Every ingredient needs a name and a count of zero or more").
				Wrap(ErrInvalidIngredient).
				BuildError()
		}
	}

	req = req.withDefaults()
	res, runErr := m.run(ctx, op, req.Name, script, req.args(rec.ModPath), true)

	result := RecipeResult{
		Stdout:       res.Stdout,
		Stderr:       res.Stderr,
		ExpectedFile: ExpectedRecipeFile(rec.ModPath, req.Mod),
	}
	if runErr != nil {
		return result, runErr
	}

	result.FileFound = m.pathExists(result.ExpectedFile)
	if result.FileFound {
		m.logger.Info("Successfully created recipe", "recipe", req.Name, "file", result.ExpectedFile)
	} else {
		m.logger.Warn("Recipe created but file not found at expected location", "file", result.ExpectedFile)
	}
	return result, nil
}
