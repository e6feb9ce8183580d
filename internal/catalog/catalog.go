// SPDX-License-Identifier: MPL-2.0

// Package catalog holds the fixed tables pzmm validates user input against:
// item types, recipe types and the mod type to folder mapping used when
// scaffolding a new mod.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	ItemWeapon     ItemType = "Weapon"
	ItemFood       ItemType = "Food"
	ItemClothing   ItemType = "Clothing"
	ItemLiterature ItemType = "Literature"
	ItemDrainable  ItemType = "Drainable"
	ItemRadio      ItemType = "Radio"
	ItemAlarmClock ItemType = "Alarm Clock"
	ItemKey        ItemType = "Key"
	ItemTool       ItemType = "Tool"

	RecipeStandard  RecipeType = "Standard"
	RecipeCrafting  RecipeType = "Crafting"
	RecipeMedical   RecipeType = "Medical"
	RecipeCarpentry RecipeType = "Carpentry"
	RecipeMechanics RecipeType = "Mechanics"

	ModAnimation ModType = "Animation"
	ModClothing  ModType = "Clothing"
	ModFonts     ModType = "Fonts"
	ModTextures  ModType = "Textures"
	ModSound     ModType = "Sound"
	ModModels    ModType = "Models"
	ModItems     ModType = "Items"
	ModMaps      ModType = "Maps"
	ModLua       ModType = "Lua"
	ModUi        ModType = "Ui"

	// DefaultResultCount is used when a recipe result count is missing or not a number.
	DefaultResultCount = 1
	// DefaultCraftMinutes is used when a recipe time is missing or not a number.
	DefaultCraftMinutes = 100
	// DefaultSkillLevel is used when a skill is named but its level is not a number.
	DefaultSkillLevel = 0
)

var (
	// ErrInvalidItemType is returned when an ItemType value is not recognized.
	ErrInvalidItemType = errors.New("invalid item type")
	// ErrInvalidRecipeType is returned when a RecipeType value is not recognized.
	ErrInvalidRecipeType = errors.New("invalid recipe type")
	// ErrInvalidModType is returned when a ModType value is not recognized.
	ErrInvalidModType = errors.New("invalid mod type")

	itemTypes = []ItemType{
		ItemWeapon, ItemFood, ItemClothing, ItemLiterature, ItemDrainable,
		ItemRadio, ItemAlarmClock, ItemKey, ItemTool,
	}

	recipeTypes = []RecipeType{
		RecipeStandard, RecipeCrafting, RecipeMedical, RecipeCarpentry, RecipeMechanics,
	}

	modTypes = []ModType{
		ModAnimation, ModClothing, ModFonts, ModTextures, ModSound,
		ModModels, ModItems, ModMaps, ModLua, ModUi,
	}

	modTypeFolders = map[ModType][]string{
		ModAnimation: {"anims", "animscript", "AnimSets", "animsold", "animstates", "anims_X"},
		ModClothing:  {"clothing", "hairStyles"},
		ModFonts:     {"font", "fonts"},
		ModTextures:  {"geomTextures", "textures", "texturepacks"},
		ModSound:     {"sound", "music"},
		ModModels:    {"models", "models_X", "gibs"},
		ModItems:     {"scripts", "scripts/clothing", "scripts/vehicles", "scripts/weapons"},
		ModMaps:      {"maps", "heightmaps"},
		ModLua:       {"lua", "lua/shared", "lua/client", "lua/server"},
		ModUi:        {"ui"},
	}
)

type (
	// ItemType is a category accepted by the create_item script.
	ItemType string

	// RecipeType is a category accepted by the create_recipe script.
	RecipeType string

	// ModType is a content category that maps to a fixed list of mod subfolders.
	ModType string

	// InvalidItemTypeError is returned when an ItemType value is not recognized.
	// It wraps ErrInvalidItemType for errors.Is() compatibility.
	InvalidItemTypeError struct {
		Value ItemType
	}

	// InvalidRecipeTypeError is returned when a RecipeType value is not recognized.
	// It wraps ErrInvalidRecipeType for errors.Is() compatibility.
	InvalidRecipeTypeError struct {
		Value RecipeType
	}

	// InvalidModTypeError is returned when a ModType value is not recognized.
	// It wraps ErrInvalidModType for errors.Is() compatibility.
	InvalidModTypeError struct {
		Value ModType
	}
)

// ItemTypes returns the supported item types in display order.
func ItemTypes() []ItemType { return slices.Clone(itemTypes) }

// RecipeTypes returns the supported recipe types in display order.
func RecipeTypes() []RecipeType { return slices.Clone(recipeTypes) }

// ModTypes returns the supported mod types in display order.
func ModTypes() []ModType { return slices.Clone(modTypes) }

// ParseItemType returns the ItemType matching s exactly.
func ParseItemType(s string) (ItemType, error) {
	t := ItemType(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate returns an *InvalidItemTypeError if the value is not in the catalog.
func (t ItemType) Validate() error {
	if slices.Contains(itemTypes, t) {
		return nil
	}
	return &InvalidItemTypeError{Value: t}
}

func (t ItemType) String() string { return string(t) }

// ParseRecipeType returns the RecipeType matching s exactly.
func ParseRecipeType(s string) (RecipeType, error) {
	t := RecipeType(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate returns an *InvalidRecipeTypeError if the value is not in the catalog.
func (t RecipeType) Validate() error {
	if slices.Contains(recipeTypes, t) {
		return nil
	}
	return &InvalidRecipeTypeError{Value: t}
}

func (t RecipeType) String() string { return string(t) }

// ParseModType capitalizes s (first letter upper, rest lower) before the
// lookup, so "lua", "LUA" and "Lua" all select ModLua.
func ParseModType(s string) (ModType, error) {
	t := ModType(capitalize(strings.TrimSpace(s)))
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate returns an *InvalidModTypeError if the value is not in the catalog.
func (t ModType) Validate() error {
	if _, ok := modTypeFolders[t]; ok {
		return nil
	}
	return &InvalidModTypeError{Value: t}
}

// Folders returns the subfolders created for this mod type.
func (t ModType) Folders() []string { return slices.Clone(modTypeFolders[t]) }

func (t ModType) String() string { return string(t) }

// FlattenFolders concatenates the folder lists of the given types in order.
// Selecting a type twice repeats its folders.
func FlattenFolders(types []ModType) []string {
	var folders []string
	for _, t := range types {
		folders = append(folders, modTypeFolders[t]...)
	}
	return folders
}

// Error implements the error interface.
func (e *InvalidItemTypeError) Error() string {
	return fmt.Sprintf("invalid item type %q (choose from: %s)", e.Value, joinNames(itemTypes))
}

// Unwrap returns ErrInvalidItemType for errors.Is() compatibility.
func (e *InvalidItemTypeError) Unwrap() error { return ErrInvalidItemType }

// Error implements the error interface.
func (e *InvalidRecipeTypeError) Error() string {
	return fmt.Sprintf("invalid recipe type %q (choose from: %s)", e.Value, joinNames(recipeTypes))
}

// Unwrap returns ErrInvalidRecipeType for errors.Is() compatibility.
func (e *InvalidRecipeTypeError) Unwrap() error { return ErrInvalidRecipeType }

// Error implements the error interface.
func (e *InvalidModTypeError) Error() string {
	return fmt.Sprintf("invalid mod type %q (choose from: %s)", e.Value, joinNames(modTypes))
}

// Unwrap returns ErrInvalidModType for errors.Is() compatibility.
func (e *InvalidModTypeError) Unwrap() error { return ErrInvalidModType }

func joinNames[T ~string](values []T) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
