// SPDX-License-Identifier: MPL-2.0

package manager

import (
	"context"
	"fmt"
	"strings"

	"github.com/pzmm/pzmm/internal/catalog"
	"github.com/pzmm/pzmm/internal/issue"
	"github.com/pzmm/pzmm/internal/platform"
)

// NamedArg is an extra key=value argument for the create_sound script.
type NamedArg struct {
	Key   string
	Value string
}

// String renders the argument as key=value.
func (a NamedArg) String() string { return a.Key + "=" + a.Value }

// ParseNamedArg parses "key=value". The value may contain further '='.
func ParseNamedArg(s string) (NamedArg, error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return NamedArg{}, fmt.Errorf("invalid argument %q: expected key=value", s)
	}
	return NamedArg{Key: key, Value: value}, nil
}

// CreateItem runs the create_item script with (mod, itemType, itemName, mod_path).
func (m *Manager) CreateItem(ctx context.Context, mod string, itemType catalog.ItemType, itemName string) error {
	const op = "create item"

	rec, err := m.lookup(op, mod)
	if err != nil {
		return err
	}
	if err := itemType.Validate(); err != nil {
		m.logger.Error("Invalid item type", "type", itemType)
		return issue.NewErrorContext().
			WithOperation(op).
			WithResource(itemName).
			WithSuggestion("Run 'itemtypes' to see the supported item types").
			WithIssue(issue.InvalidItemTypeId).
			Wrap(err).
			BuildError()
	}

	script, err := m.script(op, platform.OpCreateItem)
	if err != nil {
		return err
	}
	args := []string{mod, string(itemType), itemName, rec.ModPath}
	if _, err := m.run(ctx, op, itemName, script, args, false); err != nil {
		return err
	}
	m.logger.Info("Successfully created item", "type", itemType, "item", itemName)
	return nil
}

// CreateModel runs the create_model script with (mod, mod_path, modelName).
func (m *Manager) CreateModel(ctx context.Context, mod, modelName string) error {
	const op = "create model"

	rec, err := m.lookup(op, mod)
	if err != nil {
		return err
	}
	script, err := m.script(op, platform.OpCreateModel)
	if err != nil {
		return err
	}
	if _, err := m.run(ctx, op, modelName, script, []string{mod, rec.ModPath, modelName}, false); err != nil {
		return err
	}
	m.logger.Info("Successfully created model", "model", modelName)
	return nil
}

// CreateSound runs the create_sound script with (mod, soundType, soundName,
// mod_path) followed by each extra argument as a key=value token.
func (m *Manager) CreateSound(ctx context.Context, mod, soundType, soundName string, extra []NamedArg) error {
	const op = "create sound"

	rec, err := m.lookup(op, mod)
	if err != nil {
		return err
	}
	script, err := m.script(op, platform.OpCreateSound)
	if err != nil {
		return err
	}

	args := make([]string, 0, 4+len(extra))
	args = append(args, mod, soundType, soundName, rec.ModPath)
	for _, a := range extra {
		args = append(args, a.String())
	}
	if _, err := m.run(ctx, op, soundName, script, args, false); err != nil {
		return err
	}
	m.logger.Info("Successfully created or updated sound", "sound", soundName)
	return nil
}

// Help runs the mod_manager_help script.
func (m *Manager) Help(ctx context.Context) error {
	const op = "display help"

	script, err := m.script(op, platform.OpHelp)
	if err != nil {
		return err
	}
	_, err = m.run(ctx, op, string(platform.OpHelp), script, nil, false)
	return err
}
