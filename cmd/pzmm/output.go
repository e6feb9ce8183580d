// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pelletier/go-toml/v2"

	"github.com/pzmm/pzmm/internal/registry"
)

const (
	outputTable outputFormat = "table"
	outputJSON  outputFormat = "json"
	outputTOML  outputFormat = "toml"
)

// ErrInvalidOutputFormat is returned for an unknown --output value.
var ErrInvalidOutputFormat = errors.New("invalid output format")

type (
	// outputFormat selects how 'list' renders the registry.
	outputFormat string

	// modEntry is the exported shape of one registered mod.
	modEntry struct {
		Name    string `json:"name" toml:"name"`
		ModPath string `json:"mod_path" toml:"mod_path"`
	}

	modList struct {
		Mods []modEntry `toml:"mods"`
	}
)

func parseOutputFormat(s string) (outputFormat, error) {
	switch f := outputFormat(s); f {
	case outputTable, outputJSON, outputTOML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (expected table, json or toml)", ErrInvalidOutputFormat, s)
	}
}

func renderMods(w io.Writer, mods []registry.Mod, format outputFormat) error {
	entries := make([]modEntry, len(mods))
	for i, m := range mods {
		entries[i] = modEntry{Name: m.Name, ModPath: m.Record.ModPath}
	}

	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(entries)
	case outputTOML:
		data, err := toml.Marshal(modList{Mods: entries})
		if err != nil {
			return fmt.Errorf("failed to encode mods as TOML: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		renderModTable(w, entries)
		return nil
	}
}

func renderModTable(w io.Writer, entries []modEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No mods registered.")
		return
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{strconv.Itoa(i + 1), e.Name, e.ModPath}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtitleStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers("#", "NAME", "PATH").
		Rows(rows...)

	fmt.Fprintln(w, TitleStyle.Render("Registered Mods:"))
	fmt.Fprintln(w, t.Render())
}
