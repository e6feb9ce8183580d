// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pelletier/go-toml/v2"

	"github.com/pzmm/pzmm/internal/registry"
)

func sampleMods() []registry.Mod {
	return []registry.Mod{
		{Name: "Zeta", Record: registry.ModRecord{ModPath: "/mods/Zeta"}},
		{Name: "Alpha", Record: registry.ModRecord{ModPath: "/mods/Alpha"}},
	}
}

func TestParseOutputFormat(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"table", "json", "toml"} {
		if got, err := parseOutputFormat(s); err != nil || string(got) != s {
			t.Errorf("parseOutputFormat(%q) = %q, %v", s, got, err)
		}
	}
	if _, err := parseOutputFormat("yaml"); !errors.Is(err, ErrInvalidOutputFormat) {
		t.Errorf("parseOutputFormat(yaml) error = %v, want ErrInvalidOutputFormat", err)
	}
}

func TestRenderModsJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := renderMods(&buf, sampleMods(), outputJSON); err != nil {
		t.Fatalf("renderMods() error: %v", err)
	}

	var got []modEntry
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	want := []modEntry{{Name: "Zeta", ModPath: "/mods/Zeta"}, {Name: "Alpha", ModPath: "/mods/Alpha"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JSON mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderModsJSONEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := renderMods(&buf, nil, outputJSON); err != nil {
		t.Fatalf("renderMods() error: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("renderMods(empty) = %q, want []", got)
	}
}

func TestRenderModsTOML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := renderMods(&buf, sampleMods(), outputTOML); err != nil {
		t.Fatalf("renderMods() error: %v", err)
	}

	var got modList
	if err := toml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not TOML: %v\n%s", err, buf.String())
	}
	if len(got.Mods) != 2 || got.Mods[0].Name != "Zeta" || got.Mods[1].ModPath != "/mods/Alpha" {
		t.Errorf("TOML mods = %+v", got.Mods)
	}
}

func TestRenderModsTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := renderMods(&buf, sampleMods(), outputTable); err != nil {
		t.Fatalf("renderMods() error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"Registered Mods:", "NAME", "PATH", "Zeta", "/mods/Alpha"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Zeta") > strings.Index(out, "Alpha") {
		t.Errorf("table does not keep registry order:\n%s", out)
	}
}

func TestRenderModsTableEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := renderMods(&buf, nil, outputTable); err != nil {
		t.Fatalf("renderMods() error: %v", err)
	}
	if got := buf.String(); got != "No mods registered.\n" {
		t.Errorf("renderMods(empty) = %q", got)
	}
}
