// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestValues_OrderedAndComplete(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != int(ShellNotFoundId) {
		t.Fatalf("len(Values()) = %d, want %d", len(values), ShellNotFoundId)
	}
	for i, v := range values {
		if v.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, v.Id(), i+1)
		}
		if strings.TrimSpace(string(v.MarkdownMsg())) == "" {
			t.Errorf("issue %d has empty markdown", v.Id())
		}
	}
}

func TestGet_Unknown(t *testing.T) {
	t.Parallel()

	if Get(Id(999)) != nil {
		t.Error("Get(999) should return nil")
	}
}

func TestIssue_Render(t *testing.T) {
	// Not parallel: swaps the package-level renderer.
	orig := render
	t.Cleanup(func() { render = orig })

	var gotStyle string
	render = func(in, stylePath string) (string, error) {
		gotStyle = stylePath
		return "rendered:" + in, nil
	}

	out, err := Get(ModNotRegisteredId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if gotStyle != "notty" {
		t.Errorf("style = %q, want %q", gotStyle, "notty")
	}
	if !strings.Contains(out, "Mod not registered") {
		t.Errorf("Render() output missing title: %q", out)
	}
}
