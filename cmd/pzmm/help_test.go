// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/pzmm/pzmm/internal/testutil"
)

func TestRenderHelp(t *testing.T) {
	// Not parallel: the fallback case swaps renderMarkdown.

	t.Run("rendered", func(t *testing.T) {
		out := renderHelp("notty")
		for _, want := range []string{"create", "Add a crafting recipe to a mod", "exit"} {
			if !strings.Contains(out, want) {
				t.Errorf("renderHelp() missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("render failure falls back to markdown", func(t *testing.T) {
		orig := renderMarkdown
		t.Cleanup(func() { renderMarkdown = orig })
		renderMarkdown = func(string, string) (string, error) {
			return "", errors.New("no style")
		}

		if got := renderHelp("dark"); got != helpMarkdown {
			t.Errorf("renderHelp() = %q, want raw markdown", got)
		}
	})
}

func TestReadLogo(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	testutil.MustWriteFile(t, fs, "/core/logo.txt", "  PZ\n  MM\n\n")
	testutil.MustWriteFile(t, fs, "/core/blank.txt", "  \n")

	tests := []struct {
		path string
		want string
	}{
		{"/core/logo.txt", "  PZ\n  MM"},
		{"/core/blank.txt", productName},
		{"/core/missing.txt", productName},
	}
	for _, tt := range tests {
		if got := readLogo(fs, tt.path); got != tt.want {
			t.Errorf("readLogo(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
