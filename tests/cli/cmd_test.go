// SPDX-License-Identifier: MPL-2.0

// Package cli contains CLI integration tests using testscript.
//
// The scripts run the pzmm binary against a copy of the fixture directory,
// which holds stand-in versions of the mod scripts pzmm dispatches to.
package cli

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

var (
	// binaryPath is the path to the built pzmm binary.
	binaryPath string
	// projectRoot is the path to the pzmm project root.
	projectRoot string
)

func TestMain(m *testing.M) {
	wd, err := os.Getwd()
	if err != nil {
		panic("failed to get working directory: " + err.Error())
	}

	// Walk up to find go.mod
	projectRoot = wd
	for {
		if _, err := os.Stat(filepath.Join(projectRoot, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(projectRoot)
		if parent == projectRoot {
			panic("could not find project root (go.mod)")
		}
		projectRoot = parent
	}

	binDir := filepath.Join(projectRoot, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		panic("failed to create bin directory: " + err.Error())
	}

	binaryName := "pzmm"
	if runtime.GOOS == "windows" {
		binaryName = "pzmm.exe"
	}
	binaryPath = filepath.Join(binDir, binaryName)

	cmd := exec.CommandContext(context.Background(), "go", "build", "-o", binaryPath, ".")
	cmd.Dir = projectRoot
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build pzmm: " + err.Error())
	}

	os.Exit(m.Run())
}

// TestCLI runs every testscript under both executors. The fixture scripts are
// POSIX shell, so the suite does not run on Windows.
func TestCLI(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fixture scripts are POSIX shell")
	}

	for _, executor := range []string{"virtual", "native"} {
		t.Run(executor, func(t *testing.T) {
			if executor == "native" {
				if _, err := exec.LookPath("bash"); err != nil {
					t.Skip("bash not found on PATH")
				}
			}
			testscript.Run(t, params(executor))
		})
	}
}

func params(executor string) testscript.Params {
	return testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			binDir := filepath.Dir(binaryPath)
			env.Setenv("PATH", binDir+string(os.PathListSeparator)+env.Getenv("PATH"))

			// Keep the user's own configuration out of the run.
			env.Setenv("HOME", env.WorkDir)
			env.Setenv("XDG_CONFIG_HOME", filepath.Join(env.WorkDir, ".config"))

			env.Setenv("PZMM_BASE_DIR", env.WorkDir)
			env.Setenv("PZMM_EXECUTOR", executor)
			env.Setenv("EXECUTOR", executor)

			return os.CopyFS(env.WorkDir, os.DirFS("fixture"))
		},
		ContinueOnError: true,
	}
}
