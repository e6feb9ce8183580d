// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"mvdan.cc/sh/v3/syntax"

	"github.com/pzmm/pzmm/internal/coreutils"
	"github.com/pzmm/pzmm/internal/platform"
)

// ErrVirtualUnsupported is returned when the virtual executor is requested for
// Windows batch scripts.
var ErrVirtualUnsupported = errors.New("virtual executor only runs POSIX scripts")

// Options configures New.
type Options struct {
	Name    string
	Kind    platform.Kind
	Shell   string
	Fs      afero.Fs
	Streams IO
	// BuiltinUtils enables the built-in file utilities of the virtual executor.
	BuiltinUtils bool
}

// New builds the executor named in opts. An empty name selects the native
// executor.
func New(opts Options) (Executor, error) {
	switch opts.Name {
	case "", NameNative:
		return NewNativeExecutor(opts.Kind, opts.Shell, opts.Streams), nil
	case NameVirtual:
		if opts.Kind == platform.KindWindows {
			return nil, ErrVirtualUnsupported
		}
		fs := opts.Fs
		if fs == nil {
			fs = afero.NewOsFs()
		}
		return NewVirtualExecutor(fs, opts.Streams, opts.virtualOptions()...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExecutor, opts.Name)
	}
}

func (o Options) virtualOptions() []VirtualOption {
	if !o.BuiltinUtils {
		return nil
	}
	return []VirtualOption{WithBuiltinUtils(coreutils.Default())}
}

// CommandLine renders inv as a copy-pasteable bash command line for logs.
// The shell prefix is omitted when empty.
func CommandLine(shell string, inv Invocation) string {
	words := make([]string, 0, len(inv.Args)+2)
	if shell != "" {
		words = append(words, shell)
	}
	words = append(words, quote(inv.Script))
	for _, arg := range inv.Args {
		words = append(words, quote(arg))
	}
	return strings.Join(words, " ")
}

func quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return fmt.Sprintf("%q", s)
	}
	return q
}
