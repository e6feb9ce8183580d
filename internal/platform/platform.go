// SPDX-License-Identifier: MPL-2.0

// Package platform detects the host platform family and maps logical script
// operations to the platform-specific helper scripts shipped with pzmm.
package platform

import (
	"errors"
	"fmt"
	"slices"
)

// GOOS values used in comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

const (
	// KindWindows runs .bat scripts directly.
	KindWindows Kind = "windows"
	// KindUnix runs .sh scripts through an explicitly named interpreter.
	KindUnix Kind = "unix"
)

// ErrUnsupportedPlatform is the sentinel error wrapped by UnsupportedPlatformError.
var ErrUnsupportedPlatform = errors.New("unsupported operating system")

// unixFamily lists the GOOS values treated as POSIX hosts.
var unixFamily = []string{
	Linux, Darwin, "freebsd", "netbsd", "openbsd", "dragonfly",
	"solaris", "illumos", "aix", "android", "ios",
}

type (
	// Kind is the platform family that selects script paths and invocation style.
	Kind string

	// UnsupportedPlatformError is returned when the host OS is neither Windows
	// nor a Unix-like system.
	UnsupportedPlatformError struct {
		GOOS string
	}
)

// Detect maps a GOOS value to its platform family.
func Detect(goos string) (Kind, error) {
	switch {
	case goos == Windows:
		return KindWindows, nil
	case slices.Contains(unixFamily, goos):
		return KindUnix, nil
	default:
		return "", &UnsupportedPlatformError{GOOS: goos}
	}
}

// String returns the family name.
func (k Kind) String() string { return string(k) }

// Error implements the error interface.
func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported operating system %q", e.GOOS)
}

// Unwrap returns ErrUnsupportedPlatform for errors.Is() compatibility.
func (e *UnsupportedPlatformError) Unwrap() error { return ErrUnsupportedPlatform }
