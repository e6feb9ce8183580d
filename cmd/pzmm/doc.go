// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for pzmm.
//
// This package implements the Cobra command hierarchy and the interactive
// shell. Both surfaces parse user input into structured requests and hand
// them to internal/manager; nothing here touches the registry or runs a
// script directly.
package cmd
