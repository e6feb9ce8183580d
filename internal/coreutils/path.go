// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

var errMissingOperand = errors.New("missing operand")

type basenameCommand struct{}

func newBasenameCommand() *basenameCommand { return &basenameCommand{} }

func (*basenameCommand) Name() string { return "basename" }

// Run prints the last path element, stripping SUFFIX when it is not the whole
// name. Usage: basename PATH [SUFFIX]
func (c *basenameCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	operands := args[1:]
	if len(operands) == 0 {
		return wrapError(c.Name(), errMissingOperand)
	}

	base := path.Base(operands[0])
	if len(operands) > 1 {
		suffix := operands[1]
		if suffix != "" && base != suffix {
			base = strings.TrimSuffix(base, suffix)
		}
	}

	fmt.Fprintln(hc.Stdout, base)
	return nil
}

type dirnameCommand struct{}

func newDirnameCommand() *dirnameCommand { return &dirnameCommand{} }

func (*dirnameCommand) Name() string { return "dirname" }

// Run prints the directory of each operand. Usage: dirname PATH...
func (c *dirnameCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	operands := args[1:]
	if len(operands) == 0 {
		return wrapError(c.Name(), errMissingOperand)
	}
	for _, p := range operands {
		fmt.Fprintln(hc.Stdout, path.Dir(p))
	}
	return nil
}
