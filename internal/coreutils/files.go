// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	dirPerm  fs.FileMode = 0o755
	filePerm fs.FileMode = 0o644
)

type catCommand struct{}

func newCatCommand() *catCommand { return &catCommand{} }

func (*catCommand) Name() string { return "cat" }

// Run streams each file, or stdin for none or "-", to standard output.
func (c *catCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	files := args[1:]
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, name := range files {
		if err := c.copyOne(hc, name); err != nil {
			return wrapError(c.Name(), err)
		}
	}
	return nil
}

func (*catCommand) copyOne(hc *HandlerContext, name string) (err error) {
	if name == "-" {
		if hc.Stdin == nil {
			return nil
		}
		_, err = io.Copy(hc.Stdout, hc.Stdin)
		return err
	}

	f, err := hc.Fs.Open(hc.Resolve(name))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	_, err = io.Copy(hc.Stdout, f)
	return err
}

type mkdirCommand struct{}

func newMkdirCommand() *mkdirCommand { return &mkdirCommand{} }

func (*mkdirCommand) Name() string { return "mkdir" }

// Run creates directories. Usage: mkdir [-p] DIR...
func (c *mkdirCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	flags := newFlagSet(c.Name())
	parents := flags.BoolP("parents", "p", false, "create parent directories as needed")
	dirs, err := parseFlags(flags, args)
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		return wrapError(c.Name(), errMissingOperand)
	}

	for _, dir := range dirs {
		target := hc.Resolve(dir)
		if *parents {
			err = hc.Fs.MkdirAll(target, dirPerm)
		} else {
			err = mkdirOne(hc.Fs, target)
		}
		if err != nil {
			return wrapError(c.Name(), err)
		}
	}
	return nil
}

// mkdirOne fails when dir exists or its parent is missing, matching mkdir(1).
func mkdirOne(fsys afero.Fs, dir string) error {
	if _, err := fsys.Stat(dir); err == nil {
		return &fs.PathError{Op: "mkdir", Path: dir, Err: fs.ErrExist}
	}
	if _, err := fsys.Stat(filepath.Dir(dir)); err != nil {
		return &fs.PathError{Op: "mkdir", Path: dir, Err: fs.ErrNotExist}
	}
	return fsys.Mkdir(dir, dirPerm)
}

type touchCommand struct{}

func newTouchCommand() *touchCommand { return &touchCommand{} }

func (*touchCommand) Name() string { return "touch" }

// Run creates missing files and leaves existing contents alone.
// Usage: touch [-c] FILE...
func (c *touchCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	flags := newFlagSet(c.Name())
	noCreate := flags.BoolP("no-create", "c", false, "do not create any files")
	files, err := parseFlags(flags, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return wrapError(c.Name(), errMissingOperand)
	}

	for _, name := range files {
		target := hc.Resolve(name)
		exists, err := afero.Exists(hc.Fs, target)
		if err != nil {
			return wrapError(c.Name(), err)
		}
		if exists || *noCreate {
			continue
		}
		f, err := hc.Fs.OpenFile(target, os.O_CREATE|os.O_WRONLY, filePerm)
		if err != nil {
			return wrapError(c.Name(), err)
		}
		if err := f.Close(); err != nil {
			return wrapError(c.Name(), err)
		}
	}
	return nil
}

type rmCommand struct{}

func newRmCommand() *rmCommand { return &rmCommand{} }

func (*rmCommand) Name() string { return "rm" }

// Run removes files. Usage: rm [-rf] PATH...
func (c *rmCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	flags := newFlagSet(c.Name())
	recursive := flags.BoolP("recursive", "r", false, "remove directories and their contents")
	flags.BoolVarP(recursive, "recursive-upper", "R", false, "same as -r")
	force := flags.BoolP("force", "f", false, "ignore missing files")
	paths, err := parseFlags(flags, args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		if *force {
			return nil
		}
		return wrapError(c.Name(), errMissingOperand)
	}

	for _, p := range paths {
		target := hc.Resolve(p)
		info, err := hc.Fs.Stat(target)
		if err != nil {
			if *force && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return wrapError(c.Name(), err)
		}
		if info.IsDir() {
			if !*recursive {
				return wrapError(c.Name(), fmt.Errorf("cannot remove %s: is a directory", p))
			}
			err = hc.Fs.RemoveAll(target)
		} else {
			err = hc.Fs.Remove(target)
		}
		if err != nil {
			return wrapError(c.Name(), err)
		}
	}
	return nil
}

type cpCommand struct{}

func newCpCommand() *cpCommand { return &cpCommand{} }

func (*cpCommand) Name() string { return "cp" }

// Run copies files. Usage: cp [-r] SRC... DEST
// With several sources, or when DEST is a directory, sources are copied into
// DEST under their base names.
func (c *cpCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	flags := newFlagSet(c.Name())
	recursive := flags.BoolP("recursive", "r", false, "copy directories recursively")
	flags.BoolVarP(recursive, "recursive-upper", "R", false, "same as -r")
	operands, err := parseFlags(flags, args)
	if err != nil {
		return err
	}
	if len(operands) < 2 {
		return wrapError(c.Name(), errMissingOperand)
	}

	sources, dest := operands[:len(operands)-1], hc.Resolve(operands[len(operands)-1])
	into, err := afero.IsDir(hc.Fs, dest)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return wrapError(c.Name(), err)
	}
	if len(sources) > 1 && !into {
		return wrapError(c.Name(), fmt.Errorf("target %s is not a directory", operands[len(operands)-1]))
	}

	for _, src := range sources {
		from := hc.Resolve(src)
		to := dest
		if into {
			to = filepath.Join(dest, filepath.Base(from))
		}
		if err := copyPath(hc.Fs, from, to, *recursive); err != nil {
			return wrapError(c.Name(), err)
		}
	}
	return nil
}

func copyPath(fsys afero.Fs, from, to string, recursive bool) error {
	info, err := fsys.Stat(from)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return copyFile(fsys, from, to, info.Mode().Perm())
	}
	if !recursive {
		return fmt.Errorf("-r not specified; omitting directory %s", from)
	}
	return afero.Walk(fsys, from, func(p string, fi fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(from, p)
		if err != nil {
			return err
		}
		target := filepath.Join(to, rel)
		if fi.IsDir() {
			return fsys.MkdirAll(target, dirPerm)
		}
		return copyFile(fsys, p, target, fi.Mode().Perm())
	})
}

func copyFile(fsys afero.Fs, from, to string, perm fs.FileMode) (err error) {
	src, err := fsys.Open(from)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dst, err := fsys.OpenFile(to, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = io.Copy(dst, src)
	return err
}

type mvCommand struct{}

func newMvCommand() *mvCommand { return &mvCommand{} }

func (*mvCommand) Name() string { return "mv" }

// Run renames SRC to DEST, or moves it into DEST when DEST is a directory.
// Usage: mv SRC DEST
func (c *mvCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	flags := newFlagSet(c.Name())
	flags.BoolP("force", "f", false, "do not prompt before overwriting")
	operands, err := parseFlags(flags, args)
	if err != nil {
		return err
	}
	if len(operands) != 2 {
		return wrapError(c.Name(), errMissingOperand)
	}

	from, to := hc.Resolve(operands[0]), hc.Resolve(operands[1])
	if isDir, _ := afero.IsDir(hc.Fs, to); isDir {
		to = filepath.Join(to, filepath.Base(from))
	}
	return wrapError(c.Name(), hc.Fs.Rename(from, to))
}
