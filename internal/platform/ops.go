package platform

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrSourceNotFound is matched by errors.Is for every SourceNotFoundError.
var ErrSourceNotFound = errors.New("source not found")

// SourceNotFoundError reports a required source path that does not exist.
type SourceNotFoundError struct {
	Path string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source directory not found: %s", e.Path)
}

// Is makes errors.Is(err, ErrSourceNotFound) true.
func (e *SourceNotFoundError) Is(target error) bool {
	return target == ErrSourceNotFound
}

// Ops is the filesystem capability used by the cache and the overlay.
type Ops interface {
	// CopyTree merges the src directory tree into dst, creating dst if
	// needed and overwriting same-named files.
	CopyTree(src, dst string) error
	// CopyFile copies one regular file, preserving its permissions.
	CopyFile(src, dst string) error
	// RemoveTree deletes path recursively. A missing path is not an error.
	RemoveTree(path string) error
	// PathJoin joins path elements with the OS separator.
	PathJoin(elem ...string) string
}

// treeCopier copies a whole tree; the native and command copiers share it.
type treeCopier func(src, dst string) error

type nativeOps struct {
	primary  treeCopier
	fallback treeCopier
}

// New returns the Ops implementation for the running OS. The native Go copy
// is tried first; if it fails the OS copy command is run as a fallback.
func New() Ops {
	return newForOS(runtime.GOOS)
}

func newForOS(goos string) *nativeOps {
	fallback := unixCommandCopy
	if goos == "windows" {
		fallback = windowsCommandCopy
	}
	return &nativeOps{primary: copyDir, fallback: fallback}
}

func (o *nativeOps) CopyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return &SourceNotFoundError{Path: src}
		}
		return fmt.Errorf("reading %s: %w", src, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", src)
	}

	primaryErr := o.primary(src, dst)
	if primaryErr == nil {
		return nil
	}
	if o.fallback == nil {
		return fmt.Errorf("copying %s to %s: %w", src, dst, primaryErr)
	}
	if err := o.fallback(src, dst); err != nil {
		return fmt.Errorf("copying %s to %s: %w", src, dst, errors.Join(primaryErr, err))
	}
	return nil
}

func (o *nativeOps) CopyFile(src, dst string) error {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return &SourceNotFoundError{Path: src}
	}
	if err := os.MkdirAll(filepath.Dir(dst), DirPermNormal); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}
	return copyFile(src, dst)
}

func (o *nativeOps) RemoveTree(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

func (o *nativeOps) PathJoin(elem ...string) string {
	return filepath.Join(elem...)
}

// copyDir recursively copies src to dst. Regular files keep their mode,
// symlinks are recreated, other special files are skipped.
func copyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		switch {
		case entry.IsDir():
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
		case entry.Type()&os.ModeSymlink != 0:
			if err := copySymlink(srcPath, dstPath); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return nil
}

// copyFile streams src into dst, preserving permissions.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	srcInfo, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return Chmod(dst, srcInfo.Mode().Perm())
}

func copySymlink(src, dst string) error {
	target, err := ReadSymlinkTarget(src)
	if err != nil {
		return err
	}
	// Replace whatever is already at dst.
	if _, err := os.Lstat(dst); err == nil {
		if err := RemoveSymlink(dst); err != nil {
			return err
		}
	}
	return CreateSymlink(target, dst)
}

// unixCommandCopy runs `cp -R src/. dst`, which merges into an existing dst.
func unixCommandCopy(src, dst string) error {
	if err := os.MkdirAll(dst, DirPermNormal); err != nil {
		return err
	}
	cmd := exec.Command("cp", "-R", src+string(os.PathSeparator)+".", dst)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("cp: %w\n%s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// windowsCommandCopy runs `xcopy src dst /E /I /Y /Q /H /K`.
func windowsCommandCopy(src, dst string) error {
	cmd := exec.Command("xcopy", src, dst, "/E", "/I", "/Y", "/Q", "/H", "/K")
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("xcopy: %w\n%s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
