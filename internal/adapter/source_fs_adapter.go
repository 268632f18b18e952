// Package adapter contains the infrastructure adapters of the precheck CLI:
// file loading, JavaScript execution and report persistence.
package adapter

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	m "precheck.dev/pkg/precheck/internal/model"
)

var (
	// ErrNotFound is matched by input errors for missing files.
	ErrNotFound = errors.New("not found")
	// ErrReadFailure is matched by input errors for files that exist but
	// could not be read.
	ErrReadFailure = errors.New("read failure")
)

// InputError reports that the content of a logical file could not be
// obtained. It wraps ErrNotFound or ErrReadFailure.
type InputError struct {
	Name   string
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %v", e.Name, e.Err)
	}

	return fmt.Sprintf("%s: %v: %s", e.Name, e.Err, e.Reason)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// SourceFSAdapter abstracts the filesystem operations the batch driver
// relies on, so the workflow can be tested without touching the disk.
type SourceFSAdapter interface {
	// Load resolves name (appending ".kindTag" when name has no extension)
	// under the adapter root and returns the file identity and its content.
	// Failures are *InputError values.
	Load(ctx context.Context, name, kindTag string) (m.File, string, error)

	// Walk traverses the provided root path. When recursive is false the
	// implementation limits itself to the root directory (no sub-dirs).
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error

	// FileInfo returns metadata for a path so the domain can check existence or
	// distinguish between files and directories.
	FileInfo(path m.Path) (os.FileInfo, error)

	// Resolve returns where name lives relative to the adapter root.
	Resolve(name string) m.Path

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type into the domain.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalSourceFSAdapter backs SourceFSAdapter with the local filesystem.
type LocalSourceFSAdapter struct {
	root m.Path
}

// NewLocalSourceFSAdapter constructs an adapter resolving relative names
// under root. An empty root means the working directory.
func NewLocalSourceFSAdapter(root m.Path) *LocalSourceFSAdapter {
	if root == "" {
		root = "."
	}

	return &LocalSourceFSAdapter{root: root}
}

// Resolve joins name to the root unless it is absolute.
func (a *LocalSourceFSAdapter) Resolve(name string) m.Path {
	if filepath.IsAbs(name) {
		return m.Path(filepath.Clean(name))
	}

	return m.Path(filepath.Join(string(a.root), name))
}

// Load reads the content of the logical file name.
func (a *LocalSourceFSAdapter) Load(ctx context.Context, name, kindTag string) (m.File, string, error) {
	file := m.File{Name: name, KindTag: kindTag}

	if err := ctx.Err(); err != nil {
		return file, "", err
	}

	path := string(a.Resolve(name))
	if kindTag != "" && filepath.Ext(path) == "" {
		path += "." + kindTag
	}

	file.Path = m.Path(path)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("source not found", "name", name, "path", path)
			return file, "", &InputError{Name: name, Err: ErrNotFound}
		}

		return file, "", &InputError{Name: name, Reason: err.Error(), Err: ErrReadFailure}
	}

	if info.IsDir() {
		return file, "", &InputError{Name: name, Reason: "is a directory", Err: ErrReadFailure}
	}

	// #nosec G304 - reading user-selected inputs is the point of the tool
	content, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("failed to read source", "path", path, "error", err)
		return file, "", &InputError{Name: name, Reason: err.Error(), Err: ErrReadFailure}
	}

	file.Hash = fmt.Sprintf("%x", sha256.Sum256(content))

	return file, string(content), nil
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalSourceFSAdapter) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && !recursive && path != rootStr {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}
