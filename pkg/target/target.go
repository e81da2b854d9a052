// Package target locates and rewrites the file that declares the supported
// version list.
package target

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fulmenhq/supportsync/pkg/safeio"
)

// ErrTargetMissing is returned when the target file does not exist.
var ErrTargetMissing = errors.New("target file not found")

// File is a target file resolved under a repository root.
type File struct {
	Root string // absolute root directory
	Path string // absolute file path
	Name string // path relative to Root, forward slashes
}

// Locate resolves name under root. The file must exist and stay within root.
func Locate(root, name string) (*File, error) {
	cleaned, err := safeio.CleanUserPath(name)
	if err != nil {
		return nil, fmt.Errorf("invalid target %q: %w", name, err)
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	path := filepath.FromSlash(cleaned)
	if !filepath.IsAbs(path) {
		path = filepath.Join(rootAbs, path)
	}
	abs, err := safeio.Contained(rootAbs, path)
	if err != nil {
		return nil, fmt.Errorf("invalid target %q: %w", name, err)
	}

	st, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTargetMissing, abs)
		}
		return nil, err
	}
	if st.IsDir() {
		return nil, fmt.Errorf("target %s is a directory", abs)
	}

	rel, err := filepath.Rel(rootAbs, abs)
	if err != nil {
		return nil, err
	}
	return &File{Root: rootAbs, Path: abs, Name: filepath.ToSlash(rel)}, nil
}

// Read returns the file content.
func (f *File) Read() (string, error) {
	data, err := safeio.ReadFileContained(f.Root, f.Path)
	if err != nil {
		return "", fmt.Errorf("error reading %s: %w", f.Path, err)
	}
	return string(data), nil
}

// Write replaces the file content, keeping its mode.
func (f *File) Write(content string) error {
	if err := safeio.WriteFilePreservePerms(f.Path, []byte(content)); err != nil {
		return fmt.Errorf("error writing %s: %w", f.Path, err)
	}
	return nil
}
