package manifest

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
)

// DefaultPattern matches manifest files by name.
const DefaultPattern = "*.xml"

// WarnFunc receives manifest files that are skipped.
type WarnFunc func(name string, err error)

// ScanOptions controls which files of a manifest directory are returned.
type ScanOptions struct {
	Subdir      string
	Pattern     string
	ValidateXML bool
	Concurrency int
	Warn        WarnFunc
}

// Scan lists the regular files in opts.Subdir whose names match opts.Pattern,
// sorted by name. Only names are returned; the version is encoded in them.
func Scan(ctx context.Context, fs billy.Filesystem, opts ScanOptions) ([]string, error) {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid manifest pattern %q", pattern)
	}

	dir := strings.Trim(opts.Subdir, "/")
	if dir == "" || dir == "." {
		dir = "/"
	}

	st, err := fs.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDirMissing, opts.Subdir)
		}
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirMissing, opts.Subdir)
	}

	entries, err := fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", opts.Subdir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ok, _ := doublestar.Match(pattern, entry.Name()); ok {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !opts.ValidateXML {
		return names, nil
	}
	return validateAll(ctx, fs, dir, names, opts)
}
