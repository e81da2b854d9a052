package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

var (
	// ErrDirMissing is returned when the manifest directory does not exist.
	ErrDirMissing = errors.New("manifest directory does not exist")
	// ErrClone is returned when the manifest repository cannot be cloned or fetched.
	ErrClone = errors.New("failed to clone manifest repository")
)

// Source provides a filesystem holding released manifest files.
type Source interface {
	Open(ctx context.Context) (billy.Filesystem, error)
	String() string
}

// DirSource reads manifests from a local directory.
type DirSource struct {
	Dir string
}

func (s *DirSource) Open(_ context.Context) (billy.Filesystem, error) {
	st, err := os.Stat(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDirMissing, s.Dir)
		}
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirMissing, s.Dir)
	}
	return osfs.New(s.Dir), nil
}

func (s *DirSource) String() string { return s.Dir }

// Candidates opens src and returns the manifest file names that match opts.
func Candidates(ctx context.Context, src Source, opts ScanOptions) ([]string, error) {
	fs, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	return Scan(ctx, fs, opts)
}
