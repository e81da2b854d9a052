package manifest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/beevik/etree"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"golang.org/x/sync/errgroup"
)

// ErrNotManifest is reported for files that are not <manifest> documents.
var ErrNotManifest = errors.New("not a manifest document")

const manifestRoot = "manifest"

// ValidateManifest checks that data is well-formed XML with a <manifest> root.
func ValidateManifest(data []byte) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return fmt.Errorf("%w: %v", ErrNotManifest, err)
	}
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("%w: empty document", ErrNotManifest)
	}
	if root.Tag != manifestRoot {
		return fmt.Errorf("%w: root element is <%s>", ErrNotManifest, root.Tag)
	}
	return nil
}

// validateAll drops the files that fail ValidateManifest, reporting each
// to opts.Warn. Files are read in order and parsed concurrently.
func validateAll(ctx context.Context, fs billy.Filesystem, dir string, names []string, opts ScanOptions) ([]string, error) {
	contents := make([][]byte, len(names))
	for i, name := range names {
		data, err := util.ReadFile(fs, fs.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest %s: %w", name, err)
		}
		contents[i] = data
	}

	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	var mu sync.Mutex
	valid := make([]bool, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range names {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := ValidateManifest(contents[i]); err != nil {
				if opts.Warn != nil {
					mu.Lock()
					opts.Warn(names[i], err)
					mu.Unlock()
				}
				return nil
			}
			valid[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(names))
	for i, name := range names {
		if valid[i] {
			out = append(out, name)
		}
	}
	return out, nil
}
