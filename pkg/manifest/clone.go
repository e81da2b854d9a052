package manifest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/supportsync/pkg/logger"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/memory"
)

// GitSource clones a manifest repository. With an empty CacheDir the clone
// lives in memory and is discarded with the returned filesystem; otherwise
// it is kept under CacheDir, keyed by repo and ref, and refreshed on reuse.
type GitSource struct {
	Repo     string
	Ref      string
	Depth    int
	CacheDir string
}

func (s *GitSource) String() string {
	if s.Ref == "" {
		return s.Repo
	}
	return s.Repo + "@" + s.Ref
}

func (s *GitSource) Open(ctx context.Context) (billy.Filesystem, error) {
	if strings.TrimSpace(s.Repo) == "" {
		return nil, errors.New("repo cannot be empty")
	}
	cloneURL, err := BuildCloneURL(s.Repo)
	if err != nil {
		return nil, err
	}
	if s.CacheDir == "" {
		return s.cloneInMemory(ctx, cloneURL)
	}
	return s.openCached(ctx, cloneURL)
}

func (s *GitSource) cloneInMemory(ctx context.Context, cloneURL string) (billy.Filesystem, error) {
	fs := memfs.New()
	logger.Info("Cloning manifest repository", logger.String("url", cloneURL), logger.String("ref", s.Ref))
	_, err := git.CloneContext(ctx, memory.NewStorage(), fs, &git.CloneOptions{
		URL:           cloneURL,
		ReferenceName: referenceName(s.Ref),
		SingleBranch:  true,
		Depth:         s.Depth,
		Tags:          git.NoTags,
	})
	if err != nil {
		return nil, cloneError(cloneURL, err)
	}
	logger.Debug("Clone complete", logger.String("url", cloneURL))
	return fs, nil
}

func (s *GitSource) openCached(ctx context.Context, cloneURL string) (billy.Filesystem, error) {
	if err := os.MkdirAll(s.CacheDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create manifest cache directory: %w", err)
	}
	targetPath := filepath.Join(s.CacheDir, hashRepoRef(s.Repo, s.Ref))

	repository, cached, err := s.openOrClone(ctx, cloneURL, targetPath)
	if err != nil {
		return nil, err
	}

	hash, err := resolveRefHash(repository, s.Ref)
	if err != nil {
		if !cached {
			_ = os.RemoveAll(targetPath)
		}
		return nil, err
	}
	if err := checkoutHash(repository, hash); err != nil {
		if !cached {
			_ = os.RemoveAll(targetPath)
		}
		return nil, fmt.Errorf("failed to checkout %s: %w", s.Ref, err)
	}
	logger.Debug("Manifest checkout ready", logger.String("path", targetPath), logger.Bool("cached", cached))
	return osfs.New(targetPath), nil
}

func (s *GitSource) openOrClone(ctx context.Context, cloneURL, targetPath string) (*git.Repository, bool, error) {
	// Attempt to reuse existing clone
	if repository, err := git.PlainOpen(targetPath); err == nil {
		if err := s.fetchLatest(ctx, repository); err != nil {
			// Keep the cache when the run was cancelled or timed out; a
			// reclone would fail on the same context.
			if ctx.Err() != nil || errors.Is(err, transport.ErrAuthenticationRequired) {
				return nil, false, cloneError(cloneURL, err)
			}
			logger.Debug("manifest: cached repo fetch failed, recloning", logger.String("path", targetPath), logger.Err(err))
			_ = os.RemoveAll(targetPath)
		} else {
			return repository, true, nil
		}
	}

	// Clean target path (if any) before cloning
	_ = os.RemoveAll(targetPath)

	logger.Info("Cloning manifest repository", logger.String("url", cloneURL), logger.String("path", targetPath))
	repository, err := git.PlainCloneContext(ctx, targetPath, false, &git.CloneOptions{
		URL:           cloneURL,
		ReferenceName: referenceName(s.Ref),
		SingleBranch:  true,
		Depth:         s.Depth,
		Tags:          git.NoTags,
	})
	if err != nil {
		_ = os.RemoveAll(targetPath)
		return nil, false, cloneError(cloneURL, err)
	}
	return repository, false, nil
}

func (s *GitSource) fetchLatest(ctx context.Context, repository *git.Repository) error {
	err := repository.FetchContext(ctx, &git.FetchOptions{
		RemoteName: "origin",
		Depth:      s.Depth,
		Tags:       git.NoTags,
		Force:      true,
	})
	if err == nil || errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	return err
}

func cloneError(cloneURL string, err error) error {
	return fmt.Errorf("%w %s: %w", ErrClone, cloneURL, err)
}

// BuildCloneURL accepts full URLs, local paths and GitHub "owner/repo" shorthand.
func BuildCloneURL(repo string) (string, error) {
	trimmed := strings.TrimSpace(repo)
	if strings.HasPrefix(trimmed, "http://") ||
		strings.HasPrefix(trimmed, "https://") ||
		strings.HasPrefix(trimmed, "ssh://") ||
		strings.HasPrefix(trimmed, "file://") ||
		strings.HasPrefix(trimmed, "git@") {
		return trimmed, nil
	}

	if strings.Contains(trimmed, "://") {
		return "", fmt.Errorf("unsupported repo URL scheme: %s", trimmed)
	}

	if filepath.IsAbs(trimmed) || strings.HasPrefix(trimmed, ".") {
		return trimmed, nil
	}

	trimmed = strings.TrimSuffix(trimmed, ".git")
	if strings.Count(trimmed, "/") != 1 {
		return "", fmt.Errorf("repo must be a URL, a local path or owner/name: %s", repo)
	}
	return fmt.Sprintf("https://github.com/%s.git", trimmed), nil
}

func referenceName(ref string) plumbing.ReferenceName {
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, "refs/"):
		return plumbing.ReferenceName(ref)
	default:
		return plumbing.NewBranchReferenceName(ref)
	}
}

func hashRepoRef(repo, ref string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(repo) + ":" + ref))
	return hex.EncodeToString(sum[:])[:32]
}

func resolveRefHash(repository *git.Repository, ref string) (plumbing.Hash, error) {
	if ref == "" {
		head, err := repository.Head()
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("failed to resolve HEAD: %w", err)
		}
		return head.Hash(), nil
	}

	// Remote-tracking refs first; fetch does not move local branches.
	candidates := []plumbing.ReferenceName{
		plumbing.NewRemoteReferenceName("origin", ref),
		plumbing.ReferenceName(ref),
		plumbing.NewBranchReferenceName(ref),
		plumbing.NewTagReferenceName(ref),
	}
	for _, candidate := range candidates {
		if reference, err := repository.Reference(candidate, true); err == nil {
			logger.Trace("manifest: resolved ref", logger.String("ref", ref), logger.String("reference", candidate.String()), logger.String("hash", reference.Hash().String()))
			return reference.Hash(), nil
		}
		logger.Trace("manifest: ref candidate not found", logger.String("reference", candidate.String()))
	}

	if hash, err := repository.ResolveRevision(plumbing.Revision(ref)); err == nil {
		return *hash, nil
	}

	return plumbing.ZeroHash, fmt.Errorf("ref %s not found", ref)
}

func checkoutHash(repository *git.Repository, hash plumbing.Hash) error {
	worktree, err := repository.Worktree()
	if err != nil {
		return err
	}
	return worktree.Checkout(&git.CheckoutOptions{
		Hash:  hash,
		Force: true,
	})
}
