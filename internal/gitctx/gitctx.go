package gitctx

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aymerick/raymond"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrNotRepository is returned when a path is not inside a git work tree.
var ErrNotRepository = errors.New("not in a git repository")

// Repo is the work tree that holds the target file.
type Repo struct {
	repo *git.Repository
	wt   *git.Worktree
	root string
}

// Author identifies the commit author. Empty fields fall back to git config.
type Author struct {
	Name  string
	Email string
}

// Open finds the repository enclosing path.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, abs)
		}
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no work tree to stage into
		return nil, fmt.Errorf("%w: %s: %v", ErrNotRepository, abs, err)
	}
	return &Repo{repo: repo, wt: wt, root: wt.Filesystem.Root()}, nil
}

// Root returns the work tree root.
func (r *Repo) Root() string { return r.root }

// Rel returns path relative to the work tree root, with forward slashes.
func (r *Repo) Rel(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	root := r.root
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", err
	}
	if rel == ".." || filepath.IsAbs(rel) || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
		return "", fmt.Errorf("%s is outside repository %s", path, r.root)
	}
	return filepath.ToSlash(rel), nil
}

// Modified reports whether path has staged or unstaged changes.
func (r *Repo) Modified(path string) (bool, error) {
	rel, err := r.Rel(path)
	if err != nil {
		return false, err
	}
	st, err := r.wt.Status()
	if err != nil {
		return false, err
	}
	s, ok := st[rel]
	if !ok {
		return false, nil
	}
	return s.Staging != git.Unmodified || s.Worktree != git.Unmodified, nil
}

// Stage adds path to the index and returns its repository-relative name.
func (r *Repo) Stage(path string) (string, error) {
	rel, err := r.Rel(path)
	if err != nil {
		return "", err
	}
	if _, err := r.wt.Add(rel); err != nil {
		return "", fmt.Errorf("failed to stage %s: %w", rel, err)
	}
	return rel, nil
}

// Commit records the index with message and returns the new commit hash.
func (r *Repo) Commit(message string, author Author) (string, error) {
	opts := &git.CommitOptions{}
	if author.Name != "" && author.Email != "" {
		opts.Author = &object.Signature{
			Name:  author.Name,
			Email: author.Email,
			When:  time.Now(),
		}
	}
	hash, err := r.wt.Commit(message, opts)
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return hash.String(), nil
}

// CommitMessage renders a handlebars template with the added versions and
// the list marker available as "versions" and "marker".
func CommitMessage(tmpl, marker string, versions []string) (string, error) {
	out, err := raymond.Render(tmpl, map[string]interface{}{
		"versions": versions,
		"marker":   marker,
		"count":    len(versions),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render commit message: %w", err)
	}
	return out, nil
}
