// Package gitinfo resolves per-file last-modified times from git history,
// so page dates reflect when content actually changed rather than checkout
// mtimes.
package gitinfo

import (
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"
)

// Resolver answers last-modified queries against one repository.
type Resolver struct {
	repo *git.Repository
	root string
}

// Open locates the repository containing dir. It returns an error when dir
// is not inside a git worktree; callers treat that as "no git info".
func Open(dir string) (*Resolver, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, err
	}
	return &Resolver{repo: repo, root: wt.Filesystem.Root()}, nil
}

// LastModified returns the committer time of the most recent commit touching
// path. ok is false for untracked or never-committed files.
func (r *Resolver) LastModified(path string) (time.Time, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return time.Time{}, false
	}
	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return time.Time{}, false
	}
	rel = filepath.ToSlash(rel)

	iter, err := r.repo.Log(&git.LogOptions{
		FileName: &rel,
		Order:    git.LogOrderCommitterTime,
	})
	if err != nil {
		return time.Time{}, false
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		return time.Time{}, false
	}
	return commit.Committer.When, true
}
