// Package repo answers the version-control questions a rename run asks:
// is the project under git, is its working tree clean, and staging every
// change once the run is finished.
package repo

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
)

// ErrNotRepository is returned when no git repository contains the project.
var ErrNotRepository = errors.New("not a git repository")

// Repo is an opened git repository.
type Repo struct {
	repo *git.Repository
}

// Open finds the repository containing dir, walking up to parent
// directories like the git CLI does.
func Open(dir string) (*Repo, error) {
	r, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, dir)
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return &Repo{repo: r}, nil
}

// Dirty returns the worktree paths with uncommitted changes, sorted.
// Untracked files count as changes.
func (r *Repo) Dirty() ([]string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	var out []string
	for path, st := range status {
		if st.Staging == git.Unmodified && st.Worktree == git.Unmodified {
			continue
		}
		out = append(out, path)
	}
	sort.Strings(out)
	return out, nil
}

// IsClean reports whether the worktree has no uncommitted changes.
func (r *Repo) IsClean() (bool, error) {
	dirty, err := r.Dirty()
	if err != nil {
		return false, err
	}
	return len(dirty) == 0, nil
}

// StageAll stages every change in the worktree, including deletions
// (git add -A).
func (r *Repo) StageAll() error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("stage changes: %w", err)
	}
	return nil
}
