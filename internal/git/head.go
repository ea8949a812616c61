package git

import (
	stdErrors "errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

var (
	// ErrNotRepository is returned when dir is not inside a git work tree.
	ErrNotRepository = stdErrors.New("not a git repository")
	// ErrNoCommits is returned for a repository without a HEAD commit.
	ErrNoCommits = stdErrors.New("repository has no commits")
)

// Revision describes the checked-out HEAD.
type Revision struct {
	Commit string `json:"commit"`
	Branch string `json:"branch,omitempty"`
	Dirty  bool   `json:"dirty"`
}

// Short returns the abbreviated commit hash.
func (r Revision) Short() string {
	if len(r.Commit) > 7 {
		return r.Commit[:7]
	}
	return r.Commit
}

func (r Revision) String() string {
	s := r.Short()
	if r.Branch != "" {
		s = r.Branch + "@" + s
	}
	if r.Dirty {
		s += "+dirty"
	}
	return s
}

// ReadRevision opens the repository containing dir (searching parent
// directories) and reports its HEAD.
func ReadRevision(dir string) (*Revision, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if stdErrors.Is(err, git.ErrRepositoryNotExists) {
		return nil, ErrNotRepository
	}
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	head, err := repo.Head()
	if stdErrors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, ErrNoCommits
	}
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	rev := &Revision{Commit: head.Hash().String()}
	if head.Name().IsBranch() {
		rev.Branch = head.Name().Short()
	}
	if wt, err := repo.Worktree(); err == nil {
		if status, err := wt.Status(); err == nil {
			rev.Dirty = !status.IsClean()
		}
	}
	return rev, nil
}
