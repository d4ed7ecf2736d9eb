package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

const shortHashLen = 8

// ErrNotRepository is returned when no repository encloses the path.
var ErrNotRepository = errors.New("not inside a git repository")

// Info identifies the checked-out revision of a work tree.
type Info struct {
	Branch      string `json:"branch,omitempty"`
	Commit      string `json:"commit"`
	ShortCommit string `json:"short_commit"`
}

// Describe returns the branch and commit of the repository enclosing path,
// searching parent directories for the .git directory.
func Describe(path string) (*Info, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}

	ref, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, fmt.Errorf("repository has no commits: %w", err)
		}
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	info := &Info{Commit: ref.Hash().String()}
	info.ShortCommit = info.Commit
	if len(info.ShortCommit) > shortHashLen {
		info.ShortCommit = info.ShortCommit[:shortHashLen]
	}
	if ref.Name().IsBranch() {
		info.Branch = ref.Name().Short()
	}
	return info, nil
}

// String renders the info as "branch@short" or just the short hash.
func (i *Info) String() string {
	if i == nil {
		return ""
	}
	if i.Branch == "" {
		return i.ShortCommit
	}
	return i.Branch + "@" + i.ShortCommit
}
