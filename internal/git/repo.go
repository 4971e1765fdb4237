package git

import (
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Discover resolves the worktree root of the repository containing path,
// walking upward the way git itself does.
func Discover(path string) (string, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("opening repository at %s: %w", path, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("resolving worktree: %w", err)
	}

	return wt.Filesystem.Root(), nil
}

// HeadSummary describes the current HEAD for the status screen header:
// branch name (or detached hash) plus the short hash and subject of the
// commit it points at.
func HeadSummary(repoRoot string) (string, error) {
	repo, err := gogit.PlainOpen(repoRoot)
	if err != nil {
		return "", fmt.Errorf("opening repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		// A repository with no commits has no HEAD to resolve.
		return "No commits yet", nil
	}

	short := head.Hash().String()[:7]

	subject := ""
	if commit, err := repo.CommitObject(head.Hash()); err == nil {
		subject = commitSubject(commit.Message)
	}

	if head.Name() == plumbing.HEAD {
		return fmt.Sprintf("HEAD detached at %s %s", short, subject), nil
	}

	return fmt.Sprintf("On branch %s (%s %s)", head.Name().Short(), short, subject), nil
}

func commitSubject(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}
	return strings.TrimSpace(message)
}
