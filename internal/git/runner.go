// Package git is the boundary to the external git tool: query execution for
// screen refreshes, command builders for mutating operations, read-only
// repository introspection, and a filesystem watcher for auto-refresh.
//
// Mutations (stage, unstage, commit, push, ...) always go through the
// external tool; go-git is used only to read repository state.
package git

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes git queries against a single repository.
type Runner struct {
	repoRoot string
}

// NewRunner creates a runner bound to the given repository root.
func NewRunner(repoRoot string) *Runner {
	return &Runner{repoRoot: repoRoot}
}

// RepoRoot returns the repository root the runner is bound to.
func (r *Runner) RepoRoot() string {
	return r.repoRoot
}

// Run executes a git command and returns its stdout. A nonzero exit becomes
// a CommandError carrying the command line and stderr for display.
func (r *Runner) Run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.repoRoot

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &CommandError{
			Command: "git " + strings.Join(args, " "),
			Stderr:  stderr.String(),
			Err:     err,
		}
	}

	return stdout.String(), nil
}

// Diff returns the unstaged changes as a unified diff.
func (r *Runner) Diff() (string, error) {
	return r.Run("diff", "--no-color")
}

// DiffCached returns the staged changes as a unified diff.
func (r *Runner) DiffCached() (string, error) {
	return r.Run("diff", "--no-color", "--cached")
}

// UntrackedFiles lists files not known to git, honoring ignore rules.
func (r *Runner) UntrackedFiles() ([]string, error) {
	out, err := r.Run("ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paths = append(paths, line)
		}
	}

	return paths, nil
}

// Log returns one-line-per-commit log output, forwarding any extra args.
func (r *Runner) Log(args ...string) (string, error) {
	full := append([]string{"log", "--no-color", "--oneline", "--decorate"}, args...)
	return r.Run(full...)
}

// Show returns the output of git show for the given args (typically a ref).
func (r *Runner) Show(args ...string) (string, error) {
	full := append([]string{"show", "--no-color"}, args...)
	return r.Run(full...)
}

// CommandError is a git invocation that exited nonzero. It is not fatal to
// the application; the message is shown to the user instead.
type CommandError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %s", e.Command, strings.TrimSpace(e.Stderr))
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
