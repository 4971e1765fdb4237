package git

import (
	"bytes"
	"os/exec"
	"strings"
)

// Command builds a git invocation rooted at the repository. The returned
// exec.Cmd is not started; screens record it as an IssuedCommand and the
// application loop runs it.
func Command(repoRoot string, args ...string) *exec.Cmd {
	cmd := exec.Command("git", args...)
	cmd.Dir = repoRoot
	return cmd
}

// FetchAllCmd fetches from all remotes.
func FetchAllCmd(repoRoot string) *exec.Cmd {
	return Command(repoRoot, "fetch", "--all")
}

// PushCmd pushes the current branch to its upstream.
func PushCmd(repoRoot string) *exec.Cmd {
	return Command(repoRoot, "push")
}

// PullCmd pulls the current branch from its upstream.
func PullCmd(repoRoot string) *exec.Cmd {
	return Command(repoRoot, "pull")
}

// StageFileCmd stages one path, including deletions.
func StageFileCmd(repoRoot, path string) *exec.Cmd {
	return Command(repoRoot, "add", "--", path)
}

// UnstageFileCmd removes one path from the index, keeping the worktree.
func UnstageFileCmd(repoRoot, path string) *exec.Cmd {
	return Command(repoRoot, "restore", "--staged", "--", path)
}

// ApplyCachedCmd applies a patch from stdin to the index. With reverse set
// the same patch bytes are applied in reverse, which is how unstaging a hunk
// is expressed: the text never changes, only the invocation.
func ApplyCachedCmd(repoRoot string, reverse bool) *exec.Cmd {
	args := []string{"apply", "--cached"}
	if reverse {
		args = append(args, "--reverse")
	}
	return Command(repoRoot, args...)
}

// CommitCmd opens an interactive commit. It must run in the foreground with
// full terminal ownership.
func CommitCmd(repoRoot string) *exec.Cmd {
	return Command(repoRoot, "commit")
}

// Describe renders a command line for display in the command popup.
func Describe(cmd *exec.Cmd) string {
	return strings.Join(cmd.Args, " ")
}

// Result is the outcome of a finished background command.
type Result struct {
	Output   []byte
	ExitCode int
}

// Capture runs a command to completion, feeding it the given input on stdin
// and collecting stdout and stderr into one buffer in arrival order. A
// nonzero exit is reported through ExitCode, not as an error; the returned
// error is reserved for spawn failures.
func Capture(cmd *exec.Cmd, input []byte) (Result, error) {
	var buf bytes.Buffer
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	res := Result{Output: buf.Bytes()}

	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return res, err
		}
		res.ExitCode = exitErr.ExitCode()
	}

	return res, nil
}
