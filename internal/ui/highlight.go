package ui

import (
	"os/exec"
	"strings"

	"github.com/jakejx/gitu/internal/diff"
	"github.com/jakejx/gitu/internal/screen"
)

// HunkFormatter returns the formatter used for hunk display blocks. With a
// delta binary available the hunk is piped through it in color-only mode,
// which highlights without altering line structure; otherwise (or when
// delta fails) the built-in lipgloss coloring is used.
func HunkFormatter(deltaPath string) screen.HunkFormatter {
	if deltaPath == "" {
		return colorHunk
	}

	return func(h diff.Hunk) string {
		if out, ok := deltaHunk(deltaPath, h); ok {
			return out
		}
		return colorHunk(h)
	}
}

// colorHunk styles a hunk with the built-in diff colors.
func colorHunk(h diff.Hunk) string {
	var b strings.Builder
	b.WriteString(HunkHeaderStyle.Render(h.Header()))

	for _, l := range h.Lines {
		b.WriteByte('\n')
		line := string(l.Origin) + l.Text
		switch l.Origin {
		case diff.Addition:
			line = AddedLineStyle.Render(line)
		case diff.Deletion:
			line = RemovedLineStyle.Render(line)
		}
		b.WriteString(line)
	}

	return b.String()
}

// deltaHunk highlights a hunk with delta. The synthesized patch is fed on
// stdin; the two file-header lines are dropped from the output so only the
// hunk block remains. --color-only keeps output lines 1:1 with input lines.
func deltaHunk(deltaPath string, h diff.Hunk) (string, bool) {
	cmd := exec.Command(deltaPath, "--color-only", "--paging=never")
	cmd.Stdin = strings.NewReader(h.FormatPatch())

	out, err := cmd.Output()
	if err != nil {
		return "", false
	}

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) < 3 {
		return "", false
	}

	return strings.Join(lines[2:], "\n"), true
}
