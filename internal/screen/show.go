package screen

import (
	"strings"

	"github.com/jakejx/gitu/internal/diff"
	"github.com/jakejx/gitu/internal/git"
)

// ShowCollector builds a screen for one commit (or whatever the forwarded
// show arguments select): the commit header as plain lines, then the diff
// as delta and hunk items so they respond to the same operations as the
// status screen.
func ShowCollector(r *git.Runner, format HunkFormatter, args ...string) Collector {
	return func() ([]Section, error) {
		out, err := r.Show(args...)
		if err != nil {
			return nil, err
		}

		header, patch := splitShowOutput(out)

		var sections []Section

		var headerItems []Item
		for _, line := range strings.Split(strings.TrimRight(header, "\n"), "\n") {
			headerItems = append(headerItems, Item{Display: line})
		}
		if len(headerItems) > 0 {
			sections = append(sections, Section{Items: headerItems})
		}

		if deltas := diff.Parse(patch); len(deltas) > 0 {
			sections = append(sections, Section{
				Title: "Changes",
				Items: deltaItems(deltas, format),
			})
		}

		return sections, nil
	}
}

// splitShowOutput separates the commit message header from the diff body.
func splitShowOutput(out string) (header, patch string) {
	if i := strings.Index(out, "\ndiff --git "); i >= 0 {
		return out[:i+1], out[i+1:]
	}
	if strings.HasPrefix(out, "diff --git ") {
		return "", out
	}
	return out, ""
}
