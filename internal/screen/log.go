package screen

import (
	"strings"

	"github.com/jakejx/gitu/internal/git"
)

// LogCollector builds the log screen from one-line-per-commit output,
// forwarding any extra arguments to the log invocation. Each line's leading
// hash becomes a Ref target so a commit can be drilled into.
func LogCollector(r *git.Runner, args ...string) Collector {
	return func() ([]Section, error) {
		out, err := r.Log(args...)
		if err != nil {
			return nil, err
		}

		var items []Item
		for _, line := range strings.Split(out, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}

			item := Item{Display: line}
			if hash, _, ok := strings.Cut(line, " "); ok && hash != "" {
				item.Target = Ref{Name: hash}
			}
			items = append(items, item)
		}

		return []Section{{Items: items}}, nil
	}
}
