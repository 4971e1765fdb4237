package screen

import (
	"fmt"

	"github.com/jakejx/gitu/internal/diff"
	"github.com/jakejx/gitu/internal/git"
)

// StatusCollector builds the status screen: HEAD summary, untracked files,
// and the unstaged and staged changes with their deltas and hunks. Sections
// with nothing to show are omitted entirely.
func StatusCollector(r *git.Runner, format HunkFormatter) Collector {
	return func() ([]Section, error) {
		var sections []Section

		head, err := git.HeadSummary(r.RepoRoot())
		if err != nil {
			return nil, err
		}
		sections = append(sections, Section{
			Items: []Item{{Display: head}},
		})

		untracked, err := r.UntrackedFiles()
		if err != nil {
			return nil, err
		}
		if len(untracked) > 0 {
			items := make([]Item, 0, len(untracked))
			for _, path := range untracked {
				items = append(items, Item{
					Display: path,
					Depth:   1,
					Target:  Untracked{Path: path},
				})
			}
			sections = append(sections, Section{Title: "Untracked files", Items: items})
		}

		unstaged, err := r.Diff()
		if err != nil {
			return nil, err
		}
		if deltas := diff.Parse(unstaged); len(deltas) > 0 {
			sections = append(sections, Section{
				Title: "Unstaged changes",
				Items: deltaItems(deltas, format),
			})
		}

		staged, err := r.DiffCached()
		if err != nil {
			return nil, err
		}
		if deltas := diff.Parse(staged); len(deltas) > 0 {
			sections = append(sections, Section{
				Title: "Staged changes",
				Items: deltaItems(deltas, format),
			})
		}

		return sections, nil
	}
}

// deltaItems renders parsed deltas as one file item followed by a block
// item per hunk.
func deltaItems(deltas []diff.Delta, format HunkFormatter) []Item {
	var items []Item
	for _, d := range deltas {
		items = append(items, Item{
			Display: fmt.Sprintf("%s %s", d.Status, displayPath(d)),
			Depth:   1,
			Target:  DeltaTarget{Delta: d},
		})
		for _, h := range d.Hunks {
			items = append(items, Item{
				Display: format(h),
				Depth:   2,
				Target:  HunkTarget{Hunk: h},
			})
		}
	}
	return items
}

func displayPath(d diff.Delta) string {
	if d.Status == diff.Renamed && d.OldFile != d.NewFile {
		return d.OldFile + " -> " + d.NewFile
	}
	return d.NewFile
}
