// Package screen implements the navigable views of the client: items and
// their action targets, collapsible sections, the cursor and command state of
// a single screen, and the stack of screens the application drills through.
package screen

import "github.com/jakejx/gitu/internal/diff"

// Actionable is the payload a displayed line can carry. It is a closed set
// of variants; every operation dispatches over it with a type switch so each
// (variant, operation) pair is an explicit decision. Variants without a
// defined behavior for an operation resolve to a no-op, never a failure.
type Actionable interface {
	actionable()
}

// Ref names a point in history: a branch, tag or commit hash.
type Ref struct {
	Name string
}

// Untracked is a file unknown to git.
type Untracked struct {
	Path string
}

// DeltaTarget is the full set of changes to one file.
type DeltaTarget struct {
	Delta diff.Delta
}

// HunkTarget is one contiguous change region, stageable on its own.
type HunkTarget struct {
	Hunk diff.Hunk
}

// LineTarget is a single diff line. No operation acts on it yet; it exists
// so finer-grained staging can slot in without changing the dispatch shape.
type LineTarget struct {
	Line diff.DiffLine
}

func (Ref) actionable()         {}
func (Untracked) actionable()   {}
func (DeltaTarget) actionable() {}
func (HunkTarget) actionable()  {}
func (LineTarget) actionable()  {}

// Item is one selectable entry of a screen. Display may span multiple lines
// (a hunk renders as its whole block). Items are immutable once a refresh
// has produced them; the next refresh rebuilds the list wholesale.
type Item struct {
	Display string
	Depth   int
	Target  Actionable // nil when the line is display-only
}

// Section is a named, collapsible run of items. Collapse state survives a
// refresh when the section title matches; contents never do. An untitled
// section has no header line and cannot collapse.
type Section struct {
	Title     string
	Items     []Item
	Collapsed bool
}

// HunkFormatter renders a hunk's display block. The default is the plain
// patch text; a highlighting formatter can be injected instead.
type HunkFormatter func(diff.Hunk) string

// PlainHunk renders a hunk as its header followed by the raw body lines.
func PlainHunk(h diff.Hunk) string {
	out := h.Header()
	for _, l := range h.Lines {
		out += "\n" + string(l.Origin) + l.Text
	}
	return out
}
