// Package diff models unified-diff output as deltas, hunks and lines, and
// synthesizes standalone patches from single hunks for selective staging.
//
// Parsing is backed by bluekeyes/go-gitdiff; the parsed result is converted
// into value types owned by the caller so that a refresh can rebuild the
// whole model without sharing state with previous generations.
package diff

import (
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// Status describes what happened to a file in a delta.
type Status int

const (
	Modified Status = iota
	Added
	Deleted
	Renamed
)

// String returns the status label used in item display text.
func (s Status) String() string {
	switch s {
	case Added:
		return "new file"
	case Deleted:
		return "deleted"
	case Renamed:
		return "renamed"
	default:
		return "modified"
	}
}

// Origin tags a diff line as context, addition or deletion.
type Origin byte

const (
	Context  Origin = ' '
	Addition Origin = '+'
	Deletion Origin = '-'
)

// DiffLine is one line of a hunk body. Text is stored without the trailing
// newline; NoEOL marks the source file's missing final newline so patch
// synthesis can reproduce it exactly.
type DiffLine struct {
	Origin Origin
	Text   string
	NoEOL  bool
}

// Hunk is one contiguous change region within a delta. OldFile and NewFile
// repeat the owning delta's paths so a hunk is self-contained for patch
// synthesis and editor jumps.
//
// OldMissing and NewMissing record which side of the file does not exist,
// taken from the parsed file header. They cannot be inferred from the hunk
// range: an empty tracked file gaining content diffs as @@ -0,0 +1,N @@
// under a real a/ header, and emitting /dev/null for it makes git reject or
// misapply the patch.
type Hunk struct {
	OldFile    string
	NewFile    string
	OldMissing bool
	NewMissing bool
	OldStart   int
	OldCount   int
	NewStart   int
	NewCount   int
	Lines      []DiffLine
}

// Delta is the set of changes to one file.
type Delta struct {
	OldFile string
	NewFile string
	Status  Status
	Hunks   []Hunk
}

// Parse converts a unified diff into deltas. Malformed input yields no
// deltas: the producing tool is trusted, so a parse failure is a defensive
// fallback rather than a user-facing error.
func Parse(text string) []Delta {
	files, _, err := gitdiff.Parse(strings.NewReader(text))
	if err != nil {
		return nil
	}

	deltas := make([]Delta, 0, len(files))
	for _, f := range files {
		deltas = append(deltas, convertFile(f))
	}

	return deltas
}

func convertFile(f *gitdiff.File) Delta {
	d := Delta{
		OldFile: f.OldName,
		NewFile: f.NewName,
		Status:  fileStatus(f),
	}

	// Renames and pure mode changes can leave one side empty; keep both
	// paths populated so editor and stage targets always have a name.
	if d.NewFile == "" {
		d.NewFile = d.OldFile
	}
	if d.OldFile == "" {
		d.OldFile = d.NewFile
	}

	d.Hunks = make([]Hunk, 0, len(f.TextFragments))
	for _, frag := range f.TextFragments {
		d.Hunks = append(d.Hunks, convertFragment(&d, frag))
	}

	return d
}

func fileStatus(f *gitdiff.File) Status {
	switch {
	case f.IsNew:
		return Added
	case f.IsDelete:
		return Deleted
	case f.IsRename:
		return Renamed
	default:
		return Modified
	}
}

func convertFragment(d *Delta, frag *gitdiff.TextFragment) Hunk {
	h := Hunk{
		OldFile:    d.OldFile,
		NewFile:    d.NewFile,
		OldMissing: d.Status == Added,
		NewMissing: d.Status == Deleted,
		OldStart:   int(frag.OldPosition),
		OldCount:   int(frag.OldLines),
		NewStart:   int(frag.NewPosition),
		NewCount:   int(frag.NewLines),
		Lines:      make([]DiffLine, 0, len(frag.Lines)),
	}

	for _, l := range frag.Lines {
		line := DiffLine{
			Text:  strings.TrimSuffix(l.Line, "\n"),
			NoEOL: l.NoEOL(),
		}

		switch l.Op {
		case gitdiff.OpAdd:
			line.Origin = Addition
		case gitdiff.OpDelete:
			line.Origin = Deletion
		default:
			line.Origin = Context
		}

		h.Lines = append(h.Lines, line)
	}

	return h
}

// WithLines returns a copy of the hunk retaining every context line and only
// the additions/deletions for which keep reports true. Old and new counts are
// recomputed from the retained lines, so the result is a valid hunk for patch
// synthesis. The index passed to keep is the line's position in h.Lines.
func (h Hunk) WithLines(keep func(i int, l DiffLine) bool) Hunk {
	out := Hunk{
		OldFile:    h.OldFile,
		NewFile:    h.NewFile,
		OldMissing: h.OldMissing,
		NewMissing: h.NewMissing,
		OldStart:   h.OldStart,
		NewStart:   h.NewStart,
	}

	for i, l := range h.Lines {
		if l.Origin != Context && !keep(i, l) {
			continue
		}
		out.Lines = append(out.Lines, l)
	}

	out.OldCount, out.NewCount = countLines(out.Lines)

	return out
}

// countLines returns the old-side and new-side line counts for a hunk body:
// context plus deletions, and context plus additions.
func countLines(lines []DiffLine) (old, new int) {
	for _, l := range lines {
		switch l.Origin {
		case Context:
			old++
			new++
		case Deletion:
			old++
		case Addition:
			new++
		}
	}
	return old, new
}
