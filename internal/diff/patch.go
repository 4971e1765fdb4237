package diff

import (
	"fmt"
	"strings"
)

// noNewlineMarker is the marker git emits after a body line that ends the
// file without a trailing newline.
const noNewlineMarker = `\ No newline at end of file`

// FormatPatch renders the hunk as a standalone patch: the owning file's two
// header lines followed by the hunk header and body. The emitted counts are
// recomputed from the body, which by construction equals the hunk's own
// counts since the whole body is emitted.
//
// The same bytes serve both staging and unstaging; unstaging differs only in
// passing the reverse flag to the apply invocation, never in the patch text.
func (h Hunk) FormatPatch() string {
	var b strings.Builder

	b.WriteString("--- ")
	b.WriteString(headerPath("a", h.OldFile, h.OldMissing))
	b.WriteByte('\n')
	b.WriteString("+++ ")
	b.WriteString(headerPath("b", h.NewFile, h.NewMissing))
	b.WriteByte('\n')

	b.WriteString(h.Header())
	b.WriteByte('\n')

	for _, l := range h.Lines {
		b.WriteByte(byte(l.Origin))
		b.WriteString(l.Text)
		b.WriteByte('\n')
		if l.NoEOL {
			b.WriteString(noNewlineMarker)
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// Header renders the hunk header line. Counts are recomputed from the body
// rather than copied from the parsed header, so a reduced hunk built with
// WithLines formats correctly without any bookkeeping by the caller.
func (h Hunk) Header() string {
	oldCount, newCount := countLines(h.Lines)
	return fmt.Sprintf("@@ -%s +%s @@",
		formatRange(h.OldStart, oldCount),
		formatRange(h.NewStart, newCount))
}

// headerPath renders one file-header path with its a/ or b/ prefix, or
// /dev/null for a side recorded as missing when the diff was parsed.
func headerPath(prefix, path string, missing bool) string {
	if missing || path == "" {
		return "/dev/null"
	}
	return prefix + "/" + path
}

// formatRange renders one side of a hunk header, omitting the count when it
// is exactly one, as git does.
func formatRange(start, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}
