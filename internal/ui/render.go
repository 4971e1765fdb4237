package ui

import (
	"strings"

	"github.com/jakejx/gitu/internal/screen"
)

// MenuEntry is one line of a transient menu popup.
type MenuEntry struct {
	Key  string
	Desc string
}

// Layout composes the screen body with an optional popup pinned to the
// bottom, keeping the whole output within the given height.
func Layout(s *screen.Screen, width, height int, popup string) string {
	if popup == "" {
		return renderItems(s, width, height)
	}

	popupLines := strings.Count(popup, "\n") + 1
	bodyHeight := height - popupLines - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	separator := PopupBorderStyle.Render(strings.Repeat("─", max(width, 1)))

	return renderItems(s, width, bodyHeight) + "\n" + separator + "\n" + popup
}

// renderItems renders the visible items, indented by depth, with the
// selected item highlighted and scrolled into view. Items can span several
// lines (hunk blocks), so scrolling is computed on lines, not items.
func renderItems(s *screen.Screen, width, height int) string {
	items := s.VisibleItems()
	cursor := s.Cursor()

	var lines []string
	cursorFirst, cursorLast := 0, 0

	for i, item := range items {
		indent := strings.Repeat("  ", item.Depth)
		first := len(lines)

		for _, line := range strings.Split(item.Display, "\n") {
			rendered := indent + line
			switch {
			case i == cursor:
				rendered = SelectedStyle.Render(rendered)
			case item.Depth == 0 && item.Target == nil:
				rendered = SectionStyle.Render(rendered)
			}
			lines = append(lines, rendered)
		}

		if i == cursor {
			cursorFirst, cursorLast = first, len(lines)-1
		}
	}

	offset := 0
	if cursorLast >= height {
		offset = cursorLast - height + 1
	}
	if cursorFirst < offset {
		offset = cursorFirst
	}

	end := offset + height
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[offset:end], "\n")
}

// RenderCommand renders the command popup: the issued command line, a
// running indicator until completion, and the accumulated output.
func RenderCommand(args string, output []byte, finished bool) string {
	suffix := ""
	if !finished {
		suffix = "..."
	}

	out := CommandStyle.Render("$ " + args + suffix)
	if len(output) > 0 {
		out += "\n" + strings.TrimRight(string(output), "\n")
	}

	return out
}

// RenderMenu renders a transient menu popup: title plus one line per bind.
func RenderMenu(title string, entries []MenuEntry) string {
	var b strings.Builder
	b.WriteString(MenuTitleStyle.Render(title))

	for _, e := range entries {
		b.WriteString("\n ")
		b.WriteString(MenuKeyStyle.Render(e.Key))
		b.WriteString(" ")
		b.WriteString(MenuDescStyle.Render(e.Desc))
	}

	return b.String()
}

// RenderError prefixes a popup (possibly empty) with an error line.
func RenderError(text, popup string) string {
	line := ErrorStyle.Render(text)
	if popup == "" {
		return line
	}
	return line + "\n" + popup
}
