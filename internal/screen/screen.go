package screen

import (
	"errors"
	"os/exec"

	"github.com/jakejx/gitu/internal/git"
)

// ErrCommandPending is returned when a screen is asked to issue a background
// command while a previous one has not finished. The caller surfaces it;
// the prior command's output is never overwritten.
var ErrCommandPending = errors.New("a command is already running on this screen")

// Collector rebuilds a screen's sections from a fresh external query. The
// three screen kinds (status, log, show) are collectors composed into the
// same Screen structure, so navigation, cursor and command handling are
// shared without any hierarchy.
type Collector func() ([]Section, error)

// Screen is one navigable view: sections of items, a cursor into the
// flattened visible list, and at most one in-flight background command.
type Screen struct {
	Width  int
	Height int

	collect  Collector
	sections []Section
	cursor   int
	command  *IssuedCommand
}

// New creates a screen and populates it with an initial refresh.
func New(width, height int, collect Collector) (*Screen, error) {
	s := &Screen{Width: width, Height: height, collect: collect}
	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// Refresh discards and rebuilds all sections from the collector. Collapse
// state is carried over by section title; on error the previous sections are
// kept so the screen stays usable.
func (s *Screen) Refresh() error {
	sections, err := s.collect()
	if err != nil {
		return err
	}

	collapsed := make(map[string]bool, len(s.sections))
	for _, sec := range s.sections {
		if sec.Title != "" {
			collapsed[sec.Title] = sec.Collapsed
		}
	}

	for i := range sections {
		if sections[i].Title != "" {
			sections[i].Collapsed = collapsed[sections[i].Title]
		}
	}

	s.sections = sections
	s.ClampCursor()

	return nil
}

// VisibleItems flattens the sections into the currently navigable list:
// a header item per titled section, followed by its items unless collapsed.
func (s *Screen) VisibleItems() []Item {
	var out []Item
	for _, sec := range s.sections {
		if sec.Title != "" {
			out = append(out, Item{Display: sec.Title})
		}
		if !sec.Collapsed {
			out = append(out, sec.Items...)
		}
	}
	return out
}

// Selected returns the item under the cursor, or a zero item when the
// screen is empty.
func (s *Screen) Selected() Item {
	items := s.VisibleItems()
	if len(items) == 0 {
		return Item{}
	}
	return items[s.clamped(len(items))]
}

// Cursor returns the current cursor index into the visible item list.
func (s *Screen) Cursor() int {
	return s.cursor
}

// SelectNext moves the cursor down one item.
func (s *Screen) SelectNext() {
	s.cursor++
	s.ClampCursor()
}

// SelectPrevious moves the cursor up one item.
func (s *Screen) SelectPrevious() {
	s.cursor--
	s.ClampCursor()
}

// HalfPageDown moves the cursor down by half the screen height.
func (s *Screen) HalfPageDown() {
	s.cursor += s.Height / 2
	s.ClampCursor()
}

// HalfPageUp moves the cursor up by half the screen height.
func (s *Screen) HalfPageUp() {
	s.cursor -= s.Height / 2
	s.ClampCursor()
}

// ToggleSection collapses or expands the titled section containing the
// cursor. Untitled sections are not collapsible. The cursor lands on the
// section header afterwards so it cannot vanish into hidden items.
func (s *Screen) ToggleSection() {
	index := 0
	for i := range s.sections {
		sec := &s.sections[i]
		span := 0
		if sec.Title != "" {
			span++
		}
		if !sec.Collapsed {
			span += len(sec.Items)
		}

		if s.cursor < index+span {
			if sec.Title != "" {
				sec.Collapsed = !sec.Collapsed
				s.cursor = index
			}
			break
		}
		index += span
	}

	s.ClampCursor()
}

// ClampCursor pins the cursor into the valid range of the visible item
// list. It runs after every refresh and every operation, so the list
// shrinking or growing arbitrarily between frames can never leave an
// out-of-range cursor observable.
func (s *Screen) ClampCursor() {
	s.cursor = s.clamped(len(s.VisibleItems()))
}

func (s *Screen) clamped(n int) int {
	if n == 0 {
		return 0
	}
	if s.cursor < 0 {
		return 0
	}
	if s.cursor >= n {
		return n - 1
	}
	return s.cursor
}

// IssuedCommand is a background command shown in the popup: the command
// line for display, the accumulated output, and the two-step completion
// state. Finished flips once when the completion is observed; Acknowledged
// records that the finished output has been shown, after which the next
// keypress dismisses it.
type IssuedCommand struct {
	Args  string
	Cmd   *exec.Cmd
	Input []byte

	Output       []byte
	ExitCode     int
	Finished     bool
	Acknowledged bool
}

// IssueCommand records a new background command on the screen. A pending
// unfinished command rejects the new one; a finished command (acknowledged
// or not) is replaced immediately.
func (s *Screen) IssueCommand(cmd *exec.Cmd, input []byte) (*IssuedCommand, error) {
	if s.command != nil && !s.command.Finished {
		return nil, ErrCommandPending
	}

	ic := &IssuedCommand{
		Args:  git.Describe(cmd),
		Cmd:   cmd,
		Input: input,
	}
	s.command = ic

	return ic, nil
}

// FinishCommand records the result of a completed command. Results for a
// command that has been superseded are dropped; the finished transition is
// observed at most once per command instance.
func (s *Screen) FinishCommand(ic *IssuedCommand, res git.Result) {
	if s.command != ic || ic.Finished {
		return
	}
	ic.Output = res.Output
	ic.ExitCode = res.ExitCode
	ic.Finished = true
}

// AcknowledgeFinished marks a finished command's output as shown.
func (s *Screen) AcknowledgeFinished() {
	if s.command != nil && s.command.Finished {
		s.command.Acknowledged = true
	}
}

// DismissFinished clears a finished, acknowledged command, reporting
// whether anything was dismissed. Called on the next keypress so the user
// always sees the output for at least one frame.
func (s *Screen) DismissFinished() bool {
	if s.command != nil && s.command.Finished && s.command.Acknowledged {
		s.command = nil
		return true
	}
	return false
}

// Command returns the screen's live command, or nil.
func (s *Screen) Command() *IssuedCommand {
	return s.command
}
