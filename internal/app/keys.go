package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Op is a logical operation the user can invoke. Bindings are configuration;
// operations are the stable surface.
type Op int

const (
	OpNone Op = iota
	OpQuit
	OpRefresh
	OpToggleSection
	OpSelectPrevious
	OpSelectNext
	OpHalfPageUp
	OpHalfPageDown
	OpLog
	OpFetchAll
	OpCommit
	OpPush
	OpPull

	// Target-scoped operations resolve against the selected item's
	// Actionable; without one they are silent no-ops.
	OpShowOrEdit
	OpStage
	OpUnstage
)

// Menu identifies an open transient menu: a prefix key opens it, any bind
// executed within it (or cancel) closes it.
type Menu int

const (
	MenuNone Menu = iota
	MenuCommit
	MenuFetch
	MenuPush
	MenuPull
)

// Title returns the menu heading shown in the popup.
func (m Menu) Title() string {
	switch m {
	case MenuCommit:
		return "Commit"
	case MenuFetch:
		return "Fetch"
	case MenuPush:
		return "Push"
	case MenuPull:
		return "Pull"
	default:
		return ""
	}
}

// Bind maps a key chord to an operation, or to opening a transient menu.
type Bind struct {
	Key   key.Binding
	Op    Op
	Opens Menu
}

// KeyMap holds the global binds, the binds of each transient menu, and the
// menu cancel chord.
type KeyMap struct {
	Global []Bind
	Menus  map[Menu][]Bind
	Cancel key.Binding
}

// Resolve maps a key event, given the currently open transient menu, to an
// operation and the next menu state. While a menu is open only its binds
// plus cancel are eligible. Unknown chords resolve to OpNone and leave the
// menu state unchanged. Pure function; no screen state is touched.
func (k KeyMap) Resolve(msg tea.KeyMsg, active Menu) (Op, Menu) {
	if active != MenuNone {
		if key.Matches(msg, k.Cancel) {
			return OpNone, MenuNone
		}
		for _, b := range k.Menus[active] {
			if key.Matches(msg, b.Key) {
				return b.Op, MenuNone
			}
		}
		return OpNone, active
	}

	for _, b := range k.Global {
		if key.Matches(msg, b.Key) {
			if b.Opens != MenuNone {
				return OpNone, b.Opens
			}
			return b.Op, MenuNone
		}
	}

	return OpNone, MenuNone
}

// MenuBinds returns the binds of a menu for display.
func (k KeyMap) MenuBinds(m Menu) []Bind {
	return k.Menus[m]
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Global: []Bind{
			{Key: key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit screen")), Op: OpQuit},
			{Key: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "refresh")), Op: OpRefresh},
			{Key: key.NewBinding(key.WithKeys("tab"), key.WithHelp("⇥", "toggle section")), Op: OpToggleSection},
			{Key: key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "previous")), Op: OpSelectPrevious},
			{Key: key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "next")), Op: OpSelectNext},
			{Key: key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("C-u", "half page up")), Op: OpHalfPageUp},
			{Key: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("C-d", "half page down")), Op: OpHalfPageDown},
			{Key: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "log")), Op: OpLog},
			{Key: key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "show/edit")), Op: OpShowOrEdit},
			{Key: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stage")), Op: OpStage},
			{Key: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unstage")), Op: OpUnstage},
			{Key: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "commit menu")), Opens: MenuCommit},
			{Key: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fetch menu")), Opens: MenuFetch},
			{Key: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pull menu")), Opens: MenuPull},
			{Key: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "push menu")), Opens: MenuPush},
		},
		Menus: map[Menu][]Bind{
			MenuCommit: {
				{Key: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "commit")), Op: OpCommit},
			},
			MenuFetch: {
				{Key: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "fetch all")), Op: OpFetchAll},
				{Key: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fetch all")), Op: OpFetchAll},
			},
			MenuPush: {
				{Key: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "push")), Op: OpPush},
			},
			MenuPull: {
				{Key: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pull")), Op: OpPull},
			},
		},
		Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+g"), key.WithHelp("⎋", "cancel")),
	}
}
