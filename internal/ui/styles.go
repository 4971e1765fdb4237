// Package ui renders screens, the command popup and transient menus. It is
// a pure collaborator of the interaction engine: it reads screen state and
// produces strings, never mutating anything.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	primaryColor   = lipgloss.Color("62")  // Purple
	secondaryColor = lipgloss.Color("241") // Gray
	accentColor    = lipgloss.Color("86")  // Cyan
	addedColor     = lipgloss.Color("78")  // Green
	removedColor   = lipgloss.Color("203") // Red
	errorColor     = lipgloss.Color("160") // Bright red
	selectionBg    = lipgloss.Color("236") // Dark gray
)

// Styles for the application
var (
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	SelectedStyle = lipgloss.NewStyle().
			Background(selectionBg)

	HunkHeaderStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	AddedLineStyle = lipgloss.NewStyle().
			Foreground(addedColor)

	RemovedLineStyle = lipgloss.NewStyle().
				Foreground(removedColor)

	CommandStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	PopupBorderStyle = lipgloss.NewStyle().
				Foreground(primaryColor)

	MenuTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	MenuKeyStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	MenuDescStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)
)
