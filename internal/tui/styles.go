package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared by the form views.
//
//nolint:gochecknoglobals // Immutable style constants.
var (
	ColorHeader    = lipgloss.Color("39")
	ColorLabel     = lipgloss.Color("250")
	ColorValue     = lipgloss.Color("255")
	ColorMuted     = lipgloss.Color("243")
	ColorHighlight = lipgloss.Color("214")
	ColorSelected  = lipgloss.Color("42")
	ColorError     = lipgloss.Color("196")
	ColorBorder    = lipgloss.Color("240")
)
