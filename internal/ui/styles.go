package ui

import "github.com/charmbracelet/lipgloss"

// ANSI 256 palette shared by reports, prompts and the config wizard.
var (
	colorPrimary = lipgloss.Color("39")
	colorSuccess = lipgloss.Color("34")
	colorWarning = lipgloss.Color("214")
	colorError   = lipgloss.Color("196")
	colorMuted   = lipgloss.Color("240")
)

var (
	bold = lipgloss.NewStyle().Bold(true)

	TitleStyle   = bold.Foreground(colorPrimary)
	HeaderStyle  = TitleStyle.Padding(0, 1)
	CellStyle    = lipgloss.NewStyle().Padding(0, 1)
	SuccessStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	MutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	ErrorStyle   = lipgloss.NewStyle().Foreground(colorError)

	// WarningStyle heads a prompt; DangerStyle heads a --force countdown.
	WarningStyle = bold.Foreground(colorWarning)
	DangerStyle  = bold.Foreground(colorError)
)

const (
	SymbolCheck      = "✓"
	SymbolCross      = "✗"
	SymbolArrowRight = "→"
)
