package ui

import "github.com/charmbracelet/lipgloss"

// Tokyo Night palette.
var (
	ColorBg      = lipgloss.Color("#1a1b26")
	ColorBorder  = lipgloss.Color("#414868")
	ColorText    = lipgloss.Color("#c0caf5")
	ColorTextDim = lipgloss.Color("#787fa0")
	ColorAccent  = lipgloss.Color("#7aa2f7")
	ColorCyan    = lipgloss.Color("#7dcfff")
	ColorGreen   = lipgloss.Color("#9ece6a")
	ColorYellow  = lipgloss.Color("#e0af68")
	ColorRed     = lipgloss.Color("#f7768e")
)

var (
	TitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	HeaderStyle = lipgloss.NewStyle().Foreground(ColorTextDim)
	StatusStyle = lipgloss.NewStyle().Foreground(ColorTextDim)
	FooterStyle = lipgloss.NewStyle().Foreground(ColorTextDim)
	RuleStyle   = lipgloss.NewStyle().Foreground(ColorBorder)

	CursorRowStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorText)
	SelectedStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorGreen)
	ActiveStyle     = lipgloss.NewStyle().Foreground(ColorRed)
	ActiveNoteStyle = lipgloss.NewStyle().Foreground(ColorYellow)
	ProjectStyle    = lipgloss.NewStyle().Foreground(ColorCyan)
	DimStyle        = lipgloss.NewStyle().Foreground(ColorTextDim)

	OKStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorGreen)
	WarnStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorYellow)
	ErrStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorRed)
)
