package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderDialog draws a bordered dialog box centered in the available screen
// area. Rendering is a pure function of its arguments.
func renderDialog(title, body, buttons string, borderColor lipgloss.Color, width, height int) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(borderColor).
		MarginBottom(1)

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		body,
		"",
		buttons,
	)

	dialogWidth := 56
	if width > 0 && width < dialogWidth+10 {
		dialogWidth = width - 10
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2).
		Width(dialogWidth).
		Render(content)

	if width <= 0 || height <= 0 {
		return box
	}

	boxHeight := lipgloss.Height(box)
	boxWidth := lipgloss.Width(box)

	padLeft := (width - boxWidth) / 2
	if padLeft < 0 {
		padLeft = 0
	}
	padTop := (height - boxHeight) / 2
	if padTop < 0 {
		padTop = 0
	}

	var b strings.Builder
	for i := 0; i < padTop; i++ {
		b.WriteString("\n")
	}
	for _, line := range strings.Split(box, "\n") {
		b.WriteString(strings.Repeat(" ", padLeft))
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// dialogButtons renders a yes/no button row with an escape hint.
func dialogButtons(yes, no string, yesColor lipgloss.Color) string {
	buttonYes := lipgloss.NewStyle().
		Foreground(ColorBg).
		Background(yesColor).
		Padding(0, 2).
		Bold(true).
		Render(yes)
	buttonNo := lipgloss.NewStyle().
		Foreground(ColorBg).
		Background(ColorAccent).
		Padding(0, 2).
		Bold(true).
		Render(no)
	escHint := lipgloss.NewStyle().
		Foreground(ColorTextDim).
		Render("(Esc to cancel)")
	return lipgloss.JoinHorizontal(lipgloss.Center, buttonYes, "  ", buttonNo, "  ", escHint)
}
