package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	colorGreen  = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
	colorRed    = lipgloss.Color("#fb4934")
	colorBlue   = lipgloss.Color("#83a598")
	colorPurple = lipgloss.Color("#d3869b")
	colorDim    = lipgloss.Color("#928374")
	colorFg     = lipgloss.Color("#ebdbb2")
)

var (
	styleGreen  = lipgloss.NewStyle().Foreground(colorGreen)
	styleYellow = lipgloss.NewStyle().Foreground(colorYellow)
	styleRed    = lipgloss.NewStyle().Foreground(colorRed)
	styleBlue   = lipgloss.NewStyle().Foreground(colorBlue)
	stylePurple = lipgloss.NewStyle().Foreground(colorPurple)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleBold   = lipgloss.NewStyle().Foreground(colorFg).Bold(true)
)

func dim(s string) string { return styleDim.Render(s) }

// renderReply styles an assistant reply for the chat scrollback,
// translating the session's **bold** markers to terminal bold.
func renderReply(text string) string {
	return styleBlue.Render("buddy") + dim(" ▸ ") + boldMarkers(text)
}

// boldMarkers requires balanced markers; anything unbalanced renders
// verbatim.
func boldMarkers(text string) string {
	parts := strings.Split(text, "**")
	if len(parts)%2 == 0 {
		return text
	}
	for i := 1; i < len(parts); i += 2 {
		parts[i] = styleBold.Render(parts[i])
	}
	return strings.Join(parts, "")
}
