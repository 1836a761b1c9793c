package tui

import "github.com/charmbracelet/lipgloss"

// One Dark palette
var (
	colorFgMuted = lipgloss.Color("#636B78")
	colorRed     = lipgloss.Color("#E06C75")
	colorGreen   = lipgloss.Color("#98C379")
	colorBlue    = lipgloss.Color("#61AFEF")
	colorYellow  = lipgloss.Color("#E5C07B")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue).
			MarginBottom(1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	cursorStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorFgMuted).
			MarginTop(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1)
)
