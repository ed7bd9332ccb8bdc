package ui

import "github.com/charmbracelet/lipgloss"

var (
	accentPrimary   = lipgloss.Color("#50E3C2")
	accentSecondary = lipgloss.Color("#F6AE2D")
	mutedText       = lipgloss.Color("#8CA1AE")
	warningText     = lipgloss.Color("#FF6B6B")
	positiveText    = lipgloss.Color("#44E7AE")
	negativeText    = lipgloss.Color("#FF6B6B")
	cardBorder      = lipgloss.Color("#2D6A80")
)

var (
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(accentPrimary)

	statusStyle = lipgloss.NewStyle().
			Foreground(accentSecondary).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(warningText).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedText)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedText)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cardBorder).
			Padding(0, 1)

	cardSelectedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accentPrimary).
				Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cardBorder).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(accentPrimary).
			Bold(true)

	runningBadgeStyle = lipgloss.NewStyle().
				Foreground(positiveText).
				Bold(true)

	stoppedBadgeStyle = lipgloss.NewStyle().
				Foreground(mutedText).
				Bold(true)

	spreadPositiveStyle = lipgloss.NewStyle().
				Foreground(positiveText).
				Bold(true)

	spreadNegativeStyle = lipgloss.NewStyle().
				Foreground(negativeText).
				Bold(true)

	spreadFlatStyle = lipgloss.NewStyle().
			Foreground(mutedText)
)
