package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorAccent = lipgloss.Color("#0EA5E9")
	ColorMuted  = lipgloss.Color("244")
	ColorWhite  = lipgloss.Color("#FFFFFF")
	ColorDanger = lipgloss.Color("#EF4444")

	brandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent).
			Padding(0, 1)

	menuItemStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	selectedMenuItemStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorWhite).
				Background(ColorAccent).
				Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)

	cardValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	footerStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)
)

// toneColor maps a card tone to a terminal colour.
func toneColor(tone string) lipgloss.Color {
	switch tone {
	case "text-destructive":
		return ColorDanger
	case "text-accent":
		return lipgloss.Color("#F97316")
	case "text-secondary", "text-muted-foreground":
		return ColorMuted
	default:
		return ColorAccent
	}
}
