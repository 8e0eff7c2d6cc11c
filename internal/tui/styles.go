package tui

import (
	"github.com/charmbracelet/lipgloss"

	"fitdash/internal/calendar"
)

// Colors
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	warningColor   = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#EF4444") // Red
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	accentColor    = lipgloss.Color("#4CC9F0") // Cyan
	textColor      = lipgloss.Color("#F9FAFB") // Light gray
)

// Styles
var (
	// App chrome
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor).
			Background(primaryColor).
			Padding(0, 1).
			MarginBottom(1)

	// Navigation
	navStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginBottom(1)

	navActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	navInactiveStyle = lipgloss.NewStyle().
				Foreground(mutedColor)

	// Cards and boxes
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(1, 2)

	cardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// Metrics
	metricLabelStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Width(20)

	metricValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(textColor)

	// Calendar
	weekdayStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(mutedColor)

	dayNumberStyle = lipgloss.NewStyle().
			Foreground(textColor)

	todayStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	selectedDayStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(textColor).
				Background(primaryColor)

	activityStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	trainingStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	competitionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(warningColor)

	coachBannerStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(textColor).
				Background(warningColor).
				Padding(0, 1)

	// Tooltip box; calendar.Tooltip.Size assumes a one-cell border and one
	// column of padding on each side
	tooltipStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)

	tooltipKindStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(accentColor)

	// Status
	statusStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	// Help
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// Progress bar
	progressEmptyStyle = lipgloss.NewStyle().
				Foreground(mutedColor)
)

// kindStyle returns the style of calendar entries of kind k
func kindStyle(k calendar.Kind) lipgloss.Style {
	switch k {
	case calendar.KindTraining:
		return trainingStyle
	case calendar.KindCompetition:
		return competitionStyle
	default:
		return activityStyle
	}
}

// Helper functions

// RenderMetric renders a metric with label and value
func RenderMetric(label, value string) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		metricLabelStyle.Render(label),
		metricValueStyle.Render(value),
	)
}

// RenderProgressBar renders an ASCII progress bar filled in color
func RenderProgressBar(percent float64, width int, color lipgloss.Color) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	full := lipgloss.NewStyle().Foreground(color)
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += full.Render("█")
		} else {
			bar += progressEmptyStyle.Render("░")
		}
	}
	return bar
}

// RenderKeyHelp renders a key binding help item
func RenderKeyHelp(key, desc string) string {
	return helpKeyStyle.Render(key) + " " + helpDescStyle.Render(desc)
}
