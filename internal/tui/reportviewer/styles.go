package reportviewer

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/transync/internal/report"
)

// Extra panel colors on top of the report palette
var (
	ColorDimmed    = lipgloss.Color("#374151") // Dark Gray
	ColorBgPanel   = lipgloss.Color("#1E293B") // Slate 800
	ColorTextMuted = lipgloss.Color("#94A3B8") // Slate 400
	ColorTextDim   = lipgloss.Color("#64748B") // Slate 500
)

// Header styles
var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(report.ColorPrimary).
			Bold(true)

	FileStyle = lipgloss.NewStyle().
			Foreground(report.ColorSecondary)

	TitlePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(report.ColorPrimary).
			Padding(0, 2)
)

// Row styles
var (
	LineStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	PathStyle = lipgloss.NewStyle().
			Foreground(report.ColorSecondary)

	KindStyle = lipgloss.NewStyle().
			Foreground(report.ColorText).
			Bold(true)

	MessageStyle = lipgloss.NewStyle().
			Foreground(report.ColorText)

	ErrorBadgeStyle = lipgloss.NewStyle().
			Foreground(report.ColorError).
			Bold(true)

	WarningBadgeStyle = lipgloss.NewStyle().
				Foreground(report.ColorWarning).
				Bold(true)
)

// Panel and bar styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimmed).
			Padding(0, 1)

	FilterBarStyle = lipgloss.NewStyle().
			Background(ColorBgPanel).
			Foreground(report.ColorText).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorBgPanel).
			Foreground(report.ColorText).
			Padding(0, 1)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(report.ColorSuccess).
			Bold(true)

	StatusFailStyle = lipgloss.NewStyle().
			Foreground(report.ColorError).
			Bold(true)
)

// Help and filter styles
var (
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			MarginTop(1)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(report.ColorPrimary).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	FilterActiveStyle = lipgloss.NewStyle().
				Foreground(report.ColorSuccess).
				Bold(true)

	FilterInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorTextDim)
)

// Logo
const Logo = "transync"

// RenderKeyHint renders a keyboard shortcut hint
func RenderKeyHint(key, description string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(description)
}

// RenderSeverityBadge renders an issue severity badge
func RenderSeverityBadge(isError bool) string {
	if isError {
		return ErrorBadgeStyle.Render("[ERROR]")
	}
	return WarningBadgeStyle.Render("[WARN] ")
}

// RenderFilterStatus renders a filter status indicator
func RenderFilterStatus(name string, active bool) string {
	if active {
		return FilterActiveStyle.Render(name)
	}
	return FilterInactiveStyle.Render(name)
}
