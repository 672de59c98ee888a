package report

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette shared with the terminal viewer
var (
	ColorPrimary   = lipgloss.Color("#8B5CF6") // Violet
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan
	ColorSuccess   = lipgloss.Color("#10B981") // Emerald
	ColorWarning   = lipgloss.Color("#F59E0B") // Amber
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorText      = lipgloss.Color("#F8FAFC") // Slate 50
)

// Styles groups the styles used for text reports
type Styles struct {
	Title   lipgloss.Style
	Path    lipgloss.Style
	Line    lipgloss.Style
	Key     lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles returns the report styles; with noColor every style is plain
func NewStyles(noColor bool) Styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return Styles{plain, plain, plain, plain, plain, plain, plain, plain}
	}
	return Styles{
		Title:   lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true),
		Path:    lipgloss.NewStyle().Foreground(ColorSecondary),
		Line:    lipgloss.NewStyle().Foreground(ColorMuted),
		Key:     lipgloss.NewStyle().Foreground(ColorText).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Success: lipgloss.NewStyle().Foreground(ColorSuccess),
		Muted:   lipgloss.NewStyle().Foreground(ColorMuted).Italic(true),
	}
}
