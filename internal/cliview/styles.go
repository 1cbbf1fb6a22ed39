// Package cliview provides a Bubble Tea live dashboard for experiment runs.
//
// The dashboard is opt-in only (--tui on graphbench run) and purely
// presentational: it renders progress read from the checkpoint shards the
// executor already writes, nothing TUI-exclusive.
package cliview

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor   = lipgloss.Color("#7C3AED")
	successColor   = lipgloss.Color("#10B981")
	warningColor   = lipgloss.Color("#F59E0B")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle for the dashboard header.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// LabelStyle for field labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(14)

	// ValueStyle for field values.
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	// HelpStyle for the footer help line.
	HelpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	// BoxStyle for the claims summary panel.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(1, 2)
)

// VerdictStyle colors a claim verdict string.
func VerdictStyle(verdict string) lipgloss.Style {
	switch verdict {
	case "satisfied":
		return lipgloss.NewStyle().Foreground(successColor)
	case "violated":
		return lipgloss.NewStyle().Foreground(errorColor)
	default:
		return lipgloss.NewStyle().Foreground(warningColor)
	}
}
