// Package styles provides shared lipgloss styles for UI components.
//
// This package centralizes color definitions and styling to ensure
// visual consistency across all UI components (static, progress and
// prompt packages). Call [Init] once the config is loaded.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/raphi011/nexus/internal/health"
	"github.com/raphi011/nexus/internal/suggest"
)

// Primary colors used throughout the UI
var (
	// Primary is the main accent color (cyan/teal)
	Primary color.Color = DefaultTheme.Primary

	// Accent is the highlight color for selected/active items (pink)
	Accent color.Color = DefaultTheme.Accent

	// Success is used for checkmarks and positive outcomes (green)
	Success color.Color = DefaultTheme.Success

	// Error is used for error messages (red)
	Error color.Color = DefaultTheme.Error

	// Muted is used for disabled/inactive text (gray)
	Muted color.Color = DefaultTheme.Muted

	// Normal is the standard text color (light gray)
	Normal color.Color = DefaultTheme.Normal

	// Info is used for informational text (gray)
	Info color.Color = DefaultTheme.Info

	// Warning is used for dirty or diverged repositories (orange)
	Warning color.Color = DefaultTheme.Warning
)

// Common styles, rebuilt by applyTheme.
var (
	Bold = lipgloss.NewStyle().Bold(true)

	PrimaryStyle lipgloss.Style
	AccentStyle  lipgloss.Style
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	MutedStyle   lipgloss.Style
	NormalStyle  lipgloss.Style
	InfoStyle    lipgloss.Style

	// RoundedBorder frames summaries.
	RoundedBorder lipgloss.Style
)

func init() {
	applyTheme(DefaultTheme)
}

// HealthStyle colors a health score: good scores green, fair ones
// orange, the rest red.
func HealthStyle(score int) lipgloss.Style {
	switch {
	case score >= health.GoodThreshold:
		return SuccessStyle
	case score >= health.FairThreshold:
		return WarningStyle
	default:
		return ErrorStyle
	}
}

// PriorityStyle colors a suggestion priority.
func PriorityStyle(p suggest.Priority) lipgloss.Style {
	switch p {
	case suggest.Critical:
		return ErrorStyle.Bold(true)
	case suggest.High:
		return WarningStyle
	case suggest.Medium:
		return PrimaryStyle
	default:
		return MutedStyle
	}
}
