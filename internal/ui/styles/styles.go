// Package styles holds the shared lipgloss styles for the playground UI.
// Styles are initialized once at startup from the theme config; widgets
// reference the package-level values directly.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"scrim/internal/config"
)

// Semantic colors, overridable via the theme section of the config file.
var (
	ColorHighlight = lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#9B79FF"}
	ColorSubtle    = lipgloss.AdaptiveColor{Light: "#6C6C6C", Dark: "#8A8A8A"}
	ColorBackdrop  = lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#303030"}
	ColorError     = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}
)

var (
	Toolbar = lipgloss.NewStyle().
		Foreground(ColorSubtle).
		Padding(0, 1)

	Trigger = lipgloss.NewStyle().
		Padding(0, 1)

	TriggerActive = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(ColorHighlight).
			Bold(true)

	MenuItem = lipgloss.NewStyle().
			Padding(0, 1)

	MenuItemSelected = lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(ColorHighlight).
				Bold(true)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorHighlight)

	Tooltip = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorSubtle).
		Padding(0, 1)

	Dialog = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(ColorHighlight).
		Padding(1, 2)

	StatusBar = lipgloss.NewStyle().
			Background(ColorBackdrop).
			Padding(0, 1)

	ErrorText = lipgloss.NewStyle().
			Foreground(ColorError)
)

// Apply overrides the default palette with the configured theme. The mode
// forces light or dark rendering; "auto" keeps terminal detection.
func Apply(tc config.ThemeConfig) {
	switch tc.Mode {
	case "dark":
		lipgloss.SetColorProfile(termenv.ColorProfile())
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetColorProfile(termenv.ColorProfile())
		lipgloss.SetHasDarkBackground(false)
	}

	if tc.Highlight != "" {
		ColorHighlight = lipgloss.AdaptiveColor{Light: tc.Highlight, Dark: tc.Highlight}
	}
	if tc.Subtle != "" {
		ColorSubtle = lipgloss.AdaptiveColor{Light: tc.Subtle, Dark: tc.Subtle}
	}
	if tc.Backdrop != "" {
		ColorBackdrop = lipgloss.AdaptiveColor{Light: tc.Backdrop, Dark: tc.Backdrop}
	}
	if tc.Error != "" {
		ColorError = lipgloss.AdaptiveColor{Light: tc.Error, Dark: tc.Error}
	}

	rebuild()
}

func rebuild() {
	Trigger = Trigger.Foreground(lipgloss.NoColor{})
	TriggerActive = TriggerActive.Foreground(ColorHighlight)
	MenuItemSelected = MenuItemSelected.Foreground(ColorHighlight)
	Panel = Panel.BorderForeground(ColorHighlight)
	Tooltip = Tooltip.BorderForeground(ColorSubtle)
	Dialog = Dialog.BorderForeground(ColorHighlight)
	StatusBar = StatusBar.Background(ColorBackdrop)
	ErrorText = ErrorText.Foreground(ColorError)
	Toolbar = Toolbar.Foreground(ColorSubtle)
}
