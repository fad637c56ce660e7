package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/teniee/mita-budget-engine/internal/advice"
)

// Color palette - uses adaptive colors that work in both light and dark terminals.
var (
	// Primary blue for headers and highlights
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#58A6FF"}

	// Success green for completed operations
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008000", Dark: "#3FB950"}

	// Error red for failures
	ColorError = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#F85149"}

	// Warning yellow/orange
	ColorWarning = lipgloss.AdaptiveColor{Light: "#CC6600", Dark: "#D29922"}

	// Muted gray for secondary information
	ColorMuted = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#8B949E"}

	// Progress color for in-flight operations
	ColorProgress = lipgloss.AdaptiveColor{Light: "#6639A6", Dark: "#A371F7"}
)

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓"
	SymbolError    = "✗"
	SymbolWarning  = "!"
	SymbolProgress = "●"
	SymbolPending  = "○"
)

// Styles for common UI elements.
var (
	StyleSuccess  = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError    = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleWarning  = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleMuted    = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleProgress = lipgloss.NewStyle().Foreground(ColorProgress)
)

// Nudge tags are opaque to the engine; this is where they become glyphs
// and colors. Unknown tags degrade to a neutral bullet.
var nudgeIcons = map[advice.IconTag]string{
	advice.IconTarget:   "◎",
	advice.IconCalendar: "▤",
	advice.IconAlarm:    "⏰",
	advice.IconCompass:  "➤",
	advice.IconSun:      "☀",
	advice.IconAlert:    "⚠",
	advice.IconGauge:    "◉",
	advice.IconSeedling: "❋",
}

var nudgeStyles = map[advice.ColorTag]lipgloss.Style{
	advice.ColorInfo:     lipgloss.NewStyle().Foreground(ColorPrimary),
	advice.ColorPositive: StyleSuccess,
	advice.ColorCaution:  StyleWarning,
	advice.ColorCritical: StyleError,
}

// NudgeLine renders one nudge as a styled line.
func (u *UI) NudgeLine(n advice.Nudge) string {
	icon, ok := nudgeIcons[n.Icon]
	if !ok {
		icon = "•"
	}

	if !u.shouldStyle() {
		return "  [" + string(n.Color) + "] " + n.Message
	}

	style, ok := nudgeStyles[n.Color]
	if !ok {
		style = StyleMuted
	}
	return "  " + style.Render(icon) + " " + n.Message
}
