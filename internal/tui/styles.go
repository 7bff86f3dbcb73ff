package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	ColorPrimary   = lipgloss.Color("#7D56F4")
	ColorText      = lipgloss.Color("#FAFAFA")
	ColorTextMuted = lipgloss.Color("#6C6C6C")
	ColorSurface   = lipgloss.Color("#16213E")
	ColorBorder    = lipgloss.Color("#3A3A5C")
	ColorSuccess   = lipgloss.Color("#04B575")
	ColorWarning   = lipgloss.Color("#FFD93D")
	ColorError     = lipgloss.Color("#FF6B6B")
)

var (
	activeTabBorder = lipgloss.Border{
		Top:         "─",
		Bottom:      " ",
		Left:        "│",
		Right:       "│",
		TopLeft:     "╭",
		TopRight:    "╮",
		BottomLeft:  "┘",
		BottomRight: "└",
	}

	tabBorder = lipgloss.Border{
		Top:         "─",
		Bottom:      "─",
		Left:        "│",
		Right:       "│",
		TopLeft:     "╭",
		TopRight:    "╮",
		BottomLeft:  "┴",
		BottomRight: "┴",
	}

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Padding(0, 1)

	Subtitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Padding(0, 1)

	TabInactive = lipgloss.NewStyle().
			Border(tabBorder).
			BorderForeground(ColorPrimary).
			Foreground(ColorTextMuted).
			Padding(0, 2)

	TabActive = TabInactive.
			Border(activeTabBorder, true).
			BorderForeground(ColorPrimary).
			Foreground(ColorText).
			Bold(true)

	TabGap = lipgloss.NewStyle().
		BorderBottom(true).
		BorderForeground(ColorPrimary)

	TextMuted = lipgloss.NewStyle().Foreground(ColorTextMuted)

	ErrorText = lipgloss.NewStyle().Foreground(ColorError)

	SpinnerStyle = lipgloss.NewStyle().Foreground(ColorPrimary)

	TableBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)
)

// CostStyle colors a dollar amount by magnitude: green while cheap, yellow
// past $100, red past $500.
func CostStyle(cost *float64) lipgloss.Style {
	switch {
	case cost == nil:
		return TextMuted
	case *cost > 500:
		return lipgloss.NewStyle().Foreground(ColorError)
	case *cost > 100:
		return lipgloss.NewStyle().Foreground(ColorWarning)
	default:
		return lipgloss.NewStyle().Foreground(ColorSuccess)
	}
}

// RenderTabBar renders the tab row with the trailing border stretched to the
// full width.
func RenderTabBar(tabs []string, activeIndex, width int) string {
	rendered := make([]string, len(tabs))
	for i, tab := range tabs {
		if i == activeIndex {
			rendered[i] = TabActive.Render(tab)
		} else {
			rendered[i] = TabInactive.Render(tab)
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	remaining := width - lipgloss.Width(row)
	if remaining < 0 {
		remaining = 0
	}
	gap := TabGap.
		Foreground(ColorPrimary).
		Render(strings.Repeat("─", remaining))

	return lipgloss.JoinHorizontal(lipgloss.Bottom, row, gap)
}
