package tui

import "github.com/charmbracelet/lipgloss"

const (
	cellWidth  = 18
	cellHeight = 3
	gridCols   = 3
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	borders   = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#8a2be2"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	warning   = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF5F87"}

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(highlight).PaddingLeft(1)

	slotStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).
			BorderForeground(subtle).
			Width(cellWidth).
			Height(cellHeight)

	slotCursorStyle = slotStyle.BorderForeground(highlight)

	emptySlotStyle = slotStyle.Foreground(subtle)

	pageStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(borders).
			Padding(0, 1)

	pageTurningStyle = pageStyle.BorderForeground(special)

	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(borders).
			Padding(0, 1).
			Width(2*gridCols*(cellWidth+2) + 4)

	priceStyle    = lipgloss.NewStyle().Foreground(special)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	selectedStyle = lipgloss.NewStyle().Foreground(highlight).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(warning)
)
