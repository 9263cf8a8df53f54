package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vancomm/minesweeper/internal/mines"
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	BoardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262")).
			Padding(0, 1)

	CursorStyle = lipgloss.NewStyle().Reverse(true)

	HiddenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	FlagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	MineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

var countColors = [...]lipgloss.Color{
	"#FAFAFA", "#4EA8DE", "#96CEB4", "#FF6B6B",
	"#7D56F4", "#E07A5F", "#48CAE4", "#FAFAFA", "#A0A0A0",
}

func cellStyle(s mines.CellState) lipgloss.Style {
	switch {
	case s == mines.Hidden:
		return HiddenStyle
	case s == mines.Flagged, s == mines.CorrectlyFlagged:
		return FlagStyle
	case s == mines.ExplodedMine, s == mines.FalselyFlagged, s == mines.UnflaggedMine:
		return MineStyle
	case s >= 0 && int(s) < len(countColors):
		return lipgloss.NewStyle().Foreground(countColors[s])
	default:
		return lipgloss.NewStyle()
	}
}
