package formatter

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/machinetrack/shopfloor/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StateStyle maps a kanban state to its display style.
func StateStyle(s domain.TaskState) lipgloss.Style {
	switch s {
	case domain.TaskDone:
		return StyleGreen
	case domain.TaskInProgress:
		return StyleYellow
	case domain.TaskBlocked:
		return StyleRed
	case domain.TaskReview:
		return StylePurple
	case domain.TaskReady:
		return StyleBlue
	default:
		return StyleDim
	}
}

// PriorityLabel renders "P1".."P5", hot priorities in red.
func PriorityLabel(p int) string {
	label := "P" + string(rune('0'+p))
	if p <= 2 {
		return StyleRed.Render(label)
	}
	return StyleDim.Render(label)
}
