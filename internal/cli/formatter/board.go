package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/machinetrack/shopfloor/internal/domain"
	"github.com/machinetrack/shopfloor/internal/service"
)

// RenderBoard renders the kanban board one column per state, in column order,
// skipping empty columns. Open tasks past their due date get an overdue
// marker; finished tasks never do.
func RenderBoard(board []service.BoardTask) string {
	n := time.Now().UTC()
	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)

	byState := make(map[domain.TaskState][]service.BoardTask)
	for _, bt := range board {
		byState[bt.Task.State] = append(byState[bt.Task.State], bt)
	}

	var b strings.Builder
	for _, state := range domain.BoardColumns {
		tasks := byState[state]
		if len(tasks) == 0 {
			continue
		}
		header := fmt.Sprintf("%s (%d)", strings.ToUpper(string(state)), len(tasks))
		b.WriteString(StateStyle(state).Bold(true).Render(header))
		b.WriteString("\n")
		for _, bt := range tasks {
			line := fmt.Sprintf("  %s %s", PriorityLabel(bt.Task.Priority), StyleFg.Render(bt.Task.Title))
			if len(bt.Assignees) > 0 {
				line += StyleDim.Render(" · " + strings.Join(bt.Assignees, ", "))
			}
			if due := domain.FormatDate(bt.Task.DueDate); due != "" {
				if bt.Task.Open() && bt.Task.DueDate.Before(today) {
					line += StyleRed.Render(" due " + due + " (overdue)")
				} else {
					line += StyleDim.Render(" due " + due)
				}
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return StyleDim.Render("board is empty") + "\n"
	}
	return b.String()
}
