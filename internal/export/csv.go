// Package export renders the task list for spreadsheet consumption.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/machinetrack/shopfloor/internal/domain"
	"github.com/machinetrack/shopfloor/internal/repository"
)

var csvHeader = []string{"Project", "Task", "State", "Assignees", "Priority", "Est Hours", "Due Date", "Created"}

// CSVExporter writes every task, newest first, one row per task.
type CSVExporter struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
	dash     repository.DashboardRepo
}

func NewCSVExporter(projects repository.ProjectRepo, tasks repository.TaskRepo, dash repository.DashboardRepo) *CSVExporter {
	return &CSVExporter{projects: projects, tasks: tasks, dash: dash}
}

// WriteTasks streams the export to w. Returns how many task rows were written.
func (e *CSVExporter) WriteTasks(ctx context.Context, w io.Writer) (int, error) {
	projects, err := e.projects.List(ctx)
	if err != nil {
		return 0, err
	}
	codeByID := make(map[string]string, len(projects))
	for _, p := range projects {
		codeByID[p.ID] = p.Code
	}

	tasks, err := e.tasks.List(ctx)
	if err != nil {
		return 0, err
	}
	assignees := make(map[string][]string)
	if len(tasks) > 0 {
		ids := make([]string, 0, len(tasks))
		for _, t := range tasks {
			ids = append(ids, t.ID)
		}
		names, err := e.dash.AssigneeNames(ctx, ids)
		if err != nil {
			return 0, err
		}
		for _, n := range names {
			assignees[n.TaskID] = append(assignees[n.TaskID], n.Name)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("writing csv header: %w", err)
	}
	for _, t := range tasks {
		row := []string{
			codeByID[t.ProjectID],
			t.Title,
			string(t.State),
			strings.Join(assignees[t.ID], ", "),
			strconv.Itoa(t.Priority),
			strconv.FormatFloat(t.EstHours, 'f', -1, 64),
			domain.FormatDate(t.DueDate),
			t.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}
	return len(tasks), nil
}
