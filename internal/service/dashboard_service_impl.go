package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/machinetrack/shopfloor/internal/domain"
	"github.com/machinetrack/shopfloor/internal/repository"
)

const (
	dueSoonWindow = 3 * 24 * time.Hour
	dueSoonLimit  = 20
)

// dashboardService derives every view as a pure function of store state and
// the current date. Nothing here writes.
type dashboardService struct {
	dash repository.DashboardRepo
	now  func() time.Time
}

func NewDashboardService(dash repository.DashboardRepo) DashboardService {
	return &dashboardService{dash: dash, now: time.Now}
}

func (s *dashboardService) Progress(ctx context.Context) ([]ProjectProgress, error) {
	rows, err := s.dash.ProjectProgress(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProjectProgress, 0, len(rows))
	for _, r := range rows {
		pct := 0
		if r.Total > 0 {
			pct = int(math.Round(float64(r.Done) * 100 / float64(r.Total)))
		}
		out = append(out, ProjectProgress{
			ProjectID: r.ProjectID,
			Code:      r.Code,
			Title:     r.Title,
			Done:      r.Done,
			Total:     r.Total,
			Pct:       pct,
		})
	}
	return out, nil
}

func (s *dashboardService) Workload(ctx context.Context, filterUserID *string) ([]WorkloadEntry, error) {
	pairs, err := s.dash.OpenAssignments(ctx, filterUserID)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int)
	out := []WorkloadEntry{}
	for _, p := range pairs {
		i, ok := index[p.UserID]
		if !ok {
			i = len(out)
			index[p.UserID] = i
			out = append(out, WorkloadEntry{UserID: p.UserID, UserName: p.UserName})
		}
		out[i].TaskCount++
		out[i].EstHours += p.EstHours
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EstHours > out[j].EstHours
	})
	return out, nil
}

func (s *dashboardService) DueSoon(ctx context.Context) ([]*domain.Task, error) {
	n := s.now().UTC()
	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	return s.dash.DueSoon(ctx, today, dueSoonWindow, dueSoonLimit)
}

func (s *dashboardService) Blocked(ctx context.Context) ([]*domain.Task, error) {
	return s.dash.Blocked(ctx)
}

func (s *dashboardService) Board(ctx context.Context, filterUserID *string) ([]BoardTask, error) {
	tasks, err := s.dash.Board(ctx, filterUserID)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return []BoardTask{}, nil
	}

	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	names, err := s.dash.AssigneeNames(ctx, ids)
	if err != nil {
		return nil, err
	}
	byTask := make(map[string][]string)
	for _, n := range names {
		byTask[n.TaskID] = append(byTask[n.TaskID], n.Name)
	}

	out := make([]BoardTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, BoardTask{Task: t, Assignees: byTask[t.ID]})
	}
	return out, nil
}
