package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/machinetrack/shopfloor/internal/domain"
	"github.com/machinetrack/shopfloor/internal/repository"
	"github.com/machinetrack/shopfloor/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporter_WriteTasks(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	projects := repository.NewSQLiteProjectRepo(db)
	tasks := repository.NewSQLiteTaskRepo(db)
	users := repository.NewSQLiteUserRepo(db)
	assignments := repository.NewSQLiteAssignmentRepo(db)
	dash := repository.NewSQLiteDashboardRepo(db)

	proj := testutil.NewTestProject("JOB-6001")
	require.NoError(t, projects.Create(ctx, proj))
	alex := testutil.NewTestUser("Alex Eng")
	sam := testutil.NewTestUser("Sam Prog")
	require.NoError(t, users.Create(ctx, alex))
	require.NoError(t, users.Create(ctx, sam))

	base := time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC)
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	older := testutil.NewTestTask(proj.ID, "Rough cut",
		testutil.WithTaskCreatedAt(base),
		testutil.WithEstHours(2.5),
		testutil.WithDueDate(due))
	newer := testutil.NewTestTask(proj.ID, "Finish pass",
		testutil.WithTaskCreatedAt(base.Add(time.Hour)))
	require.NoError(t, tasks.Create(ctx, older))
	require.NoError(t, tasks.Create(ctx, newer))
	require.NoError(t, assignments.Create(ctx, testutil.NewTestAssignment(older.ID, alex.ID)))
	require.NoError(t, assignments.Create(ctx, testutil.NewTestAssignment(older.ID, sam.ID)))

	var buf bytes.Buffer
	n, err := NewCSVExporter(projects, tasks, dash).WriteTasks(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, csvHeader, records[0])

	// Newest task first.
	assert.Equal(t, "Finish pass", records[1][1])
	assert.Equal(t, "", records[1][3], "no assignees")

	row := records[2]
	assert.Equal(t, "JOB-6001", row[0])
	assert.Equal(t, "Rough cut", row[1])
	assert.Equal(t, string(domain.TaskBacklog), row[2])
	assert.Contains(t, row[3], "Alex Eng")
	assert.Contains(t, row[3], "Sam Prog")
	assert.Equal(t, "2.5", row[5])
	assert.Equal(t, "2026-09-01", row[6])
	assert.Equal(t, "2026-08-20 14:30", row[7])
}

func TestCSVExporter_Empty(t *testing.T) {
	db := testutil.NewTestDB(t)
	exp := NewCSVExporter(
		repository.NewSQLiteProjectRepo(db),
		repository.NewSQLiteTaskRepo(db),
		repository.NewSQLiteDashboardRepo(db),
	)

	var buf bytes.Buffer
	n, err := exp.WriteTasks(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1, "header only")
}
