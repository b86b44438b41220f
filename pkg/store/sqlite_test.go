package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/planner/pkg/model"
)

func openTestStore(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "planner.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateListDelete(t *testing.T) {
	s := openTestStore(t)
	due := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	task := &model.Task{Title: "Write tests", DueAt: due, EstimateMinutes: 30, Priority: model.DefaultPriority}
	require.NoError(t, s.CreateTask(task))

	_, err := uuid.Parse(task.ID)
	assert.NoError(t, err, "id should be a uuid")
	assert.False(t, task.CreatedAt.IsZero())

	tasks, err := s.ListTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)
	assert.Equal(t, "Write tests", tasks[0].Title)
	assert.True(t, tasks[0].DueAt.Equal(due))
	assert.Equal(t, 30, tasks[0].EstimateMinutes)

	got, err := s.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, got.Title)

	require.NoError(t, s.DeleteTask(task.ID))
	tasks, err = s.ListTasks()
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestListOrdering(t *testing.T) {
	s := openTestStore(t)
	berlin := time.FixedZone("CET", 3600)

	// 09:30 UTC, expressed with a +01:00 offset
	early := &model.Task{Title: "early", DueAt: time.Date(2025, 1, 1, 10, 30, 0, 0, berlin), EstimateMinutes: 5, Priority: 3}
	lateLow := &model.Task{Title: "late low", DueAt: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC), EstimateMinutes: 5, Priority: 3}
	lateHigh := &model.Task{Title: "late high", DueAt: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC), EstimateMinutes: 5, Priority: 1}
	middle := &model.Task{Title: "middle", DueAt: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), EstimateMinutes: 5}

	for _, task := range []*model.Task{lateLow, middle, early, lateHigh} {
		require.NoError(t, s.CreateTask(task))
	}

	tasks, err := s.ListTasks()
	require.NoError(t, err)
	var titles []string
	for _, task := range tasks {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"early", "middle", "late high", "late low"}, titles)
}

func TestCreateTaskKeepsPriority(t *testing.T) {
	s := openTestStore(t)
	due := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	for _, priority := range []int{0, 5} {
		require.NoError(t, s.CreateTask(&model.Task{Title: "x", DueAt: due, EstimateMinutes: 5, Priority: priority}))
	}

	tasks, err := s.ListTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, 0, tasks[0].Priority)
	assert.Equal(t, 5, tasks[1].Priority)
}

func TestCreateTaskValidates(t *testing.T) {
	s := openTestStore(t)

	err := s.CreateTask(&model.Task{Title: "x", DueAt: time.Now(), EstimateMinutes: 0})
	assert.ErrorIs(t, err, model.ErrEstimateNotPos)

	tasks, err := s.ListTasks()
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestDeleteUnknownTask(t *testing.T) {
	s := openTestStore(t)
	assert.ErrorIs(t, s.DeleteTask("nope"), ErrTaskNotFound)

	_, err := s.GetTask("nope")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestReopenKeepsTasks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.db")
	s, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.CreateTask(&model.Task{Title: "persist", DueAt: time.Now(), EstimateMinutes: 10}))
	require.NoError(t, s.Close())

	s, err = Open(path, nil)
	require.NoError(t, err)
	defer s.Close()
	tasks, err := s.ListTasks()
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}
