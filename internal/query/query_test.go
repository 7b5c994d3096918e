package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasker-cli/tasker/internal/date"
	"github.com/tasker-cli/tasker/internal/task"
)

func datePtr(y int, m time.Month, d int) *date.Date {
	v := date.New(y, m, d)
	return &v
}

func TestCompletionRate_EmptySnapshot(t *testing.T) {
	assert.Zero(t, CompletionRate(nil))
}

func TestCompletionRate_AllCompleted(t *testing.T) {
	tasks := []*task.Task{
		{ID: 1, Completed: true},
		{ID: 2, Completed: true},
	}
	assert.InDelta(t, 100.0, CompletionRate(tasks), 0.001)
}

func TestCompletionRate_Half(t *testing.T) {
	tasks := []*task.Task{
		{ID: 1, Completed: true},
		{ID: 2},
	}
	assert.InDelta(t, 50.0, CompletionRate(tasks), 0.001)
}

func TestOverdue_BoundaryAndCompletion(t *testing.T) {
	today := date.New(2024, time.June, 1)
	overdueTask := &task.Task{ID: 1, Title: "late", Due: datePtr(2024, time.May, 1)}
	tasks := []*task.Task{
		overdueTask,
		{ID: 2, Title: "due today", Due: datePtr(2024, time.June, 1)},
		{ID: 3, Title: "future", Due: datePtr(2024, time.July, 1)},
		{ID: 4, Title: "no due date"},
	}

	got := Overdue(tasks, today)
	require.Len(t, got, 1)
	assert.Equal(t, overdueTask, got[0])

	// The same task marked completed is excluded.
	overdueTask.Completed = true
	assert.Empty(t, Overdue(tasks, today))
}

func TestOverdue_SortedSoonestFirst(t *testing.T) {
	today := date.New(2024, time.June, 1)
	tasks := []*task.Task{
		{ID: 1, Due: datePtr(2024, time.May, 20)},
		{ID: 2, Due: datePtr(2024, time.May, 5)},
	}
	got := Overdue(tasks, today)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestSummarize(t *testing.T) {
	today := date.New(2024, time.June, 1)
	tasks := []*task.Task{
		{ID: 1, Category: task.CategoryWork, Priority: task.PriorityHigh, Completed: true},
		{ID: 2, Category: task.CategoryWork, Priority: task.PriorityMedium},
		{ID: 3, Category: task.CategoryMedia, Priority: task.PriorityLow,
			Due: datePtr(2024, time.May, 1)},
	}

	s := Summarize(tasks, today)
	assert.Equal(t, 3, s.TotalTasks)
	assert.Equal(t, 1, s.CompletedTasks)
	assert.InDelta(t, 33.333, s.CompletionRate, 0.01)

	require.Len(t, s.Categories, len(task.Categories))
	assert.Equal(t, task.CategoryWork, s.Categories[0].Category)
	assert.Equal(t, 2, s.Categories[0].Count)
	assert.Equal(t, 1, s.Categories[0].Done)

	require.Len(t, s.Priorities, 3)
	assert.Equal(t, "high", s.Priorities[0].Priority)
	assert.Equal(t, 1, s.Priorities[0].Count)

	require.Len(t, s.Overdue, 1)
	assert.Equal(t, int64(3), s.Overdue[0].ID)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, date.Today())
	assert.Zero(t, s.TotalTasks)
	assert.Zero(t, s.CompletionRate)
	assert.Empty(t, s.Overdue)
}

func TestTimeline(t *testing.T) {
	tasks := []*task.Task{
		{ID: 1, Title: "later", Category: task.CategoryWork, Due: datePtr(2024, time.June, 20)},
		{ID: 2, Title: "no due"},
		{ID: 3, Title: "sooner", Category: task.CategoryMisc, Due: datePtr(2024, time.June, 5), Completed: true},
	}

	rows := Timeline(tasks)
	require.Len(t, rows, 2)
	assert.Equal(t, "sooner", rows[0].Title)
	assert.True(t, rows[0].Completed)
	assert.Equal(t, "later", rows[1].Title)
}

func TestParseIDs(t *testing.T) {
	ids, err := ParseIDs("3, 1,3,2")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, ids)

	_, err = ParseIDs("abc")
	require.Error(t, err)

	_, err = ParseIDs(" , ")
	require.Error(t, err)
}
