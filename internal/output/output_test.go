package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tasker-cli/tasker/internal/date"
	"github.com/tasker-cli/tasker/internal/query"
	"github.com/tasker-cli/tasker/internal/task"
)

func TestDetect(t *testing.T) {
	assert.Equal(t, FormatJSON, Detect(true, false, false))
	assert.Equal(t, FormatCompact, Detect(false, false, true))
	assert.Equal(t, FormatTable, Detect(false, true, false))
	// JSON flag wins over compact.
	assert.Equal(t, FormatJSON, Detect(true, false, true))
	// Default is table.
	assert.Equal(t, FormatTable, Detect(false, false, false))
}

func TestDetectEnv(t *testing.T) {
	t.Setenv("TASKER_OUTPUT", "json")
	assert.Equal(t, FormatJSON, Detect(false, false, false))

	t.Setenv("TASKER_OUTPUT", "compact")
	assert.Equal(t, FormatCompact, Detect(false, false, false))

	// Explicit flags beat the environment.
	t.Setenv("TASKER_OUTPUT", "json")
	assert.Equal(t, FormatTable, Detect(false, true, false))
}

func TestJSONError(t *testing.T) {
	var buf bytes.Buffer
	JSONError(&buf, "TASK_NOT_FOUND", "task #9 not found", map[string]any{"id": 9})
	out := buf.String()
	assert.Contains(t, out, `"code": "TASK_NOT_FOUND"`)
	assert.Contains(t, out, `"error": "task #9 not found"`)
	assert.Contains(t, out, `"id": 9`)
}

func TestTaskCompact(t *testing.T) {
	DisableColor()
	due := date.New(2024, time.March, 5)
	tasks := []*task.Task{
		{ID: 1, Title: "write report", Category: task.CategoryWork, Priority: task.PriorityHigh, Due: &due},
		{ID: 2, Title: "water plants", Category: task.CategoryPersonal, Priority: task.PriorityLow,
			Recurring: true, Pattern: task.Weekly, Completed: true},
	}

	var buf bytes.Buffer
	TaskCompact(&buf, tasks)
	out := buf.String()
	assert.Contains(t, out, "#1 [Work/high/open] write report due:2024-03-05")
	assert.Contains(t, out, "#2 [Personal/low/done] water plants recur:Weekly")
}

func TestTaskTableRendersRows(t *testing.T) {
	DisableColor()
	tasks := []*task.Task{
		{ID: 7, Title: "read paper", Category: task.CategoryStudies, Priority: task.PriorityMedium},
	}

	var buf bytes.Buffer
	TaskTable(&buf, tasks)
	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "read paper")
	assert.Contains(t, out, "Studies")
	assert.Contains(t, out, "medium")
}

func TestStatsCompact(t *testing.T) {
	DisableColor()
	due := date.New(2024, time.January, 1)
	stats := query.Stats{
		TotalTasks:     2,
		CompletedTasks: 1,
		CompletionRate: 50,
		Categories:     []query.CategoryCount{{Category: task.CategoryWork, Count: 2, Done: 1}},
		Priorities:     []query.PriorityCount{{Priority: "high", Count: 2}},
		Overdue: []*task.Task{
			{ID: 3, Title: "late", Due: &due},
		},
	}

	var buf bytes.Buffer
	StatsCompact(&buf, stats)
	out := buf.String()
	assert.Contains(t, out, "2 tasks, 1 done (50.0%)")
	assert.Contains(t, out, "Work=2")
	assert.Contains(t, out, "high=2")
	assert.Contains(t, out, "overdue #3 late due:2024-01-01")
}
