package backup

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasker-cli/tasker/internal/clierr"
	"github.com/tasker-cli/tasker/internal/date"
	"github.com/tasker-cli/tasker/internal/task"
)

func TestExportImport_RoundTripIsByteIdentical(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	due := date.New(2024, time.July, 4)
	tasks := []*task.Task{
		{
			ID: 1, Title: "Watch Dune", Category: task.CategoryMedia,
			Priority: task.PriorityLow, Created: time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC),
			Due: &due, Completed: false,
			Media: &task.Media{Type: "Movie", Year: "2021", Rating: 4},
		},
		{
			ID: 2, Title: "File taxes", Category: task.CategoryPersonal,
			Priority: task.PriorityHigh, Created: time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC),
			Recurring: true, Pattern: task.Yearly, Completed: true,
		},
	}
	subtasks := []*task.Subtask{
		{ID: 1, TaskID: 2, Title: "gather receipts", Completed: true},
	}

	var first bytes.Buffer
	require.NoError(t, Export(&first, tasks, subtasks, now))

	doc, err := Import(bytes.NewReader(first.Bytes()))
	require.NoError(t, err)
	require.Len(t, doc.Tasks, 2)
	require.Len(t, doc.Subtasks, 1)

	// Booleans survive as booleans, enums as their values.
	assert.True(t, doc.Tasks[1].Completed)
	assert.True(t, doc.Subtasks[0].Completed)
	assert.Equal(t, task.Yearly, doc.Tasks[1].Pattern)
	assert.Equal(t, 4, doc.Tasks[0].Media.Rating)

	var second bytes.Buffer
	require.NoError(t, Export(&second, doc.Tasks, doc.Subtasks, now))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestExportImport_EmptyStoreRoundTrip(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	var first bytes.Buffer
	require.NoError(t, Export(&first, nil, nil, now))

	doc, err := Import(bytes.NewReader(first.Bytes()))
	require.NoError(t, err)
	assert.Empty(t, doc.Tasks)
	assert.Empty(t, doc.Subtasks)

	var second bytes.Buffer
	require.NoError(t, Export(&second, doc.Tasks, doc.Subtasks, now))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestImport_MalformedJSON(t *testing.T) {
	_, err := Import(strings.NewReader("{not json"))
	assertCode(t, err, clierr.InvalidBackup)
}

func TestImport_MissingFields(t *testing.T) {
	cases := map[string]string{
		"no exported_at": `{"tasks": [], "subtasks": []}`,
		"no tasks":       `{"exported_at": "2024-06-01 12:00:00", "subtasks": []}`,
		"no subtasks":    `{"exported_at": "2024-06-01 12:00:00", "tasks": []}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Import(strings.NewReader(body))
			assertCode(t, err, clierr.InvalidBackup)
		})
	}
}

func TestImport_InvalidTaskRecords(t *testing.T) {
	cases := map[string]string{
		"missing title": `{"exported_at": "x", "subtasks": [],
			"tasks": [{"id": 1, "title": "", "category": "Work", "priority": 2, "created": "2024-05-01T00:00:00Z", "completed": false}]}`,
		"bad category": `{"exported_at": "x", "subtasks": [],
			"tasks": [{"id": 1, "title": "t", "category": "Chores", "priority": 2, "created": "2024-05-01T00:00:00Z", "completed": false}]}`,
		"duplicate id": `{"exported_at": "x", "subtasks": [],
			"tasks": [{"id": 1, "title": "a", "category": "Work", "priority": 2, "created": "2024-05-01T00:00:00Z", "completed": false},
			          {"id": 1, "title": "b", "category": "Work", "priority": 2, "created": "2024-05-01T00:00:00Z", "completed": false}]}`,
		"subtask without title": `{"exported_at": "x", "tasks": [],
			"subtasks": [{"id": 1, "task_id": 1, "title": "", "completed": false}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Import(strings.NewReader(body))
			assertCode(t, err, clierr.InvalidBackup)
		})
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var cliErr *clierr.Error
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, code, cliErr.Code)
}
