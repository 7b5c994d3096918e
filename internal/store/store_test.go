package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasker-cli/tasker/internal/clierr"
	"github.com/tasker-cli/tasker/internal/date"
	"github.com/tasker-cli/tasker/internal/task"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "tasker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func boolPtr(v bool) *bool { return &v }

func TestOpen_MigratesFreshDatabase(t *testing.T) {
	s := openTestStore(t)

	// Reopening an already-migrated database is a no-op.
	require.NoError(t, s.Close())
	s2, err := Open(s.Path())
	require.NoError(t, err)
	defer s2.Close()

	tasks, err := s2.Tasks(Filter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCreateTask_RoundTripsAllFields(t *testing.T) {
	s := openTestStore(t)

	due := date.New(2024, time.July, 1)
	res, err := s.CreateTask(task.Draft{
		Title:       "Read thesis draft",
		Description: "chapters 3-5",
		Category:    task.CategoryStudies,
		Project:     "thesis",
		Area:        "university",
		Resource:    "library",
		Due:         &due,
		Priority:    task.PriorityHigh,
	})
	require.NoError(t, err)
	require.NotZero(t, res.ID)
	assert.Zero(t, res.FollowUpID)

	got, err := s.GetTask(res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Read thesis draft", got.Title)
	assert.Equal(t, "chapters 3-5", got.Description)
	assert.Equal(t, task.CategoryStudies, got.Category)
	assert.Equal(t, "thesis", got.Project)
	assert.Equal(t, "university", got.Area)
	assert.Equal(t, "library", got.Resource)
	require.NotNil(t, got.Due)
	assert.Equal(t, "2024-07-01", got.Due.String())
	assert.Equal(t, task.PriorityHigh, got.Priority)
	assert.False(t, got.Completed)
	assert.False(t, got.Recurring)
	assert.Nil(t, got.Media)
	assert.False(t, got.Created.IsZero())
}

func TestCreateTask_ValidationErrors(t *testing.T) {
	s := openTestStore(t)

	_, err := s.CreateTask(task.Draft{Title: "", Category: task.CategoryWork, Priority: task.PriorityMedium})
	assertCode(t, err, clierr.InvalidInput)

	_, err = s.CreateTask(task.Draft{Title: "x", Category: "Nope", Priority: task.PriorityMedium})
	assertCode(t, err, clierr.InvalidCategory)

	// Nothing was persisted.
	tasks, err := s.Tasks(Filter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCreateTask_RecurringCreatesExactlyOneFollowUp(t *testing.T) {
	s := openTestStore(t)

	due := date.New(2024, time.January, 31)
	res, err := s.CreateTask(task.Draft{
		Title:     "Pay rent",
		Category:  task.CategoryPersonal,
		Priority:  task.PriorityMedium,
		Due:       &due,
		Recurring: true,
		Pattern:   task.Monthly,
	})
	require.NoError(t, err)
	require.NotZero(t, res.FollowUpID)
	require.NotNil(t, res.FollowUpDue)
	assert.Equal(t, "2024-02-29", res.FollowUpDue.String())

	tasks, err := s.Tasks(Filter{})
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	follow, err := s.GetTask(res.FollowUpID)
	require.NoError(t, err)
	assert.Equal(t, "Pay rent", follow.Title)
	assert.True(t, follow.Recurring)
	assert.Equal(t, task.Monthly, follow.Pattern)
	assert.Equal(t, "2024-02-29", follow.Due.String())
}

func TestCreateTask_RecurringWithoutDueHasNoFollowUp(t *testing.T) {
	s := openTestStore(t)

	res, err := s.CreateTask(task.Draft{
		Title:     "Water plants",
		Category:  task.CategoryPersonal,
		Priority:  task.PriorityLow,
		Recurring: true,
		Pattern:   task.Weekly,
	})
	require.NoError(t, err)
	assert.Zero(t, res.FollowUpID)

	tasks, err := s.Tasks(Filter{})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestCompleteTask_Idempotent(t *testing.T) {
	s := openTestStore(t)
	res := mustCreate(t, s, "Ship release", task.CategoryWork)

	require.NoError(t, s.CompleteTask(res.ID))
	require.NoError(t, s.CompleteTask(res.ID)) // second call is a no-op

	got, err := s.GetTask(res.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
}

func TestCompleteTask_NotFound(t *testing.T) {
	s := openTestStore(t)
	assertCode(t, s.CompleteTask(999), clierr.TaskNotFound)
}

func TestDeleteTask_CascadesToSubtasks(t *testing.T) {
	s := openTestStore(t)
	res := mustCreate(t, s, "Plan trip", task.CategoryPersonal)

	_, err := s.AddSubtask(res.ID, "book flights")
	require.NoError(t, err)
	_, err = s.AddSubtask(res.ID, "reserve hotel")
	require.NoError(t, err)

	require.NoError(t, s.DeleteTask(res.ID))

	_, err = s.GetTask(res.ID)
	assertCode(t, err, clierr.TaskNotFound)

	subs, err := s.Subtasks(res.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)

	tasks, err := s.Tasks(Filter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestDeleteTask_NotFound(t *testing.T) {
	s := openTestStore(t)
	assertCode(t, s.DeleteTask(42), clierr.TaskNotFound)
}

func TestTasks_FilterAndSearch(t *testing.T) {
	s := openTestStore(t)

	_, err := s.CreateTask(task.Draft{
		Title: "Quarterly report", Category: task.CategoryWork,
		Project: "acme", Priority: task.PriorityHigh,
	})
	require.NoError(t, err)
	_, err = s.CreateTask(task.Draft{
		Title: "Grocery run", Category: task.CategoryPersonal,
		Area: "home", Priority: task.PriorityLow,
	})
	require.NoError(t, err)
	done := mustCreate(t, s, "Old chore", task.CategoryPersonal)
	require.NoError(t, s.CompleteTask(done.ID))

	byCategory, err := s.Tasks(Filter{Category: task.CategoryWork})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Quarterly report", byCategory[0].Title)

	byProject, err := s.Tasks(Filter{Project: "acme"})
	require.NoError(t, err)
	assert.Len(t, byProject, 1)

	incomplete, err := s.Tasks(Filter{Completed: boolPtr(false)})
	require.NoError(t, err)
	assert.Len(t, incomplete, 2)

	completed, err := s.Tasks(Filter{Completed: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "Old chore", completed[0].Title)

	// Search is a case-insensitive substring over several columns.
	found, err := s.Tasks(Filter{Search: "grocery"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Grocery run", found[0].Title)

	byArea, err := s.Tasks(Filter{Search: "home"})
	require.NoError(t, err)
	assert.Len(t, byArea, 1)

	none, err := s.Tasks(Filter{Category: task.CategoryWork, Search: "grocery"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTasks_SortByDueNullsLast(t *testing.T) {
	s := openTestStore(t)

	later := date.New(2024, time.June, 20)
	sooner := date.New(2024, time.June, 5)
	_, err := s.CreateTask(task.Draft{Title: "no due", Category: task.CategoryMisc, Priority: task.PriorityMedium})
	require.NoError(t, err)
	_, err = s.CreateTask(task.Draft{Title: "later", Category: task.CategoryMisc, Priority: task.PriorityMedium, Due: &later})
	require.NoError(t, err)
	_, err = s.CreateTask(task.Draft{Title: "sooner", Category: task.CategoryMisc, Priority: task.PriorityMedium, Due: &sooner})
	require.NoError(t, err)

	tasks, err := s.Tasks(Filter{SortByDue: true})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "sooner", tasks[0].Title)
	assert.Equal(t, "later", tasks[1].Title)
	assert.Equal(t, "no due", tasks[2].Title)
}

func TestSubtasks(t *testing.T) {
	s := openTestStore(t)
	res := mustCreate(t, s, "Parent", task.CategoryWork)

	_, err := s.AddSubtask(999, "orphan")
	assertCode(t, err, clierr.TaskNotFound)

	_, err = s.AddSubtask(res.ID, "  ")
	assertCode(t, err, clierr.InvalidInput)

	id, err := s.AddSubtask(res.ID, "first step")
	require.NoError(t, err)

	require.NoError(t, s.SetSubtaskCompleted(id, true))
	assertCode(t, s.SetSubtaskCompleted(999, true), clierr.SubtaskNotFound)

	subs, err := s.Subtasks(res.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "first step", subs[0].Title)
	assert.True(t, subs[0].Completed)

	require.NoError(t, s.SetSubtaskCompleted(id, false))
	subs, err = s.Subtasks(res.ID)
	require.NoError(t, err)
	assert.False(t, subs[0].Completed)
}

func TestSetCoverURL(t *testing.T) {
	s := openTestStore(t)

	res, err := s.CreateTask(task.Draft{
		Title: "Dune", Category: task.CategoryMedia, Priority: task.PriorityMedium,
		Media: &task.Media{Type: "Movie", Year: "2021"},
	})
	require.NoError(t, err)

	require.NoError(t, s.SetCoverURL(res.ID, "https://example.com/dune.jpg"))

	got, err := s.GetTask(res.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Media)
	assert.Equal(t, "https://example.com/dune.jpg", got.Media.CoverURL)
	assert.Equal(t, "Movie", got.Media.Type)
}

func TestRestore_ReplacesCollections(t *testing.T) {
	s := openTestStore(t)
	old := mustCreate(t, s, "will vanish", task.CategoryMisc)
	_, err := s.AddSubtask(old.ID, "gone too")
	require.NoError(t, err)

	tasks := []*task.Task{
		{ID: 10, Title: "restored", Category: task.CategoryWork,
			Priority: task.PriorityHigh, Created: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), Completed: true},
	}
	subtasks := []*task.Subtask{
		{ID: 7, TaskID: 10, Title: "restored sub", Completed: false},
	}
	require.NoError(t, s.Restore(tasks, subtasks))

	all, err := s.Tasks(Filter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(10), all[0].ID)
	assert.Equal(t, "restored", all[0].Title)
	assert.True(t, all[0].Completed)

	subs, err := s.Subtasks(10)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "restored sub", subs[0].Title)
	assert.False(t, subs[0].Completed)
}

func TestRestore_IntegrityFailureLeavesStateUntouched(t *testing.T) {
	s := openTestStore(t)
	keep := mustCreate(t, s, "survivor", task.CategoryWork)

	err := s.Restore(
		[]*task.Task{{ID: 1, Title: "t", Category: task.CategoryWork, Priority: task.PriorityMedium, Created: time.Now()}},
		[]*task.Subtask{{ID: 1, TaskID: 99, Title: "dangling"}},
	)
	assertCode(t, err, clierr.IntegrityError)

	all, err := s.Tasks(Filter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keep.ID, all[0].ID)
}

func TestMeetingsExpensesVoiceNotes(t *testing.T) {
	s := openTestStore(t)

	d := date.New(2024, time.March, 12)
	_, err := s.AddMeeting(Meeting{Title: "Standup", Summary: "short", Date: &d, Duration: 15})
	require.NoError(t, err)
	_, err = s.AddMeeting(Meeting{Title: ""})
	assertCode(t, err, clierr.InvalidInput)

	meetings, err := s.Meetings()
	require.NoError(t, err)
	require.Len(t, meetings, 1)
	assert.Equal(t, "Standup", meetings[0].Title)
	assert.Equal(t, 15, meetings[0].Duration)

	_, err = s.AddExpense(Expense{Description: "Taxi", Amount: 23.50, Category: "travel", Date: &d})
	require.NoError(t, err)
	_, err = s.AddExpense(Expense{Description: "free", Amount: 0})
	assertCode(t, err, clierr.InvalidInput)

	expenses, err := s.Expenses()
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.InDelta(t, 23.50, expenses[0].Amount, 0.001)

	_, err = s.AddVoiceNote(VoiceNote{Title: "Idea", Transcript: "build a birdhouse"})
	require.NoError(t, err)

	notes, err := s.VoiceNotes()
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "build a birdhouse", notes[0].Transcript)
}

func mustCreate(t *testing.T, s *Store, title string, c task.Category) *CreateResult {
	t.Helper()
	res, err := s.CreateTask(task.Draft{Title: title, Category: c, Priority: task.PriorityMedium})
	require.NoError(t, err)
	return res
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var cliErr *clierr.Error
	require.True(t, errors.As(err, &cliErr), "expected clierr.Error, got %T: %v", err, err)
	assert.Equal(t, code, cliErr.Code)
}
