package store

import (
	"database/sql"
	"fmt"

	"github.com/tasker-cli/tasker/internal/clierr"
	"github.com/tasker-cli/tasker/internal/task"
)

// Restore replaces the entire task and subtask collections with the
// given records in one transaction. On any failure the prior contents
// are left untouched. Subtasks referencing a task id not present in
// tasks fail the whole restore with INTEGRITY_ERROR.
func (s *Store) Restore(tasks []*task.Task, subtasks []*task.Subtask) error {
	ids := make(map[int64]bool, len(tasks))
	for _, t := range tasks {
		ids[t.ID] = true
	}
	for _, st := range subtasks {
		if !ids[st.TaskID] {
			return clierr.Newf(clierr.IntegrityError,
				"subtask #%d references missing task #%d", st.ID, st.TaskID).
				WithDetails(map[string]any{
					"subtask_id": st.ID,
					"task_id":    st.TaskID,
				})
		}
	}

	return s.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM subtasks`); err != nil {
			return fmt.Errorf("clearing subtasks: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
			return fmt.Errorf("clearing tasks: %w", err)
		}

		for _, t := range tasks {
			if err := insertTaskWithID(tx, t); err != nil {
				return err
			}
		}
		for _, st := range subtasks {
			_, err := tx.Exec(
				`INSERT INTO subtasks (id, task_id, title, completed) VALUES (?, ?, ?, ?)`,
				st.ID, st.TaskID, st.Title, boolToInt(st.Completed))
			if err != nil {
				return fmt.Errorf("restoring subtask #%d: %w", st.ID, err)
			}
		}
		return nil
	})
}

// insertTaskWithID writes a task row preserving its identifier, used
// only during restore.
func insertTaskWithID(tx *sql.Tx, t *task.Task) error {
	var due sql.NullString
	if t.Due != nil {
		due = sql.NullString{String: t.Due.String(), Valid: true}
	}
	var pattern sql.NullString
	if t.Pattern != "" {
		pattern = sql.NullString{String: string(t.Pattern), Valid: true}
	}
	var mediaType, year, director, coverURL sql.NullString
	var rating sql.NullInt64
	if t.Media != nil {
		mediaType = nullString(t.Media.Type)
		year = nullString(t.Media.Year)
		director = nullString(t.Media.Director)
		coverURL = nullString(t.Media.CoverURL)
		if t.Media.Rating != 0 {
			rating = sql.NullInt64{Int64: int64(t.Media.Rating), Valid: true}
		}
	}

	_, err := tx.Exec(
		`INSERT INTO tasks (id, title, description, category, project, area, resource,
			created_at, due_date, priority, is_recurring, recurrence_pattern, completed,
			media_type, year, director, rating, cover_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, nullString(t.Description), string(t.Category),
		nullString(t.Project), nullString(t.Area), nullString(t.Resource),
		t.Created.Format(timeFormat), due, int(t.Priority),
		boolToInt(t.Recurring), pattern, boolToInt(t.Completed),
		mediaType, year, director, rating, coverURL)
	if err != nil {
		return fmt.Errorf("restoring task #%d: %w", t.ID, err)
	}
	return nil
}
