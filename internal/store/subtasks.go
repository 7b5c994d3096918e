package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/tasker-cli/tasker/internal/clierr"
	"github.com/tasker-cli/tasker/internal/task"
)

// AddSubtask creates a subtask under an existing task.
func (s *Store) AddSubtask(taskID int64, title string) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, clierr.New(clierr.InvalidInput, "subtask title is required")
	}

	var id int64
	err := s.withTx(func(tx *sql.Tx) error {
		if err := taskExists(tx, taskID); err != nil {
			return err
		}
		result, err := tx.Exec(
			`INSERT INTO subtasks (task_id, title) VALUES (?, ?)`, taskID, title)
		if err != nil {
			return fmt.Errorf("inserting subtask: %w", err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading inserted subtask id: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// SetSubtaskCompleted toggles a subtask's completion flag.
func (s *Store) SetSubtaskCompleted(id int64, completed bool) error {
	return s.withTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(
			`UPDATE subtasks SET completed = ? WHERE id = ?`, boolToInt(completed), id)
		if err != nil {
			return fmt.Errorf("updating subtask: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("updating subtask: %w", err)
		}
		if n == 0 {
			return clierr.Newf(clierr.SubtaskNotFound, "subtask not found: #%d", id).
				WithDetails(map[string]any{"id": id})
		}
		return nil
	})
}

// Subtasks returns all subtasks of a task, oldest first. A task with no
// subtasks yields an empty slice, not an error.
func (s *Store) Subtasks(taskID int64) ([]*task.Subtask, error) {
	rows, err := s.db.Query(
		`SELECT id, task_id, title, completed FROM subtasks
		 WHERE task_id = ? ORDER BY id ASC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("querying subtasks: %w", err)
	}
	defer rows.Close()
	return collectSubtasks(rows)
}

// AllSubtasks returns every subtask in the store, for backup export.
func (s *Store) AllSubtasks() ([]*task.Subtask, error) {
	rows, err := s.db.Query(
		`SELECT id, task_id, title, completed FROM subtasks ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying subtasks: %w", err)
	}
	defer rows.Close()
	return collectSubtasks(rows)
}

func collectSubtasks(rows *sql.Rows) ([]*task.Subtask, error) {
	subtasks := []*task.Subtask{}
	for rows.Next() {
		var st task.Subtask
		var completed int
		if err := rows.Scan(&st.ID, &st.TaskID, &st.Title, &completed); err != nil {
			return nil, fmt.Errorf("scanning subtask: %w", err)
		}
		st.Completed = completed != 0
		subtasks = append(subtasks, &st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading subtasks: %w", err)
	}
	return subtasks, nil
}
