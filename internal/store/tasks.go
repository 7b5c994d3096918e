package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tasker-cli/tasker/internal/clierr"
	"github.com/tasker-cli/tasker/internal/date"
	"github.com/tasker-cli/tasker/internal/task"
)

// timeFormat is how created_at timestamps are stored.
const timeFormat = "2006-01-02 15:04:05"

// taskColumns is the canonical select list for task rows.
const taskColumns = `id, title, description, category, project, area, resource,
	created_at, due_date, priority, is_recurring, recurrence_pattern, completed,
	media_type, year, director, rating, cover_url`

// CreateResult reports the outcome of creating a task.
type CreateResult struct {
	ID int64 `json:"id"`

	// FollowUpID is set when the draft was recurring with a due date:
	// exactly one successor instance is created in the same transaction.
	FollowUpID  int64      `json:"follow_up_id,omitempty"`
	FollowUpDue *date.Date `json:"follow_up_due,omitempty"`
}

// CreateTask validates the draft, stamps the creation time, and inserts
// it. For a recurring draft with a due date, one follow-up task is
// inserted in the same transaction, its due date offset by the pattern
// and itself flagged recurring. Repeated recurrence is driven by
// repeated user action, not a scheduler.
func (s *Store) CreateTask(d task.Draft) (*CreateResult, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	created := time.Now().Format(timeFormat)
	res := &CreateResult{}

	err := s.withTx(func(tx *sql.Tx) error {
		id, err := insertTask(tx, d, created)
		if err != nil {
			return err
		}
		res.ID = id

		if d.Recurring && d.Due != nil {
			next := task.NextOccurrence(*d.Due, d.Pattern)
			followUp := d
			followUp.Due = &next
			followID, err := insertTask(tx, followUp, created)
			if err != nil {
				return err
			}
			res.FollowUpID = followID
			res.FollowUpDue = &next
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func insertTask(tx *sql.Tx, d task.Draft, created string) (int64, error) {
	var due sql.NullString
	if d.Due != nil {
		due = sql.NullString{String: d.Due.String(), Valid: true}
	}
	var pattern sql.NullString
	if d.Recurring {
		pattern = sql.NullString{String: string(d.Pattern), Valid: true}
	}

	var mediaType, year, director, coverURL sql.NullString
	var rating sql.NullInt64
	if d.Media != nil {
		mediaType = nullString(d.Media.Type)
		year = nullString(d.Media.Year)
		director = nullString(d.Media.Director)
		coverURL = nullString(d.Media.CoverURL)
		if d.Media.Rating != 0 {
			rating = sql.NullInt64{Int64: int64(d.Media.Rating), Valid: true}
		}
	}

	result, err := tx.Exec(
		`INSERT INTO tasks (title, description, category, project, area, resource,
			created_at, due_date, priority, is_recurring, recurrence_pattern,
			media_type, year, director, rating, cover_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Title, nullString(d.Description), string(d.Category),
		nullString(d.Project), nullString(d.Area), nullString(d.Resource),
		created, due, int(d.Priority), boolToInt(d.Recurring), pattern,
		mediaType, year, director, rating, coverURL,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted task id: %w", err)
	}
	return id, nil
}

// GetTask returns a single task by ID.
func (s *Store) GetTask(id int64) (*task.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, taskNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading task: %w", err)
	}
	return t, nil
}

// CompleteTask marks a task completed. Completing an already-completed
// task is a no-op, not an error.
func (s *Store) CompleteTask(id int64) error {
	return s.withTx(func(tx *sql.Tx) error {
		if err := taskExists(tx, id); err != nil {
			return err
		}
		_, err := tx.Exec(`UPDATE tasks SET completed = 1 WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("completing task: %w", err)
		}
		return nil
	})
}

// DeleteTask removes a task and all its subtasks in one transaction.
func (s *Store) DeleteTask(id int64) error {
	return s.withTx(func(tx *sql.Tx) error {
		if err := taskExists(tx, id); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM subtasks WHERE task_id = ?`, id); err != nil {
			return fmt.Errorf("deleting subtasks: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM tasks WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting task: %w", err)
		}
		return nil
	})
}

// SetCoverURL caches a fetched cover image URL on a media task.
func (s *Store) SetCoverURL(id int64, url string) error {
	return s.withTx(func(tx *sql.Tx) error {
		if err := taskExists(tx, id); err != nil {
			return err
		}
		_, err := tx.Exec(`UPDATE tasks SET cover_url = ? WHERE id = ?`, url, id)
		if err != nil {
			return fmt.Errorf("caching cover url: %w", err)
		}
		return nil
	})
}

// Filter selects tasks matching all non-empty fields (AND logic).
type Filter struct {
	Category task.Category
	Project  string
	Area     string
	Resource string
	Search   string // case-insensitive substring across title, description, category, project, area, resource

	// Completed filters by completion state; nil means both.
	Completed *bool

	// SortByDue orders results by due date ascending, NULLs last.
	SortByDue bool
}

// Tasks returns tasks matching the filter.
func (s *Store) Tasks(f Filter) ([]*task.Task, error) {
	var where []string
	var args []any

	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(f.Category))
	}
	if f.Project != "" {
		where = append(where, "project = ?")
		args = append(args, f.Project)
	}
	if f.Area != "" {
		where = append(where, "area = ?")
		args = append(args, f.Area)
	}
	if f.Resource != "" {
		where = append(where, "resource = ?")
		args = append(args, f.Resource)
	}
	if f.Completed != nil {
		where = append(where, "completed = ?")
		args = append(args, boolToInt(*f.Completed))
	}
	if f.Search != "" {
		where = append(where,
			`(title LIKE ? OR description LIKE ? OR category LIKE ?
			  OR project LIKE ? OR area LIKE ? OR resource LIKE ?)`)
		pat := "%" + f.Search + "%"
		for range 6 {
			args = append(args, pat)
		}
	}

	q := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	if f.SortByDue {
		q += " ORDER BY due_date IS NULL, due_date ASC, id ASC"
	} else {
		q += " ORDER BY id ASC"
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading tasks: %w", err)
	}
	return tasks, nil
}

// scanner abstracts sql.Row and sql.Rows for scanTask.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(sc scanner) (*task.Task, error) {
	var t task.Task
	var description, project, area, resource sql.NullString
	var createdAt string
	var dueDate, pattern sql.NullString
	var recurring, completed int
	var mediaType, year, director, coverURL sql.NullString
	var rating sql.NullInt64

	err := sc.Scan(&t.ID, &t.Title, &description, &t.Category,
		&project, &area, &resource, &createdAt, &dueDate,
		&t.Priority, &recurring, &pattern, &completed,
		&mediaType, &year, &director, &rating, &coverURL)
	if err != nil {
		return nil, err
	}

	t.Description = description.String
	t.Project = project.String
	t.Area = area.String
	t.Resource = resource.String
	t.Recurring = recurring != 0
	t.Completed = completed != 0
	if pattern.Valid {
		t.Pattern = task.Pattern(pattern.String)
	}

	if created, err := time.Parse(timeFormat, createdAt); err == nil {
		t.Created = created
	}
	if dueDate.Valid {
		if d, err := date.Parse(dueDate.String); err == nil {
			t.Due = &d
		}
	}

	if mediaType.Valid || year.Valid || director.Valid || rating.Valid || coverURL.Valid {
		t.Media = &task.Media{
			Type:     mediaType.String,
			Year:     year.String,
			Director: director.String,
			Rating:   int(rating.Int64),
			CoverURL: coverURL.String,
		}
	}
	return &t, nil
}

// taskExists returns TASK_NOT_FOUND if the id has no row.
func taskExists(tx *sql.Tx, id int64) error {
	var n int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM tasks WHERE id = ?`, id).Scan(&n); err != nil {
		return fmt.Errorf("checking task: %w", err)
	}
	if n == 0 {
		return taskNotFound(id)
	}
	return nil
}

func taskNotFound(id int64) error {
	return clierr.Newf(clierr.TaskNotFound, "task not found: #%d", id).
		WithDetails(map[string]any{"id": id})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
