package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tasker-cli/tasker/internal/clierr"
	"github.com/tasker-cli/tasker/internal/date"
)

// Meeting, Expense, and VoiceNote are independent flat records with no
// relationship to tasks. They are append-only: created and listed, never
// updated.

// Meeting is a recorded meeting summary.
type Meeting struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary,omitempty"`
	Attendees   string     `json:"attendees,omitempty"`
	ActionItems string     `json:"action_items,omitempty"`
	Date        *date.Date `json:"date,omitempty"`
	Duration    int        `json:"duration,omitempty"` // minutes
	Location    string     `json:"location,omitempty"`
	Created     time.Time  `json:"created"`
}

// Expense is a tracked expense.
type Expense struct {
	ID          int64      `json:"id"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	Category    string     `json:"category,omitempty"`
	ReceiptPath string     `json:"receipt_path,omitempty"`
	Date        *date.Date `json:"date,omitempty"`
	Created     time.Time  `json:"created"`
}

// VoiceNote is a voice memo reference with an optional transcript.
type VoiceNote struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	AudioPath  string    `json:"audio_path,omitempty"`
	Transcript string    `json:"transcript,omitempty"`
	Created    time.Time `json:"created"`
}

// AddMeeting records a meeting.
func (s *Store) AddMeeting(m Meeting) (int64, error) {
	if strings.TrimSpace(m.Title) == "" {
		return 0, clierr.New(clierr.InvalidInput, "meeting title is required")
	}

	var id int64
	err := s.withTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(
			`INSERT INTO meetings (title, summary, attendees, action_items, date, duration, location, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			m.Title, nullString(m.Summary), nullString(m.Attendees),
			nullString(m.ActionItems), dateString(m.Date), m.Duration,
			nullString(m.Location), time.Now().Format(timeFormat))
		if err != nil {
			return fmt.Errorf("inserting meeting: %w", err)
		}
		id, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Meetings lists all meetings, most recent date first.
func (s *Store) Meetings() ([]*Meeting, error) {
	rows, err := s.db.Query(
		`SELECT id, title, summary, attendees, action_items, date, duration, location, created_at
		 FROM meetings ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying meetings: %w", err)
	}
	defer rows.Close()

	var meetings []*Meeting
	for rows.Next() {
		var m Meeting
		var summary, attendees, actionItems, location, d sql.NullString
		var duration sql.NullInt64
		var created string
		if err := rows.Scan(&m.ID, &m.Title, &summary, &attendees,
			&actionItems, &d, &duration, &location, &created); err != nil {
			return nil, fmt.Errorf("scanning meeting: %w", err)
		}
		m.Summary = summary.String
		m.Attendees = attendees.String
		m.ActionItems = actionItems.String
		m.Location = location.String
		m.Duration = int(duration.Int64)
		m.Date = parseDatePtr(d)
		m.Created = parseCreated(created)
		meetings = append(meetings, &m)
	}
	return meetings, rows.Err()
}

// AddExpense records an expense.
func (s *Store) AddExpense(e Expense) (int64, error) {
	if strings.TrimSpace(e.Description) == "" {
		return 0, clierr.New(clierr.InvalidInput, "expense description is required")
	}
	if e.Amount <= 0 {
		return 0, clierr.New(clierr.InvalidInput, "expense amount must be positive")
	}

	var id int64
	err := s.withTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(
			`INSERT INTO expenses (description, amount, category, receipt_path, date, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			e.Description, e.Amount, nullString(e.Category),
			nullString(e.ReceiptPath), dateString(e.Date),
			time.Now().Format(timeFormat))
		if err != nil {
			return fmt.Errorf("inserting expense: %w", err)
		}
		id, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Expenses lists all expenses, most recent date first.
func (s *Store) Expenses() ([]*Expense, error) {
	rows, err := s.db.Query(
		`SELECT id, description, amount, category, receipt_path, date, created_at
		 FROM expenses ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		var e Expense
		var category, receipt, d sql.NullString
		var created string
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount,
			&category, &receipt, &d, &created); err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}
		e.Category = category.String
		e.ReceiptPath = receipt.String
		e.Date = parseDatePtr(d)
		e.Created = parseCreated(created)
		expenses = append(expenses, &e)
	}
	return expenses, rows.Err()
}

// AddVoiceNote records a voice note reference.
func (s *Store) AddVoiceNote(n VoiceNote) (int64, error) {
	if strings.TrimSpace(n.Title) == "" {
		return 0, clierr.New(clierr.InvalidInput, "voice note title is required")
	}

	var id int64
	err := s.withTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(
			`INSERT INTO voice_notes (title, audio_path, transcript, created_at)
			 VALUES (?, ?, ?, ?)`,
			n.Title, nullString(n.AudioPath), nullString(n.Transcript),
			time.Now().Format(timeFormat))
		if err != nil {
			return fmt.Errorf("inserting voice note: %w", err)
		}
		id, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// VoiceNotes lists all voice notes, newest first.
func (s *Store) VoiceNotes() ([]*VoiceNote, error) {
	rows, err := s.db.Query(
		`SELECT id, title, audio_path, transcript, created_at
		 FROM voice_notes ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying voice notes: %w", err)
	}
	defer rows.Close()

	var notes []*VoiceNote
	for rows.Next() {
		var n VoiceNote
		var audio, transcript sql.NullString
		var created string
		if err := rows.Scan(&n.ID, &n.Title, &audio, &transcript, &created); err != nil {
			return nil, fmt.Errorf("scanning voice note: %w", err)
		}
		n.AudioPath = audio.String
		n.Transcript = transcript.String
		n.Created = parseCreated(created)
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}

func dateString(d *date.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func parseDatePtr(s sql.NullString) *date.Date {
	if !s.Valid {
		return nil
	}
	d, err := date.Parse(s.String)
	if err != nil {
		return nil
	}
	return &d
}

func parseCreated(s string) time.Time {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
