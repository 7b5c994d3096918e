// Package backup serializes the full task and subtask collections to a
// self-describing JSON document and back. The format round-trips
// exactly: field order is fixed, booleans stay booleans, and no type
// coercion happens on either side.
package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tasker-cli/tasker/internal/clierr"
	"github.com/tasker-cli/tasker/internal/task"
)

// timeFormat is how the export timestamp is written.
const timeFormat = "2006-01-02 15:04:05"

// Document is a full backup snapshot.
type Document struct {
	ExportedAt string          `json:"exported_at"`
	Tasks      []*task.Task    `json:"tasks"`
	Subtasks   []*task.Subtask `json:"subtasks"`
}

// Export writes a backup document for the given collections. The caller
// supplies the export time so identical snapshots serialize identically.
func Export(w io.Writer, tasks []*task.Task, subtasks []*task.Subtask, now time.Time) error {
	doc := Document{
		ExportedAt: now.Format(timeFormat),
		Tasks:      tasks,
		Subtasks:   subtasks,
	}
	if doc.Tasks == nil {
		doc.Tasks = []*task.Task{}
	}
	if doc.Subtasks == nil {
		doc.Subtasks = []*task.Subtask{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}
	return nil
}

// Import parses and validates a backup document. Structural problems
// (unparseable JSON, missing required fields, bad enum values) are
// reported as INVALID_BACKUP; referential problems are left to the
// store's restore, which checks subtask parents before writing.
func Import(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, clierr.Newf(clierr.InvalidBackup, "malformed backup document: %v", err)
	}

	if doc.ExportedAt == "" {
		return nil, clierr.New(clierr.InvalidBackup, "backup document missing exported_at")
	}
	if doc.Tasks == nil {
		return nil, clierr.New(clierr.InvalidBackup, "backup document missing tasks array")
	}
	if doc.Subtasks == nil {
		return nil, clierr.New(clierr.InvalidBackup, "backup document missing subtasks array")
	}

	seen := make(map[int64]bool, len(doc.Tasks))
	for i, t := range doc.Tasks {
		if err := validateTask(i, t, seen); err != nil {
			return nil, err
		}
	}
	for i, st := range doc.Subtasks {
		if err := validateSubtask(i, st); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}

func validateTask(i int, t *task.Task, seen map[int64]bool) error {
	if t == nil {
		return clierr.Newf(clierr.InvalidBackup, "tasks[%d] is null", i)
	}
	if t.ID <= 0 {
		return clierr.Newf(clierr.InvalidBackup, "tasks[%d] has invalid id %d", i, t.ID)
	}
	if seen[t.ID] {
		return clierr.Newf(clierr.InvalidBackup, "duplicate task id %d", t.ID)
	}
	seen[t.ID] = true
	if strings.TrimSpace(t.Title) == "" {
		return clierr.Newf(clierr.InvalidBackup, "tasks[%d] is missing a title", i)
	}
	if err := task.ValidateCategory(t.Category); err != nil {
		return clierr.Newf(clierr.InvalidBackup, "tasks[%d]: invalid category %q", i, string(t.Category))
	}
	return nil
}

func validateSubtask(i int, st *task.Subtask) error {
	if st == nil {
		return clierr.Newf(clierr.InvalidBackup, "subtasks[%d] is null", i)
	}
	if st.ID <= 0 {
		return clierr.Newf(clierr.InvalidBackup, "subtasks[%d] has invalid id %d", i, st.ID)
	}
	if strings.TrimSpace(st.Title) == "" {
		return clierr.Newf(clierr.InvalidBackup, "subtasks[%d] is missing a title", i)
	}
	return nil
}
