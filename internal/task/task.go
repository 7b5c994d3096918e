// Package task defines the task and subtask domain model.
package task

import (
	"strings"
	"time"

	"github.com/tasker-cli/tasker/internal/date"
)

// Category is a PARA top-level classification for tasks.
type Category string

// The fixed set of categories.
const (
	CategoryWork     Category = "Work"
	CategoryStudies  Category = "Studies"
	CategoryPersonal Category = "Personal"
	CategoryMedia    Category = "Media"
	CategoryMisc     Category = "Misc"
)

// Categories lists all valid categories in display order.
var Categories = []Category{
	CategoryWork,
	CategoryStudies,
	CategoryPersonal,
	CategoryMedia,
	CategoryMisc,
}

// Priority is a task priority level. Lower values are more urgent.
type Priority int

// Priority levels.
const (
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3
)

// String returns the priority's display name.
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return "unknown"
	}
}

// ParsePriority converts a name ("high", "medium", "low") to a Priority.
func ParsePriority(s string) (Priority, bool) {
	switch s {
	case "high":
		return PriorityHigh, true
	case "medium":
		return PriorityMedium, true
	case "low":
		return PriorityLow, true
	}
	return 0, false
}

// ParseCategory converts a name to a Category, case-insensitively.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}

// Pattern is a recurrence pattern.
type Pattern string

// Recurrence patterns.
const (
	Daily   Pattern = "Daily"
	Weekly  Pattern = "Weekly"
	Monthly Pattern = "Monthly"
	Yearly  Pattern = "Yearly"
)

// Patterns lists all valid recurrence patterns.
var Patterns = []Pattern{Daily, Weekly, Monthly, Yearly}

// ParsePattern converts a name to a Pattern, case-insensitively.
func ParsePattern(s string) (Pattern, bool) {
	for _, p := range Patterns {
		if strings.EqualFold(s, string(p)) {
			return p, true
		}
	}
	return "", false
}

// Media holds metadata for tasks in the Media category.
type Media struct {
	Type     string `json:"type"`
	Year     string `json:"year,omitempty"`
	Director string `json:"director,omitempty"`
	Rating   int    `json:"rating,omitempty"`
	CoverURL string `json:"cover_url,omitempty"`
}

// Task is a single task record.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    Category   `json:"category"`
	Project     string     `json:"project,omitempty"`
	Area        string     `json:"area,omitempty"`
	Resource    string     `json:"resource,omitempty"`
	Created     time.Time  `json:"created"`
	Due         *date.Date `json:"due,omitempty"`
	Priority    Priority   `json:"priority"`
	Recurring   bool       `json:"recurring,omitempty"`
	Pattern     Pattern    `json:"pattern,omitempty"`
	Completed   bool       `json:"completed"`

	// Media is populated only when Category is CategoryMedia.
	Media *Media `json:"media,omitempty"`
}

// Draft holds the caller-supplied fields for a new task.
// ID and creation time are assigned by the store.
type Draft struct {
	Title       string
	Description string
	Category    Category
	Project     string
	Area        string
	Resource    string
	Due         *date.Date
	Priority    Priority
	Recurring   bool
	Pattern     Pattern
	Media       *Media
}

// Subtask is a child item scoped to a parent task.
type Subtask struct {
	ID        int64  `json:"id"`
	TaskID    int64  `json:"task_id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}
