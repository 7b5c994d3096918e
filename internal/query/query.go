// Package query computes aggregate views over task snapshots. All
// aggregates work on a full snapshot read rather than incremental
// bookkeeping; the datasets are small and read-mostly.
package query

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tasker-cli/tasker/internal/clierr"
	"github.com/tasker-cli/tasker/internal/date"
	"github.com/tasker-cli/tasker/internal/task"
)

// CategoryCount holds a count for one category.
type CategoryCount struct {
	Category task.Category `json:"category"`
	Count    int           `json:"count"`
	Done     int           `json:"done"`
}

// PriorityCount holds a count for one priority level.
type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

// Stats is the aggregate statistics view.
type Stats struct {
	TotalTasks     int             `json:"total_tasks"`
	CompletedTasks int             `json:"completed_tasks"`
	CompletionRate float64         `json:"completion_rate"` // percent, 0-100
	Categories     []CategoryCount `json:"categories"`
	Priorities     []PriorityCount `json:"priorities"`
	Overdue        []*task.Task    `json:"overdue"`
}

// Summarize computes the full statistics view from a task snapshot.
func Summarize(tasks []*task.Task, today date.Date) Stats {
	s := Stats{
		TotalTasks: len(tasks),
		Categories: make([]CategoryCount, 0, len(task.Categories)),
	}

	catMap := make(map[task.Category]*CategoryCount, len(task.Categories))
	for _, c := range task.Categories {
		catMap[c] = &CategoryCount{Category: c}
	}
	prioMap := make(map[task.Priority]int)

	for _, t := range tasks {
		if t.Completed {
			s.CompletedTasks++
		}
		if cc, ok := catMap[t.Category]; ok {
			cc.Count++
			if t.Completed {
				cc.Done++
			}
		}
		prioMap[t.Priority]++
	}

	s.CompletionRate = CompletionRate(tasks)

	for _, c := range task.Categories {
		s.Categories = append(s.Categories, *catMap[c])
	}
	for _, p := range []task.Priority{task.PriorityHigh, task.PriorityMedium, task.PriorityLow} {
		s.Priorities = append(s.Priorities, PriorityCount{Priority: p.String(), Count: prioMap[p]})
	}

	s.Overdue = Overdue(tasks, today)
	return s
}

// CompletionRate returns completed/total as a percentage, 0 for an
// empty snapshot.
func CompletionRate(tasks []*task.Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	var done int
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	return float64(done) / float64(len(tasks)) * 100
}

// Overdue returns incomplete tasks whose due date is strictly before
// today, soonest first.
func Overdue(tasks []*task.Task, today date.Date) []*task.Task {
	var overdue []*task.Task
	for _, t := range tasks {
		if t.Completed || t.Due == nil {
			continue
		}
		if t.Due.Before(today.Time) {
			overdue = append(overdue, t)
		}
	}
	sortByDue(overdue)
	return overdue
}

// TimelineRow is one entry of the due-date timeline view.
type TimelineRow struct {
	ID        int64         `json:"id"`
	Title     string        `json:"title"`
	Category  task.Category `json:"category"`
	Due       date.Date     `json:"due"`
	Completed bool          `json:"completed"`
}

// Timeline returns rows for every task with a due date, ascending by
// due date. Completed tasks are included so finished work stays visible
// on the timeline.
func Timeline(tasks []*task.Task) []TimelineRow {
	withDue := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Due != nil {
			withDue = append(withDue, t)
		}
	}
	sortByDue(withDue)

	rows := make([]TimelineRow, 0, len(withDue))
	for _, t := range withDue {
		rows = append(rows, TimelineRow{
			ID:        t.ID,
			Title:     t.Title,
			Category:  t.Category,
			Due:       *t.Due,
			Completed: t.Completed,
		})
	}
	return rows
}

func sortByDue(tasks []*task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Due.Before(tasks[j].Due.Time)
	})
}

// ParseIDs splits a comma-separated ID string into deduplicated int64 IDs.
func ParseIDs(arg string) ([]int64, error) {
	parts := strings.Split(arg, ",")
	seen := make(map[int64]bool, len(parts))
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, task.ValidateTaskID(p)
		}
		if !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	if len(ids) == 0 {
		return nil, clierr.New(clierr.InvalidTaskID, "no valid task IDs provided")
	}
	return ids, nil
}
