package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tasker-cli/tasker/internal/query"
	"github.com/tasker-cli/tasker/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// TaskDetailCompact renders a single task with detail in compact format.
func TaskDetailCompact(w io.Writer, t *task.Task, subtasks []*task.Subtask) {
	fmt.Fprintln(w, formatTaskLine(t))
	fmt.Fprintln(w, "  created:"+t.Created.Format("2006-01-02"))

	if m := t.Media; m != nil {
		line := "  media:" + m.Type
		if m.Year != "" {
			line += " year:" + m.Year
		}
		if m.Rating > 0 {
			line += " rating:" + strconv.Itoa(m.Rating)
		}
		fmt.Fprintln(w, line)
	}

	for _, s := range subtasks {
		box := "[ ]"
		if s.Completed {
			box = "[x]"
		}
		fmt.Fprintf(w, "  %s #%d %s\n", box, s.ID, s.Title)
	}

	if t.Description != "" {
		for _, descLine := range strings.Split(t.Description, "\n") {
			fmt.Fprintln(w, "  "+descLine)
		}
	}
}

// StatsCompact renders the statistics view in compact format.
func StatsCompact(w io.Writer, s query.Stats) {
	fmt.Fprintf(w, "%d tasks, %d done (%.1f%%)\n", s.TotalTasks, s.CompletedTasks, s.CompletionRate)

	catParts := make([]string, 0, len(s.Categories))
	for _, cc := range s.Categories {
		catParts = append(catParts, string(cc.Category)+"="+strconv.Itoa(cc.Count))
	}
	fmt.Fprintln(w, "Category: "+strings.Join(catParts, " "))

	prioParts := make([]string, 0, len(s.Priorities))
	for _, pc := range s.Priorities {
		prioParts = append(prioParts, pc.Priority+"="+strconv.Itoa(pc.Count))
	}
	fmt.Fprintln(w, "Priority: "+strings.Join(prioParts, " "))

	for _, t := range s.Overdue {
		fmt.Fprintf(w, "overdue #%d %s due:%s\n", t.ID, t.Title, t.Due.String())
	}
}

// TimelineCompact renders the timeline view in compact format.
func TimelineCompact(w io.Writer, rows []query.TimelineRow) {
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks with due dates.")
		return
	}
	for _, r := range rows {
		state := "open"
		if r.Completed {
			state = "done"
		}
		fmt.Fprintf(w, "%s #%d [%s/%s] %s\n", r.Due.String(), r.ID, r.Category, state, r.Title)
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task) string {
	state := "open"
	if t.Completed {
		state = "done"
	}
	line := "#" + strconv.FormatInt(t.ID, 10) + " [" + string(t.Category) + "/" + t.Priority.String() + "/" + state + "] " + t.Title

	if t.Recurring {
		line += " recur:" + string(t.Pattern)
	}
	if t.Due != nil {
		line += " due:" + t.Due.String()
	}

	return line
}
