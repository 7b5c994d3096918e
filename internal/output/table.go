package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tasker-cli/tasker/internal/query"
	"github.com/tasker-cli/tasker/internal/store"
	"github.com/tasker-cli/tasker/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	openStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	// Category colors aligned with the TUI column-header palette.
	categoryStyles = map[string]lipgloss.Style{
		"Work":     lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		"Studies":  lipgloss.NewStyle().Foreground(lipgloss.Color("62")),
		"Personal": lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
		"Media":    lipgloss.NewStyle().Foreground(lipgloss.Color("170")),
		"Misc":     lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}

	// Priority colors matching the TUI priority palette.
	priorityStyles = map[string]lipgloss.Style{
		"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}

	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	recurStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
)

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	doneStyle = lipgloss.NewStyle()
	openStyle = lipgloss.NewStyle()
	categoryStyles = map[string]lipgloss.Style{}
	priorityStyles = map[string]lipgloss.Style{}
	overdueStyle = lipgloss.NewStyle()
	recurStyle = lipgloss.NewStyle()
}

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	// Calculate column widths.
	const pad = 2
	idW, stateW, catW, prioW, titleW, dueW := 4, 7, 10, 10, 5, 12
	for _, t := range tasks {
		idW = max(idW, len(strconv.FormatInt(t.ID, 10))+pad)
		catW = max(catW, len(t.Category)+pad)
		titleW = max(titleW, min(len(t.Title)+pad, 50)) //nolint:mnd // max title column width
	}

	// Print header.
	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s",
		idW, "ID", stateW, "STATE", catW, "CATEGORY",
		prioW, "PRIORITY", titleW, "TITLE", dueW, "DUE")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	// Print rows.
	for _, t := range tasks {
		title := t.Title
		const maxTitle = 48
		if len(title) > maxTitle {
			title = title[:maxTitle-3] + "..."
		}
		if t.Recurring {
			title += " " + recurStyle.Render("↻")
		}
		due := "--"
		if t.Due != nil {
			due = t.Due.String()
		} else {
			due = dimStyle.Render(due)
		}

		row := fmt.Sprintf("%-*d %s %s %s %s %s",
			idW, t.ID,
			padRight(stateDisplay(t.Completed), stateW),
			padRight(styledValue(string(t.Category), categoryStyles), catW),
			padRight(styledValue(t.Priority.String(), priorityStyles), prioW),
			padRight(title, titleW),
			due)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail, including its
// subtasks when provided.
func TaskDetail(w io.Writer, t *task.Task, subtasks []*task.Subtask) {
	titleLine := fmt.Sprintf("Task #%d: %s", t.ID, t.Title)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", len(titleLine)))

	printField(w, "State", stateDisplay(t.Completed))
	printField(w, "Category", styledValue(string(t.Category), categoryStyles))
	printField(w, "Priority", styledValue(t.Priority.String(), priorityStyles))
	printField(w, "Project", stringOrDash(t.Project))
	printField(w, "Area", stringOrDash(t.Area))
	printField(w, "Resource", stringOrDash(t.Resource))
	if t.Due != nil {
		printField(w, "Due", t.Due.String())
	} else {
		printField(w, "Due", dimStyle.Render("--"))
	}
	if t.Recurring {
		printField(w, "Recurring", recurStyle.Render(string(t.Pattern)))
	}
	printField(w, "Created", t.Created.Format("2006-01-02 15:04"))

	if m := t.Media; m != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Media"))
		printField(w, "Type", m.Type)
		printField(w, "Year", stringOrDash(m.Year))
		printField(w, "Director", stringOrDash(m.Director))
		if m.Rating > 0 {
			printField(w, "Rating", strings.Repeat("★", m.Rating)+strings.Repeat("☆", task.MaxRating-m.Rating))
		}
		printField(w, "Cover", stringOrDash(m.CoverURL))
	}

	if len(subtasks) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Subtasks"))
		for _, s := range subtasks {
			box := "[ ]"
			if s.Completed {
				box = doneStyle.Render("[x]")
			}
			fmt.Fprintf(w, "  %s #%d %s\n", box, s.ID, s.Title)
		}
	}
}

// StatsTable renders the statistics view as a formatted dashboard.
func StatsTable(w io.Writer, s query.Stats) {
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render("Task Statistics"))
	fmt.Fprintf(w, "Total: %d tasks, %d completed (%.1f%%)\n\n",
		s.TotalTasks, s.CompletedTasks, s.CompletionRate)

	header := fmt.Sprintf("%-16s %6s %6s", "CATEGORY", "COUNT", "DONE")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, cc := range s.Categories {
		const catColW = 16
		fmt.Fprintf(w, "%s %6d %6d\n",
			padRight(styledValue(string(cc.Category), categoryStyles), catColW),
			cc.Count, cc.Done)
	}

	fmt.Fprintln(w)
	prioHeader := fmt.Sprintf("%-16s %6s", "PRIORITY", "COUNT")
	fmt.Fprintln(w, headerStyle.Render(prioHeader))
	for _, pc := range s.Priorities {
		const prioColW = 16
		fmt.Fprintf(w, "%s %6d\n",
			padRight(styledValue(pc.Priority, priorityStyles), prioColW), pc.Count)
	}

	if len(s.Overdue) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, overdueStyle.Render(fmt.Sprintf("Overdue (%d)", len(s.Overdue))))
		for _, t := range s.Overdue {
			fmt.Fprintf(w, "  #%d %s (due %s)\n", t.ID, t.Title, t.Due.String())
		}
	}
}

// TimelineTable renders the due-date timeline view.
func TimelineTable(w io.Writer, rows []query.TimelineRow) {
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks with due dates.")
		return
	}

	header := fmt.Sprintf("%-12s %-4s %-10s %-7s %s", "DUE", "ID", "CATEGORY", "STATE", "TITLE")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, r := range rows {
		const catColW = 10
		fmt.Fprintf(w, "%-12s %-4d %s %s %s\n",
			r.Due.String(), r.ID,
			padRight(styledValue(string(r.Category), categoryStyles), catColW),
			padRight(stateDisplay(r.Completed), 7), //nolint:mnd // state column width
			r.Title)
	}
}

// MeetingTable renders a list of meeting records.
func MeetingTable(w io.Writer, meetings []*store.Meeting) {
	if len(meetings) == 0 {
		fmt.Fprintln(os.Stderr, "No meetings found.")
		return
	}

	header := fmt.Sprintf("%-4s %-12s %-6s %-20s %s", "ID", "DATE", "MIN", "LOCATION", "TITLE")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, m := range meetings {
		d := "--"
		if m.Date != nil {
			d = m.Date.String()
		}
		dur := "--"
		if m.Duration > 0 {
			dur = strconv.Itoa(m.Duration)
		}
		fmt.Fprintf(w, "%-4d %-12s %-6s %-20s %s\n", m.ID, d, dur, truncate(m.Location, 18), m.Title)
	}
}

// ExpenseTable renders a list of expense records with a total line.
func ExpenseTable(w io.Writer, expenses []*store.Expense) {
	if len(expenses) == 0 {
		fmt.Fprintln(os.Stderr, "No expenses found.")
		return
	}

	header := fmt.Sprintf("%-4s %-12s %10s %-12s %s", "ID", "DATE", "AMOUNT", "CATEGORY", "DESCRIPTION")
	fmt.Fprintln(w, headerStyle.Render(header))
	var total float64
	for _, e := range expenses {
		d := "--"
		if e.Date != nil {
			d = e.Date.String()
		}
		fmt.Fprintf(w, "%-4d %-12s %10.2f %-12s %s\n", e.ID, d, e.Amount, truncate(e.Category, 12), e.Description)
		total += e.Amount
	}
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%-17s %10.2f", "Total:", total)))
}

// NoteTable renders a list of voice note records.
func NoteTable(w io.Writer, notes []*store.VoiceNote) {
	if len(notes) == 0 {
		fmt.Fprintln(os.Stderr, "No voice notes found.")
		return
	}

	header := fmt.Sprintf("%-4s %-17s %-30s %s", "ID", "CREATED", "TITLE", "AUDIO")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, n := range notes {
		audio := n.AudioPath
		if audio == "" {
			audio = dimStyle.Render("--")
		}
		fmt.Fprintf(w, "%-4d %-17s %-30s %s\n",
			n.ID, n.Created.Format("2006-01-02 15:04"), truncate(n.Title, 30), audio)
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// stateDisplay renders the completed flag as done/open.
func stateDisplay(completed bool) string {
	if completed {
		return doneStyle.Render("done")
	}
	return openStyle.Render("open")
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func stringOrDash(s string) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}
