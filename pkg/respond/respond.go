package respond

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/BuzzLyutic/task-manager/internal/model"
)

var (
	green   = lipgloss.Color("2")
	yellow  = lipgloss.Color("3")
	red     = lipgloss.Color("1")
	cyan    = lipgloss.Color("6")
	magenta = lipgloss.Color("5")
)

func Success(w io.Writer, format string, args ...any) {
	message(w, green, format, args...)
}

func Warn(w io.Writer, format string, args ...any) {
	message(w, yellow, format, args...)
}

func Error(w io.Writer, format string, args ...any) {
	message(w, red, format, args...)
}

// JSON пишет каждую задачу отдельной строкой вместе с вычисленным статусом
func JSON(w io.Writer, tasks []model.Task, now time.Time) error {
	enc := json.NewEncoder(w)
	for _, t := range tasks {
		if err := enc.Encode(taskView{Task: t, Status: t.StatusAt(now)}); err != nil {
			return err
		}
	}
	return nil
}

// Table renders tasks with their status derived at now.
func Table(w io.Writer, tasks []model.Task, now time.Time) {
	r := lipgloss.NewRenderer(w)
	base := r.NewStyle().Padding(0, 1)

	columns := []lipgloss.Style{
		base.Foreground(cyan).Align(lipgloss.Right),
		base.Bold(true),
		base.Foreground(magenta),
		base.Faint(true),
		base.Foreground(green),
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			fmt.Sprint(t.ID),
			t.Name,
			t.DueDate.Format(time.DateOnly),
			valueOrDash(t.Description),
			StatusLabel(t.StatusAt(now)),
		})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(true).
		BorderStyle(r.NewStyle().Faint(true)).
		Headers("ID", "Name", "Due Date", "Description", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return base.Bold(true)
			}
			return columns[col]
		})

	title := r.NewStyle().Bold(true).Render("Tasks")
	fmt.Fprintf(w, "\n%s\n%s\n\n", title, tbl.Render())
}

func StatusLabel(s model.Status) string {
	switch s {
	case model.StatusCompleted:
		return "✅ Completed"
	case model.StatusPending:
		return "⌛ Pending"
	default:
		return "❌ Overdue"
	}
}

type taskView struct {
	model.Task
	Status model.Status `json:"status"`
}

func message(w io.Writer, color lipgloss.Color, format string, args ...any) {
	style := lipgloss.NewRenderer(w).NewStyle().Foreground(color)
	fmt.Fprintf(w, "\n%s\n\n", style.Render(fmt.Sprintf(format, args...)))
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
