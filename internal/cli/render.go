package cli

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/theme"
)

// renderTasks lays out one day's tasks as a static table under a title.
func renderTasks(date time.Time, tasks []model.RankedTask) string {
	rows := make([]table.Row, 0, len(tasks))
	rankWidth, descWidth := lipgloss.Width("#"), lipgloss.Width("Task")
	for _, t := range tasks {
		rank := strconv.Itoa(t.Rank)
		rows = append(rows, table.Row{
			rank,
			t.Description,
			model.FormatDate(t.TaskDate),
			theme.DoneLabel(t.Done),
			theme.ImportantMark(t.Important),
		})
		rankWidth = max(rankWidth, lipgloss.Width(rank))
		descWidth = max(descWidth, lipgloss.Width(t.Description))
	}

	columns := []table.Column{
		{Title: "#", Width: rankWidth},
		{Title: "Task", Width: descWidth},
		{Title: "Date", Width: len(model.DateLayout)},
		{Title: "Status", Width: lipgloss.Width(theme.DoneLabel(false))},
		{Title: "!", Width: 1},
	}

	styles := theme.TableStyles()
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithStyles(styles),
	)
	// Header plus its bottom border, then one line per row.
	t.SetHeight(len(rows) + lipgloss.Height(styles.Header.Render("#")))

	title := theme.HeaderStyle.Render("Tasks for " + model.FormatDate(date))
	return lipgloss.JoinVertical(lipgloss.Left, title, t.View())
}
