package formatter

import (
	"fmt"
	"strings"

	"github.com/karlrobeck/SovereignTask/internal/domain"
)

func priorityLabel(p domain.Priority) string {
	switch p {
	case domain.PriorityUrgent:
		return Red("urgent")
	case domain.PriorityHigh:
		return Yellow("high")
	case domain.PriorityMedium:
		return "medium"
	default:
		return Dim("low")
	}
}

func dateOrDash(t *domain.Task, start bool) string {
	v := t.StartDate
	if !start {
		v = t.DueDate
	}
	if v == nil {
		return Dim("-")
	}
	return v.Format("2006-01-02")
}

// FormatTaskList renders tasks as a table.
func FormatTaskList(tasks []*domain.Task) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			t.DisplayID(),
			t.Title,
			priorityLabel(t.Priority),
			dateOrDash(t, true),
			dateOrDash(t, false),
			fmt.Sprintf("v%d", t.RowVersion),
		})
	}
	return RenderTable([]string{"ID", "Title", "Priority", "Start", "Due", "Version"}, rows)
}

// FormatTaskDetail renders one task as a field list.
func FormatTaskDetail(t *domain.Task) string {
	var b strings.Builder
	b.WriteString(Header(t.Title) + "\n")
	fmt.Fprintf(&b, "%s  %s\n", Bold("ID:"), t.ID)
	fmt.Fprintf(&b, "%s  %s\n", Bold("Project:"), t.ProjectID)
	fmt.Fprintf(&b, "%s  %s\n", Bold("Status:"), t.StatusID)
	if t.ParentTaskID != nil {
		fmt.Fprintf(&b, "%s  %s\n", Bold("Parent:"), *t.ParentTaskID)
	}
	if t.AssigneeID != nil {
		fmt.Fprintf(&b, "%s  %s\n", Bold("Assignee:"), *t.AssigneeID)
	} else {
		fmt.Fprintf(&b, "%s  %s\n", Bold("Assignee:"), Dim("unassigned"))
	}
	fmt.Fprintf(&b, "%s  %s\n", Bold("Priority:"), priorityLabel(t.Priority))
	fmt.Fprintf(&b, "%s  %s / %s\n", Bold("Schedule:"), dateOrDash(t, true), dateOrDash(t, false))
	if t.EstimatedMinutes > 0 {
		fmt.Fprintf(&b, "%s  %dm\n", Bold("Estimate:"), t.EstimatedMinutes)
	}
	fmt.Fprintf(&b, "%s  %d\n", Bold("Version:"), t.RowVersion)
	if t.Description != "" {
		b.WriteString("\n" + t.Description + "\n")
	}
	return b.String()
}

// FormatTaskTree renders a parent task and its descendants.
func FormatTaskTree(root *domain.Task, childrenOf func(id string) []*domain.Task) string {
	var items []TreeItem

	var walk func(t *domain.Task, level int, isLast bool)
	walk = func(t *domain.Task, level int, isLast bool) {
		items = append(items, TreeItem{
			Title:  t.Title,
			Level:  level,
			IsLast: isLast,
			Detail: t.DisplayID(),
		})
		children := childrenOf(t.ID)
		for i, c := range children {
			walk(c, level+1, i == len(children)-1)
		}
	}
	walk(root, 0, true)

	return RenderTree(items)
}
