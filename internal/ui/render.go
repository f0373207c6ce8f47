package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"agendu/internal/deadline"
	"agendu/internal/summary"
	"agendu/internal/tasks"
	"agendu/internal/view"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	fadedStyle   = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	dueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	plannedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Faint(true)

	priorityStyles = map[tasks.Priority]lipgloss.Style{
		tasks.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		tasks.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		tasks.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
)

func (m Model) renderTaskList() string {
	list := m.visibleTasks()
	if len(list) == 0 {
		return "No tasks match the current filters. Adjust them or add a new task.\n"
	}
	now := m.now()
	var b strings.Builder
	for i, t := range list {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}
		checkbox := "[ ]"
		if t.Completed {
			checkbox = "[x]"
		}
		title := t.Title
		if view.Fading(t.Completion, now) {
			title = fadedStyle.Render(title)
		}
		prio := priorityStyles[t.Priority].Render(string(t.Priority))
		line := fmt.Sprintf("%s %s %s  %s", cursor, checkbox, title, prio)
		if t.DueDate != nil {
			line += "  due " + formatDate(t.DueDate)
		}
		if n := len(t.PlannedDates); n > 0 {
			line += fmt.Sprintf("  (%d planned)", n)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderActivityList() string {
	list := view.Activities(m.mgr.Activities())
	if len(list) == 0 {
		return "No personal activities yet.\n"
	}
	now := m.now()
	var b strings.Builder
	for i, a := range list {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}
		checkbox := "[ ]"
		if a.Completed {
			checkbox = "[x]"
		}
		title := a.Title
		if view.Fading(a.Completion, now) {
			title = fadedStyle.Render(title)
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, checkbox, title))
	}
	return b.String()
}

func (m Model) renderUpcoming() string {
	var b strings.Builder
	header := "Upcoming"
	if m.includePlanned {
		header += " (incl. planned)"
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	now := m.now()
	events := deadline.Upcoming(m.mgr.Tasks(), m.includePlanned, now)
	if len(events) == 0 {
		b.WriteString(deadline.EmptyMessage(m.includePlanned))
		b.WriteString("\n")
		return b.String()
	}
	for _, e := range events {
		marker := dueStyle.Render("●")
		suffix := ""
		if e.Kind == deadline.KindPlanned {
			marker = plannedStyle.Render("○")
			suffix = plannedStyle.Render(" (planned)")
		}
		b.WriteString(fmt.Sprintf("%s %s%s  %s\n", marker, e.Title, suffix, deadline.Urgency(e.Date, now)))
	}
	return b.String()
}

func (m Model) renderSummary() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Summary"))
	b.WriteString("\n")
	if m.summarizer == nil {
		b.WriteString(helpStyle.Render("AI summary disabled (set summary.enabled and an API key)."))
		return b.String()
	}
	st := m.tracker.State()
	switch {
	case st.Pending:
		b.WriteString("Generating summary...")
	case st.Err != nil:
		b.WriteString(errorStyle.Render(summary.FailureMessage))
	case st.Summary != "":
		b.WriteString(st.Summary)
	default:
		b.WriteString(helpStyle.Render(fmt.Sprintf("Press '%s' to generate a summary.", m.cfg.Keys.Summary)))
	}
	return b.String()
}
