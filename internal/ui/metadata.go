package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"agendu/internal/tasks"
	"agendu/internal/validate"
)

const taskGone = "Task no longer exists; edit discarded"

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

const (
	fieldTitle = iota
	fieldPriority
	fieldDue
	fieldPlanned
	fieldCount
)

// metaState is the task form. A nil editing means the form adds a task.
type metaState struct {
	editing *tasks.Task
	values  [fieldCount]string
	index   int
}

func metaFields() []string {
	return []string{"title", "priority (low/medium/high)", "due date (YYYY-MM-DD [HH:MM])", "planned dates (comma separated)"}
}

func (ms metaState) currentLabel() string {
	return metaFields()[ms.index]
}

func (ms metaState) currentValue() string {
	return ms.values[ms.index]
}

func (ms *metaState) setCurrentValue(v string) {
	ms.values[ms.index] = v
}

func (m Model) startMetadataEdit(t *tasks.Task) (tea.Model, tea.Cmd) {
	ms := &metaState{editing: t}
	ms.values[fieldPriority] = string(tasks.PriorityMedium)
	if t != nil {
		ms.values[fieldTitle] = t.Title
		ms.values[fieldPriority] = string(t.Priority)
		ms.values[fieldDue] = formatDate(t.DueDate)
		ms.values[fieldPlanned] = formatDates(t.PlannedDates)
	}
	m.meta = ms
	m.input.SetValue(ms.currentValue())
	m.input.Placeholder = ms.currentLabel()
	m.input.Focus()
	m.mode = modeMetadata
	m.status = m.metaPrompt()
	return m, nil
}

func (m Model) updateMetadataMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.meta = nil
		m.mode = modeList
		m.input.Blur()
		m.status = "Edit cancelled"
		return m, nil
	case "tab", "down":
		m.meta.setCurrentValue(m.input.Value())
		m.meta.index = wrapIndex(m.meta.index+1, fieldCount)
		m.input.SetValue(m.meta.currentValue())
		m.input.Placeholder = m.meta.currentLabel()
		m.status = m.metaPrompt()
		return m, nil
	case "shift+tab", "up":
		m.meta.setCurrentValue(m.input.Value())
		m.meta.index = wrapIndex(m.meta.index-1, fieldCount)
		m.input.SetValue(m.meta.currentValue())
		m.input.Placeholder = m.meta.currentLabel()
		m.status = m.metaPrompt()
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.meta.setCurrentValue(m.input.Value())
		if m.meta.index >= fieldCount-1 {
			return m.saveMetadata()
		}
		m.meta.index++
		m.input.SetValue(m.meta.currentValue())
		m.input.Placeholder = m.meta.currentLabel()
		m.status = m.metaPrompt()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) saveMetadata() (tea.Model, tea.Cmd) {
	due, err := parseDate(m.meta.values[fieldDue])
	if err != nil {
		m.status = fmt.Sprintf("due date invalid: %v", err)
		return m, nil
	}
	planned, err := parseDates(m.meta.values[fieldPlanned])
	if err != nil {
		m.status = fmt.Sprintf("planned date invalid: %v", err)
		return m, nil
	}
	data, err := validate.Task(validate.TaskInput{
		Title:        m.meta.values[fieldTitle],
		DueDate:      due,
		PlannedDates: planned,
		Priority:     m.meta.values[fieldPriority],
	})
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	editing := m.meta.editing
	m.meta = nil
	m.mode = modeList
	m.input.Blur()

	if editing == nil {
		m.mgr.AddTask(data)
		return m.afterChange(true)
	}
	// completion may have changed while the form was open
	current, ok := m.mgr.Task(editing.ID)
	if ok {
		current.TaskData = data
		ok = m.mgr.UpdateTask(current)
	}
	if !ok {
		m.cursor = clampCursor(m.cursor, len(m.rows()))
		m.status = taskGone
		return m, nil
	}
	return m.afterChange(true)
}

func (m Model) metaPrompt() string {
	if m.meta == nil {
		return ""
	}
	return fmt.Sprintf("Editing %s (field %d of %d). Enter to advance, Esc to cancel, tab to move.",
		m.meta.currentLabel(), m.meta.index+1, fieldCount)
}

func (m Model) renderMetaBox() string {
	if m.meta == nil {
		return ""
	}
	var b strings.Builder
	for i, name := range metaFields() {
		prefix := " "
		if i == m.meta.index {
			prefix = ">"
		}
		val := m.meta.values[i]
		if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-32s : %s\n", prefix, name, val))
	}
	return b.String()
}

func parseDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{dateTimeLayout, dateLayout} {
		if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%q is not YYYY-MM-DD or YYYY-MM-DD HH:MM", v)
}

func parseDates(v string) ([]time.Time, error) {
	var out []time.Time
	for _, part := range strings.Split(v, ",") {
		t, err := parseDate(part)
		if err != nil {
			return nil, err
		}
		if t != nil {
			out = append(out, *t)
		}
	}
	return out, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func formatTime(t time.Time) string {
	t = t.Local()
	if t.Hour() == 0 && t.Minute() == 0 {
		return t.Format(dateLayout)
	}
	return t.Format(dateTimeLayout)
}

func formatDates(ts []time.Time) string {
	parts := make([]string, 0, len(ts))
	for _, t := range ts {
		parts = append(parts, formatTime(t))
	}
	return strings.Join(parts, ", ")
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
