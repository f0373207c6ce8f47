package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"agendu/internal/config"
	"agendu/internal/summary"
	"agendu/internal/tasks"
	"agendu/internal/validate"
	"agendu/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeMetadata
)

type pane int

const (
	paneTasks pane = iota
	paneActivities
)

type (
	mountedMsg struct{}
	// SweepMsg asks the model to run a housekeeping pass.
	SweepMsg   struct{}
	summaryMsg struct {
		token uint64
		text  string
		err   error
	}
)

// Deps are the collaborators the UI drives. Summarizer may be nil.
type Deps struct {
	Manager    *tasks.Manager
	Summarizer summary.Summarizer
	Logger     *zap.Logger
	Now        func() time.Time
}

type Model struct {
	mgr        *tasks.Manager
	summarizer summary.Summarizer
	tracker    *summary.Tracker
	notices    *noticeBoard
	logger     *zap.Logger
	now        func() time.Time
	cfg        config.Config

	mounted        bool
	pane           pane
	cursor         int
	mode           mode
	input          textinput.Model
	status         string
	statusFilter   view.StatusFilter
	priorityFilter view.PriorityFilter
	includePlanned bool
	confirmDel     bool
	pendingDel     *row
	renaming       *row
	confirmClear   bool
	meta           *metaState
}

// row is one selectable line in the active pane.
type row struct {
	id    string
	title string
}

// New builds the model and subscribes it to manager events.
func New(deps Deps, cfg config.Config) Model {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.CharLimit = 256
	ti.Width = 40

	status, err := view.ParseStatus(cfg.DefaultFilter)
	if err != nil {
		status = view.StatusPending
	}
	priority, err := view.ParsePriorityFilter(cfg.DefaultPriority)
	if err != nil {
		priority = view.PriorityAll
	}

	notices := &noticeBoard{}
	deps.Manager.Subscribe(notices)

	return Model{
		mgr:            deps.Manager,
		summarizer:     deps.Summarizer,
		tracker:        &summary.Tracker{},
		notices:        notices,
		logger:         deps.Logger,
		now:            deps.Now,
		cfg:            cfg,
		status:         "Loading...",
		input:          ti,
		mode:           modeList,
		statusFilter:   status,
		priorityFilter: priority,
		includePlanned: cfg.Summary.IncludePlanned,
	}
}

func (m Model) Init() tea.Cmd {
	mgr := m.mgr
	return func() tea.Msg {
		mgr.Mount()
		return mountedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case mountedMsg:
		m.mounted = true
		m.status = fmt.Sprintf("Press '%s' to add, space to toggle, '%s' to switch lists.", m.cfg.Keys.Add, m.cfg.Keys.SwitchPane)
		if n := m.notices.Take(); n != "" {
			m.status = n
		}
		return m, m.refreshSummary()
	case SweepMsg:
		if !m.mounted {
			return m, nil
		}
		removed, acts := m.mgr.Sweep()
		if removed+acts == 0 {
			return m, nil
		}
		return m.afterChange(removed > 0)
	case summaryMsg:
		if !m.tracker.Resolve(msg.token, msg.text, msg.err) {
			m.logger.Debug("discarding stale summary", zap.Uint64("token", msg.token))
			return m, nil
		}
		if msg.err != nil {
			m.logger.Error("summary failed", zap.Error(msg.err))
		}
		return m, nil
	case tea.KeyMsg:
		if !m.mounted {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}
		if m.meta != nil {
			return m.updateMetadataMode(msg.String(), msg)
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		if m.confirmClear {
			return m.updateClearConfirm(msg.String())
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.mode == modeAdd {
		return m.updateAddMode(key, msg)
	}
	return m.updateListMode(key)
}

// updateAddMode handles the single-line input used for activity titles.
func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.renaming = nil
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		title, err := validate.Activity(m.input.Value())
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		if m.renaming != nil {
			updated := false
			for _, a := range m.mgr.Activities() {
				if a.ID == m.renaming.id {
					a.Title = title
					updated = m.mgr.UpdateActivity(a)
				}
			}
			m.renaming = nil
			if !updated {
				m.input.SetValue("")
				m.input.Blur()
				m.mode = modeList
				m.cursor = clampCursor(m.cursor, len(m.rows()))
				m.status = "Personal activity no longer exists; rename discarded"
				return m, nil
			}
		} else {
			m.mgr.AddActivity(title)
			m.cursor = 0
		}
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		return m.afterChange(false)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	rows := m.rows()
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(rows))
	case m.cfg.Keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(rows))
	case m.cfg.Keys.SwitchPane:
		if m.pane == paneTasks {
			m.pane = paneActivities
			m.status = "Personal activities"
		} else {
			m.pane = paneTasks
			m.status = "Academic tasks"
		}
		m.cursor = 0
	case m.cfg.Keys.Add:
		if m.pane == paneTasks {
			return m.startMetadataEdit(nil)
		}
		m.mode = modeAdd
		m.input.Placeholder = "Activity title"
		m.input.SetValue("")
		m.input.Focus()
		m.status = "Add activity: type a title and press Enter"
	case m.cfg.Keys.Toggle:
		if len(rows) == 0 {
			return m, nil
		}
		id := rows[m.cursor].id
		if m.pane == paneTasks {
			m.mgr.ToggleTask(id)
			return m.afterChange(true)
		}
		m.mgr.ToggleActivity(id)
		return m.afterChange(false)
	case m.cfg.Keys.Delete:
		if len(rows) == 0 {
			return m, nil
		}
		r := rows[m.cursor]
		m.confirmDel = true
		m.pendingDel = &r
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", r.title)
	case m.cfg.Keys.Edit:
		if len(rows) == 0 {
			m.status = "Nothing to edit"
			return m, nil
		}
		r := rows[m.cursor]
		if m.pane == paneTasks {
			t, ok := m.mgr.Task(r.id)
			if !ok {
				return m, nil
			}
			return m.startMetadataEdit(&t)
		}
		m.mode = modeAdd
		m.renaming = &r
		m.input.Placeholder = "Activity title"
		m.input.SetValue(r.title)
		m.input.Focus()
		m.status = "Rename activity and press Enter"
	case m.cfg.Keys.ClearDone:
		n := m.completedCount()
		if n == 0 {
			m.status = "Nothing completed to clear"
			return m, nil
		}
		m.confirmClear = true
		m.status = fmt.Sprintf("Permanently remove %d completed item(s)? y/n", n)
	case m.cfg.Keys.StatusFilter:
		m.statusFilter = m.statusFilter.Next()
		m.cursor = 0
		m.status = "Status filter: " + string(m.statusFilter)
	case m.cfg.Keys.PriorityCycle:
		m.priorityFilter = m.priorityFilter.Next()
		m.cursor = 0
		m.status = "Priority filter: " + string(m.priorityFilter)
	case m.cfg.Keys.Planned:
		m.includePlanned = !m.includePlanned
		m.status = fmt.Sprintf("Include planned dates: %t", m.includePlanned)
		return m, m.refreshSummary()
	case m.cfg.Keys.Summary:
		return m, m.refreshSummary()
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		m.confirmDel = false
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			return m, nil
		}
		id := m.pendingDel.id
		m.pendingDel = nil
		if m.pane == paneTasks {
			m.mgr.DeleteTask(id)
			return m.afterChange(true)
		}
		m.mgr.DeleteActivity(id)
		return m.afterChange(false)
	default:
		return m, nil
	}
}

func (m Model) updateClearConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.status = "Clear cancelled"
		m.confirmClear = false
		return m, nil
	case "y", "Y":
		m.confirmClear = false
		if m.pane == paneTasks {
			m.mgr.ClearCompletedTasks()
			return m.afterChange(true)
		}
		m.mgr.ClearCompletedActivities()
		return m.afterChange(false)
	default:
		return m, nil
	}
}

// afterChange picks up the manager's acknowledgement, keeps the cursor in
// range and, when tasks changed, requests a fresh summary.
func (m Model) afterChange(tasksChanged bool) (tea.Model, tea.Cmd) {
	if n := m.notices.Take(); n != "" {
		m.status = n
	}
	m.cursor = clampCursor(m.cursor, len(m.rows()))
	if !tasksChanged {
		return m, nil
	}
	return m, m.refreshSummary()
}

// refreshSummary supersedes any in-flight summary request.
func (m Model) refreshSummary() tea.Cmd {
	if m.summarizer == nil {
		return nil
	}
	req := summary.BuildRequest(m.mgr.Tasks(), m.includePlanned)
	token := m.tracker.Begin()
	if len(req.Tasks) == 0 {
		m.tracker.Resolve(token, summary.EmptySummary, nil)
		return nil
	}
	s := m.summarizer
	timeout := m.cfg.Summary.RequestTimeout()
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		text, err := summary.Generate(ctx, s, req)
		return summaryMsg{token: token, text: text, err: err}
	}
}

func (m Model) visibleTasks() []tasks.Task {
	return view.Tasks(m.mgr.Tasks(), m.statusFilter, m.priorityFilter, m.now())
}

func (m Model) rows() []row {
	var out []row
	if m.pane == paneTasks {
		for _, t := range m.visibleTasks() {
			out = append(out, row{id: t.ID, title: t.Title})
		}
		return out
	}
	for _, a := range view.Activities(m.mgr.Activities()) {
		out = append(out, row{id: a.ID, title: a.Title})
	}
	return out
}

func (m Model) completedCount() int {
	n := 0
	if m.pane == paneTasks {
		for _, t := range m.mgr.Tasks() {
			if t.Completed {
				n++
			}
		}
		return n
	}
	for _, a := range m.mgr.Activities() {
		if a.Completed {
			n++
		}
	}
	return n
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Agendu"))
	b.WriteString("\n\n")

	if !m.mounted {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if m.pane == paneTasks {
		b.WriteString(headerStyle.Render("Academic tasks"))
		b.WriteString(fmt.Sprintf("  [status: %s • priority: %s]\n", m.statusFilter, m.priorityFilter))
		b.WriteString(m.renderTaskList())
	} else {
		b.WriteString(headerStyle.Render("Personal activities"))
		b.WriteString("\n")
		b.WriteString(m.renderActivityList())
	}

	b.WriteString("\n---\n")

	switch {
	case m.meta != nil:
		b.WriteString("Task editor (tab/shift+tab to move, enter to save/next, esc to cancel)")
		b.WriteString("\n\n")
		b.WriteString(m.renderMetaBox())
		b.WriteString("\n")
		b.WriteString("Field: " + m.meta.currentLabel())
		b.WriteString("\n")
		b.WriteString(m.input.View())
	case m.mode == modeAdd:
		b.WriteString(m.input.View())
	default:
		b.WriteString(m.renderUpcoming())
		b.WriteString("\n")
		b.WriteString(m.renderSummary())
	}

	b.WriteString("\n\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s edit • space toggle • %s delete • %s clear done • %s status • %s priority • %s switch • %s planned • %s summary • %s quit",
		k.Up, k.Down, k.Add, k.Edit, k.Delete, k.ClearDone, k.StatusFilter, k.PriorityCycle, k.SwitchPane, k.Planned, k.Summary, k.Quit)
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
