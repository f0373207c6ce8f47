package tasks

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agendu/internal/storage"
)

const (
	TasksKey      = "tasks"
	ActivitiesKey = "personal-activities"

	// ActivityIDPrefix separates activity ids from task ids.
	ActivityIDPrefix = "p-"
)

// dateFields are the persisted fields revived into time values on load.
var dateFields = []string{"dueDate", "plannedDates", "completionDate"}

type Option func(*Manager)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDs overrides the id generator.
func WithIDs(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

func WithObserver(o Observer) Option {
	return func(m *Manager) { m.observers = append(m.observers, o) }
}

// Manager is the only writer of the task and activity collections. Each
// operation applies a pure transition, writes the result through to
// storage, and then notifies observers. Storage faults never abort an
// operation; they are logged and attached to the emitted Event.
type Manager struct {
	mu sync.Mutex

	tasks      *storage.Value[[]Task]
	activities *storage.Value[[]Activity]
	observers  []Observer
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
	mounted    bool
}

func NewManager(kv storage.KV, logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	reviver := storage.DateReviver(dateFields...)
	m := &Manager{
		tasks:      storage.NewValue(kv, TasksKey, []Task{}, reviver, logger),
		activities: storage.NewValue(kv, ActivitiesKey, []Activity{}, reviver, logger),
		logger:     logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe registers an observer for subsequent events.
func (m *Manager) Subscribe(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, o)
}

// Mount performs the initial storage read for both collections and runs a
// housekeeping pass. It reports whether both reads have completed.
func (m *Manager) Mount() bool {
	m.mu.Lock()
	_, tasksMounted := m.tasks.Load()
	_, activitiesMounted := m.activities.Load()
	m.mounted = tasksMounted && activitiesMounted
	mounted := m.mounted
	m.mu.Unlock()

	if mounted {
		m.Sweep()
	}
	return mounted
}

func (m *Manager) Mounted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mounted
}

// Tasks returns a copy of the task collection in stored order.
func (m *Manager) Tasks() []Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	list, _ := m.tasks.Current()
	return cloneTasks(list)
}

// Activities returns a copy of the activity collection in stored order.
func (m *Manager) Activities() []Activity {
	m.mu.Lock()
	defer m.mu.Unlock()
	list, _ := m.activities.Current()
	return cloneActivities(list)
}

// Task looks up one task by id.
func (m *Manager) Task(id string) (Task, bool) {
	for _, t := range m.Tasks() {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// AddTask stores a copy of data under a new id. The caller keeps
// ownership of data and of the returned Task.
func (m *Manager) AddTask(data TaskData) Task {
	t := Task{ID: m.newID(), TaskData: data.clone()}
	err := m.updateTasks(func(list []Task) ([]Task, bool) { return addRecord(list, t), true })
	m.emit(Event{Kind: TaskAdded, ID: t.ID, Title: t.Title, Err: err})
	return t.clone()
}

// UpdateTask replaces the task with the same id wholesale. It reports
// false and does nothing when no such task exists.
func (m *Manager) UpdateTask(t Task) bool {
	t = t.clone()
	var found bool
	err := m.updateTasks(func(list []Task) ([]Task, bool) {
		var out []Task
		out, found = replaceRecord(list, t)
		return out, found
	})
	if !found {
		return false
	}
	m.emit(Event{Kind: TaskUpdated, ID: t.ID, Title: t.Title, Err: err})
	return true
}

func (m *Manager) DeleteTask(id string) bool {
	var removed *Task
	err := m.updateTasks(func(list []Task) ([]Task, bool) {
		var out []Task
		out, removed = removeRecord(list, id)
		return out, removed != nil
	})
	if removed == nil {
		return false
	}
	m.emit(Event{Kind: TaskDeleted, ID: id, Title: removed.Title, Err: err})
	return true
}

// ToggleTask flips completion of the task with id and returns its new
// state. A false->true toggle emits TaskCompleted.
func (m *Manager) ToggleTask(id string) (Task, bool) {
	var (
		toggled          Task
		completed, found bool
	)
	now := m.now()
	err := m.updateTasks(func(list []Task) ([]Task, bool) {
		var out []Task
		out, toggled, completed, found = toggleRecord(list, id, now)
		return out, found
	})
	if !found {
		return Task{}, false
	}
	kind := TaskReopened
	if completed {
		kind = TaskCompleted
	}
	m.emit(Event{Kind: kind, ID: id, Title: toggled.Title, Err: err})
	return toggled.clone(), true
}

// ClearCompletedTasks removes every completed task and returns the count.
func (m *Manager) ClearCompletedTasks() int {
	var n int
	err := m.updateTasks(func(list []Task) ([]Task, bool) {
		var out []Task
		out, n = clearCompleted(list)
		return out, n > 0
	})
	m.emit(Event{Kind: TasksCleared, Count: n, Err: err})
	return n
}

func (m *Manager) AddActivity(title string) Activity {
	a := Activity{ID: ActivityIDPrefix + m.newID(), Title: title}
	err := m.updateActivities(func(list []Activity) ([]Activity, bool) { return addRecord(list, a), true })
	m.emit(Event{Kind: ActivityAdded, ID: a.ID, Title: a.Title, Err: err})
	return a
}

func (m *Manager) UpdateActivity(a Activity) bool {
	a = a.clone()
	var found bool
	err := m.updateActivities(func(list []Activity) ([]Activity, bool) {
		var out []Activity
		out, found = replaceRecord(list, a)
		return out, found
	})
	if !found {
		return false
	}
	m.emit(Event{Kind: ActivityUpdated, ID: a.ID, Title: a.Title, Err: err})
	return true
}

func (m *Manager) DeleteActivity(id string) bool {
	var removed *Activity
	err := m.updateActivities(func(list []Activity) ([]Activity, bool) {
		var out []Activity
		out, removed = removeRecord(list, id)
		return out, removed != nil
	})
	if removed == nil {
		return false
	}
	m.emit(Event{Kind: ActivityDeleted, ID: id, Title: removed.Title, Err: err})
	return true
}

func (m *Manager) ToggleActivity(id string) (Activity, bool) {
	var (
		toggled          Activity
		completed, found bool
	)
	now := m.now()
	err := m.updateActivities(func(list []Activity) ([]Activity, bool) {
		var out []Activity
		out, toggled, completed, found = toggleRecord(list, id, now)
		return out, found
	})
	if !found {
		return Activity{}, false
	}
	kind := ActivityReopened
	if completed {
		kind = ActivityCompleted
	}
	m.emit(Event{Kind: kind, ID: id, Title: toggled.Title, Err: err})
	return toggled.clone(), true
}

func (m *Manager) ClearCompletedActivities() int {
	var n int
	err := m.updateActivities(func(list []Activity) ([]Activity, bool) {
		var out []Activity
		out, n = clearCompleted(list)
		return out, n > 0
	})
	m.emit(Event{Kind: ActivitiesCleared, Count: n, Err: err})
	return n
}

// Sweep removes items completed more than GraceWindow ago from both
// collections. Nothing is written or emitted when nothing expired.
func (m *Manager) Sweep() (tasksRemoved, activitiesRemoved int) {
	now := m.now()

	m.mu.Lock()
	var errs []error
	list, _ := m.tasks.Load()
	if kept, n := purgeExpired(list, now); n > 0 {
		tasksRemoved = n
		errs = append(errs, m.tasks.Set(kept))
	}
	acts, _ := m.activities.Load()
	if kept, n := purgeExpired(acts, now); n > 0 {
		activitiesRemoved = n
		errs = append(errs, m.activities.Set(kept))
	}
	m.mu.Unlock()

	total := tasksRemoved + activitiesRemoved
	m.logger.Debug("housekeeping pass",
		zap.Int("tasks_removed", tasksRemoved),
		zap.Int("activities_removed", activitiesRemoved))
	if total > 0 {
		m.emit(Event{Kind: ItemsExpired, Count: total, Err: errors.Join(errs...)})
	}
	return tasksRemoved, activitiesRemoved
}

// updateTasks applies fn and writes the result through only when fn
// reports a change.
func (m *Manager) updateTasks(fn func([]Task) ([]Task, bool)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list, _ := m.tasks.Load()
	out, changed := fn(list)
	if !changed {
		return nil
	}
	return m.tasks.Set(out)
}

func (m *Manager) updateActivities(fn func([]Activity) ([]Activity, bool)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list, _ := m.activities.Load()
	out, changed := fn(list)
	if !changed {
		return nil
	}
	return m.activities.Set(out)
}

// emit delivers e to every observer. A panicking observer is logged and
// skipped so it cannot undo or block the transition.
func (m *Manager) emit(e Event) {
	e.At = m.now()
	if e.Err != nil {
		m.logger.Warn("state change not persisted", zap.Stringer("event", e.Kind), zap.Error(e.Err))
	}
	m.mu.Lock()
	observers := append([]Observer(nil), m.observers...)
	m.mu.Unlock()

	for _, o := range observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					m.logger.Error("observer panicked", zap.Stringer("event", e.Kind), zap.Any("panic", r))
				}
			}()
			o.Observe(e)
		}()
	}
}

func cloneTasks(list []Task) []Task {
	out := make([]Task, len(list))
	for i, t := range list {
		out[i] = t.clone()
	}
	return out
}

func cloneActivities(list []Activity) []Activity {
	out := make([]Activity, len(list))
	for i, a := range list {
		out[i] = a.clone()
	}
	return out
}
