package tasks

import (
	"fmt"
	"time"
)

type EventKind int

const (
	TaskAdded EventKind = iota
	TaskUpdated
	TaskDeleted
	TaskCompleted
	TaskReopened
	TasksCleared
	ActivityAdded
	ActivityUpdated
	ActivityDeleted
	ActivityCompleted
	ActivityReopened
	ActivitiesCleared
	ItemsExpired
)

func (k EventKind) String() string {
	switch k {
	case TaskAdded:
		return "task_added"
	case TaskUpdated:
		return "task_updated"
	case TaskDeleted:
		return "task_deleted"
	case TaskCompleted:
		return "task_completed"
	case TaskReopened:
		return "task_reopened"
	case TasksCleared:
		return "tasks_cleared"
	case ActivityAdded:
		return "activity_added"
	case ActivityUpdated:
		return "activity_updated"
	case ActivityDeleted:
		return "activity_deleted"
	case ActivityCompleted:
		return "activity_completed"
	case ActivityReopened:
		return "activity_reopened"
	case ActivitiesCleared:
		return "activities_cleared"
	case ItemsExpired:
		return "items_expired"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is emitted after every successful transition. Err carries a
// storage fault hit while writing the new state through; the transition
// itself has already happened.
type Event struct {
	Kind  EventKind
	ID    string
	Title string
	Count int
	Err   error
	At    time.Time
}

// Completed reports whether the event is a false->true completion toggle.
func (e Event) Completed() bool {
	return e.Kind == TaskCompleted || e.Kind == ActivityCompleted
}

// Destructive reports whether the event removed items.
func (e Event) Destructive() bool {
	switch e.Kind {
	case TaskDeleted, ActivityDeleted, TasksCleared, ActivitiesCleared, ItemsExpired:
		return true
	}
	return false
}

// Message is the user-facing acknowledgement for the event.
func (e Event) Message() string {
	var msg string
	switch e.Kind {
	case TaskAdded:
		msg = "Task added."
	case TaskUpdated:
		msg = "Task updated."
	case TaskDeleted:
		msg = "Task deleted."
	case TaskCompleted:
		msg = fmt.Sprintf("Completed %q.", e.Title)
	case TaskReopened:
		msg = fmt.Sprintf("Reopened %q.", e.Title)
	case TasksCleared:
		msg = fmt.Sprintf("Cleared %d completed task(s).", e.Count)
	case ActivityAdded:
		msg = "Personal activity added."
	case ActivityUpdated:
		msg = "Personal activity updated."
	case ActivityDeleted:
		msg = "Personal activity deleted."
	case ActivityCompleted:
		msg = fmt.Sprintf("Completed %q.", e.Title)
	case ActivityReopened:
		msg = fmt.Sprintf("Reopened %q.", e.Title)
	case ActivitiesCleared:
		msg = fmt.Sprintf("Cleared %d completed personal activit(ies).", e.Count)
	case ItemsExpired:
		msg = fmt.Sprintf("Removed %d item(s) completed over a day ago.", e.Count)
	default:
		msg = e.Kind.String()
	}
	if e.Err != nil {
		msg += " (not saved: " + e.Err.Error() + ")"
	}
	return msg
}

// Observer receives events after the transition has been applied.
// Implementations must return promptly.
type Observer interface {
	Observe(Event)
}

type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }
