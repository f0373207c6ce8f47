// Package tasks owns the academic task and personal activity collections:
// the data model, the pure state transitions, and the Manager that writes
// every transition through to storage.
package tasks

import (
	"fmt"
	"strings"
	"time"
)

// GraceWindow is how long a completed item stays visible as pending and
// survives housekeeping after its completion.
const GraceWindow = 24 * time.Hour

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the valid priorities from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	case "":
		return PriorityMedium, nil
	default:
		return "", fmt.Errorf("unknown priority %q", s)
	}
}

// Completion carries the completion flag and the instant of the most
// recent false->true toggle. CompletionDate is nil whenever Completed is
// false.
type Completion struct {
	Completed      bool       `json:"completed"`
	CompletionDate *time.Time `json:"completionDate"`
}

func (c *Completion) toggle(now time.Time) (completed bool) {
	if c.Completed {
		c.Completed = false
		c.CompletionDate = nil
		return false
	}
	at := now
	c.Completed = true
	c.CompletionDate = &at
	return true
}

// expired reports whether the item was completed GraceWindow or more
// before now. It is the exact complement of RecentlyCompleted for
// completed items.
func (c Completion) expired(now time.Time) bool {
	if !c.Completed {
		return false
	}
	if c.CompletionDate == nil {
		return true
	}
	return !c.CompletionDate.After(now.Add(-GraceWindow))
}

// RecentlyCompleted reports whether the item was completed within the
// grace window ending at now.
func (c Completion) RecentlyCompleted(now time.Time) bool {
	return c.Completed && c.CompletionDate != nil && c.CompletionDate.After(now.Add(-GraceWindow))
}

// TaskData is the caller-supplied part of a task.
type TaskData struct {
	Title        string      `json:"title"`
	DueDate      *time.Time  `json:"dueDate"`
	PlannedDates []time.Time `json:"plannedDates"`
	Priority     Priority    `json:"priority"`
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func (c Completion) clone() Completion {
	c.CompletionDate = cloneTime(c.CompletionDate)
	return c
}

func (d TaskData) clone() TaskData {
	d.DueDate = cloneTime(d.DueDate)
	if d.PlannedDates == nil {
		d.PlannedDates = []time.Time{}
	} else {
		d.PlannedDates = append([]time.Time{}, d.PlannedDates...)
	}
	return d
}

type Task struct {
	ID string `json:"id"`
	TaskData
	Completion
}

type Activity struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Completion
}

// clone returns a copy that shares no pointers or slices with t.
func (t Task) clone() Task {
	t.TaskData = t.TaskData.clone()
	t.Completion = t.Completion.clone()
	return t
}

func (a Activity) clone() Activity {
	a.Completion = a.Completion.clone()
	return a
}

func (t *Task) key() string            { return t.ID }
func (t *Task) state() *Completion     { return &t.Completion }
func (t *Task) label() string          { return t.Title }
func (a *Activity) key() string        { return a.ID }
func (a *Activity) state() *Completion { return &a.Completion }
func (a *Activity) label() string      { return a.Title }
