// Package view derives the displayed ordering of tasks and activities
// from the raw collections. Everything here is a pure function of its
// inputs.
package view

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"agendu/internal/tasks"
)

type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"
)

var statusCycle = []StatusFilter{StatusPending, StatusAll, StatusCompleted}

func ParseStatus(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case StatusAll, StatusPending, StatusCompleted:
		return f, nil
	case "":
		return StatusPending, nil
	default:
		return "", fmt.Errorf("unknown status filter %q", s)
	}
}

// Next returns the following filter in the UI cycle order.
func (f StatusFilter) Next() StatusFilter {
	i := slices.Index(statusCycle, f)
	return statusCycle[(i+1)%len(statusCycle)]
}

// PriorityFilter is either PriorityAll or one of tasks.Priorities.
type PriorityFilter string

const PriorityAll PriorityFilter = "all"

func ParsePriorityFilter(s string) (PriorityFilter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(PriorityAll) {
		return PriorityAll, nil
	}
	p, err := tasks.ParsePriority(s)
	if err != nil {
		return "", err
	}
	return PriorityFilter(p), nil
}

// Next cycles all -> high -> medium -> low -> all.
func (f PriorityFilter) Next() PriorityFilter {
	switch f {
	case PriorityAll:
		return PriorityFilter(tasks.PriorityHigh)
	case PriorityFilter(tasks.PriorityHigh):
		return PriorityFilter(tasks.PriorityMedium)
	case PriorityFilter(tasks.PriorityMedium):
		return PriorityFilter(tasks.PriorityLow)
	default:
		return PriorityAll
	}
}

func (f PriorityFilter) matches(p tasks.Priority) bool {
	return f == PriorityAll || f == "" || tasks.Priority(f) == p
}

func (f StatusFilter) matches(c tasks.Completion, now time.Time) bool {
	switch f {
	case StatusCompleted:
		return c.Completed
	case StatusPending:
		// recently completed items stay listed for the grace window
		return !c.Completed || c.RecentlyCompleted(now)
	default:
		return true
	}
}

// Tasks filters list by status and priority and orders the result by due
// date ascending, undated last, then incomplete before completed. The
// second key is a stable pass, so due-date order holds within each group.
func Tasks(list []tasks.Task, status StatusFilter, priority PriorityFilter, now time.Time) []tasks.Task {
	out := make([]tasks.Task, 0, len(list))
	for _, t := range list {
		if priority.matches(t.Priority) && status.matches(t.Completion, now) {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, compareDue)
	slices.SortStableFunc(out, func(a, b tasks.Task) int {
		return compareCompleted(a.Completion, b.Completion)
	})
	return out
}

// Activities orders incomplete activities first, then completed ones with
// the most recently completed first.
func Activities(list []tasks.Activity) []tasks.Activity {
	out := slices.Clone(list)
	slices.SortStableFunc(out, func(a, b tasks.Activity) int {
		if c := compareCompleted(a.Completion, b.Completion); c != 0 {
			return c
		}
		return completionTime(b.Completion).Compare(completionTime(a.Completion))
	})
	return out
}

// Fading reports whether an item should be shown as recently completed.
func Fading(c tasks.Completion, now time.Time) bool {
	return c.RecentlyCompleted(now)
}

func compareDue(a, b tasks.Task) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	}
	return a.DueDate.Compare(*b.DueDate)
}

func compareCompleted(a, b tasks.Completion) int {
	return cmp.Compare(btoi(a.Completed), btoi(b.Completed))
}

func completionTime(c tasks.Completion) time.Time {
	if c.CompletionDate == nil {
		return time.Time{}
	}
	return *c.CompletionDate
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
