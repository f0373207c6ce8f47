// Package deadline collects due and planned dates that fall within the
// upcoming week and labels them by urgency.
package deadline

import (
	"fmt"
	"slices"
	"time"

	"agendu/internal/tasks"
)

// HorizonDays is how many days past today the upcoming view reaches.
const HorizonDays = 7

type Kind string

const (
	KindDue     Kind = "due"
	KindPlanned Kind = "planned"
)

type Event struct {
	// ID is the task id for due events and a synthetic per-date id for
	// planned events.
	ID     string
	TaskID string
	Title  string
	Date   time.Time
	Kind   Kind
}

// Horizon returns the inclusive window from the start of today through the
// end of the HorizonDays-th day after today, in now's location.
func Horizon(now time.Time) (start, end time.Time) {
	start = startOfDay(now)
	end = start.AddDate(0, 0, HorizonDays+1).Add(-time.Nanosecond)
	return start, end
}

// Upcoming lists due dates, and planned dates when includePlanned is set,
// of incomplete tasks that fall inside the horizon, oldest first.
func Upcoming(list []tasks.Task, includePlanned bool, now time.Time) []Event {
	start, end := Horizon(now)
	within := func(t time.Time) bool { return !t.Before(start) && !t.After(end) }

	var events []Event
	for _, t := range list {
		if t.Completed {
			continue
		}
		if t.DueDate != nil && within(*t.DueDate) {
			events = append(events, Event{
				ID:     t.ID,
				TaskID: t.ID,
				Title:  t.Title,
				Date:   *t.DueDate,
				Kind:   KindDue,
			})
		}
		if !includePlanned {
			continue
		}
		for _, pd := range t.PlannedDates {
			if !within(pd) {
				continue
			}
			events = append(events, Event{
				ID:     fmt.Sprintf("%s-planned-%s", t.ID, pd.UTC().Format(time.RFC3339Nano)),
				TaskID: t.ID,
				Title:  t.Title,
				Date:   pd,
				Kind:   KindPlanned,
			})
		}
	}
	slices.SortStableFunc(events, func(a, b Event) int { return a.Date.Compare(b.Date) })
	return events
}

// DaysUntil is the number of calendar days from today to date, negative
// for past days.
func DaysUntil(date, now time.Time) int {
	d := date.In(now.Location())
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// Urgency labels date relative to today.
func Urgency(date, now time.Time) string {
	switch n := DaysUntil(date, now); {
	case n < 0:
		return "overdue"
	case n == 0:
		return "today"
	case n == 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", n)
	}
}

// EmptyMessage is shown when Upcoming returns nothing.
func EmptyMessage(includePlanned bool) string {
	if includePlanned {
		return "No deliveries or planned sessions in the next 7 days. All in order!"
	}
	return "No deliveries in the next 7 days. Good job!"
}

// OnDay returns the tasks due or planned on the calendar day of day.
func OnDay(list []tasks.Task, day time.Time) []tasks.Task {
	var out []tasks.Task
	for _, t := range list {
		if t.DueDate != nil && sameDay(*t.DueDate, day) {
			out = append(out, t)
			continue
		}
		if slices.ContainsFunc(t.PlannedDates, func(pd time.Time) bool { return sameDay(pd, day) }) {
			out = append(out, t)
		}
	}
	return out
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
