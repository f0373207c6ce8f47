package deadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agendu/internal/tasks"
)

// D is mid-morning so day offsets land well inside each calendar day.
var D = time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC)

func at(days int) *time.Time {
	t := D.AddDate(0, 0, days)
	return &t
}

func TestHorizon(t *testing.T) {
	start, end := Horizon(D)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 10, 26, 23, 59, 59, 999999999, time.UTC), end)
}

func TestUpcoming_Horizon(t *testing.T) {
	list := []tasks.Task{
		{ID: "d3", TaskData: tasks.TaskData{Title: "in three", DueDate: at(3)}},
		{ID: "d8", TaskData: tasks.TaskData{Title: "too far", DueDate: at(8)}},
		{ID: "d-1", TaskData: tasks.TaskData{Title: "overdue", DueDate: at(-1)}},
		{ID: "d7", TaskData: tasks.TaskData{Title: "last day", DueDate: at(7)}},
		{ID: "done", TaskData: tasks.TaskData{Title: "finished", DueDate: at(1)}, Completion: tasks.Completion{Completed: true, CompletionDate: &D}},
		{ID: "nodate", TaskData: tasks.TaskData{Title: "someday"}},
	}

	events := Upcoming(list, false, D)
	var got []string
	for _, e := range events {
		got = append(got, e.ID)
		assert.Equal(t, KindDue, e.Kind)
	}
	assert.Equal(t, []string{"d3", "d7"}, got)
}

func TestUpcoming_IncludePlanned(t *testing.T) {
	list := []tasks.Task{
		{ID: "exam", TaskData: tasks.TaskData{
			Title:        "History exam",
			DueDate:      at(5),
			PlannedDates: []time.Time{*at(3), *at(-2), *at(1)},
		}},
		{ID: "essay", TaskData: tasks.TaskData{Title: "Essay", DueDate: at(2)}},
	}

	without := Upcoming(list, false, D)
	require.Len(t, without, 2)

	events := Upcoming(list, true, D)
	require.Len(t, events, 4)

	var order []string
	for _, e := range events {
		order = append(order, string(e.Kind)+":"+e.TaskID)
	}
	assert.Equal(t, []string{"planned:exam", "due:essay", "planned:exam", "due:exam"}, order)
	assert.Equal(t, "exam-planned-2026-10-20T10:30:00Z", events[0].ID)
	assert.NotEqual(t, events[0].ID, events[2].ID)
}

func TestUrgency(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{D.AddDate(0, 0, -1), "overdue"},
		{time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), "today"},
		{time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC), "today"},
		{time.Date(2026, 10, 20, 0, 5, 0, 0, time.UTC), "tomorrow"},
		{D.AddDate(0, 0, 4), "in 4 days"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Urgency(tt.date, D))
		})
	}
}

func TestDaysUntil_AcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// clocks go back on 2026-10-25 in Madrid
	now := time.Date(2026, 10, 24, 9, 0, 0, 0, loc)
	assert.Equal(t, 2, DaysUntil(time.Date(2026, 10, 26, 8, 0, 0, 0, loc), now))
}

func TestOnDay(t *testing.T) {
	list := []tasks.Task{
		{ID: "due", TaskData: tasks.TaskData{DueDate: at(2)}},
		{ID: "planned", TaskData: tasks.TaskData{DueDate: at(6), PlannedDates: []time.Time{*at(2)}}},
		{ID: "other", TaskData: tasks.TaskData{DueDate: at(3)}},
	}
	got := OnDay(list, D.AddDate(0, 0, 2))
	require.Len(t, got, 2)
	assert.Equal(t, "due", got[0].ID)
	assert.Equal(t, "planned", got[1].ID)
}

func TestEmptyMessage(t *testing.T) {
	assert.NotEqual(t, EmptyMessage(true), EmptyMessage(false))
}
