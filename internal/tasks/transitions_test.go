package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func completedAt(at time.Time) Completion {
	return Completion{Completed: true, CompletionDate: &at}
}

func TestAddRecord_Prepends(t *testing.T) {
	list := []Task{{ID: "a"}, {ID: "b"}}
	out := addRecord(list, Task{ID: "c"})

	require.Len(t, out, 3)
	assert.Equal(t, "c", out[0].ID)
	assert.Equal(t, "a", list[0].ID, "input must not be modified")
}

func TestReplaceRecord(t *testing.T) {
	list := []Task{{ID: "a", TaskData: TaskData{Title: "old"}}, {ID: "b"}}

	out, ok := replaceRecord(list, Task{ID: "a", TaskData: TaskData{Title: "new"}})
	require.True(t, ok)
	assert.Equal(t, "new", out[0].Title)
	assert.Equal(t, "old", list[0].Title)

	same, ok := replaceRecord(list, Task{ID: "zz"})
	assert.False(t, ok)
	assert.Equal(t, list, same)
}

func TestRemoveRecord(t *testing.T) {
	list := []Activity{{ID: "p-1", Title: "gym"}, {ID: "p-2"}}

	out, removed := removeRecord(list, "p-1")
	require.NotNil(t, removed)
	assert.Equal(t, "gym", removed.Title)
	assert.Equal(t, []Activity{{ID: "p-2"}}, out)

	_, removed = removeRecord(list, "missing")
	assert.Nil(t, removed)
}

func TestToggleRecord_MaintainsCompletionInvariant(t *testing.T) {
	list := []Task{{ID: "a"}}

	out, toggled, completed, found := toggleRecord(list, "a", t0)
	require.True(t, found)
	assert.True(t, completed)
	assert.True(t, toggled.Completed)
	require.NotNil(t, toggled.CompletionDate)
	assert.Equal(t, t0, *toggled.CompletionDate)
	assert.False(t, list[0].Completed, "input must not be modified")

	out, toggled, completed, found = toggleRecord(out, "a", t0.Add(time.Minute))
	require.True(t, found)
	assert.False(t, completed)
	assert.False(t, toggled.Completed)
	assert.Nil(t, toggled.CompletionDate)
	assert.Equal(t, list, out, "toggling twice restores the original state")

	_, _, _, found = toggleRecord(out, "missing", t0)
	assert.False(t, found)
}

func TestClearCompleted(t *testing.T) {
	list := []Task{
		{ID: "a"},
		{ID: "b", Completion: completedAt(t0)},
		{ID: "c", Completion: completedAt(t0.Add(-48 * time.Hour))},
	}
	out, n := clearCompleted(list)
	assert.Equal(t, 2, n)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].ID)
}

func TestPurgeExpired(t *testing.T) {
	list := []Task{
		{ID: "pending"},
		{ID: "23h", Completion: completedAt(t0.Add(-23 * time.Hour))},
		{ID: "25h", Completion: completedAt(t0.Add(-25 * time.Hour))},
		{ID: "no-date", Completion: Completion{Completed: true}},
	}
	out, n := purgeExpired(list, t0)
	assert.Equal(t, 2, n)

	var ids []string
	for _, task := range out {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{"pending", "23h"}, ids)
}

func TestRecentlyCompleted(t *testing.T) {
	assert.True(t, completedAt(t0.Add(-time.Hour)).RecentlyCompleted(t0))
	assert.False(t, completedAt(t0.Add(-30*time.Hour)).RecentlyCompleted(t0))
	assert.False(t, Completion{}.RecentlyCompleted(t0))
}

func TestGraceWindowBoundary(t *testing.T) {
	for _, tc := range []struct {
		name    string
		age     time.Duration
		expired bool
	}{
		{"just inside", GraceWindow - time.Nanosecond, false},
		{"exactly at the window", GraceWindow, true},
		{"past the window", GraceWindow + time.Nanosecond, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := completedAt(t0.Add(-tc.age))
			assert.Equal(t, tc.expired, c.expired(t0))
			assert.Equal(t, !tc.expired, c.RecentlyCompleted(t0), "expiry and the pending filter split the boundary")
		})
	}
}

func TestParsePriority(t *testing.T) {
	for in, want := range map[string]Priority{"low": PriorityLow, " HIGH ": PriorityHigh, "": PriorityMedium} {
		got, err := ParsePriority(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParsePriority("urgent")
	assert.Error(t, err)
}
