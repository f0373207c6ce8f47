package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agendu/internal/config"
	"agendu/internal/storage"
	"agendu/internal/tasks"
)

// seed writes tasks through a manager whose clock reads at.
func seed(t *testing.T, at time.Time, fn func(m *tasks.Manager)) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.DefaultConfigFileName)
	cfg, err := config.LoadOrCreate(path)
	require.NoError(t, err)

	kv, err := storage.Open(cfg.Backend, cfg.DBPath)
	require.NoError(t, err)
	m := tasks.NewManager(kv, nil, tasks.WithClock(func() time.Time { return at }))
	require.True(t, m.Mount())
	fn(m)
	require.NoError(t, kv.Close())
	return path
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestListCommand(t *testing.T) {
	due := time.Now().AddDate(0, 0, 3)
	path := seed(t, time.Now(), func(m *tasks.Manager) {
		m.AddTask(tasks.TaskData{Title: "Essay", DueDate: &due, Priority: tasks.PriorityHigh})
		m.AddTask(tasks.TaskData{Title: "Reading", Priority: tasks.PriorityLow})
		m.AddActivity("Gym")
	})

	out := execute(t, "--config", path, "list")
	assert.Contains(t, out, "[ ] Essay (high)")
	assert.Contains(t, out, "[ ] Reading (low)")

	out = execute(t, "--config", path, "list", "--priority", "low")
	assert.NotContains(t, out, "Essay")
	assert.Contains(t, out, "Reading")

	out = execute(t, "--config", path, "list", "--activities")
	assert.Contains(t, out, "[ ] Gym")
}

func TestListCommand_RejectsBadFilter(t *testing.T) {
	path := seed(t, time.Now(), func(*tasks.Manager) {})
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", path, "list", "--status", "someday"})
	assert.Error(t, root.Execute())
}

func TestUpcomingCommand(t *testing.T) {
	now := time.Now()
	due := now.AddDate(0, 0, 2)
	planned := now.AddDate(0, 0, 1)
	path := seed(t, now, func(m *tasks.Manager) {
		m.AddTask(tasks.TaskData{Title: "Thesis chapter", DueDate: &due, PlannedDates: []time.Time{planned}, Priority: tasks.PriorityHigh})
	})

	out := execute(t, "--config", path, "upcoming")
	assert.Contains(t, out, "Thesis chapter  in 2 days")
	assert.NotContains(t, out, "(planned)")

	out = execute(t, "--config", path, "upcoming", "--planned")
	assert.Contains(t, out, "tomorrow (planned)")
}

func TestUpcomingCommand_Empty(t *testing.T) {
	path := seed(t, time.Now(), func(*tasks.Manager) {})
	out := execute(t, "--config", path, "upcoming")
	assert.Contains(t, out, "No deliveries in the next 7 days")
}

func TestSweepCommand(t *testing.T) {
	path := seed(t, time.Now().AddDate(0, 0, -2), func(m *tasks.Manager) {
		old := m.AddTask(tasks.TaskData{Title: "Old", Priority: tasks.PriorityLow})
		m.ToggleTask(old.ID)
		m.AddTask(tasks.TaskData{Title: "Open", Priority: tasks.PriorityLow})
	})

	out := execute(t, "--config", path, "sweep")
	assert.Contains(t, out, "removed 1 item(s)")

	out = execute(t, "--config", path, "list")
	assert.NotContains(t, out, "Old")
	assert.Contains(t, out, "Open")
}

func TestDayCommand(t *testing.T) {
	due := time.Date(2026, 4, 2, 17, 0, 0, 0, time.Local)
	planned := time.Date(2026, 3, 30, 0, 0, 0, 0, time.Local)
	path := seed(t, time.Now(), func(m *tasks.Manager) {
		m.AddTask(tasks.TaskData{Title: "Poster", DueDate: &due, PlannedDates: []time.Time{planned}, Priority: tasks.PriorityMedium})
	})

	assert.Contains(t, execute(t, "--config", path, "day", "2026-04-02"), "Poster")
	assert.Contains(t, execute(t, "--config", path, "day", "2026-03-30"), "Poster")
	assert.Contains(t, execute(t, "--config", path, "day", "2026-03-31"), "Nothing scheduled on 2026-03-31")
}
