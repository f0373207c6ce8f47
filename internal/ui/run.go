package ui

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"agendu/internal/config"
	"agendu/internal/notify"
	"agendu/internal/tasks"
)

// Run starts the interactive program and the hourly housekeeping schedule,
// which feeds sweeps into the program's update loop.
func Run(deps Deps, cfg config.Config) error {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	deps.Manager.Subscribe(notify.NewChime(os.Stderr, deps.Logger))

	program := tea.NewProgram(New(deps, cfg))

	hk, err := tasks.NewHousekeeper(tasks.SweepInterval, func() { program.Send(SweepMsg{}) }, deps.Logger)
	if err != nil {
		return err
	}
	hk.Start()
	defer hk.Stop()

	if _, err := program.Run(); err != nil {
		deps.Logger.Error("program exited with error", zap.Error(err))
		return err
	}
	return nil
}
