// Package notify holds side-effect observers for task manager events.
package notify

import (
	"io"

	"go.uber.org/zap"

	"agendu/internal/tasks"
)

// bell is the terminal rendition of the completion sound.
const bell = "\a"

// Chime rings the terminal bell when an item is completed. The write runs
// on its own goroutine and its failure is only logged.
type Chime struct {
	w      io.Writer
	logger *zap.Logger
}

func NewChime(w io.Writer, logger *zap.Logger) *Chime {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chime{w: w, logger: logger}
}

func (c *Chime) Observe(e tasks.Event) {
	if !e.Completed() || c.w == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				c.logger.Error("chime panicked", zap.Any("panic", r))
			}
		}()
		if _, err := io.WriteString(c.w, bell); err != nil {
			c.logger.Warn("error playing completion chime", zap.Error(err))
		}
	}()
}
