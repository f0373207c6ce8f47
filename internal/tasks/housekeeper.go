package tasks

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SweepInterval is the housekeeping cadence after the pass run on mount.
const SweepInterval = 60 * time.Minute

// Housekeeper triggers expiry passes on a fixed cadence. It does not sweep
// by itself: each tick calls dispatch, which hands the pass to whatever
// loop owns the Manager so sweeps interleave with user actions one at a
// time.
type Housekeeper struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func NewHousekeeper(interval time.Duration, dispatch func(), logger *zap.Logger) (*Housekeeper, error) {
	if interval <= 0 {
		interval = SweepInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Housekeeper{
		cron:   cron.New(),
		logger: logger,
	}

	schedule := fmt.Sprintf("@every %s", interval)
	if _, err := h.cron.AddFunc(schedule, func() {
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("housekeeping dispatch panicked", zap.Any("panic", r))
			}
		}()
		dispatch()
	}); err != nil {
		return nil, fmt.Errorf("schedule housekeeping: %w", err)
	}
	return h, nil
}

func (h *Housekeeper) Start() {
	h.cron.Start()
	h.logger.Debug("housekeeping scheduled")
}

// Stop halts the schedule and waits for a running dispatch to return.
func (h *Housekeeper) Stop() {
	<-h.cron.Stop().Done()
}
