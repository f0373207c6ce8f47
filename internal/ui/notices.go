package ui

import (
	"sync"

	"agendu/internal/tasks"
)

// noticeBoard keeps the latest acknowledgement from the task manager so the
// status line can show it after the action returns.
type noticeBoard struct {
	mu     sync.Mutex
	latest string
}

func (n *noticeBoard) Observe(e tasks.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.latest = e.Message()
}

// Take returns and clears the latest notice.
func (n *noticeBoard) Take() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	msg := n.latest
	n.latest = ""
	return msg
}
