package summary

import "sync"

// State is what the summary panel shows.
type State struct {
	Pending bool
	Summary string
	// Err is the last service failure; the panel shows FailureMessage.
	Err error
}

// Tracker keeps only the newest request's outcome. Every Begin supersedes
// earlier requests: their results are dropped when they arrive. In-flight
// calls are not aborted.
type Tracker struct {
	mu     sync.Mutex
	latest uint64
	state  State
}

// Begin starts a new request and returns its token.
func (t *Tracker) Begin() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest++
	t.state.Pending = true
	t.state.Err = nil
	return t.latest
}

// Resolve records the outcome for token. It returns false and changes
// nothing if a newer request has been started since.
func (t *Tracker) Resolve(token uint64, summary string, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if token != t.latest {
		return false
	}
	t.state.Pending = false
	if err != nil {
		t.state.Err = err
		t.state.Summary = ""
		return true
	}
	t.state.Err = nil
	t.state.Summary = summary
	return true
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
