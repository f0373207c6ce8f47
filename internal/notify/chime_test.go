package notify

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"agendu/internal/tasks"
)

// speaker records rings and signals each write on rang.
type speaker struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	err  error
	rang chan struct{}
}

func newSpeaker(err error) *speaker {
	return &speaker{err: err, rang: make(chan struct{}, 8)}
}

func (s *speaker) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer func() {
		s.mu.Unlock()
		s.rang <- struct{}{}
	}()
	if s.err != nil {
		return 0, s.err
	}
	return s.buf.Write(p)
}

func (s *speaker) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func waitRing(t *testing.T, s *speaker) {
	t.Helper()
	select {
	case <-s.rang:
	case <-time.After(2 * time.Second):
		t.Fatal("chime never rang")
	}
}

func TestChime_RingsOnCompletionOnly(t *testing.T) {
	s := newSpeaker(nil)
	c := NewChime(s, nil)

	c.Observe(tasks.Event{Kind: tasks.TaskAdded})
	c.Observe(tasks.Event{Kind: tasks.TaskReopened})
	c.Observe(tasks.Event{Kind: tasks.TaskCompleted})
	c.Observe(tasks.Event{Kind: tasks.ActivityCompleted})

	waitRing(t, s)
	waitRing(t, s)
	assert.Equal(t, bell+bell, s.String())
	select {
	case <-s.rang:
		t.Fatal("non-completion events must not ring")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestChime_WriteFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := newSpeaker(errors.New("no audio device"))
	c := NewChime(s, zap.New(core))

	assert.NotPanics(t, func() { c.Observe(tasks.Event{Kind: tasks.TaskCompleted}) })
	waitRing(t, s)

	require.Eventually(t, func() bool { return logs.Len() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "error playing completion chime", logs.All()[0].Message)
}

func TestChime_NilWriterIsSilent(t *testing.T) {
	c := NewChime(nil, nil)
	assert.NotPanics(t, func() { c.Observe(tasks.Event{Kind: tasks.TaskCompleted}) })
}
