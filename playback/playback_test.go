package playback

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/EfeIsmail21/live-translation/model"
)

// fakePlayer blocks every Play until the test finishes it or the controller
// cancels it.
type fakePlayer struct {
	mu      sync.Mutex
	started chan struct{}
	finish  chan struct{}
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{
		started: make(chan struct{}, 8),
		finish:  make(chan struct{}),
	}
}

func (p *fakePlayer) Play(ctx context.Context, clip model.Clip) error {
	p.mu.Lock()
	finish := p.finish
	p.mu.Unlock()
	p.started <- struct{}{}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-finish:
		return nil
	}
}

// finishPlayback completes the active playback. It waits for Play to have
// captured the live finish channel before closing it, so a Play that enters
// late can never grab the replacement channel and block forever.
func (p *fakePlayer) finishPlayback() {
	<-p.started
	p.mu.Lock()
	close(p.finish)
	p.finish = make(chan struct{})
	p.mu.Unlock()
}

func clip() model.Clip { return model.Clip{Bytes: []byte{1}, ContentType: "audio/mpeg"} }

func TestToggleStartsPlayback(t *testing.T) {
	c := NewController(newFakePlayer())

	require.True(t, c.Toggle("turn-1", clip()))
	require.Equal(t, "turn-1", c.Current())
}

func TestToggleTwiceIsIdle(t *testing.T) {
	c := NewController(newFakePlayer())

	require.True(t, c.Toggle("turn-1", clip()))
	require.False(t, c.Toggle("turn-1", clip()))
	require.Empty(t, c.Current())
}

func TestToggleOtherTurnReplacesCurrent(t *testing.T) {
	p := newFakePlayer()
	c := NewController(p)

	require.True(t, c.Toggle("turn-1", clip()))
	require.True(t, c.Toggle("turn-2", clip()))
	require.Equal(t, "turn-2", c.Current(), "at most one playing id at any time")
}

func TestNaturalCompletionClearsCurrent(t *testing.T) {
	p := newFakePlayer()
	c := NewController(p)

	var completed []string
	var mu sync.Mutex
	c.OnComplete = func(turnID string) {
		mu.Lock()
		completed = append(completed, turnID)
		mu.Unlock()
	}

	c.Toggle("turn-1", clip())
	p.finishPlayback()

	require.Eventually(t, func() bool {
		return c.Current() == ""
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(completed) == 1 && completed[0] == "turn-1"
	}, time.Second, 5*time.Millisecond)
}

func TestExplicitStopDoesNotFireCompletion(t *testing.T) {
	p := newFakePlayer()
	c := NewController(p)

	fired := make(chan string, 1)
	c.OnComplete = func(turnID string) { fired <- turnID }

	c.Toggle("turn-1", clip())
	c.Toggle("turn-1", clip()) // stop

	select {
	case id := <-fired:
		t.Fatalf("unexpected completion for %s after explicit stop", id)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStopAllIsAlwaysSafe(t *testing.T) {
	c := NewController(newFakePlayer())

	c.StopAll() // idle
	c.Toggle("turn-1", clip())
	c.StopAll()
	c.StopAll() // stopping an already stopped controller is not an error
	require.Empty(t, c.Current())
}

func TestStaleCompletionDoesNotClearNewPlayback(t *testing.T) {
	p := newFakePlayer()
	c := NewController(p)

	c.Toggle("turn-1", clip())
	c.Toggle("turn-2", clip())

	// Give the cancelled turn-1 goroutine time to observe the takeover.
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, "turn-2", c.Current())
}
