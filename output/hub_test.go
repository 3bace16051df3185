package output

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/EfeIsmail21/live-translation/conversation"
	"github.com/EfeIsmail21/live-translation/model"
)

type fakeSink struct {
	events   []Event
	writeErr error
	closed   bool
}

func (s *fakeSink) WriteJSON(v interface{}) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.events = append(s.events, v.(Event))
	return nil
}

func (s *fakeSink) Close() error { s.closed = true; return nil }

func TestBroadcastTurnReachesAllPanes(t *testing.T) {
	h := NewHub()
	driver, counter := &fakeSink{}, &fakeSink{}
	h.Register(driver)
	h.Register(counter)

	h.BroadcastTurn(conversation.Turn{
		ID:               "t1",
		Seq:              1,
		Role:             model.RoleDriver,
		OriginalText:     "hallo",
		OriginalLanguage: "nl",
		TranslatedText:   "hello",
		TargetLanguage:   "en",
		Audio:            []byte{0x58},
	})

	for _, pane := range []*fakeSink{driver, counter} {
		require.Len(t, pane.events, 1)
		ev := pane.events[0]
		require.Equal(t, "turn", ev.Type)
		require.Equal(t, "t1", ev.Turn.ID)
		require.Equal(t, "hello", ev.Turn.TranslatedText)
	}
}

func TestBroadcastClearAndPlayback(t *testing.T) {
	h := NewHub()
	pane := &fakeSink{}
	h.Register(pane)

	h.BroadcastClear()
	h.BroadcastPlaybackDone("t1")

	require.Len(t, pane.events, 2)
	require.Equal(t, "clear", pane.events[0].Type)
	require.Equal(t, "playback", pane.events[1].Type)
	require.Equal(t, "t1", pane.events[1].TurnID)
}

func TestDeadPaneIsDropped(t *testing.T) {
	h := NewHub()
	dead := &fakeSink{writeErr: errors.New("broken pipe")}
	alive := &fakeSink{}
	h.Register(dead)
	h.Register(alive)

	h.BroadcastClear()
	require.True(t, dead.closed)

	h.BroadcastClear()
	require.Len(t, alive.events, 2)
	require.Empty(t, dead.events)
}

func TestUnregisterTwiceIsSafe(t *testing.T) {
	h := NewHub()
	pane := &fakeSink{}
	h.Register(pane)
	h.Unregister(pane)
	h.Unregister(pane)

	h.BroadcastClear()
	require.Empty(t, pane.events)
}
