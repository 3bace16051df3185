package output

import (
	"log"
	"sync"

	"github.com/EfeIsmail21/live-translation/conversation"
)

// Sink is one connected transcript pane. Satisfied by *websocket.Conn.
type Sink interface {
	WriteJSON(v interface{}) error
	Close() error
}

// TurnView is the broadcast shape of a turn: the bilingual transcript entry
// without the audio payload, which panes fetch through the playback endpoint.
type TurnView struct {
	ID               string `json:"id"`
	Seq              int    `json:"seq"`
	Role             string `json:"role"`
	OriginalText     string `json:"originalText"`
	OriginalLanguage string `json:"originalLanguage"`
	TranslatedText   string `json:"translatedText"`
	TargetLanguage   string `json:"targetLanguage"`
}

// Event is one transcript update pushed to every pane.
type Event struct {
	Type string    `json:"type"` // "turn", "clear", "playback"
	Turn *TurnView `json:"turn,omitempty"`
	// TurnID is set on playback events: the turn that stopped playing.
	TurnID string `json:"turnId,omitempty"`
}

// Hub fans transcript events out to every connected pane. A sink whose write
// fails is closed and dropped; the pane reconnects and refetches the log.
type Hub struct {
	mu    sync.Mutex
	sinks map[Sink]struct{}
}

func NewHub() *Hub {
	return &Hub{sinks: make(map[Sink]struct{})}
}

// Register adds a pane to the fanout set.
func (h *Hub) Register(s Sink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sinks[s] = struct{}{}
}

// Unregister removes a pane. Safe to call for a pane already dropped.
func (h *Hub) Unregister(s Sink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sinks, s)
}

// BroadcastTurn pushes a newly appended turn to all panes.
func (h *Hub) BroadcastTurn(turn conversation.Turn) {
	h.broadcast(Event{
		Type: "turn",
		Turn: &TurnView{
			ID:               turn.ID,
			Seq:              turn.Seq,
			Role:             string(turn.Role),
			OriginalText:     turn.OriginalText,
			OriginalLanguage: turn.OriginalLanguage,
			TranslatedText:   turn.TranslatedText,
			TargetLanguage:   turn.TargetLanguage,
		},
	})
}

// BroadcastClear tells all panes the conversation was reset.
func (h *Hub) BroadcastClear() {
	h.broadcast(Event{Type: "clear"})
}

// BroadcastPlaybackDone tells all panes a turn finished playing, so play
// buttons flip back without an explicit stop call.
func (h *Hub) BroadcastPlaybackDone(turnID string) {
	h.broadcast(Event{Type: "playback", TurnID: turnID})
}

func (h *Hub) broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.sinks {
		if err := s.WriteJSON(ev); err != nil {
			log.Printf("transcript write error, dropping pane: %v", err)
			s.Close()
			delete(h.sinks, s)
		}
	}
}
