package conversation

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/EfeIsmail21/live-translation/model"
)

// Turn is one completed speak-translate-synthesize exchange. Immutable once
// appended; Seq is assigned by the log in creation order.
type Turn struct {
	ID               string     `json:"id"`
	Seq              int        `json:"seq"`
	Role             model.Role `json:"role"`
	OriginalText     string     `json:"originalText"`
	OriginalLanguage string     `json:"originalLanguage"`
	TranslatedText   string     `json:"translatedText"`
	TargetLanguage   string     `json:"targetLanguage"`
	Audio            []byte     `json:"audio,omitempty"`
	ContentType      string     `json:"contentType"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// Log is the ordered, append-only conversation transcript. Insertion order is
// chronological order; entries are never mutated or removed except by Clear.
type Log struct {
	mu    sync.Mutex
	turns []Turn
	seq   int
}

func NewLog() *Log {
	return &Log{}
}

// Append stores a new turn, stamping its identity, sequence number, and
// creation time. The stored turn is returned.
func (l *Log) Append(turn Turn) Turn {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	turn.ID = uuid.NewString()
	turn.Seq = l.seq
	turn.CreatedAt = time.Now().UTC()
	l.turns = append(l.turns, turn)
	return turn
}

// Get returns the turn with the given id.
func (l *Log) Get(id string) (Turn, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, t := range l.turns {
		if t.ID == id {
			return t, true
		}
	}
	return Turn{}, false
}

// Turns returns a snapshot of the log in insertion order.
func (l *Log) Turns() []Turn {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Len returns the number of turns in the log.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.turns)
}

// Clear empties the log. The sequence counter keeps counting so ids from a
// cleared conversation are never reused.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = nil
}
