package tts

import (
	"context"

	"github.com/EfeIsmail21/live-translation/model"
)

// Synthesizer produces speech audio for translated text in the given
// language. The voice is chosen by the implementation from its voice table.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, language string) (model.Clip, error)
}

// Voices is a static language → voice table with a default for unmapped
// languages. It is configuration, not behavior: swapping the table swaps the
// personas without touching the pipeline.
type Voices struct {
	Table   map[string]string
	Default string
}

// For returns the voice for a language code, falling back to the default.
func (v Voices) For(language string) string {
	if voice, ok := v.Table[language]; ok {
		return voice
	}
	return v.Default
}
