package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/EfeIsmail21/live-translation/model"
	"github.com/EfeIsmail21/live-translation/stt"
	"github.com/EfeIsmail21/live-translation/translate"
	"github.com/EfeIsmail21/live-translation/tts"
)

// Stage names the pipeline step that produced a failure.
type Stage string

const (
	StageRecognize  Stage = "recognize"
	StageTranslate  Stage = "translate"
	StageSynthesize Stage = "synthesize"
)

// ErrEmptyClip is returned before any stage runs when the clip carries no
// audio. It maps to a client error at the API boundary.
var ErrEmptyClip = errors.New("empty audio clip")

// PipelineError is a stage-aware error for a failed run. Collaborator detail
// stays in the wrapped error; Message is safe to show to the caller.
type PipelineError struct {
	Stage   Stage
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *PipelineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Result is the output of one successful run.
type Result struct {
	OriginalText     string
	OriginalLanguage string
	TranslatedText   string
	TargetLanguage   string
	Audio            model.Clip
}

// Pipeline runs recognize → translate → synthesize for one clip. It holds no
// mutable state and is safe for concurrent runs; each invocation is
// independent and there is no retry.
type Pipeline struct {
	recognizer  stt.Recognizer
	translator  translate.Translator
	synthesizer tts.Synthesizer
}

func New(recognizer stt.Recognizer, translator translate.Translator, synthesizer tts.Synthesizer) *Pipeline {
	return &Pipeline{
		recognizer:  recognizer,
		translator:  translator,
		synthesizer: synthesizer,
	}
}

// Translate runs the three stages strictly in order. A recognize or
// synthesize failure aborts the run. The translate stage never aborts: when
// the translator errors or produces no content, the original text is echoed
// untranslated and the run continues.
func (p *Pipeline) Translate(ctx context.Context, clip model.Clip, targetLanguage string) (Result, error) {
	if clip.Empty() {
		return Result{}, ErrEmptyClip
	}

	transcript, err := p.recognizer.Recognize(ctx, clip)
	if err != nil {
		return Result{}, &PipelineError{
			Stage:   StageRecognize,
			Message: "speech recognition failed",
			Err:     err,
		}
	}
	// Enforced here, not just in the recognizer: an empty transcript is
	// unusable output whatever the implementation behind the interface.
	if strings.TrimSpace(transcript.Text) == "" {
		return Result{}, &PipelineError{
			Stage:   StageRecognize,
			Message: "speech recognition returned no text",
		}
	}

	translated, err := p.translator.Translate(ctx, transcript.Text, transcript.Language, targetLanguage)
	if err != nil || translated == "" {
		// Degrade, don't fail: an untranslated transcript is still useful
		// at the counter, a dead turn is not.
		translated = transcript.Text
	}

	audio, err := p.synthesizer.Synthesize(ctx, translated, targetLanguage)
	if err != nil {
		return Result{}, &PipelineError{
			Stage:   StageSynthesize,
			Message: "speech synthesis failed",
			Err:     err,
		}
	}

	return Result{
		OriginalText:     transcript.Text,
		OriginalLanguage: transcript.Language,
		TranslatedText:   translated,
		TargetLanguage:   targetLanguage,
		Audio:            audio,
	}, nil
}
