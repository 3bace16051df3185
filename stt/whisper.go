package stt

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/EfeIsmail21/live-translation/model"
)

// Transcript is the recognizer output for one clip.
type Transcript struct {
	Text     string
	Language string // ISO-639-1 code, auto-detected
}

// Recognizer transcribes one finalized audio clip.
type Recognizer interface {
	Recognize(ctx context.Context, clip model.Clip) (Transcript, error)
}

// WhisperClient recognizes speech through the OpenAI transcription API.
type WhisperClient struct {
	client *openai.Client
	model  string
}

// NewWhisperClient wraps an existing OpenAI client handle.
func NewWhisperClient(client *openai.Client) *WhisperClient {
	return &WhisperClient{
		client: client,
		model:  openai.Whisper1,
	}
}

// Recognize submits the clip and returns the transcript plus the detected
// source language. An empty transcript is reported as an error: the pipeline
// has nothing to translate and must surface the failure to the caller.
func (w *WhisperClient) Recognize(ctx context.Context, clip model.Clip) (Transcript, error) {
	req := openai.AudioRequest{
		Model:    w.model,
		FilePath: fileNameFor(clip.ContentType),
		Reader:   bytes.NewReader(clip.Bytes),
		Format:   openai.AudioResponseFormatVerboseJSON,
	}

	resp, err := w.client.CreateTranscription(ctx, req)
	if err != nil {
		return Transcript{}, fmt.Errorf("transcription request: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return Transcript{}, fmt.Errorf("transcription returned no text")
	}

	return Transcript{
		Text:     text,
		Language: isoCode(resp.Language),
	}, nil
}

// fileNameFor gives the API a filename whose extension matches the clip
// encoding; the upload itself comes from the in-memory reader.
func fileNameFor(contentType string) string {
	switch {
	case strings.Contains(contentType, "ogg"):
		return "clip.ogg"
	case strings.Contains(contentType, "wav"):
		return "clip.wav"
	case strings.Contains(contentType, "mpeg"), strings.Contains(contentType, "mp3"):
		return "clip.mp3"
	default:
		return "clip.webm"
	}
}

// languageCodes maps the spelled-out language names the verbose transcription
// response uses back to ISO-639-1 codes.
var languageCodes = map[string]string{
	"english":    "en",
	"dutch":      "nl",
	"german":     "de",
	"french":     "fr",
	"spanish":    "es",
	"italian":    "it",
	"portuguese": "pt",
	"polish":     "pl",
	"romanian":   "ro",
	"bulgarian":  "bg",
	"czech":      "cs",
	"slovak":     "sk",
	"hungarian":  "hu",
	"lithuanian": "lt",
	"latvian":    "lv",
	"ukrainian":  "uk",
	"russian":    "ru",
	"turkish":    "tr",
	"arabic":     "ar",
}

func isoCode(language string) string {
	lang := strings.ToLower(strings.TrimSpace(language))
	if code, ok := languageCodes[lang]; ok {
		return code
	}
	// Already a code, or a language outside the table; pass through.
	return lang
}
