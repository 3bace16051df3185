package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/EfeIsmail21/live-translation/model"
)

// DefaultElevenLabsVoices maps language codes to ElevenLabs voice IDs. The
// default is the multilingual "George" voice, which handles every language in
// the table acceptably.
var DefaultElevenLabsVoices = Voices{
	Table:   map[string]string{},
	Default: "JBFqnCBsd6RMkjVDRZzb",
}

// ElevenLabsClient synthesizes speech through the ElevenLabs REST API.
type ElevenLabsClient struct {
	APIKey     string
	ModelID    string
	Voices     Voices
	HTTPClient *http.Client
}

func NewElevenLabsClient(apiKey string, voices Voices) (*ElevenLabsClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("elevenlabs api key is required")
	}
	return &ElevenLabsClient{
		APIKey:     apiKey,
		ModelID:    "eleven_multilingual_v2",
		Voices:     voices,
		HTTPClient: http.DefaultClient,
	}, nil
}

// Synthesize renders the text with the voice mapped to the language. The
// non-streaming endpoint returns the whole clip as raw MP3 bytes.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text, language string) (model.Clip, error) {
	base, err := url.Parse(fmt.Sprintf("https://api.elevenlabs.io/v1/text-to-speech/%s", c.Voices.For(language)))
	if err != nil {
		return model.Clip{}, fmt.Errorf("build url: %w", err)
	}
	q := base.Query()
	q.Set("output_format", "mp3_44100_128")
	base.RawQuery = q.Encode()

	payload := map[string]interface{}{
		"text":     text,
		"model_id": c.ModelID,
		"voice_settings": map[string]float64{
			"stability":        0.75,
			"similarity_boost": 0.7,
		},
	}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return model.Clip{}, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base.String(), bytes.NewReader(bodyBytes))
	if err != nil {
		return model.Clip{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("xi-api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return model.Clip{}, fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Clip{}, fmt.Errorf("speech request: bad status %s", resp.Status)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Clip{}, fmt.Errorf("read speech response: %w", err)
	}

	return model.Clip{Bytes: audio, ContentType: "audio/mpeg"}, nil
}
