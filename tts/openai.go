package tts

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/EfeIsmail21/live-translation/model"
)

// DefaultOpenAIVoices maps language codes to OpenAI speech voices.
var DefaultOpenAIVoices = Voices{
	Table: map[string]string{
		"nl": string(openai.VoiceOnyx),
		"en": string(openai.VoiceAlloy),
		"de": string(openai.VoiceEcho),
		"pl": string(openai.VoiceNova),
		"fr": string(openai.VoiceShimmer),
		"ro": string(openai.VoiceFable),
	},
	Default: string(openai.VoiceAlloy),
}

// OpenAIClient synthesizes speech through the OpenAI audio API.
type OpenAIClient struct {
	Client *openai.Client
	Voices Voices
}

func NewOpenAIClient(client *openai.Client, voices Voices) *OpenAIClient {
	return &OpenAIClient{Client: client, Voices: voices}
}

// Synthesize renders the text as MP3 audio using the voice mapped to the
// language.
func (c *OpenAIClient) Synthesize(ctx context.Context, text, language string) (model.Clip, error) {
	resp, err := c.Client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          openai.SpeechVoice(c.Voices.For(language)),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return model.Clip{}, fmt.Errorf("speech request: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return model.Clip{}, fmt.Errorf("read speech response: %w", err)
	}

	return model.Clip{Bytes: audio, ContentType: "audio/mpeg"}, nil
}
