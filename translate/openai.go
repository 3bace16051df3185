package translate

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Translator converts recognized text into the target language.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

const systemInstructions = `You are a translator at a logistics facility front desk. ` +
	`Translate the user's message from the source language to the target language. ` +
	`Be brief and literal. Prefer logistics terminology (gate, dock, reference number, ` +
	`CMR, pallet, seal) where it applies. Return only the translated sentence, ` +
	`no commentary, no quotes.`

// OpenAIClient translates via a chat completion with fixed system instructions.
type OpenAIClient struct {
	Client             *openai.Client
	SystemInstructions string
	Model              string
}

func NewOpenAIClient(client *openai.Client, model string) *OpenAIClient {
	return &OpenAIClient{
		Client:             client,
		SystemInstructions: systemInstructions,
		Model:              model,
	}
}

// Translate sends one completion request. The returned string may be empty
// when the model produced no content; the caller decides what that means.
func (c *OpenAIClient) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: "system", Content: c.SystemInstructions},
			{Role: "user", Content: fmt.Sprintf("Source language: %s\nTarget language: %s\n\n%s", sourceLang, targetLang, text)},
		},
	}

	resp, err := c.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("translation request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
