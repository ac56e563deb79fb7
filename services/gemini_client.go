package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient answers fallback prompts with a Gemini model.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(client *genai.Client, model string) *GeminiClient {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiClient{client: client, model: model}
}

func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	log.Printf("SERVICE-HELPER: Sending prompt to Gemini (%s)...", g.model)

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: GetSystemPrompt(),
	})
	if err != nil {
		return "", fmt.Errorf("gemini api call failed: %w", err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}

	var responseText strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		if p.Text != "" {
			responseText.WriteString(p.Text)
		}
	}
	if responseText.Len() == 0 {
		return "", errors.New("gemini returned an empty answer")
	}
	return responseText.String(), nil
}
