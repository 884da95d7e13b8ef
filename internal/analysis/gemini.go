package analysis

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient calls the Gemini generative-language API
type GeminiClient struct {
	apiKey string
	model  string
}

// NewGeminiClient creates a Gemini-backed generator. The key comes from
// environment configuration; the model name from config (e.g.
// "gemini-2.5-flash").
func NewGeminiClient(apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is not set")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiClient{apiKey: apiKey, model: model}, nil
}

// Generate sends the prompt to Gemini and returns the raw response text
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}

	return text, nil
}
