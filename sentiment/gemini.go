package sentiment

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiScorer scores text with Google Gemini. Alternative to OpenAIScorer
// for deployments that only have a Gemini token.
type GeminiScorer struct {
	client *genai.Client
	model  string
}

// NewGeminiScorer creates a scorer backed by the Gemini API.
func NewGeminiScorer(ctx context.Context, token string) (*GeminiScorer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(token))
	if err != nil {
		return nil, err
	}

	return &GeminiScorer{
		client: client,
		model:  "gemini-pro",
	}, nil
}

// Close releases the underlying API client.
func (s *GeminiScorer) Close() error {
	return s.client.Close()
}

// Score implements Scorer.
func (s *GeminiScorer) Score(ctx context.Context, text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	model := s.client.GenerativeModel(s.model)
	model.SetTemperature(0)

	resp, err := model.GenerateContent(ctx, genai.Text(scorePrompt+"\n\nText:\n"+text))
	if err != nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return 0
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return parseScore(string(txt))
		}
	}

	return 0
}
