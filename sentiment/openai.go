package sentiment

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// scorePrompt instructs the model to act as the polarity black box.
// The reply must be a bare number so parseScore can stay trivial.
const scorePrompt = "You are a sentiment rater for crypto-market text. " +
	"Rate the overall sentiment of the user message as a single number between -1.0 (extremely negative) " +
	"and 1.0 (extremely positive), where 0 is neutral. " +
	"Respond with the number only, no words."

// OpenAiClientInterface is an interface for OpenAI API client.
type OpenAiClientInterface interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIScorer scores text with an OpenAI chat model. Any API failure
// degrades to a neutral score.
type OpenAIScorer struct {
	client OpenAiClientInterface
	model  string
}

// NewOpenAIScorer creates a scorer backed by the OpenAI API.
func NewOpenAIScorer(token string) *OpenAIScorer {
	return &OpenAIScorer{
		client: openai.NewClient(token),
		model:  openai.GPT3Dot5Turbo1106,
	}
}

// Score implements Scorer.
func (s *OpenAIScorer) Score(ctx context.Context, text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: scorePrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: text,
				},
			},
			Temperature: 0,
			MaxTokens:   8,
		},
	)
	if err != nil || len(resp.Choices) == 0 {
		return 0
	}

	return parseScore(resp.Choices[0].Message.Content)
}

var scoreRe = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// parseScore extracts the first number from a model reply and clamps it to
// [-1, 1]. Models occasionally wrap the number in prose or markdown; taking
// the first numeric group fixes most of those replies.
func parseScore(reply string) float64 {
	match := scoreRe.FindString(reply)
	if match == "" {
		return 0
	}

	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}

	return math.Max(-1, math.Min(1, v))
}
