package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const summaryPrompt = "Please provide a concise summary of the following article: "

const quizPromptTemplate = `Generate exactly 5 multiple-choice questions that test comprehension of the article below. Respond with a JSON array only, no surrounding prose. Each element must have the shape {"question": string, "options": [four strings], "answer": string} where "answer" is one of the options verbatim.

Title: %s

Article: %s`

// Question is one generated quiz item before it is persisted.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

type Generator interface {
	Summarize(ctx context.Context, content string) (string, error)
	GenerateQuiz(ctx context.Context, title, content string) ([]Question, error)
}

// GeminiGenerator talks to the Gemini API through its OpenAI-compatible
// endpoint using the openai-go SDK.
type GeminiGenerator struct {
	client openai.Client
	model  string
}

func NewGeminiGenerator(apiKey, baseURL, model string) *GeminiGenerator {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &GeminiGenerator{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Summarize returns a condensed version of content. A response with no
// candidates yields an empty summary, not an error.
func (g *GeminiGenerator) Summarize(ctx context.Context, content string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(summaryPrompt + content),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (g *GeminiGenerator) GenerateQuiz(ctx context.Context, title, content string) ([]Question, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(fmt.Sprintf(quizPromptTemplate, title, content)),
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("quiz generation returned no candidates")
	}
	return parseQuizResponse(resp.Choices[0].Message.Content)
}

// parseQuizResponse tolerates the model wrapping its JSON in a markdown
// fence, which Gemini does even when told not to.
func parseQuizResponse(raw string) ([]Question, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var questions []Question
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		return nil, fmt.Errorf("failed to parse quiz response: %w", err)
	}
	if len(questions) == 0 {
		return nil, errors.New("quiz response contained no questions")
	}

	return questions, nil
}
