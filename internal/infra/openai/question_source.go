package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"transparency-service/internal/domain"
	"transparency-service/internal/questions"
)

const systemPrompt = "You are an expert in product transparency and supply chain analysis. " +
	"Generate specific, actionable questions that would help assess product transparency. " +
	"Always respond with valid JSON."

// QuestionSource generates product-specific transparency questions through
// the OpenAI chat completion API. It implements questions.Source.
type QuestionSource struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewQuestionSource builds a source from the configured credentials. A missing
// API key returns questions.ErrUnavailable so callers wire the assembler
// without a source instead of failing startup.
func NewQuestionSource(apiKey, model string, timeout time.Duration) (*QuestionSource, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, questions.ErrUnavailable
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &QuestionSource{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
	}, nil
}

// TryGenerate asks the model for 5-8 category-specific questions. Any API
// failure or malformed payload is returned as an error; the assembler treats
// every error as "unavailable" and falls back.
func (s *QuestionSource) TryGenerate(ctx context.Context, product domain.Product) ([]questions.Draft, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(product)},
		},
		Temperature: 0.7,
		MaxTokens:   1500,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}
	return ParseQuestions(resp.Choices[0].Message.Content)
}

func buildPrompt(product domain.Product) string {
	brand := product.Brand
	if brand == "" {
		brand = "Unknown"
	}
	description := product.Description
	if description == "" {
		description = "No description provided"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "As a product transparency expert, generate 5-8 specific, actionable questions for analyzing the transparency of this product:\n\n")
	fmt.Fprintf(&b, "Product: %s\nBrand: %s\nCategory: %s\nDescription: %s\n\n", product.Name, brand, product.Category, description)
	b.WriteString(`Generate questions that would help assess:
1. Supply chain transparency
2. Environmental impact
3. Safety and quality standards
4. Ethical manufacturing practices
5. Ingredient/material disclosure

For each question, provide:
- The question text
- Question type (text, textarea, or select)
- If select type, provide 3-4 realistic options
- Priority level (high, medium, low)

Format as JSON array with this structure:
{
  "questions": [
    {
      "question_text": "Question here?",
      "question_type": "select",
      "options": ["Option 1", "Option 2", "Option 3"],
      "priority": "high"
    }
  ]
}

`)
	fmt.Fprintf(&b, "Focus on questions specific to the %s category and avoid generic questions.", product.Category)
	return b.String()
}

type generatedQuestion struct {
	Text     string   `json:"question_text"`
	Type     string   `json:"question_type"`
	Options  []string `json:"options"`
	Priority string   `json:"priority"`
}

type generatedPayload struct {
	Questions []generatedQuestion `json:"questions"`
}

// ParseQuestions decodes the model's JSON reply into drafts. Models sometimes
// wrap the payload in a markdown code fence, so that is stripped first.
func ParseQuestions(raw string) ([]questions.Draft, error) {
	raw = stripFence(raw)

	var payload generatedPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("parse generated questions: %w", err)
	}
	if len(payload.Questions) == 0 {
		return nil, fmt.Errorf("generated payload contained no questions")
	}

	drafts := make([]questions.Draft, len(payload.Questions))
	for i, q := range payload.Questions {
		drafts[i] = questions.Draft{
			Text:        q.Text,
			Type:        domain.QuestionType(q.Type),
			Options:     q.Options,
			AIGenerated: true,
			Priority:    domain.Priority(q.Priority),
			Source:      questions.SourceAIGenerated,
		}
	}
	return drafts, nil
}

func stripFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}
