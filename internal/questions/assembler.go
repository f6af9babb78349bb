package questions

import (
	"context"
	"errors"
	"log"
	"strings"

	"transparency-service/internal/domain"
)

// ErrUnavailable signals that no AI question source is configured or reachable.
// Sources return it (or any other error) to make the assembler fall back.
var ErrUnavailable = errors.New("question source unavailable")

// SourceTag records which of the three question pools a draft came from.
type SourceTag string

const (
	SourceBase             SourceTag = "base"
	SourceAIGenerated      SourceTag = "ai"
	SourceCategoryFallback SourceTag = "fallback"
)

// Draft is an unsaved question produced by the assembler. OrderIndex is the
// draft's position in the final concatenation and is the sole ordering key
// once the draft is persisted.
type Draft struct {
	Text        string
	Type        domain.QuestionType
	Options     []string
	AIGenerated bool
	Priority    domain.Priority
	Source      SourceTag
	OrderIndex  int
}

// Source produces product-specific questions from an external generator.
// Implementations must treat their own misconfiguration as an error, not a panic.
type Source interface {
	TryGenerate(ctx context.Context, product domain.Product) ([]Draft, error)
}

// Assembler builds the ordered question list for a product: the fixed base
// questions first, then either the AI-generated set or the category fallback.
type Assembler struct {
	source Source
}

// NewAssembler wires an assembler to an optional AI source; source may be nil.
func NewAssembler(source Source) *Assembler {
	return &Assembler{source: source}
}

// Assemble returns the full ordered draft list for the product. A failing,
// absent, or malformed AI source never surfaces as an error; the category
// fallback set is used instead.
func (a *Assembler) Assemble(ctx context.Context, product domain.Product) []Draft {
	drafts := baseQuestions()

	tail := a.generated(ctx, product)
	if len(tail) == 0 {
		tail = fallbackQuestions(product.Category)
	}
	drafts = append(drafts, tail...)

	for i := range drafts {
		drafts[i].OrderIndex = i
	}
	return drafts
}

func (a *Assembler) generated(ctx context.Context, product domain.Product) []Draft {
	if a.source == nil {
		return nil
	}
	drafts, err := a.source.TryGenerate(ctx, product)
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			log.Printf("question source failed for product %s, using fallback: %v", product.ID, err)
		}
		return nil
	}
	if !Usable(drafts) {
		return nil
	}
	for i := range drafts {
		drafts[i].AIGenerated = true
		drafts[i].Source = SourceAIGenerated
	}
	return drafts
}

// Usable reports whether an AI-generated set can replace the fallback:
// it must be non-empty and every entry needs text and a valid type.
func Usable(drafts []Draft) bool {
	if len(drafts) == 0 {
		return false
	}
	for _, d := range drafts {
		if strings.TrimSpace(d.Text) == "" || !domain.ValidQuestionType(d.Type) {
			return false
		}
	}
	return true
}

// baseQuestions are asked for every product regardless of category.
func baseQuestions() []Draft {
	return []Draft{
		{
			Text:   "What are the main ingredients or materials used in this product?",
			Type:   domain.QuestionTypeTextarea,
			Source: SourceBase,
		},
		{
			Text:   "Where is this product manufactured?",
			Type:   domain.QuestionTypeText,
			Source: SourceBase,
		},
		{
			Text:   "What certifications does this product have?",
			Type:   domain.QuestionTypeTextarea,
			Source: SourceBase,
		},
	}
}
