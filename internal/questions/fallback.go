package questions

import "transparency-service/internal/domain"

// fallbackQuestions returns the deterministic category-specific set used when
// the AI source is unavailable. Unknown categories get an empty list, so
// such products end up with the base questions only.
func fallbackQuestions(category string) []Draft {
	drafts, ok := categoryFallbacks[category]
	if !ok {
		return nil
	}
	out := make([]Draft, len(drafts))
	copy(out, drafts)
	return out
}

var categoryFallbacks = map[string][]Draft{
	"Food & Beverages": {
		{
			Text:        "List all allergens present in this product",
			Type:        domain.QuestionTypeTextarea,
			AIGenerated: true,
			Priority:    domain.PriorityHigh,
			Source:      SourceCategoryFallback,
		},
		{
			Text:        "What is the shelf life of this product?",
			Type:        domain.QuestionTypeText,
			AIGenerated: true,
			Priority:    domain.PriorityMedium,
			Source:      SourceCategoryFallback,
		},
		{
			Text:        "Are there any artificial preservatives, colors, or flavors?",
			Type:        domain.QuestionTypeSelect,
			Options:     []string{"Yes", "No", "Some artificial ingredients"},
			AIGenerated: true,
			Priority:    domain.PriorityMedium,
			Source:      SourceCategoryFallback,
		},
	},
	"Cosmetics & Personal Care": {
		{
			Text:        "Is this product tested on animals?",
			Type:        domain.QuestionTypeSelect,
			Options:     []string{"Yes", "No", "Unknown"},
			AIGenerated: true,
			Priority:    domain.PriorityHigh,
			Source:      SourceCategoryFallback,
		},
		{
			Text:        "What is the product's sustainability packaging approach?",
			Type:        domain.QuestionTypeTextarea,
			AIGenerated: true,
			Priority:    domain.PriorityMedium,
			Source:      SourceCategoryFallback,
		},
	},
	"Electronics": {
		{
			Text:        "What is the expected lifespan of this product?",
			Type:        domain.QuestionTypeText,
			AIGenerated: true,
			Priority:    domain.PriorityMedium,
			Source:      SourceCategoryFallback,
		},
		{
			Text:        "Are replacement parts available?",
			Type:        domain.QuestionTypeSelect,
			Options:     []string{"Yes", "No", "Limited availability"},
			AIGenerated: true,
			Priority:    domain.PriorityMedium,
			Source:      SourceCategoryFallback,
		},
	},
}
