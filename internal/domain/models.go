package domain

import "time"

// QuestionType enumerates how a question is answered in the disclosure form.
type QuestionType string

const (
	QuestionTypeText     QuestionType = "text"
	QuestionTypeTextarea QuestionType = "textarea"
	QuestionTypeSelect   QuestionType = "select"
)

// ValidQuestionType reports whether t is one of the supported question types.
func ValidQuestionType(t QuestionType) bool {
	switch t {
	case QuestionTypeText, QuestionTypeTextarea, QuestionTypeSelect:
		return true
	}
	return false
}

// Priority marks how important an AI-generated or fallback question is.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Categories is the closed set of product categories the form accepts.
var Categories = []string{
	"Food & Beverages",
	"Cosmetics & Personal Care",
	"Electronics",
	"Clothing & Textiles",
	"Pharmaceuticals",
	"Home & Garden",
	"Sports & Recreation",
	"Other",
}

// ValidCategory reports whether category is in the closed category list.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Product is a submitted product awaiting or holding a transparency report.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand,omitempty"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	SubmittedBy string    `json:"submitted_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Question is a persisted disclosure question for one product.
// Options is present only for select questions and is stored as a JSON payload.
type Question struct {
	ID          string       `json:"id"`
	ProductID   string       `json:"product_id"`
	Text        string       `json:"question_text"`
	Type        QuestionType `json:"question_type"`
	Options     []string     `json:"options,omitempty"`
	AIGenerated bool         `json:"ai_generated"`
	OrderIndex  int          `json:"order_index"`
	Priority    Priority     `json:"priority,omitempty"`
}

// Answer is the respondent's value for one question. At most one answer
// exists per question for a product; resubmission replaces the value.
type Answer struct {
	QuestionID string `json:"question_id"`
	Value      string `json:"answer_value"`
}

// ScoreBreakdown holds the four transparency sub-scores, each in [0,25].
type ScoreBreakdown struct {
	Completeness      int `json:"completeness"`
	Quality           int `json:"quality"`
	TransparencyLevel int `json:"transparency_level"`
	CategorySpecific  int `json:"category_specific"`
}

// Total derives the overall score, capped at 100.
func (b ScoreBreakdown) Total() int {
	total := b.Completeness + b.Quality + b.TransparencyLevel + b.CategorySpecific
	if total > 100 {
		return 100
	}
	if total < 0 {
		return 0
	}
	return total
}

// Report is the fully derived transparency report for a product. It carries
// no state of its own; recomputing replaces the previous report wholesale.
type Report struct {
	Product           Product        `json:"product"`
	Breakdown         ScoreBreakdown `json:"score_breakdown"`
	TotalScore        int            `json:"total_score"`
	Insights          []string       `json:"insights"`
	Recommendations   []string       `json:"recommendations"`
	QuestionsAnswered int            `json:"questions_answered"`
	GeneratedAt       time.Time      `json:"generated_at"`
}
