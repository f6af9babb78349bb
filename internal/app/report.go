package app

import (
	"time"

	"transparency-service/internal/domain"
)

// AssembleReport is the single producer of the report payload handed to
// storage and the renderer. It is a structural merge with no scoring logic;
// slices are never nil so downstream consumers skip null handling.
func AssembleReport(product domain.Product, answers []domain.Answer, breakdown domain.ScoreBreakdown, insights, recommendations []string, now time.Time) domain.Report {
	if insights == nil {
		insights = []string{}
	}
	if recommendations == nil {
		recommendations = []string{}
	}
	return domain.Report{
		Product:           product,
		Breakdown:         breakdown,
		TotalScore:        breakdown.Total(),
		Insights:          insights,
		Recommendations:   recommendations,
		QuestionsAnswered: len(answers),
		GeneratedAt:       now,
	}
}
