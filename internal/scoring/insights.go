package scoring

import (
	"strings"

	"transparency-service/internal/domain"
)

// insightRules fire independently; their order here fixes the output order.
var insightRules = []struct {
	when    func(answers []domain.Answer, total int) bool
	message string
}{
	{
		when: anyAnswer(func(v string) bool {
			return strings.Contains(strings.ToLower(v), "ingredient") && len(v) > 30
		}),
		message: "Comprehensive ingredient disclosure provided",
	},
	{
		when:    anyAnswerContains("certified", "certification"),
		message: "Product includes third-party certifications",
	},
	{
		when:    anyAnswerContains("origin", "source", "manufactured"),
		message: "Supply chain origin information provided",
	},
	{
		when:    func(_ []domain.Answer, total int) bool { return total > 75 },
		message: "High transparency score indicates strong commitment to disclosure",
	},
}

// Insights derives the human-readable findings for a report.
func Insights(answers []domain.Answer, total int) []string {
	insights := []string{}
	for _, rule := range insightRules {
		if rule.when(answers, total) {
			insights = append(insights, rule.message)
		}
	}
	return insights
}

// gapRules map a weak sub-score to its improvement suggestion.
var gapRules = []struct {
	below   int
	score   func(domain.ScoreBreakdown) int
	message string
}{
	{20, func(b domain.ScoreBreakdown) int { return b.Completeness },
		"Complete all required questions to improve transparency score"},
	{15, func(b domain.ScoreBreakdown) int { return b.Quality },
		"Provide more detailed responses with specific information"},
	{15, func(b domain.ScoreBreakdown) int { return b.TransparencyLevel },
		"Include more transparency-related information like certifications and standards"},
	{15, func(b domain.ScoreBreakdown) int { return b.CategorySpecific },
		"Add more category-specific details relevant to your product type"},
}

// Recommendations derives the improvement suggestions for a report. The list
// always ends with exactly one closing message keyed by the total score band.
func Recommendations(breakdown domain.ScoreBreakdown, total int) []string {
	recommendations := []string{}
	for _, rule := range gapRules {
		if rule.score(breakdown) < rule.below {
			recommendations = append(recommendations, rule.message)
		}
	}

	switch {
	case total >= 80:
		recommendations = append(recommendations,
			"Excellent transparency! Consider publishing this report to build consumer trust")
	case total >= 60:
		recommendations = append(recommendations,
			"Good transparency level. Focus on the areas above to reach excellence")
	default:
		recommendations = append(recommendations,
			"Significant improvements needed. Focus on providing comprehensive product information")
	}
	return recommendations
}

func anyAnswer(match func(value string) bool) func([]domain.Answer, int) bool {
	return func(answers []domain.Answer, _ int) bool {
		for _, a := range answers {
			if match(a.Value) {
				return true
			}
		}
		return false
	}
}

func anyAnswerContains(terms ...string) func([]domain.Answer, int) bool {
	return anyAnswer(func(v string) bool {
		lower := strings.ToLower(v)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				return true
			}
		}
		return false
	})
}
