package scoring

import (
	"math"
	"strings"

	"transparency-service/internal/domain"
)

// Score computes the deterministic four-part transparency breakdown from the
// submitted answers. The denominator is the answer set itself: questions that
// were never submitted as answers do not count against completeness.
func Score(answers []domain.Answer, product domain.Product) domain.ScoreBreakdown {
	return domain.ScoreBreakdown{
		Completeness:      completeness(answers),
		Quality:           quality(answers),
		TransparencyLevel: keywordScore(answers, transparencyKeywords, 1),
		CategorySpecific:  keywordScore(answers, categoryKeywords[product.Category], 2),
	}
}

func completeness(answers []domain.Answer) int {
	answered := 0
	for _, a := range answers {
		if strings.TrimSpace(a.Value) != "" {
			answered++
		}
	}
	total := len(answers)
	if total < 1 {
		total = 1
	}
	return int(math.Round(float64(answered) / float64(total) * 25))
}

func quality(answers []domain.Answer) int {
	score := 0
	for _, a := range answers {
		switch n := len(a.Value); {
		case n > 50:
			score += 3
		case n > 20:
			score += 2
		case n > 0:
			score++
		}
	}
	return clamp25(score)
}

// keywordScore adds points for every lexicon term contained in an answer,
// case-insensitively. A term counts once per answer it appears in.
func keywordScore(answers []domain.Answer, keywords []string, points int) int {
	score := 0
	for _, a := range answers {
		value := strings.ToLower(a.Value)
		for _, keyword := range keywords {
			if strings.Contains(value, keyword) {
				score += points
			}
		}
	}
	return clamp25(score)
}

func clamp25(n int) int {
	if n > 25 {
		return 25
	}
	if n < 0 {
		return 0
	}
	return n
}
