package scoring

// transparencyKeywords are matched case-insensitively by substring against
// every answer value; each occurrence-by-answer contributes one point.
var transparencyKeywords = []string{
	"certified", "organic", "sustainable", "recyclable", "biodegradable",
	"fair trade", "cruelty-free", "non-toxic", "locally sourced",
	"transparency", "disclosure", "verified", "tested", "compliant",
}

// categoryKeywords hold the per-category lexicons. Categories without an
// entry contribute nothing to the category-specific sub-score.
var categoryKeywords = map[string][]string{
	"Food & Beverages": {
		"ingredients", "allergens", "nutrition", "preservatives", "additives",
		"source", "farm", "organic", "gmo", "shelf life",
	},
	"Cosmetics & Personal Care": {
		"ingredients", "testing", "cruelty", "parabens", "sulfates",
		"natural", "dermatologist", "hypoallergenic", "fragrance",
	},
	"Electronics": {
		"materials", "recycling", "energy", "conflict minerals", "warranty",
		"repair", "lifecycle", "disposal", "manufacturing",
	},
}
