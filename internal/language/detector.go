package language

import "strings"

// Detect classifies a query as "en" or "fr" using a word-level heuristic:
// +2 for a French stop word, +3 for a word containing a French diacritic,
// +2 for a word with a dictionary translation. The query is French when the
// total reaches max(2, 0.3 x wordCount).
func Detect(query string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	if len(words) == 0 {
		return "en"
	}

	score := 0.0
	for _, word := range words {
		if _, ok := frStopWords[word]; ok {
			score += 2
		}
		if strings.ContainsAny(word, frDiacritics) {
			score += 3
		}
		if _, ok := frToEn[word]; ok {
			score += 2
		}
	}

	threshold := 0.3 * float64(len(words))
	if threshold < 2 {
		threshold = 2
	}
	if score >= threshold {
		return "fr"
	}
	return "en"
}
