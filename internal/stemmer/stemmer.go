// Package stemmer provides a small rule-based English stemmer tuned for
// catalog vocabulary (plurals and common verb suffixes). It is deliberately
// conservative: when no rule applies, the word is returned unchanged.
package stemmer

import "strings"

// irregularPlurals are exact-lookup exceptions checked before any suffix rule.
var irregularPlurals = map[string]string{
	"shelves":  "shelf",
	"children": "child",
	"feet":     "foot",
	"men":      "man",
	"women":    "woman",
	"knives":   "knife",
	"lives":    "life",
	"leaves":   "leaf",
	"mice":     "mouse",
	"geese":    "goose",
}

// Stem reduces an English word to a root form. Pure function, no I/O.
// Words of three characters or fewer are returned as-is.
func Stem(word string) string {
	w := strings.ToLower(strings.TrimSpace(word))
	if len(w) <= 3 {
		return w
	}

	if root, ok := irregularPlurals[w]; ok {
		return root
	}

	// Suffix rules in priority order; first match wins.
	switch {
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		// "accessories" -> "accessory"
		return w[:len(w)-3] + "y"

	case strings.HasSuffix(w, "ves") && len(w) > 4:
		// "wolves" -> "wolf"
		return w[:len(w)-3] + "f"

	case strings.HasSuffix(w, "es") && hasESStem(w):
		// "boxes" -> "box", "couches" -> "couch", "glasses" -> "glass"
		return w[:len(w)-2]

	case strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") && len(w) > 3:
		// "chairs" -> "chair"
		return w[:len(w)-1]

	case strings.HasSuffix(w, "ing") && len(w) > 5:
		stem := w[:len(w)-3]
		// "running" -> "runn" -> "run"
		if isDoubledConsonant(stem) {
			stem = stem[:len(stem)-1]
		}
		return stem

	case strings.HasSuffix(w, "ied"):
		// "tidied" -> "tidy"
		return w[:len(w)-3] + "y"

	case strings.HasSuffix(w, "ed") && len(w) > 4:
		// "painted" -> "paint"
		return w[:len(w)-2]
	}

	return w
}

// hasESStem reports whether an -es suffix should be stripped: only after
// sibilant-like endings (-xes, -ses, -ches, -shes, -sses) or -oes.
func hasESStem(w string) bool {
	return strings.HasSuffix(w, "xes") ||
		strings.HasSuffix(w, "ses") ||
		strings.HasSuffix(w, "ches") ||
		strings.HasSuffix(w, "shes") ||
		strings.HasSuffix(w, "sses") ||
		strings.HasSuffix(w, "oes")
}

// isDoubledConsonant reports whether the word ends with a doubled consonant
// (e.g. "runn", "sitt").
func isDoubledConsonant(w string) bool {
	if len(w) < 2 {
		return false
	}
	last := w[len(w)-1]
	if last != w[len(w)-2] {
		return false
	}
	switch last {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	}
	return true
}
