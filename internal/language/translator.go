package language

import "strings"

// Translation is the result of translating a query.
type Translation struct {
	// Translated is the query with French words replaced by English ones.
	// Equal to the input when no translation happened.
	Translated string
	// Terms holds both the translated words and the original French words,
	// so the user's own vocabulary is never discarded.
	Terms []string
	// OriginalLang is "fr" when the input was detected as French and
	// translated, "en" otherwise.
	OriginalLang string
}

// Translate translates a French query to English, word by word, using the
// static dictionary. Translation is locale-gated: it only runs when the
// active UI locale is French; under an English locale it is a passthrough.
// Unmatched words pass through unchanged.
func Translate(query, locale string) Translation {
	query = strings.TrimSpace(query)
	passthrough := Translation{
		Translated:   query,
		Terms:        strings.Fields(strings.ToLower(query)),
		OriginalLang: "en",
	}

	if locale != "fr" {
		return passthrough
	}
	if Detect(query) != "fr" {
		return passthrough
	}

	words := strings.Fields(strings.ToLower(query))
	translated := make([]string, 0, len(words))
	terms := make([]string, 0, len(words)*2)
	seen := make(map[string]struct{}, len(words)*2)

	add := func(t string) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		terms = append(terms, t)
	}

	for _, word := range words {
		if en, ok := frToEn[word]; ok {
			translated = append(translated, en)
			add(en)
			add(word)
			continue
		}
		translated = append(translated, word)
		add(word)
	}

	return Translation{
		Translated:   strings.Join(translated, " "),
		Terms:        terms,
		OriginalLang: "fr",
	}
}

// TranslateWord translates a single French word, returning the input and
// false when no dictionary entry exists.
func TranslateWord(word string) (string, bool) {
	en, ok := frToEn[strings.ToLower(word)]
	if !ok {
		return word, false
	}
	return en, true
}
