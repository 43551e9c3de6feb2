// Package expand turns a raw query string into a bounded, weighted term set
// by combining tokenization, synonym expansion, stemming and translation.
package expand

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/meublerie/trouve/internal/language"
	"github.com/meublerie/trouve/internal/models"
	"github.com/meublerie/trouve/internal/synonym"
)

const (
	// DefaultMaxTerms bounds the expanded term set so downstream query cost
	// stays bounded no matter how productive the expansion is.
	DefaultMaxTerms = 20

	// minQueryLength below which no expansion is attempted.
	minQueryLength = 2

	// multiWordDecay discounts synonym expansions of individual words in a
	// multi-word query; token-level expansions are trusted less there.
	multiWordDecay = 0.9

	// translatedPhraseWeight ranks the translated full phrase just below
	// the user's original phrase.
	translatedPhraseWeight = 0.95
)

// Expander orchestrates per-token synonym expansion and query translation.
type Expander struct {
	index    *synonym.Index
	maxTerms int
	logger   *zap.Logger
}

// NewExpander creates an Expander over the given synonym index.
func NewExpander(index *synonym.Index, maxTerms int, logger *zap.Logger) *Expander {
	if maxTerms <= 0 {
		maxTerms = DefaultMaxTerms
	}
	return &Expander{index: index, maxTerms: maxTerms, logger: logger}
}

// Expand produces the weighted term set for query under the given locale and
// optional category filter. The original query terms always carry weight 1.0
// and come first; everything else is strictly weaker except an exact
// canonical reverse match. The result never exceeds the term cap.
func (e *Expander) Expand(ctx context.Context, query, locale, categoryFilter string) *models.ExpandedQuery {
	normalized := strings.ToLower(strings.TrimSpace(query))
	words := strings.Fields(normalized)

	eq := &models.ExpandedQuery{
		OriginalTerms: words,
		Weights:       make(map[string]float64),
		Language:      models.LangEN,
		CappedAt:      e.maxTerms,
	}

	if len(normalized) < minQueryLength {
		if normalized != "" {
			eq.Terms = []string{normalized}
			eq.Weights[normalized] = 1.0
		}
		return eq
	}

	add := func(term string, weight float64) {
		if term == "" {
			return
		}
		// Existing terms merge highest-weight-wins even once the cap is hit;
		// the cap bounds the term count, not weight upgrades.
		if existing, ok := eq.Weights[term]; ok {
			if weight > existing {
				eq.Weights[term] = weight
			}
			return
		}
		if len(eq.Terms) >= e.maxTerms {
			return
		}
		eq.Weights[term] = weight
		eq.Terms = append(eq.Terms, term)
	}

	tr := language.Translate(normalized, locale)
	eq.Language = tr.OriginalLang
	if tr.OriginalLang == models.LangFR && tr.Translated != normalized {
		eq.TranslatedQuery = tr.Translated
	}

	if len(words) == 1 {
		e.expandSingle(ctx, eq, words[0], locale, categoryFilter, add)
	} else {
		e.expandPhrase(ctx, eq, normalized, words, locale, categoryFilter, add)
	}

	e.logger.Debug("query expanded",
		zap.String("query", normalized),
		zap.String("language", eq.Language),
		zap.Int("terms", len(eq.Terms)))
	return eq
}

// expandSingle handles one-word queries: direct synonym expansion plus the
// translated form. Fuzzy matching is deliberately not injected here; it is
// reserved for zero-result remediation.
func (e *Expander) expandSingle(ctx context.Context, eq *models.ExpandedQuery, word, locale, categoryFilter string, add func(string, float64)) {
	terms, weights := e.index.Expand(ctx, word, locale, categoryFilter)
	for _, t := range terms {
		add(t, weights[t])
	}

	if eq.TranslatedQuery != "" && eq.TranslatedQuery != word {
		add(eq.TranslatedQuery, translatedPhraseWeight)
		// The translation participates in expansion like any other term,
		// discounted below the direct expansion.
		trTerms, trWeights := e.index.Expand(ctx, eq.TranslatedQuery, locale, categoryFilter)
		for _, t := range trTerms {
			if t == eq.TranslatedQuery {
				continue
			}
			add(t, trWeights[t]*multiWordDecay)
		}
	}
}

// expandPhrase handles multi-word queries: the full phrase and each word
// verbatim at full weight, the translated phrase just below, then per-word
// expansions discounted by multiWordDecay.
func (e *Expander) expandPhrase(ctx context.Context, eq *models.ExpandedQuery, phrase string, words []string, locale, categoryFilter string, add func(string, float64)) {
	// Phrase first so exact-phrase matches can outrank token matches.
	add(phrase, 1.0)
	for _, word := range words {
		add(word, 1.0)
	}
	if eq.TranslatedQuery != "" {
		add(eq.TranslatedQuery, translatedPhraseWeight)
	}

	for _, word := range words {
		terms, weights := e.index.Expand(ctx, word, locale, categoryFilter)
		for _, t := range terms {
			if t == word {
				continue
			}
			add(t, weights[t]*multiWordDecay)
		}
		if eq.Language == models.LangFR {
			if en, ok := language.TranslateWord(word); ok && en != word {
				add(en, translatedPhraseWeight)
			}
		}
	}
}
