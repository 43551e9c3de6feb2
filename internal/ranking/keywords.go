package ranking

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/meublerie/trouve/internal/cache"
	"github.com/meublerie/trouve/internal/models"
	"github.com/meublerie/trouve/internal/stemmer"
	"github.com/meublerie/trouve/internal/storage"
)

// Keyword weight tiers, by provenance of the keyword.
const (
	tierCategoryName    = 6.0
	tierCategorySlug    = 5.0
	tierDerivedSingular = 4.5
	tierTagFullName     = 4.5
	tierTagWord         = 4.0
	tierTagSlug         = 3.0
)

// Query-side scoring multipliers.
const (
	scoreExactQuery     = 10.0
	scoreQuerySubstring = 6.0
	scoreWordExact      = 5.0
	scoreWordStem       = 3.0
	scoreWordSubstring  = 1.5
)

// suggestThreshold is the minimum score for a category suggestion; weak
// matches stay silent rather than send the user somewhere noisy.
const suggestThreshold = 3.0

// keywordStopWords are never indexed as category keywords.
var keywordStopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "of": {}, "in": {},
	"furniture": {}, "items": {}, "item": {}, "misc": {}, "other": {},
}

// categoryPrefixes are stripped from keyword candidates before indexing,
// e.g. "all-seating" indexes as "seating".
var categoryPrefixes = []string{"all-", "all ", "misc-", "other-"}

type keywordEntry struct {
	categorySlug string
	weight       float64
}

type keywordTable map[string][]keywordEntry

// Suggester builds and caches the keyword->category table and scores
// queries against it.
type Suggester struct {
	records storage.RecordStore
	cache   *cache.Cache[keywordTable]
	logger  *zap.Logger
}

// NewSuggester creates a Suggester over the record store. The keyword table
// is cached for ttl and rebuilt on demand; Invalidate evicts it early.
func NewSuggester(records storage.RecordStore, ttl time.Duration, logger *zap.Logger) *Suggester {
	return &Suggester{
		records: records,
		cache:   cache.New[keywordTable](ttl),
		logger:  logger,
	}
}

// Invalidate evicts the cached keyword table.
func (s *Suggester) Invalidate() {
	s.cache.Invalidate()
}

// SuggestCategory returns the best-matching category slug for a query, or
// false when nothing scores at or above the threshold. Failures to build
// the table degrade to no suggestion.
func (s *Suggester) SuggestCategory(ctx context.Context, query string) (string, bool) {
	table, err := s.cache.Get("category-keywords", func() (keywordTable, error) {
		vocab, err := s.records.CategoryVocabulary(ctx)
		if err != nil {
			return nil, err
		}
		return buildKeywordTable(vocab), nil
	})
	if err != nil {
		s.logger.Warn("category keyword table unavailable", zap.Error(err))
		return "", false
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return "", false
	}
	words := strings.Fields(query)

	scores := make(map[string]float64)
	for keyword, entries := range table {
		var mult float64
		switch {
		case keyword == query:
			mult = scoreExactQuery
		case strings.Contains(query, keyword) || strings.Contains(keyword, query):
			mult = scoreQuerySubstring
		default:
			for _, word := range words {
				var wordMult float64
				switch {
				case word == keyword:
					wordMult = scoreWordExact
				case stemmer.Stem(word) == stemmer.Stem(keyword):
					wordMult = scoreWordStem
				case strings.Contains(keyword, word) || strings.Contains(word, keyword):
					wordMult = scoreWordSubstring
				}
				if wordMult > mult {
					mult = wordMult
				}
			}
		}
		if mult == 0 {
			continue
		}
		for _, entry := range entries {
			scores[entry.categorySlug] += entry.weight * mult
		}
	}

	bestSlug, bestScore := "", 0.0
	for slug, score := range scores {
		if score > bestScore || (score == bestScore && slug < bestSlug) {
			bestSlug, bestScore = slug, score
		}
	}
	if bestScore < suggestThreshold {
		return "", false
	}
	return bestSlug, true
}

// buildKeywordTable derives keywords from category names, slugs and tag
// vocabulary, each carrying its provenance weight tier.
func buildKeywordTable(vocab []models.CategoryVocabulary) keywordTable {
	table := make(keywordTable)

	add := func(keyword, slug string, weight float64) {
		keyword = cleanKeyword(keyword)
		if keyword == "" {
			return
		}
		for _, existing := range table[keyword] {
			if existing.categorySlug == slug && existing.weight >= weight {
				return
			}
		}
		table[keyword] = append(table[keyword], keywordEntry{categorySlug: slug, weight: weight})
	}

	for _, cv := range vocab {
		slug := strings.ToLower(cv.Category.Slug)

		for _, word := range strings.Fields(strings.ToLower(cv.Category.Name)) {
			add(word, slug, tierCategoryName)
			if singular := stemmer.Stem(word); singular != word {
				add(singular, slug, tierDerivedSingular)
			}
		}
		for _, word := range strings.Split(slug, "-") {
			add(word, slug, tierCategorySlug)
		}

		for _, tag := range cv.Tags {
			name := strings.ToLower(tag.Name)
			add(name, slug, tierTagFullName)
			for _, word := range strings.Fields(name) {
				add(word, slug, tierTagWord)
			}
			for _, word := range strings.Split(strings.ToLower(tag.Slug), "-") {
				add(word, slug, tierTagSlug)
			}
		}
	}
	return table
}

func cleanKeyword(keyword string) string {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	for _, prefix := range categoryPrefixes {
		keyword = strings.TrimPrefix(keyword, prefix)
	}
	if len(keyword) < 2 {
		return ""
	}
	if _, stop := keywordStopWords[keyword]; stop {
		return ""
	}
	return keyword
}
