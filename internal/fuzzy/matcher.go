package fuzzy

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Match is one vocabulary term within edit distance of the input.
type Match struct {
	Term     string  `json:"term"`
	Distance int     `json:"distance"`
	Score    float64 `json:"score"`
}

// minTermLength is the shortest input that will be fuzzy-matched at all;
// anything shorter matches everything and nothing usefully.
const minTermLength = 3

// Matcher finds near matches in a vocabulary, with a bounded memo cache.
type Matcher struct {
	cache *lru.Cache[string, []Match]
}

// NewMatcher creates a Matcher with a bounded result cache. The cache is a
// performance aid; correctness never depends on it.
func NewMatcher(cacheSize int) *Matcher {
	if cacheSize <= 0 {
		cacheSize = 100
	}
	// lru.New only fails on non-positive size, which is guarded above.
	cache, _ := lru.New[string, []Match](cacheSize)
	return &Matcher{cache: cache}
}

// maxDistanceFor buckets the allowed edit distance by term length so short
// words cannot match loosely: <=4 chars allow 1 edit, 5-7 allow 2, 8+ allow 3.
func maxDistanceFor(term string) int {
	switch n := utf8.RuneCountInString(term); {
	case n <= 4:
		return 1
	case n <= 7:
		return 2
	default:
		return 3
	}
}

// FindMatches returns vocabulary terms within the length-bucketed edit
// distance of term, sorted by score descending then distance ascending.
// Exact matches are excluded: distance zero is not fuzzy.
func (m *Matcher) FindMatches(term string, vocabulary []string, maxResults int) []Match {
	term = strings.ToLower(strings.TrimSpace(term))
	if utf8.RuneCountInString(term) < minTermLength || len(vocabulary) == 0 {
		return nil
	}

	// Cache keyed on term plus a content hash of the vocabulary, so a swap
	// of one term for another of equal count still invalidates.
	key := fmt.Sprintf("%s:%x", term, vocabularyHash(vocabulary))
	if cached, ok := m.cache.Get(key); ok {
		return boundMatches(cached, maxResults)
	}

	maxDist := maxDistanceFor(term)
	termLen := utf8.RuneCountInString(term)

	var matches []Match
	for _, candidate := range vocabulary {
		cand := strings.ToLower(candidate)
		candLen := utf8.RuneCountInString(cand)

		// Length pre-filter: cannot be within maxDist if lengths differ more.
		lenDiff := candLen - termLen
		if lenDiff < 0 {
			lenDiff = -lenDiff
		}
		if lenDiff > maxDist {
			continue
		}

		dist := Distance(term, cand)
		if dist == 0 || dist > maxDist {
			continue
		}

		longer := termLen
		if candLen > longer {
			longer = candLen
		}
		matches = append(matches, Match{
			Term:     cand,
			Distance: dist,
			Score:    1.0 - float64(dist)/float64(longer),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Distance < matches[j].Distance
	})

	m.cache.Add(key, matches)
	return boundMatches(matches, maxResults)
}

// Suggest returns a single conservative "did you mean" correction.
// It refuses unless all of the following hold: the term is absent from the
// vocabulary, short terms (<=5 chars) are at most one edit away, longer
// terms score at least 0.85, and the length difference is at most one.
// A wrong autocorrect shown to a user is worse than no suggestion.
func (m *Matcher) Suggest(term string, vocabulary []string) (string, bool) {
	term = strings.ToLower(strings.TrimSpace(term))
	if utf8.RuneCountInString(term) < minTermLength {
		return "", false
	}
	for _, v := range vocabulary {
		if strings.EqualFold(v, term) {
			return "", false
		}
	}

	matches := m.FindMatches(term, vocabulary, 1)
	if len(matches) == 0 {
		return "", false
	}
	best := matches[0]

	termLen := utf8.RuneCountInString(term)
	if termLen <= 5 {
		// Short terms: one edit at most. The score cutoff would reject
		// legitimate one-edit fixes on 4-5 char words (1 - 1/5 = 0.8).
		if best.Distance > 1 {
			return "", false
		}
	} else if best.Score < 0.85 {
		return "", false
	}
	lenDiff := utf8.RuneCountInString(best.Term) - termLen
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > 1 {
		return "", false
	}
	return best.Term, true
}

// Reset clears the memo cache. Safe at any time.
func (m *Matcher) Reset() {
	m.cache.Purge()
}

func vocabularyHash(vocabulary []string) uint64 {
	h := fnv.New64a()
	for _, term := range vocabulary {
		_, _ = h.Write([]byte(term))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

func boundMatches(matches []Match, maxResults int) []Match {
	if maxResults > 0 && len(matches) > maxResults {
		return matches[:maxResults]
	}
	return matches
}
