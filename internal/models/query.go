package models

import "strings"

// SearchRequest represents a catalog search with pagination and filters.
type SearchRequest struct {
	Query    string `json:"query"`
	Page     int    `json:"page,omitempty"`
	PerPage  int    `json:"per_page,omitempty"`
	Category string `json:"category,omitempty"` // category slug filter
	Locale   string `json:"locale,omitempty"`   // "en" or "fr"; gates translation and synonym visibility

	// Optional request attribution, used only for analytics.
	UserID    int64  `json:"-"`
	SessionID string `json:"-"`
	ClientIP  string `json:"-"`
}

// Normalize trims the query and clamps pagination to sane bounds.
func (r *SearchRequest) Normalize(defaultPerPage, maxPerPage int) {
	r.Query = strings.TrimSpace(r.Query)
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PerPage <= 0 {
		r.PerPage = defaultPerPage
	}
	if r.PerPage > maxPerPage {
		r.PerPage = maxPerPage
	}
	if r.Locale != LangFR {
		r.Locale = LangEN
	}
}

// ExpandedQuery is the weighted term set produced by query expansion.
type ExpandedQuery struct {
	// OriginalTerms are the normalized words of the raw query.
	OriginalTerms []string
	// Terms is the full expanded term list in discovery order,
	// original/phrase terms first. Bounded by CappedAt.
	Terms []string
	// Weights maps each term in Terms to its relevance weight in (0, 1].
	Weights map[string]float64
	// Language is the detected query language.
	Language string
	// TranslatedQuery is set when a French query was translated.
	TranslatedQuery string
	// CappedAt is the term cap that was applied.
	CappedAt int
}

// Expanded reports whether expansion produced terms beyond the original words
// and phrase, i.e. whether synonym/translation expansion actually happened.
func (q *ExpandedQuery) Expanded() bool {
	return len(q.NewTerms()) > 0 || q.TranslatedQuery != ""
}

// NewTerms returns the expansion terms that are genuinely new: not the
// original words, not the original phrase, not the translated phrase.
func (q *ExpandedQuery) NewTerms() []string {
	seen := make(map[string]struct{}, len(q.OriginalTerms)+2)
	for _, w := range q.OriginalTerms {
		seen[w] = struct{}{}
	}
	seen[strings.Join(q.OriginalTerms, " ")] = struct{}{}
	if q.TranslatedQuery != "" {
		seen[q.TranslatedQuery] = struct{}{}
	}
	var out []string
	for _, t := range q.Terms {
		if _, ok := seen[t]; !ok {
			out = append(out, t)
		}
	}
	return out
}
