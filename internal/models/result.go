package models

// Pagination describes the page window of a result set.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// SearchMeta carries expansion, translation and remediation details.
// It is present only when expansion, translation or a suggestion actually
// occurred; its absence means the query ran verbatim.
type SearchMeta struct {
	Language          string            `json:"language,omitempty"`
	OriginalQuery     string            `json:"original_query,omitempty"`
	TranslatedQuery   string            `json:"translated_query,omitempty"`
	SynonymsUsed      []string          `json:"synonyms_used,omitempty"`
	SearchType        string            `json:"search_type,omitempty"` // "fulltext" or "like"
	ExecutionTimeMs   int64             `json:"execution_time_ms,omitempty"`
	DidYouMean        map[string]string `json:"did_you_mean,omitempty"`
	SuggestedCategory string            `json:"suggested_category,omitempty"`
}

// SearchResponse is the full response for a catalog search.
type SearchResponse struct {
	Items      []*FurnitureItem `json:"items"`
	Pagination Pagination       `json:"pagination"`
	Meta       *SearchMeta      `json:"search_meta,omitempty"`
}

// Search strategies reported in SearchMeta.SearchType.
const (
	SearchTypeFullText = "fulltext"
	SearchTypeLike     = "like"
)
