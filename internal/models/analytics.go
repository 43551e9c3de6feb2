package models

import "time"

// SearchRecord is one appended analytics log row. Append-only.
type SearchRecord struct {
	ID              int64     `json:"id"`
	Query           string    `json:"query"`
	QueryNormalized string    `json:"query_normalized"`
	ResultsCount    int       `json:"results_count"`
	ExpandedTerms   []string  `json:"expanded_terms,omitempty"`
	ExecutionTimeMs int64     `json:"execution_time_ms"`
	UserID          int64     `json:"user_id,omitempty"`
	SessionID       string    `json:"session_id,omitempty"`
	IPHash          string    `json:"ip_hash,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// SearchAggregate is the daily rollup for one normalized query.
// Counters only move up within a day bucket.
type SearchAggregate struct {
	Date            string  `json:"date"` // YYYY-MM-DD
	QueryNormalized string  `json:"query_normalized"`
	SearchCount     int     `json:"search_count"`
	TotalResults    int     `json:"total_results"`
	AvgResults      float64 `json:"avg_results"`
	ZeroResultCount int     `json:"zero_result_count"`
}

// QueryStat summarizes one normalized query over a mining window.
type QueryStat struct {
	QueryNormalized string  `json:"query_normalized"`
	SearchCount     int     `json:"search_count"`
	ZeroResultRate  float64 `json:"zero_result_rate"`
}

/// QueryPair is a session co-occurrence: FirstQuery followed by SecondQuery
// in the same session within a short window.
type QueryPair struct {
	FirstQuery         string  `json:"first_query"`
	SecondQuery        string  `json:"second_query"`
	Occurrences        int     `json:"occurrences"`
	FirstQueryZeroRate float64 `json:"first_query_zero_rate"`
}
