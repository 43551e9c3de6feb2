package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/meublerie/trouve/internal/models"
)

// AppendSearch writes one analytics log row. Append-only.
func (s *SQLiteStore) AppendSearch(ctx context.Context, rec *models.SearchRecord) error {
	termsJSON, err := json.Marshal(rec.ExpandedTerms)
	if err != nil {
		return fmt.Errorf("failed to marshal expanded terms: %w", err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	var userID interface{}
	if rec.UserID != 0 {
		userID = rec.UserID
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO search_analytics
		 (query, query_normalized, results_count, expanded_terms, execution_time_ms, user_id, session_id, ip_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Query, rec.QueryNormalized, rec.ResultsCount, string(termsJSON),
		rec.ExecutionTimeMs, userID, rec.SessionID, rec.IPHash, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append search failed: %w", err)
	}
	return nil
}

// UpsertDailyAggregate applies one search outcome to the day bucket as a
// single atomic increment; concurrent searches never lose updates.
func (s *SQLiteStore) UpsertDailyAggregate(ctx context.Context, date, queryNormalized string, resultsCount int) error {
	zero := 0
	if resultsCount == 0 {
		zero = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO search_aggregates (date, query_normalized, search_count, total_results, avg_results, zero_result_count)
		VALUES (?, ?, 1, ?, ?, ?)
		ON CONFLICT(date, query_normalized) DO UPDATE SET
			search_count = search_count + 1,
			total_results = total_results + excluded.total_results,
			avg_results = CAST(total_results + excluded.total_results AS REAL) / (search_count + 1),
			zero_result_count = zero_result_count + excluded.zero_result_count`,
		date, queryNormalized, resultsCount, float64(resultsCount), zero,
	)
	if err != nil {
		return fmt.Errorf("aggregate upsert failed: %w", err)
	}
	return nil
}

// GetDailyAggregate returns the rollup for one query on one day, or nil.
func (s *SQLiteStore) GetDailyAggregate(ctx context.Context, date, queryNormalized string) (*models.SearchAggregate, error) {
	var agg models.SearchAggregate
	err := s.db.QueryRowContext(ctx,
		`SELECT date, query_normalized, search_count, total_results, avg_results, zero_result_count
		 FROM search_aggregates WHERE date = ? AND query_normalized = ?`,
		date, queryNormalized,
	).Scan(&agg.Date, &agg.QueryNormalized, &agg.SearchCount, &agg.TotalResults,
		&agg.AvgResults, &agg.ZeroResultCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

// TopQueries returns the most-searched normalized queries since a time.
func (s *SQLiteStore) TopQueries(ctx context.Context, since time.Time, limit int) ([]models.QueryStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT query_normalized,
		       COUNT(*) AS search_count,
		       AVG(CASE WHEN results_count = 0 THEN 1.0 ELSE 0.0 END) AS zero_rate
		FROM search_analytics
		WHERE created_at >= ?
		GROUP BY query_normalized
		ORDER BY search_count DESC, query_normalized
		LIMIT ?`,
		since, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top queries failed: %w", err)
	}
	defer rows.Close()
	return scanQueryStats(rows)
}

// ZeroResultQueries returns queries searched at least minSearches times
// since the given time, with their zero-result rates.
func (s *SQLiteStore) ZeroResultQueries(ctx context.Context, since time.Time, minSearches int) ([]models.QueryStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT query_normalized,
		       COUNT(*) AS search_count,
		       AVG(CASE WHEN results_count = 0 THEN 1.0 ELSE 0.0 END) AS zero_rate
		FROM search_analytics
		WHERE created_at >= ?
		GROUP BY query_normalized
		HAVING search_count >= ?
		ORDER BY search_count DESC, query_normalized`,
		since, minSearches,
	)
	if err != nil {
		return nil, fmt.Errorf("zero-result queries failed: %w", err)
	}
	defer rows.Close()
	return scanQueryStats(rows)
}

// SessionPairs returns distinct query pairs issued by the same session
// within window of each other, occurring at least minOccurrences times.
func (s *SQLiteStore) SessionPairs(ctx context.Context, since time.Time, window time.Duration, minOccurrences int) ([]models.QueryPair, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.query_normalized,
		       b.query_normalized,
		       COUNT(*) AS occurrences,
		       AVG(CASE WHEN a.results_count = 0 THEN 1.0 ELSE 0.0 END) AS first_zero_rate
		FROM search_analytics a
		JOIN search_analytics b
		  ON b.session_id = a.session_id
		 AND a.session_id != ''
		 AND b.created_at > a.created_at
		 AND (julianday(b.created_at) - julianday(a.created_at)) * 86400.0 <= ?
		 AND b.query_normalized != a.query_normalized
		WHERE a.created_at >= ?
		GROUP BY a.query_normalized, b.query_normalized
		HAVING occurrences >= ?
		ORDER BY occurrences DESC, a.query_normalized`,
		window.Seconds(), since, minOccurrences,
	)
	if err != nil {
		return nil, fmt.Errorf("session pairs failed: %w", err)
	}
	defer rows.Close()

	var pairs []models.QueryPair
	for rows.Next() {
		var p models.QueryPair
		if err := rows.Scan(&p.FirstQuery, &p.SecondQuery, &p.Occurrences, &p.FirstQueryZeroRate); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

func scanQueryStats(rows *sql.Rows) ([]models.QueryStat, error) {
	var stats []models.QueryStat
	for rows.Next() {
		var st models.QueryStat
		if err := rows.Scan(&st.QueryNormalized, &st.SearchCount, &st.ZeroResultRate); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
