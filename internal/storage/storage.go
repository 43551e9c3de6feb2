// Package storage defines the persistence interfaces for catalog records,
// synonyms and search analytics, plus the SQLite implementation.
package storage

import (
	"context"
	"time"

	"github.com/meublerie/trouve/internal/models"
)

// Page is an offset/limit window into a result set.
type Page struct {
	Offset int
	Limit  int
}

// RecordStore is the catalog record collaborator consumed by the search
// engine. Retrieval is strategy-split: full-text when the store has a
// full-text index, substring otherwise. Both produce the same shape.
type RecordStore interface {
	// HasFullText reports whether a full-text index is available.
	HasFullText(ctx context.Context) bool

	// FindByFullText runs relevance-ranked full-text retrieval over the
	// expanded terms (OR-combined), returning one page and the total count.
	FindByFullText(ctx context.Context, query string, terms []string, page Page) ([]*models.FurnitureItem, int, error)

	// FindBySubstring is the LIKE fallback across name, category and tag
	// fields, with the same contract as FindByFullText.
	FindBySubstring(ctx context.Context, query string, terms []string, page Page) ([]*models.FurnitureItem, int, error)

	// AttachCategories and AttachTags hydrate retrieved items in place.
	AttachCategories(ctx context.Context, items []*models.FurnitureItem) error
	AttachTags(ctx context.Context, items []*models.FurnitureItem) error

	// CategoryVocabulary returns every category with its tag vocabulary,
	// the raw material for the category keyword table.
	CategoryVocabulary(ctx context.Context) ([]models.CategoryVocabulary, error)

	// SearchVocabulary returns the distinct terms (item name words,
	// category and tag names) used for fuzzy correction.
	SearchVocabulary(ctx context.Context) ([]string, error)

	CreateItem(ctx context.Context, item *models.FurnitureItem) error
}

// SynonymStore persists the curated synonym vocabulary.
type SynonymStore interface {
	// ListActiveSynonyms returns active entries visible under locale:
	// English locale sees only English rows, French locale sees both.
	ListActiveSynonyms(ctx context.Context, locale string) ([]models.SynonymEntry, error)

	// IncrementUsage bumps the usage counter of a synonym. Best-effort.
	IncrementUsage(ctx context.Context, synonym string) error

	CreateSynonym(ctx context.Context, entry *models.SynonymEntry) (int64, error)
	UpdateSynonym(ctx context.Context, entry *models.SynonymEntry) error
	// DeleteSynonym soft-deletes by marking the entry inactive.
	DeleteSynonym(ctx context.Context, id int64) error
}

// AnalyticsStore persists the append-only search log, the daily rollup and
// the mining queries used by synonym auto-discovery.
type AnalyticsStore interface {
	AppendSearch(ctx context.Context, rec *models.SearchRecord) error

	// UpsertDailyAggregate applies a single atomic increment for one search
	// outcome in the given day bucket. Must not be read-modify-write.
	UpsertDailyAggregate(ctx context.Context, date, queryNormalized string, resultsCount int) error

	GetDailyAggregate(ctx context.Context, date, queryNormalized string) (*models.SearchAggregate, error)

	// TopQueries returns the most-searched normalized queries since a date.
	TopQueries(ctx context.Context, since time.Time, limit int) ([]models.QueryStat, error)

	// ZeroResultQueries returns queries searched at least minSearches times
	// since the given time, with their zero-result rates.
	ZeroResultQueries(ctx context.Context, since time.Time, minSearches int) ([]models.QueryStat, error)

	// SessionPairs returns distinct query pairs issued by one session within
	// window of each other, occurring at least minOccurrences times.
	SessionPairs(ctx context.Context, since time.Time, window time.Duration, minOccurrences int) ([]models.QueryPair, error)
}

// Store combines all persistence surfaces plus lifecycle.
type Store interface {
	RecordStore
	SynonymStore
	AnalyticsStore
	Close() error
}
