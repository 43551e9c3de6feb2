// Package search provides the main catalog search engine: query expansion,
// strategy planning, retrieval, boosting and zero-result remediation.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/meublerie/trouve/internal/analytics"
	"github.com/meublerie/trouve/internal/config"
	"github.com/meublerie/trouve/internal/expand"
	"github.com/meublerie/trouve/internal/fuzzy"
	"github.com/meublerie/trouve/internal/metrics"
	"github.com/meublerie/trouve/internal/models"
	"github.com/meublerie/trouve/internal/ranking"
	"github.com/meublerie/trouve/internal/storage"
)

// usageTimeout bounds the background synonym usage-counter writes.
const usageTimeout = 2 * time.Second

// Engine runs catalog searches end to end.
type Engine struct {
	records   storage.RecordStore
	synonyms  storage.SynonymStore
	expander  *expand.Expander
	suggester *ranking.Suggester
	matcher   *fuzzy.Matcher
	recorder  *analytics.Recorder
	config    *config.SearchConfig
	logger    *zap.Logger

	usage sync.WaitGroup
}

// NewEngine creates a search engine with the given dependencies.
func NewEngine(
	records storage.RecordStore,
	synonyms storage.SynonymStore,
	expander *expand.Expander,
	suggester *ranking.Suggester,
	matcher *fuzzy.Matcher,
	recorder *analytics.Recorder,
	cfg *config.SearchConfig,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		records:   records,
		synonyms:  synonyms,
		expander:  expander,
		suggester: suggester,
		matcher:   matcher,
		recorder:  recorder,
		config:    cfg,
		logger:    logger,
	}
}

// Search executes one search request. Expected/empty conditions (short
// query, zero matches) return an empty result set; only a genuine retrieval
// failure propagates as an error.
func (e *Engine) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	req.Normalize(e.config.DefaultPerPage, e.config.MaxPerPage)
	query := strings.ToLower(req.Query)
	startTime := time.Now()

	if len(query) < e.config.MinQueryLength {
		return emptyResponse(req), nil
	}

	eq := e.expander.Expand(ctx, query, req.Locale, req.Category)

	page := storage.Page{
		Offset: (req.Page - 1) * req.PerPage,
		Limit:  req.PerPage,
	}

	strategy := models.SearchTypeLike
	var (
		items []*models.FurnitureItem
		total int
		err   error
	)
	if e.records.HasFullText(ctx) {
		strategy = models.SearchTypeFullText
		items, total, err = e.records.FindByFullText(ctx, query, eq.Terms, page)
	} else {
		items, total, err = e.records.FindBySubstring(ctx, query, eq.Terms, page)
	}
	if err != nil {
		return nil, fmt.Errorf("search retrieval failed: %w", err)
	}

	// Hydration is best-effort: a missing hook degrades to bare items.
	if err := e.records.AttachCategories(ctx, items); err != nil {
		e.logger.Warn("category hydration skipped", zap.Error(err))
	}
	if err := e.records.AttachTags(ctx, items); err != nil {
		e.logger.Warn("tag hydration skipped", zap.Error(err))
	}

	if req.Category != "" {
		items = ranking.EnhanceResults(items, req.Category)
	}

	elapsed := time.Since(startTime).Milliseconds()
	meta := e.buildMeta(eq, query, strategy, elapsed)

	if total == 0 {
		meta = e.remediate(ctx, meta, query, eq, req, strategy, elapsed)
	}

	e.record(req, eq, total, elapsed)
	e.countSynonymUse(eq.NewTerms())
	metrics.ObserveSearch(strategy, total, len(eq.Terms), time.Since(startTime))

	return &models.SearchResponse{
		Items: items,
		Pagination: models.Pagination{
			Page:       req.Page,
			PerPage:    req.PerPage,
			Total:      total,
			TotalPages: totalPages(total, req.PerPage),
		},
		Meta: meta,
	}, nil
}

// buildMeta reports what expansion actually did. It never claims "also
// searching for X" when X is just the original query normalized.
func (e *Engine) buildMeta(eq *models.ExpandedQuery, query, strategy string, elapsed int64) *models.SearchMeta {
	newTerms := eq.NewTerms()

	if eq.TranslatedQuery != "" {
		return &models.SearchMeta{
			Language:        models.LangFR,
			OriginalQuery:   query,
			TranslatedQuery: eq.TranslatedQuery,
			SynonymsUsed:    newTerms,
			SearchType:      strategy,
			ExecutionTimeMs: elapsed,
		}
	}
	if len(newTerms) > 0 {
		return &models.SearchMeta{
			OriginalQuery:   query,
			SynonymsUsed:    newTerms,
			SearchType:      strategy,
			ExecutionTimeMs: elapsed,
		}
	}
	return nil
}

// remediate attaches best-effort hints to a zero-result response: one fuzzy
// "did you mean" for single-word queries and one category suggestion when
// no category filter was active. Both are silent on failure.
func (e *Engine) remediate(ctx context.Context, meta *models.SearchMeta, query string, eq *models.ExpandedQuery, req *models.SearchRequest, strategy string, elapsed int64) *models.SearchMeta {
	ensure := func() *models.SearchMeta {
		if meta == nil {
			meta = &models.SearchMeta{SearchType: strategy, ExecutionTimeMs: elapsed}
		}
		return meta
	}

	if len(eq.OriginalTerms) == 1 && len(query) >= 3 {
		vocabulary, err := e.records.SearchVocabulary(ctx)
		if err != nil {
			e.logger.Debug("vocabulary unavailable for did-you-mean", zap.Error(err))
		} else if suggestion, ok := e.matcher.Suggest(query, vocabulary); ok {
			meta = ensure()
			meta.DidYouMean = map[string]string{query: suggestion}
		}
	}

	if req.Category == "" {
		if slug, ok := e.suggester.SuggestCategory(ctx, query); ok {
			meta = ensure()
			meta.SuggestedCategory = slug
		}
	}
	return meta
}

func (e *Engine) record(req *models.SearchRequest, eq *models.ExpandedQuery, total int, elapsed int64) {
	e.recorder.Record(&models.SearchRecord{
		Query:           req.Query,
		ResultsCount:    total,
		ExpandedTerms:   eq.Terms,
		ExecutionTimeMs: elapsed,
		UserID:          req.UserID,
		SessionID:       req.SessionID,
		IPHash:          e.recorder.HashIP(req.ClientIP),
	})
}

// countSynonymUse bumps the usage counter of each expansion-contributed term
// in the background. Non-synonym terms (stems, translations) are no-ops in
// the store; a failed increment never affects the search.
func (e *Engine) countSynonymUse(terms []string) {
	if e.synonyms == nil || len(terms) == 0 {
		return
	}
	e.usage.Add(1)
	go func() {
		defer e.usage.Done()
		ctx, cancel := context.WithTimeout(context.Background(), usageTimeout)
		defer cancel()
		for _, term := range terms {
			if err := e.synonyms.IncrementUsage(ctx, term); err != nil {
				e.logger.Debug("synonym usage count skipped",
					zap.String("term", term), zap.Error(err))
			}
		}
	}()
}

func emptyResponse(req *models.SearchRequest) *models.SearchResponse {
	return &models.SearchResponse{
		Items: []*models.FurnitureItem{},
		Pagination: models.Pagination{
			Page:    req.Page,
			PerPage: req.PerPage,
		},
	}
}

func totalPages(total, perPage int) int {
	if total == 0 || perPage == 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
