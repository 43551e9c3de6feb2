// Package integration exercises the search engine against real SQLite
// storage, without the HTTP layer.
package integration

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/meublerie/trouve/internal/analytics"
	"github.com/meublerie/trouve/internal/cache"
	"github.com/meublerie/trouve/internal/config"
	"github.com/meublerie/trouve/internal/expand"
	"github.com/meublerie/trouve/internal/fuzzy"
	"github.com/meublerie/trouve/internal/models"
	"github.com/meublerie/trouve/internal/ranking"
	"github.com/meublerie/trouve/internal/search"
	"github.com/meublerie/trouve/internal/storage"
	"github.com/meublerie/trouve/internal/synonym"
)

func newEngine(t *testing.T) (*search.Engine, *storage.SQLiteStore) {
	t.Helper()

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })

	logger := zap.NewNop()
	index := synonym.NewIndex(store, cache.New[*synonym.Snapshot](cfg.Search.SnapshotTTL), logger)
	expander := expand.NewExpander(index, cfg.Search.MaxTerms, logger)
	suggester := ranking.NewSuggester(store, cfg.Search.KeywordTTL, logger)
	matcher := fuzzy.NewMatcher(cfg.Search.FuzzyCacheSize)
	recorder := analytics.NewRecorder(store, false, cfg.Analytics.WriteTimeout, logger)
	return search.NewEngine(store, store, expander, suggester, matcher, recorder, &cfg.Search, logger), store
}

func seed(t *testing.T, store *storage.SQLiteStore) {
	t.Helper()
	ctx := context.Background()

	items := []*models.FurnitureItem{
		{Name: "Oslo Sofa", Categories: []models.Category{{Name: "Seating", Slug: "seating"}}},
		{Name: "Marlow Couch", Categories: []models.Category{{Name: "Seating", Slug: "seating"}}},
		{Name: "Fjord Bed Frame", Categories: []models.Category{{Name: "Bedroom", Slug: "bedroom"}}},
		{Name: "Oak Dining Table", Categories: []models.Category{{Name: "Tables", Slug: "tables"}}},
	}
	for _, item := range items {
		if err := store.CreateItem(ctx, item); err != nil {
			t.Fatal(err)
		}
	}

	synonyms := []*models.SynonymEntry{
		{Canonical: "sofa", Synonym: "couch", Weight: 0.9, Language: models.LangEN},
		{Canonical: "sofa", Synonym: "canape", Weight: 0.9, Language: models.LangFR},
	}
	for _, entry := range synonyms {
		if _, err := store.CreateSynonym(ctx, entry); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSearchExpandsSynonyms(t *testing.T) {
	engine, store := newEngine(t)
	seed(t, store)

	resp, err := engine.Search(context.Background(), &models.SearchRequest{Query: "sofa"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Pagination.Total != 2 {
		t.Errorf("total = %d, want 2 (sofa + couch)", resp.Pagination.Total)
	}
}

func TestLocaleGatesFrenchSynonyms(t *testing.T) {
	engine, store := newEngine(t)
	seed(t, store)
	ctx := context.Background()

	// English locale must not see the French canape mapping.
	resp, err := engine.Search(ctx, &models.SearchRequest{Query: "canape", Locale: models.LangEN})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Pagination.Total != 0 {
		t.Errorf("en locale: total = %d, want 0", resp.Pagination.Total)
	}

	resp, err = engine.Search(ctx, &models.SearchRequest{Query: "canape", Locale: models.LangFR})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Pagination.Total == 0 {
		t.Error("fr locale: expected canape to reach the sofa")
	}
}

func TestFrenchQueryTranslation(t *testing.T) {
	engine, store := newEngine(t)
	seed(t, store)

	resp, err := engine.Search(context.Background(), &models.SearchRequest{Query: "lit", Locale: models.LangFR})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Pagination.Total == 0 {
		t.Fatal("expected translated query to find the bed frame")
	}
	if resp.Meta == nil || resp.Meta.TranslatedQuery == "" {
		t.Errorf("expected translation meta, got %+v", resp.Meta)
	}
}

func TestZeroResultRemediation(t *testing.T) {
	engine, store := newEngine(t)
	seed(t, store)

	resp, err := engine.Search(context.Background(), &models.SearchRequest{Query: "soda"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Pagination.Total != 0 {
		t.Fatalf("total = %d, want 0", resp.Pagination.Total)
	}
	if resp.Meta == nil || resp.Meta.DidYouMean["soda"] != "sofa" {
		t.Errorf("expected did_you_mean soda->sofa, got %+v", resp.Meta)
	}
}

func TestSearchTypeReported(t *testing.T) {
	engine, store := newEngine(t)
	seed(t, store)

	resp, err := engine.Search(context.Background(), &models.SearchRequest{Query: "sofa"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Meta == nil {
		t.Fatal("expected meta")
	}
	want := models.SearchTypeLike
	if store.HasFullText(context.Background()) {
		want = models.SearchTypeFullText
	}
	if resp.Meta.SearchType != want {
		t.Errorf("SearchType = %q, want %q", resp.Meta.SearchType, want)
	}
}
