package benchmark

import (
	"context"
	"fmt"
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
	"github.com/meublerie/trouve/internal/stemmer"
	"github.com/meublerie/trouve/internal/storage"
	"github.com/meublerie/trouve/internal/synonym"
)

func BenchmarkStem(b *testing.B) {
	words := []string{"tables", "benches", "shelves", "matching", "armchairs", "stopped"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = stemmer.Stem(words[i%len(words)])
	}
}

func BenchmarkLevenshtein(b *testing.B) {
	pairs := [][2]string{{"sofa", "soda"}, {"wardrobe", "wardrove"}, {"chaise", "chairs"}}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := pairs[i%len(pairs)]
		_ = fuzzy.Distance(p[0], p[1])
	}
}

func BenchmarkFindMatches(b *testing.B) {
	matcher := fuzzy.NewMatcher(100)
	vocabulary := make([]string, 0, 500)
	for i := 0; i < 500; i++ {
		vocabulary = append(vocabulary, fmt.Sprintf("term%03d", i))
	}
	vocabulary = append(vocabulary, "wardrobe", "sofa", "table")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		matcher.Reset()
		_ = matcher.FindMatches("wardrove", vocabulary, 5)
	}
}

func BenchmarkFindMatchesCached(b *testing.B) {
	matcher := fuzzy.NewMatcher(100)
	vocabulary := make([]string, 0, 500)
	for i := 0; i < 500; i++ {
		vocabulary = append(vocabulary, fmt.Sprintf("term%03d", i))
	}
	_ = matcher.FindMatches("wardrove", vocabulary, 5)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = matcher.FindMatches("wardrove", vocabulary, 5)
	}
}

func benchEngine(b *testing.B) *search.Engine {
	b.Helper()

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	store, err := storage.NewSQLiteStore(filepath.Join(b.TempDir(), "catalog.db"))
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	for i := 0; i < 200; i++ {
		item := &models.FurnitureItem{
			Name: fmt.Sprintf("Item %03d Sofa Variant", i),
			Categories: []models.Category{
				{Name: "Seating", Slug: "seating"},
			},
		}
		if err := store.CreateItem(ctx, item); err != nil {
			b.Fatal(err)
		}
	}
	if _, err := store.CreateSynonym(ctx, &models.SynonymEntry{
		Canonical: "sofa", Synonym: "couch", Weight: 0.9,
	}); err != nil {
		b.Fatal(err)
	}

	logger := zap.NewNop()
	index := synonym.NewIndex(store, cache.New[*synonym.Snapshot](cfg.Search.SnapshotTTL), logger)
	expander := expand.NewExpander(index, cfg.Search.MaxTerms, logger)
	suggester := ranking.NewSuggester(store, cfg.Search.KeywordTTL, logger)
	matcher := fuzzy.NewMatcher(cfg.Search.FuzzyCacheSize)
	recorder := analytics.NewRecorder(store, false, cfg.Analytics.WriteTimeout, logger)
	return search.NewEngine(store, store, expander, suggester, matcher, recorder, &cfg.Search, logger)
}

func BenchmarkSearch(b *testing.B) {
	engine := benchEngine(b)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Search(ctx, &models.SearchRequest{Query: "sofa"}); err != nil {
			b.Fatal(err)
		}
	}
}
