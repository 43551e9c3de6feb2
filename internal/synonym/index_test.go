package synonym

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/meublerie/trouve/internal/cache"
	"github.com/meublerie/trouve/internal/models"
)

// fakeSynonymStore implements storage.SynonymStore for tests.
type fakeSynonymStore struct {
	entries []models.SynonymEntry
	err     error
	calls   int
}

func (f *fakeSynonymStore) ListActiveSynonyms(_ context.Context, locale string) ([]models.SynonymEntry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.SynonymEntry
	for _, e := range f.entries {
		if locale == models.LangEN && e.Language == models.LangFR {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeSynonymStore) IncrementUsage(context.Context, string) error { return nil }
func (f *fakeSynonymStore) CreateSynonym(context.Context, *models.SynonymEntry) (int64, error) {
	return 0, nil
}
func (f *fakeSynonymStore) UpdateSynonym(context.Context, *models.SynonymEntry) error { return nil }
func (f *fakeSynonymStore) DeleteSynonym(context.Context, int64) error                { return nil }

func testEntries() []models.SynonymEntry {
	return []models.SynonymEntry{
		{Canonical: "sofa", Synonym: "couch", Weight: 0.9, Language: "en", Active: true},
		{Canonical: "sofa", Synonym: "settee", Weight: 0.8, Language: "en", Active: true},
		{Canonical: "sofa", Synonym: "divan", Weight: 0.7, Language: "en", CategoryHint: "seating", Active: true},
		{Canonical: "wardrobe", Synonym: "armoire", Weight: 0.9, Language: "fr", Active: true},
		{Canonical: "sofa", Synonym: "chesterfield", Weight: 0.9, Language: "en", Active: false},
	}
}

func newTestIndex(store *fakeSynonymStore) *Index {
	return NewIndex(store, cache.New[*Snapshot](time.Minute), zap.NewNop())
}

func TestBuildSymmetry(t *testing.T) {
	snap := Build(testEntries())

	// Every reverse mapping must appear in the forward index.
	for syn, canonical := range snap.Reverse {
		found := false
		for _, s := range snap.Forward[canonical] {
			if s == syn {
				found = true
			}
		}
		if !found {
			t.Errorf("reverse[%q] = %q but %q not in forward[%q]", syn, canonical, syn, canonical)
		}
	}

	if _, ok := snap.Reverse["chesterfield"]; ok {
		t.Error("inactive entry leaked into the snapshot")
	}
}

func TestExpandForward(t *testing.T) {
	idx := newTestIndex(&fakeSynonymStore{entries: testEntries()})
	terms, weights := idx.Expand(context.Background(), "sofa", "en", "")

	if terms[0] != "sofa" || weights["sofa"] != 1.0 {
		t.Fatalf("original term must come first at weight 1.0, got %v %v", terms, weights)
	}
	if weights["couch"] != 0.9 {
		t.Errorf("weights[couch] = %v, want 0.9", weights["couch"])
	}
	if weights["settee"] != 0.8 {
		t.Errorf("weights[settee] = %v, want 0.8", weights["settee"])
	}
}

func TestExpandReverse(t *testing.T) {
	idx := newTestIndex(&fakeSynonymStore{entries: testEntries()})
	terms, weights := idx.Expand(context.Background(), "couch", "en", "")

	if weights["sofa"] != 0.95 {
		t.Errorf("canonical weight = %v, want 0.95", weights["sofa"])
	}
	// Siblings come in at their own weights.
	if weights["settee"] != 0.8 {
		t.Errorf("sibling weight = %v, want 0.8", weights["settee"])
	}
	// The input term is never repeated.
	count := 0
	for _, term := range terms {
		if term == "couch" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("couch appears %d times, want 1", count)
	}
}

func TestExpandCategoryBoost(t *testing.T) {
	idx := newTestIndex(&fakeSynonymStore{entries: testEntries()})

	_, plain := idx.Expand(context.Background(), "sofa", "en", "")
	_, boosted := idx.Expand(context.Background(), "sofa", "en", "seating")

	if plain["divan"] != 0.7 {
		t.Fatalf("unboosted divan = %v, want 0.7", plain["divan"])
	}
	want := 0.7 * 1.15
	if diff := boosted["divan"] - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("boosted divan = %v, want %v", boosted["divan"], want)
	}
	// Terms without a matching hint are untouched.
	if boosted["couch"] != 0.9 {
		t.Errorf("couch with non-matching hint = %v, want 0.9", boosted["couch"])
	}
}

func TestExpandStemming(t *testing.T) {
	idx := newTestIndex(&fakeSynonymStore{entries: testEntries()})
	_, weights := idx.Expand(context.Background(), "sofas", "en", "")

	if weights["sofa"] != 0.85 {
		t.Errorf("stem weight = %v, want 0.85", weights["sofa"])
	}
	// The stem's own synonyms come in discounted.
	want := 0.9 * 0.9
	if diff := weights["couch"] - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("stem synonym couch = %v, want %v", weights["couch"], want)
	}
}

func TestExpandLocaleGate(t *testing.T) {
	idx := newTestIndex(&fakeSynonymStore{entries: testEntries()})

	// English locale does not see French rows.
	_, en := idx.Expand(context.Background(), "wardrobe", "en", "")
	if _, ok := en["armoire"]; ok {
		t.Error("French synonym visible under English locale")
	}

	// French locale sees both.
	idx2 := newTestIndex(&fakeSynonymStore{entries: testEntries()})
	_, fr := idx2.Expand(context.Background(), "wardrobe", "fr", "")
	if fr["armoire"] != 0.9 {
		t.Errorf("armoire under fr locale = %v, want 0.9", fr["armoire"])
	}
}

func TestExpandStoreFailureDegrades(t *testing.T) {
	idx := newTestIndex(&fakeSynonymStore{err: errors.New("table missing")})
	terms, weights := idx.Expand(context.Background(), "sofa", "en", "")

	if len(terms) != 1 || terms[0] != "sofa" || weights["sofa"] != 1.0 {
		t.Errorf("expected bare passthrough on store failure, got %v %v", terms, weights)
	}
}

func TestSnapshotCached(t *testing.T) {
	store := &fakeSynonymStore{entries: testEntries()}
	idx := newTestIndex(store)

	ctx := context.Background()
	idx.Expand(ctx, "sofa", "en", "")
	idx.Expand(ctx, "couch", "en", "")
	if store.calls != 1 {
		t.Errorf("store queried %d times, want 1 (cached)", store.calls)
	}

	idx.Invalidate()
	idx.Expand(ctx, "sofa", "en", "")
	if store.calls != 2 {
		t.Errorf("store queried %d times after invalidation, want 2", store.calls)
	}
}
