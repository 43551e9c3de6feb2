package ranking

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/meublerie/trouve/internal/models"
	"github.com/meublerie/trouve/internal/storage"
)

type fakeRecordStore struct {
	vocab []models.CategoryVocabulary
	err   error
	calls int
}

func (f *fakeRecordStore) HasFullText(context.Context) bool { return false }
func (f *fakeRecordStore) FindByFullText(context.Context, string, []string, storage.Page) ([]*models.FurnitureItem, int, error) {
	return nil, 0, nil
}
func (f *fakeRecordStore) FindBySubstring(context.Context, string, []string, storage.Page) ([]*models.FurnitureItem, int, error) {
	return nil, 0, nil
}
func (f *fakeRecordStore) AttachCategories(context.Context, []*models.FurnitureItem) error {
	return nil
}
func (f *fakeRecordStore) AttachTags(context.Context, []*models.FurnitureItem) error { return nil }
func (f *fakeRecordStore) CategoryVocabulary(context.Context) ([]models.CategoryVocabulary, error) {
	f.calls++
	return f.vocab, f.err
}
func (f *fakeRecordStore) SearchVocabulary(context.Context) ([]string, error) { return nil, nil }
func (f *fakeRecordStore) CreateItem(context.Context, *models.FurnitureItem) error {
	return nil
}

func testVocabulary() []models.CategoryVocabulary {
	return []models.CategoryVocabulary{
		{
			Category: models.Category{Name: "Seating", Slug: "seating"},
			Tags: []models.Tag{
				{Name: "Armchair", Slug: "armchair"},
				{Name: "Bar Stool", Slug: "bar-stool"},
			},
		},
		{
			Category: models.Category{Name: "Storage", Slug: "storage"},
			Tags: []models.Tag{
				{Name: "Bookcase", Slug: "bookcase"},
			},
		},
		{
			Category: models.Category{Name: "Outdoor Furniture", Slug: "outdoor"},
			Tags:     nil,
		},
	}
}

func newTestSuggester(store *fakeRecordStore) *Suggester {
	return NewSuggester(store, time.Minute, zap.NewNop())
}

func TestSuggestCategory(t *testing.T) {
	s := newTestSuggester(&fakeRecordStore{vocab: testVocabulary()})
	ctx := context.Background()

	tests := []struct {
		name     string
		query    string
		expected string
		ok       bool
	}{
		{"exact category name", "seating", "seating", true},
		{"tag word", "armchair", "seating", true},
		{"plural of category word", "bookcases", "storage", true},
		{"multi word tag", "bar stool", "seating", true},
		{"stop word stays silent", "the", "", false},
		{"unknown term", "xylophone", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug, ok := s.SuggestCategory(ctx, tt.query)
			if ok != tt.ok || slug != tt.expected {
				t.Errorf("SuggestCategory(%q) = %q, %v; want %q, %v", tt.query, slug, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestSuggestCategoryPrefixStripped(t *testing.T) {
	// "Outdoor Furniture": "furniture" is a stop word and must not index.
	s := newTestSuggester(&fakeRecordStore{vocab: testVocabulary()})
	if slug, ok := s.SuggestCategory(context.Background(), "furniture"); ok {
		t.Errorf("stop word suggested %q", slug)
	}
}

func TestSuggestCategoryTableCached(t *testing.T) {
	store := &fakeRecordStore{vocab: testVocabulary()}
	s := newTestSuggester(store)
	ctx := context.Background()

	s.SuggestCategory(ctx, "seating")
	s.SuggestCategory(ctx, "storage")
	if store.calls != 1 {
		t.Errorf("vocabulary loaded %d times, want 1 (cached)", store.calls)
	}

	s.Invalidate()
	s.SuggestCategory(ctx, "seating")
	if store.calls != 2 {
		t.Errorf("vocabulary loaded %d times after invalidation, want 2", store.calls)
	}
}

func TestSuggestCategoryStoreFailure(t *testing.T) {
	s := newTestSuggester(&fakeRecordStore{err: errors.New("unavailable")})
	if slug, ok := s.SuggestCategory(context.Background(), "seating"); ok {
		t.Errorf("suggestion %q despite store failure", slug)
	}
}
