package ranking

import (
	"testing"

	"github.com/meublerie/trouve/internal/models"
)

func item(name string, slugs ...string) *models.FurnitureItem {
	it := &models.FurnitureItem{Name: name}
	for _, s := range slugs {
		it.Categories = append(it.Categories, models.Category{Name: s, Slug: s})
	}
	return it
}

func TestBoostFor(t *testing.T) {
	tests := []struct {
		name     string
		item     *models.FurnitureItem
		active   string
		expected float64
	}{
		{"exact match", item("Sofa", "seating"), "seating", 1.5},
		{"related match", item("Sofa", "living-room"), "seating", 1.2},
		{"unrelated", item("Bed", "beds"), "outdoor", 1.0},
		{"no categories", item("Lamp"), "lighting", 1.0},
		// Boost is not cumulative: exact + related takes the max, not 1.5*1.2.
		{"exact beats related", item("Sofa", "seating", "living-room"), "seating", 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := boostFor(tt.item, tt.active); got != tt.expected {
				t.Errorf("boostFor = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestEnhanceResults(t *testing.T) {
	items := []*models.FurnitureItem{
		item("Zen Garden Bench", "outdoor"),
		item("Armchair", "seating"),
		item("Coffee Table", "living-room"),
		item("Bookcase", "storage"),
	}

	sorted := EnhanceResults(items, "seating")

	// Exact category first, then related, then the rest alphabetically.
	wantOrder := []string{"Armchair", "Coffee Table", "Bookcase", "Zen Garden Bench"}
	for i, want := range wantOrder {
		if sorted[i].Name != want {
			t.Errorf("position %d = %q, want %q (full order %v)", i, sorted[i].Name, want, names(sorted))
		}
	}
}

func TestEnhanceResultsNoFilter(t *testing.T) {
	items := []*models.FurnitureItem{item("B", "seating"), item("A", "beds")}
	sorted := EnhanceResults(items, "")
	if sorted[0].Name != "B" {
		t.Error("no active category: order must be preserved")
	}
}

func TestEnhanceResultsTieBreakByName(t *testing.T) {
	items := []*models.FurnitureItem{
		item("Wing Chair", "seating"),
		item("Club Chair", "seating"),
	}
	sorted := EnhanceResults(items, "seating")
	if sorted[0].Name != "Club Chair" {
		t.Errorf("equal boosts must tie-break by name, got %v", names(sorted))
	}
}

func names(items []*models.FurnitureItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}
