// Package ranking re-scores retrieved catalog items by category affinity
// and suggests categories for zero-result queries.
package ranking

import (
	"sort"
	"strings"

	"github.com/meublerie/trouve/internal/models"
)

// Boost multipliers. An item takes the single highest applicable
// multiplier; boosts never stack.
const (
	boostExactCategory   = 1.5
	boostRelatedCategory = 1.2
	boostNone            = 1.0
)

// relatedCategories is a fixed adjacency table between category slugs.
// Pure data; adjacency is looked up in both directions.
var relatedCategories = map[string][]string{
	"seating":     {"living-room", "office"},
	"tables":      {"dining-room", "living-room", "office"},
	"storage":     {"bedroom", "office", "hallway"},
	"beds":        {"bedroom"},
	"lighting":    {"living-room", "bedroom", "office"},
	"decor":       {"living-room", "bedroom"},
	"textiles":    {"bedroom", "living-room"},
	"outdoor":     {"garden", "terrace"},
	"kitchen":     {"dining-room"},
	"living-room": {"seating", "tables", "lighting", "decor", "textiles"},
	"bedroom":     {"beds", "storage", "textiles", "lighting"},
	"office":      {"seating", "tables", "storage"},
	"dining-room": {"tables", "kitchen"},
	"garden":      {"outdoor"},
}

// categoriesRelated reports whether two category slugs are adjacent.
func categoriesRelated(a, b string) bool {
	for _, rel := range relatedCategories[a] {
		if rel == b {
			return true
		}
	}
	for _, rel := range relatedCategories[b] {
		if rel == a {
			return true
		}
	}
	return false
}

// boostFor returns the multiplier for an item under an active category:
// exact category membership wins, then adjacency, else none. The maximum
// applicable multiplier is taken, never a product.
func boostFor(item *models.FurnitureItem, activeCategory string) float64 {
	boost := boostNone
	for _, cat := range item.Categories {
		slug := strings.ToLower(cat.Slug)
		switch {
		case slug == activeCategory:
			if boostExactCategory > boost {
				boost = boostExactCategory
			}
		case categoriesRelated(slug, activeCategory):
			if boostRelatedCategory > boost {
				boost = boostRelatedCategory
			}
		}
	}
	return boost
}

// EnhanceResults re-sorts items by category affinity with the active
// category: boost descending, then name ascending. The boost itself is
// transient and never leaves this function.
func EnhanceResults(items []*models.FurnitureItem, activeCategory string) []*models.FurnitureItem {
	activeCategory = strings.ToLower(strings.TrimSpace(activeCategory))
	if activeCategory == "" || len(items) == 0 {
		return items
	}

	boosts := make(map[*models.FurnitureItem]float64, len(items))
	for _, item := range items {
		boosts[item] = boostFor(item, activeCategory)
	}

	sorted := make([]*models.FurnitureItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if boosts[sorted[i]] != boosts[sorted[j]] {
			return boosts[sorted[i]] > boosts[sorted[j]]
		}
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})
	return sorted
}
