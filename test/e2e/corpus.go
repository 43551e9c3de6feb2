// Package e2e provides end-to-end tests over the HTTP API with a realistic
// catalog and multiple query scenarios.
package e2e

import (
	"fmt"

	"github.com/meublerie/trouve/internal/models"
)

// QueryTestCase defines a query and the item slug(s) that must appear in
// the results. At least one of ExpectedSlugs must be present.
type QueryTestCase struct {
	Query         string
	Locale        string
	Category      string
	ExpectedSlugs []string
	Description   string
}

// Corpus holds catalog items, synonym seed entries and query test cases.
type Corpus struct {
	Items     []*models.FurnitureItem
	Synonyms  []*models.SynonymEntry
	TestCases []QueryTestCase
}

// BuildCorpus returns a catalog of furniture spanning the main categories,
// a curated synonym set, and query cases covering direct, synonym, stem,
// typo and French scenarios.
func BuildCorpus() *Corpus {
	return &Corpus{
		Items:     buildItems(),
		Synonyms:  buildSynonyms(),
		TestCases: buildQueryTestCases(),
	}
}

func buildItems() []*models.FurnitureItem {
	seating := models.Category{Name: "Seating", Slug: "seating"}
	tables := models.Category{Name: "Tables", Slug: "tables"}
	storage := models.Category{Name: "Storage", Slug: "storage"}
	bedroom := models.Category{Name: "Bedroom", Slug: "bedroom"}
	lighting := models.Category{Name: "Lighting", Slug: "lighting"}

	items := []*models.FurnitureItem{
		{Name: "Oslo Sofa", Description: "Three-seat sofa with oak legs.", Categories: []models.Category{seating},
			Tags: []models.Tag{{Name: "three seater"}, {Name: "fabric"}}},
		{Name: "Marlow Velvet Couch", Description: "Deep green velvet couch.", Categories: []models.Category{seating},
			Tags: []models.Tag{{Name: "velvet"}, {Name: "two seater"}}},
		{Name: "Brittany Armchair", Description: "Wingback armchair in linen.", Categories: []models.Category{seating},
			Tags: []models.Tag{{Name: "wingback"}, {Name: "linen"}}},
		{Name: "Oak Dining Table", Description: "Solid oak table seating six.", Categories: []models.Category{tables},
			Tags: []models.Tag{{Name: "dining"}, {Name: "oak"}}},
		{Name: "Walnut Writing Desk", Description: "Compact desk with two drawers.", Categories: []models.Category{tables},
			Tags: []models.Tag{{Name: "desk"}, {Name: "walnut"}}},
		{Name: "Round Coffee Table", Description: "Low round table in ash.", Categories: []models.Category{tables},
			Tags: []models.Tag{{Name: "coffee table"}, {Name: "ash"}}},
		{Name: "Haywood Bookcase", Description: "Five-shelf bookcase in pine.", Categories: []models.Category{storage},
			Tags: []models.Tag{{Name: "shelves"}, {Name: "pine"}}},
		{Name: "Camden Wardrobe", Description: "Two-door wardrobe with mirror.", Categories: []models.Category{storage, bedroom},
			Tags: []models.Tag{{Name: "wardrobe"}, {Name: "mirror"}}},
		{Name: "Fjord Bed Frame", Description: "King size bed frame in beech.", Categories: []models.Category{bedroom},
			Tags: []models.Tag{{Name: "king size"}, {Name: "beech"}}},
		{Name: "Aster Floor Lamp", Description: "Adjustable floor lamp in brass.", Categories: []models.Category{lighting},
			Tags: []models.Tag{{Name: "floor lamp"}, {Name: "brass"}}},
		{Name: "Luna Pendant Light", Description: "Frosted glass pendant.", Categories: []models.Category{lighting},
			Tags: []models.Tag{{Name: "pendant"}, {Name: "glass"}}},
		{Name: "Nomad Ottoman", Description: "Storage ottoman in boucle.", Categories: []models.Category{seating, storage},
			Tags: []models.Tag{{Name: "ottoman"}, {Name: "boucle"}}},
	}
	for i, item := range items {
		item.ImageURL = fmt.Sprintf("https://img.example.com/items/%d.jpg", i+1)
	}
	return items
}

func buildSynonyms() []*models.SynonymEntry {
	return []*models.SynonymEntry{
		{Canonical: "sofa", Synonym: "couch", Weight: 0.9, Language: models.LangEN, CategoryHint: "seating"},
		{Canonical: "sofa", Synonym: "settee", Weight: 0.85, Language: models.LangEN, CategoryHint: "seating"},
		{Canonical: "wardrobe", Synonym: "armoire", Weight: 0.9, Language: models.LangEN},
		{Canonical: "desk", Synonym: "writing table", Weight: 0.85, Language: models.LangEN},
		{Canonical: "lamp", Synonym: "light", Weight: 0.8, Language: models.LangEN},
		{Canonical: "sofa", Synonym: "canape", Weight: 0.9, Language: models.LangFR},
	}
}

func buildQueryTestCases() []QueryTestCase {
	return []QueryTestCase{
		{Query: "sofa", ExpectedSlugs: []string{"oslo-sofa", "marlow-velvet-couch"},
			Description: "direct match plus synonym expansion to couch"},
		{Query: "couch", ExpectedSlugs: []string{"oslo-sofa"},
			Description: "reverse synonym pulls in the canonical"},
		{Query: "armoire", ExpectedSlugs: []string{"camden-wardrobe"},
			Description: "synonym-only vocabulary hit"},
		{Query: "desks", ExpectedSlugs: []string{"walnut-writing-desk"},
			Description: "plural stems to singular"},
		{Query: "oak table", ExpectedSlugs: []string{"oak-dining-table"},
			Description: "multi-word phrase"},
		{Query: "lamp", ExpectedSlugs: []string{"aster-floor-lamp", "luna-pendant-light"},
			Description: "synonym expansion to light"},
		{Query: "canape", Locale: "fr", ExpectedSlugs: []string{"oslo-sofa"},
			Description: "French synonym visible under fr locale"},
		{Query: "lit", Locale: "fr", ExpectedSlugs: []string{"fjord-bed-frame"},
			Description: "French query translated to bed"},
		{Query: "sofa", Category: "seating", ExpectedSlugs: []string{"oslo-sofa"},
			Description: "category boost reorders seating matches first"},
	}
}
