// Package models defines the core domain types for the catalog search engine.
package models

import "time"

// FurnitureItem is a single catalog record.
type FurnitureItem struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Categories  []Category `json:"categories,omitempty"`
	Tags        []Tag      `json:"tags,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Category is a catalog category (e.g. "seating", "storage").
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Tag is a free-form label attached to catalog items.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CategoryVocabulary groups a category with the tags used on its items.
// It is the raw material for the category keyword table.
type CategoryVocabulary struct {
	Category Category `json:"category"`
	Tags     []Tag    `json:"tags"`
}
