package models

import "time"

// Synonym languages.
const (
	LangEN = "en"
	LangFR = "fr"
)

// SynonymEntry maps a synonym term to its canonical form.
// A synonym belongs to exactly one canonical; a canonical may have many synonyms.
type SynonymEntry struct {
	ID           int64     `json:"id"`
	Canonical    string    `json:"canonical"`
	Synonym      string    `json:"synonym"`
	Weight       float64   `json:"weight"`
	Language     string    `json:"language"`
	CategoryHint string    `json:"category_hint,omitempty"`
	UsageCount   int       `json:"usage_count"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}
