// Package cli provides output formatting for the Trouve command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/meublerie/trouve/internal/discovery"
	"github.com/meublerie/trouve/internal/models"
	"github.com/meublerie/trouve/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat maps a flag value to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch s {
	case "text", "":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// WriteSearchResults writes a search response to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	}
	writeSearchResultsText(w, response)
	return nil
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	p := response.Pagination
	fmt.Fprintf(w, "\nFound %d results (page %d/%d)\n", p.Total, p.Page, p.TotalPages)
	if m := response.Meta; m != nil {
		if m.TranslatedQuery != "" {
			fmt.Fprintf(w, "Translated %q to %q\n", m.OriginalQuery, m.TranslatedQuery)
		}
		if len(m.SynonymsUsed) > 0 {
			fmt.Fprintf(w, "Also searched: %s\n", strings.Join(m.SynonymsUsed, ", "))
		}
		for from, to := range m.DidYouMean {
			fmt.Fprintf(w, "Did you mean %q instead of %q?\n", to, from)
		}
		if m.SuggestedCategory != "" {
			fmt.Fprintf(w, "Try browsing the %q category\n", m.SuggestedCategory)
		}
	}
	fmt.Fprintln(w)
	for _, item := range response.Items {
		writeOneItem(w, item)
	}
}

func writeOneItem(w io.Writer, item *models.FurnitureItem) {
	fmt.Fprintf(w, "  [%d] %s\n", item.ID, item.Name)
	if len(item.Categories) > 0 {
		names := make([]string, len(item.Categories))
		for i, c := range item.Categories {
			names[i] = c.Name
		}
		fmt.Fprintf(w, "      categories: %s\n", strings.Join(names, ", "))
	}
	if item.Description != "" {
		fmt.Fprintf(w, "      %s\n", utils.Truncate(item.Description, 120))
	}
}

// WriteSynonyms writes a synonym listing to w in the given format.
func WriteSynonyms(w io.Writer, entries []models.SynonymEntry, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	fmt.Fprintf(w, "%d synonyms\n", len(entries))
	for _, e := range entries {
		line := fmt.Sprintf("  [%d] %s -> %s (%.2f, %s)", e.ID, e.Canonical, e.Synonym, e.Weight, e.Language)
		if e.CategoryHint != "" {
			line += " category:" + e.CategoryHint
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

// WriteSuggestions writes discovery suggestions to w in the given format.
func WriteSuggestions(w io.Writer, suggestions []discovery.Suggestion, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(suggestions)
	}
	fmt.Fprintf(w, "%d suggestions\n", len(suggestions))
	for _, s := range suggestions {
		fmt.Fprintf(w, "  %s -> %s (confidence %.2f, %s, seen %d times)\n",
			s.Synonym, s.Canonical, s.Confidence, s.Source, s.Occurrences)
	}
	return nil
}
