package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/meublerie/trouve/internal/discovery"
	"github.com/meublerie/trouve/internal/models"
)

func sampleResponse() *models.SearchResponse {
	return &models.SearchResponse{
		Items: []*models.FurnitureItem{
			{ID: 1, Name: "Oslo Sofa", Categories: []models.Category{{Name: "Seating"}}},
			{ID: 2, Name: "Velvet Couch"},
		},
		Pagination: models.Pagination{Page: 1, PerPage: 24, Total: 2, TotalPages: 1},
		Meta: &models.SearchMeta{
			OriginalQuery: "sofa",
			SynonymsUsed:  []string{"couch"},
			SearchType:    models.SearchTypeFullText,
		},
	}
}

func TestWriteSearchResultsText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Found 2 results", "Also searched: couch", "Oslo Sofa", "Seating"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSearchResultsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.SearchResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Items) != 2 {
		t.Errorf("decoded items = %d, want 2", len(decoded.Items))
	}
}

func TestWriteSearchResultsDidYouMean(t *testing.T) {
	resp := &models.SearchResponse{
		Items:      []*models.FurnitureItem{},
		Pagination: models.Pagination{Page: 1, PerPage: 24},
		Meta:       &models.SearchMeta{DidYouMean: map[string]string{"solfa": "sofa"}},
	}
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `Did you mean "sofa"`) {
		t.Errorf("missing did-you-mean line:\n%s", buf.String())
	}
}

func TestWriteSynonyms(t *testing.T) {
	entries := []models.SynonymEntry{
		{ID: 1, Canonical: "sofa", Synonym: "couch", Weight: 0.9, Language: "en"},
	}
	var buf bytes.Buffer
	if err := WriteSynonyms(&buf, entries, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "sofa -> couch") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestWriteSuggestions(t *testing.T) {
	suggestions := []discovery.Suggestion{
		{Canonical: "sofa", Synonym: "divan", Confidence: 0.8, Source: "zero_results", Occurrences: 5},
	}
	var buf bytes.Buffer
	if err := WriteSuggestions(&buf, suggestions, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "divan -> sofa") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestParseOutputFormat(t *testing.T) {
	if f, err := ParseOutputFormat("json"); err != nil || f != OutputJSON {
		t.Errorf("json: got %v, %v", f, err)
	}
	if f, err := ParseOutputFormat(""); err != nil || f != OutputText {
		t.Errorf("empty: got %v, %v", f, err)
	}
	if _, err := ParseOutputFormat("yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
