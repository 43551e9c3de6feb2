package e2e

import "testing"

func TestBuildCorpus(t *testing.T) {
	corpus := BuildCorpus()
	if len(corpus.Items) == 0 {
		t.Fatal("corpus has no items")
	}
	if len(corpus.Synonyms) == 0 {
		t.Fatal("corpus has no synonyms")
	}
	if len(corpus.TestCases) == 0 {
		t.Fatal("corpus has no test cases")
	}

	names := make(map[string]bool)
	for _, item := range corpus.Items {
		if item.Name == "" {
			t.Error("item with empty name")
		}
		if names[item.Name] {
			t.Errorf("duplicate item name %q", item.Name)
		}
		names[item.Name] = true
	}

	for _, tc := range corpus.TestCases {
		if tc.Query == "" {
			t.Errorf("test case %q has empty query", tc.Description)
		}
		if len(tc.ExpectedSlugs) == 0 {
			t.Errorf("test case %q has no expected slugs", tc.Description)
		}
	}
}
