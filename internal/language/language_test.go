package language

import (
	"reflect"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{"empty", "", "en"},
		{"plain english", "modern sofa", "en"},
		{"english phrase", "large wooden bookcase for office", "en"},

		{"single dictionary word", "chaise", "fr"},
		{"diacritic word", "étagère", "fr"},
		{"stop word plus noun", "table de cuisine", "fr"},
		{"full french phrase", "une chaise pour le salon", "fr"},

		// "table" exists in both languages and is not in the dictionary,
		// so alone it stays English.
		{"ambiguous word", "table", "en"},
		{"english with cognate", "red table lamp shade cover", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.query); got != tt.expected {
				t.Errorf("Detect(%q) = %q, want %q", tt.query, got, tt.expected)
			}
		})
	}
}

func TestTranslateLocaleGate(t *testing.T) {
	// English locale: passthrough, no translation attempted.
	tr := Translate("chaise", "en")
	if tr.Translated != "chaise" || tr.OriginalLang != "en" {
		t.Errorf("en locale: got %+v, want passthrough", tr)
	}

	// French locale: same input translates.
	tr = Translate("chaise", "fr")
	if tr.Translated != "chair" || tr.OriginalLang != "fr" {
		t.Errorf("fr locale: got %+v, want chair/fr", tr)
	}
}

func TestTranslateQuery(t *testing.T) {
	tr := Translate("chaise moderne", "fr")
	if tr.Translated != "chair modern" {
		t.Errorf("Translated = %q, want %q", tr.Translated, "chair modern")
	}
	if tr.OriginalLang != "fr" {
		t.Errorf("OriginalLang = %q, want fr", tr.OriginalLang)
	}
	// Both translated and original French terms are retained.
	want := []string{"chair", "chaise", "modern", "moderne"}
	if !reflect.DeepEqual(tr.Terms, want) {
		t.Errorf("Terms = %v, want %v", tr.Terms, want)
	}
}

func TestTranslateUnmatchedWordsPassThrough(t *testing.T) {
	tr := Translate("chaise ikea", "fr")
	if tr.Translated != "chair ikea" {
		t.Errorf("Translated = %q, want %q", tr.Translated, "chair ikea")
	}
}

func TestTranslateEnglishQueryUnderFrenchLocale(t *testing.T) {
	tr := Translate("modern office desk lamp stand", "fr")
	if tr.OriginalLang != "en" {
		t.Errorf("OriginalLang = %q, want en for an English query", tr.OriginalLang)
	}
	if tr.Translated != "modern office desk lamp stand" {
		t.Errorf("Translated = %q, want passthrough", tr.Translated)
	}
}
