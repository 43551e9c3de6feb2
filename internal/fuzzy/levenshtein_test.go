package fuzzy

import "testing"

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{"identical empty", "", "", 0},
		{"identical word", "sofa", "sofa", 0},
		{"empty a", "", "chair", 5},
		{"empty b", "chair", "", 5},

		{"one substitution", "sofa", "soda", 1},
		{"one insertion", "sofa", "sofas", 1},
		{"one deletion", "chairs", "chair", 1},

		{"two edits", "stool", "steel", 2},
		{"kitten to sitting", "kitten", "sitting", 3},

		// Common catalog typos
		{"armoire typo", "armoire", "armoir", 1},
		{"wardrobe typo", "wardrobe", "wardrob", 1},
		{"cushion typo", "cushion", "cushon", 1},

		// Unicode (French accents count as one edit)
		{"accented", "café", "cafe", 1},
		{"etagere", "étagère", "etagere", 2},

		// Transpositions cost two in plain Levenshtein
		{"transposition", "ab", "ba", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if got != tt.expected {
				t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
			// Distance is symmetric.
			if rev := Distance(tt.b, tt.a); rev != got {
				t.Errorf("Distance(%q, %q) = %d, but reversed = %d", tt.a, tt.b, got, rev)
			}
		})
	}
}
