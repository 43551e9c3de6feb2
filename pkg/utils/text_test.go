package utils

import "testing"

func TestTruncate(t *testing.T) {
	if Truncate("hello", 10) != "hello" {
		t.Error("short string unchanged")
	}
	if Truncate("hello world", 5) != "hello..." {
		t.Errorf("got %s", Truncate("hello world", 5))
	}
	if Truncate("x", 0) != "x" {
		t.Error("maxLen 0 returns as-is")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Oak Dining Table", "oak-dining-table"},
		{"Chaise Longue (Velvet)", "chaise-longue-velvet"},
		{"  Sofa  ", "sofa"},
		{"L-Shaped Desk 2.0", "l-shaped-desk-2-0"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClamp01(t *testing.T) {
	if Clamp01(1.3) != 1 {
		t.Error("clamp above")
	}
	if Clamp01(-0.2) != 0 {
		t.Error("clamp below")
	}
	if Clamp01(0.4) != 0.4 {
		t.Error("in range unchanged")
	}
}
