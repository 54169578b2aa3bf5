package knowledge

import (
	"strings"
	"testing"
)

func TestFallbackMatchesTopics(t *testing.T) {
	cases := []struct {
		question string
		want     string
	}{
		{"What's your tech stack?", "tech stack"},
		{"Tell me about Nutrivize", "Nutrivize"},
		{"What experience does Isaac have?", "Full-Stack Developer"},
		{"How do I contact him?", "isaacmineo@gmail.com"},
	}
	for _, tc := range cases {
		got := Fallback(tc.question)
		if got == "" {
			t.Fatalf("fallback for %q is empty", tc.question)
		}
		if !strings.Contains(got, tc.want) {
			t.Fatalf("fallback for %q = %q, want it to mention %q", tc.question, got, tc.want)
		}
	}
}

func TestFallbackNeverEmpty(t *testing.T) {
	// Totally unmatched input rotates through generic introductions.
	seen := map[string]bool{}
	for i := 0; i < 6; i++ {
		got := Fallback("xyzzy plugh")
		if got == "" {
			t.Fatalf("fallback returned empty string on iteration %d", i)
		}
		seen[got] = true
	}
	if len(seen) < 2 {
		t.Fatalf("expected generic fallbacks to rotate, got %d distinct", len(seen))
	}
}

func TestKeywordSearch(t *testing.T) {
	kb, err := NewBase()
	if err != nil {
		t.Fatalf("NewBase: %v", err)
	}

	hits := kb.KeywordSearch("nutrition tracker", 3)
	if len(hits) == 0 {
		t.Fatalf("expected keyword hits for nutrition tracker")
	}
	found := false
	for _, hit := range hits {
		if strings.Contains(hit, "Nutrivize") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a Nutrivize passage, got %v", hits)
	}
}

func TestKeywordSearchNoMatch(t *testing.T) {
	kb, err := NewBase()
	if err != nil {
		t.Fatalf("NewBase: %v", err)
	}
	if hits := kb.KeywordSearch("zzzz qqqq", 3); len(hits) != 0 {
		t.Fatalf("expected no hits, got %v", hits)
	}
}
