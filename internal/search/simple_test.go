package search

import "testing"

func TestPrepareSimpleSearch(t *testing.T) {
	tests := []struct {
		name  string
		query string
		text  string
		spans []MatchSpan // nil means no match expected
		score float64
	}{
		{"case insensitive", "hello", "Say Hello world", []MatchSpan{{4, 8}}, -4},
		{"diacritics ignored", "cafe", "Café au lait", []MatchSpan{{0, 3}}, 0},
		{"folded query", "CAFÉ", "a cafe", []MatchSpan{{2, 5}}, -2},
		{"sharp s folds to ss", "strasse", "Straße", []MatchSpan{{0, 5}}, 0},
		{"every occurrence", "ab", "ab ab", []MatchSpan{{0, 1}, {3, 4}}, 0},
		{"words in any order", "world hello", "hello world", []MatchSpan{{0, 4}, {6, 10}}, 0},
		{"all words required", "hello moon", "hello world", nil, 0},
		{"not a subsequence matcher", "hlo", "hello", nil, 0},
		{"empty candidate", "x", "", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := PrepareSimpleSearch(tt.query)(tt.text)
			if tt.spans == nil {
				if res != nil {
					t.Fatalf("expected no match, got %+v", res)
				}
				return
			}
			if res == nil {
				t.Fatalf("expected match for %q in %q", tt.query, tt.text)
			}
			if !equalSpans(res.Matches, tt.spans) {
				t.Fatalf("spans = %v, want %v", res.Matches, tt.spans)
			}
			if res.Score != tt.score {
				t.Fatalf("score = %v, want %v", res.Score, tt.score)
			}
		})
	}
}

func TestPrepareSimpleSearchEarlierHitScoresHigher(t *testing.T) {
	match := PrepareSimpleSearch("note")
	early := match("note: later text")
	late := match("some text then a note")
	if early == nil || late == nil {
		t.Fatalf("expected both candidates to match")
	}
	if early.Score <= late.Score {
		t.Fatalf("early hit (%v) should outrank late hit (%v)", early.Score, late.Score)
	}
}

func TestPrepareSimpleSearchDeterministic(t *testing.T) {
	match := PrepareSimpleSearch("żółw")
	a := match("Mój Żółw i jeszcze jeden żółw")
	b := match("Mój Żółw i jeszcze jeden żółw")
	if a == nil || b == nil {
		t.Fatalf("expected match")
	}
	if a.Score != b.Score || !equalSpans(a.Matches, b.Matches) {
		t.Fatalf("results differ: %+v vs %+v", a, b)
	}
}
