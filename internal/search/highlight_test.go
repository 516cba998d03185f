package search

import "testing"

func TestMergeMatchSpans(t *testing.T) {
	got := MergeMatchSpans([]MatchSpan{{0, 2}, {1, 4}, {5, 5}, {8, 9}})
	want := []MatchSpan{{0, 5}, {8, 9}}
	if !equalSpans(got, want) {
		t.Fatalf("MergeMatchSpans = %v, want %v", got, want)
	}
	if MergeMatchSpans(nil) != nil {
		t.Fatalf("expected nil for no spans")
	}
}

func TestHighlight(t *testing.T) {
	tests := []struct {
		text  string
		spans []MatchSpan
		want  string
	}{
		{"Alpha.md", []MatchSpan{{0, 1}}, "[Al]pha.md"},
		{"main.go", []MatchSpan{{0, 0}, {5, 6}}, "[m]ain.[go]"},
		{"zażółć", []MatchSpan{{2, 4}}, "za[żół]ć"},
		{"plain", nil, "plain"},
		{"abc", []MatchSpan{{1, 10}}, "a[bc]"},
	}
	for _, tt := range tests {
		if got := Highlight(tt.text, tt.spans, "[", "]"); got != tt.want {
			t.Errorf("Highlight(%q, %v) = %q, want %q", tt.text, tt.spans, got, tt.want)
		}
	}
}

func TestSnippet(t *testing.T) {
	text, spans := Snippet("the quick brown fox jumps", []MatchSpan{{10, 14}}, 4)
	if text != "ick brown fox" {
		t.Fatalf("snippet = %q", text)
	}
	if !equalSpans(spans, []MatchSpan{{4, 8}}) {
		t.Fatalf("spans = %v", spans)
	}

	if text, spans := Snippet("abc", nil, 3); text != "" || spans != nil {
		t.Fatalf("expected empty snippet without spans")
	}
}
