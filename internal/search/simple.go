package search

import (
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldingTransformers are not safe for concurrent use, so each goroutine
// borrows its own chain.
var foldingPool = sync.Pool{
	New: func() any {
		return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), cases.Fold())
	},
}

// foldedText is a normalized copy of a string together with the rune index in
// the original string that produced every normalized rune.
type foldedText struct {
	runes  []rune
	origin []int
}

func foldText(s string) foldedText {
	out := foldedText{
		runes:  make([]rune, 0, len(s)),
		origin: make([]int, 0, len(s)),
	}

	var t transform.Transformer
	defer func() {
		if t != nil {
			foldingPool.Put(t)
		}
	}()

	idx := 0
	for _, r := range s {
		if r < utf8.RuneSelf {
			if r >= 'A' && r <= 'Z' {
				r += 'a' - 'A'
			}
			out.runes = append(out.runes, r)
			out.origin = append(out.origin, idx)
			idx++
			continue
		}

		if t == nil {
			t = foldingPool.Get().(transform.Transformer)
		}
		t.Reset()
		folded, _, err := transform.String(t, string(r))
		if err != nil {
			folded = string(unicode.ToLower(r))
		}
		for _, fr := range folded {
			out.runes = append(out.runes, fr)
			out.origin = append(out.origin, idx)
		}
		idx++
	}
	return out
}

// PrepareSimpleSearch returns a matcher for near-literal search. The query is
// split on whitespace and every word must occur in the candidate. Matching
// ignores case and diacritics. Every occurrence of every word is reported in
// the spans; the score is the negated rune offset of the earliest hit, so
// candidates that match sooner rank higher.
func PrepareSimpleSearch(query string) Matcher {
	if isBlankQuery(query) {
		return matchEverything
	}

	var words [][]rune
	for _, field := range strings.Fields(query) {
		folded := foldText(field)
		if len(folded.runes) > 0 {
			words = append(words, folded.runes)
		}
	}
	if len(words) == 0 {
		// query made only of combining marks
		return matchEverything
	}

	return func(text string) *SearchResult {
		if text == "" {
			return nil
		}
		haystack := foldText(text)

		var spans []MatchSpan
		first := -1
		for _, word := range words {
			found := false
			for from := 0; from+len(word) <= len(haystack.runes); {
				idx := indexRunes(haystack.runes[from:], word)
				if idx == -1 {
					break
				}
				idx += from
				span := MatchSpan{
					Start: haystack.origin[idx],
					End:   haystack.origin[idx+len(word)-1],
				}
				spans = append(spans, span)
				if first == -1 || span.Start < first {
					first = span.Start
				}
				found = true
				from = idx + len(word)
			}
			if !found {
				return nil
			}
		}

		slices.SortFunc(spans, func(a, b MatchSpan) int {
			if a.Start != b.Start {
				return a.Start - b.Start
			}
			return a.End - b.End
		})
		return &SearchResult{
			Score:   -float64(first),
			Matches: MergeMatchSpans(spans),
		}
	}
}
