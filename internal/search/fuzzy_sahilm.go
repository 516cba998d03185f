package search

import "github.com/sahilm/fuzzy"

// prepareSahilmSearch adapts github.com/sahilm/fuzzy to the Matcher contract.
// The library reports byte offsets, which are converted to rune spans here.
func prepareSahilmSearch(query string) Matcher {
	return func(text string) *SearchResult {
		if text == "" {
			return nil
		}
		found := fuzzy.Find(query, []string{text})
		if len(found) == 0 {
			return nil
		}
		m := found[0]
		return &SearchResult{
			Score:   float64(m.Score),
			Matches: spansFromPositions(byteToRuneIndexes(text, m.MatchedIndexes)),
		}
	}
}

func byteToRuneIndexes(text string, byteIdx []int) []int {
	if len(byteIdx) == 0 {
		return nil
	}
	out := make([]int, 0, len(byteIdx))
	next := 0
	runeIdx := 0
	for off := range text {
		if next >= len(byteIdx) {
			break
		}
		for next < len(byteIdx) && byteIdx[next] == off {
			out = append(out, runeIdx)
			next++
		}
		runeIdx++
	}
	return out
}
