package search

import "strings"

// MergeMatchSpans joins overlapping spans. The input must be sorted by Start.
func MergeMatchSpans(spans []MatchSpan) []MatchSpan {
	if len(spans) == 0 {
		return nil
	}
	merged := make([]MatchSpan, 0, len(spans))
	current := spans[0]
	for i := 1; i < len(spans); i++ {
		next := spans[i]
		if next.Start <= current.End+1 {
			if next.End > current.End {
				current.End = next.End
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	merged = append(merged, current)
	return merged
}

// Highlight wraps the runes of text covered by spans in open/close markers.
// Spans outside the text are ignored.
func Highlight(text string, spans []MatchSpan, open, close string) string {
	if len(spans) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + len(spans)*(len(open)+len(close)))

	next := 0
	inside := false
	idx := 0
	for _, r := range text {
		for next < len(spans) && spans[next].End < idx {
			next++
		}
		covered := next < len(spans) && spans[next].Start <= idx && idx <= spans[next].End
		if covered && !inside {
			b.WriteString(open)
			inside = true
		} else if !covered && inside {
			b.WriteString(close)
			inside = false
		}
		b.WriteRune(r)
		idx++
	}
	if inside {
		b.WriteString(close)
	}
	return b.String()
}

// Snippet returns up to radius runes of context on either side of the first
// span, with the spans shifted to the snippet's coordinates. Used to show
// content hits without printing whole files.
func Snippet(text string, spans []MatchSpan, radius int) (string, []MatchSpan) {
	if len(spans) == 0 {
		return "", nil
	}
	runes := []rune(text)
	start := max(spans[0].Start-radius, 0)
	end := min(spans[0].End+radius, len(runes)-1)
	if start > end {
		return "", nil
	}

	var shifted []MatchSpan
	for _, s := range spans {
		if s.End < start || s.Start > end {
			continue
		}
		shifted = append(shifted, MatchSpan{
			Start: max(s.Start, start) - start,
			End:   min(s.End, end) - start,
		})
	}
	return string(runes[start : end+1]), shifted
}
