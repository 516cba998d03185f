package app

import (
	"github.com/kk-code-lab/vaultsearch/internal/search"
	"github.com/kk-code-lab/vaultsearch/internal/textutil"
)

const (
	highlightOpen   = "["
	highlightClose  = "]"
	pathColumnWidth = 48
	maxPathWidth    = 96
	maxSnippetWidth = 100
	snippetRadius   = 40
)

// renderPath highlights the matched runes of path and keeps its tail when it
// is too wide.
func renderPath(path string, match *search.SearchResult) string {
	if match != nil {
		path = search.Highlight(path, search.MergeMatchSpans(match.Matches), highlightOpen, highlightClose)
	}
	return textutil.TruncateLeft(textutil.SanitizeTerminalText(path), maxPathWidth)
}

// renderSnippet prints the context around the first content hit on one line.
func renderSnippet(text string, spans []search.MatchSpan) string {
	snippet, shifted := search.Snippet(text, spans, snippetRadius)
	snippet = search.Highlight(snippet, search.MergeMatchSpans(shifted), highlightOpen, highlightClose)
	return textutil.Truncate(textutil.SanitizeSnippet(snippet), maxSnippetWidth)
}
