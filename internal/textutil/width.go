package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// DisplayWidth returns the number of terminal cells text occupies.
func DisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// Truncate shortens text to at most width cells, replacing the cut tail with
// an ellipsis. A non-positive width yields the empty string.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if DisplayWidth(text) <= width {
		return text
	}
	return runewidth.Truncate(text, width, ellipsis)
}

// TruncateLeft keeps the end of text, which is the informative part of a
// vault path, and marks the cut with a leading ellipsis.
func TruncateLeft(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if DisplayWidth(text) <= width {
		return text
	}
	budget := width - runewidth.StringWidth(ellipsis)
	if budget <= 0 {
		return Truncate(ellipsis, width)
	}
	runes := []rune(text)
	used := 0
	start := len(runes)
	for start > 0 {
		w := runewidth.RuneWidth(runes[start-1])
		if used+w > budget {
			break
		}
		used += w
		start--
	}
	var b strings.Builder
	b.WriteString(ellipsis)
	b.WriteString(string(runes[start:]))
	return b.String()
}

// PadRight pads text with spaces up to width cells. Wider text is returned
// unchanged.
func PadRight(text string, width int) string {
	if gap := width - DisplayWidth(text); gap > 0 {
		return text + strings.Repeat(" ", gap)
	}
	return text
}
