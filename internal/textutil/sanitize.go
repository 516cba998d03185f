package textutil

import "strings"

// invisibleRunes are bidi controls and zero-width characters that can make a
// file name or note line display differently from its bytes. They are shown
// as ⟪NAME⟫ instead.
var invisibleRunes = map[rune]string{
	0x00AD: "SHY", 0x061C: "ALM", 0x180E: "MVS",
	0x200B: "ZWSP", 0x200C: "ZWNJ", 0x200D: "ZWJ", 0x200E: "LRM", 0x200F: "RLM",
	0x2028: "LSEP", 0x2029: "PSEP",
	0x202A: "LRE", 0x202B: "RLE", 0x202C: "PDF", 0x202D: "LRO", 0x202E: "RLO",
	0x2060: "WJ", 0x2066: "LRI", 0x2067: "RLI", 0x2068: "FSI", 0x2069: "PDI",
	0x206A: "ISS", 0x206B: "ASS", 0x206C: "IAFS", 0x206D: "AAFS", 0x206E: "NADS", 0x206F: "NODS",
	0xFEFF: "BOM",
}

// SanitizeTerminalText replaces control characters so vault file names and
// content snippets cannot inject terminal escape sequences when printed.
// Line breaks and tabs become spaces so every hit stays on one output line.
func SanitizeTerminalText(text string) string {
	if strings.IndexFunc(text, needsReplacement) < 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if name, ok := invisibleRunes[r]; ok {
			b.WriteString("⟪" + name + "⟫")
			continue
		}
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			b.WriteByte(' ')
		case r < 0x20 || r == 0x7f:
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func needsReplacement(r rune) bool {
	if _, ok := invisibleRunes[r]; ok {
		return true
	}
	return r < 0x20 || r == 0x7f
}

// SanitizeSnippet sanitizes text and collapses runs of blanks into a single
// space. Leading and trailing blanks are dropped.
func SanitizeSnippet(text string) string {
	return strings.Join(strings.Fields(SanitizeTerminalText(text)), " ")
}
