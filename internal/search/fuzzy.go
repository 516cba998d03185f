package search

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"unicode"
	"unicode/utf8"
)

// MatchSpan represents the inclusive [Start, End] range of a match in rune indexes.
type MatchSpan struct {
	Start int
	End   int
}

// MatchDetails exposes additional metadata about a fuzzy match.
// Start/End are rune indexes into the target text; TargetLength
// is the total rune length of the target text.
type MatchDetails struct {
	Start        int
	End          int
	TargetLength int
	MatchCount   int
	WordHits     int
	Spans        []MatchSpan
}

const (
	boundaryWord = 1 << iota
	boundaryStrong
)

// FuzzyMatcher performs fuzzy pattern matching
// Algorithm: Similar to fzf/sublime text
// Scoring:
//   - Consecutive characters: bonus per char
//   - Character at word boundary (uppercase/after /): bonus per char
//   - Non-consecutive: penalty per gap
//   - Contiguous substring, prefix and final path segment hits: flat bonuses
type FuzzyMatcher struct {
	consecutiveBonus        float64
	wordBoundaryBonus       float64
	charBonus               float64
	gapPenalty              float64
	substringBonus          float64
	prefixBonus             float64
	finalSegmentBonus       float64
	startPenaltyFactor      float64
	crossSegmentPenalty     float64
	wordHitBonus            float64
	substringBoundaryFactor float64
	substringInteriorFactor float64
}

// NewFuzzyMatcher creates a new fuzzy matcher with default settings
func NewFuzzyMatcher() *FuzzyMatcher {
	return &FuzzyMatcher{
		consecutiveBonus:        1.2,
		wordBoundaryBonus:       0.6,
		charBonus:               1.2,
		gapPenalty:              0.18,
		substringBonus:          1.2,
		prefixBonus:             2.4,
		finalSegmentBonus:       2.0,
		startPenaltyFactor:      0.012,
		crossSegmentPenalty:     0.9,
		wordHitBonus:            3.2,
		substringBoundaryFactor: 0.3,
		substringInteriorFactor: 0.15,
	}
}

var defaultFuzzyMatcher = NewFuzzyMatcher()

func patternHasUppercase(pattern string) bool {
	for _, r := range pattern {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// Match calculates match score between pattern and text
// Returns:
//   - score: 0.0 if no match, higher for better matches
//   - matched: true if all pattern characters are found in order
func (fm *FuzzyMatcher) Match(pattern, text string) (score float64, matched bool) {
	score, matched, _ = fm.MatchDetailed(pattern, text)
	return score, matched
}

// MatchDetailed returns the fuzzy match score together with the matched
// rune spans. Case sensitivity follows the pattern: any uppercase rune makes
// the match case sensitive.
func (fm *FuzzyMatcher) MatchDetailed(pattern, text string) (score float64, matched bool, details MatchDetails) {
	return fm.MatchDetailedWithMode(pattern, text, patternHasUppercase(pattern))
}

// MatchDetailedWithMode behaves like MatchDetailed but callers can control case sensitivity explicitly.
func (fm *FuzzyMatcher) MatchDetailedWithMode(pattern, text string, caseSensitive bool) (float64, bool, MatchDetails) {
	if pattern == "" {
		return 0, true, MatchDetails{
			Start:        0,
			End:          -1,
			TargetLength: utf8.RuneCountInString(text),
		}
	}

	scratch := acquireScratch()
	defer releaseScratch(scratch)
	scratch.pattern = decodeRunes(scratch.pattern, pattern, !caseSensitive)
	scratch.text = decodeRunes(scratch.text, text, !caseSensitive)

	score, matched, details, substringIdx := fm.matchWithRunes(scratch)
	if matched && fuzzyDebugEnabled() {
		fuzzyLogger().Debug("fuzzy match",
			"pattern", pattern, "text", text, "score", score,
			"start", details.Start, "end", details.End, "matches", details.MatchCount,
			"word_hits", details.WordHits, "substring", substringIdx, "case_sensitive", caseSensitive)
	}
	return score, matched, details
}

func (fm *FuzzyMatcher) matchWithRunes(scratch *matchScratch) (float64, bool, MatchDetails, int) {
	patternRunes, textRunes := scratch.pattern, scratch.text
	targetLen := len(textRunes)
	substringIdx := indexRunes(textRunes, patternRunes)

	var (
		baseScore float64
		matched   bool
		positions []int
		wordHits  int
	)

	if substringIdx != -1 {
		baseScore, wordHits = fm.contiguousMatchScore(patternRunes, textRunes, substringIdx)
		positions = make([]int, len(patternRunes))
		for i := range positions {
			positions[i] = substringIdx + i
		}
		matched = true
	} else {
		scratch.resetBoundaries(targetLen)
		baseScore, positions, wordHits, matched = fm.matchRunesDP(patternRunes, textRunes, scratch)
	}

	if !matched || len(positions) == 0 {
		return 0, false, MatchDetails{
			Start:        -1,
			End:          -1,
			TargetLength: targetLen,
		}, substringIdx
	}

	start := positions[0]
	end := positions[len(positions)-1]
	score := baseScore

	if substringIdx != -1 {
		substringBonus := fm.substringBonus
		if substringIdx > 0 {
			switch textRunes[substringIdx-1] {
			case '/', '\\':
				// keep full bonus
			case '-', '_', ' ', '.', ':':
				substringBonus *= fm.substringBoundaryFactor
			default:
				substringBonus *= fm.substringInteriorFactor
			}
		}
		score += substringBonus
		if substringIdx == 0 {
			score += fm.prefixBonus
		}
	}

	crossSegments := 0
	for _, r := range textRunes[start : end+1] {
		if r == '/' {
			crossSegments++
		}
	}
	score -= fm.crossSegmentPenalty * float64(crossSegments)

	lastSlash := -1
	for idx, r := range textRunes {
		if r == '/' {
			lastSlash = idx
		}
	}
	if lastSlash != -1 && start <= lastSlash {
		score -= fm.startPenaltyFactor * float64(lastSlash-start)
	}
	if lastSlash == -1 || start > lastSlash {
		score += fm.finalSegmentBonus
	}

	score += fm.wordHitBonus * float64(wordHits)

	return score, true, MatchDetails{
		Start:        start,
		End:          end,
		TargetLength: targetLen,
		MatchCount:   len(positions),
		WordHits:     wordHits,
		Spans:        spansFromPositions(positions),
	}, substringIdx
}

// matchRunesDP finds the best scoring placement of pattern inside text.
// The first pass is restricted to a beam around the active columns of the
// previous row, which keeps long paths cheap. When the beam loses the match
// (a gap wider than the beam) the DP is rerun over every column.
func (fm *FuzzyMatcher) matchRunesDP(pattern, text []rune, scratch *matchScratch) (float64, []int, int, bool) {
	if score, positions, wordHits, ok := fm.matchRunesWindowed(pattern, text, scratch, true); ok {
		return score, positions, wordHits, true
	}
	return fm.matchRunesWindowed(pattern, text, scratch, false)
}

func (fm *FuzzyMatcher) matchRunesWindowed(pattern, text []rune, scratch *matchScratch, beam bool) (float64, []int, int, bool) {
	m := len(pattern)
	n := len(text)
	if n == 0 || m > n {
		return 0, nil, 0, false
	}

	const dpBeamWidth = 96
	const dpBeamMargin = 48

	negInf := math.Inf(-1)
	scratch.resetDP(m, n)
	dpPrev := scratch.dpPrev
	dpCurr := scratch.dpCurr
	for j := range dpPrev {
		dpPrev[j] = negInf
	}
	backtrack := scratch.backtrack
	cols := n

	minActive := -1
	maxActive := -1
	for j := 0; j < n && n-j >= m; j++ {
		if pattern[0] != text[j] {
			continue
		}
		score := fm.charBonus
		if isWordBoundary(scratch, text, j) {
			score += fm.wordBoundaryBonus
		}
		score -= fm.gapPenalty * 0.02 * float64(j)
		dpPrev[j] = score
		if minActive == -1 {
			minActive = j
		}
		maxActive = j
	}
	if maxActive == -1 {
		return 0, nil, 0, false
	}

	for i := 1; i < m; i++ {
		for j := range dpCurr {
			dpCurr[j] = negInf
		}

		windowStart, windowEnd := 0, n-1
		if beam {
			windowStart = max(minActive-dpBeamWidth, 0)
			windowEnd = min(maxActive+dpBeamWidth, n-1)
		}

		// best carries the highest predecessor score seen so far, decayed by
		// the gap penalty for every column it is carried across.
		best := negInf
		bestIdx := -1
		nextMin, nextMax := -1, -1

		for j := windowStart; j <= windowEnd && n-j >= m-i; j++ {
			if bestIdx != -1 {
				best -= fm.gapPenalty
			}
			if j > 0 && dpPrev[j-1] > best {
				best = dpPrev[j-1]
				bestIdx = j - 1
			}
			if pattern[i] != text[j] || bestIdx == -1 || best <= negInf/2 {
				continue
			}

			charScore := fm.charBonus
			if isWordBoundary(scratch, text, j) {
				charScore += fm.wordBoundaryBonus
			}

			score := best + charScore
			prevIdx := bestIdx
			if bestIdx == j-1 {
				score += fm.consecutiveBonus
			}
			if j > 0 && dpPrev[j-1] > negInf/2 {
				if alt := dpPrev[j-1] + charScore + fm.consecutiveBonus; alt > score {
					score = alt
					prevIdx = j - 1
				}
			}

			dpCurr[j] = score
			backtrack[i*cols+j] = prevIdx
			if nextMin == -1 {
				nextMin = j
			}
			nextMax = j
		}

		dpPrev, dpCurr = dpCurr, dpPrev
		if nextMax == -1 {
			return 0, nil, 0, false
		}
		minActive = max(nextMin-dpBeamMargin, 0)
		maxActive = min(nextMax+dpBeamMargin, n-1)
	}

	bestEnd := maxIndex(dpPrev)
	if bestEnd == -1 {
		return 0, nil, 0, false
	}

	positions := make([]int, m)
	k := bestEnd
	for i := m - 1; i >= 0; i-- {
		positions[i] = k
		if i > 0 {
			k = backtrack[i*cols+k]
			if k < 0 {
				return 0, nil, 0, false
			}
		}
	}

	bestScore := dpPrev[bestEnd]
	if trailing := n - positions[m-1] - 1; trailing > 20 {
		bestScore -= fm.gapPenalty * 0.25 * float64((trailing-20)/10)
	}

	wordHits := 0
	for _, idx := range positions {
		if isStrongWordBoundary(scratch, text, idx) {
			wordHits++
		}
	}

	return bestScore, positions, wordHits, true
}

func (fm *FuzzyMatcher) contiguousMatchScore(patternRunes, textRunes []rune, start int) (float64, int) {
	score := 0.0
	wordHits := 0
	for i := range patternRunes {
		idx := start + i
		charScore := fm.charBonus
		if isWordBoundaryRune(textRunes, idx) {
			charScore += fm.wordBoundaryBonus
			if isStrongWordBoundaryRune(textRunes, idx) {
				wordHits++
			}
		}
		if i == 0 {
			charScore -= fm.gapPenalty * 0.02 * float64(idx)
		} else {
			charScore += fm.consecutiveBonus
		}
		score += charScore
	}

	end := start + len(patternRunes) - 1
	if trailing := len(textRunes) - end - 1; trailing > 20 {
		score -= fm.gapPenalty * 0.25 * float64((trailing-20)/10)
	}
	return score, wordHits
}

func spansFromPositions(positions []int) []MatchSpan {
	if len(positions) == 0 {
		return nil
	}
	spans := make([]MatchSpan, 0, 1)
	current := MatchSpan{Start: positions[0], End: positions[0]}
	for _, p := range positions[1:] {
		if p == current.End+1 {
			current.End = p
			continue
		}
		spans = append(spans, current)
		current = MatchSpan{Start: p, End: p}
	}
	return append(spans, current)
}

func maxIndex(values []float64) int {
	best := math.Inf(-1)
	bestIdx := -1
	for i, v := range values {
		if v > best {
			best = v
			bestIdx = i
		}
	}
	if bestIdx == -1 || best <= math.Inf(-1)/2 {
		return -1
	}
	return bestIdx
}

func isWordBoundary(scratch *matchScratch, text []rune, idx int) bool {
	return scratch.boundaryBits(text, idx)&boundaryWord != 0
}

func isStrongWordBoundary(scratch *matchScratch, text []rune, idx int) bool {
	return scratch.boundaryBits(text, idx)&boundaryStrong != 0
}

func isWordBoundaryRune(text []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	prev := text[idx-1]
	switch prev {
	case '/', '\\', '-', '_', ' ', '.', ':':
		return true
	}
	return isCaseOrLetterBoundary(prev, text[idx])
}

func isStrongWordBoundaryRune(text []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	prev := text[idx-1]
	switch prev {
	case '/', '\\', ' ', '-':
		return true
	case '_', '.', ':':
		return false
	}
	return isCaseOrLetterBoundary(prev, text[idx])
}

func isCaseOrLetterBoundary(prev, curr rune) bool {
	if !isLetterRune(prev) && isLetterRune(curr) {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(curr)
}

func isLetterRune(r rune) bool {
	if r <= unicode.MaxASCII {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	}
	return unicode.IsLetter(r)
}

func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
	if len(needle) > len(haystack) {
		return -1
	}
outer:
	for i := 0; i <= len(haystack)-len(needle); i++ {
		if haystack[i] != needle[0] {
			continue
		}
		for j := 1; j < len(needle); j++ {
			if haystack[i+j] != needle[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}

// matchScratch holds the buffers one match call needs. Instances are pooled
// so scoring a whole vault does not allocate per candidate.
type matchScratch struct {
	pattern []rune
	text    []rune

	// boundary bits per text rune, computed lazily; known marks valid entries
	flags []uint8
	known []bool

	dpPrev    []float64
	dpCurr    []float64
	backtrack []int
}

var scratchPool = sync.Pool{
	New: func() any { return new(matchScratch) },
}

func acquireScratch() *matchScratch {
	return scratchPool.Get().(*matchScratch)
}

func releaseScratch(s *matchScratch) {
	scratchPool.Put(s)
}

// decodeRunes appends the runes of src to dst[:0], lower-casing them when
// fold is set. Rune indexes of the result line up with rune indexes of src.
func decodeRunes(dst []rune, src string, fold bool) []rune {
	dst = dst[:0]
	for _, r := range src {
		if fold {
			r = foldRune(r)
		}
		dst = append(dst, r)
	}
	return dst
}

func foldRune(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + 'a' - 'A'
	}
	if r >= utf8.RuneSelf {
		return unicode.ToLower(r)
	}
	return r
}

func (s *matchScratch) resetBoundaries(n int) {
	if cap(s.flags) < n {
		s.flags = make([]uint8, n)
		s.known = make([]bool, n)
	}
	s.flags = s.flags[:n]
	s.known = s.known[:n]
	clear(s.known)
}

func (s *matchScratch) boundaryBits(text []rune, idx int) uint8 {
	if idx < 0 || idx >= len(s.flags) {
		return 0
	}
	if !s.known[idx] {
		var bits uint8
		if isWordBoundaryRune(text, idx) {
			bits |= boundaryWord
		}
		if isStrongWordBoundaryRune(text, idx) {
			bits |= boundaryStrong
		}
		s.flags[idx] = bits
		s.known[idx] = true
	}
	return s.flags[idx]
}

func (s *matchScratch) resetDP(rows, cols int) {
	if cap(s.dpPrev) < cols {
		s.dpPrev = make([]float64, cols)
		s.dpCurr = make([]float64, cols)
	}
	s.dpPrev = s.dpPrev[:cols]
	s.dpCurr = s.dpCurr[:cols]
	if need := rows * cols; cap(s.backtrack) < need {
		s.backtrack = make([]int, need)
	} else {
		s.backtrack = s.backtrack[:need]
	}
	for i := range s.backtrack {
		s.backtrack[i] = -1
	}
}

// Setting VAULTSEARCH_DEBUG_FUZZY=1 traces every successful match to stderr,
// or to VAULTSEARCH_DEBUG_FUZZY_FILE when set.
var (
	fuzzyDebugEnv    = os.Getenv("VAULTSEARCH_DEBUG_FUZZY") == "1"
	fuzzyDebugFile   = os.Getenv("VAULTSEARCH_DEBUG_FUZZY_FILE")
	fuzzyLoggerOnce  sync.Once
	fuzzyDebugLogger *slog.Logger
)

func fuzzyDebugEnabled() bool {
	return fuzzyDebugEnv
}

func fuzzyLogger() *slog.Logger {
	fuzzyLoggerOnce.Do(func() {
		var w io.Writer = os.Stderr
		if fuzzyDebugFile != "" {
			path, err := filepath.Abs(fuzzyDebugFile)
			if err == nil {
				var f *os.File
				if f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
					w = f
				}
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "fuzzy debug: %v\n", err)
			}
		}
		fuzzyDebugLogger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	})
	return fuzzyDebugLogger
}
