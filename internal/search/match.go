package search

import (
	"fmt"
	"strings"
)

// SearchResult is a successful match of a prepared query against one string.
// Scores are only comparable between results produced by the same query;
// higher is better.
type SearchResult struct {
	Score   float64
	Matches []MatchSpan
}

// Matcher applies a prepared query to a candidate string. A nil result means
// the candidate did not match.
type Matcher func(text string) *SearchResult

// FuzzyEngine selects the implementation behind PrepareFuzzySearchWith.
type FuzzyEngine string

const (
	// FuzzyEngineNative is the built-in DP scorer.
	FuzzyEngineNative FuzzyEngine = "native"
	// FuzzyEngineSahilm delegates to github.com/sahilm/fuzzy.
	FuzzyEngineSahilm FuzzyEngine = "sahilm"
)

// ParseFuzzyEngine maps a configuration value to an engine. The empty string
// selects the native engine.
func ParseFuzzyEngine(name string) (FuzzyEngine, error) {
	switch FuzzyEngine(strings.ToLower(strings.TrimSpace(name))) {
	case "", FuzzyEngineNative:
		return FuzzyEngineNative, nil
	case FuzzyEngineSahilm:
		return FuzzyEngineSahilm, nil
	default:
		return "", fmt.Errorf("%w: unknown fuzzy engine %q", ErrInvalidArgument, name)
	}
}

// isBlankQuery reports whether query carries no search terms. Blank queries
// match every candidate with a zero score and no spans, for every matcher.
func isBlankQuery(query string) bool {
	return strings.TrimSpace(query) == ""
}

func matchEverything(string) *SearchResult {
	return &SearchResult{}
}

// PrepareFuzzySearch returns a matcher that accepts candidates containing all
// query runes in order. A query with an uppercase rune is case sensitive.
func PrepareFuzzySearch(query string) Matcher {
	return PrepareFuzzySearchWith(query, FuzzyEngineNative)
}

// PrepareFuzzySearchWith is PrepareFuzzySearch with an explicit engine.
// Unknown engines fall back to the native one.
func PrepareFuzzySearchWith(query string, engine FuzzyEngine) Matcher {
	if isBlankQuery(query) {
		return matchEverything
	}
	if engine == FuzzyEngineSahilm {
		return prepareSahilmSearch(query)
	}

	fm := defaultFuzzyMatcher
	caseSensitive := patternHasUppercase(query)
	return func(text string) *SearchResult {
		if text == "" {
			return nil
		}
		score, matched, details := fm.MatchDetailedWithMode(query, text, caseSensitive)
		if !matched {
			return nil
		}
		return &SearchResult{Score: score, Matches: details.Spans}
	}
}
