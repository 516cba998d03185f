package search

import (
	"slices"
	"strings"
)

// SearchPaths fuzzy-matches query against every file's base name and path
// and keeps the files whose path matched, in input order.
func SearchPaths(query string, files []FileRecord) []FilePathSearchResultItem {
	return SearchPathsWith(query, files, FuzzyEngineNative)
}

// SearchPathsWith is SearchPaths with an explicit fuzzy engine.
func SearchPathsWith(query string, files []FileRecord, engine FuzzyEngine) []FilePathSearchResultItem {
	fuzzy := PrepareFuzzySearchWith(query, engine)
	items := make([]FilePathSearchResultItem, 0, len(files))
	for _, file := range files {
		items = append(items, FilePathSearchResultItem{
			File: file,
			Name: fuzzy(file.BaseName()),
			Path: fuzzy(file.Path),
		})
	}
	return slices.DeleteFunc(items, func(item FilePathSearchResultItem) bool {
		return item.Path == nil
	})
}

// SortPathResults orders items in place, best name match first, and returns
// the same slice. Items without a name match go last in their original
// order. Equal name scores fall back to the file name in byte order.
// The sort is stable, so sorting twice yields the same order.
func SortPathResults(items []FilePathSearchResultItem) []FilePathSearchResultItem {
	slices.SortStableFunc(items, comparePathResults)
	return items
}

func comparePathResults(a, b FilePathSearchResultItem) int {
	switch {
	case a.Name == nil && b.Name == nil:
		return 0
	case a.Name == nil:
		return 1
	case b.Name == nil:
		return -1
	}
	if a.Name.Score != b.Name.Score {
		if a.Name.Score > b.Name.Score {
			return -1
		}
		return 1
	}
	return strings.Compare(a.File.Name, b.File.Name)
}
