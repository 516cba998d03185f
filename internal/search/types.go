package search

import (
	fsutil "github.com/kk-code-lab/vaultsearch/internal/fs"
)

type FileRecord = fsutil.FileRecord

// ContentReader fetches file text by identifier. Implementations are
// supplied by the host.
type ContentReader = fsutil.ContentReader

type ContentReaderFunc = fsutil.ContentReaderFunc

// FilePathSearchResultItem is one hit of the fuzzy path pipeline. Path is
// never nil in results returned by SearchPaths. The pipeline never looks at
// content, so there is no field for it.
type FilePathSearchResultItem struct {
	File FileRecord
	Name *SearchResult
	Path *SearchResult
}

// FileSearchResultItem is one hit of the content pipeline. Content is nil for
// non-textual files and for files whose content did not match.
type FileSearchResultItem struct {
	File    FileRecord
	Name    *SearchResult
	Path    *SearchResult
	Content *SearchResult
}
