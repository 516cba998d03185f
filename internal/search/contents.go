package search

import (
	"context"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultTextTypes lists the extensions whose content is read by default.
var DefaultTextTypes = []string{"md"}

// Strategy decides how the per-file work of a content search is scheduled.
// Implementations must call visit once for every index in [0, n) unless an
// error stops them, and return the first error seen.
type Strategy interface {
	Each(ctx context.Context, n int, visit func(ctx context.Context, i int) error) error
}

type sequentialStrategy struct{}

// Sequential processes files one after another in input order. Total latency
// is the sum of the individual reads.
func Sequential() Strategy {
	return sequentialStrategy{}
}

func (sequentialStrategy) Each(ctx context.Context, n int, visit func(context.Context, int) error) error {
	for i := 0; i < n; i++ {
		if err := visit(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

type concurrentStrategy struct {
	workers int
}

// Concurrent processes up to workers files at a time. The first failure
// cancels the remaining reads. Non-positive workers means one.
func Concurrent(workers int) Strategy {
	return concurrentStrategy{workers: max(workers, 1)}
}

func (c concurrentStrategy) Each(ctx context.Context, n int, visit func(context.Context, int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return visit(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// ContentSearcher runs the simple content pipeline: name, path and, for
// textual files, content are matched with PrepareSimpleSearch.
type ContentSearcher struct {
	reader    ContentReader
	strategy  Strategy
	textTypes map[string]struct{}
	timeout   time.Duration
}

// ContentOption configures a ContentSearcher.
type ContentOption func(*ContentSearcher)

// WithStrategy replaces the default sequential strategy.
func WithStrategy(s Strategy) ContentOption {
	return func(cs *ContentSearcher) {
		if s != nil {
			cs.strategy = s
		}
	}
}

// WithTextTypes sets the extensions (without dot) treated as textual.
func WithTextTypes(exts ...string) ContentOption {
	return func(cs *ContentSearcher) {
		cs.textTypes = extensionSet(exts)
	}
}

// WithTimeout bounds every Search call. Zero disables the bound.
func WithTimeout(d time.Duration) ContentOption {
	return func(cs *ContentSearcher) {
		cs.timeout = d
	}
}

// NewContentSearcher builds a searcher reading through reader.
func NewContentSearcher(reader ContentReader, opts ...ContentOption) *ContentSearcher {
	cs := &ContentSearcher{
		reader:    reader,
		strategy:  Sequential(),
		textTypes: extensionSet(DefaultTextTypes),
	}
	for _, opt := range opts {
		opt(cs)
	}
	return cs
}

func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			set[ext] = struct{}{}
		}
	}
	return set
}

// IsTextual reports whether the searcher reads the content of file.
func (cs *ContentSearcher) IsTextual(file FileRecord) bool {
	return file.HasExtension(cs.textTypes)
}

// Search returns the files whose name or content matches query, in input
// order. A path match alone does not keep a file. Any failed read aborts the
// whole search with a *ContentReadError; a cancelled or expired context stops
// further reads and makes the search return the context error.
func (cs *ContentSearcher) Search(ctx context.Context, query string, files []FileRecord) ([]FileSearchResultItem, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cs.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cs.timeout)
		defer cancel()
	}

	search := PrepareSimpleSearch(query)
	items := make([]FileSearchResultItem, len(files))

	err := cs.strategy.Each(ctx, len(files), func(ctx context.Context, i int) error {
		file := files[i]
		item := FileSearchResultItem{
			File: file,
			Name: search(file.Name),
			Path: search(file.Path),
		}
		if cs.IsTextual(file) {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := cs.reader.ReadContent(ctx, file.ID)
			if err != nil {
				return &ContentReadError{FileID: file.ID, Err: err}
			}
			item.Content = search(content)
		}
		items[i] = item
		return nil
	})
	if err == nil {
		// Non-textual records never consult ctx; a search that ran out of
		// time must still fail.
		err = ctx.Err()
	}
	if err != nil {
		return nil, err
	}

	return slices.DeleteFunc(items, func(item FileSearchResultItem) bool {
		return item.Name == nil && item.Content == nil
	}), nil
}

// SearchContents runs a sequential content search with the default text
// types.
func SearchContents(ctx context.Context, query string, files []FileRecord, reader ContentReader) ([]FileSearchResultItem, error) {
	return NewContentSearcher(reader).Search(ctx, query, files)
}
