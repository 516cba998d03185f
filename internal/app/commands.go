package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"math/rand/v2"
	"slices"

	"github.com/kk-code-lab/vaultsearch/internal/config"
	fsutil "github.com/kk-code-lab/vaultsearch/internal/fs"
	"github.com/kk-code-lab/vaultsearch/internal/search"
	"github.com/kk-code-lab/vaultsearch/internal/textutil"
)

type session struct {
	settings *config.Settings
	files    []fsutil.FileRecord
	reader   fsutil.ContentReader
	rand     *rand.Rand
	out      io.Writer
	logger   *slog.Logger
}

func (s *session) paths(ctx context.Context, query string) error {
	engine, err := search.ParseFuzzyEngine(s.settings.FuzzyEngine)
	if err != nil {
		return err
	}
	results := search.SortPathResults(search.SearchPathsWith(query, s.files, engine))
	s.logger.DebugContext(ctx, "Path search finished", "query", query, "engine", engine, "matches", len(results))

	for _, item := range limit(results, s.settings.Limit) {
		score := 0.0
		if item.Name != nil {
			score = item.Name.Score
		}
		fmt.Fprintf(s.out, "%8.2f  %s\n", score, renderPath(item.File.Path, item.Path))
	}
	return nil
}

func (s *session) content(ctx context.Context, query string) error {
	searcher := newContentSearcher(s.settings, s.reader)
	items, err := searcher.Search(ctx, query, s.files)
	if err != nil {
		var readErr *search.ContentReadError
		if errors.As(err, &readErr) {
			s.logger.ErrorContext(ctx, "Content read failed", "file", readErr.FileID, "error", readErr.Err)
		}
		return fmt.Errorf("content search: %w", err)
	}
	s.logger.DebugContext(ctx, "Content search finished", "query", query, "matches", len(items))

	for _, item := range limit(items, s.settings.Limit) {
		fmt.Fprintln(s.out, renderPath(item.File.Path, item.Path))
		if item.Content == nil {
			continue
		}
		// Served from the cache when one is configured.
		text, err := s.reader.ReadContent(ctx, item.File.ID)
		if err != nil {
			s.logger.WarnContext(ctx, "Snippet unavailable", "file", item.File.ID, "error", err)
			continue
		}
		fmt.Fprintf(s.out, "    %s\n", renderSnippet(text, item.Content.Matches))
	}
	return nil
}

func (s *session) sample(ctx context.Context, n int) error {
	// PickRandomly shuffles its input; keep the vault order intact.
	pool := slices.Clone(s.files)

	var picked []fsutil.FileRecord
	var err error
	if s.rand != nil {
		picked, err = search.PickRandomlyWith(s.rand, pool, n)
	} else {
		picked, err = search.PickRandomly(pool, n)
	}
	if err != nil {
		return fmt.Errorf("sample: %w", err)
	}
	s.logger.DebugContext(ctx, "Sampled files", "requested", n, "vault", len(s.files))

	for _, file := range picked {
		fmt.Fprintln(s.out, textutil.SanitizeTerminalText(file.Path))
	}
	return nil
}

func (s *session) view(ctx context.Context, query string) error {
	view := search.NewLocalSearchView(newContentSearcher(s.settings, s.reader), s.files)

	viewCtx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		view.Wait()
	}()

	results, err := search.FindAfterDelay(viewCtx, view, query, s.settings.SettleDelay)
	if err != nil {
		return fmt.Errorf("view: %w", err)
	}
	if len(results) == 0 {
		s.logger.InfoContext(ctx, "No results after settle delay", "query", query, "settle_delay", s.settings.SettleDelay)
		return nil
	}

	ids := slices.Sorted(maps.Keys(results))
	for _, id := range limit(ids, s.settings.Limit) {
		details := results[id]
		fmt.Fprintf(s.out, "%s  name:%d content:%d\n",
			textutil.PadRight(textutil.SanitizeTerminalText(id), pathColumnWidth),
			len(details.Filename), len(details.Content))
	}
	return nil
}

func newContentSearcher(s *config.Settings, reader fsutil.ContentReader) *search.ContentSearcher {
	var opts []search.ContentOption
	if len(s.TextTypes) > 0 {
		opts = append(opts, search.WithTextTypes(s.TextTypes...))
	}
	if s.Timeout > 0 {
		opts = append(opts, search.WithTimeout(s.Timeout))
	}
	if s.Strategy == config.StrategyConcurrent {
		opts = append(opts, search.WithStrategy(search.Concurrent(s.Workers)))
	}
	return search.NewContentSearcher(reader, opts...)
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
