package search

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"
)

// DefaultSettleDelay is how long FindAfterDelay waits for a host search view
// to finish populating before reading it.
const DefaultSettleDelay = 3 * time.Second

// SearchDetails is what a host search view reports for one file.
type SearchDetails struct {
	FileID   string
	Filename []MatchSpan
	Content  []MatchSpan
}

// SearchView is a host-provided search panel. Open starts a search; Results
// reads whatever the panel shows at the time of the call.
type SearchView interface {
	Open(ctx context.Context, query string) error
	Results(ctx context.Context) (map[string]SearchDetails, error)
}

// FindAfterDelay opens view with query, waits settle for the host to populate
// it and returns its results. A non-positive settle uses DefaultSettleDelay.
func FindAfterDelay(ctx context.Context, view SearchView, query string, settle time.Duration) (map[string]SearchDetails, error) {
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	if err := view.Open(ctx, query); err != nil {
		return nil, fmt.Errorf("open search view: %w", err)
	}

	timer := time.NewTimer(settle)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	results, err := view.Results(ctx)
	if err != nil {
		return nil, fmt.Errorf("read search view: %w", err)
	}
	return results, nil
}

// LocalSearchView is a SearchView backed by a ContentSearcher, for running
// the host flow without a host. Open runs the search in the background;
// Results returns what has been collected so far.
type LocalSearchView struct {
	searcher *ContentSearcher
	files    []FileRecord

	mu      sync.Mutex
	results map[string]SearchDetails
	err     error
	done    chan struct{}
}

// NewLocalSearchView searches files with searcher.
func NewLocalSearchView(searcher *ContentSearcher, files []FileRecord) *LocalSearchView {
	return &LocalSearchView{
		searcher: searcher,
		files:    files,
		results:  map[string]SearchDetails{},
	}
}

// Open implements SearchView.
func (v *LocalSearchView) Open(ctx context.Context, query string) error {
	done := make(chan struct{})
	v.mu.Lock()
	v.results = map[string]SearchDetails{}
	v.err = nil
	v.done = done
	v.mu.Unlock()

	go func() {
		defer close(done)
		items, err := v.searcher.Search(ctx, query, v.files)

		v.mu.Lock()
		defer v.mu.Unlock()
		if v.done != done {
			return
		}
		if err != nil {
			v.err = err
			return
		}
		for _, item := range items {
			details := SearchDetails{FileID: item.File.ID}
			if item.Name != nil {
				details.Filename = item.Name.Matches
			}
			if item.Content != nil {
				details.Content = item.Content.Matches
			}
			v.results[item.File.ID] = details
		}
	}()
	return nil
}

// Results implements SearchView. A search still running after the settle
// delay yields an empty map, like a host panel that has not caught up.
func (v *LocalSearchView) Results(context.Context) (map[string]SearchDetails, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.err != nil {
		return nil, v.err
	}
	return maps.Clone(v.results), nil
}

// Wait blocks until the search started by the last Open finishes.
func (v *LocalSearchView) Wait() {
	v.mu.Lock()
	done := v.done
	v.mu.Unlock()
	if done != nil {
		<-done
	}
}
