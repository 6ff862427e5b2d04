package client

import (
	"context"
	"errors"
	"sync"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/analytics"
)

// ErrStale is returned for a fetch whose filter was replaced while it was in
// flight. Its result is discarded.
var ErrStale = errors.New("client: filter changed while fetching")

// Fetcher loads the dashboard for one filter.
type Fetcher func(ctx context.Context, f analytics.Filter) (*analytics.Dashboard, error)

// Board holds the dashboard for the active filter. Each fetch is keyed by
// the filter key active when it was dispatched; a result whose key is no
// longer active never replaces the view.
type Board struct {
	fetch Fetcher

	mu      sync.Mutex
	active  string
	cancel  context.CancelFunc
	view    *analytics.Dashboard
	viewKey string
}

func NewBoard(fetch Fetcher) *Board {
	return &Board{fetch: fetch}
}

// Refresh makes f the active filter and fetches its dashboard. A fetch for
// a previously active filter is cancelled and its result dropped.
func (b *Board) Refresh(ctx context.Context, f analytics.Filter) (*analytics.Dashboard, error) {
	key := f.Key()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	b.mu.Lock()
	if b.cancel != nil && b.active != key {
		b.cancel()
	}
	b.active, b.cancel = key, cancel
	b.mu.Unlock()

	d, err := b.fetch(ctx, f)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.active != key {
		return nil, ErrStale
	}
	if err != nil {
		return nil, err
	}
	b.view, b.viewKey = d, key
	return d, nil
}

// View returns the last accepted dashboard and the filter key it belongs
// to, or nil before the first successful fetch.
func (b *Board) View() (*analytics.Dashboard, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view, b.viewKey
}

// Active returns the key of the active filter.
func (b *Board) Active() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}
