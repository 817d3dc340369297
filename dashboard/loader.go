package dashboard

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"escrowdesk/api"
	"escrowdesk/transaction"
)

// Source is the remote data the dashboard needs. The API client implements it.
type Source interface {
	FetchProfile(ctx context.Context) (api.Profile, error)
	ListTransactions(ctx context.Context) ([]transaction.ListItem, error)
}

// Loader fetches and holds the dashboard's current state. Profile and
// transaction list load concurrently; the projection is re-derived on every
// list change. Results arriving after the context is cancelled are dropped,
// never applied to state.
type Loader struct {
	source Source

	mu         sync.Mutex
	profile    *api.Profile
	items      []transaction.ListItem
	projection Projection
}

func NewLoader(source Source) *Loader {
	return &Loader{source: source}
}

// Refresh loads profile and transactions together. Either failure aborts the
// whole refresh and leaves prior state untouched.
func (l *Loader) Refresh(ctx context.Context) error {
	var (
		profile api.Profile
		items   []transaction.ListItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := l.source.FetchProfile(gctx)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		list, err := l.source.ListTransactions(gctx)
		if err != nil {
			return err
		}
		items = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		// The originating view is gone; late results are a no-op.
		return err
	}

	l.mu.Lock()
	l.profile = &profile
	l.items = items
	l.projection = Partition(items)
	l.mu.Unlock()
	return nil
}

// Reload re-fetches only the transaction list. This is the reconciliation
// step after a create or invite action; no partial merge is attempted.
func (l *Loader) Reload(ctx context.Context) error {
	items, err := l.source.ListTransactions(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	l.items = items
	l.projection = Partition(items)
	l.mu.Unlock()
	return nil
}

// Profile returns the last loaded profile, or nil before the first refresh.
func (l *Loader) Profile() *api.Profile {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.profile == nil {
		return nil
	}
	p := *l.profile
	return &p
}

// Projection returns the current partition of the transaction list.
func (l *Loader) Projection() Projection {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.projection
}

// Transactions returns the last loaded raw list.
func (l *Loader) Transactions() []transaction.ListItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]transaction.ListItem, len(l.items))
	copy(out, l.items)
	return out
}
