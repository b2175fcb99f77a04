package social

import (
	"context"
	"sync"
)

// Optimistic holds a value that is updated before a remote write confirms it
// and restored to its snapshot if the write fails.
type Optimistic[S any] struct {
	mu    sync.Mutex
	value S
}

// NewOptimistic seeds the value.
func NewOptimistic[S any](initial S) *Optimistic[S] {
	return &Optimistic[S]{value: initial}
}

// Get returns the current value.
func (o *Optimistic[S]) Get() S {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

// Set replaces the value without a remote call, e.g. after a fetch.
func (o *Optimistic[S]) Set(v S) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.value = v
}

// Mutate snapshots the value, applies next, runs commit and restores the
// snapshot when commit fails. It returns the value after the commit outcome
// together with commit's error.
func (o *Optimistic[S]) Mutate(ctx context.Context, next func(S) S, commit func(ctx context.Context, prev S) error) (S, error) {
	o.mu.Lock()
	snapshot := o.value
	o.value = next(snapshot)
	o.mu.Unlock()

	if err := commit(ctx, snapshot); err != nil {
		o.mu.Lock()
		o.value = snapshot
		o.mu.Unlock()
		return snapshot, err
	}
	return o.Get(), nil
}
