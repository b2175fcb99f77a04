package storage

import (
	"sync"

	"novel-reader/internal/domain"
)

// Lister is implemented by stores that can enumerate their contents.
type Lister interface {
	All() (map[string]string, error)
}

// Fallback serves from a durable store until its first failure, then switches
// to an in-memory store for the rest of the session. Every value read from or
// written to the primary is mirrored in memory, so a degraded store keeps
// serving the last known state. Callers never see the storage error.
type Fallback struct {
	mu       sync.Mutex
	primary  domain.KeyValueStore
	memory   *MemoryStore
	degraded bool
	logger   domain.Logger
}

// NewFallback wraps primary. A nil primary starts degraded. When primary is a
// Lister its current contents are copied into memory up front.
func NewFallback(primary domain.KeyValueStore, logger domain.Logger) *Fallback {
	f := &Fallback{
		primary:  primary,
		memory:   NewMemoryStore(),
		degraded: primary == nil,
		logger:   logger,
	}
	if lister, ok := primary.(Lister); ok {
		values, err := lister.All()
		if err != nil {
			f.degrade("list", "", err)
		}
		for k, v := range values {
			_ = f.memory.Set(k, v)
		}
	}
	return f
}

// Degraded reports whether the store has fallen back to memory.
func (f *Fallback) Degraded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.degraded
}

func (f *Fallback) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.degraded {
		v, ok, err := f.primary.Get(key)
		if err == nil {
			if ok {
				_ = f.memory.Set(key, v)
			} else {
				_ = f.memory.Delete(key)
			}
			return v, ok, nil
		}
		f.degrade("get", key, err)
	}
	return f.memory.Get(key)
}

func (f *Fallback) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.degraded {
		if err := f.primary.Set(key, value); err != nil {
			f.degrade("set", key, err)
		}
	}
	return f.memory.Set(key, value)
}

func (f *Fallback) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.degraded {
		if err := f.primary.Delete(key); err != nil {
			f.degrade("delete", key, err)
		}
	}
	return f.memory.Delete(key)
}

// degrade must be called with f.mu held, or before f is shared.
func (f *Fallback) degrade(op, key string, err error) {
	f.degraded = true
	if f.logger != nil {
		f.logger.Warn("Local storage unavailable, keeping state for this session only",
			"op", op, "key", key, "error", err)
	}
}
