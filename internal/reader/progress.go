package reader

import (
	"fmt"
	"strconv"
	"strings"

	"novel-reader/internal/domain"
)

// schemaVersion prefixes every stored page value ("2:<page>"). Values without
// a prefix were written by the unversioned release, which stored 1-based page
// numbers; they are read as such and re-encoded on the next write.
const schemaVersion = 2

// KeySource names the per-visitor storage keys. identity.Store satisfies it.
type KeySource interface {
	VisitorID() string
	ProgressKey() string
	TotalPagesKey() string
}

// ProgressStore reads and writes ReadingProgress in client-local storage.
type ProgressStore struct {
	kv     domain.KeyValueStore
	keys   KeySource
	logger domain.Logger
}

// NewProgressStore creates a progress store.
func NewProgressStore(kv domain.KeyValueStore, keys KeySource, logger domain.Logger) *ProgressStore {
	return &ProgressStore{kv: kv, keys: keys, logger: logger}
}

// Load returns the stored progress. Missing or unreadable values are zero.
func (p *ProgressStore) Load() domain.ReadingProgress {
	progress := domain.ReadingProgress{VisitorID: p.keys.VisitorID()}

	if raw, ok := p.read(p.keys.ProgressKey()); ok {
		page, err := decodePage(raw)
		if err != nil {
			p.logger.Warn("Ignoring unreadable reading position", "value", raw, "error", err)
		} else {
			progress.CurrentPage = page
		}
	}
	if raw, ok := p.read(p.keys.TotalPagesKey()); ok {
		if total, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && total > 0 {
			progress.TotalPages = total
		}
	}
	return progress
}

// SavePage persists the current page.
func (p *ProgressStore) SavePage(page int) {
	p.write(p.keys.ProgressKey(), encodePage(page))
}

// SaveTotalPages persists the document page count.
func (p *ProgressStore) SaveTotalPages(total int) {
	p.write(p.keys.TotalPagesKey(), strconv.Itoa(total))
}

func (p *ProgressStore) read(key string) (string, bool) {
	v, ok, err := p.kv.Get(key)
	if err != nil {
		p.logger.Warn("Failed to read reading progress", "key", key, "error", err)
		return "", false
	}
	return v, ok
}

func (p *ProgressStore) write(key, value string) {
	if err := p.kv.Set(key, value); err != nil {
		p.logger.Warn("Failed to persist reading progress", "key", key, "error", err)
	}
}

func encodePage(page int) string {
	return fmt.Sprintf("%d:%d", schemaVersion, page)
}

func decodePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	version, value, versioned := strings.Cut(raw, ":")
	if !versioned {
		return strconv.Atoi(raw)
	}
	v, err := strconv.Atoi(version)
	if err != nil {
		return 0, fmt.Errorf("bad schema version %q: %w", version, err)
	}
	if v != schemaVersion {
		return 0, fmt.Errorf("unsupported schema version %d", v)
	}
	return strconv.Atoi(value)
}
