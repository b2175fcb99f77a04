// Package identity keeps the pseudonymous visitor identity in client-local storage.
package identity

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"novel-reader/internal/domain"

	"github.com/google/uuid"
)

// Storage keys. They match the browser localStorage names so exported state can be imported as-is.
const (
	KeyVisitorID     = "novel_visitor_id"
	KeyGeneratedName = "novel_visitor_name"
	KeyCustomName    = "novel_visitor_custom_name"
	KeyIsAnonymous   = "novel_visitor_is_anonymous"

	progressKeyPrefix   = "pdf_position_"
	totalPagesKeyPrefix = "pdf_total_pages_"
)

// Store derives and persists the visitor identity. Storage errors are expected
// to be absorbed by the KeyValueStore (see storage.Fallback); if one still
// surfaces it is logged and the value is kept in memory for the session.
type Store struct {
	kv     domain.KeyValueStore
	logger domain.Logger

	mu        sync.Mutex
	newID     func() string
	randomNum func() int
	session   map[string]string
}

// NewStore creates an identity store over kv.
func NewStore(kv domain.KeyValueStore, logger domain.Logger) *Store {
	return &Store{
		kv:        kv,
		logger:    logger,
		newID:     uuid.NewString,
		randomNum: func() int { return 10000000 + rand.IntN(90000000) },
		session:   make(map[string]string),
	}
}

// VisitorID returns the persisted visitor id, creating one on first use.
func (s *Store) VisitorID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.get(KeyVisitorID); ok && id != "" {
		return id
	}
	id := s.newID()
	s.set(KeyVisitorID, id)
	return id
}

// VisitorName returns the custom name when set, else the generated one.
func (s *Store) VisitorName() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if custom, ok := s.get(KeyCustomName); ok && custom != "" {
		return custom
	}
	return s.generatedName()
}

// GeneratedName returns the stable generated name, ignoring any override.
func (s *Store) GeneratedName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generatedName()
}

// SetVisitorName stores a trimmed override. An empty name clears it.
func (s *Store) SetVisitorName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		s.del(KeyCustomName)
		return
	}
	s.set(KeyCustomName, name)
}

// IsAnonymous reports the persisted anonymity flag; false when unset.
func (s *Store) IsAnonymous() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, _ := s.get(KeyIsAnonymous)
	return v == "true"
}

// SetAnonymous persists the anonymity flag.
func (s *Store) SetAnonymous(anonymous bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(KeyIsAnonymous, fmt.Sprintf("%t", anonymous))
}

// DisplayName is the name other visitors see: the generated name while
// anonymous, otherwise VisitorName.
func (s *Store) DisplayName() string {
	if s.IsAnonymous() {
		return s.GeneratedName()
	}
	return s.VisitorName()
}

// Visitor returns a snapshot of the identity.
func (s *Store) Visitor() domain.Visitor {
	return domain.Visitor{
		ID:          s.VisitorID(),
		Name:        s.VisitorName(),
		DisplayName: s.DisplayName(),
		IsAnonymous: s.IsAnonymous(),
	}
}

// ProgressKey is the per-visitor key holding the current page.
func (s *Store) ProgressKey() string {
	return progressKeyPrefix + s.VisitorID()
}

// TotalPagesKey is the per-visitor key holding the document page count.
func (s *Store) TotalPagesKey() string {
	return totalPagesKeyPrefix + s.VisitorID()
}

func (s *Store) generatedName() string {
	if name, ok := s.get(KeyGeneratedName); ok && name != "" {
		return name
	}
	name := fmt.Sprintf("Visitor_%d", s.randomNum())
	s.set(KeyGeneratedName, name)
	return name
}

func (s *Store) get(key string) (string, bool) {
	if v, ok := s.session[key]; ok {
		return v, v != ""
	}
	v, ok, err := s.kv.Get(key)
	if err != nil {
		s.logger.Warn("Failed to read local storage", "key", key, "error", err)
		return "", false
	}
	return v, ok
}

func (s *Store) set(key, value string) {
	if err := s.kv.Set(key, value); err != nil {
		s.logger.Warn("Failed to write local storage", "key", key, "error", err)
		s.session[key] = value
		return
	}
	delete(s.session, key)
}

func (s *Store) del(key string) {
	if err := s.kv.Delete(key); err != nil {
		s.logger.Warn("Failed to delete from local storage", "key", key, "error", err)
		s.session[key] = ""
		return
	}
	delete(s.session, key)
}
