// Package session holds the per-session authorization state: which
// intent, if any, a session has declared. Sessions are independent by
// construction, so the store only guarantees that concurrent access
// from different sessions cannot corrupt the map.
package session

import (
	"sync"
	"time"
)

// Authorization is the snapshot stored when a session declares an
// intent. Scope here is the activation-time copy; the guard stage
// re-resolves the live scope and never trusts this field.
type Authorization struct {
	IntentID           string
	IntentName         string
	OwnedScope         []string
	Constraints        []string
	AcceptanceCriteria []string
	ActivatedAt        time.Time
}

// Store is the session-keyed authorization state. It is an interface
// so a persistent or distributed backing store can replace the
// in-memory one without touching the engine.
type Store interface {
	Get(sessionID string) (Authorization, bool)
	Set(sessionID string, auth Authorization)
	Delete(sessionID string)
}

// MemoryStore is the in-process Store implementation.
type MemoryStore struct {
	mu    sync.RWMutex
	auths map[string]Authorization
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{auths: make(map[string]Authorization)}
}

// Get returns the active authorization for the session, if any.
func (s *MemoryStore) Get(sessionID string) (Authorization, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	auth, ok := s.auths[sessionID]
	return auth, ok
}

// Set stores the authorization, overwriting any prior one for the
// session. Last declare wins.
func (s *MemoryStore) Set(sessionID string, auth Authorization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auths[sessionID] = auth
}

// Delete clears the session's authorization. Takes effect for the
// very next gate check.
func (s *MemoryStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.auths, sessionID)
}
