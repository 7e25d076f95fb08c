package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lmoreno/pbigen/internal/core"
)

var (
	ErrNotFound     = errors.New("session not found")
	ErrExpired      = errors.New("session expired")
	ErrItemNotFound = errors.New("item index out of range")
)

// Session holds one generation round: the request that produced it, the
// decoded result the user is reviewing, and any hosted capture URLs from a
// completed push.
type Session struct {
	ID           string
	Request      core.GenerationRequest
	Attachments  []core.Attachment
	Result       core.GenerationResult
	HostedURLs   map[int]string
	CreatedAt    time.Time
	LastActivity time.Time
	ExpiresAt    time.Time
}

// Store keeps review sessions in memory with a sliding TTL.
type Store struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	ttl      time.Duration
}

// returns a new session store and starts its cleanup goroutine
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}

	go s.cleanupExpired()

	return s
}

// creates a session for a finished generation
func (s *Store) Create(req core.GenerationRequest, attachments []core.Attachment, result core.GenerationResult) *Session {
	now := time.Now()
	session := &Session{
		ID:           uuid.NewString(),
		Request:      req,
		Attachments:  attachments,
		Result:       result,
		HostedURLs:   make(map[int]string),
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session
}

// retrieves a live session and extends its TTL
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[id]
	if !exists {
		return nil, ErrNotFound
	}
	if time.Now().After(session.ExpiresAt) {
		delete(s.sessions, id)
		return nil, ErrExpired
	}

	s.touch(session)
	return session, nil
}

// UpdateItem replaces one backlog item after a manual edit. The index is
// zero-based over the session's current items.
func (s *Store) UpdateItem(id string, index int, item core.BacklogItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[id]
	if !exists {
		return ErrNotFound
	}
	if time.Now().After(session.ExpiresAt) {
		delete(s.sessions, id)
		return ErrExpired
	}
	if index < 0 || index >= len(session.Result.Items) {
		return ErrItemNotFound
	}
	if item.Title == "" {
		return &core.ValidationError{Field: "title", Message: "title must not be empty"}
	}

	session.Result.Items[index] = item
	s.touch(session)
	return nil
}

// SetHostedURLs records the attachment URLs from a completed push so
// subsequent renders link the hosted captures.
func (s *Store) SetHostedURLs(id string, urls map[int]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[id]
	if !exists {
		return ErrNotFound
	}

	for pos, u := range urls {
		session.HostedURLs[pos] = u
	}
	s.touch(session)
	return nil
}

// removes a session
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// returns the number of live sessions
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// touch slides the expiry window. Caller holds the write lock.
func (s *Store) touch(session *Session) {
	now := time.Now()
	session.LastActivity = now
	session.ExpiresAt = now.Add(s.ttl)
}

// runs periodically to remove expired sessions
func (s *Store) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for id, session := range s.sessions {
			if now.After(session.ExpiresAt) {
				delete(s.sessions, id)
			}
		}
		s.mu.Unlock()
	}
}
