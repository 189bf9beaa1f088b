// Package session owns the per-session dashboard state: one typed record
// per page holding the ingested table and its filter model. Nothing is
// persisted; sessions live in memory for the life of the process.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Tincho2002/RRHH-sub000/internal/filter"
	"github.com/Tincho2002/RRHH-sub000/internal/model"
)

// PageState is the whole-record session state of one page. Reset replaces
// the record instead of patching fields.
type PageState struct {
	Table          *model.Table
	Filter         *filter.Model
	UploadHash     string
	FilterDims     []string
	// ShowMapCompare is read by render cycles while the toggle
	// endpoint writes it, hence atomic.
	ShowMapCompare atomic.Bool
}

// Session groups the page states behind one session id.
type Session struct {
	ID       string
	Pages    map[model.Page]*PageState
	LastSeen time.Time
}

// Store is the in-memory session registry.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a session store; sessions idle longer than ttl are
// dropped by Prune.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// GetOrCreate returns the session for an id, minting a new session when
// the id is empty or unknown.
func (s *Store) GetOrCreate(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if sess, ok := s.sessions[id]; ok {
			sess.LastSeen = s.now()
			return sess
		}
	}
	sess := &Session{
		ID:       uuid.New().String(),
		Pages:    make(map[model.Page]*PageState),
		LastSeen: s.now(),
	}
	s.sessions[sess.ID] = sess
	return sess
}

// Page returns a page's state, or nil before any upload.
func (s *Store) Page(sessionID string, page model.Page) *PageState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	return sess.Pages[page]
}

// SetUpload installs a freshly ingested table for a page. When the upload
// identity changed the page state is rebuilt from scratch, discarding
// selections and auxiliary flags.
func (s *Store) SetUpload(sessionID string, page model.Page, table *model.Table, hash string, dims []string) *PageState {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	if prev, ok := sess.Pages[page]; ok && prev.UploadHash == hash {
		return prev
	}
	state := &PageState{
		Table:      table,
		Filter:     filter.New(table, dims),
		UploadHash: hash,
		FilterDims: append([]string(nil), dims...),
	}
	sess.Pages[page] = state
	return state
}

// ResetPage restores a page to its post-upload state: fresh filter model,
// auxiliary flags cleared. The whole record is replaced.
func (s *Store) ResetPage(sessionID string, page model.Page) *PageState {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	prev, ok := sess.Pages[page]
	if !ok {
		return nil
	}
	state := &PageState{
		Table:      prev.Table,
		Filter:     filter.New(prev.Table, prev.FilterDims),
		UploadHash: prev.UploadHash,
		FilterDims: prev.FilterDims,
	}
	sess.Pages[page] = state
	return state
}

// SetShowMapCompare toggles the headcount map-comparison flag.
func (s *Store) SetShowMapCompare(sessionID string, page model.Page, show bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		if state, ok := sess.Pages[page]; ok {
			state.ShowMapCompare.Store(show)
		}
	}
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Prune drops sessions idle beyond the ttl.
func (s *Store) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	dropped := 0
	for id, sess := range s.sessions {
		if sess.LastSeen.Before(cutoff) {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}
