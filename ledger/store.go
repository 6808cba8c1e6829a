package ledger

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrDraftNotFound is returned for unknown or expired draft ids.
	ErrDraftNotFound = errors.New("draft not found")
	// ErrDraftSaving is returned while another request is saving the draft.
	ErrDraftSaving = errors.New("draft is being saved")
)

// Session is one quotation-in-progress: its ledger plus the data the ledger
// does not own. A session starts empty for a new quotation or is restored
// from a saved quotation for editing.
type Session struct {
	ID          string
	Mode        Mode
	QuotationID string // set when editing a saved quotation
	Customer    Customer
	Ledger      *Ledger
	CreatedBy   string
	Touched     time.Time

	saving bool
}

// Store keeps draft sessions in memory. Each session is handed to one caller
// at a time through Update, so ledger mutations never overlap.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore returns a store that evicts sessions idle for longer than ttl.
// A zero ttl disables eviction.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a new session and returns its snapshot.
func (s *Store) Create(mode Mode, quotationID string, l *Ledger, createdBy string) Session {
	if l == nil {
		l = New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()

	sess := &Session{
		ID:          uuid.NewString(),
		Mode:        mode,
		QuotationID: quotationID,
		Ledger:      l,
		CreatedBy:   createdBy,
		Touched:     s.now(),
	}
	s.sessions[sess.ID] = sess
	return *sess
}

// Update runs fn with exclusive access to the session. A session that is
// being saved rejects updates with ErrDraftSaving.
func (s *Store) Update(id string, fn func(*Session) error) error {
	return s.with(id, func(sess *Session) error {
		if sess.saving {
			return ErrDraftSaving
		}
		return fn(sess)
	})
}

// View runs fn with read access to the session. fn must not mutate it.
func (s *Store) View(id string, fn func(*Session) error) error {
	return s.with(id, fn)
}

// BeginSave runs fn and then marks the session as saving, so a concurrent
// save or edit of the same draft fails with ErrDraftSaving until EndSave or
// Discard. When fn fails the session is left unmarked.
func (s *Store) BeginSave(id string, fn func(*Session) error) error {
	return s.Update(id, func(sess *Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		sess.saving = true
		return nil
	})
}

// EndSave clears the saving mark after a failed save.
func (s *Store) EndSave(id string) {
	s.with(id, func(sess *Session) error {
		sess.saving = false
		return nil
	})
}

func (s *Store) with(id string, fn func(*Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrDraftNotFound
	}
	sess.Touched = s.now()
	return fn(sess)
}

// Discard drops the session. Unknown ids are reported with ErrDraftNotFound.
func (s *Store) Discard(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrDraftNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()
	return len(s.sessions)
}

func (s *Store) evictLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.Touched.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
