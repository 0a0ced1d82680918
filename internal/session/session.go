// Package session keeps the per-user conversation state: which multi-turn
// form is active, which stage it is at, and the field values accumulated so
// far. State lives for the process lifetime only; a restart drops every
// in-flight form.
package session

import "sync"

// Family identifies a multi-turn form.
type Family string

const (
	FamilyRegister   Family = "register"
	FamilyNeed       Family = "need"
	FamilyPray       Family = "pray"
	FamilyLiterature Family = "literature"
	FamilyAnnounce   Family = "announce"
	FamilyLesson     Family = "upload_lesson"
)

// Step addresses a single stage inside a form. Confirm marks the
// preview/confirm sub-state of a broadcast-capable stage; the base stage is
// recovered by clearing the flag, never by string surgery.
type Step struct {
	Family  Family
	Stage   string
	Confirm bool
}

// IsZero reports whether the step is unset.
func (s Step) IsZero() bool {
	return s.Family == "" && s.Stage == "" && !s.Confirm
}

// Base returns the step with the confirm flag cleared.
func (s Step) Base() Step {
	s.Confirm = false
	return s
}

// WithConfirm returns the step with the confirm flag set.
func (s Step) WithConfirm() Step {
	s.Confirm = true
	return s
}

// At builds a step for a family and stage.
func At(f Family, stage string) Step {
	return Step{Family: f, Stage: stage}
}

// Data is the open mapping of accumulated form values.
type Data map[string]any

// String returns a string value by key.
func (d Data) String(key string) (string, bool) {
	v, ok := d[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Int64 returns an int64 value by key.
func (d Data) Int64(key string) (int64, bool) {
	v, ok := d[key]
	if !ok {
		return 0, false
	}
	n, ok := v.(int64)
	return n, ok
}

// Bool returns a bool value by key; absent keys read as false.
func (d Data) Bool(key string) bool {
	v, ok := d[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Session is the ephemeral state of one user's active form.
type Session struct {
	Step Step
	Data Data
}

// New creates a session positioned at the given step.
func New(step Step) Session {
	return Session{Step: step, Data: make(Data)}
}

// Store holds one session per chat key. All methods are safe for
// concurrent use; sessions of different users never interact.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

// NewStore constructs an empty in-memory Store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]Session)}
}

// Get returns the session for a chat key and whether one exists.
func (s *Store) Get(chatKey int64) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[chatKey]
	return sess, ok
}

// Set stores the session for a chat key, replacing any previous one.
func (s *Store) Set(chatKey int64, sess Session) {
	if sess.Data == nil {
		sess.Data = make(Data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatKey] = sess
}

// Clear removes the session for a chat key.
func (s *Store) Clear(chatKey int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatKey)
}

// InProgress reports whether the chat key has an active session.
func (s *Store) InProgress(chatKey int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[chatKey]
	return ok
}
