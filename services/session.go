package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github/itish2003/hrfaq/models"
)

// Greeting is the bot message every session starts with.
const Greeting = "Hello! Ask your HR question or upload a document."

// Session is one user's conversation. Its mutex serializes the user's
// actions; sessions never share state with each other.
type Session struct {
	ID string

	mu              sync.Mutex
	messages        []models.ConversationMessage
	documentContent string
	documentName    string
	now             func() time.Time
}

func newSession(id string, now func() time.Time) *Session {
	s := &Session{ID: id, now: now}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.messages = []models.ConversationMessage{{Role: models.RoleBot, Content: Greeting, Timestamp: s.now()}}
	s.documentContent = ""
	s.documentName = ""
}

// Clear resets the session to its initial greeting with no document.
// Calling it repeatedly leaves the same state.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// Messages returns a copy of the conversation so far.
func (s *Session) Messages() []models.ConversationMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() []models.ConversationMessage {
	return append([]models.ConversationMessage(nil), s.messages...)
}

// DocumentContent returns the text of the last uploaded document.
func (s *Session) DocumentContent() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.documentContent
}

// DocumentName returns the file name of the last uploaded document.
func (s *Session) DocumentName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.documentName
}

// SetDocument replaces the session's document context.
func (s *Session) SetDocument(name, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documentName = name
	s.documentContent = content
}

// append must be called with s.mu held.
func (s *Session) append(role models.Role, content string) {
	s.messages = append(s.messages, models.ConversationMessage{Role: role, Content: content, Timestamp: s.now()})
}

// SessionStore keeps the live sessions of the process.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session), now: time.Now}
}

// Create starts a new session with a fresh id.
func (st *SessionStore) Create() *Session {
	s := newSession(uuid.New().String(), st.now)
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (st *SessionStore) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(st.sessions, id)
	return nil
}

func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
