package services

import (
	"context"
	"errors"
	"log"
	"os"

	"github/itish2003/hrfaq/models"
)

// FallbackFailureNotice is shown to the user when the generative model fails.
const FallbackFailureNotice = "Sorry, the assistant could not generate an answer right now. Please try again later."

// ChatService is what the HTTP API and the terminal client talk to.
type ChatService interface {
	CreateSession() *Session
	Session(id string) (*Session, error)
	DeleteSession(id string) error
	Ask(ctx context.Context, sessionID, question string) (RouteResult, []models.ConversationMessage, error)
	Upload(sessionID, filename string, data []byte) (int, error)
	Clear(sessionID string) ([]models.ConversationMessage, error)
	HistoryFile(sessionID string) (string, error)
	FAQInfo() models.FAQInfo
}

type chatServiceImpl struct {
	sessions   *SessionStore
	router     *Router
	indexes    *IndexHolder
	historyDir string
}

func NewChatService(sessions *SessionStore, router *Router, indexes *IndexHolder, historyDir string) ChatService {
	return &chatServiceImpl{sessions: sessions, router: router, indexes: indexes, historyDir: historyDir}
}

func (c *chatServiceImpl) CreateSession() *Session {
	s := c.sessions.Create()
	log.Printf("SERVICE: Created session %s", s.ID)
	return s
}

func (c *chatServiceImpl) Session(id string) (*Session, error) {
	return c.sessions.Get(id)
}

func (c *chatServiceImpl) DeleteSession(id string) error {
	if err := c.sessions.Delete(id); err != nil {
		return err
	}
	if err := os.Remove(HistoryPath(c.historyDir, id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("WARN: could not remove history of session %s: %v", id, err)
	}
	return nil
}

// Ask routes question for the session and records both turns. On a
// *FallbackError the failure notice is recorded as the bot's reply and the
// error is returned with the updated messages.
func (c *chatServiceImpl) Ask(ctx context.Context, sessionID, question string) (RouteResult, []models.ConversationMessage, error) {
	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return RouteResult{}, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.append(models.RoleUser, question)
	result, err := c.router.Route(ctx, question, s.documentContent)
	if err != nil {
		var fbErr *FallbackError
		if !errors.As(err, &fbErr) {
			// Matching failed before any answer was produced; drop the turn.
			s.messages = s.messages[:len(s.messages)-1]
			return RouteResult{}, s.snapshot(), err
		}
		log.Printf("SERVICE ERROR: session %s: %v", sessionID, err)
		s.append(models.RoleBot, FallbackFailureNotice)
		c.export(s)
		return RouteResult{Text: FallbackFailureNotice}, s.snapshot(), err
	}

	s.append(models.RoleBot, result.Text)
	c.export(s)
	return result, s.snapshot(), nil
}

// export must be called with s.mu held. Export failures never fail a turn.
func (c *chatServiceImpl) export(s *Session) {
	if c.historyDir == "" {
		return
	}
	if err := ExportHistory(HistoryPath(c.historyDir, s.ID), s.messages); err != nil {
		log.Printf("WARN: could not export history of session %s: %v", s.ID, err)
	}
}

// Upload extracts the text of a document and makes it the session's context.
// Extraction errors leave the session without document context and are
// returned for the caller to report.
func (c *chatServiceImpl) Upload(sessionID, filename string, data []byte) (int, error) {
	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return 0, err
	}
	text, err := ExtractText(filename, data)
	if err != nil {
		log.Printf("SERVICE ERROR: session %s: %v", sessionID, err)
		s.SetDocument(filename, "")
		return 0, err
	}
	s.SetDocument(filename, text)
	log.Printf("SERVICE: Session %s loaded document %s (%d chars)", sessionID, filename, len(text))
	return len(text), nil
}

func (c *chatServiceImpl) Clear(sessionID string) ([]models.ConversationMessage, error) {
	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.Clear()
	return s.Messages(), nil
}

// HistoryFile returns the path of the session's exported log, or
// os.ErrNotExist when nothing has been exported yet.
func (c *chatServiceImpl) HistoryFile(sessionID string) (string, error) {
	if _, err := c.sessions.Get(sessionID); err != nil {
		return "", err
	}
	path := HistoryPath(c.historyDir, sessionID)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

func (c *chatServiceImpl) FAQInfo() models.FAQInfo {
	idx := c.indexes.Load()
	if idx == nil {
		return models.FAQInfo{}
	}
	return idx.Info()
}
