package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github/itish2003/hrfaq/models"
)

func newTestChatService(t *testing.T, fb FallbackClient) (ChatService, string) {
	t.Helper()
	idx, emb := buildTestIndex(t, hrEntries())
	holder := NewIndexHolder(idx)
	router := NewRouter(holder, NewMatcher(emb, 0.5), fb, RouterOptions{}, nil)
	dir := filepath.Join(t.TempDir(), "history")
	return NewChatService(NewSessionStore(), router, holder, dir), dir
}

func TestAskRecordsTurnsAndExports(t *testing.T) {
	svc, dir := newTestChatService(t, &fakeFallback{answer: "unused"})
	s := svc.CreateSession()

	res, msgs, err := svc.Ask(context.Background(), s.ID, "Quand suis-je payé ?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if res.Source != models.SourceFAQ {
		t.Fatalf("expected a FAQ answer, got %+v", res)
	}
	if len(msgs) != 3 || msgs[1].Role != models.RoleUser || msgs[2].Content != "Le 28 de chaque mois." {
		t.Fatalf("unexpected messages %+v", msgs)
	}

	path, err := svc.HistoryFile(s.ID)
	if err != nil {
		t.Fatalf("history file: %v", err)
	}
	if path != HistoryPath(dir, s.ID) {
		t.Fatalf("unexpected history path %s", path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer f.Close()
	rows, _ := f.GetRows(f.GetSheetList()[0])
	if len(rows) != 4 {
		t.Fatalf("expected header plus 3 messages, got %v", rows)
	}
}

func TestAskFallbackFailureKeepsConversation(t *testing.T) {
	svc, _ := newTestChatService(t, &fakeFallback{failures: 1})
	s := svc.CreateSession()

	res, msgs, err := svc.Ask(context.Background(), s.ID, "Can I bring my dog?")
	var fbErr *FallbackError
	if !errors.As(err, &fbErr) {
		t.Fatalf("expected *FallbackError, got %v", err)
	}
	if res.Text != FallbackFailureNotice {
		t.Fatalf("unexpected text %q", res.Text)
	}
	if len(msgs) != 3 || msgs[1].Content != "Can I bring my dog?" || msgs[2].Content != FallbackFailureNotice {
		t.Fatalf("conversation should keep the question and the notice: %+v", msgs)
	}

	// The session stays usable.
	if _, _, err := svc.Ask(context.Background(), s.ID, "Quand suis-je payé ?"); err != nil {
		t.Fatalf("follow-up ask: %v", err)
	}
}

func TestAskUsesUploadedDocument(t *testing.T) {
	fb := &fakeFallback{answer: "Two days a week."}
	svc, _ := newTestChatService(t, fb)
	s := svc.CreateSession()

	n, err := svc.Upload(s.ID, "remote.txt", []byte("Remote work is allowed two days a week."))
	if err != nil || n == 0 {
		t.Fatalf("upload: %d, %v", n, err)
	}
	res, _, err := svc.Ask(context.Background(), s.ID, "How often can I work remotely?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if !res.UsedDocument || res.Source != models.SourceFallback {
		t.Fatalf("expected a document-backed fallback answer, got %+v", res)
	}

	if _, err := svc.Upload(s.ID, "broken.pdf", []byte("garbage")); err == nil {
		t.Fatal("expected an extraction error")
	}
	if s.DocumentContent() != "" {
		t.Fatal("a failed upload should clear the document context")
	}
}

func TestClearAndDeleteSession(t *testing.T) {
	svc, dir := newTestChatService(t, &fakeFallback{answer: "ok"})
	s := svc.CreateSession()
	if _, _, err := svc.Ask(context.Background(), s.ID, "pizza"); err != nil {
		t.Fatalf("ask: %v", err)
	}

	msgs, err := svc.Clear(s.ID)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Content != Greeting {
		t.Fatalf("unexpected messages after clear: %+v", msgs)
	}

	if err := svc.DeleteSession(s.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(HistoryPath(dir, s.ID)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("history file should be removed, stat err=%v", err)
	}
	if _, _, err := svc.Ask(context.Background(), s.ID, "hello"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestHistoryFileBeforeAnyAnswer(t *testing.T) {
	svc, _ := newTestChatService(t, &fakeFallback{answer: "ok"})
	s := svc.CreateSession()
	if _, err := svc.HistoryFile(s.ID); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestFAQInfo(t *testing.T) {
	svc, _ := newTestChatService(t, &fakeFallback{})
	info := svc.FAQInfo()
	if info.Count != 4 || info.Model != "tfidf" {
		t.Fatalf("unexpected info %+v", info)
	}
}
