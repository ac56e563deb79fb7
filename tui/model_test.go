package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github/itish2003/hrfaq/models"
	"github/itish2003/hrfaq/services"
)

type fakePort struct {
	asked   []string
	cleared int
}

func (f *fakePort) Ask(_ context.Context, _ string, question string) (services.RouteResult, []models.ConversationMessage, error) {
	f.asked = append(f.asked, question)
	return services.RouteResult{Text: "Le 28.", Source: models.SourceFAQ, Score: 0.9}, []models.ConversationMessage{
		{Role: models.RoleBot, Content: services.Greeting},
		{Role: models.RoleUser, Content: question},
		{Role: models.RoleBot, Content: "Le 28."},
	}, nil
}

func (f *fakePort) Clear(string) ([]models.ConversationMessage, error) {
	f.cleared++
	return []models.ConversationMessage{{Role: models.RoleBot, Content: services.Greeting}}, nil
}

func start(t *testing.T, port ChatPort) Model {
	t.Helper()
	m := New(context.Background(), port, "s1", []models.ConversationMessage{{Role: models.RoleBot, Content: services.Greeting}})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func TestAskShowsWorkingThenAnswer(t *testing.T) {
	port := &fakePort{}
	m := start(t, port)
	m.input.SetValue("  Quand suis-je payé ?  ")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if !m.working || !strings.HasPrefix(m.status, "Working") {
		t.Fatalf("expected working status, got %q", m.status)
	}
	if cmd == nil {
		t.Fatal("expected an ask command")
	}

	next, _ = m.Update(cmd())
	m = next.(Model)
	if m.working || len(m.messages) != 3 {
		t.Fatalf("answer not applied: working=%t messages=%d", m.working, len(m.messages))
	}
	if len(port.asked) != 1 || port.asked[0] != "Quand suis-je payé ?" {
		t.Fatalf("unexpected questions %q", port.asked)
	}
	if !strings.Contains(m.View(), "Le 28.") {
		t.Fatal("answer missing from the view")
	}
}

func TestBlankInputIsIgnored(t *testing.T) {
	port := &fakePort{}
	m := start(t, port)
	m.input.SetValue("   ")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || len(port.asked) != 0 {
		t.Fatal("blank input should not be sent")
	}
}

func TestClearResetsConversation(t *testing.T) {
	port := &fakePort{}
	m := start(t, port)
	m.messages = append(m.messages, models.ConversationMessage{Role: models.RoleUser, Content: "hi"})

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = next.(Model)
	if port.cleared != 1 || len(m.messages) != 1 {
		t.Fatalf("expected a cleared conversation, got %d messages", len(m.messages))
	}
}
