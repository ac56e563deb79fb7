package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github/itish2003/hrfaq/models"
	"github/itish2003/hrfaq/services"
)

// ChatPort is the TUI-facing subset of the chat service.
type ChatPort interface {
	Ask(ctx context.Context, sessionID, question string) (services.RouteResult, []models.ConversationMessage, error)
	Clear(sessionID string) ([]models.ConversationMessage, error)
}

type answerMsg struct {
	result   services.RouteResult
	messages []models.ConversationMessage
	err      error
}

// Model is the Bubble Tea model of the terminal chat.
type Model struct {
	ctx       context.Context
	service   ChatPort
	sessionID string
	input     textinput.Model
	viewport  viewport.Model
	messages  []models.ConversationMessage
	status    string
	working   bool
	ready     bool
}

// New creates a chat view over an existing session.
func New(ctx context.Context, service ChatPort, sessionID string, messages []models.ConversationMessage) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type your HR question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		ctx:       ctx,
		service:   service,
		sessionID: sessionID,
		input:     ti,
		viewport:  vp,
		messages:  messages,
		status:    "Ready. ctrl+l clears the conversation, ctrl+c quits.",
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		result, messages, err := m.service.Ask(m.ctx, m.sessionID, question)
		return answerMsg{result: result, messages: messages, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, fh := historyBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 // header, status, input box
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-fh)
		m.refresh()
		return m, nil
	case answerMsg:
		m.working = false
		if msg.messages != nil {
			m.messages = msg.messages
		}
		switch {
		case msg.err != nil:
			m.status = "Error: " + msg.err.Error()
		default:
			m.status = fmt.Sprintf("Answered from %s (score=%.3f)", msg.result.Source, msg.result.Score)
		}
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "ctrl+l":
			if m.working {
				return m, nil
			}
			messages, err := m.service.Clear(m.sessionID)
			if err != nil {
				m.status = "Error: " + err.Error()
			} else {
				m.messages = messages
				m.status = "Conversation cleared."
			}
			m.refresh()
			return m, nil
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.working {
				return m, nil
			}
			m.input.SetValue("")
			m.working = true
			m.status = "Working on the answer…"
			m.messages = append(m.messages, models.ConversationMessage{Role: models.RoleUser, Content: q})
			m.refresh()
			return m, m.ask(q)
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("HR Assistant")
	history := historyBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + history + "\n" + input + "\n" + status
}

func (m *Model) refresh() {
	m.viewport.SetContent(renderMessages(m.messages, m.viewport.Width))
	m.viewport.GotoBottom()
}

func renderMessages(messages []models.ConversationMessage, width int) string {
	var b strings.Builder
	wrap := lipgloss.NewStyle().Width(max(10, width-4))
	for _, msg := range messages {
		label := botLabelStyle.Render("Bot")
		if msg.Role == models.RoleUser {
			label = userLabelStyle.Render("You")
		}
		b.WriteString(wrap.Render(label + ": " + msg.Content))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

var (
	historyBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)
