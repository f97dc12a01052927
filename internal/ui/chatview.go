package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkeye/Chat/internal/core"
	"github.com/dkeye/Chat/internal/domain"
)

const chatPollInterval = 200 * time.Millisecond

// chatModel renders the live room: classified message list in a viewport
// plus the send input. The transport list is re-projected on every poll
// tick; nothing is cached or reconciled locally.
type chatModel struct {
	session  domain.Session
	greeting string

	input    textinput.Model
	viewport viewport.Model
	ready    bool
	sending  bool
	lastLen  int
}

type chatTickMsg struct{}

type sendDoneMsg struct{ err error }

func newChatModel(session domain.Session, greeting string) chatModel {
	input := textinput.New()
	input.Placeholder = "Type your message..."
	input.Prompt = "> "
	input.CharLimit = 512
	input.Focus()

	return chatModel{
		session:  session,
		greeting: greeting,
		input:    input,
	}
}

func chatTick() tea.Cmd {
	return tea.Tick(chatPollInterval, func(time.Time) tea.Msg {
		return chatTickMsg{}
	})
}

// sendCmd runs the full send pipeline: broadcast, backend chat call,
// agent-reply rebroadcast. The input is cleared before this runs.
func sendCmd(svc *core.ChatService, text string) tea.Cmd {
	return func() tea.Msg {
		return sendDoneMsg{err: svc.Send(context.Background(), text)}
	}
}

func (m chatModel) resize(width, height int) chatModel {
	w := width - 4
	h := height - 8
	if h < 3 {
		h = 3
	}
	if !m.ready {
		m.viewport = viewport.New(w, h)
		m.ready = true
	} else {
		m.viewport.Width = w
		m.viewport.Height = h
	}
	m.input.Width = w - 4
	return m
}

func (m chatModel) update(msg tea.Msg) (chatModel, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m chatModel) refresh(svc *core.ChatService) chatModel {
	if !m.ready {
		return m
	}
	msgs := svc.Messages()
	m.viewport.SetContent(m.renderMessages(msgs))
	if len(msgs) != m.lastLen {
		m.lastLen = len(msgs)
		m.viewport.GotoBottom()
	}
	return m
}

func (m chatModel) renderMessages(msgs []domain.Message) string {
	if len(msgs) == 0 {
		return subtleStyle.Render("No messages yet. Start the conversation!")
	}
	var b strings.Builder
	for _, msg := range msgs {
		ts := time.UnixMilli(msg.TimestampMillis).Format("15:04:05")
		switch {
		case msg.FromAI:
			b.WriteString(aiMsgStyle.Render(fmt.Sprintf("[%s] AI Agent: %s", ts, msg.Text)))
		case msg.FromSelf:
			b.WriteString(selfMsgStyle.Render(fmt.Sprintf("[%s] %s (you): %s", ts, m.session.DisplayName, msg.Text)))
		default:
			b.WriteString(peerMsgStyle.Render(fmt.Sprintf("[%s] %s", ts, msg.Text)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m chatModel) view() string {
	header := titleStyle.Render("Room: "+m.session.RoomName) + "  " +
		subtleStyle.Render("Logged in as: "+m.session.DisplayName)
	if m.greeting != "" {
		header = lipgloss.JoinVertical(lipgloss.Left, header, aiMsgStyle.Render(m.greeting))
	}

	status := "enter: send • ctrl+p: participants • esc: leave room"
	if m.sending {
		status = "Sending..."
	}

	if !m.ready {
		return lipgloss.JoinVertical(lipgloss.Left, header, "", subtleStyle.Render("Connecting..."))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.viewport.View(),
		"",
		m.input.View(),
		subtleStyle.Render(status),
	)
}
