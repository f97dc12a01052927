package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkeye/Chat/internal/core"
)

// joinModel is the room-join form: two inputs, inline validation, and a
// submit that is disabled while a join is outstanding.
type joinModel struct {
	roomInput textinput.Model
	nameInput textinput.Model
	focusName bool
	joining   bool
	fieldErr  string
}

type joinSubmittedMsg struct {
	roomName string
	username string
	err      error
}

func newJoinModel(defaultIdentity string) joinModel {
	room := textinput.New()
	room.Placeholder = "e.g., general-chat"
	room.Prompt = "> "
	room.CharLimit = 36
	room.Focus()

	name := textinput.New()
	name.Placeholder = "e.g., john_doe"
	name.Prompt = "> "
	name.CharLimit = 36
	name.SetValue(defaultIdentity)

	return joinModel{roomInput: room, nameInput: name}
}

// submitCmd runs validation plus the best-effort availability check off
// the render loop and reports the outcome.
func (m *joinModel) submitCmd(form *core.JoinForm) tea.Cmd {
	roomName := m.roomInput.Value()
	username := m.nameInput.Value()
	return func() tea.Msg {
		room, user, err := form.Submit(context.Background(), roomName, username)
		return joinSubmittedMsg{roomName: room, username: user, err: err}
	}
}

func (m joinModel) update(msg tea.Msg) (joinModel, tea.Cmd) {
	if m.joining {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.focusName = !m.focusName
			if m.focusName {
				m.roomInput.Blur()
				m.nameInput.Focus()
			} else {
				m.nameInput.Blur()
				m.roomInput.Focus()
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	if m.focusName {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.roomInput, cmd = m.roomInput.Update(msg)
	}
	m.fieldErr = ""
	return m, cmd
}

// validateInline blocks submission locally before any backend call.
func (m *joinModel) validateInline() bool {
	if msg := core.ValidateRoomName(m.roomInput.Value()); msg != "" {
		m.fieldErr = msg
		return false
	}
	if msg := core.ValidateUsername(m.nameInput.Value()); msg != "" {
		m.fieldErr = msg
		return false
	}
	return true
}

func (m joinModel) view() string {
	title := titleStyle.Render("Join Chat Room")
	desc := subtleStyle.Render("Enter a room name and your username to chat with the AI agent")

	roomLabel := labelStyle.Render("Room Name")
	nameLabel := labelStyle.Render("Username")

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		desc,
		"",
		roomLabel,
		m.roomInput.View(),
		"",
		nameLabel,
		m.nameInput.View(),
	)

	if m.fieldErr != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", errorStyle.Render(m.fieldErr))
	}
	if m.joining {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", subtleStyle.Render("Joining..."))
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "",
			subtleStyle.Render("enter: join • tab: switch field • ctrl+r: rooms • ctrl+c: quit"))
	}
	return boxStyle.Render(body)
}
