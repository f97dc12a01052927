package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkeye/Chat/internal/core"
	"github.com/dkeye/Chat/internal/domain"
)

// participantsModel manages one room's participants: remove and move,
// acted-upon row disabled while a mutation is in flight, full refetch on
// success.
type participantsModel struct {
	roomName     string
	participants []domain.Participant
	cursor       int
	loading      bool
	busyIdentity string

	moving    bool
	destInput textinput.Model
}

type participantsLoadedMsg struct {
	roomName     string
	participants []domain.Participant
	err          error
}

type participantMutatedMsg struct {
	roomName     string
	identity     string
	participants []domain.Participant
	err          error
}

func newParticipantsModel(roomName string) participantsModel {
	dest := textinput.New()
	dest.Placeholder = "destination room"
	dest.Prompt = "> "
	dest.CharLimit = 36
	return participantsModel{roomName: roomName, destInput: dest, loading: true}
}

func loadParticipantsCmd(admin *core.Admin, roomName string) tea.Cmd {
	return func() tea.Msg {
		parts, err := admin.Participants(context.Background(), roomName)
		return participantsLoadedMsg{roomName: roomName, participants: parts, err: err}
	}
}

func removeParticipantCmd(admin *core.Admin, roomName, identity string) tea.Cmd {
	return func() tea.Msg {
		parts, err := admin.RemoveParticipant(context.Background(), roomName, identity)
		return participantMutatedMsg{roomName: roomName, identity: identity, participants: parts, err: err}
	}
}

func moveParticipantCmd(admin *core.Admin, roomName, identity, destination string) tea.Cmd {
	return func() tea.Msg {
		parts, err := admin.MoveParticipant(context.Background(), roomName, identity, destination)
		return participantMutatedMsg{roomName: roomName, identity: identity, participants: parts, err: err}
	}
}

func (m participantsModel) selected() (domain.Participant, bool) {
	if m.cursor < 0 || m.cursor >= len(m.participants) {
		return domain.Participant{}, false
	}
	return m.participants[m.cursor], true
}

func (m participantsModel) update(msg tea.Msg) (participantsModel, tea.Cmd) {
	if m.moving {
		var cmd tea.Cmd
		m.destInput, cmd = m.destInput.Update(msg)
		return m, cmd
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.participants)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m participantsModel) view() string {
	title := titleStyle.Render("Participants — " + m.roomName)

	var b strings.Builder
	if m.loading && len(m.participants) == 0 {
		b.WriteString(subtleStyle.Render("Loading participants..."))
	} else if len(m.participants) == 0 {
		b.WriteString(subtleStyle.Render("No participants."))
	}
	for i, p := range m.participants {
		joined := time.UnixMilli(p.JoinedAtMillis).Format("15:04:05")
		line := fmt.Sprintf("%-24s joined %s", p.Identity, joined)
		switch {
		case p.Identity == m.busyIdentity:
			line = subtleStyle.Render(line + "  (working...)")
		case i == m.cursor:
			line = selectedRowStyle.Render("› " + line)
		default:
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.moving {
		sel, _ := m.selected()
		prompt := labelStyle.Render(fmt.Sprintf("Move %s to:", sel.Identity))
		return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", b.String(), prompt, m.destInput.View(),
			subtleStyle.Render("enter: move • esc: cancel")))
	}

	help := subtleStyle.Render("x: remove • m: move • r: refresh • esc: back")
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", b.String(), help))
}
