// Package ui is the Bubble Tea front-end: join form, live chat surface
// and the room/participant management views. All network work runs in
// commands off the render loop; results come back as messages, and a
// response arriving after its screen is gone is simply dropped.
package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Chat/internal/config"
	"github.com/dkeye/Chat/internal/core"
	"github.com/dkeye/Chat/internal/domain"
)

type screen int

const (
	screenJoin screen = iota
	screenChat
	screenRooms
	screenParticipants
)

type connectDoneMsg struct {
	greeting string
	err      error
}

type App struct {
	cfg        config.ClientConfig
	backend    core.Backend
	controller *core.SessionController
	form       *core.JoinForm
	admin      *core.Admin

	screen      screen
	adminReturn screen
	width       int
	height      int

	join    joinModel
	chat    chatModel
	chatSvc *core.ChatService
	rooms   roomsModel
	parts   participantsModel

	toasts []toast
}

func NewApp(cfg config.ClientConfig, backend core.Backend, controller *core.SessionController, defaultIdentity string) *App {
	return &App{
		cfg:        cfg,
		backend:    backend,
		controller: controller,
		form:       core.NewJoinForm(backend, cfg.CheckUsername),
		admin:      core.NewAdmin(backend),
		join:       newJoinModel(defaultIdentity),
	}
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// connectCmd runs the session controller's join sequence and then the
// explicit room join for the greeting. Registration failure after a
// successful connect is reported but does not disconnect.
func (a *App) connectCmd(roomName, username string) tea.Cmd {
	controller := a.controller
	backend := a.backend
	return func() tea.Msg {
		if err := controller.Join(context.Background(), roomName, username); err != nil {
			return connectDoneMsg{err: err}
		}
		res, err := backend.JoinRoom(context.Background(), roomName, username)
		if err != nil {
			log.Warn().Err(err).Str("module", "ui").Str("room", roomName).Msg("join registration failed")
			return connectDoneMsg{}
		}
		return connectDoneMsg{greeting: res.Greeting}
	}
}

func (a *App) pushToast(kind toastKind, message string) tea.Cmd {
	t, cmd := newToast(kind, message)
	a.toasts = append(a.toasts, t)
	return cmd
}

func (a *App) dropToast(id int64) {
	out := a.toasts[:0]
	for _, t := range a.toasts {
		if t.id != id {
			out = append(out, t)
		}
	}
	a.toasts = out
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.chat = a.chat.resize(msg.Width, msg.Height)
		return a, nil

	case toastExpiredMsg:
		a.dropToast(msg.id)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.leave()
			return a, tea.Quit
		}
		return a.updateKey(msg)

	case joinSubmittedMsg:
		a.join.joining = false
		if msg.err != nil {
			return a, a.pushToast(toastError, msg.err.Error())
		}
		a.join.joining = true
		return a, a.connectCmd(msg.roomName, msg.username)

	case connectDoneMsg:
		a.join.joining = false
		if msg.err != nil {
			if errors.Is(msg.err, core.ErrNoToken) {
				return a, a.pushToast(toastError, "No token available")
			}
			return a, a.pushToast(toastError, msg.err.Error())
		}
		session, ok := a.controller.Session()
		channel, chOK := a.controller.Channel()
		if !ok || !chOK {
			return a, a.pushToast(toastError, "connection lost during join")
		}
		a.chatSvc = core.NewChatService(a.backend, channel, session)
		a.chat = newChatModel(session, msg.greeting).resize(a.width, a.height)
		a.screen = screenChat
		return a, chatTick()

	case chatTickMsg:
		if a.chatSvc == nil {
			return a, nil
		}
		a.chat = a.chat.refresh(a.chatSvc)
		return a, chatTick()

	case sendDoneMsg:
		a.chat.sending = false
		if msg.err != nil {
			if errors.Is(msg.err, core.ErrBusy) {
				return a, a.pushToast(toastInfo, "Still sending the previous message")
			}
			return a, a.pushToast(toastError, msg.err.Error())
		}
		return a, nil

	case roomsLoadedMsg:
		a.rooms.loading = false
		if msg.err != nil {
			return a, a.pushToast(toastError, msg.err.Error())
		}
		a.rooms.rooms = msg.rooms
		a.rooms.cursor = clamp(a.rooms.cursor, len(msg.rooms))
		return a, nil

	case roomDeletedMsg:
		a.rooms.busyRoom = ""
		if msg.err != nil {
			return a, a.pushToast(toastError, msg.err.Error())
		}
		a.rooms.rooms = msg.rooms
		a.rooms.cursor = clamp(a.rooms.cursor, len(msg.rooms))
		return a, a.pushToast(toastInfo, "Room "+msg.roomName+" deleted")

	case participantsLoadedMsg:
		if msg.roomName != a.parts.roomName {
			return a, nil
		}
		a.parts.loading = false
		if msg.err != nil {
			return a, a.pushToast(toastError, msg.err.Error())
		}
		a.parts.participants = msg.participants
		a.parts.cursor = clamp(a.parts.cursor, len(msg.participants))
		return a, nil

	case participantMutatedMsg:
		if msg.roomName != a.parts.roomName {
			return a, nil
		}
		a.parts.busyIdentity = ""
		a.parts.moving = false
		if msg.err != nil {
			return a, a.pushToast(toastError, msg.err.Error())
		}
		a.parts.participants = msg.participants
		a.parts.cursor = clamp(a.parts.cursor, len(msg.participants))
		return a, nil
	}

	return a.updateScreen(msg)
}

func (a *App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.screen {
	case screenJoin:
		switch msg.String() {
		case "enter":
			if a.join.joining {
				return a, nil
			}
			if !a.join.validateInline() {
				return a, nil
			}
			a.join.joining = true
			return a, a.join.submitCmd(a.form)
		case "ctrl+r":
			a.screen = screenRooms
			a.adminReturn = screenJoin
			a.rooms.loading = true
			return a, loadRoomsCmd(a.admin)
		}

	case screenChat:
		switch msg.String() {
		case "enter":
			if a.chat.sending || a.chatSvc == nil {
				return a, nil
			}
			text := a.chat.input.Value()
			if len(text) == 0 {
				return a, nil
			}
			// Optimistic UI: clear before the pipeline runs.
			a.chat.input.SetValue("")
			a.chat.sending = true
			return a, sendCmd(a.chatSvc, text)
		case "esc":
			a.leave()
			a.screen = screenJoin
			return a, nil
		case "ctrl+p":
			if session, ok := a.controller.Session(); ok {
				a.screen = screenParticipants
				a.adminReturn = screenChat
				a.parts = newParticipantsModel(session.RoomName)
				return a, loadParticipantsCmd(a.admin, session.RoomName)
			}
		}

	case screenRooms:
		switch msg.String() {
		case "esc":
			a.screen = screenJoin
			return a, nil
		case "r":
			a.rooms.loading = true
			return a, loadRoomsCmd(a.admin)
		case "d":
			if sel, ok := a.rooms.selected(); ok && a.rooms.busyRoom == "" {
				a.rooms.busyRoom = sel.Name
				return a, deleteRoomCmd(a.admin, sel.Name)
			}
		case "p":
			if sel, ok := a.rooms.selected(); ok {
				a.screen = screenParticipants
				a.adminReturn = screenRooms
				a.parts = newParticipantsModel(sel.Name)
				return a, loadParticipantsCmd(a.admin, sel.Name)
			}
		}

	case screenParticipants:
		if a.parts.moving {
			switch msg.String() {
			case "esc":
				a.parts.moving = false
				return a, nil
			case "enter":
				dest := a.parts.destInput.Value()
				sel, ok := a.parts.selected()
				if !ok || dest == "" {
					return a, nil
				}
				a.parts.busyIdentity = sel.Identity
				return a, moveParticipantCmd(a.admin, a.parts.roomName, sel.Identity, dest)
			}
			break
		}
		switch msg.String() {
		case "esc":
			a.screen = a.adminReturn
			return a, nil
		case "r":
			a.parts.loading = true
			return a, loadParticipantsCmd(a.admin, a.parts.roomName)
		case "x":
			if sel, ok := a.parts.selected(); ok && a.parts.busyIdentity == "" {
				a.parts.busyIdentity = sel.Identity
				return a, removeParticipantCmd(a.admin, a.parts.roomName, sel.Identity)
			}
		case "m":
			if _, ok := a.parts.selected(); ok && a.parts.busyIdentity == "" {
				a.parts.moving = true
				a.parts.destInput.SetValue("")
				a.parts.destInput.Focus()
				return a, textinput.Blink
			}
		}
	}

	return a.updateScreen(msg)
}

func (a *App) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screen {
	case screenJoin:
		a.join, cmd = a.join.update(msg)
	case screenChat:
		a.chat, cmd = a.chat.update(msg)
	case screenRooms:
		a.rooms, cmd = a.rooms.update(msg)
	case screenParticipants:
		a.parts, cmd = a.parts.update(msg)
	}
	return a, cmd
}

// leave discards the session: realtime teardown and token clearing are
// the controller's job, dropping the chat service is ours.
func (a *App) leave() {
	if a.controller.State() != domain.StateIdle {
		a.controller.Leave()
	}
	a.chatSvc = nil
	a.chat = chatModel{}
}

func (a *App) View() string {
	var body string
	switch a.screen {
	case screenJoin:
		body = a.join.view()
	case screenChat:
		body = a.chat.view()
	case screenRooms:
		body = a.rooms.view()
	case screenParticipants:
		body = a.parts.view()
	}

	for _, t := range a.toasts {
		body = lipgloss.JoinVertical(lipgloss.Left, body, t.render())
	}
	return body
}

func clamp(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
