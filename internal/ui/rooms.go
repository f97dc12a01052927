package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkeye/Chat/internal/core"
	"github.com/dkeye/Chat/internal/domain"
)

// roomsModel is the room management view: load the list, delete with the
// acted-upon row disabled while in flight, refetch on success.
type roomsModel struct {
	rooms    []domain.RoomInfo
	cursor   int
	loading  bool
	busyRoom string
}

type roomsLoadedMsg struct {
	rooms []domain.RoomInfo
	err   error
}

type roomDeletedMsg struct {
	roomName string
	rooms    []domain.RoomInfo
	err      error
}

func loadRoomsCmd(admin *core.Admin) tea.Cmd {
	return func() tea.Msg {
		rooms, err := admin.Rooms(context.Background())
		return roomsLoadedMsg{rooms: rooms, err: err}
	}
}

// deleteRoomCmd mutates and carries back the refetched collection.
func deleteRoomCmd(admin *core.Admin, roomName string) tea.Cmd {
	return func() tea.Msg {
		rooms, err := admin.DeleteRoom(context.Background(), roomName)
		return roomDeletedMsg{roomName: roomName, rooms: rooms, err: err}
	}
}

func (m roomsModel) selected() (domain.RoomInfo, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rooms) {
		return domain.RoomInfo{}, false
	}
	return m.rooms[m.cursor], true
}

func (m roomsModel) update(msg tea.Msg) (roomsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rooms)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m roomsModel) view() string {
	title := titleStyle.Render("Rooms")

	var b strings.Builder
	if m.loading && len(m.rooms) == 0 {
		b.WriteString(subtleStyle.Render("Loading rooms..."))
	} else if len(m.rooms) == 0 {
		b.WriteString(subtleStyle.Render("No rooms."))
	}
	for i, room := range m.rooms {
		line := fmt.Sprintf("%-24s %3d participants", room.Name, room.NumParticipants)
		if room.CreatedAtMillis > 0 {
			line += subtleStyle.Render("  created " + time.UnixMilli(room.CreatedAtMillis).Format("Jan 2 15:04"))
		}
		switch {
		case room.Name == m.busyRoom:
			line = subtleStyle.Render(line + "  (deleting...)")
		case i == m.cursor:
			line = selectedRowStyle.Render("› " + line)
		default:
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	help := subtleStyle.Render("d: delete • p: participants • r: refresh • esc: back")
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", b.String(), help))
}
