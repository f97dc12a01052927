// Package domain contains entity without logic, just meta-data
package domain

const (
	MinRoomNameLen = 3
	MinUsernameLen = 2
	MaxUsernameLen = 36

	// NamePattern constrains both room names and usernames.
	NamePattern = `^[A-Za-z0-9_-]+$`
)

// Session binds a confirmed join to an identity. Created when a join is
// confirmed, discarded on leave, owned by the top-level controller.
type Session struct {
	RoomName    string
	Identity    string
	DisplayName string
}

type ConnectionState int

const (
	StateIdle ConnectionState = iota
	StateConnecting
	StateConnected
	StateFailed
)

func (s ConnectionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
