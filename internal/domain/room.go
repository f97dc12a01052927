package domain

type (
	RoomName string
	RoomSID  string
)

// RoomInfo is a read-only room summary as reported by the backend.
// Refreshed on demand, never mutated locally.
type RoomInfo struct {
	Name            string `json:"name"`
	SID             string `json:"sid"`
	NumParticipants int    `json:"num_participants,omitempty"`
	CreatedAtMillis int64  `json:"creation_time,omitempty"`
}

// JoinResult is the backend's answer to an explicit room join.
type JoinResult struct {
	Success  bool     `json:"success"`
	Greeting string   `json:"greeting"`
	Room     RoomInfo `json:"room"`
}

// Availability reports whether a username is free in a room.
type Availability struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}
