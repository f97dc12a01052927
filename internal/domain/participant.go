package domain

// Permissions is the backend's view of what a participant may do.
type Permissions struct {
	CanPublish   bool `json:"can_publish"`
	CanSubscribe bool `json:"can_subscribe"`
}

// Participant is a read-only snapshot from the backend. Mutated only via
// explicit remove/move RPCs, never locally.
type Participant struct {
	Identity       string      `json:"identity"`
	SID            string      `json:"sid"`
	Name           string      `json:"name,omitempty"`
	Metadata       string      `json:"metadata,omitempty"`
	JoinedAtMillis int64       `json:"joined_at"`
	Permissions    Permissions `json:"permissions"`
}
