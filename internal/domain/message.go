package domain

const (
	// AIMarker prefixes agent replies rebroadcast over the realtime channel.
	// Plain string convention, no escaping: a user typing the exact prefix
	// is classified as the agent.
	AIMarker = "[AI]: "

	// AgentIdentity is the reserved identity of the backend agent.
	AgentIdentity = "ai-agent"
)

// TransportMessage is a message as received from the realtime channel.
// Owned by the channel; readers classify it, never mutate it.
type TransportMessage struct {
	SenderIdentity  string
	Text            string
	TimestampMillis int64
}

// Message is the classified projection of a TransportMessage, recomputed
// on every render and never persisted.
type Message struct {
	Text            string
	FromAI          bool
	FromSelf        bool
	TimestampMillis int64
}

// ChatTurn is one role-tagged entry of the rolling transcript sent to the
// backend chat endpoint.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
