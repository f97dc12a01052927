package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/dkeye/Chat/internal/domain"
)

// Responder produces the agent reply for a chat message. The default
// implementation is canned; real inference lives in an external service.
type Responder interface {
	Reply(ctx context.Context, room, username, message string, transcript []domain.ChatTurn) (string, error)
}

// CannedResponder answers with simple pattern-matched text so the chat
// loop is exercisable without any model behind it.
type CannedResponder struct{}

func (CannedResponder) Reply(_ context.Context, room, username, message string, transcript []domain.ChatTurn) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(message))
	switch {
	case lower == "":
		return "", nil
	case strings.HasPrefix(lower, "hello"), strings.HasPrefix(lower, "hi"), strings.HasPrefix(lower, "hey"):
		return fmt.Sprintf("Hello %s! How can I help you in %s today?", username, room), nil
	case strings.Contains(lower, "who are you"):
		return "I am the resident room agent. Ask me anything.", nil
	case strings.HasSuffix(lower, "?"):
		return fmt.Sprintf("Good question. After %d turns here, my honest answer is: it depends.", len(transcript)), nil
	default:
		return fmt.Sprintf("You said: %q. Tell me more.", message), nil
	}
}
