package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Chat/internal/domain"
)

// Classify projects transport messages into their rendered form.
// A message is agent-authored if its text carries the AI marker or its
// sender is the reserved agent identity; the marker is stripped for
// display. Receipt order is preserved and duplicates are kept.
func Classify(msgs []domain.TransportMessage, selfIdentity string) []domain.Message {
	out := make([]domain.Message, 0, len(msgs))
	for _, m := range msgs {
		fromAI := strings.HasPrefix(m.Text, domain.AIMarker) || m.SenderIdentity == domain.AgentIdentity
		text := m.Text
		if strings.HasPrefix(text, domain.AIMarker) {
			text = strings.TrimPrefix(text, domain.AIMarker)
		}
		out = append(out, domain.Message{
			Text:            text,
			FromAI:          fromAI,
			FromSelf:        !fromAI && m.SenderIdentity == selfIdentity,
			TimestampMillis: m.TimestampMillis,
		})
	}
	return out
}

// Transcript builds the role-tagged rolling transcript for the backend
// chat endpoint: the local identity maps to "user", everything else to
// "assistant".
func Transcript(msgs []domain.TransportMessage, selfIdentity string) []domain.ChatTurn {
	out := make([]domain.ChatTurn, 0, len(msgs))
	for _, m := range msgs {
		role := "assistant"
		if m.SenderIdentity == selfIdentity && !strings.HasPrefix(m.Text, domain.AIMarker) {
			role = "user"
		}
		out = append(out, domain.ChatTurn{
			Role:    role,
			Content: strings.TrimPrefix(m.Text, domain.AIMarker),
		})
	}
	return out
}

// ChatService relays locally-typed text to the realtime channel and to
// the backend chat endpoint, rebroadcasting agent replies with the AI
// marker so every participant receives them as ordinary transport
// messages.
type ChatService struct {
	backend Backend
	channel Channel
	session domain.Session

	inflight chan struct{}
}

func NewChatService(backend Backend, channel Channel, session domain.Session) *ChatService {
	return &ChatService{
		backend:  backend,
		channel:  channel,
		session:  session,
		inflight: make(chan struct{}, 1),
	}
}

// Messages returns the classified view of everything received so far.
func (s *ChatService) Messages() []domain.Message {
	return Classify(s.channel.Messages(), s.session.Identity)
}

// Send broadcasts text and requests an agent reply. The user message is
// fire-and-forget with respect to the agent step: once broadcast it is
// never rolled back, even when the chat call fails. No retries.
// A second Send while one is outstanding returns ErrBusy.
func (s *ChatService) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	select {
	case s.inflight <- struct{}{}:
	default:
		return ErrBusy
	}
	defer func() { <-s.inflight }()

	transcript := Transcript(s.channel.Messages(), s.session.Identity)

	if err := s.channel.Send(text); err != nil {
		return fmt.Errorf("broadcast: %w", err)
	}

	reply, err := s.backend.Chat(ctx, s.session.RoomName, s.session.Identity, text, transcript)
	if err != nil {
		return fmt.Errorf("agent reply: %w", err)
	}
	if reply == "" {
		log.Warn().Str("module", "core.chat").Str("room", s.session.RoomName).Msg("empty agent reply")
		return nil
	}

	if err := s.channel.Send(domain.AIMarker + reply); err != nil {
		return fmt.Errorf("broadcast reply: %w", err)
	}
	return nil
}
