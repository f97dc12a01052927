package core

import (
	"context"
	"errors"

	"github.com/dkeye/Chat/internal/domain"
)

var (
	// ErrBusy rejects a second join or send while one is outstanding.
	ErrBusy = errors.New("operation already in flight")

	// ErrNoToken marks a token request that succeeded but returned an
	// empty token. Rendered separately from the generic failure state.
	ErrNoToken = errors.New("no token available")

	// ErrUsernameTaken soft-blocks a join after a definitive
	// availability check.
	ErrUsernameTaken = errors.New("username taken")
)

// Backend is the REST surface of the external chat service.
// Implemented by api.Client; faked in tests.
type Backend interface {
	CreateRoom(ctx context.Context, roomName string) (domain.RoomInfo, error)
	GetToken(ctx context.Context, roomName, identity string) (string, error)
	JoinRoom(ctx context.Context, roomName, username string) (domain.JoinResult, error)
	ListRooms(ctx context.Context) ([]domain.RoomInfo, error)
	DeleteRoom(ctx context.Context, roomName string) error
	ListParticipants(ctx context.Context, roomName string) ([]domain.Participant, error)
	RemoveParticipant(ctx context.Context, roomName, identity string) error
	MoveParticipant(ctx context.Context, roomName, identity, destinationRoomName string) error
	CheckUsername(ctx context.Context, roomName, username string) (domain.Availability, error)
	Chat(ctx context.Context, roomName, username, message string, transcript []domain.ChatTurn) (string, error)
}

// Channel is a live realtime connection. Owned by the adapter that
// dialed it; Close tears down the underlying transport.
type Channel interface {
	Send(text string) error
	Messages() []domain.TransportMessage
	Close()
}

// Dialer connects to the realtime service. The core never sees the
// transport, only this boundary.
type Dialer interface {
	Dial(ctx context.Context, serverURL, token string) (Channel, error)
}
