package core

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Chat/internal/domain"
)

// Admin drives the fetch-render-mutate loops of the management views.
// Every successful mutation is followed by exactly one full reload of the
// affected collection; state is never reconciled locally.
type Admin struct {
	backend Backend
}

func NewAdmin(backend Backend) *Admin {
	return &Admin{backend: backend}
}

func (a *Admin) Rooms(ctx context.Context) ([]domain.RoomInfo, error) {
	rooms, err := a.backend.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// DeleteRoom removes a room and returns the refetched room list.
func (a *Admin) DeleteRoom(ctx context.Context, roomName string) ([]domain.RoomInfo, error) {
	if err := a.backend.DeleteRoom(ctx, roomName); err != nil {
		return nil, fmt.Errorf("delete room: %w", err)
	}
	log.Info().Str("module", "core.admin").Str("room", roomName).Msg("room deleted")
	return a.Rooms(ctx)
}

func (a *Admin) Participants(ctx context.Context, roomName string) ([]domain.Participant, error) {
	parts, err := a.backend.ListParticipants(ctx, roomName)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return parts, nil
}

// RemoveParticipant kicks an identity and returns the refetched list.
func (a *Admin) RemoveParticipant(ctx context.Context, roomName, identity string) ([]domain.Participant, error) {
	if err := a.backend.RemoveParticipant(ctx, roomName, identity); err != nil {
		return nil, fmt.Errorf("remove participant: %w", err)
	}
	log.Info().Str("module", "core.admin").Str("room", roomName).Str("identity", identity).Msg("participant removed")
	return a.Participants(ctx, roomName)
}

// MoveParticipant relocates an identity and returns the refetched list
// for the source room.
func (a *Admin) MoveParticipant(ctx context.Context, roomName, identity, destinationRoomName string) ([]domain.Participant, error) {
	if err := a.backend.MoveParticipant(ctx, roomName, identity, destinationRoomName); err != nil {
		return nil, fmt.Errorf("move participant: %w", err)
	}
	log.Info().Str("module", "core.admin").Str("room", roomName).Str("identity", identity).Str("to", destinationRoomName).Msg("participant moved")
	return a.Participants(ctx, roomName)
}
