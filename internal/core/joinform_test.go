package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Chat/internal/domain"
)

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name     string
		roomName string
		username string
		ok       bool
	}{
		{"valid", "general-chat", "john_doe", true},
		{"valid short", "abc", "jo", true},
		{"trimmed", "  general-chat  ", " alice ", true},
		{"empty room", "", "alice", false},
		{"empty username", "general-chat", "", false},
		{"room too short", "ab", "alice", false},
		{"username too short", "general-chat", "a", false},
		{"room bad chars", "general chat", "alice", false},
		{"room unicode", "комната", "alice", false},
		{"username bad chars", "general-chat", "al!ce", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{avail: domain.Availability{Available: true}}
			form := NewJoinForm(backend, true)

			room, user, err := form.Submit(context.Background(), tt.roomName, tt.username)
			if tt.ok {
				require.NoError(t, err)
				assert.NotEmpty(t, room)
				assert.NotEmpty(t, user)
				assert.Equal(t, 1, backend.checkCalls)
			} else {
				require.Error(t, err)
				assert.Equal(t, 0, backend.checkCalls, "invalid input makes no backend call")
			}
		})
	}
}

func TestSubmitTrimsFields(t *testing.T) {
	backend := &fakeBackend{avail: domain.Availability{Available: true}}
	form := NewJoinForm(backend, false)

	room, user, err := form.Submit(context.Background(), "  general-chat ", " alice ")
	require.NoError(t, err)
	assert.Equal(t, "general-chat", room)
	assert.Equal(t, "alice", user)
}

func TestSubmitUsernameTaken(t *testing.T) {
	backend := &fakeBackend{avail: domain.Availability{Available: false, Message: "Username \"alice\" is already taken in this room"}}
	form := NewJoinForm(backend, true)

	_, _, err := form.Submit(context.Background(), "general-chat", "alice")
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Contains(t, err.Error(), "already taken")
}

func TestSubmitCheckFailureIsNotAGate(t *testing.T) {
	backend := &fakeBackend{checkErr: errors.New("network down")}
	form := NewJoinForm(backend, true)

	room, user, err := form.Submit(context.Background(), "general-chat", "alice")
	require.NoError(t, err, "availability check is best-effort")
	assert.Equal(t, "general-chat", room)
	assert.Equal(t, "alice", user)
}

func TestSubmitCheckDisabled(t *testing.T) {
	backend := &fakeBackend{}
	form := NewJoinForm(backend, false)

	_, _, err := form.Submit(context.Background(), "general-chat", "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, backend.checkCalls)
}

func TestValidateMessages(t *testing.T) {
	assert.Empty(t, ValidateRoomName("general-chat"))
	assert.Contains(t, ValidateRoomName("ab"), "at least 3 characters")
	assert.Contains(t, ValidateRoomName("bad name"), "letters, numbers, hyphens")
	assert.Empty(t, ValidateUsername("jo"))
	assert.Contains(t, ValidateUsername("a"), "at least 2 characters")
	assert.Contains(t, ValidateUsername("a!b"), "letters, numbers, hyphens")
}
