package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoomTwice(t *testing.T) {
	s := NewMemoryStore()

	info, err := s.CreateRoom("general-chat")
	require.NoError(t, err)
	assert.Equal(t, "general-chat", info.Name)
	assert.NotEmpty(t, info.SID)

	_, err = s.CreateRoom("general-chat")
	assert.ErrorIs(t, err, ErrRoomExists)
}

func TestParticipantLifecycle(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.CreateRoom("general-chat")
	require.NoError(t, err)

	p, err := s.AddParticipant("general-chat", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Identity)
	assert.True(t, s.UsernameTaken("general-chat", "alice"))
	assert.False(t, s.UsernameTaken("general-chat", "bob"))

	parts, err := s.ListParticipants("general-chat")
	require.NoError(t, err)
	require.Len(t, parts, 1)

	require.NoError(t, s.RemoveParticipant("general-chat", "alice"))
	assert.ErrorIs(t, s.RemoveParticipant("general-chat", "alice"), ErrParticipantNotFound)
}

func TestMoveParticipant(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.CreateRoom("general-chat")
	require.NoError(t, err)
	_, err = s.CreateRoom("quiet-room")
	require.NoError(t, err)
	_, err = s.AddParticipant("general-chat", "alice")
	require.NoError(t, err)

	require.NoError(t, s.MoveParticipant("general-chat", "alice", "quiet-room"))

	assert.False(t, s.UsernameTaken("general-chat", "alice"))
	assert.True(t, s.UsernameTaken("quiet-room", "alice"))

	assert.ErrorIs(t, s.MoveParticipant("general-chat", "alice", "nowhere"), ErrRoomNotFound)
}

func TestTokens(t *testing.T) {
	s := NewMemoryStore()

	token := s.IssueToken("general-chat", "alice")
	require.NotEmpty(t, token)

	room, identity, ok := s.ResolveToken(token)
	require.True(t, ok)
	assert.Equal(t, "general-chat", room)
	assert.Equal(t, "alice", identity)

	_, _, ok = s.ResolveToken("bogus")
	assert.False(t, ok)

	other := s.IssueToken("general-chat", "alice")
	assert.NotEqual(t, token, other, "tokens are single-issue opaque values")
}

func TestDeleteRoom(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.CreateRoom("general-chat")
	require.NoError(t, err)

	require.NoError(t, s.DeleteRoom("general-chat"))
	assert.ErrorIs(t, s.DeleteRoom("general-chat"), ErrRoomNotFound)
	assert.Empty(t, s.ListRooms())
}
