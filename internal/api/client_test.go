package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Chat/internal/domain"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(srv.URL, 5*time.Second), srv
}

func TestCreateRoom(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/createRoom", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "general-chat", body["roomName"])

		json.NewEncoder(w).Encode(domain.RoomInfo{Name: "general-chat", SID: "RM_1"})
	}))
	defer srv.Close()

	room, err := client.CreateRoom(context.Background(), "general-chat")
	require.NoError(t, err)
	assert.Equal(t, "RM_1", room.SID)
}

func TestCreateRoomConflict(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "room already exists"})
	}))
	defer srv.Close()

	_, err := client.CreateRoom(context.Background(), "general-chat")
	assert.ErrorIs(t, err, ErrRoomExists)
}

func TestBackendErrorIsNormalized(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "token service unavailable"})
	}))
	defer srv.Close()

	_, err := client.GetToken(context.Background(), "general-chat", "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token service unavailable")
}

func TestHTTPErrorWithoutBody(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := client.ListRooms(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestNetworkErrorIsNormalized(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client := New(srv.URL, time.Second)
	srv.Close()

	_, err := client.ListRooms(context.Background())
	require.Error(t, err, "transport failure collapses into a plain error")
}

func TestChatSendsTranscript(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)
		var body chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "general-chat", body.RoomName)
		assert.Equal(t, "alice", body.Username)
		assert.Equal(t, "hi", body.Message)
		require.Len(t, body.ChatMessages, 2)
		assert.Equal(t, "user", body.ChatMessages[0].Role)

		json.NewEncoder(w).Encode(map[string]string{"response": "hey"})
	}))
	defer srv.Close()

	reply, err := client.Chat(context.Background(), "general-chat", "alice", "hi", []domain.ChatTurn{
		{Role: "user", Content: "earlier"},
		{Role: "assistant", Content: "earlier reply"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hey", reply)
}

func TestMoveParticipantBody(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["identity"])
		assert.Equal(t, "quiet-room", body["destinationRoomName"])
		json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer srv.Close()

	err := client.MoveParticipant(context.Background(), "general-chat", "alice", "quiet-room")
	require.NoError(t, err)
}

func TestCheckUsername(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.Availability{Available: false, Message: "taken"})
	}))
	defer srv.Close()

	avail, err := client.CheckUsername(context.Background(), "general-chat", "alice")
	require.NoError(t, err)
	assert.False(t, avail.Available)
	assert.Equal(t, "taken", avail.Message)
}
