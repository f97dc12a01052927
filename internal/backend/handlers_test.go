package backend

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Chat/internal/config"
	"github.com/dkeye/Chat/internal/domain"
)

func testRouter() (*gin.Engine, Store) {
	gin.SetMode(gin.TestMode)
	cfg := config.ServerConfig{
		Mode:       "test",
		ReadLimit:  32768,
		PingPeriod: 54 * time.Second,
		Greeting:   "Welcome to %s, %s! The AI agent is listening.",
	}
	store := NewMemoryStore()
	h := NewHandlers(store, NewHub(), CannedResponder{}, cfg)
	return SetupRouter(cfg, h), store
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateRoomEndpoint(t *testing.T) {
	r, _ := testRouter()

	w := doJSON(t, r, http.MethodPost, "/createRoom", map[string]string{"roomName": "general-chat"})
	require.Equal(t, http.StatusOK, w.Code)

	var info domain.RoomInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "general-chat", info.Name)

	w = doJSON(t, r, http.MethodPost, "/createRoom", map[string]string{"roomName": "general-chat"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "room already exists")
}

func TestCreateRoomValidation(t *testing.T) {
	r, _ := testRouter()
	w := doJSON(t, r, http.MethodPost, "/createRoom", map[string]string{"roomName": "ab"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTokenImpliesRoom(t *testing.T) {
	r, store := testRouter()

	w := doJSON(t, r, http.MethodPost, "/getToken", map[string]string{
		"roomName": "general-chat",
		"identity": "alice",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	room, identity, ok := store.ResolveToken(resp.Token)
	require.True(t, ok)
	assert.Equal(t, "general-chat", room)
	assert.Equal(t, "alice", identity)

	_, ok = store.GetRoom("general-chat")
	assert.True(t, ok, "token issuance creates the room if missing")
}

func TestJoinRoomGreeting(t *testing.T) {
	r, store := testRouter()

	w := doJSON(t, r, http.MethodPost, "/joinRoom", map[string]string{
		"roomName": "general-chat",
		"username": "alice",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var res domain.JoinResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, "Welcome to general-chat, alice! The AI agent is listening.", res.Greeting)
	assert.Equal(t, "general-chat", res.Room.Name)
	assert.True(t, store.UsernameTaken("general-chat", "alice"))
}

func TestCheckUsernameEndpoint(t *testing.T) {
	r, _ := testRouter()

	doJSON(t, r, http.MethodPost, "/joinRoom", map[string]string{
		"roomName": "general-chat",
		"username": "alice",
	})

	w := doJSON(t, r, http.MethodPost, "/checkUsername", map[string]string{
		"roomName": "general-chat",
		"username": "alice",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var avail domain.Availability
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &avail))
	assert.False(t, avail.Available)
	assert.Contains(t, avail.Message, "taken")

	w = doJSON(t, r, http.MethodPost, "/checkUsername", map[string]string{
		"roomName": "general-chat",
		"username": "bob",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &avail))
	assert.True(t, avail.Available)
}

func TestDeleteRoomEndpoint(t *testing.T) {
	r, _ := testRouter()

	doJSON(t, r, http.MethodPost, "/createRoom", map[string]string{"roomName": "general-chat"})

	w := doJSON(t, r, http.MethodPost, "/deleteRoom", map[string]string{"roomName": "general-chat"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/listRooms", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Rooms []domain.RoomInfo `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Rooms)

	w = doJSON(t, r, http.MethodPost, "/deleteRoom", map[string]string{"roomName": "general-chat"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveAndMoveParticipantEndpoints(t *testing.T) {
	r, store := testRouter()

	doJSON(t, r, http.MethodPost, "/joinRoom", map[string]string{"roomName": "general-chat", "username": "alice"})
	doJSON(t, r, http.MethodPost, "/createRoom", map[string]string{"roomName": "quiet-room"})

	w := doJSON(t, r, http.MethodPost, "/moveParticipant", map[string]string{
		"roomName":            "general-chat",
		"identity":            "alice",
		"destinationRoomName": "quiet-room",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, store.UsernameTaken("quiet-room", "alice"))

	w = doJSON(t, r, http.MethodPost, "/removeParticipant", map[string]string{
		"roomName": "quiet-room",
		"identity": "alice",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, store.UsernameTaken("quiet-room", "alice"))

	w = doJSON(t, r, http.MethodPost, "/removeParticipant", map[string]string{
		"roomName": "quiet-room",
		"identity": "alice",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatEndpoint(t *testing.T) {
	r, _ := testRouter()

	w := doJSON(t, r, http.MethodPost, "/chat", map[string]any{
		"roomName":     "general-chat",
		"username":     "alice",
		"message":      "hello there",
		"chatMessages": []domain.ChatTurn{},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Response string `json:"response"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Response, "alice")
}

func TestRealtimeRejectsBadToken(t *testing.T) {
	r, _ := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/ws?token=bogus", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
