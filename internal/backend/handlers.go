package backend

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Chat/internal/config"
	"github.com/dkeye/Chat/internal/domain"
)

// Handlers binds the REST surface to the store, the realtime hub and the
// agent responder.
type Handlers struct {
	store     Store
	hub       *Hub
	responder Responder
	cfg       config.ServerConfig
	upgrader  websocket.Upgrader
}

func NewHandlers(store Store, hub *Hub, responder Responder, cfg config.ServerConfig) *Handlers {
	return &Handlers{
		store:     store,
		hub:       hub,
		responder: responder,
		cfg:       cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type roomRequest struct {
	RoomName string `json:"roomName" binding:"required,min=3,max=36"`
}

type tokenRequest struct {
	RoomName string `json:"roomName" binding:"required"`
	Identity string `json:"identity" binding:"required"`
}

type joinRequest struct {
	RoomName string `json:"roomName" binding:"required,min=3,max=36"`
	Username string `json:"username" binding:"required,min=2,max=36"`
}

type participantRequest struct {
	RoomName string `json:"roomName" binding:"required"`
	Identity string `json:"identity" binding:"required"`
}

type moveRequest struct {
	RoomName            string `json:"roomName" binding:"required"`
	Identity            string `json:"identity" binding:"required"`
	DestinationRoomName string `json:"destinationRoomName" binding:"required"`
}

type chatRequest struct {
	RoomName     string            `json:"roomName" binding:"required"`
	Username     string            `json:"username" binding:"required"`
	Message      string            `json:"message" binding:"required"`
	ChatMessages []domain.ChatTurn `json:"chatMessages"`
}

func (h *Handlers) CreateRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomName is required"})
		return
	}
	info, err := h.store.CreateRoom(req.RoomName)
	if err != nil {
		if errors.Is(err, ErrRoomExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "room already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	log.Info().Str("module", "backend.http").Str("room", info.Name).Msg("room created")
	c.JSON(http.StatusOK, info)
}

func (h *Handlers) GetToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomName and identity are required"})
		return
	}
	if _, ok := h.store.GetRoom(req.RoomName); !ok {
		// Token issuance implies the room; mirror the idempotent create.
		if _, err := h.store.CreateRoom(req.RoomName); err != nil && !errors.Is(err, ErrRoomExists) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	token := h.store.IssueToken(req.RoomName, req.Identity)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handlers) JoinRoom(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomName and username are required"})
		return
	}
	if _, ok := h.store.GetRoom(req.RoomName); !ok {
		if _, err := h.store.CreateRoom(req.RoomName); err != nil && !errors.Is(err, ErrRoomExists) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	if _, err := h.store.AddParticipant(req.RoomName, req.Username); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	room, _ := h.store.GetRoom(req.RoomName)
	c.JSON(http.StatusOK, domain.JoinResult{
		Success:  true,
		Greeting: fmt.Sprintf(h.cfg.Greeting, req.RoomName, req.Username),
		Room:     room,
	})
}

func (h *Handlers) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.store.ListRooms()})
}

func (h *Handlers) DeleteRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomName is required"})
		return
	}
	if err := h.store.DeleteRoom(req.RoomName); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.hub.EvictRoom(domain.RoomName(req.RoomName))
	log.Info().Str("module", "backend.http").Str("room", req.RoomName).Msg("room deleted")
	c.JSON(http.StatusOK, gin.H{})
}

func (h *Handlers) ListParticipants(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomName is required"})
		return
	}
	parts, err := h.store.ListParticipants(req.RoomName)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"participants": parts})
}

func (h *Handlers) RemoveParticipant(c *gin.Context) {
	var req participantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomName and identity are required"})
		return
	}
	if err := h.store.RemoveParticipant(req.RoomName, req.Identity); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.hub.Kick(domain.RoomName(req.RoomName), req.Identity)
	c.JSON(http.StatusOK, gin.H{})
}

func (h *Handlers) MoveParticipant(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomName, identity and destinationRoomName are required"})
		return
	}
	if err := h.store.MoveParticipant(req.RoomName, req.Identity, req.DestinationRoomName); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.hub.Move(domain.RoomName(req.RoomName), req.Identity, domain.RoomName(req.DestinationRoomName))
	c.JSON(http.StatusOK, gin.H{})
}

func (h *Handlers) CheckUsername(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomName and username are required"})
		return
	}
	if h.store.UsernameTaken(req.RoomName, req.Username) {
		c.JSON(http.StatusOK, domain.Availability{
			Available: false,
			Message:   fmt.Sprintf("Username %q is already taken in this room", req.Username),
		})
		return
	}
	c.JSON(http.StatusOK, domain.Availability{Available: true, Message: "Username is available"})
}

func (h *Handlers) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomName, username and message are required"})
		return
	}
	reply, err := h.responder.Reply(c.Request.Context(), req.RoomName, req.Username, req.Message, req.ChatMessages)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": reply})
}

// Realtime upgrades the connection and wires it into the hub. The token
// from /getToken is the only credential.
func (h *Handlers) Realtime(c *gin.Context) {
	token := c.Query("token")
	room, identity, ok := h.store.ResolveToken(token)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "backend.http").Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(h.cfg.ReadLimit)

	conn := newWSConn(ws)
	roomName := domain.RoomName(room)
	h.hub.Join(roomName, identity, conn)

	go conn.writePump(h.cfg.PingPeriod)
	go h.readPump(roomName, identity, conn)
}

func (h *Handlers) readPump(room domain.RoomName, identity string, conn *wsConn) {
	defer func() {
		h.hub.Leave(room, identity)
		conn.Close()
	}()
	for {
		_, data, err := conn.conn.ReadMessage()
		if err != nil {
			return
		}
		h.hub.Broadcast(room, identity, string(data))
	}
}
