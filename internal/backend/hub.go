package backend

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Chat/internal/domain"
)

// frameEnvelope is the wire shape fanned out to room members.
type frameEnvelope struct {
	From struct {
		Identity string `json:"identity"`
	} `json:"from"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// Hub is the threadsafe membership set of live realtime connections,
// keyed by room and identity. It owns fan-out only; room metadata lives
// in the Store.
type Hub struct {
	mu    sync.RWMutex
	rooms map[domain.RoomName]map[string]*wsConn
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[domain.RoomName]map[string]*wsConn)}
}

func (h *Hub) Join(room domain.RoomName, identity string, conn *wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[string]*wsConn)
		h.rooms[room] = members
	}
	// A reconnect under the same identity replaces the old connection.
	if old, ok := members[identity]; ok {
		old.Close()
	}
	members[identity] = conn
	log.Info().Str("module", "backend.hub").Str("room", string(room)).Str("identity", identity).Msg("member joined")
}

func (h *Hub) Leave(room domain.RoomName, identity string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, identity)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
	log.Info().Str("module", "backend.hub").Str("room", string(room)).Str("identity", identity).Msg("member left")
}

func (h *Hub) MemberCount(room domain.RoomName) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Broadcast fans a message out to every member of the room, including
// the sender, so the sender's own transcript comes back through the
// transport. Members that cannot keep up are kicked.
func (h *Hub) Broadcast(room domain.RoomName, fromIdentity, text string) {
	var env frameEnvelope
	env.From.Identity = fromIdentity
	env.Message = text
	env.Timestamp = time.Now().UnixMilli()
	data, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Str("module", "backend.hub").Msg("marshal frame")
		return
	}

	h.mu.RLock()
	members := h.rooms[room]
	sent := 0
	var dropped []string
	for identity, conn := range members {
		if err := conn.TrySend(data); err != nil {
			dropped = append(dropped, identity)
			continue
		}
		sent++
	}
	h.mu.RUnlock()

	for _, identity := range dropped {
		h.Kick(room, identity)
	}
	log.Debug().Str("module", "backend.hub").Str("room", string(room)).Int("sent_to", sent).Int("dropped", len(dropped)).Msg("broadcast result")
}

// Kick closes the member's connection and removes it from the room.
func (h *Hub) Kick(room domain.RoomName, identity string) {
	h.mu.Lock()
	members := h.rooms[room]
	conn, ok := members[identity]
	if ok {
		delete(members, identity)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()
	if ok {
		conn.Close()
		log.Info().Str("module", "backend.hub").Str("room", string(room)).Str("identity", identity).Msg("member kicked")
	}
}

// Move relocates a live connection between rooms, if one exists.
func (h *Hub) Move(room domain.RoomName, identity string, destination domain.RoomName) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	conn, ok := members[identity]
	if !ok {
		return
	}
	delete(members, identity)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
	dest, ok := h.rooms[destination]
	if !ok {
		dest = make(map[string]*wsConn)
		h.rooms[destination] = dest
	}
	dest[identity] = conn
	log.Info().Str("module", "backend.hub").Str("room", string(room)).Str("to", string(destination)).Str("identity", identity).Msg("member moved")
}

// EvictRoom kicks every member and forgets the room.
func (h *Hub) EvictRoom(room domain.RoomName) {
	h.mu.Lock()
	members := h.rooms[room]
	delete(h.rooms, room)
	h.mu.Unlock()
	for identity, conn := range members {
		conn.Close()
		log.Info().Str("module", "backend.hub").Str("room", string(room)).Str("identity", identity).Msg("member evicted")
	}
}
