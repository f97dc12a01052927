package backend

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dkeye/Chat/internal/domain"
)

var (
	ErrRoomExists          = errors.New("room already exists")
	ErrRoomNotFound        = errors.New("room not found")
	ErrParticipantNotFound = errors.New("participant not found")
)

// Store owns rooms, participants and issued tokens. Explicit lifecycle:
// constructed on process start, no teardown. The in-memory implementation
// is the only one; a persistent store can substitute without touching
// handlers.
type Store interface {
	CreateRoom(name string) (domain.RoomInfo, error)
	GetRoom(name string) (domain.RoomInfo, bool)
	ListRooms() []domain.RoomInfo
	DeleteRoom(name string) error

	AddParticipant(room, identity string) (domain.Participant, error)
	RemoveParticipant(room, identity string) error
	MoveParticipant(room, identity, destination string) error
	ListParticipants(room string) ([]domain.Participant, error)
	UsernameTaken(room, username string) bool

	IssueToken(room, identity string) string
	ResolveToken(token string) (room, identity string, ok bool)
}

type roomRecord struct {
	info         domain.RoomInfo
	participants map[string]domain.Participant
}

type tokenRecord struct {
	room     string
	identity string
}

type memoryStore struct {
	mu     sync.RWMutex
	rooms  map[domain.RoomName]*roomRecord
	tokens map[string]tokenRecord
}

func NewMemoryStore() Store {
	return &memoryStore{
		rooms:  make(map[domain.RoomName]*roomRecord),
		tokens: make(map[string]tokenRecord),
	}
}

func (s *memoryStore) CreateRoom(name string) (domain.RoomInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[domain.RoomName(name)]; ok {
		return domain.RoomInfo{}, ErrRoomExists
	}
	rec := &roomRecord{
		info: domain.RoomInfo{
			Name:            name,
			SID:             "RM_" + uuid.NewString(),
			CreatedAtMillis: time.Now().UnixMilli(),
		},
		participants: make(map[string]domain.Participant),
	}
	s.rooms[domain.RoomName(name)] = rec
	return rec.info, nil
}

func (s *memoryStore) GetRoom(name string) (domain.RoomInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.rooms[domain.RoomName(name)]
	if !ok {
		return domain.RoomInfo{}, false
	}
	info := rec.info
	info.NumParticipants = len(rec.participants)
	return info, true
}

func (s *memoryStore) ListRooms() []domain.RoomInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.RoomInfo, 0, len(s.rooms))
	for _, rec := range s.rooms {
		info := rec.info
		info.NumParticipants = len(rec.participants)
		out = append(out, info)
	}
	return out
}

func (s *memoryStore) DeleteRoom(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[domain.RoomName(name)]; !ok {
		return ErrRoomNotFound
	}
	delete(s.rooms, domain.RoomName(name))
	return nil
}

func (s *memoryStore) AddParticipant(room, identity string) (domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.rooms[domain.RoomName(room)]
	if !ok {
		return domain.Participant{}, ErrRoomNotFound
	}
	if p, ok := rec.participants[identity]; ok {
		return p, nil
	}
	p := domain.Participant{
		Identity:       identity,
		SID:            "PA_" + uuid.NewString(),
		Name:           identity,
		JoinedAtMillis: time.Now().UnixMilli(),
		Permissions:    domain.Permissions{CanPublish: true, CanSubscribe: true},
	}
	rec.participants[identity] = p
	return p, nil
}

func (s *memoryStore) RemoveParticipant(room, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.rooms[domain.RoomName(room)]
	if !ok {
		return ErrRoomNotFound
	}
	if _, ok := rec.participants[identity]; !ok {
		return ErrParticipantNotFound
	}
	delete(rec.participants, identity)
	return nil
}

func (s *memoryStore) MoveParticipant(room, identity, destination string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	from, ok := s.rooms[domain.RoomName(room)]
	if !ok {
		return ErrRoomNotFound
	}
	to, ok := s.rooms[domain.RoomName(destination)]
	if !ok {
		return ErrRoomNotFound
	}
	p, ok := from.participants[identity]
	if !ok {
		return ErrParticipantNotFound
	}
	delete(from.participants, identity)
	to.participants[identity] = p
	return nil
}

func (s *memoryStore) ListParticipants(room string) ([]domain.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.rooms[domain.RoomName(room)]
	if !ok {
		return nil, ErrRoomNotFound
	}
	out := make([]domain.Participant, 0, len(rec.participants))
	for _, p := range rec.participants {
		out = append(out, p)
	}
	return out, nil
}

func (s *memoryStore) UsernameTaken(room, username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.rooms[domain.RoomName(room)]
	if !ok {
		return false
	}
	_, taken := rec.participants[username]
	return taken
}

// IssueToken mints an opaque token bound to (room, identity). No claims,
// no signing; this stands in for the external token service.
func (s *memoryStore) IssueToken(room, identity string) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = tokenRecord{room: room, identity: identity}
	s.mu.Unlock()
	return token
}

func (s *memoryStore) ResolveToken(token string) (string, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.tokens[token]
	return rec.room, rec.identity, ok
}
