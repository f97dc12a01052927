package core

import (
	"context"
	"sync"

	"github.com/dkeye/Chat/internal/domain"
)

// fakeBackend scripts the REST boundary and counts calls.
type fakeBackend struct {
	mu sync.Mutex

	createErr   error
	createCalls int

	token      string
	tokenErr   error
	tokenCalls int

	joinResult domain.JoinResult
	joinErr    error

	rooms          []domain.RoomInfo
	listRoomsErr   error
	listRoomsCalls int
	deleteErr      error

	parts          []domain.Participant
	listPartsErr   error
	listPartsCalls int
	removeErr      error
	moveErr        error

	avail      domain.Availability
	checkErr   error
	checkCalls int

	chatReply string
	chatErr   error
	chatCalls int
	lastChat  []domain.ChatTurn

	blockJoin chan struct{}
}

func (f *fakeBackend) CreateRoom(_ context.Context, roomName string) (domain.RoomInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return domain.RoomInfo{}, f.createErr
	}
	return domain.RoomInfo{Name: roomName, SID: "RM_test"}, nil
}

func (f *fakeBackend) GetToken(_ context.Context, _, _ string) (string, error) {
	if f.blockJoin != nil {
		<-f.blockJoin
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenCalls++
	return f.token, f.tokenErr
}

func (f *fakeBackend) JoinRoom(_ context.Context, _, _ string) (domain.JoinResult, error) {
	return f.joinResult, f.joinErr
}

func (f *fakeBackend) ListRooms(_ context.Context) ([]domain.RoomInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listRoomsCalls++
	return f.rooms, f.listRoomsErr
}

func (f *fakeBackend) DeleteRoom(_ context.Context, _ string) error {
	return f.deleteErr
}

func (f *fakeBackend) ListParticipants(_ context.Context, _ string) ([]domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listPartsCalls++
	return f.parts, f.listPartsErr
}

func (f *fakeBackend) RemoveParticipant(_ context.Context, _, _ string) error {
	return f.removeErr
}

func (f *fakeBackend) MoveParticipant(_ context.Context, _, _, _ string) error {
	return f.moveErr
}

func (f *fakeBackend) CheckUsername(_ context.Context, _, _ string) (domain.Availability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkCalls++
	return f.avail, f.checkErr
}

func (f *fakeBackend) Chat(_ context.Context, _, _, _ string, transcript []domain.ChatTurn) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatCalls++
	f.lastChat = transcript
	return f.chatReply, f.chatErr
}

// fakeChannel records broadcasts and serves a scripted message list.
type fakeChannel struct {
	mu      sync.Mutex
	sent    []string
	sendErr error
	msgs    []domain.TransportMessage
	closed  bool
}

func (c *fakeChannel) Send(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, text)
	return nil
}

func (c *fakeChannel) Messages() []domain.TransportMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.TransportMessage, len(c.msgs))
	copy(out, c.msgs)
	return out
}

func (c *fakeChannel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeChannel) sentSnapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.sent))
	copy(out, c.sent)
	return out
}

type fakeDialer struct {
	mu      sync.Mutex
	channel *fakeChannel
	dialErr error
	calls   int
}

func (d *fakeDialer) Dial(_ context.Context, _, _ string) (Channel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.dialErr != nil {
		return nil, d.dialErr
	}
	if d.channel == nil {
		d.channel = &fakeChannel{}
	}
	return d.channel, nil
}
