package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Chat/internal/api"
	"github.com/dkeye/Chat/internal/domain"
)

// SessionController owns the transition from "unjoined" to "connected to
// a live room": idle -> connecting -> connected | failed. Leaving from
// any state discards the session and returns to idle.
//
// Join performs its side effects in order with no rollback: ensure-create
// the room (an "already exists" answer is success), fetch a realtime
// token, dial the channel. Failures are terminal for the attempt; the
// user re-triggers via the join form.
type SessionController struct {
	backend     Backend
	dialer      Dialer
	realtimeURL string

	inflight chan struct{}

	mu      sync.RWMutex
	state   domain.ConnectionState
	token   string
	lastErr error
	session domain.Session
	channel Channel
}

func NewSessionController(backend Backend, dialer Dialer, realtimeURL string) *SessionController {
	return &SessionController{
		backend:     backend,
		dialer:      dialer,
		realtimeURL: realtimeURL,
		inflight:    make(chan struct{}, 1),
		state:       domain.StateIdle,
	}
}

func (c *SessionController) State() domain.ConnectionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Token is non-empty iff the controller is connected.
func (c *SessionController) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *SessionController) LastErr() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Session returns the active session, valid only while connected.
func (c *SessionController) Session() (domain.Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session, c.state == domain.StateConnected
}

// Channel returns the live realtime channel, valid only while connected.
func (c *SessionController) Channel() (Channel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channel, c.state == domain.StateConnected
}

// Join runs the connect sequence for a confirmed (room, identity) pair.
// A second Join while one is outstanding returns ErrBusy.
func (c *SessionController) Join(ctx context.Context, roomName, identity string) error {
	select {
	case c.inflight <- struct{}{}:
	default:
		return ErrBusy
	}
	defer func() { <-c.inflight }()

	c.setState(domain.StateConnecting, nil)

	if _, err := c.backend.CreateRoom(ctx, roomName); err != nil {
		if errors.Is(err, api.ErrRoomExists) {
			log.Debug().Str("module", "core.session").Str("room", roomName).Msg("room already exists")
		} else {
			// Create is best-effort; the token request decides the outcome.
			log.Warn().Err(err).Str("module", "core.session").Str("room", roomName).Msg("ensure-create failed")
		}
	}

	token, err := c.backend.GetToken(ctx, roomName, identity)
	if err != nil {
		err = fmt.Errorf("get token: %w", err)
		c.setState(domain.StateFailed, err)
		return err
	}
	if token == "" {
		c.setState(domain.StateFailed, ErrNoToken)
		return ErrNoToken
	}

	ch, err := c.dialer.Dial(ctx, c.realtimeURL, token)
	if err != nil {
		err = fmt.Errorf("realtime connect: %w", err)
		c.setState(domain.StateFailed, err)
		return err
	}

	c.mu.Lock()
	c.state = domain.StateConnected
	c.token = token
	c.lastErr = nil
	c.session = domain.Session{RoomName: roomName, Identity: identity, DisplayName: identity}
	c.channel = ch
	c.mu.Unlock()

	log.Info().Str("module", "core.session").Str("room", roomName).Str("identity", identity).Msg("connected")
	return nil
}

// Leave tears down the realtime connection and clears the token so a
// rejoin always fetches a fresh one.
func (c *SessionController) Leave() {
	c.mu.Lock()
	ch := c.channel
	room := c.session.RoomName
	c.state = domain.StateIdle
	c.token = ""
	c.lastErr = nil
	c.session = domain.Session{}
	c.channel = nil
	c.mu.Unlock()

	if ch != nil {
		ch.Close()
	}
	if room != "" {
		log.Info().Str("module", "core.session").Str("room", room).Msg("left room")
	}
}

func (c *SessionController) setState(s domain.ConnectionState, err error) {
	c.mu.Lock()
	c.state = s
	c.lastErr = err
	if s != domain.StateConnected {
		c.token = ""
		c.channel = nil
	}
	c.mu.Unlock()
}
