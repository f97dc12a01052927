// Package realtime binds the core's Channel boundary to the websocket
// endpoint of the chat service. The core never sees the transport; a real
// SDK binding would replace only this package.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Chat/internal/core"
	"github.com/dkeye/Chat/internal/domain"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrClosed       = errors.New("connection closed")
)

const (
	sendBuffer   = 32
	writeTimeout = 5 * time.Second
)

// envelope is the wire shape of a fanned-out room message.
type envelope struct {
	From struct {
		Identity string `json:"identity"`
	} `json:"from"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type Dialer struct{}

func NewDialer() *Dialer { return &Dialer{} }

// Dial connects with {serverUrl, token} and starts the IO pumps.
func (d *Dialer) Dial(ctx context.Context, serverURL, token string) (core.Channel, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, serverURL+"?token="+token, nil)
	if err != nil {
		return nil, err
	}

	ch := &wsChannel{
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	go ch.writePump()
	go ch.readPump()
	log.Info().Str("module", "realtime").Str("url", serverURL).Msg("channel connected")
	return ch, nil
}

// wsChannel keeps the live list of received messages and a bounded send
// queue. Messages are appended in receipt order; nothing is re-sorted or
// de-duplicated.
type wsChannel struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
	msgs   []domain.TransportMessage
}

func (c *wsChannel) Send(text string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.send <- []byte(text):
	default:
		return ErrBackpressure
	}
	return nil
}

// Messages returns a snapshot of everything received so far.
func (c *wsChannel) Messages() []domain.TransportMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.TransportMessage, len(c.msgs))
	copy(out, c.msgs)
	return out
}

func (c *wsChannel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

func (c *wsChannel) writePump() {
	for data := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			log.Error().Err(err).Str("module", "realtime").Msg("writePump set deadline")
			return
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Error().Err(err).Str("module", "realtime").Msg("writePump write error")
			return
		}
	}
}

func (c *wsChannel) readPump() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.mu.RLock()
			closed := c.closed
			c.mu.RUnlock()
			if !closed {
				log.Warn().Err(err).Str("module", "realtime").Msg("readPump read error")
			}
			return
		}
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Error().Err(err).Str("module", "realtime").Msg("bad frame")
			continue
		}
		c.mu.Lock()
		c.msgs = append(c.msgs, domain.TransportMessage{
			SenderIdentity:  env.From.Identity,
			Text:            env.Message,
			TimestampMillis: env.Timestamp,
		})
		c.mu.Unlock()
	}
}
