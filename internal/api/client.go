// Package api is a thin REST wrapper over the chat backend. Every call
// returns a typed payload or a normalized error: backend-reported failures
// and transport failures both collapse into a plain error, mirroring the
// {success, data, error} envelope of the HTTP surface.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Chat/internal/domain"
)

// ErrRoomExists marks an ensure-create hitting an existing room.
// Callers treat it as success.
var ErrRoomExists = errors.New("room already exists")

const maxResponseSize = 1 << 20

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusConflict {
			return fmt.Errorf("%s: %w", path, ErrRoomExists)
		}
		var e errorResponse
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return fmt.Errorf("%s: %s", path, e.Error)
		}
		return fmt.Errorf("%s: HTTP %d: %s", path, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s: decode response: %w", path, err)
		}
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) CreateRoom(ctx context.Context, roomName string) (domain.RoomInfo, error) {
	var room domain.RoomInfo
	err := c.post(ctx, "/createRoom", map[string]string{"roomName": roomName}, &room)
	if err != nil {
		return domain.RoomInfo{}, err
	}
	log.Debug().Str("module", "api").Str("room", room.Name).Msg("room created")
	return room, nil
}

func (c *Client) GetToken(ctx context.Context, roomName, identity string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	err := c.post(ctx, "/getToken", map[string]string{
		"roomName": roomName,
		"identity": identity,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *Client) JoinRoom(ctx context.Context, roomName, username string) (domain.JoinResult, error) {
	var res domain.JoinResult
	err := c.post(ctx, "/joinRoom", map[string]string{
		"roomName": roomName,
		"username": username,
	}, &res)
	if err != nil {
		return domain.JoinResult{}, err
	}
	return res, nil
}

func (c *Client) ListRooms(ctx context.Context) ([]domain.RoomInfo, error) {
	var resp struct {
		Rooms []domain.RoomInfo `json:"rooms"`
	}
	if err := c.do(ctx, http.MethodGet, "/listRooms", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Rooms, nil
}

func (c *Client) DeleteRoom(ctx context.Context, roomName string) error {
	return c.post(ctx, "/deleteRoom", map[string]string{"roomName": roomName}, nil)
}

func (c *Client) ListParticipants(ctx context.Context, roomName string) ([]domain.Participant, error) {
	var resp struct {
		Participants []domain.Participant `json:"participants"`
	}
	err := c.post(ctx, "/listParticipants", map[string]string{"roomName": roomName}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Participants, nil
}

func (c *Client) RemoveParticipant(ctx context.Context, roomName, identity string) error {
	return c.post(ctx, "/removeParticipant", map[string]string{
		"roomName": roomName,
		"identity": identity,
	}, nil)
}

func (c *Client) MoveParticipant(ctx context.Context, roomName, identity, destinationRoomName string) error {
	return c.post(ctx, "/moveParticipant", map[string]string{
		"roomName":            roomName,
		"identity":            identity,
		"destinationRoomName": destinationRoomName,
	}, nil)
}

func (c *Client) CheckUsername(ctx context.Context, roomName, username string) (domain.Availability, error) {
	var res domain.Availability
	err := c.post(ctx, "/checkUsername", map[string]string{
		"roomName": roomName,
		"username": username,
	}, &res)
	if err != nil {
		return domain.Availability{}, err
	}
	return res, nil
}

type chatRequest struct {
	RoomName     string            `json:"roomName"`
	Username     string            `json:"username"`
	Message      string            `json:"message"`
	ChatMessages []domain.ChatTurn `json:"chatMessages"`
}

// Chat submits a message plus the rolling transcript and returns the
// agent's reply text.
func (c *Client) Chat(ctx context.Context, roomName, username, message string, transcript []domain.ChatTurn) (string, error) {
	var resp struct {
		Response string `json:"response"`
	}
	err := c.post(ctx, "/chat", chatRequest{
		RoomName:     roomName,
		Username:     username,
		Message:      message,
		ChatMessages: transcript,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Response, nil
}
