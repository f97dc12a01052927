package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Chat/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// alphanum plus hyphen and underscore, same set for rooms and names
	err := v.RegisterValidation("roomchars", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, r := range s {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			default:
				return false
			}
		}
		return true
	})
	if err != nil {
		panic(err)
	}
	return v
}

type joinRequest struct {
	RoomName string `validate:"required,min=3,max=36,roomchars"`
	Username string `validate:"required,min=2,max=36,roomchars"`
}

// JoinForm collects and validates a (room, username) pair. The optional
// availability check is best-effort: its own failure never blocks a join.
type JoinForm struct {
	backend       Backend
	checkUsername bool
}

func NewJoinForm(backend Backend, checkUsername bool) *JoinForm {
	return &JoinForm{backend: backend, checkUsername: checkUsername}
}

// ValidateRoomName reports why a room name cannot be submitted, or "".
func ValidateRoomName(roomName string) string {
	roomName = strings.TrimSpace(roomName)
	err := validate.Var(roomName, "required,min=3,max=36,roomchars")
	if err == nil {
		return ""
	}
	if len(roomName) < domain.MinRoomNameLen {
		return "Room name must be at least 3 characters long"
	}
	return "Room name can only contain letters, numbers, hyphens, and underscores"
}

// ValidateUsername reports why a username cannot be submitted, or "".
func ValidateUsername(username string) string {
	username = strings.TrimSpace(username)
	err := validate.Var(username, "required,min=2,max=36,roomchars")
	if err == nil {
		return ""
	}
	if len(username) < domain.MinUsernameLen {
		return "Username must be at least 2 characters long"
	}
	return "Username can only contain letters, numbers, hyphens, and underscores"
}

// Submit validates both fields and, when enabled, checks availability
// against the backend. On success it returns the trimmed pair for the
// parent to run session setup with.
func (f *JoinForm) Submit(ctx context.Context, roomName, username string) (string, string, error) {
	roomName = strings.TrimSpace(roomName)
	username = strings.TrimSpace(username)

	if err := validate.Struct(joinRequest{RoomName: roomName, Username: username}); err != nil {
		if msg := ValidateRoomName(roomName); msg != "" {
			return "", "", errors.New(msg)
		}
		if msg := ValidateUsername(username); msg != "" {
			return "", "", errors.New(msg)
		}
		return "", "", fmt.Errorf("invalid join request: %w", err)
	}

	if f.checkUsername {
		avail, err := f.backend.CheckUsername(ctx, roomName, username)
		if err != nil {
			// Availability is never a hard gate; proceed on check failure.
			log.Warn().Err(err).Str("module", "core.join").Str("room", roomName).Msg("username check failed, joining anyway")
		} else if !avail.Available {
			if avail.Message != "" {
				return "", "", fmt.Errorf("%w: %s", ErrUsernameTaken, avail.Message)
			}
			return "", "", ErrUsernameTaken
		}
	}

	return roomName, username, nil
}
