package session

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidSession = errors.New("invalid or expired session")

type Repository interface {
	Create(ctx context.Context, userID int, tokenHash string, expiresAt time.Time) error
	// Validate returns the user id for a live session hash, or
	// ErrInvalidSession.
	Validate(ctx context.Context, tokenHash string) (int, error)
}
