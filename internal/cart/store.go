package cart

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("cart not found")

// Store persists carts across sessions. Implementations return ErrNotFound
// when no cart exists for the session key.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, sessionID string) error
}
