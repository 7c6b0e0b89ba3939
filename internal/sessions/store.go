// Package sessions persists booking wizard sessions between HTTP requests.
// The whole session is stored as one JSON value under a single key, so every
// mutation is a load-modify-save of the full aggregate.
package sessions

import (
	"context"
	"errors"

	"github.com/snapsbooking/bookngon-api/internal/booking"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("sessions: not found")

// Store persists wizard sessions.
type Store interface {
	Save(ctx context.Context, sess *booking.Session) error
	Load(ctx context.Context, id string) (*booking.Session, error)
	Delete(ctx context.Context, id string) error
}
