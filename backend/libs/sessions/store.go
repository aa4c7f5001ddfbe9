// Package sessions persists backend sessions per browser context.
package sessions

import (
	"context"
	"errors"

	"powercalc/backend/libs/models"
)

// ErrNotFound is returned by Load when no session is stored under the key.
var ErrNotFound = errors.New("sessions: not found")

// Store keeps one session per browser-context key.
type Store interface {
	Load(ctx context.Context, key string) (*models.Session, error)
	Save(ctx context.Context, key string, session *models.Session) error
	Delete(ctx context.Context, key string) error
}
