package repositories

import (
	"context"
	"time"

	"tutorlink.backend/internal/domain/entities"
)

// PendingRegistrationStore keeps pre-signup payloads keyed by email
type PendingRegistrationStore interface {
	Save(ctx context.Context, p *entities.PendingRegistration, ttl time.Duration) error
	// Get returns ErrNotFound when nothing is stored
	Get(ctx context.Context, email string) (*entities.PendingRegistration, error)
	Delete(ctx context.Context, email string) error
}
