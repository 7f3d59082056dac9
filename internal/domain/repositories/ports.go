package repositories

import (
	"context"
	"io"

	"tutorlink.backend/internal/domain/entities"
)

// DocumentStore writes verification files to object storage
type DocumentStore interface {
	// Put stores body under key and returns the public URL of the object
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

// StatusPublisher fans out committed status transitions
type StatusPublisher interface {
	PublishStatus(ctx context.Context, event entities.StatusEvent) error
}

// StatusSubscription is a live feed of status events
type StatusSubscription interface {
	Events() <-chan entities.StatusEvent
	Close() error
}

// StatusSubscriber opens feeds for one user or for the admin channel
type StatusSubscriber interface {
	SubscribeUser(ctx context.Context, userID string) (StatusSubscription, error)
	SubscribeAdmin(ctx context.Context) (StatusSubscription, error)
}
