package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"tutorlink.backend/internal/domain/entities"
	domainerrors "tutorlink.backend/internal/domain/errors"
	redispkg "tutorlink.backend/pkg/redis"
)

const pendingRegistrationPrefix = "pending_registration:"

// pendingEnvelope carries the absolute expiry next to the payload so reads
// can enforce the TTL even if the Redis key outlives it.
type pendingEnvelope struct {
	Registration entities.PendingRegistration `json:"registration"`
	ExpiresAt    time.Time                    `json:"expiresAt"`
}

// PendingRegistrationStore keeps sealed pending sign-ups in Redis
type PendingRegistrationStore struct {
	sealed *redispkg.SealedStore
	now    func() time.Time
}

// NewPendingRegistrationStore creates a Redis backed store sealed with keyHex
func NewPendingRegistrationStore(keyHex string) (*PendingRegistrationStore, error) {
	sealed, err := redispkg.NewSealedStore(pendingRegistrationPrefix, keyHex)
	if err != nil {
		return nil, err
	}
	return &PendingRegistrationStore{sealed: sealed, now: time.Now}, nil
}

func pendingKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *PendingRegistrationStore) Save(ctx context.Context, p *entities.PendingRegistration, ttl time.Duration) error {
	env := pendingEnvelope{Registration: *p, ExpiresAt: p.CreatedAt.Add(ttl)}
	return s.sealed.Put(ctx, pendingKey(p.Email), env, ttl)
}

func (s *PendingRegistrationStore) Get(ctx context.Context, email string) (*entities.PendingRegistration, error) {
	var env pendingEnvelope
	if err := s.sealed.Get(ctx, pendingKey(email), &env); err != nil {
		if errors.Is(err, redispkg.ErrNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	if !s.now().Before(env.ExpiresAt) {
		_ = s.sealed.Delete(ctx, pendingKey(email))
		return nil, domainerrors.ErrNotFound
	}
	return &env.Registration, nil
}

func (s *PendingRegistrationStore) Delete(ctx context.Context, email string) error {
	return s.sealed.Delete(ctx, pendingKey(email))
}
