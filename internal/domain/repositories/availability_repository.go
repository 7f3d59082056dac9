package repositories

import (
	"context"

	"github.com/google/uuid"
	"tutorlink.backend/internal/domain/entities"
)

// AvailabilityRepository stores weekly tutor schedules
type AvailabilityRepository interface {
	ReplaceForTutor(ctx context.Context, tutorID uuid.UUID, windows []*entities.TutorAvailability) error
	ListByTutor(ctx context.Context, tutorID uuid.UUID) ([]*entities.TutorAvailability, error)
}
