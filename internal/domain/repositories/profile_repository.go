package repositories

import (
	"context"

	"github.com/google/uuid"
	"tutorlink.backend/internal/domain/entities"
)

// ProfileRepository covers the shared profile row and both role profiles
type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *entities.Profile) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*entities.Profile, error)

	CreateTutorProfile(ctx context.Context, profile *entities.TutorProfile) error
	GetTutorProfile(ctx context.Context, userID uuid.UUID) (*entities.TutorProfile, error)
	UpdateTutorProfile(ctx context.Context, profile *entities.TutorProfile) error
	ListTutors(ctx context.Context, filter entities.TutorFilter) ([]*entities.TutorProfile, int64, error)

	CreateInstitutionProfile(ctx context.Context, profile *entities.InstitutionProfile) error
	GetInstitutionProfile(ctx context.Context, userID uuid.UUID) (*entities.InstitutionProfile, error)
	ListInstitutions(ctx context.Context, filter entities.InstitutionFilter) ([]*entities.InstitutionProfile, int64, error)

	// SetVerified flips the verified flag on the role profile owned by userID
	SetVerified(ctx context.Context, userType entities.UserType, userID uuid.UUID, verified bool) error
}
