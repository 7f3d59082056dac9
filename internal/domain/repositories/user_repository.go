package repositories

import (
	"context"

	"github.com/google/uuid"
	"tutorlink.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role entities.UserRole) error
	List(ctx context.Context, search string, limit, offset int) ([]*entities.User, int64, error)
}
