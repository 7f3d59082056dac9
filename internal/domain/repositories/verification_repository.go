package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"tutorlink.backend/internal/domain/entities"
)

// VerificationRequestRepository persists verification requests
type VerificationRequestRepository interface {
	Create(ctx context.Context, req *entities.VerificationRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.VerificationRequest, error)
	// GetLatestByUser returns the newest request of the user, ErrNotFound when there is none
	GetLatestByUser(ctx context.Context, userID uuid.UUID) (*entities.VerificationRequest, error)
	GetByUserAndType(ctx context.Context, userID uuid.UUID, userType entities.UserType) (*entities.VerificationRequest, error)
	// Transition applies t only if the row is still in t.From. It returns
	// ErrInvalidTransition when the row moved on and ErrNotFound when it does not exist.
	Transition(ctx context.Context, id uuid.UUID, t entities.StatusTransition) (*entities.VerificationRequest, error)
	List(ctx context.Context, filter entities.VerificationRequestFilter) ([]*entities.VerificationRequestSummary, int64, error)
	ListDueForReVerification(ctx context.Context, now time.Time, limit int) ([]*entities.VerificationRequest, error)
}

// VerificationDocumentRepository persists document metadata
type VerificationDocumentRepository interface {
	Create(ctx context.Context, doc *entities.VerificationDocument) error
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]*entities.VerificationDocument, error)
}

// VerificationReferenceRepository persists references
type VerificationReferenceRepository interface {
	Create(ctx context.Context, ref *entities.VerificationReference) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.VerificationReference, error)
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]*entities.VerificationReference, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ReferenceStatus) error
}

// VerificationTestAttemptRepository persists competency test attempts
type VerificationTestAttemptRepository interface {
	Create(ctx context.Context, attempt *entities.VerificationTestAttempt) error
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]*entities.VerificationTestAttempt, error)
}
