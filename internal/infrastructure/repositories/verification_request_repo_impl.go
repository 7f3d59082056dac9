package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"tutorlink.backend/internal/domain/entities"
	domainerrors "tutorlink.backend/internal/domain/errors"
	"tutorlink.backend/internal/infrastructure/models"
)

// VerificationRequestRepository implements verification request persistence
type VerificationRequestRepository struct {
	db *gorm.DB
}

// NewVerificationRequestRepository creates a new verification request repository
func NewVerificationRequestRepository(db *gorm.DB) *VerificationRequestRepository {
	return &VerificationRequestRepository{db: db}
}

func (r *VerificationRequestRepository) Create(ctx context.Context, req *entities.VerificationRequest) error {
	m := &models.VerificationRequest{
		ID:                    req.ID,
		UserID:                req.UserID,
		UserType:              string(req.UserType),
		Status:                string(req.Status),
		RejectionReason:       req.RejectionReason.Ptr(),
		VerifiedBy:            req.VerifiedBy.Ptr(),
		VerifiedAt:            req.VerifiedAt.Ptr(),
		ReVerificationDueDate: req.ReVerificationDueDate.Ptr(),
		CreatedAt:             req.CreatedAt,
		UpdatedAt:             req.UpdatedAt,
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *VerificationRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.VerificationRequest, error) {
	var m models.VerificationRequest
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return requestToEntity(&m), nil
}

func (r *VerificationRequestRepository) GetLatestByUser(ctx context.Context, userID uuid.UUID) (*entities.VerificationRequest, error) {
	var m models.VerificationRequest
	err := GetDB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		First(&m).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return requestToEntity(&m), nil
}

func (r *VerificationRequestRepository) GetByUserAndType(ctx context.Context, userID uuid.UUID, userType entities.UserType) (*entities.VerificationRequest, error) {
	var m models.VerificationRequest
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND user_type = ?", userID, string(userType)).
		Order("created_at DESC").
		Order("id DESC").
		First(&m).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return requestToEntity(&m), nil
}

// Transition is a compare-and-set on status so concurrent reviewers cannot both win.
// A set DueBefore also guards on the re-verification due date.
func (r *VerificationRequestRepository) Transition(ctx context.Context, id uuid.UUID, t entities.StatusTransition) (*entities.VerificationRequest, error) {
	db := GetDB(ctx, r.db)
	query := db.Model(&models.VerificationRequest{}).
		Where("id = ? AND status = ?", id, string(t.From))
	if t.DueBefore.Valid {
		query = query.Where("re_verification_due_date IS NOT NULL AND re_verification_due_date <= ?", t.DueBefore.Time)
	}
	result := query.
		Updates(map[string]interface{}{
			"status":                   string(t.To),
			"rejection_reason":         t.RejectionReason,
			"verified_by":              t.VerifiedBy,
			"verified_at":              t.VerifiedAt,
			"re_verification_due_date": t.ReVerificationDueDate,
			"updated_at":               t.At,
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&models.VerificationRequest{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, domainerrors.ErrNotFound
		}
		if t.DueBefore.Valid {
			return nil, fmt.Errorf("%w: request is no longer %s and due", domainerrors.ErrInvalidTransition, t.From)
		}
		return nil, fmt.Errorf("%w: request is no longer %s", domainerrors.ErrInvalidTransition, t.From)
	}

	return r.GetByID(ctx, id)
}

type requestSummaryRow struct {
	models.VerificationRequest
	UserEmail      string
	UserName       string
	DocumentCount  int64
	ReferenceCount int64
}

// List returns queue rows with child counts computed by correlated sub-selects in one round trip
func (r *VerificationRequestRepository) List(ctx context.Context, filter entities.VerificationRequestFilter) ([]*entities.VerificationRequestSummary, int64, error) {
	db := GetDB(ctx, r.db)

	countQuery := db.Model(&models.VerificationRequest{})
	if filter.Status != "" {
		countQuery = countQuery.Where("status = ?", string(filter.Status))
	}
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := db.Table("verification_requests AS vr").
		Select(`vr.*,
			COALESCE(u.email, '') AS user_email,
			COALESCE(u.name, '') AS user_name,
			(SELECT COUNT(*) FROM verification_documents d WHERE d.request_id = vr.id) AS document_count,
			(SELECT COUNT(*) FROM verification_references rf WHERE rf.request_id = vr.id) AS reference_count`).
		Joins("LEFT JOIN users u ON u.id = vr.user_id")
	if filter.Status != "" {
		query = query.Where("vr.status = ?", string(filter.Status))
	}

	var rows []requestSummaryRow
	if err := paginate(query.Order("vr.created_at DESC"), filter.Limit, filter.Offset).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*entities.VerificationRequestSummary, 0, len(rows))
	for i := range rows {
		out = append(out, &entities.VerificationRequestSummary{
			VerificationRequest: *requestToEntity(&rows[i].VerificationRequest),
			UserEmail:           rows[i].UserEmail,
			UserName:            rows[i].UserName,
			DocumentCount:       rows[i].DocumentCount,
			ReferenceCount:      rows[i].ReferenceCount,
		})
	}
	return out, total, nil
}

func (r *VerificationRequestRepository) ListDueForReVerification(ctx context.Context, now time.Time, limit int) ([]*entities.VerificationRequest, error) {
	var rows []models.VerificationRequest
	query := GetDB(ctx, r.db).
		Where("status = ? AND re_verification_due_date IS NOT NULL AND re_verification_due_date <= ?", string(entities.VerificationVerified), now.UTC()).
		Order("re_verification_due_date ASC")
	if err := paginate(query, limit, 0).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*entities.VerificationRequest, 0, len(rows))
	for i := range rows {
		out = append(out, requestToEntity(&rows[i]))
	}
	return out, nil
}

func requestToEntity(m *models.VerificationRequest) *entities.VerificationRequest {
	return &entities.VerificationRequest{
		ID:                    m.ID,
		UserID:                m.UserID,
		UserType:              entities.UserType(m.UserType),
		Status:                entities.VerificationStatus(m.Status),
		RejectionReason:       null.StringFromPtr(m.RejectionReason),
		VerifiedBy:            null.StringFromPtr(m.VerifiedBy),
		VerifiedAt:            null.TimeFromPtr(m.VerifiedAt),
		ReVerificationDueDate: null.TimeFromPtr(m.ReVerificationDueDate),
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}
