package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"tutorlink.backend/internal/domain/entities"
	domainerrors "tutorlink.backend/internal/domain/errors"
	"tutorlink.backend/internal/infrastructure/models"
)

// VerificationDocumentRepository implements document metadata persistence
type VerificationDocumentRepository struct {
	db *gorm.DB
}

func NewVerificationDocumentRepository(db *gorm.DB) *VerificationDocumentRepository {
	return &VerificationDocumentRepository{db: db}
}

func (r *VerificationDocumentRepository) Create(ctx context.Context, doc *entities.VerificationDocument) error {
	m := &models.VerificationDocument{
		ID:           doc.ID,
		RequestID:    doc.RequestID,
		DocumentType: string(doc.DocumentType),
		DocumentName: doc.DocumentName,
		DocumentURL:  doc.DocumentURL,
		StorageKey:   doc.StorageKey,
		FileSize:     doc.FileSize,
		MimeType:     doc.MimeType,
		IsRequired:   doc.IsRequired,
		UploadedAt:   doc.UploadedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

func (r *VerificationDocumentRepository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]*entities.VerificationDocument, error) {
	var rows []models.VerificationDocument
	if err := GetDB(ctx, r.db).Where("request_id = ?", requestID).Order("uploaded_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.VerificationDocument, 0, len(rows))
	for _, m := range rows {
		out = append(out, &entities.VerificationDocument{
			ID:           m.ID,
			RequestID:    m.RequestID,
			DocumentType: entities.DocumentType(m.DocumentType),
			DocumentName: m.DocumentName,
			DocumentURL:  m.DocumentURL,
			StorageKey:   m.StorageKey,
			FileSize:     m.FileSize,
			MimeType:     m.MimeType,
			IsRequired:   m.IsRequired,
			UploadedAt:   m.UploadedAt,
		})
	}
	return out, nil
}

// VerificationReferenceRepository implements reference persistence
type VerificationReferenceRepository struct {
	db *gorm.DB
}

func NewVerificationReferenceRepository(db *gorm.DB) *VerificationReferenceRepository {
	return &VerificationReferenceRepository{db: db}
}

func (r *VerificationReferenceRepository) Create(ctx context.Context, ref *entities.VerificationReference) error {
	m := &models.VerificationReference{
		ID:                 ref.ID,
		RequestID:          ref.RequestID,
		Name:               ref.Name,
		Title:              ref.Title.Ptr(),
		Organization:       ref.Organization.Ptr(),
		Email:              ref.Email,
		Phone:              ref.Phone.Ptr(),
		Relationship:       ref.Relationship,
		CanContact:         ref.CanContact,
		VerificationStatus: string(ref.VerificationStatus),
		CreatedAt:          ref.CreatedAt,
		UpdatedAt:          ref.UpdatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

func (r *VerificationReferenceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.VerificationReference, error) {
	var m models.VerificationReference
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return referenceToEntity(&m), nil
}

func (r *VerificationReferenceRepository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]*entities.VerificationReference, error) {
	var rows []models.VerificationReference
	if err := GetDB(ctx, r.db).Where("request_id = ?", requestID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.VerificationReference, 0, len(rows))
	for i := range rows {
		out = append(out, referenceToEntity(&rows[i]))
	}
	return out, nil
}

func (r *VerificationReferenceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ReferenceStatus) error {
	result := GetDB(ctx, r.db).Model(&models.VerificationReference{}).Where("id = ?", id).Updates(map[string]interface{}{
		"verification_status": string(status),
		"updated_at":          time.Now().UTC(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func referenceToEntity(m *models.VerificationReference) *entities.VerificationReference {
	return &entities.VerificationReference{
		ID:                 m.ID,
		RequestID:          m.RequestID,
		Name:               m.Name,
		Title:              null.StringFromPtr(m.Title),
		Organization:       null.StringFromPtr(m.Organization),
		Email:              m.Email,
		Phone:              null.StringFromPtr(m.Phone),
		Relationship:       m.Relationship,
		CanContact:         m.CanContact,
		VerificationStatus: entities.ReferenceStatus(m.VerificationStatus),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// VerificationTestAttemptRepository implements test attempt persistence
type VerificationTestAttemptRepository struct {
	db *gorm.DB
}

func NewVerificationTestAttemptRepository(db *gorm.DB) *VerificationTestAttemptRepository {
	return &VerificationTestAttemptRepository{db: db}
}

func (r *VerificationTestAttemptRepository) Create(ctx context.Context, a *entities.VerificationTestAttempt) error {
	m := &models.VerificationTestAttempt{
		ID:          a.ID,
		RequestID:   a.RequestID,
		Subject:     a.Subject,
		Score:       a.Score,
		MaxScore:    a.MaxScore,
		Passed:      a.Passed,
		AttemptedAt: a.AttemptedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

func (r *VerificationTestAttemptRepository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]*entities.VerificationTestAttempt, error) {
	var rows []models.VerificationTestAttempt
	if err := GetDB(ctx, r.db).Where("request_id = ?", requestID).Order("attempted_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.VerificationTestAttempt, 0, len(rows))
	for _, m := range rows {
		out = append(out, &entities.VerificationTestAttempt{
			ID:          m.ID,
			RequestID:   m.RequestID,
			Subject:     m.Subject,
			Score:       m.Score,
			MaxScore:    m.MaxScore,
			Passed:      m.Passed,
			AttemptedAt: m.AttemptedAt,
		})
	}
	return out, nil
}
