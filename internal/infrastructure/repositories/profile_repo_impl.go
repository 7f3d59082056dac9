package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"tutorlink.backend/internal/domain/entities"
	domainerrors "tutorlink.backend/internal/domain/errors"
	"tutorlink.backend/internal/infrastructure/models"
)

// ProfileRepository implements profile data operations
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) CreateProfile(ctx context.Context, p *entities.Profile) error {
	m := &models.Profile{
		UserID:    p.UserID,
		FullName:  p.FullName,
		Bio:       p.Bio,
		AvatarURL: p.AvatarURL,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

func (r *ProfileRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*entities.Profile, error) {
	var m models.Profile
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &entities.Profile{
		UserID:    m.UserID,
		FullName:  m.FullName,
		Bio:       m.Bio,
		AvatarURL: m.AvatarURL,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func (r *ProfileRepository) CreateTutorProfile(ctx context.Context, p *entities.TutorProfile) error {
	return GetDB(ctx, r.db).Create(tutorToModel(p)).Error
}

func (r *ProfileRepository) GetTutorProfile(ctx context.Context, userID uuid.UUID) (*entities.TutorProfile, error) {
	var m models.TutorProfile
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return tutorToEntity(&m), nil
}

// UpdateTutorProfile writes the editable fields. The verified flag is left alone.
func (r *ProfileRepository) UpdateTutorProfile(ctx context.Context, p *entities.TutorProfile) error {
	result := GetDB(ctx, r.db).Model(&models.TutorProfile{}).Where("user_id = ?", p.UserID).Updates(map[string]interface{}{
		"headline":    p.Headline,
		"subjects":    joinSubjects(p.Subjects),
		"hourly_rate": p.HourlyRate,
		"timezone":    p.Timezone,
		"updated_at":  time.Now().UTC(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) ListTutors(ctx context.Context, filter entities.TutorFilter) ([]*entities.TutorProfile, int64, error) {
	query := GetDB(ctx, r.db).Model(&models.TutorProfile{})
	if filter.Verified != nil {
		query = query.Where("verified = ?", *filter.Verified)
	}
	if s := strings.TrimSpace(filter.Subject); s != "" {
		query = query.Where("LOWER(subjects) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.TutorProfile
	if err := paginate(query.Order("verified DESC, created_at DESC"), filter.Limit, filter.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*entities.TutorProfile, 0, len(rows))
	for i := range rows {
		out = append(out, tutorToEntity(&rows[i]))
	}
	return out, total, nil
}

func (r *ProfileRepository) CreateInstitutionProfile(ctx context.Context, p *entities.InstitutionProfile) error {
	m := &models.InstitutionProfile{
		ID:              p.ID,
		UserID:          p.UserID,
		InstitutionName: p.InstitutionName,
		Website:         p.Website,
		Verified:        p.Verified,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

func (r *ProfileRepository) GetInstitutionProfile(ctx context.Context, userID uuid.UUID) (*entities.InstitutionProfile, error) {
	var m models.InstitutionProfile
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return institutionToEntity(&m), nil
}

func (r *ProfileRepository) ListInstitutions(ctx context.Context, filter entities.InstitutionFilter) ([]*entities.InstitutionProfile, int64, error) {
	query := GetDB(ctx, r.db).Model(&models.InstitutionProfile{})
	if filter.Verified != nil {
		query = query.Where("verified = ?", *filter.Verified)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.InstitutionProfile
	if err := paginate(query.Order("institution_name ASC"), filter.Limit, filter.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*entities.InstitutionProfile, 0, len(rows))
	for i := range rows {
		out = append(out, institutionToEntity(&rows[i]))
	}
	return out, total, nil
}

// SetVerified flips the verified flag on the tutor or institution profile of userID
func (r *ProfileRepository) SetVerified(ctx context.Context, userType entities.UserType, userID uuid.UUID, verified bool) error {
	var model interface{}
	switch userType {
	case entities.UserTypeTutor:
		model = &models.TutorProfile{}
	case entities.UserTypeInstitute:
		model = &models.InstitutionProfile{}
	default:
		return fmt.Errorf("%w: user type %q has no profile flag", domainerrors.ErrInvalidInput, userType)
	}

	result := GetDB(ctx, r.db).Model(model).Where("user_id = ?", userID).Updates(map[string]interface{}{
		"verified":   verified,
		"updated_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func tutorToModel(p *entities.TutorProfile) *models.TutorProfile {
	return &models.TutorProfile{
		ID:         p.ID,
		UserID:     p.UserID,
		Headline:   p.Headline,
		Subjects:   joinSubjects(p.Subjects),
		HourlyRate: p.HourlyRate,
		Timezone:   p.Timezone,
		Verified:   p.Verified,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func tutorToEntity(m *models.TutorProfile) *entities.TutorProfile {
	return &entities.TutorProfile{
		ID:         m.ID,
		UserID:     m.UserID,
		Headline:   m.Headline,
		Subjects:   splitSubjects(m.Subjects),
		HourlyRate: m.HourlyRate,
		Timezone:   m.Timezone,
		Verified:   m.Verified,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func institutionToEntity(m *models.InstitutionProfile) *entities.InstitutionProfile {
	return &entities.InstitutionProfile{
		ID:              m.ID,
		UserID:          m.UserID,
		InstitutionName: m.InstitutionName,
		Website:         m.Website,
		Verified:        m.Verified,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func joinSubjects(subjects []string) string {
	cleaned := make([]string, 0, len(subjects))
	for _, s := range subjects {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return strings.Join(cleaned, ",")
}

func splitSubjects(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, ",")
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainerrors.ErrNotFound
	}
	return err
}
