package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"tutorlink.backend/internal/domain/entities"
	"tutorlink.backend/internal/infrastructure/models"
)

// AvailabilityRepository implements weekly schedule persistence
type AvailabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ReplaceForTutor deletes the tutor's windows and inserts the new set.
// Callers wrap it in a UnitOfWork so readers never see an empty schedule.
func (r *AvailabilityRepository) ReplaceForTutor(ctx context.Context, tutorID uuid.UUID, windows []*entities.TutorAvailability) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("tutor_id = ?", tutorID).Delete(&models.TutorAvailability{}).Error; err != nil {
		return err
	}
	if len(windows) == 0 {
		return nil
	}

	rows := make([]models.TutorAvailability, 0, len(windows))
	for _, w := range windows {
		created := w.CreatedAt
		if created.IsZero() {
			created = time.Now().UTC()
		}
		rows = append(rows, models.TutorAvailability{
			ID:        w.ID,
			TutorID:   tutorID,
			Weekday:   int(w.Weekday),
			StartTime: w.StartTime,
			EndTime:   w.EndTime,
			Timezone:  w.Timezone,
			CreatedAt: created,
		})
	}
	return db.Create(&rows).Error
}

func (r *AvailabilityRepository) ListByTutor(ctx context.Context, tutorID uuid.UUID) ([]*entities.TutorAvailability, error) {
	var rows []models.TutorAvailability
	if err := GetDB(ctx, r.db).Where("tutor_id = ?", tutorID).Order("weekday ASC, start_time ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.TutorAvailability, 0, len(rows))
	for _, m := range rows {
		out = append(out, &entities.TutorAvailability{
			ID:        m.ID,
			TutorID:   m.TutorID,
			Weekday:   time.Weekday(m.Weekday),
			StartTime: m.StartTime,
			EndTime:   m.EndTime,
			Timezone:  m.Timezone,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}
