package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"tutorlink.backend/internal/domain/entities"
	domainerrors "tutorlink.backend/internal/domain/errors"
	"tutorlink.backend/internal/domain/repositories"
	"tutorlink.backend/pkg/utils"
)

// MaxSlotHorizonDays bounds how far ahead slots can be requested
const MaxSlotHorizonDays = 60

// AvailabilityUsecase manages weekly tutor schedules and bookable slots
type AvailabilityUsecase struct {
	repo     repositories.AvailabilityRepository
	profiles repositories.ProfileRepository
	now      func() time.Time
}

// NewAvailabilityUsecase creates a new availability usecase
func NewAvailabilityUsecase(repo repositories.AvailabilityRepository, profiles repositories.ProfileRepository) *AvailabilityUsecase {
	return &AvailabilityUsecase{repo: repo, profiles: profiles, now: time.Now}
}

// SetAvailability replaces the tutor's schedule. Windows without a timezone use the profile's.
func (u *AvailabilityUsecase) SetAvailability(ctx context.Context, tutorID uuid.UUID, input *entities.SetAvailabilityInput) ([]*entities.TutorAvailability, error) {
	profile, err := u.profiles.GetTutorProfile(ctx, tutorID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NewError("tutor profile not found", domainerrors.ErrForbidden)
		}
		return nil, err
	}

	now := u.now().UTC()
	windows := make([]*entities.TutorAvailability, 0, len(input.Windows))
	for _, in := range input.Windows {
		tz := in.Timezone
		if tz == "" {
			tz = profile.Timezone
		}
		w := &entities.TutorAvailability{
			ID:        utils.GenerateUUIDv7(),
			TutorID:   tutorID,
			Weekday:   time.Weekday(in.Weekday),
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
			Timezone:  tz,
			CreatedAt: now,
		}
		if err := w.Validate(); err != nil {
			return nil, domainerrors.NewError(err.Error(), domainerrors.ErrInvalidInput)
		}
		windows = append(windows, w)
	}

	if err := u.repo.ReplaceForTutor(ctx, tutorID, windows); err != nil {
		return nil, err
	}
	return windows, nil
}

func (u *AvailabilityUsecase) ListAvailability(ctx context.Context, tutorID uuid.UUID) ([]*entities.TutorAvailability, error) {
	return u.repo.ListByTutor(ctx, tutorID)
}

// GetSlots cuts the tutor's windows into hourly slots for the next days, shown in viewerTZ
func (u *AvailabilityUsecase) GetSlots(ctx context.Context, tutorID uuid.UUID, viewerTZ string, days int) ([]entities.Slot, error) {
	viewer := time.UTC
	if viewerTZ != "" {
		loc, err := time.LoadLocation(viewerTZ)
		if err != nil {
			return nil, domainerrors.NewError("unknown timezone", domainerrors.ErrInvalidInput)
		}
		viewer = loc
	}
	if days > MaxSlotHorizonDays {
		days = MaxSlotHorizonDays
	}

	if _, err := u.profiles.GetTutorProfile(ctx, tutorID); err != nil {
		return nil, err
	}
	windows, err := u.repo.ListByTutor(ctx, tutorID)
	if err != nil {
		return nil, err
	}
	return entities.GenerateSlots(windows, u.now(), days, entities.DefaultSlotMinutes, viewer)
}
