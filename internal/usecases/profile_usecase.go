package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"tutorlink.backend/internal/domain/entities"
	domainerrors "tutorlink.backend/internal/domain/errors"
	"tutorlink.backend/internal/domain/repositories"
	"tutorlink.backend/pkg/utils"
)

// ProfileUsecase serves public profiles and the tutor's own profile edits
type ProfileUsecase struct {
	profiles repositories.ProfileRepository
}

// NewProfileUsecase creates a new profile usecase
func NewProfileUsecase(profiles repositories.ProfileRepository) *ProfileUsecase {
	return &ProfileUsecase{profiles: profiles}
}

func (u *ProfileUsecase) GetProfile(ctx context.Context, userID uuid.UUID) (*entities.Profile, error) {
	return u.profiles.GetProfile(ctx, userID)
}

func (u *ProfileUsecase) GetTutor(ctx context.Context, userID uuid.UUID) (*entities.TutorProfile, error) {
	return u.profiles.GetTutorProfile(ctx, userID)
}

func (u *ProfileUsecase) GetInstitution(ctx context.Context, userID uuid.UUID) (*entities.InstitutionProfile, error) {
	return u.profiles.GetInstitutionProfile(ctx, userID)
}

// ListTutors lists tutors, verified ones first
func (u *ProfileUsecase) ListTutors(ctx context.Context, verified *bool, subject string, page, limit int) ([]*entities.TutorProfile, utils.PaginationMeta, error) {
	params := utils.GetPaginationParams(page, limit)
	tutors, total, err := u.profiles.ListTutors(ctx, entities.TutorFilter{
		Verified: verified,
		Subject:  strings.TrimSpace(subject),
		Limit:    params.Limit,
		Offset:   params.CalculateOffset(),
	})
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return tutors, utils.CalculateMeta(total, params.Page, params.Limit), nil
}

func (u *ProfileUsecase) ListInstitutions(ctx context.Context, verified *bool, page, limit int) ([]*entities.InstitutionProfile, utils.PaginationMeta, error) {
	params := utils.GetPaginationParams(page, limit)
	items, total, err := u.profiles.ListInstitutions(ctx, entities.InstitutionFilter{
		Verified: verified,
		Limit:    params.Limit,
		Offset:   params.CalculateOffset(),
	})
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return items, utils.CalculateMeta(total, params.Page, params.Limit), nil
}

// UpdateTutorProfile edits the caller's tutor profile. The verified flag is never touched here.
func (u *ProfileUsecase) UpdateTutorProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateTutorProfileInput) (*entities.TutorProfile, error) {
	if input.HourlyRate < 0 {
		return nil, domainerrors.NewError("hourlyRate must not be negative", domainerrors.ErrInvalidInput)
	}
	if input.Timezone != "" {
		if _, err := time.LoadLocation(input.Timezone); err != nil {
			return nil, domainerrors.NewError("unknown timezone", domainerrors.ErrInvalidInput)
		}
	}

	profile, err := u.profiles.GetTutorProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.Headline = strings.TrimSpace(input.Headline)
	profile.Subjects = normalizeSubjects(input.Subjects)
	profile.HourlyRate = input.HourlyRate
	profile.Timezone = input.Timezone
	profile.UpdatedAt = time.Now().UTC()

	if err := u.profiles.UpdateTutorProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func normalizeSubjects(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || strings.Contains(s, ",") || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
