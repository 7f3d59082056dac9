package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"tutorlink.backend/internal/domain/entities"
	domainerrors "tutorlink.backend/internal/domain/errors"
)

// ProfileRepository is the in-memory profile repository
type ProfileRepository struct{ s *Store }

func (s *Store) Profiles() *ProfileRepository { return &ProfileRepository{s: s} }

func (r *ProfileRepository) CreateProfile(_ context.Context, p *entities.Profile) error {
	if err := r.s.injected("profiles.CreateProfile"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.t.profiles[p.UserID] = *p
	return nil
}

func (r *ProfileRepository) GetProfile(_ context.Context, userID uuid.UUID) (*entities.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.t.profiles[userID]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return &p, nil
}

func (r *ProfileRepository) CreateTutorProfile(_ context.Context, p *entities.TutorProfile) error {
	if err := r.s.injected("profiles.CreateTutorProfile"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	cp.Subjects = append([]string(nil), p.Subjects...)
	r.s.t.tutors[p.UserID] = cp
	return nil
}

func (r *ProfileRepository) GetTutorProfile(_ context.Context, userID uuid.UUID) (*entities.TutorProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.t.tutors[userID]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	p.Subjects = append([]string(nil), p.Subjects...)
	return &p, nil
}

func (r *ProfileRepository) UpdateTutorProfile(_ context.Context, p *entities.TutorProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.t.tutors[p.UserID]
	if !ok {
		return domainerrors.ErrNotFound
	}
	cur.Headline = p.Headline
	cur.Subjects = append([]string(nil), p.Subjects...)
	cur.HourlyRate = p.HourlyRate
	cur.Timezone = p.Timezone
	cur.UpdatedAt = time.Now().UTC()
	r.s.t.tutors[p.UserID] = cur
	return nil
}

func (r *ProfileRepository) ListTutors(_ context.Context, f entities.TutorFilter) ([]*entities.TutorProfile, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	subject := strings.ToLower(strings.TrimSpace(f.Subject))
	out := make([]*entities.TutorProfile, 0, len(r.s.t.tutors))
	for _, p := range r.s.t.tutors {
		if f.Verified != nil && p.Verified != *f.Verified {
			continue
		}
		if subject != "" && !strings.Contains(strings.ToLower(strings.Join(p.Subjects, ",")), subject) {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Verified != out[j].Verified {
			return out[i].Verified
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	total := int64(len(out))
	return page(out, f.Limit, f.Offset), total, nil
}

func (r *ProfileRepository) CreateInstitutionProfile(_ context.Context, p *entities.InstitutionProfile) error {
	if err := r.s.injected("profiles.CreateInstitutionProfile"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.t.institutions[p.UserID] = *p
	return nil
}

func (r *ProfileRepository) GetInstitutionProfile(_ context.Context, userID uuid.UUID) (*entities.InstitutionProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.t.institutions[userID]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return &p, nil
}

func (r *ProfileRepository) ListInstitutions(_ context.Context, f entities.InstitutionFilter) ([]*entities.InstitutionProfile, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entities.InstitutionProfile, 0, len(r.s.t.institutions))
	for _, p := range r.s.t.institutions {
		if f.Verified != nil && p.Verified != *f.Verified {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InstitutionName < out[j].InstitutionName })
	total := int64(len(out))
	return page(out, f.Limit, f.Offset), total, nil
}

func (r *ProfileRepository) SetVerified(_ context.Context, userType entities.UserType, userID uuid.UUID, verified bool) error {
	if err := r.s.injected("profiles.SetVerified"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now().UTC()
	switch userType {
	case entities.UserTypeTutor:
		p, ok := r.s.t.tutors[userID]
		if !ok {
			return domainerrors.ErrNotFound
		}
		p.Verified, p.UpdatedAt = verified, now
		r.s.t.tutors[userID] = p
	case entities.UserTypeInstitute:
		p, ok := r.s.t.institutions[userID]
		if !ok {
			return domainerrors.ErrNotFound
		}
		p.Verified, p.UpdatedAt = verified, now
		r.s.t.institutions[userID] = p
	default:
		return fmt.Errorf("%w: user type %q has no profile flag", domainerrors.ErrInvalidInput, userType)
	}
	return nil
}
