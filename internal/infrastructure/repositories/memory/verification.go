package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"tutorlink.backend/internal/domain/entities"
	domainerrors "tutorlink.backend/internal/domain/errors"
)

// VerificationRequestRepository is the in-memory request repository
type VerificationRequestRepository struct{ s *Store }

func (s *Store) Requests() *VerificationRequestRepository {
	return &VerificationRequestRepository{s: s}
}

func (r *VerificationRequestRepository) Create(_ context.Context, req *entities.VerificationRequest) error {
	if err := r.s.injected("requests.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.t.requests {
		if existing.UserID == req.UserID && existing.UserType == req.UserType {
			return domainerrors.ErrAlreadyExists
		}
	}
	r.s.t.requests[req.ID] = *req
	return nil
}

func (r *VerificationRequestRepository) GetByID(_ context.Context, id uuid.UUID) (*entities.VerificationRequest, error) {
	if err := r.s.injected("requests.GetByID"); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	req, ok := r.s.t.requests[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return &req, nil
}

func (r *VerificationRequestRepository) latest(match func(entities.VerificationRequest) bool) (*entities.VerificationRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var best *entities.VerificationRequest
	for _, req := range r.s.t.requests {
		if !match(req) {
			continue
		}
		if best == nil || req.CreatedAt.After(best.CreatedAt) ||
			(req.CreatedAt.Equal(best.CreatedAt) && req.ID.String() > best.ID.String()) {
			cp := req
			best = &cp
		}
	}
	if best == nil {
		return nil, domainerrors.ErrNotFound
	}
	return best, nil
}

func (r *VerificationRequestRepository) GetLatestByUser(_ context.Context, userID uuid.UUID) (*entities.VerificationRequest, error) {
	if err := r.s.injected("requests.GetLatestByUser"); err != nil {
		return nil, err
	}
	return r.latest(func(req entities.VerificationRequest) bool { return req.UserID == userID })
}

func (r *VerificationRequestRepository) GetByUserAndType(_ context.Context, userID uuid.UUID, userType entities.UserType) (*entities.VerificationRequest, error) {
	return r.latest(func(req entities.VerificationRequest) bool {
		return req.UserID == userID && req.UserType == userType
	})
}

func (r *VerificationRequestRepository) Transition(_ context.Context, id uuid.UUID, t entities.StatusTransition) (*entities.VerificationRequest, error) {
	if err := r.s.injected("requests.Transition"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.t.requests[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	if req.Status != t.From {
		return nil, fmt.Errorf("%w: request is no longer %s", domainerrors.ErrInvalidTransition, t.From)
	}
	if t.DueBefore.Valid && (!req.ReVerificationDueDate.Valid || req.ReVerificationDueDate.Time.After(t.DueBefore.Time)) {
		return nil, fmt.Errorf("%w: request is no longer due for re-verification", domainerrors.ErrInvalidTransition)
	}
	t.Apply(&req)
	r.s.t.requests[id] = req
	return &req, nil
}

func (r *VerificationRequestRepository) List(_ context.Context, f entities.VerificationRequestFilter) ([]*entities.VerificationRequestSummary, int64, error) {
	if err := r.s.injected("requests.List"); err != nil {
		return nil, 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	docCounts := map[uuid.UUID]int64{}
	for _, d := range r.s.t.documents {
		docCounts[d.RequestID]++
	}
	refCounts := map[uuid.UUID]int64{}
	for _, ref := range r.s.t.references {
		refCounts[ref.RequestID]++
	}

	out := make([]*entities.VerificationRequestSummary, 0, len(r.s.t.requests))
	for _, req := range r.s.t.requests {
		if f.Status != "" && req.Status != f.Status {
			continue
		}
		sum := &entities.VerificationRequestSummary{
			VerificationRequest: req,
			DocumentCount:       docCounts[req.ID],
			ReferenceCount:      refCounts[req.ID],
		}
		if u, ok := r.s.t.users[req.UserID]; ok {
			sum.UserEmail, sum.UserName = u.Email, u.Name
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	return page(out, f.Limit, f.Offset), total, nil
}

func (r *VerificationRequestRepository) ListDueForReVerification(_ context.Context, now time.Time, limit int) ([]*entities.VerificationRequest, error) {
	if err := r.s.injected("requests.ListDueForReVerification"); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entities.VerificationRequest, 0)
	for _, req := range r.s.t.requests {
		if req.Status == entities.VerificationVerified && req.ReVerificationDueDate.Valid && !req.ReVerificationDueDate.Time.After(now) {
			cp := req
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ReVerificationDueDate.Time.Before(out[j].ReVerificationDueDate.Time)
	})
	return page(out, limit, 0), nil
}

// VerificationDocumentRepository is the in-memory document repository
type VerificationDocumentRepository struct{ s *Store }

func (s *Store) Documents() *VerificationDocumentRepository {
	return &VerificationDocumentRepository{s: s}
}

func (r *VerificationDocumentRepository) Create(_ context.Context, doc *entities.VerificationDocument) error {
	if err := r.s.injected("documents.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.t.documents = append(r.s.t.documents, *doc)
	return nil
}

func (r *VerificationDocumentRepository) ListByRequest(_ context.Context, requestID uuid.UUID) ([]*entities.VerificationDocument, error) {
	if err := r.s.injected("documents.ListByRequest"); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entities.VerificationDocument, 0)
	for _, d := range r.s.t.documents {
		if d.RequestID == requestID {
			cp := d
			out = append(out, &cp)
		}
	}
	return out, nil
}

// VerificationReferenceRepository is the in-memory reference repository
type VerificationReferenceRepository struct{ s *Store }

func (s *Store) References() *VerificationReferenceRepository {
	return &VerificationReferenceRepository{s: s}
}

func (r *VerificationReferenceRepository) Create(_ context.Context, ref *entities.VerificationReference) error {
	if err := r.s.injected("references.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.t.references[ref.ID] = *ref
	return nil
}

func (r *VerificationReferenceRepository) GetByID(_ context.Context, id uuid.UUID) (*entities.VerificationReference, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ref, ok := r.s.t.references[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return &ref, nil
}

func (r *VerificationReferenceRepository) ListByRequest(_ context.Context, requestID uuid.UUID) ([]*entities.VerificationReference, error) {
	if err := r.s.injected("references.ListByRequest"); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entities.VerificationReference, 0)
	for _, ref := range r.s.t.references {
		if ref.RequestID == requestID {
			cp := ref
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *VerificationReferenceRepository) UpdateStatus(_ context.Context, id uuid.UUID, status entities.ReferenceStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ref, ok := r.s.t.references[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	ref.VerificationStatus = status
	ref.UpdatedAt = time.Now().UTC()
	r.s.t.references[id] = ref
	return nil
}

// VerificationTestAttemptRepository is the in-memory test attempt repository
type VerificationTestAttemptRepository struct{ s *Store }

func (s *Store) TestAttempts() *VerificationTestAttemptRepository {
	return &VerificationTestAttemptRepository{s: s}
}

func (r *VerificationTestAttemptRepository) Create(_ context.Context, a *entities.VerificationTestAttempt) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.t.attempts = append(r.s.t.attempts, *a)
	return nil
}

func (r *VerificationTestAttemptRepository) ListByRequest(_ context.Context, requestID uuid.UUID) ([]*entities.VerificationTestAttempt, error) {
	if err := r.s.injected("attempts.ListByRequest"); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entities.VerificationTestAttempt, 0)
	for _, a := range r.s.t.attempts {
		if a.RequestID == requestID {
			cp := a
			out = append(out, &cp)
		}
	}
	return out, nil
}

// AvailabilityRepository is the in-memory schedule repository
type AvailabilityRepository struct{ s *Store }

func (s *Store) Availability() *AvailabilityRepository { return &AvailabilityRepository{s: s} }

func (r *AvailabilityRepository) ReplaceForTutor(_ context.Context, tutorID uuid.UUID, windows []*entities.TutorAvailability) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := make([]entities.TutorAvailability, 0, len(windows))
	for _, w := range windows {
		cp := *w
		cp.TutorID = tutorID
		rows = append(rows, cp)
	}
	r.s.t.availability[tutorID] = rows
	return nil
}

func (r *AvailabilityRepository) ListByTutor(_ context.Context, tutorID uuid.UUID) ([]*entities.TutorAvailability, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entities.TutorAvailability, 0, len(r.s.t.availability[tutorID]))
	for _, w := range r.s.t.availability[tutorID] {
		cp := w
		out = append(out, &cp)
	}
	return out, nil
}
