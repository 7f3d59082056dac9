// Package memory holds map-backed implementations of the domain repositories.
// Entities are copied on the way in and out so callers never share state with the store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"tutorlink.backend/internal/domain/entities"
	domainerrors "tutorlink.backend/internal/domain/errors"
)

type tables struct {
	users        map[uuid.UUID]entities.User
	profiles     map[uuid.UUID]entities.Profile
	tutors       map[uuid.UUID]entities.TutorProfile
	institutions map[uuid.UUID]entities.InstitutionProfile
	requests     map[uuid.UUID]entities.VerificationRequest
	documents    []entities.VerificationDocument
	references   map[uuid.UUID]entities.VerificationReference
	attempts     []entities.VerificationTestAttempt
	availability map[uuid.UUID][]entities.TutorAvailability
}

func (t tables) clone() tables {
	c := tables{
		users:        make(map[uuid.UUID]entities.User, len(t.users)),
		profiles:     make(map[uuid.UUID]entities.Profile, len(t.profiles)),
		tutors:       make(map[uuid.UUID]entities.TutorProfile, len(t.tutors)),
		institutions: make(map[uuid.UUID]entities.InstitutionProfile, len(t.institutions)),
		requests:     make(map[uuid.UUID]entities.VerificationRequest, len(t.requests)),
		documents:    append([]entities.VerificationDocument(nil), t.documents...),
		references:   make(map[uuid.UUID]entities.VerificationReference, len(t.references)),
		attempts:     append([]entities.VerificationTestAttempt(nil), t.attempts...),
		availability: make(map[uuid.UUID][]entities.TutorAvailability, len(t.availability)),
	}
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.profiles {
		c.profiles[k] = v
	}
	for k, v := range t.tutors {
		c.tutors[k] = v
	}
	for k, v := range t.institutions {
		c.institutions[k] = v
	}
	for k, v := range t.requests {
		c.requests[k] = v
	}
	for k, v := range t.references {
		c.references[k] = v
	}
	for k, v := range t.availability {
		c.availability[k] = append([]entities.TutorAvailability(nil), v...)
	}
	return c
}

// Store is the shared state behind every repository in this package
type Store struct {
	mu sync.RWMutex
	t  tables

	// serializes units of work so a rollback never discards another commit
	txMu sync.Mutex

	// one-shot injected errors keyed by operation name
	failMu sync.Mutex
	fail   map[string]error
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		t: tables{
			users:        map[uuid.UUID]entities.User{},
			profiles:     map[uuid.UUID]entities.Profile{},
			tutors:       map[uuid.UUID]entities.TutorProfile{},
			institutions: map[uuid.UUID]entities.InstitutionProfile{},
			requests:     map[uuid.UUID]entities.VerificationRequest{},
			references:   map[uuid.UUID]entities.VerificationReference{},
			availability: map[uuid.UUID][]entities.TutorAvailability{},
		},
		fail: map[string]error{},
	}
}

// FailNext arms a one-shot error for the operation name, e.g. "profiles.SetVerified"
func (s *Store) FailNext(op string, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.fail[op] = err
}

func (s *Store) injected(op string) error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	if err, ok := s.fail[op]; ok {
		delete(s.fail, op)
		return err
	}
	return nil
}

// UnitOfWork snapshots the store and restores it when fn fails
type UnitOfWork struct {
	s *Store
}

type txKey struct{}

func (s *Store) UnitOfWork() *UnitOfWork { return &UnitOfWork{s: s} }

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	u.s.txMu.Lock()
	defer u.s.txMu.Unlock()

	u.s.mu.RLock()
	snapshot := u.s.t.clone()
	u.s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		u.s.mu.Lock()
		u.s.t = snapshot
		u.s.mu.Unlock()
		return err
	}
	return nil
}

// UserRepository is the in-memory user repository
type UserRepository struct{ s *Store }

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

func (r *UserRepository) Create(_ context.Context, user *entities.User) error {
	if err := r.s.injected("users.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email := strings.ToLower(user.Email)
	for _, u := range r.s.t.users {
		if u.Email == email {
			return domainerrors.ErrAlreadyExists
		}
	}
	cp := *user
	cp.Email = email
	r.s.t.users[user.ID] = cp
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.t.users[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	email = strings.ToLower(email)
	for _, u := range r.s.t.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (r *UserRepository) UpdateRole(_ context.Context, id uuid.UUID, role entities.UserRole) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.t.users[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now().UTC()
	r.s.t.users[id] = u
	return nil
}

func (r *UserRepository) List(_ context.Context, search string, limit, offset int) ([]*entities.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	search = strings.ToLower(search)
	out := make([]*entities.User, 0, len(r.s.t.users))
	for _, u := range r.s.t.users {
		if search != "" && !strings.Contains(strings.ToLower(u.Name), search) && !strings.Contains(u.Email, search) {
			continue
		}
		cp := u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	return page(out, limit, offset), total, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
