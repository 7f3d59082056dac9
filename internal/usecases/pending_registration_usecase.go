package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"tutorlink.backend/internal/domain/entities"
	domainerrors "tutorlink.backend/internal/domain/errors"
	"tutorlink.backend/internal/domain/repositories"
	"tutorlink.backend/pkg/crypto"
)

// PendingRegistrationUsecase keeps profile data a visitor entered before creating the account
type PendingRegistrationUsecase struct {
	store    repositories.PendingRegistrationStore
	userRepo repositories.UserRepository
	ttl      time.Duration
	now      func() time.Time
}

// NewPendingRegistrationUsecase creates the usecase. A non-positive ttl uses the 24h default.
func NewPendingRegistrationUsecase(store repositories.PendingRegistrationStore, userRepo repositories.UserRepository, ttl time.Duration) *PendingRegistrationUsecase {
	if ttl <= 0 {
		ttl = entities.DefaultPendingRegistrationTTL
	}
	return &PendingRegistrationUsecase{
		store:    store,
		userRepo: userRepo,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// claimTokenBytes is the entropy of a claim token before hex encoding
const claimTokenBytes = 32

// Save stores the draft. A new draft gets a fresh claim token; replacing an
// existing draft requires its token, which is kept.
func (u *PendingRegistrationUsecase) Save(ctx context.Context, input *entities.SavePendingRegistrationInput, token string) (*entities.PendingRegistration, error) {
	if !input.Role.SelfAssignable() {
		return nil, domainerrors.NewError("role must be student, tutor or institute", domainerrors.ErrInvalidInput)
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, domainerrors.NewError("email is required", domainerrors.ErrInvalidInput)
	}

	_, err := u.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, domainerrors.ErrAlreadyExists
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	existing, err := u.live(ctx, email)
	switch {
	case err == nil:
		if !existing.Claims(token) {
			return nil, domainerrors.NewError("a pending registration already exists for this email", domainerrors.ErrForbidden)
		}
		token = existing.ClaimToken
	case errors.Is(err, domainerrors.ErrNotFound):
		if token, err = crypto.GenerateRandomToken(claimTokenBytes); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	p := &entities.PendingRegistration{
		Email:      email,
		Role:       input.Role,
		Profile:    input.Profile,
		ClaimToken: token,
		CreatedAt:  u.now(),
	}
	if err := u.store.Save(ctx, p, u.ttl); err != nil {
		return nil, err
	}
	return p, nil
}

// live loads the draft, treating anything past its TTL as absent
func (u *PendingRegistrationUsecase) live(ctx context.Context, email string) (*entities.PendingRegistration, error) {
	p, err := u.store.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if p.Expired(u.now(), u.ttl) {
		_ = u.store.Delete(ctx, email)
		return nil, domainerrors.ErrNotFound
	}
	return p, nil
}

// claimed loads the draft and checks token against it
func (u *PendingRegistrationUsecase) claimed(ctx context.Context, email, token string) (*entities.PendingRegistration, error) {
	p, err := u.live(ctx, email)
	if err != nil {
		return nil, err
	}
	if !p.Claims(token) {
		return nil, domainerrors.NewError("registration token does not match", domainerrors.ErrForbidden)
	}
	return p, nil
}

// Get returns the draft without its claim token
func (u *PendingRegistrationUsecase) Get(ctx context.Context, email, token string) (*entities.PendingRegistration, error) {
	p, err := u.claimed(ctx, strings.ToLower(strings.TrimSpace(email)), token)
	if err != nil {
		return nil, err
	}
	return p.Redacted(), nil
}

// Delete discards the draft. A missing draft is not an error.
func (u *PendingRegistrationUsecase) Delete(ctx context.Context, email, token string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := u.claimed(ctx, email, token); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil
		}
		return err
	}
	return u.store.Delete(ctx, email)
}
