package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"tutorlink.backend/internal/domain/entities"
	domainerrors "tutorlink.backend/internal/domain/errors"
	"tutorlink.backend/internal/domain/repositories"
	"tutorlink.backend/pkg/crypto"
	"tutorlink.backend/pkg/jwt"
	"tutorlink.backend/pkg/logger"
	"tutorlink.backend/pkg/utils"
)

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	uow        repositories.UnitOfWork
	userRepo   repositories.UserRepository
	profiles   repositories.ProfileRepository
	pending    repositories.PendingRegistrationStore
	jwtService *jwt.JWTService
	now        func() time.Time
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	uow repositories.UnitOfWork,
	userRepo repositories.UserRepository,
	profiles repositories.ProfileRepository,
	pending repositories.PendingRegistrationStore,
	jwtService *jwt.JWTService,
) *AuthUsecase {
	return &AuthUsecase{
		uow:        uow,
		userRepo:   userRepo,
		profiles:   profiles,
		pending:    pending,
		jwtService: jwtService,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Register creates the user with its profile rows and signs them in.
// A pending registration claimed by input.RegistrationToken seeds the profile and is consumed.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.AuthResponse, error) {
	if !input.Role.SelfAssignable() {
		return nil, domainerrors.NewError("role must be student, tutor or institute", domainerrors.ErrInvalidInput)
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// Check if email already exists
	_, err := u.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, domainerrors.ErrAlreadyExists
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	seed := u.pendingSeed(ctx, email, input.Role, input.RegistrationToken)

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := u.now()
	user := &entities.User{
		ID:           utils.GenerateUUIDv7(),
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: passwordHash,
		Role:         input.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.Create(txCtx, user); err != nil {
			return err
		}
		return u.createProfiles(txCtx, user, seed, now)
	})
	if err != nil {
		return nil, err
	}

	if u.pending != nil {
		if err := u.pending.Delete(ctx, email); err != nil {
			logger.Warn(ctx, "Failed to clear pending registration", zap.String("email", email), zap.Error(err))
		}
	}

	return u.issue(user)
}

// pendingSeed returns the saved profile fields for email when the token claims it and the role matches
func (u *AuthUsecase) pendingSeed(ctx context.Context, email string, role entities.UserRole, token string) entities.ProfileSeed {
	if u.pending == nil {
		return entities.ProfileSeed{}
	}
	p, err := u.pending.Get(ctx, email)
	if err != nil {
		if !errors.Is(err, domainerrors.ErrNotFound) {
			logger.Warn(ctx, "Failed to read pending registration", zap.String("email", email), zap.Error(err))
		}
		return entities.ProfileSeed{}
	}
	if !p.Claims(token) || p.Role != role {
		return entities.ProfileSeed{}
	}
	return p.Profile
}

func (u *AuthUsecase) createProfiles(ctx context.Context, user *entities.User, seed entities.ProfileSeed, now time.Time) error {
	fullName := seed.FullName
	if fullName == "" {
		fullName = user.Name
	}
	if err := u.profiles.CreateProfile(ctx, &entities.Profile{
		UserID:    user.ID,
		FullName:  fullName,
		Bio:       seed.Bio,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return err
	}

	switch user.Role {
	case entities.UserRoleTutor:
		return u.profiles.CreateTutorProfile(ctx, &entities.TutorProfile{
			ID:         utils.GenerateUUIDv7(),
			UserID:     user.ID,
			Headline:   seed.Headline,
			Subjects:   seed.Subjects,
			HourlyRate: seed.HourlyRate,
			Timezone:   seed.Timezone,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	case entities.UserRoleInstitute:
		name := seed.InstitutionName
		if name == "" {
			name = user.Name
		}
		return u.profiles.CreateInstitutionProfile(ctx, &entities.InstitutionProfile{
			ID:              utils.GenerateUUIDv7(),
			UserID:          user.ID,
			InstitutionName: name,
			Website:         seed.Website,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	return nil
}

func (u *AuthUsecase) issue(user *entities.User) (*entities.AuthResponse, error) {
	tokenPair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &entities.AuthResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    tokenPair.ExpiresAt,
		User:         user,
	}, nil
}

// Login authenticates a user and returns tokens
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	return u.issue(user)
}

// RefreshToken generates new tokens from a refresh token
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken string) (*entities.AuthResponse, error) {
	claims, err := u.jwtService.ValidateTokenOfType(refreshToken, jwt.TokenTypeRefresh)
	if err != nil {
		return nil, domainerrors.NewError("invalid refresh token", domainerrors.ErrUnauthorized)
	}

	// Get current user so role changes are picked up
	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NewError("user no longer exists", domainerrors.ErrUnauthorized)
		}
		return nil, err
	}

	return u.issue(user)
}

// GetUserByID gets a user by ID
func (u *AuthUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

// ListUsers pages through users matching search on name or email
func (u *AuthUsecase) ListUsers(ctx context.Context, search string, page, limit int) ([]*entities.User, utils.PaginationMeta, error) {
	params := utils.GetPaginationParams(page, limit)
	users, total, err := u.userRepo.List(ctx, strings.TrimSpace(search), params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return users, utils.CalculateMeta(total, params.Page, params.Limit), nil
}

// PromoteAdmin grants the admin role to an existing user
func (u *AuthUsecase) PromoteAdmin(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == entities.UserRoleAdmin {
		return user, nil
	}
	if err := u.userRepo.UpdateRole(ctx, userID, entities.UserRoleAdmin); err != nil {
		return nil, err
	}
	user.Role = entities.UserRoleAdmin
	logger.Info(ctx, "User promoted to admin", zap.String("user_id", userID.String()))
	return user, nil
}
