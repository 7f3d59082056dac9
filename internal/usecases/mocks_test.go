package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"tutorlink.backend/internal/domain/entities"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role entities.UserRole) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, search string, limit, offset int) ([]*entities.User, int64, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.User), args.Get(1).(int64), args.Error(2)
}

// Mock ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) CreateProfile(ctx context.Context, p *entities.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*entities.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Profile), args.Error(1)
}

func (m *MockProfileRepository) CreateTutorProfile(ctx context.Context, p *entities.TutorProfile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileRepository) GetTutorProfile(ctx context.Context, userID uuid.UUID) (*entities.TutorProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TutorProfile), args.Error(1)
}

func (m *MockProfileRepository) UpdateTutorProfile(ctx context.Context, p *entities.TutorProfile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileRepository) ListTutors(ctx context.Context, f entities.TutorFilter) ([]*entities.TutorProfile, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.TutorProfile), args.Get(1).(int64), args.Error(2)
}

func (m *MockProfileRepository) CreateInstitutionProfile(ctx context.Context, p *entities.InstitutionProfile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileRepository) GetInstitutionProfile(ctx context.Context, userID uuid.UUID) (*entities.InstitutionProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.InstitutionProfile), args.Error(1)
}

func (m *MockProfileRepository) ListInstitutions(ctx context.Context, f entities.InstitutionFilter) ([]*entities.InstitutionProfile, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.InstitutionProfile), args.Get(1).(int64), args.Error(2)
}

func (m *MockProfileRepository) SetVerified(ctx context.Context, userType entities.UserType, userID uuid.UUID, verified bool) error {
	return m.Called(ctx, userType, userID, verified).Error(0)
}

// Mock PendingRegistrationStore
type MockPendingRegistrationStore struct {
	mock.Mock
}

func (m *MockPendingRegistrationStore) Save(ctx context.Context, p *entities.PendingRegistration, ttl time.Duration) error {
	return m.Called(ctx, p, ttl).Error(0)
}

func (m *MockPendingRegistrationStore) Get(ctx context.Context, email string) (*entities.PendingRegistration, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PendingRegistration), args.Error(1)
}

func (m *MockPendingRegistrationStore) Delete(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
