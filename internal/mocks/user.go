package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/foodonline/backend/internal/models"
	"github.com/foodonline/backend/internal/service"
)

// MockUserService is a mock implementation of the UserService interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) userResult(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, in service.NewUser) (*models.User, error) {
	return m.userResult(m.Called(ctx, in))
}

func (m *MockUserService) CreateSuperuser(ctx context.Context, in service.NewUser) (*models.User, error) {
	return m.userResult(m.Called(ctx, in))
}

func (m *MockUserService) RegisterCustomer(ctx context.Context, in service.NewUser) (*models.User, error) {
	return m.userResult(m.Called(ctx, in))
}

func (m *MockUserService) Save(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return m.userResult(m.Called(ctx, id))
}

func (m *MockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.userResult(m.Called(ctx, email))
}

func (m *MockUserService) List(ctx context.Context, opts service.ListOptions) ([]models.User, int64, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	return m.userResult(m.Called(ctx, email, password))
}
