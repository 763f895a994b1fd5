package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/foodonline/backend/internal/models"
	"github.com/foodonline/backend/internal/service"
	"github.com/foodonline/backend/internal/types"
)

// MockProfileService is a mock implementation of the ProfileService interface
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) profileResult(args mock.Arguments) (*models.UserProfile, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockProfileService) GetProfile(ctx context.Context, id uint) (*models.UserProfile, error) {
	return m.profileResult(m.Called(ctx, id))
}

func (m *MockProfileService) GetByUser(ctx context.Context, userID uint) (*models.UserProfile, error) {
	return m.profileResult(m.Called(ctx, userID))
}

func (m *MockProfileService) List(ctx context.Context, opts service.ListOptions) ([]models.UserProfile, int64, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.UserProfile), args.Get(1).(int64), args.Error(2)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, id uint, req *types.UpdateProfileRequest) (*models.UserProfile, error) {
	return m.profileResult(m.Called(ctx, id, req))
}

func (m *MockProfileService) UploadImage(ctx context.Context, id uint, kind service.ImageKind, filename, contentType string, body io.Reader) (*models.UserProfile, error) {
	return m.profileResult(m.Called(ctx, id, kind, filename, contentType, body))
}

func (m *MockProfileService) ImageURL(ctx context.Context, key *string) string {
	args := m.Called(ctx, key)
	return args.String(0)
}

// MockMediaStore is a mock implementation of the MediaStore interface
type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	args := m.Called(ctx, key, contentType, body)
	return args.Error(0)
}

func (m *MockMediaStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockMediaStore) URL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

var (
	_ service.IUserService    = (*MockUserService)(nil)
	_ service.IProfileService = (*MockProfileService)(nil)
	_ service.IAuthService    = (*MockAuthService)(nil)
	_ service.MediaStore      = (*MockMediaStore)(nil)
)
