package service

import (
	"context"
	"io"

	"github.com/foodonline/backend/internal/models"
	"github.com/foodonline/backend/internal/types"
)

// IUserService defines the user store operations
type IUserService interface {
	CreateUser(ctx context.Context, in NewUser) (*models.User, error)
	CreateSuperuser(ctx context.Context, in NewUser) (*models.User, error)
	RegisterCustomer(ctx context.Context, in NewUser) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, opts ListOptions) ([]models.User, int64, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

// IProfileService defines the profile store operations
type IProfileService interface {
	GetProfile(ctx context.Context, id uint) (*models.UserProfile, error)
	GetByUser(ctx context.Context, userID uint) (*models.UserProfile, error)
	List(ctx context.Context, opts ListOptions) ([]models.UserProfile, int64, error)
	UpdateProfile(ctx context.Context, id uint, req *types.UpdateProfileRequest) (*models.UserProfile, error)
	UploadImage(ctx context.Context, id uint, kind ImageKind, filename, contentType string, body io.Reader) (*models.UserProfile, error)
	ImageURL(ctx context.Context, key *string) string
}

// IAuthService defines admin authentication operations
type IAuthService interface {
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// MediaStore persists uploaded profile images
type MediaStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
	Delete(ctx context.Context, key string) error
	URL(ctx context.Context, key string) (string, error)
}

// ListOptions paginates admin listings
type ListOptions struct {
	Page int
	Size int
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (o ListOptions) Normalize() ListOptions {
	if o.Size <= 0 {
		o.Size = defaultPageSize
	}
	if o.Size > maxPageSize {
		o.Size = maxPageSize
	}
	if o.Page < 1 {
		o.Page = 1
	}
	return o
}

func (o ListOptions) Offset() int {
	return (o.Page - 1) * o.Size
}
