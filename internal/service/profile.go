package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodonline/backend/internal/models"
	"github.com/foodonline/backend/internal/types"
)

var (
	ErrDuplicateProfile = errors.New("more than one profile references the user")
	ErrMediaUnavailable = errors.New("media storage is not configured")
	ErrInvalidImageKind = errors.New("invalid image kind")
)

// ImageKind selects which profile image an upload replaces
type ImageKind string

const (
	ImageProfilePicture ImageKind = "profile_picture"
	ImageCoverPhoto     ImageKind = "cover_photo"
)

func (k ImageKind) prefix() (string, error) {
	switch k {
	case ImageProfilePicture:
		return "users/profile_pictures", nil
	case ImageCoverPhoto:
		return "users/cover_photos", nil
	default:
		return "", ErrInvalidImageKind
	}
}

// ProfileService handles user profile operations
type ProfileService struct {
	db    *gorm.DB
	media MediaStore
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance. media may be nil,
// in which case image uploads are rejected.
func NewProfileService(db *gorm.DB, media MediaStore) *ProfileService {
	return &ProfileService{
		db:    db,
		media: media,
	}
}

// syncProfile keeps exactly one profile per user. It runs inside the
// transaction of the user write that triggered it: a missing profile is
// created, an existing one is re-saved so modified_at moves, and any other
// outcome is returned to the caller.
func syncProfile(tx *gorm.DB, user *models.User, created bool) error {
	var profiles []models.UserProfile
	if err := tx.Where("user_id = ?", user.ID).Limit(2).Find(&profiles).Error; err != nil {
		return fmt.Errorf("look up profile for user %d: %w", user.ID, err)
	}

	switch len(profiles) {
	case 0:
		if !created {
			log.Printf("[ProfileService] user %d had no profile, creating one", user.ID)
		}
		profile := models.UserProfile{UserID: &user.ID}
		if err := tx.Omit(clause.Associations).Create(&profile).Error; err != nil {
			return fmt.Errorf("create profile for user %d: %w", user.ID, err)
		}
		return nil
	case 1:
		if err := tx.Omit(clause.Associations).Save(&profiles[0]).Error; err != nil {
			return fmt.Errorf("save profile for user %d: %w", user.ID, err)
		}
		return nil
	default:
		return fmt.Errorf("user %d: %w", user.ID, ErrDuplicateProfile)
	}
}

// GetProfile retrieves a profile by primary key together with its owner
func (s *ProfileService) GetProfile(ctx context.Context, id uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Preload("User").First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByUser retrieves the profile owned by a user
func (s *ProfileService) GetByUser(ctx context.Context, userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// List returns a page of profiles with their owners
func (s *ProfileService) List(ctx context.Context, opts ListOptions) ([]models.UserProfile, int64, error) {
	opts = opts.Normalize()
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.UserProfile{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var profiles []models.UserProfile
	if err := db.Preload("User").Order("id DESC").Limit(opts.Size).Offset(opts.Offset()).Find(&profiles).Error; err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// UpdateProfile applies the provided fields and saves the profile
func (s *ProfileService) UpdateProfile(ctx context.Context, id uint, req *types.UpdateProfileRequest) (*models.UserProfile, error) {
	profile, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.AddressLine1 != nil {
		profile.AddressLine1 = req.AddressLine1
	}
	if req.AddressLine2 != nil {
		profile.AddressLine2 = req.AddressLine2
	}
	if req.Country != nil {
		profile.Country = req.Country
	}
	if req.State != nil {
		profile.State = req.State
	}
	if req.City != nil {
		profile.City = req.City
	}
	if req.PinCode != nil {
		profile.PinCode = req.PinCode
	}
	if req.Latitude != nil {
		profile.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		profile.Longitude = req.Longitude
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// UploadImage stores a new profile picture or cover photo and points the
// profile at it. The previous object is removed on a best-effort basis.
func (s *ProfileService) UploadImage(ctx context.Context, id uint, kind ImageKind, filename, contentType string, body io.Reader) (*models.UserProfile, error) {
	if s.media == nil {
		return nil, ErrMediaUnavailable
	}
	prefix, err := kind.prefix()
	if err != nil {
		return nil, err
	}
	profile, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	key := path.Join(prefix, uuid.NewString()+strings.ToLower(path.Ext(filename)))
	if err := s.media.Upload(ctx, key, contentType, body); err != nil {
		return nil, fmt.Errorf("upload %s: %w", kind, err)
	}

	var previous *string
	switch kind {
	case ImageProfilePicture:
		previous, profile.ProfilePicture = profile.ProfilePicture, &key
	case ImageCoverPhoto:
		previous, profile.CoverPhoto = profile.CoverPhoto, &key
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(profile).Error; err != nil {
		if delErr := s.media.Delete(ctx, key); delErr != nil {
			log.Printf("[ProfileService] failed to delete orphaned %s %q: %v", kind, key, delErr)
		}
		return nil, err
	}

	if previous != nil && *previous != "" {
		if err := s.media.Delete(ctx, *previous); err != nil {
			log.Printf("[ProfileService] failed to delete previous %s %q: %v", kind, *previous, err)
		}
	}
	return profile, nil
}

// ImageURL resolves a stored image key to a fetchable URL, or "" when there
// is nothing to resolve.
func (s *ProfileService) ImageURL(ctx context.Context, key *string) string {
	if s.media == nil || key == nil || *key == "" {
		return ""
	}
	url, err := s.media.URL(ctx, *key)
	if err != nil {
		log.Printf("[ProfileService] failed to resolve image %q: %v", *key, err)
		return ""
	}
	return url
}
