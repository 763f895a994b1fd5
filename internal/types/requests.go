package types

import (
	"github.com/foodonline/backend/internal/models"
)

// LoginRequest is the body of the admin login endpoint
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued bearer token
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UpdateUserRequest enumerates the user fields editable through the admin API.
// date_joined and last_login are read-only and intentionally absent.
type UpdateUserRequest struct {
	FirstName    *string      `json:"first_name" binding:"omitempty,max=50"`
	LastName     *string      `json:"last_name" binding:"omitempty,max=50"`
	Username     *string      `json:"username" binding:"omitempty,min=1,max=50"`
	Email        *string      `json:"email" binding:"omitempty,email,max=100"`
	PhoneNumber  *string      `json:"phone_number" binding:"omitempty,max=15"`
	Role         *models.Role `json:"role" binding:"omitempty,oneof=1 2"`
	IsActive     *bool        `json:"is_active"`
	IsStaff      *bool        `json:"is_staff"`
	IsAdmin      *bool        `json:"is_admin"`
	IsSuperadmin *bool        `json:"is_superadmin"`
}

// UpdateProfileRequest enumerates the profile fields editable through the admin API.
// Images are replaced through the upload endpoints.
type UpdateProfileRequest struct {
	AddressLine1 *string  `json:"address_line_1" binding:"omitempty,max=50"`
	AddressLine2 *string  `json:"address_line_2" binding:"omitempty,max=50"`
	Country      *string  `json:"country" binding:"omitempty,max=15"`
	State        *string  `json:"state" binding:"omitempty,max=15"`
	City         *string  `json:"city" binding:"omitempty,max=15"`
	PinCode      *string  `json:"pin_code" binding:"omitempty,max=6"`
	Latitude     *string  `json:"latitude" binding:"omitempty,max=20"`
	Longitude    *float64 `json:"longitude"`
}

// ListResponse wraps a page of admin results
type ListResponse[T any] struct {
	Results []T   `json:"results"`
	Count   int64 `json:"count"`
	Page    int   `json:"page"`
	Size    int   `json:"size"`
}

// ProfileResponse is a profile with its stored image keys resolved to URLs
type ProfileResponse struct {
	*models.UserProfile
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
	CoverPhotoURL     string `json:"cover_photo_url,omitempty"`
}
