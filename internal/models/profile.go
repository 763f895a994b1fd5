package models

import (
	"time"
)

// UserProfile holds the auxiliary per-user attributes. UserID is nullable so a
// profile can exist before it is attached; the unique index keeps at most one
// profile per user.
type UserProfile struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	UserID         *uint     `gorm:"uniqueIndex" json:"user_id"`
	User           *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	ProfilePicture *string   `gorm:"size:255" json:"profile_picture"`
	CoverPhoto     *string   `gorm:"size:255" json:"cover_photo"`
	AddressLine1   *string   `gorm:"column:address_line_1;size:50" json:"address_line_1"`
	AddressLine2   *string   `gorm:"column:address_line_2;size:50" json:"address_line_2"`
	Country        *string   `gorm:"size:15" json:"country"`
	State          *string   `gorm:"size:15" json:"state"`
	City           *string   `gorm:"size:15" json:"city"`
	PinCode        *string   `gorm:"size:6" json:"pin_code"`
	Latitude       *string   `gorm:"size:20" json:"latitude"`
	Longitude      *float64  `json:"longitude"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	ModifiedAt     time.Time `gorm:"autoUpdateTime" json:"modified_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// String returns the owner's email; the owner must be loaded.
func (p *UserProfile) String() string {
	if p.User == nil {
		return ""
	}
	return p.User.Email
}
