package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role is the coarse account classification used by the rest of the platform.
type Role uint8

const (
	RoleRestaurant Role = 1
	RoleCustomer   Role = 2
)

// unusablePasswordPrefix marks a password that can never match, matching
// accounts created without a password.
const unusablePasswordPrefix = "!"

// String returns the display label of the role.
func (r Role) String() string {
	switch r {
	case RoleRestaurant:
		return "Restaurant"
	case RoleCustomer:
		return "Customer"
	default:
		return "Unknown"
	}
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	return r == RoleRestaurant || r == RoleCustomer
}

// User is an authenticatable account. Email is the login identifier.
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	FirstName    string    `gorm:"size:50" json:"first_name"`
	LastName     string    `gorm:"size:50" json:"last_name"`
	Username     string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	PhoneNumber  *string   `gorm:"size:15" json:"phone_number"`
	Role         *Role     `gorm:"type:smallint" json:"role"`
	Password     string    `gorm:"size:255;not null" json:"-"`
	DateJoined   time.Time `gorm:"autoCreateTime" json:"date_joined"`
	LastLogin    time.Time `gorm:"autoCreateTime" json:"last_login"`
	CreatedDate  time.Time `gorm:"autoCreateTime" json:"created_date"`
	ModifiedDate time.Time `gorm:"autoUpdateTime" json:"modified_date"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
	IsStaff      bool      `gorm:"not null;default:false" json:"is_staff"`
	IsActive     bool      `gorm:"not null;default:false" json:"is_active"`
	IsSuperadmin bool      `gorm:"not null;default:false" json:"is_superadmin"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) String() string {
	return u.Email
}

// HasPermission is all-or-nothing: admins hold every permission.
func (u *User) HasPermission(perm string) bool {
	return u.IsAdmin
}

// HasModulePermission does not restrict access per module.
func (u *User) HasModulePermission(module string) bool {
	return true
}

// SetPassword stores a bcrypt hash of raw. An empty raw password leaves the
// account with an unusable password.
func (u *User) SetPassword(raw string) error {
	if raw == "" {
		u.Password = unusablePasswordPrefix + uuid.NewString()
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword reports whether raw matches the stored hash.
func (u *User) CheckPassword(raw string) bool {
	if !u.HasUsablePassword() || raw == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(raw)) == nil
}

func (u *User) HasUsablePassword() bool {
	return u.Password != "" && !strings.HasPrefix(u.Password, unusablePasswordPrefix)
}
