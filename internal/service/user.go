package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodonline/backend/internal/models"
)

var (
	ErrEmailRequired      = errors.New("user must have an email address")
	ErrUsernameRequired   = errors.New("user must have a username")
	ErrDuplicateUser      = errors.New("a user with that email or username already exists")
	ErrUserNotPersisted   = errors.New("user has not been created yet")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("role must be Restaurant or Customer")
)

// NewUser carries the values accepted by the user factory
type NewUser struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

// UserService is the user store. Every write runs the profile consistency
// step inside the same transaction.
type UserService struct {
	db *gorm.DB
}

// Ensure UserService implements IUserService
var _ IUserService = (*UserService)(nil)

// NewUserService creates a new UserService instance
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// NormalizeEmail lowercases the domain part of an email address and leaves
// the local part untouched.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + cases.Lower(language.Und).String(email[at+1:])
}

// CreateUser validates the required identity fields, hashes the password and
// persists an inactive, unprivileged user together with its profile.
func (s *UserService) CreateUser(ctx context.Context, in NewUser) (*models.User, error) {
	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = createUser(tx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateSuperuser creates a user and grants every status flag.
func (s *UserService) CreateSuperuser(ctx context.Context, in NewUser) (*models.User, error) {
	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if user, err = createUser(tx, in); err != nil {
			return err
		}
		user.IsActive = true
		user.IsStaff = true
		user.IsAdmin = true
		user.IsSuperadmin = true
		return saveUser(tx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterCustomer is the self-service registration path: the created user
// always gets the Customer role.
func (s *UserService) RegisterCustomer(ctx context.Context, in NewUser) (*models.User, error) {
	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if user, err = createUser(tx, in); err != nil {
			return err
		}
		role := models.RoleCustomer
		user.Role = &role
		return saveUser(tx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Save persists changes to an existing user.
func (s *UserService) Save(ctx context.Context, user *models.User) error {
	if user.ID == 0 {
		return ErrUserNotPersisted
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveUser(tx, user)
	})
}

// GetByID retrieves a user by primary key
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by login identifier
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns a page of users, most recently joined first
func (s *UserService) List(ctx context.Context, opts ListOptions) ([]models.User, int64, error) {
	opts = opts.Normalize()
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	if err := db.Order("date_joined DESC").Order("id DESC").Limit(opts.Size).Offset(opts.Offset()).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Authenticate checks credentials and records the login time.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	user.LastLogin = time.Now()
	if err := s.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func createUser(tx *gorm.DB, in NewUser) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if strings.TrimSpace(in.Email) == "" {
		return nil, ErrEmailRequired
	}
	if username == "" {
		return nil, ErrUsernameRequired
	}

	user := &models.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Username:  username,
		Email:     NormalizeEmail(in.Email),
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
		return nil, wrapWriteError("create user", err)
	}
	if err := syncProfile(tx, user, true); err != nil {
		return nil, err
	}
	return user, nil
}

func saveUser(tx *gorm.DB, user *models.User) error {
	if user.Role != nil && !user.Role.Valid() {
		return ErrInvalidRole
	}
	if err := tx.Omit(clause.Associations).Save(user).Error; err != nil {
		return wrapWriteError("save user", err)
	}
	return syncProfile(tx, user, false)
}

func wrapWriteError(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w: %v", op, ErrDuplicateUser, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
