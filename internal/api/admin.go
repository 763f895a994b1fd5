package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/foodonline/backend/internal/middleware"
	"github.com/foodonline/backend/internal/models"
	"github.com/foodonline/backend/internal/service"
	"github.com/foodonline/backend/internal/types"
)

const (
	accountsModule        = "accounts"
	permChangeUser        = "accounts.change_user"
	permChangeUserProfile = "accounts.change_userprofile"

	maxImageSize = 5 << 20
)

// AdminHandler exposes users and profiles to staff accounts
type AdminHandler struct {
	auth     service.IAuthService
	users    service.IUserService
	profiles service.IProfileService
	logger   *slog.Logger
}

func NewAdminHandler(auth service.IAuthService, users service.IUserService, profiles service.IProfileService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		auth:     auth,
		users:    users,
		profiles: profiles,
		logger:   logger,
	}
}

func (h *AdminHandler) RegisterRoutes(router gin.IRouter) {
	admin := router.Group("/admin")
	admin.POST("/login", h.Login)

	accounts := admin.Group("/accounts",
		middleware.AuthMiddleware(h.auth),
		middleware.RequireStaff(h.users, accountsModule),
	)
	{
		accounts.GET("/users", h.ListUsers)
		accounts.GET("/users/:id", h.GetUser)
		accounts.PATCH("/users/:id", middleware.RequirePermission(permChangeUser), h.UpdateUser)
		accounts.GET("/users/:id/profile", h.GetUserProfile)

		accounts.GET("/profiles", h.ListProfiles)
		accounts.GET("/profiles/:id", h.GetProfile)
		accounts.PATCH("/profiles/:id", middleware.RequirePermission(permChangeUserProfile), h.UpdateProfile)
		accounts.PUT("/profiles/:id/profile-picture", middleware.RequirePermission(permChangeUserProfile), h.uploadImage(service.ImageProfilePicture))
		accounts.PUT("/profiles/:id/cover-photo", middleware.RequirePermission(permChangeUserProfile), h.uploadImage(service.ImageCoverPhoto))
	}
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	case errors.Is(err, service.ErrNotStaff):
		c.JSON(http.StatusForbidden, gin.H{"error": "staff access required"})
		return
	default:
		_ = c.Error(fmt.Errorf("admin login: %w", err))
		c.Abort()
		return
	}

	h.logger.Info("[AdminHandler] staff login", slog.Uint64("user_id", uint64(user.ID)))
	c.JSON(http.StatusOK, types.LoginResponse{Token: token, User: user})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	opts, ok := listOptions(c)
	if !ok {
		return
	}
	users, total, err := h.users.List(c.Request.Context(), opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, types.ListResponse[models.User]{Results: users, Count: total, Page: opts.Page, Size: opts.Size})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	applyUserUpdate(user, &req)

	if err := h.users.Save(c.Request.Context(), user); err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Info("[AdminHandler] user updated",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.Uint64("by", uint64(middleware.CurrentUser(c).ID)),
	)
	c.JSON(http.StatusOK, user)
}

func applyUserUpdate(user *models.User, req *types.UpdateUserRequest) {
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = service.NormalizeEmail(*req.Email)
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Role != nil {
		user.Role = req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.IsStaff != nil {
		user.IsStaff = *req.IsStaff
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	if req.IsSuperadmin != nil {
		user.IsSuperadmin = *req.IsSuperadmin
	}
}

func (h *AdminHandler) ListProfiles(c *gin.Context) {
	opts, ok := listOptions(c)
	if !ok {
		return
	}
	profiles, total, err := h.profiles.List(c.Request.Context(), opts)
	if err != nil {
		h.fail(c, err)
		return
	}

	results := make([]types.ProfileResponse, len(profiles))
	for i := range profiles {
		results[i] = h.profileResponse(c, &profiles[i])
	}
	c.JSON(http.StatusOK, types.ListResponse[types.ProfileResponse]{Results: results, Count: total, Page: opts.Page, Size: opts.Size})
}

func (h *AdminHandler) GetProfile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	profile, err := h.profiles.GetProfile(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.profileResponse(c, profile))
}

// GetUserProfile returns the profile attached to a user
func (h *AdminHandler) GetUserProfile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	profile, err := h.profiles.GetByUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.profileResponse(c, profile))
}

func (h *AdminHandler) UpdateProfile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profiles.UpdateProfile(c.Request.Context(), id, &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.profileResponse(c, profile))
}

func (h *AdminHandler) uploadImage(kind service.ImageKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageSize+1<<10)

		file, err := c.FormFile("image")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image is too large"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
			return
		}
		if file.Size > maxImageSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image is too large"})
			return
		}

		src, err := file.Open()
		if err != nil {
			h.fail(c, err)
			return
		}
		defer src.Close()

		profile, err := h.profiles.UploadImage(c.Request.Context(), id, kind, file.Filename, file.Header.Get("Content-Type"), src)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, h.profileResponse(c, profile))
	}
}

func (h *AdminHandler) profileResponse(c *gin.Context, profile *models.UserProfile) types.ProfileResponse {
	return types.ProfileResponse{
		UserProfile:       profile,
		ProfilePictureURL: h.profiles.ImageURL(c.Request.Context(), profile.ProfilePicture),
		CoverPhotoURL:     h.profiles.ImageURL(c.Request.Context(), profile.CoverPhoto),
	}
}

// fail maps store errors onto admin API responses
func (h *AdminHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrDuplicateUser):
		c.JSON(http.StatusConflict, gin.H{"error": "a user with that email or username already exists"})
	case errors.Is(err, service.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
	case errors.Is(err, service.ErrMediaUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media storage is not configured"})
	default:
		_ = c.Error(err)
		c.Abort()
	}
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func listOptions(c *gin.Context) (service.ListOptions, bool) {
	var opts service.ListOptions
	for name, dst := range map[string]*int{"page": &opts.Page, "size": &opts.Size} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
			return opts, false
		}
		*dst = n
	}
	return opts.Normalize(), true
}
