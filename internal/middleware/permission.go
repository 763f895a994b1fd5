package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/foodonline/backend/internal/models"
)

// UserLookup loads the account behind a validated token
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// RequireStaff admits active staff accounts with access to module. It must
// run after AuthMiddleware.
func RequireStaff(users UserLookup, module string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := c.Get(ContextUserID)
		userID, isUint := id.(uint)
		if !ok || !isUint {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
				return
			}
			_ = c.Error(err)
			c.Abort()
			return
		}

		if !user.IsActive || !user.IsStaff || !user.HasModulePermission(module) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "staff access required"})
			return
		}

		c.Set(ContextUser, user)
		c.Next()
	}
}

// RequirePermission rejects requests whose user lacks perm. It must run
// after RequireStaff.
func RequirePermission(perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.HasPermission(perm) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user loaded by RequireStaff, if any
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
