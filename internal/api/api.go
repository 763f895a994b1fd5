package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Checker reports whether a dependency is reachable
type Checker func(ctx context.Context) error

// HealthCheck reports the status of each named dependency. Any failure turns
// the response into a 503.
func HealthCheck(checks map[string]Checker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(gin.H, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[name] = err.Error()
				continue
			}
			results[name] = "ok"
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "unhealthy"
		}
		c.JSON(status, gin.H{"status": state, "checks": results})
	}
}

// SetupRoutes mounts every handler on the engine
func SetupRoutes(router *gin.Engine, accounts *AccountsHandler, admin *AdminHandler, checks map[string]Checker) {
	LoadTemplates(router)
	router.GET("/health", HealthCheck(checks))
	accounts.RegisterRoutes(router)
	admin.RegisterRoutes(router)
}
