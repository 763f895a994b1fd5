package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodonline/backend/config"
	"github.com/foodonline/backend/internal/logger"
	"github.com/foodonline/backend/internal/models"
	"github.com/foodonline/backend/internal/server"
	"github.com/foodonline/backend/internal/service"
	"github.com/foodonline/backend/internal/testhelpers"
	"github.com/foodonline/backend/internal/types"
)

func setupServer(t *testing.T) (*server.Server, *gorm.DB) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupPostgresDB(t, "../../migrations")
	cfg := &config.Config{
		Env:        config.Test,
		ServerHost: "127.0.0.1",
		ServerPort: "0",
		JWTSecret:  "integration-secret",
		TokenTTL:   time.Hour,
	}
	return server.New(cfg, db, nil, nil, logger.Discard()), db
}

func register(t *testing.T, srv *server.Server, username, email string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{
		"first_name":       {"Test"},
		"last_name":        {"User"},
		"username":         {username},
		"email":            {email},
		"password":         {"s3cret-pass"},
		"confirm_password": {"s3cret-pass"},
	}
	req := httptest.NewRequest(http.MethodPost, "/accounts/registerUser/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestRegistrationFlow(t *testing.T) {
	srv, db := setupServer(t)

	w := register(t, srv, "ann", "ann@Example.COM")
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())

	var user models.User
	require.NoError(t, db.Where("username = ?", "ann").First(&user).Error)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Equal(t, models.RoleCustomer, *user.Role)
	assert.False(t, user.IsActive)
	assert.True(t, user.CheckPassword("s3cret-pass"))

	var profile models.UserProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)

	// Uniqueness is enforced by the database, not the form.
	w = register(t, srv, "ann", "other@example.com")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestProfileCascadeOnPostgres(t *testing.T) {
	_, db := setupServer(t)
	users := service.NewUserService(db)

	user, err := users.CreateUser(context.Background(), service.NewUser{Username: "bob", Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, db.Delete(&models.User{}, user.ID).Error)

	var count int64
	require.NoError(t, db.Model(&models.UserProfile{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAdminFlow(t *testing.T) {
	srv, db := setupServer(t)
	users := service.NewUserService(db)

	_, err := users.CreateSuperuser(context.Background(), service.NewUser{Username: "root", Email: "root@example.com", Password: "rootpw"})
	require.NoError(t, err)
	require.Equal(t, http.StatusFound, register(t, srv, "ann", "ann@example.com").Code)

	body, err := json.Marshal(types.LoginRequest{Email: "root@example.com", Password: "rootpw"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	req = httptest.NewRequest(http.MethodGet, "/admin/accounts/profiles", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var page types.ListResponse[types.ProfileResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.Count)
}
