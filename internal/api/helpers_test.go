package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodonline/backend/internal/logger"
	"github.com/foodonline/backend/internal/middleware"
	"github.com/foodonline/backend/internal/service"
	"github.com/foodonline/backend/internal/testhelpers"
)

const testJWTSecret = "test-secret"

type testEnv struct {
	router   *gin.Engine
	db       *gorm.DB
	users    *service.UserService
	profiles *service.ProfileService
	auth     *service.AuthService
}

// newTestEnv wires real services over an in-memory database
func newTestEnv(t *testing.T, media service.MediaStore, rateLimit gin.HandlerFunc) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupSQLiteDB(t)
	users := service.NewUserService(db)
	profiles := service.NewProfileService(db, media)
	auth := service.NewAuthService(users, testJWTSecret, time.Hour)
	log := logger.Discard()

	r := gin.New()
	r.Use(middleware.ErrorHandler(log))
	SetupRoutes(r,
		NewAccountsHandler(users, rateLimit, log),
		NewAdminHandler(auth, users, profiles, log),
		map[string]Checker{},
	)

	return &testEnv{router: r, db: db, users: users, profiles: profiles, auth: auth}
}

func postForm(r http.Handler, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func performJSON(t *testing.T, r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}
