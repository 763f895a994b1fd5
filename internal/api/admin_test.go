package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/foodonline/backend/internal/mocks"
	"github.com/foodonline/backend/internal/models"
	"github.com/foodonline/backend/internal/service"
	"github.com/foodonline/backend/internal/types"
)

func createAccount(t *testing.T, env *testEnv, username string, superuser bool) *models.User {
	t.Helper()
	in := service.NewUser{Username: username, Email: username + "@example.com", Password: "pw-" + username}
	var (
		user *models.User
		err  error
	)
	if superuser {
		user, err = env.users.CreateSuperuser(context.Background(), in)
	} else {
		user, err = env.users.CreateUser(context.Background(), in)
	}
	require.NoError(t, err)
	return user
}

func login(t *testing.T, env *testEnv, username string) string {
	t.Helper()
	w := performJSON(t, env.router, http.MethodPost, "/admin/login", types.LoginRequest{
		Email:    username + "@example.com",
		Password: "pw-" + username,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp types.LoginResponse
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// makeStaff promotes a plain user to active staff without admin rights
func makeStaff(t *testing.T, env *testEnv, user *models.User) {
	t.Helper()
	user.IsActive = true
	user.IsStaff = true
	require.NoError(t, env.users.Save(context.Background(), user))
}

func TestAdminLogin(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	createAccount(t, env, "root", true)
	createAccount(t, env, "ann", false)

	w := performJSON(t, env.router, http.MethodPost, "/admin/login", types.LoginRequest{Email: "root@example.com", Password: "pw-root"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	w = performJSON(t, env.router, http.MethodPost, "/admin/login", types.LoginRequest{Email: "root@example.com", Password: "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performJSON(t, env.router, http.MethodPost, "/admin/login", types.LoginRequest{Email: "ann@example.com", Password: "pw-ann"}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performJSON(t, env.router, http.MethodPost, "/admin/login", map[string]string{"email": "not-an-email"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRequiresToken(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	w := performJSON(t, env.router, http.MethodGet, "/admin/accounts/users", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminListAndGetUsers(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	createAccount(t, env, "root", true)
	ann := createAccount(t, env, "ann", false)
	token := login(t, env, "root")

	w := performJSON(t, env.router, http.MethodGet, "/admin/accounts/users?page=1&size=1", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var page types.ListResponse[models.User]
	decode(t, w, &page)
	assert.Equal(t, int64(2), page.Count)
	assert.Equal(t, 1, page.Size)
	assert.Len(t, page.Results, 1)

	w = performJSON(t, env.router, http.MethodGet, fmt.Sprintf("/admin/accounts/users/%d", ann.ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.User
	decode(t, w, &got)
	assert.Equal(t, "ann@example.com", got.Email)

	assert.Equal(t, http.StatusNotFound, performJSON(t, env.router, http.MethodGet, "/admin/accounts/users/999", nil, token).Code)
	assert.Equal(t, http.StatusBadRequest, performJSON(t, env.router, http.MethodGet, "/admin/accounts/users/abc", nil, token).Code)
	assert.Equal(t, http.StatusBadRequest, performJSON(t, env.router, http.MethodGet, "/admin/accounts/users?size=-1", nil, token).Code)
}

func TestAdminUpdateUser(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	createAccount(t, env, "root", true)
	ann := createAccount(t, env, "ann", false)
	token := login(t, env, "root")

	w := performJSON(t, env.router, http.MethodPatch, fmt.Sprintf("/admin/accounts/users/%d", ann.ID), map[string]any{
		"first_name": "Anne",
		"email":      "Anne@EXAMPLE.com",
		"role":       1,
		"is_active":  true,
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := env.users.GetByID(context.Background(), ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anne", stored.FirstName)
	assert.Equal(t, "Anne@example.com", stored.Email)
	assert.Equal(t, models.RoleRestaurant, *stored.Role)
	assert.True(t, stored.IsActive)
	assert.Equal(t, ann.DateJoined.Unix(), stored.DateJoined.Unix())

	var profiles int64
	require.NoError(t, env.db.Model(&models.UserProfile{}).Where("user_id = ?", ann.ID).Count(&profiles).Error)
	assert.Equal(t, int64(1), profiles)

	w = performJSON(t, env.router, http.MethodPatch, fmt.Sprintf("/admin/accounts/users/%d", ann.ID), map[string]any{"role": 3}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performJSON(t, env.router, http.MethodPatch, fmt.Sprintf("/admin/accounts/users/%d", ann.ID), map[string]any{"username": "root"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminStaffWithoutPermissionIsReadOnly(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	staff := createAccount(t, env, "staff", false)
	makeStaff(t, env, staff)
	token := login(t, env, "staff")

	assert.Equal(t, http.StatusOK, performJSON(t, env.router, http.MethodGet, "/admin/accounts/users", nil, token).Code)

	w := performJSON(t, env.router, http.MethodPatch, fmt.Sprintf("/admin/accounts/users/%d", staff.ID), map[string]any{"is_admin": true}, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminProfiles(t *testing.T) {
	media := new(mocks.MockMediaStore)
	env := newTestEnv(t, media, nil)
	createAccount(t, env, "root", true)
	ann := createAccount(t, env, "ann", false)
	token := login(t, env, "root")

	profile, err := env.profiles.GetByUser(context.Background(), ann.ID)
	require.NoError(t, err)
	path := fmt.Sprintf("/admin/accounts/profiles/%d", profile.ID)

	w := performJSON(t, env.router, http.MethodPatch, path, map[string]any{"city": "Pune", "pin_code": "411001"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp types.ProfileResponse
	decode(t, w, &resp)
	assert.Equal(t, "Pune", *resp.City)
	assert.Empty(t, resp.ProfilePictureURL)

	w = performJSON(t, env.router, http.MethodPatch, path, map[string]any{"pin_code": "1234567"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performJSON(t, env.router, http.MethodGet, "/admin/accounts/profiles", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var page types.ListResponse[types.ProfileResponse]
	decode(t, w, &page)
	assert.Equal(t, int64(2), page.Count)
}

func TestAdminUploadProfilePicture(t *testing.T) {
	media := new(mocks.MockMediaStore)
	env := newTestEnv(t, media, nil)
	createAccount(t, env, "root", true)
	ann := createAccount(t, env, "ann", false)
	token := login(t, env, "root")

	profile, err := env.profiles.GetByUser(context.Background(), ann.ID)
	require.NoError(t, err)

	media.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "users/profile_pictures/") && strings.HasSuffix(key, ".jpg")
	}), "image/jpeg", mock.Anything).Return(nil).Once()
	media.On("URL", mock.Anything, mock.Anything).Return("https://media.example.com/signed", nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="image"; filename="me.jpg"`}
	header["Content-Type"] = []string{"image/jpeg"}
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/admin/accounts/profiles/%d/profile-picture", profile.ID), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp types.ProfileResponse
	decode(t, w, &resp)
	require.NotNil(t, resp.ProfilePicture)
	assert.Equal(t, "https://media.example.com/signed", resp.ProfilePictureURL)
	assert.Empty(t, resp.CoverPhotoURL)
	media.AssertExpectations(t)
}

func TestAdminUploadWithoutMediaStore(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	createAccount(t, env, "root", true)
	ann := createAccount(t, env, "ann", false)
	token := login(t, env, "root")

	profile, err := env.profiles.GetByUser(context.Background(), ann.ID)
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "me.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("png"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/admin/accounts/profiles/%d/cover-photo", profile.ID), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func uploadRequest(t *testing.T, path, token string, size int) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "big.png")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{'x'}, size))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAdminUploadTooLarge(t *testing.T) {
	media := new(mocks.MockMediaStore)
	env := newTestEnv(t, media, nil)
	createAccount(t, env, "root", true)
	ann := createAccount(t, env, "ann", false)
	token := login(t, env, "root")

	profile, err := env.profiles.GetByUser(context.Background(), ann.ID)
	require.NoError(t, err)
	path := fmt.Sprintf("/admin/accounts/profiles/%d/cover-photo", profile.ID)

	for name, size := range map[string]int{
		"just over the limit": maxImageSize + 10,
		"well over the limit": 6 << 20,
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, uploadRequest(t, path, token, size))
			assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), "image is too large")
		})
	}
	media.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminGetUserProfile(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	createAccount(t, env, "root", true)
	ann := createAccount(t, env, "ann", false)
	token := login(t, env, "root")

	w := performJSON(t, env.router, http.MethodGet, fmt.Sprintf("/admin/accounts/users/%d/profile", ann.ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp types.ProfileResponse
	decode(t, w, &resp)
	require.NotNil(t, resp.UserID)
	assert.Equal(t, ann.ID, *resp.UserID)
	require.NotNil(t, resp.User)
	assert.Equal(t, "ann@example.com", resp.User.Email)

	w = performJSON(t, env.router, http.MethodGet, "/admin/accounts/users/999/profile", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
