package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexbuy/backend/internal/models"
)

func (env *testEnv) register(name, email, password string) (*httptest.ResponseRecorder, error) {
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	return rec, env.Auth.Register(c)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	rec, err := env.register("Alice", "Alice@Example.com", "s3cret")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "alice@example.com", created.Email)
	require.Equal(t, "user", created.Role)
	require.NotEqual(t, "s3cret", created.PasswordHash)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "s3cret",
	})
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body["access_token"])
	require.NotEmpty(t, body["refresh_token"])
	require.Equal(t, false, body["is_admin"])

	cookies := rec.Result().Cookies()
	names := make(map[string]bool, len(cookies))
	for _, ck := range cookies {
		names[ck.Name] = true
	}
	require.True(t, names["accessToken"])
	require.True(t, names["refreshToken"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	rec, err := env.register("Alice", "alice@example.com", "s3cret")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, err = env.register("Other Alice", "ALICE@example.com", "different")
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec, err := env.register("", "alice@example.com", "s3cret")
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, err = env.register("Alice", "alice@example.com", "")
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.register("Alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	requireHTTPError(t, env.Auth.Login(c), http.StatusUnauthorized)

	_, c = env.doJSONRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "s3cret",
	})
	requireHTTPError(t, env.Auth.Login(c), http.StatusUnauthorized)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.register("Alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "s3cret",
	})
	require.NoError(t, env.Auth.Login(c))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	refresh := body["refresh_token"].(string)

	rec, c = env.doJSONRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	c.Request().AddCookie(&http.Cookie{Name: "refreshToken", Value: refresh})
	require.NoError(t, env.Auth.LogOut(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.RefreshToken
	require.NoError(t, env.DB.Where("token = ?", refresh).First(&stored).Error)
	require.True(t, stored.Revoked)
}
