package httpapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/formtrack"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	api := newTestAPI(t, 30*time.Minute)

	resp := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", res.Result["status"])
}

func TestLoginReturnsTokenAndPermissions(t *testing.T) {
	api := newTestAPI(t, 30*time.Minute)

	resp := api.do(http.MethodPost, "/api/v1/auth/login", "", loginRequest{Username: "violations_officer", Password: "violations123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[map[string]any](t, resp)
	assert.Equal(t, ResultSuccess, res.Code)
	assert.NotEmpty(t, res.Result["token"])
	assert.Equal(t, domain.RoleNames[domain.RoleViolationEntry], res.Result["roleName"])

	perms, ok := res.Result["permissions"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, perms["canAddViolation"])
	assert.Equal(t, false, perms["canDeleteViolation"])
	assert.Len(t, perms, len(domain.AllCapabilities))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	api := newTestAPI(t, 30*time.Minute)

	resp := api.do(http.MethodPost, "/api/v1/auth/login", "", loginRequest{Username: "admin", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	res := decode[any](t, resp)
	assert.Equal(t, ResultError, res.Code)
	assert.Equal(t, domain.KindAuth, res.Kind)
}

func TestLoginMethodNotAllowed(t *testing.T) {
	api := newTestAPI(t, 30*time.Minute)

	resp := api.do(http.MethodGet, "/api/v1/auth/login", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	api := newTestAPI(t, 30*time.Minute)

	resp := api.do(http.MethodGet, "/api/v1/stickers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	res := decode[any](t, resp)
	assert.Equal(t, ResultTokenExpired, res.Code)
}

func TestSessionTokenHeader(t *testing.T) {
	api := newTestAPI(t, 30*time.Minute)
	token := api.admin()

	req, err := http.NewRequest(http.MethodGet, api.server.URL+"/api/v1/auth/session", nil)
	require.NoError(t, err)
	req.Header.Set(HeaderSessionToken, token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[sessionView](t, resp)
	require.NotNil(t, res.Result.Session)
	assert.Equal(t, "admin", res.Result.Session.User.Username)
	assert.Empty(t, res.Result.Session.User.PasswordHash)
	assert.Equal(t, res.Result.Session.LastActivity.Add(30*time.Minute), res.Result.IdleExpiresAt)
}

func TestIdleSessionIsRejected(t *testing.T) {
	// any measurable idle time exceeds a one-nanosecond timeout
	api := newTestAPI(t, time.Nanosecond)
	token := api.admin()

	resp := api.do(http.MethodGet, "/api/v1/auth/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	res := decode[any](t, resp)
	assert.Equal(t, ResultTokenExpired, res.Code)
	assert.Equal(t, domain.KindAuth, res.Kind)
}

func TestLogoutEndsSessionAndDropsForms(t *testing.T) {
	api := newTestAPI(t, 30*time.Minute)
	token := api.admin()

	resp := api.do(http.MethodPost, "/api/v1/forms/profile", token, formValuesRequest{Values: formtrack.Values{"name": {"a"}}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, api.services.Forms.Len())

	resp = api.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, api.services.Forms.Len())

	resp = api.do(http.MethodGet, "/api/v1/auth/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSecondLoginReplacesFirstSession(t *testing.T) {
	api := newTestAPI(t, 30*time.Minute)
	first := api.admin()
	second := api.admin()

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/v1/auth/session", first, nil).StatusCode)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/auth/session", second, nil).StatusCode)
}

func TestPermissionsMatrix(t *testing.T) {
	api := newTestAPI(t, 30*time.Minute)
	token := api.inquirer()

	resp := api.do(http.MethodGet, "/api/v1/auth/permissions", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[map[string]any](t, resp)

	assert.Equal(t, string(domain.RoleInquiry), res.Result["role"])
	matrix, ok := res.Result["matrix"].(map[string]any)
	require.True(t, ok)
	admin, ok := matrix[string(domain.RoleAdmin)].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, admin["canManageSystem"])
	current, ok := res.Result["current"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, current["canExportData"])
	assert.Equal(t, false, current["canViewDashboard"])
}
