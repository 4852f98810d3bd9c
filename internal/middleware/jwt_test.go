package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haanng/pulse-survey/internal/utils"
)

const testSecret = "middleware-test-secret"

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func request(t *testing.T, mw echo.MiddlewareFunc, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(okHandler)(c)
	require.NoError(t, err)
	return rec
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec := request(t, JWTAuth(testSecret), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMalformedHeader(t *testing.T) {
	rec := request(t, JWTAuth(testSecret), "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthInvalidToken(t *testing.T) {
	rec := request(t, JWTAuth(testSecret), "Bearer not.a.jwt")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("another-secret", 1, "EMP001", false, true, 1)
	require.NoError(t, err)

	rec := request(t, JWTAuth(testSecret), "Bearer "+tok.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestJWTAuthSetsClaims(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, "EMP007", true, true, 1)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err = JWTAuth(testSecret)(func(c echo.Context) error {
		assert.Equal(t, float64(7), c.Get("user_id"))
		assert.Equal(t, "EMP007", c.Get("employee_id"))
		assert.Equal(t, true, c.Get("is_admin"))
		assert.Equal(t, true, c.Get("is_active"))
		return c.NoContent(http.StatusOK)
	})(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func guardRequest(t *testing.T, mw echo.MiddlewareFunc, isAdmin, isActive any) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if isAdmin != nil {
		c.Set("is_admin", isAdmin)
	}
	if isActive != nil {
		c.Set("is_active", isActive)
	}
	err := mw(okHandler)(c)
	require.NoError(t, err)
	return rec
}

func TestRequireAdmin(t *testing.T) {
	assert.Equal(t, http.StatusOK, guardRequest(t, RequireAdmin(), true, true).Code)
	assert.Equal(t, http.StatusForbidden, guardRequest(t, RequireAdmin(), false, true).Code)
	assert.Equal(t, http.StatusForbidden, guardRequest(t, RequireAdmin(), nil, nil).Code)
}

func TestRequireActive(t *testing.T) {
	assert.Equal(t, http.StatusOK, guardRequest(t, RequireActive(), false, true).Code)
	assert.Equal(t, http.StatusForbidden, guardRequest(t, RequireActive(), false, false).Code)
	assert.Equal(t, http.StatusForbidden, guardRequest(t, RequireActive(), nil, nil).Code)
	// deactivated admins keep access
	assert.Equal(t, http.StatusOK, guardRequest(t, RequireActive(), true, false).Code)
}
