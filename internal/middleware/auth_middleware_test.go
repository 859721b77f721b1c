package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lexxo/lexxo-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func issueToken(t *testing.T, role string, expiry time.Duration) string {
	t.Helper()

	token, err := util.GenerateToken(1, "test@example.com", role, testSecret, expiry)
	require.NoError(t, err)
	return token
}

func setupAuthMiddlewareTest() (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)

	m := NewAuthMiddleware(testSecret)
	router := gin.New()

	router.GET("/protected", m.Authenticate(), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		email, _ := GetUserEmail(c)
		role, _ := GetUserRole(c)
		c.JSON(200, gin.H{"user_id": userID, "email": email, "role": role})
	})

	router.GET("/optional", m.OptionalAuthenticate(), func(c *gin.Context) {
		userID, authenticated := GetUserID(c)
		c.JSON(200, gin.H{"user_id": userID, "authenticated": authenticated})
	})

	router.GET("/admin", m.Authenticate(), m.RequireRole("admin"), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	return router, m
}

func TestAuthenticate_CookieToken(t *testing.T) {
	router, _ := setupAuthMiddlewareTest()
	token := issueToken(t, "user", time.Hour)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test@example.com")
}

func TestAuthenticate_BearerFallback(t *testing.T) {
	router, _ := setupAuthMiddlewareTest()
	token := issueToken(t, "user", time.Hour)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticate_MissingToken(t *testing.T) {
	router, _ := setupAuthMiddlewareTest()

	req := httptest.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	router, _ := setupAuthMiddlewareTest()

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "garbage token",
			token: "not-a-jwt",
		},
		{
			name:  "wrongly signed token",
			token: mustSign(t, "other-secret"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.token})
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func mustSign(t *testing.T, secret string) string {
	t.Helper()

	token, err := util.GenerateToken(1, "test@example.com", "user", secret, time.Hour)
	require.NoError(t, err)
	return token
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	router, _ := setupAuthMiddlewareTest()
	token := issueToken(t, "user", -time.Minute)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_TOKEN_EXPIRED")
}

func TestOptionalAuthenticate(t *testing.T) {
	router, _ := setupAuthMiddlewareTest()

	// Guest passes through
	req := httptest.NewRequest("GET", "/optional", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	// Valid session is picked up
	req = httptest.NewRequest("GET", "/optional", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: issueToken(t, "user", time.Hour)})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)

	// Bad token degrades to guest rather than failing
	req = httptest.NewRequest("GET", "/optional", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "broken"})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}

func TestRequireRole(t *testing.T) {
	router, _ := setupAuthMiddlewareTest()

	// Admin gets in
	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: issueToken(t, "admin", time.Hour)})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Regular user is rejected
	req = httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: issueToken(t, "user", time.Hour)})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
