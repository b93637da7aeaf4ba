// File: internal/handler/http/middleware/auth_middleware_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/models"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/infrastructure/security"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testToken(t *testing.T, svc *security.JWTService, isAdmin bool) string {
	t.Helper()
	token, err := svc.Issue(&models.User{ID: 42, Email: "u@example.com", IsAdmin: isAdmin})
	require.NoError(t, err)
	return token
}

func protectedRouter(svc *security.JWTService, extractors ...CredentialExtractor) *gin.Engine {
	router := gin.New()
	router.GET("/protected", Auth(svc, zap.NewNop(), extractors...), func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	})
	return router
}

func TestAuth_BearerToken(t *testing.T) {
	svc := security.NewJWTService("secret", time.Hour)
	router := protectedRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, svc, false))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":42`)
}

func TestAuth_MissingToken(t *testing.T) {
	svc := security.NewJWTService("secret", time.Hour)
	router := protectedRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestAuth_MalformedHeader(t *testing.T) {
	svc := security.NewJWTService("secret", time.Hour)
	router := protectedRouter(svc)

	for _, header := range []string{"Basic abc", "Bearer", testToken(t, svc, false)} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	svc := security.NewJWTService("secret", time.Hour)
	other := security.NewJWTService("different", time.Hour)
	router := protectedRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, other, false))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_CookieFallback(t *testing.T) {
	svc := security.NewJWTService("secret", time.Hour)
	router := protectedRouter(svc, BearerExtractor, CookieExtractor("abk_token"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "abk_token", Value: testToken(t, svc, false)})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	svc := security.NewJWTService("secret", time.Hour)
	router := gin.New()
	router.GET("/admin", Auth(svc, zap.NewNop()), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, svc, false))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, svc, true))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRedirect_SendsToLogin(t *testing.T) {
	svc := security.NewJWTService("secret", time.Hour)
	router := gin.New()
	router.GET("/api/oauth/facebook", AuthRedirect(svc, zap.NewNop(), "https://dashboard.example/login"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/oauth/facebook", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	location := w.Header().Get("Location")
	assert.Contains(t, location, "https://dashboard.example/login")
	assert.Contains(t, location, "redirect=")
}
