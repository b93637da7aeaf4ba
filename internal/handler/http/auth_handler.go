// File: internal/handler/http/auth_handler.go
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TaK0JR/ABK-Review-Dashboard/internal/config"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/models"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/service"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/utils/metrics"
)

// AuthHandler serves the login endpoint and the admin-only user
// management surface.
type AuthHandler struct {
	cfg    *config.Config
	logger *zap.Logger
	auth   *service.AuthService
}

func NewAuthHandler(cfg *config.Config, logger *zap.Logger, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{
		cfg:    cfg,
		logger: logger.Named("auth_handler"),
		auth:   auth,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login. On success it returns the token in
// the body for API callers and also sets it as an HttpOnly cookie so the
// browser-navigated OAuth routes can authenticate.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		respondDomainError(c, err)
		return
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.JWT.CookieName, token, int(h.cfg.JWT.TTL.Seconds()), "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":           user.ID,
			"email":        user.Email,
			"full_name":    user.FullName,
			"company_name": user.CompanyName,
			"is_admin":     user.IsAdmin,
		},
	})
}

// CreateUser handles POST /api/auth/users (admin only).
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var input models.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid user payload")
		return
	}

	user, err := h.auth.CreateUser(c.Request.Context(), input)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}

// ListUsers handles GET /api/auth/users (admin only).
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.auth.ListUsers(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}
