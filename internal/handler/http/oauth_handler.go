// File: internal/handler/http/oauth_handler.go
package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TaK0JR/ABK-Review-Dashboard/internal/config"
	domainErrors "github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/errors"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/models"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/handler/http/middleware"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/service"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/utils/metrics"
)

const oauthStateCookie = "oauth_state"

// OAuthHandler serves the browser-navigated OAuth routes. These are full
// page redirects, so every outcome is communicated back to the dashboard
// as a query parameter on the connections page rather than a JSON body.
type OAuthHandler struct {
	cfg    *config.Config
	logger *zap.Logger
	oauth  *service.OAuthService
}

func NewOAuthHandler(cfg *config.Config, logger *zap.Logger, oauth *service.OAuthService) *OAuthHandler {
	return &OAuthHandler{
		cfg:    cfg,
		logger: logger.Named("oauth_handler"),
		oauth:  oauth,
	}
}

// signState binds the state value to this browser. The cookie carries
// hex(HMAC-SHA256(state)) + ":" + state; the callback recomputes the MAC
// before trusting the state at all.
func (h *OAuthHandler) signState(state string) string {
	mac := hmac.New(sha256.New, []byte(h.cfg.JWT.StateSecret))
	mac.Write([]byte(state))
	return hex.EncodeToString(mac.Sum(nil)) + ":" + state
}

func (h *OAuthHandler) verifyStateCookie(cookie, state string) bool {
	sig, cookieState, found := strings.Cut(cookie, ":")
	if !found || cookieState != state {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.cfg.JWT.StateSecret))
	mac.Write([]byte(cookieState))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(sig), []byte(expected))
}

func (h *OAuthHandler) redirectError(c *gin.Context, provider models.Provider, code string) {
	metrics.OAuthCallbacksTotal.WithLabelValues(string(provider), "failure").Inc()
	c.Redirect(http.StatusFound, h.cfg.App.ConnectionsURL+"?error="+code)
}

// Initiate handles GET /api/oauth/<provider>.
func (h *OAuthHandler) Initiate(provider models.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.ClaimsFromContext(c)
		if claims == nil {
			c.Redirect(http.StatusFound, h.cfg.App.LoginURL)
			return
		}

		authURL, state, err := h.oauth.Initiate(c.Request.Context(), claims.UserID, provider)
		if err != nil {
			h.logger.Error("failed to initiate oauth flow",
				zap.String("provider", string(provider)), zap.Error(err))
			h.redirectError(c, provider, "connection_failed")
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(oauthStateCookie, h.signState(state), int(h.cfg.JWT.OAuthStateTTL.Seconds()), "/", "", false, true)
		c.Redirect(http.StatusFound, authURL)
	}
}

// Callback handles GET /api/oauth/<provider>/callback. The state cookie
// must match the state query parameter before the service is consulted.
func (h *OAuthHandler) Callback(provider models.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.ClaimsFromContext(c)
		if claims == nil {
			c.Redirect(http.StatusFound, h.cfg.App.LoginURL)
			return
		}

		code := c.Query("code")
		state := c.Query("state")

		cookie, err := c.Cookie(oauthStateCookie)
		if err != nil || !h.verifyStateCookie(cookie, state) {
			h.logger.Warn("oauth state cookie mismatch",
				zap.String("provider", string(provider)), zap.Int64("user_id", claims.UserID))
			h.redirectError(c, provider, "invalid_state")
			return
		}
		// Single use.
		c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

		if code == "" {
			h.redirectError(c, provider, "no_code")
			return
		}

		err = h.oauth.HandleCallback(c.Request.Context(), claims.UserID, provider, code, state)
		switch {
		case err == nil:
			metrics.OAuthCallbacksTotal.WithLabelValues(string(provider), "success").Inc()
			c.Redirect(http.StatusFound, h.cfg.App.ConnectionsURL+"?success="+string(provider)+"_connected")
		case errors.Is(err, domainErrors.ErrStateMismatch):
			h.redirectError(c, provider, "invalid_state")
		case errors.Is(err, domainErrors.ErrNoAuthCode):
			h.redirectError(c, provider, "no_code")
		case errors.Is(err, domainErrors.ErrProvider):
			h.logger.Error("oauth provider error",
				zap.String("provider", string(provider)), zap.Error(err))
			h.redirectError(c, provider, "oauth_failed")
		default:
			h.logger.Error("oauth callback failed",
				zap.String("provider", string(provider)), zap.Error(err))
			h.redirectError(c, provider, "connection_failed")
		}
	}
}
