// File: internal/handler/http/connection_handler.go
package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TaK0JR/ABK-Review-Dashboard/internal/handler/http/middleware"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/service"
)

// ConnectionHandler serves the platform-connection endpoints. Every route
// runs behind the auth middleware and operates only on the caller's rows.
type ConnectionHandler struct {
	logger      *zap.Logger
	connections *service.ConnectionService
}

func NewConnectionHandler(logger *zap.Logger, connections *service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{
		logger:      logger.Named("connection_handler"),
		connections: connections,
	}
}

func (h *ConnectionHandler) userID(c *gin.Context) (int64, bool) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return 0, false
	}
	return claims.UserID, true
}

func connectionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid connection id")
		return 0, false
	}
	return id, true
}

// List handles GET /api/platform-connections. Token columns never appear
// in the response.
func (h *ConnectionHandler) List(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	conns, err := h.connections.List(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "connections": conns})
}

// Sync handles POST /api/platform-connections/:id/sync.
func (h *ConnectionHandler) Sync(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := connectionID(c)
	if !ok {
		return
	}

	count, err := h.connections.Sync(c.Request.Context(), userID, id)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Sync completed",
		"items_synced": count,
	})
}

// RefreshToken handles POST /api/platform-connections/:id/refresh-token.
func (h *ConnectionHandler) RefreshToken(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := connectionID(c)
	if !ok {
		return
	}

	expiresAt, err := h.connections.RefreshToken(c.Request.Context(), userID, id)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Token refreshed",
		"expires_at": expiresAt,
	})
}

// Delete handles DELETE /api/platform-connections/:id.
func (h *ConnectionHandler) Delete(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := connectionID(c)
	if !ok {
		return
	}

	if err := h.connections.Delete(c.Request.Context(), userID, id); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Connection removed"})
}
