// File: internal/handler/http/response.go
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/errors"
)

// The dashboard expects the original wire shape: {success, message, ...}.

func respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"success": false, "message": message})
}

// respondDomainError maps a domain error to its HTTP status without
// leaking internal detail for unexpected failures.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		respondError(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, domainErrors.ErrEmailExists):
		respondError(c, http.StatusConflict, "Email already in use")
	case errors.Is(err, domainErrors.ErrConnectionDisabled):
		respondError(c, http.StatusBadRequest, "Connection is disabled")
	case errors.Is(err, domainErrors.ErrRefreshUnsupported):
		respondError(c, http.StatusBadRequest, "Token refresh is not supported for this platform")
	case errors.Is(err, domainErrors.ErrProviderNotFound):
		respondError(c, http.StatusBadRequest, "Unsupported platform")
	case errors.Is(err, domainErrors.ErrProvider):
		respondError(c, http.StatusBadGateway, "Platform request failed")
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
