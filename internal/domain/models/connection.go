// File: internal/domain/models/connection.go
package models

import (
	"encoding/json"
	"time"
)

// Provider identifies a supported social/business platform.
type Provider string

const (
	ProviderGoogleBusiness Provider = "google_business"
	ProviderFacebook       Provider = "facebook"
	ProviderInstagram      Provider = "instagram"
	ProviderTwitter        Provider = "twitter"
	ProviderLinkedIn       Provider = "linkedin"
)

// Valid reports whether p is one of the known providers.
func (p Provider) Valid() bool {
	switch p {
	case ProviderGoogleBusiness, ProviderFacebook, ProviderInstagram,
		ProviderTwitter, ProviderLinkedIn:
		return true
	}
	return false
}

// PlatformConnection is one stored link between a dashboard user and a
// third-party account. AccessToken and RefreshToken hold ciphertext; the
// plaintext only ever exists in memory inside the service layer.
type PlatformConnection struct {
	ID             int64
	UserID         int64
	Provider       Provider
	AccountName    string
	AccountID      string
	AccessToken    string
	RefreshToken   *string
	TokenExpiresAt *time.Time
	Permissions    json.RawMessage
	AccountData    json.RawMessage
	IsActive       bool
	LastSyncAt     *time.Time
	LastError      *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ConnectionDTO is the wire shape for connection listings. Token columns
// are deliberately absent.
type ConnectionDTO struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	Provider       Provider        `json:"platform"`
	AccountName    string          `json:"account_name"`
	AccountID      string          `json:"account_id"`
	TokenExpiresAt *time.Time      `json:"token_expires_at"`
	Permissions    json.RawMessage `json:"permissions"`
	AccountData    json.RawMessage `json:"account_data"`
	IsActive       bool            `json:"is_active"`
	LastSyncAt     *time.Time      `json:"last_sync_at"`
	LastError      *string         `json:"last_error"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// DTO strips credentials and normalizes nullable JSON columns for callers
// outside the trust boundary.
func (c *PlatformConnection) DTO() ConnectionDTO {
	permissions := c.Permissions
	if len(permissions) == 0 {
		permissions = json.RawMessage("null")
	}
	accountData := c.AccountData
	if len(accountData) == 0 {
		accountData = json.RawMessage("null")
	}
	return ConnectionDTO{
		ID:             c.ID,
		UserID:         c.UserID,
		Provider:       c.Provider,
		AccountName:    c.AccountName,
		AccountID:      c.AccountID,
		TokenExpiresAt: c.TokenExpiresAt,
		Permissions:    permissions,
		AccountData:    accountData,
		IsActive:       c.IsActive,
		LastSyncAt:     c.LastSyncAt,
		LastError:      c.LastError,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
