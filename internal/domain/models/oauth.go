// File: internal/domain/models/oauth.go
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// OAuthState is the server-side record of an in-flight OAuth redirect,
// stored under the random state value until the callback consumes it.
type OAuthState struct {
	UserID   int64    `json:"user_id"`
	Provider Provider `json:"provider"`
}

// ProviderToken is the plaintext token set returned by a provider's token
// endpoint. RefreshToken is empty when the provider does not issue one.
type ProviderToken struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
}

// ProviderAccount is one manageable account discovered during a callback.
// A single authorization can fan out into several of these (e.g. one per
// Facebook page).
type ProviderAccount struct {
	AccountID   string
	AccountName string
	Token       ProviderToken
	Permissions json.RawMessage
	AccountData json.RawMessage
}

// Per-provider account_data shapes. Each is decoded/encoded at the
// OAuth-client boundary; nothing downstream inspects raw provider JSON.

type FacebookPageData struct {
	PageID   string `json:"page_id"`
	PageName string `json:"page_name"`
	FanCount *int64 `json:"fan_count"`
	UserName string `json:"user_name,omitempty"`
	UserID   string `json:"user_id,omitempty"`
}

type GoogleAccountData struct {
	Email            string            `json:"email,omitempty"`
	Name             string            `json:"name,omitempty"`
	Picture          string            `json:"picture,omitempty"`
	BusinessAccounts []json.RawMessage `json:"business_accounts"`
}

type InstagramAccountData struct {
	InstagramID      string `json:"instagram_id"`
	Username         string `json:"username,omitempty"`
	Name             string `json:"name,omitempty"`
	FollowersCount   int64  `json:"followers_count"`
	MediaCount       int64  `json:"media_count"`
	ProfilePicture   string `json:"profile_picture,omitempty"`
	FacebookPageID   string `json:"facebook_page_id"`
	FacebookPageName string `json:"facebook_page_name"`
}

// DecodeAccountData parses a stored account_data blob into its typed,
// provider-specific shape.
func DecodeAccountData(provider Provider, raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	switch provider {
	case ProviderFacebook:
		var d FacebookPageData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode facebook account data: %w", err)
		}
		return &d, nil
	case ProviderGoogleBusiness:
		var d GoogleAccountData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode google account data: %w", err)
		}
		return &d, nil
	case ProviderInstagram:
		var d InstagramAccountData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode instagram account data: %w", err)
		}
		return &d, nil
	}
	return nil, fmt.Errorf("no account data shape for provider %q", provider)
}
