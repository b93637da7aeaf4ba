// File: internal/domain/interfaces/oauth_provider.go
package interfaces

import (
	"context"

	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/models"
)

// OAuthProvider abstracts one platform's OAuth flow and data access.
// There is one implementation per provider; the rest of the service is
// provider-agnostic.
type OAuthProvider interface {
	Name() models.Provider

	// AuthCodeURL builds the provider authorization URL for the given
	// CSRF state value.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for provider tokens. A missing
	// access_token in the provider response is a hard failure.
	Exchange(ctx context.Context, code string) (*models.ProviderToken, error)

	// FetchAccounts enumerates the manageable accounts this authorization
	// grants (pages, business accounts). Implementations with a
	// personal-profile fallback return it as a single-element slice.
	FetchAccounts(ctx context.Context, token *models.ProviderToken) ([]models.ProviderAccount, error)

	// Refresh obtains a fresh access token from a refresh token. Providers
	// without a refresh flow return ErrRefreshUnsupported.
	Refresh(ctx context.Context, refreshToken string) (*models.ProviderToken, error)

	// Sync pulls the connection's items (reviews, ratings, media) and
	// returns how many were seen.
	Sync(ctx context.Context, conn *models.PlatformConnection, accessToken string) (int, error)
}
