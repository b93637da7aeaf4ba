// File: internal/service/provider_google.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/TaK0JR/ABK-Review-Dashboard/internal/config"
	domainErrors "github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/errors"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/models"
)

const (
	defaultGoogleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	defaultGoogleBusinessURL = "https://mybusinessaccountmanagement.googleapis.com/v1/accounts"
)

// GoogleBusinessProvider connects Google Business profiles. Google issues
// real refresh tokens and explicit expiries, unlike the Facebook flows.
type GoogleBusinessProvider struct {
	oauth       *oauth2.Config
	client      *http.Client
	userinfoURL string
	businessURL string
}

func NewGoogleBusinessProvider(cfg config.OAuthProviderConfig) *GoogleBusinessProvider {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{
			"https://www.googleapis.com/auth/business.manage",
			"openid", "email", "profile",
		}
	}
	return &GoogleBusinessProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		},
		client:      newProviderHTTPClient(),
		userinfoURL: defaultGoogleUserinfoURL,
		businessURL: defaultGoogleBusinessURL,
	}
}

func (p *GoogleBusinessProvider) Name() models.Provider { return models.ProviderGoogleBusiness }

// AuthCodeURL requests offline access and forced consent so Google issues
// a refresh token on every authorization.
func (p *GoogleBusinessProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

func (p *GoogleBusinessProvider) Exchange(ctx context.Context, code string) (*models.ProviderToken, error) {
	token, err := exchangeCode(ctx, p.oauth, p.client, code)
	if err != nil {
		return nil, err
	}
	out := &models.ProviderToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		out.ExpiresAt = &expiry
	}
	return out, nil
}

type googleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type googleBusinessAccounts struct {
	Accounts []json.RawMessage `json:"accounts"`
}

func (p *GoogleBusinessProvider) FetchAccounts(ctx context.Context, token *models.ProviderToken) ([]models.ProviderAccount, error) {
	authed := p.authedClient(ctx, token.AccessToken)

	var profile googleProfile
	if err := getJSON(ctx, authed, p.userinfoURL, &profile); err != nil {
		return nil, err
	}

	var business googleBusinessAccounts
	if err := getJSON(ctx, authed, p.businessURL, &business); err != nil {
		return nil, err
	}

	accountName := profile.Name
	if accountName == "" {
		accountName = profile.Email
	}
	if accountName == "" {
		accountName = "Google account"
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("%w: userinfo response missing id", domainErrors.ErrProvider)
	}

	data, err := json.Marshal(models.GoogleAccountData{
		Email:            profile.Email,
		Name:             profile.Name,
		Picture:          profile.Picture,
		BusinessAccounts: business.Accounts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode account data: %w", err)
	}

	return []models.ProviderAccount{{
		AccountID:   profile.ID,
		AccountName: accountName,
		Token:       *token,
		Permissions: scopesJSON(p.oauth.Scopes),
		AccountData: data,
	}}, nil
}

// Refresh runs the refresh-token grant. Google usually omits the refresh
// token from the response, in which case the stored one stays in place.
func (p *GoogleBusinessProvider) Refresh(ctx context.Context, refreshToken string) (*models.ProviderToken, error) {
	source := p.oauth.TokenSource(withProviderClient(ctx, p.client),
		&oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: token refresh failed: %v", domainErrors.ErrProvider, err)
	}
	out := &models.ProviderToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		out.ExpiresAt = &expiry
	}
	return out, nil
}

func (p *GoogleBusinessProvider) Sync(ctx context.Context, conn *models.PlatformConnection, accessToken string) (int, error) {
	var business googleBusinessAccounts
	if err := getJSON(ctx, p.authedClient(ctx, accessToken), p.businessURL, &business); err != nil {
		return 0, err
	}
	return len(business.Accounts), nil
}

func (p *GoogleBusinessProvider) authedClient(ctx context.Context, accessToken string) *http.Client {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	return oauth2.NewClient(withProviderClient(ctx, p.client), source)
}
