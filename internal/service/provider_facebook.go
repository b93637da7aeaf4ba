// File: internal/service/provider_facebook.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"

	"github.com/TaK0JR/ABK-Review-Dashboard/internal/config"
	domainErrors "github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/errors"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/models"
)

const defaultGraphBaseURL = "https://graph.facebook.com/v18.0"

// FacebookProvider connects Facebook pages. One login can manage many
// pages; each becomes its own connection, and a user with no pages gets a
// single connection backed by their personal profile.
type FacebookProvider struct {
	oauth        *oauth2.Config
	client       *http.Client
	graphBaseURL string
}

func NewFacebookProvider(cfg config.OAuthProviderConfig) *FacebookProvider {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{
			"pages_show_list", "pages_read_engagement",
			"pages_manage_metadata", "pages_read_user_content",
		}
	}
	return &FacebookProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     facebook.Endpoint,
		},
		client:       newProviderHTTPClient(),
		graphBaseURL: defaultGraphBaseURL,
	}
}

func (p *FacebookProvider) Name() models.Provider { return models.ProviderFacebook }

func (p *FacebookProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

func (p *FacebookProvider) Exchange(ctx context.Context, code string) (*models.ProviderToken, error) {
	token, err := exchangeCode(ctx, p.oauth, p.client, code)
	if err != nil {
		return nil, err
	}
	return &models.ProviderToken{AccessToken: token.AccessToken}, nil
}

type facebookProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type facebookPage struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
	FanCount    *int64 `json:"fan_count"`
}

type facebookPageList struct {
	Data []facebookPage `json:"data"`
}

func (p *FacebookProvider) FetchAccounts(ctx context.Context, token *models.ProviderToken) ([]models.ProviderAccount, error) {
	var profile facebookProfile
	profileURL := fmt.Sprintf("%s/me?fields=id,name,email&access_token=%s",
		p.graphBaseURL, url.QueryEscape(token.AccessToken))
	if err := getJSON(ctx, p.client, profileURL, &profile); err != nil {
		return nil, err
	}

	var pages facebookPageList
	pagesURL := fmt.Sprintf("%s/me/accounts?fields=id,name,access_token,fan_count&access_token=%s",
		p.graphBaseURL, url.QueryEscape(token.AccessToken))
	if err := getJSON(ctx, p.client, pagesURL, &pages); err != nil {
		return nil, err
	}

	expiry := time.Now().Add(pageTokenLifetime)

	if len(pages.Data) == 0 {
		// No manageable pages: fall back to the personal profile as a
		// single connection carrying the user token.
		name := profile.Name
		if name == "" {
			name = "Facebook profile"
		}
		data, err := json.Marshal(models.FacebookPageData{
			PageID:   profile.ID,
			PageName: name,
			UserName: profile.Name,
			UserID:   profile.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to encode account data: %w", err)
		}
		return []models.ProviderAccount{{
			AccountID:   profile.ID,
			AccountName: name,
			Token: models.ProviderToken{
				AccessToken: token.AccessToken,
				ExpiresAt:   &expiry,
			},
			Permissions: scopesJSON(p.oauth.Scopes),
			AccountData: data,
		}}, nil
	}

	accounts := make([]models.ProviderAccount, 0, len(pages.Data))
	for _, page := range pages.Data {
		data, err := json.Marshal(models.FacebookPageData{
			PageID:   page.ID,
			PageName: page.Name,
			FanCount: page.FanCount,
			UserName: profile.Name,
			UserID:   profile.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to encode account data: %w", err)
		}
		pageExpiry := expiry
		accounts = append(accounts, models.ProviderAccount{
			AccountID:   page.ID,
			AccountName: page.Name,
			Token: models.ProviderToken{
				AccessToken: page.AccessToken,
				ExpiresAt:   &pageExpiry,
			},
			Permissions: scopesJSON(p.oauth.Scopes),
			AccountData: data,
		})
	}
	return accounts, nil
}

type facebookLongLivedToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Refresh exchanges the stored token for a fresh long-lived one
// (grant_type=fb_exchange_token); Facebook has no refresh-token grant.
func (p *FacebookProvider) Refresh(ctx context.Context, refreshToken string) (*models.ProviderToken, error) {
	exchangeURL := fmt.Sprintf(
		"%s/oauth/access_token?grant_type=fb_exchange_token&client_id=%s&client_secret=%s&fb_exchange_token=%s",
		p.graphBaseURL,
		url.QueryEscape(p.oauth.ClientID),
		url.QueryEscape(p.oauth.ClientSecret),
		url.QueryEscape(refreshToken),
	)
	var token facebookLongLivedToken
	if err := getJSON(ctx, p.client, exchangeURL, &token); err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access_token in exchange response", domainErrors.ErrProvider)
	}
	lifetime := pageTokenLifetime
	if token.ExpiresIn > 0 {
		lifetime = time.Duration(token.ExpiresIn) * time.Second
	}
	expiry := time.Now().Add(lifetime)
	return &models.ProviderToken{AccessToken: token.AccessToken, ExpiresAt: &expiry}, nil
}

type facebookRatingList struct {
	Data []json.RawMessage `json:"data"`
}

func (p *FacebookProvider) Sync(ctx context.Context, conn *models.PlatformConnection, accessToken string) (int, error) {
	ratingsURL := fmt.Sprintf("%s/%s/ratings?fields=created_time,rating,review_text,recommendation_type&access_token=%s",
		p.graphBaseURL, url.PathEscape(conn.AccountID), url.QueryEscape(accessToken))
	var ratings facebookRatingList
	if err := getJSON(ctx, p.client, ratingsURL, &ratings); err != nil {
		return 0, err
	}
	return len(ratings.Data), nil
}

func scopesJSON(scopes []string) json.RawMessage {
	data, err := json.Marshal(scopes)
	if err != nil {
		return nil
	}
	return data
}
