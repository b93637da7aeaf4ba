// File: internal/service/provider_instagram.go
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

// InstagramProvider connects Instagram business accounts. Instagram has no
// OAuth of its own here: authorization goes through Facebook Login, and
// accounts are discovered via the pages each page links to.
type InstagramProvider struct {
	oauth        *oauth2.Config
	client       *http.Client
	graphBaseURL string
}

func NewInstagramProvider(cfg config.OAuthProviderConfig) *InstagramProvider {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{
			"instagram_basic", "instagram_manage_insights",
			"pages_show_list", "pages_read_engagement", "business_management",
		}
	}
	return &InstagramProvider{
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

func (p *InstagramProvider) Name() models.Provider { return models.ProviderInstagram }

func (p *InstagramProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

func (p *InstagramProvider) Exchange(ctx context.Context, code string) (*models.ProviderToken, error) {
	token, err := exchangeCode(ctx, p.oauth, p.client, code)
	if err != nil {
		return nil, err
	}
	return &models.ProviderToken{AccessToken: token.AccessToken}, nil
}

type instagramPage struct {
	ID                       string `json:"id"`
	Name                     string `json:"name"`
	AccessToken              string `json:"access_token"`
	InstagramBusinessAccount *struct {
		ID string `json:"id"`
	} `json:"instagram_business_account"`
}

type instagramPageList struct {
	Data []instagramPage `json:"data"`
}

type instagramAccountInfo struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Name              string `json:"name"`
	FollowersCount    int64  `json:"followers_count"`
	MediaCount        int64  `json:"media_count"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

func (p *InstagramProvider) FetchAccounts(ctx context.Context, token *models.ProviderToken) ([]models.ProviderAccount, error) {
	var pages instagramPageList
	pagesURL := fmt.Sprintf("%s/me/accounts?fields=id,name,instagram_business_account,access_token&access_token=%s",
		p.graphBaseURL, url.QueryEscape(token.AccessToken))
	if err := getJSON(ctx, p.client, pagesURL, &pages); err != nil {
		return nil, err
	}
	if len(pages.Data) == 0 {
		return nil, fmt.Errorf("%w: no facebook pages found", domainErrors.ErrProvider)
	}

	var accounts []models.ProviderAccount
	for _, page := range pages.Data {
		if page.InstagramBusinessAccount == nil {
			continue
		}
		igID := page.InstagramBusinessAccount.ID

		var info instagramAccountInfo
		infoURL := fmt.Sprintf("%s/%s?fields=id,username,name,followers_count,media_count,profile_picture_url&access_token=%s",
			p.graphBaseURL, url.PathEscape(igID), url.QueryEscape(page.AccessToken))
		if err := getJSON(ctx, p.client, infoURL, &info); err != nil {
			return nil, err
		}
		if info.ID == "" {
			continue
		}

		accountName := info.Username
		if accountName == "" {
			accountName = info.Name
		}
		if accountName == "" {
			accountName = "Instagram account"
		}

		data, err := json.Marshal(models.InstagramAccountData{
			InstagramID:      info.ID,
			Username:         info.Username,
			Name:             info.Name,
			FollowersCount:   info.FollowersCount,
			MediaCount:       info.MediaCount,
			ProfilePicture:   info.ProfilePictureURL,
			FacebookPageID:   page.ID,
			FacebookPageName: page.Name,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to encode account data: %w", err)
		}

		expiry := time.Now().Add(pageTokenLifetime)
		accounts = append(accounts, models.ProviderAccount{
			AccountID:   info.ID,
			AccountName: accountName,
			Token: models.ProviderToken{
				AccessToken: page.AccessToken,
				ExpiresAt:   &expiry,
			},
			Permissions: scopesJSON(p.oauth.Scopes),
			AccountData: data,
		})
	}
	return accounts, nil
}

// Refresh is not available: Instagram page tokens have no refresh grant in
// this flow; re-connecting is the only renewal path.
func (p *InstagramProvider) Refresh(ctx context.Context, refreshToken string) (*models.ProviderToken, error) {
	return nil, domainErrors.ErrRefreshUnsupported
}

type instagramMediaList struct {
	Data []json.RawMessage `json:"data"`
}

func (p *InstagramProvider) Sync(ctx context.Context, conn *models.PlatformConnection, accessToken string) (int, error) {
	mediaURL := fmt.Sprintf("%s/%s/media?fields=id,caption,media_type,timestamp&access_token=%s",
		p.graphBaseURL, url.PathEscape(conn.AccountID), url.QueryEscape(accessToken))
	var media instagramMediaList
	if err := getJSON(ctx, p.client, mediaURL, &media); err != nil {
		return 0, err
	}
	return len(media.Data), nil
}
