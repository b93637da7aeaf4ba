// File: internal/service/provider_google_test.go
package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TaK0JR/ABK-Review-Dashboard/internal/config"
	domainErrors "github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/errors"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/models"
)

func testGoogleProvider(serverURL string) *GoogleBusinessProvider {
	p := NewGoogleBusinessProvider(config.OAuthProviderConfig{
		ClientID:     "g-client",
		ClientSecret: "g-secret",
		RedirectURL:  "https://dashboard.example/api/oauth/google/business/callback",
	})
	p.userinfoURL = serverURL + "/userinfo"
	p.businessURL = serverURL + "/accounts"
	return p
}

// Offline access and forced consent are what make Google return a refresh
// token on every connect, not just the first one.
func TestGoogleBusinessProvider_AuthCodeURL(t *testing.T) {
	p := testGoogleProvider("http://unused")
	authURL := p.AuthCodeURL("state-xyz")

	assert.Contains(t, authURL, "access_type=offline")
	assert.Contains(t, authURL, "prompt=consent")
	assert.Contains(t, authURL, "state=state-xyz")
	assert.Contains(t, authURL, "business.manage")
}

func TestGoogleBusinessProvider_FetchAccounts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer g-access", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/userinfo":
			json.NewEncoder(w).Encode(googleProfile{ID: "g1", Email: "biz@example.com", Name: "Biz Owner"})
		case "/accounts":
			w.Write([]byte(`{"accounts":[{"name":"accounts/123"},{"name":"accounts/456"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	p := testGoogleProvider(server.URL)
	token := &models.ProviderToken{AccessToken: "g-access", RefreshToken: "g-refresh"}
	accounts, err := p.FetchAccounts(context.Background(), token)
	require.NoError(t, err)
	require.Len(t, accounts, 1)

	assert.Equal(t, "g1", accounts[0].AccountID)
	assert.Equal(t, "Biz Owner", accounts[0].AccountName)
	assert.Equal(t, "g-refresh", accounts[0].Token.RefreshToken)

	var data models.GoogleAccountData
	require.NoError(t, json.Unmarshal(accounts[0].AccountData, &data))
	assert.Equal(t, "biz@example.com", data.Email)
	assert.Len(t, data.BusinessAccounts, 2)
}

func TestGoogleBusinessProvider_FetchAccounts_MissingProfileID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/userinfo") {
			w.Write([]byte(`{}`))
			return
		}
		w.Write([]byte(`{"accounts":[]}`))
	}))
	defer server.Close()

	p := testGoogleProvider(server.URL)
	_, err := p.FetchAccounts(context.Background(), &models.ProviderToken{AccessToken: "g-access"})
	assert.ErrorIs(t, err, domainErrors.ErrProvider)
}

func TestGoogleBusinessProvider_Sync(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"accounts":[{"name":"accounts/123"}]}`))
	}))
	defer server.Close()

	p := testGoogleProvider(server.URL)
	count, err := p.Sync(context.Background(), &models.PlatformConnection{AccountID: "g1"}, "g-access")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
