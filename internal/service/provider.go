// File: internal/service/provider.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	domainErrors "github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/errors"
)

// providerHTTPTimeout bounds every outbound call to a provider. The
// callback handler runs mid-redirect; a hanging provider must not stall
// the request indefinitely.
const providerHTTPTimeout = 15 * time.Second

// pageTokenLifetime is the lifetime assigned to Facebook/Instagram page
// tokens: the provider returns no explicit expiry for them in this flow,
// and 60 days is the documented page-token horizon.
const pageTokenLifetime = 60 * 24 * time.Hour

func newProviderHTTPClient() *http.Client {
	return &http.Client{Timeout: providerHTTPTimeout}
}

// withProviderClient makes oauth2 use the timeout-bounded client for token
// endpoint calls.
func withProviderClient(ctx context.Context, client *http.Client) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, client)
}

// getJSON fetches url and decodes the JSON body into out. Non-2xx
// responses surface as ErrProvider with the body's error message attached.
func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build provider request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: status %d: %s", domainErrors.ErrProvider, resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: malformed response: %v", domainErrors.ErrProvider, err)
	}
	return nil
}

func exchangeCode(ctx context.Context, cfg *oauth2.Config, client *http.Client, code string) (*oauth2.Token, error) {
	token, err := cfg.Exchange(withProviderClient(ctx, client), code)
	if err != nil {
		// Covers provider error payloads and responses missing access_token.
		return nil, fmt.Errorf("%w: code exchange failed: %v", domainErrors.ErrProvider, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access_token in token response", domainErrors.ErrProvider)
	}
	return token, nil
}
