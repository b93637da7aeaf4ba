// File: internal/service/oauth_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TaK0JR/ABK-Review-Dashboard/internal/config"
	domainErrors "github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/errors"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/interfaces"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/models"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/repository"
)

// OAuthService orchestrates the authorization-code dance: initiate mints
// and stores a CSRF state and hands back the provider redirect URL; the
// callback validates state, exchanges the code, discovers accounts and
// persists them.
type OAuthService struct {
	cfg         *config.Config
	logger      *zap.Logger
	providers   map[models.Provider]interfaces.OAuthProvider
	stateStore  repository.StateStore
	connections *ConnectionService
}

func NewOAuthService(
	cfg *config.Config,
	logger *zap.Logger,
	providers map[models.Provider]interfaces.OAuthProvider,
	stateStore repository.StateStore,
	connections *ConnectionService,
) *OAuthService {
	return &OAuthService{
		cfg:         cfg,
		logger:      logger.Named("oauth_service"),
		providers:   providers,
		stateStore:  stateStore,
		connections: connections,
	}
}

// Initiate starts a flow for the user and provider. It returns the
// provider authorization URL and the state value the handler must bind to
// the browser via the state cookie.
func (s *OAuthService) Initiate(ctx context.Context, userID int64, provider models.Provider) (authURL, state string, err error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", domainErrors.ErrProviderNotFound, provider)
	}

	state = uuid.NewString()
	flow := models.OAuthState{UserID: userID, Provider: provider}
	if err := s.stateStore.Save(ctx, state, flow, s.cfg.JWT.OAuthStateTTL); err != nil {
		return "", "", err
	}

	authURL = p.AuthCodeURL(state)
	s.logger.Info("oauth flow initiated",
		zap.Int64("user_id", userID), zap.String("provider", string(provider)))
	return authURL, state, nil
}

// HandleCallback completes a flow. The state must match a stored in-flight
// flow for this user and provider before any token exchange happens; a
// mismatch aborts with ErrStateMismatch and zero provider calls.
func (s *OAuthService) HandleCallback(ctx context.Context, userID int64, provider models.Provider, code, state string) error {
	p, ok := s.providers[provider]
	if !ok {
		return fmt.Errorf("%w: %s", domainErrors.ErrProviderNotFound, provider)
	}
	if code == "" {
		return domainErrors.ErrNoAuthCode
	}

	flow, err := s.stateStore.Consume(ctx, state)
	if err != nil {
		return err
	}
	if flow.UserID != userID || flow.Provider != provider {
		return domainErrors.ErrStateMismatch
	}

	started := time.Now()
	token, err := p.Exchange(ctx, code)
	if err != nil {
		return err
	}

	accounts, err := p.FetchAccounts(ctx, token)
	if err != nil {
		return err
	}

	if err := s.connections.SaveAccounts(ctx, userID, provider, accounts); err != nil {
		return err
	}

	s.logger.Info("oauth callback completed",
		zap.Int64("user_id", userID),
		zap.String("provider", string(provider)),
		zap.Int("accounts", len(accounts)),
		zap.Duration("elapsed", time.Since(started)))
	return nil
}
