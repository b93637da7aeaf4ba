// File: internal/service/connection_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	domainErrors "github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/errors"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/interfaces"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/models"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/repository"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/events/kafka"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/infrastructure/security"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/utils/metrics"
)

// ConnectionService owns the platform-connection lifecycle: listing,
// persisting callback results, sync, token refresh and disconnect.
// Plaintext provider tokens exist only inside this service; everything at
// rest and on the wire is ciphertext or omitted.
type ConnectionService struct {
	logger       *zap.Logger
	connRepo     repository.ConnectionRepository
	activityRepo repository.ActivityLogRepository
	cipher       *security.TokenCipher
	providers    map[models.Provider]interfaces.OAuthProvider
	producer     *kafka.Producer
}

func NewConnectionService(
	logger *zap.Logger,
	connRepo repository.ConnectionRepository,
	activityRepo repository.ActivityLogRepository,
	cipher *security.TokenCipher,
	providers map[models.Provider]interfaces.OAuthProvider,
	producer *kafka.Producer,
) *ConnectionService {
	return &ConnectionService{
		logger:       logger.Named("connection_service"),
		connRepo:     connRepo,
		activityRepo: activityRepo,
		cipher:       cipher,
		providers:    providers,
		producer:     producer,
	}
}

// List returns the caller's connections with token columns stripped.
func (s *ConnectionService) List(ctx context.Context, userID int64) ([]models.ConnectionDTO, error) {
	conns, err := s.connRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	dtos := make([]models.ConnectionDTO, 0, len(conns))
	for _, conn := range conns {
		dtos = append(dtos, conn.DTO())
	}
	return dtos, nil
}

// SaveAccounts persists every account discovered during an OAuth callback
// as its own connection row, encrypting tokens on the way in. Used by the
// OAuth service's fan-out step.
func (s *ConnectionService) SaveAccounts(ctx context.Context, userID int64, provider models.Provider, accounts []models.ProviderAccount) error {
	for _, account := range accounts {
		encAccess, err := s.cipher.Encrypt(account.Token.AccessToken)
		if err != nil {
			return fmt.Errorf("failed to encrypt access token: %w", err)
		}
		var encRefresh *string
		if account.Token.RefreshToken != "" {
			enc, err := s.cipher.Encrypt(account.Token.RefreshToken)
			if err != nil {
				return fmt.Errorf("failed to encrypt refresh token: %w", err)
			}
			encRefresh = &enc
		}

		conn := &models.PlatformConnection{
			UserID:         userID,
			Provider:       provider,
			AccountName:    account.AccountName,
			AccountID:      account.AccountID,
			AccessToken:    encAccess,
			RefreshToken:   encRefresh,
			TokenExpiresAt: account.Token.ExpiresAt,
			Permissions:    account.Permissions,
			AccountData:    account.AccountData,
		}
		if _, err := s.connRepo.Upsert(ctx, conn); err != nil {
			return err
		}

		s.logConnect(ctx, userID, provider, account.AccountName)
		if s.producer != nil {
			_ = s.producer.PublishConnectionLinked(ctx, kafka.ConnectionLinkedEvent{
				UserID:      userID,
				Provider:    provider,
				AccountID:   account.AccountID,
				AccountName: account.AccountName,
				Timestamp:   time.Now(),
			})
		}
	}
	return nil
}

// Sync pulls the connection's items from its provider. Failures are
// recorded on the row (last_error) and in the activity log but never
// deactivate or delete the connection.
func (s *ConnectionService) Sync(ctx context.Context, userID, connectionID int64) (int, error) {
	conn, err := s.connRepo.GetByID(ctx, userID, connectionID)
	if err != nil {
		return 0, err
	}
	if !conn.IsActive {
		return 0, domainErrors.ErrConnectionDisabled
	}
	provider, ok := s.providers[conn.Provider]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domainErrors.ErrProviderNotFound, conn.Provider)
	}

	accessToken, err := s.cipher.Decrypt(conn.AccessToken)
	if err != nil {
		return 0, err
	}

	s.logSync(ctx, userID, models.SyncDetails{
		ConnectionID: conn.ID, ItemType: "reviews", Status: models.SyncStarted,
	})

	count, syncErr := provider.Sync(ctx, conn, accessToken)
	now := time.Now()
	if syncErr != nil {
		msg := syncErr.Error()
		if err := s.connRepo.RecordSyncResult(ctx, conn.ID, now, &msg); err != nil {
			s.logger.Error("failed to record sync error", zap.Int64("connection_id", conn.ID), zap.Error(err))
		}
		s.logSync(ctx, userID, models.SyncDetails{
			ConnectionID: conn.ID, ItemType: "reviews", Status: models.SyncFailed, Error: msg,
		})
		s.publishSync(ctx, userID, conn, models.SyncFailed, 0, msg)
		metrics.SyncsTotal.WithLabelValues(string(conn.Provider), models.SyncFailed).Inc()
		return 0, fmt.Errorf("sync failed: %w", syncErr)
	}

	if err := s.connRepo.RecordSyncResult(ctx, conn.ID, now, nil); err != nil {
		s.logger.Error("failed to record sync success", zap.Int64("connection_id", conn.ID), zap.Error(err))
	}
	s.logSync(ctx, userID, models.SyncDetails{
		ConnectionID: conn.ID, ItemType: "reviews", Status: models.SyncSuccess, ItemsSynced: count,
	})
	s.publishSync(ctx, userID, conn, models.SyncSuccess, count, "")
	metrics.SyncsTotal.WithLabelValues(string(conn.Provider), models.SyncSuccess).Inc()

	s.logger.Info("connection synced",
		zap.Int64("connection_id", conn.ID),
		zap.String("provider", string(conn.Provider)),
		zap.Int("items", count))
	return count, nil
}

// RefreshToken renews the connection's access token via the provider's
// refresh flow. When the provider omits a new refresh token the stored one
// is preserved.
func (s *ConnectionService) RefreshToken(ctx context.Context, userID, connectionID int64) (*time.Time, error) {
	conn, err := s.connRepo.GetByID(ctx, userID, connectionID)
	if err != nil {
		return nil, err
	}
	provider, ok := s.providers[conn.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrProviderNotFound, conn.Provider)
	}

	var refreshToken string
	if conn.RefreshToken != nil {
		refreshToken, err = s.cipher.Decrypt(*conn.RefreshToken)
		if err != nil {
			return nil, err
		}
	}
	if refreshToken == "" {
		// Facebook-family connections refresh from the access token itself.
		refreshToken, err = s.cipher.Decrypt(conn.AccessToken)
		if err != nil {
			return nil, err
		}
	}

	token, err := provider.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	encAccess, err := s.cipher.Encrypt(token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}
	var encRefresh *string
	if token.RefreshToken != "" {
		enc, err := s.cipher.Encrypt(token.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt refresh token: %w", err)
		}
		encRefresh = &enc
	}

	if err := s.connRepo.UpdateTokens(ctx, conn.ID, encAccess, encRefresh, token.ExpiresAt); err != nil {
		return nil, err
	}
	s.logger.Info("connection token refreshed",
		zap.Int64("connection_id", conn.ID),
		zap.String("provider", string(conn.Provider)))
	return token.ExpiresAt, nil
}

// Delete removes a connection permanently. No soft-delete.
func (s *ConnectionService) Delete(ctx context.Context, userID, connectionID int64) error {
	if err := s.connRepo.Delete(ctx, userID, connectionID); err != nil {
		return err
	}
	s.logger.Info("connection deleted",
		zap.Int64("connection_id", connectionID), zap.Int64("user_id", userID))
	return nil
}

func (s *ConnectionService) logConnect(ctx context.Context, userID int64, provider models.Provider, account string) {
	details, err := json.Marshal(models.ConnectDetails{Platform: provider, Account: account})
	if err != nil {
		return
	}
	entry := &models.ActivityLog{
		UserID:     userID,
		Action:     models.ActionConnect,
		EntityType: "platform",
		Details:    details,
	}
	if err := s.activityRepo.Insert(ctx, entry); err != nil {
		s.logger.Error("failed to log connect activity", zap.Error(err))
	}
}

func (s *ConnectionService) logSync(ctx context.Context, userID int64, details models.SyncDetails) {
	payload, err := json.Marshal(details)
	if err != nil {
		return
	}
	entry := &models.ActivityLog{
		UserID:     userID,
		Action:     models.ActionSync,
		EntityType: "platform",
		Details:    payload,
	}
	if err := s.activityRepo.Insert(ctx, entry); err != nil {
		s.logger.Error("failed to log sync activity", zap.Error(err))
	}
}

func (s *ConnectionService) publishSync(ctx context.Context, userID int64, conn *models.PlatformConnection, status string, count int, errMsg string) {
	if s.producer == nil {
		return
	}
	_ = s.producer.PublishSyncCompleted(ctx, kafka.SyncCompletedEvent{
		UserID:       userID,
		ConnectionID: conn.ID,
		Provider:     conn.Provider,
		Status:       status,
		ItemsSynced:  count,
		Error:        errMsg,
		Timestamp:    time.Now(),
	})
}
