// File: internal/domain/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/models"
)

// UserRepository persists dashboard users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

// ConnectionRepository persists platform connections. Every accessor that
// takes a userID scopes the query to that user; a row owned by someone
// else is indistinguishable from a missing row (ErrNotFound either way).
type ConnectionRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]*models.PlatformConnection, error)
	GetByID(ctx context.Context, userID, id int64) (*models.PlatformConnection, error)

	// Upsert atomically inserts or updates on the (user_id, provider,
	// account_id) key. On update a nil RefreshToken keeps the stored one,
	// last_error is cleared and is_active set. Returns the row id.
	Upsert(ctx context.Context, conn *models.PlatformConnection) (int64, error)

	// UpdateTokens replaces the access token and expiry; a nil refresh
	// token preserves the previous value.
	UpdateTokens(ctx context.Context, id int64, accessToken string, refreshToken *string, expiresAt *time.Time) error

	// RecordSyncResult sets last_sync_at on success (syncErr nil) or
	// last_error on failure. It never touches is_active.
	RecordSyncResult(ctx context.Context, id int64, syncedAt time.Time, syncErr *string) error

	Delete(ctx context.Context, userID, id int64) error
}

// ActivityLogRepository appends audit entries.
type ActivityLogRepository interface {
	Insert(ctx context.Context, entry *models.ActivityLog) error
}

// StateStore holds in-flight OAuth CSRF state values. Consume is
// single-use: a second call for the same state fails.
type StateStore interface {
	Save(ctx context.Context, state string, flow models.OAuthState, ttl time.Duration) error
	Consume(ctx context.Context, state string) (*models.OAuthState, error)
}
