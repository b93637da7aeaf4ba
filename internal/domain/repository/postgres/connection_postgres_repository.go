// File: internal/domain/repository/postgres/connection_postgres_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/errors"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/models"
)

// ConnectionRepositoryPostgres implements repository.ConnectionRepository
// for PostgreSQL.
type ConnectionRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewConnectionRepositoryPostgres(pool *pgxpool.Pool) *ConnectionRepositoryPostgres {
	return &ConnectionRepositoryPostgres{pool: pool}
}

const connectionColumns = `
	id, user_id, platform, account_name, account_id, access_token,
	refresh_token, token_expires_at, permissions, account_data,
	is_active, last_sync_at, last_error, created_at, updated_at`

func scanConnection(row pgx.Row) (*models.PlatformConnection, error) {
	conn := &models.PlatformConnection{}
	err := row.Scan(
		&conn.ID, &conn.UserID, &conn.Provider, &conn.AccountName, &conn.AccountID,
		&conn.AccessToken, &conn.RefreshToken, &conn.TokenExpiresAt,
		&conn.Permissions, &conn.AccountData, &conn.IsActive,
		&conn.LastSyncAt, &conn.LastError, &conn.CreatedAt, &conn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (r *ConnectionRepositoryPostgres) ListByUser(ctx context.Context, userID int64) ([]*models.PlatformConnection, error) {
	query := `SELECT` + connectionColumns + `
		FROM platform_connections
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer rows.Close()

	var conns []*models.PlatformConnection
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan connection row: %w", err)
		}
		conns = append(conns, conn)
	}
	return conns, rows.Err()
}

func (r *ConnectionRepositoryPostgres) GetByID(ctx context.Context, userID, id int64) (*models.PlatformConnection, error) {
	query := `SELECT` + connectionColumns + `
		FROM platform_connections
		WHERE id = $1 AND user_id = $2`
	conn, err := scanConnection(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Not-found and not-yours are deliberately the same error.
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find connection: %w", err)
	}
	return conn, nil
}

// Upsert inserts or updates on (user_id, platform, account_id) in one
// statement, closing the check-then-insert race between two concurrent
// callbacks for the same account.
func (r *ConnectionRepositoryPostgres) Upsert(ctx context.Context, conn *models.PlatformConnection) (int64, error) {
	query := `
		INSERT INTO platform_connections
			(user_id, platform, account_name, account_id, access_token,
			 refresh_token, token_expires_at, permissions, account_data, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
		ON CONFLICT (user_id, platform, account_id) DO UPDATE SET
			account_name     = EXCLUDED.account_name,
			access_token     = EXCLUDED.access_token,
			refresh_token    = COALESCE(EXCLUDED.refresh_token, platform_connections.refresh_token),
			token_expires_at = EXCLUDED.token_expires_at,
			permissions      = EXCLUDED.permissions,
			account_data     = EXCLUDED.account_data,
			is_active        = TRUE,
			last_error       = NULL,
			updated_at       = NOW()
		RETURNING id
	`
	var id int64
	err := r.pool.QueryRow(ctx, query,
		conn.UserID, conn.Provider, conn.AccountName, conn.AccountID,
		conn.AccessToken, conn.RefreshToken, conn.TokenExpiresAt,
		conn.Permissions, conn.AccountData,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return 0, fmt.Errorf("user %d not found for connection: %w", conn.UserID, domainErrors.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to upsert connection: %w", err)
	}
	conn.ID = id
	return id, nil
}

func (r *ConnectionRepositoryPostgres) UpdateTokens(ctx context.Context, id int64, accessToken string, refreshToken *string, expiresAt *time.Time) error {
	query := `
		UPDATE platform_connections
		SET access_token     = $2,
		    refresh_token    = COALESCE($3, refresh_token),
		    token_expires_at = $4,
		    last_error       = NULL,
		    updated_at       = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, accessToken, refreshToken, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to update connection tokens: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *ConnectionRepositoryPostgres) RecordSyncResult(ctx context.Context, id int64, syncedAt time.Time, syncErr *string) error {
	var query string
	var err error
	if syncErr == nil {
		query = `
			UPDATE platform_connections
			SET last_sync_at = $2, last_error = NULL, updated_at = NOW()
			WHERE id = $1`
		_, err = r.pool.Exec(ctx, query, id, syncedAt)
	} else {
		// A failed sync records the error and nothing else; the row stays
		// active and usable for retry.
		query = `
			UPDATE platform_connections
			SET last_error = $2, updated_at = NOW()
			WHERE id = $1`
		_, err = r.pool.Exec(ctx, query, id, *syncErr)
	}
	if err != nil {
		return fmt.Errorf("failed to record sync result: %w", err)
	}
	return nil
}

func (r *ConnectionRepositoryPostgres) Delete(ctx context.Context, userID, id int64) error {
	// Ownership is enforced by the WHERE clause itself; zero rows means
	// not-found-or-not-yours.
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM platform_connections WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
