// File: internal/domain/repository/postgres/activity_log_postgres_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/models"
)

// ActivityLogRepositoryPostgres implements repository.ActivityLogRepository
// for PostgreSQL.
type ActivityLogRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewActivityLogRepositoryPostgres(pool *pgxpool.Pool) *ActivityLogRepositoryPostgres {
	return &ActivityLogRepositoryPostgres{pool: pool}
}

func (r *ActivityLogRepositoryPostgres) Insert(ctx context.Context, entry *models.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (user_id, action, entity_type, details)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		entry.UserID, entry.Action, entry.EntityType, entry.Details,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert activity log: %w", err)
	}
	return nil
}
