package syncstate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eranshir/scenic/internal/client/models"
	"github.com/eranshir/scenic/internal/client/repositories/codec"
	"github.com/eranshir/scenic/internal/common"
	"github.com/eranshir/scenic/internal/dbx"
)

// SQLiteRepository implements Repository over a dbx.DBTX.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, t models.EntityType) (*time.Time, error) {
	var at int64
	err := r.db.QueryRowContext(ctx,
		`SELECT last_sync FROM sync_state WHERE entity_type = ?`, string(t)).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync_state[%s]: %w", t, err)
	}
	ts := codec.DecodeTime(at)
	return &ts, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, t models.EntityType, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_state (entity_type, last_sync) VALUES (?, ?)
		ON CONFLICT(entity_type) DO UPDATE SET last_sync = excluded.last_sync
	`, string(t), codec.EncodeTime(at))
	if err != nil {
		return fmt.Errorf("%w: set sync_state[%s]: %w", common.ErrStoreWrite, t, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, t models.EntityType) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sync_state WHERE entity_type = ?`, string(t))
	if err != nil {
		return fmt.Errorf("%w: delete sync_state[%s]: %w", common.ErrStoreWrite, t, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sync_state`); err != nil {
		return fmt.Errorf("%w: clear sync_state: %w", common.ErrStoreWrite, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) (map[models.EntityType]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT entity_type, last_sync FROM sync_state`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync_state: %w", err)
	}
	defer rows.Close()

	result := make(map[models.EntityType]time.Time)
	for rows.Next() {
		var entityType string
		var at int64
		if err := rows.Scan(&entityType, &at); err != nil {
			return nil, fmt.Errorf("failed to scan sync_state row: %w", err)
		}
		result[models.EntityType(entityType)] = codec.DecodeTime(at)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sync_state rows: %w", err)
	}
	return result, nil
}
