package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eranshir/scenic/internal/common"
	"github.com/eranshir/scenic/internal/dbx"
	"github.com/eranshir/scenic/internal/server/models"
)

// Table names backing the three record kinds. The table name is always one
// of these constants, never caller input.
const (
	TableSpots    = "spots"
	TableComments = "comments"
	TablePlans    = "plans"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or
// *sql.Tx) for one table.
type PostgresRepository struct {
	db    dbx.DBTX
	table string
}

// NewSpotRepository binds a repository to the spots table.
func NewSpotRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, table: TableSpots}
}

// NewCommentRepository binds a repository to the comments table.
func NewCommentRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, table: TableComments}
}

// NewPlanRepository binds a repository to the plans table.
func NewPlanRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, table: TablePlans}
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Record, error) {
	query := fmt.Sprintf(
		`SELECT id, remote_id, updated_at, doc FROM %s WHERE id = $1`, r.table)

	rec := &models.Record{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&rec.ID, &rec.RemoteID, &rec.UpdatedAt, &rec.Doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %s: %w", r.table, id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

// Upsert creates or replaces the record by client id. On conflict the
// existing remote_id wins, so a republish never changes a record's
// server-assigned identity.
func (r *PostgresRepository) Upsert(ctx context.Context, rec *models.Record) (string, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, remote_id, updated_at, doc)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id)
		DO UPDATE SET
			updated_at = EXCLUDED.updated_at,
			doc = EXCLUDED.doc
		RETURNING remote_id;
	`, r.table)

	var remoteID string
	err := r.db.QueryRowContext(ctx, query,
		rec.ID, rec.RemoteID, rec.UpdatedAt, rec.Doc).Scan(&remoteID)
	if err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}
	return remoteID, nil
}

func (r *PostgresRepository) SelectUpdatedSince(ctx context.Context, since *time.Time) ([]*models.Record, error) {
	query := fmt.Sprintf(
		`SELECT id, remote_id, updated_at, doc FROM %s WHERE updated_at > $1 ORDER BY updated_at`, r.table)

	cursor := time.Time{}
	if since != nil {
		cursor = *since
	}
	rows, err := r.db.QueryContext(ctx, query, cursor)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Record
	for rows.Next() {
		rec := &models.Record{}
		if err := rows.Scan(&rec.ID, &rec.RemoteID, &rec.UpdatedAt, &rec.Doc); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}
