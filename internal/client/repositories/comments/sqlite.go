package comments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

const commentColumns = `id, spot_id, parent_id, body, author_id, vote_count,
	created_at, updated_at,
	is_local_only, is_published, remote_id, last_synced, cache_expiry`

func (r *SQLiteRepository) Upsert(ctx context.Context, c *models.Comment) error {
	query := `INSERT INTO comments (` + commentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			spot_id = excluded.spot_id,
			parent_id = excluded.parent_id,
			body = excluded.body,
			author_id = excluded.author_id,
			vote_count = excluded.vote_count,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			is_local_only = excluded.is_local_only,
			is_published = excluded.is_published,
			remote_id = excluded.remote_id,
			last_synced = excluded.last_synced,
			cache_expiry = excluded.cache_expiry
	`
	var parentID any
	if c.ParentID != nil {
		parentID = *c.ParentID
	}
	args := []any{
		c.ID, c.SpotID, parentID, c.Body, c.AuthorID, int64(c.VoteCount),
		codec.EncodeTime(c.CreatedAt), codec.EncodeTime(c.UpdatedAt),
	}
	args = append(args, codec.SyncStateArgs(c.SyncState)...)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: upsert comment: %w", common.ErrStoreWrite, err)
	}
	return nil
}

func scanComment(scan func(dest ...any) error) (*models.Comment, error) {
	var (
		c                    models.Comment
		parentID             sql.NullString
		createdAt, updatedAt int64
		sync                 codec.SyncStateScan
	)
	dest := []any{
		&c.ID, &c.SpotID, &parentID, &c.Body, &c.AuthorID, &c.VoteCount,
		&createdAt, &updatedAt,
	}
	dest = append(dest, sync.Dest()...)

	if err := scan(dest...); err != nil {
		return nil, err
	}

	if parentID.Valid {
		p := parentID.String
		c.ParentID = &p
	}
	c.CreatedAt = codec.DecodeTime(createdAt)
	c.UpdatedAt = codec.DecodeTime(updatedAt)
	c.SyncState = sync.Decode()
	return &c, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = ?`, id)
	c, err := scanComment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment %s: %w", id, err)
	}
	return c, nil
}

func (r *SQLiteRepository) selectComments(ctx context.Context, query string, args ...any) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select comments: %w", err)
	}
	defer rows.Close()

	var result []*models.Comment
	for rows.Next() {
		c, err := scanComment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) ListBySpot(ctx context.Context, spotID string) ([]*models.Comment, error) {
	return r.selectComments(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE spot_id = ? ORDER BY created_at`, spotID)
}

func (r *SQLiteRepository) ListDrafts(ctx context.Context) ([]*models.Comment, error) {
	return r.selectComments(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE is_local_only = 1 AND is_published = 0 ORDER BY created_at`)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("%w: delete comment %s: %w", common.ErrStoreWrite, id, err)
	}
	return nil
}
