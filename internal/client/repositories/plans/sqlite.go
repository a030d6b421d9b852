package plans

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

const planColumns = `id, title, created_at, updated_at,
	is_local_only, is_published, remote_id, last_synced, cache_expiry`

func (r *SQLiteRepository) Upsert(ctx context.Context, p *models.Plan) error {
	query := `INSERT INTO plans (` + planColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			is_local_only = excluded.is_local_only,
			is_published = excluded.is_published,
			remote_id = excluded.remote_id,
			last_synced = excluded.last_synced,
			cache_expiry = excluded.cache_expiry
	`
	args := []any{p.ID, p.Title, codec.EncodeTime(p.CreatedAt), codec.EncodeTime(p.UpdatedAt)}
	args = append(args, codec.SyncStateArgs(p.SyncState)...)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: upsert plan: %w", common.ErrStoreWrite, err)
	}
	return nil
}

func scanPlan(scan func(dest ...any) error) (*models.Plan, error) {
	var (
		p                    models.Plan
		createdAt, updatedAt int64
		sync                 codec.SyncStateScan
	)
	dest := []any{&p.ID, &p.Title, &createdAt, &updatedAt}
	dest = append(dest, sync.Dest()...)

	if err := scan(dest...); err != nil {
		return nil, err
	}
	p.CreatedAt = codec.DecodeTime(createdAt)
	p.UpdatedAt = codec.DecodeTime(updatedAt)
	p.SyncState = sync.Decode()
	return &p, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Plan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plans WHERE id = ?`, id)
	p, err := scanPlan(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan %s: %w", id, err)
	}
	return p, nil
}

func (r *SQLiteRepository) selectPlans(ctx context.Context, query string, args ...any) ([]*models.Plan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select plans: %w", err)
	}
	defer rows.Close()

	var result []*models.Plan
	for rows.Next() {
		p, err := scanPlan(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plans: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.Plan, error) {
	return r.selectPlans(ctx, `SELECT `+planColumns+` FROM plans ORDER BY created_at`)
}

func (r *SQLiteRepository) ListDrafts(ctx context.Context) ([]*models.Plan, error) {
	return r.selectPlans(ctx,
		`SELECT `+planColumns+` FROM plans WHERE is_local_only = 1 AND is_published = 0 ORDER BY created_at`)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id); err != nil {
		return fmt.Errorf("%w: delete plan %s: %w", common.ErrStoreWrite, id, err)
	}
	return nil
}

const itemColumns = `id, plan_id, position, kind, spot_id,
	place_name, place_address, place_lat, place_lon, place_category, place_hours,
	date, start_time, end_time, timing,
	created_at, updated_at,
	is_local_only, is_published, remote_id, last_synced, cache_expiry`

func (r *SQLiteRepository) UpsertItem(ctx context.Context, item *models.PlanItem) error {
	query := `INSERT INTO plan_items (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			plan_id = excluded.plan_id,
			position = excluded.position,
			kind = excluded.kind,
			spot_id = excluded.spot_id,
			place_name = excluded.place_name,
			place_address = excluded.place_address,
			place_lat = excluded.place_lat,
			place_lon = excluded.place_lon,
			place_category = excluded.place_category,
			place_hours = excluded.place_hours,
			date = excluded.date,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			timing = excluded.timing,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			is_local_only = excluded.is_local_only,
			is_published = excluded.is_published,
			remote_id = excluded.remote_id,
			last_synced = excluded.last_synced,
			cache_expiry = excluded.cache_expiry
	`
	var spotID any
	if item.SpotID != nil {
		spotID = *item.SpotID
	}
	place := item.Place
	if place == nil {
		place = &models.PlaceDetails{}
	}
	var placeLat, placeLon any
	if place.Location != nil {
		placeLat = place.Location.Latitude
		placeLon = place.Location.Longitude
	}

	args := []any{
		item.ID, item.PlanID, int64(item.Position), string(item.Kind), spotID,
		place.Name, place.Address, placeLat, placeLon, place.Category, place.Hours,
		codec.EncodeOptionalTime(item.Date),
		codec.EncodeOptionalTime(item.StartTime),
		codec.EncodeOptionalTime(item.EndTime),
		string(item.Timing),
		codec.EncodeTime(item.CreatedAt), codec.EncodeTime(item.UpdatedAt),
	}
	args = append(args, codec.SyncStateArgs(item.SyncState)...)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: upsert plan item: %w", common.ErrStoreWrite, err)
	}
	return nil
}

func (r *SQLiteRepository) ItemsByPlan(ctx context.Context, planID string) ([]*models.PlanItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM plan_items WHERE plan_id = ? ORDER BY position`, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to select plan items: %w", err)
	}
	defer rows.Close()

	var result []*models.PlanItem
	for rows.Next() {
		var (
			item                      models.PlanItem
			kind, timing              string
			spotID                    sql.NullString
			placeName, placeAddress   string
			placeLat, placeLon        sql.NullFloat64
			placeCategory, placeHours string
			date, startTime, endTime  sql.NullInt64
			createdAt, updatedAt      int64
			sync                      codec.SyncStateScan
		)
		dest := []any{
			&item.ID, &item.PlanID, &item.Position, &kind, &spotID,
			&placeName, &placeAddress, &placeLat, &placeLon, &placeCategory, &placeHours,
			&date, &startTime, &endTime, &timing,
			&createdAt, &updatedAt,
		}
		dest = append(dest, sync.Dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan plan item: %w", err)
		}

		item.Kind = models.PlanItemKind(kind)
		item.Timing = models.TimingPreference(timing)
		if spotID.Valid {
			id := spotID.String
			item.SpotID = &id
		}
		if item.Kind == models.PlanItemPlace {
			place := &models.PlaceDetails{
				Name:     placeName,
				Address:  placeAddress,
				Category: placeCategory,
				Hours:    placeHours,
			}
			if placeLat.Valid && placeLon.Valid {
				place.Location = &models.Coordinate{Latitude: placeLat.Float64, Longitude: placeLon.Float64}
			}
			item.Place = place
		}
		item.Date = codec.DecodeOptionalTime(date)
		item.StartTime = codec.DecodeOptionalTime(startTime)
		item.EndTime = codec.DecodeOptionalTime(endTime)
		item.CreatedAt = codec.DecodeTime(createdAt)
		item.UpdatedAt = codec.DecodeTime(updatedAt)
		item.SyncState = sync.Decode()

		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plan items: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) DeleteItem(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM plan_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("%w: delete plan item %s: %w", common.ErrStoreWrite, id, err)
	}
	return nil
}
