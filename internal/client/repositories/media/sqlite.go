package media

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

const mediaColumns = `id, spot_id, type, storage_key, capture_time,
	has_exif, exif_make, exif_model, exif_lens, exif_focal_length, exif_aperture,
	exif_shutter, exif_iso, exif_gps_lat, exif_gps_lon, exif_width, exif_height,
	exif_color_space, presets, filters, thumbnail_cached, full_cached,
	created_at, updated_at,
	is_local_only, is_published, remote_id, last_synced, cache_expiry`

func (r *SQLiteRepository) Upsert(ctx context.Context, m *models.Media) error {
	query := `INSERT INTO media (` + mediaColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			spot_id = excluded.spot_id,
			type = excluded.type,
			storage_key = excluded.storage_key,
			capture_time = excluded.capture_time,
			has_exif = excluded.has_exif,
			exif_make = excluded.exif_make,
			exif_model = excluded.exif_model,
			exif_lens = excluded.exif_lens,
			exif_focal_length = excluded.exif_focal_length,
			exif_aperture = excluded.exif_aperture,
			exif_shutter = excluded.exif_shutter,
			exif_iso = excluded.exif_iso,
			exif_gps_lat = excluded.exif_gps_lat,
			exif_gps_lon = excluded.exif_gps_lon,
			exif_width = excluded.exif_width,
			exif_height = excluded.exif_height,
			exif_color_space = excluded.exif_color_space,
			presets = excluded.presets,
			filters = excluded.filters,
			thumbnail_cached = excluded.thumbnail_cached,
			full_cached = excluded.full_cached,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			is_local_only = excluded.is_local_only,
			is_published = excluded.is_published,
			remote_id = excluded.remote_id,
			last_synced = excluded.last_synced,
			cache_expiry = excluded.cache_expiry
	`

	exif := m.Exif
	hasExif := int64(0)
	if exif == nil {
		exif = &models.ExifBlock{}
	} else {
		hasExif = 1
	}
	var gpsLat, gpsLon any
	if exif.GPS != nil {
		gpsLat = exif.GPS.Latitude
		gpsLon = exif.GPS.Longitude
	}

	args := []any{
		m.ID, m.SpotID, string(m.Type), m.StorageKey,
		codec.EncodeOptionalTime(m.CaptureTime),
		hasExif, exif.Make, exif.Model, exif.Lens,
		codec.EncodeOptionalFloat(exif.FocalLength),
		codec.EncodeOptionalFloat(exif.Aperture),
		exif.Shutter,
		codec.EncodeOptionalInt(exif.ISO),
		gpsLat, gpsLon,
		codec.EncodeOptionalInt(exif.Width),
		codec.EncodeOptionalInt(exif.Height),
		exif.ColorSpace,
		codec.EncodeStringList(m.Presets), codec.EncodeStringList(m.Filters),
		boolInt(m.ThumbnailCached), boolInt(m.FullCached),
		codec.EncodeTime(m.CreatedAt), codec.EncodeTime(m.UpdatedAt),
	}
	args = append(args, codec.SyncStateArgs(m.SyncState)...)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: upsert media: %w", common.ErrStoreWrite, err)
	}
	return nil
}

func scanMedia(scan func(dest ...any) error) (*models.Media, error) {
	var (
		m                       models.Media
		mediaType               string
		captureTime             sql.NullInt64
		hasExif                 int64
		exif                    models.ExifBlock
		focal, aperture         sql.NullFloat64
		iso, width, height      int64
		gpsLat, gpsLon          sql.NullFloat64
		presets, filters        string
		thumbCached, fullCached int64
		createdAt, updatedAt    int64
		sync                    codec.SyncStateScan
	)
	dest := []any{
		&m.ID, &m.SpotID, &mediaType, &m.StorageKey, &captureTime,
		&hasExif, &exif.Make, &exif.Model, &exif.Lens, &focal, &aperture,
		&exif.Shutter, &iso, &gpsLat, &gpsLon, &width, &height,
		&exif.ColorSpace, &presets, &filters, &thumbCached, &fullCached,
		&createdAt, &updatedAt,
	}
	dest = append(dest, sync.Dest()...)

	if err := scan(dest...); err != nil {
		return nil, err
	}

	m.Type = models.MediaType(mediaType)
	m.CaptureTime = codec.DecodeOptionalTime(captureTime)
	if hasExif != 0 {
		exif.FocalLength = codec.NullFloat(focal)
		exif.Aperture = codec.NullFloat(aperture)
		exif.ISO = codec.DecodeOptionalInt(iso)
		exif.Width = codec.DecodeOptionalInt(width)
		exif.Height = codec.DecodeOptionalInt(height)
		if gpsLat.Valid && gpsLon.Valid {
			exif.GPS = &models.Coordinate{Latitude: gpsLat.Float64, Longitude: gpsLon.Float64}
		}
		m.Exif = &exif
	}
	m.Presets = codec.DecodeStringList(presets)
	m.Filters = codec.DecodeStringList(filters)
	m.ThumbnailCached = thumbCached != 0
	m.FullCached = fullCached != 0
	m.CreatedAt = codec.DecodeTime(createdAt)
	m.UpdatedAt = codec.DecodeTime(updatedAt)
	m.SyncState = sync.Decode()
	return &m, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Media, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = ?`, id)
	m, err := scanMedia(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media %s: %w", id, err)
	}
	return m, nil
}

func (r *SQLiteRepository) selectMedia(ctx context.Context, query string, args ...any) ([]*models.Media, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select media: %w", err)
	}
	defer rows.Close()

	var result []*models.Media
	for rows.Next() {
		m, err := scanMedia(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate media: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) ListBySpot(ctx context.Context, spotID string) ([]*models.Media, error) {
	return r.selectMedia(ctx,
		`SELECT `+mediaColumns+` FROM media WHERE spot_id = ? ORDER BY created_at`, spotID)
}

func (r *SQLiteRepository) ListWithCachedFlag(ctx context.Context, variant models.MediaVariant) ([]*models.Media, error) {
	col := flagColumn(variant)
	return r.selectMedia(ctx,
		`SELECT `+mediaColumns+` FROM media WHERE `+col+` = 1 ORDER BY created_at`)
}

func (r *SQLiteRepository) SetCachedFlag(ctx context.Context, id string, variant models.MediaVariant, cached bool) error {
	col := flagColumn(variant)
	res, err := r.db.ExecContext(ctx,
		`UPDATE media SET `+col+` = ? WHERE id = ?`, boolInt(cached), id)
	if err != nil {
		return fmt.Errorf("%w: set %s flag: %w", common.ErrStoreWrite, col, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ResetCachedFlags(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE media SET thumbnail_cached = 0, full_cached = 0`); err != nil {
		return fmt.Errorf("%w: reset cache flags: %w", common.ErrStoreWrite, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM media WHERE id = ?`, id); err != nil {
		return fmt.Errorf("%w: delete media %s: %w", common.ErrStoreWrite, id, err)
	}
	return nil
}

// flagColumn maps a variant to its column. The column name is never taken
// from user input.
func flagColumn(v models.MediaVariant) string {
	if v == models.VariantFull {
		return "full_cached"
	}
	return "thumbnail_cached"
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
