package spots

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

// SQLiteRepository implements Repository over a dbx.DBTX
// (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const spotColumns = `id, title, latitude, longitude, heading, elevation, tags,
	difficulty, privacy, license, status, creator_id, vote_count,
	created_at, updated_at,
	is_local_only, is_published, remote_id, last_synced, cache_expiry`

func (r *SQLiteRepository) Upsert(ctx context.Context, s *models.Spot) error {
	query := `INSERT INTO spots (` + spotColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			heading = excluded.heading,
			elevation = excluded.elevation,
			tags = excluded.tags,
			difficulty = excluded.difficulty,
			privacy = excluded.privacy,
			license = excluded.license,
			status = excluded.status,
			creator_id = excluded.creator_id,
			vote_count = excluded.vote_count,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			is_local_only = excluded.is_local_only,
			is_published = excluded.is_published,
			remote_id = excluded.remote_id,
			last_synced = excluded.last_synced,
			cache_expiry = excluded.cache_expiry
	`
	args := []any{
		s.ID, s.Title, s.Location.Latitude, s.Location.Longitude,
		codec.EncodeOptionalFloat(s.Heading), codec.EncodeOptionalFloat(s.Elevation),
		codec.EncodeStringList(s.Tags),
		int64(s.Difficulty), string(s.Privacy), s.License, string(s.Status),
		s.CreatorID, int64(s.VoteCount),
		codec.EncodeTime(s.CreatedAt), codec.EncodeTime(s.UpdatedAt),
	}
	args = append(args, codec.SyncStateArgs(s.SyncState)...)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: upsert spot: %w", common.ErrStoreWrite, err)
	}
	return nil
}

func scanSpot(scan func(dest ...any) error) (*models.Spot, error) {
	var (
		s                  models.Spot
		heading, elevation sql.NullFloat64
		tags               string
		difficulty         int64
		privacy, status    string
		createdAt          int64
		updatedAt          int64
		sync               codec.SyncStateScan
	)
	dest := []any{
		&s.ID, &s.Title, &s.Location.Latitude, &s.Location.Longitude,
		&heading, &elevation, &tags, &difficulty, &privacy, &s.License, &status,
		&s.CreatorID, &s.VoteCount, &createdAt, &updatedAt,
	}
	dest = append(dest, sync.Dest()...)

	if err := scan(dest...); err != nil {
		return nil, err
	}

	s.Heading = codec.NullFloat(heading)
	s.Elevation = codec.NullFloat(elevation)
	s.Tags = codec.DecodeStringList(tags)
	s.Difficulty = models.Difficulty(difficulty)
	s.Privacy = models.Privacy(privacy)
	s.Status = models.SpotStatus(status)
	s.CreatedAt = codec.DecodeTime(createdAt)
	s.UpdatedAt = codec.DecodeTime(updatedAt)
	s.SyncState = sync.Decode()
	return &s, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Spot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+spotColumns+` FROM spots WHERE id = ?`, id)
	s, err := scanSpot(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get spot %s: %w", id, err)
	}
	return s, nil
}

func (r *SQLiteRepository) selectSpots(ctx context.Context, query string, args ...any) ([]*models.Spot, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select spots: %w", err)
	}
	defer rows.Close()

	var result []*models.Spot
	for rows.Next() {
		s, err := scanSpot(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan spot: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate spots: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.Spot, error) {
	return r.selectSpots(ctx, `SELECT `+spotColumns+` FROM spots ORDER BY created_at`)
}

func (r *SQLiteRepository) ListDrafts(ctx context.Context) ([]*models.Spot, error) {
	return r.selectSpots(ctx,
		`SELECT `+spotColumns+` FROM spots WHERE is_local_only = 1 AND is_published = 0 ORDER BY created_at`)
}

func (r *SQLiteRepository) ListStale(ctx context.Context, now time.Time) ([]*models.Spot, error) {
	return r.selectSpots(ctx,
		`SELECT `+spotColumns+` FROM spots WHERE cache_expiry IS NOT NULL AND cache_expiry < ?`,
		codec.EncodeTime(now))
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM spots WHERE id = ?`, id); err != nil {
		return fmt.Errorf("%w: delete spot %s: %w", common.ErrStoreWrite, id, err)
	}
	return nil
}

func (r *SQLiteRepository) UpsertSun(ctx context.Context, snap *models.SunSnapshot) error {
	query := `INSERT INTO sun_snapshots (id, spot_id, date,
			sunrise_at, sunset_at, golden_hour_start, golden_hour_end,
			blue_hour_start, blue_hour_end, sunrise_azimuth, sunset_azimuth)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(spot_id) DO UPDATE SET
			id = excluded.id,
			date = excluded.date,
			sunrise_at = excluded.sunrise_at,
			sunset_at = excluded.sunset_at,
			golden_hour_start = excluded.golden_hour_start,
			golden_hour_end = excluded.golden_hour_end,
			blue_hour_start = excluded.blue_hour_start,
			blue_hour_end = excluded.blue_hour_end,
			sunrise_azimuth = excluded.sunrise_azimuth,
			sunset_azimuth = excluded.sunset_azimuth
	`
	_, err := r.db.ExecContext(ctx, query,
		snap.ID, snap.SpotID, codec.EncodeTime(snap.Date),
		codec.EncodeOptionalTime(snap.SunriseAt), codec.EncodeOptionalTime(snap.SunsetAt),
		codec.EncodeOptionalTime(snap.GoldenHourStart), codec.EncodeOptionalTime(snap.GoldenHourEnd),
		codec.EncodeOptionalTime(snap.BlueHourStart), codec.EncodeOptionalTime(snap.BlueHourEnd),
		codec.EncodeOptionalFloat(snap.SunriseAzimuth), codec.EncodeOptionalFloat(snap.SunsetAzimuth),
	)
	if err != nil {
		return fmt.Errorf("%w: upsert sun snapshot: %w", common.ErrStoreWrite, err)
	}
	return nil
}

func (r *SQLiteRepository) GetSun(ctx context.Context, spotID string) (*models.SunSnapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, spot_id, date,
			sunrise_at, sunset_at, golden_hour_start, golden_hour_end,
			blue_hour_start, blue_hour_end, sunrise_azimuth, sunset_azimuth
		FROM sun_snapshots WHERE spot_id = ?`, spotID)

	var (
		snap                          models.SunSnapshot
		date                          int64
		sunrise, sunset, ghs, ghe     sql.NullInt64
		bhs, bhe                      sql.NullInt64
		sunriseAzimuth, sunsetAzimuth sql.NullFloat64
	)
	err := row.Scan(&snap.ID, &snap.SpotID, &date,
		&sunrise, &sunset, &ghs, &ghe, &bhs, &bhe,
		&sunriseAzimuth, &sunsetAzimuth)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sun snapshot: %w", err)
	}

	snap.Date = codec.DecodeTime(date)
	snap.SunriseAt = codec.DecodeOptionalTime(sunrise)
	snap.SunsetAt = codec.DecodeOptionalTime(sunset)
	snap.GoldenHourStart = codec.DecodeOptionalTime(ghs)
	snap.GoldenHourEnd = codec.DecodeOptionalTime(ghe)
	snap.BlueHourStart = codec.DecodeOptionalTime(bhs)
	snap.BlueHourEnd = codec.DecodeOptionalTime(bhe)
	snap.SunriseAzimuth = codec.NullFloat(sunriseAzimuth)
	snap.SunsetAzimuth = codec.NullFloat(sunsetAzimuth)
	return &snap, nil
}

func (r *SQLiteRepository) UpsertWeather(ctx context.Context, snap *models.WeatherSnapshot) error {
	query := `INSERT INTO weather_snapshots (id, spot_id, fetched_at,
			temperature_c, cloud_cover, visibility, wind_speed, conditions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(spot_id) DO UPDATE SET
			id = excluded.id,
			fetched_at = excluded.fetched_at,
			temperature_c = excluded.temperature_c,
			cloud_cover = excluded.cloud_cover,
			visibility = excluded.visibility,
			wind_speed = excluded.wind_speed,
			conditions = excluded.conditions
	`
	_, err := r.db.ExecContext(ctx, query,
		snap.ID, snap.SpotID, codec.EncodeTime(snap.FetchedAt),
		codec.EncodeOptionalFloat(snap.TemperatureC),
		codec.EncodeOptionalInt(snap.CloudCover),
		codec.EncodeOptionalFloat(snap.Visibility),
		codec.EncodeOptionalFloat(snap.WindSpeed),
		snap.Conditions,
	)
	if err != nil {
		return fmt.Errorf("%w: upsert weather snapshot: %w", common.ErrStoreWrite, err)
	}
	return nil
}

func (r *SQLiteRepository) GetWeather(ctx context.Context, spotID string) (*models.WeatherSnapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, spot_id, fetched_at,
			temperature_c, cloud_cover, visibility, wind_speed, conditions
		FROM weather_snapshots WHERE spot_id = ?`, spotID)

	var (
		snap                          models.WeatherSnapshot
		fetchedAt                     int64
		temperature, visibility, wind sql.NullFloat64
		cloudCover                    int64
	)
	err := row.Scan(&snap.ID, &snap.SpotID, &fetchedAt,
		&temperature, &cloudCover, &visibility, &wind, &snap.Conditions)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get weather snapshot: %w", err)
	}

	snap.FetchedAt = codec.DecodeTime(fetchedAt)
	snap.TemperatureC = codec.NullFloat(temperature)
	snap.CloudCover = codec.DecodeOptionalInt(cloudCover)
	snap.Visibility = codec.NullFloat(visibility)
	snap.WindSpeed = codec.NullFloat(wind)
	return &snap, nil
}

func (r *SQLiteRepository) UpsertAccess(ctx context.Context, info *models.AccessInfo) error {
	var parkingLat, parkingLon any
	if info.Parking != nil {
		parkingLat = info.Parking.Latitude
		parkingLon = info.Parking.Longitude
	}
	var route any
	if info.RoutePolyline != nil {
		route = *info.RoutePolyline
	}

	query := `INSERT INTO access_info (id, spot_id, parking_lat, parking_lon,
			route_polyline, hazards, fees, notes, estimated_minutes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(spot_id) DO UPDATE SET
			id = excluded.id,
			parking_lat = excluded.parking_lat,
			parking_lon = excluded.parking_lon,
			route_polyline = excluded.route_polyline,
			hazards = excluded.hazards,
			fees = excluded.fees,
			notes = excluded.notes,
			estimated_minutes = excluded.estimated_minutes
	`
	_, err := r.db.ExecContext(ctx, query,
		info.ID, info.SpotID, parkingLat, parkingLon, route,
		codec.EncodeStringList(info.Hazards), codec.EncodeStringList(info.Fees),
		info.Notes, codec.EncodeOptionalInt(info.EstimatedMinutes),
	)
	if err != nil {
		return fmt.Errorf("%w: upsert access info: %w", common.ErrStoreWrite, err)
	}
	return nil
}

func (r *SQLiteRepository) GetAccess(ctx context.Context, spotID string) (*models.AccessInfo, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, spot_id, parking_lat, parking_lon,
			route_polyline, hazards, fees, notes, estimated_minutes
		FROM access_info WHERE spot_id = ?`, spotID)

	var (
		info                   models.AccessInfo
		parkingLat, parkingLon sql.NullFloat64
		route                  sql.NullString
		hazards, fees          string
		estimated              int64
	)
	err := row.Scan(&info.ID, &info.SpotID, &parkingLat, &parkingLon,
		&route, &hazards, &fees, &info.Notes, &estimated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get access info: %w", err)
	}

	if parkingLat.Valid && parkingLon.Valid {
		info.Parking = &models.Coordinate{Latitude: parkingLat.Float64, Longitude: parkingLon.Float64}
	}
	if route.Valid {
		p := route.String
		info.RoutePolyline = &p
	}
	info.Hazards = codec.DecodeStringList(hazards)
	info.Fees = codec.DecodeStringList(fees)
	info.EstimatedMinutes = codec.DecodeOptionalInt(estimated)
	return &info, nil
}
