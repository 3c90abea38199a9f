package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"mission-route-service/internal/domain"
	"mission-route-service/internal/platform/obs"
	"mission-route-service/internal/ports"
	"strings"
)

// SQLRouteCache is a SQL-backed cache of routing-service results keyed by RouteKey.
type SQLRouteCache struct {
	DB *sql.DB
}

func NewSQLRouteCache(db *sql.DB) *SQLRouteCache {
	return &SQLRouteCache{DB: db}
}

// Fetch a cached route; ok is false on a miss.
func (s *SQLRouteCache) Get(
	ctx context.Context,
	key string,
) (_ ports.RouteResult, ok bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return ports.RouteResult{}, false, errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return ports.RouteResult{}, false, errors.New("get route cache: key must not be empty")
	}

	q := `
	SELECT points, distance_meters, duration_seconds
    FROM route_cache
    WHERE cache_key = $1;
	`

	var (
		raw     []byte
		meters  int
		seconds int
	)
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&raw, &meters, &seconds)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.RouteResult{}, false, nil
	}
	if err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	var points []domain.LatLng
	if err := json.Unmarshal(raw, &points); err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: decode points: %w", err)
	}

	return ports.RouteResult{
		Points:          points,
		DistanceMeters:  meters,
		DurationSeconds: seconds,
	}, true, nil
}

// Store a route result under key, replacing any previous entry.
func (s *SQLRouteCache) Put(ctx context.Context, key string, result ports.RouteResult) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	points, err := json.Marshal(result.Points)
	if err != nil {
		return fmt.Errorf("insert route cache: encode points: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO route_cache (cache_key, points, distance_meters, duration_seconds)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (cache_key) DO UPDATE
	SET points = EXCLUDED.points,
		distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds,
		created_at = now();
	`, key, points, result.DistanceMeters, result.DurationSeconds)
	if err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}

	return nil
}
