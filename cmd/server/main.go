package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"mission-route-service/internal/adapters/cache"
	"mission-route-service/internal/adapters/osm"
	"mission-route-service/internal/adapters/repositories"
	"mission-route-service/internal/api"
	"mission-route-service/internal/config"
	"mission-route-service/internal/platform/db"
	"mission-route-service/internal/ports"
	"mission-route-service/internal/services"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
)

const sweepInterval = time.Minute

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, OSRM, Nominatim) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()
	xdb := db.Wrap(sqlDB)

	// Apply migrations and seed reference data on startup for local runs.
	if err := migrateAndSeed(ctx, xdb, cfg.SeedPath); err != nil {
		log.Fatal(err)
	}

	routeCache, closeCache, err := openRouteCache(ctx, cfg, xdb)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	osrm, err := osm.NewOSRMProvider(osm.OSRMConfig{
		BaseURL:     cfg.OSRMBaseURL,
		Profile:     cfg.OSRMProfile,
		Timeout:     cfg.HTTPClientTimeout,
		MaxAttempts: cfg.RoutingMaxAttempts,
	})
	if err != nil {
		log.Fatal(err)
	}

	nominatim, err := osm.NewNominatimGeocoder(osm.NominatimConfig{
		BaseURL:   cfg.NominatimBaseURL,
		UserAgent: cfg.NominatimUserAgent,
		Timeout:   cfg.HTTPClientTimeout,
	})
	if err != nil {
		log.Fatal(err)
	}

	units := repositories.NewPostgresUnitRepository(xdb)
	rates := repositories.NewPostgresRateRepository(xdb)
	missions := repositories.NewPostgresMissionRepository(xdb)

	sessions := services.NewTripSessions(services.TripDeps{
		Routes:   cache.NewCachedRouteProvider(osrm, routeCache, osrm.Profile()),
		Rates:    rates,
		Geocoder: cache.NewCachedGeocoder(nominatim, cache.NewSQLGeocodeCache(sqlDB)),
	}, units)
	go sessions.RunSweeper(ctx, sweepInterval, cfg.SessionIdleTimeout)

	router := api.NewRouter(api.Deps{
		Units:    units,
		Rates:    rates,
		Sessions: sessions,
		Missions: services.NewMissionService(missions),
	})

	// Timeouts are tuned for cold-cache routing (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s osrm=%s profile=%s", cfg.Port, cfg.OSRMBaseURL, cfg.OSRMProfile)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func migrateAndSeed(ctx context.Context, xdb *sqlx.DB, seedPath string) error {
	if err := repositories.MigrateUp(ctx, xdb.DB); err != nil {
		return fmt.Errorf("migrate and seed: %w", err)
	}

	if seedPath == "" {
		return nil
	}
	err := repositories.SeedFromJSON(ctx, xdb, seedPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("seed file %q not found, skipping", seedPath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate and seed: %w", err)
	}
	return nil
}

// openRouteCache prefers Redis when REDIS_URL is set and falls back to
// the Postgres route_cache table.
func openRouteCache(ctx context.Context, cfg *config.Config, xdb *sqlx.DB) (ports.RouteCache, func(), error) {
	if cfg.RedisURL == "" {
		log.Println("route cache: postgres")
		return cache.NewSQLRouteCache(xdb.DB), func() {}, nil
	}

	client, err := cache.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open route cache: %w", err)
	}
	log.Printf("route cache: redis ttl=%s", cfg.RouteCacheTTL)
	return cache.NewRedisRouteCache(client, cfg.RouteCacheTTL), func() { _ = client.Close() }, nil
}
