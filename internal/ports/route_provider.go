package ports

import (
	"context"
	"mission-route-service/internal/domain"
)

// Driving path, distance and travel duration through a waypoint chain.
type RouteResult struct {
	Points          []domain.LatLng
	DistanceMeters  int
	DurationSeconds int
}

// Contract for retrieving driving directions from a routing service.
type RouteProvider interface {
	// Return the driving route visiting waypoints in order (at least two).
	GetRoute(ctx context.Context, waypoints []domain.LatLng) (RouteResult, error)
}

// Persistent or shared store of previously fetched routes.
type RouteCache interface {
	Get(ctx context.Context, key string) (RouteResult, bool, error)
	Put(ctx context.Context, key string, result RouteResult) error
}
