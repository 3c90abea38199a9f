package cache

import (
	"mission-route-service/internal/domain"
	"mission-route-service/internal/ports"
)

// Points are packed as [lat, lng] pairs to keep entries small.
func newRedisRouteEntry(r ports.RouteResult) redisRouteEntry {
	pts := make([][2]float64, 0, len(r.Points))
	for _, p := range r.Points {
		pts = append(pts, [2]float64{p.Lat, p.Lng})
	}
	return redisRouteEntry{
		Points:          pts,
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: r.DurationSeconds,
	}
}

func (e redisRouteEntry) toResult() ports.RouteResult {
	pts := make([]domain.LatLng, 0, len(e.Points))
	for _, p := range e.Points {
		pts = append(pts, domain.LatLng{Lat: p[0], Lng: p[1]})
	}
	return ports.RouteResult{
		Points:          pts,
		DistanceMeters:  e.DistanceMeters,
		DurationSeconds: e.DurationSeconds,
	}
}
