package cache

import (
	"context"
	"log"
	"mission-route-service/internal/domain"
	"mission-route-service/internal/ports"
)

// CachedRouteProvider consults a RouteCache before delegating to the
// routing service. Cache failures are logged and never fail a lookup.
type CachedRouteProvider struct {
	next    ports.RouteProvider
	cache   ports.RouteCache
	profile string
}

func NewCachedRouteProvider(next ports.RouteProvider, cache ports.RouteCache, profile string) *CachedRouteProvider {
	return &CachedRouteProvider{next: next, cache: cache, profile: profile}
}

func (c *CachedRouteProvider) GetRoute(ctx context.Context, waypoints []domain.LatLng) (ports.RouteResult, error) {
	if c.cache == nil {
		return c.next.GetRoute(ctx, waypoints)
	}

	key := RouteKey(c.profile, waypoints)

	hit, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		log.Printf("route cache read failed: key=%s err=%v", key, err)
	}
	if ok {
		return hit, nil
	}

	fresh, err := c.next.GetRoute(ctx, waypoints)
	if err != nil {
		return ports.RouteResult{}, err
	}

	if err := c.cache.Put(ctx, key, fresh); err != nil {
		log.Printf("route cache write failed: key=%s err=%v", key, err)
	}

	return fresh, nil
}
