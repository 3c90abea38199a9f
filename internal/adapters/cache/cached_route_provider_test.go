package cache

import (
	"context"
	"errors"
	"mission-route-service/internal/adapters/osm"
	"mission-route-service/internal/domain"
	"mission-route-service/internal/ports"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRouteCache struct {
	mu      sync.Mutex
	m       map[string]ports.RouteResult
	failGet bool
}

func newMemRouteCache() *memRouteCache {
	return &memRouteCache{m: map[string]ports.RouteResult{}}
}

func (c *memRouteCache) Get(ctx context.Context, key string) (ports.RouteResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return ports.RouteResult{}, false, errors.New("cache down")
	}
	r, ok := c.m[key]
	return r, ok, nil
}

func (c *memRouteCache) Put(ctx context.Context, key string, r ports.RouteResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = r
	return nil
}

var (
	office = domain.LatLng{Lat: 31.3488, Lng: 48.7229}
	site   = domain.LatLng{Lat: 31.35, Lng: 48.73}
)

func TestCachedRouteProviderServesRepeatsFromCache(t *testing.T) {
	mock := osm.NewMockRouteProvider([]osm.MockLeg{
		{Waypoints: []domain.LatLng{office, site}, Meters: 1800, Seconds: 240},
	})
	p := NewCachedRouteProvider(mock, newMemRouteCache(), "driving")

	for i := 0; i < 3; i++ {
		r, err := p.GetRoute(context.Background(), []domain.LatLng{office, site})
		require.NoError(t, err)
		assert.Equal(t, 1800, r.DistanceMeters)
	}

	assert.Equal(t, 1, mock.Calls())
}

func TestCachedRouteProviderIgnoresCacheFailures(t *testing.T) {
	mock := osm.NewMockRouteProvider([]osm.MockLeg{
		{Waypoints: []domain.LatLng{office, site}, Meters: 1800, Seconds: 240},
	})
	c := newMemRouteCache()
	c.failGet = true
	p := NewCachedRouteProvider(mock, c, "driving")

	r, err := p.GetRoute(context.Background(), []domain.LatLng{office, site})
	require.NoError(t, err)
	assert.Equal(t, 240, r.DurationSeconds)
}

func TestCachedRouteProviderDoesNotCacheFailures(t *testing.T) {
	mock := osm.NewMockRouteProvider(nil)
	c := newMemRouteCache()
	p := NewCachedRouteProvider(mock, c, "driving")

	_, err := p.GetRoute(context.Background(), []domain.LatLng{office, site})
	require.Error(t, err)
	assert.Empty(t, c.m)
}

func TestRouteKeyIsOrderSensitive(t *testing.T) {
	a := RouteKey("driving", []domain.LatLng{office, site})
	b := RouteKey("driving", []domain.LatLng{site, office})
	c := RouteKey("driving", []domain.LatLng{office, site})

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, c)
	assert.NotEqual(t, a, RouteKey("cycling", []domain.LatLng{office, site}))
}
