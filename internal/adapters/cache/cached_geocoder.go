package cache

import (
	"context"
	"log"
	"mission-route-service/internal/domain"
	"mission-route-service/internal/ports"
	"time"

	"golang.org/x/sync/singleflight"
)

// Upper bound on a shared lookup, which outlives any single caller.
const geocodeLookupTimeout = 15 * time.Second

// Store of reverse-geocode labels, satisfied by SQLGeocodeCache.
type GeocodeStore interface {
	GetMany(ctx context.Context, keys []string) (map[string]string, error)
	PutMany(ctx context.Context, results map[string]string) error
}

// CachedGeocoder deduplicates concurrent lookups of the same point and
// persists labels so repeated clicks on one place hit the service once.
type CachedGeocoder struct {
	next  ports.ReverseGeocoder
	store GeocodeStore
	group singleflight.Group
}

func NewCachedGeocoder(next ports.ReverseGeocoder, store GeocodeStore) *CachedGeocoder {
	return &CachedGeocoder{next: next, store: store}
}

// ReverseGeocode returns the label for point. Concurrent callers for one
// point share a single lookup that runs detached from any caller's
// cancellation; a caller whose ctx ends stops waiting without aborting it
// for the others.
func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, point domain.LatLng) (string, error) {
	key := GeocodeKey(point)

	ch := c.group.DoChan(key, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), geocodeLookupTimeout)
		defer cancel()
		return c.lookup(lookupCtx, key, point)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *CachedGeocoder) lookup(ctx context.Context, key string, point domain.LatLng) (string, error) {
	if c.store != nil {
		hits, err := c.store.GetMany(ctx, []string{key})
		if err != nil {
			log.Printf("geocode cache read failed: key=%s err=%v", key, err)
		}
		if label, ok := hits[key]; ok {
			return label, nil
		}
	}

	label, err := c.next.ReverseGeocode(ctx, point)
	if err != nil {
		return "", err
	}

	if c.store != nil {
		if err := c.store.PutMany(ctx, map[string]string{key: label}); err != nil {
			log.Printf("geocode cache write failed: key=%s err=%v", key, err)
		}
	}

	return label, nil
}
