package cache

import (
	"mission-route-service/internal/domain"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// RouteKey derives a stable cache key for a waypoint chain under a profile.
// Coordinates are quantized to 6 decimals (~0.1 m) so equal inputs hash equally.
func RouteKey(profile string, waypoints []domain.LatLng) string {
	var b strings.Builder
	b.WriteString(profile)
	for _, w := range waypoints {
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(w.Lat, 'f', 6, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(w.Lng, 'f', 6, 64))
	}

	return "route:" + profile + ":" + strconv.FormatUint(xxhash.Sum64String(b.String()), 16)
}

// GeocodeKey quantizes a point to 5 decimals (~1 m) for reverse-geocode lookups.
func GeocodeKey(p domain.LatLng) string {
	return strconv.FormatFloat(p.Lat, 'f', 5, 64) + "," + strconv.FormatFloat(p.Lng, 'f', 5, 64)
}
