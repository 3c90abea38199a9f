package ports

import (
	"context"
	"mission-route-service/internal/domain"
)

// Contract for turning a coordinate into a human-readable place label.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, point domain.LatLng) (string, error)
}
