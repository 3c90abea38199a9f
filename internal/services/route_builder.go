package services

import (
	"context"
	"errors"
	"fmt"
	"mission-route-service/internal/domain"
	"mission-route-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

// BuildRoute fetches the forward leg (origin through every destination in
// order) and the return leg (last destination back to origin).
//
// An empty destination list yields a nil route and no network calls.
// The two legs are independent requests and are fetched concurrently; if
// either fails the whole build fails with domain.ErrRouteUnavailable and
// no partial route is returned.
func BuildRoute(
	ctx context.Context,
	provider ports.RouteProvider,
	origin domain.LatLng,
	destinations []domain.LatLng,
) (*domain.TripRoute, error) {
	if len(destinations) == 0 {
		return nil, nil
	}
	if provider == nil {
		return nil, errors.New("build route: provider must be non-nil")
	}
	if !origin.Valid() {
		return nil, fmt.Errorf("build route: origin %v: %w", origin, domain.ErrInvalidPoint)
	}

	forwardChain := make([]domain.LatLng, 0, len(destinations)+1)
	forwardChain = append(forwardChain, origin)
	forwardChain = append(forwardChain, destinations...)

	returnChain := []domain.LatLng{destinations[len(destinations)-1], origin}

	var forward, back ports.RouteResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := provider.GetRoute(gctx, forwardChain)
		if err != nil {
			return fmt.Errorf("build route: forward leg: %w: %w", domain.ErrRouteUnavailable, err)
		}
		forward = r
		return nil
	})
	g.Go(func() error {
		r, err := provider.GetRoute(gctx, returnChain)
		if err != nil {
			return fmt.Errorf("build route: return leg: %w: %w", domain.ErrRouteUnavailable, err)
		}
		back = r
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.TripRoute{
		Forward: toLeg(forward),
		Return:  toLeg(back),
	}, nil
}

func toLeg(r ports.RouteResult) domain.RouteLeg {
	return domain.RouteLeg{
		Points:        append([]domain.LatLng(nil), r.Points...),
		DistanceKm:    float64(r.DistanceMeters) / 1000,
		DurationHours: float64(r.DurationSeconds) / 3600,
	}
}
