package services

import (
	"context"
	"errors"
	"math"
	"mission-route-service/internal/adapters/osm"
	"mission-route-service/internal/domain"
	"testing"
)

func TestBuildRouteForwardAndReturn(t *testing.T) {
	provider := osm.NewMockRouteProvider(mockLegs())

	route, err := BuildRoute(context.Background(), provider, office.Point(), []domain.LatLng{pointA, pointB})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(route.Forward.Points); got != 3 {
		t.Fatalf("forward points = %d, want 3", got)
	}
	if route.Forward.Points[0] != office.Point() || route.Forward.Points[2] != pointB {
		t.Fatalf("forward leg must run origin -> ... -> last destination, got %v", route.Forward.Points)
	}
	if route.Return.Points[0] != pointB || route.Return.Points[1] != office.Point() {
		t.Fatalf("return leg must run last destination -> origin, got %v", route.Return.Points)
	}

	totals := route.Totals()
	if totals.ForwardDistanceKm != 9 || totals.ReturnDistanceKm != 7 {
		t.Fatalf("legs = %v / %v km, want 9 / 7", totals.ForwardDistanceKm, totals.ReturnDistanceKm)
	}
	if totals.TotalDistanceKm != totals.ForwardDistanceKm+totals.ReturnDistanceKm {
		t.Fatalf("total %v != forward + return", totals.TotalDistanceKm)
	}
	if math.Abs(totals.TotalTimeHours-0.45) > 1e-9 {
		t.Fatalf("total time = %v h, want 0.45", totals.TotalTimeHours)
	}
	if provider.Calls() != 2 {
		t.Fatalf("provider calls = %d, want 2", provider.Calls())
	}
}

func TestBuildRouteEmptyMakesNoCalls(t *testing.T) {
	provider := osm.NewMockRouteProvider(nil)

	route, err := BuildRoute(context.Background(), provider, office.Point(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route != nil {
		t.Fatalf("expected nil route, got %+v", route)
	}
	if provider.Calls() != 0 {
		t.Fatalf("provider calls = %d, want 0", provider.Calls())
	}
}

func TestBuildRouteFailureIsRouteUnavailable(t *testing.T) {
	// Forward leg exists, return leg does not.
	provider := osm.NewMockRouteProvider([]osm.MockLeg{
		{Waypoints: []domain.LatLng{office.Point(), pointC}, Meters: 1000, Seconds: 100},
	})

	route, err := BuildRoute(context.Background(), provider, office.Point(), []domain.LatLng{pointC})
	if !errors.Is(err, domain.ErrRouteUnavailable) {
		t.Fatalf("err = %v, want ErrRouteUnavailable", err)
	}
	if route != nil {
		t.Fatalf("partial route returned: %+v", route)
	}
}

func TestBuildRouteRejectsInvalidOrigin(t *testing.T) {
	provider := osm.NewMockRouteProvider(mockLegs())

	_, err := BuildRoute(context.Background(), provider, domain.LatLng{Lat: 120, Lng: 0}, []domain.LatLng{pointA})
	if !errors.Is(err, domain.ErrInvalidPoint) {
		t.Fatalf("err = %v, want ErrInvalidPoint", err)
	}
}
