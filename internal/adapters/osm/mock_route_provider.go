package osm

import (
	"context"
	"fmt"
	"mission-route-service/internal/domain"
	"mission-route-service/internal/ports"
	"strings"
	"sync"
)

// MockLeg is a canned route for one exact waypoint chain.
type MockLeg struct {
	Waypoints []domain.LatLng
	Meters    int
	Seconds   int
}

// MockRouteProvider answers GetRoute from a fixed table and counts calls.
type MockRouteProvider struct {
	mu    sync.Mutex
	m     map[string]ports.RouteResult
	calls int
}

func NewMockRouteProvider(legs []MockLeg) *MockRouteProvider {
	m := make(map[string]ports.RouteResult, len(legs))
	for _, l := range legs {
		m[chainKey(l.Waypoints)] = ports.RouteResult{
			Points:          append([]domain.LatLng(nil), l.Waypoints...),
			DistanceMeters:  l.Meters,
			DurationSeconds: l.Seconds,
		}
	}
	return &MockRouteProvider{m: m}
}

func (p *MockRouteProvider) GetRoute(ctx context.Context, waypoints []domain.LatLng) (ports.RouteResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++

	r, ok := p.m[chainKey(waypoints)]
	if !ok {
		return ports.RouteResult{}, fmt.Errorf("missing route %s", chainKey(waypoints))
	}

	return r, nil
}

// Calls returns how many times GetRoute was invoked.
func (p *MockRouteProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func chainKey(waypoints []domain.LatLng) string {
	parts := make([]string, 0, len(waypoints))
	for _, w := range waypoints {
		parts = append(parts, fmt.Sprintf("%.6f,%.6f", w.Lat, w.Lng))
	}
	return strings.Join(parts, "|")
}
