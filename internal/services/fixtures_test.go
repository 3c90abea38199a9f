package services

import (
	"context"
	"errors"
	"mission-route-service/internal/adapters/osm"
	"mission-route-service/internal/adapters/repositories"
	"mission-route-service/internal/domain"
	"mission-route-service/internal/ports"
	"sync"
	"time"
)

var (
	office = domain.UnitLocation{ID: 1, Name: "Head office", Latitude: 31.3488, Longitude: 48.7229, IsDefault: true}
	site   = domain.UnitLocation{ID: 2, Name: "Calibration workshop", Latitude: 31.30, Longitude: 48.65}

	pointA = domain.LatLng{Lat: 31.35, Lng: 48.73}
	pointB = domain.LatLng{Lat: 31.40, Lng: 48.70}
	pointC = domain.LatLng{Lat: 31.45, Lng: 48.60}

	march2 = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	july15 = time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	sept1  = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
)

func mockLegs() []osm.MockLeg {
	o := office.Point()
	s := site.Point()
	return []osm.MockLeg{
		{Waypoints: []domain.LatLng{o, pointA}, Meters: 1500, Seconds: 240},
		{Waypoints: []domain.LatLng{pointA, o}, Meters: 2500, Seconds: 360},
		{Waypoints: []domain.LatLng{o, pointA, pointB}, Meters: 9000, Seconds: 900},
		{Waypoints: []domain.LatLng{pointB, o}, Meters: 7000, Seconds: 720},
		{Waypoints: []domain.LatLng{o, pointB}, Meters: 7000, Seconds: 700},
		{Waypoints: []domain.LatLng{s, pointA}, Meters: 6000, Seconds: 600},
		{Waypoints: []domain.LatLng{pointA, s}, Meters: 6000, Seconds: 600},
	}
}

func rateSchedule() *repositories.MemoryRateSchedule {
	h1End := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	return repositories.NewMemoryRateSchedule(
		domain.RateSetting{
			ID:        1,
			Title:     "2026 H1",
			RatePerKm: 12500,
			StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   &h1End,
			IsActive:  true,
		},
		domain.RateSetting{
			ID:        2,
			Title:     "2026 H2",
			RatePerKm: 13800,
			StartDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			IsActive:  true,
		},
	)
}

// gatedRouteProvider holds GetRoute for chains matched by hold until
// release is closed, announcing each held call on entered.
type gatedRouteProvider struct {
	next    ports.RouteProvider
	hold    func([]domain.LatLng) bool
	entered chan struct{}
	release chan struct{}
}

func newGatedRouteProvider(next ports.RouteProvider, hold func([]domain.LatLng) bool) *gatedRouteProvider {
	return &gatedRouteProvider{
		next:    next,
		hold:    hold,
		entered: make(chan struct{}, 4),
		release: make(chan struct{}),
	}
}

func (p *gatedRouteProvider) GetRoute(ctx context.Context, waypoints []domain.LatLng) (ports.RouteResult, error) {
	if p.hold(waypoints) {
		p.entered <- struct{}{}
		<-p.release
	}
	return p.next.GetRoute(ctx, waypoints)
}

// gatedRateSchedule holds lookups for one date until release is closed.
type gatedRateSchedule struct {
	next    ports.RateSchedule
	date    time.Time
	entered chan struct{}
	release chan struct{}
}

func (s *gatedRateSchedule) EffectiveRate(ctx context.Context, date time.Time) (domain.RateSetting, error) {
	if date.Equal(s.date) {
		s.entered <- struct{}{}
		<-s.release
	}
	return s.next.EffectiveRate(ctx, date)
}

type failingRateSchedule struct{}

func (failingRateSchedule) EffectiveRate(ctx context.Context, date time.Time) (domain.RateSetting, error) {
	return domain.RateSetting{}, errors.New("connection refused")
}

type stubGeocoder struct {
	label string
	err   error
}

func (g stubGeocoder) ReverseGeocode(ctx context.Context, p domain.LatLng) (string, error) {
	return g.label, g.err
}

type memUnits struct {
	mu    sync.Mutex
	units []domain.UnitLocation
}

func (m *memUnits) ListUnits(ctx context.Context) ([]domain.UnitLocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.UnitLocation(nil), m.units...), nil
}

func (m *memUnits) GetUnit(ctx context.Context, id int64) (domain.UnitLocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.units {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.UnitLocation{}, domain.ErrNotFound
}

func (m *memUnits) DefaultUnit(ctx context.Context) (domain.UnitLocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.units {
		if u.IsDefault {
			return u, nil
		}
	}
	return domain.UnitLocation{}, domain.ErrNotFound
}

func (m *memUnits) CreateUnit(ctx context.Context, u *domain.UnitLocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = int64(len(m.units) + 1)
	m.units = append(m.units, *u)
	return nil
}
