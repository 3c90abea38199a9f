package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mission-route-service/internal/adapters/osm"
	"mission-route-service/internal/adapters/repositories"
	"mission-route-service/internal/api/dto"
	"mission-route-service/internal/domain"
	"mission-route-service/internal/services"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	office = domain.UnitLocation{ID: 1, Name: "Head office", Latitude: 31.3488, Longitude: 48.7229, IsDefault: true}
	siteA  = domain.LatLng{Lat: 31.35, Lng: 48.73}
)

type memUnits struct{ units []domain.UnitLocation }

func (m *memUnits) ListUnits(ctx context.Context) ([]domain.UnitLocation, error) {
	return m.units, nil
}

func (m *memUnits) GetUnit(ctx context.Context, id int64) (domain.UnitLocation, error) {
	for _, u := range m.units {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.UnitLocation{}, domain.ErrNotFound
}

func (m *memUnits) DefaultUnit(ctx context.Context) (domain.UnitLocation, error) {
	for _, u := range m.units {
		if u.IsDefault {
			return u, nil
		}
	}
	return domain.UnitLocation{}, domain.ErrNotFound
}

func (m *memUnits) CreateUnit(ctx context.Context, u *domain.UnitLocation) error {
	u.ID = int64(len(m.units) + 1)
	m.units = append(m.units, *u)
	return nil
}

type memMissions struct {
	mu     sync.Mutex
	orders map[uuid.UUID]domain.MissionOrder
}

func (m *memMissions) CreateMission(ctx context.Context, o *domain.MissionOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = uuid.New()
	m.orders[o.ID] = *o
	return nil
}

func (m *memMissions) UpdateMission(ctx context.Context, o *domain.MissionOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[o.ID]; !ok {
		return domain.ErrNotFound
	}
	m.orders[o.ID] = *o
	return nil
}

func (m *memMissions) GetMission(ctx context.Context, id uuid.UUID) (*domain.MissionOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (m *memMissions) ListMissions(ctx context.Context) ([]*domain.MissionOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.MissionOrder, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, &o)
	}
	return out, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	provider := osm.NewMockRouteProvider([]osm.MockLeg{
		{Waypoints: []domain.LatLng{office.Point(), siteA}, Meters: 1500, Seconds: 240},
		{Waypoints: []domain.LatLng{siteA, office.Point()}, Meters: 2500, Seconds: 360},
	})
	rates := repositories.NewMemoryRateSchedule(domain.RateSetting{
		ID:        1,
		Title:     "2026",
		RatePerKm: 12500,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	})
	units := &memUnits{units: []domain.UnitLocation{office}}

	sessions := services.NewTripSessions(services.TripDeps{Routes: provider, Rates: rates}, units)
	router := NewRouter(Deps{
		Units:    units,
		Rates:    rates,
		Sessions: sessions,
		Missions: services.NewMissionService(&memMissions{orders: make(map[uuid.UUID]domain.MissionOrder)}),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	if out != nil && res.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	var res map[string]string
	status := doJSON(t, http.MethodGet, srv.URL+"/health", nil, &res)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", res["status"])
}

func TestTripLifecycle(t *testing.T) {
	srv := newTestServer(t)

	var trip dto.TripResponse
	status := doJSON(t, http.MethodPost, srv.URL+"/trips", map[string]any{"mission_date": "2026-03-02"}, &trip)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "empty", trip.State)
	assert.Equal(t, "Head office", trip.Origin.Name)
	assert.Equal(t, 12500.0, trip.RatePerKm)

	base := srv.URL + "/trips/" + trip.ID

	status = doJSON(t, http.MethodPost, base+"/destinations", map[string]any{"lat": 31.35, "lng": 48.73, "title": "Site A"}, &trip)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", trip.State)
	assert.Equal(t, 4.0, trip.TotalDistanceKm)
	assert.Equal(t, int64(50000), trip.FinalCost)
	require.NotNil(t, trip.Route)
	assert.Len(t, trip.Route.Forward.Points, 2)

	status = doJSON(t, http.MethodPut, base+"/mission-date", map[string]any{"mission_date": "2025-12-31"}, &trip)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, trip.NoActiveRate)
	assert.Zero(t, trip.FinalCost)
	assert.Equal(t, 4.0, trip.TotalDistanceKm)

	status = doJSON(t, http.MethodPut, base+"/mission-date", map[string]any{"mission_date": "2026-03-02"}, &trip)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(50000), trip.FinalCost)

	status = doJSON(t, http.MethodDelete, base+"/destinations/3", nil, &trip)
	assert.Equal(t, http.StatusBadRequest, status)

	status = doJSON(t, http.MethodDelete, base+"/destinations/0", nil, &trip)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "empty", trip.State)
	assert.Nil(t, trip.Route)
	assert.Zero(t, trip.TotalDistanceKm)
	assert.Zero(t, trip.FinalCost)

	status = doJSON(t, http.MethodDelete, base, nil, nil)
	assert.Equal(t, http.StatusNoContent, status)

	var errRes map[string]string
	status = doJSON(t, http.MethodGet, base, nil, &errRes)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTripRouteFailureReturnsSnapshot(t *testing.T) {
	srv := newTestServer(t)

	var trip dto.TripResponse
	require.Equal(t, http.StatusCreated, doJSON(t, http.MethodPost, srv.URL+"/trips", map[string]any{}, &trip))

	status := doJSON(t, http.MethodPost, srv.URL+"/trips/"+trip.ID+"/destinations", map[string]any{"lat": 10, "lng": 10, "title": "nowhere"}, &trip)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "error", trip.State)
	assert.Equal(t, domain.ErrRouteUnavailable.Error(), trip.Error)
	assert.Len(t, trip.Destinations, 1)
}

func TestTripValidation(t *testing.T) {
	srv := newTestServer(t)

	var trip dto.TripResponse
	require.Equal(t, http.StatusCreated, doJSON(t, http.MethodPost, srv.URL+"/trips", map[string]any{}, &trip))

	var res map[string]string
	status := doJSON(t, http.MethodPost, srv.URL+"/trips/"+trip.ID+"/destinations", map[string]any{"lat": 91, "lng": 0}, &res)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, res["error"], "validation failed")

	status = doJSON(t, http.MethodPost, srv.URL+"/trips/"+trip.ID+"/destinations", map[string]any{"lat": 1, "lng": 2, "extra": true}, &res)
	assert.Equal(t, http.StatusBadRequest, status)

	status = doJSON(t, http.MethodPut, srv.URL+"/trips/"+trip.ID+"/mission-date", map[string]any{"mission_date": "02/03/2026"}, &res)
	assert.Equal(t, http.StatusBadRequest, status)

	status = doJSON(t, http.MethodPost, srv.URL+"/trips", map[string]any{"unit_id": 9}, &res)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCreateTripWithoutBody(t *testing.T) {
	srv := newTestServer(t)

	var trip dto.TripResponse
	status := doJSON(t, http.MethodPost, srv.URL+"/trips", nil, &trip)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "empty", trip.State)
	assert.Equal(t, "Head office", trip.Origin.Name)
	assert.NotEmpty(t, trip.ID)

	var res map[string]string
	status = doJSON(t, http.MethodPost, srv.URL+"/trips/"+trip.ID+"/destinations", nil, &res)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid json body", res["error"])
}

func TestMissionSubmitAndUpdate(t *testing.T) {
	srv := newTestServer(t)

	var trip dto.TripResponse
	require.Equal(t, http.StatusCreated, doJSON(t, http.MethodPost, srv.URL+"/trips", map[string]any{"mission_date": "2026-03-02"}, &trip))

	var errRes map[string]string
	status := doJSON(t, http.MethodPost, srv.URL+"/missions", map[string]any{"trip_id": trip.ID, "title": "Calibration"}, &errRes)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	require.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, srv.URL+"/trips/"+trip.ID+"/destinations", map[string]any{"lat": 31.35, "lng": 48.73}, &trip))

	var mission dto.MissionResponse
	status = doJSON(t, http.MethodPost, srv.URL+"/missions", map[string]any{"trip_id": trip.ID, "title": "Calibration", "driver": "R. Karimi"}, &mission)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, int64(50000), mission.FinalCost)
	assert.Equal(t, "2026-03-02", mission.MissionDate)

	var updated dto.UpdateMissionResponse
	status = doJSON(t, http.MethodPut, srv.URL+"/missions/"+mission.ID, map[string]any{"trip_id": trip.ID, "title": "Calibration", "driver": "S. Ahmadi"}, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "S. Ahmadi", updated.Mission.Driver)
	require.NotEmpty(t, updated.Changes)
	assert.Equal(t, []string{"details", "driver"}, updated.Changes[0].Path)

	var list dto.ListMissionsResponse
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, srv.URL+"/missions", nil, &list))
	assert.Len(t, list.Missions, 1)

	status = doJSON(t, http.MethodGet, srv.URL+"/missions/"+uuid.NewString(), nil, &errRes)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRatesAndUnits(t *testing.T) {
	srv := newTestServer(t)

	var eff dto.EffectiveRateResponse
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, srv.URL+"/rates/effective?date=2025-06-01", nil, &eff))
	assert.True(t, eff.NoActiveRate)
	assert.Nil(t, eff.Rate)

	var rate dto.RateResponse
	status := doJSON(t, http.MethodPost, srv.URL+"/rates", map[string]any{
		"title":       "2025",
		"rate_per_km": 11000,
		"start_date":  "2025-01-01",
		"end_date":    "2025-12-31",
	}, &rate)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, rate.IsActive)

	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, srv.URL+"/rates/effective?date=2025-06-01", nil, &eff))
	assert.True(t, eff.Found)
	assert.Equal(t, 11000.0, eff.RatePerKm)

	var errRes map[string]string
	status = doJSON(t, http.MethodPost, srv.URL+"/rates", map[string]any{
		"title":       "backwards",
		"rate_per_km": 1,
		"start_date":  "2025-12-31",
		"end_date":    "2025-01-01",
	}, &errRes)
	assert.Equal(t, http.StatusBadRequest, status)

	var unit dto.UnitResponse
	status = doJSON(t, http.MethodPost, srv.URL+"/units", map[string]any{"name": "Workshop", "latitude": 31.3, "longitude": 48.65}, &unit)
	require.Equal(t, http.StatusCreated, status)

	var units dto.ListUnitsResponse
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, srv.URL+"/units", nil, &units))
	assert.Len(t, units.Units, 2)
}

func TestTripStream(t *testing.T) {
	srv := newTestServer(t)

	var trip dto.TripResponse
	require.Equal(t, http.StatusCreated, doJSON(t, http.MethodPost, srv.URL+"/trips", map[string]any{"mission_date": "2026-03-02"}, &trip))

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/trips/" + trip.ID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var first dto.TripResponse
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "empty", first.State)

	require.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, srv.URL+"/trips/"+trip.ID+"/destinations", map[string]any{"lat": 31.35, "lng": 48.73, "title": "A"}, nil))

	var got dto.TripResponse
	for got.State != "ready" {
		require.NoError(t, conn.ReadJSON(&got))
	}
	assert.Equal(t, int64(50000), got.FinalCost)

	require.Equal(t, http.StatusNoContent, doJSON(t, http.MethodDelete, srv.URL+"/trips/"+trip.ID, nil, nil))

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
			break
		}
	}
}
