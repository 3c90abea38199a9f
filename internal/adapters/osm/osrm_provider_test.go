package osm

import (
	"context"
	"fmt"
	"mission-route-service/internal/domain"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okRoute = `{
	"code": "Ok",
	"routes": [{
		"distance": 1834.6,
		"duration": 241.4,
		"geometry": {"type": "LineString", "coordinates": [[48.7229, 31.3488], [48.7251, 31.3493], [48.73, 31.35]]}
	}]
}`

func TestOSRMProviderGetRoute(t *testing.T) {
	var gotPath, gotOverview, gotGeometries string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotOverview = r.URL.Query().Get("overview")
		gotGeometries = r.URL.Query().Get("geometries")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, okRoute)
	}))
	defer srv.Close()

	p, err := NewOSRMProvider(OSRMConfig{BaseURL: srv.URL, Profile: "driving", Timeout: time.Second})
	require.NoError(t, err)

	res, err := p.GetRoute(context.Background(), []domain.LatLng{
		{Lat: 31.3488, Lng: 48.7229},
		{Lat: 31.35, Lng: 48.73},
	})
	require.NoError(t, err)

	assert.Equal(t, "/route/v1/driving/48.722900,31.348800;48.730000,31.350000", gotPath)
	assert.Equal(t, "full", gotOverview)
	assert.Equal(t, "geojson", gotGeometries)

	assert.Equal(t, 1835, res.DistanceMeters)
	assert.Equal(t, 241, res.DurationSeconds)
	require.Len(t, res.Points, 3)
	assert.Equal(t, domain.LatLng{Lat: 31.3488, Lng: 48.7229}, res.Points[0])
}

func TestOSRMProviderNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":"NoRoute","message":"Impossible route between points","routes":[]}`)
	}))
	defer srv.Close()

	p, err := NewOSRMProvider(OSRMConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.GetRoute(context.Background(), []domain.LatLng{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoRoute")
}

func TestOSRMProviderRejectsShortChain(t *testing.T) {
	p, err := NewOSRMProvider(OSRMConfig{BaseURL: "http://unused"})
	require.NoError(t, err)

	_, err = p.GetRoute(context.Background(), []domain.LatLng{{Lat: 1, Lng: 1}})
	assert.Error(t, err)
}

func TestOSRMProviderSingleAttemptByDefault(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p, err := NewOSRMProvider(OSRMConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.GetRoute(context.Background(), []domain.LatLng{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}})
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())

	var he *httpStatusError
	assert.ErrorAs(t, err, &he)
}

func TestOSRMProviderRetriesTransientFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, okRoute)
	}))
	defer srv.Close()

	p, err := NewOSRMProvider(OSRMConfig{BaseURL: srv.URL, MaxAttempts: 2})
	require.NoError(t, err)

	res, err := p.GetRoute(context.Background(), []domain.LatLng{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}})
	require.NoError(t, err)
	assert.Equal(t, 1835, res.DistanceMeters)
	assert.Equal(t, int32(2), hits.Load())
}

func TestOSRMProviderDoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "bad coordinates", http.StatusBadRequest)
	}))
	defer srv.Close()

	p, err := NewOSRMProvider(OSRMConfig{BaseURL: srv.URL, MaxAttempts: 3})
	require.NoError(t, err)

	_, err = p.GetRoute(context.Background(), []domain.LatLng{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}})
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}
