package osm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mission-route-service/internal/domain"
	"mission-route-service/internal/platform/obs"
	"mission-route-service/internal/ports"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// OSRMProvider implements RouteProvider using the OSRM route service.
//
// Waypoints are sent in order; the full route geometry is requested as
// GeoJSON so the path can be rendered and stored without polyline decoding.
// The provider is safe for concurrent use.
type OSRMProvider struct {
	requester
	baseURL string
	profile string
}

type OSRMConfig struct {
	BaseURL     string
	Profile     string
	Timeout     time.Duration
	MaxAttempts int
}

func NewOSRMProvider(cfg OSRMConfig) (*OSRMProvider, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("OSRM base url is empty")
	}

	profile := strings.TrimSpace(cfg.Profile)
	if profile == "" {
		profile = "driving"
	}

	return &OSRMProvider{
		requester: newRequester(cfg.Timeout, "", cfg.MaxAttempts),
		baseURL:   base,
		profile:   profile,
	}, nil
}

// Profile is the OSRM routing profile used for every request.
func (o *OSRMProvider) Profile() string { return o.profile }

type osrmRouteResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// GetRoute requests the driving route through waypoints in the given order.
func (o *OSRMProvider) GetRoute(
	ctx context.Context,
	waypoints []domain.LatLng,
) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "osrm.GetRoute")(&err)

	if len(waypoints) < 2 {
		return ports.RouteResult{}, fmt.Errorf("get OSRM route: need at least 2 waypoints, got %d", len(waypoints))
	}

	for i, w := range waypoints {
		if !w.Valid() {
			return ports.RouteResult{}, fmt.Errorf("get OSRM route: waypoint %d: %w", i, domain.ErrInvalidPoint)
		}
	}

	endpoint := fmt.Sprintf("%s/route/v1/%s/%s", o.baseURL, o.profile, encodeWaypoints(waypoints))

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("overview", "full")
		q.Set("geometries", "geojson")
		q.Set("steps", "false")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded osrmRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.RouteResult{}, fmt.Errorf("decode route response: %w", err)
	}

	return normalizeRoute(decoded)
}

// normalizeRoute converts the OSRM payload into the port's result type.
func normalizeRoute(decoded osrmRouteResponse) (ports.RouteResult, error) {
	if decoded.Code != "Ok" {
		return ports.RouteResult{}, fmt.Errorf("OSRM returned code %q: %s", decoded.Code, decoded.Message)
	}

	if len(decoded.Routes) == 0 {
		return ports.RouteResult{}, errors.New("OSRM returned no routes")
	}

	route := decoded.Routes[0]

	points := make([]domain.LatLng, 0, len(route.Geometry.Coordinates))
	for i, c := range route.Geometry.Coordinates {
		if len(c) < 2 {
			return ports.RouteResult{}, fmt.Errorf("invalid coordinate format at index %d", i)
		}
		// GeoJSON coordinates are [lng, lat].
		points = append(points, domain.LatLng{Lat: c[1], Lng: c[0]})
	}

	// OSRM returns float metrics; round to nearest integer for domain consistency.
	return ports.RouteResult{
		Points:          points,
		DistanceMeters:  int(math.Round(route.Distance)),
		DurationSeconds: int(math.Round(route.Duration)),
	}, nil
}

func encodeWaypoints(waypoints []domain.LatLng) string {
	parts := make([]string, 0, len(waypoints))
	for _, w := range waypoints {
		parts = append(parts,
			strconv.FormatFloat(w.Lng, 'f', 6, 64)+","+strconv.FormatFloat(w.Lat, 'f', 6, 64),
		)
	}
	return strings.Join(parts, ";")
}
