package osm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mission-route-service/internal/domain"
	"mission-route-service/internal/platform/obs"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// NominatimGeocoder implements ReverseGeocoder using the Nominatim /reverse endpoint.
type NominatimGeocoder struct {
	requester
	baseURL string
}

type NominatimConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

func NewNominatimGeocoder(cfg NominatimConfig) (*NominatimGeocoder, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("nominatim base url is empty")
	}

	// Nominatim's usage policy rejects requests without an identifying agent.
	if strings.TrimSpace(cfg.UserAgent) == "" {
		return nil, errors.New("nominatim user agent is empty")
	}

	return &NominatimGeocoder{
		requester: newRequester(cfg.Timeout, cfg.UserAgent, 1),
		baseURL:   base,
	}, nil
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Name        string `json:"name"`
	Error       string `json:"error"`
}

// ReverseGeocode returns the display label for point.
func (n *NominatimGeocoder) ReverseGeocode(
	ctx context.Context,
	point domain.LatLng,
) (_ string, err error) {
	defer obs.Time(ctx, "nominatim.ReverseGeocode")(&err)

	if !point.Valid() {
		return "", fmt.Errorf("reverse geocode: %w", domain.ErrInvalidPoint)
	}

	endpoint := n.baseURL + "/reverse"

	resp, err := n.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := n.newRequest(ctx, http.MethodGet, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("format", "jsonv2")
		q.Set("lat", strconv.FormatFloat(point.Lat, 'f', 6, 64))
		q.Set("lon", strconv.FormatFloat(point.Lng, 'f', 6, 64))
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode reverse response: %w", err)
	}

	if decoded.Error != "" {
		return "", fmt.Errorf("nominatim: %s", decoded.Error)
	}

	label := strings.TrimSpace(decoded.DisplayName)
	if label == "" {
		label = strings.TrimSpace(decoded.Name)
	}
	if label == "" {
		return "", fmt.Errorf("no reverse geocode result for %v,%v", point.Lat, point.Lng)
	}

	return label, nil
}
