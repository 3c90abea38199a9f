package domain

import "errors"

// Routing service failed or returned no path.
var ErrRouteUnavailable = errors.New("route unavailable")

// No active rate setting covers the requested date.
var ErrRateNotFound = errors.New("no active rate for date")

// Rate schedule could not be queried.
var ErrRateLookupFailed = errors.New("rate lookup failed")

var ErrGeocodeFailed = errors.New("reverse geocoding failed")
var ErrPersistenceFailed = errors.New("persistence failed")

var ErrNotFound = errors.New("requested resource not found")
var ErrInvalidIndex = errors.New("destination index out of range")
var ErrInvalidPoint = errors.New("coordinates out of range")
var ErrNoOrigin = errors.New("trip has no origin")
var ErrEmptyTrip = errors.New("trip has no destinations")
var ErrTripNotReady = errors.New("trip computation is not ready")
