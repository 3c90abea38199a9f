package domain

// Lifecycle of a trip-builder session.
type TripState string

const (
	TripEmpty     TripState = "empty"
	TripComputing TripState = "computing"
	TripReady     TripState = "ready"
	TripError     TripState = "error"
)
