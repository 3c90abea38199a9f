package domain

import (
	"time"

	"github.com/google/uuid"
)

// Free-form trip metadata entered by the user.
type MissionDetails struct {
	Title       string `diff:"title"`
	Description string `diff:"description"`
	Driver      string `diff:"driver"`
	Vehicle     string `diff:"vehicle"`
	Notes       string `diff:"notes"`
}

// MissionOrder is the persisted aggregate of a completed trip session.
// Distance, time and cost fields are always copied from a computed trip,
// never entered by hand.
type MissionOrder struct {
	ID           uuid.UUID     `diff:"-"`
	UnitID       int64         `diff:"unit_id"`
	UnitName     string        `diff:"unit_name"`
	Origin       LatLng        `diff:"origin"`
	Destinations []Destination `diff:"destinations"`
	MissionDate  time.Time     `diff:"mission_date"`

	ForwardPath []LatLng `diff:"-"`
	ReturnPath  []LatLng `diff:"-"`

	ForwardDistanceKm float64 `diff:"forward_distance_km"`
	ReturnDistanceKm  float64 `diff:"return_distance_km"`
	TotalDistanceKm   float64 `diff:"total_distance_km"`
	ForwardTimeHours  float64 `diff:"forward_time_hours"`
	ReturnTimeHours   float64 `diff:"return_time_hours"`
	TotalTimeHours    float64 `diff:"total_time_hours"`

	RateTitle string  `diff:"rate_title"`
	RatePerKm float64 `diff:"rate_per_km"`
	RateFound bool    `diff:"rate_found"`
	FinalCost int64   `diff:"final_cost"`

	Details MissionDetails `diff:"details"`

	CreatedAt time.Time `diff:"-"`
	UpdatedAt time.Time `diff:"-"`
}

// One field-level modification recorded when a mission order is updated.
type MissionChange struct {
	Path []string
	From any
	To   any
}
