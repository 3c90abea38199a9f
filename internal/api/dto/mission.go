package dto

import (
	"mission-route-service/internal/domain"
	"time"
)

type MissionRequest struct {
	TripID      string `json:"trip_id" validate:"required,uuid"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Driver      string `json:"driver" validate:"max=200"`
	Vehicle     string `json:"vehicle" validate:"max=200"`
	Notes       string `json:"notes" validate:"max=2000"`
}

type MissionResponse struct {
	ID           string               `json:"id"`
	UnitID       int64                `json:"unit_id"`
	UnitName     string               `json:"unit_name"`
	Origin       domain.LatLng        `json:"origin"`
	Destinations []domain.Destination `json:"destinations"`
	MissionDate  string               `json:"mission_date"`
	ForwardPath  []domain.LatLng      `json:"forward_path"`
	ReturnPath   []domain.LatLng      `json:"return_path"`

	ForwardDistanceKm float64 `json:"forward_distance_km"`
	ReturnDistanceKm  float64 `json:"return_distance_km"`
	TotalDistanceKm   float64 `json:"total_distance_km"`
	ForwardTimeHours  float64 `json:"forward_time_hours"`
	ReturnTimeHours   float64 `json:"return_time_hours"`
	TotalTimeHours    float64 `json:"total_time_hours"`

	RateTitle string  `json:"rate_title"`
	RatePerKm float64 `json:"rate_per_km"`
	RateFound bool    `json:"rate_found"`
	FinalCost int64   `json:"final_cost"`

	Title       string `json:"title"`
	Description string `json:"description"`
	Driver      string `json:"driver"`
	Vehicle     string `json:"vehicle"`
	Notes       string `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListMissionsResponse struct {
	Missions []MissionResponse `json:"missions"`
}

type ChangeResponse struct {
	Path []string `json:"path"`
	From any      `json:"from"`
	To   any      `json:"to"`
}

type UpdateMissionResponse struct {
	Mission MissionResponse  `json:"mission"`
	Changes []ChangeResponse `json:"changes"`
}
