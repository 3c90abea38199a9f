package dto

import "mission-route-service/internal/domain"

type CreateTripRequest struct {
	UnitID      *int64 `json:"unit_id" validate:"omitempty,gt=0"`
	MissionDate string `json:"mission_date" validate:"omitempty,datetime=2006-01-02"`
}

type AddDestinationRequest struct {
	Lat   float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng   float64 `json:"lng" validate:"gte=-180,lte=180"`
	Title string  `json:"title" validate:"max=300"`
}

type SetOriginRequest struct {
	UnitID int64 `json:"unit_id" validate:"required,gt=0"`
}

type SetMissionDateRequest struct {
	MissionDate string `json:"mission_date" validate:"required,datetime=2006-01-02"`
}

type LegResponse struct {
	Points        []domain.LatLng `json:"points"`
	DistanceKm    float64         `json:"distance_km"`
	DurationHours float64         `json:"duration_hours"`
}

type RouteResponse struct {
	Forward LegResponse `json:"forward"`
	Return  LegResponse `json:"return"`
}

type TripResponse struct {
	ID           string               `json:"id"`
	State        string               `json:"state"`
	Revision     uint64               `json:"revision"`
	Origin       UnitResponse         `json:"origin"`
	Destinations []domain.Destination `json:"destinations"`
	Route        *RouteResponse       `json:"route"`

	ForwardDistanceKm float64 `json:"forward_distance_km"`
	ReturnDistanceKm  float64 `json:"return_distance_km"`
	TotalDistanceKm   float64 `json:"total_distance_km"`
	ForwardTimeHours  float64 `json:"forward_time_hours"`
	ReturnTimeHours   float64 `json:"return_time_hours"`
	TotalTimeHours    float64 `json:"total_time_hours"`

	MissionDate  string  `json:"mission_date"`
	RateTitle    string  `json:"rate_title"`
	RatePerKm    float64 `json:"rate_per_km"`
	NoActiveRate bool    `json:"no_active_rate"`
	FinalCost    int64   `json:"final_cost"`

	LastError string `json:"last_error,omitempty"`
	Notice    string `json:"notice,omitempty"`
	Error     string `json:"error,omitempty"`
}
