package dto

// Dates are calendar days formatted as YYYY-MM-DD.
type RateResponse struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	RatePerKm float64 `json:"rate_per_km"`
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date"`
	IsActive  bool    `json:"is_active"`
}

type ListRatesResponse struct {
	Rates []RateResponse `json:"rates"`
}

type CreateRateRequest struct {
	Title     string  `json:"title" validate:"required,max=200"`
	RatePerKm float64 `json:"rate_per_km" validate:"gte=0"`
	StartDate string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	IsActive  *bool   `json:"is_active"`
}

type EffectiveRateResponse struct {
	Date         string        `json:"date"`
	Found        bool          `json:"found"`
	RatePerKm    float64       `json:"rate_per_km"`
	Rate         *RateResponse `json:"rate,omitempty"`
	NoActiveRate bool          `json:"no_active_rate"`
}
