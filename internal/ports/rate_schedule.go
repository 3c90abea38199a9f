package ports

import (
	"context"
	"mission-route-service/internal/domain"
	"time"
)

// Port: lookup of the per-kilometre rate effective on a calendar date.
type RateSchedule interface {
	// Return the rate effective on date, or domain.ErrRateNotFound.
	EffectiveRate(ctx context.Context, date time.Time) (domain.RateSetting, error)
}

// Port: rate schedule plus the reference-data operations behind it.
type RateRepository interface {
	RateSchedule
	ListRates(ctx context.Context) ([]domain.RateSetting, error)
	CreateRate(ctx context.Context, rate *domain.RateSetting) error
}
