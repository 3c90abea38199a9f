package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mission-route-service/internal/domain"
	"mission-route-service/internal/ports"
	"time"
)

// ResolveRate looks up the per-km rate effective on date.
// A date with no active setting is not an error: the result has Found=false
// and PerKm=0 so the caller can flag it.
func ResolveRate(ctx context.Context, schedule ports.RateSchedule, date time.Time) (domain.ResolvedRate, error) {
	if schedule == nil {
		return domain.ResolvedRate{}, fmt.Errorf("resolve rate: %w: schedule is nil", domain.ErrRateLookupFailed)
	}

	day := domain.DateOnly(date)
	s, err := schedule.EffectiveRate(ctx, day)
	if errors.Is(err, domain.ErrRateNotFound) {
		return domain.ResolvedRate{}, nil
	}
	if err != nil {
		return domain.ResolvedRate{}, fmt.Errorf("resolve rate: %s: %w: %w", day.Format(time.DateOnly), domain.ErrRateLookupFailed, err)
	}

	return domain.NewResolvedRate(s), nil
}

// ComputeCost rounds totalKm*ratePerKm to the nearest whole currency unit,
// half away from zero. Negative or non-finite products cost nothing.
func ComputeCost(totalKm, ratePerKm float64) int64 {
	v := totalKm * ratePerKm
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return int64(math.Round(v))
}
