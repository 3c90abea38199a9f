package repositories

import (
	"context"
	"mission-route-service/internal/domain"
	"sort"
	"sync"
	"time"
)

// MemoryRateSchedule keeps rate settings in process memory.
type MemoryRateSchedule struct {
	mu     sync.RWMutex
	rates  []domain.RateSetting
	nextID int64
}

func NewMemoryRateSchedule(rates ...domain.RateSetting) *MemoryRateSchedule {
	s := &MemoryRateSchedule{}
	for _, r := range rates {
		s.add(r)
	}
	return s
}

func (s *MemoryRateSchedule) EffectiveRate(ctx context.Context, date time.Time) (domain.RateSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.SelectRate(s.rates, date)
}

func (s *MemoryRateSchedule) ListRates(ctx context.Context) ([]domain.RateSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]domain.RateSetting(nil), s.rates...)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryRateSchedule) CreateRate(ctx context.Context, rate *domain.RateSetting) error {
	if err := rate.Validate(); err != nil {
		return err
	}
	rate.ID = s.add(*rate)
	return nil
}

func (s *MemoryRateSchedule) add(r domain.RateSetting) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == 0 {
		s.nextID++
		r.ID = s.nextID
	} else if r.ID > s.nextID {
		s.nextID = r.ID
	}
	s.rates = append(s.rates, r)
	return r.ID
}
