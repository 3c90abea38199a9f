package domain

import (
	"errors"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func TestRateSettingCovers(t *testing.T) {
	s := RateSetting{
		Title:     "Q1",
		RatePerKm: 12,
		StartDate: day(2026, 1, 1),
		EndDate:   ptr(day(2026, 3, 31)),
		IsActive:  true,
	}

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"before start", day(2025, 12, 31), false},
		{"on start", day(2026, 1, 1), true},
		{"inside", day(2026, 2, 14), true},
		{"on end", day(2026, 3, 31), true},
		{"on end late in the day", time.Date(2026, 3, 31, 23, 59, 0, 0, time.UTC), true},
		{"after end", day(2026, 4, 1), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.Covers(tc.date); got != tc.want {
				t.Errorf("Covers(%v) = %v, want %v", tc.date, got, tc.want)
			}
		})
	}

	s.IsActive = false
	if s.Covers(day(2026, 2, 1)) {
		t.Errorf("inactive setting should never cover a date")
	}
}

func TestRateSettingOpenEnded(t *testing.T) {
	s := RateSetting{StartDate: day(2026, 1, 1), IsActive: true}
	if !s.Covers(day(2040, 6, 1)) {
		t.Errorf("open ended setting should cover dates far in the future")
	}
}

func TestSelectRateGapReturnsNotFound(t *testing.T) {
	settings := []RateSetting{
		{ID: 1, Title: "H1", RatePerKm: 10, StartDate: day(2026, 1, 1), EndDate: ptr(day(2026, 3, 31)), IsActive: true},
		{ID: 2, Title: "H2", RatePerKm: 11, StartDate: day(2026, 5, 1), IsActive: true},
	}

	_, err := SelectRate(settings, day(2026, 4, 15))
	if !errors.Is(err, ErrRateNotFound) {
		t.Fatalf("err = %v, want ErrRateNotFound", err)
	}

	got, err := SelectRate(settings, day(2026, 5, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 2 {
		t.Errorf("selected rate %d, want 2", got.ID)
	}
}

func TestSelectRateOverlapPrefersLatestStart(t *testing.T) {
	settings := []RateSetting{
		{ID: 1, RatePerKm: 10, StartDate: day(2026, 1, 1), IsActive: true},
		{ID: 2, RatePerKm: 12, StartDate: day(2026, 2, 1), IsActive: true},
		{ID: 3, RatePerKm: 14, StartDate: day(2026, 2, 1), IsActive: true},
	}

	got, err := SelectRate(settings, day(2026, 2, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 3 {
		t.Errorf("selected rate %d, want 3", got.ID)
	}
}

func TestRateSettingValidate(t *testing.T) {
	bad := RateSetting{Title: "x", RatePerKm: 1, StartDate: day(2026, 2, 1), EndDate: ptr(day(2026, 1, 1))}
	if err := bad.Validate(); err == nil {
		t.Errorf("expected error for inverted interval")
	}

	neg := RateSetting{Title: "x", RatePerKm: -1, StartDate: day(2026, 2, 1)}
	if err := neg.Validate(); err == nil {
		t.Errorf("expected error for negative rate")
	}
}
