package domain

import (
	"fmt"
	"time"
)

// RateSetting is an effective-dated per-kilometre rate. The interval is
// inclusive on both ends at date granularity; a nil EndDate leaves it open.
type RateSetting struct {
	ID        int64
	Title     string
	RatePerKm float64
	StartDate time.Time
	EndDate   *time.Time
	IsActive  bool
}

// Covers reports whether the setting is active and its interval contains date.
func (r RateSetting) Covers(date time.Time) bool {
	if !r.IsActive {
		return false
	}

	day := DateOnly(date)
	if day.Before(DateOnly(r.StartDate)) {
		return false
	}
	if r.EndDate != nil && day.After(DateOnly(*r.EndDate)) {
		return false
	}
	return true
}

// Validate checks the interval and rate are well-formed.
func (r RateSetting) Validate() error {
	if r.RatePerKm < 0 {
		return fmt.Errorf("rate setting %q: rate per km must not be negative", r.Title)
	}
	if r.StartDate.IsZero() {
		return fmt.Errorf("rate setting %q: start date is required", r.Title)
	}
	if r.EndDate != nil && DateOnly(*r.EndDate).Before(DateOnly(r.StartDate)) {
		return fmt.Errorf("rate setting %q: end date precedes start date", r.Title)
	}
	return nil
}

// SelectRate picks the setting effective on date from an in-memory list.
// Overlapping intervals are not expected; if they occur the latest start
// date wins, then the highest ID, matching the SQL repository ordering.
func SelectRate(settings []RateSetting, date time.Time) (RateSetting, error) {
	var (
		best  RateSetting
		found bool
	)

	for _, s := range settings {
		if !s.Covers(date) {
			continue
		}
		if !found || s.StartDate.After(best.StartDate) || (s.StartDate.Equal(best.StartDate) && s.ID > best.ID) {
			best = s
			found = true
		}
	}

	if !found {
		return RateSetting{}, ErrRateNotFound
	}
	return best, nil
}

// ResolvedRate is the outcome of a rate lookup for a mission date.
// When Found is false PerKm is zero and callers must surface an explicit
// "no active rate" warning instead of a silent zero cost.
type ResolvedRate struct {
	Setting *RateSetting
	PerKm   float64
	Found   bool
}

func NewResolvedRate(s RateSetting) ResolvedRate {
	return ResolvedRate{Setting: &s, PerKm: s.RatePerKm, Found: true}
}

func (r ResolvedRate) Title() string {
	if r.Setting == nil {
		return ""
	}
	return r.Setting.Title
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
