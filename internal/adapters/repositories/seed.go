package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mission-route-service/internal/domain"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

type UnitSeed struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	IsDefault bool    `json:"is_default"`
}

type RateSeed struct {
	Title     string  `json:"title"`
	RatePerKm float64 `json:"rate_per_km"`
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date"`
	IsActive  *bool   `json:"is_active"`
}

type ReferenceSeed struct {
	Units []UnitSeed `json:"units"`
	Rates []RateSeed `json:"rates"`
}

const seedDateLayout = "2006-01-02"

// ParseSeed validates seed JSON and converts it to domain values.
func ParseSeed(data []byte) ([]domain.UnitLocation, []domain.RateSetting, error) {
	var seed ReferenceSeed
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, nil, fmt.Errorf("parse seed: parse json: %w", err)
	}

	units := make([]domain.UnitLocation, 0, len(seed.Units))
	defaults := 0
	for i, u := range seed.Units {
		name := strings.TrimSpace(u.Name)
		if name == "" {
			return nil, nil, fmt.Errorf("parse seed: unit at index %d: name cannot be empty", i+1)
		}

		if !(domain.LatLng{Lat: u.Latitude, Lng: u.Longitude}).Valid() {
			return nil, nil, fmt.Errorf("parse seed: unit %q: %w", name, domain.ErrInvalidPoint)
		}

		if u.IsDefault {
			defaults++
		}
		units = append(units, domain.UnitLocation{
			Name:      name,
			Latitude:  u.Latitude,
			Longitude: u.Longitude,
			IsDefault: u.IsDefault,
		})
	}
	if defaults > 1 {
		return nil, nil, errors.New("parse seed: more than one default unit")
	}

	rates := make([]domain.RateSetting, 0, len(seed.Rates))
	for i, r := range seed.Rates {
		start, err := time.Parse(seedDateLayout, strings.TrimSpace(r.StartDate))
		if err != nil {
			return nil, nil, fmt.Errorf("parse seed: rate at index %d: start_date: %w", i+1, err)
		}

		var end *time.Time
		if r.EndDate != nil && strings.TrimSpace(*r.EndDate) != "" {
			e, err := time.Parse(seedDateLayout, strings.TrimSpace(*r.EndDate))
			if err != nil {
				return nil, nil, fmt.Errorf("parse seed: rate at index %d: end_date: %w", i+1, err)
			}
			end = &e
		}

		active := true
		if r.IsActive != nil {
			active = *r.IsActive
		}

		setting := domain.RateSetting{
			Title:     strings.TrimSpace(r.Title),
			RatePerKm: r.RatePerKm,
			StartDate: start,
			EndDate:   end,
			IsActive:  active,
		}
		if err := setting.Validate(); err != nil {
			return nil, nil, fmt.Errorf("parse seed: rate at index %d: %w", i+1, err)
		}
		rates = append(rates, setting)
	}

	return units, rates, nil
}

// Populate reference tables from a JSON file. Existing rows with the same
// unit name, or the same rate title and start date, are left untouched.
func SeedFromJSON(ctx context.Context, db *sqlx.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed reference data: read %q: %w", jsonPath, err)
	}

	units, rates, err := ParseSeed(bytes)
	if err != nil {
		return fmt.Errorf("seed reference data: %w", err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed reference data: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, u := range units {
		if u.IsDefault {
			if _, err := tx.ExecContext(ctx,
				`UPDATE unit_locations SET is_default = FALSE WHERE is_default AND name <> $1`, u.Name,
			); err != nil {
				return fmt.Errorf("seed reference data: clear default for %q: %w", u.Name, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `
		INSERT INTO unit_locations (name, latitude, longitude, is_default)
		SELECT $1, $2, $3, $4
		WHERE NOT EXISTS (SELECT 1 FROM unit_locations WHERE name = $1);
		`, u.Name, u.Latitude, u.Longitude, u.IsDefault); err != nil {
			return fmt.Errorf("seed reference data: insert unit %q: %w", u.Name, err)
		}
	}

	for _, r := range rates {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO rate_settings (title, rate_per_km, start_date, end_date, is_active)
		SELECT $1, $2, $3, $4, $5
		WHERE NOT EXISTS (SELECT 1 FROM rate_settings WHERE title = $1 AND start_date = $3);
		`, r.Title, r.RatePerKm, r.StartDate, r.EndDate, r.IsActive); err != nil {
			return fmt.Errorf("seed reference data: insert rate %q: %w", r.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed reference data: commit tx: %w", err)
	}

	return nil
}
