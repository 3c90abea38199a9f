package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"mission-route-service/internal/domain"
	"mission-route-service/internal/platform/obs"
	"time"

	"github.com/jmoiron/sqlx"
)

type rateRow struct {
	ID        int64        `db:"id"`
	Title     string       `db:"title"`
	RatePerKm float64      `db:"rate_per_km"`
	StartDate time.Time    `db:"start_date"`
	EndDate   sql.NullTime `db:"end_date"`
	IsActive  bool         `db:"is_active"`
}

func (r rateRow) toDomain() domain.RateSetting {
	s := domain.RateSetting{
		ID:        r.ID,
		Title:     r.Title,
		RatePerKm: r.RatePerKm,
		StartDate: domain.DateOnly(r.StartDate),
		IsActive:  r.IsActive,
	}
	if r.EndDate.Valid {
		end := domain.DateOnly(r.EndDate.Time)
		s.EndDate = &end
	}
	return s
}

// Postgres-backed implementation of the RateRepository port.
type PostgresRateRepository struct{ DB *sqlx.DB }

func NewPostgresRateRepository(db *sqlx.DB) *PostgresRateRepository {
	return &PostgresRateRepository{DB: db}
}

const rateColumns = `id, title, rate_per_km, start_date, end_date, is_active`

// EffectiveRate returns the active rate whose interval contains date.
// Intervals are expected not to overlap; when they do, the latest start
// date wins and a warning is logged.
func (s *PostgresRateRepository) EffectiveRate(
	ctx context.Context,
	date time.Time,
) (_ domain.RateSetting, err error) {
	defer obs.Time(ctx, "rates.EffectiveRate")(&err)

	if s.DB == nil {
		return domain.RateSetting{}, errors.New("rate repository: DB is nil")
	}

	day := domain.DateOnly(date)

	var rows []rateRow
	err = s.DB.SelectContext(ctx, &rows, `
	SELECT `+rateColumns+`
	FROM rate_settings
	WHERE is_active
		AND start_date <= $1::date
		AND (end_date IS NULL OR end_date >= $1::date)
	ORDER BY start_date DESC, id DESC
	LIMIT 2;
	`, day)
	if err != nil {
		return domain.RateSetting{}, fmt.Errorf("effective rate: query rate_settings table: %w", err)
	}

	if len(rows) == 0 {
		return domain.RateSetting{}, domain.ErrRateNotFound
	}
	if len(rows) > 1 {
		log.Printf("rate intervals overlap: date=%s chosen_id=%d other_id=%d",
			day.Format("2006-01-02"), rows[0].ID, rows[1].ID)
	}

	return rows[0].toDomain(), nil
}

func (s *PostgresRateRepository) ListRates(ctx context.Context) ([]domain.RateSetting, error) {
	if s.DB == nil {
		return nil, errors.New("rate repository: DB is nil")
	}

	var rows []rateRow
	if err := s.DB.SelectContext(ctx, &rows, `
	SELECT `+rateColumns+`
	FROM rate_settings
	ORDER BY start_date, id;
	`); err != nil {
		return nil, fmt.Errorf("list rates: query rate_settings table: %w", err)
	}

	out := make([]domain.RateSetting, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// CreateRate validates and inserts rate, setting its ID.
func (s *PostgresRateRepository) CreateRate(ctx context.Context, rate *domain.RateSetting) error {
	if s.DB == nil {
		return errors.New("rate repository: DB is nil")
	}

	if err := rate.Validate(); err != nil {
		return fmt.Errorf("create rate: %w", err)
	}

	var end sql.NullTime
	if rate.EndDate != nil {
		end = sql.NullTime{Time: domain.DateOnly(*rate.EndDate), Valid: true}
	}

	if err := s.DB.QueryRowxContext(ctx, `
	INSERT INTO rate_settings (title, rate_per_km, start_date, end_date, is_active)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id;
	`, rate.Title, rate.RatePerKm, domain.DateOnly(rate.StartDate), end, rate.IsActive).Scan(&rate.ID); err != nil {
		return fmt.Errorf("create rate %q: %w", rate.Title, err)
	}

	return nil
}
