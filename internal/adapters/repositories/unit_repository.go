package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mission-route-service/internal/domain"

	"github.com/jmoiron/sqlx"
)

type unitRow struct {
	ID        int64   `db:"id"`
	Name      string  `db:"name"`
	Latitude  float64 `db:"latitude"`
	Longitude float64 `db:"longitude"`
	IsDefault bool    `db:"is_default"`
}

func (r unitRow) toDomain() domain.UnitLocation {
	return domain.UnitLocation{
		ID:        r.ID,
		Name:      r.Name,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		IsDefault: r.IsDefault,
	}
}

// Postgres-backed implementation of the UnitRepository port.
type PostgresUnitRepository struct{ DB *sqlx.DB }

func NewPostgresUnitRepository(db *sqlx.DB) *PostgresUnitRepository {
	return &PostgresUnitRepository{DB: db}
}

const unitColumns = `id, name, latitude, longitude, is_default`

func (s *PostgresUnitRepository) ListUnits(ctx context.Context) ([]domain.UnitLocation, error) {
	if s.DB == nil {
		return nil, errors.New("unit repository: DB is nil")
	}

	var rows []unitRow
	err := s.DB.SelectContext(ctx, &rows, `
	SELECT `+unitColumns+`
	FROM unit_locations
	ORDER BY is_default DESC, name;
	`)
	if err != nil {
		return nil, fmt.Errorf("list units: query unit_locations table: %w", err)
	}

	units := make([]domain.UnitLocation, 0, len(rows))
	for _, r := range rows {
		units = append(units, r.toDomain())
	}
	return units, nil
}

func (s *PostgresUnitRepository) GetUnit(ctx context.Context, id int64) (domain.UnitLocation, error) {
	return s.getOne(ctx, "get unit", `
	SELECT `+unitColumns+`
	FROM unit_locations
	WHERE id = $1;
	`, id)
}

func (s *PostgresUnitRepository) DefaultUnit(ctx context.Context) (domain.UnitLocation, error) {
	return s.getOne(ctx, "default unit", `
	SELECT `+unitColumns+`
	FROM unit_locations
	WHERE is_default
	LIMIT 1;
	`)
}

func (s *PostgresUnitRepository) getOne(ctx context.Context, op string, query string, args ...any) (domain.UnitLocation, error) {
	if s.DB == nil {
		return domain.UnitLocation{}, errors.New("unit repository: DB is nil")
	}

	var row unitRow
	err := s.DB.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UnitLocation{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	if err != nil {
		return domain.UnitLocation{}, fmt.Errorf("%s: query unit_locations table: %w", op, err)
	}
	return row.toDomain(), nil
}

// CreateUnit inserts unit and sets its ID. A new default unit replaces the previous one.
func (s *PostgresUnitRepository) CreateUnit(ctx context.Context, unit *domain.UnitLocation) error {
	if s.DB == nil {
		return errors.New("unit repository: DB is nil")
	}

	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create unit: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if unit.IsDefault {
		if _, err := tx.ExecContext(ctx, `UPDATE unit_locations SET is_default = FALSE WHERE is_default`); err != nil {
			return fmt.Errorf("create unit: clear previous default: %w", err)
		}
	}

	row := unitRow{
		Name:      unit.Name,
		Latitude:  unit.Latitude,
		Longitude: unit.Longitude,
		IsDefault: unit.IsDefault,
	}
	if err := tx.QueryRowxContext(ctx, `
	INSERT INTO unit_locations (name, latitude, longitude, is_default)
	VALUES ($1, $2, $3, $4)
	RETURNING id;
	`, row.Name, row.Latitude, row.Longitude, row.IsDefault).Scan(&unit.ID); err != nil {
		return fmt.Errorf("create unit %q: %w", unit.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create unit: commit tx: %w", err)
	}

	return nil
}
