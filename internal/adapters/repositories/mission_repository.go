package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"mission-route-service/internal/domain"
	"mission-route-service/internal/platform/obs"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type missionRow struct {
	ID           uuid.UUID `db:"id"`
	UnitID       int64     `db:"unit_id"`
	UnitName     string    `db:"unit_name"`
	OriginLat    float64   `db:"origin_lat"`
	OriginLng    float64   `db:"origin_lng"`
	Destinations []byte    `db:"destinations"`
	MissionDate  time.Time `db:"mission_date"`
	ForwardPath  []byte    `db:"forward_path"`
	ReturnPath   []byte    `db:"return_path"`

	ForwardDistanceKm float64 `db:"forward_distance_km"`
	ReturnDistanceKm  float64 `db:"return_distance_km"`
	TotalDistanceKm   float64 `db:"total_distance_km"`
	ForwardTimeHours  float64 `db:"forward_time_hours"`
	ReturnTimeHours   float64 `db:"return_time_hours"`
	TotalTimeHours    float64 `db:"total_time_hours"`

	RateTitle string  `db:"rate_title"`
	RatePerKm float64 `db:"rate_per_km"`
	RateFound bool    `db:"rate_found"`
	FinalCost int64   `db:"final_cost"`

	Title       string `db:"title"`
	Description string `db:"description"`
	Driver      string `db:"driver"`
	Vehicle     string `db:"vehicle"`
	Notes       string `db:"notes"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func newMissionRow(o *domain.MissionOrder) (missionRow, error) {
	dests, err := json.Marshal(nonNil(o.Destinations))
	if err != nil {
		return missionRow{}, fmt.Errorf("encode destinations: %w", err)
	}
	fwd, err := json.Marshal(nonNil(o.ForwardPath))
	if err != nil {
		return missionRow{}, fmt.Errorf("encode forward path: %w", err)
	}
	ret, err := json.Marshal(nonNil(o.ReturnPath))
	if err != nil {
		return missionRow{}, fmt.Errorf("encode return path: %w", err)
	}

	return missionRow{
		ID:                o.ID,
		UnitID:            o.UnitID,
		UnitName:          o.UnitName,
		OriginLat:         o.Origin.Lat,
		OriginLng:         o.Origin.Lng,
		Destinations:      dests,
		MissionDate:       domain.DateOnly(o.MissionDate),
		ForwardPath:       fwd,
		ReturnPath:        ret,
		ForwardDistanceKm: o.ForwardDistanceKm,
		ReturnDistanceKm:  o.ReturnDistanceKm,
		TotalDistanceKm:   o.TotalDistanceKm,
		ForwardTimeHours:  o.ForwardTimeHours,
		ReturnTimeHours:   o.ReturnTimeHours,
		TotalTimeHours:    o.TotalTimeHours,
		RateTitle:         o.RateTitle,
		RatePerKm:         o.RatePerKm,
		RateFound:         o.RateFound,
		FinalCost:         o.FinalCost,
		Title:             o.Details.Title,
		Description:       o.Details.Description,
		Driver:            o.Details.Driver,
		Vehicle:           o.Details.Vehicle,
		Notes:             o.Details.Notes,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}, nil
}

func (r missionRow) toDomain() (*domain.MissionOrder, error) {
	o := &domain.MissionOrder{
		ID:                r.ID,
		UnitID:            r.UnitID,
		UnitName:          r.UnitName,
		Origin:            domain.LatLng{Lat: r.OriginLat, Lng: r.OriginLng},
		MissionDate:       domain.DateOnly(r.MissionDate),
		ForwardDistanceKm: r.ForwardDistanceKm,
		ReturnDistanceKm:  r.ReturnDistanceKm,
		TotalDistanceKm:   r.TotalDistanceKm,
		ForwardTimeHours:  r.ForwardTimeHours,
		ReturnTimeHours:   r.ReturnTimeHours,
		TotalTimeHours:    r.TotalTimeHours,
		RateTitle:         r.RateTitle,
		RatePerKm:         r.RatePerKm,
		RateFound:         r.RateFound,
		FinalCost:         r.FinalCost,
		Details: domain.MissionDetails{
			Title:       r.Title,
			Description: r.Description,
			Driver:      r.Driver,
			Vehicle:     r.Vehicle,
			Notes:       r.Notes,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}

	if err := json.Unmarshal(r.Destinations, &o.Destinations); err != nil {
		return nil, fmt.Errorf("decode destinations: %w", err)
	}
	if err := json.Unmarshal(r.ForwardPath, &o.ForwardPath); err != nil {
		return nil, fmt.Errorf("decode forward path: %w", err)
	}
	if err := json.Unmarshal(r.ReturnPath, &o.ReturnPath); err != nil {
		return nil, fmt.Errorf("decode return path: %w", err)
	}

	return o, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Postgres-backed implementation of the MissionRepository port.
type PostgresMissionRepository struct{ DB *sqlx.DB }

func NewPostgresMissionRepository(db *sqlx.DB) *PostgresMissionRepository {
	return &PostgresMissionRepository{DB: db}
}

const missionColumns = `id, unit_id, unit_name, origin_lat, origin_lng, destinations, mission_date,
	forward_path, return_path, forward_distance_km, return_distance_km, total_distance_km,
	forward_time_hours, return_time_hours, total_time_hours, rate_title, rate_per_km, rate_found,
	final_cost, title, description, driver, vehicle, notes, created_at, updated_at`

// CreateMission assigns a new ID and timestamps, then stores order.
func (s *PostgresMissionRepository) CreateMission(ctx context.Context, order *domain.MissionOrder) (err error) {
	defer obs.Time(ctx, "missions.Create")(&err)

	if s.DB == nil {
		return errors.New("mission repository: DB is nil")
	}

	now := time.Now().UTC()
	order.ID = uuid.New()
	order.CreatedAt = now
	order.UpdatedAt = now

	row, err := newMissionRow(order)
	if err != nil {
		return fmt.Errorf("create mission: %w", err)
	}

	if _, err := s.DB.NamedExecContext(ctx, `
	INSERT INTO mission_orders (`+missionColumns+`)
	VALUES (:id, :unit_id, :unit_name, :origin_lat, :origin_lng, :destinations, :mission_date,
		:forward_path, :return_path, :forward_distance_km, :return_distance_km, :total_distance_km,
		:forward_time_hours, :return_time_hours, :total_time_hours, :rate_title, :rate_per_km, :rate_found,
		:final_cost, :title, :description, :driver, :vehicle, :notes, :created_at, :updated_at);
	`, row); err != nil {
		return fmt.Errorf("create mission %s: %w", order.ID, err)
	}

	return nil
}

// UpdateMission replaces every stored field except id and created_at.
func (s *PostgresMissionRepository) UpdateMission(ctx context.Context, order *domain.MissionOrder) (err error) {
	defer obs.Time(ctx, "missions.Update")(&err)

	if s.DB == nil {
		return errors.New("mission repository: DB is nil")
	}

	order.UpdatedAt = time.Now().UTC()

	row, err := newMissionRow(order)
	if err != nil {
		return fmt.Errorf("update mission: %w", err)
	}

	res, err := s.DB.NamedExecContext(ctx, `
	UPDATE mission_orders SET
		unit_id = :unit_id,
		unit_name = :unit_name,
		origin_lat = :origin_lat,
		origin_lng = :origin_lng,
		destinations = :destinations,
		mission_date = :mission_date,
		forward_path = :forward_path,
		return_path = :return_path,
		forward_distance_km = :forward_distance_km,
		return_distance_km = :return_distance_km,
		total_distance_km = :total_distance_km,
		forward_time_hours = :forward_time_hours,
		return_time_hours = :return_time_hours,
		total_time_hours = :total_time_hours,
		rate_title = :rate_title,
		rate_per_km = :rate_per_km,
		rate_found = :rate_found,
		final_cost = :final_cost,
		title = :title,
		description = :description,
		driver = :driver,
		vehicle = :vehicle,
		notes = :notes,
		updated_at = :updated_at
	WHERE id = :id;
	`, row)
	if err != nil {
		return fmt.Errorf("update mission %s: %w", order.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update mission %s: rows affected: %w", order.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("update mission %s: %w", order.ID, domain.ErrNotFound)
	}

	return nil
}

func (s *PostgresMissionRepository) GetMission(ctx context.Context, id uuid.UUID) (*domain.MissionOrder, error) {
	if s.DB == nil {
		return nil, errors.New("mission repository: DB is nil")
	}

	var row missionRow
	err := s.DB.GetContext(ctx, &row, `SELECT `+missionColumns+` FROM mission_orders WHERE id = $1;`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get mission %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get mission %s: query mission_orders table: %w", id, err)
	}

	order, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("get mission %s: %w", id, err)
	}
	return order, nil
}

func (s *PostgresMissionRepository) ListMissions(ctx context.Context) ([]*domain.MissionOrder, error) {
	if s.DB == nil {
		return nil, errors.New("mission repository: DB is nil")
	}

	var rows []missionRow
	if err := s.DB.SelectContext(ctx, &rows, `
	SELECT `+missionColumns+`
	FROM mission_orders
	ORDER BY mission_date DESC, created_at DESC;
	`); err != nil {
		return nil, fmt.Errorf("list missions: query mission_orders table: %w", err)
	}

	out := make([]*domain.MissionOrder, 0, len(rows))
	for _, r := range rows {
		o, err := r.toDomain()
		if err != nil {
			return nil, fmt.Errorf("list missions: mission %s: %w", r.ID, err)
		}
		out = append(out, o)
	}
	return out, nil
}
