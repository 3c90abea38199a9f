package ports

import (
	"context"
	"mission-route-service/internal/domain"
)

// Port: origin points a mission may start from.
type UnitRepository interface {
	ListUnits(ctx context.Context) ([]domain.UnitLocation, error)
	// Return domain.ErrNotFound when no unit has the id.
	GetUnit(ctx context.Context, id int64) (domain.UnitLocation, error)
	// Return domain.ErrNotFound when no unit is flagged default.
	DefaultUnit(ctx context.Context) (domain.UnitLocation, error)
	CreateUnit(ctx context.Context, unit *domain.UnitLocation) error
}
