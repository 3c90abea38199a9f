package ports

import (
	"context"
	"mission-route-service/internal/domain"

	"github.com/google/uuid"
)

// Port: storage of submitted mission orders.
type MissionRepository interface {
	// Store a new order; the repository assigns ID and timestamps.
	CreateMission(ctx context.Context, order *domain.MissionOrder) error
	// Replace an existing order; domain.ErrNotFound if it does not exist.
	UpdateMission(ctx context.Context, order *domain.MissionOrder) error
	GetMission(ctx context.Context, id uuid.UUID) (*domain.MissionOrder, error)
	ListMissions(ctx context.Context) ([]*domain.MissionOrder, error)
}
