package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mission-route-service/internal/domain"
	"mission-route-service/internal/platform/obs"
	"mission-route-service/internal/ports"

	"github.com/google/uuid"
	"github.com/r3labs/diff/v3"
)

// MissionService persists trip sessions as mission orders. Every computed
// field is copied from the session snapshot; callers only supply details.
type MissionService struct {
	repo ports.MissionRepository
}

func NewMissionService(repo ports.MissionRepository) *MissionService {
	return &MissionService{repo: repo}
}

// Submit stores a new mission order built from snap.
func (s *MissionService) Submit(ctx context.Context, snap Snapshot, details domain.MissionDetails) (order *domain.MissionOrder, err error) {
	defer obs.Time(ctx, "missions.Submit")(&err)

	order, err = orderFromSnapshot(snap, details)
	if err != nil {
		return nil, fmt.Errorf("submit mission: %w", err)
	}

	if err := s.repo.CreateMission(ctx, order); err != nil {
		return nil, fmt.Errorf("submit mission: %w: %w", domain.ErrPersistenceFailed, err)
	}
	return order, nil
}

// Update re-derives mission id from snap and returns the stored order along
// with the field-level changes against the previous version.
func (s *MissionService) Update(
	ctx context.Context,
	id uuid.UUID,
	snap Snapshot,
	details domain.MissionDetails,
) (order *domain.MissionOrder, changes []domain.MissionChange, err error) {
	defer obs.Time(ctx, "missions.Update")(&err)

	prev, err := s.repo.GetMission(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil, fmt.Errorf("update mission: %w", err)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("update mission: %w: %w", domain.ErrPersistenceFailed, err)
	}

	order, err = orderFromSnapshot(snap, details)
	if err != nil {
		return nil, nil, fmt.Errorf("update mission %s: %w", id, err)
	}
	order.ID = prev.ID
	order.CreatedAt = prev.CreatedAt

	changes, err = Changes(prev, order)
	if err != nil {
		// The changelog is informational; the update still goes through.
		log.Printf("op=missions.Update id=%s changelog_err=%v", id, err)
	}

	if err := s.repo.UpdateMission(ctx, order); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("update mission: %w", err)
		}
		return nil, nil, fmt.Errorf("update mission %s: %w: %w", id, domain.ErrPersistenceFailed, err)
	}
	return order, changes, nil
}

func (s *MissionService) Get(ctx context.Context, id uuid.UUID) (*domain.MissionOrder, error) {
	o, err := s.repo.GetMission(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get mission: %w", err)
	}
	return o, nil
}

func (s *MissionService) List(ctx context.Context) ([]*domain.MissionOrder, error) {
	out, err := s.repo.ListMissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list missions: %w", err)
	}
	return out, nil
}

// Changes lists the fields that differ between two versions of an order.
func Changes(prev, next *domain.MissionOrder) ([]domain.MissionChange, error) {
	changelog, err := diff.Diff(prev, next)
	if err != nil {
		return nil, fmt.Errorf("diff mission orders: %w", err)
	}

	out := make([]domain.MissionChange, 0, len(changelog))
	for _, c := range changelog {
		out = append(out, domain.MissionChange{Path: c.Path, From: c.From, To: c.To})
	}
	return out, nil
}

func orderFromSnapshot(snap Snapshot, details domain.MissionDetails) (*domain.MissionOrder, error) {
	if len(snap.Destinations) == 0 {
		return nil, domain.ErrEmptyTrip
	}
	if snap.State != domain.TripReady || snap.Route == nil {
		return nil, fmt.Errorf("trip %s is %s: %w", snap.ID, snap.State, domain.ErrTripNotReady)
	}

	return &domain.MissionOrder{
		UnitID:            snap.Origin.ID,
		UnitName:          snap.Origin.Name,
		Origin:            snap.Origin.Point(),
		Destinations:      append([]domain.Destination(nil), snap.Destinations...),
		MissionDate:       snap.MissionDate,
		ForwardPath:       append([]domain.LatLng(nil), snap.Route.Forward.Points...),
		ReturnPath:        append([]domain.LatLng(nil), snap.Route.Return.Points...),
		ForwardDistanceKm: snap.Totals.ForwardDistanceKm,
		ReturnDistanceKm:  snap.Totals.ReturnDistanceKm,
		TotalDistanceKm:   snap.Totals.TotalDistanceKm,
		ForwardTimeHours:  snap.Totals.ForwardTimeHours,
		ReturnTimeHours:   snap.Totals.ReturnTimeHours,
		TotalTimeHours:    snap.Totals.TotalTimeHours,
		RateTitle:         snap.Rate.Title(),
		RatePerKm:         snap.Rate.PerKm,
		RateFound:         snap.Rate.Found,
		FinalCost:         snap.FinalCost,
		Details:           details,
	}, nil
}
