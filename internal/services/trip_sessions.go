package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mission-route-service/internal/domain"
	"mission-route-service/internal/ports"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TripSessions is the in-memory registry of open trip-builder sessions.
// Sessions never share state; each owns its destinations and resolved rate.
type TripSessions struct {
	deps  TripDeps
	units ports.UnitRepository

	mu       sync.RWMutex
	sessions map[uuid.UUID]*TripController
}

func NewTripSessions(deps TripDeps, units ports.UnitRepository) *TripSessions {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &TripSessions{
		deps:     deps,
		units:    units,
		sessions: make(map[uuid.UUID]*TripController),
	}
}

// Create opens a session starting at unitID, or at the default unit when
// unitID is nil. A zero missionDate means today. The rate for the mission
// date is resolved before the session is returned.
func (s *TripSessions) Create(ctx context.Context, unitID *int64, missionDate time.Time) (*TripController, Snapshot, error) {
	unit, err := s.ResolveUnit(ctx, unitID)
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("create trip: %w", err)
	}

	if missionDate.IsZero() {
		missionDate = s.deps.Clock()
	}

	c := NewTripController(uuid.New(), s.deps, unit, missionDate)

	s.mu.Lock()
	s.sessions[c.ID()] = c
	s.mu.Unlock()

	snap, err := c.SetMissionDate(ctx, missionDate)
	if err != nil {
		// The session stays usable; the rate can be retried with Recompute.
		log.Printf("trip=%s op=create rate_err=%v", c.ID(), err)
	}
	return c, snap, nil
}

// ResolveUnit loads unitID, falling back to the default unit when nil.
func (s *TripSessions) ResolveUnit(ctx context.Context, unitID *int64) (domain.UnitLocation, error) {
	if s.units == nil {
		return domain.UnitLocation{}, errors.New("resolve unit: unit repository is nil")
	}

	if unitID != nil {
		u, err := s.units.GetUnit(ctx, *unitID)
		if err != nil {
			return domain.UnitLocation{}, fmt.Errorf("resolve unit %d: %w", *unitID, err)
		}
		return u, nil
	}

	u, err := s.units.DefaultUnit(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.UnitLocation{}, fmt.Errorf("resolve unit: no default unit: %w", domain.ErrNoOrigin)
	}
	if err != nil {
		return domain.UnitLocation{}, fmt.Errorf("resolve unit: default: %w", err)
	}
	return u, nil
}

// Get returns the session and marks it as used.
func (s *TripSessions) Get(id uuid.UUID) (*TripController, error) {
	s.mu.RLock()
	c, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("trip %s: %w", id, domain.ErrNotFound)
	}
	c.Touch()
	return c, nil
}

func (s *TripSessions) Delete(id uuid.UUID) error {
	s.mu.Lock()
	c, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("trip %s: %w", id, domain.ErrNotFound)
	}
	c.Close()
	return nil
}

func (s *TripSessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep closes and removes sessions idle for longer than maxIdle and
// returns how many were evicted.
func (s *TripSessions) Sweep(maxIdle time.Duration) int {
	cutoff := s.deps.Clock().Add(-maxIdle)

	s.mu.Lock()
	var idle []*TripController
	for id, c := range s.sessions {
		if c.LastUsed().Before(cutoff) {
			idle = append(idle, c)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, c := range idle {
		c.Close()
	}
	return len(idle)
}

// RunSweeper evicts idle sessions every interval until ctx is done.
func (s *TripSessions) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(maxIdle); n > 0 {
				log.Printf("op=trip_sweep evicted=%d open=%d", n, s.Len())
			}
		}
	}
}
