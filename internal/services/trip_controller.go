package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mission-route-service/internal/domain"
	"mission-route-service/internal/platform/obs"
	"mission-route-service/internal/ports"
	"sync"
	"time"

	"github.com/google/uuid"
)

const subscriberBuffer = 8

// TripDeps are the collaborators shared by every trip session.
type TripDeps struct {
	Routes   ports.RouteProvider
	Rates    ports.RateSchedule
	Geocoder ports.ReverseGeocoder // optional
	Clock    func() time.Time      // defaults to time.Now
}

// Snapshot is an immutable copy of a trip session.
type Snapshot struct {
	ID           uuid.UUID
	State        domain.TripState
	Origin       domain.UnitLocation
	Destinations []domain.Destination
	Route        *domain.TripRoute
	Totals       domain.RouteTotals
	Rate         domain.ResolvedRate
	NoActiveRate bool
	MissionDate  time.Time
	FinalCost    int64
	LastError    string
	Notice       string
	Revision     uint64
}

// TripController owns one trip-builder session and keeps its route and
// cost in sync with edits.
//
// Every edit that changes the waypoint chain bumps routeSeq, and every edit
// that changes what the cost depends on bumps rateSeq. A network result is
// applied only if the sequence number it was started under is still
// current, so the most recent edit always wins regardless of the order in
// which responses arrive. In-flight calls are not cancelled.
type TripController struct {
	id   uuid.UUID
	deps TripDeps

	mu           sync.Mutex
	origin       domain.UnitLocation
	destinations []domain.Destination
	missionDate  time.Time

	route        *domain.TripRoute
	rate         domain.ResolvedRate
	rateResolved bool
	cost         int64
	routeErr     error
	rateErr      error
	notice       string

	routeSeq     uint64
	routeApplied uint64
	rateSeq      uint64
	rateApplied  uint64
	routeRateTok uint64 // rate token issued with the latest route task

	revision uint64
	lastUsed time.Time

	subs   map[uint64]chan Snapshot
	nextID uint64
	closed bool
}

func NewTripController(id uuid.UUID, deps TripDeps, origin domain.UnitLocation, missionDate time.Time) *TripController {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	return &TripController{
		id:          id,
		deps:        deps,
		origin:      origin,
		missionDate: domain.DateOnly(missionDate),
		lastUsed:    deps.Clock(),
		subs:        make(map[uint64]chan Snapshot),
	}
}

func (c *TripController) ID() uuid.UUID { return c.id }

// AddDestination appends dest to the end of the trip and recomputes.
// A destination without a title is labelled by reverse geocoding; a
// geocoding failure leaves the title empty and sets a notice.
func (c *TripController) AddDestination(ctx context.Context, dest domain.Destination) (Snapshot, error) {
	if !dest.Point().Valid() {
		return c.Snapshot(), fmt.Errorf("add destination: (%v, %v): %w", dest.Lat, dest.Lng, domain.ErrInvalidPoint)
	}

	var notice string
	if dest.Title == "" && c.deps.Geocoder != nil {
		title, err := c.deps.Geocoder.ReverseGeocode(ctx, dest.Point())
		if err != nil {
			log.Printf("trip=%s op=geocode point=%.6f,%.6f err=%v", c.id, dest.Lat, dest.Lng, err)
			notice = fmt.Sprintf("%v: destination %.6f,%.6f added without a title", domain.ErrGeocodeFailed, dest.Lat, dest.Lng)
		} else {
			dest.Title = title
		}
	}

	c.mu.Lock()
	c.destinations = append(c.destinations, dest)
	c.notice = notice
	task := c.beginRouteLocked()
	c.mu.Unlock()

	return c.runRoute(ctx, task)
}

// RemoveDestination deletes the destination at index. Removing the last
// one clears the route and zeroes every figure without any network call.
func (c *TripController) RemoveDestination(ctx context.Context, index int) (Snapshot, error) {
	c.mu.Lock()
	if index < 0 || index >= len(c.destinations) {
		n := len(c.destinations)
		c.mu.Unlock()
		return c.Snapshot(), fmt.Errorf("remove destination: index %d of %d: %w", index, n, domain.ErrInvalidIndex)
	}

	next := make([]domain.Destination, 0, len(c.destinations)-1)
	next = append(next, c.destinations[:index]...)
	next = append(next, c.destinations[index+1:]...)
	c.destinations = next
	c.notice = ""
	task := c.beginRouteLocked()
	c.mu.Unlock()

	return c.runRoute(ctx, task)
}

// SetOrigin replaces the unit the trip starts from and ends at.
func (c *TripController) SetOrigin(ctx context.Context, unit domain.UnitLocation) (Snapshot, error) {
	if !unit.Point().Valid() {
		return c.Snapshot(), fmt.Errorf("set origin: unit %d: %w", unit.ID, domain.ErrInvalidPoint)
	}

	c.mu.Lock()
	c.origin = unit
	c.notice = ""
	task := c.beginRouteLocked()
	c.mu.Unlock()

	return c.runRoute(ctx, task)
}

// SetMissionDate re-resolves the rate for date and recomputes the cost
// against the current route. The route is not fetched again.
func (c *TripController) SetMissionDate(ctx context.Context, date time.Time) (Snapshot, error) {
	if date.IsZero() {
		return c.Snapshot(), errors.New("set mission date: date is required")
	}

	c.mu.Lock()
	c.missionDate = domain.DateOnly(date)
	c.notice = ""
	task := c.beginRateLocked()
	c.mu.Unlock()

	return c.runRate(ctx, task)
}

// Recompute retries route and cost against the current inputs.
func (c *TripController) Recompute(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	c.notice = ""
	if len(c.destinations) == 0 {
		task := c.beginRateLocked()
		c.mu.Unlock()
		return c.runRate(ctx, task)
	}
	task := c.beginRouteLocked()
	c.mu.Unlock()

	return c.runRoute(ctx, task)
}

func (c *TripController) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe returns a channel that receives a snapshot after every applied
// change. A slow subscriber loses intermediate snapshots, never the latest.
// The returned func unsubscribes and closes the channel.
func (c *TripController) Subscribe() (<-chan Snapshot, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Snapshot, subscriberBuffer)
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	ch <- c.snapshotLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}
}

// Close ends every subscription. Later edits still work but notify nobody.
func (c *TripController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
}

// LastUsed reports when the session was last read or edited.
func (c *TripController) LastUsed() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed
}

func (c *TripController) Touch() {
	c.mu.Lock()
	c.lastUsed = c.deps.Clock()
	c.mu.Unlock()
}

type routeTask struct {
	routeTok uint64
	rateTok  uint64
	origin   domain.LatLng
	points   []domain.LatLng
	date     time.Time
}

type rateTask struct {
	rateTok uint64
	date    time.Time
}

// beginRouteLocked records a route-affecting edit. For an empty trip the
// result is applied immediately and the returned task has no points.
func (c *TripController) beginRouteLocked() routeTask {
	c.lastUsed = c.deps.Clock()
	c.routeSeq++

	if len(c.destinations) == 0 {
		c.route = nil
		c.routeErr = nil
		c.routeApplied = c.routeSeq
		// A superseded route task will never apply the rate token it
		// was issued; a pending date task still may.
		if c.rateSeq == c.routeRateTok {
			c.rateApplied = c.rateSeq
		}
		c.recalcLocked()
		c.notifyLocked()
		return routeTask{routeTok: c.routeSeq}
	}

	c.rateSeq++
	c.routeRateTok = c.rateSeq
	points := make([]domain.LatLng, len(c.destinations))
	for i, d := range c.destinations {
		points[i] = d.Point()
	}
	task := routeTask{
		routeTok: c.routeSeq,
		rateTok:  c.rateSeq,
		origin:   c.origin.Point(),
		points:   points,
		date:     c.missionDate,
	}
	c.notifyLocked()
	return task
}

func (c *TripController) beginRateLocked() rateTask {
	c.lastUsed = c.deps.Clock()
	c.rateSeq++
	c.notifyLocked()
	return rateTask{rateTok: c.rateSeq, date: c.missionDate}
}

func (c *TripController) runRoute(ctx context.Context, task routeTask) (Snapshot, error) {
	if len(task.points) == 0 {
		return c.Snapshot(), nil
	}

	ctx = obs.WithTripID(ctx, c.id.String())
	route, routeErr := c.fetchRoute(ctx, task)
	rate, rateErr := ResolveRate(ctx, c.deps.Rates, task.date)

	c.mu.Lock()
	defer c.mu.Unlock()

	if task.routeTok != c.routeSeq {
		log.Printf("trip=%s op=route token=%d current=%d stale=true", c.id, task.routeTok, c.routeSeq)
		return c.snapshotLocked(), nil
	}

	c.routeApplied = task.routeTok
	if routeErr != nil {
		c.routeErr = routeErr
	} else {
		c.route = route
		c.routeErr = nil
	}

	rateApplied := false
	if task.rateTok == c.rateSeq {
		c.applyRateLocked(task.rateTok, rate, rateErr)
		rateApplied = true
	}

	c.recalcLocked()
	c.notifyLocked()

	if routeErr != nil {
		log.Printf("trip=%s op=route destinations=%d err=%v", c.id, len(task.points), routeErr)
		return c.snapshotLocked(), routeErr
	}
	if rateApplied && rateErr != nil {
		return c.snapshotLocked(), rateErr
	}
	return c.snapshotLocked(), nil
}

func (c *TripController) runRate(ctx context.Context, task rateTask) (Snapshot, error) {
	ctx = obs.WithTripID(ctx, c.id.String())
	rate, err := ResolveRate(ctx, c.deps.Rates, task.date)

	c.mu.Lock()
	defer c.mu.Unlock()

	if task.rateTok != c.rateSeq {
		log.Printf("trip=%s op=rate token=%d current=%d stale=true", c.id, task.rateTok, c.rateSeq)
		return c.snapshotLocked(), nil
	}

	c.applyRateLocked(task.rateTok, rate, err)
	c.recalcLocked()
	c.notifyLocked()

	if err != nil {
		log.Printf("trip=%s op=rate date=%s err=%v", c.id, task.date.Format(time.DateOnly), err)
		return c.snapshotLocked(), err
	}
	return c.snapshotLocked(), nil
}

func (c *TripController) fetchRoute(ctx context.Context, task routeTask) (route *domain.TripRoute, err error) {
	defer obs.Time(ctx, "trip.route")(&err)
	return BuildRoute(ctx, c.deps.Routes, task.origin, task.points)
}

func (c *TripController) applyRateLocked(tok uint64, rate domain.ResolvedRate, err error) {
	c.rateApplied = tok
	if err != nil {
		c.rateErr = err
		return
	}
	c.rate = rate
	c.rateResolved = true
	c.rateErr = nil
}

func (c *TripController) recalcLocked() {
	c.cost = ComputeCost(c.route.Totals().TotalDistanceKm, c.rate.PerKm)
}

func (c *TripController) stateLocked() domain.TripState {
	switch {
	case c.routeApplied != c.routeSeq || c.rateApplied != c.rateSeq:
		return domain.TripComputing
	case len(c.destinations) == 0:
		return domain.TripEmpty
	case c.routeErr != nil || c.rateErr != nil:
		return domain.TripError
	default:
		return domain.TripReady
	}
}

func (c *TripController) snapshotLocked() Snapshot {
	s := Snapshot{
		ID:           c.id,
		State:        c.stateLocked(),
		Origin:       c.origin,
		Destinations: append([]domain.Destination{}, c.destinations...),
		Route:        c.route.Clone(),
		Totals:       c.route.Totals(),
		Rate:         c.rate,
		NoActiveRate: c.rateResolved && !c.rate.Found,
		MissionDate:  c.missionDate,
		FinalCost:    c.cost,
		Notice:       c.notice,
		Revision:     c.revision,
	}
	if c.rate.Setting != nil {
		setting := *c.rate.Setting
		s.Rate.Setting = &setting
	}

	if len(c.destinations) > 0 {
		switch {
		case c.routeErr != nil:
			s.LastError = c.routeErr.Error()
		case c.rateErr != nil:
			s.LastError = c.rateErr.Error()
		}
	}
	return s
}

func (c *TripController) notifyLocked() {
	c.revision++
	if len(c.subs) == 0 {
		return
	}

	snap := c.snapshotLocked()
	for _, ch := range c.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		// Buffer full: drop the oldest queued snapshot to make room.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
