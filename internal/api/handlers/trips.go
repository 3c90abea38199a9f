package handlers

import (
	"log"
	"mission-route-service/internal/api/dto"
	"mission-route-service/internal/domain"
	"mission-route-service/internal/services"
	"net/http"
	"time"
)

// TripHandler drives trip-builder sessions. Every mutation answers with
// the session snapshot, including when the route or rate lookup failed.
type TripHandler struct {
	Sessions *services.TripSessions
}

func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTripRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}

	var date time.Time
	if req.MissionDate != "" {
		d, err := parseDate(req.MissionDate)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "mission_date must be YYYY-MM-DD")
			return
		}
		date = d
	}

	_, snap, err := h.Sessions.Create(r.Context(), req.UnitID, date)
	if err != nil {
		writeDomainError(w, r, "create trip", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toTripResponse(snap))
}

func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, toTripResponse(trip.Snapshot()))
}

func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "tripID")
	if err != nil {
		writeDomainError(w, r, "delete trip", err)
		return
	}
	if err := h.Sessions.Delete(id); err != nil {
		writeDomainError(w, r, "delete trip", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TripHandler) AddDestination(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.AddDestinationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	snap, err := trip.AddDestination(r.Context(), domain.Destination{Lat: req.Lat, Lng: req.Lng, Title: req.Title})
	writeTrip(w, r, "add destination", snap, err)
}

func (h *TripHandler) RemoveDestination(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.session(w, r)
	if !ok {
		return
	}

	index, err := intParam(r, "index")
	if err != nil {
		writeDomainError(w, r, "remove destination", err)
		return
	}

	snap, err := trip.RemoveDestination(r.Context(), index)
	writeTrip(w, r, "remove destination", snap, err)
}

func (h *TripHandler) SetOrigin(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.SetOriginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	unit, err := h.Sessions.ResolveUnit(r.Context(), &req.UnitID)
	if err != nil {
		writeDomainError(w, r, "set origin", err)
		return
	}

	snap, err := trip.SetOrigin(r.Context(), unit)
	writeTrip(w, r, "set origin", snap, err)
}

func (h *TripHandler) SetMissionDate(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.SetMissionDateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	date, err := parseDate(req.MissionDate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "mission_date must be YYYY-MM-DD")
		return
	}

	snap, err := trip.SetMissionDate(r.Context(), date)
	writeTrip(w, r, "set mission date", snap, err)
}

func (h *TripHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.session(w, r)
	if !ok {
		return
	}

	snap, err := trip.Recompute(r.Context())
	writeTrip(w, r, "recompute", snap, err)
}

func (h *TripHandler) session(w http.ResponseWriter, r *http.Request) (*services.TripController, bool) {
	id, err := uuidParam(r, "tripID")
	if err != nil {
		writeDomainError(w, r, "trip", err)
		return nil, false
	}

	trip, err := h.Sessions.Get(id)
	if err != nil {
		writeDomainError(w, r, "trip", err)
		return nil, false
	}
	return trip, true
}

// writeTrip answers a mutation. Failures keep the snapshot in the body so
// clients still see the last good route and cost.
func writeTrip(w http.ResponseWriter, r *http.Request, op string, snap services.Snapshot, err error) {
	res := toTripResponse(snap)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			log.Printf("%s failed: trip=%s state=%s err=%v", op, snap.ID, snap.State, err)
		}
		res.Error = messageFor(err)
		writeJSON(w, r, status, res)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func toTripResponse(s services.Snapshot) dto.TripResponse {
	res := dto.TripResponse{
		ID:                s.ID.String(),
		State:             string(s.State),
		Revision:          s.Revision,
		Origin:            toUnitResponse(s.Origin),
		Destinations:      s.Destinations,
		ForwardDistanceKm: s.Totals.ForwardDistanceKm,
		ReturnDistanceKm:  s.Totals.ReturnDistanceKm,
		TotalDistanceKm:   s.Totals.TotalDistanceKm,
		ForwardTimeHours:  s.Totals.ForwardTimeHours,
		ReturnTimeHours:   s.Totals.ReturnTimeHours,
		TotalTimeHours:    s.Totals.TotalTimeHours,
		MissionDate:       formatDate(s.MissionDate),
		RateTitle:         s.Rate.Title(),
		RatePerKm:         s.Rate.PerKm,
		NoActiveRate:      s.NoActiveRate,
		FinalCost:         s.FinalCost,
		LastError:         s.LastError,
		Notice:            s.Notice,
	}
	if res.Destinations == nil {
		res.Destinations = []domain.Destination{}
	}

	if s.Route != nil {
		res.Route = &dto.RouteResponse{
			Forward: toLegResponse(s.Route.Forward),
			Return:  toLegResponse(s.Route.Return),
		}
	}
	return res
}

func toLegResponse(l domain.RouteLeg) dto.LegResponse {
	points := l.Points
	if points == nil {
		points = []domain.LatLng{}
	}
	return dto.LegResponse{
		Points:        points,
		DistanceKm:    l.DistanceKm,
		DurationHours: l.DurationHours,
	}
}
