package handlers

import (
	"mission-route-service/internal/api/dto"
	"mission-route-service/internal/domain"
	"mission-route-service/internal/services"
	"net/http"

	"github.com/google/uuid"
)

// MissionHandler turns trip sessions into persisted mission orders.
type MissionHandler struct {
	Missions *services.MissionService
	Sessions *services.TripSessions
}

func (h *MissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.MissionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	trip, ok := h.trip(w, r, req.TripID)
	if !ok {
		return
	}

	order, err := h.Missions.Submit(r.Context(), trip.Snapshot(), detailsOf(req))
	if err != nil {
		writeDomainError(w, r, "submit mission", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toMissionResponse(order))
}

func (h *MissionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "missionID")
	if err != nil {
		writeDomainError(w, r, "update mission", err)
		return
	}

	var req dto.MissionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	trip, ok := h.trip(w, r, req.TripID)
	if !ok {
		return
	}

	order, changes, err := h.Missions.Update(r.Context(), id, trip.Snapshot(), detailsOf(req))
	if err != nil {
		writeDomainError(w, r, "update mission", err)
		return
	}

	res := dto.UpdateMissionResponse{
		Mission: toMissionResponse(order),
		Changes: make([]dto.ChangeResponse, 0, len(changes)),
	}
	for _, c := range changes {
		res.Changes = append(res.Changes, dto.ChangeResponse{Path: c.Path, From: c.From, To: c.To})
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *MissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "missionID")
	if err != nil {
		writeDomainError(w, r, "get mission", err)
		return
	}

	order, err := h.Missions.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, "get mission", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toMissionResponse(order))
}

func (h *MissionHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Missions.List(r.Context())
	if err != nil {
		writeDomainError(w, r, "list missions", err)
		return
	}

	res := dto.ListMissionsResponse{Missions: make([]dto.MissionResponse, 0, len(orders))}
	for _, o := range orders {
		res.Missions = append(res.Missions, toMissionResponse(o))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *MissionHandler) trip(w http.ResponseWriter, r *http.Request, raw string) (*services.TripController, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "trip_id must be a uuid")
		return nil, false
	}

	trip, err := h.Sessions.Get(id)
	if err != nil {
		writeDomainError(w, r, "mission trip", err)
		return nil, false
	}
	return trip, true
}

func detailsOf(req dto.MissionRequest) domain.MissionDetails {
	return domain.MissionDetails{
		Title:       req.Title,
		Description: req.Description,
		Driver:      req.Driver,
		Vehicle:     req.Vehicle,
		Notes:       req.Notes,
	}
}

func toMissionResponse(o *domain.MissionOrder) dto.MissionResponse {
	return dto.MissionResponse{
		ID:                o.ID.String(),
		UnitID:            o.UnitID,
		UnitName:          o.UnitName,
		Origin:            o.Origin,
		Destinations:      o.Destinations,
		MissionDate:       formatDate(o.MissionDate),
		ForwardPath:       o.ForwardPath,
		ReturnPath:        o.ReturnPath,
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
	}
}
