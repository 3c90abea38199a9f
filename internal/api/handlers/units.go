package handlers

import (
	"mission-route-service/internal/api/dto"
	"mission-route-service/internal/domain"
	"mission-route-service/internal/ports"
	"net/http"
)

// UnitHandler exposes the origin units a trip may start from.
type UnitHandler struct {
	Repo ports.UnitRepository
}

func (h *UnitHandler) List(w http.ResponseWriter, r *http.Request) {
	units, err := h.Repo.ListUnits(r.Context())
	if err != nil {
		writeDomainError(w, r, "list units", err)
		return
	}

	res := dto.ListUnitsResponse{Units: make([]dto.UnitResponse, 0, len(units))}
	for _, u := range units {
		res.Units = append(res.Units, toUnitResponse(u))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *UnitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUnitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	unit := domain.UnitLocation{
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		IsDefault: req.IsDefault,
	}
	if err := h.Repo.CreateUnit(r.Context(), &unit); err != nil {
		writeDomainError(w, r, "create unit", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toUnitResponse(unit))
}

func toUnitResponse(u domain.UnitLocation) dto.UnitResponse {
	return dto.UnitResponse{
		ID:        u.ID,
		Name:      u.Name,
		Latitude:  u.Latitude,
		Longitude: u.Longitude,
		IsDefault: u.IsDefault,
	}
}
