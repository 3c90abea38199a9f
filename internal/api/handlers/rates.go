package handlers

import (
	"mission-route-service/internal/api/dto"
	"mission-route-service/internal/domain"
	"mission-route-service/internal/ports"
	"mission-route-service/internal/services"
	"net/http"
	"time"
)

// RateHandler exposes the per-kilometre rate schedule.
type RateHandler struct {
	Repo ports.RateRepository
}

func (h *RateHandler) List(w http.ResponseWriter, r *http.Request) {
	rates, err := h.Repo.ListRates(r.Context())
	if err != nil {
		writeDomainError(w, r, "list rates", err)
		return
	}

	res := dto.ListRatesResponse{Rates: make([]dto.RateResponse, 0, len(rates))}
	for _, s := range rates {
		res.Rates = append(res.Rates, toRateResponse(s))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *RateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}

	rate := domain.RateSetting{
		Title:     req.Title,
		RatePerKm: req.RatePerKm,
		StartDate: start,
		IsActive:  true,
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
			return
		}
		rate.EndDate = &end
	}
	if req.IsActive != nil {
		rate.IsActive = *req.IsActive
	}

	if err := rate.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Repo.CreateRate(r.Context(), &rate); err != nil {
		writeDomainError(w, r, "create rate", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toRateResponse(rate))
}

// Effective reports the rate for ?date=YYYY-MM-DD, defaulting to today.
func (h *RateHandler) Effective(w http.ResponseWriter, r *http.Request) {
	date := domain.DateOnly(time.Now())
	if q := r.URL.Query().Get("date"); q != "" {
		d, err := parseDate(q)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = d
	}

	resolved, err := services.ResolveRate(r.Context(), h.Repo, date)
	if err != nil {
		writeDomainError(w, r, "effective rate", err)
		return
	}

	res := dto.EffectiveRateResponse{
		Date:         formatDate(date),
		Found:        resolved.Found,
		RatePerKm:    resolved.PerKm,
		NoActiveRate: !resolved.Found,
	}
	if resolved.Setting != nil {
		rr := toRateResponse(*resolved.Setting)
		res.Rate = &rr
	}
	writeJSON(w, r, http.StatusOK, res)
}

func toRateResponse(s domain.RateSetting) dto.RateResponse {
	res := dto.RateResponse{
		ID:        s.ID,
		Title:     s.Title,
		RatePerKm: s.RatePerKm,
		StartDate: formatDate(s.StartDate),
		IsActive:  s.IsActive,
	}
	if s.EndDate != nil {
		end := formatDate(*s.EndDate)
		res.EndDate = &end
	}
	return res
}
