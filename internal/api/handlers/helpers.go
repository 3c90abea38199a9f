package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mission-route-service/internal/domain"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object into dst and validates it.
// On failure it writes a 400 response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeBody(w, r, dst, false)
}

// decodeOptionalJSON is decodeJSON for endpoints whose fields all have
// defaults: an empty body decodes as {}.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeBody(w, r, dst, true)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	switch {
	case err == io.EOF && optional:
	case err != nil:
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	default:
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
			return false
		}
	}

	if err := validate.Struct(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "validation failed: "+err.Error())
		return false
	}
	return true
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidIndex), errors.Is(err, domain.ErrInvalidPoint):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmptyTrip), errors.Is(err, domain.ErrNoOrigin):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrTripNotReady):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRouteUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrRateLookupFailed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// messageFor hides internal details behind 500 responses.
func messageFor(err error) string {
	switch statusFor(err) {
	case http.StatusInternalServerError:
		if errors.Is(err, domain.ErrPersistenceFailed) {
			return domain.ErrPersistenceFailed.Error()
		}
		return "internal server error"
	case http.StatusBadGateway:
		return domain.ErrRouteUnavailable.Error()
	case http.StatusServiceUnavailable:
		return domain.ErrRateLookupFailed.Error()
	default:
		return err.Error()
	}
}

func writeDomainError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("%s failed: %v", op, err)
	}
	writeError(w, r, status, messageFor(err))
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s must be a uuid: %w", name, domain.ErrNotFound)
	}
	return id, nil
}

func intParam(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", name, domain.ErrInvalidIndex)
	}
	return n, nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}

func formatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
