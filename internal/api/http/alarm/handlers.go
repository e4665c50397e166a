package alarm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/export"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/service/registry"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

var (
	// errNoUpcomingAlarm is reported when no active alarm has a next trigger.
	errNoUpcomingAlarm = errors.New("no upcoming alarm")
	// errMalformedBody is returned for request bodies that are not valid JSON.
	errMalformedBody = errors.New("malformed request body")
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// deleteResponse reports the outcome of a delete.
type deleteResponse struct {
	Deleted bool `json:"deleted"`
}

// toggleResponse carries the active flag after a toggle.
type toggleResponse struct {
	IsActive bool `json:"isActive"`
}

// permissionResponse carries the notification permission outcome.
type permissionResponse struct {
	Granted bool `json:"granted"`
}

// handlers binds the routes to a registry.
type handlers struct {
	registry Registry
}

func (h *handlers) listAlarms(w http.ResponseWriter, _ *http.Request) {
	alarms := h.registry.GetAllAlarms()
	if alarms == nil {
		alarms = []*domain.Alarm{}
	}

	writeJSON(w, http.StatusOK, alarms)
}

func (h *handlers) createAlarm(w http.ResponseWriter, r *http.Request) {
	var draft domain.Draft
	if err := readJSON(r, &draft); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.registry.CreateAlarm(r.Context(), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *handlers) nextAlarm(w http.ResponseWriter, r *http.Request) {
	next, ok := h.registry.GetNextAlarm()
	if !ok {
		writeError(w, r, fmt.Errorf("%w: %w", registry.ErrNotFound, errNoUpcomingAlarm))
		return
	}

	writeJSON(w, http.StatusOK, next)
}

func (h *handlers) getAlarm(w http.ResponseWriter, r *http.Request) {
	found, ok := h.registry.GetAlarm(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, r, registry.ErrNotFound)
		return
	}

	writeJSON(w, http.StatusOK, found)
}

func (h *handlers) updateAlarm(w http.ResponseWriter, r *http.Request) {
	patch := new(domain.Patch)
	if err := readJSON(r, patch); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.registry.UpdateAlarm(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *handlers) deleteAlarm(w http.ResponseWriter, r *http.Request) {
	if !h.registry.DeleteAlarm(r.Context(), chi.URLParam(r, "id")) {
		writeError(w, r, registry.ErrNotFound)
		return
	}

	writeJSON(w, http.StatusOK, deleteResponse{Deleted: true})
}

func (h *handlers) toggleAlarm(w http.ResponseWriter, r *http.Request) {
	active, err := h.registry.ToggleAlarm(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toggleResponse{IsActive: active})
}

func (h *handlers) fireAlarm(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.TriggerAlarm(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) getSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.GetSettings())
}

func (h *handlers) updateSettings(w http.ResponseWriter, r *http.Request) {
	patch := new(domain.SettingsPatch)
	if err := readJSON(r, patch); err != nil {
		writeError(w, r, err)
		return
	}

	settings, err := h.registry.UpdateSettings(r.Context(), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

func (h *handlers) requestPermission(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, permissionResponse{
		Granted: h.registry.RequestNotificationPermission(r.Context()),
	})
}

func (h *handlers) export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="alarms.%s"`, format))

	err = export.Write(w, format, h.registry.GetAllAlarms(), h.registry.GetSettings(), h.registry.Now())
	if err != nil {
		// Headers are already sent.
		logger.ErrorKV(r.Context(), "Failed to export alarms", "format", format, "error", err)
	}
}

func (h *handlers) stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.Stats())
}

// readJSON decodes a bounded request body, rejecting unknown fields.
func readJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		// Field-level validation errors keep their identity.
		if errors.Is(err, domain.ErrInvalidTime) {
			return err
		}

		return fmt.Errorf("%w: %w", errMalformedBody, err)
	}

	return nil
}

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps registry and validation errors to HTTP status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusCode(err)
	if code == http.StatusInternalServerError {
		logger.ErrorKV(r.Context(), "Request failed", "error", err)
	}

	writeJSON(w, code, errorResponse{Error: err.Error()})
}

// statusCode classifies an error.
func statusCode(err error) int {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errMalformedBody),
		errors.Is(err, domain.ErrInvalidTime),
		errors.Is(err, domain.ErrInvalidRepeatType),
		errors.Is(err, domain.ErrInvalidRepeatDay),
		errors.Is(err, domain.ErrInvalidSettings),
		errors.Is(err, export.ErrUnknownFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
