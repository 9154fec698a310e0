package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/food-rotation/internal/service"
)

// RotationHandler serves the derived, read-only rotation views.
type RotationHandler struct {
	rotation *service.RotationService
	logger   *slog.Logger
}

// NewRotationHandler creates a new RotationHandler.
func NewRotationHandler(rotation *service.RotationService, logger *slog.Logger) *RotationHandler {
	return &RotationHandler{rotation: rotation, logger: logger}
}

// HandleNext lists each food with the day it becomes available again.
//
// HTTP: GET /api/foods/next
func (h *RotationHandler) HandleNext(w http.ResponseWriter, r *http.Request) {
	rows, err := h.rotation.NextAvailable(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleAvailable lists the foods that may be eaten today.
//
// HTTP: GET /api/available
func (h *RotationHandler) HandleAvailable(w http.ResponseWriter, r *http.Request) {
	foods, err := h.rotation.Available(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, foods)
}

// HandleSummary lists recent entries with their repeated flags.
//
// HTTP: GET /api/summary
func (h *RotationHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.rotation.Summary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Pinger is satisfied by the store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports whether the database answers.
//
// HTTP: GET /healthz
func Health(db Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.Error("health check failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
