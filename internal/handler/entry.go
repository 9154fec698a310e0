package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/food-rotation/internal/rotation"
	"github.com/sakif/food-rotation/internal/service"
)

// EntryHandler serves the consumption log endpoints.
type EntryHandler struct {
	entries *service.EntryService
	logger  *slog.Logger
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entries *service.EntryService, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{entries: entries, logger: logger}
}

type createEntryRequest struct {
	FoodID *int64 `json:"foodId"`
	Date   string `json:"date"`
	Time   string `json:"time"`
}

type updateEntryRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type entryDateResponse struct {
	ID   int64  `json:"id"`
	Date string `json:"date"` // same layout as stored entry dates
}

// HandleList returns entries newest first.
//
// HTTP: GET /api/entries?since=2024-01-01
func (h *EntryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.entries.List(r.Context(), r.URL.Query().Get("since"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleCreate logs that a food was eaten, now or at an explicit date+time.
//
// HTTP: POST /api/entries
// REQUEST BODY: {"foodId": 3, "date": "2024-01-10", "time": "08:30"}
func (h *EntryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warn("invalid entry JSON", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	entry, err := h.entries.Create(r.Context(), service.CreateEntryInput{
		FoodID: req.FoodID,
		Date:   req.Date,
		Time:   req.Time,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// HandleUpdate reschedules an entry.
//
// HTTP: PUT /api/entries/{id}
// REQUEST BODY: {"date": "2024-01-10", "time": "08:30"}
func (h *EntryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	when, err := h.entries.UpdateDate(r.Context(), id, req.Date, req.Time)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entryDateResponse{ID: id, Date: rotation.FormatTimestamp(when)})
}

// HandleDelete removes an entry. Unknown ids still succeed.
//
// HTTP: DELETE /api/entries/{id}
func (h *EntryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.entries.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, idResponse{ID: id})
}
