package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/food-rotation/internal/service"
)

// FoodHandler serves the food catalog endpoints.
type FoodHandler struct {
	foods  *service.FoodService
	logger *slog.Logger
}

// NewFoodHandler creates a new FoodHandler.
func NewFoodHandler(foods *service.FoodService, logger *slog.Logger) *FoodHandler {
	return &FoodHandler{foods: foods, logger: logger}
}

type foodRequest struct {
	Name string `json:"name"`
}

// HandleList returns all foods alphabetically.
//
// HTTP: GET /api/foods
func (h *FoodHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	foods, err := h.foods.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, foods)
}

// HandleLookup resolves a typed name to a catalog food, ignoring case.
//
// HTTP: GET /api/foods/lookup?name=rice
func (h *FoodHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	food, err := h.foods.Lookup(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, food)
}

// HandleCreate adds a food.
//
// HTTP: POST /api/foods
// REQUEST BODY: {"name": "Rice"}
func (h *FoodHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req foodRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warn("invalid food JSON", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	food, err := h.foods.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, food)
}

// HandleRename renames a food and its attached entries.
//
// HTTP: PUT /api/foods/{id}
// REQUEST BODY: {"name": "Brown Rice"}
func (h *FoodHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req foodRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	food, err := h.foods.Rename(r.Context(), id, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, food)
}

// HandleDelete removes a food. With ?removeEntries=true its entries go too;
// otherwise they are detached and keep their recorded name.
//
// HTTP: DELETE /api/foods/{id}?removeEntries=bool
func (h *FoodHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	removeEntries := r.URL.Query().Get("removeEntries") == "true"
	if err := h.foods.Delete(r.Context(), id, removeEntries); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, idResponse{ID: id})
}
