package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/location"
	"github.com/shiftwise/shiftwise-backend-go/internal/handler/http/response"
)

type LocationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	UpdateWifiSettings(w http.ResponseWriter, r *http.Request)
}

type LocationHandlerImpl struct {
	locationService location.LocationService
}

func NewLocationHandler(locationService location.LocationService) LocationHandler {
	return &LocationHandlerImpl{locationService: locationService}
}

// List implements LocationHandler.
func (h *LocationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	locations, err := h.locationService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, locations)
}

// Get implements LocationHandler.
func (h *LocationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "id")
	if locationID == "" {
		response.BadRequest(w, "Location ID is required", nil)
		return
	}

	loc, err := h.locationService.GetByID(r.Context(), locationID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, loc)
}

// UpdateWifiSettings implements LocationHandler.
func (h *LocationHandlerImpl) UpdateWifiSettings(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "id")
	if locationID == "" {
		response.BadRequest(w, "Location ID is required", nil)
		return
	}

	var req location.UpdateWifiSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateWifiSettings decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = locationID

	updated, err := h.locationService.UpdateWifiSettings(r.Context(), locationID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Wifi settings updated successfully", updated)
}
