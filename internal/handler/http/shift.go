package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/shift"
	"github.com/shiftwise/shiftwise-backend-go/internal/handler/http/response"
)

type ShiftHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetAssigned(w http.ResponseWriter, r *http.Request)
	Book(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	PreviewSlots(w http.ResponseWriter, r *http.Request)
	CommitSlots(w http.ResponseWriter, r *http.Request)
}

type ShiftHandlerImpl struct {
	shiftService shift.ShiftService
}

func NewShiftHandler(shiftService shift.ShiftService) ShiftHandler {
	return &ShiftHandlerImpl{shiftService: shiftService}
}

// Create implements ShiftHandler.
func (h *ShiftHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create shift decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.shiftService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift created successfully", created)
}

// GetAssigned implements ShiftHandler. Defaults to the current week when no
// range is given.
func (h *ShiftHandlerImpl) GetAssigned(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		now := time.Now().UTC()
		from = now.Format("2006-01-02")
		to = now.AddDate(0, 0, 7).Format("2006-01-02")
	}

	shifts, err := h.shiftService.GetAssigned(r.Context(), from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, shifts)
}

// Book implements ShiftHandler.
func (h *ShiftHandlerImpl) Book(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "id")
	if shiftID == "" {
		response.BadRequest(w, "Shift ID is required", nil)
		return
	}

	booked, err := h.shiftService.Book(r.Context(), shiftID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift booked successfully", booked)
}

// Cancel implements ShiftHandler.
func (h *ShiftHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "id")
	if shiftID == "" {
		response.BadRequest(w, "Shift ID is required", nil)
		return
	}

	cancelled, err := h.shiftService.Cancel(r.Context(), shiftID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift booking cancelled", cancelled)
}

// PreviewSlots implements ShiftHandler.
func (h *ShiftHandlerImpl) PreviewSlots(w http.ResponseWriter, r *http.Request) {
	var req shift.GenerateSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("PreviewSlots decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	preview, err := h.shiftService.PreviewSlots(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, preview)
}

// CommitSlots implements ShiftHandler.
func (h *ShiftHandlerImpl) CommitSlots(w http.ResponseWriter, r *http.Request) {
	var req shift.GenerateSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CommitSlots decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.shiftService.CommitSlots(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift slots created", result)
}
