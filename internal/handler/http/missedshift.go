package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/missedshift"
	"github.com/shiftwise/shiftwise-backend-go/internal/handler/http/response"
)

type MissedShiftHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	SubmitExplanation(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
}

type MissedShiftHandlerImpl struct {
	explanationService missedshift.ExplanationService
}

func NewMissedShiftHandler(explanationService missedshift.ExplanationService) MissedShiftHandler {
	return &MissedShiftHandlerImpl{explanationService: explanationService}
}

// List implements MissedShiftHandler.
func (h *MissedShiftHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.explanationService.GetMissedShifts(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// SubmitExplanation implements MissedShiftHandler.
func (h *MissedShiftHandlerImpl) SubmitExplanation(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "shiftID")
	if shiftID == "" {
		response.BadRequest(w, "Shift ID is required", nil)
		return
	}

	var req missedshift.SubmitExplanationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SubmitExplanation decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ShiftID = shiftID

	record, err := h.explanationService.SubmitExplanation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Explanation submitted", record)
}

// Review implements MissedShiftHandler.
func (h *MissedShiftHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	explanationID := chi.URLParam(r, "id")
	if explanationID == "" {
		response.BadRequest(w, "Explanation ID is required", nil)
		return
	}

	var req missedshift.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Review decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = explanationID

	record, err := h.explanationService.Review(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Review recorded", record)
}
