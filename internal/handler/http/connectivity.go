package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shiftwise/shiftwise-backend-go/internal/domain/connectivity"
	"github.com/shiftwise/shiftwise-backend-go/internal/handler/http/response"
)

type ConnectivityHandler interface {
	Report(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
}

type ConnectivityHandlerImpl struct {
	connectivityService connectivity.ConnectivityService
}

func NewConnectivityHandler(connectivityService connectivity.ConnectivityService) ConnectivityHandler {
	return &ConnectivityHandlerImpl{connectivityService: connectivityService}
}

// Report implements ConnectivityHandler.
func (h *ConnectivityHandlerImpl) Report(w http.ResponseWriter, r *http.Request) {
	var req connectivity.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Report decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.connectivityService.Report(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// History implements ConnectivityHandler.
func (h *ConnectivityHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.BadRequest(w, "days must be a non-negative number", nil)
			return
		}
		days = parsed
	}

	history, err := h.connectivityService.History(r.Context(), days)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, history)
}
