package connectivity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/connectivity"
	attendanceservice "github.com/shiftwise/shiftwise-backend-go/internal/service/attendance"
)

const defaultHistoryDays = 7

type connectivityServiceImpl struct {
	historyRepo connectivity.HistoryRepository
	engine      *attendanceservice.Engine
}

func NewConnectivityService(
	historyRepo connectivity.HistoryRepository,
	engine *attendanceservice.Engine,
) connectivity.ConnectivityService {
	return &connectivityServiceImpl{
		historyRepo: historyRepo,
		engine:      engine,
	}
}

func userIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid")
	}
	return userID, nil
}

// Report implements connectivity.ConnectivityService. The observation is
// persisted for audit and then evaluated by the attendance engine. History
// persistence is best-effort: losing an audit row must not cost the user an
// automatic clock-in.
func (s *connectivityServiceImpl) Report(ctx context.Context, req connectivity.ReportRequest) (connectivity.ReportResponse, error) {
	if err := req.Validate(); err != nil {
		return connectivity.ReportResponse{}, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return connectivity.ReportResponse{}, err
	}

	observedAt := time.Now().UTC()
	if req.ObservedAt != nil {
		parsed, _ := time.Parse(time.RFC3339, *req.ObservedAt)
		observedAt = parsed.UTC()
	}

	obs := connectivity.Observation{
		UserID:     userID,
		SSID:       req.SSID,
		Connected:  req.Connected,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		ObservedAt: observedAt,
	}

	if saved, saveErr := s.historyRepo.Save(ctx, obs); saveErr != nil {
		slog.Warn("Failed to persist connectivity observation", "user_id", userID, "error", saveErr)
	} else {
		obs.ID = saved.ID
	}

	return s.engine.HandleObservation(ctx, obs)
}

// History implements connectivity.ConnectivityService.
func (s *connectivityServiceImpl) History(ctx context.Context, days int) ([]connectivity.ObservationResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if days <= 0 {
		days = defaultHistoryDays
	}

	observations, err := s.historyRepo.ListByUser(ctx, userID, days)
	if err != nil {
		return nil, fmt.Errorf("failed to list connectivity history: %w", err)
	}

	responses := make([]connectivity.ObservationResponse, 0, len(observations))
	for _, o := range observations {
		responses = append(responses, connectivity.MapObservationToResponse(o))
	}
	return responses, nil
}
