package connectivity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/connectivity"
	"github.com/sony/gobreaker"
)

const defaultReportMaxRetries = 3

type ReporterConfig struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	MaxRetries uint
}

// Reporter ships observations to the attendance backend. Transient failures
// are retried with exponential backoff; a 429 waits out the server's
// Retry-After. A circuit breaker keeps a struggling backend from being
// hammered by every sampling cycle. Observations are telemetry: when all of
// that fails, the observation is dropped and logged, never queued.
type Reporter struct {
	client  *http.Client
	cfg     ReporterConfig
	breaker *gobreaker.CircuitBreaker
}

func NewReporter(cfg ReporterConfig) *Reporter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultReportMaxRetries
	}

	settings := gobreaker.Settings{
		Name:     "attendance-backend",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
	}

	return &Reporter{
		client:  &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Report posts one observation and returns the backend's evaluation.
func (r *Reporter) Report(ctx context.Context, obs connectivity.Observation) (connectivity.ReportResponse, error) {
	observedAt := obs.ObservedAt.Format(time.RFC3339)
	req := connectivity.ReportRequest{
		SSID:       obs.SSID,
		Connected:  obs.Connected,
		Latitude:   obs.Latitude,
		Longitude:  obs.Longitude,
		ObservedAt: &observedAt,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return connectivity.ReportResponse{}, fmt.Errorf("failed to marshal report request: %w", err)
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = time.Second
	expo.Multiplier = 2
	expo.RandomizationFactor = 0

	// One request ID for all retries of the same observation, so the backend
	// can spot duplicates from a flaky link.
	requestID := uuid.NewString()

	operation := func() (connectivity.ReportResponse, error) {
		result, err := r.breaker.Execute(func() (interface{}, error) {
			return r.post(ctx, requestID, body)
		})
		if err != nil {
			if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
				return connectivity.ReportResponse{}, backoff.Permanent(err)
			}
			return connectivity.ReportResponse{}, err
		}
		return result.(connectivity.ReportResponse), nil
	}

	resp, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(r.cfg.MaxRetries),
	)
	if err != nil {
		return connectivity.ReportResponse{}, fmt.Errorf("failed to report observation: %w", err)
	}
	return resp, nil
}

// Submit implements ObservationSink. Failures are logged and swallowed so the
// sampler's next cycle is never blocked.
func (r *Reporter) Submit(ctx context.Context, obs connectivity.Observation) {
	resp, err := r.Report(ctx, obs)
	if err != nil {
		slog.Warn("Dropped connectivity observation",
			"user_id", obs.UserID, "connected", obs.Connected, "error", err)
		return
	}
	if len(resp.TriggeredActions) > 0 {
		slog.Info("Observation triggered actions",
			"user_id", obs.UserID, "actions", resp.TriggeredActions)
	}
}

func (r *Reporter) post(ctx context.Context, requestID string, body []byte) (connectivity.ReportResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.cfg.BaseURL+"/api/v1/connectivity/report", bytes.NewReader(body))
	if err != nil {
		return connectivity.ReportResponse{}, backoff.Permanent(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if r.cfg.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+r.cfg.Token)
	}

	httpResp, err := r.client.Do(httpReq)
	if err != nil {
		return connectivity.ReportResponse{}, err
	}
	defer httpResp.Body.Close()

	switch {
	case httpResp.StatusCode == http.StatusTooManyRequests:
		if seconds, parseErr := strconv.Atoi(httpResp.Header.Get("Retry-After")); parseErr == nil && seconds > 0 {
			return connectivity.ReportResponse{}, backoff.RetryAfter(seconds)
		}
		return connectivity.ReportResponse{}, fmt.Errorf("backend rate limited the report")
	case httpResp.StatusCode >= 500:
		return connectivity.ReportResponse{}, fmt.Errorf("backend returned status %d", httpResp.StatusCode)
	case httpResp.StatusCode >= 400:
		return connectivity.ReportResponse{}, backoff.Permanent(fmt.Errorf("backend rejected the report with status %d", httpResp.StatusCode))
	}

	var parsed struct {
		Data connectivity.ReportResponse `json:"data"`
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&parsed); err != nil {
		return connectivity.ReportResponse{}, backoff.Permanent(fmt.Errorf("failed to decode report response: %w", err))
	}
	return parsed.Data, nil
}
