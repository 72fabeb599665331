package connectivity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shiftwise/shiftwise-backend-go/internal/domain/connectivity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testObservation() connectivity.Observation {
	return connectivity.Observation{
		UserID:     "user-1",
		SSID:       "StoreWifi",
		Connected:  true,
		ObservedAt: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
	}
}

func reportEnvelope() []byte {
	body, _ := json.Marshal(map[string]any{
		"data": connectivity.ReportResponse{
			WifiStatus:       connectivity.WifiStatus{Connected: true, SSID: "StoreWifi", ValidForClock: true},
			TriggeredActions: []string{"auto_clock_in"},
		},
	})
	return body
}

func TestReporter_SuccessfulReport(t *testing.T) {
	t.Parallel()

	var gotAuth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))

		var req connectivity.ReportRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "StoreWifi", req.SSID)

		w.Header().Set("Content-Type", "application/json")
		w.Write(reportEnvelope())
	}))
	defer server.Close()

	reporter := NewReporter(ReporterConfig{BaseURL: server.URL, Token: "token-abc"})

	resp, err := reporter.Report(context.Background(), testObservation())

	require.NoError(t, err)
	assert.Equal(t, "Bearer token-abc", gotAuth.Load())
	assert.True(t, resp.WifiStatus.ValidForClock)
	assert.Equal(t, []string{"auto_clock_in"}, resp.TriggeredActions)
}

func TestReporter_RetriesAfterServerError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(reportEnvelope())
	}))
	defer server.Close()

	reporter := NewReporter(ReporterConfig{BaseURL: server.URL})

	_, err := reporter.Report(context.Background(), testObservation())

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestReporter_HonorsRetryAfterOn429(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	start := time.Now()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write(reportEnvelope())
	}))
	defer server.Close()

	reporter := NewReporter(ReporterConfig{BaseURL: server.URL})

	_, err := reporter.Report(context.Background(), testObservation())

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.GreaterOrEqual(t, time.Since(start), time.Second)
}

func TestReporter_ClientErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	reporter := NewReporter(ReporterConfig{BaseURL: server.URL})

	_, err := reporter.Report(context.Background(), testObservation())

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestReporter_GivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	reporter := NewReporter(ReporterConfig{BaseURL: server.URL, MaxRetries: 2})

	_, err := reporter.Report(context.Background(), testObservation())

	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
}
