package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/shiftwise/shiftwise-backend-go/internal/domain/attendance"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/connectivity"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/location"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/shift"
	"github.com/shiftwise/shiftwise-backend-go/internal/service/geomatch"
)

// Actions reported back to the device after an observation is evaluated.
const (
	ActionAutoClockIn          = "auto_clock_in"
	ActionAutoClockOut         = "auto_clock_out"
	ActionManualClockInNeeded  = "manual_clock_in_required"
	ActionEvaluationInProgress = "evaluation_in_progress"
)

// Engine is the automatic attendance state machine. It consumes connectivity
// observations and decides whether to open or close a session for the
// observed user. Evaluations for one user never run concurrently:
// observations arriving while a prior evaluation is in flight are dropped,
// not queued, so racing decisions can never open two sessions.
type Engine struct {
	sessionRepo  attendance.SessionRepository
	shiftRepo    shift.ShiftRepository
	locationRepo location.LocationRepository
	matcher      *geomatch.Matcher
	now          func() time.Time

	mu    sync.Mutex
	users map[string]*userState
}

type userState struct {
	evaluating        bool
	disconnectedSince *time.Time
}

func NewEngine(
	sessionRepo attendance.SessionRepository,
	shiftRepo shift.ShiftRepository,
	locationRepo location.LocationRepository,
	matcher *geomatch.Matcher,
) *Engine {
	return &Engine{
		sessionRepo:  sessionRepo,
		shiftRepo:    shiftRepo,
		locationRepo: locationRepo,
		matcher:      matcher,
		now:          func() time.Time { return time.Now().UTC() },
		users:        make(map[string]*userState),
	}
}

// SetClock overrides the engine clock. Test hook.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

func (e *Engine) state(userID string) *userState {
	st, ok := e.users[userID]
	if !ok {
		st = &userState{}
		e.users[userID] = st
	}
	return st
}

func (e *Engine) tryBegin(userID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.state(userID)
	if st.evaluating {
		return false
	}
	st.evaluating = true
	return true
}

func (e *Engine) finish(userID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.users[userID].evaluating = false
}

func (e *Engine) disconnectedSince(userID string) *time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state(userID).disconnectedSince
}

func (e *Engine) setDisconnectedSince(userID string, t *time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state(userID).disconnectedSince = t
}

// HandleObservation evaluates one connectivity observation. The returned
// response always describes the device's wifi standing; TriggeredActions
// lists what, if anything, the engine did about it. Transient failures leave
// session state untouched.
func (e *Engine) HandleObservation(ctx context.Context, obs connectivity.Observation) (connectivity.ReportResponse, error) {
	resp := connectivity.ReportResponse{
		WifiStatus:       connectivity.WifiStatus{Connected: obs.Connected, SSID: obs.SSID},
		TriggeredActions: []string{},
	}

	if !e.tryBegin(obs.UserID) {
		resp.TriggeredActions = append(resp.TriggeredActions, ActionEvaluationInProgress)
		return resp, nil
	}
	defer e.finish(obs.UserID)

	locations, err := e.locationRepo.List(ctx)
	if err != nil {
		return resp, fmt.Errorf("failed to list locations: %w", err)
	}

	candidates := e.matchLocations(obs, locations)
	if len(candidates) == 1 {
		resp.WifiStatus.LocationID = &candidates[0].ID
		resp.WifiStatus.ValidForClock = obs.Connected && e.wifiSatisfied(obs, candidates[0])
	}

	open, err := e.sessionRepo.GetOpenSession(ctx, obs.UserID)
	if err != nil {
		return resp, fmt.Errorf("failed to get open session: %w", err)
	}

	if obs.Connected {
		e.setDisconnectedSince(obs.UserID, nil)
		return e.handleConnected(ctx, obs, candidates, open, resp)
	}
	return e.handleDisconnected(ctx, obs, locations, open, resp)
}

// matchLocations resolves an observation to candidate locations: by geofence
// when the observation carries a position fix, by SSID otherwise.
func (e *Engine) matchLocations(obs connectivity.Observation, locations []location.Location) []location.Location {
	if obs.Latitude != nil && obs.Longitude != nil {
		pos := connectivity.Position{Latitude: *obs.Latitude, Longitude: *obs.Longitude}
		if matched := e.matcher.Match(pos, locations); matched != nil {
			return []location.Location{*matched}
		}
		return nil
	}
	return e.matcher.MatchBySSID(obs.SSID, locations)
}

func (e *Engine) wifiSatisfied(obs connectivity.Observation, loc location.Location) bool {
	if !loc.WifiSettings.RequireWifiForClockInOut {
		return true
	}
	return obs.Connected && obs.SSID == loc.WifiSettings.SSID
}

func (e *Engine) handleConnected(
	ctx context.Context,
	obs connectivity.Observation,
	candidates []location.Location,
	open *attendance.Session,
	resp connectivity.ReportResponse,
) (connectivity.ReportResponse, error) {
	now := e.now()

	if open != nil {
		// Re-observing a connected state while clocked in is a no-op, but a
		// session whose shift has already ended still gets closed.
		if closed, err := e.closeIfShiftEnded(ctx, obs, open, now); err != nil {
			return resp, err
		} else if closed {
			resp.TriggeredActions = append(resp.TriggeredActions, ActionAutoClockOut)
		}
		return resp, nil
	}

	eligible, err := e.eligibleShifts(ctx, obs, candidates, now)
	if err != nil {
		return resp, err
	}
	if len(eligible) == 0 {
		return resp, nil
	}

	// Shifts at more than one location qualify: ambiguous, never guess.
	locationIDs := make(map[string]bool)
	for _, es := range eligible {
		locationIDs[es.loc.ID] = true
	}
	if len(locationIDs) > 1 {
		slog.Warn("Ambiguous auto clock-in, manual action required",
			"user_id", obs.UserID, "candidate_locations", len(locationIDs))
		resp.TriggeredActions = append(resp.TriggeredActions, ActionManualClockInNeeded)
		return resp, nil
	}

	// Earliest start time wins among overlapping shifts at one location.
	sort.Slice(eligible, func(i, j int) bool {
		return eligible[i].sh.StartTime.Before(eligible[j].sh.StartTime)
	})
	chosen := eligible[0]

	session := attendance.Session{
		UserID:            obs.UserID,
		ShiftID:           &chosen.sh.ID,
		ClockIn:           now,
		ClockInLocationID: &chosen.loc.ID,
		ClockInSSID:       &obs.SSID,
		ClockInLatitude:   obs.Latitude,
		ClockInLongitude:  obs.Longitude,
		Status:            attendance.StatusClockedIn,
		AutoClockIn:       true,
	}

	if _, err := e.sessionRepo.Create(ctx, session); err != nil {
		// A manual clock-in may have won the race. Authoritative state
		// decides; the engine never assumes its insert succeeded.
		if open, refetchErr := e.sessionRepo.GetOpenSession(ctx, obs.UserID); refetchErr == nil && open != nil {
			slog.Info("Auto clock-in skipped, session already open", "user_id", obs.UserID)
			return resp, nil
		}
		return resp, fmt.Errorf("failed to create auto clock-in session: %w", err)
	}

	slog.Info("Auto clock-in",
		"user_id", obs.UserID, "location_id", chosen.loc.ID, "shift_id", chosen.sh.ID)
	resp.TriggeredActions = append(resp.TriggeredActions, ActionAutoClockIn)
	return resp, nil
}

type eligibleShift struct {
	sh  shift.Shift
	loc location.Location
}

// eligibleShifts returns the user's shifts that qualify for auto clock-in
// right now: at a candidate location with auto clock-in enabled, wifi
// requirement satisfied, and now within [start - grace, end].
func (e *Engine) eligibleShifts(
	ctx context.Context,
	obs connectivity.Observation,
	candidates []location.Location,
	now time.Time,
) ([]eligibleShift, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	shifts, err := e.shiftRepo.GetAssigned(ctx, obs.UserID, now.Add(-48*time.Hour), now.Add(48*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to get assigned shifts: %w", err)
	}

	var eligible []eligibleShift
	for _, loc := range candidates {
		if !loc.WifiSettings.AutoClockInEnabled || !e.wifiSatisfied(obs, loc) {
			continue
		}
		grace := loc.WifiSettings.GracePeriod()
		for _, sh := range shifts {
			if sh.LocationID != loc.ID {
				continue
			}
			if now.Before(sh.StartTime.Add(-grace)) || now.After(sh.EndTime) {
				continue
			}
			eligible = append(eligible, eligibleShift{sh: sh, loc: loc})
		}
	}
	return eligible, nil
}

func (e *Engine) handleDisconnected(
	ctx context.Context,
	obs connectivity.Observation,
	locations []location.Location,
	open *attendance.Session,
	resp connectivity.ReportResponse,
) (connectivity.ReportResponse, error) {
	now := e.now()

	if open == nil {
		e.setDisconnectedSince(obs.UserID, nil)
		return resp, nil
	}

	if closed, err := e.closeIfShiftEnded(ctx, obs, open, now); err != nil {
		return resp, err
	} else if closed {
		e.setDisconnectedSince(obs.UserID, nil)
		resp.TriggeredActions = append(resp.TriggeredActions, ActionAutoClockOut)
		return resp, nil
	}

	var sessionLoc *location.Location
	if open.ClockInLocationID != nil {
		for i := range locations {
			if locations[i].ID == *open.ClockInLocationID {
				sessionLoc = &locations[i]
				break
			}
		}
	}
	if sessionLoc == nil || !sessionLoc.WifiSettings.AutoClockOutEnabled {
		return resp, nil
	}

	since := e.disconnectedSince(obs.UserID)
	if since == nil {
		observedAt := obs.ObservedAt
		e.setDisconnectedSince(obs.UserID, &observedAt)
		return resp, nil
	}

	// A disconnection lasting exactly the grace period does not trigger;
	// it must exceed it.
	if now.Sub(*since) <= sessionLoc.WifiSettings.GracePeriod() {
		return resp, nil
	}

	if err := e.closeSession(ctx, obs, open, now); err != nil {
		return resp, err
	}
	e.setDisconnectedSince(obs.UserID, nil)
	resp.TriggeredActions = append(resp.TriggeredActions, ActionAutoClockOut)
	return resp, nil
}

// closeIfShiftEnded closes the open session when its linked shift's end time
// has passed, regardless of connectivity.
func (e *Engine) closeIfShiftEnded(ctx context.Context, obs connectivity.Observation, open *attendance.Session, now time.Time) (bool, error) {
	if open.ShiftID == nil {
		return false, nil
	}

	sh, err := e.shiftRepo.GetByID(ctx, *open.ShiftID)
	if err != nil {
		return false, fmt.Errorf("failed to get shift for open session: %w", err)
	}
	if !now.After(sh.EndTime) {
		return false, nil
	}

	if err := e.closeSession(ctx, obs, open, now); err != nil {
		return false, err
	}
	return true, nil
}

func (e *Engine) closeSession(ctx context.Context, obs connectivity.Observation, open *attendance.Session, now time.Time) error {
	workMinutes := int(now.Sub(open.ClockIn).Minutes())

	open.ClockOut = &now
	open.ClockOutLocationID = open.ClockInLocationID
	open.ClockOutSSID = &obs.SSID
	open.ClockOutLatitude = obs.Latitude
	open.ClockOutLongitude = obs.Longitude
	open.WorkMinutes = &workMinutes
	open.Status = attendance.StatusClockedOut
	open.AutoClockOut = true

	if err := e.sessionRepo.Close(ctx, *open); err != nil {
		// Already closed elsewhere (manual clock-out or admin correction):
		// authoritative state wins, local state is simply refreshed.
		if refetched, refetchErr := e.sessionRepo.GetOpenSession(ctx, obs.UserID); refetchErr == nil && refetched == nil {
			slog.Info("Auto clock-out skipped, session already closed", "user_id", obs.UserID, "session_id", open.ID)
			return nil
		}
		return fmt.Errorf("failed to close session: %w", err)
	}

	slog.Info("Auto clock-out",
		"user_id", obs.UserID, "session_id", open.ID, "work_minutes", workMinutes)
	return nil
}
