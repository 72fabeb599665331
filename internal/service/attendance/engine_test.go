package attendance

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/attendance"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/connectivity"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/location"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/shift"
	"github.com/shiftwise/shiftwise-backend-go/internal/service/geomatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionRepo struct {
	sessions     map[string]*attendance.Session
	createErr    error
	hideOpenOnce bool
	nextID       int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*attendance.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, s attendance.Session) (attendance.Session, error) {
	if r.createErr != nil {
		return attendance.Session{}, r.createErr
	}
	for _, existing := range r.sessions {
		if existing.UserID == s.UserID && existing.Open() {
			return attendance.Session{}, errors.New("duplicate key value violates unique constraint")
		}
	}
	r.nextID++
	s.ID = fmt.Sprintf("session-%d", r.nextID)
	r.sessions[s.ID] = &s
	return s, nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id string) (attendance.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return attendance.Session{}, attendance.ErrSessionNotFound
	}
	return *s, nil
}

func (r *fakeSessionRepo) GetOpenSession(_ context.Context, userID string) (*attendance.Session, error) {
	if r.hideOpenOnce {
		r.hideOpenOnce = false
		return nil, nil
	}
	for _, s := range r.sessions {
		if s.UserID == userID && s.Open() {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) Close(_ context.Context, s attendance.Session) error {
	existing, ok := r.sessions[s.ID]
	if !ok {
		return attendance.ErrSessionNotFound
	}
	if !existing.Open() {
		return attendance.ErrSessionClosed
	}
	r.sessions[s.ID] = &s
	return nil
}

func (r *fakeSessionRepo) Update(_ context.Context, s attendance.Session) error {
	r.sessions[s.ID] = &s
	return nil
}

func (r *fakeSessionRepo) FindForShift(_ context.Context, shiftID string) (*attendance.Session, error) {
	for _, s := range r.sessions {
		if s.ShiftID != nil && *s.ShiftID == shiftID {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindInWindow(_ context.Context, userID, locationID string, from, to time.Time) ([]attendance.Session, error) {
	var out []attendance.Session
	for _, s := range r.sessions {
		if s.UserID != userID || s.ClockInLocationID == nil || *s.ClockInLocationID != locationID {
			continue
		}
		if s.ClockIn.Before(from) || s.ClockIn.After(to) {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeSessionRepo) ListStaleOpen(_ context.Context, _ int) ([]attendance.Session, error) {
	return nil, nil
}

func (r *fakeSessionRepo) openCount(userID string) int {
	count := 0
	for _, s := range r.sessions {
		if s.UserID == userID && s.Open() {
			count++
		}
	}
	return count
}

type fakeShiftRepo struct {
	shifts []shift.Shift
}

func (r *fakeShiftRepo) Create(_ context.Context, s shift.Shift) (shift.Shift, error) {
	r.shifts = append(r.shifts, s)
	return s, nil
}

func (r *fakeShiftRepo) GetByID(_ context.Context, id string) (shift.Shift, error) {
	for _, s := range r.shifts {
		if s.ID == id {
			return s, nil
		}
	}
	return shift.Shift{}, shift.ErrShiftNotFound
}

func (r *fakeShiftRepo) Update(_ context.Context, s shift.Shift) error {
	for i := range r.shifts {
		if r.shifts[i].ID == s.ID {
			r.shifts[i] = s
			return nil
		}
	}
	return shift.ErrShiftNotFound
}

func (r *fakeShiftRepo) GetAssigned(_ context.Context, userID string, from, to time.Time) ([]shift.Shift, error) {
	var out []shift.Shift
	for _, s := range r.shifts {
		if s.AssignedTo == nil || *s.AssignedTo != userID {
			continue
		}
		if s.EndTime.Before(from) || s.StartTime.After(to) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeShiftRepo) ListByLocation(_ context.Context, locationID string, from, to time.Time) ([]shift.Shift, error) {
	var out []shift.Shift
	for _, s := range r.shifts {
		if s.LocationID == locationID && !s.EndTime.Before(from) && !s.StartTime.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeShiftRepo) ListEndedUnattended(_ context.Context) ([]shift.Shift, error) {
	return nil, nil
}

type fakeLocationRepo struct {
	locations []location.Location
}

func (r *fakeLocationRepo) List(_ context.Context) ([]location.Location, error) {
	return r.locations, nil
}

func (r *fakeLocationRepo) GetByID(_ context.Context, id string) (location.Location, error) {
	for _, loc := range r.locations {
		if loc.ID == id {
			return loc, nil
		}
	}
	return location.Location{}, pgx.ErrNoRows
}

func (r *fakeLocationRepo) UpdateWifiSettings(_ context.Context, id string, settings location.WifiSettings) (location.Location, error) {
	for i := range r.locations {
		if r.locations[i].ID == id {
			r.locations[i].WifiSettings = settings
			return r.locations[i], nil
		}
	}
	return location.Location{}, pgx.ErrNoRows
}

func autoLocation(id, ssid string) location.Location {
	return location.Location{
		ID:   id,
		Name: "Store " + id,
		WifiSettings: location.WifiSettings{
			SSID:                     ssid,
			RequireWifiForClockInOut: true,
			WifiTrackingEnabled:      true,
			AutoClockInEnabled:       true,
			AutoClockOutEnabled:      true,
			GracePeriodMinutes:       10,
		},
	}
}

func connectedObs(userID, ssid string, at time.Time) connectivity.Observation {
	return connectivity.Observation{
		UserID:     userID,
		SSID:       ssid,
		Connected:  true,
		ObservedAt: at,
	}
}

func disconnectedObs(userID string, at time.Time) connectivity.Observation {
	return connectivity.Observation{
		UserID:     userID,
		Connected:  false,
		ObservedAt: at,
	}
}

func engineFixture(locations []location.Location, shifts []shift.Shift) (*Engine, *fakeSessionRepo) {
	sessionRepo := newFakeSessionRepo()
	engine := NewEngine(
		sessionRepo,
		&fakeShiftRepo{shifts: shifts},
		&fakeLocationRepo{locations: locations},
		geomatch.NewMatcher(0),
	)
	return engine, sessionRepo
}

func TestEngine_AutoClockInDuringGraceWindow(t *testing.T) {
	t.Parallel()

	userID := "user-1"
	loc := autoLocation("loc-1", "StoreWifi")
	sh := shift.Shift{
		ID:         "shift-1",
		LocationID: loc.ID,
		StartTime:  time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 9, 1, 13, 0, 0, 0, time.UTC),
		AssignedTo: &userID,
		Status:     shift.StatusBooked,
	}

	engine, sessionRepo := engineFixture([]location.Location{loc}, []shift.Shift{sh})
	now := time.Date(2026, 9, 1, 8, 55, 0, 0, time.UTC)
	engine.SetClock(func() time.Time { return now })

	resp, err := engine.HandleObservation(context.Background(), connectedObs(userID, "StoreWifi", now))

	require.NoError(t, err)
	assert.Equal(t, []string{ActionAutoClockIn}, resp.TriggeredActions)
	assert.True(t, resp.WifiStatus.ValidForClock)

	open, err := sessionRepo.GetOpenSession(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, now, open.ClockIn)
	assert.True(t, open.AutoClockIn)
	require.NotNil(t, open.ShiftID)
	assert.Equal(t, sh.ID, *open.ShiftID)
}

func TestEngine_ReObservationIsIdempotent(t *testing.T) {
	t.Parallel()

	userID := "user-1"
	loc := autoLocation("loc-1", "StoreWifi")
	sh := shift.Shift{
		ID:         "shift-1",
		LocationID: loc.ID,
		StartTime:  time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 9, 1, 13, 0, 0, 0, time.UTC),
		AssignedTo: &userID,
		Status:     shift.StatusBooked,
	}

	engine, sessionRepo := engineFixture([]location.Location{loc}, []shift.Shift{sh})
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	engine.SetClock(func() time.Time { return now })

	for i := 0; i < 3; i++ {
		_, err := engine.HandleObservation(context.Background(), connectedObs(userID, "StoreWifi", now))
		require.NoError(t, err)
		now = now.Add(30 * time.Second)
	}

	assert.Equal(t, 1, sessionRepo.openCount(userID))
	assert.Len(t, sessionRepo.sessions, 1)
}

func TestEngine_NoActionOutsideShiftWindow(t *testing.T) {
	t.Parallel()

	userID := "user-1"
	loc := autoLocation("loc-1", "StoreWifi")
	sh := shift.Shift{
		ID:         "shift-1",
		LocationID: loc.ID,
		StartTime:  time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 9, 1, 13, 0, 0, 0, time.UTC),
		AssignedTo: &userID,
		Status:     shift.StatusBooked,
	}

	engine, sessionRepo := engineFixture([]location.Location{loc}, []shift.Shift{sh})
	// 8:49 is one minute before the 10-minute grace window opens.
	now := time.Date(2026, 9, 1, 8, 49, 0, 0, time.UTC)
	engine.SetClock(func() time.Time { return now })

	resp, err := engine.HandleObservation(context.Background(), connectedObs(userID, "StoreWifi", now))

	require.NoError(t, err)
	assert.Empty(t, resp.TriggeredActions)
	assert.Equal(t, 0, sessionRepo.openCount(userID))
}

func TestEngine_AutoClockInDisabledNoAction(t *testing.T) {
	t.Parallel()

	userID := "user-1"
	loc := autoLocation("loc-1", "StoreWifi")
	loc.WifiSettings.AutoClockInEnabled = false
	sh := shift.Shift{
		ID:         "shift-1",
		LocationID: loc.ID,
		StartTime:  time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 9, 1, 13, 0, 0, 0, time.UTC),
		AssignedTo: &userID,
		Status:     shift.StatusBooked,
	}

	engine, sessionRepo := engineFixture([]location.Location{loc}, []shift.Shift{sh})
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	engine.SetClock(func() time.Time { return now })

	resp, err := engine.HandleObservation(context.Background(), connectedObs(userID, "StoreWifi", now))

	require.NoError(t, err)
	assert.Empty(t, resp.TriggeredActions)
	assert.Equal(t, 0, sessionRepo.openCount(userID))
}

func TestEngine_AmbiguousLocationsRequireManualAction(t *testing.T) {
	t.Parallel()

	userID := "user-1"
	// Same SSID configured at two locations, an eligible shift at each.
	locA := autoLocation("loc-a", "SharedWifi")
	locB := autoLocation("loc-b", "SharedWifi")
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 1, 13, 0, 0, 0, time.UTC)
	shifts := []shift.Shift{
		{ID: "shift-a", LocationID: locA.ID, StartTime: start, EndTime: end, AssignedTo: &userID, Status: shift.StatusBooked},
		{ID: "shift-b", LocationID: locB.ID, StartTime: start, EndTime: end, AssignedTo: &userID, Status: shift.StatusBooked},
	}

	engine, sessionRepo := engineFixture([]location.Location{locA, locB}, shifts)
	now := start
	engine.SetClock(func() time.Time { return now })

	resp, err := engine.HandleObservation(context.Background(), connectedObs(userID, "SharedWifi", now))

	require.NoError(t, err)
	assert.Equal(t, []string{ActionManualClockInNeeded}, resp.TriggeredActions)
	assert.Equal(t, 0, sessionRepo.openCount(userID))
}

func TestEngine_OverlappingShiftsEarliestStartWins(t *testing.T) {
	t.Parallel()

	userID := "user-1"
	loc := autoLocation("loc-1", "StoreWifi")
	shifts := []shift.Shift{
		{
			ID:         "shift-late",
			LocationID: loc.ID,
			StartTime:  time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
			EndTime:    time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC),
			AssignedTo: &userID,
			Status:     shift.StatusBooked,
		},
		{
			ID:         "shift-early",
			LocationID: loc.ID,
			StartTime:  time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
			EndTime:    time.Date(2026, 9, 1, 13, 0, 0, 0, time.UTC),
			AssignedTo: &userID,
			Status:     shift.StatusBooked,
		},
	}

	engine, sessionRepo := engineFixture([]location.Location{loc}, shifts)
	now := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	engine.SetClock(func() time.Time { return now })

	_, err := engine.HandleObservation(context.Background(), connectedObs(userID, "StoreWifi", now))
	require.NoError(t, err)

	open, err := sessionRepo.GetOpenSession(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, open)
	require.NotNil(t, open.ShiftID)
	assert.Equal(t, "shift-early", *open.ShiftID)
}

func TestEngine_DisconnectGraceBoundary(t *testing.T) {
	t.Parallel()

	userID := "user-1"
	loc := autoLocation("loc-1", "StoreWifi")
	sh := shift.Shift{
		ID:         "shift-1",
		LocationID: loc.ID,
		StartTime:  time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC),
		AssignedTo: &userID,
		Status:     shift.StatusBooked,
	}

	engine, sessionRepo := engineFixture([]location.Location{loc}, []shift.Shift{sh})
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	engine.SetClock(func() time.Time { return now })

	_, err := engine.HandleObservation(context.Background(), connectedObs(userID, "StoreWifi", now))
	require.NoError(t, err)
	require.Equal(t, 1, sessionRepo.openCount(userID))

	// First disconnect observation starts the grace timer.
	disconnectAt := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	now = disconnectAt
	resp, err := engine.HandleObservation(context.Background(), disconnectedObs(userID, disconnectAt))
	require.NoError(t, err)
	assert.Empty(t, resp.TriggeredActions)

	// Disconnected for exactly the grace period: no clock-out yet.
	now = disconnectAt.Add(10 * time.Minute)
	resp, err = engine.HandleObservation(context.Background(), disconnectedObs(userID, now))
	require.NoError(t, err)
	assert.Empty(t, resp.TriggeredActions)
	assert.Equal(t, 1, sessionRepo.openCount(userID))

	// One minute past the grace period: session closes.
	now = disconnectAt.Add(11 * time.Minute)
	resp, err = engine.HandleObservation(context.Background(), disconnectedObs(userID, now))
	require.NoError(t, err)
	assert.Equal(t, []string{ActionAutoClockOut}, resp.TriggeredActions)
	assert.Equal(t, 0, sessionRepo.openCount(userID))
}

func TestEngine_ReconnectResetsGraceTimer(t *testing.T) {
	t.Parallel()

	userID := "user-1"
	loc := autoLocation("loc-1", "StoreWifi")
	sh := shift.Shift{
		ID:         "shift-1",
		LocationID: loc.ID,
		StartTime:  time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC),
		AssignedTo: &userID,
		Status:     shift.StatusBooked,
	}

	engine, sessionRepo := engineFixture([]location.Location{loc}, []shift.Shift{sh})
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	engine.SetClock(func() time.Time { return now })

	_, err := engine.HandleObservation(context.Background(), connectedObs(userID, "StoreWifi", now))
	require.NoError(t, err)

	now = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	_, err = engine.HandleObservation(context.Background(), disconnectedObs(userID, now))
	require.NoError(t, err)

	// Reconnecting clears the disconnect timer.
	now = now.Add(5 * time.Minute)
	_, err = engine.HandleObservation(context.Background(), connectedObs(userID, "StoreWifi", now))
	require.NoError(t, err)

	// A fresh disconnect 20 minutes later must restart the grace window.
	now = now.Add(20 * time.Minute)
	_, err = engine.HandleObservation(context.Background(), disconnectedObs(userID, now))
	require.NoError(t, err)
	assert.Equal(t, 1, sessionRepo.openCount(userID))
}

func TestEngine_ShiftEndPassedClosesSession(t *testing.T) {
	t.Parallel()

	userID := "user-1"
	loc := autoLocation("loc-1", "StoreWifi")
	sh := shift.Shift{
		ID:         "shift-1",
		LocationID: loc.ID,
		StartTime:  time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 9, 1, 13, 0, 0, 0, time.UTC),
		AssignedTo: &userID,
		Status:     shift.StatusBooked,
	}

	engine, sessionRepo := engineFixture([]location.Location{loc}, []shift.Shift{sh})
	now := time.Date(2026, 9, 1, 8, 55, 0, 0, time.UTC)
	engine.SetClock(func() time.Time { return now })

	_, err := engine.HandleObservation(context.Background(), connectedObs(userID, "StoreWifi", now))
	require.NoError(t, err)

	// Clocked in 08:55, observed disconnected 13:05 after the shift ended:
	// closed immediately, 4h10m on the clock.
	now = time.Date(2026, 9, 1, 13, 5, 0, 0, time.UTC)
	resp, err := engine.HandleObservation(context.Background(), disconnectedObs(userID, now))
	require.NoError(t, err)
	assert.Equal(t, []string{ActionAutoClockOut}, resp.TriggeredActions)

	var closed *attendance.Session
	for _, s := range sessionRepo.sessions {
		closed = s
	}
	require.NotNil(t, closed)
	require.NotNil(t, closed.WorkMinutes)
	assert.Equal(t, 250, *closed.WorkMinutes)
	assert.True(t, closed.AutoClockOut)
	assert.Equal(t, attendance.StatusClockedOut, closed.Status)
}

func TestEngine_CreateRaceFallsBackToOpenSession(t *testing.T) {
	t.Parallel()

	userID := "user-1"
	loc := autoLocation("loc-1", "StoreWifi")
	sh := shift.Shift{
		ID:         "shift-1",
		LocationID: loc.ID,
		StartTime:  time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 9, 1, 13, 0, 0, 0, time.UTC),
		AssignedTo: &userID,
		Status:     shift.StatusBooked,
	}

	engine, sessionRepo := engineFixture([]location.Location{loc}, []shift.Shift{sh})
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	engine.SetClock(func() time.Time { return now })

	// A manual clock-in lands between the engine's open-session check and its
	// insert. The insert fails on the partial unique index; the engine must
	// accept the existing session instead of erroring.
	sessionRepo.hideOpenOnce = true
	sessionRepo.createErr = errors.New("duplicate key value violates unique constraint")
	manual := attendance.Session{UserID: userID, ClockIn: now, Status: attendance.StatusClockedIn}
	manual.ID = "session-manual"
	sessionRepo.sessions[manual.ID] = &manual

	resp, err := engine.HandleObservation(context.Background(), connectedObs(userID, "StoreWifi", now))
	require.NoError(t, err)
	assert.Empty(t, resp.TriggeredActions)
	assert.Equal(t, 1, sessionRepo.openCount(userID))
}

func TestEngine_WifiRequirementBlocksWrongSSID(t *testing.T) {
	t.Parallel()

	userID := "user-1"
	loc := autoLocation("loc-1", "StoreWifi")
	sh := shift.Shift{
		ID:         "shift-1",
		LocationID: loc.ID,
		StartTime:  time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 9, 1, 13, 0, 0, 0, time.UTC),
		AssignedTo: &userID,
		Status:     shift.StatusBooked,
	}

	engine, sessionRepo := engineFixture([]location.Location{loc}, []shift.Shift{sh})
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	engine.SetClock(func() time.Time { return now })

	resp, err := engine.HandleObservation(context.Background(), connectedObs(userID, "NeighborCafe", now))

	require.NoError(t, err)
	assert.Empty(t, resp.TriggeredActions)
	assert.Equal(t, 0, sessionRepo.openCount(userID))
}
