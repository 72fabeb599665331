package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/attendance"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/location"
)

type sessionServiceImpl struct {
	sessionRepo  attendance.SessionRepository
	locationRepo location.LocationRepository
}

func NewSessionService(
	sessionRepo attendance.SessionRepository,
	locationRepo location.LocationRepository,
) attendance.SessionService {
	return &sessionServiceImpl{
		sessionRepo:  sessionRepo,
		locationRepo: locationRepo,
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

// ClockIn implements attendance.SessionService.
func (s *sessionServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	if _, err := s.locationRepo.GetByID(ctx, req.LocationID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.SessionResponse{}, location.ErrLocationNotFound
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to get location: %w", err)
	}

	open, err := s.sessionRepo.GetOpenSession(ctx, userID)
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to check open session: %w", err)
	}
	if open != nil {
		return attendance.SessionResponse{}, attendance.ErrAlreadyClockedIn
	}

	nowUTC := time.Now().UTC()
	session := attendance.Session{
		UserID:            userID,
		ShiftID:           req.ShiftID,
		ClockIn:           nowUTC,
		ClockInLocationID: &req.LocationID,
		ClockInSSID:       req.SSID,
		ClockInLatitude:   req.Latitude,
		ClockInLongitude:  req.Longitude,
		Status:            attendance.StatusClockedIn,
	}

	created, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		// A racing auto clock-in may have opened a session between the check
		// and the insert. Re-fetch authoritative state instead of guessing.
		if open, refetchErr := s.sessionRepo.GetOpenSession(ctx, userID); refetchErr == nil && open != nil {
			return attendance.SessionResponse{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to create attendance session: %w", err)
	}

	return attendance.MapSessionToResponse(created), nil
}

// ClockOut implements attendance.SessionService.
func (s *sessionServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	open, err := s.sessionRepo.GetOpenSession(ctx, userID)
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to get open session: %w", err)
	}
	if open == nil {
		return attendance.SessionResponse{}, attendance.ErrNotClockedIn
	}

	nowUTC := time.Now().UTC()
	workMinutes := int(nowUTC.Sub(open.ClockIn).Minutes())

	open.ClockOut = &nowUTC
	open.ClockOutLocationID = open.ClockInLocationID
	open.ClockOutSSID = req.SSID
	open.ClockOutLatitude = req.Latitude
	open.ClockOutLongitude = req.Longitude
	open.WorkMinutes = &workMinutes
	open.Status = attendance.StatusClockedOut
	open.Notes = req.Notes

	if err := s.sessionRepo.Close(ctx, *open); err != nil {
		if errors.Is(err, attendance.ErrSessionClosed) {
			return attendance.SessionResponse{}, attendance.ErrNotClockedIn
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to close attendance session: %w", err)
	}

	return attendance.MapSessionToResponse(*open), nil
}

// GetOpenSession implements attendance.SessionService.
func (s *sessionServiceImpl) GetOpenSession(ctx context.Context) (*attendance.SessionResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	open, err := s.sessionRepo.GetOpenSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get open session: %w", err)
	}
	if open == nil {
		return nil, nil
	}

	resp := attendance.MapSessionToResponse(*open)
	return &resp, nil
}

// UpdateSession implements attendance.SessionService. Administrator
// correction path for fixing wrong clock times.
func (s *sessionServiceImpl) UpdateSession(ctx context.Context, req attendance.UpdateSessionRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	session, err := s.sessionRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.SessionResponse{}, attendance.ErrSessionNotFound
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to get session: %w", err)
	}

	if req.ClockIn != nil {
		clockIn, _ := time.Parse(time.RFC3339, *req.ClockIn)
		session.ClockIn = clockIn.UTC()
	}
	if req.ClockOut != nil {
		clockOut, _ := time.Parse(time.RFC3339, *req.ClockOut)
		clockOutUTC := clockOut.UTC()
		session.ClockOut = &clockOutUTC
	}
	if req.Status != nil {
		session.Status = attendance.Status(*req.Status)
	}
	if req.Notes != nil {
		session.Notes = req.Notes
	}

	if session.ClockOut != nil {
		workMinutes := int(session.ClockOut.Sub(session.ClockIn).Minutes())
		session.WorkMinutes = &workMinutes
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to update session: %w", err)
	}

	return attendance.MapSessionToResponse(session), nil
}
