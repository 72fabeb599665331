package shift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/shift"
)

type shiftServiceImpl struct {
	shiftRepo shift.ShiftRepository
}

func NewShiftService(shiftRepo shift.ShiftRepository) shift.ShiftService {
	return &shiftServiceImpl{shiftRepo: shiftRepo}
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

// Create implements shift.ShiftService.
func (s *shiftServiceImpl) Create(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	startTime, _ := time.Parse(time.RFC3339, req.StartTime)
	endTime, _ := time.Parse(time.RFC3339, req.EndTime)

	status := shift.StatusAvailable
	if req.AssignedTo != nil && *req.AssignedTo != "" {
		status = shift.StatusBooked
	}

	created, err := s.shiftRepo.Create(ctx, shift.Shift{
		LocationID: req.LocationID,
		StartTime:  startTime.UTC(),
		EndTime:    endTime.UTC(),
		AssignedTo: req.AssignedTo,
		Status:     status,
	})
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to create shift: %w", err)
	}

	return shift.MapShiftToResponse(created), nil
}

// GetAssigned implements shift.ShiftService.
func (s *shiftServiceImpl) GetAssigned(ctx context.Context, from, to string) ([]shift.ShiftResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	fromTime, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, fmt.Errorf("invalid from date: %w", err)
	}
	toTime, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, fmt.Errorf("invalid to date: %w", err)
	}
	// Inclusive end date
	toTime = toTime.AddDate(0, 0, 1)

	shifts, err := s.shiftRepo.GetAssigned(ctx, userID, fromTime, toTime)
	if err != nil {
		return nil, fmt.Errorf("failed to get assigned shifts: %w", err)
	}

	responses := make([]shift.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		responses = append(responses, shift.MapShiftToResponse(sh))
	}
	return responses, nil
}

// Book implements shift.ShiftService.
func (s *shiftServiceImpl) Book(ctx context.Context, shiftID string) (shift.ShiftResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	sh, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftResponse{}, shift.ErrShiftNotFound
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to get shift: %w", err)
	}

	if sh.Status != shift.StatusAvailable {
		return shift.ShiftResponse{}, shift.ErrShiftNotAvailable
	}

	sh.AssignedTo = &userID
	sh.Status = shift.StatusBooked
	if err := s.shiftRepo.Update(ctx, sh); err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to book shift: %w", err)
	}

	return shift.MapShiftToResponse(sh), nil
}

// Cancel implements shift.ShiftService.
func (s *shiftServiceImpl) Cancel(ctx context.Context, shiftID string) (shift.ShiftResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	sh, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftResponse{}, shift.ErrShiftNotFound
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to get shift: %w", err)
	}

	if sh.Status != shift.StatusBooked {
		return shift.ShiftResponse{}, shift.ErrShiftNotBooked
	}
	if sh.AssignedTo == nil || *sh.AssignedTo != userID {
		return shift.ShiftResponse{}, shift.ErrNotShiftOwner
	}

	sh.AssignedTo = nil
	sh.Status = shift.StatusAvailable
	if err := s.shiftRepo.Update(ctx, sh); err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to cancel shift booking: %w", err)
	}

	return shift.MapShiftToResponse(sh), nil
}

// PreviewSlots implements shift.ShiftService.
func (s *shiftServiceImpl) PreviewSlots(ctx context.Context, req shift.GenerateSlotsRequest) (shift.SlotPreviewResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.SlotPreviewResponse{}, err
	}

	slots := GenerateSlots(req)

	resp := shift.SlotPreviewResponse{
		LocationID: req.LocationID,
		TotalSlots: len(slots),
		Slots:      make([]shift.SlotResponse, 0, len(slots)),
	}
	for _, slot := range slots {
		resp.Slots = append(resp.Slots, shift.SlotResponse{
			StartTime: slot.StartTime.Format(time.RFC3339),
			EndTime:   slot.EndTime.Format(time.RFC3339),
		})
	}
	return resp, nil
}

// CommitSlots implements shift.ShiftService. Each slot is persisted on its
// own so a failure mid-batch reports per-slot instead of rolling everything
// back; the caller is expected to have inspected the preview first.
func (s *shiftServiceImpl) CommitSlots(ctx context.Context, req shift.GenerateSlotsRequest) (shift.SlotCommitResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.SlotCommitResponse{}, err
	}

	slots := GenerateSlots(req)

	resp := shift.SlotCommitResponse{
		LocationID: req.LocationID,
		Results:    make([]shift.SlotCommitResult, 0, len(slots)),
	}
	for _, slot := range slots {
		result := shift.SlotCommitResult{
			StartTime: slot.StartTime.Format(time.RFC3339),
			EndTime:   slot.EndTime.Format(time.RFC3339),
		}

		created, err := s.shiftRepo.Create(ctx, shift.Shift{
			LocationID: slot.LocationID,
			StartTime:  slot.StartTime,
			EndTime:    slot.EndTime,
			Status:     shift.StatusAvailable,
		})
		if err != nil {
			msg := err.Error()
			result.Error = &msg
			resp.Failed++
		} else {
			result.ShiftID = &created.ID
			resp.Created++
		}
		resp.Results = append(resp.Results, result)
	}

	return resp, nil
}
