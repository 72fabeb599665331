package missedshift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/missedshift"
)

type explanationServiceImpl struct {
	explanationRepo missedshift.ExplanationRepository
	detector        *Detector
}

func NewExplanationService(explanationRepo missedshift.ExplanationRepository, detector *Detector) missedshift.ExplanationService {
	return &explanationServiceImpl{
		explanationRepo: explanationRepo,
		detector:        detector,
	}
}

func claimsFromContext(ctx context.Context) (userID, role string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", fmt.Errorf("user_id claim is missing or invalid")
	}
	role, _ = claims["role"].(string)
	return userID, role, nil
}

// GetMissedShifts implements missedshift.ExplanationService.
func (s *explanationServiceImpl) GetMissedShifts(ctx context.Context) ([]missedshift.ExplanationResponse, error) {
	userID, _, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	// Catch shifts that ended since the last scheduled sweep. Best effort:
	// the existing records still get served if the sweep fails.
	if err := s.detector.RunForUser(ctx, userID); err != nil {
		slog.Warn("On-demand missed shift sweep failed", "user_id", userID, "error", err)
	}

	records, err := s.explanationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list missed shifts: %w", err)
	}

	responses := make([]missedshift.ExplanationResponse, 0, len(records))
	for _, e := range records {
		responses = append(responses, missedshift.MapExplanationToResponse(e))
	}
	return responses, nil
}

// SubmitExplanation implements missedshift.ExplanationService.
func (s *explanationServiceImpl) SubmitExplanation(ctx context.Context, req missedshift.SubmitExplanationRequest) (missedshift.ExplanationResponse, error) {
	if err := req.Validate(); err != nil {
		return missedshift.ExplanationResponse{}, err
	}

	userID, _, err := claimsFromContext(ctx)
	if err != nil {
		return missedshift.ExplanationResponse{}, err
	}

	record, err := s.explanationRepo.GetByShiftID(ctx, req.ShiftID)
	if err != nil {
		return missedshift.ExplanationResponse{}, fmt.Errorf("failed to get explanation record: %w", err)
	}
	if record == nil {
		return missedshift.ExplanationResponse{}, missedshift.ErrExplanationNotFound
	}

	if record.UserID != userID {
		return missedshift.ExplanationResponse{}, missedshift.ErrNotExplanationOwner
	}
	if record.Status != missedshift.StatusUnexplained {
		return missedshift.ExplanationResponse{}, missedshift.ErrInvalidState
	}

	record.Explanation = &req.Text
	record.Status = missedshift.StatusPendingReview

	if err := s.explanationRepo.Update(ctx, *record); err != nil {
		return missedshift.ExplanationResponse{}, fmt.Errorf("failed to submit explanation: %w", err)
	}

	return missedshift.MapExplanationToResponse(*record), nil
}

// Review implements missedshift.ExplanationService. Approved and rejected are
// terminal; a second review of the same record is rejected outright.
func (s *explanationServiceImpl) Review(ctx context.Context, req missedshift.ReviewRequest) (missedshift.ExplanationResponse, error) {
	if err := req.Validate(); err != nil {
		return missedshift.ExplanationResponse{}, err
	}

	reviewerID, _, err := claimsFromContext(ctx)
	if err != nil {
		return missedshift.ExplanationResponse{}, err
	}

	record, err := s.explanationRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return missedshift.ExplanationResponse{}, missedshift.ErrExplanationNotFound
		}
		return missedshift.ExplanationResponse{}, fmt.Errorf("failed to get explanation record: %w", err)
	}

	if record.Status != missedshift.StatusPendingReview {
		return missedshift.ExplanationResponse{}, missedshift.ErrInvalidState
	}

	if req.Approve {
		record.Status = missedshift.StatusApproved
	} else {
		record.Status = missedshift.StatusRejected
	}
	now := time.Now().UTC()
	record.ReviewedBy = &reviewerID
	record.ReviewedAt = &now
	record.AdminNotes = req.Notes

	if err := s.explanationRepo.Update(ctx, record); err != nil {
		return missedshift.ExplanationResponse{}, fmt.Errorf("failed to record review: %w", err)
	}

	return missedshift.MapExplanationToResponse(record), nil
}
