package missedshift

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/missedshift"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedContext(t *testing.T, userID, role string) context.Context {
	t.Helper()

	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"role":    role,
	})
	require.NoError(t, err)

	return jwtauth.NewContext(context.Background(), token, nil)
}

func explanationService(repo *fakeExplanationRepo) missedshift.ExplanationService {
	detector := NewDetector(&fakeShiftRepo{}, &fakeSessionRepo{}, repo)
	return NewExplanationService(repo, detector)
}

func seedUnexplained(t *testing.T, repo *fakeExplanationRepo, shiftID, userID string) missedshift.Explanation {
	t.Helper()

	record, err := repo.Create(context.Background(), missedshift.Explanation{
		ShiftID:    shiftID,
		UserID:     userID,
		LocationID: "loc-1",
		ShiftDate:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Status:     missedshift.StatusUnexplained,
	})
	require.NoError(t, err)
	return record
}

func TestSubmitExplanation_MovesToPendingReview(t *testing.T) {
	t.Parallel()

	repo := newFakeExplanationRepo()
	seedUnexplained(t, repo, "shift-1", "user-1")
	service := explanationService(repo)

	resp, err := service.SubmitExplanation(authedContext(t, "user-1", "staff"), missedshift.SubmitExplanationRequest{
		ShiftID: "shift-1",
		Text:    "Family emergency, called the store manager that morning.",
	})

	require.NoError(t, err)
	assert.Equal(t, string(missedshift.StatusPendingReview), resp.Status)
	require.NotNil(t, resp.Explanation)
}

func TestSubmitExplanation_RejectsBlankText(t *testing.T) {
	t.Parallel()

	repo := newFakeExplanationRepo()
	seedUnexplained(t, repo, "shift-1", "user-1")
	service := explanationService(repo)

	_, err := service.SubmitExplanation(authedContext(t, "user-1", "staff"), missedshift.SubmitExplanationRequest{
		ShiftID: "shift-1",
		Text:    "   ",
	})

	assert.Error(t, err)
}

func TestSubmitExplanation_RejectsOtherUsersRecord(t *testing.T) {
	t.Parallel()

	repo := newFakeExplanationRepo()
	seedUnexplained(t, repo, "shift-1", "user-1")
	service := explanationService(repo)

	_, err := service.SubmitExplanation(authedContext(t, "user-2", "staff"), missedshift.SubmitExplanationRequest{
		ShiftID: "shift-1",
		Text:    "I was there",
	})

	assert.ErrorIs(t, err, missedshift.ErrNotExplanationOwner)
}

func TestSubmitExplanation_RejectsResubmission(t *testing.T) {
	t.Parallel()

	repo := newFakeExplanationRepo()
	seedUnexplained(t, repo, "shift-1", "user-1")
	service := explanationService(repo)
	ctx := authedContext(t, "user-1", "staff")

	_, err := service.SubmitExplanation(ctx, missedshift.SubmitExplanationRequest{
		ShiftID: "shift-1",
		Text:    "Bus strike",
	})
	require.NoError(t, err)

	_, err = service.SubmitExplanation(ctx, missedshift.SubmitExplanationRequest{
		ShiftID: "shift-1",
		Text:    "Changed my mind about the wording",
	})
	assert.ErrorIs(t, err, missedshift.ErrInvalidState)
}

func TestReview_ApproveIsTerminal(t *testing.T) {
	t.Parallel()

	repo := newFakeExplanationRepo()
	record := seedUnexplained(t, repo, "shift-1", "user-1")
	service := explanationService(repo)

	_, err := service.SubmitExplanation(authedContext(t, "user-1", "staff"), missedshift.SubmitExplanationRequest{
		ShiftID: "shift-1",
		Text:    "Bus strike",
	})
	require.NoError(t, err)

	adminCtx := authedContext(t, "admin-1", "admin")
	resp, err := service.Review(adminCtx, missedshift.ReviewRequest{ID: record.ID, Approve: true})
	require.NoError(t, err)
	assert.Equal(t, string(missedshift.StatusApproved), resp.Status)
	require.NotNil(t, resp.ReviewedBy)
	assert.Equal(t, "admin-1", *resp.ReviewedBy)
	assert.NotNil(t, resp.ReviewedAt)

	// A verdict cannot be changed afterwards.
	_, err = service.Review(adminCtx, missedshift.ReviewRequest{ID: record.ID, Approve: false})
	assert.ErrorIs(t, err, missedshift.ErrInvalidState)
}

func TestReview_RejectWithNotes(t *testing.T) {
	t.Parallel()

	repo := newFakeExplanationRepo()
	record := seedUnexplained(t, repo, "shift-1", "user-1")
	service := explanationService(repo)

	_, err := service.SubmitExplanation(authedContext(t, "user-1", "staff"), missedshift.SubmitExplanationRequest{
		ShiftID: "shift-1",
		Text:    "Overslept",
	})
	require.NoError(t, err)

	notes := "Third occurrence this month"
	resp, err := service.Review(authedContext(t, "admin-1", "admin"), missedshift.ReviewRequest{
		ID:      record.ID,
		Approve: false,
		Notes:   &notes,
	})

	require.NoError(t, err)
	assert.Equal(t, string(missedshift.StatusRejected), resp.Status)
	require.NotNil(t, resp.AdminNotes)
	assert.Equal(t, notes, *resp.AdminNotes)
}

func TestReview_RequiresPendingState(t *testing.T) {
	t.Parallel()

	repo := newFakeExplanationRepo()
	record := seedUnexplained(t, repo, "shift-1", "user-1")
	service := explanationService(repo)

	// Still unexplained: nothing to review yet.
	_, err := service.Review(authedContext(t, "admin-1", "admin"), missedshift.ReviewRequest{ID: record.ID, Approve: true})
	assert.ErrorIs(t, err, missedshift.ErrInvalidState)
}

func TestGetMissedShifts_ListsOwnRecordsOnly(t *testing.T) {
	t.Parallel()

	repo := newFakeExplanationRepo()
	seedUnexplained(t, repo, "shift-1", "user-1")
	seedUnexplained(t, repo, "shift-2", "user-2")
	service := explanationService(repo)

	records, err := service.GetMissedShifts(authedContext(t, "user-1", "staff"))

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "shift-1", records[0].ShiftID)
}

func TestGetMissedShifts_SweepsBeforeListing(t *testing.T) {
	t.Parallel()

	// A shift that ended after the last cron run shows up without waiting for
	// the next one.
	sh := endedShift("user-1")
	repo := newFakeExplanationRepo()
	detector := NewDetector(&fakeShiftRepo{ended: []shift.Shift{sh}}, &fakeSessionRepo{}, repo)
	service := NewExplanationService(repo, detector)

	records, err := service.GetMissedShifts(authedContext(t, "user-1", "staff"))

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, sh.ID, records[0].ShiftID)
	assert.Equal(t, string(missedshift.StatusUnexplained), records[0].Status)
}
