package shift

import (
	"testing"
	"time"

	"github.com/shiftwise/shiftwise-backend-go/internal/domain/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotRequest() shift.GenerateSlotsRequest {
	return shift.GenerateSlotsRequest{
		LocationID:    "loc-1",
		StartDate:     "2026-09-07", // a Monday
		EndDate:       "2026-09-07",
		WorkingStart:  "09:00",
		WorkingEnd:    "17:00",
		DurationHours: 4,
		BreakHours:    1,
		DaysOfWeek:    map[string]bool{"monday": true},
	}
}

func TestGenerateSlots_SingleDayPacking(t *testing.T) {
	t.Parallel()

	// 09:00-17:00 window, 4h shifts with 1h break: 09:00-13:00 fits, the
	// next candidate would start at 14:00 and end at 18:00, past the window.
	slots := GenerateSlots(slotRequest())

	require.Len(t, slots, 1)
	assert.Equal(t, time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC), slots[0].StartTime)
	assert.Equal(t, time.Date(2026, 9, 7, 13, 0, 0, 0, time.UTC), slots[0].EndTime)
}

func TestGenerateSlots_MultipleSlotsNoOverlap(t *testing.T) {
	t.Parallel()

	req := slotRequest()
	req.DurationHours = 3
	req.BreakHours = 1

	// 09:00-12:00, 13:00-16:00; next start 17:00 leaves no room.
	slots := GenerateSlots(req)

	require.Len(t, slots, 2)
	assert.Equal(t, time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC), slots[0].StartTime)
	assert.Equal(t, time.Date(2026, 9, 7, 13, 0, 0, 0, time.UTC), slots[1].StartTime)

	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			a := shift.Shift{StartTime: slots[i].StartTime, EndTime: slots[i].EndTime}
			b := shift.Shift{StartTime: slots[j].StartTime, EndTime: slots[j].EndTime}
			assert.False(t, a.Overlaps(b), "slots %d and %d overlap", i, j)
		}
	}
}

func TestGenerateSlots_SkipsUnselectedDays(t *testing.T) {
	t.Parallel()

	req := slotRequest()
	req.EndDate = "2026-09-13" // Monday through Sunday
	req.DaysOfWeek = map[string]bool{"monday": true, "wednesday": true}

	slots := GenerateSlots(req)

	require.Len(t, slots, 2)
	assert.Equal(t, time.Monday, slots[0].StartTime.Weekday())
	assert.Equal(t, time.Wednesday, slots[1].StartTime.Weekday())
}

func TestGenerateSlots_DurationExceedsWindow(t *testing.T) {
	t.Parallel()

	req := slotRequest()
	req.DurationHours = 9 // window is 8h

	assert.Empty(t, GenerateSlots(req))
}

func TestGenerateSlots_ZeroBreakPacksBackToBack(t *testing.T) {
	t.Parallel()

	req := slotRequest()
	req.DurationHours = 4
	req.BreakHours = 0

	slots := GenerateSlots(req)

	require.Len(t, slots, 2)
	assert.Equal(t, slots[0].EndTime, slots[1].StartTime)
}

func TestGenerateSlots_SubMinuteDurationYieldsNothing(t *testing.T) {
	t.Parallel()

	req := slotRequest()
	req.DurationHours = 0.001
	req.BreakHours = 0

	done := make(chan []shift.Slot, 1)
	go func() { done <- GenerateSlots(req) }()

	select {
	case slots := <-done:
		assert.Empty(t, slots)
	case <-time.After(2 * time.Second):
		t.Fatal("slot generation did not finish")
	}
}

func TestGenerateSlotsRequest_RejectsSubMinuteDuration(t *testing.T) {
	t.Parallel()

	req := slotRequest()
	req.DurationHours = 0.001
	req.BreakHours = 0

	assert.Error(t, req.Validate())
}

func TestGenerateSlots_FractionalHours(t *testing.T) {
	t.Parallel()

	req := slotRequest()
	req.WorkingEnd = "12:00"
	req.DurationHours = 1.5
	req.BreakHours = 0.5

	// 09:00-10:30, 11:00-12:30 does not fit; only one slot.
	slots := GenerateSlots(req)

	require.Len(t, slots, 1)
	assert.Equal(t, time.Date(2026, 9, 7, 10, 30, 0, 0, time.UTC), slots[0].EndTime)
}
