package shift

import (
	"math"
	"time"

	"github.com/shiftwise/shiftwise-backend-go/internal/domain/shift"
)

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
	time.Sunday:    "sunday",
}

// GenerateSlots packs the recurring pattern described by req into discrete,
// non-overlapping shift slots. Pure: the request must already be validated,
// no side effects, all times UTC.
//
// Per selected day, slots are placed from the start of the working window;
// after each placement the offset advances by duration plus break, so slots
// on one day can never overlap. A day whose window cannot fit a single
// full-duration slot yields zero slots for that day; that is a documented
// outcome, not an error.
func GenerateSlots(req shift.GenerateSlotsRequest) []shift.Slot {
	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)
	workStart, _ := time.Parse("15:04", req.WorkingStart)
	workEnd, _ := time.Parse("15:04", req.WorkingEnd)

	windowStartMin := workStart.Hour()*60 + workStart.Minute()
	windowEndMin := workEnd.Hour()*60 + workEnd.Minute()
	windowLength := windowEndMin - windowStartMin

	durationMin := int(math.Round(req.DurationHours * 60))
	breakMin := int(math.Round(req.BreakHours * 60))

	// A duration that rounds to zero minutes would never advance the offset.
	if durationMin <= 0 {
		return nil
	}

	var slots []shift.Slot
	for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 1) {
		if !req.DaysOfWeek[weekdayNames[day.Weekday()]] {
			continue
		}

		for offset := 0; offset+durationMin <= windowLength; offset += durationMin + breakMin {
			slotStart := day.Add(time.Duration(windowStartMin+offset) * time.Minute)
			slots = append(slots, shift.Slot{
				LocationID: req.LocationID,
				StartTime:  slotStart,
				EndTime:    slotStart.Add(time.Duration(durationMin) * time.Minute),
			})
		}
	}

	return slots
}
