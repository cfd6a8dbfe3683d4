package planner

import (
	"time"

	"github.com/planimed/planning-engine/pkg/core/model"
)

// isEligible decides whether a worker may take an open activity slot.
// All of the following must hold:
//   - the worker has not excluded this activity,
//   - the worker's recurring non-working pattern does not cover the
//     half-day (granular half-days take precedence over legacy weekdays),
//   - no dated absence covers the date and period,
//   - no already-placed blocking slot holds the worker at the same
//     date and period, unless the activity allows double-booking.
func isEligible(
	w model.Worker,
	act model.ActivityDefinition,
	date string,
	day time.Weekday,
	period model.Period,
	placed []model.ScheduleSlot,
	unavailabilities []model.Unavailability,
) bool {
	if w.HasExcludedActivity(act.ID) {
		return false
	}
	if !w.WorksOn(day, period) {
		return false
	}
	for _, u := range unavailabilities {
		if u.WorkerID == w.ID && u.Covers(date, period) {
			return false
		}
	}
	if act.AllowDoubleBooking {
		return true
	}
	return !hasBlockingSlot(w.ID, date, period, placed)
}

// hasBlockingSlot reports whether any placed slot blocks the worker at the
// given half-day. Cancelled slots never block; meetings only block once
// confirmed; everything else blocks unless explicitly flagged otherwise.
// Those semantics are baked into each slot's Blocking field at build time.
func hasBlockingSlot(workerID, date string, period model.Period, placed []model.ScheduleSlot) bool {
	for _, s := range placed {
		if s.Cancelled || !s.Blocking {
			continue
		}
		if s.Date == date && s.Period == period && s.Involves(workerID) {
			return true
		}
	}
	return false
}
