package planner

import (
	"github.com/planimed/planning-engine/pkg/core/calendar"
	"github.com/planimed/planning-engine/pkg/core/model"
)

// findException looks up the at-most-one exception for a rule occurrence,
// keyed by the occurrence's standard (pre-move) date.
func findException(exceptions []model.Exception, ruleID, originalDate string) *model.Exception {
	for i := range exceptions {
		if exceptions[i].RuleID == ruleID && exceptions[i].OriginalDate == originalDate {
			return &exceptions[i]
		}
	}
	return nil
}

// applyException overlays a per-occurrence exception on a slot built from
// the rule's defaults. The slot ID stays keyed by the original date.
//
// A cancelled occurrence is still emitted (the admin layer needs it to
// un-cancel) but is flagged cancelled and non-blocking, and the caller
// must skip attendance and assignment resolution for it.
//
// Returns the participant list to use downstream: the exception's
// substituted list when present, otherwise nil (caller keeps defaults).
// Applying the same exception twice is a no-op on the second pass.
func applyException(slot *model.ScheduleSlot, exc *model.Exception) []string {
	if exc == nil {
		return nil
	}
	if exc.Cancelled {
		slot.Cancelled = true
		slot.Blocking = false
		return nil
	}
	if exc.NewDate != "" {
		slot.Date = exc.NewDate
		if d, err := calendar.ParseDate(exc.NewDate); err == nil {
			slot.Day = d.Weekday()
		}
	}
	if exc.NewPeriod != "" {
		slot.Period = exc.NewPeriod
	}
	if exc.NewTime != "" {
		slot.Time = exc.NewTime
	}
	return exc.Participants
}
