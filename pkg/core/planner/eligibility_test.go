package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/planimed/planning-engine/pkg/core/model"
)

func TestIsEligible_ActivityExclusion(t *testing.T) {
	w := worker("w1")
	w.ExcludedActivities = []string{"act1"}
	act := halfDayActivity("act1")

	assert.False(t, isEligible(w, act, "2024-09-02", time.Monday, model.PeriodMorning, nil, nil))
	assert.True(t, isEligible(w, halfDayActivity("act2"), "2024-09-02", time.Monday, model.PeriodMorning, nil, nil))
}

func TestIsEligible_LegacyWeekdayPattern(t *testing.T) {
	w := worker("w1")
	w.ExcludedDays = []time.Weekday{time.Wednesday}
	act := halfDayActivity("act1")

	assert.False(t, isEligible(w, act, "2024-09-04", time.Wednesday, model.PeriodMorning, nil, nil))
	assert.False(t, isEligible(w, act, "2024-09-04", time.Wednesday, model.PeriodAfternoon, nil, nil))
	assert.True(t, isEligible(w, act, "2024-09-05", time.Thursday, model.PeriodMorning, nil, nil))
}

func TestIsEligible_GranularPatternTakesPrecedence(t *testing.T) {
	// The legacy set excludes Wednesday entirely, but the granular set is
	// present and only excludes Wednesday morning — granular wins.
	w := worker("w1")
	w.ExcludedDays = []time.Weekday{time.Wednesday}
	w.ExcludedHalfDays = []model.HalfDay{{Day: time.Wednesday, Period: model.PeriodMorning}}
	act := halfDayActivity("act1")

	assert.False(t, isEligible(w, act, "2024-09-04", time.Wednesday, model.PeriodMorning, nil, nil))
	assert.True(t, isEligible(w, act, "2024-09-04", time.Wednesday, model.PeriodAfternoon, nil, nil))
}

func TestIsEligible_Unavailability(t *testing.T) {
	w := worker("w1")
	act := halfDayActivity("act1")
	unavail := []model.Unavailability{
		{WorkerID: "w1", From: "2024-09-03", To: "2024-09-04", Scope: model.ScopeAllDay},
		{WorkerID: "w1", From: "2024-09-06", To: "2024-09-06", Scope: model.ScopeMorning},
	}

	assert.False(t, isEligible(w, act, "2024-09-03", time.Tuesday, model.PeriodMorning, nil, unavail))
	assert.False(t, isEligible(w, act, "2024-09-04", time.Wednesday, model.PeriodAfternoon, nil, unavail))
	assert.True(t, isEligible(w, act, "2024-09-05", time.Thursday, model.PeriodMorning, nil, unavail))
	// Half-day scoped absence blocks only that period.
	assert.False(t, isEligible(w, act, "2024-09-06", time.Friday, model.PeriodMorning, nil, unavail))
	assert.True(t, isEligible(w, act, "2024-09-06", time.Friday, model.PeriodAfternoon, nil, unavail))
}

func TestIsEligible_BlockingConflict(t *testing.T) {
	w := worker("w1")
	act := halfDayActivity("act1")
	placed := []model.ScheduleSlot{
		{ID: "busy", Date: "2024-09-02", Period: model.PeriodMorning, AssigneeID: "w1", Blocking: true},
	}

	assert.False(t, isEligible(w, act, "2024-09-02", time.Monday, model.PeriodMorning, placed, nil))
	assert.True(t, isEligible(w, act, "2024-09-02", time.Monday, model.PeriodAfternoon, placed, nil))
}

func TestIsEligible_UnconfirmedMeetingDoesNotBlock(t *testing.T) {
	w := worker("w1")
	act := halfDayActivity("act1")
	placed := []model.ScheduleSlot{
		{ID: "m", Date: "2024-09-02", Period: model.PeriodMorning, Type: model.SlotMeeting,
			AssigneeID: "w1", Unconfirmed: true, Blocking: false},
	}

	assert.True(t, isEligible(w, act, "2024-09-02", time.Monday, model.PeriodMorning, placed, nil))
}

func TestIsEligible_SecondaryAssignmentBlocksToo(t *testing.T) {
	w := worker("w1")
	act := halfDayActivity("act1")
	placed := []model.ScheduleSlot{
		{ID: "busy", Date: "2024-09-02", Period: model.PeriodMorning,
			AssigneeID: "w2", SecondaryIDs: []string{"w1"}, Blocking: true},
	}

	assert.False(t, isEligible(w, act, "2024-09-02", time.Monday, model.PeriodMorning, placed, nil))
}

func TestIsEligible_CancelledSlotNeverBlocks(t *testing.T) {
	w := worker("w1")
	act := halfDayActivity("act1")
	placed := []model.ScheduleSlot{
		{ID: "busy", Date: "2024-09-02", Period: model.PeriodMorning, AssigneeID: "w1",
			Blocking: true, Cancelled: true},
	}

	assert.True(t, isEligible(w, act, "2024-09-02", time.Monday, model.PeriodMorning, placed, nil))
}

func TestIsEligible_AllowDoubleBookingSkipsConflictCheck(t *testing.T) {
	w := worker("w1")
	act := halfDayActivity("act1")
	act.AllowDoubleBooking = true
	placed := []model.ScheduleSlot{
		{ID: "busy", Date: "2024-09-02", Period: model.PeriodMorning, AssigneeID: "w1", Blocking: true},
	}

	assert.True(t, isEligible(w, act, "2024-09-02", time.Monday, model.PeriodMorning, placed, nil))
}

func TestWorkRate(t *testing.T) {
	full := worker("w1")
	assert.Equal(t, 1.0, full.WorkRate())

	part := worker("w2")
	part.ExcludedDays = []time.Weekday{time.Wednesday} // two half-days
	assert.Equal(t, 0.8, part.WorkRate())

	granular := worker("w3")
	granular.ExcludedHalfDays = []model.HalfDay{{Day: time.Friday, Period: model.PeriodAfternoon}}
	assert.Equal(t, 0.9, granular.WorkRate())

	// Weekend exclusions do not reduce the standard 10-half-day week.
	weekend := worker("w4")
	weekend.ExcludedDays = []time.Weekday{time.Saturday, time.Sunday}
	assert.Equal(t, 1.0, weekend.WorkRate())
}
