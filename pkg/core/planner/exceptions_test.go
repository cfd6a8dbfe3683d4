package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planimed/planning-engine/pkg/core/model"
)

func baseOccurrence() model.ScheduleSlot {
	return model.ScheduleSlot{
		ID:       templateSlotID("r1", "2024-09-02"),
		Date:     "2024-09-02",
		Day:      time.Monday,
		Period:   model.PeriodMorning,
		Time:     "10:00",
		RuleID:   "r1",
		Type:     model.SlotMeeting,
		Blocking: true,
	}
}

func TestApplyException_MoveKeepsLookupKey(t *testing.T) {
	slot := baseOccurrence()
	exc := &model.Exception{
		RuleID:       "r1",
		OriginalDate: "2024-09-02",
		NewDate:      "2024-09-04",
		NewPeriod:    model.PeriodAfternoon,
		NewTime:      "15:00",
	}

	applyException(&slot, exc)

	assert.Equal(t, "2024-09-04", slot.Date)
	assert.Equal(t, time.Wednesday, slot.Day)
	assert.Equal(t, model.PeriodAfternoon, slot.Period)
	assert.Equal(t, "15:00", slot.Time)
	// Moving the occurrence must not orphan attendance records keyed by
	// the original-date slot ID.
	assert.Equal(t, templateSlotID("r1", "2024-09-02"), slot.ID)
}

func TestApplyException_Idempotent(t *testing.T) {
	exc := &model.Exception{
		RuleID:       "r1",
		OriginalDate: "2024-09-02",
		NewDate:      "2024-09-04",
		NewTime:      "15:00",
		Participants: []string{"w9"},
	}

	once := baseOccurrence()
	p1 := applyException(&once, exc)

	twice := baseOccurrence()
	applyException(&twice, exc)
	p2 := applyException(&twice, exc)

	assert.Equal(t, once, twice)
	assert.Equal(t, p1, p2)
}

func TestApplyException_CancelledSkipsEverythingElse(t *testing.T) {
	slot := baseOccurrence()
	exc := &model.Exception{
		RuleID:       "r1",
		OriginalDate: "2024-09-02",
		Cancelled:    true,
		NewDate:      "2024-09-04", // ignored once cancelled
	}

	custom := applyException(&slot, exc)

	assert.True(t, slot.Cancelled)
	assert.False(t, slot.Blocking)
	assert.Equal(t, "2024-09-02", slot.Date)
	assert.Nil(t, custom)
}

func TestApplyException_SubstitutedParticipants(t *testing.T) {
	slot := baseOccurrence()
	exc := &model.Exception{RuleID: "r1", OriginalDate: "2024-09-02", Participants: []string{"w3", "w4"}}

	custom := applyException(&slot, exc)
	assert.Equal(t, []string{"w3", "w4"}, custom)
}

func TestApplyException_NilLeavesDefaults(t *testing.T) {
	slot := baseOccurrence()
	custom := applyException(&slot, nil)
	assert.Nil(t, custom)
	assert.Equal(t, baseOccurrence(), slot)
}

func TestFindException_AtMostOnePerKey(t *testing.T) {
	exceptions := []model.Exception{
		{RuleID: "r1", OriginalDate: "2024-09-02", NewTime: "11:00"},
		{RuleID: "r1", OriginalDate: "2024-09-09", NewTime: "12:00"},
		{RuleID: "r2", OriginalDate: "2024-09-02", Cancelled: true},
	}

	exc := findException(exceptions, "r1", "2024-09-02")
	require.NotNil(t, exc)
	assert.Equal(t, "11:00", exc.NewTime)

	assert.Nil(t, findException(exceptions, "r1", "2024-09-16"))
}
