package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/planimed/planning-engine/pkg/core/calendar"
	"github.com/planimed/planning-engine/pkg/core/model"
)

// Week of Monday 2024-09-02: no French public holidays anywhere near it.
const plainWeek = "2024-09-02"

func weekOf(t *testing.T, date string) time.Time {
	t.Helper()
	d, err := calendar.ParseDate(date)
	require.NoError(t, err)
	return d
}

func worker(id string, specialties ...string) model.Worker {
	return model.Worker{ID: id, FirstName: "Dr", LastName: id, Specialties: specialties}
}

// threeWorkers is the uniform-eligibility team used by equity tests.
func threeWorkers() []model.Worker {
	return []model.Worker{worker("w1"), worker("w2"), worker("w3")}
}

func halfDayActivity(id string) model.ActivityDefinition {
	return model.ActivityDefinition{
		ID:          id,
		Name:        id,
		Granularity: model.GrainHalfDay,
		Days:        []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		Periods:     []model.Period{model.PeriodMorning},
	}
}

func weeklyActivity(id string) model.ActivityDefinition {
	return model.ActivityDefinition{
		ID:          id,
		Name:        id,
		Granularity: model.GrainWeekly,
		Days:        []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		Periods:     []model.Period{model.PeriodMorning},
	}
}

func meetingRule(id string, day time.Weekday, participants ...string) model.RecurrenceRule {
	return model.RecurrenceRule{
		ID:           id,
		Day:          day,
		Period:       model.PeriodMorning,
		Location:     "salle RCP",
		Type:         model.SlotMeeting,
		Participants: participants,
	}
}

// fixedPick is a tie-break source returning a scripted sequence of picks.
type fixedPick struct {
	picks []int
	calls int
}

func (f *fixedPick) Intn(n int) int {
	if f.calls >= len(f.picks) {
		return 0
	}
	p := f.picks[f.calls]
	f.calls++
	if p >= n {
		return n - 1
	}
	return p
}

func slotByID(t *testing.T, slots []model.ScheduleSlot, id string) model.ScheduleSlot {
	t.Helper()
	for _, s := range slots {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("slot %q not found", id)
	return model.ScheduleSlot{}
}
