package planner

import (
	"time"

	"github.com/planimed/planning-engine/pkg/core/calendar"
	"github.com/planimed/planning-engine/pkg/core/model"
)

// MaxHistoryWeeks caps the history walk at roughly two years. It is a
// runaway-input safeguard, not a performance tunable.
const MaxHistoryWeeks = 104

// HistoryResult carries the rebuilt equity state. Truncated is set when
// the walk hit the week ceiling before reaching the target week; callers
// should report it rather than fail.
type HistoryResult struct {
	Equity    model.EquityHistory `json:"equity"`
	Weeks     int                 `json:"weeks"`
	Truncated bool                `json:"truncated"`
}

// RebuildHistory re-derives each worker's cumulative equity score from
// scratch by walking week-by-week from the snapshot's counting start date
// up to (excluding) the target date's week. Only admin-saved assignment
// overrides count: each week's skeleton is regenerated without auto-fill,
// so an activity slot carries an assignee exactly when an override pinned
// one. Auto-generated, unsaved assignments never contribute.
//
// Week-granularity activities count at most once per worker per week no
// matter how many slots they occupy. Cancelled occurrences contribute
// nothing.
func RebuildHistory(snap *model.Snapshot, target time.Time) (*HistoryResult, error) {
	result := &HistoryResult{Equity: make(model.EquityHistory)}
	if snap.CountingStart == "" {
		return result, nil
	}
	start, err := calendar.ParseDate(snap.CountingStart)
	if err != nil {
		return nil, err
	}

	// Replay from a history-free snapshot so prior scores don't leak in.
	replay := *snap
	replay.History = nil

	targetWeek := calendar.WeekStart(target)
	week := calendar.WeekStart(start)
	for ; week.Before(targetWeek); week = week.AddDate(0, 0, 7) {
		if result.Weeks >= MaxHistoryWeeks {
			result.Truncated = true
			break
		}
		result.Weeks++

		generated, err := GenerateWeek(&replay, week, GenerateOptions{AutoFill: false})
		if err != nil {
			return nil, err
		}
		accumulateWeek(&replay, generated.Slots, result.Equity)
	}
	return result, nil
}

// accumulateWeek folds one regenerated skeleton week into the tally.
func accumulateWeek(snap *model.Snapshot, slots []model.ScheduleSlot, equity model.EquityHistory) {
	weeklyCounted := make(map[string]bool) // workerID + activityID

	for _, s := range slots {
		if s.ActivityID == "" || s.Cancelled || s.AssigneeID == "" {
			continue
		}
		ov, saved := snap.Overrides[s.ID]
		if !saved || ov.Kind != model.OverrideAssign {
			continue
		}
		act, ok := snap.ActivityByID(s.ActivityID)
		if !ok {
			continue
		}
		if act.Granularity == model.GrainWeekly {
			key := s.AssigneeID + "|" + act.ID
			if weeklyCounted[key] {
				continue
			}
			weeklyCounted[key] = true
		}
		equity.Add(s.AssigneeID, act.Group(), 1)
	}
}
