package planner

import (
	"sort"

	"github.com/planimed/planning-engine/pkg/core/calendar"
	"github.com/planimed/planning-engine/pkg/core/model"
)

// assignerState is the accumulator threaded through one week's fill. The
// cumulative history is a clone of the snapshot's; the week load counter
// exists only for tie-breaking inside this week.
type assignerState struct {
	cumulative model.EquityHistory
	weekLoad   map[string]int
}

func newAssignerState(seed model.EquityHistory) *assignerState {
	return &assignerState{
		cumulative: seed.Clone(),
		weekLoad:   make(map[string]int),
	}
}

// autoFill runs the two-pass greedy fairness fill over the week's slots,
// mutating activity slots in place. Slots are visited in a fixed order
// (activities in declaration order, slots in date then period order) so
// results are reproducible given the same tie-break source.
func autoFill(snap *model.Snapshot, slots []model.ScheduleSlot, opts GenerateOptions) model.EquityHistory {
	state := newAssignerState(snap.History)
	tb := opts.tieBreak()
	skip := skippedDates(slots, opts.ClosedDates)

	// Pass 1: half-day activities, one decision per slot.
	for _, act := range snap.Activities {
		if act.Granularity == model.GrainWeekly {
			continue
		}
		for _, i := range activitySlotIndices(slots, act.ID) {
			s := &slots[i]
			if s.Cancelled {
				continue
			}
			if skip[s.Date] {
				// Holidays and closure days are never auto-filled.
				continue
			}
			if s.AssigneeID != "" {
				// Manual assignment: fold into the running score, no re-pick.
				state.cumulative.Add(s.AssigneeID, act.Group(), 1)
				state.weekLoad[s.AssigneeID]++
				continue
			}

			var candidates []model.Worker
			for _, w := range snap.Workers {
				if isEligible(w, act, s.Date, s.Day, s.Period, slots, snap.Unavailabilities) {
					candidates = append(candidates, w)
				}
			}
			winner, ok := pickHalfDay(candidates, act.Group(), state, tb)
			if !ok {
				// No eligible candidate: the slot stays open rather than
				// failing the generation.
				continue
			}
			s.AssigneeID = winner.ID
			state.cumulative.Add(winner.ID, act.Group(), 1)
			state.weekLoad[winner.ID]++
		}
	}

	// Pass 2: week-granularity activities, one decision per activity.
	for _, act := range snap.Activities {
		if act.Granularity != model.GrainWeekly {
			continue
		}
		indices := activitySlotIndices(slots, act.ID)
		open := indices[:0:0]
		for _, i := range indices {
			if !slots[i].Cancelled {
				open = append(open, i)
			}
		}
		if len(open) == 0 {
			continue
		}

		winnerID := ""
		for _, i := range open {
			if slots[i].AssigneeID != "" {
				winnerID = slots[i].AssigneeID
				break
			}
		}
		if winnerID == "" {
			var candidates []model.Worker
			for _, w := range snap.Workers {
				if isWeekEligible(w, act, open, slots, snap.Unavailabilities) {
					candidates = append(candidates, w)
				}
			}
			winner, ok := pickWeekly(candidates, act.Group(), state, tb)
			if !ok {
				continue
			}
			winnerID = winner.ID
		}

		for _, i := range open {
			if slots[i].AssigneeID == "" {
				slots[i].AssigneeID = winnerID
			}
		}
		// One decision per week counts once toward the group score.
		state.cumulative.Add(winnerID, act.Group(), 1)
	}

	return state.cumulative
}

// isWeekEligible decides whether a worker can take a week-granularity
// activity. Workflow-class rotations are non-blocking: a dated absence on
// any covered half-day disqualifies, but the worker need not be free of
// other commitments or working every half-day. All other week activities
// require strict eligibility on every slot of the week.
func isWeekEligible(w model.Worker, act model.ActivityDefinition, indices []int, slots []model.ScheduleSlot, unavailabilities []model.Unavailability) bool {
	if w.HasExcludedActivity(act.ID) {
		return false
	}
	if act.Workflow {
		for _, i := range indices {
			for _, u := range unavailabilities {
				if u.WorkerID == w.ID && u.Covers(slots[i].Date, slots[i].Period) {
					return false
				}
			}
		}
		return true
	}
	for _, i := range indices {
		s := slots[i]
		if !isEligible(w, act, s.Date, s.Day, s.Period, slots, unavailabilities) {
			return false
		}
	}
	return true
}

// pickHalfDay chooses the pass-1 winner: lowest cumulative group score
// normalized by work rate, then lowest current-week load, then the
// injected tie-break source.
func pickHalfDay(candidates []model.Worker, group string, state *assignerState, tb TieBreaker) (model.Worker, bool) {
	if len(candidates) == 0 {
		return model.Worker{}, false
	}

	best := candidates[:0:0]
	bestLoad := 0.0
	for _, w := range candidates {
		load := state.cumulative.Score(w.ID, group) / w.WorkRate()
		switch {
		case len(best) == 0 || load < bestLoad:
			best = append(best[:0], w)
			bestLoad = load
		case load == bestLoad:
			best = append(best, w)
		}
	}

	if len(best) > 1 {
		minWeek := state.weekLoad[best[0].ID]
		for _, w := range best[1:] {
			if state.weekLoad[w.ID] < minWeek {
				minWeek = state.weekLoad[w.ID]
			}
		}
		tied := best[:0:0]
		for _, w := range best {
			if state.weekLoad[w.ID] == minWeek {
				tied = append(tied, w)
			}
		}
		best = tied
	}

	return best[tb.Intn(len(best))], true
}

// pickWeekly chooses the pass-2 winner: lowest raw cumulative group score,
// residual ties broken uniformly among the tied set. There is only one
// decision per week, so the current-week counter plays no part.
func pickWeekly(candidates []model.Worker, group string, state *assignerState, tb TieBreaker) (model.Worker, bool) {
	if len(candidates) == 0 {
		return model.Worker{}, false
	}

	best := candidates[:0:0]
	bestScore := 0.0
	for _, w := range candidates {
		score := state.cumulative.Score(w.ID, group)
		switch {
		case len(best) == 0 || score < bestScore:
			best = append(best[:0], w)
			bestScore = score
		case score == bestScore:
			best = append(best, w)
		}
	}
	return best[tb.Intn(len(best))], true
}

// activitySlotIndices returns the indices of an activity's slots in
// (date, period) order.
func activitySlotIndices(slots []model.ScheduleSlot, activityID string) []int {
	var indices []int
	for i := range slots {
		if slots[i].ActivityID == activityID {
			indices = append(indices, i)
		}
	}
	sort.Slice(indices, func(a, b int) bool {
		sa, sb := slots[indices[a]], slots[indices[b]]
		if sa.Date != sb.Date {
			return sa.Date < sb.Date
		}
		return periodRank(sa.Period) < periodRank(sb.Period)
	})
	return indices
}

func periodRank(p model.Period) int {
	if p == model.PeriodAfternoon {
		return 1
	}
	return 0
}

// skippedDates collects every date in the week the assigner must leave
// untouched: public holidays plus configured closure dates.
func skippedDates(slots []model.ScheduleSlot, closed []string) map[string]bool {
	skip := make(map[string]bool, len(closed))
	for _, d := range closed {
		skip[d] = true
	}
	seen := make(map[string]bool)
	for _, s := range slots {
		if seen[s.Date] {
			continue
		}
		seen[s.Date] = true
		if _, holiday := calendar.PublicHoliday(s.Date); holiday {
			skip[s.Date] = true
		}
	}
	return skip
}
