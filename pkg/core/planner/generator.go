package planner

import (
	"fmt"
	"sort"
	"time"

	"github.com/planimed/planning-engine/pkg/core/calendar"
	"github.com/planimed/planning-engine/pkg/core/model"
)

// GenerateWeek materializes one week's full slot list from the snapshot:
// template occurrences (with exception overlay and attendance resolution),
// MANUAL meeting instances, and open activity slots — then optionally runs
// the equity auto-fill. The input snapshot is never mutated; given the
// same snapshot and tie-break source, the output is identical across calls.
func GenerateWeek(snap *model.Snapshot, weekOf time.Time, opts GenerateOptions) (*WeekResult, error) {
	weekStart := calendar.WeekStart(weekOf)

	slots := buildTemplateSlots(snap, weekStart)

	manual, err := buildManualSlots(snap, weekStart)
	if err != nil {
		return nil, err
	}
	slots = append(slots, manual...)

	slots = append(slots, buildActivitySlots(snap, weekStart)...)

	applyOverrides(snap, slots)

	equity := snap.History.Clone()
	if opts.AutoFill {
		equity = autoFill(snap, slots, opts)
	}

	sortSlots(slots)
	return &WeekResult{
		WeekStart: calendar.FormatDate(weekStart),
		Slots:     slots,
		Equity:    equity,
	}, nil
}

// buildTemplateSlots walks the template rules in declaration order and
// emits one slot per rule that fires this week.
func buildTemplateSlots(snap *model.Snapshot, weekStart time.Time) []model.ScheduleSlot {
	var slots []model.ScheduleSlot

	for _, rule := range snap.Rules {
		var def *model.RcpDefinition
		if rule.RcpID != "" {
			if d, ok := snap.RcpByID(rule.RcpID); ok {
				def = &d
			}
		}
		if !ruleFires(rule, def, weekStart) {
			continue
		}

		date := standardDate(weekStart, rule.Day)
		dateStr := calendar.FormatDate(date)
		slot := model.ScheduleSlot{
			ID:       templateSlotID(rule.ID, dateStr),
			Date:     dateStr,
			Day:      rule.Day,
			Period:   rule.Period,
			Time:     rule.Time,
			Location: rule.Location,
			Type:     rule.Type,
			SubType:  rule.SubType,
			RuleID:   rule.ID,
			BackupID: rule.Backup,
			Blocking: rule.IsBlocking(),
		}

		exc := findException(snap.Exceptions, rule.ID, dateStr)
		custom := applyException(&slot, exc)
		if slot.Cancelled {
			// Cancelled occurrences skip attendance and assignment
			// entirely but are still emitted for the admin layer.
			slots = append(slots, slot)
			continue
		}

		planned := rule.Participants
		if custom != nil {
			planned = custom
		}
		if rule.Type == model.SlotMeeting {
			resolveAttendance(&slot, planned, snap)
		} else {
			resolveDirectAssignment(&slot, planned, snap)
		}
		if slot.BackupID != "" {
			if _, live := snap.WorkerByID(slot.BackupID); !live {
				slot.BackupID = ""
			}
		}
		slots = append(slots, slot)
	}
	return slots
}

// buildManualSlots injects MANUAL meeting instances falling in the week.
// This path is additive and never overlaps the recurring path: MANUAL
// definitions have zero standing occurrences.
func buildManualSlots(snap *model.Snapshot, weekStart time.Time) ([]model.ScheduleSlot, error) {
	var slots []model.ScheduleSlot
	for _, def := range snap.RcpDefinitions {
		if def.Frequency != model.FreqManual {
			continue
		}
		occurrences, err := manualOccurrences(def, weekStart)
		if err != nil {
			return nil, fmt.Errorf("generating week of %s: %w", calendar.FormatDate(weekStart), err)
		}
		for _, occ := range occurrences {
			slot := occ.slot
			resolveAttendance(&slot, occ.planned, snap)
			if slot.BackupID != "" {
				if _, live := snap.WorkerByID(slot.BackupID); !live {
					slot.BackupID = ""
				}
			}
			slots = append(slots, slot)
		}
	}
	return slots, nil
}

// buildActivitySlots materializes the open half-day grid of every
// activity. Assignment happens later, in the equity pass.
func buildActivitySlots(snap *model.Snapshot, weekStart time.Time) []model.ScheduleSlot {
	var slots []model.ScheduleSlot
	for _, act := range snap.Activities {
		blocking := !act.AllowDoubleBooking && !act.Workflow
		for _, day := range act.EffectiveDays() {
			date := standardDate(weekStart, day)
			dateStr := calendar.FormatDate(date)
			for _, period := range act.EffectivePeriods() {
				slots = append(slots, model.ScheduleSlot{
					ID:         activitySlotID(act.ID, dateStr, period),
					Date:       dateStr,
					Day:        day,
					Period:     period,
					Location:   act.Name,
					Type:       model.SlotOther,
					SubType:    act.ID,
					ActivityID: act.ID,
					Blocking:   blocking,
				})
			}
		}
	}
	return slots
}

// applyOverrides applies saved admin decisions on top of everything else;
// they sit at the top of the precedence chain.
func applyOverrides(snap *model.Snapshot, slots []model.ScheduleSlot) {
	for i := range slots {
		ov, ok := snap.Overrides[slots[i].ID]
		if !ok {
			continue
		}
		switch ov.Kind {
		case model.OverrideClose:
			slots[i].Cancelled = true
			slots[i].Blocking = false
		case model.OverrideAssign:
			if _, live := snap.WorkerByID(ov.WorkerID); live {
				slots[i].AssigneeID = ov.WorkerID
			}
		}
	}
}

// sortSlots orders the final list by date, period, then ID so output is
// byte-stable across regenerations.
func sortSlots(slots []model.ScheduleSlot) {
	sort.Slice(slots, func(a, b int) bool {
		if slots[a].Date != slots[b].Date {
			return slots[a].Date < slots[b].Date
		}
		if slots[a].Period != slots[b].Period {
			return periodRank(slots[a].Period) < periodRank(slots[b].Period)
		}
		return slots[a].ID < slots[b].ID
	})
}
