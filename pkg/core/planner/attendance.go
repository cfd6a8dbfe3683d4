package planner

import (
	"sort"

	"github.com/planimed/planning-engine/pkg/core/model"
)

// resolveAttendance resolves a meeting slot's effective attendees by
// precedence:
//
//  1. Explicitly confirmed PRESENT workers win outright. The confirmed
//     set becomes the assignment (first primary, rest secondary), the
//     slot is marked confirmed, and confirmed attendance always blocks
//     double-booking.
//  2. Otherwise the slot stays unconfirmed: the planned list (exception
//     substitution already applied by the caller) minus explicitly
//     confirmed ABSENT workers becomes the provisional, non-blocking
//     assignment. It may end up empty.
//
// Worker IDs no longer present in the snapshot are dropped on both paths.
func resolveAttendance(slot *model.ScheduleSlot, planned []string, snap *model.Snapshot) {
	responses := snap.Attendance[slot.ID]

	confirmed := confirmedPresent(planned, responses, snap)
	if len(confirmed) > 0 {
		slot.AssigneeID = confirmed[0]
		slot.SecondaryIDs = restOf(confirmed)
		slot.Unconfirmed = false
		slot.Blocking = true
		return
	}

	var provisional []string
	for _, id := range planned {
		if _, live := snap.WorkerByID(id); !live {
			continue
		}
		if responses[id] == model.AttendanceAbsent {
			continue
		}
		provisional = append(provisional, id)
	}

	slot.AssigneeID = firstOf(provisional)
	slot.SecondaryIDs = restOf(provisional)
	slot.Unconfirmed = true
	slot.Blocking = false
}

// confirmedPresent collects workers who confirmed PRESENT, in planned-list
// order first so the configured primary stays primary when they confirm,
// then any walk-in confirmations in sorted ID order for reproducibility.
func confirmedPresent(planned []string, responses map[string]model.AttendanceStatus, snap *model.Snapshot) []string {
	if len(responses) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	var out []string

	for _, id := range planned {
		if responses[id] == model.AttendancePresent && !seen[id] {
			if _, live := snap.WorkerByID(id); live {
				out = append(out, id)
				seen[id] = true
			}
		}
	}

	var walkIns []string
	for id, status := range responses {
		if status == model.AttendancePresent && !seen[id] {
			if _, live := snap.WorkerByID(id); live {
				walkIns = append(walkIns, id)
				seen[id] = true
			}
		}
	}
	sort.Strings(walkIns)
	return append(out, walkIns...)
}

// resolveDirectAssignment handles non-meeting template slots: the planned
// list is the definite assignment, zombie IDs dropped.
func resolveDirectAssignment(slot *model.ScheduleSlot, planned []string, snap *model.Snapshot) {
	var live []string
	for _, id := range planned {
		if _, ok := snap.WorkerByID(id); ok {
			live = append(live, id)
		}
	}
	slot.AssigneeID = firstOf(live)
	slot.SecondaryIDs = restOf(live)
}
