package planner

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/planimed/planning-engine/pkg/core/model"
)

// DetectConflicts scans a materialized schedule for residual problems:
// dated-absence violations, double bookings on blocking slots, exclusion
// violations and recurring non-working-pattern violations. Cancelled
// slots are never flagged.
func DetectConflicts(snap *model.Snapshot, slots []model.ScheduleSlot) []model.Conflict {
	var findings []model.Conflict

	byWorker := slotsByWorker(snap, slots)

	// Dated absences.
	for _, u := range snap.Unavailabilities {
		worker, live := snap.WorkerByID(u.WorkerID)
		if !live {
			continue
		}
		for _, s := range byWorker[u.WorkerID] {
			if !u.Covers(s.Date, s.Period) {
				continue
			}
			findings = append(findings, model.Conflict{
				ID:       uuid.New().String(),
				SlotID:   s.ID,
				WorkerID: u.WorkerID,
				Kind:     model.ConflictUnavailable,
				Severity: model.SeverityHigh,
				Description: fmt.Sprintf("%s is unavailable on %s (%s) but holds slot %s",
					workerLabel(worker), s.Date, u.Reason, s.ID),
			})
		}
	}

	for _, w := range snap.Workers {
		workerSlots := byWorker[w.ID]

		// Double bookings: every pair of blocking slots sharing a
		// half-day yields one finding per slot.
		for i := 0; i < len(workerSlots); i++ {
			for j := i + 1; j < len(workerSlots); j++ {
				a, b := workerSlots[i], workerSlots[j]
				if a.Date != b.Date || a.Period != b.Period {
					continue
				}
				if !a.Blocking || !b.Blocking {
					continue
				}
				findings = append(findings,
					doubleBooking(w, a, b),
					doubleBooking(w, b, a),
				)
			}
		}

		for _, s := range workerSlots {
			// Exclusion violations.
			if (s.ActivityID != "" && w.HasExcludedActivity(s.ActivityID)) || w.HasExcludedSlotType(s.Type) {
				findings = append(findings, model.Conflict{
					ID:       uuid.New().String(),
					SlotID:   s.ID,
					WorkerID: w.ID,
					Kind:     model.ConflictCompetenceMismatch,
					Severity: model.SeverityMedium,
					Description: fmt.Sprintf("%s has excluded this kind of slot but is assigned to %s on %s",
						workerLabel(w), s.ID, s.Date),
				})
			}

			// Recurring non-working half-days. An unconfirmed meeting
			// participant poses no real conflict, so meetings are only
			// flagged once the worker has confirmed presence.
			if !w.WorksOn(s.Day, s.Period) {
				if s.Type == model.SlotMeeting && !hasConfirmedPresence(snap, s.ID, w.ID) {
					continue
				}
				findings = append(findings, model.Conflict{
					ID:       uuid.New().String(),
					SlotID:   s.ID,
					WorkerID: w.ID,
					Kind:     model.ConflictUnavailable,
					Severity: model.SeverityMedium,
					Description: fmt.Sprintf("%s does not work on %s %ss but holds slot %s",
						workerLabel(w), s.Day, s.Period, s.ID),
				})
			}
		}
	}

	return findings
}

func doubleBooking(w model.Worker, slot, other model.ScheduleSlot) model.Conflict {
	return model.Conflict{
		ID:       uuid.New().String(),
		SlotID:   slot.ID,
		WorkerID: w.ID,
		Kind:     model.ConflictDoubleBooking,
		Severity: model.SeverityHigh,
		Description: fmt.Sprintf("%s is double-booked on %s %s: %s overlaps %s",
			workerLabel(w), slot.Date, slot.Period, slot.ID, other.ID),
	}
}

// slotsByWorker groups non-cancelled slots by every involved worker
// (primary and secondary), keeping slot order stable.
func slotsByWorker(snap *model.Snapshot, slots []model.ScheduleSlot) map[string][]model.ScheduleSlot {
	byWorker := make(map[string][]model.ScheduleSlot)
	for _, s := range slots {
		if s.Cancelled {
			continue
		}
		for _, w := range snap.Workers {
			if s.Involves(w.ID) {
				byWorker[w.ID] = append(byWorker[w.ID], s)
			}
		}
	}
	return byWorker
}

func hasConfirmedPresence(snap *model.Snapshot, slotID, workerID string) bool {
	return snap.Attendance[slotID][workerID] == model.AttendancePresent
}

func workerLabel(w model.Worker) string {
	if w.FirstName == "" && w.LastName == "" {
		return w.ID
	}
	return w.FirstName + " " + w.LastName
}
