package planner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/planimed/planning-engine/pkg/core/model"
)

// SuggestOptions tune the replacement scoring thresholds. Zero values
// fall back to the defaults.
type SuggestOptions struct {
	// LowLoad and HighLoad bound the equity-weighted load below/above
	// which a candidate gains/loses the workload bonus.
	LowLoad  float64
	HighLoad float64
}

const (
	defaultLowLoad  = 2.0
	defaultHighLoad = 5.0

	baseScore          = 50
	specialtyBonus     = 30
	workloadAdjustment = 20
	locationBonus      = 20
	maxSuggestions     = 5
)

// SuggestReplacements ranks candidates to cover a conflicted slot for an
// unavailable worker. Candidates who excluded the slot's type or activity
// are filtered out; the rest are scored from a base of 50 by specialty
// overlap with the unavailable worker, equity-weighted load, and textual
// specialty affinity with the slot's location. Returns at most five
// suggestions, best first, each with at least one human-readable reason.
func SuggestReplacements(
	snap *model.Snapshot,
	slot model.ScheduleSlot,
	unavailable model.Worker,
	weekSlots []model.ScheduleSlot,
	opts SuggestOptions,
) []model.ReplacementSuggestion {
	lowLoad := opts.LowLoad
	if lowLoad == 0 {
		lowLoad = defaultLowLoad
	}
	highLoad := opts.HighLoad
	if highLoad == 0 {
		highLoad = defaultHighLoad
	}

	group := equityGroupOf(snap, slot)

	var suggestions []model.ReplacementSuggestion
	for _, candidate := range snap.Workers {
		if candidate.ID == unavailable.ID {
			continue
		}
		if candidate.HasExcludedSlotType(slot.Type) {
			continue
		}
		if slot.ActivityID != "" && candidate.HasExcludedActivity(slot.ActivityID) {
			continue
		}

		score := baseScore
		var reasons []string

		if shared := sharedSpecialty(candidate, unavailable); shared != "" {
			score += specialtyBonus
			reasons = append(reasons, fmt.Sprintf("shares specialty %q with %s", shared, workerLabel(unavailable)))
		}

		load := weightedLoad(snap, candidate, group, weekSlots)
		switch {
		case load < lowLoad:
			score += workloadAdjustment
			reasons = append(reasons, "current workload is below average")
		case load > highLoad:
			score -= workloadAdjustment
			reasons = append(reasons, "current workload is already high")
		}

		if spec := locationAffinity(candidate, slot.Location); spec != "" {
			score += locationBonus
			reasons = append(reasons, fmt.Sprintf("specialty %q matches the slot location %q", spec, slot.Location))
		}

		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}
		if len(reasons) == 0 {
			reasons = append(reasons, "available for this slot")
		}

		suggestions = append(suggestions, model.ReplacementSuggestion{
			WorkerID: candidate.ID,
			Score:    score,
			Reasons:  reasons,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].WorkerID < suggestions[j].WorkerID
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// equityGroupOf resolves the equity group the slot's workload counts in.
// Non-activity slots fall back to a per-rule bucket.
func equityGroupOf(snap *model.Snapshot, slot model.ScheduleSlot) string {
	if slot.ActivityID != "" {
		if act, ok := snap.ActivityByID(slot.ActivityID); ok {
			return act.Group()
		}
		return "activity:" + slot.ActivityID
	}
	return "rule:" + slot.RuleID
}

// weightedLoad is the candidate's history score in the slot's group plus
// their same-group assignments in the current week, normalized by work rate.
func weightedLoad(snap *model.Snapshot, w model.Worker, group string, weekSlots []model.ScheduleSlot) float64 {
	load := snap.History.Score(w.ID, group)
	for _, s := range weekSlots {
		if s.Cancelled || !s.Involves(w.ID) {
			continue
		}
		if equityGroupOf(snap, s) == group {
			load++
		}
	}
	return load / w.WorkRate()
}

func sharedSpecialty(a, b model.Worker) string {
	for _, sa := range a.Specialties {
		for _, sb := range b.Specialties {
			if strings.EqualFold(sa, sb) {
				return sa
			}
		}
	}
	return ""
}

// locationAffinity reports the first candidate specialty appearing as a
// keyword in the slot's location label.
func locationAffinity(w model.Worker, location string) string {
	if location == "" {
		return ""
	}
	loc := strings.ToLower(location)
	for _, spec := range w.Specialties {
		if spec != "" && strings.Contains(loc, strings.ToLower(spec)) {
			return spec
		}
	}
	return ""
}
