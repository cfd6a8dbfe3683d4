package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/planimed/planning-engine/internal/config"
	"github.com/planimed/planning-engine/pkg/core/model"
	"github.com/planimed/planning-engine/pkg/core/planner"
	"github.com/planimed/planning-engine/pkg/db"
)

// ConflictReport pairs a generated week with its findings.
type ConflictReport struct {
	WeekStart string               `json:"weekStart"`
	Slots     []model.ScheduleSlot `json:"slots"`
	Conflicts []model.Conflict     `json:"conflicts"`
}

// DetectConflicts generates the target week (with auto-fill, so findings
// reflect what the admin would actually publish) and scans it.
func DetectConflicts(
	ctx context.Context,
	store db.SnapshotStore,
	cfg *config.Config,
	logger *zap.Logger,
	weekOf string,
	seed int64,
) (*ConflictReport, error) {
	result, err := GenerateWeek(ctx, store, cfg, logger, weekOf, true, seed)
	if err != nil {
		return nil, err
	}

	snap, err := loadSnapshot(ctx, store, cfg, logger)
	if err != nil {
		return nil, err
	}

	conflicts := planner.DetectConflicts(snap, result.Slots)
	if len(conflicts) > 0 {
		logger.Warn("Conflicts detected",
			zap.String("week_start", result.WeekStart),
			zap.Int("count", len(conflicts)))
	} else {
		logger.Info("No conflicts detected", zap.String("week_start", result.WeekStart))
	}

	return &ConflictReport{
		WeekStart: result.WeekStart,
		Slots:     result.Slots,
		Conflicts: conflicts,
	}, nil
}

// SuggestReplacements generates the week, locates the conflicted slot and
// ranks replacement candidates for the unavailable worker.
func SuggestReplacements(
	ctx context.Context,
	store db.SnapshotStore,
	cfg *config.Config,
	logger *zap.Logger,
	weekOf string,
	slotID string,
	workerID string,
	seed int64,
) ([]model.ReplacementSuggestion, error) {
	result, err := GenerateWeek(ctx, store, cfg, logger, weekOf, true, seed)
	if err != nil {
		return nil, err
	}

	snap, err := loadSnapshot(ctx, store, cfg, logger)
	if err != nil {
		return nil, err
	}

	var slot *model.ScheduleSlot
	for i := range result.Slots {
		if result.Slots[i].ID == slotID {
			slot = &result.Slots[i]
			break
		}
	}
	if slot == nil {
		return nil, fmt.Errorf("slot %q not found in week of %s", slotID, result.WeekStart)
	}
	unavailable, ok := snap.WorkerByID(workerID)
	if !ok {
		return nil, fmt.Errorf("worker %q not found", workerID)
	}

	suggestions := planner.SuggestReplacements(snap, *slot, unavailable, result.Slots, planner.SuggestOptions{
		LowLoad:  cfg.Replacement.LowLoad,
		HighLoad: cfg.Replacement.HighLoad,
	})

	logger.Info("Replacement suggestions computed",
		zap.String("slot_id", slotID),
		zap.String("worker_id", workerID),
		zap.Int("count", len(suggestions)))
	return suggestions, nil
}
