package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/planimed/planning-engine/internal/config"
	"github.com/planimed/planning-engine/pkg/core/calendar"
	"github.com/planimed/planning-engine/pkg/core/planner"
	"github.com/planimed/planning-engine/pkg/db"
)

// RebuildHistory replays saved assignments week-by-week up to the target
// date and returns the resulting equity state. This is what fairness
// dashboards consume and what seeds the next generation.
func RebuildHistory(
	ctx context.Context,
	store db.SnapshotStore,
	cfg *config.Config,
	logger *zap.Logger,
	upTo string,
) (*planner.HistoryResult, error) {
	target, err := calendar.ParseDate(upTo)
	if err != nil {
		return nil, fmt.Errorf("invalid target date: %w", err)
	}

	snap, err := loadSnapshot(ctx, store, cfg, logger)
	if err != nil {
		return nil, err
	}
	if snap.CountingStart == "" {
		logger.Info("No counting start date configured, history is empty")
	}

	result, err := planner.RebuildHistory(snap, target)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild history: %w", err)
	}
	if result.Truncated {
		logger.Warn("History replay truncated at week ceiling",
			zap.Int("weeks", result.Weeks),
			zap.Int("ceiling", planner.MaxHistoryWeeks))
	}

	logger.Info("History rebuilt",
		zap.Int("weeks", result.Weeks),
		zap.Int("workers", len(result.Equity)))
	return result, nil
}
