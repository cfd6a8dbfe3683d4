package services

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/planimed/planning-engine/internal/config"
	"github.com/planimed/planning-engine/pkg/core/calendar"
	"github.com/planimed/planning-engine/pkg/core/model"
	"github.com/planimed/planning-engine/pkg/core/planner"
	"github.com/planimed/planning-engine/pkg/db"
)

// GenerateWeek loads the snapshot, rebuilds equity history up to the
// target week, expands configured closure rules, and materializes the
// week's schedule. If autoFill is false the skeleton is returned without
// running the equity assigner.
func GenerateWeek(
	ctx context.Context,
	store db.SnapshotStore,
	cfg *config.Config,
	logger *zap.Logger,
	weekOf string,
	autoFill bool,
	seed int64,
) (*planner.WeekResult, error) {
	week, err := calendar.ParseDate(weekOf)
	if err != nil {
		return nil, fmt.Errorf("invalid week date: %w", err)
	}

	logger.Info("Generating week",
		zap.String("week_of", weekOf),
		zap.Bool("auto_fill", autoFill),
		zap.Int64("seed", seed))

	snap, err := loadSnapshot(ctx, store, cfg, logger)
	if err != nil {
		return nil, err
	}

	// Seed the assigner from replayed history when a counting start is
	// configured; saved snapshots of history are never trusted over a
	// fresh replay.
	if snap.CountingStart != "" {
		history, err := planner.RebuildHistory(snap, week)
		if err != nil {
			return nil, fmt.Errorf("failed to rebuild equity history: %w", err)
		}
		if history.Truncated {
			logger.Warn("History replay hit the week ceiling",
				zap.Int("weeks", history.Weeks),
				zap.String("counting_start", snap.CountingStart))
		}
		snap.History = history.Equity
	}

	closed, err := cfg.ClosedDatesInWeek(calendar.WeekStart(week))
	if err != nil {
		return nil, fmt.Errorf("failed to expand closure rules: %w", err)
	}
	if len(closed) > 0 {
		logger.Debug("Closure dates in week", zap.Strings("dates", closed))
	}

	result, err := planner.GenerateWeek(snap, week, planner.GenerateOptions{
		AutoFill:    autoFill,
		TieBreak:    rand.New(rand.NewSource(seed)),
		ClosedDates: closed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate week: %w", err)
	}

	filled, open := 0, 0
	for _, s := range result.Slots {
		if s.Cancelled {
			continue
		}
		if s.AssigneeID != "" {
			filled++
		} else {
			open++
		}
	}
	logger.Info("Week generated",
		zap.String("week_start", result.WeekStart),
		zap.Int("slots", len(result.Slots)),
		zap.Int("filled", filled),
		zap.Int("open", open))

	return result, nil
}

func loadSnapshot(ctx context.Context, store db.SnapshotStore, cfg *config.Config, logger *zap.Logger) (*model.Snapshot, error) {
	logger.Debug("Loading snapshot")
	snap, err := store.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if cfg.CountingStartDate != "" && snap.CountingStart == "" {
		snap.CountingStart = cfg.CountingStartDate
	}
	logger.Debug("Snapshot loaded",
		zap.Int("workers", len(snap.Workers)),
		zap.Int("rules", len(snap.Rules)),
		zap.Int("activities", len(snap.Activities)))
	return snap, nil
}
