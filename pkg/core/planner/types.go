// Package planner is the pure computational core of the engine: it
// materializes a week's schedule from a snapshot, fills open activity
// slots fairly, detects conflicts and scores replacement candidates.
// Everything here is deterministic given the same snapshot and tie-break
// source, performs no I/O and holds no state between calls.
package planner

import (
	"github.com/planimed/planning-engine/pkg/core/model"
)

// TieBreaker supplies the final tie-break decision when equity scores and
// week loads are equal. *math/rand.Rand satisfies it; tests inject fixed
// sources to force specific outcomes.
type TieBreaker interface {
	Intn(n int) int
}

// firstPick always breaks ties toward the earliest candidate. Used as the
// fallback when no source is injected, keeping generation deterministic.
type firstPick struct{}

func (firstPick) Intn(int) int { return 0 }

// GenerateOptions control one generation pass.
type GenerateOptions struct {
	// AutoFill runs the equity assigner over open activity slots.
	AutoFill bool

	// TieBreak breaks residual assignment ties. Nil defaults to always
	// picking the first candidate.
	TieBreak TieBreaker

	// ClosedDates are extra dates (from closure rules) that behave like
	// public holidays: the assigner never auto-fills on them.
	ClosedDates []string
}

func (o GenerateOptions) tieBreak() TieBreaker {
	if o.TieBreak == nil {
		return firstPick{}
	}
	return o.TieBreak
}

// WeekResult is the output of one week's generation: the materialized
// slot list plus the advanced equity accumulator. The accumulator is a
// fresh value; the snapshot's history is never mutated.
type WeekResult struct {
	WeekStart string               `json:"weekStart"`
	Slots     []model.ScheduleSlot `json:"slots"`
	Equity    model.EquityHistory  `json:"equity"`
}
