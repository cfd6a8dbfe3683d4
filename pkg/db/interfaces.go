// Package db defines the storage interfaces the engine consumes. The
// engine only reads immutable snapshots; all writes happen elsewhere.
package db

import (
	"context"

	"github.com/planimed/planning-engine/pkg/core/model"
)

// SnapshotStore loads the complete read-only input state for one engine
// invocation. Both the postgres and yaml stores implement this interface.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context) (*model.Snapshot, error)
}
