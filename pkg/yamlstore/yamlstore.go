// Package yamlstore implements the snapshot store on a single YAML file.
// It exists for local runs and fixtures; production uses postgres.
package yamlstore

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/planimed/planning-engine/pkg/core/model"
)

var validate = validator.New()

// Store reads a full snapshot from one YAML file on every load.
type Store struct {
	path string
}

// New creates a store backed by the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// LoadSnapshot reads, parses and validates the snapshot file.
func (s *Store) LoadSnapshot(ctx context.Context) (*model.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snap model.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot file: %w", err)
	}

	if err := validate.Struct(&snap); err != nil {
		return nil, fmt.Errorf("snapshot validation failed: %w", err)
	}

	if snap.Attendance == nil {
		snap.Attendance = model.AttendanceMap{}
	}
	if snap.Overrides == nil {
		snap.Overrides = map[string]model.SlotOverride{}
	}

	return &snap, nil
}
