package yamlstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planimed/planning-engine/pkg/core/model"
)

func writeSnapshot(t *testing.T, content string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return New(path)
}

func TestLoadSnapshot_FullFile(t *testing.T) {
	store := writeSnapshot(t, `
workers:
  - id: w1
    firstName: Anne
    lastName: Durand
    specialties: [oncologie]
    excludedDays: [3]
  - id: w2
activities:
  - id: garde
    granularity: HALF_DAY
rules:
  - id: rcp-onco
    day: 2
    period: AFTERNOON
    type: MEETING
    time: "14:00"
    participants: [w1, w2]
    rcpId: onco
rcpDefinitions:
  - id: onco
    frequency: BIWEEKLY
    parity: EVEN
unavailabilities:
  - workerId: w2
    from: "2024-09-02"
    to: "2024-09-03"
    scope: MORNING
overrides:
  garde_2024-09-02_morning:
    slotId: garde_2024-09-02_morning
    kind: ASSIGN
    workerId: w1
countingStart: "2024-01-01"
`)

	snap, err := store.LoadSnapshot(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Workers, 2)
	assert.Equal(t, "Anne", snap.Workers[0].FirstName)
	assert.Equal(t, []time.Weekday{time.Wednesday}, snap.Workers[0].ExcludedDays)

	require.Len(t, snap.Rules, 1)
	assert.Equal(t, model.SlotMeeting, snap.Rules[0].Type)
	assert.Equal(t, "onco", snap.Rules[0].RcpID)

	require.Len(t, snap.RcpDefinitions, 1)
	assert.Equal(t, model.ParityEven, snap.RcpDefinitions[0].Parity)

	require.Len(t, snap.Unavailabilities, 1)
	assert.Equal(t, model.ScopeMorning, snap.Unavailabilities[0].Scope)

	override, ok := snap.Overrides["garde_2024-09-02_morning"]
	require.True(t, ok)
	assert.Equal(t, model.OverrideAssign, override.Kind)
	assert.Equal(t, "2024-01-01", snap.CountingStart)
}

func TestLoadSnapshot_InitializesEmptyMaps(t *testing.T) {
	store := writeSnapshot(t, `
workers:
  - id: w1
`)

	snap, err := store.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, snap.Attendance)
	assert.NotNil(t, snap.Overrides)
}

func TestLoadSnapshot_MissingWorkerID(t *testing.T) {
	store := writeSnapshot(t, `
workers:
  - firstName: Anne
`)

	_, err := store.LoadSnapshot(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadSnapshot_InvalidYAML(t *testing.T) {
	store := writeSnapshot(t, "workers:\n  - id: w1\n bad indent\n")

	_, err := store.LoadSnapshot(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse snapshot file")
}

func TestLoadSnapshot_FileNotFound(t *testing.T) {
	_, err := New("/nonexistent/snapshot.yaml").LoadSnapshot(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read snapshot file")
}
