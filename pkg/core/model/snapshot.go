package model

// EquityHistory is the cumulative per-worker, per-equity-group assignment
// count. It is rebuilt from saved overrides and advanced in memory during
// a single generation pass; it is never partially persisted mid-run.
type EquityHistory map[string]map[string]float64

// Score returns the worker's cumulative score in a group, zero when unseen.
func (h EquityHistory) Score(workerID, group string) float64 {
	return h[workerID][group]
}

// Add increments the worker's score in a group.
func (h EquityHistory) Add(workerID, group string, delta float64) {
	if h[workerID] == nil {
		h[workerID] = make(map[string]float64)
	}
	h[workerID][group] += delta
}

// Clone returns a deep copy so a generation pass never mutates its input.
func (h EquityHistory) Clone() EquityHistory {
	out := make(EquityHistory, len(h))
	for worker, groups := range h {
		inner := make(map[string]float64, len(groups))
		for group, score := range groups {
			inner[group] = score
		}
		out[worker] = inner
	}
	return out
}

// Snapshot is the immutable input state for one engine invocation. The
// engine never writes to it; persistence and CRUD live outside the core.
type Snapshot struct {
	Workers          []Worker                `yaml:"workers" validate:"dive"`
	Activities       []ActivityDefinition    `yaml:"activities,omitempty" validate:"dive"`
	Rules            []RecurrenceRule        `yaml:"rules,omitempty" validate:"dive"`
	RcpDefinitions   []RcpDefinition         `yaml:"rcpDefinitions,omitempty" validate:"dive"`
	Unavailabilities []Unavailability        `yaml:"unavailabilities,omitempty" validate:"dive"`
	Exceptions       []Exception             `yaml:"exceptions,omitempty" validate:"dive"`
	Attendance       AttendanceMap           `yaml:"attendance,omitempty"`
	Overrides        map[string]SlotOverride `yaml:"overrides,omitempty"`
	History          EquityHistory           `yaml:"history,omitempty"`

	// CountingStart is the date equity history replay begins from.
	// Empty means no history is counted.
	CountingStart string `yaml:"countingStart,omitempty"`
}

// WorkerByID looks a worker up, reporting whether the ID is still live.
// Stale ("zombie") IDs are expected input and must not be treated as errors.
func (s *Snapshot) WorkerByID(id string) (Worker, bool) {
	for _, w := range s.Workers {
		if w.ID == id {
			return w, true
		}
	}
	return Worker{}, false
}

// RcpByID resolves a rule's RCP definition link.
func (s *Snapshot) RcpByID(id string) (RcpDefinition, bool) {
	for _, def := range s.RcpDefinitions {
		if def.ID == id {
			return def, true
		}
	}
	return RcpDefinition{}, false
}

// ActivityByID resolves an activity definition.
func (s *Snapshot) ActivityByID(id string) (ActivityDefinition, bool) {
	for _, a := range s.Activities {
		if a.ID == id {
			return a, true
		}
	}
	return ActivityDefinition{}, false
}
