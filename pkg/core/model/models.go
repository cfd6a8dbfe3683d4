package model

import "time"

// Period is a half-day period of a working day.
type Period string

const (
	PeriodMorning   Period = "MORNING"
	PeriodAfternoon Period = "AFTERNOON"
)

func (p Period) IsValid() bool {
	return p == PeriodMorning || p == PeriodAfternoon
}

// SlotType classifies what kind of activity a slot holds.
type SlotType string

const (
	SlotConsultation SlotType = "CONSULTATION"
	SlotMeeting      SlotType = "MEETING"
	SlotOther        SlotType = "OTHER"
)

// Frequency controls how often a recurring rule fires.
type Frequency string

const (
	FreqWeekly   Frequency = "WEEKLY"
	FreqBiweekly Frequency = "BIWEEKLY"
	FreqMonthly  Frequency = "MONTHLY"
	// FreqManual rules have no standing occurrences; their dates live
	// exclusively in the definition's instance list.
	FreqManual Frequency = "MANUAL"
)

// Parity selects which weeks a BIWEEKLY rule fires on.
// The empty value defaults to odd weeks.
type Parity string

const (
	ParityOdd  Parity = "ODD"
	ParityEven Parity = "EVEN"
)

// HalfDay identifies one half-day of the week, e.g. Tuesday afternoon.
type HalfDay struct {
	Day    time.Weekday `yaml:"day"`
	Period Period       `yaml:"period"`
}

// Worker is a doctor in the current team. The engine treats workers as
// read-only input; all mutation happens in the admin layer.
type Worker struct {
	ID          string   `yaml:"id" validate:"required"`
	FirstName   string   `yaml:"firstName"`
	LastName    string   `yaml:"lastName"`
	Specialties []string `yaml:"specialties,omitempty"`

	// ExcludedDays is the legacy full-weekday non-working pattern.
	// ExcludedHalfDays is the granular pattern and takes precedence
	// whenever it is non-empty.
	ExcludedDays     []time.Weekday `yaml:"excludedDays,omitempty"`
	ExcludedHalfDays []HalfDay      `yaml:"excludedHalfDays,omitempty"`

	ExcludedActivities []string   `yaml:"excludedActivities,omitempty"`
	ExcludedSlotTypes  []SlotType `yaml:"excludedSlotTypes,omitempty"`
}

// WorksOn reports whether the worker's recurring pattern has them working
// on the given half-day.
func (w Worker) WorksOn(day time.Weekday, period Period) bool {
	if len(w.ExcludedHalfDays) > 0 {
		for _, hd := range w.ExcludedHalfDays {
			if hd.Day == day && hd.Period == period {
				return false
			}
		}
		return true
	}
	for _, d := range w.ExcludedDays {
		if d == day {
			return false
		}
	}
	return true
}

// WorkRate is the fraction of a standard 10-half-day week (Monday to
// Friday, two periods a day) the worker actually works. Used to normalize
// fairness comparisons between full-time and part-time workers.
func (w Worker) WorkRate() float64 {
	excluded := 0
	if len(w.ExcludedHalfDays) > 0 {
		for _, hd := range w.ExcludedHalfDays {
			if hd.Day >= time.Monday && hd.Day <= time.Friday {
				excluded++
			}
		}
	} else {
		for _, d := range w.ExcludedDays {
			if d >= time.Monday && d <= time.Friday {
				excluded += 2
			}
		}
	}
	if excluded >= 10 {
		// A worker excluded from every half-day still gets a positive
		// rate so load division stays defined.
		return 0.1
	}
	return float64(10-excluded) / 10.0
}

// HasExcludedActivity reports whether the worker opted out of an activity.
func (w Worker) HasExcludedActivity(activityID string) bool {
	for _, id := range w.ExcludedActivities {
		if id == activityID {
			return true
		}
	}
	return false
}

// HasExcludedSlotType reports whether the worker opted out of a slot type.
func (w Worker) HasExcludedSlotType(t SlotType) bool {
	for _, st := range w.ExcludedSlotTypes {
		if st == t {
			return true
		}
	}
	return false
}

// RecurrenceRule is one template slot of the weekly planning grid.
type RecurrenceRule struct {
	ID       string       `yaml:"id" validate:"required"`
	Day      time.Weekday `yaml:"day"`
	Period   Period       `yaml:"period"`
	Location string       `yaml:"location,omitempty"`
	Type     SlotType     `yaml:"type"`
	SubType  string       `yaml:"subType,omitempty"`
	Time     string       `yaml:"time,omitempty"` // "15:04", optional fixed clock time

	// Participants is ordered: first is the primary assignee, the rest
	// are secondary.
	Participants []string `yaml:"participants,omitempty"`
	Backup       string   `yaml:"backup,omitempty"`

	// Blocking defaults to true when nil.
	Blocking *bool `yaml:"blocking,omitempty"`

	// Frequency tags carried directly on plain rules. Meeting rules
	// usually take their frequency from the linked RCP definition.
	Frequency Frequency `yaml:"frequency,omitempty"`
	Parity    Parity    `yaml:"parity,omitempty"`

	// RcpID links a meeting-type rule to its RcpDefinition.
	RcpID string `yaml:"rcpId,omitempty"`
}

// IsBlocking resolves the rule's blocking flag with its default.
func (r RecurrenceRule) IsBlocking() bool {
	return r.Blocking == nil || *r.Blocking
}

// RcpDefinition is a named recurring multidisciplinary meeting with its
// recurrence policy and, for MANUAL meetings, the concrete instance list.
type RcpDefinition struct {
	ID        string           `yaml:"id" validate:"required"`
	Name      string           `yaml:"name"`
	Frequency Frequency        `yaml:"frequency,omitempty"`
	Parity    Parity           `yaml:"parity,omitempty"`
	Ordinal   int              `yaml:"ordinal,omitempty"` // nth weekday of month, 0 defaults to 1
	Instances []ManualInstance `yaml:"instances,omitempty"`
}

// ManualInstance is one concrete occurrence of a MANUAL-frequency meeting.
type ManualInstance struct {
	ID           string   `yaml:"id" validate:"required"`
	Date         string   `yaml:"date"` // "2006-01-02"
	Time         string   `yaml:"time"` // "15:04"
	Participants []string `yaml:"participants,omitempty"`
	Backup       string   `yaml:"backup,omitempty"`
}

// Exception overrides a single occurrence of a recurring rule. It is keyed
// by (RuleID, OriginalDate); at most one exception exists per key.
type Exception struct {
	RuleID       string `yaml:"ruleId" validate:"required"`
	OriginalDate string `yaml:"originalDate" validate:"required"`

	NewDate   string `yaml:"newDate,omitempty"`
	NewPeriod Period `yaml:"newPeriod,omitempty"`
	NewTime   string `yaml:"newTime,omitempty"`
	Cancelled bool   `yaml:"cancelled,omitempty"`

	// Participants, when non-nil, substitutes the rule's planned list.
	Participants []string `yaml:"participants,omitempty"`
}

// AttendanceStatus is a worker's explicit response for a meeting occurrence.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
)

// AttendanceMap holds responses keyed by generated slot ID, then worker ID.
type AttendanceMap map[string]map[string]AttendanceStatus

// Granularity is the assignment grain of an activity.
type Granularity string

const (
	GrainHalfDay Granularity = "HALF_DAY"
	// GrainWeekly activities take one assignment decision per week,
	// applied to every slot of the activity that week.
	GrainWeekly Granularity = "WEEKLY"
)

// ActivityDefinition describes a rotating duty activity whose open slots
// are auto-filled by the equity assigner.
type ActivityDefinition struct {
	ID          string      `yaml:"id" validate:"required"`
	Name        string      `yaml:"name"`
	Granularity Granularity `yaml:"granularity"`

	// EquityGroup pools interchangeable activities for fairness counting.
	// Empty means the activity gets a private singleton group.
	EquityGroup string `yaml:"equityGroup,omitempty"`

	AllowDoubleBooking bool `yaml:"allowDoubleBooking,omitempty"`

	// Workflow marks the non-blocking rotation class: week eligibility
	// only requires the worker to have no dated absence during the week.
	Workflow bool `yaml:"workflow,omitempty"`

	// Days and Periods control which half-day slots the activity
	// materializes each week. Empty means Monday-Friday, both periods.
	Days    []time.Weekday `yaml:"days,omitempty"`
	Periods []Period       `yaml:"periods,omitempty"`
}

// Group returns the effective equity group of the activity.
func (a ActivityDefinition) Group() string {
	if a.EquityGroup != "" {
		return a.EquityGroup
	}
	return "activity:" + a.ID
}

// EffectiveDays returns the weekdays the activity covers.
func (a ActivityDefinition) EffectiveDays() []time.Weekday {
	if len(a.Days) > 0 {
		return a.Days
	}
	return []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
}

// EffectivePeriods returns the half-day periods the activity covers.
func (a ActivityDefinition) EffectivePeriods() []Period {
	if len(a.Periods) > 0 {
		return a.Periods
	}
	return []Period{PeriodMorning, PeriodAfternoon}
}

// UnavailabilityScope narrows a dated absence to part of the day.
type UnavailabilityScope string

const (
	ScopeAllDay    UnavailabilityScope = "ALL_DAY"
	ScopeMorning   UnavailabilityScope = "MORNING"
	ScopeAfternoon UnavailabilityScope = "AFTERNOON"
)

// Unavailability is a dated absence, inclusive on both ends.
type Unavailability struct {
	WorkerID string              `yaml:"workerId" validate:"required"`
	From     string              `yaml:"from" validate:"required"` // "2006-01-02"
	To       string              `yaml:"to" validate:"required"`
	Scope    UnavailabilityScope `yaml:"scope,omitempty"`
	Reason   string              `yaml:"reason,omitempty"`
}

// Covers reports whether the absence blocks the given date and period.
// ISO dates compare correctly as strings.
func (u Unavailability) Covers(date string, period Period) bool {
	if date < u.From || date > u.To {
		return false
	}
	switch u.Scope {
	case ScopeMorning:
		return period == PeriodMorning
	case ScopeAfternoon:
		return period == PeriodAfternoon
	default:
		return true
	}
}

// OverrideKind discriminates the admin override union.
type OverrideKind string

const (
	OverrideAssign OverrideKind = "ASSIGN"
	OverrideClose  OverrideKind = "CLOSE"
)

// SlotOverride is a manually saved admin decision for one generated slot.
// ASSIGN pins a worker onto the slot; CLOSE removes the slot from play.
type SlotOverride struct {
	SlotID   string       `yaml:"slotId" validate:"required"`
	Kind     OverrideKind `yaml:"kind" validate:"required"`
	WorkerID string       `yaml:"workerId,omitempty"` // ASSIGN only
}

// ScheduleSlot is one materialized half-day (or timed) occurrence in a
// generated week. Slot IDs are deterministic so that overrides and
// attendance records keyed by them survive regeneration.
type ScheduleSlot struct {
	ID         string       `json:"id"`
	Date       string       `json:"date"`
	Day        time.Weekday `json:"day"`
	Period     Period       `json:"period"`
	Time       string       `json:"time,omitempty"`
	Location   string       `json:"location,omitempty"`
	Type       SlotType     `json:"type"`
	SubType    string       `json:"subType,omitempty"`
	RuleID     string       `json:"ruleId,omitempty"`
	ActivityID string       `json:"activityId,omitempty"`

	AssigneeID   string   `json:"assigneeId,omitempty"`
	SecondaryIDs []string `json:"secondaryIds,omitempty"`
	BackupID     string   `json:"backupId,omitempty"`

	Blocking    bool `json:"blocking"`
	Unconfirmed bool `json:"unconfirmed,omitempty"` // meetings only
	Cancelled   bool `json:"cancelled,omitempty"`
}

// Involves reports whether the worker is the primary or a secondary
// assignee of the slot.
func (s ScheduleSlot) Involves(workerID string) bool {
	if s.AssigneeID == workerID {
		return true
	}
	for _, id := range s.SecondaryIDs {
		if id == workerID {
			return true
		}
	}
	return false
}

// ConflictKind classifies a detected scheduling conflict.
type ConflictKind string

const (
	ConflictUnavailable        ConflictKind = "UNAVAILABLE"
	ConflictDoubleBooking      ConflictKind = "DOUBLE_BOOKING"
	ConflictCompetenceMismatch ConflictKind = "COMPETENCE_MISMATCH"
)

// Severity grades how serious a conflict is.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
)

// Conflict is one structured finding from the conflict detector.
type Conflict struct {
	ID          string       `json:"id"`
	SlotID      string       `json:"slotId"`
	WorkerID    string       `json:"workerId"`
	Kind        ConflictKind `json:"kind"`
	Description string       `json:"description"`
	Severity    Severity     `json:"severity"`
}

// ReplacementSuggestion is one ranked candidate for covering a conflicted
// slot. Score is clamped to [0, 100].
type ReplacementSuggestion struct {
	WorkerID string   `json:"workerId"`
	Score    int      `json:"score"`
	Reasons  []string `json:"reasons"`
}
