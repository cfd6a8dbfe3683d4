package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/planimed/planning-engine/pkg/core/model"
)

const dateLayout = "2006-01-02"

// LoadSnapshot reads the full engine input state in one pass. Equity
// history is deliberately absent: it is always replayed from overrides.
func (d *DB) LoadSnapshot(ctx context.Context) (*model.Snapshot, error) {
	snap := &model.Snapshot{
		Attendance: model.AttendanceMap{},
		Overrides:  map[string]model.SlotOverride{},
	}

	var err error
	if snap.Workers, err = d.getWorkers(ctx); err != nil {
		return nil, err
	}
	if snap.Activities, err = d.getActivities(ctx); err != nil {
		return nil, err
	}
	if snap.RcpDefinitions, err = d.getRcpDefinitions(ctx); err != nil {
		return nil, err
	}
	if snap.Rules, err = d.getRules(ctx); err != nil {
		return nil, err
	}
	if snap.Unavailabilities, err = d.getUnavailabilities(ctx); err != nil {
		return nil, err
	}
	if snap.Exceptions, err = d.getExceptions(ctx); err != nil {
		return nil, err
	}
	if err = d.fillAttendance(ctx, snap.Attendance); err != nil {
		return nil, err
	}
	if err = d.fillOverrides(ctx, snap.Overrides); err != nil {
		return nil, err
	}
	if snap.CountingStart, err = d.getCountingStart(ctx); err != nil {
		return nil, err
	}

	return snap, nil
}

func (d *DB) getWorkers(ctx context.Context) ([]model.Worker, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, first_name, last_name, specialties,
		       excluded_days, excluded_half_days,
		       excluded_activities, excluded_slot_types
		FROM worker
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query workers: %w", err)
	}
	defer rows.Close()

	var workers []model.Worker
	for rows.Next() {
		var w model.Worker
		var specialties, days, halfDays, activities, slotTypes []byte
		if err := rows.Scan(&w.ID, &w.FirstName, &w.LastName, &specialties,
			&days, &halfDays, &activities, &slotTypes); err != nil {
			return nil, fmt.Errorf("failed to scan worker: %w", err)
		}
		for _, pair := range []struct {
			raw []byte
			dst any
		}{
			{specialties, &w.Specialties},
			{days, &w.ExcludedDays},
			{halfDays, &w.ExcludedHalfDays},
			{activities, &w.ExcludedActivities},
			{slotTypes, &w.ExcludedSlotTypes},
		} {
			if err := json.Unmarshal(pair.raw, pair.dst); err != nil {
				return nil, fmt.Errorf("failed to decode worker %s: %w", w.ID, err)
			}
		}
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workers: %w", err)
	}
	return workers, nil
}

func (d *DB) getActivities(ctx context.Context) ([]model.ActivityDefinition, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, granularity, equity_group,
		       allow_double_booking, workflow, days, periods
		FROM activity_definition
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity definitions: %w", err)
	}
	defer rows.Close()

	var activities []model.ActivityDefinition
	for rows.Next() {
		var a model.ActivityDefinition
		var days, periods []byte
		if err := rows.Scan(&a.ID, &a.Name, &a.Granularity, &a.EquityGroup,
			&a.AllowDoubleBooking, &a.Workflow, &days, &periods); err != nil {
			return nil, fmt.Errorf("failed to scan activity definition: %w", err)
		}
		if err := json.Unmarshal(days, &a.Days); err != nil {
			return nil, fmt.Errorf("failed to decode activity %s days: %w", a.ID, err)
		}
		if err := json.Unmarshal(periods, &a.Periods); err != nil {
			return nil, fmt.Errorf("failed to decode activity %s periods: %w", a.ID, err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity definitions: %w", err)
	}
	return activities, nil
}

func (d *DB) getRcpDefinitions(ctx context.Context) ([]model.RcpDefinition, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, frequency, parity, ordinal, instances
		FROM rcp_definition
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rcp definitions: %w", err)
	}
	defer rows.Close()

	var defs []model.RcpDefinition
	for rows.Next() {
		var def model.RcpDefinition
		var instances []byte
		if err := rows.Scan(&def.ID, &def.Name, &def.Frequency, &def.Parity,
			&def.Ordinal, &instances); err != nil {
			return nil, fmt.Errorf("failed to scan rcp definition: %w", err)
		}
		if err := json.Unmarshal(instances, &def.Instances); err != nil {
			return nil, fmt.Errorf("failed to decode rcp %s instances: %w", def.ID, err)
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rcp definitions: %w", err)
	}
	return defs, nil
}

func (d *DB) getRules(ctx context.Context) ([]model.RecurrenceRule, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, day, period, location, slot_type, sub_type, slot_time,
		       participants, backup, blocking, frequency, parity,
		       COALESCE(rcp_id, '')
		FROM recurrence_rule
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurrence rules: %w", err)
	}
	defer rows.Close()

	var rules []model.RecurrenceRule
	for rows.Next() {
		var r model.RecurrenceRule
		var day int
		var participants []byte
		if err := rows.Scan(&r.ID, &day, &r.Period, &r.Location, &r.Type,
			&r.SubType, &r.Time, &participants, &r.Backup, &r.Blocking,
			&r.Frequency, &r.Parity, &r.RcpID); err != nil {
			return nil, fmt.Errorf("failed to scan recurrence rule: %w", err)
		}
		r.Day = time.Weekday(day)
		if err := json.Unmarshal(participants, &r.Participants); err != nil {
			return nil, fmt.Errorf("failed to decode rule %s participants: %w", r.ID, err)
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurrence rules: %w", err)
	}
	return rules, nil
}

func (d *DB) getUnavailabilities(ctx context.Context) ([]model.Unavailability, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT worker_id, date_from, date_to, scope, reason
		FROM unavailability
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query unavailabilities: %w", err)
	}
	defer rows.Close()

	var absences []model.Unavailability
	for rows.Next() {
		var u model.Unavailability
		var from, to time.Time
		if err := rows.Scan(&u.WorkerID, &from, &to, &u.Scope, &u.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan unavailability: %w", err)
		}
		u.From = from.Format(dateLayout)
		u.To = to.Format(dateLayout)
		absences = append(absences, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unavailabilities: %w", err)
	}
	return absences, nil
}

func (d *DB) getExceptions(ctx context.Context) ([]model.Exception, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT rule_id, original_date, new_date, new_period, new_time,
		       cancelled, participants
		FROM rule_exception
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query exceptions: %w", err)
	}
	defer rows.Close()

	var exceptions []model.Exception
	for rows.Next() {
		var e model.Exception
		var original time.Time
		var newDate *time.Time
		var participants []byte
		if err := rows.Scan(&e.RuleID, &original, &newDate, &e.NewPeriod,
			&e.NewTime, &e.Cancelled, &participants); err != nil {
			return nil, fmt.Errorf("failed to scan exception: %w", err)
		}
		e.OriginalDate = original.Format(dateLayout)
		if newDate != nil {
			e.NewDate = newDate.Format(dateLayout)
		}
		// A NULL participant list means "no substitution"; an empty list
		// clears the slot, so the distinction has to survive decoding.
		if participants != nil {
			if err := json.Unmarshal(participants, &e.Participants); err != nil {
				return nil, fmt.Errorf("failed to decode exception participants: %w", err)
			}
		}
		exceptions = append(exceptions, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exceptions: %w", err)
	}
	return exceptions, nil
}

func (d *DB) fillAttendance(ctx context.Context, attendance model.AttendanceMap) error {
	rows, err := d.pool.Query(ctx, `SELECT slot_id, worker_id, status FROM attendance`)
	if err != nil {
		return fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slotID, workerID string
		var status model.AttendanceStatus
		if err := rows.Scan(&slotID, &workerID, &status); err != nil {
			return fmt.Errorf("failed to scan attendance: %w", err)
		}
		if attendance[slotID] == nil {
			attendance[slotID] = map[string]model.AttendanceStatus{}
		}
		attendance[slotID][workerID] = status
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating attendance: %w", err)
	}
	return nil
}

func (d *DB) fillOverrides(ctx context.Context, overrides map[string]model.SlotOverride) error {
	rows, err := d.pool.Query(ctx, `SELECT slot_id, kind, worker_id FROM slot_override`)
	if err != nil {
		return fmt.Errorf("failed to query slot overrides: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o model.SlotOverride
		if err := rows.Scan(&o.SlotID, &o.Kind, &o.WorkerID); err != nil {
			return fmt.Errorf("failed to scan slot override: %w", err)
		}
		overrides[o.SlotID] = o
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating slot overrides: %w", err)
	}
	return nil
}

func (d *DB) getCountingStart(ctx context.Context) (string, error) {
	var value string
	err := d.pool.QueryRow(ctx, `
		SELECT COALESCE(
			(SELECT value FROM engine_state WHERE key = 'counting_start'), ''
		)
	`).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("failed to query counting start: %w", err)
	}
	return value, nil
}
