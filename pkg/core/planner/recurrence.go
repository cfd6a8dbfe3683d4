package planner

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/planimed/planning-engine/pkg/core/calendar"
	"github.com/planimed/planning-engine/pkg/core/model"
)

// standardDate computes the rule's default occurrence date in the week
// starting at weekStart (a Monday).
func standardDate(weekStart time.Time, day time.Weekday) time.Time {
	return weekStart.AddDate(0, 0, calendar.DayOffset(day))
}

// ruleFires decides whether a recurring rule has an occurrence in the
// target week. Meeting rules linked to an RCP definition take the
// definition's recurrence policy; plain rules use their own frequency tag.
// MANUAL never fires here: manual instances are injected separately.
func ruleFires(rule model.RecurrenceRule, def *model.RcpDefinition, weekStart time.Time) bool {
	freq := rule.Frequency
	parity := rule.Parity
	ordinal := 0
	if def != nil {
		freq = def.Frequency
		parity = def.Parity
		ordinal = def.Ordinal
	}

	switch freq {
	case model.FreqBiweekly:
		return parityMatches(parity, calendar.ISOWeek(weekStart))
	case model.FreqMonthly:
		if ordinal == 0 {
			ordinal = 1
		}
		return calendar.OrdinalWeekdayInMonth(standardDate(weekStart, rule.Day)) == ordinal
	case model.FreqManual:
		return false
	default:
		// WEEKLY and untagged rules fire every week.
		return true
	}
}

// parityMatches checks biweekly parity; an unset parity defaults to odd.
func parityMatches(p model.Parity, isoWeek int) bool {
	if p == model.ParityEven {
		return isoWeek%2 == 0
	}
	return isoWeek%2 == 1
}

// periodFromTime derives the half-day period from a clock time: anything
// before 13:00 is morning.
func periodFromTime(hhmm string) model.Period {
	sep := strings.IndexByte(hhmm, ':')
	if sep <= 0 {
		return model.PeriodMorning
	}
	hour, err := strconv.Atoi(hhmm[:sep])
	if err != nil {
		return model.PeriodMorning
	}
	if hour >= 13 {
		return model.PeriodAfternoon
	}
	return model.PeriodMorning
}

// templateSlotID builds the deterministic ID of a rule occurrence. The ID
// is keyed by the rule's standard date even when an exception moves the
// occurrence, so attendance and override lookups survive the move.
func templateSlotID(ruleID, date string) string {
	return ruleID + "_" + date
}

// activitySlotID builds the deterministic ID of an activity half-day slot.
func activitySlotID(activityID, date string, period model.Period) string {
	return activityID + "_" + date + "_" + strings.ToLower(string(period))
}

// manualOccurrence pairs an injected MANUAL slot with its planned
// participant list, which still has to go through attendance resolution.
type manualOccurrence struct {
	slot    model.ScheduleSlot
	planned []string
}

// manualOccurrences converts the MANUAL instances of an RCP definition
// falling inside the target week into meeting slots. An instance without
// a date or time would produce a non-reproducible ID, so it fails fast.
func manualOccurrences(def model.RcpDefinition, weekStart time.Time) ([]manualOccurrence, error) {
	weekEnd := weekStart.AddDate(0, 0, 6)
	var occurrences []manualOccurrence

	for _, inst := range def.Instances {
		if inst.Date == "" || inst.Time == "" {
			return nil, fmt.Errorf("manual instance %q of RCP %q is missing a date or time", inst.ID, def.ID)
		}
		date, err := calendar.ParseDate(inst.Date)
		if err != nil {
			return nil, fmt.Errorf("manual instance %q of RCP %q: %w", inst.ID, def.ID, err)
		}
		if date.Before(weekStart) || date.After(weekEnd) {
			continue
		}

		occurrences = append(occurrences, manualOccurrence{
			slot: model.ScheduleSlot{
				ID:       inst.ID,
				Date:     inst.Date,
				Day:      date.Weekday(),
				Period:   periodFromTime(inst.Time),
				Time:     inst.Time,
				Location: def.Name,
				Type:     model.SlotMeeting,
				BackupID: inst.Backup,
			},
			planned: inst.Participants,
		})
	}
	return occurrences, nil
}

func firstOf(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

func restOf(ids []string) []string {
	if len(ids) <= 1 {
		return nil
	}
	out := make([]string, len(ids)-1)
	copy(out, ids[1:])
	return out
}
