// Package calendar provides the date arithmetic the planning engine is
// built on: Monday-based week normalization, ISO week numbers, ordinal
// weekday positions and the French public holiday calendar.
package calendar

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate parses an ISO "2006-01-02" date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a time as an ISO "2006-01-02" date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DayOffset returns the day's offset from Monday (Monday=0 .. Sunday=6).
func DayOffset(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// WeekStart normalizes any date to the Monday of its week. Sunday maps to
// the previous Monday, not the next one.
func WeekStart(t time.Time) time.Time {
	normalized := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return normalized.AddDate(0, 0, -DayOffset(normalized.Weekday()))
}

// ISOWeek returns the standard ISO 8601 week number. The engine only uses
// it for biweekly parity decisions (week % 2).
func ISOWeek(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// OrdinalWeekdayInMonth returns which occurrence of its weekday the date
// is within the month: 1 for the first, 2 for the second, and so on.
func OrdinalWeekdayInMonth(t time.Time) int {
	return (t.Day()-1)/7 + 1
}

// EasterSunday computes Easter for a Gregorian year using the anonymous
// Gregorian (Meeus/Jones/Butcher) algorithm. Exact for any year.
func EasterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

type fixedHoliday struct {
	month time.Month
	day   int
	name  string
}

var fixedHolidays = []fixedHoliday{
	{time.January, 1, "Jour de l'an"},
	{time.May, 1, "Fête du Travail"},
	{time.May, 8, "Victoire 1945"},
	{time.July, 14, "Fête nationale"},
	{time.August, 15, "Assomption"},
	{time.November, 1, "Toussaint"},
	{time.November, 11, "Armistice 1918"},
	{time.December, 25, "Noël"},
}

// PublicHoliday reports whether the date is a French public holiday and
// returns its name. Movable feasts are derived from Easter rather than
// looked up in a table.
func PublicHoliday(date string) (string, bool) {
	t, err := ParseDate(date)
	if err != nil {
		return "", false
	}
	for _, h := range fixedHolidays {
		if t.Month() == h.month && t.Day() == h.day {
			return h.name, true
		}
	}
	easter := EasterSunday(t.Year())
	switch {
	case sameDay(t, easter):
		return "Pâques", true
	case sameDay(t, easter.AddDate(0, 0, 1)):
		return "Lundi de Pâques", true
	case sameDay(t, easter.AddDate(0, 0, 39)):
		return "Ascension", true
	case sameDay(t, easter.AddDate(0, 0, 50)):
		return "Lundi de Pentecôte", true
	}
	return "", false
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
