package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestWeekStart_MidWeek(t *testing.T) {
	// Thursday 2024-03-14 normalizes to Monday 2024-03-11
	start := WeekStart(mustParse(t, "2024-03-14"))
	assert.Equal(t, "2024-03-11", FormatDate(start))
}

func TestWeekStart_Monday(t *testing.T) {
	start := WeekStart(mustParse(t, "2024-03-11"))
	assert.Equal(t, "2024-03-11", FormatDate(start))
}

func TestWeekStart_SundayMapsToPreviousMonday(t *testing.T) {
	// Sunday 2024-03-17 belongs to the week starting Monday 2024-03-11
	start := WeekStart(mustParse(t, "2024-03-17"))
	assert.Equal(t, "2024-03-11", FormatDate(start))
}

func TestISOWeek(t *testing.T) {
	// 2024-01-01 is a Monday and ISO week 1
	assert.Equal(t, 1, ISOWeek(mustParse(t, "2024-01-01")))
	assert.Equal(t, 2, ISOWeek(mustParse(t, "2024-01-08")))
	// 2023-01-01 is a Sunday and still belongs to ISO week 52 of 2022
	assert.Equal(t, 52, ISOWeek(mustParse(t, "2023-01-01")))
}

func TestOrdinalWeekdayInMonth(t *testing.T) {
	assert.Equal(t, 1, OrdinalWeekdayInMonth(mustParse(t, "2024-03-04"))) // first Monday
	assert.Equal(t, 2, OrdinalWeekdayInMonth(mustParse(t, "2024-03-11")))
	assert.Equal(t, 4, OrdinalWeekdayInMonth(mustParse(t, "2024-03-25")))
	assert.Equal(t, 1, OrdinalWeekdayInMonth(mustParse(t, "2024-03-01")))
	assert.Equal(t, 5, OrdinalWeekdayInMonth(mustParse(t, "2024-03-29")))
}

func TestEasterSunday(t *testing.T) {
	// Known Easter dates across cycles
	assert.Equal(t, "2024-03-31", FormatDate(EasterSunday(2024)))
	assert.Equal(t, "2025-04-20", FormatDate(EasterSunday(2025)))
	assert.Equal(t, "2000-04-23", FormatDate(EasterSunday(2000)))
	assert.Equal(t, "1981-04-19", FormatDate(EasterSunday(1981)))
	assert.Equal(t, "2038-04-25", FormatDate(EasterSunday(2038)))
}

func TestPublicHoliday_Fixed(t *testing.T) {
	name, ok := PublicHoliday("2024-01-01")
	require.True(t, ok)
	assert.Equal(t, "Jour de l'an", name)

	name, ok = PublicHoliday("2025-07-14")
	require.True(t, ok)
	assert.Equal(t, "Fête nationale", name)

	_, ok = PublicHoliday("2024-03-14")
	assert.False(t, ok)
}

func TestPublicHoliday_Movable(t *testing.T) {
	// Easter 2024 is March 31
	name, ok := PublicHoliday("2024-04-01")
	require.True(t, ok)
	assert.Equal(t, "Lundi de Pâques", name)

	name, ok = PublicHoliday("2024-05-09")
	require.True(t, ok)
	assert.Equal(t, "Ascension", name)

	name, ok = PublicHoliday("2024-05-20")
	require.True(t, ok)
	assert.Equal(t, "Lundi de Pentecôte", name)

	name, ok = PublicHoliday("2024-03-31")
	require.True(t, ok)
	assert.Equal(t, "Pâques", name)

	_, ok = PublicHoliday("2024-03-30")
	assert.False(t, ok)
}

func TestPublicHoliday_MalformedDate(t *testing.T) {
	_, ok := PublicHoliday("not-a-date")
	assert.False(t, ok)
}
