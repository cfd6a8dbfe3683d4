package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		DatabaseURL:       "postgres://planner@localhost:5432/planning",
		CountingStartDate: "2024-09-02",
		ClosureRules: []ClosureRule{
			{RRule: "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=26", Label: "lendemain de Noël"},
		},
		Replacement: ReplacementThresholds{LowLoad: 2, HighLoad: 5},
	}

	err := Validate(cfg)
	assert.NoError(t, err)
}

func TestValidate_EmptyConfig(t *testing.T) {
	// Everything is optional; an empty config runs with defaults.
	err := Validate(&Config{})
	assert.NoError(t, err)
}

func TestValidate_BadCountingStartDate(t *testing.T) {
	cfg := &Config{CountingStartDate: "02/09/2024"}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_InvalidRRule(t *testing.T) {
	cfg := &Config{
		ClosureRules: []ClosureRule{{RRule: "INVALID_RRULE_SYNTAX"}},
	}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule")
}

func TestValidate_EmptyRRule(t *testing.T) {
	cfg := &Config{
		ClosureRules: []ClosureRule{{Label: "no rule"}},
	}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestClosedDatesInWeek(t *testing.T) {
	cfg := &Config{
		ClosureRules: []ClosureRule{
			{RRule: "FREQ=WEEKLY;BYDAY=WE;DTSTART=20240101T000000Z"},
		},
	}

	weekStart := time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC)
	dates, err := cfg.ClosedDatesInWeek(weekStart)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-09-04"}, dates)
}

func TestClosedDatesInWeek_NoRules(t *testing.T) {
	dates, err := (&Config{}).ClosedDatesInWeek(time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestClosedDatesInWeek_Deduplicates(t *testing.T) {
	cfg := &Config{
		ClosureRules: []ClosureRule{
			{RRule: "FREQ=WEEKLY;BYDAY=WE;DTSTART=20240101T000000Z"},
			{RRule: "FREQ=YEARLY;BYMONTH=9;BYMONTHDAY=4;DTSTART=20240101T000000Z"},
		},
	}

	weekStart := time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC)
	dates, err := cfg.ClosedDatesInWeek(weekStart)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-09-04"}, dates)
}

func TestLoadFromPath_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.yaml")

	validConfig := `
databaseURL: "postgres://planner@localhost:5432/planning"
countingStartDate: "2024-09-02"
closureRules:
  - rrule: "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=26"
    label: "lendemain de Noël"
replacement:
  lowLoad: 2
  highLoad: 5
`

	err := os.WriteFile(configPath, []byte(validConfig), 0644)
	require.NoError(t, err)

	cfg, err := LoadFromPath(configPath)
	require.NoError(t, err)

	assert.Equal(t, "postgres://planner@localhost:5432/planning", cfg.DatabaseURL)
	assert.Equal(t, "2024-09-02", cfg.CountingStartDate)
	require.Len(t, cfg.ClosureRules, 1)
	assert.Equal(t, "lendemain de Noël", cfg.ClosureRules[0].Label)
	assert.Equal(t, 2.0, cfg.Replacement.LowLoad)
	assert.Equal(t, 5.0, cfg.Replacement.HighLoad)
}

func TestLoadFromPath_InvalidRRule(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_rrule.yaml")

	invalidConfig := `
closureRules:
  - rrule: "INVALID_RRULE_SYNTAX"
`

	err := os.WriteFile(configPath, []byte(invalidConfig), 0644)
	require.NoError(t, err)

	_, err = LoadFromPath(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule")
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_yaml.yaml")

	invalidYAML := `
databaseURL: "postgres://planner@localhost"
  invalid indentation
countingStartDate: "2024-09-02"
`

	err := os.WriteFile(configPath, []byte(invalidYAML), 0644)
	require.NoError(t, err)

	_, err = LoadFromPath(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
