package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/planimed/planning-engine/pkg/core/calendar"
)

// ClosureRule marks recurring dates on which the whole site is closed and
// no assignment should be made (on top of public holidays, which are
// always skipped).
type ClosureRule struct {
	RRule string `yaml:"rrule" validate:"required"`
	Label string `yaml:"label,omitempty"`
}

// ReplacementThresholds tune the workload bonus/penalty when ranking
// replacement candidates.
type ReplacementThresholds struct {
	LowLoad  float64 `yaml:"lowLoad,omitempty" validate:"omitempty,gt=0"`
	HighLoad float64 `yaml:"highLoad,omitempty" validate:"omitempty,gt=0"`
}

// Config represents the engine configuration
type Config struct {
	// DatabaseURL selects the postgres snapshot store. When empty the CLI
	// falls back to the yaml snapshot given with --snapshot.
	DatabaseURL string `yaml:"databaseURL,omitempty"`

	// CountingStartDate seeds equity replay when the snapshot carries no
	// counting start of its own (ISO date, e.g. 2024-09-02).
	CountingStartDate string `yaml:"countingStartDate,omitempty" validate:"omitempty,datetime=2006-01-02"`

	ClosureRules []ClosureRule         `yaml:"closureRules,omitempty" validate:"dive"`
	Replacement  ReplacementThresholds `yaml:"replacement,omitempty"`

	LogPath string `yaml:"logPath,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from planning_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, rule := range cfg.ClosureRules {
		if _, err := rrule.StrToRRule(rule.RRule); err != nil {
			return fmt.Errorf("invalid rrule in closureRules[%d]: %w", i, err)
		}
	}

	return nil
}

// ClosedDatesInWeek expands the closure rules over the seven days starting
// at weekStart and returns the matching dates in ISO form.
func (c *Config) ClosedDatesInWeek(weekStart time.Time) ([]string, error) {
	if len(c.ClosureRules) == 0 {
		return nil, nil
	}

	from := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, time.UTC)
	until := from.AddDate(0, 0, 6)

	seen := map[string]bool{}
	var dates []string
	for i, rule := range c.ClosureRules {
		r, err := rrule.StrToRRule(rule.RRule)
		if err != nil {
			return nil, fmt.Errorf("invalid rrule in closureRules[%d]: %w", i, err)
		}
		for _, occ := range r.Between(from, until, true) {
			date := calendar.FormatDate(occ)
			if !seen[date] {
				seen[date] = true
				dates = append(dates, date)
			}
		}
	}
	return dates, nil
}

// findConfigFile searches for planning_config.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "planning_config.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
