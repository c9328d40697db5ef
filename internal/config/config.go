// Package config loads the hierarchical configuration tree described in
// spec.md §6: a base layer, overlaid by an environment layer, overlaid by a
// per-restaurant layer. Layering is done with spf13/viper's MergeInConfig
// (grounded in services/admin-cli's viper-based loader); secrets that must
// never live in a committed YAML file (database DSN, Redis URL, S3 creds)
// are applied afterward via kelseyhightower/envconfig, matching
// services/analytics-service's envconfig-validated Config.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// Bound is one entry of a threshold table: values <= Bound map to Label.
// The table is walked in order, so it must be sorted ascending by Bound.
type Bound struct {
	Bound float64 `mapstructure:"bound"`
	Label string  `mapstructure:"label"`
}

// LearningRates controls the EMA pattern learner's adaptation speed.
type LearningRates struct {
	EarlyObservations float64 `mapstructure:"early_observations"`
	MatureObservations float64 `mapstructure:"mature_observations"`
}

// ReliabilityThresholds controls when a learned pattern is trusted.
type ReliabilityThresholds struct {
	MinConfidence   float64 `mapstructure:"min_confidence"`
	MinObservations int     `mapstructure:"min_observations"`
}

// ShiftSchedule is the expected end-of-shift time for one role on one kind
// of day, expressed as "HH:MM" local time.
type ShiftSchedule struct {
	Weekday string `mapstructure:"weekday"`
	Sunday  string `mapstructure:"sunday"`
}

// AutoClockout holds auto-clockout correction parameters.
type AutoClockout struct {
	DefaultHourlyRate float64                              `mapstructure:"default_hourly_rate"`
	ShiftSchedules    map[string]map[string]ShiftSchedule   `mapstructure:"shift_schedules"` // restaurant -> role(FOH/BOH) -> schedule
	BOHJobKeywords    []string                             `mapstructure:"boh_job_keywords"`
	ExcludedJobKeywords []string                           `mapstructure:"excluded_job_keywords"`
}

// Overtime holds weekly overtime computation parameters.
type Overtime struct {
	WeeklyThresholdHours float64 `mapstructure:"weekly_threshold_hours"`
	Multiplier           float64 `mapstructure:"multiplier"`
}

// Shifts holds the morning/evening split parameters.
type Shifts struct {
	CutoffHour         int      `mapstructure:"cutoff_hour"`
	ManagerJobKeywords []string `mapstructure:"manager_job_keywords"`
}

// Thresholds holds the labor status/grade boundary tables.
type Thresholds struct {
	Labor struct {
		Status []Bound `mapstructure:"status"`
		Grade  []Bound `mapstructure:"grade"`
	} `mapstructure:"labor"`
}

// PatternLearning groups the two pattern-learning knobs.
type PatternLearning struct {
	LearningRates         LearningRates         `mapstructure:"learning_rates"`
	ReliabilityThresholds ReliabilityThresholds `mapstructure:"reliability_thresholds"`
}

// Orchestrator holds batch-level concurrency parameters.
type Orchestrator struct {
	MaxWorkers int `mapstructure:"max_workers"`
}

// CashFlow carries the §9 Open-Question-5 COGS toggle.
type CashFlow struct {
	// VendorPayoutsAsCOGS, when true (the default), treats the sum of
	// PAY_OUT magnitudes as COGS for net_profit in daily_operations.
	VendorPayoutsAsCOGS bool `mapstructure:"vendor_payouts_as_cogs"`
}

// Config is the merged, validated configuration tree.
type Config struct {
	Thresholds      Thresholds      `mapstructure:"thresholds"`
	PatternLearning PatternLearning `mapstructure:"pattern_learning"`
	Shifts          Shifts          `mapstructure:"shifts"`
	Overtime        Overtime        `mapstructure:"overtime"`
	AutoClockout    AutoClockout    `mapstructure:"auto_clockout"`
	Orchestrator    Orchestrator    `mapstructure:"orchestrator"`
	CashFlow        CashFlow        `mapstructure:"cash_flow"`

	Secrets Secrets `mapstructure:"-"`
}

// Secrets holds connection-string style configuration that must come from
// the environment, never from a checked-in YAML layer.
type Secrets struct {
	DatabaseURL string `envconfig:"DATABASE_URL"`
	RedisURL    string `envconfig:"REDIS_URL"`
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"restaurantops-artifacts"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
}

// Load merges base.yaml, <environment>.yaml, and <restaurant>.yaml (each
// optional except base) from dir, in that order, then applies envconfig
// secret overrides. environment and restaurant may be empty to skip that
// overlay.
func Load(dir, environment, restaurant string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	applyDefaults(v)

	basePath := filepath.Join(dir, "base.yaml")
	v.SetConfigFile(basePath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read base config %s: %w", basePath, err)
	}

	for _, layer := range []string{environment, restaurant} {
		if layer == "" {
			continue
		}
		path := filepath.Join(dir, layer+".yaml")
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			if !isNotFound(err) {
				return nil, fmt.Errorf("merge config layer %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	var secrets Secrets
	if err := envconfig.Process("", &secrets); err != nil {
		return nil, fmt.Errorf("process secret env vars: %w", err)
	}
	cfg.Secrets = secrets

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func isNotFound(err error) bool {
	_, ok := err.(viper.ConfigFileNotFoundError)
	return ok
}

// Validate checks invariants that downstream stages rely on without
// re-checking.
func (c *Config) Validate() error {
	if c.Orchestrator.MaxWorkers <= 0 {
		return fmt.Errorf("orchestrator.max_workers must be positive, got %d", c.Orchestrator.MaxWorkers)
	}
	if c.Shifts.CutoffHour < 0 || c.Shifts.CutoffHour > 23 {
		return fmt.Errorf("shifts.cutoff_hour must be in [0,23], got %d", c.Shifts.CutoffHour)
	}
	if c.PatternLearning.ReliabilityThresholds.MinConfidence < 0 || c.PatternLearning.ReliabilityThresholds.MinConfidence > 1 {
		return fmt.Errorf("pattern_learning.reliability_thresholds.min_confidence must be in [0,1]")
	}
	if c.Overtime.WeeklyThresholdHours <= 0 {
		return fmt.Errorf("overtime.weekly_threshold_hours must be positive")
	}
	return nil
}

// StatusFor walks the labor status table and returns the first label whose
// bound is >= pct (tables are sorted ascending), or the last label if pct
// exceeds every bound.
func (t Thresholds) StatusFor(pct float64) string {
	return lookupBound(t.Labor.Status, pct)
}

// GradeFor walks the labor grade table the same way.
func (t Thresholds) GradeFor(pct float64) string {
	return lookupBound(t.Labor.Grade, pct)
}

func lookupBound(bounds []Bound, value float64) string {
	for _, b := range bounds {
		if value <= b.Bound {
			return b.Label
		}
	}
	if len(bounds) == 0 {
		return ""
	}
	return bounds[len(bounds)-1].Label
}
