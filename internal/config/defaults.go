package config

import "github.com/spf13/viper"

// applyDefaults seeds viper with the fallback values used when neither the
// base layer nor any overlay sets a key. These mirror spec.md §6's default
// thresholds so a freshly checked-out config directory with only a minimal
// base.yaml still produces a runnable Config.
func applyDefaults(v *viper.Viper) {
	// Status and grade bounds are spec.md §4.5's fixed thresholds,
	// expressed as a configurable table so an operator can retune them
	// per restaurant without a code change, while the shipped default
	// reproduces the spec exactly.
	v.SetDefault("thresholds.labor.status", []map[string]any{
		{"bound": 20.0, "label": "EXCELLENT"},
		{"bound": 25.0, "label": "GOOD"},
		{"bound": 30.0, "label": "WARNING"},
		{"bound": 35.0, "label": "CRITICAL"},
		{"bound": 40.0, "label": "SEVERE"},
	})
	v.SetDefault("thresholds.labor.grade", []map[string]any{
		{"bound": 18.0, "label": "A+"},
		{"bound": 20.0, "label": "A"},
		{"bound": 23.0, "label": "B+"},
		{"bound": 25.0, "label": "B"},
		{"bound": 28.0, "label": "C+"},
		{"bound": 30.0, "label": "C"},
		{"bound": 33.0, "label": "D+"},
		{"bound": 35.0, "label": "D"},
		{"bound": 1e9, "label": "F"},
	})
	v.SetDefault("pattern_learning.learning_rates.early_observations", 0.3)
	v.SetDefault("pattern_learning.learning_rates.mature_observations", 0.2)
	v.SetDefault("pattern_learning.reliability_thresholds.min_confidence", 0.6)
	v.SetDefault("pattern_learning.reliability_thresholds.min_observations", 4)

	v.SetDefault("shifts.cutoff_hour", 14)
	v.SetDefault("shifts.manager_job_keywords", []string{"manager"})

	v.SetDefault("overtime.weekly_threshold_hours", 40.0)
	v.SetDefault("overtime.multiplier", 1.5)

	v.SetDefault("auto_clockout.default_hourly_rate", 15.0)
	v.SetDefault("auto_clockout.shift_schedules", map[string]any{})
	v.SetDefault("auto_clockout.boh_job_keywords", []string{"cook", "kitchen", "chef", "dish", "prep"})
	v.SetDefault("auto_clockout.excluded_job_keywords", []string{"cashier", "system"})

	v.SetDefault("orchestrator.max_workers", 1)

	v.SetDefault("cash_flow.vendor_payouts_as_cogs", true)
}
