/*
Package factory converts JSON employment configs to engine types.

PURPOSE:
  Employment configs live in the database and the admin UI as JSON; the
  engine works on the EmploymentConfig tagged union. This package owns the
  mapping in both directions, so HR can change an employee's contract
  without code changes.

JSON SCHEMA:
  {
    "kind": "fixed_schedule",            // hourly | percentage | fixed_schedule
    "effective_from": "2024-01-01",
    "epoch_monday": "2024-01-01",
    "weeks": [
      [8.5, 8.5, 8.5, 8.5, 8.5, 0, 0],   // Monday-first hours, one row per cycle week
      [9, 9, 9, 9, 0, 0, 0]
    ]
  }

  {
    "kind": "percentage",
    "work_percentage": 80,
    "expected_work_days": 4
  }

DEFAULTS:
  Parsing is strict about structure (it returns errors - this is the
  boundary, not the engine) but lenient about content: an unknown kind
  falls back to fixed_schedule with an empty cycle, which the engine
  resolves to the flat default. Negative hours pass through unchanged; the
  resolver treats them as invalid slots.

SEE ALSO:
  - engine/config.go:  The target union type
  - store/sqlite:      Persists the JSON form
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/stechuhr/timecore/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ConfigJSON is the stored representation of an employment config.
type ConfigJSON struct {
	Kind string `json:"kind"`

	// Percentage variant
	WorkPercentage   *float64 `json:"work_percentage,omitempty"`
	ExpectedWorkDays *int     `json:"expected_work_days,omitempty"`

	// FixedSchedule variant
	EffectiveFrom string      `json:"effective_from,omitempty"`
	EpochMonday   string      `json:"epoch_monday,omitempty"`
	Weeks         [][]float64 `json:"weeks,omitempty"`
}

// =============================================================================
// PARSE - JSON -> engine.EmploymentConfig
// =============================================================================

// ParseConfig converts a stored JSON config into the engine union.
func ParseConfig(raw string) (engine.EmploymentConfig, error) {
	var cj ConfigJSON
	if err := json.Unmarshal([]byte(raw), &cj); err != nil {
		return engine.EmploymentConfig{}, fmt.Errorf("invalid config json: %w", err)
	}
	return FromJSON(cj)
}

// FromJSON converts the decoded schema into the engine union.
func FromJSON(cj ConfigJSON) (engine.EmploymentConfig, error) {
	switch engine.EmploymentKind(cj.Kind) {
	case engine.KindHourly:
		return engine.EmploymentConfig{Kind: engine.KindHourly}, nil

	case engine.KindPercentage:
		cfg := engine.EmploymentConfig{Kind: engine.KindPercentage}
		if cj.WorkPercentage != nil {
			cfg.WorkPercentage = decimal.NewFromFloat(*cj.WorkPercentage)
		}
		if cj.ExpectedWorkDays != nil {
			cfg.ExpectedWorkDays = *cj.ExpectedWorkDays
		}
		return cfg, nil

	case engine.KindFixedSchedule, engine.EmploymentKind(""):
		// Missing kind defaults to a fixed schedule; an empty cycle resolves
		// to the flat default inside the engine.
		cfg := engine.EmploymentConfig{Kind: engine.KindFixedSchedule}
		if cj.EffectiveFrom != "" {
			d, err := engine.ParseDay(cj.EffectiveFrom)
			if err != nil {
				return engine.EmploymentConfig{}, fmt.Errorf("effective_from: %w", err)
			}
			cfg.EffectiveFrom = d
		}
		if cj.EpochMonday != "" {
			d, err := engine.ParseDay(cj.EpochMonday)
			if err != nil {
				return engine.EmploymentConfig{}, fmt.Errorf("epoch_monday: %w", err)
			}
			cfg.EpochMonday = d.MondayOf()
		}
		for i, week := range cj.Weeks {
			if len(week) != 7 {
				return engine.EmploymentConfig{}, fmt.Errorf("weeks[%d]: expected 7 weekday values, got %d", i, len(week))
			}
			var tpl engine.WeekTemplate
			for j, hours := range week {
				tpl.Hours[j] = decimal.NewFromFloat(hours)
			}
			cfg.Cycle.Weeks = append(cfg.Cycle.Weeks, tpl)
		}
		return cfg, nil

	default:
		return engine.EmploymentConfig{}, fmt.Errorf("unknown employment kind %q", cj.Kind)
	}
}

// =============================================================================
// ENCODE - engine.EmploymentConfig -> JSON
// =============================================================================

// EncodeConfig serializes a config for storage.
func EncodeConfig(cfg engine.EmploymentConfig) (string, error) {
	cj := ToJSON(cfg)
	raw, err := json.Marshal(cj)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ToJSON converts the engine union into the storage schema.
func ToJSON(cfg engine.EmploymentConfig) ConfigJSON {
	cj := ConfigJSON{Kind: string(cfg.Kind)}

	switch cfg.Kind {
	case engine.KindPercentage:
		pct, _ := cfg.WorkPercentage.Float64()
		days := cfg.ExpectedWorkDays
		cj.WorkPercentage = &pct
		cj.ExpectedWorkDays = &days

	case engine.KindFixedSchedule:
		if !cfg.EffectiveFrom.IsZero() {
			cj.EffectiveFrom = cfg.EffectiveFrom.String()
		}
		if !cfg.EpochMonday.IsZero() {
			cj.EpochMonday = cfg.EpochMonday.String()
		}
		for _, tpl := range cfg.Cycle.Weeks {
			week := make([]float64, 7)
			for i, h := range tpl.Hours {
				week[i], _ = h.Float64()
			}
			cj.Weeks = append(cj.Weeks, week)
		}
	}

	return cj
}
