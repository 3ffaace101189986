/*
expected.go - Per-day expected work minutes

PURPOSE:
  Computes the expected work minutes for one calendar day under one
  employment config, before any absence is considered. Absence handling
  (holidays, vacation, sick leave) is layered on top by absence.go.

VARIANT RULES:
  Hourly:        always 0 - hourly employees have no target.
  FixedSchedule: hours from the resolved WeekTemplate * 60, rounded;
                 0 before the config's effective date.
  Percentage:    a flat daily share of the weekly quota:
                 round(defaultDailyHours * 5 * 60 * pct/100 / workDays).
                 Weekends are 0 unless the contract expects more than five
                 work days per week.

DEFAULTS:
  A zero Day, an unknown Kind, or a non-positive work-day count all degrade
  to conservative defaults rather than erroring (see config.go header).

SEE ALSO:
  - absence.go: ApplyAbsences layered on this result
  - week.go:    Weekly aggregation (percentage weeks are NOT a sum of days)
*/
package engine

import "github.com/shopspring/decimal"

var (
	sixty        = decimal.NewFromInt(60)
	oneHundred   = decimal.NewFromInt(100)
	weekMinutes5 = decimal.NewFromInt(5 * 60) // five default days, in hours*60
)

// =============================================================================
// EXPECTED MINUTES CALCULATOR
// =============================================================================

// ExpectedMinutes returns the expected work minutes for date under cfg.
// The result is a non-negative integer; it never errors.
func ExpectedMinutes(date Day, cfg EmploymentConfig, defaultDailyHours decimal.Decimal) int {
	if date.IsZero() {
		// No valid date: hourly stays 0, everything else falls back to one
		// default day since the weekday is unknowable.
		if cfg.Kind == KindHourly {
			return 0
		}
		return roundMinutes(defaultDailyHours.Mul(sixty))
	}

	switch cfg.Kind {
	case KindHourly:
		return 0

	case KindPercentage:
		if date.IsWeekend() && workDaysOrDefault(cfg) <= 5 {
			return 0
		}
		return percentageDailyTarget(cfg, defaultDailyHours)

	case KindFixedSchedule:
		if !cfg.EffectiveFrom.IsZero() && date.Before(cfg.EffectiveFrom) {
			return 0
		}
		template := ResolveWeekTemplate(date, cfg.Cycle, cfg.EpochMonday, defaultDailyHours)
		return roundMinutes(template.HoursOn(date).Mul(sixty))

	default:
		// Missing or unknown config: flat default schedule.
		if date.IsWeekend() {
			return 0
		}
		return roundMinutes(defaultDailyHours.Mul(sixty))
	}
}

// =============================================================================
// PERCENTAGE TARGETS - Shared by the day calculator and the weekly aggregator
// =============================================================================

// percentageWeeklyTarget is the full weekly quota in minutes:
// round(defaultDailyHours * 5 * 60 * workPercentage / 100).
func percentageWeeklyTarget(cfg EmploymentConfig, defaultDailyHours decimal.Decimal) int {
	weekly := defaultDailyHours.Mul(weekMinutes5).Mul(cfg.WorkPercentage).Div(oneHundred)
	return roundMinutes(weekly)
}

// percentageDailyTarget is the flat per-day share of the weekly quota.
func percentageDailyTarget(cfg EmploymentConfig, defaultDailyHours decimal.Decimal) int {
	workDays := workDaysOrDefault(cfg)
	weekly := defaultDailyHours.Mul(weekMinutes5).Mul(cfg.WorkPercentage).Div(oneHundred)
	return roundMinutes(weekly.Div(decimal.NewFromInt(int64(workDays))))
}

// oneWorkDayShare is the weekly-aggregation deduction unit:
// round(weeklyTargetMinutes / expectedWorkDays). It deliberately rounds the
// already-rounded weekly target instead of re-deriving from hours, so the
// week total and its deductions stay consistent.
func oneWorkDayShare(weeklyTarget int, cfg EmploymentConfig) int {
	workDays := workDaysOrDefault(cfg)
	return roundMinutes(decimal.NewFromInt(int64(weeklyTarget)).Div(decimal.NewFromInt(int64(workDays))))
}

func workDaysOrDefault(cfg EmploymentConfig) int {
	if cfg.ExpectedWorkDays <= 0 {
		return 5
	}
	return cfg.ExpectedWorkDays
}

// roundMinutes rounds a decimal minute value half away from zero and clamps
// at zero: expected minutes are never negative.
func roundMinutes(d decimal.Decimal) int {
	n := int(d.Round(0).IntPart())
	if n < 0 {
		return 0
	}
	return n
}
