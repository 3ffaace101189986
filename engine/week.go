/*
week.go - Weekly aggregation and the tracking-balance delta

PURPOSE:
  Sums daily expected/actual minutes into weekly totals and computes the
  signed delta a week contributes to the cumulative tracking balance.

PERCENTAGE WEEKS:
  For percentage employees the weekly expectation is NOT the sum of seven
  daily values. It starts from the full weekly quota and subtracts one
  work-day share per deductible absence day (halved for half days), floored
  at zero. Deducting from the week total avoids compounding per-day
  rounding error and lets the "deduct from weekly target" holiday decision
  apply atomically to the week.

  The per-day formula (flat share, expected.go) and this aggregate are not
  guaranteed to reconcile when deductions fall off day boundaries. The
  aggregate is authoritative for week totals and the balance; the per-day
  value is authoritative for single-day display.

SIGN CONVENTION:
  delta = actual - expected. Positive means the employee is ahead
  (overtime), negative behind. The running balance itself is owned by the
  persistence layer and only moved through TrackingBalance.Apply.

SEE ALSO:
  - expected.go: Daily values and the shared percentage targets
  - absence.go:  Overlay applied day by day for fixed schedules
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// WEEKLY AGGREGATOR
// =============================================================================

// WeeklyExpected computes the expected minutes for the seven days of a week
// (Monday..Sunday) under cfg.
func WeeklyExpected(week [7]Day, cfg EmploymentConfig, defaultDailyHours decimal.Decimal, vacations []Vacation, sickLeaves []SickLeave, holidays []Holiday, options HolidayOptions) int {
	if cfg.Kind == KindPercentage {
		return percentageWeeklyExpected(week, cfg, defaultDailyHours, vacations, sickLeaves, holidays, options)
	}

	total := 0
	for _, day := range week {
		base := ExpectedMinutes(day, cfg, defaultDailyHours)
		total += ApplyAbsences(day, base, cfg, holidays, vacations, sickLeaves, options)
	}
	return total
}

// percentageWeeklyExpected: weekly quota minus one work-day share per
// deductible absence day, floored at 0.
func percentageWeeklyExpected(week [7]Day, cfg EmploymentConfig, defaultDailyHours decimal.Decimal, vacations []Vacation, sickLeaves []SickLeave, holidays []Holiday, options HolidayOptions) int {
	target := percentageWeeklyTarget(cfg, defaultDailyHours)
	share := oneWorkDayShare(target, cfg)

	for _, day := range week {
		if IsHoliday(holidays, day) {
			// Holiday wins over vacation/sick on the same day; only an
			// explicit deduct decision reduces the quota.
			if options.For(day) == OptionDeduct {
				target -= share
			}
			continue
		}

		// Vacation and sick leave only deduct on potential work days.
		if day.IsWeekend() && workDaysOrDefault(cfg) <= 5 {
			continue
		}

		if v, ok := approvedVacationOn(vacations, day); ok {
			target -= shareFor(share, v.HalfDay)
			continue
		}
		if s, ok := sickLeaveOn(sickLeaves, day); ok {
			target -= shareFor(share, s.HalfDay)
		}
	}

	if target < 0 {
		return 0
	}
	return target
}

func shareFor(share int, halfDay bool) int {
	if halfDay {
		return halfRounded(share)
	}
	return share
}

// WeeklyActual sums worked minutes across the week's summaries. Days without
// a summary simply contribute nothing.
func WeeklyActual(summaries []DailySummary) int {
	total := 0
	for _, s := range summaries {
		total += s.WorkedMinutes
	}
	return total
}

// =============================================================================
// BALANCE ACCUMULATOR
// =============================================================================

// TrackingBalance is the cumulative signed overtime/undertime in minutes.
type TrackingBalance int

// Apply folds one period's delta into the balance.
func (b TrackingBalance) Apply(delta int) TrackingBalance {
	return b + TrackingBalance(delta)
}

// Delta is the signed contribution of a period: actual - expected.
func Delta(actualMinutes, expectedMinutes int) int {
	return actualMinutes - expectedMinutes
}

// WeeklyDelta is the convenience composition used by callers that track the
// balance week by week.
func WeeklyDelta(week [7]Day, cfg EmploymentConfig, defaultDailyHours decimal.Decimal, summaries []DailySummary, vacations []Vacation, sickLeaves []SickLeave, holidays []Holiday, options HolidayOptions) int {
	expected := WeeklyExpected(week, cfg, defaultDailyHours, vacations, sickLeaves, holidays, options)
	return Delta(WeeklyActual(summaries), expected)
}
