/*
Package engine implements the time-accounting reconciliation core.

PURPOSE:
  Given an employee's contractual work model and a set of calendar
  exceptions (holidays, vacation, sick leave), the engine computes how many
  minutes the employee was expected to work on a day or week, reconciles
  that against actually worked minutes, and derives the overtime/undertime
  delta plus per-day issue flags.

KEY CONCEPTS IN THIS FILE (config.go):
  - EmploymentConfig: Tagged union over the three contract variants
  - WeekTemplate: Weekday -> expected hours mapping (Monday first)
  - ScheduleCycle: Repeating sequence of week templates

DESIGN PRINCIPLES:
  1. Purity: Every calculation is a function of its inputs; no I/O, no
     module-level state.
  2. Precision: Fractional hours are decimal.Decimal; results are integer
     minutes, rounded once at the end.
  3. Exhaustiveness: Every calculator switches over EmploymentKind; an
     unknown kind degrades to the flat default schedule instead of
     guessing from optional fields.
  4. No errors: Malformed input (zero dates, empty cycles, inverted
     ranges, negative hours) degrades to a conservative numeric default.
     Callers always get a number they can render.

SEE ALSO:
  - schedule.go: Cycle resolution for FixedSchedule employees
  - expected.go: Per-day expected minutes
  - absence.go:  Holiday/vacation/sick-leave overlay
  - week.go:     Weekly aggregation and the tracking-balance delta
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// EMPLOYMENT CONFIG - Tagged union over the three contract variants
// =============================================================================

type EmploymentKind string

const (
	// KindHourly employees are paid per recorded hour and have no daily
	// target. Expected minutes are always zero.
	KindHourly EmploymentKind = "hourly"

	// KindPercentage employees owe a weekly quota: a percentage of full-time
	// spread over a number of expected work days. They have no named working
	// days.
	KindPercentage EmploymentKind = "percentage"

	// KindFixedSchedule employees follow a cyclical weekly schedule with
	// explicit hours per weekday.
	KindFixedSchedule EmploymentKind = "fixed_schedule"
)

// EmploymentConfig describes one employee's contract at evaluation time.
// Exactly one variant is active; only the fields for the active Kind are
// meaningful.
type EmploymentConfig struct {
	Kind EmploymentKind

	// Percentage variant
	WorkPercentage   decimal.Decimal // e.g. 80 for an 80% contract
	ExpectedWorkDays int             // work days per week, usually 1..7

	// WorkDayCycle optionally records which weekdays a percentage employee
	// nominally works. It is informational: the target math is driven by the
	// weekly quota, never by named days.
	WorkDayCycle []WeekTemplate

	// FixedSchedule variant
	Cycle         ScheduleCycle
	EpochMonday   Day // reference Monday anchoring the cycle index
	EffectiveFrom Day // expected minutes are 0 before this date
}

// =============================================================================
// WEEK TEMPLATE - Expected hours per weekday, Monday first
// =============================================================================

// WeekTemplate maps the seven weekdays to expected hours. Index 0 is Monday.
// Hours may be fractional (8.5). A negative value marks the slot as invalid
// and triggers the flat-default fallback during resolution.
type WeekTemplate struct {
	Hours [7]decimal.Decimal
}

// HoursOn returns the expected hours for the given weekday.
func (w WeekTemplate) HoursOn(d Day) decimal.Decimal {
	return w.Hours[weekdayIndex(d.Weekday())]
}

// FlatWeekTemplate is the fallback schedule: dailyHours Monday through
// Friday, zero on weekends.
func FlatWeekTemplate(dailyHours decimal.Decimal) WeekTemplate {
	var w WeekTemplate
	for i := 0; i < 5; i++ {
		w.Hours[i] = dailyHours
	}
	return w
}

// =============================================================================
// SCHEDULE CYCLE - Repeating sequence of week templates
// =============================================================================

// ScheduleCycle is an ordered sequence of WeekTemplates indexed by whole
// weeks elapsed since a reference Monday, modulo the cycle length. An
// alternating "heavy week"/"light week" contract is a cycle of length two.
type ScheduleCycle struct {
	Weeks []WeekTemplate
}

func (c ScheduleCycle) Len() int { return len(c.Weeks) }
