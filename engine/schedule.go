/*
schedule.go - Cycle resolution for FixedSchedule employees

PURPOSE:
  Resolves which WeekTemplate of a cyclical schedule applies to a calendar
  date. The cycle index is the number of whole weeks between the date's
  Monday and a fixed reference Monday, modulo the cycle length.

NEGATIVE OFFSETS:
  Dates before the epoch produce a negative week count. Go's % operator
  keeps the sign of the dividend, so the index is normalized with
  ((w % n) + n) % n to stay in [0, n).

FALLBACK:
  An empty cycle, or a template slot holding a negative (invalid) hour
  value for the requested weekday, degrades to the flat default schedule:
  the caller-supplied daily hours Monday-Friday, zero on weekends. No
  error is ever returned.

SEE ALSO:
  - config.go:   WeekTemplate and ScheduleCycle types
  - expected.go: Consumes the resolved template
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// SCHEDULE RESOLVER
// =============================================================================

// ResolveWeekTemplate returns the WeekTemplate that applies to date under the
// given cycle. Malformed input degrades to FlatWeekTemplate(defaultDailyHours).
func ResolveWeekTemplate(date Day, cycle ScheduleCycle, epochMonday Day, defaultDailyHours decimal.Decimal) WeekTemplate {
	if cycle.Len() == 0 || date.IsZero() {
		return FlatWeekTemplate(defaultDailyHours)
	}

	idx := cycleIndex(date, epochMonday, cycle.Len())
	template := cycle.Weeks[idx]

	// A negative hour value in the resolved slot marks the template as
	// malformed for this weekday.
	if template.HoursOn(date).IsNegative() {
		return FlatWeekTemplate(defaultDailyHours)
	}
	return template
}

// cycleIndex computes the non-negative cycle slot for a date.
func cycleIndex(date Day, epochMonday Day, cycleLen int) int {
	weeks := date.WeeksSince(epochMonday)
	return ((weeks % cycleLen) + cycleLen) % cycleLen
}
