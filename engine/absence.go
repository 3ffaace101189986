/*
absence.go - Holiday, vacation and sick-leave overlay

PURPOSE:
  Adjusts a day's base expected minutes for calendar exceptions. The checks
  run in a fixed order and the first match wins:

    1. Holiday      (for percentage employees, subject to the per-holiday
                     handling option)
    2. Approved vacation  (full day -> 0, half day -> base/2 rounded)
    3. Sick leave         (same full/half rule)
    4. No absence         -> base unchanged

HOLIDAY OPTIONS:
  Percentage employees have no named working days, so a holiday does not
  obviously reduce their weekly quota. Each (employee, holiday date) pair
  carries a three-state decision: pending (default), deduct from the weekly
  target, or do not deduct. Only an explicit "deduct" turns the holiday
  into a zero-expectation day; pending and "do not deduct" keep the day as
  a potential work day.

MALFORMED RANGES:
  An absence range whose end precedes its start never matches any day.
  Vacation and sick leave are assumed non-overlapping in valid data;
  vacation is checked first and wins if they do overlap.

SEE ALSO:
  - expected.go: Produces the base value this file adjusts
  - problems.go: Reuses the step-1 holiday overlay for work-day detection
*/
package engine

// =============================================================================
// ABSENCE RECORDS
// =============================================================================

type ApprovalState string

const (
	ApprovalPending  ApprovalState = "pending"
	ApprovalApproved ApprovalState = "approved"
	ApprovalDenied   ApprovalState = "denied"
)

// Vacation is a requested vacation range. Only approved vacations reduce
// expected minutes.
type Vacation struct {
	Start   Day
	End     Day
	State   ApprovalState
	HalfDay bool

	// FromOvertime vacations are drawn against the accumulated tracking
	// balance instead of the annual entitlement. The overlay treats them
	// like any other approved vacation; the distinction matters to the
	// entitlement bookkeeping, not to expected minutes.
	FromOvertime bool
}

// SickLeave is a reported sick-leave range. Sick leave needs no approval.
type SickLeave struct {
	Start   Day
	End     Day
	HalfDay bool
}

// Holiday is a public holiday resolved via the employee's company canton.
type Holiday struct {
	Date   Day
	Canton string
	Name   string
}

// =============================================================================
// HOLIDAY HANDLING OPTION - Per percentage-employee, per holiday date
// =============================================================================

type HolidayOption string

const (
	OptionPending     HolidayOption = "pending_decision"
	OptionDeduct      HolidayOption = "deduct_from_weekly_target"
	OptionDoNotDeduct HolidayOption = "do_not_deduct_from_weekly_target"
)

// HolidayOptions maps holiday dates to the employee's handling decision.
// Missing entries read as OptionPending. A nil map is valid.
type HolidayOptions map[Day]HolidayOption

func (o HolidayOptions) For(d Day) HolidayOption {
	if opt, ok := o[d]; ok && opt != "" {
		return opt
	}
	return OptionPending
}

// =============================================================================
// ABSENCE OVERLAY RESOLVER
// =============================================================================

// ApplyAbsences adjusts base expected minutes for the given day. Only one
// absence type applies per day; holiday takes precedence over vacation and
// sick leave.
func ApplyAbsences(date Day, base int, cfg EmploymentConfig, holidays []Holiday, vacations []Vacation, sickLeaves []SickLeave, options HolidayOptions) int {
	if IsHoliday(holidays, date) {
		return holidayAdjusted(base, cfg, date, options)
	}

	if v, ok := approvedVacationOn(vacations, date); ok {
		if v.HalfDay {
			return halfRounded(base)
		}
		return 0
	}

	if s, ok := sickLeaveOn(sickLeaves, date); ok {
		if s.HalfDay {
			return halfRounded(base)
		}
		return 0
	}

	return base
}

// holidayAdjusted applies step 1 of the overlay in isolation. The problem
// scanner uses it to decide whether a holiday still counts as a potential
// work day.
func holidayAdjusted(base int, cfg EmploymentConfig, date Day, options HolidayOptions) int {
	if cfg.Kind == KindPercentage {
		if options.For(date) == OptionDeduct {
			return 0
		}
		// Pending or do-not-deduct: the day still counts as a potential
		// work day at the normal percentage share.
		return base
	}
	return 0
}

// =============================================================================
// RANGE MATCHING
// =============================================================================

// rangeContains reports whether d falls in [start, end]. Inverted or zero
// ranges never match.
func rangeContains(start, end, d Day) bool {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return false
	}
	return d.AfterOrEqual(start) && d.BeforeOrEqual(end)
}

func approvedVacationOn(vacations []Vacation, d Day) (Vacation, bool) {
	for _, v := range vacations {
		if v.State == ApprovalApproved && rangeContains(v.Start, v.End, d) {
			return v, true
		}
	}
	return Vacation{}, false
}

func sickLeaveOn(sickLeaves []SickLeave, d Day) (SickLeave, bool) {
	for _, s := range sickLeaves {
		if rangeContains(s.Start, s.End, d) {
			return s, true
		}
	}
	return SickLeave{}, false
}

// IsHoliday reports whether the slice contains a holiday on d.
func IsHoliday(holidays []Holiday, d Day) bool {
	for _, h := range holidays {
		if h.Date.Equal(d) {
			return true
		}
	}
	return false
}

// halfRounded halves a non-negative minute count, rounding half up.
func halfRounded(minutes int) int {
	return (minutes + 1) / 2
}
