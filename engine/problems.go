/*
problems.go - Per-day issue classification

PURPOSE:
  Walks an employee's calendar from the start of their tracked history
  through today and classifies each day into zero or more issue tags. The
  admin dashboard uses the counts for badges and the ordered day list to
  jump to the first occurrence of an issue.

TAGS:
  missing                                no punches on a potential work day
  incomplete_work_end_missing            last punch is an open START
  auto_completed_uncorrected             day was auto-closed, never corrected
  auto_completed_incomplete_uncorrected  both of the above on the same day
  holiday_pending_decision               percentage employee, holiday with an
                                         undecided handling option

SCAN WINDOW:
  From max(schedule effective date, company join date) through today,
  inclusive. When neither date is known the scan covers the last month.

SEE ALSO:
  - expected.go: Potential-work-day detection
  - absence.go:  Step-1 holiday overlay reused here
*/
package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PROBLEM TAGS
// =============================================================================

type ProblemTag string

const (
	ProblemMissing                 ProblemTag = "missing"
	ProblemIncompleteEnd           ProblemTag = "incomplete_work_end_missing"
	ProblemAutoCompleted           ProblemTag = "auto_completed_uncorrected"
	ProblemAutoCompletedIncomplete ProblemTag = "auto_completed_incomplete_uncorrected"
	ProblemHolidayPending          ProblemTag = "holiday_pending_decision"
)

// ProblemDay is one (date, tag) occurrence.
type ProblemDay struct {
	Date Day
	Tag  ProblemTag
}

// ProblemReport is the scan result for one employee.
type ProblemReport struct {
	Counts map[ProblemTag]int
	Days   []ProblemDay
}

// =============================================================================
// SCAN INPUT
// =============================================================================

type ScanInput struct {
	Config            EmploymentConfig
	DefaultDailyHours decimal.Decimal

	Summaries  []DailySummary
	Vacations  []Vacation
	SickLeaves []SickLeave
	Holidays   []Holiday
	Options    HolidayOptions

	// JoinedAt is the employee's company join date; zero when unknown.
	JoinedAt Day

	// Today bounds the scan. Zero means time.Now, kept injectable for tests.
	Today Day
}

// =============================================================================
// PROBLEM INDICATOR SCANNER
// =============================================================================

// ScanProblems classifies every day of the scan window. The result list is
// date-ascending and deduplicated.
func ScanProblems(in ScanInput) ProblemReport {
	today := in.Today
	if today.IsZero() {
		today = Today()
	}

	from := MaxDay(in.Config.EffectiveFrom, in.JoinedAt)
	if from.IsZero() {
		from = today.AddMonths(-1)
	}

	byDate := make(map[Day]DailySummary, len(in.Summaries))
	for _, s := range in.Summaries {
		byDate[s.Date] = s
	}

	report := ProblemReport{Counts: make(map[ProblemTag]int)}
	seen := make(map[ProblemDay]bool)
	record := func(d Day, tag ProblemTag) {
		occ := ProblemDay{Date: d, Tag: tag}
		if seen[occ] {
			return
		}
		seen[occ] = true
		report.Counts[tag]++
		report.Days = append(report.Days, occ)
	}

	for day := from; day.BeforeOrEqual(today); day = day.AddDays(1) {
		base := ExpectedMinutes(day, in.Config, in.DefaultDailyHours)

		// Potential work day under the step-1 holiday overlay: a holiday
		// zeroes the day for fixed/hourly configs, and for percentage
		// configs only when the handling option says deduct.
		potential := base
		isHoliday := IsHoliday(in.Holidays, day)
		if isHoliday {
			potential = holidayAdjusted(base, in.Config, day, in.Options)
		}

		_, onVacation := approvedVacationOn(in.Vacations, day)
		_, onSickLeave := sickLeaveOn(in.SickLeaves, day)

		if potential > 0 && !onVacation && !onSickLeave {
			summary, ok := byDate[day]
			switch {
			case !ok || len(summary.Punches) == 0:
				record(day, ProblemMissing)
			case summary.OpenPunch && summary.NeedsCorrection:
				record(day, ProblemAutoCompletedIncomplete)
			case summary.OpenPunch:
				record(day, ProblemIncompleteEnd)
			case summary.NeedsCorrection:
				record(day, ProblemAutoCompleted)
			}
		}

		// Independent of work-day status.
		if in.Config.Kind == KindPercentage && isHoliday && in.Options.For(day) == OptionPending {
			record(day, ProblemHolidayPending)
		}
	}

	sort.SliceStable(report.Days, func(i, j int) bool {
		if !report.Days[i].Date.Equal(report.Days[j].Date) {
			return report.Days[i].Date.Before(report.Days[j].Date)
		}
		return report.Days[i].Tag < report.Days[j].Tag
	})

	return report
}
