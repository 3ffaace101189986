package engine

import (
	"testing"
	"time"
)

// week of Monday 2025-01-06, used throughout.
func testWeek() [7]Day {
	return WeekOf(NewDay(2025, time.January, 6))
}

// =============================================================================
// WEEKLY EXPECTED - FIXED SCHEDULE
// =============================================================================

func TestWeeklyExpected_FixedSchedule(t *testing.T) {
	// GIVEN: 8.5h Monday-Friday
	// WHEN: A plain week is aggregated
	// THEN: 5 * 510 = 2550 minutes

	got := WeeklyExpected(testWeek(), fixedConfig(), defaultHours, nil, nil, nil, nil)
	if got != 2550 {
		t.Errorf("plain week = %d, want 2550", got)
	}
}

func TestWeeklyExpected_FixedSchedule_VacationWednesday(t *testing.T) {
	// GIVEN: 8.5h Monday-Friday and a full-day approved vacation on Wednesday
	// WHEN: The week is aggregated
	// THEN: Four work days remain: 4 * 510 = 2040

	week := testWeek()
	vacations := []Vacation{{Start: week[2], End: week[2], State: ApprovalApproved}}

	got := WeeklyExpected(week, fixedConfig(), defaultHours, vacations, nil, nil, nil)
	if got != 2040 {
		t.Errorf("got %d, want 2040", got)
	}
}

func TestWeeklyExpected_FixedSchedule_HolidayAndVacation(t *testing.T) {
	week := testWeek()
	holidays := []Holiday{{Date: week[2]}} // Wednesday
	vacations := []Vacation{{Start: week[4], End: week[4], State: ApprovalApproved, HalfDay: true}}

	// 2550 - 510 (holiday) - 255 (half-day Friday) = 1785
	got := WeeklyExpected(week, fixedConfig(), defaultHours, vacations, nil, holidays, nil)
	if got != 1785 {
		t.Errorf("got %d, want 1785", got)
	}
}

// =============================================================================
// WEEKLY EXPECTED - PERCENTAGE
// =============================================================================

func TestWeeklyExpected_Percentage_PlainWeek(t *testing.T) {
	// An 80%/4-day contract owes the full weekly quota when nothing deducts.
	got := WeeklyExpected(testWeek(), percentageConfig(80, 4), defaultHours, nil, nil, nil, nil)
	if got != 2040 {
		t.Errorf("plain week = %d, want 2040", got)
	}
}

func TestWeeklyExpected_Percentage_VacationDeductsOneShare(t *testing.T) {
	// GIVEN: 80% over 4 days (weekly 2040, share 510)
	// WHEN: One approved vacation day falls on Monday
	// THEN: The quota drops by exactly one share regardless of which
	//       weekday the employee nominally works

	week := testWeek()
	vacations := []Vacation{{Start: week[0], End: week[0], State: ApprovalApproved}}

	got := WeeklyExpected(week, percentageConfig(80, 4), defaultHours, vacations, nil, nil, nil)
	if got != 1530 {
		t.Errorf("got %d, want 1530", got)
	}
}

func TestWeeklyExpected_Percentage_HalfDaySickLeave(t *testing.T) {
	week := testWeek()
	sick := []SickLeave{{Start: week[1], End: week[1], HalfDay: true}}

	// 2040 - 255 = 1785
	got := WeeklyExpected(week, percentageConfig(80, 4), defaultHours, nil, sick, nil, nil)
	if got != 1785 {
		t.Errorf("got %d, want 1785", got)
	}
}

func TestWeeklyExpected_Percentage_WeekendVacationDoesNotDeduct(t *testing.T) {
	week := testWeek()
	vacations := []Vacation{{Start: week[5], End: week[6], State: ApprovalApproved}} // Sat+Sun

	got := WeeklyExpected(week, percentageConfig(80, 4), defaultHours, vacations, nil, nil, nil)
	if got != 2040 {
		t.Errorf("weekend vacation deducted: got %d, want 2040", got)
	}
}

func TestWeeklyExpected_Percentage_HolidayOption(t *testing.T) {
	week := testWeek()
	holidays := []Holiday{{Date: week[2]}}

	// Pending keeps the full quota.
	got := WeeklyExpected(week, percentageConfig(80, 4), defaultHours, nil, nil, holidays, nil)
	if got != 2040 {
		t.Errorf("pending holiday = %d, want 2040", got)
	}

	// Explicit deduct removes one share.
	options := HolidayOptions{week[2]: OptionDeduct}
	got = WeeklyExpected(week, percentageConfig(80, 4), defaultHours, nil, nil, holidays, options)
	if got != 1530 {
		t.Errorf("deducted holiday = %d, want 1530", got)
	}
}

func TestWeeklyExpected_Percentage_HolidayWinsOverVacation(t *testing.T) {
	week := testWeek()
	holidays := []Holiday{{Date: week[2]}}
	vacations := []Vacation{{Start: week[2], End: week[2], State: ApprovalApproved}}

	// Pending holiday on a vacation day: the holiday decision governs the
	// day, so nothing deducts.
	got := WeeklyExpected(week, percentageConfig(80, 4), defaultHours, vacations, nil, holidays, nil)
	if got != 2040 {
		t.Errorf("got %d, want 2040", got)
	}
}

func TestWeeklyExpected_Percentage_FlooredAtZero(t *testing.T) {
	week := testWeek()
	vacations := []Vacation{{Start: week[0], End: week[4], State: ApprovalApproved}}

	// Five full shares (2550) exceed the 2040 quota; the result floors at 0.
	got := WeeklyExpected(week, percentageConfig(80, 4), defaultHours, vacations, nil, nil, nil)
	if got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

// =============================================================================
// ACTUALS, DELTA AND BALANCE
// =============================================================================

func TestWeeklyActual_SumsWorkedMinutes(t *testing.T) {
	summaries := []DailySummary{
		{WorkedMinutes: 480},
		{WorkedMinutes: 510},
		{WorkedMinutes: 0},
	}
	if got := WeeklyActual(summaries); got != 990 {
		t.Errorf("got %d, want 990", got)
	}
	if got := WeeklyActual(nil); got != 0 {
		t.Errorf("empty = %d, want 0", got)
	}
}

func TestDelta_SignConvention(t *testing.T) {
	if got := Delta(2600, 2550); got != 50 {
		t.Errorf("overtime delta = %d, want +50", got)
	}
	if got := Delta(2500, 2550); got != -50 {
		t.Errorf("undertime delta = %d, want -50", got)
	}
}

func TestTrackingBalance_Apply(t *testing.T) {
	b := TrackingBalance(0)
	b = b.Apply(50)
	b = b.Apply(-80)
	if b != -30 {
		t.Errorf("balance = %d, want -30", b)
	}
}

func TestWeeklyDelta(t *testing.T) {
	// GIVEN: A fixed-schedule week expecting 2550 minutes
	// WHEN: The employee worked 2600
	// THEN: The week contributes +50 to the balance

	summaries := []DailySummary{{WorkedMinutes: 2600}}
	got := WeeklyDelta(testWeek(), fixedConfig(), defaultHours, summaries, nil, nil, nil, nil)
	if got != 50 {
		t.Errorf("got %d, want +50", got)
	}
}
