package engine

import (
	"testing"
	"time"
)

// =============================================================================
// SCAN WINDOW TESTS
// =============================================================================

func TestScanProblems_WindowStartsAtJoinDate(t *testing.T) {
	// GIVEN: An employee who joined Wednesday, scanned on Friday, no punches
	// WHEN: The scanner runs
	// THEN: Only Wednesday-Friday are flagged missing

	in := ScanInput{
		Config:            fixedConfig(),
		DefaultDailyHours: defaultHours,
		JoinedAt:          NewDay(2025, time.January, 8),
		Today:             NewDay(2025, time.January, 10),
	}

	report := ScanProblems(in)
	if report.Counts[ProblemMissing] != 3 {
		t.Fatalf("missing count = %d, want 3", report.Counts[ProblemMissing])
	}
	if !report.Days[0].Date.Equal(NewDay(2025, time.January, 8)) {
		t.Errorf("first problem day = %s, want 2025-01-08", report.Days[0].Date)
	}
}

func TestScanProblems_EffectiveFromTrumpsEarlierJoinDate(t *testing.T) {
	cfg := fixedConfig()
	cfg.EffectiveFrom = NewDay(2025, time.January, 9)

	in := ScanInput{
		Config:            cfg,
		DefaultDailyHours: defaultHours,
		JoinedAt:          NewDay(2025, time.January, 6),
		Today:             NewDay(2025, time.January, 10),
	}

	report := ScanProblems(in)
	// Jan 6-8 have zero expectation before the effective date.
	if report.Counts[ProblemMissing] != 2 {
		t.Errorf("missing count = %d, want 2 (Thu+Fri)", report.Counts[ProblemMissing])
	}
}

// =============================================================================
// CLASSIFICATION TESTS
// =============================================================================

func TestScanProblems_TagPerDayState(t *testing.T) {
	// GIVEN: Four work days in four states: complete, open, auto-closed,
	//        auto-closed and still open
	// WHEN: The scanner runs
	// THEN: Each day carries exactly its own tag

	mon := NewDay(2025, time.January, 6)
	tue := mon.AddDays(1)
	wed := mon.AddDays(2)
	thu := mon.AddDays(3)

	open := Summarize(tue, []Punch{{Kind: PunchStart, At: tue.Time().Add(8 * time.Hour), Source: SourceTerminal}})
	auto := Summarize(wed, []Punch{
		{Kind: PunchStart, At: wed.Time().Add(8 * time.Hour), Source: SourceTerminal},
		{Kind: PunchEnd, At: wed.Time().Add(20 * time.Hour), Source: SourceAutoClose},
	})
	// Auto-close punch recorded as a START leaves the day both open and
	// uncorrected.
	autoOpen := Summarize(thu, []Punch{
		{Kind: PunchStart, At: thu.Time().Add(8 * time.Hour), Source: SourceAutoClose},
	})
	complete := Summarize(mon, []Punch{
		{Kind: PunchStart, At: mon.Time().Add(8 * time.Hour), Source: SourceTerminal},
		{Kind: PunchEnd, At: mon.Time().Add(17 * time.Hour), Source: SourceTerminal},
	})

	in := ScanInput{
		Config:            fixedConfig(),
		DefaultDailyHours: defaultHours,
		Summaries:         []DailySummary{complete, open, auto, autoOpen},
		JoinedAt:          mon,
		Today:             thu,
	}

	report := ScanProblems(in)

	want := map[ProblemTag]int{
		ProblemIncompleteEnd:           1,
		ProblemAutoCompleted:           1,
		ProblemAutoCompletedIncomplete: 1,
	}
	for tag, n := range want {
		if report.Counts[tag] != n {
			t.Errorf("count[%s] = %d, want %d", tag, report.Counts[tag], n)
		}
	}
	if report.Counts[ProblemMissing] != 0 {
		t.Errorf("missing count = %d, want 0", report.Counts[ProblemMissing])
	}
	if len(report.Days) != 3 {
		t.Errorf("problem days = %d, want 3", len(report.Days))
	}
}

func TestScanProblems_ThreeDayWindow(t *testing.T) {
	// GIVEN: Three work days: no entries, auto-closed entries, full vacation
	// WHEN: The scanner runs
	// THEN: One missing, one auto_completed_uncorrected, nothing for day 3

	mon := NewDay(2025, time.January, 6)
	tue := mon.AddDays(1)
	wed := mon.AddDays(2)

	auto := Summarize(tue, []Punch{
		{Kind: PunchStart, At: tue.Time().Add(8 * time.Hour), Source: SourceTerminal},
		{Kind: PunchEnd, At: tue.Time().Add(20 * time.Hour), Source: SourceAutoClose},
	})

	in := ScanInput{
		Config:            fixedConfig(),
		DefaultDailyHours: defaultHours,
		Summaries:         []DailySummary{auto},
		Vacations:         []Vacation{{Start: wed, End: wed, State: ApprovalApproved}},
		JoinedAt:          mon,
		Today:             wed,
	}

	report := ScanProblems(in)
	if report.Counts[ProblemMissing] != 1 {
		t.Errorf("missing = %d, want 1", report.Counts[ProblemMissing])
	}
	if report.Counts[ProblemAutoCompleted] != 1 {
		t.Errorf("auto_completed = %d, want 1", report.Counts[ProblemAutoCompleted])
	}
	if len(report.Days) != 2 {
		t.Errorf("problem days = %d, want 2: %v", len(report.Days), report.Days)
	}
}

func TestScanProblems_AbsencesSuppressTags(t *testing.T) {
	mon := NewDay(2025, time.January, 6)

	in := ScanInput{
		Config:            fixedConfig(),
		DefaultDailyHours: defaultHours,
		Vacations:         []Vacation{{Start: mon, End: mon, State: ApprovalApproved}},
		SickLeaves:        []SickLeave{{Start: mon.AddDays(1), End: mon.AddDays(1)}},
		Holidays:          []Holiday{{Date: mon.AddDays(2)}},
		JoinedAt:          mon,
		Today:             mon.AddDays(2),
	}

	report := ScanProblems(in)
	if len(report.Days) != 0 {
		t.Errorf("expected no problems, got %v", report.Days)
	}
}

func TestScanProblems_WeekendsNotMissing(t *testing.T) {
	sat := NewDay(2025, time.January, 11)

	in := ScanInput{
		Config:            fixedConfig(),
		DefaultDailyHours: defaultHours,
		JoinedAt:          sat,
		Today:             sat.AddDays(1),
	}

	if report := ScanProblems(in); len(report.Days) != 0 {
		t.Errorf("weekend flagged: %v", report.Days)
	}
}

// =============================================================================
// HOLIDAY PENDING DECISION
// =============================================================================

func TestScanProblems_PercentageHolidayPending(t *testing.T) {
	// GIVEN: A percentage employee with a worked holiday and no decision
	// WHEN: The scanner runs
	// THEN: The day carries holiday_pending_decision; once decided the tag
	//       disappears

	wed := NewDay(2025, time.January, 8)
	worked := Summarize(wed, []Punch{
		{Kind: PunchStart, At: wed.Time().Add(8 * time.Hour), Source: SourceTerminal},
		{Kind: PunchEnd, At: wed.Time().Add(16 * time.Hour), Source: SourceTerminal},
	})

	in := ScanInput{
		Config:            percentageConfig(80, 4),
		DefaultDailyHours: defaultHours,
		Summaries:         []DailySummary{worked},
		Holidays:          []Holiday{{Date: wed}},
		JoinedAt:          wed,
		Today:             wed,
	}

	report := ScanProblems(in)
	if report.Counts[ProblemHolidayPending] != 1 {
		t.Fatalf("pending count = %d, want 1", report.Counts[ProblemHolidayPending])
	}

	in.Options = HolidayOptions{wed: OptionDeduct}
	report = ScanProblems(in)
	if report.Counts[ProblemHolidayPending] != 0 {
		t.Errorf("decided holiday still pending: %v", report.Days)
	}
}

func TestScanProblems_FixedScheduleHolidayNeverPending(t *testing.T) {
	wed := NewDay(2025, time.January, 8)

	in := ScanInput{
		Config:            fixedConfig(),
		DefaultDailyHours: defaultHours,
		Holidays:          []Holiday{{Date: wed}},
		JoinedAt:          wed,
		Today:             wed,
	}

	if report := ScanProblems(in); len(report.Days) != 0 {
		t.Errorf("fixed-schedule holiday flagged: %v", report.Days)
	}
}

func TestScanProblems_DaysSortedByDate(t *testing.T) {
	mon := NewDay(2025, time.January, 6)

	in := ScanInput{
		Config:            fixedConfig(),
		DefaultDailyHours: defaultHours,
		JoinedAt:          mon,
		Today:             mon.AddDays(4),
	}

	report := ScanProblems(in)
	for i := 1; i < len(report.Days); i++ {
		if report.Days[i].Date.Before(report.Days[i-1].Date) {
			t.Fatalf("days not sorted: %v", report.Days)
		}
	}
}
