package engine

import (
	"testing"
	"time"
)

// =============================================================================
// WEEK ARITHMETIC TESTS
// =============================================================================

func TestMondayOf_EveryWeekday(t *testing.T) {
	// GIVEN: The week of Monday 2025-01-06
	// WHEN: MondayOf is asked for each of its seven days
	// THEN: All resolve to 2025-01-06

	monday := NewDay(2025, time.January, 6)
	for i := 0; i < 7; i++ {
		day := monday.AddDays(i)
		if got := day.MondayOf(); !got.Equal(monday) {
			t.Errorf("MondayOf(%s) = %s, want %s", day, got, monday)
		}
	}
}

func TestWeeksSince_ForwardAndBackward(t *testing.T) {
	epoch := NewDay(2025, time.January, 6) // a Monday

	tests := []struct {
		date Day
		want int
	}{
		{NewDay(2025, time.January, 6), 0},   // epoch itself
		{NewDay(2025, time.January, 12), 0},  // Sunday of epoch week
		{NewDay(2025, time.January, 13), 1},  // next Monday
		{NewDay(2025, time.January, 20), 2},  // two weeks out
		{NewDay(2025, time.January, 5), -1},  // Sunday before epoch
		{NewDay(2024, time.December, 30), -1}, // Monday of previous week
		{NewDay(2024, time.December, 29), -2}, // Sunday two weeks back
	}
	for _, tt := range tests {
		if got := tt.date.WeeksSince(epoch); got != tt.want {
			t.Errorf("WeeksSince(%s) = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestWeekOf_MondayThroughSunday(t *testing.T) {
	// GIVEN: A Thursday
	// WHEN: WeekOf resolves its week
	// THEN: Seven consecutive days starting at the week's Monday

	week := WeekOf(NewDay(2025, time.January, 9))

	if !week[0].Equal(NewDay(2025, time.January, 6)) {
		t.Errorf("week starts at %s, want 2025-01-06", week[0])
	}
	if !week[6].Equal(NewDay(2025, time.January, 12)) {
		t.Errorf("week ends at %s, want 2025-01-12", week[6])
	}
	for i := 1; i < 7; i++ {
		if !week[i].Equal(week[i-1].AddDays(1)) {
			t.Errorf("week[%d] = %s is not the day after %s", i, week[i], week[i-1])
		}
	}
}

// =============================================================================
// DAY VALUE TESTS
// =============================================================================

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2025-03-31")
	if err != nil {
		t.Fatalf("ParseDay: %v", err)
	}
	if day.String() != "2025-03-31" {
		t.Errorf("round trip = %s", day)
	}

	if _, err := ParseDay("31.03.2025"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestDay_ComparableAndMapKey(t *testing.T) {
	// Two Days built from different time zones must collapse to the same key.
	zurich, _ := time.LoadLocation("Europe/Zurich")
	a := DayOf(time.Date(2025, time.June, 1, 23, 30, 0, 0, zurich))
	b := NewDay(2025, time.June, 1)

	if a != b {
		t.Fatalf("days not equal: %v vs %v", a, b)
	}
	m := map[Day]int{a: 1}
	if m[b] != 1 {
		t.Error("map lookup by equal day failed")
	}
}

func TestMaxDay_ZeroLoses(t *testing.T) {
	day := NewDay(2025, time.May, 1)
	if got := MaxDay(Day{}, day); !got.Equal(day) {
		t.Errorf("MaxDay(zero, day) = %s", got)
	}
	if got := MaxDay(day, Day{}); !got.Equal(day) {
		t.Errorf("MaxDay(day, zero) = %s", got)
	}

	later := NewDay(2025, time.June, 1)
	if got := MaxDay(day, later); !got.Equal(later) {
		t.Errorf("MaxDay = %s, want %s", got, later)
	}
}

func TestIsWeekend(t *testing.T) {
	if NewDay(2025, time.January, 10).IsWeekend() { // Friday
		t.Error("Friday flagged as weekend")
	}
	if !NewDay(2025, time.January, 11).IsWeekend() { // Saturday
		t.Error("Saturday not flagged as weekend")
	}
	if !NewDay(2025, time.January, 12).IsWeekend() { // Sunday
		t.Error("Sunday not flagged as weekend")
	}
}
