package engine

import (
	"time"
)

// =============================================================================
// DAY - Immutable calendar-date value type
// =============================================================================

// Day is a calendar date with no time-of-day component. All engine
// calculations work on Days; the zero value means "no valid date" and every
// calculator degrades to a safe default when it sees one.
//
// Days are normalized to UTC midnight on construction, so two Days built for
// the same calendar date compare equal with == and can be used as map keys.
type Day struct {
	t time.Time
}

// Constructors
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf truncates a timestamp to its calendar date.
func DayOf(t time.Time) Day {
	return NewDay(t.Year(), t.Month(), t.Day())
}

func Today() Day {
	return DayOf(time.Now())
}

// ParseDay parses a YYYY-MM-DD string. Used at the API/storage boundary;
// the engine itself never parses.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, err
	}
	return DayOf(t), nil
}

// Comparison
func (d Day) Before(other Day) bool        { return d.t.Before(other.t) }
func (d Day) After(other Day) bool         { return d.t.After(other.t) }
func (d Day) Equal(other Day) bool         { return d.t.Equal(other.t) }
func (d Day) BeforeOrEqual(other Day) bool { return !d.After(other) }
func (d Day) AfterOrEqual(other Day) bool  { return !d.Before(other) }

// Arithmetic
func (d Day) AddDays(n int) Day   { return DayOf(d.t.AddDate(0, 0, n)) }
func (d Day) AddMonths(n int) Day { return DayOf(d.t.AddDate(0, n, 0)) }

// Properties
func (d Day) Year() int             { return d.t.Year() }
func (d Day) Month() time.Month     { return d.t.Month() }
func (d Day) DayOfMonth() int       { return d.t.Day() }
func (d Day) Weekday() time.Weekday { return d.t.Weekday() }
func (d Day) IsZero() bool          { return d.t.IsZero() }
func (d Day) Time() time.Time       { return d.t }

func (d Day) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Day) String() string {
	return d.t.Format("2006-01-02")
}

// MaxDay returns the later of two days. Zero values lose to any real date.
func MaxDay(a, b Day) Day {
	if a.After(b) {
		return a
	}
	return b
}

// =============================================================================
// WEEK ARITHMETIC - Monday-based, used by the schedule cycle
// =============================================================================

// MondayOf returns the Monday of the week containing d.
func (d Day) MondayOf() Day {
	// time.Weekday has Sunday == 0; shift so Monday == 0.
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// WeeksSince returns the number of whole weeks between the Monday of d's week
// and epochMonday. Negative for dates before the epoch.
func (d Day) WeeksSince(epochMonday Day) int {
	days := int(d.MondayOf().t.Sub(epochMonday.t).Hours() / 24)
	if days >= 0 {
		return days / 7
	}
	// Floor division for negative offsets: -1 day is week -1, not week 0.
	return -((-days + 6) / 7)
}

// WeekOf returns the seven days Monday..Sunday of the week containing d.
func WeekOf(d Day) [7]Day {
	var week [7]Day
	monday := d.MondayOf()
	for i := range week {
		week[i] = monday.AddDays(i)
	}
	return week
}

// weekdayIndex maps time.Weekday to the Monday-first index used by
// WeekTemplate (Monday=0 .. Sunday=6).
func weekdayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
