/*
summary.go - Daily punch aggregation

PURPOSE:
  Turns the raw punch sequence of one employee-day into an immutable
  DailySummary: worked minutes, break minutes, whether the day still has an
  open START, and whether the day was auto-closed and never corrected.

PAIRING RULES:
  Punches are sorted by timestamp and paired START->END in order. Worked
  time is the sum of the paired intervals; break time is the gap between
  one pair's END and the next pair's START. A trailing START with no END
  leaves the day open (it contributes no worked time until closed).
  An END with no preceding START is ignored.

AUTO-CLOSE:
  When an employee forgets to punch out, the system force-closes the day
  with an END punch tagged SourceAutoClose. The day needs correction until
  someone confirms or fixes it, which sets CorrectedByUser on the punch.

SEE ALSO:
  - week.go:     Sums WorkedMinutes into weekly actuals
  - problems.go: Flags open and uncorrected days
*/
package engine

import (
	"sort"
	"time"
)

// =============================================================================
// PUNCHES
// =============================================================================

type PunchKind string

const (
	PunchStart PunchKind = "start"
	PunchEnd   PunchKind = "end"
)

type PunchSource string

const (
	SourceManual    PunchSource = "manual"     // web UI
	SourceTerminal  PunchSource = "terminal"   // badge/card reader
	SourceAutoClose PunchSource = "auto_close" // system force-closed the day
)

type Punch struct {
	Kind            PunchKind
	At              time.Time
	Source          PunchSource
	CorrectedByUser bool
}

// =============================================================================
// DAILY SUMMARY - Immutable snapshot of one employee-day
// =============================================================================

type DailySummary struct {
	Date    Day
	Punches []Punch

	WorkedMinutes int
	BreakMinutes  int

	// OpenPunch is set when the last punch is a START with no following END.
	OpenPunch bool

	// NeedsCorrection is set when the day carries an auto-close punch that
	// has not been user-corrected.
	NeedsCorrection bool
}

// Summarize derives a DailySummary from raw punches. The input slice is not
// modified; punches are evaluated in timestamp order.
func Summarize(date Day, punches []Punch) DailySummary {
	ordered := make([]Punch, len(punches))
	copy(ordered, punches)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].At.Before(ordered[j].At) })

	s := DailySummary{Date: date, Punches: ordered}

	var openStart time.Time
	var hasOpen bool
	var lastEnd time.Time
	var hasLastEnd bool

	for _, p := range ordered {
		switch p.Kind {
		case PunchStart:
			if hasOpen {
				// Double START: keep the first, the duplicate is noise.
				continue
			}
			if hasLastEnd {
				s.BreakMinutes += wholeMinutes(lastEnd, p.At)
			}
			openStart = p.At
			hasOpen = true

		case PunchEnd:
			if !hasOpen {
				continue
			}
			s.WorkedMinutes += wholeMinutes(openStart, p.At)
			lastEnd = p.At
			hasLastEnd = true
			hasOpen = false
		}
	}

	s.OpenPunch = hasOpen

	for _, p := range ordered {
		if p.Source == SourceAutoClose && !p.CorrectedByUser {
			s.NeedsCorrection = true
			break
		}
	}

	return s
}

// wholeMinutes returns the non-negative whole minutes between two instants.
func wholeMinutes(from, to time.Time) int {
	m := int(to.Sub(from).Minutes())
	if m < 0 {
		return 0
	}
	return m
}
