/*
Package swiss provides the built-in Swiss canton holiday catalog.

PURPOSE:
  Resolves the public holidays of a canton for a given year: nationwide
  holidays, canton-specific fixed dates, and the movable feasts derived
  from Easter. The catalog is the default holidaycache.FetchFunc.

SCOPE:
  The catalog covers the statutory holidays commonly observed in each
  listed canton. It is intentionally conservative: half-holidays and
  municipality-level observances are omitted. An unknown canton code
  resolves to the nationwide set only - never an error, matching the
  engine's degrade-to-default policy.

EASTER:
  Movable feasts (Good Friday, Easter Monday, Ascension, Whit Monday,
  Corpus Christi) are computed with the anonymous Gregorian computus.

SEE ALSO:
  - engine/holidaycache: Memoizes these lookups per (canton, year)
*/
package swiss

import (
	"sort"
	"time"

	"github.com/stechuhr/timecore/engine"
)

// =============================================================================
// HOLIDAY RULES
// =============================================================================

type rule struct {
	name string
	// Exactly one of the three is used.
	month        time.Month
	day          int
	easterOffset int // days relative to Easter Sunday
	movable      bool
	compute      func(year int) engine.Day
}

func fixed(name string, m time.Month, d int) rule {
	return rule{name: name, month: m, day: d}
}

func easterRel(name string, offset int) rule {
	return rule{name: name, easterOffset: offset, movable: true}
}

func computed(name string, fn func(year int) engine.Day) rule {
	return rule{name: name, compute: fn}
}

// Nationwide holidays observed in every canton.
var national = []rule{
	fixed("Neujahrstag", time.January, 1),
	easterRel("Auffahrt", 39), // Ascension
	fixed("Bundesfeier", time.August, 1),
	fixed("Weihnachtstag", time.December, 25),
}

// Widely observed movable feasts; excluded where a canton opts out.
var (
	goodFriday    = easterRel("Karfreitag", -2)
	easterMonday  = easterRel("Ostermontag", 1)
	whitMonday    = easterRel("Pfingstmontag", 50)
	corpusChristi = easterRel("Fronleichnam", 60)
)

// cantonal lists the holidays beyond the nationwide set, per canton code.
var cantonal = map[string][]rule{
	"ZH": {fixed("Berchtoldstag", time.January, 2), goodFriday, easterMonday, fixed("Tag der Arbeit", time.May, 1), whitMonday, fixed("Stephanstag", time.December, 26)},
	"BE": {fixed("Berchtoldstag", time.January, 2), goodFriday, easterMonday, whitMonday, fixed("Stephanstag", time.December, 26)},
	"LU": {fixed("Berchtoldstag", time.January, 2), goodFriday, easterMonday, whitMonday, corpusChristi, fixed("Mariä Himmelfahrt", time.August, 15), fixed("Allerheiligen", time.November, 1), fixed("Mariä Empfängnis", time.December, 8), fixed("Stephanstag", time.December, 26)},
	"ZG": {fixed("Berchtoldstag", time.January, 2), goodFriday, easterMonday, whitMonday, corpusChristi, fixed("Mariä Himmelfahrt", time.August, 15), fixed("Allerheiligen", time.November, 1), fixed("Mariä Empfängnis", time.December, 8), fixed("Stephanstag", time.December, 26)},
	"BS": {goodFriday, easterMonday, fixed("Tag der Arbeit", time.May, 1), whitMonday, fixed("Stephanstag", time.December, 26)},
	"SG": {goodFriday, easterMonday, whitMonday, fixed("Allerheiligen", time.November, 1), fixed("Stephanstag", time.December, 26)},
	"AG": {fixed("Berchtoldstag", time.January, 2), goodFriday, easterMonday, whitMonday, fixed("Stephanstag", time.December, 26)},
	"TI": {easterMonday, fixed("Tag der Arbeit", time.May, 1), whitMonday, corpusChristi, fixed("San Pietro e Paolo", time.June, 29), fixed("Assunzione", time.August, 15), fixed("Ognissanti", time.November, 1), fixed("Immacolata", time.December, 8), fixed("Santo Stefano", time.December, 26)},
	"VD": {fixed("Berchtoldstag", time.January, 2), goodFriday, easterMonday, whitMonday, computed("Lundi du Jeûne", lundiDuJeune)},
	"GE": {goodFriday, easterMonday, whitMonday, computed("Jeûne genevois", jeuneGenevois), fixed("Restauration de la République", time.December, 31)},
	"VS": {fixed("St. Josef", time.March, 19), corpusChristi, fixed("Mariä Himmelfahrt", time.August, 15), fixed("Allerheiligen", time.November, 1), fixed("Mariä Empfängnis", time.December, 8)},
}

// =============================================================================
// CATALOG
// =============================================================================

// Holidays resolves the holiday set of one canton-year. The signature matches
// holidaycache.FetchFunc; the error is always nil.
func Holidays(canton string, year int) ([]engine.Holiday, error) {
	rules := append([]rule{}, national...)
	rules = append(rules, cantonal[canton]...)

	easter := Easter(year)
	holidays := make([]engine.Holiday, 0, len(rules))
	for _, r := range rules {
		var date engine.Day
		switch {
		case r.compute != nil:
			date = r.compute(year)
		case r.movable:
			date = easter.AddDays(r.easterOffset)
		default:
			date = engine.NewDay(year, r.month, r.day)
		}
		holidays = append(holidays, engine.Holiday{Date: date, Canton: canton, Name: r.name})
	}

	sort.Slice(holidays, func(i, j int) bool { return holidays[i].Date.Before(holidays[j].Date) })
	return holidays, nil
}

// lundiDuJeune is the Monday after the third Sunday of September (VD).
func lundiDuJeune(year int) engine.Day {
	return nthSundayOfSeptember(year, 3).AddDays(1)
}

// jeuneGenevois is the Thursday after the first Sunday of September (GE).
func jeuneGenevois(year int) engine.Day {
	return nthSundayOfSeptember(year, 1).AddDays(4)
}

func nthSundayOfSeptember(year, n int) engine.Day {
	d := engine.NewDay(year, time.September, 1)
	for d.Weekday() != time.Sunday {
		d = d.AddDays(1)
	}
	return d.AddDays(7 * (n - 1))
}

// Easter returns Easter Sunday of the given year (Gregorian computus).
func Easter(year int) engine.Day {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return engine.NewDay(year, time.Month(month), day)
}
