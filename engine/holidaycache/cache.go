/*
Package holidaycache memoizes holiday lookups per (canton, year).

PURPOSE:
  Holiday sets are small, canton-scoped and effectively static within a
  year, so every consumer (day calculation, weekly aggregation, problem
  scans) shares one read-mostly cache instead of recomputing the calendar.

CONTRACT:
  Holidays(canton, year) returns the cached slice or calls the injected
  FetchFunc on a miss and stores the result. Recomputation is idempotent -
  two goroutines racing on the same miss both fetch and overwrite the key
  with equivalent data, which is safe. The fetch source is injected so the
  engine stays pure and testable.

SEE ALSO:
  - swiss: The default FetchFunc (canton holiday catalog)
*/
package holidaycache

import (
	"sync"

	"github.com/stechuhr/timecore/engine"
)

// Key identifies one cached holiday set.
type Key struct {
	Canton string
	Year   int
}

// FetchFunc resolves the holidays of one canton-year.
type FetchFunc func(canton string, year int) ([]engine.Holiday, error)

// Cache is a (canton, year) -> holidays map with a get-or-fetch contract.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key][]engine.Holiday
	fetch   FetchFunc
}

func New(fetch FetchFunc) *Cache {
	return &Cache{
		entries: make(map[Key][]engine.Holiday),
		fetch:   fetch,
	}
}

// Holidays returns the holiday set for one canton-year, fetching on miss.
func (c *Cache) Holidays(canton string, year int) ([]engine.Holiday, error) {
	k := Key{Canton: canton, Year: year}

	c.mu.RLock()
	cached, ok := c.entries[k]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	fetched, err := c.fetch(canton, year)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[k] = fetched
	c.mu.Unlock()
	return fetched, nil
}

// HolidaysInRange collects holidays across all years touched by [from, to].
// An inverted range yields nil.
func (c *Cache) HolidaysInRange(canton string, from, to engine.Day) ([]engine.Holiday, error) {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil, nil
	}

	var all []engine.Holiday
	for year := from.Year(); year <= to.Year(); year++ {
		holidays, err := c.Holidays(canton, year)
		if err != nil {
			return nil, err
		}
		for _, h := range holidays {
			if h.Date.AfterOrEqual(from) && h.Date.BeforeOrEqual(to) {
				all = append(all, h)
			}
		}
	}
	return all, nil
}

// Invalidate drops one canton-year so the next read refetches.
func (c *Cache) Invalidate(canton string, year int) {
	c.mu.Lock()
	delete(c.entries, Key{Canton: canton, Year: year})
	c.mu.Unlock()
}
