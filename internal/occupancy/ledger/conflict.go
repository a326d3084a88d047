package ledger

import (
	"tdms/pkg/calendar"
	"tdms/pkg/model"
)

// Conflict is the first double-booked day found for a candidate stay.
type Conflict struct {
	Room  int
	Day   int
	Month int
	Year  int
}

// FindConflict walks the candidate interval day by day, rolling into
// subsequent month buckets, and returns the first day on which the room is
// already held by a different stay. excludeStayID lets an edit validate
// against everything except the stay being modified. O(nights), nights
// capped by config.
//
// Every month the interval touches must already be loaded; the service
// reconciles remote buckets before calling.
func (l *Ledger) FindConflict(room, startDay, startMonth, startYear, nights int, excludeStayID string) *Conflict {
	day, month, year := startDay, startMonth, startYear

	for i := 0; i < nights; i++ {
		key := model.MonthKey{Year: year, Month: month}
		for _, rec := range l.buckets[key] {
			if rec.Room == room && rec.Day == day && rec.StayID != excludeStayID {
				return &Conflict{Room: room, Day: day, Month: month, Year: year}
			}
		}
		day, month, year = calendar.AddDays(day, month, year, 1)
	}

	return nil
}

// SpanKeys lists every month key a stay starting at (day, month, year)
// with the given number of nights touches, in order.
func SpanKeys(startDay, startMonth, startYear, nights int) []model.MonthKey {
	var keys []model.MonthKey
	day, month, year := startDay, startMonth, startYear

	for i := 0; i < nights; i++ {
		key := model.MonthKey{Year: year, Month: month}
		if len(keys) == 0 || keys[len(keys)-1] != key {
			keys = append(keys, key)
		}
		day, month, year = calendar.AddDays(day, month, year, 1)
	}

	return keys
}
