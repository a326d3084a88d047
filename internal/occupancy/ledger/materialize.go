package ledger

import (
	"tdms/pkg/calendar"
	"tdms/pkg/model"
)

// Materialize expands a validated stay into one occupancy record per night,
// distributed into the owning month buckets. The walk mirrors FindConflict
// exactly, writing instead of reading.
//
// Materialization is idempotent per stayId: any records already bearing the
// id are purged first, so replaying a stay (an edit) never duplicates
// records. IsStartDay is set only on the very first record, and guest
// check-in flags only on that record and only when the stay is a check-in.
//
// Returns every bucket that changed: the buckets written plus any bucket
// that only lost old records (a shortened stay's abandoned tail).
func (l *Ledger) Materialize(stay *model.Stay) []model.MonthKey {
	affected := make(map[model.MonthKey]struct{})
	for _, k := range l.purge(stay.StayID) {
		affected[k] = struct{}{}
	}

	day, month, year := stay.StartDay, stay.StartMonth, stay.StartYear

	for i := 0; i < stay.LengthOfStay; i++ {
		isStart := i == 0
		key := model.MonthKey{Year: year, Month: month}

		guests := make([]model.Guest, len(stay.Guests))
		copy(guests, stay.Guests)
		for g := range guests {
			guests[g].IsCheckIn = isStart && stay.IsCheckIn
		}

		rec := model.OccupancyRecord{
			Day:          day,
			Room:         stay.Room,
			Guests:       guests,
			LengthOfStay: stay.LengthOfStay,
			IsCheckIn:    isStart && stay.IsCheckIn,
			StayID:       stay.StayID,
			StartDay:     stay.StartDay,
			StartMonth:   stay.StartMonth,
			StartYear:    stay.StartYear,
			IsStartDay:   isStart,
		}

		bucket := append(l.buckets[key], rec)
		sortBucket(bucket)
		l.buckets[key] = bucket
		affected[key] = struct{}{}

		day, month, year = calendar.AddDays(day, month, year, 1)
	}

	keys := make([]model.MonthKey, 0, len(affected))
	for k := range affected {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}
