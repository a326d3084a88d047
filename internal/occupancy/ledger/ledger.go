// Package ledger is the in-memory occupancy ledger: the canonical set of
// month buckets for one establishment's reporting session. It owns the
// invariants the rest of the system relies on: per-room day-sets of
// distinct stays are disjoint, each stay materializes exactly
// lengthOfStay records, and exactly one of them is the start-day record.
//
// The ledger is not safe for concurrent use; the service serializes
// access per owner session.
package ledger

import (
	"sort"

	occuerrors "tdms/internal/occupancy/errors"
	"tdms/pkg/model"
)

type Ledger struct {
	buckets map[model.MonthKey][]model.OccupancyRecord
}

func New() *Ledger {
	return &Ledger{
		buckets: make(map[model.MonthKey][]model.OccupancyRecord),
	}
}

// LoadBucket replaces the bucket for key wholesale with records fetched
// from the draft store. An empty load still marks the bucket as present so
// conflict checks know the month has been reconciled.
func (l *Ledger) LoadBucket(key model.MonthKey, records []model.OccupancyRecord) {
	bucket := make([]model.OccupancyRecord, len(records))
	copy(bucket, records)
	sortBucket(bucket)
	l.buckets[key] = bucket
}

// HasBucket reports whether the month has been loaded into the session.
func (l *Ledger) HasBucket(key model.MonthKey) bool {
	_, ok := l.buckets[key]
	return ok
}

// Records returns a copy of the bucket's records, ordered by day then room.
func (l *Ledger) Records(key model.MonthKey) []model.OccupancyRecord {
	bucket := l.buckets[key]
	out := make([]model.OccupancyRecord, len(bucket))
	copy(out, bucket)
	return out
}

// LoadedKeys returns every loaded month key in chronological order.
func (l *Ledger) LoadedKeys() []model.MonthKey {
	keys := make([]model.MonthKey, 0, len(l.buckets))
	for k := range l.buckets {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

// StayKeys returns the loaded months holding records for stayID.
func (l *Ledger) StayKeys(stayID string) []model.MonthKey {
	var keys []model.MonthKey
	for k, bucket := range l.buckets {
		for _, rec := range bucket {
			if rec.StayID == stayID {
				keys = append(keys, k)
				break
			}
		}
	}
	sortKeys(keys)
	return keys
}

// CountRecords returns the number of records bearing stayID across every
// loaded bucket.
func (l *Ledger) CountRecords(stayID string) int {
	n := 0
	for _, bucket := range l.buckets {
		for _, rec := range bucket {
			if rec.StayID == stayID {
				n++
			}
		}
	}
	return n
}

// StartRecord locates the stay's unique start-day record among the loaded
// buckets.
func (l *Ledger) StartRecord(stayID string) (model.OccupancyRecord, model.MonthKey, bool) {
	for k, bucket := range l.buckets {
		for _, rec := range bucket {
			if rec.StayID == stayID && rec.IsStartDay {
				return rec, k, true
			}
		}
	}
	return model.OccupancyRecord{}, model.MonthKey{}, false
}

// RecordAt returns the record occupying (room, day) in the given month,
// if any.
func (l *Ledger) RecordAt(key model.MonthKey, room, day int) (model.OccupancyRecord, bool) {
	for _, rec := range l.buckets[key] {
		if rec.Room == room && rec.Day == day {
			return rec, true
		}
	}
	return model.OccupancyRecord{}, false
}

// Remove deletes every record bearing stayID from every loaded bucket and
// returns the affected month keys. Before mutating anything it verifies
// the start-day invariant; a violation aborts the removal.
func (l *Ledger) Remove(stayID string) ([]model.MonthKey, error) {
	startDays := 0
	for _, bucket := range l.buckets {
		for _, rec := range bucket {
			if rec.StayID == stayID && rec.IsStartDay {
				startDays++
			}
		}
	}
	if startDays > 1 {
		return nil, occuerrors.ErrStartDayViolation
	}

	return l.purge(stayID), nil
}

// purge drops all records for stayID, returning the keys of the buckets
// that changed.
func (l *Ledger) purge(stayID string) []model.MonthKey {
	var affected []model.MonthKey
	for k, bucket := range l.buckets {
		kept := bucket[:0]
		removed := false
		for _, rec := range bucket {
			if rec.StayID == stayID {
				removed = true
				continue
			}
			kept = append(kept, rec)
		}
		if removed {
			l.buckets[k] = kept
			affected = append(affected, k)
		}
	}
	sortKeys(affected)
	return affected
}

// StayFromRecord reconstructs the authoritative Stay from its start-day
// record. Guest check-in flags are stay-level on the way back in; the
// propagation engine re-derives per-record flags.
func StayFromRecord(rec model.OccupancyRecord) *model.Stay {
	guests := make([]model.Guest, len(rec.Guests))
	copy(guests, rec.Guests)
	for i := range guests {
		guests[i].IsCheckIn = rec.IsCheckIn
	}
	return &model.Stay{
		StayID:       rec.StayID,
		Room:         rec.Room,
		StartDay:     rec.StartDay,
		StartMonth:   rec.StartMonth,
		StartYear:    rec.StartYear,
		LengthOfStay: rec.LengthOfStay,
		IsCheckIn:    rec.IsCheckIn,
		Guests:       guests,
	}
}

func sortBucket(bucket []model.OccupancyRecord) {
	sort.SliceStable(bucket, func(i, j int) bool {
		if bucket[i].Day != bucket[j].Day {
			return bucket[i].Day < bucket[j].Day
		}
		return bucket[i].Room < bucket[j].Room
	})
}

func sortKeys(keys []model.MonthKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Year != keys[j].Year {
			return keys[i].Year < keys[j].Year
		}
		return keys[i].Month < keys[j].Month
	})
}
