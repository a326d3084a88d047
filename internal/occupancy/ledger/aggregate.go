package ledger

import "tdms/pkg/model"

// DailyTotals derives the per-day aggregates for one month bucket:
// check-ins (guests arriving on a start-day record), overnight occupancy
// (every guest present that day), and the count of distinct occupied rooms.
func DailyTotals(records []model.OccupancyRecord, daysInMonth int) []model.DayTotals {
	totals := make([]model.DayTotals, daysInMonth)
	for d := range totals {
		totals[d].Day = d + 1
	}

	rooms := make([]map[int]struct{}, daysInMonth)

	for _, rec := range records {
		if rec.Day < 1 || rec.Day > daysInMonth {
			continue
		}
		idx := rec.Day - 1

		totals[idx].Overnight += len(rec.Guests)
		if rec.IsStartDay {
			for _, g := range rec.Guests {
				if g.IsCheckIn {
					totals[idx].CheckIns++
				}
			}
		}

		if rooms[idx] == nil {
			rooms[idx] = make(map[int]struct{})
		}
		rooms[idx][rec.Room] = struct{}{}
	}

	for d := range totals {
		totals[d].Occupied = len(rooms[d])
	}

	return totals
}

// ComputeMonthlyStats derives the per-submission averages from one month's
// records. roomCount is the establishment's total rooms (R) and daysInMonth
// the month length (D). Every ratio guards its zero denominator by
// reporting 0.
func ComputeMonthlyStats(records []model.OccupancyRecord, roomCount, daysInMonth int) model.MonthlyStats {
	days := DailyTotals(records, daysInMonth)

	var stats model.MonthlyStats
	for _, d := range days {
		stats.TotalCheckIns += d.CheckIns
		stats.TotalOvernight += d.Overnight
		stats.TotalOccupied += d.Occupied
	}

	occupiedAtLeastOnce := make(map[int]struct{})
	for _, rec := range records {
		occupiedAtLeastOnce[rec.Room] = struct{}{}
	}

	if stats.TotalCheckIns > 0 {
		stats.AverageGuestNights = float64(stats.TotalOvernight) / float64(stats.TotalCheckIns)
	}
	if roomCount > 0 && daysInMonth > 0 {
		stats.AverageRoomOccupancyRate = float64(stats.TotalOccupied) / float64(roomCount*daysInMonth) * 100
	}
	if n := len(occupiedAtLeastOnce); n > 0 {
		stats.AverageGuestsPerRoom = float64(stats.TotalOvernight) / float64(n)
	}

	return stats
}
