package ledger

import (
	"math"
	"testing"

	"tdms/pkg/model"
)

func TestDailyTotals_SingleStay(t *testing.T) {
	// Ten-room establishment, one check-in: room 1, day 5, three nights.
	l := New()
	key := model.MonthKey{Year: 2025, Month: 1}
	loadEmpty(l, key)
	l.Materialize(testStay("stay-1", 1, 5, 1, 2025, 3))

	days := DailyTotals(l.Records(key), 31)

	expect := map[int]model.DayTotals{
		5: {Day: 5, CheckIns: 1, Overnight: 1, Occupied: 1},
		6: {Day: 6, CheckIns: 0, Overnight: 1, Occupied: 1},
		7: {Day: 7, CheckIns: 0, Overnight: 1, Occupied: 1},
		8: {Day: 8, CheckIns: 0, Overnight: 0, Occupied: 0},
	}
	for day, want := range expect {
		got := days[day-1]
		if got != want {
			t.Errorf("day %d totals = %+v, want %+v", day, got, want)
		}
	}
}

func TestDailyTotals_MultipleRoomsSameDay(t *testing.T) {
	l := New()
	key := model.MonthKey{Year: 2025, Month: 1}
	loadEmpty(l, key)

	twoGuests := testStay("stay-1", 1, 10, 1, 2025, 2)
	twoGuests.Guests = append(twoGuests.Guests, model.Guest{
		Gender: "female", Age: 28, Status: "married", Nationality: "Korean",
	})
	l.Materialize(twoGuests)
	l.Materialize(testStay("stay-2", 2, 10, 1, 2025, 1))

	// A continuing guest (not a new arrival) contributes to overnight but
	// never to check-ins.
	carryOver := testStay("stay-3", 3, 10, 1, 2025, 2)
	carryOver.IsCheckIn = false
	l.Materialize(carryOver)

	days := DailyTotals(l.Records(key), 31)
	day10 := days[9]

	if day10.CheckIns != 3 {
		t.Errorf("day 10 checkIns = %d, want 3 (2 + 1, carry-over excluded)", day10.CheckIns)
	}
	if day10.Overnight != 4 {
		t.Errorf("day 10 overnight = %d, want 4", day10.Overnight)
	}
	if day10.Occupied != 3 {
		t.Errorf("day 10 occupied = %d, want 3 distinct rooms", day10.Occupied)
	}
}

func TestComputeMonthlyStats_SingleStayMonth(t *testing.T) {
	l := New()
	key := model.MonthKey{Year: 2025, Month: 1}
	loadEmpty(l, key)
	l.Materialize(testStay("stay-1", 1, 5, 1, 2025, 3))

	stats := ComputeMonthlyStats(l.Records(key), 10, 31)

	if stats.TotalCheckIns != 1 {
		t.Errorf("totalCheckIns = %d, want 1", stats.TotalCheckIns)
	}
	if stats.TotalOvernight != 3 {
		t.Errorf("totalOvernight = %d, want 3", stats.TotalOvernight)
	}
	if stats.AverageGuestNights != 3.0 {
		t.Errorf("averageGuestNights = %.2f, want 3.00", stats.AverageGuestNights)
	}

	wantRate := 3.0 / (10 * 31) * 100
	if math.Abs(stats.AverageRoomOccupancyRate-wantRate) > 1e-9 {
		t.Errorf("averageRoomOccupancyRate = %f, want %f", stats.AverageRoomOccupancyRate, wantRate)
	}
	if stats.AverageGuestsPerRoom != 3.0 {
		t.Errorf("averageGuestsPerRoom = %f, want 3.0 (3 guest-nights / 1 room)", stats.AverageGuestsPerRoom)
	}
}

func TestComputeMonthlyStats_ZeroDenominators(t *testing.T) {
	stats := ComputeMonthlyStats(nil, 10, 30)

	if stats.AverageGuestNights != 0 {
		t.Errorf("averageGuestNights = %f, want 0", stats.AverageGuestNights)
	}
	if stats.AverageRoomOccupancyRate != 0 {
		t.Errorf("averageRoomOccupancyRate = %f, want 0", stats.AverageRoomOccupancyRate)
	}
	if stats.AverageGuestsPerRoom != 0 {
		t.Errorf("averageGuestsPerRoom = %f, want 0", stats.AverageGuestsPerRoom)
	}
}

func TestComputeMonthlyStats_CarryOverOnly(t *testing.T) {
	// A month holding only continuing guests has occupancy but no
	// check-ins; the guest-nights ratio must stay 0, not divide by zero.
	l := New()
	key := model.MonthKey{Year: 2025, Month: 2}
	loadEmpty(l, key)

	carryOver := testStay("stay-c", 1, 1, 2, 2025, 5)
	carryOver.IsCheckIn = false
	l.Materialize(carryOver)

	stats := ComputeMonthlyStats(l.Records(key), 5, 28)

	if stats.TotalCheckIns != 0 {
		t.Errorf("totalCheckIns = %d, want 0", stats.TotalCheckIns)
	}
	if stats.TotalOvernight != 5 {
		t.Errorf("totalOvernight = %d, want 5", stats.TotalOvernight)
	}
	if stats.AverageGuestNights != 0 {
		t.Errorf("averageGuestNights = %f, want 0", stats.AverageGuestNights)
	}
}
