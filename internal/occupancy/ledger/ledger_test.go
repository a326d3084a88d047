package ledger

import (
	"errors"
	"testing"

	occuerrors "tdms/internal/occupancy/errors"
	"tdms/pkg/model"
)

func testStay(stayID string, room, day, month, year, nights int) *model.Stay {
	return &model.Stay{
		StayID:       stayID,
		Room:         room,
		StartDay:     day,
		StartMonth:   month,
		StartYear:    year,
		LengthOfStay: nights,
		IsCheckIn:    true,
		Guests: []model.Guest{
			{Gender: "male", Age: 30, Status: "single", Nationality: "Filipino"},
		},
	}
}

func loadEmpty(l *Ledger, keys ...model.MonthKey) {
	for _, k := range keys {
		l.LoadBucket(k, nil)
	}
}

func TestMaterialize_Completeness(t *testing.T) {
	l := New()
	loadEmpty(l, model.MonthKey{Year: 2025, Month: 1})

	stay := testStay("stay-1", 2, 5, 1, 2025, 4)
	affected := l.Materialize(stay)

	if len(affected) != 1 || affected[0] != (model.MonthKey{Year: 2025, Month: 1}) {
		t.Fatalf("expected one affected bucket 2025-01, got %v", affected)
	}
	if got := l.CountRecords("stay-1"); got != 4 {
		t.Fatalf("expected 4 records, got %d", got)
	}

	starts := 0
	for _, rec := range l.Records(model.MonthKey{Year: 2025, Month: 1}) {
		if rec.StayID != "stay-1" {
			continue
		}
		if rec.IsStartDay {
			starts++
			if rec.Day != 5 {
				t.Errorf("start-day record on day %d, want 5", rec.Day)
			}
			if !rec.IsCheckIn || !rec.Guests[0].IsCheckIn {
				t.Error("expected check-in flags on the start-day record")
			}
		} else {
			if rec.IsCheckIn || rec.Guests[0].IsCheckIn {
				t.Errorf("day %d: check-in flags must be false off the start day", rec.Day)
			}
		}
		if rec.StartDay != 5 || rec.StartMonth != 1 || rec.StartYear != 2025 {
			t.Errorf("day %d: start date not carried on record", rec.Day)
		}
		if rec.LengthOfStay != 4 {
			t.Errorf("day %d: lengthOfStay = %d, want 4", rec.Day, rec.LengthOfStay)
		}
	}
	if starts != 1 {
		t.Errorf("expected exactly one start-day record, got %d", starts)
	}
}

func TestMaterialize_CrossMonthSpan(t *testing.T) {
	// Stay starting day 30 of a 30-day month, length 3: one record in the
	// origin month, two in the following month.
	l := New()
	june := model.MonthKey{Year: 2025, Month: 6}
	july := model.MonthKey{Year: 2025, Month: 7}
	loadEmpty(l, june, july)

	stay := testStay("stay-span", 1, 30, 6, 2025, 3)
	affected := l.Materialize(stay)

	if len(affected) != 2 {
		t.Fatalf("expected 2 affected buckets, got %v", affected)
	}

	juneRecs := l.Records(june)
	if len(juneRecs) != 1 || juneRecs[0].Day != 30 || !juneRecs[0].IsStartDay {
		t.Fatalf("expected single start-day record on June 30, got %+v", juneRecs)
	}

	julyRecs := l.Records(july)
	if len(julyRecs) != 2 {
		t.Fatalf("expected 2 July records, got %d", len(julyRecs))
	}
	for i, wantDay := range []int{1, 2} {
		if julyRecs[i].Day != wantDay {
			t.Errorf("July record %d on day %d, want %d", i, julyRecs[i].Day, wantDay)
		}
		if julyRecs[i].IsStartDay {
			t.Errorf("July day %d must not be a start-day record", julyRecs[i].Day)
		}
		if julyRecs[i].StartDay != 30 || julyRecs[i].StartMonth != 6 {
			t.Errorf("July day %d: start date not preserved", julyRecs[i].Day)
		}
	}
}

func TestMaterialize_YearRollover(t *testing.T) {
	l := New()
	dec := model.MonthKey{Year: 2025, Month: 12}
	jan := model.MonthKey{Year: 2026, Month: 1}
	loadEmpty(l, dec, jan)

	l.Materialize(testStay("stay-ny", 3, 30, 12, 2025, 4))

	if got := len(l.Records(dec)); got != 2 {
		t.Errorf("expected 2 December records, got %d", got)
	}
	janRecs := l.Records(jan)
	if len(janRecs) != 2 || janRecs[0].Day != 1 || janRecs[1].Day != 2 {
		t.Errorf("expected January records on days 1 and 2, got %+v", janRecs)
	}
}

func TestMaterialize_IdempotentReplay(t *testing.T) {
	l := New()
	key := model.MonthKey{Year: 2025, Month: 3}
	loadEmpty(l, key)

	stay := testStay("stay-edit", 4, 10, 3, 2025, 5)
	l.Materialize(stay)
	l.Materialize(stay)

	if got := l.CountRecords("stay-edit"); got != 5 {
		t.Errorf("replaying a stay must not duplicate records: got %d, want 5", got)
	}
}

func TestMaterialize_ShortenedStayDropsTail(t *testing.T) {
	// An edit that shortens a cross-month stay must clean the abandoned
	// tail bucket and report it as affected.
	l := New()
	jan := model.MonthKey{Year: 2025, Month: 1}
	feb := model.MonthKey{Year: 2025, Month: 2}
	loadEmpty(l, jan, feb)

	long := testStay("stay-shrink", 1, 30, 1, 2025, 5)
	l.Materialize(long)
	if got := len(l.Records(feb)); got != 3 {
		t.Fatalf("setup: expected 3 February records, got %d", got)
	}

	short := testStay("stay-shrink", 1, 30, 1, 2025, 2)
	affected := l.Materialize(short)

	if got := len(l.Records(feb)); got != 0 {
		t.Errorf("expected tail records removed from February, got %d", got)
	}
	if len(affected) != 2 {
		t.Errorf("expected both buckets reported affected, got %v", affected)
	}
	if got := l.CountRecords("stay-shrink"); got != 2 {
		t.Errorf("expected 2 records after shrink, got %d", got)
	}
}

func TestFindConflict(t *testing.T) {
	l := New()
	jan := model.MonthKey{Year: 2025, Month: 1}
	feb := model.MonthKey{Year: 2025, Month: 2}
	loadEmpty(l, jan, feb)

	l.Materialize(testStay("stay-a", 1, 10, 1, 2025, 3)) // Jan 10-12, room 1

	tests := []struct {
		name     string
		room     int
		day      int
		nights   int
		exclude  string
		wantDay  int
		conflict bool
	}{
		{"exact overlap", 1, 10, 3, "", 10, true},
		{"partial overlap from before", 1, 8, 3, "", 10, true},
		{"tail overlap", 1, 12, 2, "", 12, true},
		{"adjacent before is free", 1, 7, 3, "", 0, false},
		{"adjacent after is free", 1, 13, 3, "", 0, false},
		{"other room is free", 2, 10, 3, "", 0, false},
		{"self excluded", 1, 10, 3, "stay-a", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := l.FindConflict(tt.room, tt.day, 1, 2025, tt.nights, tt.exclude)
			if tt.conflict {
				if c == nil {
					t.Fatal("expected a conflict, got none")
				}
				if c.Day != tt.wantDay || c.Month != 1 || c.Year != 2025 {
					t.Errorf("conflict at %d/%d/%d, want day %d", c.Day, c.Month, c.Year, tt.wantDay)
				}
			} else if c != nil {
				t.Fatalf("expected no conflict, got %+v", c)
			}
		})
	}
}

func TestFindConflict_AcrossMonthBoundary(t *testing.T) {
	l := New()
	jan := model.MonthKey{Year: 2025, Month: 1}
	feb := model.MonthKey{Year: 2025, Month: 2}
	loadEmpty(l, jan, feb)

	// Room 1 held Feb 1-2 by an existing stay.
	l.Materialize(testStay("stay-feb", 1, 1, 2, 2025, 2))

	// Candidate starting Jan 30 for 4 nights walks into February and must
	// report the first conflicting day there.
	c := l.FindConflict(1, 30, 1, 2025, 4, "")
	if c == nil {
		t.Fatal("expected a cross-month conflict")
	}
	if c.Day != 1 || c.Month != 2 || c.Year != 2025 {
		t.Errorf("conflict at %d/%d/%d, want 1/2/2025", c.Day, c.Month, c.Year)
	}
}

func TestRemove_CascadesAcrossBuckets(t *testing.T) {
	l := New()
	jan := model.MonthKey{Year: 2025, Month: 1}
	feb := model.MonthKey{Year: 2025, Month: 2}
	loadEmpty(l, jan, feb)

	l.Materialize(testStay("stay-x", 2, 31, 1, 2025, 3))
	l.Materialize(testStay("stay-keep", 3, 31, 1, 2025, 3))

	affected, err := l.Remove("stay-x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(affected) != 2 {
		t.Fatalf("expected removal to touch both buckets, got %v", affected)
	}
	if got := l.CountRecords("stay-x"); got != 0 {
		t.Errorf("expected all stay-x records gone, got %d", got)
	}
	if got := l.CountRecords("stay-keep"); got != 3 {
		t.Errorf("unrelated stay must be untouched, got %d records", got)
	}
}

func TestRemove_StartDayViolationAborts(t *testing.T) {
	l := New()
	key := model.MonthKey{Year: 2025, Month: 4}
	l.LoadBucket(key, []model.OccupancyRecord{
		{Day: 1, Room: 1, StayID: "bad", IsStartDay: true, StartDay: 1, StartMonth: 4, StartYear: 2025, LengthOfStay: 2},
		{Day: 2, Room: 1, StayID: "bad", IsStartDay: true, StartDay: 1, StartMonth: 4, StartYear: 2025, LengthOfStay: 2},
	})

	_, err := l.Remove("bad")
	if !errors.Is(err, occuerrors.ErrStartDayViolation) {
		t.Fatalf("expected ErrStartDayViolation, got %v", err)
	}
	if got := l.CountRecords("bad"); got != 2 {
		t.Errorf("aborted removal must not mutate state, got %d records", got)
	}
}

func TestNoDoubleBooking_Property(t *testing.T) {
	// Two distinct stays in one room can never share a day: the detector
	// must reject any candidate that would overlap, across boundaries.
	l := New()
	loadEmpty(l,
		model.MonthKey{Year: 2025, Month: 1},
		model.MonthKey{Year: 2025, Month: 2},
	)
	l.Materialize(testStay("stay-a", 1, 28, 1, 2025, 6)) // Jan 28 - Feb 2

	for day := 23; day <= 33; day++ {
		d, m := day, 1
		if day > 31 {
			d, m = day-31, 2
		}
		c := l.FindConflict(1, d, m, 2025, 6, "")
		overlapExpected := day >= 23 && day <= 33 // any 6-night window from here hits Jan 28-Feb 2
		if overlapExpected && c == nil {
			t.Errorf("candidate starting %d/%d should conflict", d, m)
		}
	}
}

func TestStayKeysAndStartRecord(t *testing.T) {
	l := New()
	dec := model.MonthKey{Year: 2025, Month: 12}
	jan := model.MonthKey{Year: 2026, Month: 1}
	loadEmpty(l, dec, jan)

	l.Materialize(testStay("stay-k", 5, 31, 12, 2025, 2))

	keys := l.StayKeys("stay-k")
	if len(keys) != 2 || keys[0] != dec || keys[1] != jan {
		t.Errorf("expected chronological keys [dec jan], got %v", keys)
	}

	rec, key, ok := l.StartRecord("stay-k")
	if !ok || key != dec || rec.Day != 31 {
		t.Errorf("expected start record on Dec 31, got %+v in %v (ok=%v)", rec, key, ok)
	}
}

func TestSpanKeys(t *testing.T) {
	keys := SpanKeys(30, 12, 2025, 40)
	want := []model.MonthKey{
		{Year: 2025, Month: 12},
		{Year: 2026, Month: 1},
		{Year: 2026, Month: 2},
	}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %v", len(want), keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d = %v, want %v", i, keys[i], want[i])
		}
	}
}

func TestStayFromRecord(t *testing.T) {
	l := New()
	key := model.MonthKey{Year: 2025, Month: 5}
	loadEmpty(l, key)

	original := testStay("stay-r", 7, 12, 5, 2025, 3)
	l.Materialize(original)

	rec, _, ok := l.StartRecord("stay-r")
	if !ok {
		t.Fatal("start record not found")
	}

	stay := StayFromRecord(rec)
	if stay.StayID != "stay-r" || stay.Room != 7 || stay.StartDay != 12 ||
		stay.LengthOfStay != 3 || !stay.IsCheckIn {
		t.Errorf("reconstructed stay mismatch: %+v", stay)
	}
	if len(stay.Guests) != 1 || stay.Guests[0].Nationality != "Filipino" {
		t.Errorf("guest payload not carried: %+v", stay.Guests)
	}
}
