package model

import "fmt"

// OccupancyRecord is the per-day materialization of a Stay: one record per
// (day, room) the stay covers. The field names are the wire and storage
// contract shared with previously persisted drafts and must not change.
//
// IsStartDay is true on exactly one record per stayId, the one whose date
// equals the stay's start date. IsCheckIn (record-level and guest-level) is
// true only on that record, and only when the stay itself is a check-in.
type OccupancyRecord struct {
	Day          int     `json:"day" bson:"day"`
	Room         int     `json:"room" bson:"room"`
	Guests       []Guest `json:"guests" bson:"guests"`
	LengthOfStay int     `json:"lengthOfStay" bson:"lengthOfStay"`
	IsCheckIn    bool    `json:"isCheckIn" bson:"isCheckIn"`
	StayID       string  `json:"stayId" bson:"stayId"`
	StartDay     int     `json:"startDay" bson:"startDay"`
	StartMonth   int     `json:"startMonth" bson:"startMonth"`
	StartYear    int     `json:"startYear" bson:"startYear"`
	IsStartDay   bool    `json:"isStartDay" bson:"isStartDay"`
}

// MonthKey identifies one month bucket, the unit of persistence exchanged
// with the draft store. A structured key, deliberately not a concatenated
// "year-month" string.
type MonthKey struct {
	Year  int `json:"year" bson:"year"`
	Month int `json:"month" bson:"month"`
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, k.Month)
}

// DayTotals are the per-day aggregates derived from a month bucket.
type DayTotals struct {
	Day       int `json:"day" bson:"day"`
	CheckIns  int `json:"checkIns" bson:"checkIns"`
	Overnight int `json:"overnight" bson:"overnight"`
	Occupied  int `json:"occupied" bson:"occupied"`
}

// MonthlyStats are the per-submission averages over a full month. All
// ratios report 0 instead of failing on a zero denominator.
type MonthlyStats struct {
	TotalCheckIns            int     `json:"totalCheckIns" bson:"totalCheckIns"`
	TotalOvernight           int     `json:"totalOvernight" bson:"totalOvernight"`
	TotalOccupied            int     `json:"totalOccupied" bson:"totalOccupied"`
	AverageGuestNights       float64 `json:"averageGuestNights" bson:"averageGuestNights"`
	AverageRoomOccupancyRate float64 `json:"averageRoomOccupancyRate" bson:"averageRoomOccupancyRate"`
	AverageGuestsPerRoom     float64 `json:"averageGuestsPerRoom" bson:"averageGuestsPerRoom"`
}
