package model

import "time"

// Submission is the immutable record produced when a reporting period is
// finalized. It carries the per-day totals, the full set of occupancy
// records, and the derived monthly statistics as they stood at submission
// time. IsLate is set from the deadline policy; penalty amounts are decided
// elsewhere.
type Submission struct {
	ID          string            `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID     string            `json:"ownerId" bson:"ownerId"`
	Year        int               `json:"year" bson:"year"`
	Month       int               `json:"month" bson:"month"`
	RoomCount   int               `json:"roomCount" bson:"roomCount"`
	Days        []DayTotals       `json:"days" bson:"days"`
	Records     []OccupancyRecord `json:"records" bson:"records"`
	Stats       MonthlyStats      `json:"stats" bson:"stats"`
	IsLate      bool              `json:"isLate" bson:"isLate"`
	SubmittedAt time.Time         `json:"submittedAt" bson:"submittedAt"`
}

// FinalizeRequest is the payload accepted when finalizing a period. The
// room count comes from the establishment profile held by the caller.
type FinalizeRequest struct {
	RoomCount int `json:"roomCount" validate:"required,min=1,max=1000"`
}
