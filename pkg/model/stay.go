package model

// Guest is the demographic payload attached to a stay. The ledger never
// interprets these fields beyond aggregation; they travel with every
// occupancy record the stay produces.
type Guest struct {
	Gender      string `json:"gender" bson:"gender" validate:"required,oneof=male female"`
	Age         int    `json:"age" bson:"age" validate:"required,min=1,max=120"`
	Status      string `json:"status" bson:"status" validate:"required,min=2,max=50"`
	Nationality string `json:"nationality" bson:"nationality" validate:"required,min=2,max=80"`
	IsCheckIn   bool   `json:"isCheckIn" bson:"isCheckIn"`
}

// Stay is one guest party's continuous occupancy of one room. The start
// date fields are authoritative and are never recomputed from occupancy
// records. StayID is assigned once at creation and survives edits so that
// historical records can be located and replaced.
type Stay struct {
	StayID       string  `json:"stayId" bson:"stayId" validate:"omitempty,uuid4"`
	Room         int     `json:"room" bson:"room" validate:"required,min=1"`
	StartDay     int     `json:"startDay" bson:"startDay" validate:"required,min=1,max=31"`
	StartMonth   int     `json:"startMonth" bson:"startMonth" validate:"required,min=1,max=12"`
	StartYear    int     `json:"startYear" bson:"startYear" validate:"required,min=2000,max=2100"`
	LengthOfStay int     `json:"lengthOfStay" bson:"lengthOfStay" validate:"required,min=1,max=365"`
	IsCheckIn    bool    `json:"isCheckIn" bson:"isCheckIn"`
	Guests       []Guest `json:"guests" bson:"guests" validate:"required,min=1,max=20,dive"`
}

// StayUpdate carries the fields editable in place under the same stayId:
// guest payload, length of stay, and the check-in flag. Room and start date
// changes are a remove-and-recreate, never an in-place edit.
//
// FromDay/FromMonth/FromYear identify the record the caller is editing
// from. Only the stay's start-day record is editable; an edit issued from
// any other record is rejected and the caller is directed to the start day.
type StayUpdate struct {
	LengthOfStay *int     `json:"lengthOfStay,omitempty" validate:"omitempty,min=1,max=365"`
	IsCheckIn    *bool    `json:"isCheckIn,omitempty"`
	Guests       *[]Guest `json:"guests,omitempty" validate:"omitempty,min=1,max=20,dive"`

	FromDay   int `json:"fromDay,omitempty" validate:"omitempty,min=1,max=31"`
	FromMonth int `json:"fromMonth,omitempty" validate:"omitempty,min=1,max=12"`
	FromYear  int `json:"fromYear,omitempty" validate:"omitempty,min=2000,max=2100"`
}
