package errors

import "errors"

var (
	ErrStayNotFound = errors.New("stay not found")

	// ErrNotStartDay: an edit was issued from a record other than the
	// stay's start day. Only the start-day record holds the authoritative
	// guest and length fields.
	ErrNotStartDay = errors.New("record is not the stay's start day")

	// ErrStartDayViolation: more than one start-day record exists for a
	// single stayId. This should never happen; the operation that detects
	// it is aborted rather than allowed to corrupt further state.
	ErrStartDayViolation = errors.New("stay has multiple start-day records")
)
