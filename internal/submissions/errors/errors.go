package errors

import "errors"

var (
	ErrNotFound  = errors.New("submission not found")
	ErrInvalidID = errors.New("invalid submission id")

	// ErrDuplicatePeriod: the owner already finalized this (year, month).
	// Submissions are immutable; a correction is a new administrative
	// process, not a resubmission.
	ErrDuplicatePeriod = errors.New("period already submitted")
)
