package services

import "errors"

// Service-level failures. Handlers map these onto HTTP statuses; anything
// else bubbles up as a 500.
var (
	ErrNotFound             = errors.New("record not found")
	ErrForbidden            = errors.New("no permission for this reservation")
	ErrInvalidRole          = errors.New("invalid role")
	ErrNoTrainers           = errors.New("no trainers are registered")
	ErrNoTrainerAssigned    = errors.New("no trainer assigned")
	ErrNoCredits            = errors.New("no remaining PT sessions")
	ErrDuplicateReservation = errors.New("reservation already exists for this slot")
	ErrAlreadyCancelled     = errors.New("reservation is already cancelled")
	ErrCancelWindowPassed   = errors.New("reservations can only be cancelled more than 24 hours before the session")
	ErrSessionFinished      = errors.New("cannot cancel a session that has already finished")
)
