package entity

import (
	"errors"
)

var (
	// ErrFlightNumberRequired blocks a flight-level search without a flight number
	ErrFlightNumberRequired = errors.New("flight number is mandatory")

	// ErrBookingNotFound indicates a booking ID absent from the repository
	ErrBookingNotFound = errors.New("booking not found")

	// ErrEmptySelection indicates a run launch without any selected bookings
	ErrEmptySelection = errors.New("selection is empty")

	// ErrInactiveSelection indicates a selected booking that is not ACTIVE
	ErrInactiveSelection = errors.New("selection contains a non-active booking")

	// ErrRunNotFound indicates a run ID absent from the run store
	ErrRunNotFound = errors.New("run not found")

	// ErrInvalidRunState indicates a state transition the run lifecycle forbids
	ErrInvalidRunState = errors.New("invalid run state transition")
)
