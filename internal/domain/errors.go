package domain

import "errors"

var (
	ErrEventNotAcceptingRegistrations = errors.New("event is not accepting registrations")
	ErrEventSoldOut                   = errors.New("event sold out")
	ErrValidation                     = errors.New("validation error")
	ErrTicketNotFound                 = errors.New("ticket not found")
	ErrEventNotFound                  = errors.New("event not found")
	ErrInvalidID                      = errors.New("invalid id")
	ErrInvalidStatusTransition        = errors.New("invalid status transition")
	ErrTicketNumberTaken              = errors.New("ticket number already taken")
	ErrTenantRequired                 = errors.New("tenant id required")
	ErrUserRequired                   = errors.New("user id required")
)

// ValidationError carries the offending field; it matches ErrValidation via errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
