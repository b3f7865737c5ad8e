package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrOrgInactive        = errors.New("organization is inactive")
	ErrUserInactive       = errors.New("user is inactive")
	ErrDuplicateEmail     = errors.New("email already exists for this organization")
	ErrDuplicateOrgSlug   = errors.New("organization slug already exists")

	// Range lifecycle and allocation errors.
	ErrRangeExists             = errors.New("range with this id already exists")
	ErrRangeOverlap            = errors.New("range bounds overlap an existing range for this year")
	ErrActiveRangeExists       = errors.New("another range is already active for this year")
	ErrInvalidStatusTransition = errors.New("invalid range status transition")
	ErrNoActiveRange           = errors.New("no active range for this year")
	ErrYearMismatch            = errors.New("donation year does not match range year")
	ErrRangeExhausted          = errors.New("range has no numbers remaining")
	ErrRangeNotActive          = errors.New("range is no longer active")
	ErrRangeDeleted            = errors.New("range no longer exists")
	ErrAllocationConflict      = errors.New("allocation lost the update race after retry")
	ErrVersionConflict         = errors.New("range was modified concurrently; refetch and retry")

	// Donor and donation errors.
	ErrDonorNotFound   = errors.New("donor not found")
	ErrAliasExists     = errors.New("donor alias already exists")
	ErrReceiptNotFound = errors.New("receipt not found")
	ErrReceiptExists   = errors.New("receipt number already recorded")
)

// ValidationError is returned when request input fails shape or format
// checks. It carries the offending field so callers can report it precisely.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
