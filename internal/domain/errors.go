package domain

import "errors"

// Domain errors
var (
	// Catalog errors
	ErrEventNotFound      = errors.New("event not found")
	ErrVenueNotFound      = errors.New("venue not found")
	ErrDJNotFound         = errors.New("dj not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrInvalidTicketType  = errors.New("ticket type not offered for this event")
	ErrInvalidPriceRange  = errors.New("unknown price range")
	ErrInvalidEventVenue  = errors.New("event venue does not exist")
	ErrInvalidEventDJ     = errors.New("event dj does not exist")
	ErrMissingRequiredArg = errors.New("missing required field")

	// Pricing errors
	ErrSoldOut      = errors.New("ticket type is sold out")
	ErrNoTranche    = errors.New("no tranche available for current sales")
	ErrInvalidPrice = errors.New("computed price must be greater than zero")

	// Confirmation errors
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedPayload = errors.New("malformed webhook payload")
	ErrAlreadyProcessed = errors.New("payment already processed")
	ErrPersistence      = errors.New("failed to persist ticket")

	// Access errors
	ErrForbidden = errors.New("not allowed to perform this action")

	// Ticket errors
	ErrTicketAlreadyValidated = errors.New("ticket already validated")

	// Review errors
	ErrDuplicateReview = errors.New("duplicate review")
	ErrNotAttendee     = errors.New("reviewer did not attend this event")
	ErrInvalidTarget   = errors.New("review target is not part of this event")
)

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrVenueNotFound) ||
		errors.Is(err, ErrDJNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrTicketNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidTranches) ||
		errors.Is(err, ErrNegativeSoldCount) ||
		errors.Is(err, ErrDuplicateTicketType) ||
		errors.Is(err, ErrEmptyTicketTypeName) ||
		errors.Is(err, ErrInvalidTicketType) ||
		errors.Is(err, ErrInvalidPriceRange) ||
		errors.Is(err, ErrInvalidEventVenue) ||
		errors.Is(err, ErrInvalidEventDJ) ||
		errors.Is(err, ErrMissingRequiredArg) ||
		errors.Is(err, ErrInvalidRating) ||
		errors.Is(err, ErrInvalidTargetType) ||
		errors.Is(err, ErrInvalidTarget)
}

// IsSoldOutError checks if pricing is exhausted
func IsSoldOutError(err error) bool {
	return errors.Is(err, ErrSoldOut) || errors.Is(err, ErrNoTranche)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrDuplicateReview) ||
		errors.Is(err, ErrTicketAlreadyValidated) ||
		errors.Is(err, ErrAlreadyProcessed)
}
