package admission

import "errors"

var (
	// ErrNotFound is returned when no admission record exists for a user.
	ErrNotFound = errors.New("admission record not found")
	// ErrInvalidTransition is returned when a status change is not allowed
	// from the record's current status.
	ErrInvalidTransition = errors.New("invalid admission status transition")
	// ErrChargeConflict is returned when a charge ID is already bound to
	// another user's record. A charge confirms exactly one admission.
	ErrChargeConflict = errors.New("charge already bound to another admission")
	// ErrInvalidPayload is returned when an invoice payload does not match
	// the expected shape.
	ErrInvalidPayload = errors.New("invalid invoice payload")
)

// ErrUserUnreachable means the user cannot be messaged at all (the bot was
// blocked or the peer is itself a bot), as opposed to a transient delivery
// failure. Transport implementations wrap their platform error with it.
var ErrUserUnreachable = errors.New("user unreachable")

// Gateway outcomes. AlreadyResolved and Unauthorized are not retryable;
// Unavailable is retried by the caller with bounded backoff.
var (
	// ErrAlreadyResolved is returned when the join request no longer exists,
	// either because the user already joined or withdrew the request.
	ErrAlreadyResolved = errors.New("join request already resolved")
	// ErrUnauthorized is returned when the bot lacks permission to approve
	// join requests for the channel.
	ErrUnauthorized = errors.New("bot not authorized to approve join request")
	// ErrUnavailable is returned on transient transport or API failures.
	ErrUnavailable = errors.New("admission gateway unavailable")
)
