package admission

import "context"

// Gateway wraps the single external call that admits a user to the channel.
// It performs no retries of its own; retry policy belongs to the caller so
// the ledger stays the single source of truth. Approve returns nil,
// ErrAlreadyResolved, ErrUnauthorized, or ErrUnavailable.
type Gateway interface {
	Approve(ctx context.Context, resourceID, userID int64) error
}
