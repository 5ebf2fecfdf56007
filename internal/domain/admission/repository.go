package admission

import "context"

// Repository is the durable ledger of admission records. Implementations must
// apply each mutation as a single atomic unit: concurrent conflicting
// mutations for one user resolve to exactly one winner, and operations on
// different users never contend on a shared lock.
type Repository interface {
	// UpsertPending creates or resets the user's record to pending_payment,
	// clearing any previously bound charge.
	UpsertPending(ctx context.Context, userID, resourceID int64) error

	// MarkPaid transitions pending_payment → paid and binds the charge.
	// Returns the current record on success, including the idempotent case
	// where the same charge was already applied. Fails with ErrNotFound when
	// no record exists, ErrInvalidTransition when the current status does not
	// allow the transition, and ErrChargeConflict when the charge is bound to
	// another user.
	MarkPaid(ctx context.Context, userID int64, chargeID string) (*Admission, error)

	// CreatePaid creates a paid record for a payment that arrived with no
	// prior join request on file (restart or reordered delivery).
	CreatePaid(ctx context.Context, userID, resourceID int64, chargeID string) (*Admission, error)

	// MarkAdmitted transitions paid → admitted.
	MarkAdmitted(ctx context.Context, userID int64) error

	// MarkAdmittedWithoutCharge transitions pending_payment → admitted for
	// the undeliverable-invoice fallback.
	MarkAdmittedWithoutCharge(ctx context.Context, userID int64) error

	// MarkFailed transitions any non-terminal status to failed.
	MarkFailed(ctx context.Context, userID int64) error

	// Get returns the user's current record or ErrNotFound.
	Get(ctx context.Context, userID int64) (*Admission, error)
}
