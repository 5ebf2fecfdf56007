package usecases

import (
	"context"
	"errors"
	"time"

	"tollgate/internal/domain/admission"
	"tollgate/internal/shared/logger"
)

const (
	gatewayMaxAttempts = 4
	gatewayMaxBackoff  = 30 * time.Second
)

// approveWithRetry calls the admission gateway, retrying only transient
// unavailability with exponential backoff. Retry policy lives here, not in
// the gateway, so the ledger stays the single source of truth about what
// has actually been applied.
func approveWithRetry(
	ctx context.Context,
	gw admission.Gateway,
	log logger.Interface,
	resourceID, userID int64,
	baseBackoff time.Duration,
) error {
	backoff := baseBackoff
	var err error
	for attempt := 1; attempt <= gatewayMaxAttempts; attempt++ {
		err = gw.Approve(ctx, resourceID, userID)
		if err == nil || !errors.Is(err, admission.ErrUnavailable) {
			return err
		}
		if attempt == gatewayMaxAttempts {
			break
		}
		log.Warnw("admission gateway unavailable, retrying",
			"user_id", userID,
			"attempt", attempt,
			"backoff", backoff,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, gatewayMaxBackoff)
	}
	return err
}
