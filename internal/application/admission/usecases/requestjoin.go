package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tollgate/internal/application/admission/dto"
	"tollgate/internal/domain/admission"
	"tollgate/internal/shared/logger"
)

// RequestJoinUseCase handles an inbound chat join request: record it as
// pending and send the user a Stars invoice.
type RequestJoinUseCase struct {
	repo       admission.Repository
	issuer     *admission.ChargeIssuer
	transport  admission.Transport
	gateway    admission.Gateway
	resourceID int64
	logger     logger.Interface

	// retryBackoff is the base backoff for gateway retries during the
	// direct-admission fallback. Shortened in tests.
	retryBackoff time.Duration
}

// NewRequestJoinUseCase creates a new RequestJoinUseCase gating the given channel.
func NewRequestJoinUseCase(
	repo admission.Repository,
	issuer *admission.ChargeIssuer,
	transport admission.Transport,
	gateway admission.Gateway,
	resourceID int64,
	logger logger.Interface,
) *RequestJoinUseCase {
	return &RequestJoinUseCase{
		repo:         repo,
		issuer:       issuer,
		transport:    transport,
		gateway:      gateway,
		resourceID:   resourceID,
		logger:       logger,
		retryBackoff: time.Second,
	}
}

// Execute records the join request and issues the charge.
func (uc *RequestJoinUseCase) Execute(ctx context.Context, event dto.JoinRequestEvent) error {
	if event.ResourceID != uc.resourceID {
		uc.logger.Debugw("ignoring join request for unrelated chat",
			"user_id", event.UserID,
			"chat_id", event.ResourceID,
		)
		return nil
	}

	if err := uc.repo.UpsertPending(ctx, event.UserID, event.ResourceID); err != nil {
		return fmt.Errorf("failed to record join request: %w", err)
	}

	uc.logger.Infow("join request recorded",
		"user_id", event.UserID,
		"username", event.Username,
		"chat_id", event.ResourceID,
	)

	charge := uc.issuer.Issue(event.UserID, event.ResourceID)
	err := uc.transport.SendCharge(ctx, charge)
	if err == nil {
		return nil
	}

	if errors.Is(err, admission.ErrUserUnreachable) {
		// The payer cannot receive the invoice at all. Observed policy:
		// admit directly rather than leave the request stuck. This trades
		// payment for convenience whenever the delivery channel is degraded.
		uc.logger.Warnw("charge undeliverable, admitting without payment",
			"user_id", event.UserID,
			"error", err,
		)
		return uc.admitDirectly(ctx, event.UserID)
	}

	uc.logger.Errorw("failed to deliver charge",
		"user_id", event.UserID,
		"error", err,
	)
	if sendErr := uc.transport.SendMessage(ctx, event.UserID, msgChargeSendFailed()); sendErr != nil {
		uc.logger.Debugw("failed to notify user about charge delivery failure",
			"user_id", event.UserID,
			"error", sendErr,
		)
	}
	// The record stays pending_payment; a re-request starts a fresh cycle.
	return nil
}

func (uc *RequestJoinUseCase) admitDirectly(ctx context.Context, userID int64) error {
	if err := approveWithRetry(ctx, uc.gateway, uc.logger, uc.resourceID, userID, uc.retryBackoff); err != nil {
		uc.logger.Errorw("direct admission failed",
			"user_id", userID,
			"error", err,
		)
		if markErr := uc.repo.MarkFailed(ctx, userID); markErr != nil {
			return fmt.Errorf("failed to mark admission failed: %w", markErr)
		}
		return nil
	}

	if err := uc.repo.MarkAdmittedWithoutCharge(ctx, userID); err != nil {
		return fmt.Errorf("failed to record direct admission: %w", err)
	}

	uc.logger.Infow("user admitted without charge", "user_id", userID)
	return nil
}
