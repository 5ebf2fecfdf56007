package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tollgate/internal/application/admission/dto"
	"tollgate/internal/domain/admission"
	vo "tollgate/internal/domain/admission/valueobjects"
	"tollgate/internal/shared/logger"
)

// CompletePaymentUseCase handles a successful payment notification: bind the
// charge to the ledger record and admit the user to the channel.
type CompletePaymentUseCase struct {
	repo        admission.Repository
	transport   admission.Transport
	gateway     admission.Gateway
	channelLink string
	logger      logger.Interface

	retryBackoff time.Duration
}

// NewCompletePaymentUseCase creates a new CompletePaymentUseCase.
func NewCompletePaymentUseCase(
	repo admission.Repository,
	transport admission.Transport,
	gateway admission.Gateway,
	channelLink string,
	logger logger.Interface,
) *CompletePaymentUseCase {
	return &CompletePaymentUseCase{
		repo:         repo,
		transport:    transport,
		gateway:      gateway,
		channelLink:  channelLink,
		logger:       logger,
		retryBackoff: time.Second,
	}
}

// Execute applies the payment and drives the record toward admitted.
//
// Events that cannot belong to this workflow (foreign payload, charge bound
// elsewhere, illegal transition) are logged and dropped rather than surfaced:
// redelivering them could never succeed. Persistence failures are returned so
// the transport's at-least-once redelivery can retry the whole event.
func (uc *CompletePaymentUseCase) Execute(ctx context.Context, event dto.PaymentCompletedEvent) error {
	resourceID, userID, err := admission.DecodePayload(event.Payload)
	if err != nil {
		uc.logger.Warnw("ignoring payment with unrecognized payload",
			"payload", event.Payload,
			"charge_id", event.ChargeID,
		)
		return nil
	}

	record, err := uc.repo.MarkPaid(ctx, userID, event.ChargeID)
	switch {
	case err == nil:
	case errors.Is(err, admission.ErrNotFound):
		// Payment arrived with no join request on file (restart or
		// reordering). Payment is the stronger signal of intent.
		record, err = uc.repo.CreatePaid(ctx, userID, resourceID, event.ChargeID)
		if err != nil {
			return fmt.Errorf("failed to create paid record: %w", err)
		}
		uc.logger.Infow("created paid record for payment without prior join request",
			"user_id", userID,
			"charge_id", event.ChargeID,
		)
	case errors.Is(err, admission.ErrInvalidTransition), errors.Is(err, admission.ErrChargeConflict):
		uc.logger.Errorw("dropping payment that does not fit the ledger",
			"user_id", userID,
			"charge_id", event.ChargeID,
			"error", err,
		)
		return nil
	default:
		return fmt.Errorf("failed to mark admission paid: %w", err)
	}

	if record.Status() == vo.AdmissionStatusAdmitted {
		// Duplicate delivery after admission already completed.
		uc.logger.Debugw("payment already applied and user admitted",
			"user_id", userID,
			"charge_id", event.ChargeID,
		)
		return nil
	}

	uc.logger.Infow("payment applied",
		"user_id", userID,
		"charge_id", event.ChargeID,
		"amount", event.Amount,
	)

	return uc.admit(ctx, record.ResourceID(), userID, event.Amount)
}

func (uc *CompletePaymentUseCase) admit(ctx context.Context, resourceID, userID int64, amount int) error {
	err := approveWithRetry(ctx, uc.gateway, uc.logger, resourceID, userID, uc.retryBackoff)
	if err != nil {
		// The payment has cleared, so the record deliberately stays paid:
		// the money changed hands and the failure is recoverable by
		// administrative follow-up.
		uc.logger.Errorw("admission gateway rejected paid user",
			"user_id", userID,
			"chat_id", resourceID,
			"error", err,
		)
		uc.notify(ctx, userID, rejectionMessage(err))
		return nil
	}

	if err := uc.repo.MarkAdmitted(ctx, userID); err != nil {
		if errors.Is(err, admission.ErrInvalidTransition) {
			// A concurrent duplicate finished first.
			uc.logger.Debugw("admission already recorded", "user_id", userID)
			return nil
		}
		return fmt.Errorf("failed to record admission: %w", err)
	}

	uc.logger.Infow("user admitted", "user_id", userID, "chat_id", resourceID)
	uc.notify(ctx, userID, msgWelcome(amount, uc.channelLink))
	return nil
}

func (uc *CompletePaymentUseCase) notify(ctx context.Context, userID int64, text string) {
	if err := uc.transport.SendMessage(ctx, userID, text); err != nil {
		uc.logger.Debugw("failed to notify user",
			"user_id", userID,
			"error", err,
		)
	}
}

func rejectionMessage(err error) string {
	if errors.Is(err, admission.ErrUnavailable) {
		return msgAdmissionDelayed()
	}
	return msgAdmissionRejected()
}
